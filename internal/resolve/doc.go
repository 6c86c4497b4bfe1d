// Package resolve implements the Spec Resolver: turning a textual pipeline
// entry ("alias", "ns:pkg@ver", "./path") into a concrete local artifact
// path.
//
// Resolution tries, in order: local-path heuristics, then the
// configuration store (an alias recurses, tracked against a visited set
// with a depth limit of 16), then a registry reference handed to the
// package client. This package supplies the Go-native plumbing between
// internal/store and internal/pkgclient.
package resolve
