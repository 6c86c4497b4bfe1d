// Package compose implements the pipeline invocation contract: the single
// public Compose function that ties together validation, spec resolution,
// package fetching, introspection, capability wrapping, and graph encoding
// into one call producing a composed component on disk.
package compose
