// Package component holds the shared domain types of the composition
// engine: interface names, component artifacts, and package specs. These
// types are kept at the root of their own package (rather than duplicated
// or defined deep in whichever package first needs them) so that
// internal/resolve, internal/pkgclient, internal/introspect,
// internal/composition, internal/wrap, and internal/graph can all depend
// on one shared vocabulary without import cycles.
package component
