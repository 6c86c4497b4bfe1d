// Package introspect implements the Introspector: recovering a component
// binary's import and export interface sets.
//
// Decoding walks the component's embedded WIT world via
// go.bytecodealliance.org/wit and flattens it into fully-versioned
// component.InterfaceName sets, skipping interface names with no package
// (bare implementation types, not protocol contracts). Results are
// memoized by sha256 of the artifact's file content in an in-process
// sync.Map, so re-inspecting the same bytes across a single composition
// never re-parses the binary -- the cache does not persist across process
// runs.
package introspect
