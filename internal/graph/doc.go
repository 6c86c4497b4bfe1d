// Package graph implements the Graph Builder & Encoder: wiring a pipeline
// of handlers, plus the framework transport and terminal handler, into a
// single encoded component.
//
// Graph holds Package nodes (one per distinct artifact path) and Instance
// nodes (one per instantiation), connected by Edges from an instance's
// aliased export into another instance's argument slot. Instance creation
// order is tracked so the builder enumerates slots and edges in a stable,
// test-reproducible order, and each instance moves through the state
// machine Loaded -> Instantiated -> Wired -> Sealed as the builder fills
// its argument slots and finally aliases one of its exports into the
// graph's terminal export.
//
// Encode serializes the sealed graph into a single component binary.
// Section framing (LEB128 lengths, section ids) is implemented directly
// against the binary format because no library in the pack performs full
// component linking/encoding end-to-end (see DESIGN.md).
package graph
