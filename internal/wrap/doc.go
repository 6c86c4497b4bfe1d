// Package wrap implements the Wrapper Engine: it classifies each pipeline
// middleware as either a handler (used as-is) or a capability
// (tools, resources, or prompts) that must be adapted into a handler before
// it can take a place in the pipeline.
//
// A capability is wrapped by composing it with the matching middleware
// adapter pulled from framework dependencies: a fresh two-node
// internal/graph.Graph wires the capability's export into the adapter's
// import, aliases the adapter's resulting handler export as the graph's
// terminal, and encodes the pair into one component written to the
// dependency cache under a reserved filename prefix.
package wrap
