// Package composition implements the Service Registry: within a single
// composition, tracking which component instances are in the graph and
// what interfaces they export.
//
// Exports are indexed by both base name (the interface name up to "@")
// and full versioned name. When two registered services export the same
// base name, the most-recently-registered service wins: registration order
// is override precedence, and an export registered later always shadows
// one with the same base name registered earlier. The graph builder
// registers the terminal handler first, then the middlewares innermost to
// outermost, then the transport.
//
// A Registry is scoped to one composition: it is never shared across
// Compose calls.
package composition
