// Package composeerr defines the structured error taxonomy shared by every
// stage of the composition engine: spec resolution, package fetch,
// introspection, graph building, configuration persistence, and input
// validation.
//
// Every failure the engine surfaces to a caller is an *Error with a fixed
// Kind (one of the six taxonomy kinds from the pipeline invocation
// contract), an optional Reason sub-code distinguishing causes within a
// Kind (e.g. "cycle" vs "version-mismatch" within CompositionFailed), and
// structured Context so a caller can render a diagnosis naming
// "component-N = <spec>" without string-parsing a message.
package composeerr
