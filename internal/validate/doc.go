// Package validate holds the pure checks run before a composition starts:
// transport enum membership and output-path writability. None of these
// functions touch the network or the package cache; they only classify
// InvalidInput failures early, before any resolve/introspect/wrap/graph-
// build work begins.
package validate
