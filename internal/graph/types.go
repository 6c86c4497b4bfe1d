package graph

import "github.com/wasmcp/wasmcp/internal/component"

// PackageID identifies a distinct component artifact loaded into a Graph.
type PackageID int

// InstanceID identifies one instantiation of a Package within a Graph.
type InstanceID int

// Package is a distinct component binary, loaded once even if multiple
// instances reference it.
type Package struct {
	ID    PackageID
	Path  string
	Bytes []byte
}

// State is an instance's position in the builder's wiring state machine.
type State int

const (
	// Instantiated: the instance node exists, but not every argument
	// slot is filled.
	Instantiated State = iota
	// Wired: every declared import has a matching edge.
	Wired
	// Sealed: the instance participates in the graph's terminal alias.
	Sealed
)

func (s State) String() string {
	switch s {
	case Instantiated:
		return "instantiated"
	case Wired:
		return "wired"
	case Sealed:
		return "sealed"
	default:
		return "unknown"
	}
}

// Instance is one instantiation of a Package, with its required import
// slots and the exports it offers to the rest of the graph.
type Instance struct {
	ID      InstanceID
	Package PackageID
	Imports component.InterfaceSet
	Exports component.InterfaceSet
	State   State

	// filled maps each wired import slot to the edge that fills it.
	filled map[component.InterfaceName]Edge
}

// ExportHandle names one instance's export, returned by AliasExport and
// consumed by SetArgument/ExportTerminal. It carries no encoding state of
// its own: it is a typed reference, not a resource.
type ExportHandle struct {
	Instance InstanceID
	Name     component.InterfaceName
}

// Edge wires one instance's aliased export into another instance's
// argument slot.
type Edge struct {
	From     InstanceID
	FromName component.InterfaceName
	To       InstanceID
	ToSlot   component.InterfaceName
}
