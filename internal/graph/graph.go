package graph

import (
	"os"

	"github.com/wasmcp/wasmcp/internal/component"
	"github.com/wasmcp/wasmcp/internal/composeerr"
	"github.com/wasmcp/wasmcp/internal/composition"
	"github.com/wasmcp/wasmcp/pkg/logging"
)

// introspector is the subset of *introspect.Introspector the builder
// needs: accepting the interface (rather than the concrete type) lets
// tests supply a fake without constructing a real component binary.
type introspector interface {
	ImportsOf(artifact component.Artifact) (component.InterfaceSet, error)
	ExportsOf(artifact component.Artifact) (component.InterfaceSet, error)
}

// Graph is the Composition Graph: a DAG of Package and Instance nodes wired
// by Edges, built incrementally and sealed by one terminal export before
// Encode.
type Graph struct {
	introspector introspector

	packages  []*Package
	pathToPkg map[string]PackageID

	instances []*Instance
	edges     []Edge

	terminal     *ExportHandle
	terminalName component.InterfaceName
}

// New builds an empty Graph. insp decodes each package's import/export
// interface sets on instantiation.
func New(insp introspector) *Graph {
	return &Graph{
		introspector: insp,
		pathToPkg:    make(map[string]PackageID),
	}
}

// AddPackage loads path as a package node, deduplicating by canonical
// path: loading the same artifact twice returns the same PackageID.
func (g *Graph) AddPackage(path string) (PackageID, error) {
	if id, ok := g.pathToPkg[path]; ok {
		return id, nil
	}
	bytes, err := os.ReadFile(path)
	if err != nil {
		return 0, composeerr.Wrap(composeerr.KindCompositionFailed, "load-package", err,
			"failed to read component package "+path)
	}
	id := PackageID(len(g.packages))
	g.packages = append(g.packages, &Package{ID: id, Path: path, Bytes: bytes})
	g.pathToPkg[path] = id
	return id, nil
}

// Instantiate creates a new instance of pkgID, decoding its import/export
// interface sets via the introspector.
func (g *Graph) Instantiate(pkgID PackageID) (InstanceID, error) {
	if int(pkgID) < 0 || int(pkgID) >= len(g.packages) {
		return 0, composeerr.New(composeerr.KindCompositionFailed, "unknown-package", "unknown package id")
	}
	pkg := g.packages[pkgID]
	artifact := component.Artifact{Path: pkg.Path}

	imports, err := g.introspector.ImportsOf(artifact)
	if err != nil {
		return 0, err
	}
	exports, err := g.introspector.ExportsOf(artifact)
	if err != nil {
		return 0, err
	}

	id := InstanceID(len(g.instances))
	inst := &Instance{
		ID:      id,
		Package: pkgID,
		Imports: imports,
		Exports: exports,
		State:   Instantiated,
		filled:  make(map[component.InterfaceName]Edge),
	}
	if len(imports) == 0 {
		inst.State = Wired
	}
	g.instances = append(g.instances, inst)
	logging.Debug("graph", "instantiated package %q as instance %d (%d imports, %d exports)",
		pkg.Path, id, len(imports), len(exports))
	return id, nil
}

func (g *Graph) instance(id InstanceID) (*Instance, error) {
	if int(id) < 0 || int(id) >= len(g.instances) {
		return nil, composeerr.New(composeerr.KindCompositionFailed, "unknown-instance", "unknown instance id")
	}
	return g.instances[id], nil
}

// AliasExport returns a handle to instanceID's export name, failing if
// instanceID does not actually export it.
func (g *Graph) AliasExport(instanceID InstanceID, name component.InterfaceName) (ExportHandle, error) {
	inst, err := g.instance(instanceID)
	if err != nil {
		return ExportHandle{}, err
	}
	if !inst.Exports.Contains(name) {
		return ExportHandle{}, composeerr.Newf(composeerr.KindCompositionFailed, "no-such-export",
			"instance %d does not export %q", instanceID, name).WithContext("expected_interface", string(name))
	}
	return ExportHandle{Instance: instanceID, Name: name}, nil
}

// SetArgument wires export into instanceID's slot argument, failing if the
// slot does not exist, is already filled, or export's interface is
// incompatible with the slot's declared interface.
func (g *Graph) SetArgument(instanceID InstanceID, slot component.InterfaceName, export ExportHandle) error {
	inst, err := g.instance(instanceID)
	if err != nil {
		return err
	}
	if !inst.Imports.Contains(slot) {
		return composeerr.Newf(composeerr.KindCompositionFailed, "InterfaceNotFound",
			"instance %d declares no import slot %q", instanceID, slot).
			WithContext("expected_interface", string(slot))
	}
	if _, filled := inst.filled[slot]; filled {
		return composeerr.Newf(composeerr.KindCompositionFailed, "DuplicateWiring",
			"slot %q on instance %d is already wired", slot, instanceID).
			WithContext("expected_interface", string(slot))
	}
	if slot.BaseName() != export.Name.BaseName() {
		return composeerr.Newf(composeerr.KindCompositionFailed, "InterfaceNotFound",
			"no export matching %q available to fill instance %d's slot", slot, instanceID).
			WithContext("expected_interface", string(slot))
	}
	if slot.Version() != export.Name.Version() {
		return composeerr.Newf(composeerr.KindCompositionFailed, "version-mismatch",
			"slot %q on instance %d requires version %q, export is %q",
			slot, instanceID, slot.Version(), export.Name.Version()).
			WithContext("expected_interface", string(slot))
	}

	edge := Edge{From: export.Instance, FromName: export.Name, To: instanceID, ToSlot: slot}
	inst.filled[slot] = edge
	g.edges = append(g.edges, edge)

	if len(inst.filled) == len(inst.Imports) {
		inst.State = Wired
	}
	return nil
}

// WireFromRegistry fills every still-unfilled import slot of instanceID
// that the service registry can satisfy by base name. Slots the registry
// cannot satisfy are left open for the caller to wire explicitly or report
// as InterfaceNotFound.
func (g *Graph) WireFromRegistry(instanceID InstanceID, registry *composition.Registry, handles map[component.InterfaceName]ExportHandle) error {
	inst, err := g.instance(instanceID)
	if err != nil {
		return err
	}
	for _, slot := range inst.Imports.Sorted() {
		if _, filled := inst.filled[slot]; filled {
			continue
		}
		_, full, ok := registry.FindExport(slot.BaseName())
		if !ok {
			continue
		}
		handle, ok := handles[full]
		if !ok {
			continue
		}
		if err := g.SetArgument(instanceID, slot, handle); err != nil {
			return err
		}
	}
	return nil
}

// ExportTerminal seals the graph: export becomes the single export of the
// encoded component, under name (either a wasi terminal export or a
// framework handler interface name for an intermediate wrap).
func (g *Graph) ExportTerminal(export ExportHandle, name component.InterfaceName) error {
	inst, err := g.instance(export.Instance)
	if err != nil {
		return err
	}
	if g.terminal != nil {
		return composeerr.New(composeerr.KindCompositionFailed, "DuplicateWiring",
			"graph already has a terminal export")
	}
	h := export
	g.terminal = &h
	g.terminalName = name
	inst.State = Sealed
	return nil
}

// Validate runs a topological check (Kahn's algorithm) over the wired
// edges. The builder's own construction cannot produce a cycle.
func (g *Graph) Validate() error {
	indegree := make(map[InstanceID]int, len(g.instances))
	adj := make(map[InstanceID][]InstanceID, len(g.instances))
	for _, inst := range g.instances {
		indegree[inst.ID] = 0
	}
	for _, e := range g.edges {
		// An edge flows export(From) -> slot(To); To depends on From.
		adj[e.From] = append(adj[e.From], e.To)
		indegree[e.To]++
	}

	var queue []InstanceID
	for _, inst := range g.instances {
		if indegree[inst.ID] == 0 {
			queue = append(queue, inst.ID)
		}
	}

	visited := 0
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		visited++
		for _, m := range adj[n] {
			indegree[m]--
			if indegree[m] == 0 {
				queue = append(queue, m)
			}
		}
	}

	if visited != len(g.instances) {
		return composeerr.New(composeerr.KindCompositionFailed, "cycle",
			"composition graph contains a cycle")
	}
	return nil
}
