package graph

import (
	"fmt"

	"github.com/wasmcp/wasmcp/internal/component"
	"github.com/wasmcp/wasmcp/internal/composition"
)

// Pipeline roles an instantiated package can play, named on InstanceSummary
// for caller-facing diagnostics.
const (
	RoleTransport         = "transport"
	RoleMiddleware        = "middleware"
	RoleWrappedCapability = "wrapped-capability"
	RoleTerminal          = "terminal"
)

// InstanceSummary names one instantiated package and the pipeline role it
// played.
type InstanceSummary struct {
	Path string
	Role string
}

// MiddlewareEntry is one resolved pipeline middleware: its artifact path,
// and whether the Wrapper Engine produced that path by composing a
// capability component with its matching adapter rather than passing a
// handler through unchanged.
type MiddlewareEntry struct {
	Path    string
	Wrapped bool
}

// PipelineInput is the resolved, already-wrapped set of artifacts the
// Graph Builder assembles into one encoded component.
type PipelineInput struct {
	// Middlewares are pipeline entries in the caller's declared (outermost
	// first) order; BuildPipeline wires them innermost to outermost, i.e.
	// in reverse.
	Middlewares []MiddlewareEntry
	Terminal    string
	Transport   string
	// TransportKind selects the terminal export name: "http" aliases
	// wasi:http/incoming-handler, "stdio" aliases wasi:cli/run.
	TransportKind string
	Version       string
}

// BuildPipeline wires a terminal handler, an ordered middleware stack, and
// a transport into one sealed Graph, ready for Encode. It also returns a
// summary of every instance it created, in instantiation order.
func BuildPipeline(insp introspector, in PipelineInput) (*Graph, []InstanceSummary, error) {
	g := New(insp)
	registry := composition.New()
	handles := make(map[component.InterfaceName]ExportHandle)
	handlerIface := component.ServerHandlerInterface(in.Version)
	var summaries []InstanceSummary

	register := func(name, path string) (InstanceID, error) {
		pkgID, err := g.AddPackage(path)
		if err != nil {
			return 0, err
		}
		instID, err := g.Instantiate(pkgID)
		if err != nil {
			return 0, err
		}
		inst := g.instances[instID]
		if err := registry.Register(name, fmt.Sprintf("inst-%d", instID), path, inst.Exports); err != nil {
			return 0, err
		}
		for _, full := range inst.Exports.Sorted() {
			handles[full] = ExportHandle{Instance: instID, Name: full}
		}
		return instID, nil
	}

	// Instantiate the terminal handler; alias its handler export as the
	// starting "current downstream".
	termInstID, err := register("terminal", in.Terminal)
	if err != nil {
		return nil, nil, err
	}
	summaries = append(summaries, InstanceSummary{Path: in.Terminal, Role: RoleTerminal})
	downstream, err := g.AliasExport(termInstID, handlerIface)
	if err != nil {
		return nil, nil, err
	}

	// Each middleware, innermost to outermost.
	for i := len(in.Middlewares) - 1; i >= 0; i-- {
		mw := in.Middlewares[i]
		name := fmt.Sprintf("middleware-%d", i)
		instID, err := register(name, mw.Path)
		if err != nil {
			return nil, nil, err
		}
		role := RoleMiddleware
		if mw.Wrapped {
			role = RoleWrappedCapability
		}
		summaries = append(summaries, InstanceSummary{Path: mw.Path, Role: role})
		if err := g.SetArgument(instID, handlerIface, downstream); err != nil {
			return nil, nil, err
		}
		if err := g.WireFromRegistry(instID, registry, handles); err != nil {
			return nil, nil, err
		}
		downstream, err = g.AliasExport(instID, handlerIface)
		if err != nil {
			return nil, nil, err
		}
	}

	// The transport, wired to the accumulated downstream.
	transportInstID, err := register("transport", in.Transport)
	if err != nil {
		return nil, nil, err
	}
	summaries = append(summaries, InstanceSummary{Path: in.Transport, Role: RoleTransport})
	if err := g.SetArgument(transportInstID, handlerIface, downstream); err != nil {
		return nil, nil, err
	}
	if err := g.WireFromRegistry(transportInstID, registry, handles); err != nil {
		return nil, nil, err
	}

	// Alias and export the transport's terminal interface.
	terminalName, err := terminalInterfaceFor(in.TransportKind)
	if err != nil {
		return nil, nil, err
	}
	transportExport, err := g.AliasExport(transportInstID, terminalName)
	if err != nil {
		return nil, nil, err
	}
	if err := g.ExportTerminal(transportExport, terminalName); err != nil {
		return nil, nil, err
	}

	return g, summaries, nil
}

func terminalInterfaceFor(kind string) (component.InterfaceName, error) {
	switch kind {
	case "http":
		return component.WASIHTTPHandler, nil
	case "stdio":
		return component.WASICLIRun, nil
	default:
		return "", fmt.Errorf("graph: unknown transport kind %q", kind)
	}
}
