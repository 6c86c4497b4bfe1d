package introspect

import (
	"os"

	"go.bytecodealliance.org/wit"

	"github.com/wasmcp/wasmcp/internal/component"
	"github.com/wasmcp/wasmcp/internal/composeerr"
)

// decodeWorld parses path's embedded component-type section and flattens
// its world into import/export interface sets. All go.bytecodealliance.org
// -specific decoding is isolated to this file, so a future change to that
// package's API touches only here.
func decodeWorld(path string) (imports, exports component.InterfaceSet, err error) {
	data, readErr := os.ReadFile(path)
	if readErr != nil {
		return nil, nil, composeerr.Wrap(composeerr.KindIntrospectionFailed, "read", readErr,
			"failed to read component binary "+path)
	}

	resolve, decodeErr := wit.DecodeComponent(data)
	if decodeErr != nil {
		return nil, nil, composeerr.Wrap(composeerr.KindIntrospectionFailed, "decode", decodeErr,
			"failed to decode component-type section of "+path)
	}
	if len(resolve.Worlds) == 0 {
		return nil, nil, composeerr.New(composeerr.KindIntrospectionFailed, "no-world",
			"component binary embeds no world: "+path)
	}
	world := resolve.Worlds[0]

	return flatten(resolve, world.Imports), flatten(resolve, world.Exports), nil
}

// flatten keeps only package-scoped interface items of a world's
// import/export map, skipping bare implementation types.
func flatten(resolve *wit.Resolve, items map[string]wit.WorldItem) component.InterfaceSet {
	names := make([]component.InterfaceName, 0, len(items))
	for _, item := range items {
		iface, ok := item.(*wit.Interface)
		if !ok {
			continue
		}
		name := component.InterfaceName(qualifiedName(resolve, iface))
		if name.HasPackage() {
			names = append(names, name)
		}
	}
	return component.NewInterfaceSet(names...)
}

// qualifiedName renders an interface's fully qualified, versioned name:
// "<namespace>:<package>/<iface>@<version>".
func qualifiedName(resolve *wit.Resolve, iface *wit.Interface) string {
	pkg := resolve.Packages[iface.Package]
	name := pkg.Name.Namespace + ":" + pkg.Name.Name + "/"
	if iface.Name != nil {
		name += *iface.Name
	}
	if pkg.Name.Version != nil {
		name += "@" + pkg.Name.Version.String()
	}
	return name
}
