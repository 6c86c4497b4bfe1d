package compose

import "github.com/wasmcp/wasmcp/internal/component"

// defaultTerminalName is the framework dependency that handles requests no
// middleware claimed.
const defaultTerminalName = "method-not-found"

// transportPackageName returns the framework dependency name for the
// requested transport kind, e.g. "http-transport" or "stdio-transport".
func transportPackageName(kind string) string {
	return kind + "-transport"
}

// transportSpec and defaultTerminalSpec build the framework package reference
// text the Spec Resolver expects for the default transport and terminal
// handler.
func transportSpec(kind, version string) string {
	return component.FrameworkPackageRef(transportPackageName(kind), version).String()
}

func defaultTerminalSpec(version string) string {
	return component.FrameworkPackageRef(defaultTerminalName, version).String()
}
