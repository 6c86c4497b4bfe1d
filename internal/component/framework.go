package component

// FrameworkNamespace is the OCI namespace and WIT package namespace every
// wasmcp-published framework component and interface lives under.
const FrameworkNamespace = "wasmcp"

// wasiVersion is the WASI interface version the transports' terminal
// exports target.
const wasiVersion = "0.2.3"

// WASIHTTPHandler and WASICLIRun are the two possible terminal exports a
// transport aliases out of the final composed component.
const (
	WASIHTTPHandler = InterfaceName("wasi:http/incoming-handler@" + wasiVersion)
	WASICLIRun      = InterfaceName("wasi:cli/run@" + wasiVersion)
)

// ServerHandlerInterface is the protocol handler interface every pipeline
// middleware either exports directly (a handler) or is adapted into
// exporting (a wrapped capability).
func ServerHandlerInterface(version string) InterfaceName {
	return InterfaceName(FrameworkNamespace + ":server/handler@" + version)
}

// ToolsCapabilityInterface, ResourcesCapabilityInterface, and
// PromptsCapabilityInterface are the three capability interfaces the
// Wrapper Engine recognizes.
func ToolsCapabilityInterface(version string) InterfaceName {
	return InterfaceName(FrameworkNamespace + ":protocol/tools@" + version)
}

func ResourcesCapabilityInterface(version string) InterfaceName {
	return InterfaceName(FrameworkNamespace + ":protocol/resources@" + version)
}

func PromptsCapabilityInterface(version string) InterfaceName {
	return InterfaceName(FrameworkNamespace + ":protocol/prompts@" + version)
}

// FrameworkPackageRef builds the registry reference for a named framework
// dependency (a transport, the terminal handler, or a middleware adapter),
// e.g. FrameworkPackageRef("http-transport", "1.0.0") or
// FrameworkPackageRef("tools-middleware", "1.0.0").
func FrameworkPackageRef(name, version string) RegistryRef {
	return RegistryRef{Namespace: FrameworkNamespace, Package: name, Version: version}
}
