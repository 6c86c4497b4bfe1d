package wrap

import "github.com/wasmcp/wasmcp/internal/component"

// Role classifies a pipeline entry's export surface.
type Role int

const (
	// RoleUnknown exports neither the handler interface nor a recognized
	// capability interface at the pipeline's version.
	RoleUnknown Role = iota
	// RoleHandler exports the protocol handler interface directly and is
	// used in the pipeline as-is.
	RoleHandler
	// RoleToolsCapability, RoleResourcesCapability, and
	// RolePromptsCapability export a capability interface and must be
	// wrapped with the matching middleware adapter before they can take a
	// pipeline slot.
	RoleToolsCapability
	RoleResourcesCapability
	RolePromptsCapability
)

func (r Role) String() string {
	switch r {
	case RoleHandler:
		return "handler"
	case RoleToolsCapability:
		return "tools-capability"
	case RoleResourcesCapability:
		return "resources-capability"
	case RolePromptsCapability:
		return "prompts-capability"
	default:
		return "unknown"
	}
}

// capabilityKinds pairs each capability Role with the adapter dependency
// name that wraps it and the capability interface it must export.
var capabilityKinds = []struct {
	role        Role
	adapter     string
	interfaceOf func(version string) component.InterfaceName
}{
	{RoleToolsCapability, "tools-middleware", component.ToolsCapabilityInterface},
	{RoleResourcesCapability, "resources-middleware", component.ResourcesCapabilityInterface},
	{RolePromptsCapability, "prompts-middleware", component.PromptsCapabilityInterface},
}

// Classify inspects exports (at the pipeline's version) and reports which
// role the component plays.
func Classify(exports component.InterfaceSet, version string) Role {
	if exports.Contains(component.ServerHandlerInterface(version)) {
		return RoleHandler
	}
	for _, ck := range capabilityKinds {
		if exports.Contains(ck.interfaceOf(version)) {
			return ck.role
		}
	}
	return RoleUnknown
}

// adapterFor returns the framework dependency name of the middleware
// adapter that wraps role, and the capability interface it exports.
func adapterFor(role Role, version string) (adapterName string, capIface component.InterfaceName, ok bool) {
	for _, ck := range capabilityKinds {
		if ck.role == role {
			return ck.adapter, ck.interfaceOf(version), true
		}
	}
	return "", "", false
}
