package composition

import (
	"strings"
	"sync"

	"github.com/wasmcp/wasmcp/internal/component"
	"github.com/wasmcp/wasmcp/internal/composeerr"
	"github.com/wasmcp/wasmcp/pkg/logging"
)

// ServiceEntry is one registered component instance and its decoded
// exports.
type ServiceEntry struct {
	Name       string
	InstanceID string
	Path       string
	Exports    component.InterfaceSet
}

// exportRecord pairs an export's full interface name with the service that
// currently owns it.
type exportRecord struct {
	service *ServiceEntry
	full    component.InterfaceName
}

// ExportRecord is the caller-facing view of one registered export, used by
// all_exports and diagnostics.
type ExportRecord struct {
	Service string
	Base    string
	Full    component.InterfaceName
}

// Registry is the Service Registry, scoped to one composition.
type Registry struct {
	mu       sync.RWMutex
	services map[string]*ServiceEntry
	byBase   map[string]exportRecord // base name -> most-recently-registered export
	records  []exportRecord          // every export, in registration order
}

// New builds an empty Registry.
func New() *Registry {
	return &Registry{
		services: make(map[string]*ServiceEntry),
		byBase:   make(map[string]exportRecord),
	}
}

// Register adds name's decoded exports to the registry. name must be
// unique within this composition.
func (r *Registry) Register(name, instanceID, path string, exports component.InterfaceSet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.services[name]; exists {
		return composeerr.Newf(composeerr.KindCompositionFailed, "duplicate-service",
			"service %q already registered", name).WithContext("service", name)
	}

	entry := &ServiceEntry{Name: name, InstanceID: instanceID, Path: path, Exports: exports}
	r.services[name] = entry

	for _, full := range exports.Sorted() {
		rec := exportRecord{service: entry, full: full}
		r.records = append(r.records, rec)
		r.byBase[full.BaseName()] = rec // later registration always overwrites
	}

	logging.Debug("composition", "registered service %q (%d exports)", name, len(exports))
	return nil
}

// FindExport implements find_export: an exact base-name match first, then a
// prefix fallback over every recorded export, searched most-recently-
// registered first so overrides win ties here
// too.
func (r *Registry) FindExport(pattern string) (*ServiceEntry, component.InterfaceName, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if rec, ok := r.byBase[pattern]; ok {
		return rec.service, rec.full, true
	}
	for i := len(r.records) - 1; i >= 0; i-- {
		rec := r.records[i]
		if strings.HasPrefix(rec.full.BaseName(), pattern) || strings.HasPrefix(string(rec.full), pattern) {
			return rec.service, rec.full, true
		}
	}
	return nil, "", false
}

// AllExports returns every registered export, in registration order.
func (r *Registry) AllExports() []ExportRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]ExportRecord, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, ExportRecord{Service: rec.service.Name, Base: rec.full.BaseName(), Full: rec.full})
	}
	return out
}

// Service returns the registered entry for name.
func (r *Registry) Service(name string) (*ServiceEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.services[name]
	return entry, ok
}
