package store

import (
	"sort"
	"sync"

	"github.com/wasmcp/wasmcp/internal/composeerr"
	"github.com/wasmcp/wasmcp/pkg/logging"
)

// maxProfileInheritanceDepth bounds a profile's base chain.
const maxProfileInheritanceDepth = 8

// Store is the in-memory, read-and-write buffer over the on-disk
// configuration document. It is not a long-lived cache: the document is
// read lazily on first use and every mutation is flushed back to disk
// immediately, as a transient read+write buffer rather than a cache a
// caller can expect to stay fresh across external edits.
type Store struct {
	mu         sync.Mutex
	configPath string
	loaded     bool
	doc        Document
}

// NewStore creates a Store rooted at configPath. configPath must not be
// empty: callers needing the default location should pass
// GetDefaultConfigPathOrPanic().
func NewStore(configPath string) *Store {
	if configPath == "" {
		panic("store: empty configPath")
	}
	return &Store{configPath: configPath}
}

func (s *Store) ensureLoaded() error {
	if s.loaded {
		return nil
	}
	doc, err := readDocument(s.configPath)
	if err != nil {
		return err
	}
	s.doc = doc
	s.loaded = true
	return nil
}

func (s *Store) persist() error {
	if err := writeDocument(s.configPath, s.doc); err != nil {
		return err
	}
	return nil
}

// GetComponent returns the spec text registered under alias, or ("",
// false) if no such alias exists.
func (s *Store) GetComponent(alias string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(); err != nil {
		return "", false, err
	}
	spec, ok := s.doc.Components[alias]
	return spec, ok, nil
}

// SetComponent registers alias -> spec, persisting immediately.
func (s *Store) SetComponent(alias, spec string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(); err != nil {
		return err
	}
	s.doc.Components[alias] = spec
	if err := s.persist(); err != nil {
		return err
	}
	logging.Info("store", "set component alias %q -> %q", alias, spec)
	return nil
}

// RemoveComponent deletes alias, persisting immediately. Removing a
// nonexistent alias is not an error.
func (s *Store) RemoveComponent(alias string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(); err != nil {
		return err
	}
	delete(s.doc.Components, alias)
	return s.persist()
}

// ListComponents returns all registered aliases in sorted order.
func (s *Store) ListComponents() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(s.doc.Components))
	for name := range s.doc.Components {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// GetProfile returns the raw (uninherited) profile record registered
// under name.
func (s *Store) GetProfile(name string) (ProfileRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(); err != nil {
		return ProfileRecord{}, false, err
	}
	p, ok := s.doc.Profiles[name]
	return p, ok, nil
}

// SetProfile registers name -> profile, persisting immediately.
func (s *Store) SetProfile(name string, profile ProfileRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(); err != nil {
		return err
	}
	s.doc.Profiles[name] = profile
	if err := s.persist(); err != nil {
		return err
	}
	logging.Info("store", "set profile %q", name)
	return nil
}

// RemoveProfile deletes name, persisting immediately.
func (s *Store) RemoveProfile(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(); err != nil {
		return err
	}
	delete(s.doc.Profiles, name)
	return s.persist()
}

// ListProfiles returns all registered profile names in sorted order.
func (s *Store) ListProfiles() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(s.doc.Profiles))
	for name := range s.doc.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// ResolveProfile resolves name's full inheritance chain: the root base's
// components come first, then each descendant's own components appended
// in order, with the leaf's output path used throughout. Chains longer
// than maxProfileInheritanceDepth fail with
// composeerr.KindPersistenceFailed/"profile-depth", and chains containing
// a cycle with composeerr.KindPersistenceFailed/"profile-cycle" (profiles are
// config-document entities, so a malformed chain is a persistence-layer
// concern, not a composition one).
func (s *Store) ResolveProfile(name string) (ResolvedProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(); err != nil {
		return ResolvedProfile{}, err
	}

	chain := make([]string, 0, maxProfileInheritanceDepth+1)
	visited := make(map[string]bool)
	cur := name

	for {
		if visited[cur] {
			return ResolvedProfile{}, composeerr.Newf(composeerr.KindPersistenceFailed, "profile-cycle",
				"profile inheritance cycle detected at %q", cur).WithContext("profile", name)
		}
		visited[cur] = true
		chain = append(chain, cur)
		if len(chain) > maxProfileInheritanceDepth {
			return ResolvedProfile{}, composeerr.Newf(composeerr.KindPersistenceFailed, "profile-depth",
				"profile inheritance exceeds max depth %d", maxProfileInheritanceDepth).WithContext("profile", name)
		}

		rec, ok := s.doc.Profiles[cur]
		if !ok {
			return ResolvedProfile{}, composeerr.Newf(composeerr.KindPersistenceFailed, "profile-missing",
				"profile %q not found", cur).WithContext("profile", cur)
		}
		if rec.Base == "" {
			break
		}
		cur = rec.Base
	}

	// chain is leaf-to-root; walk it root-to-leaf, concatenating components.
	var components []string
	for i := len(chain) - 1; i >= 0; i-- {
		rec := s.doc.Profiles[chain[i]]
		components = append(components, rec.Components...)
	}

	leaf := s.doc.Profiles[name]
	return ResolvedProfile{
		Components: components,
		Output:     leaf.Output,
	}, nil
}
