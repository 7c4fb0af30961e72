// Copyright 2025 EasyAgent
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package msgseg

import (
	"fmt"
	"hash/fnv"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

// TagKind classifies a registered tag name.
type TagKind int

const (
	// KindUnknown is returned by Lookup for a name that is not registered.
	KindUnknown TagKind = iota
	// KindRenderable marks a tag whose segment is displayed inline.
	KindRenderable
	// KindMetadata marks a tag whose segment triggers a host-side handler
	// and is not displayed inline.
	KindMetadata
)

func (k TagKind) String() string {
	switch k {
	case KindRenderable:
		return "renderable"
	case KindMetadata:
		return "metadata"
	default:
		return "unknown"
	}
}

// reservedTagName names the text-segment kind and must never be
// registered as a tag.
const reservedTagName = "text"

// RegistrySnapshot is a stable, read-only view of a TagRegistry's
// recognized names at one point in time, plus a content hash of those
// names and kinds. The Parser takes a fresh snapshot at the start of
// every Parse call and does not compare hashes between calls.
type RegistrySnapshot struct {
	names map[string]TagKind
	hash  uint64
}

// Lookup classifies name against this snapshot.
func (s RegistrySnapshot) Lookup(name string) TagKind {
	if s.names == nil {
		return KindUnknown
	}
	return s.names[name]
}

// Hash identifies the content of this snapshot. Two snapshots with
// identical recognized-name sets and kinds have equal Hash values; it is
// a 64-bit FNV-1a hash, so distinct contents may in rare cases collide.
func (s RegistrySnapshot) Hash() uint64 {
	return s.hash
}

// Names returns the recognized tag names, sorted for determinism.
func (s RegistrySnapshot) Names() []string {
	names := make([]string, 0, len(s.names))
	for name := range s.names {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TagRegistry is the runtime table of recognized tag names and their
// kind. It is read-mostly: Parse calls take a RegistrySnapshot once per
// call and never observe a registry mutation tearing mid-call.
type TagRegistry struct {
	mu    sync.RWMutex
	names map[string]TagKind
}

// NewTagRegistry creates an empty registry.
func NewTagRegistry() *TagRegistry {
	return &TagRegistry{names: make(map[string]TagKind)}
}

// Register adds name with the given kind, idempotently overwriting the
// kind if name is already present. Registering the reserved name "text"
// returns ErrReservedTagName and has no effect.
func (r *TagRegistry) Register(name string, kind TagKind) error {
	if name == reservedTagName {
		return ErrReservedTagName
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names[name] = kind
	return nil
}

// Unregister removes name from recognition. It is a no-op on absent
// names.
func (r *TagRegistry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.names, name)
}

// Lookup answers whether name is currently recognized, and if so, its
// kind. All lookups are total; there are no error conditions.
func (r *TagRegistry) Lookup(name string) TagKind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.names[name]
}

// Snapshot takes a stable, read-only copy of the registry's current
// recognized-name set, for use throughout one Parse call.
func (r *TagRegistry) Snapshot() RegistrySnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make(map[string]TagKind, len(r.names))
	sortedKeys := make([]string, 0, len(r.names))
	for name, kind := range r.names {
		names[name] = kind
		sortedKeys = append(sortedKeys, name)
	}
	sort.Strings(sortedKeys)

	h := fnv.New64a()
	for _, name := range sortedKeys {
		fmt.Fprintf(h, "%s=%d;", name, names[name])
	}
	return RegistrySnapshot{names: names, hash: h.Sum64()}
}

// registryFile is the on-disk shape loaded by LoadRegistryFile: a flat
// map of tag name to kind name ("renderable" or "metadata").
type registryFile map[string]string

// LoadRegistryFile reads a YAML document of `name: kind` pairs from path
// and registers each into a new TagRegistry. This is a convenience
// constructor only; the registry's runtime contract is unaffected by how
// it was populated.
func LoadRegistryFile(path string) (*TagRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("msgseg: reading registry file: %w", err)
	}

	var entries registryFile
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("msgseg: parsing registry file: %w", err)
	}

	registry := NewTagRegistry()
	for name, kindName := range entries {
		var kind TagKind
		switch kindName {
		case "renderable":
			kind = KindRenderable
		case "metadata":
			kind = KindMetadata
		default:
			return nil, fmt.Errorf("msgseg: registry file %s: tag %q has unknown kind %q", path, name, kindName)
		}
		if err := registry.Register(name, kind); err != nil {
			return nil, err
		}
	}
	return registry, nil
}
