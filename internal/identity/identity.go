// Package identity resolves symbolic participant names ("SEQ", "PING", ...)
// to the small unsigned instance ids the bus uses for targeted delivery and
// sender attribution (spec §4.6).
package identity

import (
	"fmt"
	"os"

	"github.com/fxamacker/cbor/v2"
)

// Registry is a constructor-time config structure carrying the full
// name-to-id map, per spec §9's "prefer a constructor-time config structure"
// note. Lookup is total over its closed set of known names.
type Registry struct {
	ids map[string]uint32
}

// Default is the compiled-in table for the reference deployment's
// participants.
func Default() *Registry {
	return New(map[string]uint32{
		"SEQ":     1,
		"PING":    18,
		"PONG":    81,
		"MD":      40,
		"SCRAPPY": 90,
	})
}

// New builds a registry from an explicit name-to-id map.
func New(ids map[string]uint32) *Registry {
	cp := make(map[string]uint32, len(ids))
	for k, v := range ids {
		cp[k] = v
	}
	return &Registry{ids: cp}
}

// Lookup resolves a symbolic name. An unknown name is a programming error,
// not a runtime condition to recover from - callers resolve names once at
// startup and should treat a miss as a fatal configuration error.
func (r *Registry) Lookup(name string) (uint32, error) {
	id, ok := r.ids[name]
	if !ok {
		return 0, fmt.Errorf("identity: unknown participant name %q", name)
	}
	return id, nil
}

// Names returns the registry's known participant names, in no particular
// order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.ids))
	for name := range r.ids {
		names = append(names, name)
	}
	return names
}

// MustLookup panics on an unknown name; for use at process wiring time where
// the name is a compile-time constant rather than user input.
func (r *Registry) MustLookup(name string) uint32 {
	id, err := r.Lookup(name)
	if err != nil {
		panic(err)
	}
	return id
}

// WithOverlay returns a new registry equal to r with entries from the
// name->id map overlay (e.g. as decoded by LoadOverlayFile) overlaid on
// top. Overlay entries take
// precedence; entries missing from the overlay keep their default value.
func (r *Registry) WithOverlay(overlay map[string]uint32) *Registry {
	merged := make(map[string]uint32, len(r.ids)+len(overlay))
	for k, v := range r.ids {
		merged[k] = v
	}
	for k, v := range overlay {
		merged[k] = v
	}
	return &Registry{ids: merged}
}

// LoadOverlayFile reads a CBOR-encoded map[string]uint32 from path. It
// exists so operators can override the compiled-in table without a
// rebuild, per the INSTANCE_MAP_FILE configuration knob.
func LoadOverlayFile(path string) (map[string]uint32, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("identity: read instance map file: %w", err)
	}

	var overlay map[string]uint32
	if err := cbor.Unmarshal(data, &overlay); err != nil {
		return nil, fmt.Errorf("identity: decode instance map file: %w", err)
	}
	return overlay, nil
}

// LoadFromEnv builds the default registry, optionally overlaid by the file
// named by the INSTANCE_MAP_FILE environment variable if it is set.
func LoadFromEnv() (*Registry, error) {
	reg := Default()

	path := os.Getenv("INSTANCE_MAP_FILE")
	if path == "" {
		return reg, nil
	}

	overlay, err := LoadOverlayFile(path)
	if err != nil {
		return nil, err
	}
	return reg.WithOverlay(overlay), nil
}
