package sources

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/samvad-hq/samvad-archive-scraper/internal/domain"
	"github.com/samvad-hq/samvad-archive-scraper/pkg/httpclient"
)

// Registry maps CLI newspaper names to sources. It is built once and never mutated.
type Registry struct {
	byName map[string]Source
	names  []string
}

// NewRegistry builds a registry from srcs; names must be unique.
func NewRegistry(srcs ...Source) (*Registry, error) {
	reg := &Registry{byName: make(map[string]Source, len(srcs))}
	for _, src := range srcs {
		if src == nil {
			continue
		}
		name := src.Descriptor().Name
		if strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("source %q has no name", src.Descriptor().ID)
		}
		if _, exists := reg.byName[name]; exists {
			return nil, fmt.Errorf("duplicate source name %q", name)
		}
		reg.byName[name] = src
		reg.names = append(reg.names, name)
	}
	slices.Sort(reg.names)
	return reg, nil
}

// Resolve returns the source registered under exactly name (case-sensitive).
func (r *Registry) Resolve(name string) (Source, error) {
	if r != nil {
		if src, ok := r.byName[name]; ok {
			return src, nil
		}
	}
	return nil, &domain.UnknownSourceError{Name: name, Supported: r.Names()}
}

// Names returns the supported newspaper names in alphabetical order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	return slices.Clone(r.names)
}

// Len returns the number of registered sources.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.names)
}

// DefaultHTTPClient returns the resty-backed client used when none is injected.
func DefaultHTTPClient() HTTPClient { return httpclient.NewRestyClient(30*time.Second, nil) }

// builder constructs a source variant from its (possibly overridden) descriptor.
type builder func(client HTTPClient, desc Descriptor) Source

// knownSources is the closed set of supported newspapers.
func knownSources() []struct {
	desc  Descriptor
	build builder
} {
	return []struct {
		desc  Descriptor
		build builder
	}{
		{desc: LaRepubblicaDescriptor(), build: NewLaRepubblica},
	}
}

// DefaultRegistry wires up every supported newspaper, applying overrides by source id.
func DefaultRegistry(client HTTPClient, overrides []Override) (*Registry, error) {
	if client == nil {
		client = DefaultHTTPClient()
	}

	known := knownSources()
	byID := make(map[string]Override, len(overrides))
	for _, o := range overrides {
		byID[o.ID] = o
	}

	srcs := make([]Source, 0, len(known))
	for _, k := range known {
		desc := k.desc
		if o, ok := byID[desc.ID]; ok {
			desc = o.apply(desc)
			delete(byID, desc.ID)
		}
		srcs = append(srcs, k.build(client, desc))
	}
	for id := range byID {
		return nil, fmt.Errorf("override for unknown source id %q", id)
	}
	return NewRegistry(srcs...)
}

// SupportedNames lists the CLI names of every built-in source, alphabetically.
func SupportedNames() []string {
	known := knownSources()
	names := make([]string, 0, len(known))
	for _, k := range known {
		names = append(names, k.desc.Name)
	}
	slices.Sort(names)
	return names
}
