package sources

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Override adjusts a built-in descriptor from the sources file.
type Override struct {
	ID         string   `json:"id" yaml:"id"`
	ArchiveURL string   `json:"archive_url" yaml:"archive_url"`
	Hosts      []string `json:"hosts" yaml:"hosts"`
	Pagination string   `json:"pagination" yaml:"pagination"`
	// RequestDelayMs: nil keeps the built-in delay, 0 disables it.
	RequestDelayMs *int           `json:"request_delay_ms" yaml:"request_delay_ms"`
	Config         map[string]any `json:"config" yaml:"config"`
}

type overridesFile struct {
	Sources []Override `json:"sources" yaml:"sources"`
}

// LoadOverrides reads source overrides from a YAML/JSON file. An empty path means none.
func LoadOverrides(path string) ([]Override, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sources file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read sources file: %w", err)
	}

	parsed, err := parseOverrides(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(parsed.Sources))
	out := make([]Override, 0, len(parsed.Sources))
	for i := range parsed.Sources {
		o := sanitizeOverride(parsed.Sources[i])
		if err := validateOverride(o); err != nil {
			return nil, fmt.Errorf("sources[%d]: %w", i, err)
		}
		if _, exists := seen[o.ID]; exists {
			return nil, fmt.Errorf("duplicate source id %q", o.ID)
		}
		seen[o.ID] = struct{}{}
		out = append(out, o)
	}
	return out, nil
}

type unmarshalFn func([]byte, any) error

func parseOverrides(data []byte, ext string) (overridesFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	decoders := []struct {
		name string
		ext  string
		fn   unmarshalFn
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var f overridesFile
		if err := d.fn(data, &f); err == nil {
			return f, nil
		}
	}

	return overridesFile{}, errors.New("sources file format not recognized (expected YAML or JSON)")
}

func sanitizeOverride(o Override) Override {
	o.ID = strings.ToLower(strings.TrimSpace(o.ID))
	o.ArchiveURL = strings.TrimSpace(o.ArchiveURL)
	o.Pagination = strings.ToLower(strings.TrimSpace(o.Pagination))
	hosts := o.Hosts[:0:0]
	for _, h := range o.Hosts {
		if h = strings.TrimSpace(h); h != "" {
			hosts = append(hosts, h)
		}
	}
	o.Hosts = hosts
	return o
}

func validateOverride(o Override) error {
	if o.ID == "" {
		return errors.New("id is required")
	}
	if o.ArchiveURL != "" && !strings.Contains(o.ArchiveURL, "{day}") {
		return fmt.Errorf("archive_url for source %q must contain a {day} placeholder", o.ID)
	}
	if o.RequestDelayMs != nil && *o.RequestDelayMs < 0 {
		return fmt.Errorf("request_delay_ms for source %q must not be negative", o.ID)
	}
	if o.Pagination != "" {
		if _, err := ParsePagination(o.Pagination); err != nil {
			return fmt.Errorf("source %q: %w", o.ID, err)
		}
	}
	return nil
}

// apply returns desc with the override's non-empty values.
func (o Override) apply(desc Descriptor) Descriptor {
	desc = desc.clone()
	if o.ArchiveURL != "" {
		desc.ArchiveURL = o.ArchiveURL
	}
	if p, err := ParsePagination(o.Pagination); err == nil {
		desc.Pagination = p
	}
	if o.RequestDelayMs != nil {
		desc.RequestDelayMs = *o.RequestDelayMs
	}
	if len(o.Hosts) > 0 {
		desc.Hosts = append([]string(nil), o.Hosts...)
	}
	if len(o.Config) > 0 {
		if desc.Config == nil {
			desc.Config = make(map[string]any, len(o.Config))
		}
		maps.Copy(desc.Config, o.Config)
	}
	return desc
}
