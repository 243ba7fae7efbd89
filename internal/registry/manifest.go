package registry

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// ManifestVersion is the schema version written by MarshalManifest.
const ManifestVersion = "1"

// Manifest is the root of a YAML symbol registry file.
type Manifest struct {
	// Version of the manifest schema (for future compatibility).
	Version string `yaml:"version,omitempty"`

	// Defaults apply to entries that leave tier or introduced empty.
	Defaults EntryDefaults `yaml:"defaults,omitempty"`

	// Symbols lists the registry entries in declaration order.
	Symbols []ManifestEntry `yaml:"symbols"`

	// path is the file the manifest was loaded from, used for Source.
	path string
}

// EntryDefaults holds manifest-wide fallbacks.
type EntryDefaults struct {
	Tier       string `yaml:"tier,omitempty"`
	Introduced string `yaml:"introduced,omitempty"`
}

// ManifestEntry is a single symbol declaration.
type ManifestEntry struct {
	Name       string `yaml:"name"`
	Tier       string `yaml:"tier,omitempty"`
	Introduced string `yaml:"introduced,omitempty"`

	line int
}

// entryLines is decoded alongside Manifest to recover entry line numbers.
type entryLines struct {
	Symbols []yaml.Node `yaml:"symbols"`
}

// LoadManifest loads and parses a YAML manifest from the given path.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry manifest %s: %w", path, err)
	}

	m, err := ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	m.path = path

	return m, nil
}

// ParseManifest parses YAML data into a Manifest. Unknown keys are rejected
// so that a misspelled field cannot silently drop information.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&m); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse registry manifest YAML: %w", err)
	}

	if m.Version == "" {
		m.Version = ManifestVersion
	}

	if m.Version != ManifestVersion {
		return nil, fmt.Errorf("unsupported registry manifest version %q", m.Version)
	}

	var lines entryLines
	if err := yaml.Unmarshal(data, &lines); err == nil && len(lines.Symbols) == len(m.Symbols) {
		for i := range m.Symbols {
			m.Symbols[i].line = lines.Symbols[i].Line
		}
	}

	return &m, nil
}

// Declarations returns the manifest entries with defaults applied, in
// declaration order.
func (m *Manifest) Declarations() []Declaration {
	decls := make([]Declaration, 0, len(m.Symbols))

	for _, e := range m.Symbols {
		d := Declaration{
			Name:              e.Name,
			Tier:              e.Tier,
			IntroducedVersion: e.Introduced,
		}

		if strings.TrimSpace(d.Tier) == "" {
			d.Tier = m.Defaults.Tier
		}

		if strings.TrimSpace(d.IntroducedVersion) == "" {
			d.IntroducedVersion = m.Defaults.Introduced
		}

		if m.path != "" && e.line > 0 {
			d.Source = fmt.Sprintf("%s:%d", m.path, e.line)
		}

		decls = append(decls, d)
	}

	return decls
}

// ManifestFromDeclarations builds a manifest listing decls sorted by name.
// Defaults are left empty so that every entry is explicit.
func ManifestFromDeclarations(decls []Declaration) *Manifest {
	m := &Manifest{Version: ManifestVersion}
	for _, d := range decls {
		m.Symbols = append(m.Symbols, ManifestEntry{
			Name:       d.Name,
			Tier:       strings.ToLower(strings.TrimSpace(d.Tier)),
			Introduced: d.IntroducedVersion,
		})
	}

	sortEntries(m.Symbols)

	return m
}

// MarshalManifest serializes a Manifest to YAML.
func MarshalManifest(m *Manifest) ([]byte, error) {
	var buf bytes.Buffer

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	if err := enc.Encode(m); err != nil {
		return nil, fmt.Errorf("failed to marshal registry manifest: %w", err)
	}

	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to marshal registry manifest: %w", err)
	}

	return buf.Bytes(), nil
}

// WriteManifest writes a Manifest to the given path.
func WriteManifest(m *Manifest, path string) error {
	data, err := MarshalManifest(m)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write registry manifest %s: %w", path, err)
	}

	return nil
}

func sortEntries(entries []ManifestEntry) {
	slices.SortStableFunc(entries, func(a, b ManifestEntry) int {
		return strings.Compare(a.Name, b.Name)
	})
}
