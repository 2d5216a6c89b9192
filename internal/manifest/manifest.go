// Package manifest parses and serializes the per-artifact Package Manifest:
// metadata, description, specs (including the dependency map), sandbox
// profile, and install command list. The concrete lexical form is TOML,
// grounded on golang-dep's manifest.go (a raw/cooked struct pair decoded
// with a struct-tag-driven marshaler) but serialized with pelletier/go-toml
// instead of encoding/json.
package manifest

import (
	"os"
	"path/filepath"

	"github.com/HackerOS-Linux-System/Hacker-Package-Manager/internal/herror"
	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
)

// Path is the fixed location of the manifest inside an unpacked artifact
// tree.
const Path = "hpm/manifest.toml"

// Manifest is the per-artifact metadata document.
type Manifest struct {
	Metadata    Metadata    `toml:"metadata"`
	Description Description `toml:"description"`
	Specs       Specs       `toml:"specs"`
	Sandbox     Sandbox     `toml:"sandbox"`
	Install     []string    `toml:"install"`
}

// Metadata is the manifest's identity section.
type Metadata struct {
	Name     string   `toml:"name"`
	Version  string   `toml:"version"`
	Authors  []string `toml:"authors"`
	License  string   `toml:"license"`
	Binaries []string `toml:"binaries"`
}

// Description is the manifest's human-readable summary section.
type Description struct {
	Summary string `toml:"summary"`
	Long    string `toml:"long"`
}

// Specs is the manifest's system requirements and dependency section.
type Specs struct {
	System       []string          `toml:"system"`
	Dependencies map[string]string `toml:"dependencies"`
}

// Sandbox is the manifest's namespace-isolation override section.
type Sandbox struct {
	Network    bool     `toml:"network"`
	Graphical  bool     `toml:"graphical"`
	Device     bool     `toml:"device"`
	ExtraPaths []string `toml:"extra_paths"`
}

// Load reads and parses the manifest from the fixed path inside root.
func Load(root string) (*Manifest, error) {
	p := filepath.Join(root, Path)
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, herror.Wrap(herror.ManifestInvalid, err, "reading "+p)
	}
	return Parse(data)
}

// Parse decodes a manifest document from its TOML bytes.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, herror.Wrap(herror.ManifestInvalid, err, "parsing manifest")
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks the invariants Load/Parse callers rely on: a manifest
// must at least declare a name and a version.
func (m *Manifest) Validate() error {
	if m.Metadata.Name == "" {
		return herror.New(herror.ManifestInvalid, "missing metadata.name")
	}
	if m.Metadata.Version == "" {
		return herror.New(herror.ManifestInvalid, "missing metadata.version")
	}
	return nil
}

// Marshal serializes m to its TOML form, matching what Parse accepts.
func Marshal(m *Manifest) ([]byte, error) {
	data, err := toml.Marshal(*m)
	if err != nil {
		return nil, errors.Wrap(err, "marshaling manifest")
	}
	return data, nil
}

// Write serializes m and writes it to the fixed manifest path under root.
func Write(root string, m *Manifest) error {
	data, err := Marshal(m)
	if err != nil {
		return err
	}
	p := filepath.Join(root, Path)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return errors.Wrapf(err, "creating %s", filepath.Dir(p))
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return errors.Wrapf(err, "writing %s", p)
	}
	return nil
}
