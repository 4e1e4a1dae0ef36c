package platformcheck

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

//go:embed manifest.yaml
var defaultManifest []byte

// Manifest describes what a healthy project checkout looks like.
type Manifest struct {
	Python        PythonRequirements `yaml:"python"`
	RequiredFiles []RequiredFile     `yaml:"required_files"`
	DataFiles     []DataFile         `yaml:"data_files"`
	// DataHint is the command suggested when critical data is missing.
	DataHint    string             `yaml:"data_hint,omitempty"`
	Executables []string           `yaml:"executables"`
	Colab       ColabSettings      `yaml:"colab"`
	WSL         WSLSettings        `yaml:"wsl"`
	Validation  ValidationSettings `yaml:"validation"`
}

// PythonRequirements lists the interpreter floor and importable packages.
type PythonRequirements struct {
	MinVersion string   `yaml:"min_version"`
	Packages   []string `yaml:"packages"`
}

// RequiredFile is a source-tree path that must exist.
type RequiredFile struct {
	Path  string `yaml:"path"`
	Label string `yaml:"label"`
}

// DataFile is a data path; only critical entries fail the run when missing.
type DataFile struct {
	Path     string `yaml:"path"`
	Label    string `yaml:"label"`
	Critical bool   `yaml:"critical,omitempty"`
}

// ColabSettings configures the Colab integration check.
type ColabSettings struct {
	Notebook string `yaml:"notebook"`
	Marker   string `yaml:"marker"`
}

// WSLSettings configures the WSL compatibility check.
type WSLSettings struct {
	Mount          string `yaml:"mount"`
	LineEndingFile string `yaml:"line_ending_file"`
}

// ValidationSettings configures the mini validation run.
type ValidationSettings struct {
	Script  string        `yaml:"script"`
	Timeout time.Duration `yaml:"timeout"`
}

// DefaultManifest returns the manifest embedded in the binary.
// It panics if the embedded manifest is invalid.
func DefaultManifest() *Manifest {
	m, err := parseManifest(bytes.NewReader(defaultManifest))
	if err != nil {
		panic(fmt.Sprintf("embedded manifest: %v", err))
	}
	return m
}

// LoadManifest reads and validates a manifest from path.
func LoadManifest(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer f.Close()

	m, err := parseManifest(f)
	if err != nil {
		return nil, fmt.Errorf("manifest %q: %w", path, err)
	}
	return m, nil
}

// parseManifest decodes a manifest, rejecting unknown keys.
func parseManifest(r io.Reader) (*Manifest, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var m Manifest
	if err := dec.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &ManifestError{Field: "document", Reason: "empty manifest"}
		}
		return nil, fmt.Errorf("decode: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks the manifest for entries no check could act on.
func (m *Manifest) Validate() error {
	if _, err := m.MinVersion(); err != nil {
		return err
	}
	for i, pkg := range m.Python.Packages {
		if strings.TrimSpace(pkg) == "" {
			return &ManifestError{Field: fmt.Sprintf("python.packages[%d]", i), Reason: "empty package name"}
		}
	}
	for i, f := range m.RequiredFiles {
		if strings.TrimSpace(f.Path) == "" {
			return &ManifestError{Field: fmt.Sprintf("required_files[%d].path", i), Reason: "empty path"}
		}
	}
	for i, f := range m.DataFiles {
		if strings.TrimSpace(f.Path) == "" {
			return &ManifestError{Field: fmt.Sprintf("data_files[%d].path", i), Reason: "empty path"}
		}
	}
	for i, p := range m.Executables {
		if strings.TrimSpace(p) == "" {
			return &ManifestError{Field: fmt.Sprintf("executables[%d]", i), Reason: "empty path"}
		}
	}
	if strings.TrimSpace(m.Validation.Script) == "" {
		return &ManifestError{Field: "validation.script", Reason: "empty path"}
	}
	if m.Validation.Timeout <= 0 {
		return &ManifestError{Field: "validation.timeout", Reason: "must be positive"}
	}
	return nil
}

// MinVersion parses the interpreter floor as a semver constraint.
func (m *Manifest) MinVersion() (*semver.Constraints, error) {
	v := strings.TrimSpace(m.Python.MinVersion)
	if v == "" {
		return nil, &ManifestError{Field: "python.min_version", Reason: "not set"}
	}
	c, err := semver.NewConstraint(">= " + v)
	if err != nil {
		return nil, &ManifestError{Field: "python.min_version", Reason: "invalid version", Err: err}
	}
	return c, nil
}

// YAML renders the manifest in its on-disk format.
func (m *Manifest) YAML() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
