package library

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	errs "github.com/atlantix-eda/aeda/pkg/errors"
)

// Categories are the library families a fresh data directory is seeded with.
var Categories = []string{"resistor", "capacitor", "inductor", "diode", "ic"}

// ManifestFile is the manifest location relative to the data directory.
const ManifestFile = "libraries/manifest.json"

// Manifest indexes the libraries of a data directory.
type Manifest struct {
	Name        string                       `json:"name"`
	Version     string                       `json:"version"`
	Description string                       `json:"description"`
	Libraries   map[string]map[string]string `json:"libraries"`
}

// DefaultManifest returns the manifest written by aeda init.
func DefaultManifest() *Manifest {
	m := &Manifest{
		Name:        "atlantix_eda",
		Version:     "1.0.0",
		Description: "Atlantix EDA Component Libraries",
		Libraries:   make(map[string]map[string]string, len(Categories)),
	}
	for _, c := range Categories {
		m.Libraries[c] = map[string]string{}
	}
	return m
}

// Add records a library under its category and returns the relative path
// it was recorded with.
func (m *Manifest) Add(ref Ref) string {
	if m.Libraries == nil {
		m.Libraries = make(map[string]map[string]string)
	}
	if m.Libraries[ref.Category] == nil {
		m.Libraries[ref.Category] = map[string]string{}
	}
	rel := ref.Path()
	m.Libraries[ref.Category][ref.Name] = rel
	return rel
}

// Resolve returns the path of a library relative to the libraries directory.
func (m *Manifest) Resolve(ref Ref) (string, bool) {
	p, ok := m.Libraries[ref.Category][ref.Name]
	return p, ok
}

// CategoryNames returns the manifest categories in sorted order.
func (m *Manifest) CategoryNames() []string {
	names := make([]string, 0, len(m.Libraries))
	for c := range m.Libraries {
		names = append(names, c)
	}
	sort.Strings(names)
	return names
}

// Refs returns the libraries of one category in sorted order. An empty
// category lists everything.
func (m *Manifest) Refs(category string) []Ref {
	var refs []Ref
	for _, c := range m.CategoryNames() {
		if category != "" && c != category {
			continue
		}
		for name := range m.Libraries[c] {
			refs = append(refs, Ref{Category: c, Name: name})
		}
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].String() < refs[j].String() })
	return refs
}

// Empty reports whether no category holds a library.
func (m *Manifest) Empty() bool {
	for _, libs := range m.Libraries {
		if len(libs) > 0 {
			return false
		}
	}
	return true
}

// WriteManifest encodes m as indented JSON.
func WriteManifest(m *Manifest, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadManifest decodes a manifest.
func ReadManifest(r io.Reader) (*Manifest, error) {
	var m Manifest
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if m.Libraries == nil {
		m.Libraries = make(map[string]map[string]string)
	}
	return &m, nil
}

// LoadManifest reads the manifest of a data directory. A missing file is
// reported as NOT_FOUND so callers can tell the user to run init.
func LoadManifest(dataDir string) (*Manifest, error) {
	path := filepath.Join(dataDir, ManifestFile)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.Wrap(errs.ErrCodeNotFound, err, "manifest not found at %s (run 'aeda init' first)", path)
		}
		return nil, errs.Wrap(errs.ErrCodeIO, &errs.FileError{Path: path, Err: err}, "read manifest")
	}
	defer f.Close()

	m, err := ReadManifest(f)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeIO, &errs.FileError{Path: path, Err: err}, "parse manifest")
	}
	return m, nil
}

// LoadOrDefault reads the manifest, falling back to the default when the
// file does not exist yet.
func LoadOrDefault(dataDir string) (*Manifest, error) {
	m, err := LoadManifest(dataDir)
	if errs.Is(err, errs.ErrCodeNotFound) {
		return DefaultManifest(), nil
	}
	return m, err
}

// SaveManifest writes m to the data directory.
func SaveManifest(dataDir string, m *Manifest) error {
	path := filepath.Join(dataDir, ManifestFile)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errs.Wrap(errs.ErrCodeIO, &errs.FileError{Path: path, Err: err}, "create libraries directory")
	}
	f, err := os.Create(path)
	if err != nil {
		return errs.Wrap(errs.ErrCodeIO, &errs.FileError{Path: path, Err: err}, "write manifest")
	}
	if err := WriteManifest(m, f); err != nil {
		f.Close()
		return errs.Wrap(errs.ErrCodeIO, &errs.FileError{Path: path, Err: err}, "write manifest")
	}
	if err := f.Close(); err != nil {
		return errs.Wrap(errs.ErrCodeIO, &errs.FileError{Path: path, Err: err}, "write manifest")
	}
	return nil
}

// DescriptorPath returns the file of a library inside a data directory.
func DescriptorPath(dataDir string, ref Ref) string {
	return filepath.Join(dataDir, "libraries", filepath.FromSlash(ref.Path()))
}
