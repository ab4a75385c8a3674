package cargo

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"

	"github.com/BurntSushi/toml"

	cerrors "github.com/matzehuels/crateinfo/pkg/errors"
)

// Kind is the manifest table a dependency is declared in.
type Kind string

const (
	KindNormal Kind = "dependencies"
	KindDev    Kind = "dev-dependencies"
	KindBuild  Kind = "build-dependencies"
)

var kinds = []Kind{KindNormal, KindDev, KindBuild}

// Dependency is one registry dependency of a manifest.
type Dependency struct {
	// Name is the key used in the manifest.
	Name string
	// Crate is the crates.io name; it differs from Name for renamed
	// dependencies (package = "...").
	Crate string
	// Requirement is the version requirement as written, e.g. "^1.0".
	Requirement string
	Kind        Kind
	Optional    bool
}

// Manifest is the subset of a Cargo.toml this package understands.
type Manifest struct {
	Name    string
	Version string

	// Dependencies holds registry dependencies in document order.
	Dependencies []Dependency
	// Skipped names dependencies that are not resolved through crates.io.
	Skipped []string
}

// Select returns the dependencies of the given kinds, keeping manifest order.
func (m *Manifest) Select(kinds ...Kind) []Dependency {
	var out []Dependency
	for _, d := range m.Dependencies {
		if slices.Contains(kinds, d.Kind) {
			out = append(out, d)
		}
	}
	return out
}

type cargoFile struct {
	Package struct {
		Name    string `toml:"name"`
		Version any    `toml:"version"`
	} `toml:"package"`
	Dependencies      map[string]any `toml:"dependencies"`
	DevDependencies   map[string]any `toml:"dev-dependencies"`
	BuildDependencies map[string]any `toml:"build-dependencies"`
}

func (f *cargoFile) table(k Kind) map[string]any {
	switch k {
	case KindDev:
		return f.DevDependencies
	case KindBuild:
		return f.BuildDependencies
	default:
		return f.Dependencies
	}
}

// ReadManifest reads and parses the Cargo manifest at path.
func ReadManifest(path string) (*Manifest, error) {
	if err := cerrors.ValidateManifestPath(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, cerrors.Wrap(cerrors.ErrCodeFileNotFound, err, "manifest not found: %s", path)
	}
	if err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeInvalidManifest, err, "read %s", path)
	}
	m, err := ParseManifest(data)
	if err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeInvalidManifest, err, "parse %s", path)
	}
	return m, nil
}

// ParseManifest parses the contents of a Cargo.toml.
func ParseManifest(data []byte) (*Manifest, error) {
	var f cargoFile
	md, err := toml.Decode(string(data), &f)
	if err != nil {
		return nil, err
	}

	m := &Manifest{Name: f.Package.Name}
	if v, ok := f.Package.Version.(string); ok {
		m.Version = v
	}

	// Maps lose document order; the metadata keys keep it.
	seen := make(map[[2]string]bool)
	for _, key := range md.Keys() {
		if len(key) < 2 {
			continue
		}
		kind := Kind(key[0])
		if !slices.Contains(kinds, kind) || seen[[2]string{key[0], key[1]}] {
			continue
		}
		seen[[2]string{key[0], key[1]}] = true
		name := key[1]
		d, ok, err := parseDependency(kind, name, f.table(kind)[name])
		if err != nil {
			return nil, err
		}
		if !ok {
			m.Skipped = append(m.Skipped, name)
			continue
		}
		m.Dependencies = append(m.Dependencies, d)
	}
	return m, nil
}

// parseDependency handles both the short form (serde = "1.0") and the table
// form (serde = { version = "1.0", features = ["derive"] }). ok is false for
// dependencies that do not come from crates.io.
func parseDependency(kind Kind, name string, raw any) (d Dependency, ok bool, err error) {
	d = Dependency{Name: name, Crate: name, Kind: kind}

	switch v := raw.(type) {
	case string:
		d.Requirement = v
		return d, true, nil
	case map[string]any:
		for _, key := range []string{"path", "git", "workspace", "registry"} {
			if _, local := v[key]; local {
				return Dependency{}, false, nil
			}
		}
		if pkg, ok := v["package"].(string); ok && pkg != "" {
			d.Crate = pkg
		}
		if req, ok := v["version"].(string); ok {
			d.Requirement = req
		}
		if opt, ok := v["optional"].(bool); ok {
			d.Optional = opt
		}
		return d, true, nil
	default:
		return Dependency{}, false, fmt.Errorf("%s.%s: unsupported value of type %T", kind, name, raw)
	}
}
