package cargo

import (
	"path/filepath"
	"testing"

	cerrors "github.com/matzehuels/crateinfo/pkg/errors"
)

func TestReadManifest(t *testing.T) {
	m, err := ReadManifest(filepath.Join("testdata", "Cargo.toml"))
	if err != nil {
		t.Fatalf("ReadManifest() error: %v", err)
	}

	if m.Name != "demo" || m.Version != "0.3.0" {
		t.Errorf("package = %s@%s, want demo@0.3.0", m.Name, m.Version)
	}

	want := []Dependency{
		{Name: "serde", Crate: "serde", Requirement: "1.0", Kind: KindNormal},
		{Name: "anyhow", Crate: "anyhow", Requirement: "1", Kind: KindNormal},
		{Name: "json", Crate: "serde_json", Requirement: "^1.0.100", Kind: KindNormal},
		{Name: "tokio", Crate: "tokio", Requirement: "~1.28", Kind: KindNormal, Optional: true},
		{Name: "regex", Crate: "regex", Requirement: "1.9", Kind: KindNormal},
		{Name: "proptest", Crate: "proptest", Requirement: "1.2", Kind: KindDev},
		{Name: "cc", Crate: "cc", Requirement: "=1.0.83", Kind: KindBuild},
	}
	if len(m.Dependencies) != len(want) {
		t.Fatalf("Dependencies = %+v, want %d entries", m.Dependencies, len(want))
	}
	for i, d := range m.Dependencies {
		if d != want[i] {
			t.Errorf("Dependencies[%d] = %+v, want %+v", i, d, want[i])
		}
	}

	wantSkipped := []string{"local-util", "forked", "shared"}
	if len(m.Skipped) != len(wantSkipped) {
		t.Fatalf("Skipped = %v, want %v", m.Skipped, wantSkipped)
	}
	for i, name := range wantSkipped {
		if m.Skipped[i] != name {
			t.Errorf("Skipped[%d] = %q, want %q", i, m.Skipped[i], name)
		}
	}
}

func TestManifestSelect(t *testing.T) {
	m, err := ReadManifest(filepath.Join("testdata", "Cargo.toml"))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		kinds []Kind
		want  []string
	}{
		{[]Kind{KindNormal}, []string{"serde", "anyhow", "serde_json", "tokio", "regex"}},
		{[]Kind{KindDev}, []string{"proptest"}},
		{[]Kind{KindBuild, KindDev}, []string{"proptest", "cc"}},
		{nil, nil},
	}

	for _, tt := range tests {
		got := m.Select(tt.kinds...)
		if len(got) != len(tt.want) {
			t.Errorf("Select(%v) = %d deps, want %d", tt.kinds, len(got), len(tt.want))
			continue
		}
		for i, d := range got {
			if d.Crate != tt.want[i] {
				t.Errorf("Select(%v)[%d] = %s, want %s", tt.kinds, i, d.Crate, tt.want[i])
			}
		}
	}
}

func TestParseManifest_WorkspaceVersion(t *testing.T) {
	m, err := ParseManifest([]byte(`
[package]
name = "member"
version.workspace = true
`))
	if err != nil {
		t.Fatalf("ParseManifest() error: %v", err)
	}
	if m.Name != "member" || m.Version != "" {
		t.Errorf("package = %q@%q", m.Name, m.Version)
	}
	if len(m.Dependencies) != 0 {
		t.Errorf("Dependencies = %v, want none", m.Dependencies)
	}
}

func TestParseManifest_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"syntax", "[dependencies\nserde = 1"},
		{"numeric requirement", "[dependencies]\nserde = 1\n"},
		{"array requirement", "[dependencies]\nserde = [\"1\"]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseManifest([]byte(tt.data)); err == nil {
				t.Error("ParseManifest() expected error")
			}
		})
	}
}

func TestReadManifest_Errors(t *testing.T) {
	tests := []struct {
		name string
		path string
		code cerrors.Code
	}{
		{"missing", filepath.Join(t.TempDir(), "Cargo.toml"), cerrors.ErrCodeFileNotFound},
		{"not toml", "Cargo.lock", cerrors.ErrCodeInvalidManifest},
		{"empty path", "", cerrors.ErrCodeInvalidManifest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadManifest(tt.path)
			if !cerrors.Is(err, tt.code) {
				t.Errorf("ReadManifest(%q) error = %v, want code %s", tt.path, err, tt.code)
			}
		})
	}
}

func TestReadManifest_ExampleProject(t *testing.T) {
	m, err := ReadManifest(filepath.Join("..", "..", "examples", "manifest", "Cargo.toml"))
	if err != nil {
		t.Fatalf("ReadManifest() error: %v", err)
	}
	if got := len(m.Select(KindNormal)); got != 4 {
		t.Errorf("normal dependencies = %d, want 4", got)
	}
	if len(m.Skipped) != 1 || m.Skipped[0] != "utils" {
		t.Errorf("Skipped = %v, want [utils]", m.Skipped)
	}
}
