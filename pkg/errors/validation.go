package errors

import (
	"net/url"
	"path/filepath"
	"strings"
	"unicode"
)

// ValidateURL validates an API root URL.
// It requires an http or https scheme and a host.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return Wrap(ErrCodeInvalidInput, err, "invalid URL %q", rawURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}
	if u.Host == "" {
		return New(ErrCodeInvalidInput, "URL must include a host")
	}

	return nil
}

// ValidateManifestPath validates the path of a Cargo manifest.
//
// Validation rules:
//   - Path cannot be empty
//   - No control characters
//   - The file must have a .toml extension
func ValidateManifestPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidManifest, "manifest path cannot be empty")
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidManifest, "manifest path contains invalid characters")
		}
	}

	if !strings.EqualFold(filepath.Ext(path), ".toml") {
		return New(ErrCodeInvalidManifest, "manifest must be a .toml file: %s", filepath.Base(path))
	}

	return nil
}
