package scene

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// ManifestError reports a manifest that parsed but failed validation.
type ManifestError struct {
	Path   string
	Fields []string
}

func (e *ManifestError) Error() string {
	return fmt.Sprintf("invalid scene manifest %s: %s", e.Path, strings.Join(e.Fields, "; "))
}

// Load reads and validates a scene manifest.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene manifest: %w", err)
	}
	s, err := Parse(bytes.NewReader(data), path)
	if err != nil {
		return nil, err
	}
	if abs, err := filepath.Abs(filepath.Dir(path)); err == nil {
		s.Dir = abs
	}
	return s, nil
}

// Parse decodes a manifest. Missing settings take their defaults.
// source names the manifest in error messages.
func Parse(r io.Reader, source string) (*Scene, error) {
	s := &Scene{Settings: DefaultSettings(), VisibleLayers: allLayers}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse scene manifest %s: %w", source, err)
	}
	if err := Validate(s); err != nil {
		var me *ManifestError
		if errors.As(err, &me) {
			me.Path = source
		}
		return nil, err
	}
	return s, nil
}

// Validate checks struct constraints and that object names are unique.
func Validate(s *Scene) error {
	var fields []string
	if err := validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			fields = append(fields, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
		}
	}
	seen := make(map[string]bool, len(s.Objects))
	for _, o := range s.Objects {
		if o == nil || o.Name == "" {
			continue
		}
		if seen[o.Name] {
			fields = append(fields, fmt.Sprintf("duplicate object %q", o.Name))
		}
		seen[o.Name] = true
	}
	if len(fields) > 0 {
		return &ManifestError{Path: s.Name, Fields: fields}
	}
	return nil
}

// Save writes the scene as a YAML manifest.
func Save(path string, s *Scene) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode scene manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write scene manifest: %w", err)
	}
	return nil
}

// ResolveExportPath turns Settings.ExportPath into an absolute directory.
func (s *Scene) ResolveExportPath() string {
	p := s.Settings.ExportPath
	if rest, ok := strings.CutPrefix(p, "//"); ok {
		return filepath.Join(s.Dir, filepath.FromSlash(rest))
	}
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(s.Dir, filepath.FromSlash(p))
}
