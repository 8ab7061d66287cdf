// Package settings holds the user-editable export settings: citation
// style, custom citations and print layout. Settings live in a YAML
// file; the export core never reads them directly, it receives resolved
// values.
package settings

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/dgallion1/wikibinder/internal/cite"
	"github.com/dgallion1/wikibinder/internal/render"
)

// Settings is the full user configuration.
type Settings struct {
	CitationStyle       cite.Style        `yaml:"citation_style" json:"citation_style"`
	IncludeBibliography bool              `yaml:"include_bibliography" json:"include_bibliography"`
	CustomCitations     []cite.Citation   `yaml:"custom_citations" json:"custom_citations"`
	Pdf                 render.PdfOptions `yaml:"pdf" json:"pdf"`
}

// Default returns the settings used when no file exists yet.
func Default() Settings {
	return Settings{
		CitationStyle:       cite.StyleAPA,
		IncludeBibliography: true,
		CustomCitations:     []cite.Citation{},
		Pdf:                 render.DefaultPdfOptions(),
	}
}

// Validate enforces the invariants the rest of the system assumes:
// known citation style and unique custom citation keys.
func (s *Settings) Validate() error {
	switch s.CitationStyle {
	case cite.StyleAPA, cite.StyleMLA:
	default:
		return fmt.Errorf("unknown citation style %q", s.CitationStyle)
	}
	seen := make(map[string]bool, len(s.CustomCitations))
	for _, c := range s.CustomCitations {
		if c.Key == "" {
			return errors.New("custom citation key must not be empty")
		}
		if seen[c.Key] {
			return fmt.Errorf("duplicate custom citation key %q", c.Key)
		}
		seen[c.Key] = true
	}
	return nil
}

// File is a concurrency-safe handle on the settings file.
type File struct {
	path string

	mu  sync.Mutex
	cur Settings
}

// Open loads settings from path, falling back to defaults when the
// file does not exist yet.
func Open(path string) (*File, error) {
	f := &File{path: path, cur: Default()}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return f, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}
	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings file: %w", err)
	}
	f.cur = s
	return f, nil
}

// Get returns the current settings snapshot.
func (f *File) Get() Settings {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cur
}

// Update validates, persists and swaps in new settings. Updates that
// violate the invariants (duplicate citation keys, unknown style) are
// rejected before anything is written.
func (f *File) Update(s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.WriteFile(f.path, data, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	f.cur = s
	return nil
}
