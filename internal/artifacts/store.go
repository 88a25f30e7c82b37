// Package artifacts persists converted documents to the output
// directory as markdown files, one per source file with a
// deterministic name, so repeated chunking runs can reuse conversions
// and operators can inspect what the converter produced.
package artifacts

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rgardner/docchunk/internal/convert"
)

// Store writes and reads conversion artifacts under a single
// directory. Artifact names are keyed by the full source path, so
// distinct sources never share an artifact even when their base names
// match.
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// ArtifactPath returns the deterministic artifact name for a source
// file: a short hash of the full path, then the base name with its
// extension swapped for .md. The hash keeps same-named files from
// different directories apart; the base name keeps artifacts
// recognizable to operators.
func (s *Store) ArtifactPath(source string) string {
	base := filepath.Base(source)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	sum := sha256.Sum256([]byte(source))
	return filepath.Join(s.dir, fmt.Sprintf("%x-%s.md", sum[:4], base))
}

// Save renders the document as markdown and writes it to the
// artifact path.
func (s *Store) Save(doc *convert.Document) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create artifact dir: %w", err)
	}
	path := s.ArtifactPath(doc.Source)
	if err := os.WriteFile(path, []byte(convert.Render(doc)), 0o644); err != nil {
		return fmt.Errorf("write artifact %s: %w", path, err)
	}
	return nil
}

// Load returns the cached conversion for source, if one exists.
func (s *Store) Load(source string) (*convert.Document, bool) {
	data, err := os.ReadFile(s.ArtifactPath(source))
	if err != nil {
		return nil, false
	}
	return convert.ParseElements(data, source), true
}
