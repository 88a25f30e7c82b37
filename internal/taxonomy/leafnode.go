// Package taxonomy defines the unit of work handed to the chunking
// layer: a leaf node bundling source document contents with the file
// paths they came from.
package taxonomy

import (
	"path/filepath"
	"strings"
)

// LeafNode is an immutable unit of taxonomy-driven work. Documents and
// Filepaths are parallel: Documents[i] holds the raw content read from
// Filepaths[i].
type LeafNode struct {
	Documents    []string `json:"documents"`
	TaxonomyPath string   `json:"taxonomy_path"`
	Filepaths    []string `json:"filepaths"`
}

// ResolveDir maps a taxonomy path like "knowledge->science->physics"
// to a directory under root.
func ResolveDir(root, taxonomyPath string) string {
	return filepath.Join(root, strings.ReplaceAll(taxonomyPath, "->", string(filepath.Separator)))
}

// ResolvePath resolves a leaf node file path against the taxonomy
// root. Absolute paths pass through untouched.
func ResolvePath(root, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}
