// Package convert turns layout-bearing source documents (PDF, DOCX,
// HTML, CSV) into an ordered sequence of structural elements: text
// blocks, tables, and image references. The chunking layer merges
// these elements into token-bounded chunks.
package convert

import (
	"fmt"
	"strings"

	"github.com/rgardner/docchunk/internal/filetype"
)

// ElementKind tags a structural element.
type ElementKind string

const (
	ElementText  ElementKind = "text"
	ElementTable ElementKind = "table"
	ElementImage ElementKind = "image"
)

// Element is one atomic unit of a converted document. Text holds the
// markdown-ish rendering of the element: plain prose for text blocks,
// a pipe table for tables, an image reference for images.
type Element struct {
	Kind ElementKind `json:"kind"`
	Text string      `json:"text"`
}

// Document is the converted form of one source file.
type Document struct {
	Source   string    `json:"source"`
	Elements []Element `json:"elements"`
}

// Converter produces a Document from a source file path.
type Converter interface {
	Convert(path string) (*Document, error)
}

// ForKind returns the converter for a layout-bearing Kind.
func ForKind(k filetype.Kind) (Converter, error) {
	switch k {
	case filetype.PDF:
		return &PDFConverter{FallbackPdftotext: true}, nil
	case filetype.DOCX:
		return &DOCXConverter{}, nil
	case filetype.HTML:
		return &HTMLConverter{}, nil
	case filetype.CSV:
		return &CSVConverter{}, nil
	default:
		return nil, fmt.Errorf("no converter for file type %s", k)
	}
}

// markdownTable renders header and rows as a markdown pipe table.
func markdownTable(header []string, rows [][]string) string {
	var buf strings.Builder
	writeRow := func(cells []string) {
		buf.WriteString("|")
		for _, c := range cells {
			buf.WriteString(" ")
			buf.WriteString(strings.ReplaceAll(strings.TrimSpace(c), "|", "\\|"))
			buf.WriteString(" |")
		}
		buf.WriteString("\n")
	}
	if len(header) == 0 && len(rows) > 0 {
		header = rows[0]
		rows = rows[1:]
	}
	writeRow(header)
	buf.WriteString("|")
	for range header {
		buf.WriteString(" --- |")
	}
	buf.WriteString("\n")
	for _, row := range rows {
		writeRow(row)
	}
	return strings.TrimRight(buf.String(), "\n")
}

// imageRef renders an image reference element body.
func imageRef(alt, target string) string {
	if alt == "" {
		alt = "image"
	}
	return fmt.Sprintf("![%s](%s)", alt, target)
}
