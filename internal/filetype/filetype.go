package filetype

import (
	"path/filepath"
	"strings"
)

// Kind identifies a supported source document format.
type Kind int

const (
	Unknown Kind = iota
	Markdown
	Text
	PDF
	DOCX
	HTML
	CSV
)

func (k Kind) String() string {
	switch k {
	case Markdown:
		return "markdown"
	case Text:
		return "text"
	case PDF:
		return "pdf"
	case DOCX:
		return "docx"
	case HTML:
		return "html"
	case CSV:
		return "csv"
	}
	return "unknown"
}

// Strategy names the chunking approach a Kind requires.
type Strategy int

const (
	StrategyNone Strategy = iota
	StrategyTextSplit
	StrategyContextAware
)

// Classify maps a file path to its Kind by extension. Unrecognized
// extensions return Unknown; deciding whether that is an error is the
// caller's business.
func Classify(path string) Kind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return Markdown
	case ".txt":
		return Text
	case ".pdf":
		return PDF
	case ".docx":
		return DOCX
	case ".html", ".htm":
		return HTML
	case ".csv":
		return CSV
	}
	return Unknown
}

// Strategy returns the chunking strategy for a Kind. Plain-text kinds
// split directly; layout-bearing kinds go through document conversion
// first.
func (k Kind) Strategy() Strategy {
	switch k {
	case Markdown, Text:
		return StrategyTextSplit
	case PDF, DOCX, HTML, CSV:
		return StrategyContextAware
	}
	return StrategyNone
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
	".txt":      true,
	".pdf":      true,
	".docx":     true,
	".html":     true,
	".htm":      true,
	".csv":      true,
}

// IsSupportedExtension checks if a file's extension is supported.
func IsSupportedExtension(filename string) bool {
	return SupportedExtensions[strings.ToLower(filepath.Ext(filename))]
}
