package convert

import (
	"fmt"
	"os"
	"strings"

	"github.com/fumiama/go-docx"
)

// DOCXConverter handles .docx files. Paragraphs become text elements,
// tables become markdown table elements, and embedded drawings become
// image references.
type DOCXConverter struct{}

func (c *DOCXConverter) Convert(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open docx: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat docx: %w", err)
	}

	parsed, err := docx.Parse(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	doc := &Document{Source: path}
	var currentText strings.Builder

	flushText := func() {
		t := strings.TrimSpace(currentText.String())
		if t != "" {
			doc.Elements = append(doc.Elements, Element{Kind: ElementText, Text: t})
		}
		currentText.Reset()
	}

	for _, item := range parsed.Document.Body.Items {
		switch v := item.(type) {
		case *docx.Paragraph:
			text, hasDrawing := docxParagraphText(v)
			if level := docxHeadingLevel(v); level > 0 && text != "" {
				// Headings close the running block so sections stay
				// separable at the element level.
				flushText()
				currentText.WriteString(strings.Repeat("#", level) + " " + text)
				flushText()
				continue
			}
			if text != "" {
				if currentText.Len() > 0 {
					currentText.WriteString("\n\n")
				}
				currentText.WriteString(text)
			}
			if hasDrawing {
				flushText()
				doc.Elements = append(doc.Elements, Element{Kind: ElementImage, Text: imageRef("", "embedded")})
			}
		case *docx.Table:
			flushText()
			if t := docxTable(v); t != "" {
				doc.Elements = append(doc.Elements, Element{Kind: ElementTable, Text: t})
			}
		}
	}
	flushText()

	return doc, nil
}

func docxHeadingLevel(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0
	}
	style := strings.ToLower(strings.ReplaceAll(para.Properties.Style.Val, " ", ""))
	for level := 1; level <= 6; level++ {
		if style == fmt.Sprintf("heading%d", level) {
			return level
		}
	}
	return 0
}

func docxParagraphText(para *docx.Paragraph) (text string, hasDrawing bool) {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			switch t := rc.(type) {
			case *docx.Text:
				buf.WriteString(t.Text)
			case *docx.Drawing:
				hasDrawing = true
			}
		}
	}
	return strings.TrimSpace(buf.String()), hasDrawing
}

func docxTable(table *docx.Table) string {
	var rows [][]string
	for _, row := range table.TableRows {
		var cells []string
		for _, cell := range row.TableCells {
			var buf strings.Builder
			for _, para := range cell.Paragraphs {
				t, _ := docxParagraphText(para)
				if t == "" {
					continue
				}
				if buf.Len() > 0 {
					buf.WriteString(" ")
				}
				buf.WriteString(t)
			}
			cells = append(cells, buf.String())
		}
		rows = append(rows, cells)
	}
	if len(rows) == 0 {
		return ""
	}
	return markdownTable(nil, rows)
}
