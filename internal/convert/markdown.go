package convert

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// Render serializes a converted document as markdown. Element bodies
// are already markdown, so rendering is a blank-line join. This is the
// artifact format persisted to the output directory.
func Render(doc *Document) string {
	var buf strings.Builder
	for i, el := range doc.Elements {
		if i > 0 {
			buf.WriteString("\n\n")
		}
		buf.WriteString(el.Text)
	}
	buf.WriteString("\n")
	return buf.String()
}

// ParseElements parses a markdown artifact back into structural
// elements. Inverse of Render for the element kinds we emit: tables
// come back as table elements, standalone images as image elements,
// everything else as text blocks.
func ParseElements(src []byte, source string) *Document {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	root := md.Parser().Parse(text.NewReader(src))

	doc := &Document{Source: source}
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *east.Table:
			doc.Elements = append(doc.Elements, Element{
				Kind: ElementTable,
				Text: renderTableNode(node, src),
			})
		case *ast.Heading:
			title := string(node.Text(src))
			if title != "" {
				doc.Elements = append(doc.Elements, Element{
					Kind: ElementText,
					Text: strings.Repeat("#", node.Level) + " " + title,
				})
			}
		case *ast.Paragraph:
			if img, ok := node.FirstChild().(*ast.Image); ok && node.ChildCount() == 1 {
				doc.Elements = append(doc.Elements, Element{
					Kind: ElementImage,
					Text: imageRef(string(img.Text(src)), string(img.Destination)),
				})
				continue
			}
			if t := inlineText(node, src); t != "" {
				doc.Elements = append(doc.Elements, Element{Kind: ElementText, Text: t})
			}
		default:
			if t := inlineText(n, src); t != "" {
				doc.Elements = append(doc.Elements, Element{Kind: ElementText, Text: t})
			}
		}
	}
	return doc
}

func renderTableNode(table *east.Table, src []byte) string {
	var header []string
	var rows [][]string
	for row := table.FirstChild(); row != nil; row = row.NextSibling() {
		var cells []string
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, string(cell.Text(src)))
		}
		if _, ok := row.(*east.TableHeader); ok {
			header = cells
		} else {
			rows = append(rows, cells)
		}
	}
	return markdownTable(header, rows)
}

// inlineText gets the text content of a goldmark AST node. Blocks
// with source lines use the raw segments; container blocks (lists)
// recurse into their children.
func inlineText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.Type() == ast.TypeBlock && n.Lines().Len() > 0 {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(src))
		}
		return strings.TrimSpace(buf.String())
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		t := inlineText(c, src)
		if t == "" {
			continue
		}
		if buf.Len() > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(t)
	}
	return strings.TrimSpace(buf.String())
}
