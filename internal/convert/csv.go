package convert

import (
	"encoding/csv"
	"fmt"
	"os"
)

// csvBatchRows bounds how many data rows share one table element so a
// large file yields mergeable pieces instead of one giant table.
const csvBatchRows = 20

// CSVConverter handles CSV files. Rows become markdown table
// elements, batched so each table stays a reasonable atomic unit.
type CSVConverter struct{}

func (c *CSVConverter) Convert(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	doc := &Document{Source: path}
	if len(records) == 0 {
		return doc, nil
	}

	// First row is the header, repeated in every batch.
	header := records[0]
	dataRows := records[1:]
	if len(dataRows) == 0 {
		doc.Elements = append(doc.Elements, Element{Kind: ElementTable, Text: markdownTable(header, nil)})
		return doc, nil
	}

	for i := 0; i < len(dataRows); i += csvBatchRows {
		end := min(i+csvBatchRows, len(dataRows))
		doc.Elements = append(doc.Elements, Element{
			Kind: ElementTable,
			Text: markdownTable(header, dataRows[i:end]),
		})
	}

	return doc, nil
}
