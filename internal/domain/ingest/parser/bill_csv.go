package parser

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/finboard/command-center/internal/domain/ingest/sniffer"
)

// ParseBillsCSV parses a CSV bill export. The sniffer locates the header row
// and delimiter first, so exports with leading metadata banners still parse;
// the rows then flow through the same narrow-layout pass as workbooks.
func ParseBillsCSV(data []byte) (*BillParseResult, error) {
	cfg, err := sniffer.DetectConfig(data)
	if err != nil {
		return nil, structuralf("csv: %v", err)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = cfg.Delimiter
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	// The csv reader drops blank lines and does not know about metadata
	// banners, so records are placed at their physical source line (via
	// FieldPos) with nil placeholders in between. Row numbers in errors then
	// always point at the line the operator sees in the file.
	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV: %w", err)
		}
		line, _ := reader.FieldPos(0)
		if line-1 < cfg.SkipLines {
			continue
		}
		for len(rows) < line-1 {
			rows = append(rows, nil)
		}
		rows = append(rows, record)
	}

	// Strip a UTF-8 BOM that would otherwise corrupt the first header.
	if len(rows) > cfg.SkipLines && len(rows[cfg.SkipLines]) > 0 {
		rows[cfg.SkipLines][0] = strings.TrimPrefix(rows[cfg.SkipLines][0], "\uFEFF")
	}

	result, err := parseBillRows(rows)
	if err != nil {
		return nil, err
	}
	return result, nil
}
