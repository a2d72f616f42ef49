package payroll

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// DefaultSheet is the sheet read when the caller does not name one.
const DefaultSheet = "Sheet1"

// Load parses raw workbook bytes into a normalized payroll table. Column
// names are trimmed, the designated numeric columns are coerced to float64
// with unparseable or blank cells becoming exactly 0, and the designated
// string columns are trimmed. Unknown columns are kept verbatim in Row.Extra.
// An empty sheet name selects the first sheet in the workbook.
func Load(r io.Reader, sheet string) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, sheet)
	}
	if len(rows) == 0 {
		return &Table{}, nil
	}

	header := make([]string, len(rows[0]))
	for i, name := range rows[0] {
		header[i] = strings.TrimSpace(name)
	}

	table := &Table{Columns: header}
	for _, raw := range rows[1:] {
		if blankRecord(raw) {
			continue
		}
		table.Rows = append(table.Rows, normalizeRow(header, raw))
	}
	return table, nil
}

func normalizeRow(header, cells []string) Row {
	var row Row
	numeric := numericFields(&row)
	str := stringFields(&row)

	for i, col := range header {
		var cell string
		if i < len(cells) {
			cell = cells[i]
		}
		if dst, ok := numeric[col]; ok {
			*dst = coerceNumeric(cell)
			if col == "NetPay" && strings.TrimSpace(cell) == "" {
				row.netPayBlank = true
			}
			continue
		}
		if dst, ok := str[col]; ok {
			*dst = strings.TrimSpace(cell)
			continue
		}
		if col == "" {
			continue
		}
		if row.Extra == nil {
			row.Extra = make(map[string]string)
		}
		row.Extra[col] = cell
	}
	return row
}

// coerceNumeric is total: anything that does not parse becomes 0.
func coerceNumeric(cell string) float64 {
	cell = strings.TrimSpace(cell)
	cell = strings.ReplaceAll(cell, ",", "")
	if cell == "" {
		return 0
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0
	}
	return v
}

func blankRecord(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
