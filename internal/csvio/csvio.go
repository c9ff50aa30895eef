// Package csvio reads contact exports into engine tables and renders engine
// output back to CSV. The engine itself never touches encoding; this keeps
// the computation pure and the wire format in one place.
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"dedupe/internal/engine"
	dErrors "dedupe/pkg/domain-errors"
)

// ReadTable parses a CSV stream into an engine table. The first line is the
// header; column order is preserved. Rows with a field count that does not
// match the header are skipped with a warning rather than failing the whole
// upload.
func ReadTable(r io.Reader) (engine.Table, []engine.RowWarning, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return engine.Table{}, nil, dErrors.New(dErrors.CodeEmptyInput, "csv file is empty")
	}
	if err != nil {
		return engine.Table{}, nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "unreadable csv header")
	}

	columns := make([]string, len(header))
	for i, col := range header {
		columns[i] = strings.TrimSpace(col)
	}

	t := engine.Table{Columns: columns}
	var warnings []engine.RowWarning

	for row := 0; ; row++ {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			warnings = append(warnings, engine.RowWarning{Index: row, Message: fmt.Sprintf("unparseable row: %v", err)})
			continue
		}
		if len(fields) != len(columns) {
			warnings = append(warnings, engine.RowWarning{
				Index:   row,
				Message: fmt.Sprintf("expected %d fields, got %d", len(columns), len(fields)),
			})
			continue
		}

		values := make(map[string]string, len(columns))
		for i, col := range columns {
			values[col] = fields[i]
		}
		t.Rows = append(t.Rows, engine.Record{Index: row, Values: values})
	}

	return t, warnings, nil
}

// WriteTable renders a table deterministically: header first, rows in slice
// order, cells in column order.
func WriteTable(w io.Writer, t engine.Table) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(t.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range t.Rows {
		fields := make([]string, len(t.Columns))
		for i, col := range t.Columns {
			fields[i] = row.Get(col)
		}
		if err := writer.Write(fields); err != nil {
			return fmt.Errorf("write row %d: %w", row.Index, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// RenderTable returns the CSV text for a table.
func RenderTable(t engine.Table) (string, error) {
	var sb strings.Builder
	if err := WriteTable(&sb, t); err != nil {
		return "", err
	}
	return sb.String(), nil
}
