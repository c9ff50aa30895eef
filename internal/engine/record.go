// Package engine implements the deduplication core: normalization, fuzzy
// similarity scoring, duplicate clustering, and the merge/flag policy. It is
// a pure computation over one in-memory table; it performs no I/O and holds
// no state between runs.
package engine

import "fmt"

// Record is one input row: a mapping of column name to raw string value plus
// the stable original row index. Records are never mutated after ingestion;
// merges build new derived records.
type Record struct {
	// Index is the zero-based position of the row in the input sequence.
	Index int

	Values map[string]string
}

// Get returns the raw value for a column, or "" when absent.
func (r Record) Get(column string) string {
	return r.Values[column]
}

// clone copies a record so derived rows never alias input storage.
func (r Record) clone() Record {
	values := make(map[string]string, len(r.Values))
	for k, v := range r.Values {
		values[k] = v
	}
	return Record{Index: r.Index, Values: values}
}

// Table is an ordered sequence of rows together with the declared column
// names actually present in the input. Column order is preserved end to end
// so outputs mirror the upload.
type Table struct {
	Columns []string
	Rows    []Record
}

// RowWarning reports a malformed row that was skipped. The row never enters
// the output tables.
type RowWarning struct {
	Index   int    `json:"row"`
	Message string `json:"message"`
}

func (w RowWarning) String() string {
	return fmt.Sprintf("row %d: %s", w.Index, w.Message)
}
