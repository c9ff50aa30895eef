package csvio

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dedupe/internal/engine"
	dErrors "dedupe/pkg/domain-errors"
)

func TestReadTable(t *testing.T) {
	in := "name,email,company\n" +
		"Jane Doe,jane@acme.com,Acme\n" +
		"short,row\n" +
		"John Smith,john@acme.com,\n"

	table, warnings, err := ReadTable(strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "email", "company"}, table.Columns)
	require.Len(t, table.Rows, 2)

	// Skipped rows still consume their original row index.
	assert.Equal(t, 0, table.Rows[0].Index)
	assert.Equal(t, 2, table.Rows[1].Index)
	assert.Equal(t, "jane@acme.com", table.Rows[0].Get("email"))

	require.Len(t, warnings, 1)
	assert.Equal(t, 1, warnings[0].Index)
}

func TestReadTableEmptyFile(t *testing.T) {
	_, _, err := ReadTable(strings.NewReader(""))
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeEmptyInput))
}

func TestReadTableHeaderOnly(t *testing.T) {
	table, warnings, err := ReadTable(strings.NewReader("name,email\n"))
	require.NoError(t, err)
	assert.Empty(t, table.Rows)
	assert.Empty(t, warnings)
}

func TestWriteTableRoundTrip(t *testing.T) {
	in := "name,email,company\n" +
		"Jane Doe,jane@acme.com,Acme\n" +
		"\"Smith, John\",john@acme.com,Globex\n"

	table, _, err := ReadTable(strings.NewReader(in))
	require.NoError(t, err)

	out, err := RenderTable(table)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestRenderTableDeterministic(t *testing.T) {
	table := engine.Table{
		Columns: []string{"name", "email"},
		Rows: []engine.Record{
			{Index: 0, Values: map[string]string{"name": "A Person", "email": "a@x.com"}},
			{Index: 1, Values: map[string]string{"name": "B Person", "email": "b@x.com"}},
		},
	}

	first, err := RenderTable(table)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := RenderTable(table)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
