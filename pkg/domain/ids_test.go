package domain

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRunID(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseRunID("")
		require.Error(t, err)
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseRunID("not-a-uuid")
		require.Error(t, err)
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		valid := uuid.New()
		id, err := ParseRunID(valid.String())
		require.NoError(t, err)
		assert.Equal(t, RunID(valid), id)
	})
}

func TestRunIDJSON(t *testing.T) {
	id := NewRunID()

	b, err := json.Marshal(id)
	require.NoError(t, err)
	assert.Equal(t, `"`+id.String()+`"`, string(b))

	var back RunID
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, id, back)
}

func TestRunIDIsNil(t *testing.T) {
	assert.True(t, RunID{}.IsNil())
	assert.False(t, NewRunID().IsNil())
}
