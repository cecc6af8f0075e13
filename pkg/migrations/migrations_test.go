package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	entries, err := fs.ReadDir(embedded, "sql")
	require.NoError(t, err)
	require.Len(t, entries, 4)

	for _, e := range entries {
		data, err := fs.ReadFile(embedded, "sql/"+e.Name())
		require.NoError(t, err)

		content := string(data)
		assert.True(t, strings.Contains(content, "-- +goose Up"), e.Name())
		assert.True(t, strings.Contains(content, "-- +goose Down"), e.Name())
	}
}
