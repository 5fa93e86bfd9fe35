package shopify

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendActionLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.json")

	require.NoError(t, AppendActionLog(path, NewActionEntry("unpublish", "1", "success", "handle-1")))
	require.NoError(t, AppendActionLog(path, NewActionEntry("republish", "2", "error", "boom")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entries []ActionEntry
	require.NoError(t, json.Unmarshal(data, &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "unpublish", entries[0].Action)
	assert.Equal(t, "2", entries[1].ProductID)
	assert.NotEmpty(t, entries[0].Timestamp)
}

func TestAppendActionLogCorruptHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	require.NoError(t, AppendActionLog(path, NewActionEntry("unpublish", "1", "success", "")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entries []ActionEntry
	require.NoError(t, json.Unmarshal(data, &entries))
	require.Len(t, entries, 1)
}
