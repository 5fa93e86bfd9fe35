package csvio

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadStripsBOM(t *testing.T) {
	input := "\ufeffIssue key,Summary\nRUD-1,Fix header\n"

	records, err := Read(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, "RUD-1", records[0].Get("Issue key"))
	assert.Equal(t, "Fix header", records[0].Get("Summary"))
}

func TestReadRepeatedColumns(t *testing.T) {
	input := strings.Join([]string{
		"Issue key,Comment,Comment,Comment",
		`RUD-1,first,second,`,
		`RUD-2,,,`,
	}, "\n")

	records, err := Read(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Get returns the first occurrence; Values returns all non-empty cells.
	assert.Equal(t, "first", records[0].Get("Comment"))
	assert.Equal(t, []string{"first", "second"}, records[0].Values("Comment"))
	assert.Empty(t, records[1].Values("Comment"))
}

func TestReadShortRowsPadded(t *testing.T) {
	input := "A,B,C\n1,2\n"

	records, err := Read(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, "2", records[0].Get("B"))
	assert.Equal(t, "", records[0].Get("C"))
}

func TestReadEmptyInput(t *testing.T) {
	records, err := Read(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestGetUnknownHeader(t *testing.T) {
	records, err := Read(strings.NewReader("A\n1\n"))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "", records[0].Get("Missing"))
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile("does-not-exist.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open csv export")
}
