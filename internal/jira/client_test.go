package jira

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petebuzzell-ad/rudis-documentation/internal/parse"
)

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{0, ""},
		{-10, ""},
		{30, "30s"},
		{60, "1m"},
		{90, "1.5m"},
		{150, "2.5m"},
		{3600, "1h"},
		{3690, "1h 1.5m"},
		{9000, "2h 30m"},
		{86400, "1d"},
		{86460, "1d 1m"},
		{100800, "1d 4h"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, formatSeconds(tt.seconds))
		})
	}
}

// Every tracked value written by fetch must read back as the same number of
// seconds through the export coercion layer.
func TestFormatSecondsRoundTrip(t *testing.T) {
	for _, seconds := range []int{30, 59, 60, 90, 150, 3600, 3690, 9000, 86400, 86460, 90090} {
		t.Run(fmt.Sprintf("%ds", seconds), func(t *testing.T) {
			got := parse.Duration(formatSeconds(seconds))
			require.NotNil(t, got)
			assert.Equal(t, float64(seconds), *got)
		})
	}
}
