package parse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantity(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{name: "plain integer", input: "12", want: 12},
		{name: "float truncates", input: "3.9", want: 3},
		{name: "negative clamps to zero", input: "-5", want: 0},
		{name: "empty is zero", input: "", want: 0},
		{name: "whitespace only is zero", input: "   ", want: 0},
		{name: "non-numeric is zero", input: "abc", want: 0},
		{name: "zero stays zero", input: "0", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Quantity(tt.input))
		})
	}
}

func TestPoints(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *float64
	}{
		{name: "integer points", input: "5", want: ptr(5.0)},
		{name: "fractional points", input: "2.5", want: ptr(2.5)},
		{name: "zero is a real estimate", input: "0", want: ptr(0.0)},
		{name: "empty is absent", input: "", want: nil},
		{name: "garbage is absent", input: "n/a", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Points(tt.input))
		})
	}
}

func TestDuration(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *float64
	}{
		{name: "hours and minutes", input: "2h 30m", want: ptr(9000.0)},
		{name: "minutes only", input: "45m", want: ptr(2700.0)},
		{name: "days and hours", input: "1d 4h", want: ptr(100800.0)},
		{name: "bare number is seconds", input: "3600", want: ptr(3600.0)},
		{name: "seconds unit without minutes", input: "90s", want: ptr(90.0)},
		{name: "uppercase units", input: "2H 30M", want: ptr(9000.0)},
		{name: "empty is absent", input: "", want: nil},
		{name: "no recognizable unit", input: "soon", want: nil},
		{name: "bare zero is absent", input: "0", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Duration(tt.input))
		})
	}
}

// The 's' in a minutes-bearing string must never be read as a seconds
// value; "30 mins" contains both 'm' and 's'.
func TestDurationSecondsGuard(t *testing.T) {
	got := Duration("30 mins")
	require.NotNil(t, got)
	assert.Equal(t, 1800.0, *got)
}

func TestDate(t *testing.T) {
	got := Date("03/Nov/25 2:40 PM")
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2025, time.November, 3, 14, 40, 0, 0, time.UTC), *got)

	assert.Nil(t, Date(""))
	assert.Nil(t, Date("not a date"))
	assert.Nil(t, Date("2025-11-03"))
}

func ptr(f float64) *float64 { return &f }
