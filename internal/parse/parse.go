// Package parse converts raw export cells into typed values. Every parser
// fails soft: malformed input yields a documented default or nil, never an
// error, because export data quality is uneven by nature.
package parse

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateLayout matches the JIRA export timestamp format, e.g. "03/Nov/25 2:40 PM".
const DateLayout = "02/Jan/06 3:04 PM"

var (
	daysPattern    = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*d`)
	hoursPattern   = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*h`)
	minutesPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*m`)
	secondsPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*s`)
)

// Quantity coerces an inventory quantity cell to a non-negative integer.
// Empty or non-numeric input is 0, float-like input is truncated, and
// negative counts are clamped to 0 so stock sums stay meaningful.
func Quantity(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	qty := int(f)
	if qty < 0 {
		return 0
	}
	return qty
}

// Points parses a story point estimate. Unlike Quantity, a blank or
// malformed cell is nil rather than zero: "no estimate" must stay
// distinguishable from "estimated at zero" or averages drift.
func Points(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

// Duration parses a JIRA time-tracking cell into seconds. A bare number is
// taken as seconds directly. Otherwise unit tokens are matched
// independently in any order and summed: "1d 4h", "2h 30m", "45m". The
// seconds unit is only considered when the string contains no 'm', so the
// 's' in "ms" is never counted as a separate value. Input with no
// recognizable unit, or a zero total, is nil.
func Duration(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if f <= 0 {
			return nil
		}
		return &f
	}

	s = strings.ToLower(s)
	total := 0.0

	if m := daysPattern.FindStringSubmatch(s); m != nil {
		v, _ := strconv.ParseFloat(m[1], 64)
		total += v * 86400
	}
	if m := hoursPattern.FindStringSubmatch(s); m != nil {
		v, _ := strconv.ParseFloat(m[1], 64)
		total += v * 3600
	}
	if m := minutesPattern.FindStringSubmatch(s); m != nil {
		v, _ := strconv.ParseFloat(m[1], 64)
		total += v * 60
	}
	if !strings.Contains(s, "m") {
		if m := secondsPattern.FindStringSubmatch(s); m != nil {
			v, _ := strconv.ParseFloat(m[1], 64)
			total += v
		}
	}

	if total <= 0 {
		return nil
	}
	return &total
}

// Date parses a JIRA export timestamp. Unparseable input is nil.
func Date(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil
	}
	return &t
}
