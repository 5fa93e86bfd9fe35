package issues

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petebuzzell-ad/rudis-documentation/pkg/models"
)

func TestSprints(t *testing.T) {
	anchor := time.Date(2025, time.November, 4, 0, 0, 0, 0, time.UTC)
	sprints := Sprints(anchor, 3)
	require.Len(t, sprints, 3)

	// Most recent first, back-to-back two-week windows ending the day
	// before the anchor.
	assert.Equal(t, "Sprint 3", sprints[0].Name)
	assert.Equal(t, time.Date(2025, time.October, 21, 0, 0, 0, 0, time.UTC), sprints[0].Start)
	assert.Equal(t, time.Date(2025, time.November, 3, 0, 0, 0, 0, time.UTC), sprints[0].End)

	assert.Equal(t, "Sprint 2", sprints[1].Name)
	assert.Equal(t, time.Date(2025, time.October, 7, 0, 0, 0, 0, time.UTC), sprints[1].Start)
	assert.Equal(t, time.Date(2025, time.October, 20, 0, 0, 0, 0, time.UTC), sprints[1].End)

	assert.Equal(t, "Sprint 1", sprints[2].Name)
	assert.Equal(t, time.Date(2025, time.September, 23, 0, 0, 0, 0, time.UTC), sprints[2].Start)
	assert.Equal(t, time.Date(2025, time.October, 6, 0, 0, 0, 0, time.UTC), sprints[2].End)

	assert.Equal(t, "Oct 21 - Nov 3, 2025", sprints[0].Period())
}

func TestSprintContains(t *testing.T) {
	sprint := Sprint{
		Start: time.Date(2025, time.October, 21, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, time.November, 3, 0, 0, 0, 0, time.UTC),
	}

	// The final calendar day counts in full.
	lastDayAfternoon := time.Date(2025, time.November, 3, 14, 40, 0, 0, time.UTC)
	assert.True(t, sprint.contains(&lastDayAfternoon))

	dayAfter := time.Date(2025, time.November, 4, 0, 0, 0, 0, time.UTC)
	assert.False(t, sprint.contains(&dayAfter))

	firstDay := time.Date(2025, time.October, 21, 0, 0, 0, 0, time.UTC)
	assert.True(t, sprint.contains(&firstDay))

	assert.False(t, sprint.contains(nil))
}

func TestSprintReport(t *testing.T) {
	anchor := time.Date(2025, time.November, 4, 0, 0, 0, 0, time.UTC)
	all := []models.Issue{
		resolvedIssue("RUD-1", "Major", date(2025, time.October, 22), date(2025, time.October, 30)),
		{Key: "RUD-2", Summary: "Checkout bug", Type: "Bug", Status: "Hold", Priority: "Major", Created: date(2025, time.October, 25)},
		resolvedIssue("RUD-3", "Minor", date(2025, time.October, 10), date(2025, time.October, 15)),
	}
	analysis := Analyze(all, Options{Now: anchor})

	lines := SprintReport(all, analysis, SprintOptions{Anchor: anchor, Count: 3, Now: anchor})
	report := strings.Join(lines, "\n")

	assert.Contains(t, report, "# RUDIS Sprint-Over-Sprint Analysis")
	assert.Contains(t, report, "| Sprint 3 | Oct 21 - Nov 3, 2025 | 2 | 1 | 1 | 1 |")
	assert.Contains(t, report, "| Sprint 2 | Oct 7 - Oct 20, 2025 | 1 | 1 | 0 | 0 |")
	assert.Contains(t, report, "**Stuck Issues:**")
	assert.Contains(t, report, "RUD-2: Checkout bug (Hold)")
}

func TestSprintCategoriesUseSummaryOnly(t *testing.T) {
	anchor := time.Date(2025, time.November, 4, 0, 0, 0, 0, time.UTC)
	all := []models.Issue{
		{
			Key:         "RUD-1",
			Summary:     "Zzz",
			Description: "checkout is broken",
			Status:      "Done",
			Priority:    "None",
			Created:     date(2025, time.October, 22),
		},
	}
	analysis := Analyze(all, Options{Now: anchor})

	lines := SprintReport(all, analysis, SprintOptions{Anchor: anchor, Count: 3, Now: anchor})
	report := strings.Join(lines, "\n")

	// The sprint view matches summaries only; the description keyword must
	// not pull the issue into the checkout category.
	assert.Contains(t, report, "- Other: 1 issues")
	assert.NotContains(t, report, "Cart/Checkout/Conversion")
}
