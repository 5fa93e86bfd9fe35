package issues

import (
	"fmt"
	"sort"
	"time"

	"github.com/petebuzzell-ad/rudis-documentation/internal/classify"
	"github.com/petebuzzell-ad/rudis-documentation/internal/emit"
	"github.com/petebuzzell-ad/rudis-documentation/pkg/models"
)

const (
	sprintLengthDays   = 14
	defaultSprintCount = 3

	// Two weeks of a 70h/month retainer, at ~4.33 weeks per month.
	sprintBudgetHours = DefaultMonthlyBudgetHours * 2 / 4.33
)

// Sprint is a two-week window counted back from the anchor date.
type Sprint struct {
	Name  string
	Start time.Time
	End   time.Time // last calendar day, inclusive
}

// Period renders the human date range, e.g. "Oct 21 - Nov 3, 2025".
func (s Sprint) Period() string {
	return fmt.Sprintf("%s - %s, %d", s.Start.Format("Jan 2"), s.End.Format("Jan 2"), s.End.Year())
}

func (s Sprint) contains(t *time.Time) bool {
	if t == nil {
		return false
	}
	return !t.Before(s.Start) && t.Before(s.End.AddDate(0, 0, 1))
}

// Sprints returns count back-to-back sprints ending the day before anchor,
// most recent first. Sprint numbering counts up toward the present, so the
// first element is "Sprint <count>".
func Sprints(anchor time.Time, count int) []Sprint {
	if count <= 0 {
		count = defaultSprintCount
	}
	anchor = time.Date(anchor.Year(), anchor.Month(), anchor.Day(), 0, 0, 0, 0, time.UTC)

	sprints := make([]Sprint, 0, count)
	end := anchor.AddDate(0, 0, -1)
	for i := count; i >= 1; i-- {
		sprints = append(sprints, Sprint{
			Name:  fmt.Sprintf("Sprint %d", i),
			Start: end.AddDate(0, 0, -(sprintLengthDays - 1)),
			End:   end,
		})
		end = end.AddDate(0, 0, -sprintLengthDays)
	}
	return sprints
}

// SprintOptions configures the sprint-over-sprint report.
type SprintOptions struct {
	Anchor time.Time
	Count  int
	Now    time.Time
}

type sprintStats struct {
	sprint           Sprint
	created          int
	resolved         int // created in sprint and now resolved
	resolvedInSprint int // resolved during sprint, any created date
	unresolved       int
	stuck            int
	resolutionRate   float64
	trackedHours     float64
	estimatedHours   float64
	avgResolution    *float64
	categories       map[string][]models.Issue
	stuckIssues      []models.Issue
}

// SprintReport renders a sprint-over-sprint comparison of the last few
// two-week sprints: velocity, completion, stuck work, and category mix.
func SprintReport(all []models.Issue, analysis *Analysis, opts SprintOptions) []string {
	sprints := Sprints(opts.Anchor, opts.Count)
	yearIssues := FilterYear(all, opts.Anchor.Year())
	estimates := analysis.TimeTracking.EstimationAccuracy

	// Untracked issues get the sprint's own tracked average, falling back to
	// the dataset-wide average when a sprint has no tracked work at all.
	allTrackedAvg := 10.0
	if avg := analysis.TimeTracking.Summary.AverageTimeSpentHours; avg != nil && *avg > 0 {
		allTrackedAvg = *avg
	}

	classifyOpts := classify.Options{Scope: classify.ScopeSummary}

	stats := make([]sprintStats, 0, len(sprints))
	for _, sprint := range sprints {
		s := sprintStats{sprint: sprint, categories: map[string][]models.Issue{}}

		var sprintIssues []models.Issue
		for _, issue := range yearIssues {
			if sprint.contains(issue.Created) {
				sprintIssues = append(sprintIssues, issue)
			}
			if sprint.contains(issue.Resolved) {
				s.resolvedInSprint++
			}
		}
		s.created = len(sprintIssues)

		var resolutionDays []float64
		for _, issue := range yearIssues {
			if !sprint.contains(issue.Resolved) {
				continue
			}
			if days := issue.ResolutionDays(); days != nil && *days <= OutlierThresholdDays {
				resolutionDays = append(resolutionDays, float64(*days))
			}
		}
		s.avgResolution = Mean(resolutionDays)

		for _, issue := range sprintIssues {
			category := classify.Categorize(issue, classifyOpts)
			s.categories[category] = append(s.categories[category], issue)
			if issue.IsResolved() {
				s.resolved++
			} else {
				s.unresolved++
			}
			if issue.IsStuck() {
				s.stuck++
				s.stuckIssues = append(s.stuckIssues, issue)
			}
		}
		if s.created > 0 {
			s.resolutionRate = float64(s.resolved) / float64(s.created) * 100
		}

		hours, trackedCount := trackedHours(estimates, keySet(sprintIssues))
		s.trackedHours = hours
		perIssue := allTrackedAvg
		if trackedCount > 0 {
			perIssue = hours / float64(trackedCount)
		}
		s.estimatedHours = hours + perIssue*float64(s.created-trackedCount)

		stats = append(stats, s)
	}

	lines := []string{
		"# RUDIS Sprint-Over-Sprint Analysis",
		"",
		fmt.Sprintf("*Analysis Date: %s*  ", opts.Now.Format("January 2, 2006")),
		fmt.Sprintf("*Report Period: Last %d Sprints (2-week sprints, Monday-Sunday)*", len(sprints)),
		"",
		"---",
		"",
		"## Sprint Comparison Overview",
		"",
		"| Sprint | Period | Created | Resolved | Unresolved | Stuck | Resolution Rate | Est. Hours | Resolved in Sprint |",
		"|--------|--------|---------|----------|------------|-------|-----------------|------------|-------------------|",
	}
	for _, s := range stats {
		lines = append(lines, fmt.Sprintf("| %s | %s | %d | %d | %d | %d | %.0f%% | %.0fh | %d |",
			s.sprint.Name, s.sprint.Period(), s.created, s.resolved, s.unresolved, s.stuck,
			s.resolutionRate, s.estimatedHours, s.resolvedInSprint))
	}
	lines = append(lines,
		"",
		"*Note: 'Resolved' = issues created in sprint that are now resolved. 'Resolved in Sprint' = issues resolved during sprint period (any created date).*",
		"",
		"### Key Trends & Insights",
		"",
	)

	if len(stats) >= 2 {
		latest, previous := stats[0], stats[1]
		createdTrend := latest.created - previous.created
		resolvedInSprintTrend := latest.resolvedInSprint - previous.resolvedInSprint

		if previous.created > 0 {
			pctChange := float64(createdTrend) / float64(previous.created) * 100
			lines = append(lines, fmt.Sprintf("**Velocity:** %s created %+d issues vs %s (%+.0f%% change)",
				latest.sprint.Name, createdTrend, previous.sprint.Name, pctChange))
		} else {
			lines = append(lines, fmt.Sprintf("**Velocity:** %s created %+d issues vs %s",
				latest.sprint.Name, createdTrend, previous.sprint.Name))
		}
		lines = append(lines,
			fmt.Sprintf("**Completion Rate:** %s resolved %d/%d (%.0f%%) vs %s %d/%d (%.0f%%)",
				latest.sprint.Name, latest.resolved, latest.created, latest.resolutionRate,
				previous.sprint.Name, previous.resolved, previous.created, previous.resolutionRate),
			fmt.Sprintf("**Work Completed:** %s completed %+d issues during sprint vs %s",
				latest.sprint.Name, resolvedInSprintTrend, previous.sprint.Name),
			"",
		)

		if latest.stuck > 0 {
			stuckTrend := latest.stuck - previous.stuck
			lines = append(lines, fmt.Sprintf("**Stuck Work:** %s has %d stuck issues (%+d vs %s)",
				latest.sprint.Name, latest.stuck, stuckTrend, previous.sprint.Name))
			if latest.created > 0 && float64(latest.stuck) > float64(latest.created)*0.5 {
				lines = append(lines, fmt.Sprintf("  ⚠️ **Warning:** %.0f%% of created issues are stuck",
					float64(latest.stuck)/float64(latest.created)*100))
			}
			lines = append(lines, "")
		}
	}

	if len(stats) >= 3 {
		var createdCounts, resolvedCounts, resolvedInSprintCounts, hours []float64
		for _, s := range stats {
			createdCounts = append(createdCounts, float64(s.created))
			resolvedCounts = append(resolvedCounts, float64(s.resolved))
			resolvedInSprintCounts = append(resolvedInSprintCounts, float64(s.resolvedInSprint))
			hours = append(hours, s.estimatedHours)
		}
		avgCreated := meanOrZero(createdCounts)
		avgResolved := meanOrZero(resolvedCounts)
		avgHours := meanOrZero(hours)

		lines = append(lines,
			fmt.Sprintf("**%d-Sprint Average:**", len(stats)),
			fmt.Sprintf("- %.1f issues created per sprint", avgCreated),
		)
		if avgCreated > 0 {
			lines = append(lines, fmt.Sprintf("- %.1f issues resolved per sprint (%.0f%% resolution rate)",
				avgResolved, avgResolved/avgCreated*100))
		}
		lines = append(lines,
			fmt.Sprintf("- %.1f issues resolved during sprint period", meanOrZero(resolvedInSprintCounts)),
			fmt.Sprintf("- %.0fh estimated hours per sprint", avgHours),
			"",
			fmt.Sprintf("**Budget Utilization:** %.0fh per sprint vs %.0fh budget (%.0f%%)",
				avgHours, sprintBudgetHours, avgHours/sprintBudgetHours*100),
		)
		if avgHours > sprintBudgetHours {
			over := avgHours - sprintBudgetHours
			lines = append(lines, fmt.Sprintf("  ⚠️ **Over Budget:** %.0fh over per sprint (%.0f%%)",
				over, over/sprintBudgetHours*100))
		}
		lines = append(lines, "")
	}

	// Category mix across sprints, with an arrow for the latest-vs-previous
	// direction.
	categoryNames := map[string]bool{}
	for _, s := range stats {
		for name := range s.categories {
			categoryNames[name] = true
		}
	}
	sortedNames := make([]string, 0, len(categoryNames))
	for name := range categoryNames {
		sortedNames = append(sortedNames, name)
	}
	sort.Strings(sortedNames)

	header := "| Category |"
	rule := "|----------|"
	for _, s := range stats {
		header += fmt.Sprintf(" %s |", s.sprint.Name)
		rule += "----------|"
	}
	header += " Trend |"
	rule += "-------|"
	lines = append(lines, "## Work Allocation by Category (Sprint Comparison)", "", header, rule)

	for _, name := range sortedNames {
		row := fmt.Sprintf("| %s |", name)
		counts := make([]int, 0, len(stats))
		for _, s := range stats {
			counts = append(counts, len(s.categories[name]))
			row += fmt.Sprintf(" %d |", len(s.categories[name]))
		}
		trend := ""
		if len(counts) >= 2 {
			switch {
			case counts[0] > counts[1]:
				trend = "↑"
			case counts[0] < counts[1]:
				trend = "↓"
			default:
				trend = "→"
			}
		}
		lines = append(lines, row+fmt.Sprintf(" %s |", trend))
	}
	lines = append(lines, "")

	// Per-sprint detail.
	for _, s := range stats {
		lines = append(lines,
			fmt.Sprintf("## %s (%s)", s.sprint.Name, s.sprint.Period()),
			"",
			fmt.Sprintf("**Issues Created:** %d", s.created),
			fmt.Sprintf("**Issues Resolved:** %d (%.0f%%)", s.resolved, s.resolutionRate),
			fmt.Sprintf("**Issues Resolved During Sprint:** %d (includes issues from previous sprints)", s.resolvedInSprint),
			fmt.Sprintf("**Unresolved:** %d", s.unresolved),
			fmt.Sprintf("**Stuck:** %d", s.stuck),
			fmt.Sprintf("**Estimated Hours:** %.0fh", s.estimatedHours),
		)
		if s.avgResolution != nil {
			lines = append(lines, fmt.Sprintf("**Avg Resolution Time:** %.1f days", *s.avgResolution))
		}
		lines = append(lines, "")

		if len(s.categories) > 0 {
			type categoryCount struct {
				name   string
				issues []models.Issue
			}
			var topCategories []categoryCount
			for name, issues := range s.categories {
				topCategories = append(topCategories, categoryCount{name, issues})
			}
			sort.SliceStable(topCategories, func(i, j int) bool {
				if len(topCategories[i].issues) != len(topCategories[j].issues) {
					return len(topCategories[i].issues) > len(topCategories[j].issues)
				}
				return topCategories[i].name < topCategories[j].name
			})
			if len(topCategories) > 5 {
				topCategories = topCategories[:5]
			}
			lines = append(lines, "**Top Categories:**")
			for _, c := range topCategories {
				resolved := 0
				for _, issue := range c.issues {
					if issue.IsResolved() {
						resolved++
					}
				}
				lines = append(lines, fmt.Sprintf("- %s: %d issues (%d resolved)", c.name, len(c.issues), resolved))
			}
			lines = append(lines, "")
		}

		if len(s.stuckIssues) > 0 {
			lines = append(lines, "**Stuck Issues:**")
			shown := s.stuckIssues
			if len(shown) > 5 {
				shown = shown[:5]
			}
			for _, issue := range shown {
				lines = append(lines, fmt.Sprintf("- %s: %s (%s)", issue.Key, emit.Truncate(issue.Summary, 70), issue.Status))
			}
			if len(s.stuckIssues) > 5 {
				lines = append(lines, fmt.Sprintf("- ...and %d more", len(s.stuckIssues)-5))
			}
			lines = append(lines, "")
		}
	}

	return lines
}
