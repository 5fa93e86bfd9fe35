package issues

import (
	"fmt"
	"sort"
	"time"

	"github.com/petebuzzell-ad/rudis-documentation/internal/classify"
	"github.com/petebuzzell-ad/rudis-documentation/internal/emit"
	"github.com/petebuzzell-ad/rudis-documentation/pkg/models"
)

// Budget defaults: the development program runs on a fixed monthly retainer
// billed at a blended rate.
const (
	DefaultMonthlyBudgetHours = 70
	DefaultHourlyRate         = 200
)

// BudgetOptions configures the budget allocation report.
type BudgetOptions struct {
	Year               int
	Now                time.Time
	SourceFile         string
	MonthlyBudgetHours float64
	HourlyRate         float64
}

// FilterYear keeps issues created in the given calendar year.
func FilterYear(all []models.Issue, year int) []models.Issue {
	var out []models.Issue
	for _, issue := range all {
		if issue.Created != nil && issue.Created.Year() == year {
			out = append(out, issue)
		}
	}
	return out
}

// trackedHours sums tracked time (in hours) for the given keys out of the
// estimation accuracy listing.
func trackedHours(estimates []EstimationAccuracy, keys map[string]bool) (hours float64, count int) {
	for _, est := range estimates {
		if keys[est.IssueKey] {
			hours += est.TimeSpent / 3600
			count++
		}
	}
	return hours, count
}

func keySet(issues []models.Issue) map[string]bool {
	keys := make(map[string]bool, len(issues))
	for _, i := range issues {
		keys[i.Key] = true
	}
	return keys
}

// BudgetReport renders the strategic budget allocation analysis: where the
// fixed development budget went, by executive theme and category, with the
// assumptions spelled out so the numbers can be challenged.
func BudgetReport(all []models.Issue, analysis *Analysis, opts BudgetOptions) []string {
	if opts.MonthlyBudgetHours == 0 {
		opts.MonthlyBudgetHours = DefaultMonthlyBudgetHours
	}
	if opts.HourlyRate == 0 {
		opts.HourlyRate = DefaultHourlyRate
	}
	annualBudget := opts.MonthlyBudgetHours * 12
	rate := opts.HourlyRate

	yearIssues := FilterYear(all, opts.Year)
	total := len(yearIssues)
	estimates := analysis.TimeTracking.EstimationAccuracy

	classifyOpts := classify.Options{Scope: classify.ScopeSummaryAndDescription}

	// Theme and category rollups.
	byTheme := map[string][]models.Issue{}
	byCategory := map[string][]models.Issue{}
	for _, issue := range yearIssues {
		category := classify.Categorize(issue, classifyOpts)
		byCategory[category] = append(byCategory[category], issue)
		byTheme[classify.ExecutiveTheme(category)] = append(byTheme[classify.ExecutiveTheme(category)], issue)
	}

	resolved := 0
	for _, issue := range yearIssues {
		if issue.IsResolved() {
			resolved++
		}
	}

	lines := []string{
		"# RUDIS Development Budget Allocation Analysis",
		"",
		fmt.Sprintf("*Analysis Date: %s*  ", opts.Now.Format("January 2, 2006")),
		fmt.Sprintf("*Data Source: %s*  ", opts.SourceFile),
		fmt.Sprintf("*Focus Period: Full Year %d (January - December %d)*", opts.Year, opts.Year),
		"",
		"---",
		"",
		"## Methodology & Data Transparency",
		"",
		"### Data Source",
		"",
		fmt.Sprintf("- **Source:** JIRA CSV export (%s)", opts.SourceFile),
		fmt.Sprintf("- **Total Issues in Dataset:** %d", analysis.Summary.TotalIssues),
		fmt.Sprintf("- **Issues in Analysis Period:** %d", total),
		fmt.Sprintf("- **Date Range:** Issues created January 1, %d - December 31, %d", opts.Year, opts.Year),
		"",
		"### Development Budget",
		"",
		fmt.Sprintf("- **Monthly Budget:** %.0f hours ($%s/month)", opts.MonthlyBudgetHours, comma(opts.MonthlyBudgetHours*rate)),
		fmt.Sprintf("- **Annual Budget:** %.0f hours ($%s)", annualBudget, comma(annualBudget*rate)),
		fmt.Sprintf("- **Blended Developer Rate:** $%.0f/hour", rate),
		"- **Budget Allocation Method:** Issue count used as proxy where time tracking unavailable",
		"",
		"### Categorization Methodology",
		"",
		"Issues are categorized into strategic areas based on issue summary text, description text, and issue type:",
		"",
		"- **Text Analysis:** Both summary and description fields are analyzed for categorization keywords",
		"- **Issue Type:** Issue type (Bug, Epic, Story, etc.) is also considered for categorization",
		"",
		"**Note:** Categorization is automated based on keywords. Some issues may be miscategorized. Manual review recommended for strategic decisions.",
		"",
		"### Status Definitions",
		"",
		"- **Resolved:** Status = 'Done' or 'Closed'",
		"- **Unresolved:** Status not 'Done' or 'Closed'",
		"- **Stuck:** Status in 'Hold', 'Update Requirements', 'Needs Estimate', or 'Waiting for Approval'",
		"- **Resolution Rate:** (Resolved Issues / Total Issues) × 100",
		"",
		"### Assumptions & Limitations",
		"",
		"1. **Budget Allocation Proxy:** Issue count is used as a proxy for development budget allocation where time tracking is unavailable.",
		"2. **Categorization Accuracy:** Automated categorization based on keywords may misclassify issues.",
		"3. **Business Value Inference:** Business value is inferred from issue content, not measured impact.",
		"4. **Resolution Context:** 'Stuck' status may indicate legitimate planning phases; not all stuck work is problematic.",
		"",
	}

	// Data quality block.
	yearKeys := keySet(yearIssues)
	_, yearTrackedCount := trackedHours(estimates, yearKeys)
	lines = append(lines,
		"### Data Quality",
		"",
		fmt.Sprintf("- **Issues with Time Tracking (%d):** %d (%.0f%% of period issues)", opts.Year, yearTrackedCount, pct(yearTrackedCount, total)),
		fmt.Sprintf("- **Issues with Time Tracking (All Time):** %d (%.0f%% of all issues)", analysis.TimeTracking.Summary.EstimationAccuracyCount, pct(analysis.TimeTracking.Summary.EstimationAccuracyCount, analysis.Summary.TotalIssues)),
		fmt.Sprintf("- **Issues with Comments:** %d (%.0f%% of all issues)", analysis.CommentAnalysis.IssuesWithComments, pct(analysis.CommentAnalysis.IssuesWithComments, analysis.Summary.TotalIssues)),
		"",
		"**Recommendation:** Improve data quality by ensuring time tracking, priority assignment, and clear categorization for better analysis.",
		"",
		"---",
		"",
	)

	if total == 0 {
		lines = append(lines, fmt.Sprintf("No issues found for %d.", opts.Year))
		return lines
	}

	// Executive summary table, sorted by tracked hours: where money actually went.
	lines = append(lines,
		"## Executive Summary",
		"",
		"### Budget Allocation by Strategic Theme",
		"",
		"| Theme | Issues | Assumed Hours | Assumed Cost | % of Budget | Resolved | Unresolved | Stuck | Resolution Rate |",
		"|-------|--------|--------------|-------------|-------------|----------|------------|-------|------------------|",
	)

	type themeRow struct {
		theme      string
		issues     int
		hours      float64
		resolved   int
		unresolved int
		stuck      int
	}
	var themeRows []themeRow
	for _, theme := range classify.ThemeOrder {
		themeIssues, ok := byTheme[theme]
		if !ok {
			continue
		}
		row := themeRow{theme: theme, issues: len(themeIssues)}
		row.hours, _ = trackedHours(estimates, keySet(themeIssues))
		for _, issue := range themeIssues {
			switch {
			case issue.IsResolved():
				row.resolved++
			default:
				row.unresolved++
			}
			if issue.IsStuck() {
				row.stuck++
			}
		}
		themeRows = append(themeRows, row)
	}
	sort.SliceStable(themeRows, func(i, j int) bool { return themeRows[i].hours > themeRows[j].hours })

	for _, row := range themeRows {
		hoursCell, costCell, budgetCell := "-", "-", "-"
		if row.hours > 0 {
			hoursCell = fmt.Sprintf("%.0fh", row.hours)
			costCell = "$" + comma(row.hours*rate)
			budgetCell = fmt.Sprintf("%.0f%%", row.hours/annualBudget*100)
		}
		lines = append(lines, fmt.Sprintf("| %s | %d | %s | %s | %s | %d | %d | %d | %.0f%% |",
			row.theme, row.issues, hoursCell, costCell, budgetCell,
			row.resolved, row.unresolved, row.stuck, pct(row.resolved, row.issues)))
	}

	// Spend breakdown: tracked hours split by resolution status, with
	// untracked issues estimated from the tracked averages of the same
	// status. A single blended average would overweight quick fixes.
	trackedKeys := map[string]bool{}
	for _, est := range estimates {
		trackedKeys[est.IssueKey] = true
	}
	var resolvedTracked, unresolvedTracked []models.Issue
	resolvedUntracked, unresolvedUntracked := 0, 0
	for _, issue := range yearIssues {
		switch {
		case issue.IsResolved() && trackedKeys[issue.Key]:
			resolvedTracked = append(resolvedTracked, issue)
		case issue.IsResolved():
			resolvedUntracked++
		case trackedKeys[issue.Key]:
			unresolvedTracked = append(unresolvedTracked, issue)
		default:
			unresolvedUntracked++
		}
	}
	resolvedTrackedHours, _ := trackedHours(estimates, keySet(resolvedTracked))
	unresolvedTrackedHours, _ := trackedHours(estimates, keySet(unresolvedTracked))

	resolvedAvg := 0.0
	if len(resolvedTracked) > 0 {
		resolvedAvg = resolvedTrackedHours / float64(len(resolvedTracked))
	}
	unresolvedAvg := 0.0
	if len(unresolvedTracked) > 0 {
		unresolvedAvg = unresolvedTrackedHours / float64(len(unresolvedTracked))
	}

	resolvedEstimated := float64(resolvedUntracked) * resolvedAvg
	unresolvedEstimated := float64(unresolvedUntracked) * unresolvedAvg
	totalActual := resolvedTrackedHours + unresolvedTrackedHours
	totalEstimated := totalActual + resolvedEstimated + unresolvedEstimated

	lines = append(lines,
		"",
		"---",
		"",
		"## Budget Allocation Overview",
		"",
		fmt.Sprintf("**Total Issues:** %d", total),
		fmt.Sprintf("**Resolved:** %d (%.0f%%)", resolved, pct(resolved, total)),
		fmt.Sprintf("**Unresolved:** %d (%.0f%%)", total-resolved, pct(total-resolved, total)),
		"",
		"### Assumed Spend vs. Estimated Total Cost",
		"",
		"#### Assumed Spend (Tracked Hours)",
		"",
		fmt.Sprintf("**Resolved Issues:** %d issues, %.0f hours ($%s)", len(resolvedTracked), resolvedTrackedHours, comma(resolvedTrackedHours*rate)),
		fmt.Sprintf("**Unresolved Issues:** %d issues, %.0f hours ($%s)", len(unresolvedTracked), unresolvedTrackedHours, comma(unresolvedTrackedHours*rate)),
		fmt.Sprintf("**Total Assumed Spend:** %.0f hours ($%s)", totalActual, comma(totalActual*rate)),
		"",
		"#### Estimated Additional Costs (Untracked Issues)",
		"",
		fmt.Sprintf("**Resolved but Untracked:** %d issues, estimated %.0f hours ($%s)", resolvedUntracked, resolvedEstimated, comma(resolvedEstimated*rate)),
		fmt.Sprintf("  - *Based on average of %.1f hours per tracked resolved issue*", resolvedAvg),
		fmt.Sprintf("**Unresolved but Untracked:** %d issues, estimated %.0f hours ($%s)", unresolvedUntracked, unresolvedEstimated, comma(unresolvedEstimated*rate)),
		fmt.Sprintf("  - *Based on average of %.1f hours per tracked unresolved issue*", unresolvedAvg),
		"",
		"#### Total Estimated Cost",
		"",
		fmt.Sprintf("**Assumed Spend:** %.0f hours ($%s)", totalActual, comma(totalActual*rate)),
		fmt.Sprintf("**Estimated Remaining:** %.0f hours ($%s)", totalEstimated-totalActual, comma((totalEstimated-totalActual)*rate)),
		fmt.Sprintf("**Estimated Total Cost:** %.0f hours ($%s)", totalEstimated, comma(totalEstimated*rate)),
		"",
		fmt.Sprintf("**Budget Available:** %.0f hours ($%s)", annualBudget, comma(annualBudget*rate)),
		fmt.Sprintf("**Budget Utilization (Assumed Spend):** %.0f%%", totalActual/annualBudget*100),
		"",
		"#### Backlog Capacity Analysis",
		"",
	)

	switch {
	case totalEstimated > annualBudget:
		backlog := totalEstimated - annualBudget
		lines = append(lines,
			fmt.Sprintf("**Backlog Beyond Budget:** %.0f hours ($%s)", backlog, comma(backlog*rate)),
			"",
			"*The estimated work volume exceeds available budget capacity. This indicates a backlog that will require ongoing prioritization and selective deferral of lower-priority items.*",
		)
	case totalEstimated < annualBudget*0.8:
		available := annualBudget - totalEstimated
		lines = append(lines,
			fmt.Sprintf("**Available Capacity:** %.0f hours ($%s) available for additional work", available, comma(available*rate)),
		)
	default:
		lines = append(lines, "*Estimated work aligns well with available budget capacity.*")
	}

	// Category detail, largest first.
	type categoryRow struct {
		name   string
		issues []models.Issue
	}
	var categoryRows []categoryRow
	for name, categoryIssues := range byCategory {
		categoryRows = append(categoryRows, categoryRow{name, categoryIssues})
	}
	sort.SliceStable(categoryRows, func(i, j int) bool {
		if len(categoryRows[i].issues) != len(categoryRows[j].issues) {
			return len(categoryRows[i].issues) > len(categoryRows[j].issues)
		}
		return categoryRows[i].name < categoryRows[j].name
	})

	lines = append(lines,
		"",
		"---",
		"",
		"## Work Allocation by Category",
		"",
		"| Category | Issues | % of Total | Tracked Hours | Resolved | Stuck |",
		"|----------|--------|------------|---------------|----------|-------|",
	)
	for _, row := range categoryRows {
		hours, _ := trackedHours(estimates, keySet(row.issues))
		categoryResolved, stuck := 0, 0
		for _, issue := range row.issues {
			if issue.IsResolved() {
				categoryResolved++
			}
			if issue.IsStuck() {
				stuck++
			}
		}
		hoursCell := "-"
		if hours > 0 {
			hoursCell = fmt.Sprintf("%.0fh", hours)
		}
		lines = append(lines, fmt.Sprintf("| %s | %d | %.0f%% | %s | %d | %d |",
			row.name, len(row.issues), pct(len(row.issues), total), hoursCell, categoryResolved, stuck))
	}

	// Stuck work needs a human decision before it can move; list it.
	var stuckIssues []models.Issue
	for _, issue := range yearIssues {
		if issue.IsStuck() {
			stuckIssues = append(stuckIssues, issue)
		}
	}
	lines = append(lines,
		"",
		"## Stuck Work",
		"",
		fmt.Sprintf("**Total Stuck Issues:** %d (%.0f%% of period issues)", len(stuckIssues), pct(len(stuckIssues), total)),
		"",
	)
	shown := stuckIssues
	if len(shown) > 10 {
		shown = shown[:10]
	}
	for _, issue := range shown {
		lines = append(lines, fmt.Sprintf("- %s: %s (%s, %s)", issue.Key, emit.Truncate(issue.Summary, 70), issue.Status, issue.Priority))
	}
	if len(stuckIssues) > 10 {
		lines = append(lines, fmt.Sprintf("- ...and %d more", len(stuckIssues)-10))
	}

	return lines
}

func pct(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

// comma formats a dollar amount with thousands separators, e.g. 14000 -> "14,000".
func comma(v float64) string {
	n := int64(v + 0.5)
	if n < 0 {
		return fmt.Sprintf("%d", n)
	}
	s := fmt.Sprintf("%d", n)
	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	return string(out)
}
