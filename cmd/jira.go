package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/petebuzzell-ad/rudis-documentation/internal/config"
	"github.com/petebuzzell-ad/rudis-documentation/internal/csvio"
	"github.com/petebuzzell-ad/rudis-documentation/internal/emit"
	"github.com/petebuzzell-ad/rudis-documentation/internal/issues"
	"github.com/petebuzzell-ad/rudis-documentation/internal/jira"
	"github.com/petebuzzell-ad/rudis-documentation/internal/logging"
	"github.com/petebuzzell-ad/rudis-documentation/pkg/models"
)

const flagDate = "2006-01-02"

var jiraCmd = &cobra.Command{
	Use:   "jira",
	Short: "Analyze JIRA issue exports and generate reports",
}

// loadExport reads a JIRA CSV export into issues.
func loadExport(path string) ([]models.Issue, error) {
	records, err := csvio.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return issues.Load(records), nil
}

// loadOrComputeAnalysis reuses a saved analysis JSON when given one,
// otherwise aggregates the export in place.
func loadOrComputeAnalysis(analysisPath, sourceFile string, all []models.Issue) (*issues.Analysis, error) {
	if analysisPath != "" {
		data, err := os.ReadFile(analysisPath)
		if err != nil {
			return nil, fmt.Errorf("reading analysis file: %w", err)
		}
		var analysis issues.Analysis
		if err := json.Unmarshal(data, &analysis); err != nil {
			return nil, fmt.Errorf("parsing analysis file: %w", err)
		}
		return &analysis, nil
	}

	now := time.Now()
	windowStart, windowEnd := defaultWindow(now)
	return issues.Analyze(all, issues.Options{
		Now:         now,
		SourceFile:  sourceFile,
		WindowStart: windowStart,
		WindowEnd:   windowEnd,
	}), nil
}

// defaultWindow is the trailing three full calendar months plus the current
// month, the range the recurring reports cover.
func defaultWindow(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -3, 0)
	end := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, -1)
	return start, end
}

var jiraAnalyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Aggregate a JIRA export into analysis JSON",
	Long: `Aggregate a JIRA CSV export into a single analysis JSON: resolution
times, priority comparison, challenging work, time tracking, and comment
activity. The report and sprints commands consume this file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		input, err := cmd.Flags().GetString("input")
		if err != nil {
			return err
		}
		output, err := cmd.Flags().GetString("output")
		if err != nil {
			return err
		}
		windowStartStr, err := cmd.Flags().GetString("window-start")
		if err != nil {
			return err
		}
		windowEndStr, err := cmd.Flags().GetString("window-end")
		if err != nil {
			return err
		}

		all, err := loadExport(input)
		if err != nil {
			return err
		}

		now := time.Now()
		windowStart, windowEnd := defaultWindow(now)
		if windowStartStr != "" {
			if windowStart, err = time.Parse(flagDate, windowStartStr); err != nil {
				return fmt.Errorf("invalid --window-start: %w", err)
			}
		}
		if windowEndStr != "" {
			if windowEnd, err = time.Parse(flagDate, windowEndStr); err != nil {
				return fmt.Errorf("invalid --window-end: %w", err)
			}
		}

		analysis := issues.Analyze(all, issues.Options{
			Now:         now,
			SourceFile:  input,
			WindowStart: windowStart,
			WindowEnd:   windowEnd,
		})

		if err := emit.WriteJSON(output, analysis); err != nil {
			return err
		}

		logging.Info("jira analysis complete",
			"issues", analysis.Summary.TotalIssues,
			"resolved", analysis.Summary.ResolvedIssues.Total)
		fmt.Printf("Analyzed %d issues\n", analysis.Summary.TotalIssues)
		fmt.Printf("Analysis written: %s\n", output)
		return nil
	},
}

var jiraReportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate the budget allocation report",
	Long: `Generate the strategic budget allocation Markdown report for a calendar
year: spend by executive theme and category, tracked versus estimated
hours, and backlog capacity against the development budget.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		input, err := cmd.Flags().GetString("input")
		if err != nil {
			return err
		}
		analysisPath, err := cmd.Flags().GetString("analysis")
		if err != nil {
			return err
		}
		output, err := cmd.Flags().GetString("output")
		if err != nil {
			return err
		}
		year, err := cmd.Flags().GetInt("year")
		if err != nil {
			return err
		}

		all, err := loadExport(input)
		if err != nil {
			return err
		}
		analysis, err := loadOrComputeAnalysis(analysisPath, input, all)
		if err != nil {
			return err
		}

		if year == 0 {
			year = time.Now().Year()
		}
		lines := issues.BudgetReport(all, analysis, issues.BudgetOptions{
			Year:       year,
			Now:        time.Now(),
			SourceFile: input,
		})
		if err := emit.WriteMarkdown(output, lines); err != nil {
			return err
		}

		fmt.Printf("Budget allocation report written: %s\n", output)
		return nil
	},
}

var jiraSprintsCmd = &cobra.Command{
	Use:   "sprints",
	Short: "Generate the sprint-over-sprint report",
	Long: `Generate a sprint-over-sprint Markdown comparison of the most recent
two-week sprints ending before the anchor date: velocity, completion,
stuck work, and category mix.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		input, err := cmd.Flags().GetString("input")
		if err != nil {
			return err
		}
		analysisPath, err := cmd.Flags().GetString("analysis")
		if err != nil {
			return err
		}
		output, err := cmd.Flags().GetString("output")
		if err != nil {
			return err
		}
		anchorStr, err := cmd.Flags().GetString("anchor")
		if err != nil {
			return err
		}
		count, err := cmd.Flags().GetInt("count")
		if err != nil {
			return err
		}

		anchor := time.Now()
		if anchorStr != "" {
			if anchor, err = time.Parse(flagDate, anchorStr); err != nil {
				return fmt.Errorf("invalid --anchor: %w", err)
			}
		}

		all, err := loadExport(input)
		if err != nil {
			return err
		}
		analysis, err := loadOrComputeAnalysis(analysisPath, input, all)
		if err != nil {
			return err
		}

		lines := issues.SprintReport(all, analysis, issues.SprintOptions{
			Anchor: anchor,
			Count:  count,
			Now:    time.Now(),
		})
		if err := emit.WriteMarkdown(output, lines); err != nil {
			return err
		}

		fmt.Printf("Sprint report written: %s\n", output)
		return nil
	},
}

var jiraFetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch issues from JIRA into a CSV export",
	Long: `Fetch issues matching a JQL query from the JIRA API and write them as a
CSV export in the same shape the analysis commands read.

Requires JIRA_URL, JIRA_USERNAME, and JIRA_TOKEN.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		jql, err := cmd.Flags().GetString("jql")
		if err != nil {
			return err
		}
		project, err := cmd.Flags().GetString("project")
		if err != nil {
			return err
		}
		output, err := cmd.Flags().GetString("output")
		if err != nil {
			return err
		}

		if jql == "" && project == "" {
			return fmt.Errorf("either --jql or --project is required")
		}
		if jql == "" {
			jql = fmt.Sprintf("project = %s ORDER BY created DESC", project)
		}

		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		if err := config.ValidateJiraConfig(cfg); err != nil {
			return err
		}

		client, err := jira.NewClient(cfg.Jira)
		if err != nil {
			return err
		}

		count, err := client.Fetch(cmd.Context(), jql, output)
		if err != nil {
			return err
		}

		fmt.Printf("Fetched %d issues\n", count)
		fmt.Printf("Export written: %s\n", output)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{jiraAnalyzeCmd, jiraReportCmd, jiraSprintsCmd} {
		c.Flags().StringP("input", "i", "", "JIRA CSV export")
		c.MarkFlagRequired("input")
	}

	jiraAnalyzeCmd.Flags().StringP("output", "o", "jira-analysis.json", "analysis JSON output path")
	jiraAnalyzeCmd.Flags().String("window-start", "", "trailing window start (YYYY-MM-DD)")
	jiraAnalyzeCmd.Flags().String("window-end", "", "trailing window end (YYYY-MM-DD)")

	jiraReportCmd.Flags().StringP("output", "o", "budget-allocation.md", "report output path")
	jiraReportCmd.Flags().StringP("analysis", "a", "", "analysis JSON from 'jira analyze' (recomputed when omitted)")
	jiraReportCmd.Flags().IntP("year", "y", 0, "calendar year to report on (default: current year)")

	jiraSprintsCmd.Flags().StringP("output", "o", "sprint-analysis.md", "report output path")
	jiraSprintsCmd.Flags().StringP("analysis", "a", "", "analysis JSON from 'jira analyze' (recomputed when omitted)")
	jiraSprintsCmd.Flags().String("anchor", "", "sprint boundary date, sprints end the day before (YYYY-MM-DD, default: today)")
	jiraSprintsCmd.Flags().IntP("count", "n", 3, "number of sprints to compare")

	jiraFetchCmd.Flags().StringP("jql", "q", "", "JQL query selecting issues")
	jiraFetchCmd.Flags().StringP("project", "p", "", "project key shorthand for --jql")
	jiraFetchCmd.Flags().StringP("output", "o", "jira-export.csv", "CSV export output path")

	jiraCmd.AddCommand(jiraAnalyzeCmd)
	jiraCmd.AddCommand(jiraReportCmd)
	jiraCmd.AddCommand(jiraSprintsCmd)
	jiraCmd.AddCommand(jiraFetchCmd)
}
