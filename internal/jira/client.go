// Package jira fetches issues over the JIRA API and writes them in the
// same CSV shape as a JIRA export, so the analysis commands work from
// either source.
package jira

import (
	"context"
	"fmt"
	"strings"
	"time"

	jira "github.com/andygrunwald/go-jira"

	"github.com/petebuzzell-ad/rudis-documentation/internal/config"
	"github.com/petebuzzell-ad/rudis-documentation/internal/emit"
	"github.com/petebuzzell-ad/rudis-documentation/internal/logging"
	"github.com/petebuzzell-ad/rudis-documentation/internal/parse"
)

const searchPageSize = 100

// Client handles interactions with the JIRA API.
type Client struct {
	client *jira.Client
}

// NewClient creates a JIRA client with basic auth credentials.
func NewClient(cfg config.JiraConfig) (*Client, error) {
	tp := jira.BasicAuthTransport{
		Username: cfg.Username,
		Password: cfg.Token,
	}

	logging.Debug("creating jira client",
		"url", cfg.URL,
		"username", cfg.Username,
		"token", logging.MaskSensitive(cfg.Token))

	client, err := jira.NewClient(tp.Client(), cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("creating jira client: %w", err)
	}
	return &Client{client: client}, nil
}

// Search runs a JQL query and returns every matching issue, paging through
// the result set.
func (c *Client) Search(ctx context.Context, jql string) ([]jira.Issue, error) {
	var issues []jira.Issue
	startAt := 0

	for {
		page, resp, err := c.client.Issue.SearchWithContext(ctx, jql, &jira.SearchOptions{
			StartAt:    startAt,
			MaxResults: searchPageSize,
		})
		if err != nil {
			return nil, fmt.Errorf("searching jira issues: %w", err)
		}
		issues = append(issues, page...)

		logging.Debug("jira search page", "start_at", startAt, "returned", len(page), "total", resp.Total)

		startAt += len(page)
		if len(page) == 0 || startAt >= resp.Total {
			return issues, nil
		}
	}
}

// exportColumns is the fixed part of the export header; repeated Comment
// columns follow it.
var exportColumns = []string{
	"Issue key",
	"Summary",
	"Description",
	"Issue Type",
	"Status",
	"Priority",
	"Custom field (Request Type)",
	"Custom field (Team)",
	"Custom field (Category)",
	"Custom field (Epic Name)",
	"Assignee",
	"Reporter",
	"Created",
	"Updated",
	"Resolved",
	"Custom field (Story point estimate)",
	"Original estimate",
	"Remaining Estimate",
	"Time Spent",
	"Custom field (Baseline Estimate)",
}

// Fetch runs a JQL query and writes the results as a CSV export to path.
// Returns the number of issues written. Custom field columns the API does
// not expose generically are left blank; the coercion layer treats blank
// cells as absent.
func (c *Client) Fetch(ctx context.Context, jql, path string) (int, error) {
	issues, err := c.Search(ctx, jql)
	if err != nil {
		return 0, err
	}

	maxComments := 0
	for _, issue := range issues {
		if n := commentCount(issue); n > maxComments {
			maxComments = n
		}
	}

	header := make([]string, 0, len(exportColumns)+maxComments)
	header = append(header, exportColumns...)
	for i := 0; i < maxComments; i++ {
		header = append(header, "Comment")
	}

	rows := make([][]string, 0, len(issues))
	for _, issue := range issues {
		rows = append(rows, exportRow(issue, maxComments))
	}

	if err := emit.WriteCSV(path, header, rows); err != nil {
		return 0, err
	}
	return len(issues), nil
}

func commentCount(issue jira.Issue) int {
	if issue.Fields == nil || issue.Fields.Comments == nil {
		return 0
	}
	return len(issue.Fields.Comments.Comments)
}

func exportRow(issue jira.Issue, commentColumns int) []string {
	f := issue.Fields

	row := []string{
		issue.Key,
		f.Summary,
		f.Description,
		f.Type.Name,
		statusName(f.Status),
		priorityName(f.Priority),
		"", // Request Type
		"", // Team
		"", // Category
		"", // Epic Name
		userName(f.Assignee),
		userName(f.Reporter),
		formatDate(time.Time(f.Created)),
		formatDate(time.Time(f.Updated)),
		formatDate(time.Time(f.Resolutiondate)),
		"", // Story point estimate
		formatSeconds(f.TimeOriginalEstimate),
		formatSeconds(f.TimeEstimate),
		formatSeconds(f.TimeSpent),
		"", // Baseline Estimate
	}

	for i := 0; i < commentColumns; i++ {
		cell := ""
		if f.Comments != nil && i < len(f.Comments.Comments) {
			c := f.Comments.Comments[i]
			cell = fmt.Sprintf("%s;%s;%s", c.Created, c.Author.DisplayName, c.Body)
		}
		row = append(row, cell)
	}
	return row
}

func statusName(s *jira.Status) string {
	if s == nil {
		return ""
	}
	return s.Name
}

func priorityName(p *jira.Priority) string {
	if p == nil {
		return ""
	}
	return p.Name
}

func userName(u *jira.User) string {
	if u == nil {
		return ""
	}
	return u.DisplayName
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(parse.DateLayout)
}

// formatSeconds renders tracked seconds in export notation, e.g. 9000 ->
// "2h 30m". Values under a minute are emitted as bare seconds; leftover
// seconds above that fold into a decimal minutes component ("1h 1.5m"), so
// a fetched export re-parses to the same value.
func formatSeconds(seconds int) string {
	if seconds <= 0 {
		return ""
	}
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}

	var parts []string
	for _, unit := range []struct {
		suffix  string
		seconds int
	}{{"d", 86400}, {"h", 3600}} {
		if n := seconds / unit.seconds; n > 0 {
			parts = append(parts, fmt.Sprintf("%d%s", n, unit.suffix))
			seconds -= n * unit.seconds
		}
	}
	if seconds > 0 {
		parts = append(parts, fmt.Sprintf("%gm", float64(seconds)/60))
	}
	return strings.Join(parts, " ")
}
