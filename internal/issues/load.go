// Package issues parses JIRA CSV exports and aggregates them into the
// statistics behind the budget and sprint reports.
package issues

import (
	"strings"

	"github.com/petebuzzell-ad/rudis-documentation/internal/csvio"
	"github.com/petebuzzell-ad/rudis-documentation/internal/parse"
	"github.com/petebuzzell-ad/rudis-documentation/pkg/models"
)

// Load coerces export records into issues. Field-level parse failures fall
// back to zero/nil per the parse package contract; a blank priority becomes
// the literal "None" so it groups with explicitly unprioritized work.
func Load(records []csvio.Record) []models.Issue {
	issues := make([]models.Issue, 0, len(records))
	for _, rec := range records {
		issue := models.Issue{
			Key:         rec.Get("Issue key"),
			Summary:     rec.Get("Summary"),
			Description: rec.Get("Description"),
			Type:        rec.Get("Issue Type"),
			Status:      rec.Get("Status"),
			Priority:    rec.Get("Priority"),
			RequestType: rec.Get("Custom field (Request Type)"),
			Team:        rec.Get("Custom field (Team)"),
			Category:    rec.Get("Custom field (Category)"),
			EpicName:    rec.Get("Custom field (Epic Name)"),
			Assignee:    rec.Get("Assignee"),
			Reporter:    rec.Get("Reporter"),

			Created:  parse.Date(rec.Get("Created")),
			Updated:  parse.Date(rec.Get("Updated")),
			Resolved: parse.Date(rec.Get("Resolved")),

			StoryPoints:       parse.Points(rec.Get("Custom field (Story point estimate)")),
			OriginalEstimate:  parse.Duration(rec.Get("Original estimate")),
			RemainingEstimate: parse.Duration(rec.Get("Remaining Estimate")),
			TimeSpent:         parse.Duration(rec.Get("Time Spent")),
			BaselineEstimate:  parse.Duration(rec.Get("Custom field (Baseline Estimate)")),

			Comments: parseComments(rec),
		}
		if issue.Priority == "" {
			issue.Priority = "None"
		}
		issues = append(issues, issue)
	}
	return issues
}

// parseComments reads every repeated Comment column. Cells follow
// "timestamp;author;text"; anything else is kept as bare text.
func parseComments(rec csvio.Record) []models.Comment {
	var comments []models.Comment
	for _, cell := range rec.Values("Comment") {
		parts := strings.SplitN(cell, ";", 3)
		if len(parts) == 3 {
			comments = append(comments, models.Comment{
				Timestamp: strings.TrimSpace(parts[0]),
				Author:    strings.TrimSpace(parts[1]),
				Text:      strings.TrimSpace(parts[2]),
			})
			continue
		}
		comments = append(comments, models.Comment{Text: cell})
	}
	return comments
}
