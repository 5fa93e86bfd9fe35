package issues

import (
	"sort"
	"time"

	"github.com/petebuzzell-ad/rudis-documentation/pkg/models"
)

// OutlierThresholdDays separates typical development work from strategic
// initiatives or work that happened outside the tracker. Resolutions longer
// than this are reported separately and excluded from typical-case stats.
const OutlierThresholdDays = 180

// priorityBuckets are the priorities compared head-to-head; anything else
// folds into the None bucket.
var priorityBuckets = []string{"None", "Critical", "Blocker", "Major", "Minor"}

// Options configures an analysis pass.
type Options struct {
	// Now anchors the recent-activity window (updated within 30 days).
	Now time.Time

	// SourceFile is recorded in the metadata block.
	SourceFile string

	// WindowStart/WindowEnd bound the trailing-period breakdown
	// (historically the last three months of the export).
	WindowStart time.Time
	WindowEnd   time.Time
}

// IssueRef is the brief issue listing used throughout the analysis output.
type IssueRef struct {
	Key            string   `json:"key"`
	Summary        string   `json:"summary"`
	Type           string   `json:"type,omitempty"`
	Status         string   `json:"status,omitempty"`
	Priority       string   `json:"priority,omitempty"`
	RequestType    string   `json:"request_type,omitempty"`
	Category       string   `json:"category,omitempty"`
	ResolutionDays *int     `json:"resolution_time,omitempty"`
	StoryPoints    *float64 `json:"story_points,omitempty"`
	Created        string   `json:"created,omitempty"`
	Resolved       string   `json:"resolved,omitempty"`
	Updated        string   `json:"updated,omitempty"`
}

// EstimationAccuracy compares an original estimate against tracked time for
// one issue. Ratio > 1 means overestimated.
type EstimationAccuracy struct {
	IssueKey         string  `json:"issue_key"`
	OriginalEstimate float64 `json:"original_estimate_seconds"`
	TimeSpent        float64 `json:"time_spent_seconds"`
	Ratio            float64 `json:"ratio"`
	Overestimate     bool    `json:"overestimate"`
	Underestimate    bool    `json:"underestimate"`
}

// CommentCount is the per-issue comment tally.
type CommentCount struct {
	IssueKey     string `json:"issue_key"`
	CommentCount int    `json:"comment_count"`
	Type         string `json:"type"`
	Status       string `json:"status"`
}

// PriorityStats summarizes resolution behavior for one priority bucket.
type PriorityStats struct {
	Count       int     `json:"count"`
	AverageDays float64 `json:"average_days"`
	MedianDays  float64 `json:"median_days"`
}

// RangeStats is the nil-safe summary of a numeric series.
type RangeStats struct {
	Total   *float64 `json:"total,omitempty"`
	Average *float64 `json:"average"`
	Median  *float64 `json:"median"`
	Min     *float64 `json:"min"`
	Max     *float64 `json:"max"`
}

// Analysis is the wholesale serialized aggregation result. The jira report
// and sprint commands consume it alongside the raw export.
type Analysis struct {
	Metadata struct {
		AnalysisDate         string `json:"analysis_date"`
		SourceFile           string `json:"source_file"`
		OutlierThresholdDays int    `json:"outlier_threshold_days"`
	} `json:"metadata"`

	Summary struct {
		TotalIssues    int `json:"total_issues"`
		ResolvedIssues struct {
			Typical    int     `json:"typical"`
			Outliers   int     `json:"outliers"`
			Total      int     `json:"total"`
			Percentage float64 `json:"percentage"`
		} `json:"resolved_issues"`
		ResolutionTimes struct {
			Average              *float64 `json:"average"`
			Median               *float64 `json:"median"`
			Min                  *float64 `json:"min"`
			Max                  *float64 `json:"max"`
			OutlierThresholdDays int      `json:"outlier_threshold_days"`
		} `json:"resolution_times"`
		StoryPoints RangeStats `json:"story_points"`
		LastPeriod  struct {
			TotalIssues           int      `json:"total_issues"`
			Resolved              int      `json:"resolved"`
			AverageResolutionTime *float64 `json:"average_resolution_time"`
		} `json:"last_3_months"`
	} `json:"summary"`

	Distribution struct {
		Priorities   map[string]int `json:"priorities"`
		IssueTypes   map[string]int `json:"issue_types"`
		Statuses     map[string]int `json:"statuses"`
		RequestTypes map[string]int `json:"request_types"`
		Teams        map[string]int `json:"teams"`
		Categories   map[string]int `json:"categories"`
		Epics        map[string]int `json:"epics"`
		Assignees    map[string]int `json:"assignees"`
		Reporters    map[string]int `json:"reporters"`
	} `json:"distribution"`

	PriorityComparison map[string]PriorityStats `json:"priority_comparison"`

	ChallengingWork struct {
		Outliers []IssueRef `json:"outliers"`
		Typical  []IssueRef `json:"typical"`
	} `json:"challenging_work"`

	UnresolvedHighPriority []IssueRef `json:"unresolved_high_priority"`

	RecentActivity []IssueRef `json:"recent_activity"`

	NonePriority struct {
		Total               int        `json:"total"`
		Resolved            int        `json:"resolved"`
		ResolvedIssues      []IssueRef `json:"resolved_issues"`
		QuickResolution     []IssueRef `json:"quick_resolution"`
		VeryQuickResolution []IssueRef `json:"very_quick_resolution"`
		Statistics          struct {
			AverageResolution *float64 `json:"average_resolution"`
			MedianResolution  *float64 `json:"median_resolution"`
		} `json:"statistics"`
	} `json:"none_priority_analysis"`

	LastPeriod struct {
		Issues          []IssueRef     `json:"issues"`
		IssueTypes      map[string]int `json:"issue_types"`
		Statuses        map[string]int `json:"statuses"`
		RequestTypes    map[string]int `json:"request_types"`
		ResolvedCount   int            `json:"resolved_count"`
		ResolutionTimes []float64      `json:"resolution_times"`
	} `json:"last_3_months"`

	TimeTracking struct {
		Summary struct {
			TotalOriginalEstimateHours   *float64 `json:"total_original_estimate_hours"`
			TotalRemainingEstimateHours  *float64 `json:"total_remaining_estimate_hours"`
			TotalBaselineEstimateHours   *float64 `json:"total_baseline_estimate_hours"`
			TotalTimeSpentHours          *float64 `json:"total_time_spent_hours"`
			AverageOriginalEstimateHours *float64 `json:"average_original_estimate_hours"`
			AverageTimeSpentHours        *float64 `json:"average_time_spent_hours"`
			EstimationAccuracyCount      int      `json:"estimation_accuracy_count"`
			OverestimatedCount           int      `json:"overestimated_count"`
			UnderestimatedCount          int      `json:"underestimated_count"`
			AverageEstimateRatio         *float64 `json:"average_estimate_ratio"`
		} `json:"summary"`
		EstimationAccuracy []EstimationAccuracy `json:"estimation_accuracy"`
	} `json:"time_tracking"`

	CommentAnalysis struct {
		TotalComments          int            `json:"total_comments"`
		IssuesWithComments     int            `json:"issues_with_comments"`
		IssuesWithoutComments  int            `json:"issues_without_comments"`
		AverageCommentsPerItem float64        `json:"average_comments_per_issue"`
		HighCommentIssues      []CommentCount `json:"high_comment_issues"`
	} `json:"comment_analysis"`
}

func ref(i models.Issue) IssueRef {
	r := IssueRef{
		Key:            i.Key,
		Summary:        i.Summary,
		Type:           i.Type,
		Status:         i.Status,
		Priority:       i.Priority,
		RequestType:    i.RequestType,
		Category:       i.Category,
		ResolutionDays: i.ResolutionDays(),
		StoryPoints:    i.StoryPoints,
	}
	if i.Created != nil {
		r.Created = i.Created.Format(time.RFC3339)
	}
	if i.Resolved != nil {
		r.Resolved = i.Resolved.Format(time.RFC3339)
	}
	if i.Updated != nil {
		r.Updated = i.Updated.Format(time.RFC3339)
	}
	return r
}

func bump(counter map[string]int, key string) {
	if key != "" {
		counter[key]++
	}
}

// Analyze aggregates the export into the full analysis structure. Input
// order does not matter except for the listing sections, which preserve
// file order before their explicit sorts.
func Analyze(all []models.Issue, opts Options) *Analysis {
	a := &Analysis{}
	a.Metadata.AnalysisDate = opts.Now.Format(time.RFC3339)
	a.Metadata.SourceFile = opts.SourceFile
	a.Metadata.OutlierThresholdDays = OutlierThresholdDays
	a.Summary.ResolutionTimes.OutlierThresholdDays = OutlierThresholdDays

	a.Distribution.Priorities = map[string]int{}
	a.Distribution.IssueTypes = map[string]int{}
	a.Distribution.Statuses = map[string]int{}
	a.Distribution.RequestTypes = map[string]int{}
	a.Distribution.Teams = map[string]int{}
	a.Distribution.Categories = map[string]int{}
	a.Distribution.Epics = map[string]int{}
	a.Distribution.Assignees = map[string]int{}
	a.Distribution.Reporters = map[string]int{}
	a.LastPeriod.IssueTypes = map[string]int{}
	a.LastPeriod.Statuses = map[string]int{}
	a.LastPeriod.RequestTypes = map[string]int{}

	var (
		storyPoints        []float64
		resolutionTimes    []float64
		typicalResolved    []IssueRef
		outliers           []IssueRef
		challenging        []IssueRef
		commentCounts      []CommentCount
		originalEstimates  []float64
		remainingEstimates []float64
		baselineEstimates  []float64
		timeSpent          []float64
		ratios             []float64
	)
	priorityTimes := map[string][]float64{}
	var noneResolutionTimes []float64

	for _, issue := range all {
		a.Summary.TotalIssues++

		bump(a.Distribution.IssueTypes, issue.Type)
		bump(a.Distribution.Statuses, issue.Status)
		bump(a.Distribution.Priorities, issue.Priority)
		bump(a.Distribution.RequestTypes, issue.RequestType)
		bump(a.Distribution.Teams, issue.Team)
		bump(a.Distribution.Categories, issue.Category)
		bump(a.Distribution.Epics, issue.EpicName)
		bump(a.Distribution.Assignees, issue.Assignee)
		bump(a.Distribution.Reporters, issue.Reporter)

		days := issue.ResolutionDays()

		if issue.StoryPoints != nil && *issue.StoryPoints != 0 {
			storyPoints = append(storyPoints, *issue.StoryPoints)
		}
		if issue.OriginalEstimate != nil {
			originalEstimates = append(originalEstimates, *issue.OriginalEstimate)
		}
		if issue.RemainingEstimate != nil {
			remainingEstimates = append(remainingEstimates, *issue.RemainingEstimate)
		}
		if issue.BaselineEstimate != nil {
			baselineEstimates = append(baselineEstimates, *issue.BaselineEstimate)
		}
		if issue.TimeSpent != nil {
			timeSpent = append(timeSpent, *issue.TimeSpent)
		}

		if issue.OriginalEstimate != nil && issue.TimeSpent != nil && *issue.TimeSpent > 0 {
			ratio := *issue.OriginalEstimate / *issue.TimeSpent
			ratios = append(ratios, ratio)
			a.TimeTracking.EstimationAccuracy = append(a.TimeTracking.EstimationAccuracy, EstimationAccuracy{
				IssueKey:         issue.Key,
				OriginalEstimate: *issue.OriginalEstimate,
				TimeSpent:        *issue.TimeSpent,
				Ratio:            ratio,
				Overestimate:     *issue.OriginalEstimate > *issue.TimeSpent,
				Underestimate:    *issue.OriginalEstimate < *issue.TimeSpent,
			})
		}

		if n := len(issue.Comments); n > 0 {
			a.CommentAnalysis.TotalComments += n
			a.CommentAnalysis.IssuesWithComments++
			commentCounts = append(commentCounts, CommentCount{
				IssueKey:     issue.Key,
				CommentCount: n,
				Type:         issue.Type,
				Status:       issue.Status,
			})
		}

		// Priority comparison only covers typical-case resolutions.
		if days != nil && *days <= OutlierThresholdDays {
			bucket := issue.Priority
			if !isPriorityBucket(bucket) {
				bucket = "None"
			}
			priorityTimes[bucket] = append(priorityTimes[bucket], float64(*days))
		}

		if issue.Priority == "None" {
			a.NonePriority.Total++
			if days != nil && *days <= OutlierThresholdDays {
				a.NonePriority.Resolved++
				a.NonePriority.ResolvedIssues = append(a.NonePriority.ResolvedIssues, ref(issue))
				noneResolutionTimes = append(noneResolutionTimes, float64(*days))
				// A fast turnaround suggests urgency despite the missing priority.
				if *days <= 7 {
					a.NonePriority.QuickResolution = append(a.NonePriority.QuickResolution, ref(issue))
				}
				if *days <= 3 {
					a.NonePriority.VeryQuickResolution = append(a.NonePriority.VeryQuickResolution, ref(issue))
				}
			}
		}

		if days != nil {
			if *days > OutlierThresholdDays {
				outliers = append(outliers, ref(issue))
			} else {
				resolutionTimes = append(resolutionTimes, float64(*days))
				typicalResolved = append(typicalResolved, ref(issue))
			}
		}

		if !opts.WindowStart.IsZero() && issue.Created != nil &&
			!issue.Created.Before(opts.WindowStart) && !issue.Created.After(opts.WindowEnd) {
			a.LastPeriod.Issues = append(a.LastPeriod.Issues, ref(issue))
			bump(a.LastPeriod.IssueTypes, issue.Type)
			bump(a.LastPeriod.Statuses, issue.Status)
			bump(a.LastPeriod.RequestTypes, issue.RequestType)
			if issue.Resolved != nil {
				a.LastPeriod.ResolvedCount++
				if days != nil && *days <= OutlierThresholdDays {
					a.LastPeriod.ResolutionTimes = append(a.LastPeriod.ResolutionTimes, float64(*days))
				}
			}
		}

		// Challenging work: heavy estimates, or long-but-not-outlier runs.
		if issue.StoryPoints != nil && *issue.StoryPoints >= 5 {
			challenging = append(challenging, ref(issue))
		} else if days != nil && *days >= 30 && *days <= OutlierThresholdDays {
			challenging = append(challenging, ref(issue))
		}

		if !issue.IsResolved() && issue.Status != "Resolved" && isHighPriority(issue.Priority) {
			a.UnresolvedHighPriority = append(a.UnresolvedHighPriority, ref(issue))
		}

		if issue.Updated != nil && !issue.Updated.Before(opts.Now.AddDate(0, 0, -30)) {
			a.RecentActivity = append(a.RecentActivity, ref(issue))
		}
	}

	// Summary rollups.
	a.Summary.ResolvedIssues.Typical = len(typicalResolved)
	a.Summary.ResolvedIssues.Outliers = len(outliers)
	a.Summary.ResolvedIssues.Total = len(typicalResolved) + len(outliers)
	if a.Summary.TotalIssues > 0 {
		a.Summary.ResolvedIssues.Percentage = float64(a.Summary.ResolvedIssues.Total) / float64(a.Summary.TotalIssues) * 100
	}
	a.Summary.ResolutionTimes.Average = Mean(resolutionTimes)
	a.Summary.ResolutionTimes.Median = Median(resolutionTimes)
	a.Summary.ResolutionTimes.Min = Min(resolutionTimes)
	a.Summary.ResolutionTimes.Max = Max(resolutionTimes)
	a.Summary.StoryPoints = RangeStats{
		Total:   Sum(storyPoints),
		Average: Mean(storyPoints),
		Median:  Median(storyPoints),
		Min:     Min(storyPoints),
		Max:     Max(storyPoints),
	}
	a.Summary.LastPeriod.TotalIssues = len(a.LastPeriod.Issues)
	a.Summary.LastPeriod.Resolved = a.LastPeriod.ResolvedCount
	a.Summary.LastPeriod.AverageResolutionTime = Mean(a.LastPeriod.ResolutionTimes)

	a.PriorityComparison = map[string]PriorityStats{}
	for _, bucket := range priorityBuckets {
		times := priorityTimes[bucket]
		if len(times) == 0 {
			continue
		}
		a.PriorityComparison[bucket] = PriorityStats{
			Count:       len(times),
			AverageDays: *Mean(times),
			MedianDays:  *Median(times),
		}
	}

	a.NonePriority.Statistics.AverageResolution = Mean(noneResolutionTimes)
	a.NonePriority.Statistics.MedianResolution = Median(noneResolutionTimes)

	// Top-N listings.
	sort.SliceStable(challenging, func(i, j int) bool {
		return challengeWeight(challenging[i]) > challengeWeight(challenging[j])
	})
	a.ChallengingWork.Outliers = capRefs(outliers, 20)
	a.ChallengingWork.Typical = capRefs(challenging, 20)

	hoursOrNil := func(v *float64) *float64 {
		if v == nil {
			return nil
		}
		h := *v / 3600
		return &h
	}
	a.TimeTracking.Summary.TotalOriginalEstimateHours = hoursOrNil(Sum(originalEstimates))
	a.TimeTracking.Summary.TotalRemainingEstimateHours = hoursOrNil(Sum(remainingEstimates))
	a.TimeTracking.Summary.TotalBaselineEstimateHours = hoursOrNil(Sum(baselineEstimates))
	a.TimeTracking.Summary.TotalTimeSpentHours = hoursOrNil(Sum(timeSpent))
	a.TimeTracking.Summary.AverageOriginalEstimateHours = hoursOrNil(Mean(originalEstimates))
	a.TimeTracking.Summary.AverageTimeSpentHours = hoursOrNil(Mean(timeSpent))
	a.TimeTracking.Summary.EstimationAccuracyCount = len(a.TimeTracking.EstimationAccuracy)
	for _, est := range a.TimeTracking.EstimationAccuracy {
		if est.Overestimate {
			a.TimeTracking.Summary.OverestimatedCount++
		}
		if est.Underestimate {
			a.TimeTracking.Summary.UnderestimatedCount++
		}
	}
	a.TimeTracking.Summary.AverageEstimateRatio = Mean(ratios)
	if len(a.TimeTracking.EstimationAccuracy) > 50 {
		a.TimeTracking.EstimationAccuracy = a.TimeTracking.EstimationAccuracy[:50]
	}
	a.CommentAnalysis.IssuesWithoutComments = a.Summary.TotalIssues - a.CommentAnalysis.IssuesWithComments
	if a.Summary.TotalIssues > 0 {
		a.CommentAnalysis.AverageCommentsPerItem = float64(a.CommentAnalysis.TotalComments) / float64(a.Summary.TotalIssues)
	}
	sort.SliceStable(commentCounts, func(i, j int) bool {
		return commentCounts[i].CommentCount > commentCounts[j].CommentCount
	})
	if len(commentCounts) > 20 {
		commentCounts = commentCounts[:20]
	}
	a.CommentAnalysis.HighCommentIssues = commentCounts

	return a
}

func isPriorityBucket(p string) bool {
	for _, b := range priorityBuckets {
		if p == b {
			return true
		}
	}
	return false
}

func isHighPriority(p string) bool {
	switch p {
	case "Critical", "High", "Major":
		return true
	}
	return false
}

func challengeWeight(r IssueRef) float64 {
	w := 0.0
	if r.StoryPoints != nil {
		w = *r.StoryPoints * 1000
	}
	if r.ResolutionDays != nil {
		w += float64(*r.ResolutionDays)
	}
	return w
}

func capRefs(refs []IssueRef, n int) []IssueRef {
	if len(refs) > n {
		return refs[:n]
	}
	return refs
}
