package analytics

import "fmt"

// InsightOptions parameterizes the rule engine per calling context. The
// dashboard flags an option as dominant at a higher share than the premium
// report, and the two contexts cap the list differently.
type InsightOptions struct {
	// DominantShare is the minimum top-option percentage for the
	// dominant-option rule to fire.
	DominantShare int
	// MaxInsights caps the returned list.
	MaxInsights int
}

// DashboardInsights and ReportInsights are the two configurations used by
// the calling contexts.
var (
	DashboardInsights = InsightOptions{DominantShare: 60, MaxInsights: 6}
	ReportInsights    = InsightOptions{DominantShare: 40, MaxInsights: 8}
)

// DeriveInsights converts the quantitative aggregates into qualitative
// statements using a fixed, deterministic rule set. Rules run in order and
// each appends at most one insight; the list is capped at opts.MaxInsights.
func DeriveInsights(stats GlobalStats, fields []FieldAnalytics, opts InsightOptions) []Insight {
	if opts.MaxInsights <= 0 {
		opts.MaxInsights = DashboardInsights.MaxInsights
	}

	var insights []Insight

	if in, ok := sampleSizeRule(stats.Total); ok {
		insights = append(insights, in)
	}
	if in, ok := completionRule(stats); ok {
		insights = append(insights, in)
	}
	for _, fa := range fields {
		if in, ok := dominantOptionRule(fa, opts.DominantShare); ok {
			insights = append(insights, in)
		}
	}

	if len(insights) > opts.MaxInsights {
		insights = insights[:opts.MaxInsights]
	}
	return insights
}

func sampleSizeRule(total int) (Insight, bool) {
	switch {
	case total >= 100:
		return Insight{
			Severity: SeveritySuccess,
			Message:  "Sample size is statistically significant",
			Detail:   fmt.Sprintf("%d responses collected", total),
		}, true
	case total >= 30:
		return Insight{
			Severity: SeverityInfo,
			Message:  "Acceptable sample size, consider expanding",
			Detail:   fmt.Sprintf("%d responses collected", total),
		}, true
	case total >= 1:
		return Insight{
			Severity: SeverityWarning,
			Message:  "Insufficient sample for reliable conclusions",
			Detail:   fmt.Sprintf("only %d responses collected", total),
		}, true
	default:
		return Insight{}, false
	}
}

func completionRule(stats GlobalStats) (Insight, bool) {
	if stats.Total == 0 {
		return Insight{}, false
	}
	switch {
	case stats.CompletionRate >= 90:
		return Insight{
			Severity: SeveritySuccess,
			Message:  "Excellent completion rate",
			Detail:   fmt.Sprintf("%d%% of responses answered every required field", stats.CompletionRate),
		}, true
	case stats.CompletionRate < 70:
		return Insight{
			Severity: SeverityWarning,
			Message:  "Completion rate needs improvement",
			Detail:   fmt.Sprintf("only %d%% of responses answered every required field", stats.CompletionRate),
		}, true
	default:
		// 70-89 is the neutral band: no insight.
		return Insight{}, false
	}
}

func dominantOptionRule(fa FieldAnalytics, minShare int) (Insight, bool) {
	if fa.Category != CategoryCategorical || len(fa.Categories) == 0 {
		return Insight{}, false
	}
	top := fa.Categories[0]
	if top.Percentage < minShare {
		return Insight{}, false
	}
	// Multi-choice answers cast several votes, so the denominator is the
	// vote total, not the response count.
	totalVotes := 0
	for _, c := range fa.Categories {
		totalVotes += c.Count
	}
	return Insight{
		Severity: SeverityInfo,
		Message:  fmt.Sprintf("%q dominates %q", top.Label, fa.Label),
		Detail:   fmt.Sprintf("%d%% of votes (%d of %d votes)", top.Percentage, top.Count, totalVotes),
	}, true
}
