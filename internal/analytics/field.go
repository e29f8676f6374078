package analytics

import (
	"math"
	"sort"

	"github.com/aquabrain57/procollekt-server/internal/models"
)

// AggregateField summarizes all answers given to one field. Undefined, null
// and empty-string answers are discarded before aggregation; a malformed
// answer (e.g. a non-numeric value in a number field) is dropped from the
// relevant aggregate instead of failing the computation.
func AggregateField(field models.FieldDefinition, responses []models.ResponseRecord) FieldAnalytics {
	fa := FieldAnalytics{
		FieldID: field.ID,
		Label:   field.Label,
		Type:    field.Type,
	}

	answers := make([]models.AnswerValue, 0, len(responses))
	for _, r := range responses {
		v, ok := r.Answers[field.ID]
		if !ok || v.IsEmpty() {
			continue
		}
		answers = append(answers, v)
	}
	fa.Answered = len(answers)

	switch {
	case field.Type.IsChoice():
		fa.Category = CategoryCategorical
		fa.Categories = aggregateChoices(field, answers)
	case field.Type.IsNumeric():
		fa.Category = CategoryNumeric
		fa.Numeric = aggregateNumbers(answers)
	default:
		fa.Category = CategoryText
	}

	return fa
}

// aggregateChoices builds the categorical frequency table. One vote is
// counted per selected option per response, so a multi-choice answer with
// three selections contributes three votes. The table is seeded with every
// declared option at zero so ordering stays stable, then zero-count rows are
// dropped after counting.
func aggregateChoices(field models.FieldDefinition, answers []models.AnswerValue) []CategoryCount {
	counts := make(map[string]int)
	order := make([]string, 0, len(field.Options))
	seen := make(map[string]bool)

	for _, opt := range field.Options {
		if !seen[opt.Label] {
			counts[opt.Label] = 0
			order = append(order, opt.Label)
			seen[opt.Label] = true
		}
	}

	total := 0
	for _, v := range answers {
		for _, vote := range votesOf(v) {
			label := NormalizeLabel(field, vote)
			if !seen[label] {
				order = append(order, label)
				seen[label] = true
			}
			counts[label]++
			total++
		}
	}

	if total == 0 {
		return nil
	}

	table := make([]CategoryCount, 0, len(order))
	for _, label := range order {
		n := counts[label]
		if n == 0 {
			continue
		}
		table = append(table, CategoryCount{
			Label:      label,
			Count:      n,
			Percentage: roundPct(n, total),
		})
	}

	// Stable sort keeps first-encountered order on equal counts.
	sort.SliceStable(table, func(i, j int) bool { return table[i].Count > table[j].Count })
	return table
}

// votesOf flattens an answer into individual votes.
func votesOf(v models.AnswerValue) []string {
	if v.Kind == models.AnswerList {
		return v.List
	}
	return []string{v.String()}
}

// aggregateNumbers computes mean, min, max and an ascending value
// distribution. Non-numeric answers are discarded. Zero eligible answers
// yield all-zero stats rather than NaN.
func aggregateNumbers(answers []models.AnswerValue) *NumericStats {
	stats := &NumericStats{}
	freq := make(map[float64]int)

	sum := 0.0
	for _, v := range answers {
		n, ok := v.AsNumber()
		if !ok {
			continue
		}
		if stats.Count == 0 || n < stats.Min {
			stats.Min = n
		}
		if stats.Count == 0 || n > stats.Max {
			stats.Max = n
		}
		sum += n
		stats.Count++
		freq[n]++
	}

	if stats.Count == 0 {
		return stats
	}
	stats.Average = sum / float64(stats.Count)

	stats.Distribution = make([]ValueCount, 0, len(freq))
	for value, count := range freq {
		stats.Distribution = append(stats.Distribution, ValueCount{Value: value, Count: count})
	}
	sort.Slice(stats.Distribution, func(i, j int) bool {
		return stats.Distribution[i].Value < stats.Distribution[j].Value
	})

	return stats
}

// roundPct is count/total as a whole percentage, guarded against a zero total.
func roundPct(count, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(count) / float64(total) * 100))
}
