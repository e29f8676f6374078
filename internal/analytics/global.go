package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/aquabrain57/procollekt-server/internal/models"
)

const dateLayout = "2006-01-02"

// AggregateGlobalStats computes the survey-wide statistics: completion and
// geolocation rates, the per-day submission timeline, and peak activity
// buckets. All rates are whole percentages and every division is guarded so
// an empty survey yields zeros, never NaN.
func AggregateGlobalStats(fields []models.FieldDefinition, responses []models.ResponseRecord) GlobalStats {
	stats := GlobalStats{
		Total:    len(responses),
		PeakHour: -1,
	}

	required := make([]string, 0, len(fields))
	for _, f := range fields {
		if f.Required {
			required = append(required, f.ID)
		}
	}

	complete := 0
	byDay := make(map[string]int)
	var byHour [24]int
	var byWeekday [7]int

	for _, r := range responses {
		if isComplete(required, r) {
			complete++
		}
		if r.Location != nil {
			stats.GeolocatedCount++
		}

		ts := r.CreatedAt.UTC()
		byDay[ts.Format(dateLayout)]++
		byHour[ts.Hour()]++
		byWeekday[int(ts.Weekday())]++
	}

	stats.CompletionRate = roundPct(complete, stats.Total)
	stats.LocationRate = roundPct(stats.GeolocatedCount, stats.Total)
	stats.Timeline = buildTimeline(byDay)
	stats.ActiveDays = len(stats.Timeline)

	if stats.ActiveDays > 0 {
		stats.StartDate = stats.Timeline[0].Date
		stats.EndDate = stats.Timeline[stats.ActiveDays-1].Date
		avg := float64(stats.Total) / float64(stats.ActiveDays)
		stats.AvgPerActiveDay = math.Round(avg*10) / 10
	}

	if stats.Total > 0 {
		// Ties break toward the earliest hour and earliest weekday so the
		// result does not depend on iteration order.
		for hour, n := range byHour {
			if n > stats.PeakHourCount {
				stats.PeakHour = hour
				stats.PeakHourCount = n
			}
		}
		peakDay := 0
		for day, n := range byWeekday {
			if n > stats.PeakWeekdayCount {
				peakDay = day
				stats.PeakWeekdayCount = n
			}
		}
		stats.PeakWeekday = time.Weekday(peakDay).String()
	}

	return stats
}

// isComplete reports whether every required field has a non-empty answer.
func isComplete(required []string, r models.ResponseRecord) bool {
	for _, id := range required {
		v, ok := r.Answers[id]
		if !ok || v.IsEmpty() {
			return false
		}
	}
	return true
}

func buildTimeline(byDay map[string]int) []TimelinePoint {
	days := make([]string, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	sort.Strings(days)

	timeline := make([]TimelinePoint, 0, len(days))
	for _, d := range days {
		timeline = append(timeline, TimelinePoint{Date: d, Count: byDay[d]})
	}
	return timeline
}
