// Package analytics implements the response-aggregation pipeline behind the
// dashboards and premium reports: label normalization, per-field summaries,
// survey-wide statistics, geographic zone bucketing, and rule-based insights.
//
// Every function here is pure and re-entrant. Each call reads an immutable
// snapshot of field definitions and responses and returns a fresh result.
// Nothing is persisted and no call can fail: degenerate inputs produce
// zero-valued aggregates instead of errors.
package analytics

import "github.com/aquabrain57/procollekt-server/internal/models"

// FieldCategory tags which summary shape a FieldAnalytics carries.
type FieldCategory string

const (
	CategoryCategorical FieldCategory = "categorical"
	CategoryNumeric     FieldCategory = "numeric"
	CategoryText        FieldCategory = "text"
)

// CategoryCount is one row of a categorical frequency table.
type CategoryCount struct {
	Label      string `json:"label"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

// ValueCount is one bucket of a numeric value distribution, used for
// histogram rendering.
type ValueCount struct {
	Value float64 `json:"value"`
	Count int     `json:"count"`
}

// NumericStats summarizes a numeric or rating field.
type NumericStats struct {
	Average      float64      `json:"average"`
	Min          float64      `json:"min"`
	Max          float64      `json:"max"`
	Count        int          `json:"count"`
	Distribution []ValueCount `json:"distribution,omitempty"`
}

// FieldAnalytics is the typed summary of one field across all responses of a
// survey. Exactly one of Categories/Numeric is populated depending on
// Category; Answered is always the count of non-empty answers.
type FieldAnalytics struct {
	FieldID    string           `json:"field_id"`
	Label      string           `json:"label"`
	Type       models.FieldType `json:"type"`
	Category   FieldCategory    `json:"category"`
	Answered   int              `json:"answered"`
	Categories []CategoryCount  `json:"categories,omitempty"`
	Numeric    *NumericStats    `json:"numeric,omitempty"`
}

// TimelinePoint is one calendar day of submission activity.
type TimelinePoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// GlobalStats aggregates a whole survey's responses.
type GlobalStats struct {
	Total            int             `json:"total"`
	CompletionRate   int             `json:"completion_rate"`
	GeolocatedCount  int             `json:"geolocated_count"`
	LocationRate     int             `json:"location_rate"`
	Timeline         []TimelinePoint `json:"timeline"`
	StartDate        string          `json:"start_date,omitempty"`
	EndDate          string          `json:"end_date,omitempty"`
	ActiveDays       int             `json:"active_days"`
	AvgPerActiveDay  float64         `json:"avg_per_active_day"`
	PeakHour         int             `json:"peak_hour"`
	PeakHourCount    int             `json:"peak_hour_count"`
	PeakWeekday      string          `json:"peak_weekday,omitempty"`
	PeakWeekdayCount int             `json:"peak_weekday_count"`
}

// GeoZone is a coarse geographic bucket formed by rounding response
// coordinates to a fixed decimal precision.
type GeoZone struct {
	Key        string  `json:"key"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	Count      int     `json:"count"`
	Percentage int     `json:"percentage"`
}

// Severity ranks an insight.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Insight is a short qualitative statement derived from the quantitative
// aggregates.
type Insight struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Detail   string   `json:"detail,omitempty"`
}
