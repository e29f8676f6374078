// Package models defines the data structures used across the application.
// These map to the PostgreSQL schema and the JSON payloads exchanged with
// the field-collection clients.
package models

import (
	"time"

	"github.com/google/uuid"
)

// FieldType identifies the kind of input a survey field collects.
type FieldType string

const (
	FieldShortText    FieldType = "short-text"
	FieldLongText     FieldType = "long-text"
	FieldNumber       FieldType = "number"
	FieldRating       FieldType = "rating"
	FieldSingleChoice FieldType = "single-choice"
	FieldMultiChoice  FieldType = "multi-choice"
	FieldDateTime     FieldType = "datetime"
	FieldLocation     FieldType = "location"
	FieldMedia        FieldType = "media"
	FieldSignature    FieldType = "signature"
	FieldComputed     FieldType = "computed"
	FieldNote         FieldType = "note"
	FieldMatrix       FieldType = "matrix"
)

// IsChoice reports whether the field type carries a declared option list
// that answers are matched against.
func (t FieldType) IsChoice() bool {
	return t == FieldSingleChoice || t == FieldMultiChoice
}

// IsNumeric reports whether answers to the field are aggregated as numbers.
func (t FieldType) IsNumeric() bool {
	return t == FieldNumber || t == FieldRating
}

// FieldOption is the canonical {value, label} pair of a choice field.
// Authoring clients may send bare strings; those are widened into this
// shape at the JSON boundary so the aggregation core sees one type only.
type FieldOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// DisplayRule makes a field conditionally visible depending on the answer
// given to another field.
type DisplayRule struct {
	FieldID string `json:"field_id"`
	Equals  string `json:"equals"`
}

// FieldDefinition describes one question of a survey. Definitions are
// immutable once responses exist.
type FieldDefinition struct {
	ID          string        `json:"id" db:"id"`
	Label       string        `json:"label" db:"label"`
	Type        FieldType     `json:"type" db:"type"`
	Required    bool          `json:"required" db:"required"`
	Options     []FieldOption `json:"options,omitempty" db:"options"`
	Min         *float64      `json:"min,omitempty" db:"min"`
	Max         *float64      `json:"max,omitempty" db:"max"`
	DisplayRule *DisplayRule  `json:"display_rule,omitempty" db:"display_rule"`
}

// GeoPoint is a WGS84 coordinate captured at submission time.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// SurveyorAttribution links a response to the badge-carrying surveyor who
// collected it.
type SurveyorAttribution struct {
	SurveyorID string `json:"surveyor_id"`
	BadgeID    string `json:"badge_id"`
	Validated  bool   `json:"validated"`
}

// SyncStatus tracks whether a response captured offline has reached the server.
type SyncStatus string

const (
	SyncPending SyncStatus = "pending"
	SyncSynced  SyncStatus = "synced"
)

// ResponseRecord is one respondent's complete set of answers plus submission
// metadata. Records are append-only: created once at submission, never mutated.
type ResponseRecord struct {
	ID         uuid.UUID              `json:"id" db:"id"`
	SurveyID   uuid.UUID              `json:"survey_id" db:"survey_id"`
	CreatedAt  time.Time              `json:"created_at" db:"created_at"`
	Answers    map[string]AnswerValue `json:"answers" db:"answers"`
	Location   *GeoPoint              `json:"location,omitempty" db:"location"`
	Surveyor   *SurveyorAttribution   `json:"surveyor,omitempty" db:"surveyor"`
	SyncStatus SyncStatus             `json:"sync_status" db:"sync_status"`
}

// Survey is a named collection of field definitions presented to respondents.
type Survey struct {
	ID          uuid.UUID         `json:"id" db:"id"`
	Title       string            `json:"title" db:"title"`
	Description string            `json:"description,omitempty" db:"description"`
	Fields      []FieldDefinition `json:"fields" db:"fields"`
	CreatedAt   time.Time         `json:"created_at" db:"created_at"`
}

// SurveyInput is the request body for creating a survey.
type SurveyInput struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Fields      []FieldDefinition `json:"fields"`
}

// ResponseInput is the request body for submitting a single response online.
type ResponseInput struct {
	Answers  map[string]AnswerValue `json:"answers"`
	Location *GeoPoint              `json:"location,omitempty"`
	Surveyor *SurveyorAttribution   `json:"surveyor,omitempty"`
}

// PendingResponse is one offline-captured response pushed during sync.
// The record ID is client-generated so retries stay idempotent.
type PendingResponse struct {
	RecordID   uuid.UUID              `json:"record_id"`
	CapturedAt time.Time              `json:"captured_at"`
	Answers    map[string]AnswerValue `json:"answers"`
	Location   *GeoPoint              `json:"location,omitempty"`
	Surveyor   *SurveyorAttribution   `json:"surveyor,omitempty"`
}

// SyncPushRequest is the payload sent by a client flushing its offline queue.
type SyncPushRequest struct {
	Responses []PendingResponse `json:"responses"`
}

// SyncPushResult reports which pending responses were accepted.
type SyncPushResult struct {
	Accepted    int         `json:"accepted"`
	Duplicates  int         `json:"duplicates"`
	RejectedIDs []uuid.UUID `json:"rejected_ids,omitempty"`
}

// Surveyor is a field worker account. The password is stored as a bcrypt hash.
type Surveyor struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	BadgeID      string    `json:"badge_id" db:"badge_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// BadgeClaims are the identity claims embedded in a badge token.
type BadgeClaims struct {
	SurveyorID string `json:"surveyor_id"`
	BadgeID    string `json:"badge_id"`
	Name       string `json:"name"`
}

// ReportCustomization carries the caller-supplied presentation fields of a
// premium report.
type ReportCustomization struct {
	Title        string `json:"title"`
	Subtitle     string `json:"subtitle,omitempty"`
	Organization string `json:"organization,omitempty"`
	Author       string `json:"author,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

// Narrative is the free-text output of the external summarization endpoint.
// Its contents are opaque strings; the server never interprets them.
type Narrative struct {
	Summary         string   `json:"summary"`
	Trends          []string `json:"trends"`
	Anomalies       []string `json:"anomalies"`
	Recommendations []string `json:"recommendations"`
}

// HealthStatus represents the server health check response.
type HealthStatus struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Uptime   string `json:"uptime,omitempty"`
	Database string `json:"database,omitempty"`
}
