package analytics

import (
	"testing"

	"github.com/aquabrain57/procollekt-server/internal/models"
)

func choiceField(options ...string) models.FieldDefinition {
	f := models.FieldDefinition{
		ID:    "f1",
		Label: "Choice",
		Type:  models.FieldSingleChoice,
	}
	for _, o := range options {
		f.Options = append(f.Options, models.FieldOption{Value: o, Label: o})
	}
	return f
}

func TestNormalizeLabel_NoOptionsPassthrough(t *testing.T) {
	f := models.FieldDefinition{ID: "f1", Type: models.FieldShortText}
	if got := NormalizeLabel(f, "anything at all"); got != "anything at all" {
		t.Errorf("expected passthrough, got %q", got)
	}
}

func TestNormalizeLabel_MatchesValueAndLabel(t *testing.T) {
	f := models.FieldDefinition{
		ID:   "f1",
		Type: models.FieldSingleChoice,
		Options: []models.FieldOption{
			{Value: "opt_low", Label: "Low"},
			{Value: "opt_high", Label: "High"},
		},
	}

	if got := NormalizeLabel(f, "opt_low"); got != "Low" {
		t.Errorf("value match: expected Low, got %q", got)
	}
	if got := NormalizeLabel(f, "High"); got != "High" {
		t.Errorf("label match: expected High, got %q", got)
	}
}

// Legacy placeholder values resolve as a 1-based index into the option list,
// case-insensitively and with optional whitespace.
func TestNormalizeLabel_LegacyPlaceholder(t *testing.T) {
	f := choiceField("Red", "Green", "Blue")

	cases := map[string]string{
		"Option 1": "Red",
		"option2":  "Green",
		"OPTION 3": "Blue",
		" Option 2 ": "Green",
	}
	for raw, want := range cases {
		if got := NormalizeLabel(f, raw); got != want {
			t.Errorf("NormalizeLabel(%q) = %q, want %q", raw, got, want)
		}
	}

	// Out of range falls back to the raw value.
	if got := NormalizeLabel(f, "Option 4"); got != "Option 4" {
		t.Errorf("out-of-range placeholder: got %q", got)
	}
	if got := NormalizeLabel(f, "Option 0"); got != "Option 0" {
		t.Errorf("zero placeholder: got %q", got)
	}
}

func TestNormalizeLabel_UnknownValueFallsThrough(t *testing.T) {
	f := choiceField("Yes", "No")
	if got := NormalizeLabel(f, "Maybe"); got != "Maybe" {
		t.Errorf("expected raw fallback, got %q", got)
	}
}

// Once a value is a label, re-normalizing is a no-op.
func TestNormalizeLabel_Idempotent(t *testing.T) {
	f := choiceField("Low", "Medium", "High")

	for _, raw := range []string{"Low", "Option 2", "free text", "High"} {
		once := NormalizeLabel(f, raw)
		twice := NormalizeLabel(f, once)
		if once != twice {
			t.Errorf("not idempotent for %q: first %q, second %q", raw, once, twice)
		}
	}
}
