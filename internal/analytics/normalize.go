package analytics

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/aquabrain57/procollekt-server/internal/models"
)

// Legacy clients stored placeholder values like "Option 2" instead of the
// option's real value. The integer is a 1-based index into the option list.
var optionPlaceholder = regexp.MustCompile(`(?i)^option\s*(\d+)$`)

// NormalizeLabel maps a raw stored answer to its canonical display label.
//
// Fields without an option list pass the value through unchanged. For choice
// fields the value is matched (case-sensitive) against each option's value
// and label; failing that, a legacy "Option N" placeholder is resolved by
// index. Anything else falls through unchanged so free-typed or stale values
// still render instead of breaking a report.
func NormalizeLabel(field models.FieldDefinition, raw string) string {
	if len(field.Options) == 0 {
		return raw
	}

	for _, opt := range field.Options {
		if raw == opt.Value || raw == opt.Label {
			return opt.Label
		}
	}

	if m := optionPlaceholder.FindStringSubmatch(strings.TrimSpace(raw)); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n >= 1 && n <= len(field.Options) {
			return field.Options[n-1].Label
		}
	}

	return raw
}
