package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// AnswerKind discriminates the shapes an answer value can take on the wire.
type AnswerKind int

const (
	AnswerNull AnswerKind = iota
	AnswerScalar
	AnswerNumber
	AnswerList
	AnswerMedia
)

// MediaRef points at an uploaded media object (photo, audio, signature image).
type MediaRef struct {
	URL       string `json:"url"`
	MimeType  string `json:"mime_type,omitempty"`
	SizeBytes int64  `json:"size_bytes,omitempty"`
}

// AnswerValue is a tagged union over the value shapes clients submit:
// null, scalar string, number, list of strings, or a media reference.
// Aggregators switch on Kind instead of reflecting on interface{} payloads.
type AnswerValue struct {
	Kind   AnswerKind
	Scalar string
	Number float64
	List   []string
	Media  *MediaRef
}

// NullAnswer is the absent answer.
func NullAnswer() AnswerValue { return AnswerValue{Kind: AnswerNull} }

// ScalarAnswer wraps a plain string answer.
func ScalarAnswer(s string) AnswerValue { return AnswerValue{Kind: AnswerScalar, Scalar: s} }

// NumberAnswer wraps a numeric answer.
func NumberAnswer(n float64) AnswerValue { return AnswerValue{Kind: AnswerNumber, Number: n} }

// ListAnswer wraps a multi-choice selection.
func ListAnswer(items ...string) AnswerValue { return AnswerValue{Kind: AnswerList, List: items} }

// MediaAnswer wraps a media reference.
func MediaAnswer(ref MediaRef) AnswerValue { return AnswerValue{Kind: AnswerMedia, Media: &ref} }

// IsEmpty reports whether the answer counts as "not answered": null, an empty
// string, or an empty list.
func (v AnswerValue) IsEmpty() bool {
	switch v.Kind {
	case AnswerNull:
		return true
	case AnswerScalar:
		return v.Scalar == ""
	case AnswerList:
		return len(v.List) == 0
	default:
		return false
	}
}

// AsNumber coerces the answer to a float64. Scalar strings are parsed;
// anything non-numeric reports ok=false and is excluded from numeric
// aggregates rather than failing the computation.
func (v AnswerValue) AsNumber() (float64, bool) {
	switch v.Kind {
	case AnswerNumber:
		return v.Number, true
	case AnswerScalar:
		n, err := strconv.ParseFloat(strings.TrimSpace(v.Scalar), 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// String renders the answer for display and free-text fallbacks.
func (v AnswerValue) String() string {
	switch v.Kind {
	case AnswerScalar:
		return v.Scalar
	case AnswerNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	case AnswerList:
		return strings.Join(v.List, ", ")
	case AnswerMedia:
		if v.Media != nil {
			return v.Media.URL
		}
		return ""
	default:
		return ""
	}
}

// MarshalJSON writes the union back in its natural wire shape.
func (v AnswerValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case AnswerScalar:
		return json.Marshal(v.Scalar)
	case AnswerNumber:
		return json.Marshal(v.Number)
	case AnswerList:
		return json.Marshal(v.List)
	case AnswerMedia:
		return json.Marshal(v.Media)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON maps the wire shapes onto the union. Unknown shapes become
// an error at the boundary so they never reach the aggregation core.
func (v *AnswerValue) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*v = NullAnswer()
		return nil
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = ScalarAnswer(s)
	case '[':
		var items []string
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*v = AnswerValue{Kind: AnswerList, List: items}
	case '{':
		var ref MediaRef
		if err := json.Unmarshal(data, &ref); err != nil {
			return err
		}
		*v = MediaAnswer(ref)
	default:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("unsupported answer shape: %s", trimmed)
		}
		*v = NumberAnswer(n)
	}
	return nil
}

// UnmarshalJSON widens the two authoring shapes of an option (bare string or
// {value, label} object) into the canonical pair. A bare string is used as
// both value and label.
func (o *FieldOption) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		o.Value = s
		o.Label = s
		return nil
	}

	type alias FieldOption
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*o = FieldOption(a)
	if o.Label == "" {
		o.Label = o.Value
	}
	return nil
}
