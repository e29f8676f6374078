package models

import (
	"encoding/json"
	"testing"
)

func TestAnswerValueDecode(t *testing.T) {
	var answers map[string]AnswerValue
	raw := `{
		"name": "Kofi",
		"age": 34,
		"crops": ["maize", "cassava"],
		"photo": {"url": "https://cdn.example.com/p/1.jpg", "mime_type": "image/jpeg"},
		"skipped": null
	}`
	if err := json.Unmarshal([]byte(raw), &answers); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if got := answers["name"]; got.Kind != AnswerScalar || got.Scalar != "Kofi" {
		t.Errorf("name = %+v", got)
	}
	if got := answers["age"]; got.Kind != AnswerNumber || got.Number != 34 {
		t.Errorf("age = %+v", got)
	}
	if got := answers["crops"]; got.Kind != AnswerList || len(got.List) != 2 {
		t.Errorf("crops = %+v", got)
	}
	if got := answers["photo"]; got.Kind != AnswerMedia || got.Media.URL == "" {
		t.Errorf("photo = %+v", got)
	}
	if got := answers["skipped"]; got.Kind != AnswerNull {
		t.Errorf("skipped = %+v", got)
	}

	if _, err := json.Marshal(answers); err != nil {
		t.Fatalf("marshal: %v", err)
	}
}

func TestAnswerValueDecode_UnsupportedShape(t *testing.T) {
	var v AnswerValue
	if err := json.Unmarshal([]byte("true"), &v); err == nil {
		t.Error("boolean answers are not a supported shape")
	}
}

func TestAnswerValueAsNumber(t *testing.T) {
	if n, ok := NumberAnswer(4.5).AsNumber(); !ok || n != 4.5 {
		t.Errorf("number: %v %v", n, ok)
	}
	if n, ok := ScalarAnswer(" 20 ").AsNumber(); !ok || n != 20 {
		t.Errorf("numeric scalar: %v %v", n, ok)
	}
	if _, ok := ScalarAnswer("abc").AsNumber(); ok {
		t.Error("non-numeric scalar must not coerce")
	}
	if _, ok := ListAnswer("1").AsNumber(); ok {
		t.Error("lists must not coerce")
	}
}

func TestAnswerValueIsEmpty(t *testing.T) {
	cases := []struct {
		v    AnswerValue
		want bool
	}{
		{NullAnswer(), true},
		{ScalarAnswer(""), true},
		{ListAnswer(), true},
		{ScalarAnswer("x"), false},
		{NumberAnswer(0), false},
		{ListAnswer("a"), false},
	}
	for _, c := range cases {
		if got := c.v.IsEmpty(); got != c.want {
			t.Errorf("IsEmpty(%+v) = %v, want %v", c.v, got, c.want)
		}
	}
}

func TestFieldOptionWidening(t *testing.T) {
	var field FieldDefinition
	raw := `{
		"id": "crop",
		"label": "Main crop",
		"type": "single-choice",
		"options": ["Maize", {"value": "cassava", "label": "Cassava"}, {"value": "yam"}]
	}`
	if err := json.Unmarshal([]byte(raw), &field); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	want := []FieldOption{
		{Value: "Maize", Label: "Maize"},
		{Value: "cassava", Label: "Cassava"},
		{Value: "yam", Label: "yam"},
	}
	if len(field.Options) != len(want) {
		t.Fatalf("options = %+v", field.Options)
	}
	for i, w := range want {
		if field.Options[i] != w {
			t.Errorf("option %d = %+v, want %+v", i, field.Options[i], w)
		}
	}
}
