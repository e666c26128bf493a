package activity

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Record is one entry of a Google Maps "My Activity" export.
type Record struct {
	Header      string   `json:"header,omitempty"`
	Title       string   `json:"title"`
	TitleURL    string   `json:"titleUrl,omitempty"`
	Time        string   `json:"time"`
	Description string   `json:"description,omitempty"`
	Products    []string `json:"products,omitempty"`
}

// ValidationError describes the first malformed record of an export. Index
// is -1 when the document as a whole has the wrong shape.
type ValidationError struct {
	Index  int
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "invalid activity export"
	}
	if e.Index < 0 {
		return "invalid activity export: " + e.Reason
	}
	if e.Field == "" {
		return fmt.Sprintf("invalid activity export: record %d: %s", e.Index, e.Reason)
	}
	return fmt.Sprintf("invalid activity export: record %d: field %q %s", e.Index, e.Field, e.Reason)
}

// ParseRecords decodes an export. It requires a JSON array of objects that
// each carry string "title" and "time" values, and returns a
// *ValidationError on the first violation.
func ParseRecords(raw []byte) ([]Record, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, &ValidationError{Index: -1, Reason: "expected a JSON array of activity records"}
	}
	if items == nil {
		return nil, &ValidationError{Index: -1, Reason: "expected a JSON array of activity records"}
	}

	out := make([]Record, 0, len(items))
	for i, item := range items {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(item, &fields); err != nil || fields == nil {
			return nil, &ValidationError{Index: i, Reason: "expected an object"}
		}
		title, err := requiredString(fields, "title")
		if err != nil {
			return nil, &ValidationError{Index: i, Field: "title", Reason: err.Error()}
		}
		ts, err := requiredString(fields, "time")
		if err != nil {
			return nil, &ValidationError{Index: i, Field: "time", Reason: err.Error()}
		}
		rec := Record{
			Title:       title,
			Time:        ts,
			Header:      optionalString(fields, "header"),
			TitleURL:    optionalString(fields, "titleUrl"),
			Description: optionalString(fields, "description"),
		}
		if v, ok := fields["products"]; ok {
			_ = json.Unmarshal(v, &rec.Products)
		}
		out = append(out, rec)
	}
	return out, nil
}

func requiredString(fields map[string]json.RawMessage, key string) (string, error) {
	v, ok := fields[key]
	if !ok {
		return "", fmt.Errorf("is required")
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return "", fmt.Errorf("must be a string")
	}
	return s, nil
}

// optionalString ignores values of the wrong type.
func optionalString(fields map[string]json.RawMessage, key string) string {
	v, ok := fields[key]
	if !ok {
		return ""
	}
	var s string
	_ = json.Unmarshal(v, &s)
	return s
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTime parses an export timestamp. Values without a zone are UTC.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
