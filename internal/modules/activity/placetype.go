package activity

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// PlaceType is the outcome of a lookup: a type list, no match, or the error
// text of a failed lookup. On the wire it is an array, null, or a string.
type PlaceType struct {
	Types []string
	Err   string
}

// NoMatch is the zero PlaceType.
var NoMatch = PlaceType{}

func PlaceTypes(types ...string) PlaceType {
	if types == nil {
		types = []string{}
	}
	return PlaceType{Types: types}
}

func PlaceTypeError(err error) PlaceType {
	msg := "lookup failed"
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return PlaceType{Err: msg}
}

func (p PlaceType) IsMatch() bool { return p.Types != nil }
func (p PlaceType) IsError() bool { return p.Err != "" }

// String renders the value for prompts.
func (p PlaceType) String() string {
	switch {
	case p.IsError():
		return "unknown (" + p.Err + ")"
	case p.IsMatch():
		b, _ := json.Marshal(p.Types)
		return string(b)
	default:
		return "null"
	}
}

func (p PlaceType) MarshalJSON() ([]byte, error) {
	switch {
	case p.IsError():
		return json.Marshal(p.Err)
	case p.IsMatch():
		return json.Marshal(p.Types)
	default:
		return []byte("null"), nil
	}
}

func (p *PlaceType) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*p = NoMatch
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = PlaceType{Err: s}
		return nil
	case len(data) > 0 && data[0] == '[':
		var types []string
		if err := json.Unmarshal(data, &types); err != nil {
			return err
		}
		*p = PlaceTypes(types...)
		return nil
	default:
		return fmt.Errorf("place_type: expected array, string, or null")
	}
}
