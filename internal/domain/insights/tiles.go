package insights

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Category is one of the six fixed personality tile groups.
type Category string

const (
	CategoryLifestyleVibes Category = "Lifestyle Vibes"
	CategoryFoodAndDrink   Category = "Food & Drink Favorites"
	CategoryGoToActivities Category = "Go-to Activities"
	CategoryNeighborhoods  Category = "Favorite Neighborhoods or Place Types"
	CategoryTravel         Category = "Travel & Exploration"
	CategoryOther          Category = "Other"
)

// Categories lists every category in review order.
var Categories = []Category{
	CategoryLifestyleVibes,
	CategoryFoodAndDrink,
	CategoryGoToActivities,
	CategoryNeighborhoods,
	CategoryTravel,
	CategoryOther,
}

// ReasonKey is the JSON key holding the rationale sentence for c.
func (c Category) ReasonKey() string { return string(c) + " Reason" }

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// PersonalityTiles holds tags and a rationale per category. On the wire it is
// the flat object {"<Category>": [...], "<Category> Reason": "..."}.
type PersonalityTiles struct {
	Tags    map[Category][]string
	Reasons map[Category]string
}

func NewPersonalityTiles() *PersonalityTiles {
	return &PersonalityTiles{
		Tags:    make(map[Category][]string, len(Categories)),
		Reasons: make(map[Category]string, len(Categories)),
	}
}

// MissingCategories reports categories with no tag list at all.
func (t *PersonalityTiles) MissingCategories() []Category {
	var missing []Category
	for _, c := range Categories {
		if t == nil {
			missing = append(missing, c)
			continue
		}
		if _, ok := t.Tags[c]; !ok {
			missing = append(missing, c)
		}
	}
	return missing
}

func (t *PersonalityTiles) Clone() *PersonalityTiles {
	if t == nil {
		return nil
	}
	out := NewPersonalityTiles()
	for c, tags := range t.Tags {
		out.Tags[c] = append([]string{}, tags...)
	}
	for c, r := range t.Reasons {
		out.Reasons[c] = r
	}
	return out
}

// Encode returns the flat wire form with category names unescaped. Use it
// for stored artifacts; json.Marshal re-escapes "&" as \u0026.
func (t PersonalityTiles) Encode() ([]byte, error) {
	return t.MarshalJSON()
}

func (t PersonalityTiles) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range Categories {
		if i > 0 {
			buf.WriteByte(',')
		}
		tags := t.Tags[c]
		if tags == nil {
			tags = []string{}
		}
		if err := writeField(&buf, string(c), tags); err != nil {
			return nil, err
		}
		buf.WriteByte(',')
		if err := writeField(&buf, c.ReasonKey(), t.Reasons[c]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// writeField writes "key":val without HTML escaping so category names such
// as "Food & Drink Favorites" stay literal on the wire.
func writeField(buf *bytes.Buffer, key string, val any) error {
	if err := writeValue(buf, key); err != nil {
		return err
	}
	buf.WriteByte(':')
	return writeValue(buf, val)
}

func writeValue(buf *bytes.Buffer, val any) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(val); err != nil {
		return err
	}
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
	return nil
}

// UnmarshalJSON accepts the flat object form. Unknown keys are ignored; a
// category present with a non string-array value is an error.
func (t *PersonalityTiles) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return fmt.Errorf("personality tiles: expected JSON object")
	}
	out := NewPersonalityTiles()
	for _, c := range Categories {
		if v, ok := raw[string(c)]; ok {
			var tags []string
			if err := json.Unmarshal(v, &tags); err != nil {
				return fmt.Errorf("personality tiles: %q must be an array of strings: %w", c, err)
			}
			if tags == nil {
				tags = []string{}
			}
			out.Tags[c] = tags
		}
		if v, ok := raw[c.ReasonKey()]; ok {
			var reason string
			if err := json.Unmarshal(v, &reason); err != nil {
				return fmt.Errorf("personality tiles: %q must be a string: %w", c.ReasonKey(), err)
			}
			out.Reasons[c] = reason
		}
	}
	*t = *out
	return nil
}
