package profile

import (
	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/domain/insights"
)

// Selections are the tags kept per category at the end of a review.
type Selections map[insights.Category][]string

// ApplySelections commits a review by subtraction. The submitted selections
// are replayed through a Review, so the server enforces the same rules as the
// step-by-step client flow: every category is answered and tags are only ever
// removed. The result keeps the original tag order and every reason
// unchanged; tiles is not modified.
func ApplySelections(tiles *insights.PersonalityTiles, selections Selections) (*insights.PersonalityTiles, error) {
	if tiles == nil {
		return nil, &SelectionError{Reason: "no tiles to confirm"}
	}
	for c := range selections {
		if !c.Valid() {
			return nil, &SelectionError{Category: c, Reason: "is not a known category"}
		}
	}

	r, err := NewReview(tiles)
	if err != nil {
		return nil, err
	}
	for !r.Done() {
		c, err := r.Current()
		if err != nil {
			return nil, err
		}
		picked, ok := selections[c]
		if !ok {
			return nil, &SelectionError{Category: c, Reason: "is missing"}
		}
		keep := make(map[string]bool, len(picked))
		for _, tag := range picked {
			if err := r.Reselect(tag); err != nil {
				return nil, err
			}
			keep[tag] = true
		}
		for _, tag := range r.Tags() {
			if !keep[tag] {
				if err := r.Deselect(tag); err != nil {
					return nil, err
				}
			}
		}
		if err := r.Next(); err != nil {
			return nil, err
		}
	}

	final, err := r.Selections()
	if err != nil {
		return nil, err
	}
	out := tiles.Clone()
	for _, c := range insights.Categories {
		out.Tags[c] = final[c]
	}
	return out, nil
}
