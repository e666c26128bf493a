package profile

import (
	"errors"

	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/domain/insights"
)

var (
	ErrReviewIncomplete = errors.New("review has steps remaining")
	ErrReviewFinished   = errors.New("review is already finished")
)

// Review walks the categories in order. Every generated tag starts
// selected; tags can be deselected and reselected but never added. It models
// the client's confirmation wizard, and ApplySelections replays submitted
// selections through it before anything is stored.
type Review struct {
	tiles    *insights.PersonalityTiles
	step     int
	selected map[insights.Category]map[string]bool
}

func NewReview(tiles *insights.PersonalityTiles) (*Review, error) {
	if tiles == nil {
		return nil, &SelectionError{Reason: "no tiles to review"}
	}
	if missing := tiles.MissingCategories(); len(missing) > 0 {
		return nil, &SelectionError{Category: missing[0], Reason: "is missing"}
	}
	r := &Review{
		tiles:    tiles,
		selected: make(map[insights.Category]map[string]bool, len(insights.Categories)),
	}
	for _, c := range insights.Categories {
		sel := make(map[string]bool, len(tiles.Tags[c]))
		for _, tag := range tiles.Tags[c] {
			sel[tag] = true
		}
		r.selected[c] = sel
	}
	return r, nil
}

// Done reports whether every step has been passed.
func (r *Review) Done() bool { return r.step >= len(insights.Categories) }

// Step is the zero-based index of the current category.
func (r *Review) Step() int { return r.step }

func (r *Review) Current() (insights.Category, error) {
	if r.Done() {
		return "", ErrReviewFinished
	}
	return insights.Categories[r.step], nil
}

// Tags lists the current category's generated tags in order.
func (r *Review) Tags() []string {
	c, err := r.Current()
	if err != nil {
		return nil
	}
	return append([]string{}, r.tiles.Tags[c]...)
}

func (r *Review) IsSelected(tag string) bool {
	c, err := r.Current()
	if err != nil {
		return false
	}
	return r.selected[c][tag]
}

func (r *Review) Deselect(tag string) error { return r.set(tag, false) }
func (r *Review) Reselect(tag string) error { return r.set(tag, true) }

func (r *Review) set(tag string, on bool) error {
	c, err := r.Current()
	if err != nil {
		return err
	}
	if _, ok := r.selected[c][tag]; !ok {
		return &SelectionError{Category: c, Tag: tag, Reason: "was not generated for this category"}
	}
	r.selected[c][tag] = on
	return nil
}

// Next moves to the following category.
func (r *Review) Next() error {
	if r.Done() {
		return ErrReviewFinished
	}
	r.step++
	return nil
}

// Back returns to the previous category, keeping its selection state.
func (r *Review) Back() {
	if r.step > 0 {
		r.step--
	}
}

// Selections is available once every step has been passed.
func (r *Review) Selections() (Selections, error) {
	if !r.Done() {
		return nil, ErrReviewIncomplete
	}
	out := make(Selections, len(insights.Categories))
	for _, c := range insights.Categories {
		kept := make([]string, 0, len(r.tiles.Tags[c]))
		for _, tag := range r.tiles.Tags[c] {
			if r.selected[c][tag] {
				kept = append(kept, tag)
			}
		}
		out[c] = kept
	}
	return out, nil
}
