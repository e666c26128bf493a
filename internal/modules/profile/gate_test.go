package profile

import (
	"errors"
	"testing"

	"gorm.io/datatypes"

	types "github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/domain"
	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/domain/insights"
)

func TestGateRequire(t *testing.T) {
	tiles := datatypes.JSON(validTilesJSON)
	cases := []struct {
		name      string
		profile   *types.UserProfile
		wantState GateState
		wantTo    string
	}{
		{name: "nil profile", profile: nil, wantState: StateNoTiles, wantTo: RouteUpload},
		{name: "no tiles", profile: &types.UserProfile{}, wantState: StateNoTiles, wantTo: RouteUpload},
		{name: "null tiles with stale flag", profile: &types.UserProfile{PersonalityTiles: datatypes.JSON("null"), PreferenceChosen: true}, wantState: StateNoTiles, wantTo: RouteUpload},
		{name: "pending", profile: &types.UserProfile{PersonalityTiles: tiles}, wantState: StateTilesPendingReview, wantTo: RoutePreferences},
		{name: "confirmed", profile: &types.UserProfile{PersonalityTiles: tiles, PreferenceChosen: true, HasPersonalityInsights: true}, wantState: StateConfirmed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := StateOf(tc.profile); got != tc.wantState {
				t.Fatalf("state: want=%s got=%s", tc.wantState, got)
			}
			err := Gate{}.Require(tc.profile)
			if tc.wantTo == "" {
				if err != nil {
					t.Fatalf("Require: want nil got=%v", err)
				}
				return
			}
			var re *RedirectError
			if !errors.As(err, &re) {
				t.Fatalf("want RedirectError got=%v", err)
			}
			if re.To != tc.wantTo || re.State != tc.wantState {
				t.Fatalf("redirect: want=(%s,%s) got=(%s,%s)", tc.wantState, tc.wantTo, re.State, re.To)
			}
		})
	}
}

func mustTiles(t *testing.T) *insights.PersonalityTiles {
	t.Helper()
	tiles, err := ParseTiles(validTilesJSON)
	if err != nil {
		t.Fatalf("ParseTiles: %v", err)
	}
	return tiles
}

func TestReviewDeselectAndConfirm(t *testing.T) {
	tiles := mustTiles(t)
	r, err := NewReview(tiles)
	if err != nil {
		t.Fatalf("NewReview: %v", err)
	}
	if _, err := r.Selections(); !errors.Is(err, ErrReviewIncomplete) {
		t.Fatalf("Selections before finishing: want ErrReviewIncomplete got=%v", err)
	}

	for !r.Done() {
		c, _ := r.Current()
		for _, tag := range r.Tags() {
			if !r.IsSelected(tag) {
				t.Fatalf("%s/%s should start selected", c, tag)
			}
		}
		if c == insights.CategoryFoodAndDrink {
			if err := r.Deselect("Natural wine"); err != nil {
				t.Fatalf("Deselect: %v", err)
			}
			if err := r.Deselect("Espresso"); err == nil {
				t.Fatalf("Deselect of unknown tag should fail")
			}
		}
		if err := r.Next(); err != nil {
			t.Fatalf("Next: %v", err)
		}
	}
	if err := r.Next(); !errors.Is(err, ErrReviewFinished) {
		t.Fatalf("Next past end: want ErrReviewFinished got=%v", err)
	}

	sel, err := r.Selections()
	if err != nil {
		t.Fatalf("Selections: %v", err)
	}
	out, err := ApplySelections(tiles, sel)
	if err != nil {
		t.Fatalf("ApplySelections: %v", err)
	}
	if got := out.Tags[insights.CategoryFoodAndDrink]; len(got) != 1 || got[0] != "Bakeries" {
		t.Fatalf("food tags: want=[Bakeries] got=%v", got)
	}
	for _, c := range insights.Categories {
		if c == insights.CategoryFoodAndDrink {
			continue
		}
		if len(out.Tags[c]) != len(tiles.Tags[c]) {
			t.Fatalf("%s changed: want=%v got=%v", c, tiles.Tags[c], out.Tags[c])
		}
	}
	if out.Reasons[insights.CategoryFoodAndDrink] != tiles.Reasons[insights.CategoryFoodAndDrink] {
		t.Fatalf("reason changed")
	}
	if len(tiles.Tags[insights.CategoryFoodAndDrink]) != 2 {
		t.Fatalf("ApplySelections mutated its input")
	}
}

func TestReviewReselectAndBack(t *testing.T) {
	r, err := NewReview(mustTiles(t))
	if err != nil {
		t.Fatalf("NewReview: %v", err)
	}
	if err := r.Deselect("Slow mornings"); err != nil {
		t.Fatalf("Deselect: %v", err)
	}
	_ = r.Next()
	r.Back()
	if r.IsSelected("Slow mornings") {
		t.Fatalf("deselection lost after Back")
	}
	if err := r.Reselect("Slow mornings"); err != nil {
		t.Fatalf("Reselect: %v", err)
	}
	if !r.IsSelected("Slow mornings") {
		t.Fatalf("Reselect had no effect")
	}
}

func TestApplySelectionsRejects(t *testing.T) {
	tiles := mustTiles(t)
	full := func() Selections {
		s := Selections{}
		for _, c := range insights.Categories {
			s[c] = append([]string{}, tiles.Tags[c]...)
		}
		return s
	}

	missing := full()
	delete(missing, insights.CategoryOther)

	added := full()
	added[insights.CategoryOther] = append(added[insights.CategoryOther], "Karaoke")

	unknown := full()
	unknown["Nightlife"] = []string{}

	for name, sel := range map[string]Selections{"missing category": missing, "added tag": added, "unknown category": unknown} {
		t.Run(name, func(t *testing.T) {
			var se *SelectionError
			if _, err := ApplySelections(tiles, sel); !errors.As(err, &se) {
				t.Fatalf("want SelectionError got=%v", err)
			}
		})
	}
}

func TestApplySelectionsKeepsOriginalOrder(t *testing.T) {
	tiles := mustTiles(t)
	sel := Selections{}
	for _, c := range insights.Categories {
		sel[c] = tiles.Tags[c]
	}
	sel[insights.CategoryLifestyleVibes] = []string{"Design lover", "Slow mornings"}
	out, err := ApplySelections(tiles, sel)
	if err != nil {
		t.Fatalf("ApplySelections: %v", err)
	}
	if got := out.Tags[insights.CategoryLifestyleVibes]; got[0] != "Slow mornings" || got[1] != "Design lover" {
		t.Fatalf("order: got=%v", got)
	}
}

func TestApplySelectionsMatchesReview(t *testing.T) {
	tiles := mustTiles(t)
	food := tiles.Tags[insights.CategoryFoodAndDrink]
	if len(food) < 2 {
		t.Fatalf("fixture needs two food tags, got=%v", food)
	}

	r, err := NewReview(tiles)
	if err != nil {
		t.Fatalf("NewReview: %v", err)
	}
	for !r.Done() {
		c, _ := r.Current()
		if c == insights.CategoryFoodAndDrink {
			if err := r.Deselect(food[0]); err != nil {
				t.Fatalf("Deselect: %v", err)
			}
		}
		if err := r.Next(); err != nil {
			t.Fatalf("Next: %v", err)
		}
	}
	want, err := r.Selections()
	if err != nil {
		t.Fatalf("Selections: %v", err)
	}

	out, err := ApplySelections(tiles, want)
	if err != nil {
		t.Fatalf("ApplySelections: %v", err)
	}
	for _, c := range insights.Categories {
		got := out.Tags[c]
		if len(got) != len(want[c]) {
			t.Fatalf("%s: want=%v got=%v", c, want[c], got)
		}
		for i := range got {
			if got[i] != want[c][i] {
				t.Fatalf("%s: want=%v got=%v", c, want[c], got)
			}
		}
	}
}

func TestApplySelectionsRejectsIncompleteTiles(t *testing.T) {
	tiles := mustTiles(t)
	delete(tiles.Tags, insights.CategoryTravel)
	sel := Selections{}
	for _, c := range insights.Categories {
		sel[c] = []string{}
	}
	var se *SelectionError
	if _, err := ApplySelections(tiles, sel); !errors.As(err, &se) || se.Category != insights.CategoryTravel {
		t.Fatalf("want SelectionError for %q got=%v", insights.CategoryTravel, err)
	}
}
