package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/data/repos"
	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/data/repos/testutil"
	types "github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/domain"
	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/modules/activity"
	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/modules/profile"
	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/platform/dbctx"
	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/platform/gcp"
	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/platform/locks"
)

const testTilesJSON = `{
  "Lifestyle Vibes": ["Slow mornings", "Design lover"],
  "Lifestyle Vibes Reason": "You linger.",
  "Food & Drink Favorites": ["Bakeries", "Natural wine"],
  "Food & Drink Favorites Reason": "You search for bread a lot.",
  "Go-to Activities": ["Museums"],
  "Go-to Activities Reason": "You visit galleries.",
  "Favorite Neighborhoods or Place Types": ["Le Marais"],
  "Favorite Neighborhoods or Place Types Reason": "You keep coming back.",
  "Travel & Exploration": ["Day trips"],
  "Travel & Exploration Reason": "You roam.",
  "Other": ["Bookshops"],
  "Other Reason": "You read."
}`

type fakeBucket struct {
	mu        sync.Mutex
	objects   map[string][]byte
	uploadErr error
	uploads   int
}

func newFakeBucket() *fakeBucket {
	return &fakeBucket{objects: map[string][]byte{}}
}

func (b *fakeBucket) Upload(ctx context.Context, key string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.uploads++
	if b.uploadErr != nil {
		return b.uploadErr
	}
	b.objects[key] = append([]byte{}, data...)
	return nil
}

func (b *fakeBucket) Download(ctx context.Context, key string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.objects[key]
	if !ok {
		return nil, gcp.ErrObjectNotFound
	}
	return data, nil
}

func (b *fakeBucket) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var keys []string
	for k := range b.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

func (b *fakeBucket) DeletePrefix(ctx context.Context, prefix string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for k := range b.objects {
		if strings.HasPrefix(k, prefix) {
			delete(b.objects, k)
		}
	}
	return nil
}

func (b *fakeBucket) has(key string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.objects[key]
	return ok
}

type fakeGenerator struct {
	report   string
	tiles    string
	tilesErr error
	chat     string
	chatErr  error

	textCalls  int
	chatSystem string
}

func (f *fakeGenerator) GenerateText(ctx context.Context, system, user string) (string, error) {
	f.textCalls++
	if strings.Contains(system, "Confirmed preferences") {
		f.chatSystem = system
		return f.chat, f.chatErr
	}
	return f.report, nil
}

func (f *fakeGenerator) GenerateJSONObject(ctx context.Context, system, user string) (string, error) {
	return f.tiles, f.tilesErr
}

type staticLookup struct{}

func (staticLookup) FindPlaceTypes(ctx context.Context, query string) ([]string, bool, error) {
	return []string{"tourist_attraction"}, true, nil
}

type busyLocker struct{}

func (busyLocker) TryLock(ctx context.Context, userID string) (func(), error) {
	return nil, locks.ErrUserBusy
}

type harness struct {
	db       *gorm.DB
	bucket   *fakeBucket
	gen      *fakeGenerator
	profiles repos.UserProfileRepo
	data     repos.UserDataRepo
	svc      InsightsService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	log := testutil.Logger(t)
	db := testutil.DB(t)
	h := &harness{
		db:       db,
		bucket:   newFakeBucket(),
		gen:      &fakeGenerator{report: "You love landmarks.", tiles: testTilesJSON, chat: "Try the Musée Rodin."},
		profiles: repos.NewUserProfileRepo(db, log),
		data:     repos.NewUserDataRepo(db, log),
	}
	resolver := activity.NewResolver(log, staticLookup{}, activity.NewOtterPlaceTypeCache(), time.Second)
	h.svc = NewInsightsService(
		db, log, h.profiles, h.data, h.bucket, locks.NewMemoryLocker(),
		activity.NewAggregator(log, resolver, 2),
		profile.NewSynthesizer(log, h.gen, time.Second),
	)
	return h
}

func recentExport(t *testing.T) []byte {
	t.Helper()
	when := time.Now().AddDate(0, -1, 0).Format(time.RFC3339)
	raw, err := json.Marshal([]map[string]string{
		{"header": "Maps", "title": "Searched for Eiffel Tower", "time": when},
		{"header": "Maps", "title": "Searched for Eiffel Tower", "time": when},
		{"header": "Maps", "title": "Directions to Louvre", "time": when},
	})
	if err != nil {
		t.Fatalf("marshal export: %v", err)
	}
	return raw
}

func (h *harness) profile(t *testing.T, userID string) *types.UserProfile {
	t.Helper()
	p, err := h.profiles.GetByUserID(dbctx.Context{Ctx: context.Background()}, userID)
	if err != nil || p == nil {
		t.Fatalf("GetByUserID: p=%v err=%v", p, err)
	}
	return p
}

func TestInsightsLifecycle(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	const uid = "user-1"

	view, err := h.svc.GetProfile(ctx, uid, ProfileSeed{Email: "a@example.com"})
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if view.State != profile.StateNoTiles || view.Redirect != profile.RouteUpload {
		t.Fatalf("initial state: got=%s redirect=%s", view.State, view.Redirect)
	}
	if view.Profile.Email != "a@example.com" {
		t.Fatalf("seed email not stored: %+v", view.Profile)
	}

	res, err := h.svc.Aggregate(ctx, uid, recentExport(t))
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if res.RawCounts.Searches != 2 || res.RawCounts.Directions != 1 {
		t.Fatalf("rawCounts: got=%+v", res.RawCounts)
	}
	if !h.bucket.has(gcp.UserKey(uid, AggregateObject)) {
		t.Fatalf("aggregate blob missing")
	}

	out, err := h.svc.Synthesize(ctx, uid)
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if out.Report != "You love landmarks." {
		t.Fatalf("report: got=%q", out.Report)
	}
	for _, key := range []string{ReportObject, TilesObject} {
		if !h.bucket.has(gcp.UserKey(uid, key)) {
			t.Fatalf("blob %s missing", key)
		}
	}
	blob, err := h.bucket.Download(ctx, gcp.UserKey(uid, TilesObject))
	if err != nil || !strings.Contains(string(blob), `"Food & Drink Favorites":["Bakeries","Natural wine"]`) {
		t.Fatalf("tiles blob: err=%v body=%s", err, blob)
	}
	p := h.profile(t, uid)
	if !strings.Contains(string(p.PersonalityTiles), `"Food & Drink Favorites"`) {
		t.Fatalf("stored tiles escaped: %s", p.PersonalityTiles)
	}
	if profile.StateOf(p) != profile.StateTilesPendingReview || p.HasPersonalityInsights {
		t.Fatalf("after synthesis: state=%s insights=%v", profile.StateOf(p), p.HasPersonalityInsights)
	}

	_, err = h.svc.GetInsights(ctx, uid)
	var redirect *profile.RedirectError
	if !errors.As(err, &redirect) || redirect.To != profile.RoutePreferences {
		t.Fatalf("GetInsights before confirm: want redirect to preferences, got %v", err)
	}

	tilesView, err := h.svc.GetTiles(ctx, uid)
	if err != nil {
		t.Fatalf("GetTiles: %v", err)
	}
	sel := profile.Selections{}
	for c, tags := range tilesView.Tiles.Tags {
		sel[c] = tags
	}
	sel[types.Categories[1]] = []string{"Bakeries"}

	confirmed, err := h.svc.ConfirmTiles(ctx, uid, sel)
	if err != nil {
		t.Fatalf("ConfirmTiles: %v", err)
	}
	if !confirmed.PreferenceChosen || !confirmed.HasPersonalityInsights {
		t.Fatalf("flags after confirm: %+v", confirmed)
	}

	insightsView, err := h.svc.GetInsights(ctx, uid)
	if err != nil {
		t.Fatalf("GetInsights: %v", err)
	}
	if insightsView.Report != "You love landmarks." {
		t.Fatalf("report: got=%q", insightsView.Report)
	}
	if got := insightsView.Tiles.Tags[types.Categories[1]]; len(got) != 1 || got[0] != "Bakeries" {
		t.Fatalf("confirmed food tags: got=%v", got)
	}
	row, err := h.data.Get(dbctx.Context{Ctx: ctx}, uid, types.DataTypePersonalityTiles)
	if err != nil || row == nil || strings.Contains(row.Content, "Natural wine") {
		t.Fatalf("tiles row not reduced: row=%v err=%v", row, err)
	}

	if err := h.svc.Reset(ctx, uid); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	p = h.profile(t, uid)
	if p.HasTiles() || p.PreferenceChosen || p.HasPersonalityInsights || p.OnboardingCompleted {
		t.Fatalf("profile not reset: %+v", p)
	}
	if keys, _ := h.bucket.ListKeys(ctx, uid+"/"); len(keys) != 0 {
		t.Fatalf("blobs left after reset: %v", keys)
	}
	if row, _ := h.data.Get(dbctx.Context{Ctx: ctx}, uid, types.DataTypePersonalityReport); row != nil {
		t.Fatalf("report row left after reset")
	}
}

func TestSynthesizeWithoutAggregateRedirects(t *testing.T) {
	h := newHarness(t)
	_, err := h.svc.Synthesize(context.Background(), "user-2")
	var redirect *profile.RedirectError
	if !errors.As(err, &redirect) || redirect.To != profile.RouteUpload {
		t.Fatalf("want redirect to upload, got %v", err)
	}
	if h.gen.textCalls != 0 {
		t.Fatalf("generator called without aggregate: %d", h.gen.textCalls)
	}
}

func TestSynthesizeInvalidTilesWritesNothing(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	const uid = "user-3"
	if _, err := h.svc.Aggregate(ctx, uid, recentExport(t)); err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	uploadsBefore := h.bucket.uploads
	h.gen.tiles = `{"Lifestyle Vibes": ["only one"]}`

	_, err := h.svc.Synthesize(ctx, uid)
	var stageErr *profile.StageError
	if !errors.As(err, &stageErr) || stageErr.Stage != profile.StageTiles {
		t.Fatalf("want tiles StageError, got %v", err)
	}
	if h.bucket.uploads != uploadsBefore {
		t.Fatalf("uploads after failed synthesis: want=%d got=%d", uploadsBefore, h.bucket.uploads)
	}
	if p := h.profile(t, uid); p.HasTiles() || p.PreferenceChosen || p.HasPersonalityInsights {
		t.Fatalf("profile changed after failed synthesis: %+v", p)
	}
	if row, _ := h.data.Get(dbctx.Context{Ctx: ctx}, uid, types.DataTypePersonalityReport); row != nil {
		t.Fatalf("report row written after failed synthesis")
	}
}

func TestSynthesizeBlobFailureLeavesRowsUntouched(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	const uid = "user-4"
	if _, err := h.svc.Aggregate(ctx, uid, recentExport(t)); err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	h.bucket.uploadErr = errors.New("bucket unavailable")

	_, err := h.svc.Synthesize(ctx, uid)
	var stageErr *profile.StageError
	if !errors.As(err, &stageErr) || stageErr.Stage != profile.StagePersist {
		t.Fatalf("want persist StageError, got %v", err)
	}
	if p := h.profile(t, uid); p.HasTiles() {
		t.Fatalf("tiles stored despite blob failure")
	}
}

func TestConfirmTilesRejectsInventedTag(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	const uid = "user-5"
	if _, err := h.svc.Aggregate(ctx, uid, recentExport(t)); err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if _, err := h.svc.Synthesize(ctx, uid); err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	sel := profile.Selections{}
	for _, c := range types.Categories {
		sel[c] = []string{}
	}
	sel[types.Categories[0]] = []string{"Techno"}

	_, err := h.svc.ConfirmTiles(ctx, uid, sel)
	var selErr *profile.SelectionError
	if !errors.As(err, &selErr) {
		t.Fatalf("want SelectionError, got %v", err)
	}
	if p := h.profile(t, uid); p.PreferenceChosen {
		t.Fatalf("profile confirmed after rejected selection")
	}
}

func TestConfirmTilesWithoutTilesRedirects(t *testing.T) {
	h := newHarness(t)
	_, err := h.svc.ConfirmTiles(context.Background(), "user-6", profile.Selections{})
	var redirect *profile.RedirectError
	if !errors.As(err, &redirect) || redirect.State != profile.StateNoTiles {
		t.Fatalf("want no_tiles redirect, got %v", err)
	}
}

func TestAggregateValidationErrorPropagates(t *testing.T) {
	h := newHarness(t)
	_, err := h.svc.Aggregate(context.Background(), "user-7", []byte(`{"not":"an array"}`))
	var verr *activity.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("want ValidationError, got %v", err)
	}
	if h.bucket.uploads != 0 {
		t.Fatalf("upload after invalid export: %d", h.bucket.uploads)
	}
}

func TestWritesRejectedWhenUserBusy(t *testing.T) {
	log := testutil.Logger(t)
	db := testutil.DB(t)
	svc := NewInsightsService(
		db, log, repos.NewUserProfileRepo(db, log), repos.NewUserDataRepo(db, log),
		newFakeBucket(), busyLocker{}, nil, nil,
	)
	ctx := context.Background()
	if _, err := svc.Aggregate(ctx, "u", nil); !errors.Is(err, locks.ErrUserBusy) {
		t.Fatalf("Aggregate: want ErrUserBusy got %v", err)
	}
	if _, err := svc.Synthesize(ctx, "u"); !errors.Is(err, locks.ErrUserBusy) {
		t.Fatalf("Synthesize: want ErrUserBusy got %v", err)
	}
	if _, err := svc.ConfirmTiles(ctx, "u", nil); !errors.Is(err, locks.ErrUserBusy) {
		t.Fatalf("ConfirmTiles: want ErrUserBusy got %v", err)
	}
	if err := svc.Reset(ctx, "u"); !errors.Is(err, locks.ErrUserBusy) {
		t.Fatalf("Reset: want ErrUserBusy got %v", err)
	}
}

func TestCompleteOnboarding(t *testing.T) {
	h := newHarness(t)
	p, err := h.svc.CompleteOnboarding(context.Background(), "user-8")
	if err != nil {
		t.Fatalf("CompleteOnboarding: %v", err)
	}
	if !p.OnboardingCompleted {
		t.Fatalf("onboarding flag not set")
	}
}
