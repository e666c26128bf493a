package user

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	types "github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/domain"
	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/data/repos/testutil"
	"github.com/IreneSunny96/AI-Agents-Hackathon-City-Scoutss-sub000/internal/platform/dbctx"
)

func TestUserProfileRepoLifecycle(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewUserProfileRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	if got, err := repo.GetByUserID(dbc, "user-1"); err != nil || got != nil {
		t.Fatalf("GetByUserID(missing): got=%v err=%v", got, err)
	}

	created, err := repo.GetOrCreate(dbc, &types.UserProfile{UserID: "user-1", Email: "a@example.com"})
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if created.UserID != "user-1" || created.HasTiles() {
		t.Fatalf("GetOrCreate: unexpected profile %+v", created)
	}

	again, err := repo.GetOrCreate(dbc, &types.UserProfile{UserID: "user-1", Email: "other@example.com"})
	if err != nil {
		t.Fatalf("GetOrCreate(existing): %v", err)
	}
	if again.Email != "a@example.com" {
		t.Fatalf("GetOrCreate(existing) overwrote email: got=%q", again.Email)
	}

	tiles := []byte(`{"Other":["Bookshops"]}`)
	if err := repo.SetConfirmedTiles(dbc, "user-1", tiles); err != nil {
		t.Fatalf("SetConfirmedTiles: %v", err)
	}
	if err := repo.SetGeneratedTiles(dbc, "user-1", tiles); err != nil {
		t.Fatalf("SetGeneratedTiles: %v", err)
	}
	got, err := repo.GetByUserID(dbc, "user-1")
	if err != nil {
		t.Fatalf("GetByUserID: %v", err)
	}
	if !got.HasTiles() {
		t.Fatalf("expected tiles after SetGeneratedTiles")
	}
	if got.PreferenceChosen || got.HasPersonalityInsights {
		t.Fatalf("generated tiles must reset flags: chosen=%v insights=%v", got.PreferenceChosen, got.HasPersonalityInsights)
	}

	if err := repo.SetConfirmedTiles(dbc, "user-1", tiles); err != nil {
		t.Fatalf("SetConfirmedTiles: %v", err)
	}
	if err := repo.SetOnboardingCompleted(dbc, "user-1", true); err != nil {
		t.Fatalf("SetOnboardingCompleted: %v", err)
	}
	got, _ = repo.GetByUserID(dbc, "user-1")
	if !got.PreferenceChosen || !got.HasPersonalityInsights || !got.OnboardingCompleted {
		t.Fatalf("flags after confirm: %+v", got)
	}

	if err := repo.ResetInsights(dbc, "user-1"); err != nil {
		t.Fatalf("ResetInsights: %v", err)
	}
	got, _ = repo.GetByUserID(dbc, "user-1")
	if got.HasTiles() || got.PreferenceChosen || got.HasPersonalityInsights || got.OnboardingCompleted {
		t.Fatalf("flags after reset: %+v", got)
	}
}

func TestUserProfileRepoUpdateMissing(t *testing.T) {
	db := testutil.DB(t)
	repo := NewUserProfileRepo(db, testutil.Logger(t))
	err := repo.SetConfirmedTiles(dbctx.Context{Ctx: context.Background()}, "nobody", []byte(`{}`))
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("SetConfirmedTiles(missing): want ErrRecordNotFound got=%v", err)
	}
}
