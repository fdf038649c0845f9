package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"little-genius/internal/domain"
)

type emptyCatalogs struct{}

func (emptyCatalogs) Entries(domain.CatalogKind) []domain.CatalogEntry { return nil }

func TestProfileStoreRemembersName(t *testing.T) {
	ctx := context.Background()
	store := NewProfileStore()

	if name, _ := store.PlayerName(ctx, "p1"); name != "" {
		t.Fatalf("expected empty name, got %q", name)
	}
	if err := store.SetPlayerName(ctx, "p1", "Asha"); err != nil {
		t.Fatalf("set name: %v", err)
	}
	if name, _ := store.PlayerName(ctx, "p1"); name != "Asha" {
		t.Fatalf("expected Asha, got %q", name)
	}
}

func TestResultStoreExpires(t *testing.T) {
	ctx := context.Background()
	store := NewResultStore(time.Minute)
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	store.clock = func() time.Time { return now }

	result := domain.ResultSummary{PlayerName: "Asha", Score: 70, TotalQuestions: 10, ModeLabel: "Shape Finding"}
	if err := store.SaveResult(ctx, "s1", result); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := store.Result(ctx, "s1")
	if err != nil || got.Score != 70 {
		t.Fatalf("expected stored result, got %+v err=%v", got, err)
	}

	now = now.Add(2 * time.Minute)
	if _, err := store.Result(ctx, "s1"); !errors.Is(err, domain.ErrNoResult) {
		t.Fatalf("expected expiry, got %v", err)
	}
}

func TestStaticCatalogLoaderUnknownKind(t *testing.T) {
	loader := NewStaticCatalogLoader(map[domain.CatalogKind][]domain.CatalogEntry{
		domain.CatalogShapes: {{ID: "Circle", Name: "Circle"}},
	})
	entries, err := loader.LoadCatalog(context.Background(), domain.CatalogShapes)
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected shapes, got %v %v", entries, err)
	}
	if _, err := loader.LoadCatalog(context.Background(), domain.CatalogColors); err == nil {
		t.Fatalf("expected error for missing catalog")
	}
}
