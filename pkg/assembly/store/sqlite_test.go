package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/RidgetopAi/squire-sub002/pkg/assembly"
	"github.com/RidgetopAi/squire-sub002/pkg/core/errors"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteProfileRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	profile := assembly.NewProfile("deep",
		assembly.WithWeights(assembly.Weights{Salience: 0.5, Relevance: 0.2, Recency: 0.2, Strength: 0.1}),
		assembly.WithCaps(assembly.Caps{HighSalience: 0.6, Relevant: 0.2, Recent: 0.2}),
		assembly.WithMinSalience(3),
		assembly.WithMinStrength(0.2),
		assembly.WithLookbackDays(90),
		assembly.WithMaxTokens(4000),
		assembly.WithFormat(assembly.FormatStructured),
		assembly.AsDefault(),
	)

	if err := store.SaveProfile(ctx, profile); err != nil {
		t.Fatalf("failed to save profile: %v", err)
	}

	got, err := store.Get(ctx, "deep")
	if err != nil {
		t.Fatalf("failed to get profile: %v", err)
	}
	if got == nil {
		t.Fatal("expected profile, got nil")
	}
	if got.Weights != profile.Weights {
		t.Errorf("weights mismatch: %+v vs %+v", got.Weights, profile.Weights)
	}
	if got.Caps != profile.Caps {
		t.Errorf("caps mismatch: %+v vs %+v", got.Caps, profile.Caps)
	}
	if got.LookbackDays != 90 || got.MaxTokens != 4000 {
		t.Errorf("window/budget mismatch: %d / %d", got.LookbackDays, got.MaxTokens)
	}
	if got.Format != assembly.FormatStructured || !got.Default {
		t.Errorf("format/default mismatch: %s / %v", got.Format, got.Default)
	}
}

func TestSQLiteGetMissingProfile(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	got, err := store.Get(ctx, "missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing profile, got %+v", got)
	}
}

func TestSQLiteDefaultProfile(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if _, err := store.GetDefault(ctx); err != errors.ErrNoDefaultProfile {
		t.Errorf("expected ErrNoDefaultProfile, got %v", err)
	}

	if err := store.SaveProfile(ctx, assembly.NewProfile("a", assembly.AsDefault())); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.SaveProfile(ctx, assembly.NewProfile("b", assembly.AsDefault())); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	def, err := store.GetDefault(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if def.Name != "b" {
		t.Errorf("expected b as the only default, got %s", def.Name)
	}
}

func TestSQLiteDeleteProfile(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if err := store.DeleteProfile(ctx, "ghost"); err != errors.ErrProfileNotFound {
		t.Errorf("expected ErrProfileNotFound, got %v", err)
	}

	if err := store.SaveProfile(ctx, assembly.NewProfile("temp")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.DeleteProfile(ctx, "temp"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestSQLiteDisclosureRoundTrip(t *testing.T) {
	ctx := context.Background()
	log := newTestStore(t).DisclosureLog()

	record := &assembly.DisclosureRecord{
		ID:             uuid.NewString(),
		Profile:        "daily",
		Query:          "project status",
		ItemIDs:        []string{"m1", "m2"},
		ItemCount:      2,
		Weights:        assembly.Weights{Salience: 0.4, Relevance: 0.3, Recency: 0.2, Strength: 0.1},
		TokenCount:     80,
		Format:         assembly.FormatNarrative,
		ConversationID: "c1",
		CreatedAt:      time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	id, err := log.Append(ctx, record)
	if err != nil {
		t.Fatalf("failed to append: %v", err)
	}
	if id != record.ID {
		t.Errorf("expected returned id %s, got %s", record.ID, id)
	}

	records, err := log.List(ctx, 10, "")
	if err != nil {
		t.Fatalf("failed to list: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	got := records[0]
	if got.Profile != "daily" || got.Query != "project status" {
		t.Errorf("header mismatch: %s / %s", got.Profile, got.Query)
	}
	if len(got.ItemIDs) != 2 || got.ItemCount != 2 {
		t.Errorf("items mismatch: %v / %d", got.ItemIDs, got.ItemCount)
	}
	if got.Weights != record.Weights {
		t.Errorf("weights mismatch: %+v", got.Weights)
	}
	if got.TokenCount != 80 || got.ConversationID != "c1" {
		t.Errorf("totals mismatch: %d / %s", got.TokenCount, got.ConversationID)
	}
}

func TestSQLiteDisclosureFilterAndLimit(t *testing.T) {
	ctx := context.Background()
	log := newTestStore(t).DisclosureLog()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, conv := range []string{"c1", "c2", "c1", ""} {
		record := &assembly.DisclosureRecord{
			ID:             uuid.NewString(),
			Profile:        "daily",
			ItemIDs:        []string{},
			Weights:        assembly.Weights{},
			Format:         assembly.FormatNarrative,
			ConversationID: conv,
			CreatedAt:      base.Add(time.Duration(i) * time.Minute),
		}
		if _, err := log.Append(ctx, record); err != nil {
			t.Fatalf("failed to append: %v", err)
		}
	}

	filtered, err := log.List(ctx, 10, "c1")
	if err != nil {
		t.Fatalf("failed to list: %v", err)
	}
	if len(filtered) != 2 {
		t.Errorf("expected 2 records for c1, got %d", len(filtered))
	}

	limited, err := log.List(ctx, 2, "")
	if err != nil {
		t.Fatalf("failed to list: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("expected 2 records under limit, got %d", len(limited))
	}
	if !limited[0].CreatedAt.After(limited[1].CreatedAt) {
		t.Error("expected newest record first")
	}
}
