package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/RidgetopAi/squire-sub002/pkg/assembly"
	"github.com/RidgetopAi/squire-sub002/pkg/core/errors"
)

func TestMemoryStoreProfiles(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if _, err := store.GetDefault(ctx); err != errors.ErrNoDefaultProfile {
		t.Errorf("expected ErrNoDefaultProfile, got %v", err)
	}

	daily := assembly.NewProfile("daily", assembly.AsDefault())
	deep := assembly.NewProfile("deep", assembly.WithMaxTokens(4000))

	if err := store.SaveProfile(ctx, daily); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.SaveProfile(ctx, deep); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := store.Get(ctx, "deep")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || got.MaxTokens != 4000 {
		t.Errorf("expected deep profile with max tokens 4000, got %+v", got)
	}

	missing, err := store.Get(ctx, "nope")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for missing profile, got %+v", missing)
	}

	def, err := store.GetDefault(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if def.Name != "daily" {
		t.Errorf("expected daily as default, got %s", def.Name)
	}

	all, err := store.List(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 profiles, got %d", len(all))
	}
}

func TestMemoryStoreDefaultFlagExclusive(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

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

func TestMemoryStoreDeleteProfile(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

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

func TestMemoryDisclosureLog(t *testing.T) {
	ctx := context.Background()
	log := NewMemoryStore().DisclosureLog()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, conv := range []string{"c1", "", "c1"} {
		record := &assembly.DisclosureRecord{
			ID:             uuid.NewString(),
			Profile:        "daily",
			ItemIDs:        []string{"m1"},
			ItemCount:      1,
			TokenCount:     40,
			Format:         assembly.FormatNarrative,
			ConversationID: conv,
			CreatedAt:      now.Add(time.Duration(i) * time.Minute),
		}
		if _, err := log.Append(ctx, record); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	all, err := log.List(ctx, 10, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 records, got %d", len(all))
	}
	// 最新在前
	if !all[0].CreatedAt.After(all[2].CreatedAt) {
		t.Error("expected newest record first")
	}

	filtered, err := log.List(ctx, 10, "c1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(filtered) != 2 {
		t.Errorf("expected 2 records for c1, got %d", len(filtered))
	}

	limited, err := log.List(ctx, 1, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("expected 1 record under limit, got %d", len(limited))
	}
}
