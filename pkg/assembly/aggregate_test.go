package assembly

import (
	"context"
	"errors"
	"testing"
)

type fakeSummarySource struct {
	summaries []Summary
	err       error
}

func (s *fakeSummarySource) NonEmpty(ctx context.Context) ([]Summary, error) {
	return s.summaries, s.err
}

type fakeNoteSource struct {
	pinned    []NoteMatch
	searched  []NoteMatch
	pinnedErr error
	searchErr error
}

func (s *fakeNoteSource) Search(ctx context.Context, query string, limit int, threshold float64) ([]NoteMatch, error) {
	return s.searched, s.searchErr
}

func (s *fakeNoteSource) Pinned(ctx context.Context) ([]NoteMatch, error) {
	return s.pinned, s.pinnedErr
}

type fakeListSource struct {
	lists []ListMatch
	err   error
}

func (s *fakeListSource) Search(ctx context.Context, query string, limit int, threshold float64) ([]ListMatch, error) {
	return s.lists, s.err
}

type fakeDocumentSource struct {
	docs []DocumentMatch
	err  error
}

func (s *fakeDocumentSource) Search(ctx context.Context, query string, limit int, threshold float64) ([]DocumentMatch, error) {
	return s.docs, s.err
}

type fakeEntitySource struct {
	entities []EntityMention
	err      error
	gotIDs   []string
}

func (s *fakeEntitySource) EntitiesForItems(ctx context.Context, itemIDs []string) ([]EntityMention, error) {
	s.gotIDs = itemIDs
	return s.entities, s.err
}

func TestAggregateAllSources(t *testing.T) {
	aggregator := NewEvidenceAggregator(
		&fakeSummarySource{summaries: []Summary{{Category: "work", Content: "summary", Version: 2, MemoryCount: 10}}},
		&fakeNoteSource{searched: []NoteMatch{{ID: "n1", Title: "note", Content: "body", Similarity: 0.6}}},
		&fakeListSource{lists: []ListMatch{{ID: "l1", Name: "groceries", Content: "milk", Similarity: 0.5}}},
		&fakeDocumentSource{docs: []DocumentMatch{{ID: "d1", Name: "report", Content: "excerpt", Location: "p.3", Similarity: 0.7}}},
		&fakeEntitySource{entities: []EntityMention{{ID: "e1", Name: "Alice", Type: "person", MentionCount: 4}}},
		NewCharEstimator(),
		AggregatorOptions{},
	)

	set, err := aggregator.Aggregate(context.Background(), AggregateRequest{
		Query:            "project",
		SelectedIDs:      []string{"m1", "m2"},
		IncludeDocuments: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(set.Summaries) != 1 || set.Summaries[0].Kind != KindSummary {
		t.Errorf("expected 1 summary evidence, got %d", len(set.Summaries))
	}
	if len(set.Notes) != 1 || set.Notes[0].Kind != KindNote {
		t.Errorf("expected 1 note evidence, got %d", len(set.Notes))
	}
	if len(set.Lists) != 1 || set.Lists[0].Kind != KindList {
		t.Errorf("expected 1 list evidence, got %d", len(set.Lists))
	}
	if len(set.Documents) != 1 || set.Documents[0].Kind != KindDocument {
		t.Errorf("expected 1 document evidence, got %d", len(set.Documents))
	}
	if len(set.Entities) != 1 || set.Entities[0].Kind != KindEntity {
		t.Errorf("expected 1 entity evidence, got %d", len(set.Entities))
	}
	if set.Count() != 5 {
		t.Errorf("expected count 5, got %d", set.Count())
	}
}

func TestAggregateNoteSearchFailureDegrades(t *testing.T) {
	aggregator := NewEvidenceAggregator(
		&fakeSummarySource{summaries: []Summary{{Category: "work", Content: "summary"}}},
		&fakeNoteSource{searchErr: errors.New("index offline")},
		&fakeListSource{lists: []ListMatch{{ID: "l1", Name: "list", Content: "items"}}},
		nil,
		&fakeEntitySource{},
		NewCharEstimator(),
		AggregatorOptions{},
	)

	set, err := aggregator.Aggregate(context.Background(), AggregateRequest{
		Query:       "project",
		SelectedIDs: []string{"m1"},
	})
	if err != nil {
		t.Fatalf("expected degraded success, got error: %v", err)
	}
	if len(set.Notes) != 0 {
		t.Errorf("expected empty notes after degraded search, got %d", len(set.Notes))
	}
	if len(set.Summaries) != 1 {
		t.Errorf("expected summaries unaffected, got %d", len(set.Summaries))
	}
	if len(set.Lists) != 1 {
		t.Errorf("expected lists unaffected, got %d", len(set.Lists))
	}
}

func TestAggregateSummaryFailurePropagates(t *testing.T) {
	aggregator := NewEvidenceAggregator(
		&fakeSummarySource{err: errors.New("summary store down")},
		&fakeNoteSource{},
		&fakeListSource{},
		nil,
		&fakeEntitySource{},
		NewCharEstimator(),
		AggregatorOptions{},
	)

	_, err := aggregator.Aggregate(context.Background(), AggregateRequest{Query: "q"})
	if err == nil {
		t.Fatal("expected summary failure to propagate")
	}
}

func TestAggregateEntityFailurePropagates(t *testing.T) {
	aggregator := NewEvidenceAggregator(
		&fakeSummarySource{},
		&fakeNoteSource{},
		&fakeListSource{},
		nil,
		&fakeEntitySource{err: errors.New("graph down")},
		NewCharEstimator(),
		AggregatorOptions{},
	)

	_, err := aggregator.Aggregate(context.Background(), AggregateRequest{
		Query:       "q",
		SelectedIDs: []string{"m1"},
	})
	if err == nil {
		t.Fatal("expected entity failure to propagate")
	}
}

func TestAggregatePinnedDedup(t *testing.T) {
	aggregator := NewEvidenceAggregator(
		nil,
		&fakeNoteSource{
			pinned: []NoteMatch{
				{ID: "n1", Title: "pinned", Content: "p"},
			},
			searched: []NoteMatch{
				{ID: "n1", Title: "pinned", Content: "p", Similarity: 0.8},
				{ID: "n2", Title: "other", Content: "o", Similarity: 0.6},
			},
		},
		nil, nil, nil,
		NewCharEstimator(),
		AggregatorOptions{},
	)

	set, err := aggregator.Aggregate(context.Background(), AggregateRequest{Query: "q"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(set.Notes) != 2 {
		t.Fatalf("expected 2 deduplicated notes, got %d", len(set.Notes))
	}
	if set.Notes[0].ID != "n1" || !set.Notes[0].Pinned {
		t.Errorf("expected pinned note first, got %s pinned=%v", set.Notes[0].ID, set.Notes[0].Pinned)
	}
	if set.Notes[1].ID != "n2" {
		t.Errorf("expected n2 second, got %s", set.Notes[1].ID)
	}
}

func TestAggregateDocumentsExcludedByDefault(t *testing.T) {
	docs := &fakeDocumentSource{docs: []DocumentMatch{{ID: "d1", Name: "doc", Content: "text"}}}
	aggregator := NewEvidenceAggregator(nil, nil, nil, docs, nil,
		NewCharEstimator(), AggregatorOptions{})

	set, err := aggregator.Aggregate(context.Background(), AggregateRequest{Query: "q"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(set.Documents) != 0 {
		t.Errorf("expected no documents without IncludeDocuments, got %d", len(set.Documents))
	}
}

func TestAggregateDocumentTokenCap(t *testing.T) {
	docs := &fakeDocumentSource{docs: []DocumentMatch{
		{ID: "d1", Name: "big", Content: string(make([]byte, 400))},  // 100 tokens
		{ID: "d2", Name: "small", Content: string(make([]byte, 40))}, // 10 tokens
	}}
	aggregator := NewEvidenceAggregator(nil, nil, nil, docs, nil,
		NewCharEstimator(), AggregatorOptions{})

	set, err := aggregator.Aggregate(context.Background(), AggregateRequest{
		Query:             "q",
		IncludeDocuments:  true,
		MaxDocumentTokens: 50,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(set.Documents) != 1 || set.Documents[0].ID != "d2" {
		t.Errorf("expected only d2 under token cap, got %d documents", len(set.Documents))
	}
}

func TestAggregateNilSourcesActEmpty(t *testing.T) {
	aggregator := NewEvidenceAggregator(nil, nil, nil, nil, nil,
		NewCharEstimator(), AggregatorOptions{})

	set, err := aggregator.Aggregate(context.Background(), AggregateRequest{
		Query:       "q",
		SelectedIDs: []string{"m1"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set.Count() != 0 {
		t.Errorf("expected empty evidence set, got count %d", set.Count())
	}
}
