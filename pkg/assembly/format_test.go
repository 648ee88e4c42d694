package assembly

import (
	"strings"
	"testing"
)

func TestNarrativeNeverLeaksIDsOrScores(t *testing.T) {
	formatter := NewFormatter()

	items := []ScoredItem{
		{
			CandidateItem: CandidateItem{ID: "mem-4f2a", Content: "喜欢在清晨跑步"},
			FinalScore:    0.7341,
			TokenEstimate: 5,
			Tier:          TierHighSalience,
		},
	}
	evidence := &EvidenceSet{
		Notes: []Evidence{{Kind: KindNote, ID: "note-9b1c", Label: "训练计划", Content: "每周三次"}},
	}

	out := formatter.Narrative(items, evidence)

	for _, leaked := range []string{"mem-4f2a", "note-9b1c", "0.7341", "final_score"} {
		if strings.Contains(out, leaked) {
			t.Errorf("narrative leaked %q", leaked)
		}
	}
	if !strings.Contains(out, "喜欢在清晨跑步") {
		t.Error("narrative missing item content")
	}
	if !strings.Contains(out, "每周三次") {
		t.Error("narrative missing note content")
	}
}

func TestNarrativeSectionOrder(t *testing.T) {
	formatter := NewFormatter()

	items := []ScoredItem{
		{CandidateItem: CandidateItem{ID: "m1", Content: "memory item"}},
	}
	evidence := &EvidenceSet{
		Summaries: []Evidence{{Kind: KindSummary, Category: "work", Content: "summary text"}},
		Notes:     []Evidence{{Kind: KindNote, Label: "note", Content: "note text"}},
		Lists:     []Evidence{{Kind: KindList, Label: "list", Content: "list text"}},
		Documents: []Evidence{{Kind: KindDocument, Label: "report", Content: "doc text", Location: "p.2"}},
		Entities:  []Evidence{{Kind: KindEntity, Label: "Alice", EntityType: "person"}},
	}

	out := formatter.Narrative(items, evidence)

	order := []string{"summary text", "memory item", "note text", "list text", "doc text", "Alice"}
	last := -1
	for _, s := range order {
		idx := strings.Index(out, s)
		if idx < 0 {
			t.Fatalf("narrative missing %q", s)
		}
		if idx < last {
			t.Errorf("%q appears out of order", s)
		}
		last = idx
	}
}

func TestNarrativeDocumentCitation(t *testing.T) {
	formatter := NewFormatter()

	evidence := &EvidenceSet{
		Documents: []Evidence{
			{Kind: KindDocument, Label: "annual report", Content: "revenue grew", Location: "p.12"},
			{Kind: KindDocument, Label: "memo", Content: "headcount flat"},
		},
	}

	out := formatter.Narrative(nil, evidence)

	if !strings.Contains(out, "[DOC-1: annual report, p.12]") {
		t.Errorf("missing first citation, got:\n%s", out)
	}
	if !strings.Contains(out, "[DOC-2: memo]") {
		t.Errorf("missing second citation without location, got:\n%s", out)
	}
}

func TestNarrativeEntityRollupOrder(t *testing.T) {
	formatter := NewFormatter()

	evidence := &EvidenceSet{
		Entities: []Evidence{
			{Kind: KindEntity, Label: "golang", EntityType: "concept"},
			{Kind: KindEntity, Label: "Acme", EntityType: "organization"},
			{Kind: KindEntity, Label: "Alice", EntityType: "person"},
			{Kind: KindEntity, Label: "Tokyo", EntityType: "place"},
			{Kind: KindEntity, Label: "squire", EntityType: "project"},
		},
	}

	out := formatter.Narrative(nil, evidence)

	order := []string{"person: Alice", "project: squire", "organization: Acme", "place: Tokyo", "concept: golang"}
	last := -1
	for _, s := range order {
		idx := strings.Index(out, s)
		if idx < 0 {
			t.Fatalf("rollup missing %q, got:\n%s", s, out)
		}
		if idx < last {
			t.Errorf("%q appears out of type precedence order", s)
		}
		last = idx
	}
}

func TestNarrativeEmpty(t *testing.T) {
	formatter := NewFormatter()
	out := formatter.Narrative(nil, &EvidenceSet{})
	if out != "" {
		t.Errorf("expected empty narrative, got %q", out)
	}
}

func TestStructuredMirrorsPackage(t *testing.T) {
	formatter := NewFormatter()

	items := []ScoredItem{
		{
			CandidateItem: CandidateItem{ID: "m1", Content: "c", Salience: 8, Strength: 0.5, Similarity: Similarity(0.4)},
			RecencyScore:  0.9,
			FinalScore:    0.77,
			TokenEstimate: 1,
			Tier:          TierHighSalience,
		},
	}
	evidence := &EvidenceSet{}

	view := formatter.Structured("daily", "query", items, evidence, 1, "disc-1")

	if view.Profile != "daily" || view.Query != "query" {
		t.Errorf("unexpected header: %s / %s", view.Profile, view.Query)
	}
	if len(view.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(view.Items))
	}
	item := view.Items[0]
	if item.ID != "m1" || item.FinalScore != 0.77 || item.RecencyScore != 0.9 || item.Tier != TierHighSalience {
		t.Errorf("structured item does not mirror source: %+v", item)
	}
	if view.TokenCount != 1 || view.DisclosureID != "disc-1" {
		t.Errorf("unexpected totals: %d / %s", view.TokenCount, view.DisclosureID)
	}
}
