package indri

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/convsearch/internal/domain"
)

func TestNew_UnsupportedTextFormat(t *testing.T) {
	engine := &fakeEngine{}
	store := &fakeStore{}

	_, err := New(context.Background(), engine, store,
		Config{ResultsRequested: 2, TextFormat: "json"}, zap.NewNop())
	if !errors.Is(err, domain.ErrUnsupportedTextFormat) {
		t.Fatalf("expected ErrUnsupportedTextFormat, got %v", err)
	}
	// Configuration errors must not reach the engine or spawn processes.
	if engine.queryCalls != 0 || len(store.fetches) != 0 {
		t.Error("engine or store invoked for an unsupported text format")
	}
}

func TestRetrieve_TwoResultsInEngineOrder(t *testing.T) {
	engine := &fakeEngine{
		hits: []Hit{
			{DocID: 41, Score: -4.21},
			{DocID: 7, Score: -5.88},
		},
	}
	store := &fakeStore{contents: map[int]string{
		41: trecRecord("FT911-41", "Carbon Pricing", "Climate policy and carbon taxes."),
		7:  trecRecord("FT911-7", "Emission Targets", "National emission targets explained."),
	}}
	r := newTestRetriever(t, engine, store, Config{ResultsRequested: 2, TextFormat: TextFormatTrecText})

	docs, err := r.Retrieve(context.Background(), "climate policy")
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}

	if engine.lastQuery != "climate policy" || engine.lastN != 2 {
		t.Errorf("engine queried with (%q, %d)", engine.lastQuery, engine.lastN)
	}
	if len(store.fetches) != 2 {
		t.Fatalf("expected 2 store fetches, got %d", len(store.fetches))
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}

	// Engine order preserved; id is the stringified internal id, not DOCNO.
	if docs[0].ID != "41" || docs[1].ID != "7" {
		t.Errorf("ids = %q, %q", docs[0].ID, docs[1].ID)
	}
	if docs[0].Score != -4.21 || docs[1].Score != -5.88 {
		t.Errorf("scores = %v, %v", docs[0].Score, docs[1].Score)
	}
	if docs[0].Title != "Carbon Pricing" {
		t.Errorf("title = %q", docs[0].Title)
	}
	if docs[0].Text != "Climate policy and carbon taxes." {
		t.Errorf("text = %q", docs[0].Text)
	}
}

func TestRetrieve_AtMostResultsRequested(t *testing.T) {
	engine := &fakeEngine{
		hits: []Hit{{DocID: 1, Score: -1}, {DocID: 2, Score: -2}, {DocID: 3, Score: -3}},
	}
	store := &fakeStore{contents: map[int]string{
		1: trecRecord("D1", "t", "a"),
	}}
	r := newTestRetriever(t, engine, store, Config{ResultsRequested: 1, TextFormat: TextFormatTrecText})

	docs, err := r.Retrieve(context.Background(), "q")
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}
	if len(docs) != 1 {
		t.Errorf("expected 1 document, got %d", len(docs))
	}
}

func TestRetrieve_EmptyResult(t *testing.T) {
	engine := &fakeEngine{}
	store := &fakeStore{}
	r := newTestRetriever(t, engine, store, Config{ResultsRequested: 5, TextFormat: TextFormatTrecText})

	docs, err := r.Retrieve(context.Background(), "no matches")
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}
	if len(docs) != 0 {
		t.Errorf("expected 0 documents, got %d", len(docs))
	}
	if len(store.fetches) != 0 {
		t.Errorf("no fetches expected for an empty result")
	}
}

func TestRetrieve_EngineFailurePropagates(t *testing.T) {
	engine := &fakeEngine{queryErr: errors.New("index unreadable")}
	store := &fakeStore{}
	r := newTestRetriever(t, engine, store, Config{ResultsRequested: 1, TextFormat: TextFormatTrecText})

	_, err := r.Retrieve(context.Background(), "q")
	if !errors.Is(err, domain.ErrEngine) {
		t.Fatalf("expected ErrEngine, got %v", err)
	}
}

func TestRetrieve_FetchFailureAbortsCall(t *testing.T) {
	engine := &fakeEngine{hits: []Hit{{DocID: 1, Score: -1}, {DocID: 2, Score: -2}}}
	store := &fakeStore{contents: map[int]string{
		1: trecRecord("D1", "t", "a"),
		// doc 2 missing: Fetch fails
	}}
	r := newTestRetriever(t, engine, store, Config{ResultsRequested: 2, TextFormat: TextFormatTrecText})

	docs, err := r.Retrieve(context.Background(), "q")
	if err == nil {
		t.Fatal("expected error when a fetch fails")
	}
	if docs != nil {
		t.Errorf("expected no partial result list, got %d documents", len(docs))
	}
}

func TestVocabularyAccessors(t *testing.T) {
	engine := &fakeEngine{
		dict: Dictionary{
			TermID:    map[string]int{"climate": 0, "policy": 1},
			IDTerm:    map[int]string{0: "climate", 1: "policy"},
			IDDocFreq: map[int]int{0: 120, 1: 87},
		},
		termFreqs: map[int]int{0: 340, 1: 95},
	}
	r := newTestRetriever(t, engine, &fakeStore{}, Config{TextFormat: TextFormatTrecText})

	if r.VocabularySize() != 2 {
		t.Errorf("VocabularySize = %d", r.VocabularySize())
	}
	if r.DocumentFrequency("climate") != 120 {
		t.Errorf("DocumentFrequency(climate) = %d", r.DocumentFrequency("climate"))
	}
	if r.TermFrequency("policy") != 95 {
		t.Errorf("TermFrequency(policy) = %d", r.TermFrequency("policy"))
	}
	if r.DocumentFrequency("unknown") != 0 {
		t.Errorf("unknown term should have df 0")
	}
}
