package indri

import (
	"context"
	"fmt"
	"testing"

	"go.uber.org/zap"
)

// fakeEngine implements Engine for tests.
type fakeEngine struct {
	hits       []Hit
	queryErr   error
	dict       Dictionary
	dictErr    error
	termFreqs  map[int]int
	queryCalls int
	lastQuery  string
	lastN      int
}

func (f *fakeEngine) Query(_ context.Context, query string, n int) ([]Hit, error) {
	f.queryCalls++
	f.lastQuery = query
	f.lastN = n
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	if len(f.hits) > n {
		return f.hits[:n], nil
	}
	return f.hits, nil
}

func (f *fakeEngine) Dictionary(_ context.Context) (Dictionary, error) {
	if f.dictErr != nil {
		return Dictionary{}, f.dictErr
	}
	return f.dict, nil
}

func (f *fakeEngine) TermFrequencies(_ context.Context) (map[int]int, error) {
	return f.termFreqs, nil
}

// fakeStore implements DocumentStore for tests, counting fetches.
type fakeStore struct {
	contents map[int]string
	err      error
	fetches  []int
}

func (f *fakeStore) Fetch(_ context.Context, docID int) (string, error) {
	f.fetches = append(f.fetches, docID)
	if f.err != nil {
		return "", f.err
	}
	c, ok := f.contents[docID]
	if !ok {
		return "", fmt.Errorf("no document %d", docID)
	}
	return c, nil
}

func trecRecord(docno, headline, text string) string {
	return "<DOC>\n<DOCNO> " + docno + " </DOCNO>\n<HEADLINE>" + headline +
		"</HEADLINE>\n<TEXT>\n" + text + "\n</TEXT>\n</DOC>\n"
}

func newTestRetriever(t *testing.T, engine *fakeEngine, store *fakeStore, cfg Config) *Retriever {
	t.Helper()
	r, err := New(context.Background(), engine, store, cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}
