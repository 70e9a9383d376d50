package indri

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// DumpIndexStore fetches stored document content by invoking the Indri
// dumpindex utility, one process per fetch.
type DumpIndexStore struct {
	binPath   string
	indexPath string
}

// NewDumpIndexStore creates a process-backed document store. indriPath is the
// root of the installed Indri toolkit; the dump utility is expected at
// <indriPath>/dumpindex/dumpindex.
func NewDumpIndexStore(indriPath, indexPath string) *DumpIndexStore {
	return &DumpIndexStore{
		binPath:   filepath.Join(indriPath, "dumpindex", "dumpindex"),
		indexPath: indexPath,
	}
}

// Fetch runs `dumpindex <index> dt <docID>` and returns its stdout. A missing
// id behaves however the dump utility behaves; empty or garbled output is not
// detected here.
func (s *DumpIndexStore) Fetch(ctx context.Context, docID int) (string, error) {
	out, err := runCommand(ctx, s.binPath, s.indexPath, "dt", strconv.Itoa(docID))
	if err != nil {
		return "", fmt.Errorf("dumpindex dt %d: %w", docID, err)
	}
	return out, nil
}

// ExecEngine implements Engine by shelling out to the Indri toolkit:
// IndriRunQuery for ranked results, dumpindex for internal-id resolution and
// vocabulary dumps. Term ids are vocabulary positions in dump order.
type ExecEngine struct {
	runQueryBin  string
	dumpIndexBin string
	indexPath    string
}

// NewExecEngine creates a process-backed index engine.
func NewExecEngine(indriPath, indexPath string) *ExecEngine {
	return &ExecEngine{
		runQueryBin:  filepath.Join(indriPath, "runquery", "IndriRunQuery"),
		dumpIndexBin: filepath.Join(indriPath, "dumpindex", "dumpindex"),
		indexPath:    indexPath,
	}
}

// Query runs IndriRunQuery and resolves each returned document number to its
// internal id via dumpindex.
func (e *ExecEngine) Query(ctx context.Context, query string, n int) ([]Hit, error) {
	out, err := runCommand(ctx, e.runQueryBin,
		"-index="+e.indexPath,
		"-query="+query,
		"-count="+strconv.Itoa(n),
		"-trecFormat=true",
	)
	if err != nil {
		return nil, fmt.Errorf("runquery: %w", err)
	}

	ranked, err := parseTrecRun(out)
	if err != nil {
		return nil, fmt.Errorf("parse runquery output: %w", err)
	}

	hits := make([]Hit, 0, len(ranked))
	for _, r := range ranked {
		id, err := e.internalID(ctx, r.docno)
		if err != nil {
			return nil, err
		}
		hits = append(hits, Hit{DocID: id, Score: r.score})
	}
	return hits, nil
}

// Dictionary dumps the index vocabulary and builds the term lookup tables.
func (e *ExecEngine) Dictionary(ctx context.Context) (Dictionary, error) {
	out, err := runCommand(ctx, e.dumpIndexBin, e.indexPath, "v")
	if err != nil {
		return Dictionary{}, fmt.Errorf("dumpindex v: %w", err)
	}

	vocab, err := parseVocabulary(out)
	if err != nil {
		return Dictionary{}, fmt.Errorf("parse vocabulary: %w", err)
	}

	dict := Dictionary{
		TermID:    make(map[string]int, len(vocab)),
		IDTerm:    make(map[int]string, len(vocab)),
		IDDocFreq: make(map[int]int, len(vocab)),
	}
	for i, v := range vocab {
		dict.TermID[v.term] = i
		dict.IDTerm[i] = v.term
		dict.IDDocFreq[i] = v.docFreq
	}
	return dict, nil
}

// TermFrequencies dumps the vocabulary and returns collection-wide term
// counts keyed by term id.
func (e *ExecEngine) TermFrequencies(ctx context.Context) (map[int]int, error) {
	out, err := runCommand(ctx, e.dumpIndexBin, e.indexPath, "v")
	if err != nil {
		return nil, fmt.Errorf("dumpindex v: %w", err)
	}

	vocab, err := parseVocabulary(out)
	if err != nil {
		return nil, fmt.Errorf("parse vocabulary: %w", err)
	}

	tf := make(map[int]int, len(vocab))
	for i, v := range vocab {
		tf[i] = v.termFreq
	}
	return tf, nil
}

// internalID resolves an external document number to the engine's internal id
// via `dumpindex <index> di docno <docno>`.
func (e *ExecEngine) internalID(ctx context.Context, docno string) (int, error) {
	out, err := runCommand(ctx, e.dumpIndexBin, e.indexPath, "di", "docno", docno)
	if err != nil {
		return 0, fmt.Errorf("dumpindex di %s: %w", docno, err)
	}
	id, err := strconv.Atoi(strings.TrimSpace(out))
	if err != nil {
		return 0, fmt.Errorf("dumpindex di %s: unparsable id %q: %w", docno, strings.TrimSpace(out), err)
	}
	return id, nil
}

type trecRunLine struct {
	docno string
	score float64
}

// parseTrecRun parses TREC run lines: "qid Q0 docno rank score runid".
func parseTrecRun(out string) ([]trecRunLine, error) {
	var lines []trecRunLine
	for _, raw := range strings.Split(out, "\n") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		fields := strings.Fields(raw)
		if len(fields) < 6 {
			return nil, fmt.Errorf("malformed run line %q", raw)
		}
		score, err := strconv.ParseFloat(fields[4], 64)
		if err != nil {
			return nil, fmt.Errorf("malformed score in %q: %w", raw, err)
		}
		lines = append(lines, trecRunLine{docno: fields[2], score: score})
	}
	return lines, nil
}

type vocabEntry struct {
	term     string
	termFreq int
	docFreq  int
}

// parseVocabulary parses `dumpindex v` lines: "term termCount docCount".
// The leading TOTAL summary line is skipped.
func parseVocabulary(out string) ([]vocabEntry, error) {
	var vocab []vocabEntry
	for _, raw := range strings.Split(out, "\n") {
		raw = strings.TrimSpace(raw)
		if raw == "" || strings.HasPrefix(raw, "TOTAL") {
			continue
		}
		fields := strings.Fields(raw)
		if len(fields) < 3 {
			return nil, fmt.Errorf("malformed vocabulary line %q", raw)
		}
		tf, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("malformed term count in %q: %w", raw, err)
		}
		df, err := strconv.Atoi(fields[2])
		if err != nil {
			return nil, fmt.Errorf("malformed doc count in %q: %w", raw, err)
		}
		vocab = append(vocab, vocabEntry{term: fields[0], termFreq: tf, docFreq: df})
	}
	return vocab, nil
}

// runCommand runs one external process and returns its stdout. A non-zero
// exit propagates with the trimmed stderr attached.
func runCommand(ctx context.Context, bin string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, bin, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return "", fmt.Errorf("%s: %s: %w", filepath.Base(bin), msg, err)
		}
		return "", fmt.Errorf("%s: %w", filepath.Base(bin), err)
	}
	return stdout.String(), nil
}
