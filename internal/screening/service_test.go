package screening

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"hireview-backend/internal/analyzer"
	"hireview-backend/internal/results"
)

const docxMime = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

func buildDocx(t *testing.T, paragraphs ...string) []byte {
	t.Helper()
	var body strings.Builder
	body.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	body.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, p := range paragraphs {
		body.WriteString(`<w:p><w:r><w:t>`)
		body.WriteString(p)
		body.WriteString(`</w:t></w:r></w:p>`)
	}
	body.WriteString(`</w:body></w:document>`)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte(body.String())); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

type stubAnalyzer struct {
	matches    map[string]analyzer.Match
	matchErr   error
	matchCalls int
}

func (s *stubAnalyzer) AnalyzeResume(ctx context.Context, text string, apiKey string) analyzer.Profile {
	return analyzer.HeuristicAnalyze(text)
}

func (s *stubAnalyzer) MatchCandidate(ctx context.Context, resumeText, jobDescription, apiKey string) (analyzer.Match, error) {
	s.matchCalls++
	if s.matchErr != nil {
		return analyzer.Match{}, s.matchErr
	}
	for needle, match := range s.matches {
		if strings.Contains(resumeText, needle) {
			return match, nil
		}
	}
	return analyzer.Match{MatchScore: 50, TopSkills: []string{}, MissingSkills: []string{}}, nil
}

func newTestService(t *testing.T, stub *stubAnalyzer) (*Service, *results.Service) {
	t.Helper()
	store := results.NewService(results.NewMemoryRepo())
	return NewService(stub, store), store
}

func TestRunValidatesPreconditions(t *testing.T) {
	svc, _ := newTestService(t, &stubAnalyzer{})
	doc := Document{FileName: "a.docx", MimeType: docxMime, Data: buildDocx(t, "enough text to analyze here")}

	cases := []struct {
		title, description string
		docs               []Document
	}{
		{"", "desc", []Document{doc}},
		{"title", "  ", []Document{doc}},
		{"title", "desc", nil},
	}
	for _, tc := range cases {
		_, err := svc.Run(context.Background(), tc.title, tc.description, tc.docs, "")
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("expected ErrValidation for %+v, got %v", tc, err)
		}
	}
}

func TestRunShortTextSkipsAnalyzer(t *testing.T) {
	stub := &stubAnalyzer{}
	svc, _ := newTestService(t, stub)

	docs := []Document{{FileName: "blank.docx", MimeType: docxMime, Data: buildDocx(t, "short")}}
	batch, err := svc.Run(context.Background(), "SRE", "keep things up", docs, "")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stub.matchCalls != 0 {
		t.Fatalf("analyzer must not be invoked for short text, got %d calls", stub.matchCalls)
	}
	if len(batch) != 1 {
		t.Fatalf("expected exactly one result, got %d", len(batch))
	}
	if batch[0].MatchScore != 0 {
		t.Fatalf("expected zero score, got %d", batch[0].MatchScore)
	}
	if batch[0].Insights == "" {
		t.Fatal("expected non-empty insights explaining the failure")
	}
	if batch[0].Status != results.StatusPending {
		t.Fatalf("expected pending, got %q", batch[0].Status)
	}
}

func TestRunMatchErrorYieldsTerminalResult(t *testing.T) {
	stub := &stubAnalyzer{matchErr: errors.New("backend down")}
	svc, _ := newTestService(t, stub)

	docs := []Document{{FileName: "a.docx", MimeType: docxMime, Data: buildDocx(t, "a perfectly extractable resume body")}}
	batch, err := svc.Run(context.Background(), "SRE", "desc", docs, "")
	if err != nil {
		t.Fatalf("Run must isolate per-document failures: %v", err)
	}
	if len(batch) != 1 || batch[0].MatchScore != 0 {
		t.Fatalf("expected single zero-score result, got %v", batch)
	}
	if !strings.Contains(batch[0].Insights, "Error analyzing resume") {
		t.Fatalf("unexpected insights: %q", batch[0].Insights)
	}
}

func TestRunShortlistsHighScores(t *testing.T) {
	stub := &stubAnalyzer{matches: map[string]analyzer.Match{
		"alice": {MatchScore: 80, TopSkills: []string{}, MissingSkills: []string{}},
		"bob":   {MatchScore: 74, TopSkills: []string{}, MissingSkills: []string{}},
	}}
	svc, _ := newTestService(t, stub)

	docs := []Document{
		{FileName: "alice.docx", MimeType: docxMime, Data: buildDocx(t, "resume body mentioning alice extensively")},
		{FileName: "bob.docx", MimeType: docxMime, Data: buildDocx(t, "resume body mentioning bob extensively")},
	}
	batch, err := svc.Run(context.Background(), "SRE", "desc", docs, "")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if batch[0].CandidateName != "alice.docx" || batch[0].Status != results.StatusShortlisted {
		t.Fatalf("expected alice shortlisted first, got %+v", batch[0])
	}
	if batch[1].Status != results.StatusPending {
		t.Fatalf("expected bob pending, got %q", batch[1].Status)
	}
}

func TestRunSortsStableByScore(t *testing.T) {
	stub := &stubAnalyzer{matches: map[string]analyzer.Match{
		"first":  {MatchScore: 80, TopSkills: []string{}, MissingSkills: []string{}},
		"second": {MatchScore: 80, TopSkills: []string{}, MissingSkills: []string{}},
		"third":  {MatchScore: 60, TopSkills: []string{}, MissingSkills: []string{}},
	}}
	svc, _ := newTestService(t, stub)

	docs := []Document{
		{FileName: "a.docx", MimeType: docxMime, Data: buildDocx(t, "resume body for the first candidate")},
		{FileName: "b.docx", MimeType: docxMime, Data: buildDocx(t, "resume body for the second candidate")},
		{FileName: "c.docx", MimeType: docxMime, Data: buildDocx(t, "resume body for the third candidate")},
	}
	batch, err := svc.Run(context.Background(), "SRE", "desc", docs, "")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if batch[0].CandidateName != "a.docx" || batch[1].CandidateName != "b.docx" || batch[2].CandidateName != "c.docx" {
		t.Fatalf("expected stable [a b c], got [%s %s %s]",
			batch[0].CandidateName, batch[1].CandidateName, batch[2].CandidateName)
	}
}

func TestRunDedupAgainstStore(t *testing.T) {
	stub := &stubAnalyzer{}
	svc, store := newTestService(t, stub)

	docs := []Document{
		{FileName: "alice.docx", MimeType: docxMime, Data: buildDocx(t, "resume body with plenty of text")},
		{FileName: "bob.docx", MimeType: docxMime, Data: buildDocx(t, "another resume body with plenty of text")},
	}
	first, err := svc.Run(context.Background(), "SRE", "desc", docs, "")
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if len(first) != 2 {
		t.Fatalf("expected 2 results, got %d", len(first))
	}

	second, err := svc.Run(context.Background(), "SRE", "desc", docs, "")
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if len(second) != 0 {
		t.Fatalf("expected re-run to merge nothing, got %d", len(second))
	}
	stored, _ := store.List(context.Background())
	if len(stored) != 2 {
		t.Fatalf("store grew on re-run: %d", len(stored))
	}
}

func TestRunGeneratesUniqueIDs(t *testing.T) {
	stub := &stubAnalyzer{}
	svc, _ := newTestService(t, stub)

	docs := []Document{
		{FileName: "a.docx", MimeType: docxMime, Data: buildDocx(t, "resume body with plenty of text")},
		{FileName: "b.docx", MimeType: docxMime, Data: buildDocx(t, "another resume body with plenty of text")},
		{FileName: "c.docx", MimeType: docxMime, Data: buildDocx(t, "a third resume body with plenty of text")},
	}
	batch, err := svc.Run(context.Background(), "SRE", "desc", docs, "")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	seen := make(map[string]struct{})
	for _, result := range batch {
		if result.ID == "" {
			t.Fatal("empty id")
		}
		if _, dup := seen[result.ID]; dup {
			t.Fatalf("duplicate id %q", result.ID)
		}
		seen[result.ID] = struct{}{}
	}
}

func TestAnalyzeRowsPerDocument(t *testing.T) {
	stub := &stubAnalyzer{}
	svc, _ := newTestService(t, stub)

	docs := []Document{
		{FileName: "ok.docx", MimeType: docxMime, Data: buildDocx(t, "Senior Engineer with 5 years of experience in Python")},
		{FileName: "broken.docx", MimeType: docxMime, Data: []byte("not a zip")},
	}
	rows, err := svc.Analyze(context.Background(), docs, "")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Status != "success" || rows[0].Experience != "5 years (Mid-level)" {
		t.Fatalf("unexpected first row: %+v", rows[0])
	}
	if rows[1].Status != "error" || rows[1].Message == "" {
		t.Fatalf("unexpected second row: %+v", rows[1])
	}
}
