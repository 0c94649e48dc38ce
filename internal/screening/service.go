package screening

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"hireview-backend/internal/analyzer"
	"hireview-backend/internal/extract"
	"hireview-backend/internal/results"
	"hireview-backend/internal/shared/metrics"
	"hireview-backend/internal/shared/telemetry"
)

// ErrValidation marks precondition failures that must reach the caller
// before any document is processed.
var ErrValidation = errors.New("validation error")

// minExtractedLength is the shortest text the analyzer will accept. Anything
// under it is treated as an extraction failure (image-only or corrupt file).
const minExtractedLength = 10

// shortlistThreshold promotes high-scoring results at ingestion.
const shortlistThreshold = 75

// Document is one uploaded resume.
type Document struct {
	FileName string
	MimeType string
	Data     []byte
}

// Analyzer is the slice of the structured analyzer the orchestrator needs.
type Analyzer interface {
	AnalyzeResume(ctx context.Context, text string, apiKey string) analyzer.Profile
	MatchCandidate(ctx context.Context, resumeText, jobDescription, apiKey string) (analyzer.Match, error)
}

// Service orchestrates the screening pipeline: extract, match, rank, merge.
// Documents are processed strictly sequentially; one document's failure
// never aborts the batch.
type Service struct {
	analyzer Analyzer
	results  *results.Service
	now      func() time.Time
}

// NewService constructs the orchestrator.
func NewService(a Analyzer, store *results.Service) *Service {
	return &Service{analyzer: a, results: store, now: time.Now}
}

// Run screens documents against the job description, merges the outcome
// into the result store and returns the newly stored batch, sorted by score
// descending (stable for ties).
func (s *Service) Run(ctx context.Context, jobTitle, jobDescription string, documents []Document, apiKey string) ([]results.AnalysisResult, error) {
	jobTitle = strings.TrimSpace(jobTitle)
	jobDescription = strings.TrimSpace(jobDescription)
	if jobTitle == "" {
		return nil, fmt.Errorf("%w: job title cannot be empty", ErrValidation)
	}
	if jobDescription == "" {
		return nil, fmt.Errorf("%w: job description cannot be empty", ErrValidation)
	}
	if len(documents) == 0 {
		return nil, fmt.Errorf("%w: at least one resume is required", ErrValidation)
	}

	batchID := uuid.NewString()
	composed := "Job Title: " + jobTitle + "\n\nJob Description:\n" + jobDescription

	telemetry.Info("screening.batch.start", map[string]any{
		"batch_id":  batchID,
		"documents": len(documents),
	})

	batch := make([]results.AnalysisResult, 0, len(documents))
	for i, doc := range documents {
		batch = append(batch, s.screenOne(ctx, composed, doc, apiKey, i))
	}

	ranked := results.SortResults(batch, results.SortByScore)
	merged, err := s.results.Merge(ctx, ranked)
	if err != nil {
		return nil, fmt.Errorf("screening batch %s: %w", batchID, err)
	}

	telemetry.Info("screening.batch.complete", map[string]any{
		"batch_id": batchID,
		"screened": len(batch),
		"merged":   len(merged),
	})
	return merged, nil
}

// screenOne runs extraction and matching for a single document. Failures are
// terminal results, never errors.
func (s *Service) screenOne(ctx context.Context, jobDescription string, doc Document, apiKey string, index int) results.AnalysisResult {
	started := s.now()
	metrics.IncScreeningStarted()

	id := newResultID(started, index)
	defer func() {
		metrics.ObserveScreeningDurationMs(float64(s.now().Sub(started)) / float64(time.Millisecond))
	}()

	text, err := extract.ExtractTextFromBytes(ctx, doc.Data, doc.MimeType, doc.FileName)
	if err != nil || len(strings.TrimSpace(text)) < minExtractedLength {
		message := "Extracted text is too short or empty. The document might be an image-only file or corrupted."
		if err != nil {
			message = err.Error()
		}
		telemetry.Info("screening.document.extract_failed", map[string]any{
			"file":        doc.FileName,
			"text_length": len(text),
		})
		metrics.IncScreeningFailed()
		return terminalResult(id, doc.FileName, "Error processing resume: "+message, s.now())
	}

	match, err := s.analyzer.MatchCandidate(ctx, text, jobDescription, apiKey)
	if err != nil {
		telemetry.Info("screening.document.match_failed", map[string]any{
			"file": doc.FileName,
		})
		metrics.IncScreeningFailed()
		return terminalResult(id, doc.FileName, "Error analyzing resume: "+err.Error(), s.now())
	}

	status := results.StatusPending
	if match.MatchScore >= shortlistThreshold {
		status = results.StatusShortlisted
	}

	result := results.AnalysisResult{
		ID:                   id,
		CandidateName:        doc.FileName,
		MatchScore:           match.MatchScore,
		EducationMatch:       match.EducationMatch,
		ExperienceMatch:      match.ExperienceMatch,
		SkillsMatch:          match.SkillsMatch,
		ExperienceLevel:      match.ExperienceLevel,
		TopSkills:            match.TopSkills,
		MissingSkills:        match.MissingSkills,
		KeyStrengths:         match.KeyStrengths,
		DevelopmentAreas:     match.DevelopmentAreas,
		RecommendedQuestions: match.RecommendedQuestions,
		Insights:             match.Insights,
		Status:               status,
		ReviewDate:           s.now(),
	}
	result.Normalize()
	metrics.IncScreeningCompleted()
	return result
}

// Row is one standalone analysis outcome, shaped for tabular export.
type Row struct {
	FileName   string   `json:"fileName"`
	Status     string   `json:"status"`
	Message    string   `json:"message"`
	Skills     []string `json:"skills,omitempty"`
	Experience string   `json:"experience,omitempty"`
	Education  string   `json:"education,omitempty"`
}

// Analyze runs the ingestion-only workflow: extract then profile each
// document, falling back to keyword heuristics inside the analyzer. No
// result is persisted.
func (s *Service) Analyze(ctx context.Context, documents []Document, apiKey string) ([]Row, error) {
	if len(documents) == 0 {
		return nil, fmt.Errorf("%w: at least one resume is required", ErrValidation)
	}

	rows := make([]Row, 0, len(documents))
	for _, doc := range documents {
		text, err := extract.ExtractTextFromBytes(ctx, doc.Data, doc.MimeType, doc.FileName)
		if err != nil || strings.TrimSpace(text) == "" {
			rows = append(rows, Row{
				FileName: doc.FileName,
				Status:   "error",
				Message:  "Failed to extract text from document",
			})
			continue
		}

		profile := s.analyzer.AnalyzeResume(ctx, text, apiKey)
		rows = append(rows, Row{
			FileName:   doc.FileName,
			Status:     "success",
			Message:    "Successfully analyzed resume",
			Skills:     profile.Skills,
			Experience: profile.Experience,
			Education:  profile.Education,
		})
	}
	return rows, nil
}

func terminalResult(id, candidateName, insights string, now time.Time) results.AnalysisResult {
	result := results.AnalysisResult{
		ID:            id,
		CandidateName: candidateName,
		MatchScore:    0,
		Insights:      insights,
		Status:        results.StatusPending,
		ReviewDate:    now,
	}
	result.Normalize()
	return result
}

// newResultID combines millis, a random base36 suffix and the batch index so
// IDs stay unique even for documents processed in the same millisecond.
func newResultID(now time.Time, index int) string {
	return strconv.FormatInt(now.UnixMilli(), 10) + randBase36(5) + strconv.Itoa(index)
}

func randBase36(length int) string {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return strings.Repeat("0", length)
	}
	encoded := strconv.FormatUint(binary.BigEndian.Uint64(buf[:]), 36)
	if len(encoded) < length {
		encoded = strings.Repeat("0", length-len(encoded)) + encoded
	}
	return encoded[:length]
}
