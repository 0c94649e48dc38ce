package analyzer

import (
	"context"
	"fmt"

	"hireview-backend/internal/llm"
	"hireview-backend/internal/shared/metrics"
	"hireview-backend/internal/shared/telemetry"
)

// Profile is the standalone analysis output for a single resume.
type Profile struct {
	Skills     []string `json:"skills"`
	Experience string   `json:"experience"`
	Education  string   `json:"education"`
}

// Match is the structured job-match output for a single resume.
type Match struct {
	MatchScore           int      `json:"matchScore"`
	EducationMatch       *int     `json:"educationMatch,omitempty"`
	ExperienceMatch      *int     `json:"experienceMatch,omitempty"`
	SkillsMatch          *int     `json:"skillsMatch,omitempty"`
	ExperienceLevel      string   `json:"experienceLevel,omitempty"`
	TopSkills            []string `json:"topSkills"`
	MissingSkills        []string `json:"missingSkills"`
	KeyStrengths         []string `json:"keyStrengths,omitempty"`
	DevelopmentAreas     []string `json:"developmentAreas,omitempty"`
	RecommendedQuestions []string `json:"recommendedQuestions,omitempty"`
	Insights             string   `json:"insights"`
}

// Analyzer runs AI-backed resume analysis with a deterministic parsing
// contract over the model's line-prefixed output.
type Analyzer struct {
	provider llm.Provider
}

// New creates an Analyzer backed by the given LLM provider.
func New(provider llm.Provider) *Analyzer {
	return &Analyzer{provider: provider}
}

// AnalyzeResume extracts skills, experience and education from resume text.
// Any backend or parsing failure falls back to the keyword heuristics; the
// caller always receives a usable Profile.
func (a *Analyzer) AnalyzeResume(ctx context.Context, text string, apiKey string) Profile {
	client, err := a.provider.ClientFor(ctx, apiKey)
	if err != nil {
		telemetry.Info("analyzer.fallback", map[string]any{
			"reason":      "credentials",
			"text_length": len(text),
		})
		metrics.IncHeuristicFallback()
		return HeuristicAnalyze(text)
	}

	response, err := client.Generate(ctx, buildAnalyzePrompt(text))
	if err != nil {
		telemetry.Info("analyzer.fallback", map[string]any{
			"reason":      "backend",
			"text_length": len(text),
		})
		metrics.IncHeuristicFallback()
		return HeuristicAnalyze(text)
	}

	profile, ok := parseProfile(response)
	if !ok {
		telemetry.Info("analyzer.fallback", map[string]any{
			"reason":          "unparseable",
			"response_length": len(response),
		})
		metrics.IncHeuristicFallback()
		return HeuristicAnalyze(text)
	}
	return profile
}

// MatchCandidate scores resume text against a job description. Unlike
// AnalyzeResume it returns an error when the backend fails or the response
// carries no usable MatchScore; the orchestrator decides how to record it.
func (a *Analyzer) MatchCandidate(ctx context.Context, resumeText, jobDescription, apiKey string) (Match, error) {
	client, err := a.provider.ClientFor(ctx, apiKey)
	if err != nil {
		return Match{}, err
	}

	response, err := client.Generate(ctx, buildMatchPrompt(resumeText, jobDescription))
	if err != nil {
		return Match{}, fmt.Errorf("match candidate: %w", err)
	}

	match, err := parseMatch(response)
	if err != nil {
		return Match{}, fmt.Errorf("match candidate: %w", err)
	}
	return match, nil
}
