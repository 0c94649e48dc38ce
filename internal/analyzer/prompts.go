package analyzer

import (
	_ "embed"
	"strings"
)

var (
	//go:embed prompts/analyze_resume.txt
	analyzeResumePrompt string
	//go:embed prompts/match_candidate.txt
	matchCandidatePrompt string
)

func buildAnalyzePrompt(resumeText string) string {
	return strings.ReplaceAll(analyzeResumePrompt, "{{RESUME_TEXT}}", resumeText)
}

func buildMatchPrompt(resumeText, jobDescription string) string {
	prompt := strings.ReplaceAll(matchCandidatePrompt, "{{JOB_DESCRIPTION}}", jobDescription)
	return strings.ReplaceAll(prompt, "{{RESUME_TEXT}}", resumeText)
}
