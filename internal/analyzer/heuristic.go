package analyzer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// skillVocabulary is the closed keyword list matched against resume text.
// Order matters: matched skills are reported in vocabulary order.
var skillVocabulary = []string{
	"javascript", "python", "java", "c#", "c++",
	"react", "angular", "vue", "node.js", "express",
	"django", "flask", "spring", "asp.net",
	"sql", "mysql", "postgresql", "mongodb", "oracle", "firebase",
	"aws", "azure", "gcp",
	"docker", "kubernetes", "terraform",
	"git", "ci/cd", "jenkins", "github actions", "gitlab",
	"html", "css", "sass", "less", "bootstrap", "tailwind",
	"typescript", "redux", "graphql", "rest", "soap",
	"agile", "scrum", "kanban", "jira", "trello",
	"machine learning", "ai", "deep learning", "nlp", "computer vision",
	"data analysis", "pandas", "numpy", "tensorflow", "pytorch",
	"mobile", "ios", "android", "react native", "flutter", "swift",
}

var yearsOfExperienceRe = regexp.MustCompile(`(?i)(\d+)\s*(?:years?|yrs?)\s+(?:of\s+)?experience`)

// educationKeywords are scanned in order; the first keyword with a
// sufficiently long surrounding context wins.
var educationKeywords = []string{
	"bachelor", "master", "phd", "doctorate", "mba",
	"bs", "ba", "ms", "ma", "bsc", "msc", "b.s.", "m.s.",
	"computer science", "engineering", "information technology",
	"business", "management",
	"university", "college", "school",
}

// HeuristicAnalyze is the deterministic fallback for AI analysis. It never
// fails: internal panics are recovered into an error triple.
func HeuristicAnalyze(text string) (profile Profile) {
	defer func() {
		if rec := recover(); rec != nil {
			profile = Profile{
				Skills:     []string{"Error analyzing skills"},
				Experience: "Error analyzing experience",
				Education:  "Error analyzing education",
			}
		}
	}()

	textLower := strings.ToLower(text)

	return Profile{
		Skills:     heuristicSkills(textLower),
		Experience: heuristicExperience(text, textLower),
		Education:  heuristicEducation(text, textLower),
	}
}

func heuristicSkills(textLower string) []string {
	var found []string
	for _, skill := range skillVocabulary {
		if strings.Contains(textLower, skill) {
			found = append(found, skill)
		}
	}
	if len(found) == 0 {
		return []string{sentinelNoSkills}
	}
	return found
}

func heuristicExperience(text, textLower string) string {
	if m := yearsOfExperienceRe.FindStringSubmatch(text); m != nil {
		years, err := strconv.Atoi(m[1])
		if err == nil {
			var level string
			switch {
			case years <= 2:
				level = "Entry-level"
			case years <= 5:
				level = "Mid-level"
			case years <= 8:
				level = "Senior"
			default:
				level = "Executive"
			}
			return fmt.Sprintf("%d years (%s)", years, level)
		}
	}

	// No explicit year count; estimate from seniority keywords.
	has := func(keys ...string) bool {
		for _, key := range keys {
			if strings.Contains(textLower, key) {
				return true
			}
		}
		return false
	}
	switch {
	case has("ceo", "cto", "chief"):
		return "Executive level (10+ years estimated)"
	case has("vp", "director"):
		return "Senior leadership (8+ years estimated)"
	case has("manager", "lead"):
		return "Team leader (5-8 years estimated)"
	case has("senior"):
		return "Senior (3-5 years estimated)"
	case has("junior"):
		return "Junior (1-2 years estimated)"
	default:
		return sentinelNoExperience
	}
}

func heuristicEducation(text, textLower string) string {
	for _, keyword := range educationKeywords {
		index := strings.Index(textLower, keyword)
		if index < 0 {
			continue
		}
		start := index - 30
		if start < 0 {
			start = 0
		}
		end := index + 70
		if end > len(text) {
			end = len(text)
		}
		chunk := strings.TrimSpace(collapseWhitespace(text[start:end]))
		if len(chunk) > len(keyword)+5 {
			return chunk
		}
	}
	return "Unknown education"
}

var whitespaceRe = regexp.MustCompile(`\s+`)

func collapseWhitespace(s string) string {
	return whitespaceRe.ReplaceAllString(s, " ")
}
