package analyzer

import (
	"errors"
	"strconv"
	"strings"
)

const (
	sentinelNoSkills     = "No skills detected"
	sentinelNoExperience = "Experience level unclear"
	sentinelNoEducation  = "Education not found"
)

// parseProfile applies the line-prefix contract to a standalone analysis
// response. Each section is the text between its marker and the next marker
// (or end of string). Missing sections get sentinel values; a response with
// no markers at all is unusable and reported via ok=false.
func parseProfile(response string) (Profile, bool) {
	hasSkills := strings.Contains(response, "Skills:")
	hasExperience := strings.Contains(response, "Experience:")
	hasEducation := strings.Contains(response, "Education:")
	if !hasSkills && !hasExperience && !hasEducation {
		return Profile{}, false
	}

	profile := Profile{
		Skills:     []string{sentinelNoSkills},
		Experience: sentinelNoExperience,
		Education:  sentinelNoEducation,
	}

	if hasSkills {
		raw := sectionAfter(response, "Skills:")
		raw = sectionBefore(raw, "Experience:")
		if skills := splitAndTrim(raw, ","); len(skills) > 0 {
			profile.Skills = skills
		}
	}
	if hasExperience {
		raw := sectionAfter(response, "Experience:")
		raw = sectionBefore(raw, "Education:")
		if trimmed := strings.TrimSpace(raw); trimmed != "" {
			profile.Experience = trimmed
		}
	}
	if hasEducation {
		raw := sectionAfter(response, "Education:")
		if trimmed := strings.TrimSpace(raw); trimmed != "" {
			profile.Education = trimmed
		}
	}

	return profile, true
}

var matchMarkers = []string{
	"MatchScore:",
	"EducationMatch:",
	"ExperienceMatch:",
	"SkillsMatch:",
	"ExperienceLevel:",
	"TopSkills:",
	"MissingSkills:",
	"KeyStrengths:",
	"DevelopmentAreas:",
	"RecommendedQuestions:",
	"Insights:",
}

// parseMatch applies the extended line-prefix contract to a job-match
// response. MatchScore is required; everything else is best-effort.
func parseMatch(response string) (Match, error) {
	scoreRaw, ok := matchSection(response, "MatchScore:")
	if !ok {
		return Match{}, errors.New("response has no MatchScore")
	}
	score, err := parseScore(scoreRaw)
	if err != nil {
		return Match{}, errors.New("MatchScore is not a number")
	}

	match := Match{
		MatchScore:    score,
		TopSkills:     []string{},
		MissingSkills: []string{},
	}

	match.EducationMatch = optionalScore(response, "EducationMatch:")
	match.ExperienceMatch = optionalScore(response, "ExperienceMatch:")
	match.SkillsMatch = optionalScore(response, "SkillsMatch:")

	if raw, ok := matchSection(response, "ExperienceLevel:"); ok {
		match.ExperienceLevel = strings.TrimSpace(raw)
	}
	if raw, ok := matchSection(response, "TopSkills:"); ok {
		match.TopSkills = splitAndTrim(raw, ",")
	}
	if raw, ok := matchSection(response, "MissingSkills:"); ok {
		match.MissingSkills = splitAndTrim(raw, ",")
	}
	if raw, ok := matchSection(response, "KeyStrengths:"); ok {
		match.KeyStrengths = splitAndTrim(raw, ";")
	}
	if raw, ok := matchSection(response, "DevelopmentAreas:"); ok {
		match.DevelopmentAreas = splitAndTrim(raw, ";")
	}
	if raw, ok := matchSection(response, "RecommendedQuestions:"); ok {
		match.RecommendedQuestions = splitAndTrim(raw, ";")
	}
	if raw, ok := matchSection(response, "Insights:"); ok {
		match.Insights = strings.TrimSpace(raw)
	}

	return match, nil
}

// matchSection returns the text between the marker and the nearest following
// known marker (or end of string).
func matchSection(response, marker string) (string, bool) {
	idx := strings.Index(response, marker)
	if idx < 0 {
		return "", false
	}
	rest := response[idx+len(marker):]

	end := len(rest)
	for _, other := range matchMarkers {
		if other == marker {
			continue
		}
		if pos := strings.Index(rest, other); pos >= 0 && pos < end {
			end = pos
		}
	}
	return rest[:end], true
}

func optionalScore(response, marker string) *int {
	raw, ok := matchSection(response, marker)
	if !ok {
		return nil
	}
	score, err := parseScore(raw)
	if err != nil {
		return nil
	}
	return &score
}

func parseScore(raw string) (int, error) {
	trimmed := strings.TrimSpace(raw)
	// Tolerate trailing prose after the number ("85 out of 100").
	if cut := strings.IndexFunc(trimmed, func(r rune) bool {
		return r < '0' || r > '9'
	}); cut > 0 {
		trimmed = trimmed[:cut]
	}
	score, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, err
	}
	return clampScore(score), nil
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func sectionAfter(s, marker string) string {
	if idx := strings.Index(s, marker); idx >= 0 {
		return s[idx+len(marker):]
	}
	return s
}

func sectionBefore(s, marker string) string {
	if idx := strings.Index(s, marker); idx >= 0 {
		return s[:idx]
	}
	return s
}

func splitAndTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
