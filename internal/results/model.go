package results

import "time"

const (
	StatusPending     = "pending"
	StatusReviewed    = "reviewed"
	StatusRejected    = "rejected"
	StatusShortlisted = "shortlisted"
)

// DefaultRejectionReason is stored when a caller rejects without a reason.
const DefaultRejectionReason = "Not a good fit for the role"

// AnalysisResult is one screened candidate. IDs are immutable after
// ingestion; every other field mutates only through Service transitions.
type AnalysisResult struct {
	ID                   string    `json:"id"`
	CandidateName        string    `json:"candidateName"`
	MatchScore           int       `json:"matchScore"`
	EducationMatch       *int      `json:"educationMatch,omitempty"`
	ExperienceMatch      *int      `json:"experienceMatch,omitempty"`
	SkillsMatch          *int      `json:"skillsMatch,omitempty"`
	ExperienceLevel      string    `json:"experienceLevel,omitempty"`
	TopSkills            []string  `json:"topSkills"`
	MissingSkills        []string  `json:"missingSkills"`
	KeyStrengths         []string  `json:"keyStrengths,omitempty"`
	DevelopmentAreas     []string  `json:"developmentAreas,omitempty"`
	RecommendedQuestions []string  `json:"recommendedQuestions,omitempty"`
	Insights             string    `json:"insights"`
	Status               string    `json:"status"`
	Rejected             bool      `json:"rejected"`
	RejectionReason      string    `json:"rejectionReason,omitempty"`
	Favorite             bool      `json:"favorite"`
	DetailedNotes        string    `json:"detailedNotes,omitempty"`
	ReviewDate           time.Time `json:"reviewDate"`
}

// Normalize clamps scores and guarantees the never-nil list fields.
func (r *AnalysisResult) Normalize() {
	r.MatchScore = clamp(r.MatchScore)
	r.EducationMatch = clampPtr(r.EducationMatch)
	r.ExperienceMatch = clampPtr(r.ExperienceMatch)
	r.SkillsMatch = clampPtr(r.SkillsMatch)
	if r.TopSkills == nil {
		r.TopSkills = []string{}
	}
	if r.MissingSkills == nil {
		r.MissingSkills = []string{}
	}
	if r.Status == "" {
		r.Status = StatusPending
	}
}

func clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func clampPtr(score *int) *int {
	if score == nil {
		return nil
	}
	clamped := clamp(*score)
	return &clamped
}
