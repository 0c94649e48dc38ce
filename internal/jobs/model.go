package jobs

// Spec is the job opening every batch is screened against.
type Spec struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// DefaultSpec seeds a fresh store so screening works out of the box.
func DefaultSpec() Spec {
	return Spec{
		Title:       "Senior Software Engineer",
		Description: "Seeking a Senior Software Engineer with expertise in React, Node.js, and cloud platforms. Strong problem-solving skills and team collaboration are essential.",
	}
}

// ComposedDescription is the text handed to the match analyzer.
func (s Spec) ComposedDescription() string {
	return "Job Title: " + s.Title + "\n\nJob Description:\n" + s.Description
}
