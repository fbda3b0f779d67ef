package models

import "time"

// Diff records one field-level change made while tailoring, with the job
// requirement that drove it. A field left unchanged emits no diff.
type Diff struct {
	Field    string `json:"field"`
	Original string `json:"original"`
	Modified string `json:"modified"`
	Reason   string `json:"reason"`
}

// TailoredCV is a job-specific CV variant. Multiple variants may exist per
// (profile, job) pair; each is independently addressable. Tailoring never
// mutates the source profile.
type TailoredCV struct {
	ID             int
	ProfileID      int
	JobID          int
	Summary        string            `json:"tailored_summary"`
	Skills         []string          `json:"tailored_skills" gorm:"serializer:json"`
	Experience     []ExperienceEntry `json:"tailored_experience" gorm:"serializer:json"`
	Diffs          []Diff            `json:"diffs" gorm:"serializer:json"`
	ATSScore       int
	ATSSuggestions []string `gorm:"serializer:json"`
	CreatedAt      time.Time
}
