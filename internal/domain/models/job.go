package models

import "time"

type WorkType string

const (
	OnSite WorkType = "onSite"
	Hybrid WorkType = "hybrid"
	Remote WorkType = "remote"
)

type Seniority string

const (
	SeniorityIntern  Seniority = "intern"
	SeniorityJunior  Seniority = "junior"
	SeniorityMiddle  Seniority = "middle"
	SenioritySenior  Seniority = "senior"
	SeniorityLead    Seniority = "lead"
	SeniorityUnknown Seniority = ""
)

// ExpectedYears maps a seniority signal to the years of experience a listing
// of that level typically expects. Unknown seniority returns ok=false and the
// scorer treats the alignment term as neutral.
func (s Seniority) ExpectedYears() (float64, bool) {
	switch s {
	case SeniorityIntern:
		return 0, true
	case SeniorityJunior:
		return 1, true
	case SeniorityMiddle:
		return 3, true
	case SenioritySenior:
		return 6, true
	case SeniorityLead:
		return 9, true
	default:
		return 0, false
	}
}

// JobListing is immutable after ingestion except for re-embedding.
type JobListing struct {
	ID                int
	Title             string
	Company           string
	Description       string
	Location          string
	WorkType          WorkType
	Seniority         Seniority
	RequiredSkills    []string `gorm:"serializer:json"`
	SalaryText        string
	ApplicationsCount *int
	ViewsCount        *int
	Source            string
	Url               string
	Vector            Vector `gorm:"serializer:json"`
	PublishedAt       time.Time
	CreatedAt         time.Time
}

func (j *JobListing) HasVector() bool {
	return len(j.Vector) > 0
}
