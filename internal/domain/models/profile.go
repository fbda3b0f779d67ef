package models

import (
	"time"

	"github.com/samber/lo"
)

type Proficiency string

const (
	Beginner     Proficiency = "beginner"
	Intermediate Proficiency = "intermediate"
	Advanced     Proficiency = "advanced"
	Expert       Proficiency = "expert"
)

type Skill struct {
	Name        string      `json:"name"`
	Category    string      `json:"category"`
	Proficiency Proficiency `json:"proficiency"`
}

type ExperienceEntry struct {
	Title     string     `json:"title"`
	Company   string     `json:"company"`
	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
	Bullets   []string   `json:"bullets"`
}

// Years returns the entry duration in years; open-ended entries count up to now.
func (e ExperienceEntry) Years() float64 {
	end := time.Now()
	if e.EndDate != nil {
		end = *e.EndDate
	}
	if end.Before(e.StartDate) {
		return 0
	}
	return end.Sub(e.StartDate).Hours() / (24 * 365.25)
}

type Education struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Year        int    `json:"year"`
}

// Profile is the structured résumé plus its semantic vector. A profile is
// created on résumé parse and its vector attached on the embed step;
// re-embedding bumps VectorVersion rather than mutating a matched profile
// in place.
type Profile struct {
	ID             int
	UserID         int64
	Summary        string
	Skills         []Skill           `gorm:"serializer:json"`
	Experience     []ExperienceEntry `gorm:"serializer:json"`
	Education      []Education       `gorm:"serializer:json"`
	Certifications []string          `gorm:"serializer:json"`
	Languages      []string          `gorm:"serializer:json"`
	Vector         Vector            `gorm:"serializer:json"`
	VectorVersion  int
	CreatedAt      time.Time
}

func (p *Profile) HasVector() bool {
	return len(p.Vector) > 0
}

func (p *Profile) SkillNames() []string {
	return lo.Map(p.Skills, func(s Skill, _ int) string { return s.Name })
}

func (p *Profile) TotalExperienceYears() float64 {
	return lo.SumBy(p.Experience, func(e ExperienceEntry) float64 { return e.Years() })
}
