package models

import "time"

// ScoreBreakdown carries the per-dimension scores behind an overall match
// score, each in [0,1].
type ScoreBreakdown struct {
	Semantic           float64 `json:"semantic"`
	SkillOverlap       float64 `json:"skill_overlap"`
	SeniorityAlignment float64 `json:"seniority_alignment"`
}

// MatchCandidate is the scored pairing of a profile and a job listing.
// At most one active candidate exists per (profile, job); re-scoring
// overwrites, never duplicates.
type MatchCandidate struct {
	ID           int
	ProfileID    int `gorm:"uniqueIndex:idx_match_profile_job"`
	JobID        int `gorm:"uniqueIndex:idx_match_profile_job"`
	OverallScore float64
	Breakdown    ScoreBreakdown `gorm:"serializer:json"`
	Explanation  string
	Dismissed    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RankedMatches is a scored candidate list sorted descending by overall
// score; ties broken by listing publication time (newer first), then job id.
type RankedMatches struct {
	Candidates []MatchCandidate
	Total      int
}
