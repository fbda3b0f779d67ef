package models

import (
	"encoding/json"
	"time"
)

type InsightType string

const (
	SkillDemand         InsightType = "skill_demand"
	SalaryTrend         InsightType = "salary_trend"
	MarketHeat          InsightType = "market_heat"
	CompetitionLevel    InsightType = "competition_level"
	ApplicationVelocity InsightType = "application_velocity"
)

var insightTypes = []InsightType{SkillDemand, SalaryTrend, MarketHeat, CompetitionLevel, ApplicationVelocity}

func ParseInsightType(s string) (InsightType, error) {
	for _, t := range insightTypes {
		if s == string(t) {
			return t, nil
		}
	}
	return "", NewValidation("insight_type", s, "unknown insight type")
}

type SkillCount struct {
	Skill string `json:"skill"`
	Count int    `json:"count"`
}

type SkillDemandData struct {
	TopSkills     []SkillCount `json:"top_skills"`
	TotalListings int          `json:"total_listings"`
}

type SalaryTrendData struct {
	Min          int                  `json:"min"`
	Median       int                  `json:"median"`
	Max          int                  `json:"max"`
	Currency     string               `json:"currency"`
	SampleSize   int                  `json:"sample_size"`
	UnknownCount int                  `json:"unknown_count"`
	Warnings     []DataQualityWarning `json:"warnings,omitempty"`
}

type HeatLevel string

const (
	HeatCooling HeatLevel = "cooling"
	HeatSteady  HeatLevel = "steady"
	HeatWarming HeatLevel = "warming"
	HeatHot     HeatLevel = "hot"
)

type MarketHeatData struct {
	ListingsPerDay float64   `json:"listings_per_day"`
	BaselinePerDay float64   `json:"baseline_per_day"`
	Level          HeatLevel `json:"level"`
}

type CompetitionEstimate string

const (
	CompetitionLow    CompetitionEstimate = "low"
	CompetitionMedium CompetitionEstimate = "medium"
	CompetitionHigh   CompetitionEstimate = "high"
)

type CompetitionData struct {
	Estimate        CompetitionEstimate  `json:"estimate"`
	AvgApplications *float64             `json:"avg_applications,omitempty"`
	Proxy           string               `json:"proxy"`
	Warnings        []DataQualityWarning `json:"warnings,omitempty"`
}

type VelocityBucket struct {
	WeekStart time.Time `json:"week_start"`
	Applied   int       `json:"applied"`
}

type ApplicationVelocityData struct {
	Buckets []VelocityBucket `json:"buckets"`
}

// MarketInsight is an aggregate over the job corpus or user activity for a
// period. At most one insight per (type, profile, period) is current;
// generating a new one supersedes the prior for display, priors are kept
// for history.
type MarketInsight struct {
	ID          int
	ProfileID   int
	Type        InsightType
	PeriodDays  int
	Data        json.RawMessage `gorm:"type:text"`
	Current     bool
	GeneratedAt time.Time
}
