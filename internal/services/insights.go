package services

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pathforge-labs/PathForge-sub002/internal/config"
	"github.com/pathforge-labs/PathForge-sub002/internal/domain/models"
	"github.com/pathforge-labs/PathForge-sub002/internal/metrics"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

type insightJobsReader interface {
	GetPublishedBetween(ctx context.Context, from time.Time, to time.Time) ([]models.JobListing, error)
	CountPublishedBetween(ctx context.Context, from time.Time, to time.Time) (int64, error)
}

type insightStore interface {
	SaveAsCurrent(ctx context.Context, insight *models.MarketInsight) error
}

// InsightGenerator derives market-level aggregates from the job corpus and
// the caller's own funnel activity. Generation is idempotent for identical
// inputs and supersedes the prior current insight of the same key.
type InsightGenerator struct {
	jobs     insightJobsReader
	events   funnelEventsReader
	insights insightStore
	cfg      config.InsightsConfig
	now      func() time.Time
}

func NewInsightGenerator(jobs insightJobsReader, events funnelEventsReader,
	insights insightStore, cfg config.InsightsConfig) *InsightGenerator {

	return &InsightGenerator{jobs: jobs, events: events, insights: insights, cfg: cfg, now: time.Now}
}

// Generate computes one insight of the given type over [now-period, now).
// The insight type set is closed; an unrecognized type is a validation
// error, not a silent no-op.
func (g *InsightGenerator) Generate(ctx context.Context, profileID int,
	insightType models.InsightType, period time.Duration) (*models.MarketInsight, error) {

	periodDays := int(period.Hours() / 24)
	if periodDays <= 0 {
		return nil, models.NewValidation("period", period.String(), "period must be at least one day")
	}

	start := time.Now()
	defer func() {
		metrics.InsightGenerationDuration.WithLabelValues(string(insightType)).Observe(time.Since(start).Seconds())
	}()

	to := g.now()
	from := to.Add(-period)

	var payload any
	var err error

	switch insightType {
	case models.SkillDemand:
		payload, err = g.skillDemand(ctx, from, to)
	case models.SalaryTrend:
		payload, err = g.salaryTrend(ctx, from, to)
	case models.MarketHeat:
		payload, err = g.marketHeat(ctx, from, to, period)
	case models.CompetitionLevel:
		payload, err = g.competitionLevel(ctx, from, to)
	case models.ApplicationVelocity:
		payload, err = g.applicationVelocity(ctx, profileID, from, to)
	default:
		return nil, models.NewValidation("insight_type", string(insightType), "unknown insight type")
	}

	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	insight := &models.MarketInsight{
		ProfileID:   profileID,
		Type:        insightType,
		PeriodDays:  periodDays,
		Data:        data,
		GeneratedAt: to,
	}

	if err = g.insights.SaveAsCurrent(ctx, insight); err != nil {
		return nil, err
	}
	return insight, nil
}

func (g *InsightGenerator) skillDemand(ctx context.Context, from time.Time, to time.Time) (models.SkillDemandData, error) {

	jobs, err := g.jobs.GetPublishedBetween(ctx, from, to)
	if err != nil {
		return models.SkillDemandData{}, err
	}

	counts := make(map[string]int)
	for _, job := range jobs {
		for _, skill := range lo.Uniq(lo.Map(job.RequiredSkills, func(s string, _ int) string {
			return normalizeSkill(s)
		})) {
			if skill != "" {
				counts[skill]++
			}
		}
	}

	top := lo.MapToSlice(counts, func(skill string, count int) models.SkillCount {
		return models.SkillCount{Skill: skill, Count: count}
	})
	sort.Slice(top, func(i, j int) bool {
		if top[i].Count != top[j].Count {
			return top[i].Count > top[j].Count
		}
		return top[i].Skill < top[j].Skill
	})
	if len(top) > g.cfg.TopSkills {
		top = top[:g.cfg.TopSkills]
	}

	return models.SkillDemandData{TopSkills: top, TotalListings: len(jobs)}, nil
}

// salaryTrend computes the salary distribution over listings with parseable
// salary text. Unparseable salaries never abort the computation: the listing
// is excluded, counted and reported as a data quality gap.
func (g *InsightGenerator) salaryTrend(ctx context.Context, from time.Time, to time.Time) (models.SalaryTrendData, error) {

	jobs, err := g.jobs.GetPublishedBetween(ctx, from, to)
	if err != nil {
		return models.SalaryTrendData{}, err
	}

	var midpoints []int
	currency := ""
	unknown := 0

	for _, job := range jobs {
		salary, ok := parseSalary(job.SalaryText)
		if !ok {
			unknown++
			metrics.DataQualityWarningsCounter.WithLabelValues(string(models.SalaryTrend)).Inc()
			continue
		}
		midpoints = append(midpoints, (salary.from+salary.to)/2)
		if currency == "" {
			currency = salary.currency
		}
	}

	data := models.SalaryTrendData{
		Currency:     currency,
		SampleSize:   len(midpoints),
		UnknownCount: unknown,
	}

	if unknown > 0 {
		warning := models.DataQualityWarning{
			Metric: string(models.SalaryTrend),
			Detail: fmt.Sprintf("%d listings with missing or unparseable salary excluded", unknown),
		}
		data.Warnings = append(data.Warnings, warning)
		log.Warnf("salary trend degraded: %v", warning)
	}

	if len(midpoints) == 0 {
		return data, nil
	}

	sort.Ints(midpoints)
	data.Min = midpoints[0]
	data.Max = midpoints[len(midpoints)-1]
	data.Median = midpoints[len(midpoints)/2]

	return data, nil
}

func (g *InsightGenerator) marketHeat(ctx context.Context, from time.Time, to time.Time,
	period time.Duration) (models.MarketHeatData, error) {

	current, err := g.jobs.CountPublishedBetween(ctx, from, to)
	if err != nil {
		return models.MarketHeatData{}, err
	}

	baseline, err := g.jobs.CountPublishedBetween(ctx, from.Add(-period), from)
	if err != nil {
		return models.MarketHeatData{}, err
	}

	days := period.Hours() / 24
	data := models.MarketHeatData{
		ListingsPerDay: float64(current) / days,
		BaselinePerDay: float64(baseline) / days,
	}

	switch {
	case baseline == 0 && current == 0:
		data.Level = models.HeatSteady
	case baseline == 0:
		data.Level = models.HeatHot
	default:
		ratio := float64(current) / float64(baseline)
		switch {
		case ratio < 0.75:
			data.Level = models.HeatCooling
		case ratio < 1.25:
			data.Level = models.HeatSteady
		case ratio < 2:
			data.Level = models.HeatWarming
		default:
			data.Level = models.HeatHot
		}
	}

	return data, nil
}

// competitionLevel estimates how contested the listings are. It prefers real
// application counts, falls back to view counts, and degrades to a
// listing-age proxy rather than failing when both are absent.
func (g *InsightGenerator) competitionLevel(ctx context.Context, from time.Time, to time.Time) (models.CompetitionData, error) {

	jobs, err := g.jobs.GetPublishedBetween(ctx, from, to)
	if err != nil {
		return models.CompetitionData{}, err
	}

	if len(jobs) == 0 {
		return models.CompetitionData{Estimate: models.CompetitionLow, Proxy: "no_listings"}, nil
	}

	withApplications := lo.Filter(jobs, func(j models.JobListing, _ int) bool { return j.ApplicationsCount != nil })
	if len(withApplications) > 0 {
		avg := lo.SumBy(withApplications, func(j models.JobListing) float64 {
			return float64(*j.ApplicationsCount)
		}) / float64(len(withApplications))

		return models.CompetitionData{
			Estimate:        competitionFromAverage(avg, 10, 50),
			AvgApplications: &avg,
			Proxy:           "applications_count",
		}, nil
	}

	data := models.CompetitionData{Warnings: []models.DataQualityWarning{{
		Metric: string(models.CompetitionLevel),
		Detail: "no application counts available, estimate derived from a proxy",
	}}}
	metrics.DataQualityWarningsCounter.WithLabelValues(string(models.CompetitionLevel)).Inc()

	withViews := lo.Filter(jobs, func(j models.JobListing, _ int) bool { return j.ViewsCount != nil })
	if len(withViews) > 0 {
		avg := lo.SumBy(withViews, func(j models.JobListing) float64 {
			return float64(*j.ViewsCount)
		}) / float64(len(withViews))
		data.Estimate = competitionFromAverage(avg, 100, 500)
		data.Proxy = "views_count"
		return data, nil
	}

	// Youngest-listing share proxy: a corpus dominated by fresh listings
	// means candidates face less backlog per opening.
	fresh := lo.CountBy(jobs, func(j models.JobListing) bool {
		return to.Sub(j.PublishedAt) < 7*24*time.Hour
	})
	freshShare := float64(fresh) / float64(len(jobs))
	switch {
	case freshShare > 0.5:
		data.Estimate = models.CompetitionLow
	case freshShare > 0.2:
		data.Estimate = models.CompetitionMedium
	default:
		data.Estimate = models.CompetitionHigh
	}
	data.Proxy = "listing_age"
	return data, nil
}

func competitionFromAverage(avg float64, low float64, high float64) models.CompetitionEstimate {
	switch {
	case avg < low:
		return models.CompetitionLow
	case avg < high:
		return models.CompetitionMedium
	default:
		return models.CompetitionHigh
	}
}

// applicationVelocity buckets the caller's applied-stage events per week.
func (g *InsightGenerator) applicationVelocity(ctx context.Context, profileID int,
	from time.Time, to time.Time) (models.ApplicationVelocityData, error) {

	events, err := g.events.GetByProfileInWindow(ctx, profileID, from, to)
	if err != nil {
		return models.ApplicationVelocityData{}, err
	}

	data := models.ApplicationVelocityData{}
	for weekStart := startOfWeek(from); weekStart.Before(to); weekStart = weekStart.AddDate(0, 0, 7) {
		weekEnd := weekStart.AddDate(0, 0, 7)
		applied := lo.CountBy(events, func(e models.FunnelEvent) bool {
			return e.Stage == models.StageApplied &&
				!e.CreatedAt.Before(weekStart) && e.CreatedAt.Before(weekEnd)
		})
		data.Buckets = append(data.Buckets, models.VelocityBucket{WeekStart: weekStart, Applied: applied})
	}

	return data, nil
}

func startOfWeek(t time.Time) time.Time {
	t = t.UTC().Truncate(24 * time.Hour)
	offset := (int(t.Weekday()) + 6) % 7 // Monday-based week
	return t.AddDate(0, 0, -offset)
}

type parsedSalary struct {
	from     int
	to       int
	currency string
}

var (
	salaryNumber   = regexp.MustCompile(`(\d[\d\s,.]*\d|\d)\s*([kK])?`)
	salaryCurrency = regexp.MustCompile(`(?i)(usd|eur|gbp|rub|\$|€|£|₽)`)
)

// parseSalary extracts a salary range from free-form listing text. A single
// number is treated as both ends of the range. Returns ok=false for missing
// or unparseable text; callers treat that as "unknown", not an error.
func parseSalary(text string) (parsedSalary, bool) {

	if strings.TrimSpace(text) == "" {
		return parsedSalary{}, false
	}

	matches := salaryNumber.FindAllStringSubmatch(text, 2)
	if len(matches) == 0 {
		return parsedSalary{}, false
	}

	parse := func(match []string) (int, bool) {
		digits := strings.Map(func(r rune) rune {
			if r >= '0' && r <= '9' {
				return r
			}
			return -1
		}, match[1])
		value, err := strconv.Atoi(digits)
		if err != nil {
			return 0, false
		}
		if match[2] != "" {
			value *= 1000
		}
		return value, true
	}

	from, ok := parse(matches[0])
	if !ok {
		return parsedSalary{}, false
	}

	to := from
	if len(matches) > 1 {
		if second, ok := parse(matches[1]); ok && second >= from {
			to = second
		}
	}

	// A salary below a plausible monthly floor is more likely a parse of
	// stray digits (e.g. "401k plan") than a real figure.
	if from < 100 {
		return parsedSalary{}, false
	}

	salary := parsedSalary{from: from, to: to}
	if currency := salaryCurrency.FindString(text); currency != "" {
		salary.currency = normalizeCurrency(currency)
	}

	return salary, true
}

func normalizeCurrency(symbol string) string {
	switch strings.ToLower(symbol) {
	case "$", "usd":
		return "USD"
	case "€", "eur":
		return "EUR"
	case "£", "gbp":
		return "GBP"
	case "₽", "rub":
		return "RUB"
	default:
		return strings.ToUpper(symbol)
	}
}
