package services

import (
	"context"
	"time"

	"github.com/pathforge-labs/PathForge-sub002/internal/config"
	"github.com/pathforge-labs/PathForge-sub002/internal/domain/models"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

type insightGenerator interface {
	Generate(ctx context.Context, profileID int, insightType models.InsightType, period time.Duration) (*models.MarketInsight, error)
}

// marketProfileID keys the market-wide insights that belong to no single
// profile.
const marketProfileID = 0

var marketInsightTypes = []models.InsightType{
	models.SkillDemand, models.SalaryTrend, models.MarketHeat, models.CompetitionLevel,
}

// InsightsRefresher regenerates the market-level insights on a schedule so
// the "current" insight per key stays fresh without caller involvement.
// Profile-scoped insights (application velocity) are generated on demand
// only.
type InsightsRefresher struct {
	generator insightGenerator
	cron      *cron.Cron
	periods   []int
}

func NewInsightsRefresher(generator insightGenerator, cfg config.InsightsConfig,
	funnelCfg config.FunnelConfig) (*InsightsRefresher, error) {

	refresher := &InsightsRefresher{
		generator: generator,
		cron:      cron.New(),
		periods:   funnelCfg.PeriodGranularitiesDays,
	}

	_, err := refresher.cron.AddFunc(cfg.RefreshCron, refresher.refresh)
	if err != nil {
		return nil, err
	}

	refresher.cron.Start()
	log.Infof("insights refresher started, schedule: %s", cfg.RefreshCron)
	return refresher, nil
}

func (r *InsightsRefresher) Stop() {
	r.cron.Stop()
}

func (r *InsightsRefresher) refresh() {

	start := time.Now()
	refreshed := 0

	for _, periodDays := range r.periods {
		period := time.Duration(periodDays) * 24 * time.Hour
		for _, insightType := range marketInsightTypes {
			_, err := r.generator.Generate(context.Background(), marketProfileID, insightType, period)
			if err != nil {
				log.Errorf("failed to refresh %s insight for %dd period: %v", insightType, periodDays, err)
				continue
			}
			refreshed++
		}
	}

	log.Infof("refreshed %v market insights in %v", refreshed, time.Since(start))
}
