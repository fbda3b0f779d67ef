package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/pathforge-labs/PathForge-sub002/internal/config"
	"github.com/pathforge-labs/PathForge-sub002/internal/domain/models"
	"github.com/samber/lo"
)

type funnelEventsReader interface {
	GetByProfileInWindow(ctx context.Context, profileID int, from time.Time, to time.Time) ([]models.FunnelEvent, error)
}

// FunnelAggregator converts a profile's lifecycle events into ordered stage
// counts and conversion rates. Every call recomputes from the raw event log;
// there is no cached state to go stale.
type FunnelAggregator struct {
	events funnelEventsReader
	cfg    config.FunnelConfig
	now    func() time.Time
}

func NewFunnelAggregator(events funnelEventsReader, cfg config.FunnelConfig) *FunnelAggregator {
	return &FunnelAggregator{events: events, cfg: cfg, now: time.Now}
}

// ComputeFunnel aggregates the half-open window [now-period, now). The
// period must be one of the configured granularities.
func (f *FunnelAggregator) ComputeFunnel(ctx context.Context, profileID int, period time.Duration) (models.FunnelMetrics, error) {

	if !f.cfg.AllowsPeriod(period) {
		return models.FunnelMetrics{}, models.NewValidation("period", period.String(),
			fmt.Sprintf("period must be one of the configured granularities %v (days)", f.cfg.PeriodGranularitiesDays))
	}

	to := f.now()
	events, err := f.events.GetByProfileInWindow(ctx, profileID, to.Add(-period), to)
	if err != nil {
		return models.FunnelMetrics{}, err
	}

	return AggregateFunnel(events), nil
}

// AggregateFunnel is the pure aggregation over an event slice. Terminal
// stages are mutually exclusive per job: only the latest terminal event per
// (profile, job) counts. The funnel is reported as all-zero with
// TotalEvents=0 when there is no stage-0 activity.
func AggregateFunnel(events []models.FunnelEvent) models.FunnelMetrics {

	counts := make(map[models.FunnelStage]int)

	for _, event := range events {
		if !event.Stage.IsTerminal() {
			counts[event.Stage]++
		}
	}

	latestTerminal := make(map[int]models.FunnelEvent)
	for _, event := range events {
		if !event.Stage.IsTerminal() {
			continue
		}
		prior, seen := latestTerminal[event.JobID]
		if !seen || event.CreatedAt.After(prior.CreatedAt) ||
			(event.CreatedAt.Equal(prior.CreatedAt) && event.ID > prior.ID) {
			latestTerminal[event.JobID] = event
		}
	}
	for _, event := range latestTerminal {
		counts[event.Stage]++
	}

	allStages := append(models.LinearStages(), models.TerminalStages()...)

	base := counts[models.StageViewed]
	if base == 0 {
		return models.FunnelMetrics{
			Stages: lo.Map(allStages, func(stage models.FunnelStage, _ int) models.StageMetrics {
				return models.StageMetrics{Stage: stage}
			}),
			TotalEvents: 0,
		}
	}

	metrics := models.FunnelMetrics{}
	for _, stage := range allStages {
		count := counts[stage]
		// the window can clip a job's earlier-stage events, so a later
		// stage may count higher than stage 0; the rate is capped at 100
		rate := int(math.Round(float64(count) / float64(base) * 100))
		if rate > 100 {
			rate = 100
		}
		metrics.Stages = append(metrics.Stages, models.StageMetrics{
			Stage:          stage,
			Count:          count,
			ConversionRate: rate,
		})
		metrics.TotalEvents += count
	}

	return metrics
}
