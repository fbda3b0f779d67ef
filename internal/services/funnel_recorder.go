package services

import (
	"context"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/pathforge-labs/PathForge-sub002/internal/domain/events"
	"github.com/pathforge-labs/PathForge-sub002/internal/domain/models"
	"github.com/pathforge-labs/PathForge-sub002/internal/logger"
	"github.com/pathforge-labs/PathForge-sub002/internal/metrics"
	log "github.com/sirupsen/logrus"
)

type funnelAppender interface {
	Append(ctx context.Context, event *models.FunnelEvent) error
}

// FunnelRecorder appends lifecycle events to the funnel log. The external
// event-capture layer calls Record directly; the cv_tailored stage is
// recorded automatically off the tailoring engine's bus event.
type FunnelRecorder struct {
	events funnelAppender
}

func NewFunnelRecorder(bus EventBus.Bus, repo funnelAppender) (*FunnelRecorder, error) {

	recorder := &FunnelRecorder{events: repo}
	if err := bus.Subscribe(events.CVTailoredTopic, recorder.onCVTailored); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeBus).
			Errorf("failed to subscribe to %s: %v", events.CVTailoredTopic, err)
		return nil, err
	}
	return recorder, nil
}

// Record appends one lifecycle event. tailoredCVID is optional and links the
// event to the CV variant it was driven by, so applied and interviewing
// events can feed experiment evaluation.
func (r *FunnelRecorder) Record(ctx context.Context, profileID int, jobID int,
	stageName string, at time.Time, tailoredCVID *int) error {

	stage, err := models.ParseFunnelStage(stageName)
	if err != nil {
		return err
	}

	event := &models.FunnelEvent{
		ProfileID:    profileID,
		JobID:        jobID,
		Stage:        stage,
		TailoredCVID: tailoredCVID,
		CreatedAt:    at,
	}

	if err = r.events.Append(ctx, event); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
			Errorf("failed to append funnel event: %v", err)
		return err
	}

	metrics.FunnelEventsCounter.WithLabelValues(string(stage)).Inc()
	return nil
}

func (r *FunnelRecorder) onCVTailored(event events.CVTailored) {

	funnelEvent := &models.FunnelEvent{
		ProfileID:    event.ProfileID,
		JobID:        event.JobID,
		Stage:        models.StageCVTailored,
		TailoredCVID: &event.TailoredCVID,
		CreatedAt:    time.Now(),
	}

	if err := r.events.Append(context.Background(), funnelEvent); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
			Errorf("failed to record cv_tailored funnel event: %v", err)
		return
	}

	metrics.FunnelEventsCounter.WithLabelValues(string(models.StageCVTailored)).Inc()
}
