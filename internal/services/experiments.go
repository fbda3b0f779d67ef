package services

import (
	"context"
	"math"
	"time"

	"github.com/pathforge-labs/PathForge-sub002/internal/config"
	"github.com/pathforge-labs/PathForge-sub002/internal/domain/models"
	"github.com/samber/lo"
)

type experimentRepository interface {
	Add(ctx context.Context, experiment *models.Experiment) error
	GetByID(ctx context.Context, id int) (*models.Experiment, error)
	Update(ctx context.Context, experiment *models.Experiment) error
}

type tailoredCVReader interface {
	GetByID(ctx context.Context, id int) (*models.TailoredCV, error)
}

type variantEventsReader interface {
	GetByTailoredCV(ctx context.Context, tailoredCVID int) ([]models.FunnelEvent, error)
}

// ExperimentEvaluator manages two-variant CV experiments. The state machine
// only moves forward: draft → running → completed; completed is terminal, so
// Evaluate is callable exactly once per experiment.
type ExperimentEvaluator struct {
	experiments experimentRepository
	cvs         tailoredCVReader
	events      variantEventsReader
	epsilon     float64
	now         func() time.Time
}

func NewExperimentEvaluator(experiments experimentRepository, cvs tailoredCVReader,
	events variantEventsReader, cfg config.ExperimentsConfig) *ExperimentEvaluator {

	return &ExperimentEvaluator{
		experiments: experiments,
		cvs:         cvs,
		events:      events,
		epsilon:     cfg.WinnerEpsilon,
		now:         time.Now,
	}
}

func (e *ExperimentEvaluator) Create(ctx context.Context, variantAID int, variantBID int,
	hypothesis string) (*models.Experiment, error) {

	if variantAID == variantBID {
		return nil, models.NewValidation("variant_b_id", variantBID, "variants must differ")
	}

	variantA, err := e.cvs.GetByID(ctx, variantAID)
	if err != nil {
		return nil, err
	}
	variantB, err := e.cvs.GetByID(ctx, variantBID)
	if err != nil {
		return nil, err
	}

	if variantA.ProfileID != variantB.ProfileID {
		return nil, models.NewValidation("variant_b_id", variantBID, "variants must belong to the same profile")
	}

	experiment := &models.Experiment{
		VariantAID: variantAID,
		VariantBID: variantBID,
		Hypothesis: hypothesis,
		Status:     models.ExperimentDraft,
	}

	if err = e.experiments.Add(ctx, experiment); err != nil {
		return nil, err
	}
	return experiment, nil
}

func (e *ExperimentEvaluator) Start(ctx context.Context, id int) (*models.Experiment, error) {

	experiment, err := e.experiments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err = experiment.Start(); err != nil {
		return nil, err
	}

	if err = e.experiments.Update(ctx, experiment); err != nil {
		return nil, err
	}
	return experiment, nil
}

// Evaluate completes a running experiment. The variant with the strictly
// higher primary signal wins; a difference within epsilon is a tie and
// leaves the winner unset, which is a valid terminal state.
func (e *ExperimentEvaluator) Evaluate(ctx context.Context, id int,
	signalsA models.OutcomeSignals, signalsB models.OutcomeSignals) (*models.Experiment, error) {

	experiment, err := e.experiments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var winner *int
	diff := signalsA.InterviewRate - signalsB.InterviewRate
	if math.Abs(diff) > e.epsilon {
		if diff > 0 {
			winner = &experiment.VariantAID
		} else {
			winner = &experiment.VariantBID
		}
	}

	if err = experiment.Complete(winner, e.now()); err != nil {
		return nil, err
	}

	if err = e.experiments.Update(ctx, experiment); err != nil {
		return nil, err
	}
	return experiment, nil
}

// EvaluateFromFunnel derives both variants' outcome signals from the funnel
// events referencing their tailored CVs, then evaluates.
func (e *ExperimentEvaluator) EvaluateFromFunnel(ctx context.Context, id int) (*models.Experiment, error) {

	experiment, err := e.experiments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	eventsA, err := e.events.GetByTailoredCV(ctx, experiment.VariantAID)
	if err != nil {
		return nil, err
	}
	eventsB, err := e.events.GetByTailoredCV(ctx, experiment.VariantBID)
	if err != nil {
		return nil, err
	}

	return e.Evaluate(ctx, id, SignalsFromFunnel(eventsA), SignalsFromFunnel(eventsB))
}

// SignalsFromFunnel computes a variant's outcome rates over the applications
// it was used for: interview rate is interviews per application, response
// rate counts any post-application movement including rejections.
func SignalsFromFunnel(events []models.FunnelEvent) models.OutcomeSignals {

	applied := lo.CountBy(events, func(e models.FunnelEvent) bool { return e.Stage == models.StageApplied })
	if applied == 0 {
		return models.OutcomeSignals{}
	}

	interviews := lo.CountBy(events, func(e models.FunnelEvent) bool { return e.Stage == models.StageInterviewing })
	responses := lo.CountBy(events, func(e models.FunnelEvent) bool {
		switch e.Stage {
		case models.StageInterviewing, models.StageOffered, models.StageAccepted, models.StageRejected:
			return true
		default:
			return false
		}
	})

	return models.OutcomeSignals{
		InterviewRate: float64(interviews) / float64(applied),
		ResponseRate:  float64(responses) / float64(applied),
	}
}
