package tests

import (
	"context"
	"testing"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/pathforge-labs/PathForge-sub002/internal/config"
	"github.com/pathforge-labs/PathForge-sub002/internal/domain/models"
	"github.com/pathforge-labs/PathForge-sub002/internal/repositories"
	"github.com/pathforge-labs/PathForge-sub002/internal/services"
	"github.com/stretchr/testify/assert"
)

var matchingConfig = config.MatchingConfig{
	SemanticWeight:  0.5,
	SkillWeight:     0.3,
	SeniorityWeight: 0.2,
	VectorDimension: 3,
}

var atsConfig = config.ATSConfig{KeywordSource: config.KeywordSourceJobDescription}

func Test_Scoring_RescoringKeepsDismissedFlag(t *testing.T) {

	ctx := context.Background()
	profile := addProfile(t, nil)
	jobA := addJob(t, nil)
	jobB := addJob(t, func(j *models.JobListing) { j.Vector = models.Vector{0, 1, 0} })

	matches := repositories.NewMatchesRepository(dbCtx.DB)
	scorer := services.NewMatchScorer(EventBus.New(), matches, matchingConfig)

	jobs := []models.JobListing{*jobA, *jobB}

	ranked, err := scorer.ScoreAll(ctx, profile, jobs)
	assert.NoError(t, err)
	assert.Equal(t, 2, ranked.Total)
	assert.Equal(t, jobA.ID, ranked.Candidates[0].JobID)

	err = matches.Dismiss(ctx, profile.ID, jobA.ID)
	assert.NoError(t, err)

	_, err = scorer.ScoreAll(ctx, profile, jobs)
	assert.NoError(t, err)

	active, err := matches.GetActiveByProfile(ctx, profile.ID)
	assert.NoError(t, err)
	assert.Len(t, active, 1)
	assert.Equal(t, jobB.ID, active[0].JobID)
}

func Test_Scoring_RescoringDoesNotDuplicateCandidates(t *testing.T) {

	ctx := context.Background()
	profile := addProfile(t, nil)
	job := addJob(t, nil)

	matches := repositories.NewMatchesRepository(dbCtx.DB)
	scorer := services.NewMatchScorer(EventBus.New(), matches, matchingConfig)

	for i := 0; i < 3; i++ {
		_, err := scorer.ScoreAll(ctx, profile, []models.JobListing{*job})
		assert.NoError(t, err)
	}

	active, err := matches.GetActiveByProfile(ctx, profile.ID)
	assert.NoError(t, err)
	assert.Len(t, active, 1)
}

func Test_Tailoring_RecordsFunnelEventAndAggregates(t *testing.T) {

	ctx := context.Background()
	profile := addProfile(t, nil)
	job := addJob(t, func(j *models.JobListing) { j.RequiredSkills = []string{"Go", "Docker"} })

	profiles := repositories.NewProfilesRepository(dbCtx.DB)
	jobs := repositories.NewJobsRepository(dbCtx.DB)
	cvs := repositories.NewTailoredCVsRepository(dbCtx.DB)
	funnelEvents := repositories.NewFunnelEventsRepository(dbCtx.DB)

	bus := EventBus.New()
	recorder, err := services.NewFunnelRecorder(bus, funnelEvents)
	assert.NoError(t, err)

	engine, err := services.NewTailoringEngine(bus, profiles, jobs, cvs, atsConfig)
	assert.NoError(t, err)

	assert.NoError(t, recorder.Record(ctx, profile.ID, job.ID, "viewed", time.Now().Add(-2*time.Hour), nil))

	cv, err := engine.Tailor(ctx, profile.ID, job.ID)
	assert.NoError(t, err)
	assert.NotZero(t, cv.ID)
	assert.NotEmpty(t, cv.Diffs)

	stored, err := cvs.GetByProfileAndJob(ctx, profile.ID, job.ID)
	assert.NoError(t, err)
	assert.Len(t, stored, 1)

	aggregator := services.NewFunnelAggregator(funnelEvents, config.FunnelConfig{PeriodGranularitiesDays: []int{7}})
	metrics, err := aggregator.ComputeFunnel(ctx, profile.ID, 7*24*time.Hour)
	assert.NoError(t, err)

	counts := map[models.FunnelStage]int{}
	for _, stage := range metrics.Stages {
		counts[stage.Stage] = stage.Count
	}
	assert.Equal(t, 1, counts[models.StageViewed])
	assert.Equal(t, 1, counts[models.StageCVTailored])
	assert.Equal(t, 2, metrics.TotalEvents)
}

func Test_Experiment_WinnerDerivedFromFunnelEvents(t *testing.T) {

	ctx := context.Background()
	profile := addProfile(t, nil)
	job := addJob(t, nil)

	profiles := repositories.NewProfilesRepository(dbCtx.DB)
	jobs := repositories.NewJobsRepository(dbCtx.DB)
	cvs := repositories.NewTailoredCVsRepository(dbCtx.DB)
	funnelEvents := repositories.NewFunnelEventsRepository(dbCtx.DB)
	experiments := repositories.NewExperimentsRepository(dbCtx.DB)

	engine, err := services.NewTailoringEngine(EventBus.New(), profiles, jobs, cvs, atsConfig)
	assert.NoError(t, err)

	variantA, err := engine.Tailor(ctx, profile.ID, job.ID)
	assert.NoError(t, err)
	variantB, err := engine.Tailor(ctx, profile.ID, job.ID)
	assert.NoError(t, err)

	recorder, err := services.NewFunnelRecorder(EventBus.New(), funnelEvents)
	assert.NoError(t, err)

	recordVariantEvent := func(cvID int, stage models.FunnelStage) {
		err := recorder.Record(ctx, profile.ID, job.ID, string(stage),
			time.Now().Add(-time.Hour), &cvID)
		assert.NoError(t, err)
	}

	recordVariantEvent(variantA.ID, models.StageApplied)
	recordVariantEvent(variantA.ID, models.StageApplied)
	recordVariantEvent(variantA.ID, models.StageInterviewing)
	recordVariantEvent(variantB.ID, models.StageApplied)

	evaluator := services.NewExperimentEvaluator(experiments, cvs, funnelEvents,
		config.ExperimentsConfig{WinnerEpsilon: 0.05})

	experiment, err := evaluator.Create(ctx, variantA.ID, variantB.ID, "leading with Go experience converts better")
	assert.NoError(t, err)

	_, err = evaluator.Start(ctx, experiment.ID)
	assert.NoError(t, err)

	completed, err := evaluator.EvaluateFromFunnel(ctx, experiment.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.ExperimentCompleted, completed.Status)
	assert.NotNil(t, completed.WinnerID)
	assert.Equal(t, variantA.ID, *completed.WinnerID)

	stored, err := experiments.GetByID(ctx, experiment.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.ExperimentCompleted, stored.Status)
	assert.NotNil(t, stored.CompletedAt)

	_, err = evaluator.EvaluateFromFunnel(ctx, experiment.ID)
	assert.Error(t, err)
}

func Test_Insights_NewGenerationSupersedesCurrent(t *testing.T) {

	ctx := context.Background()

	addJob(t, func(j *models.JobListing) { j.SalaryText = "$100k - $120k" })
	addJob(t, func(j *models.JobListing) { j.SalaryText = "competitive" })

	jobs := repositories.NewJobsRepository(dbCtx.DB)
	funnelEvents := repositories.NewFunnelEventsRepository(dbCtx.DB)
	insights := repositories.NewInsightsRepository(dbCtx.DB)

	generator := services.NewInsightGenerator(jobs, funnelEvents, insights,
		config.InsightsConfig{TopSkills: 10, RefreshCron: "0 3 * * *"})

	first, err := generator.Generate(ctx, 0, models.SalaryTrend, 7*24*time.Hour)
	assert.NoError(t, err)

	second, err := generator.Generate(ctx, 0, models.SalaryTrend, 7*24*time.Hour)
	assert.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)

	current, err := insights.GetCurrent(ctx, 0, models.SalaryTrend, 7)
	assert.NoError(t, err)
	assert.Equal(t, second.ID, current.ID)
	assert.True(t, current.Current)

	history, err := insights.GetHistory(ctx, 0, models.SalaryTrend, 7)
	assert.NoError(t, err)
	assert.GreaterOrEqual(t, len(history), 2)

	superseded, err := insights.GetHistory(ctx, 0, models.SalaryTrend, 7)
	assert.NoError(t, err)
	currentCount := 0
	for _, insight := range superseded {
		if insight.Current {
			currentCount++
		}
	}
	assert.Equal(t, 1, currentCount)
}

func Test_CachedInsights_SaveInvalidatesCachedRead(t *testing.T) {

	ctx := context.Background()

	jobs := repositories.NewJobsRepository(dbCtx.DB)
	funnelEvents := repositories.NewFunnelEventsRepository(dbCtx.DB)
	cached := repositories.NewCachedInsights(repositories.NewInsightsRepository(dbCtx.DB))

	generator := services.NewInsightGenerator(jobs, funnelEvents, cached,
		config.InsightsConfig{TopSkills: 10, RefreshCron: "0 3 * * *"})

	first, err := generator.Generate(ctx, 0, models.SkillDemand, 7*24*time.Hour)
	assert.NoError(t, err)

	read, err := cached.GetCurrent(ctx, 0, models.SkillDemand, 7)
	assert.NoError(t, err)
	assert.Equal(t, first.ID, read.ID)

	second, err := generator.Generate(ctx, 0, models.SkillDemand, 7*24*time.Hour)
	assert.NoError(t, err)

	read, err = cached.GetCurrent(ctx, 0, models.SkillDemand, 7)
	assert.NoError(t, err)
	assert.Equal(t, second.ID, read.ID)
}

func Test_Profiles_AttachVectorBumpsVersion(t *testing.T) {

	ctx := context.Background()
	profile := addProfile(t, func(p *models.Profile) { p.Vector = nil })

	profiles := repositories.NewProfilesRepository(dbCtx.DB)

	err := profiles.AttachVector(ctx, profile.ID, models.Vector{0, 1, 0})
	assert.NoError(t, err)

	stored, err := profiles.GetByID(ctx, profile.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.Vector{0, 1, 0}, stored.Vector)
	assert.Equal(t, 1, stored.VectorVersion)

	err = profiles.AttachVector(ctx, profile.ID, models.Vector{0, 0, 1})
	assert.NoError(t, err)

	stored, err = profiles.GetByID(ctx, profile.ID)
	assert.NoError(t, err)
	assert.Equal(t, 2, stored.VectorVersion)
}

func Test_FunnelEvents_WindowIsHalfOpen(t *testing.T) {

	ctx := context.Background()
	profile := addProfile(t, nil)
	funnelEvents := repositories.NewFunnelEventsRepository(dbCtx.DB)

	from := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 5, 8, 0, 0, 0, 0, time.UTC)

	for _, at := range []time.Time{from.Add(-time.Second), from, to.Add(-time.Second), to} {
		err := funnelEvents.Append(ctx, &models.FunnelEvent{
			ProfileID: profile.ID,
			JobID:     1,
			Stage:     models.StageViewed,
			CreatedAt: at,
		})
		assert.NoError(t, err)
	}

	events, err := funnelEvents.GetByProfileInWindow(ctx, profile.ID, from, to)
	assert.NoError(t, err)
	assert.Len(t, events, 2)
}
