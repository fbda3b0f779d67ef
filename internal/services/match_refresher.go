package services

import (
	"context"
	"sync"
	"time"

	"github.com/pathforge-labs/PathForge-sub002/internal/domain/models"
	"github.com/pathforge-labs/PathForge-sub002/internal/logger"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

type pagedProfileRepository interface {
	Get(ctx context.Context, limit int, offset int) ([]models.Profile, error)
}

type publishedJobsReader interface {
	GetPublishedBetween(ctx context.Context, from time.Time, to time.Time) ([]models.JobListing, error)
}

// MatchRefresher keeps match scores warm: it periodically embeds profiles
// that have no vector yet and re-ranks every profile against the jobs
// published in the lookback window.
type MatchRefresher struct {
	vectorizer      *ProfileVectorizer
	scorer          *MatchScorer
	profiles        pagedProfileRepository
	jobs            publishedJobsReader
	refreshInterval time.Duration
	jobsLookback    time.Duration
}

func NewMatchRefresher(vectorizer *ProfileVectorizer, scorer *MatchScorer,
	profiles pagedProfileRepository, jobs publishedJobsReader) *MatchRefresher {

	return &MatchRefresher{
		vectorizer:      vectorizer,
		scorer:          scorer,
		profiles:        profiles,
		jobs:            jobs,
		refreshInterval: 3 * time.Hour,
		jobsLookback:    30 * 24 * time.Hour,
	}
}

func (r *MatchRefresher) Run() {
	for {
		startTime := time.Now()
		log.Infof("running match refresh at %v", startTime)

		r.runRefresh()

		executionTime := time.Since(startTime)
		log.Infof("match refresh ended after %v", executionTime)

		var sleepTime time.Duration
		if executionTime <= r.refreshInterval {
			sleepTime = r.refreshInterval - executionTime
		} else {
			r.refreshInterval = executionTime + time.Hour
			log.Infof("match refresh interval exceeded to %v", r.refreshInterval)
		}

		log.Infof("next match refresh time is %v", time.Now().Add(sleepTime))
		time.Sleep(sleepTime)
	}
}

func (r *MatchRefresher) runRefresh() {

	ctx := context.Background()

	now := time.Now()
	jobs, err := r.jobs.GetPublishedBetween(ctx, now.Add(-r.jobsLookback), now)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to get recent jobs: %v", err)
		return
	}
	jobs = lo.Filter(jobs, func(job models.JobListing, _ int) bool {
		return job.Vector.Dim() > 0
	})
	if len(jobs) == 0 {
		log.Info("no recent embedded jobs, skipping match refresh")
		return
	}

	var pageSize, refreshedTotal = 20, 0

	for offset := 0; ; offset += pageSize {

		profiles, err := r.profiles.Get(ctx, pageSize, offset)
		if err != nil {
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("failed to get profiles: %v", err)
			break
		}
		if len(profiles) == 0 {
			break
		}

		var wg sync.WaitGroup
		for i := range profiles {
			wg.Add(1)
			go func(profile models.Profile) {
				defer wg.Done()
				r.refreshProfile(ctx, profile, jobs)
			}(profiles[i])
		}

		wg.Wait()
		refreshedTotal += len(profiles)
	}

	log.Infof("refreshed matches for %v profiles against %v jobs", refreshedTotal, len(jobs))
}

func (r *MatchRefresher) refreshProfile(ctx context.Context, profile models.Profile, jobs []models.JobListing) {

	if profile.Vector.Dim() == 0 {
		vector, err := r.vectorizer.Vectorize(ctx, &profile)
		if err != nil {
			log.Errorf("failed to vectorize profile %v: %v", profile.ID, err)
			return
		}
		profile.Vector = vector
	}

	if _, err := r.scorer.ScoreAll(ctx, &profile, jobs); err != nil {
		log.Errorf("failed to score profile %v: %v", profile.ID, err)
	}
}
