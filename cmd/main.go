package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/asaskevich/EventBus"
	"github.com/pathforge-labs/PathForge-sub002/internal/clients/gemini"
	"github.com/pathforge-labs/PathForge-sub002/internal/config"
	"github.com/pathforge-labs/PathForge-sub002/internal/logger"
	"github.com/pathforge-labs/PathForge-sub002/internal/metrics"
	"github.com/pathforge-labs/PathForge-sub002/internal/repositories"
	"github.com/pathforge-labs/PathForge-sub002/internal/services"
	log "github.com/sirupsen/logrus"
)

func runMatchRefresher(ctx context.Context, cfg *config.Config, bus EventBus.Bus,
	profiles *repositories.Profiles, jobs *repositories.Jobs, matches *repositories.Matches) {

	embedClient, err := gemini.NewClient(ctx, cfg.Embeddings.APIKey, gemini.Model(cfg.Embeddings.Model))
	if err != nil {
		log.Fatalf("can't create embedding client: %v", err)
	}
	embedClient.SetMinuteRateLimit(cfg.Embeddings.MaxRequestsPerMinute)
	embedClient.SetDayRateLimit(cfg.Embeddings.MaxRequestsPerDay)

	vectorizer := services.NewProfileVectorizer(embedClient, profiles, cfg.Matching)
	scorer := services.NewMatchScorer(bus, matches, cfg.Matching)

	refresher := services.NewMatchRefresher(vectorizer, scorer, profiles, jobs)
	go refresher.Run()
}

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Get()

	logger.Setup(cfg.Logger)
	defer logger.Cleanup()

	metrics.StartMetricsServer()

	dbContext, err := repositories.NewDbContext(cfg.DB.ConnectionString)
	if err != nil {
		log.Fatalf("can't create db context: %v", err)
	}
	defer dbContext.Close()

	err = dbContext.Migrate()
	if err != nil {
		log.Fatalf("can't migrate db context: %v", err)
	}

	profiles := repositories.NewProfilesRepository(dbContext.DB)
	jobs := repositories.NewJobsRepository(dbContext.DB)
	matches := repositories.NewMatchesRepository(dbContext.DB)
	funnelEvents := repositories.NewFunnelEventsRepository(dbContext.DB)
	insights := repositories.NewCachedInsights(repositories.NewInsightsRepository(dbContext.DB))

	bus := EventBus.New()

	_, err = services.NewFunnelRecorder(bus, funnelEvents)
	if err != nil {
		log.Fatalf("can't create funnel recorder: %v", err)
	}

	generator := services.NewInsightGenerator(jobs, funnelEvents, insights, cfg.Insights)
	insightsRefresher, err := services.NewInsightsRefresher(generator, cfg.Insights, cfg.Funnel)
	if err != nil {
		log.Fatalf("can't create insights refresher: %v", err)
	}
	defer insightsRefresher.Stop()

	runMatchRefresher(ctx, cfg, bus, profiles, jobs, matches)

	<-ctx.Done()

	log.Info("Shutting down services...")
	log.Info("Services stopped.")
}
