package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

var (
	ErrorsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "core_errors_total",
			Help: "Total number of occurred errors.",
		},
		[]string{"type"},
	)
	ScoringDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "core_match_scoring_duration_seconds",
			Help:    "Duration of scoring a profile against the job corpus.",
			Buckets: []float64{0.01, 0.05, 0.25, 1, 5},
		},
	)
	TailoringStepDuration = prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "core_cv_tailoring_step_duration_seconds",
			Help:       "Duration of each step in the CV tailoring process.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"step"},
	)
	InsightGenerationDuration = prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "core_insight_generation_duration_seconds",
			Help:       "Duration of generating each insight type.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"type"},
	)
	ScoredCandidatesCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "core_match_candidates_scored_total",
			Help: "Total number of scored match candidates.",
		},
	)
	FunnelEventsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "core_funnel_events_recorded_total",
			Help: "Total number of recorded funnel events.",
		},
		[]string{"stage"},
	)
	DataQualityWarningsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "core_data_quality_warnings_total",
			Help: "Total number of records excluded from a metric for quality reasons.",
		},
		[]string{"metric"},
	)
)

func StartMetricsServer() {

	prometheus.MustRegister(ErrorsCounter)
	prometheus.MustRegister(ScoringDuration)
	prometheus.MustRegister(TailoringStepDuration)
	prometheus.MustRegister(InsightGenerationDuration)
	prometheus.MustRegister(ScoredCandidatesCounter)
	prometheus.MustRegister(FunnelEventsCounter)
	prometheus.MustRegister(DataQualityWarningsCounter)

	http.Handle("/metrics", promhttp.Handler())
	go func() {
		log.Fatal(http.ListenAndServe(":8080", nil))
	}()
}
