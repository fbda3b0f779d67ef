package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/pathforge-labs/PathForge-sub002/internal/config"
	"github.com/pathforge-labs/PathForge-sub002/internal/domain/events"
	"github.com/pathforge-labs/PathForge-sub002/internal/domain/models"
	"github.com/pathforge-labs/PathForge-sub002/internal/logger"
	"github.com/pathforge-labs/PathForge-sub002/internal/metrics"
	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

type matchRepository interface {
	Upsert(ctx context.Context, candidate models.MatchCandidate) error
}

// MatchScorer computes explainable compatibility scores between a profile
// and job listings. Scoring is pure: identical inputs always yield identical
// scores, so candidates see stable rankings across a session.
type MatchScorer struct {
	bus     EventBus.Bus
	matches matchRepository
	cfg     config.MatchingConfig
}

func NewMatchScorer(bus EventBus.Bus, matches matchRepository, cfg config.MatchingConfig) *MatchScorer {
	return &MatchScorer{bus: bus, matches: matches, cfg: cfg}
}

// Score computes the weighted compatibility of one (profile, job) pair.
// Terms whose input signal is absent (no required skills, unknown seniority)
// are dropped and the remaining weights renormalized.
func (m *MatchScorer) Score(profile *models.Profile, job *models.JobListing) (models.MatchCandidate, error) {

	if profile.Vector.Dim() != m.cfg.VectorDimension {
		return models.MatchCandidate{}, models.NewValidation("profile_vector", profile.Vector.Dim(),
			fmt.Sprintf("dimension must be %d", m.cfg.VectorDimension))
	}
	if job.Vector.Dim() != m.cfg.VectorDimension {
		return models.MatchCandidate{}, models.NewValidation("job_vector", job.Vector.Dim(),
			fmt.Sprintf("dimension must be %d", m.cfg.VectorDimension))
	}

	semantic := clamp01(profile.Vector.Cosine(job.Vector))

	var parts []string
	weightSum := m.cfg.SemanticWeight
	weighted := m.cfg.SemanticWeight * semantic

	breakdown := models.ScoreBreakdown{Semantic: semantic}
	parts = append(parts, fmt.Sprintf("+%.2f semantic fit", m.cfg.SemanticWeight*semantic))

	if len(job.RequiredSkills) > 0 {
		overlap, matched, missing := skillOverlap(profile, job)
		breakdown.SkillOverlap = overlap
		weightSum += m.cfg.SkillWeight
		weighted += m.cfg.SkillWeight * overlap
		parts = append(parts, describeSkills(m.cfg.SkillWeight*overlap, matched, missing))
	}

	if expected, ok := job.Seniority.ExpectedYears(); ok {
		years := profile.TotalExperienceYears()
		alignment := seniorityAlignment(years, expected)
		breakdown.SeniorityAlignment = alignment
		weightSum += m.cfg.SeniorityWeight
		weighted += m.cfg.SeniorityWeight * alignment
		parts = append(parts, fmt.Sprintf("+%.2f seniority alignment (%.1fy vs ~%.0fy expected)",
			m.cfg.SeniorityWeight*alignment, years, expected))
	}

	overall := weighted / weightSum

	return models.MatchCandidate{
		ProfileID:    profile.ID,
		JobID:        job.ID,
		OverallScore: overall,
		Breakdown:    breakdown,
		Explanation:  strings.Join(parts, "; "),
	}, nil
}

// ScoreAll scores the profile against the whole corpus, persists the
// candidates and returns them ranked. An empty corpus is not an error: the
// caller gets an empty list with Total=0.
func (m *MatchScorer) ScoreAll(ctx context.Context, profile *models.Profile, jobs []models.JobListing) (models.RankedMatches, error) {

	start := time.Now()
	defer func() {
		metrics.ScoringDuration.Observe(time.Since(start).Seconds())
	}()

	if len(jobs) == 0 {
		return models.RankedMatches{Candidates: []models.MatchCandidate{}, Total: 0}, nil
	}

	jobByID := lo.KeyBy(jobs, func(j models.JobListing) int { return j.ID })

	candidates := make([]models.MatchCandidate, 0, len(jobs))
	for i := range jobs {
		candidate, err := m.Score(profile, &jobs[i])
		if err != nil {
			return models.RankedMatches{}, err
		}
		candidates = append(candidates, candidate)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].OverallScore != candidates[j].OverallScore {
			return candidates[i].OverallScore > candidates[j].OverallScore
		}
		pubI := jobByID[candidates[i].JobID].PublishedAt
		pubJ := jobByID[candidates[j].JobID].PublishedAt
		if !pubI.Equal(pubJ) {
			return pubI.After(pubJ)
		}
		return candidates[i].JobID < candidates[j].JobID
	})

	for _, candidate := range candidates {
		if err := m.matches.Upsert(ctx, candidate); err != nil {
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
				Errorf("failed to upsert match candidate: %v", err)
			return models.RankedMatches{}, err
		}
		metrics.ScoredCandidatesCounter.Inc()
	}

	m.bus.Publish(events.MatchesComputedTopic, events.MatchesComputed{
		ProfileID: profile.ID,
		Total:     len(candidates),
		TopJobID:  candidates[0].JobID,
	})

	return models.RankedMatches{Candidates: candidates, Total: len(candidates)}, nil
}

// skillOverlap returns |skills∩required| / |required| plus the matched and
// missing required skills in the listing's original casing.
func skillOverlap(profile *models.Profile, job *models.JobListing) (float64, []string, []string) {

	profileSkills := make(map[string]struct{})
	for _, skill := range profile.Skills {
		for _, variant := range skillVariants(skill.Name) {
			profileSkills[variant] = struct{}{}
		}
	}

	var matched, missing []string
	for _, required := range job.RequiredSkills {
		if hasSkill(profileSkills, required) {
			matched = append(matched, required)
		} else {
			missing = append(missing, required)
		}
	}

	return float64(len(matched)) / float64(len(job.RequiredSkills)), matched, missing
}

func hasSkill(profileSkills map[string]struct{}, required string) bool {
	for _, variant := range skillVariants(required) {
		if _, ok := profileSkills[variant]; ok {
			return true
		}
	}
	return false
}

// seniorityAlignment decays linearly with the gap between the profile's
// total experience and the listing's expected years; a gap of four years or
// more zeroes the term. The term is asymmetric on purpose: it compares the
// profile against the listing, never the other way around.
func seniorityAlignment(years float64, expected float64) float64 {
	return 1 - math.Min(1, math.Abs(years-expected)/4)
}

func describeSkills(contribution float64, matched []string, missing []string) string {
	part := fmt.Sprintf("+%.2f skill overlap", contribution)
	if len(matched) > 0 {
		part += ": " + strings.Join(matched, ", ")
	}
	if len(missing) > 0 {
		part += fmt.Sprintf(" (missing: %s)", strings.Join(missing, ", "))
	}
	return part
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
