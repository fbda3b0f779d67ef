package services

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/pathforge-labs/PathForge-sub002/internal/config"
	"github.com/pathforge-labs/PathForge-sub002/internal/domain/events"
	"github.com/pathforge-labs/PathForge-sub002/internal/domain/models"
	"github.com/pathforge-labs/PathForge-sub002/internal/metrics"
	"github.com/samber/lo"
)

type profileRepository interface {
	GetByID(ctx context.Context, id int) (*models.Profile, error)
}

type jobRepository interface {
	GetByID(ctx context.Context, id int) (*models.JobListing, error)
}

type tailoredCVRepository interface {
	Add(ctx context.Context, cv *models.TailoredCV) error
}

// TailoringEngine produces job-specific CV variants with a field-level diff
// trail and an ATS compatibility score. Tailoring is deterministic and never
// mutates the source profile; re-tailoring the same pair is uncapped, each
// call creates its own independently addressable record.
type TailoringEngine struct {
	bus           EventBus.Bus
	profiles      profileRepository
	jobs          jobRepository
	cvs           tailoredCVRepository
	extraKeywords []string
}

func NewTailoringEngine(bus EventBus.Bus, profiles profileRepository, jobs jobRepository,
	cvs tailoredCVRepository, cfg config.ATSConfig) (*TailoringEngine, error) {

	engine := &TailoringEngine{
		bus:      bus,
		profiles: profiles,
		jobs:     jobs,
		cvs:      cvs,
	}

	if cfg.KeywordSource == config.KeywordSourceFile {
		content, err := os.ReadFile(cfg.KeywordsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read ats keywords file: %w", err)
		}
		for _, line := range strings.Split(string(content), "\n") {
			if keyword := normalizeSkill(line); keyword != "" {
				engine.extraKeywords = append(engine.extraKeywords, keyword)
			}
		}
	}

	return engine, nil
}

func (t *TailoringEngine) Tailor(ctx context.Context, profileID int, jobID int) (*models.TailoredCV, error) {

	profile, err := t.profiles.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}

	job, err := t.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	required := t.requiredTerms(job)

	cv := &models.TailoredCV{ProfileID: profileID, JobID: jobID}
	var diffs []models.Diff

	start := time.Now()
	cv.Skills, diffs = t.tailorSkills(profile, job, required, diffs)
	metrics.TailoringStepDuration.WithLabelValues("skills").Observe(time.Since(start).Seconds())

	start = time.Now()
	cv.Summary, diffs = t.tailorSummary(profile, job, required, diffs)
	metrics.TailoringStepDuration.WithLabelValues("summary").Observe(time.Since(start).Seconds())

	start = time.Now()
	cv.Experience, diffs = t.tailorExperience(profile, required, diffs)
	metrics.TailoringStepDuration.WithLabelValues("experience").Observe(time.Since(start).Seconds())

	cv.Diffs = diffs

	start = time.Now()
	cv.ATSScore, cv.ATSSuggestions = evaluateATS(cv, required)
	metrics.TailoringStepDuration.WithLabelValues("ats").Observe(time.Since(start).Seconds())

	if err = t.cvs.Add(ctx, cv); err != nil {
		return nil, err
	}

	t.bus.Publish(events.CVTailoredTopic, events.CVTailored{
		ProfileID:    profileID,
		JobID:        jobID,
		TailoredCVID: cv.ID,
	})

	return cv, nil
}

// requiredTerms is the job's keyword/requirement set the tailored text is
// aligned to, normalized and deduplicated.
func (t *TailoringEngine) requiredTerms(job *models.JobListing) []string {
	terms := lo.Map(job.RequiredSkills, func(s string, _ int) string { return normalizeSkill(s) })
	terms = append(terms, t.extraKeywords...)
	return lo.Uniq(lo.Filter(terms, func(s string, _ int) bool { return s != "" }))
}

// tailorSkills reorders the profile's skills so the job-required ones come
// first; nothing is ever added or invented.
func (t *TailoringEngine) tailorSkills(profile *models.Profile, job *models.JobListing,
	required []string, diffs []models.Diff) ([]string, []models.Diff) {

	original := profile.SkillNames()

	matching, rest := lo.FilterReject(original, func(name string, _ int) bool {
		return lo.SomeBy(required, func(term string) bool {
			return matchesSkill(name, term)
		})
	})

	tailored := append(append([]string{}, matching...), rest...)

	originalText := strings.Join(original, ", ")
	tailoredText := strings.Join(tailored, ", ")
	if originalText != tailoredText {
		diffs = append(diffs, models.Diff{
			Field:    "skills",
			Original: originalText,
			Modified: tailoredText,
			Reason: fmt.Sprintf("%q lists %s among its requirements; matching skills moved first",
				job.Title, strings.Join(matching, ", ")),
		})
	}

	return tailored, diffs
}

// tailorSummary appends a competency sentence covering required terms the
// profile demonstrably has (in its skill list) but the summary doesn't
// mention. A summary already covering them is left unchanged.
func (t *TailoringEngine) tailorSummary(profile *models.Profile, job *models.JobListing,
	required []string, diffs []models.Diff) (string, []models.Diff) {

	summaryTokens := tokenSet(profile.Summary)

	var missing []string
	for _, term := range required {
		if containsTerm(summaryTokens, term) {
			continue
		}
		if lo.SomeBy(profile.Skills, func(s models.Skill) bool { return matchesSkill(s.Name, term) }) {
			missing = append(missing, term)
		}
	}

	if len(missing) == 0 {
		return profile.Summary, diffs
	}

	tailored := strings.TrimSpace(profile.Summary)
	if tailored != "" {
		tailored += " "
	}
	tailored += fmt.Sprintf("Hands-on experience with %s.", strings.Join(missing, ", "))

	diffs = append(diffs, models.Diff{
		Field:    "summary",
		Original: profile.Summary,
		Modified: tailored,
		Reason: fmt.Sprintf("the listing requires %s, which the profile has but the summary omitted",
			strings.Join(missing, ", ")),
	})

	return tailored, diffs
}

// tailorExperience reorders each entry's bullets to lead with the ones
// mentioning required terms. Bullet text itself is never rewritten.
func (t *TailoringEngine) tailorExperience(profile *models.Profile,
	required []string, diffs []models.Diff) ([]models.ExperienceEntry, []models.Diff) {

	tailored := make([]models.ExperienceEntry, len(profile.Experience))

	for i, entry := range profile.Experience {
		tailored[i] = entry
		if len(entry.Bullets) < 2 {
			continue
		}

		hits := lo.Map(entry.Bullets, func(bullet string, _ int) int {
			tokens := tokenSet(bullet)
			return lo.CountBy(required, func(term string) bool { return containsTerm(tokens, term) })
		})

		order := lo.RangeFrom(0, len(entry.Bullets))
		sort.SliceStable(order, func(a, b int) bool {
			return hits[order[a]] > hits[order[b]]
		})
		reordered := lo.Map(order, func(idx int, _ int) string { return entry.Bullets[idx] })

		if strings.Join(reordered, "\n") != strings.Join(entry.Bullets, "\n") {
			tailored[i].Bullets = reordered
			diffs = append(diffs, models.Diff{
				Field:    fmt.Sprintf("experience[%d]", i),
				Original: strings.Join(entry.Bullets, "\n"),
				Modified: strings.Join(reordered, "\n"),
				Reason: fmt.Sprintf("bullets mentioning required terms (%s) moved first for %s at %s",
					strings.Join(required, ", "), entry.Title, entry.Company),
			})
		} else {
			tailored[i].Bullets = entry.Bullets
		}
	}

	return tailored, diffs
}

func matchesSkill(skillName string, requiredTerm string) bool {
	return lo.Some(skillVariants(skillName), skillVariants(requiredTerm))
}

const maxSummaryWords = 120

// evaluateATS scores the tailored text against the required term set:
// 60% keyword coverage, 25% formatting compliance, 15% keyword density.
// Suggestions are emitted only for gaps; an empty list means the score is
// already near-maximal.
func evaluateATS(cv *models.TailoredCV, required []string) (int, []string) {

	var parts []string
	parts = append(parts, cv.Summary)
	parts = append(parts, cv.Skills...)
	for _, entry := range cv.Experience {
		parts = append(parts, entry.Title, entry.Company)
		parts = append(parts, entry.Bullets...)
	}
	fullText := strings.Join(parts, "\n")
	tokens := tokenSet(fullText)

	coverage := 1.0
	var missing []string
	if len(required) > 0 {
		for _, term := range required {
			if !containsTerm(tokens, term) {
				missing = append(missing, term)
			}
		}
		coverage = float64(len(required)-len(missing)) / float64(len(required))
	}

	violations := formattingViolations(cv)
	formatting := 1 - float64(len(violations))/3
	if formatting < 0 {
		formatting = 0
	}

	density, densityIssue := keywordDensity(fullText, required)

	score := int(math.Round(60*coverage + 25*formatting + 15*density))

	var suggestions []string
	for _, term := range missing {
		suggestions = append(suggestions,
			fmt.Sprintf("add required keyword %q where it reflects real experience", term))
	}
	suggestions = append(suggestions, violations...)
	if densityIssue != "" {
		suggestions = append(suggestions, densityIssue)
	}

	return score, suggestions
}

func formattingViolations(cv *models.TailoredCV) []string {

	var violations []string

	text := cv.Summary + strings.Join(cv.Skills, " ")
	for _, entry := range cv.Experience {
		text += strings.Join(entry.Bullets, " ")
	}

	if strings.ContainsAny(text, "\t|") {
		violations = append(violations, "remove tabs and table characters: ATS parsers misread tabular layouts")
	}
	if strings.ContainsRune(text, '•') {
		violations = append(violations, "replace decorative bullet glyphs with plain text")
	}
	if len(strings.Fields(cv.Summary)) > maxSummaryWords {
		violations = append(violations,
			fmt.Sprintf("shorten the summary to at most %d words", maxSummaryWords))
	}

	return violations
}

// keywordDensity rewards a required-term share between 2% and 12% of all
// tokens; outside that band the score falls off linearly.
func keywordDensity(text string, required []string) (float64, string) {

	const low, high = 0.02, 0.12

	words := tokenize(text)
	if len(words) == 0 || len(required) == 0 {
		return 1, ""
	}

	occurrences := 0
	for _, word := range words {
		wordStem := stem(word)
		for _, term := range required {
			if lo.SomeBy(skillVariants(term), func(v string) bool {
				return !strings.Contains(v, " ") && stem(v) == wordStem
			}) {
				occurrences++
				break
			}
		}
	}

	density := float64(occurrences) / float64(len(words))

	switch {
	case density < low:
		return density / low, "weave required keywords into the experience bullets; density is low"
	case density > high:
		return math.Max(0, 1-(density-high)/high), "reduce keyword repetition; the text reads as stuffed"
	default:
		return 1, ""
	}
}
