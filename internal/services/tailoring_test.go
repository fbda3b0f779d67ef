package services

import (
	"context"
	"errors"
	"testing"

	"github.com/asaskevich/EventBus"
	"github.com/pathforge-labs/PathForge-sub002/internal/config"
	"github.com/pathforge-labs/PathForge-sub002/internal/domain/events"
	"github.com/pathforge-labs/PathForge-sub002/internal/domain/models"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
)

type stubProfiles struct {
	profile *models.Profile
}

func (s stubProfiles) GetByID(ctx context.Context, id int) (*models.Profile, error) {
	if s.profile == nil {
		return nil, models.NewNotFound("profile", id)
	}
	return s.profile, nil
}

type stubJobs struct {
	job *models.JobListing
}

func (s stubJobs) GetByID(ctx context.Context, id int) (*models.JobListing, error) {
	if s.job == nil {
		return nil, models.NewNotFound("job", id)
	}
	return s.job, nil
}

type stubCVs struct {
	added *models.TailoredCV
}

func (s *stubCVs) Add(ctx context.Context, cv *models.TailoredCV) error {
	cv.ID = 7
	s.added = cv
	return nil
}

var atsConfig = config.ATSConfig{KeywordSource: config.KeywordSourceJobDescription}

func newTestEngine(t *testing.T, bus EventBus.Bus, profile *models.Profile,
	job *models.JobListing, cvs *stubCVs) *TailoringEngine {

	engine, err := NewTailoringEngine(bus, stubProfiles{profile}, stubJobs{job}, cvs, atsConfig)
	assert.NoError(t, err)
	return engine
}

func Test_Tailor_ReordersContentAndRecordsDiffs(t *testing.T) {

	profile := &models.Profile{
		ID:      1,
		Summary: "Backend engineer building reliable services.",
		Skills:  []models.Skill{{Name: "Docker"}, {Name: "Go"}, {Name: "Python"}},
		Experience: []models.ExperienceEntry{{
			Title:   "Engineer",
			Company: "Initech",
			Bullets: []string{"Led release ceremonies", "Built APIs in Go"},
		}},
	}
	job := &models.JobListing{
		ID:             2,
		Title:          "Backend Engineer",
		RequiredSkills: []string{"Go", "Python"},
	}

	cvs := &stubCVs{}
	engine := newTestEngine(t, EventBus.New(), profile, job, cvs)

	cv, err := engine.Tailor(context.Background(), 1, 2)

	assert.NoError(t, err)
	assert.Equal(t, []string{"Go", "Python", "Docker"}, cv.Skills)
	assert.Equal(t, []string{"Built APIs in Go", "Led release ceremonies"}, cv.Experience[0].Bullets)
	assert.Contains(t, cv.Summary, "Backend engineer building reliable services.")
	assert.Greater(t, len(cv.Summary), len(profile.Summary))

	fields := lo.Map(cv.Diffs, func(d models.Diff, _ int) string { return d.Field })
	assert.ElementsMatch(t, []string{"skills", "summary", "experience[0]"}, fields)
	for _, diff := range cv.Diffs {
		assert.NotEmpty(t, diff.Reason)
	}

	assert.NotNil(t, cvs.added)
}

func Test_Tailor_SourceProfileIsNotMutated(t *testing.T) {

	profile := &models.Profile{
		ID:      1,
		Summary: "Engineer.",
		Skills:  []models.Skill{{Name: "Docker"}, {Name: "Go"}},
	}
	job := &models.JobListing{ID: 2, Title: "Go Developer", RequiredSkills: []string{"Go"}}

	engine := newTestEngine(t, EventBus.New(), profile, job, &stubCVs{})

	_, err := engine.Tailor(context.Background(), 1, 2)

	assert.NoError(t, err)
	assert.Equal(t, []string{"Docker", "Go"}, profile.SkillNames())
	assert.Equal(t, "Engineer.", profile.Summary)
}

func Test_Tailor_AlignedProfile_EmitsNoDiffs(t *testing.T) {

	profile := &models.Profile{
		ID:      1,
		Summary: "Go developer shipping production systems.",
		Skills:  []models.Skill{{Name: "Go"}},
		Experience: []models.ExperienceEntry{{
			Title:   "Developer",
			Company: "Initech",
			Bullets: []string{"Shipped Go services"},
		}},
	}
	job := &models.JobListing{ID: 2, Title: "Go Developer", RequiredSkills: []string{"Go"}}

	cvs := &stubCVs{}
	engine := newTestEngine(t, EventBus.New(), profile, job, cvs)

	cv, err := engine.Tailor(context.Background(), 1, 2)

	assert.NoError(t, err)
	assert.Empty(t, cv.Diffs)
	assert.Equal(t, profile.Summary, cv.Summary)
	assert.Equal(t, profile.SkillNames(), cv.Skills)
	assert.Equal(t, profile.Experience, cv.Experience)
}

func Test_Tailor_Twice_CreatesIndependentVariants(t *testing.T) {

	profile := &models.Profile{
		ID:      1,
		Summary: "Engineer.",
		Skills:  []models.Skill{{Name: "Python"}, {Name: "Go"}},
	}
	job := &models.JobListing{ID: 2, Title: "Go Developer", RequiredSkills: []string{"Go"}}

	cvs := &stubCVs{}
	engine := newTestEngine(t, EventBus.New(), profile, job, cvs)

	first, err := engine.Tailor(context.Background(), 1, 2)
	assert.NoError(t, err)
	second, err := engine.Tailor(context.Background(), 1, 2)
	assert.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.Equal(t, first.Skills, second.Skills)
	assert.Equal(t, first.Diffs, second.Diffs)
	assert.Equal(t, first.ATSScore, second.ATSScore)
}

func Test_Tailor_UnknownProfile_Fails(t *testing.T) {

	engine := newTestEngine(t, EventBus.New(), nil, &models.JobListing{ID: 2}, &stubCVs{})

	_, err := engine.Tailor(context.Background(), 1, 2)

	var notFound *models.NotFoundError
	assert.True(t, errors.As(err, &notFound))
	assert.Equal(t, "profile", notFound.Resource)
}

func Test_Tailor_PublishesTailoredEvent(t *testing.T) {

	profile := &models.Profile{ID: 1, Summary: "Engineer.", Skills: []models.Skill{{Name: "Go"}}}
	job := &models.JobListing{ID: 2, Title: "Go Developer", RequiredSkills: []string{"Go"}}

	bus := EventBus.New()
	var published []events.CVTailored
	err := bus.Subscribe(events.CVTailoredTopic, func(event events.CVTailored) {
		published = append(published, event)
	})
	assert.NoError(t, err)

	engine := newTestEngine(t, bus, profile, job, &stubCVs{})

	cv, err := engine.Tailor(context.Background(), 1, 2)

	assert.NoError(t, err)
	assert.Len(t, published, 1)
	assert.Equal(t, events.CVTailored{ProfileID: 1, JobID: 2, TailoredCVID: cv.ID}, published[0])
}

func Test_EvaluateATS_CleanDocument_ScoresFullWithNoSuggestions(t *testing.T) {

	cv := &models.TailoredCV{
		Summary: "Seasoned backend engineer designing resilient distributed platforms.",
		Skills:  []string{"Go"},
		Experience: []models.ExperienceEntry{{
			Title:   "Software Engineer",
			Company: "Initech",
			Bullets: []string{
				"Designed service meshes handling millions of requests",
				"Championed developer tooling improvements across five product groups",
				"Mentored junior colleagues through structured pairing sessions",
				"Reduced infrastructure spend through capacity planning",
				"Delivered Go microservices powering checkout",
			},
		}},
	}

	score, suggestions := evaluateATS(cv, []string{"go"})

	assert.Equal(t, 100, score)
	assert.Empty(t, suggestions)
}

func Test_EvaluateATS_MissingKeyword_Suggested(t *testing.T) {

	cv := &models.TailoredCV{
		Summary: "Backend engineer focused on reliable data pipelines and observability.",
		Skills:  []string{"Python"},
	}

	score, suggestions := evaluateATS(cv, []string{"python", "docker"})

	assert.Less(t, score, 100)
	assert.NotEmpty(t, suggestions)
	assert.Contains(t, suggestions[0], "docker")
}

func Test_EvaluateATS_FormattingViolations_Penalized(t *testing.T) {

	clean := &models.TailoredCV{Summary: "Plain text summary mentioning go twice, go indeed."}
	tabbed := &models.TailoredCV{Summary: "Plain\ttext | summary mentioning go twice, go indeed."}

	cleanScore, _ := evaluateATS(clean, nil)
	tabbedScore, tabbedSuggestions := evaluateATS(tabbed, nil)

	assert.Less(t, tabbedScore, cleanScore)
	assert.NotEmpty(t, tabbedSuggestions)
	assert.Contains(t, tabbedSuggestions[0], "tabs")
}
