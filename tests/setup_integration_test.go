package tests

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/pathforge-labs/PathForge-sub002/internal/config"
	"github.com/pathforge-labs/PathForge-sub002/internal/domain/models"
	"github.com/pathforge-labs/PathForge-sub002/internal/repositories"
	log "github.com/sirupsen/logrus"
)

var dbCtx *repositories.DbContext

func upEnvironment() {

	os.Setenv("DB_CONNECTION_STRING", "testdatabase.db")
	cfg := config.Get()

	var err error
	dbCtx, err = repositories.NewDbContext(cfg.DB.ConnectionString)
	if err != nil {
		log.Fatalf("could not create db context: %s", err)
	}

	err = dbCtx.Migrate()
	if err != nil {
		log.Fatalf("could not migrate db: %s", err)
	}
}

func downEnvironment() {
	_ = dbCtx.Close()
	_ = os.Remove("testdatabase.db")
}

func TestMain(m *testing.M) {

	err := os.Chdir("../") //project root to resolve correctly relative paths in code
	if err != nil {
		log.Fatal(err)
	}

	upEnvironment()

	code := m.Run()

	downEnvironment()

	os.Exit(code)
}

func addProfile(t *testing.T, mutate func(*models.Profile)) *models.Profile {

	profile := &models.Profile{
		Summary: "Backend engineer building data-heavy services.",
		Skills:  []models.Skill{{Name: "Go"}, {Name: "Python"}, {Name: "SQL"}},
		Experience: []models.ExperienceEntry{{
			Title:   "Engineer",
			Company: "Initech",
			Bullets: []string{"Built billing pipelines", "Shipped Go services"},
		}},
		Vector: models.Vector{1, 0, 0},
	}
	if mutate != nil {
		mutate(profile)
	}

	profiles := repositories.NewProfilesRepository(dbCtx.DB)
	if err := profiles.Add(context.Background(), profile); err != nil {
		t.Fatalf("could not add profile: %s", err)
	}
	return profile
}

func addJob(t *testing.T, mutate func(*models.JobListing)) *models.JobListing {

	job := &models.JobListing{
		Title:          "Backend Engineer",
		Company:        "Globex",
		RequiredSkills: []string{"Go", "SQL"},
		Vector:         models.Vector{1, 0, 0},
		PublishedAt:    time.Now().Add(-24 * time.Hour),
	}
	if mutate != nil {
		mutate(job)
	}

	jobs := repositories.NewJobsRepository(dbCtx.DB)
	if err := jobs.Add(context.Background(), job); err != nil {
		t.Fatalf("could not add job: %s", err)
	}
	return job
}
