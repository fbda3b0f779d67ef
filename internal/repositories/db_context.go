package repositories

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/pathforge-labs/PathForge-sub002/internal/domain/models"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type DbContext struct {
	DB *gorm.DB
}

func NewDbContext(connectionString string) (*DbContext, error) {
	db, err := gorm.Open(sqlite.Open(connectionString), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return nil, err
	}

	return &DbContext{DB: db}, nil
}

func (c *DbContext) Migrate() error {
	err := c.DB.AutoMigrate(models.Profile{})
	if err != nil {
		return fmt.Errorf("failed to migrate Profile entity: %w", err)
	}

	err = c.DB.AutoMigrate(models.JobListing{})
	if err != nil {
		return fmt.Errorf("failed to migrate JobListing entity: %w", err)
	}

	err = c.DB.AutoMigrate(models.MatchCandidate{})
	if err != nil {
		return fmt.Errorf("failed to migrate MatchCandidate entity: %w", err)
	}

	err = c.DB.AutoMigrate(models.TailoredCV{})
	if err != nil {
		return fmt.Errorf("failed to migrate TailoredCV entity: %w", err)
	}

	err = c.DB.AutoMigrate(models.Experiment{})
	if err != nil {
		return fmt.Errorf("failed to migrate Experiment entity: %w", err)
	}

	err = c.DB.AutoMigrate(models.FunnelEvent{})
	if err != nil {
		return fmt.Errorf("failed to migrate FunnelEvent entity: %w", err)
	}

	err = c.DB.AutoMigrate(models.MarketInsight{})
	if err != nil {
		return fmt.Errorf("failed to migrate MarketInsight entity: %w", err)
	}

	if err = c.DB.Exec("CREATE INDEX IF NOT EXISTS idx_funnel_profile_created ON funnel_events (profile_id, created_at); " +
		"CREATE INDEX IF NOT EXISTS idx_insight_key ON market_insights (profile_id, type, period_days, current);").
		Error; err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}

func (c *DbContext) Close() error {
	db, err := c.DB.DB()
	if err != nil {
		return err
	}

	return db.Close()
}
