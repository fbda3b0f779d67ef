package services

import (
	"context"
	"testing"
	"time"

	"github.com/pathforge-labs/PathForge-sub002/internal/config"
	"github.com/pathforge-labs/PathForge-sub002/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockInsightGenerator struct {
	mock.Mock
}

func (m *mockInsightGenerator) Generate(ctx context.Context, profileID int,
	insightType models.InsightType, period time.Duration) (*models.MarketInsight, error) {
	args := m.Called(ctx, profileID, insightType, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MarketInsight), args.Error(1)
}

func Test_InsightsRefresher_RegeneratesEveryMarketInsightPerPeriod(t *testing.T) {

	generator := &mockInsightGenerator{}
	generator.On("Generate", mock.Anything, marketProfileID, mock.Anything, mock.Anything).
		Return(&models.MarketInsight{}, nil)

	refresher, err := NewInsightsRefresher(generator,
		config.InsightsConfig{TopSkills: 10, RefreshCron: "0 3 * * *"},
		config.FunnelConfig{PeriodGranularitiesDays: []int{7, 30}})
	assert.NoError(t, err)
	defer refresher.Stop()

	refresher.refresh()

	// 4 market insight types for each of the 2 configured periods
	generator.AssertNumberOfCalls(t, "Generate", 8)
	generator.AssertCalled(t, "Generate", mock.Anything, marketProfileID, models.SkillDemand, 7*24*time.Hour)
	generator.AssertCalled(t, "Generate", mock.Anything, marketProfileID, models.MarketHeat, 30*24*time.Hour)
}

func Test_InsightsRefresher_InvalidSchedule_Fails(t *testing.T) {

	_, err := NewInsightsRefresher(&mockInsightGenerator{},
		config.InsightsConfig{TopSkills: 10, RefreshCron: "not a schedule"},
		config.FunnelConfig{PeriodGranularitiesDays: []int{7}})

	assert.Error(t, err)
}
