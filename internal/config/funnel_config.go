package config

import (
	"fmt"
	"time"

	"github.com/samber/lo"
)

// FunnelConfig lists the recognized aggregation period granularities.
type FunnelConfig struct {
	PeriodGranularitiesDays []int `mapstructure:"period_granularities_days"`
}

func (config FunnelConfig) validate() error {

	if len(config.PeriodGranularitiesDays) == 0 {
		return fmt.Errorf("at least one period granularity is required")
	}

	if lo.SomeBy(config.PeriodGranularitiesDays, func(d int) bool { return d <= 0 }) {
		return fmt.Errorf("period granularities must be positive")
	}

	return nil
}

// AllowsPeriod reports whether the period matches one of the configured
// granularities exactly.
func (config FunnelConfig) AllowsPeriod(period time.Duration) bool {
	return lo.SomeBy(config.PeriodGranularitiesDays, func(d int) bool {
		return period == time.Duration(d)*24*time.Hour
	})
}
