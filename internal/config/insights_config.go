package config

import "fmt"

type InsightsConfig struct {
	TopSkills   int    `mapstructure:"top_skills"`
	RefreshCron string `mapstructure:"refresh_cron"`
}

func (config InsightsConfig) validate() error {

	if config.TopSkills <= 0 {
		return fmt.Errorf("top_skills must be positive")
	}

	if config.RefreshCron == "" {
		return fmt.Errorf("missing variable: refresh_cron")
	}

	return nil
}
