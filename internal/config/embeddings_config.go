package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type EmbeddingsConfig struct {
	APIKey               string  `mapstructure:"api_key"`
	Model                string  `mapstructure:"model"`
	MaxRequestsPerMinute float32 `mapstructure:"max_requests_per_minute"`
	MaxRequestsPerDay    float32 `mapstructure:"max_requests_per_day"`
}

func (config EmbeddingsConfig) validate() error {

	if config.APIKey == "" {
		return fmt.Errorf("missing variable: api_key")
	}

	if config.Model == "" {
		return fmt.Errorf("missing variable: model")
	}

	return nil
}

func (config EmbeddingsConfig) bindEnvironmentVariables() error {
	var errs []error

	if err := viper.BindEnv("embeddings.api_key", "EMBEDDINGS_API_KEY"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("embeddings.model", "EMBEDDINGS_MODEL"); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return createMultiError(errs)
	}

	return nil
}
