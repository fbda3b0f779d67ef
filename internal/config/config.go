package config

import (
	"errors"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	Logger      LoggerConfig      `mapstructure:"logger"`
	DB          DBConfig          `mapstructure:"db"`
	Matching    MatchingConfig    `mapstructure:"matching"`
	ATS         ATSConfig         `mapstructure:"ats"`
	Funnel      FunnelConfig      `mapstructure:"funnel"`
	Experiments ExperimentsConfig `mapstructure:"experiments"`
	Insights    InsightsConfig    `mapstructure:"insights"`
	Embeddings  EmbeddingsConfig  `mapstructure:"embeddings"`
}

var configFile = "./configs/config.yaml"

func Get() *Config {

	if value, _ := os.LookupEnv("MODE"); value == "test" {
		configFile = "../../configs/config.yaml"
	}

	config, err := loadConfig(configFile)
	if err != nil {
		log.Fatal(err)
	}

	return config
}

func loadConfig(file string) (*Config, error) {

	viper.SetConfigFile(file)
	viper.AutomaticEnv()

	viper.SetDefault("MODE", "release")
	setDefaults()

	err := bindEnvironmentVariables()
	if err != nil {
		return nil, err
	}

	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("Error reading config file, %s", err)
	}

	config := Config{}
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	err = config.validate()
	if err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("matching.semantic_weight", 0.5)
	viper.SetDefault("matching.skill_weight", 0.3)
	viper.SetDefault("matching.seniority_weight", 0.2)
	viper.SetDefault("matching.vector_dimension", 1024)
	viper.SetDefault("ats.keyword_source", "job_description")
	viper.SetDefault("funnel.period_granularities_days", []int{7, 30, 90})
	viper.SetDefault("experiments.winner_epsilon", 0.05)
	viper.SetDefault("insights.top_skills", 10)
	viper.SetDefault("insights.refresh_cron", "0 3 * * *")
}

func bindEnvironmentVariables() error {
	var errs []error

	db, logger, embeddings := DBConfig{}, LoggerConfig{}, EmbeddingsConfig{}

	if err := db.bindEnvironmentVariables(); err != nil {
		errs = append(errs, fmt.Errorf("DBConfig: %w", err))
	}

	if err := logger.bindEnvironmentVariables(); err != nil {
		errs = append(errs, fmt.Errorf("LoggerConfig: %w", err))
	}

	if err := embeddings.bindEnvironmentVariables(); err != nil {
		errs = append(errs, fmt.Errorf("EmbeddingsConfig: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred: %w", errors.Join(errs...))
	}

	return nil
}

func (config Config) validate() error {
	var errs []error

	if err := config.DB.validate(); err != nil {
		errs = append(errs, fmt.Errorf("DBConfig: %w", err))
	}

	if err := config.Logger.validate(); err != nil {
		errs = append(errs, fmt.Errorf("LoggerConfig: %w", err))
	}

	if err := config.Matching.validate(); err != nil {
		errs = append(errs, fmt.Errorf("MatchingConfig: %w", err))
	}

	if err := config.ATS.validate(); err != nil {
		errs = append(errs, fmt.Errorf("ATSConfig: %w", err))
	}

	if err := config.Funnel.validate(); err != nil {
		errs = append(errs, fmt.Errorf("FunnelConfig: %w", err))
	}

	if err := config.Experiments.validate(); err != nil {
		errs = append(errs, fmt.Errorf("ExperimentsConfig: %w", err))
	}

	if err := config.Insights.validate(); err != nil {
		errs = append(errs, fmt.Errorf("InsightsConfig: %w", err))
	}

	if err := config.Embeddings.validate(); err != nil {
		errs = append(errs, fmt.Errorf("EmbeddingsConfig: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred: %w", errors.Join(errs...))
	}

	return nil
}
