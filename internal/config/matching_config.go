package config

import "fmt"

// MatchingConfig holds the match scoring weight set and the platform-wide
// vector dimension. Weights are normalized by their sum at scoring time.
type MatchingConfig struct {
	SemanticWeight  float64 `mapstructure:"semantic_weight"`
	SkillWeight     float64 `mapstructure:"skill_weight"`
	SeniorityWeight float64 `mapstructure:"seniority_weight"`
	VectorDimension int     `mapstructure:"vector_dimension"`
}

func (config MatchingConfig) validate() error {

	if config.SemanticWeight < 0 || config.SkillWeight < 0 || config.SeniorityWeight < 0 {
		return fmt.Errorf("matching weights must be non-negative")
	}

	if config.SemanticWeight+config.SkillWeight+config.SeniorityWeight == 0 {
		return fmt.Errorf("at least one matching weight must be positive")
	}

	if config.VectorDimension <= 0 {
		return fmt.Errorf("vector dimension must be positive")
	}

	return nil
}
