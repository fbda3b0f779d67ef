package config

import "fmt"

type ExperimentsConfig struct {
	// WinnerEpsilon is the margin within which the two variants' primary
	// signals are considered a tie (no winner).
	WinnerEpsilon float64 `mapstructure:"winner_epsilon"`
}

func (config ExperimentsConfig) validate() error {

	if config.WinnerEpsilon < 0 || config.WinnerEpsilon >= 1 {
		return fmt.Errorf("winner epsilon must be in [0, 1)")
	}

	return nil
}
