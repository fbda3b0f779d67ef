package config

import "fmt"

const (
	// KeywordSourceJobDescription extracts the required term set from the
	// listing's description and required skills.
	KeywordSourceJobDescription = "job_description"
	// KeywordSourceFile reads an additional curated keyword list from a file.
	KeywordSourceFile = "file"
)

type ATSConfig struct {
	KeywordSource string `mapstructure:"keyword_source"`
	KeywordsFile  string `mapstructure:"keywords_file"`
}

func (config ATSConfig) validate() error {

	switch config.KeywordSource {
	case KeywordSourceJobDescription:
		return nil
	case KeywordSourceFile:
		if config.KeywordsFile == "" {
			return fmt.Errorf("keywords_file is required when keyword_source is %q", KeywordSourceFile)
		}
		return nil
	default:
		return fmt.Errorf("unknown keyword source: %q", config.KeywordSource)
	}
}
