package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// InterviewConfig drives the question taxonomy: how many top-level
// questions the interview holds and how they are split across categories.
type InterviewConfig struct {
	QuestionBudget  int        `yaml:"question_budget"`
	MinSubQuestions int        `yaml:"min_sub_questions"`
	MaxSubQuestions int        `yaml:"max_sub_questions"`
	Categories      []Category `yaml:"categories"`
}

type Category struct {
	Name  string `yaml:"name"`
	Count int    `yaml:"count"`
}

// LoadInterviewConfig reads and validates the interview taxonomy from a YAML file.
func LoadInterviewConfig(filename string) (*InterviewConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", filename, err)
	}

	var cfg InterviewConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse interview config: %w", err)
	}

	if err := validateInterviewConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid interview config: %w", err)
	}

	return &cfg, nil
}

func validateInterviewConfig(cfg *InterviewConfig) error {
	if cfg.QuestionBudget <= 0 {
		return fmt.Errorf("question_budget must be greater than 0")
	}

	if cfg.MinSubQuestions <= 0 || cfg.MaxSubQuestions < cfg.MinSubQuestions {
		return fmt.Errorf("sub-question bounds must satisfy 0 < min <= max, got min=%d max=%d",
			cfg.MinSubQuestions, cfg.MaxSubQuestions)
	}

	if len(cfg.Categories) == 0 {
		return fmt.Errorf("at least one category is required")
	}

	total := 0
	for i, category := range cfg.Categories {
		if category.Name == "" {
			return fmt.Errorf("category %d must have a name", i)
		}
		if category.Count <= 0 {
			return fmt.Errorf("category %q must have a positive count", category.Name)
		}
		total += category.Count
	}

	if total != cfg.QuestionBudget {
		return fmt.Errorf("category counts sum to %d but question_budget is %d",
			total, cfg.QuestionBudget)
	}

	return nil
}
