package evaluation

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Case is one row of the golden dataset.
type Case struct {
	Query                 string   `yaml:"query"`
	ExpectedIntent        string   `yaml:"expected_intent"`
	ExpectedPrimarySource string   `yaml:"expected_primary_source"`
	AcceptableSources     []string `yaml:"acceptable_sources"`
	ExpectedServices      []string `yaml:"expected_services"`
	ExpectedReferenceIDs  []string `yaml:"expected_reference_ids"`
	IsOutOfScope          bool     `yaml:"is_out_of_scope"`
}

func LoadDataset(path string) ([]Case, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}

	var cases []Case
	if err := yaml.Unmarshal(raw, &cases); err != nil {
		return nil, fmt.Errorf("parse dataset: %w", err)
	}

	for i, c := range cases {
		if c.Query == "" {
			return nil, fmt.Errorf("dataset case %d: query is required", i)
		}
		if c.ExpectedIntent == "" {
			return nil, fmt.Errorf("dataset case %d: expected_intent is required", i)
		}
	}
	return cases, nil
}
