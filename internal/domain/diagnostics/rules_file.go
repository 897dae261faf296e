package diagnostics

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/turtacn/SME-Diagnostics/pkg/errors"
	dg "github.com/turtacn/SME-Diagnostics/pkg/types/diagnosis"
)

// rulesFile is the on-disk YAML layout for rule-set overrides.  Every section
// is optional: an absent section keeps the compiled-in defaults, a present
// section replaces the defaults for the dimensions (or the whole template
// list) it names.
type rulesFile struct {
	Weights   []WeightTable                      `yaml:"weights"`
	Quality   map[dg.Dimension]QualityThresholds `yaml:"quality"`
	Templates []RemediationTemplate              `yaml:"templates"`
}

// LoadRuleSet reads a YAML rules file and overlays it on DefaultRuleSet.
// The result is validated so that a partial file can never leave a dimension
// without a weight table or quality thresholds.
func LoadRuleSet(path string) (RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RuleSet{}, errors.Wrap(err, errors.ErrCodeWeightTableInvalid,
			"failed to read rules file")
	}
	return ParseRuleSet(data)
}

// ParseRuleSet decodes YAML rule overrides and overlays them on DefaultRuleSet.
func ParseRuleSet(data []byte) (RuleSet, error) {
	var file rulesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return RuleSet{}, errors.Wrap(err, errors.ErrCodeSerialization,
			"failed to decode rules file")
	}

	rules := DefaultRuleSet()
	for _, t := range file.Weights {
		rules.Weights[t.Dimension] = t
	}
	for d, q := range file.Quality {
		rules.Quality[d] = q
	}
	if len(file.Templates) > 0 {
		rules.Templates = file.Templates
	}

	if err := rules.Validate(); err != nil {
		return RuleSet{}, err
	}
	return rules, nil
}

//Personal.AI order the ending
