package diagnostics

import (
	"github.com/turtacn/SME-Diagnostics/pkg/errors"
	dg "github.com/turtacn/SME-Diagnostics/pkg/types/diagnosis"
)

// Version stamps attached to every diagnosis output.
const (
	ModelVersion  = "rules-2024.2"
	PromptVersion = "n/a"
)

// RuleSet bundles the externally loadable rule data the engine runs on:
// weight tables, data-quality thresholds, and remediation templates.
// Deployments may override any part from configuration; DefaultRuleSet is the
// built-in baseline.
type RuleSet struct {
	Weights   map[dg.Dimension]WeightTable
	Quality   map[dg.Dimension]QualityThresholds
	Templates []RemediationTemplate
}

// DefaultRuleSet returns the built-in rule set.
func DefaultRuleSet() RuleSet {
	return RuleSet{
		Weights:   DefaultWeightTables(),
		Quality:   DefaultQualityThresholds(),
		Templates: DefaultRemediationTemplates(),
	}
}

// Validate checks that the rule set covers every dimension.
func (rs RuleSet) Validate() error {
	for _, d := range dg.AllDimensions() {
		t, ok := rs.Weights[d]
		if !ok {
			return errors.New(errors.ErrCodeWeightTableInvalid,
				"missing weight table for dimension "+string(d))
		}
		if err := t.Validate(); err != nil {
			return err
		}
		if _, ok := rs.Quality[d]; !ok {
			return errors.New(errors.ErrCodeWeightTableInvalid,
				"missing quality thresholds for dimension "+string(d))
		}
	}
	if len(rs.Templates) == 0 {
		return errors.New(errors.ErrCodeTemplateTableInvalid, "remediation template table is empty")
	}
	return nil
}

// Engine is the diagnostics pipeline.  It is stateless apart from the
// immutable rule set, so one Engine is safe for concurrent use across
// goroutines.
type Engine struct {
	rules RuleSet
}

// NewEngine builds an engine on the given rule set.
func NewEngine(rules RuleSet) (*Engine, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	return &Engine{rules: rules}, nil
}

// Diagnose runs the full pipeline over one input bundle.  The computation is
// pure: no I/O, no shared mutable state, and byte-identical output for
// byte-identical input.
func (e *Engine) Diagnose(in *dg.Input) (*dg.Output, error) {
	if in == nil {
		return nil, errors.InvalidParam("diagnostics input is nil")
	}
	if in.Profile.ID == "" {
		return nil, errors.NewValidation("profile.id is required")
	}

	coverage := AssessCoverage(in)

	// Score the six dimensions in canonical order.
	var scores dg.Scores
	explanations := make([]dg.ScoreExplanation, 0, len(dg.AllDimensions()))
	extract := extractors()
	for _, d := range dg.AllDimensions() {
		ex := extract[d](in)
		score := WeightedScore(ex.factors, e.rules.Weights[d])
		scores.Set(d, score)
		explanations = append(explanations, dg.ScoreExplanation{
			Dimension:       d,
			Score:           score,
			Band:            ReadinessBand(score),
			Positives:       emptyIfNil(ex.positives),
			Negatives:       emptyIfNil(ex.negatives),
			DataQuality:     e.rules.Quality[d].Tier(len(ex.factors)),
			Recommendations: ex.recs,
		})
	}

	mean := scores.Mean()
	band := OverallHealthBand(mean)
	stage := DetectStage(in, mean)
	swot := SynthesizeSWOT(in, scores, explanations)
	bottlenecks := GenerateBottlenecks(explanations)
	recommendations := GenerateRecommendations(bottlenecks, explanations, e.rules.Templates)
	partners := MatchPartners(in, scores)
	opportunities := MatchOpportunities(in, scores)
	summary := ComposeNarrative(in, scores, band, bottlenecks)

	return &dg.Output{
		OverallSummary:         summary,
		HealthBand:             band,
		Stage:                  stage,
		SWOT:                   swot,
		Scores:                 scores,
		ScoreExplanations:      explanations,
		Bottlenecks:            bottlenecks,
		Recommendations:        recommendations,
		RecommendedPartners:    partners,
		SuggestedOpportunities: opportunities,
		Meta: dg.Meta{
			ModelVersion:  ModelVersion,
			PromptVersion: PromptVersion,
			DataCoverage:  coverage.Tier,
			DataSources:   coverage.Sources,
			GeneratedAt:   in.AsOf,
		},
	}, nil
}

func emptyIfNil(evs []dg.Evidence) []dg.Evidence {
	if evs == nil {
		return []dg.Evidence{}
	}
	return evs
}

//Personal.AI order the ending
