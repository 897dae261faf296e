package diagnostics

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dg "github.com/turtacn/SME-Diagnostics/pkg/types/diagnosis"
)

func TestNewEngine_RejectsBrokenRuleSet(t *testing.T) {
	rules := DefaultRuleSet()
	delete(rules.Weights, dg.DimensionDigitalMaturity)
	_, err := NewEngine(rules)
	assert.Error(t, err)

	rules = DefaultRuleSet()
	rules.Templates = nil
	_, err = NewEngine(rules)
	assert.Error(t, err)
}

func TestDiagnose_InputValidation(t *testing.T) {
	e := mustEngine()

	_, err := e.Diagnose(nil)
	assert.Error(t, err)

	_, err = e.Diagnose(&dg.Input{AsOf: testAsOf})
	assert.Error(t, err)
}

func TestDiagnose_ScoresInRange(t *testing.T) {
	e := mustEngine()

	for _, in := range []*dg.Input{minimalInput(), richInput()} {
		out, err := e.Diagnose(in)
		require.NoError(t, err)
		for _, d := range dg.AllDimensions() {
			s := out.Scores.Get(d)
			assert.GreaterOrEqual(t, s, 0, "%s", d)
			assert.LessOrEqual(t, s, 100, "%s", d)
		}
		// Explanations come back in canonical dimension order.
		require.Len(t, out.ScoreExplanations, 6)
		for i, d := range dg.AllDimensions() {
			assert.Equal(t, d, out.ScoreExplanations[i].Dimension)
		}
	}
}

func TestDiagnose_Deterministic(t *testing.T) {
	e := mustEngine()

	a, err := e.Diagnose(richInput())
	require.NoError(t, err)
	b, err := e.Diagnose(richInput())
	require.NoError(t, err)

	ja, err := json.Marshal(a)
	require.NoError(t, err)
	jb, err := json.Marshal(b)
	require.NoError(t, err)
	assert.Equal(t, string(ja), string(jb))
}

func TestDiagnose_MinimalProfileScenario(t *testing.T) {
	e := mustEngine()

	out, err := e.Diagnose(minimalInput())
	require.NoError(t, err)

	// Unregistered, undocumented business: funding readiness is low and the
	// funding data quality is flagged.
	funding := out.Explanation(dg.DimensionFundingReadiness)
	require.NotNil(t, funding)
	assert.Less(t, funding.Score, 30)
	assert.Equal(t, dg.DataQualityLow, funding.DataQuality)

	// A registration recommendation surfaces.
	assert.True(t, mentionsPACRA(funding.Recommendations, out.Recommendations),
		"expected a PACRA registration recommendation")

	assert.Equal(t, dg.CoverageMinimal, out.Meta.DataCoverage)
	assert.Equal(t, dg.StageEarly, out.Stage)
}

func mentionsPACRA(explanationRecs []string, recs []dg.Recommendation) bool {
	for _, r := range explanationRecs {
		if strings.Contains(r, "PACRA") {
			return true
		}
	}
	for _, r := range recs {
		if strings.Contains(r.Action, "registration") || strings.Contains(r.Action, "PACRA") {
			return true
		}
		for _, s := range r.Steps {
			if strings.Contains(s, "PACRA") {
				return true
			}
		}
	}
	return false
}

func TestDiagnose_RichProfileScenario(t *testing.T) {
	e := mustEngine()

	out, err := e.Diagnose(richInput())
	require.NoError(t, err)

	assert.Equal(t, dg.HealthThriving, out.HealthBand)
	// Six years tenure, 29 headcount, high mean -> scale.
	assert.Equal(t, dg.StageScale, out.Stage)
	assert.Equal(t, dg.CoverageComprehensive, out.Meta.DataCoverage)
	assert.Empty(t, out.Bottlenecks)
	assert.Equal(t, testAsOf, out.Meta.GeneratedAt)

	assert.Contains(t, out.Meta.DataSources, SourceProfile)
	assert.Contains(t, out.Meta.DataSources, SourceFinancial)
	assert.Contains(t, out.Meta.DataSources, SourceDocuments)
}

func TestDiagnose_RecommendationPriorities(t *testing.T) {
	e := mustEngine()

	out, err := e.Diagnose(minimalInput())
	require.NoError(t, err)
	require.NotEmpty(t, out.Recommendations)
	assert.LessOrEqual(t, len(out.Recommendations), maxRecommendations)

	// Priorities strictly increase from 1 and NOW precedes NEXT precedes LATER.
	tierRank := map[dg.Timeline]int{dg.TimelineNow: 0, dg.TimelineNext: 1, dg.TimelineLater: 2}
	for i, r := range out.Recommendations {
		assert.Equal(t, i+1, r.Priority)
		if i > 0 {
			prev := out.Recommendations[i-1]
			assert.LessOrEqual(t, tierRank[prev.Timeline], tierRank[r.Timeline])
		}
	}
}

func TestDiagnose_BottleneckOrdering(t *testing.T) {
	e := mustEngine()

	out, err := e.Diagnose(minimalInput())
	require.NoError(t, err)
	require.NotEmpty(t, out.Bottlenecks)
	assert.LessOrEqual(t, len(out.Bottlenecks), maxBottlenecks)

	for i := 1; i < len(out.Bottlenecks); i++ {
		assert.LessOrEqual(t,
			dg.SeverityRank(out.Bottlenecks[i-1].Severity),
			dg.SeverityRank(out.Bottlenecks[i].Severity))
		// Critical is reserved, never emitted by current rules.
		assert.NotEqual(t, dg.SeverityCritical, out.Bottlenecks[i].Severity)
	}
}

func TestDiagnose_MatcherProperties(t *testing.T) {
	e := mustEngine()

	for _, in := range []*dg.Input{minimalInput(), richInput()} {
		out, err := e.Diagnose(in)
		require.NoError(t, err)

		assert.LessOrEqual(t, len(out.RecommendedPartners), maxMatches)
		for i := 1; i < len(out.RecommendedPartners); i++ {
			assert.GreaterOrEqual(t,
				out.RecommendedPartners[i-1].FitScore,
				out.RecommendedPartners[i].FitScore)
		}

		assert.LessOrEqual(t, len(out.SuggestedOpportunities), maxMatches)
		for i := 1; i < len(out.SuggestedOpportunities); i++ {
			assert.GreaterOrEqual(t,
				out.SuggestedOpportunities[i-1].FitScore,
				out.SuggestedOpportunities[i].FitScore)
		}
	}
}

func TestDiagnose_WomenOwnedScenario(t *testing.T) {
	e := mustEngine()

	in := minimalInput()
	in.Profile.WomenOwnershipPct = 60
	out, err := e.Diagnose(in)
	require.NoError(t, err)

	found := false
	for _, op := range out.SuggestedOpportunities {
		if op.Type == dg.OpportunityWomenOwnedGrant {
			found = true
		}
	}
	assert.True(t, found, "expected a women-owned grant opportunity")
}

func TestDiagnose_ConcentrationThreatScenario(t *testing.T) {
	e := mustEngine()

	in := richInput()
	in.Financial.Top3ClientsRevenuePct = 75
	out, err := e.Diagnose(in)
	require.NoError(t, err)

	found := false
	for _, th := range out.SWOT.Threats {
		if th.Importance == dg.ImportanceHigh && strings.Contains(th.Text, "few clients") {
			found = true
		}
	}
	assert.True(t, found, "expected a high-importance concentration threat")
}

func TestDiagnose_SWOTCaps(t *testing.T) {
	e := mustEngine()

	for _, in := range []*dg.Input{minimalInput(), richInput()} {
		out, err := e.Diagnose(in)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(out.SWOT.Strengths), maxStrengths)
		assert.LessOrEqual(t, len(out.SWOT.Weaknesses), maxWeaknesses)
		assert.LessOrEqual(t, len(out.SWOT.Opportunities), maxOpportunities)
		assert.LessOrEqual(t, len(out.SWOT.Threats), maxThreats)
	}
}

//Personal.AI order the ending
