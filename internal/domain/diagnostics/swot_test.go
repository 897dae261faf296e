package diagnostics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dg "github.com/turtacn/SME-Diagnostics/pkg/types/diagnosis"
)

func TestSynthesizeSWOT_EvidenceFlattening(t *testing.T) {
	in := minimalInput()
	scores := dg.Scores{FundingReadiness: 75, ComplianceMaturity: 25}
	explanations := []dg.ScoreExplanation{
		{
			Dimension: dg.DimensionFundingReadiness,
			Score:     75,
			Positives: []dg.Evidence{{Reason: ReasonFundingRegistered, Text: "Formally registered company"}},
		},
		{
			Dimension: dg.DimensionComplianceMaturity,
			Score:     25,
			Negatives: []dg.Evidence{{Reason: ReasonComplianceNoTaxReg, Text: "Not registered for tax"}},
		},
	}

	swot := SynthesizeSWOT(in, scores, explanations)

	require.Len(t, swot.Strengths, 1)
	s := swot.Strengths[0]
	assert.Equal(t, "sw-s-1", s.ID)
	assert.Equal(t, dg.SWOTStrength, s.Category)
	assert.Equal(t, dg.DimensionFundingReadiness, s.SourceDimension)
	// Strength importance scales with the dimension score.
	assert.Equal(t, dg.ImportanceHigh, s.Importance)

	require.Len(t, swot.Weaknesses, 1)
	w := swot.Weaknesses[0]
	assert.Equal(t, "sw-w-1", w.ID)
	// Weakness importance scales inversely with the score.
	assert.Equal(t, dg.ImportanceHigh, w.Importance)
}

func TestSynthesizeSWOT_ImportanceScaling(t *testing.T) {
	assert.Equal(t, dg.ImportanceHigh, strengthImportance(70))
	assert.Equal(t, dg.ImportanceMedium, strengthImportance(50))
	assert.Equal(t, dg.ImportanceLow, strengthImportance(49))

	assert.Equal(t, dg.ImportanceHigh, weaknessImportance(29))
	assert.Equal(t, dg.ImportanceMedium, weaknessImportance(30))
	assert.Equal(t, dg.ImportanceMedium, weaknessImportance(49))
	assert.Equal(t, dg.ImportanceLow, weaknessImportance(50))
}

func TestSynthesizeSWOT_OpportunityRules(t *testing.T) {
	in := richInput()
	in.Profile.WomenOwnershipPct = 60
	scores := dg.Scores{DigitalMaturity: 70, FundingReadiness: 65}

	swot := SynthesizeSWOT(in, scores, nil)
	texts := swotTexts(swot.Opportunities)
	assert.Contains(t, texts, "Eligible for women-owned business funding programs")
	assert.Contains(t, texts, "Digital capability supports e-commerce expansion")
	// Benchmark growth flag surfaces the sector opportunity.
	assert.Contains(t, texts, "The agriculture sector shows high growth potential")
}

func TestSynthesizeSWOT_ThreatRules(t *testing.T) {
	in := richInput()
	in.Financial.Top3ClientsRevenuePct = 75
	in.Profile.YearsInBusiness = 1
	scores := dg.Scores{ComplianceMaturity: 40}

	swot := SynthesizeSWOT(in, scores, nil)
	texts := swotTexts(swot.Threats)
	assert.Contains(t, texts, "Heavy revenue dependence on a few clients")
	assert.Contains(t, texts, "Compliance gaps expose the business to penalties")
	assert.Contains(t, texts, "Short track record limits credibility with lenders")
	// Benchmark challenges map through, capped at three.
	assert.Contains(t, texts, "Sector-wide challenge: seasonal cash flow")
	assert.LessOrEqual(t, len(swot.Threats), maxThreats)
}

func TestSynthesizeSWOT_SortedAndCapped(t *testing.T) {
	// Ten weaknesses across tiers: capped at six, high importance first.
	var explanations []dg.ScoreExplanation
	for _, score := range []int{55, 10, 35, 55, 10, 35, 55, 10, 35, 55} {
		explanations = append(explanations, dg.ScoreExplanation{
			Dimension: dg.DimensionOperationalEfficiency,
			Score:     score,
			Negatives: []dg.Evidence{{Reason: "x", Text: "gap"}},
		})
	}

	swot := SynthesizeSWOT(minimalInput(), dg.Scores{}, explanations)
	require.Len(t, swot.Weaknesses, maxWeaknesses)
	for i := 1; i < len(swot.Weaknesses); i++ {
		assert.LessOrEqual(t,
			importanceRank(swot.Weaknesses[i-1].Importance),
			importanceRank(swot.Weaknesses[i].Importance))
	}

	// Empty lists are non-nil so the JSON renders [] rather than null.
	assert.NotNil(t, swot.Strengths)
	assert.NotNil(t, swot.Opportunities)
}

func swotTexts(items []dg.SWOTItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Text
	}
	return out
}

//Personal.AI order the ending
