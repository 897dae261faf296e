package diagnostics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dg "github.com/turtacn/SME-Diagnostics/pkg/types/diagnosis"
)

func TestGenerateRecommendations_Tiers(t *testing.T) {
	bottlenecks := []dg.Bottleneck{
		{ID: "bn-1", Area: "Funding Readiness", Severity: dg.SeverityHigh,
			Description: "Business is not formally registered",
			Impact:      "Limits access to loans",
			Reason:      ReasonFundingNotRegistered},
		{ID: "bn-2", Area: "Compliance", Severity: dg.SeverityMedium,
			Description: "Not registered for tax",
			Impact:      "Risks penalties",
			Reason:      ReasonComplianceNoTaxReg},
	}
	explanations := []dg.ScoreExplanation{
		{
			Dimension:       dg.DimensionDigitalMaturity,
			Score:           65, // mid-range -> LATER items
			Recommendations: []string{"Open a business page on at least one social media channel"},
		},
		{
			Dimension:       dg.DimensionMarketReadiness,
			Score:           85, // too strong, contributes nothing
			Recommendations: []string{"should not appear"},
		},
	}

	out := GenerateRecommendations(bottlenecks, explanations, DefaultRemediationTemplates())
	require.Len(t, out, 3)

	// Emission order: NOW from high bottleneck, NEXT from medium, LATER from
	// mid-range dimension. Priorities run 1..n across the tiers.
	assert.Equal(t, dg.TimelineNow, out[0].Timeline)
	assert.Equal(t, "bn-1", out[0].BottleneckID)
	assert.Equal(t, 1, out[0].Priority)
	assert.Equal(t, "rec-1", out[0].ID)

	assert.Equal(t, dg.TimelineNext, out[1].Timeline)
	assert.Equal(t, "bn-2", out[1].BottleneckID)
	assert.Equal(t, 2, out[1].Priority)

	assert.Equal(t, dg.TimelineLater, out[2].Timeline)
	assert.Equal(t, "Digital Maturity", out[2].Area)
	assert.Equal(t, 3, out[2].Priority)
	assert.Len(t, out[2].Steps, 4)
}

func TestGenerateRecommendations_TemplateMatch(t *testing.T) {
	// A known reason code resolves to its template, not the generic fallback.
	b := dg.Bottleneck{ID: "bn-1", Area: "Funding Readiness", Severity: dg.SeverityHigh,
		Description: "Business is not formally registered",
		Impact:      "Limits access to loans",
		Reason:      ReasonFundingNotRegistered}

	out := GenerateRecommendations([]dg.Bottleneck{b}, nil, DefaultRemediationTemplates())
	require.Len(t, out, 1)
	assert.Equal(t, "Formalize the business registration", out[0].Action)
	assert.Contains(t, out[0].Steps[0], "PACRA")
}

func TestGenerateRecommendations_SubstringFallbackMatch(t *testing.T) {
	// No reason code, but the description matches a template keyword.
	b := dg.Bottleneck{ID: "bn-1", Area: "Compliance", Severity: dg.SeverityHigh,
		Description: "The TAX CLEARANCE certificate lapsed last quarter",
		Impact:      "Risks penalties"}

	out := GenerateRecommendations([]dg.Bottleneck{b}, nil, DefaultRemediationTemplates())
	require.Len(t, out, 1)
	assert.Equal(t, "Obtain a current tax clearance certificate", out[0].Action)
}

func TestGenerateRecommendations_GenericFallback(t *testing.T) {
	b := dg.Bottleneck{ID: "bn-1", Area: "Operational Efficiency", Severity: dg.SeverityHigh,
		Description: "Completely novel problem nobody templated",
		Impact:      "Raises costs"}

	out := GenerateRecommendations([]dg.Bottleneck{b}, nil, DefaultRemediationTemplates())
	require.Len(t, out, 1)
	assert.Contains(t, out[0].Action, "Address:")
	assert.Len(t, out[0].Steps, 4)
	assert.Equal(t, dg.DifficultyModerate, out[0].Difficulty)
}

func TestGenerateRecommendations_Cap(t *testing.T) {
	var bottlenecks []dg.Bottleneck
	for i := 0; i < 20; i++ {
		bottlenecks = append(bottlenecks, dg.Bottleneck{
			ID: "bn", Area: "Compliance", Severity: dg.SeverityHigh,
			Description: "gap", Impact: "impact",
		})
	}
	out := GenerateRecommendations(bottlenecks, nil, DefaultRemediationTemplates())
	assert.Len(t, out, maxRecommendations)
}

func TestGenerateRecommendations_Empty(t *testing.T) {
	out := GenerateRecommendations(nil, nil, DefaultRemediationTemplates())
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

//Personal.AI order the ending
