package diagnostics

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	dg "github.com/turtacn/SME-Diagnostics/pkg/types/diagnosis"
)

func TestComposeNarrative(t *testing.T) {
	in := richInput()
	scores := dg.Scores{
		FundingReadiness: 80, ComplianceMaturity: 90, DigitalMaturity: 60,
		GovernanceMaturity: 85, MarketReadiness: 55, OperationalEfficiency: 70,
	}

	text := ComposeNarrative(in, scores, dg.HealthEstablished, nil)

	assert.Contains(t, text, "Zambezi Agro Supplies")
	assert.Contains(t, text, "agriculture sector")
	assert.Contains(t, text, "6 years")
	assert.Contains(t, text, `"established" health band`)
	// Top two and bottom two dimensions by score.
	assert.Contains(t, text, "compliance")
	assert.Contains(t, text, "governance")
	assert.Contains(t, text, "market readiness")
	assert.Contains(t, text, "digital maturity")
	assert.Contains(t, text, "No urgent bottlenecks")
	// Funding >= 60 selects the well-positioned paragraph.
	assert.Contains(t, text, "well positioned to approach formal lenders")
}

func TestComposeNarrative_FundingParagraphRanges(t *testing.T) {
	in := minimalInput()

	text := ComposeNarrative(in, dg.Scores{FundingReadiness: 45}, dg.HealthDeveloping, nil)
	assert.Contains(t, text, "partially prepared for formal funding")

	text = ComposeNarrative(in, dg.Scores{FundingReadiness: 10}, dg.HealthCritical, nil)
	assert.Contains(t, text, "not yet ready for formal funding")
}

func TestComposeNarrative_UrgentBottleneckCount(t *testing.T) {
	in := minimalInput()
	bns := []dg.Bottleneck{
		{Severity: dg.SeverityHigh},
		{Severity: dg.SeverityHigh},
		{Severity: dg.SeverityMedium}, // not urgent
	}

	text := ComposeNarrative(in, dg.Scores{}, dg.HealthCritical, bns)
	assert.Contains(t, text, "2 urgent bottlenecks")

	text = ComposeNarrative(in, dg.Scores{}, dg.HealthCritical, bns[:1])
	assert.Contains(t, text, "One urgent bottleneck")
}

func TestComposeNarrative_Deterministic(t *testing.T) {
	in := richInput()
	scores := dg.Scores{
		FundingReadiness: 80, ComplianceMaturity: 90, DigitalMaturity: 60,
		GovernanceMaturity: 85, MarketReadiness: 55, OperationalEfficiency: 70,
	}

	a := ComposeNarrative(in, scores, dg.HealthEstablished, nil)
	b := ComposeNarrative(in, scores, dg.HealthEstablished, nil)
	assert.Equal(t, a, b)
	// Multi-paragraph structure.
	assert.Equal(t, 3, strings.Count(a, "\n\n")+1)
}

func TestTenurePhrase(t *testing.T) {
	assert.Equal(t, "under a year", tenurePhrase(0.5))
	assert.Equal(t, "about a year", tenurePhrase(1.2))
	assert.Equal(t, "3 years", tenurePhrase(3))
}

//Personal.AI order the ending
