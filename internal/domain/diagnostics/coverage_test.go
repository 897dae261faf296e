package diagnostics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	dg "github.com/turtacn/SME-Diagnostics/pkg/types/diagnosis"
)

func TestAssessCoverage(t *testing.T) {
	// Bare profile -> minimal, profile is still reported as a source.
	rep := AssessCoverage(minimalInput())
	assert.Equal(t, dg.CoverageMinimal, rep.Tier)
	assert.Equal(t, []string{SourceProfile}, rep.Sources)

	// Fully supplied bundle -> comprehensive, every source listed.
	rep = AssessCoverage(richInput())
	assert.Equal(t, dg.CoverageComprehensive, rep.Tier)
	assert.ElementsMatch(t, []string{
		SourceProfile, SourceFinancial, SourceDocuments, SourceBehavior, SourceBenchmark,
	}, rep.Sources)
}

func TestAssessCoverage_FinancialWeighting(t *testing.T) {
	in := minimalInput()

	// Financial section without revenue figures is worth one point.
	in.Financial = &dg.FinancialSnapshot{BusinessID: in.Profile.ID}
	withEmpty := AssessCoverage(in).Score

	// With a revenue figure it is worth two.
	in.Financial.RevenueHistory = []dg.RevenueEntry{{Year: 2023, Revenue: 50000}}
	withRevenue := AssessCoverage(in).Score

	assert.Equal(t, withEmpty+1, withRevenue)
}

func TestAssessCoverage_DocumentCap(t *testing.T) {
	in := minimalInput()
	base := AssessCoverage(in).Score

	// Documents count one each, capped at three.
	for i := 0; i < 5; i++ {
		in.Documents = append(in.Documents, dg.DocumentRecord{
			ID: "d", BusinessID: in.Profile.ID, Type: dg.DocOther, UploadedAt: testAsOf,
		})
	}
	assert.Equal(t, base+3, AssessCoverage(in).Score)
}

func TestCoverageTierCutoffs(t *testing.T) {
	assert.Equal(t, dg.CoverageMinimal, coverageTier(0))
	assert.Equal(t, dg.CoverageMinimal, coverageTier(3))
	assert.Equal(t, dg.CoveragePartial, coverageTier(4))
	assert.Equal(t, dg.CoveragePartial, coverageTier(7))
	assert.Equal(t, dg.CoverageComprehensive, coverageTier(8))
	assert.Equal(t, dg.CoverageComprehensive, coverageTier(20))
}

//Personal.AI order the ending
