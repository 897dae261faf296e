package diagnostics

import (
	dg "github.com/turtacn/SME-Diagnostics/pkg/types/diagnosis"
)

// Audit source names reported in CoverageReport.Sources and Meta.DataSources.
const (
	SourceProfile   = "business_profile"
	SourceFinancial = "financial_data"
	SourceDocuments = "documents"
	SourceBehavior  = "platform_behavior"
	SourceBenchmark = "sector_benchmark"
)

// AssessCoverage computes the data-coverage tier for an input bundle.
//
// The coverage score counts the optional sections actually supplied: financial
// data is worth one point, two if it carries at least one revenue figure; each
// document counts one point up to three; behavior and benchmark count one
// each; and each populated core profile field adds one.  The tier cutoffs are
// minimal (<4), partial (4–7), comprehensive (≥8).
func AssessCoverage(in *dg.Input) dg.CoverageReport {
	score := 0
	sources := []string{SourceProfile}

	if in.Financial != nil {
		score++
		if in.Financial.HasRevenueData() {
			score++
		}
		sources = append(sources, SourceFinancial)
	}
	if n := len(in.Documents); n > 0 {
		if n > 3 {
			n = 3
		}
		score += n
		sources = append(sources, SourceDocuments)
	}
	if in.Behavior != nil {
		score++
		sources = append(sources, SourceBehavior)
	}
	if in.Benchmark != nil {
		score++
		sources = append(sources, SourceBenchmark)
	}
	score += populatedProfileFields(&in.Profile)

	return dg.CoverageReport{
		Tier:    coverageTier(score),
		Score:   score,
		Sources: sources,
	}
}

// populatedProfileFields counts the core profile fields that carry a value.
func populatedProfileFields(p *dg.BusinessProfile) int {
	n := 0
	if p.Sector != "" {
		n++
	}
	if p.RegistrationStatus != "" && p.RegistrationStatus != dg.RegistrationInformal {
		n++
	}
	if p.YearsInBusiness > 0 {
		n++
	}
	if p.TotalHeadcount() > 0 {
		n++
	}
	if p.RevenueModel != "" {
		n++
	}
	return n
}

func coverageTier(score int) dg.CoverageTier {
	switch {
	case score < 4:
		return dg.CoverageMinimal
	case score <= 7:
		return dg.CoveragePartial
	default:
		return dg.CoverageComprehensive
	}
}

//Personal.AI order the ending
