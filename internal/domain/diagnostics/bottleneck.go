package diagnostics

import (
	"fmt"
	"sort"

	dg "github.com/turtacn/SME-Diagnostics/pkg/types/diagnosis"
)

// maxBottlenecks caps the final bottleneck list.
const maxBottlenecks = 10

// bottleneckThreshold is the dimension score below which negative evidence
// turns into bottleneck records.
const bottleneckThreshold = 50

// GenerateBottlenecks turns negative evidence on low-scoring dimensions into
// severity-ranked bottleneck records.  Every negative-evidence item of a
// dimension scoring below 50 becomes one bottleneck; severity is high below
// 30, medium below 40, low otherwise.  The list is sorted by severity with a
// stable sort (dimension order breaks ties), capped, and IDs are assigned in
// final order.
func GenerateBottlenecks(explanations []dg.ScoreExplanation) []dg.Bottleneck {
	var out []dg.Bottleneck
	for _, ex := range explanations {
		if ex.Score >= bottleneckThreshold {
			continue
		}
		sev := bottleneckSeverity(ex.Score)
		for _, ev := range ex.Negatives {
			out = append(out, dg.Bottleneck{
				Area:        ex.Dimension.DisplayName(),
				Severity:    sev,
				Description: ev.Text,
				Impact:      dimensionImpact(ex.Dimension),
				Dimension:   ex.Dimension,
				Reason:      ev.Reason,
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return dg.SeverityRank(out[i].Severity) < dg.SeverityRank(out[j].Severity)
	})
	if len(out) > maxBottlenecks {
		out = out[:maxBottlenecks]
	}
	for i := range out {
		out[i].ID = fmt.Sprintf("bn-%d", i+1)
	}
	if out == nil {
		out = []dg.Bottleneck{}
	}
	return out
}

func bottleneckSeverity(score int) dg.Severity {
	switch {
	case score < 30:
		return dg.SeverityHigh
	case score < 40:
		return dg.SeverityMedium
	default:
		return dg.SeverityLow
	}
}

// dimensionImpact is the fixed impact statement attached to bottlenecks from
// each dimension.
func dimensionImpact(d dg.Dimension) string {
	switch d {
	case dg.DimensionFundingReadiness:
		return "Limits access to loans, grants, and investment"
	case dg.DimensionComplianceMaturity:
		return "Risks penalties and disqualification from formal opportunities"
	case dg.DimensionDigitalMaturity:
		return "Reduces visibility to customers and partners"
	case dg.DimensionGovernanceMaturity:
		return "Undermines investor and lender confidence"
	case dg.DimensionMarketReadiness:
		return "Constrains revenue growth and market expansion"
	case dg.DimensionOperationalEfficiency:
		return "Raises costs and caps the business's ability to scale"
	default:
		return "Holds back overall business performance"
	}
}

//Personal.AI order the ending
