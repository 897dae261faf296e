package diagnostics

import (
	"fmt"
	"sort"
	"strings"

	dg "github.com/turtacn/SME-Diagnostics/pkg/types/diagnosis"
)

// ComposeNarrative builds the deterministic multi-paragraph summary.  Given
// identical upstream artifacts the output is byte-for-byte identical: every
// ordering below is either canonical dimension order or a stable sort over it.
func ComposeNarrative(in *dg.Input, scores dg.Scores, band dg.HealthBand, bottlenecks []dg.Bottleneck) string {
	mean := scores.Mean()
	high, low := rankedDimensions(scores)

	var b strings.Builder

	// Opening: who the business is and where it stands overall.
	fmt.Fprintf(&b, "%s", in.Profile.Name)
	if in.Profile.Sector != "" {
		fmt.Fprintf(&b, ", operating in the %s sector", in.Profile.Sector)
	}
	fmt.Fprintf(&b, ", has been in business for %s and currently sits in the %q health band with an overall score of %.0f out of 100.",
		tenurePhrase(in.Profile.YearsInBusiness), string(band), mean)

	// Strengths and weaknesses paragraph.
	fmt.Fprintf(&b, "\n\nIts strongest areas are %s and %s, while %s and %s need the most attention.",
		strings.ToLower(high[0].DisplayName()), strings.ToLower(high[1].DisplayName()),
		strings.ToLower(low[0].DisplayName()), strings.ToLower(low[1].DisplayName()))

	// Urgency paragraph.
	urgent := 0
	for _, bn := range bottlenecks {
		if bn.Severity == dg.SeverityHigh || bn.Severity == dg.SeverityCritical {
			urgent++
		}
	}
	switch {
	case urgent == 0:
		b.WriteString(" No urgent bottlenecks were identified in this assessment.")
	case urgent == 1:
		b.WriteString(" One urgent bottleneck requires attention in the next three months.")
	default:
		fmt.Fprintf(&b, " %d urgent bottlenecks require attention in the next three months.", urgent)
	}

	// Funding paragraph, selected by funding-readiness range.
	b.WriteString("\n\n")
	switch {
	case scores.FundingReadiness >= 60:
		b.WriteString("The business is well positioned to approach formal lenders: its documentation and track record support a credible funding application.")
	case scores.FundingReadiness >= 40:
		b.WriteString("The business is partially prepared for formal funding. Closing the documentation gaps identified in this report would materially improve its standing with lenders.")
	default:
		b.WriteString("The business is not yet ready for formal funding. Building the foundations identified in this report, registration, records, and compliance, should come before any loan application.")
	}

	return b.String()
}

// rankedDimensions returns the dimensions sorted by score descending and
// ascending, using canonical dimension order to break ties.
func rankedDimensions(scores dg.Scores) (high, low []dg.Dimension) {
	dims := dg.AllDimensions()
	high = append([]dg.Dimension(nil), dims...)
	sort.SliceStable(high, func(i, j int) bool {
		return scores.Get(high[i]) > scores.Get(high[j])
	})
	low = append([]dg.Dimension(nil), dims...)
	sort.SliceStable(low, func(i, j int) bool {
		return scores.Get(low[i]) < scores.Get(low[j])
	})
	return high, low
}

// tenurePhrase renders years-in-business as readable text.
func tenurePhrase(years float64) string {
	switch {
	case years < 1:
		return "under a year"
	case years < 2:
		return "about a year"
	default:
		return fmt.Sprintf("%.0f years", years)
	}
}

//Personal.AI order the ending
