package diagnostics

import (
	"fmt"
	"sort"

	dg "github.com/turtacn/SME-Diagnostics/pkg/types/diagnosis"
)

// SWOT reason codes for the rule-table-driven opportunity/threat items.
const (
	ReasonSWOTWomenOwned     dg.ReasonCode = "swot.women_owned_funding"
	ReasonSWOTYouthOwned     dg.ReasonCode = "swot.youth_owned_funding"
	ReasonSWOTEcommerce      dg.ReasonCode = "swot.ecommerce_expansion"
	ReasonSWOTGrowthSector   dg.ReasonCode = "swot.growth_sector"
	ReasonSWOTConcentration  dg.ReasonCode = "swot.customer_concentration"
	ReasonSWOTSectorHazard   dg.ReasonCode = "swot.sector_challenge"
	ReasonSWOTComplianceRisk dg.ReasonCode = "swot.compliance_risk"
	ReasonSWOTThinHistory    dg.ReasonCode = "swot.thin_track_record"
)

// List caps.
const (
	maxStrengths     = 6
	maxWeaknesses    = 6
	maxOpportunities = 5
	maxThreats       = 5
)

// SynthesizeSWOT builds the four ranked SWOT lists.  Strengths and weaknesses
// flatten the per-dimension evidence; opportunities and threats come from a
// rule table over profile attributes, scores, and the sector benchmark.  Item
// IDs are assigned after ranking and capping so they are stable per output.
func SynthesizeSWOT(in *dg.Input, scores dg.Scores, explanations []dg.ScoreExplanation) dg.SWOTAnalysis {
	var strengths, weaknesses, opportunities, threats []dg.SWOTItem

	for _, ex := range explanations {
		for _, ev := range ex.Positives {
			strengths = append(strengths, dg.SWOTItem{
				Text:            ev.Text,
				Category:        dg.SWOTStrength,
				Importance:      strengthImportance(ex.Score),
				SourceDimension: ex.Dimension,
			})
		}
		for _, ev := range ex.Negatives {
			weaknesses = append(weaknesses, dg.SWOTItem{
				Text:            ev.Text,
				Category:        dg.SWOTWeakness,
				Importance:      weaknessImportance(ex.Score),
				SourceDimension: ex.Dimension,
			})
		}
	}

	opportunities = deriveOpportunities(in, scores)
	threats = deriveThreats(in, scores)

	return dg.SWOTAnalysis{
		Strengths:     finishSWOTList(strengths, maxStrengths, "sw-s"),
		Weaknesses:    finishSWOTList(weaknesses, maxWeaknesses, "sw-w"),
		Opportunities: finishSWOTList(opportunities, maxOpportunities, "sw-o"),
		Threats:       finishSWOTList(threats, maxThreats, "sw-t"),
	}
}

// strengthImportance scales with the source dimension's score.
func strengthImportance(score int) dg.ImportanceTier {
	switch {
	case score >= 70:
		return dg.ImportanceHigh
	case score >= 50:
		return dg.ImportanceMedium
	default:
		return dg.ImportanceLow
	}
}

// weaknessImportance scales inversely with the source dimension's score.
func weaknessImportance(score int) dg.ImportanceTier {
	switch {
	case score < 30:
		return dg.ImportanceHigh
	case score < 50:
		return dg.ImportanceMedium
	default:
		return dg.ImportanceLow
	}
}

func deriveOpportunities(in *dg.Input, scores dg.Scores) []dg.SWOTItem {
	var items []dg.SWOTItem
	add := func(text string, imp dg.ImportanceTier) {
		items = append(items, dg.SWOTItem{
			Text:       text,
			Category:   dg.SWOTOpportunity,
			Importance: imp,
		})
	}

	if in.Profile.WomenOwnershipPct > 50 {
		add("Eligible for women-owned business funding programs", dg.ImportanceHigh)
	}
	if in.Profile.YouthOwnershipPct > 50 {
		add("Eligible for youth enterprise funding programs", dg.ImportanceHigh)
	}
	if scores.DigitalMaturity >= 60 {
		add("Digital capability supports e-commerce expansion", dg.ImportanceMedium)
	}
	if in.Benchmark != nil && in.Benchmark.HighGrowthPotential {
		add(fmt.Sprintf("The %s sector shows high growth potential", in.Profile.Sector), dg.ImportanceMedium)
	}
	if scores.FundingReadiness >= 60 {
		add("Strong position to pursue formal financing", dg.ImportanceMedium)
	}
	return items
}

func deriveThreats(in *dg.Input, scores dg.Scores) []dg.SWOTItem {
	var items []dg.SWOTItem
	add := func(text string, imp dg.ImportanceTier) {
		items = append(items, dg.SWOTItem{
			Text:       text,
			Category:   dg.SWOTThreat,
			Importance: imp,
		})
	}

	if in.Financial != nil && in.Financial.Top3ClientsRevenuePct > 60 {
		add("Heavy revenue dependence on a few clients", dg.ImportanceHigh)
	}
	if scores.ComplianceMaturity < 50 {
		add("Compliance gaps expose the business to penalties", dg.ImportanceHigh)
	}
	if in.Profile.YearsInBusiness < 2 {
		add("Short track record limits credibility with lenders", dg.ImportanceMedium)
	}
	if in.Benchmark != nil {
		challenges := in.Benchmark.CommonChallenges
		if len(challenges) > 3 {
			challenges = challenges[:3]
		}
		for _, c := range challenges {
			add(fmt.Sprintf("Sector-wide challenge: %s", c), dg.ImportanceMedium)
		}
	}
	return items
}

// finishSWOTList ranks a list by importance with a stable sort, caps it, and
// assigns counter-based IDs in final order.
func finishSWOTList(items []dg.SWOTItem, limit int, idPrefix string) []dg.SWOTItem {
	sort.SliceStable(items, func(i, j int) bool {
		return importanceRank(items[i].Importance) < importanceRank(items[j].Importance)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	for i := range items {
		items[i].ID = fmt.Sprintf("%s-%d", idPrefix, i+1)
	}
	if items == nil {
		items = []dg.SWOTItem{}
	}
	return items
}

func importanceRank(t dg.ImportanceTier) int {
	switch t {
	case dg.ImportanceHigh:
		return 0
	case dg.ImportanceMedium:
		return 1
	default:
		return 2
	}
}

//Personal.AI order the ending
