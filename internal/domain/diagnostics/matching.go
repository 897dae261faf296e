package diagnostics

import (
	"fmt"
	"sort"

	dg "github.com/turtacn/SME-Diagnostics/pkg/types/diagnosis"
)

// maxMatches caps both the partner and the opportunity lists.
const maxMatches = 5

// MatchPartners evaluates the partner rule table.  Each partner type has one
// trigger condition and a fit-score formula derived from the triggering
// score.  Results are sorted descending by fit score with a stable sort and
// capped; IDs are assigned in final order.
func MatchPartners(in *dg.Input, scores dg.Scores) []dg.RecommendedPartner {
	var out []dg.RecommendedPartner

	if scores.FundingReadiness >= 50 {
		out = append(out, dg.RecommendedPartner{
			Type:      dg.PartnerBank,
			Name:      "Commercial bank SME desk",
			Rationale: "Funding readiness supports a formal credit application",
			FitScore:  capFit(scores.FundingReadiness+10, 95),
		})
	}
	if in.Profile.YearsInBusiness >= 2 && scores.MarketReadiness >= 50 {
		out = append(out, dg.RecommendedPartner{
			Type:      dg.PartnerInvestor,
			Name:      "Growth-stage investor network",
			Rationale: "Established track record with a credible market position",
			FitScore:  capFit(scores.MarketReadiness+15, 95),
		})
	}
	if scores.ComplianceMaturity < 50 {
		out = append(out, dg.RecommendedPartner{
			Type:      dg.PartnerComplianceConsultant,
			Name:      "Compliance advisory firm",
			Rationale: "Professional support would close the compliance gaps fastest",
			FitScore:  capFit(100-scores.ComplianceMaturity, 90),
		})
	}
	if scores.DigitalMaturity < 50 {
		out = append(out, dg.RecommendedPartner{
			Type:      dg.PartnerTrainingProvider,
			Name:      "Digital skills training provider",
			Rationale: "Structured training would lift digital adoption quickly",
			FitScore:  capFit(100-scores.DigitalMaturity, 90),
		})
	}
	if in.Profile.WomenOwnershipPct > 50 || in.Profile.YouthOwnershipPct > 50 {
		out = append(out, dg.RecommendedPartner{
			Type:      dg.PartnerDonorProgram,
			Name:      "Development partner SME program",
			Rationale: "Ownership profile qualifies for targeted development funding",
			FitScore:  85,
		})
	}
	if scores.OperationalEfficiency < 50 {
		out = append(out, dg.RecommendedPartner{
			Type:      dg.PartnerIncubator,
			Name:      "Business incubator",
			Rationale: "Hands-on incubation would strengthen day-to-day operations",
			FitScore:  capFit(100-scores.OperationalEfficiency, 90),
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].FitScore > out[j].FitScore })
	if len(out) > maxMatches {
		out = out[:maxMatches]
	}
	for i := range out {
		out[i].ID = fmt.Sprintf("pt-%d", i+1)
	}
	if out == nil {
		out = []dg.RecommendedPartner{}
	}
	return out
}

// MatchOpportunities evaluates the funding/growth opportunity rule table,
// with the same sorting, capping, and ID policy as MatchPartners.
func MatchOpportunities(in *dg.Input, scores dg.Scores) []dg.SuggestedOpportunity {
	var out []dg.SuggestedOpportunity

	if in.Profile.WomenOwnershipPct > 50 {
		out = append(out, dg.SuggestedOpportunity{
			Type:        dg.OpportunityWomenOwnedGrant,
			Title:       "Women-owned enterprise grant",
			Rationale:   "Majority women ownership meets the core eligibility criterion",
			FitScore:    capFit(scores.FundingReadiness+20, 90),
			AmountRange: "ZMW 50,000 - 500,000",
			Requirements: []string{
				"Majority women ownership",
				"Registered business",
				"Basic financial records",
			},
		})
	}
	if in.Profile.YouthOwnershipPct > 50 {
		out = append(out, dg.SuggestedOpportunity{
			Type:        dg.OpportunityYouthGrant,
			Title:       "Youth enterprise grant",
			Rationale:   "Majority youth ownership meets the core eligibility criterion",
			FitScore:    capFit(scores.FundingReadiness+20, 90),
			AmountRange: "ZMW 30,000 - 300,000",
			Requirements: []string{
				"Majority youth ownership",
				"Registered business",
			},
		})
	}
	if scores.FundingReadiness >= 50 {
		out = append(out, dg.SuggestedOpportunity{
			Type:        dg.OpportunityBankLoan,
			Title:       "SME working-capital loan",
			Rationale:   "Funding readiness supports a bank credit assessment",
			FitScore:    capFit(scores.FundingReadiness+10, 95),
			AmountRange: "ZMW 100,000 - 2,000,000",
			Requirements: []string{
				"Tax clearance certificate",
				"Financial statements",
				"Collateral or guarantee",
			},
		})
	}
	out = append(out, dg.SuggestedOpportunity{
		Type:      dg.OpportunityGovernmentProgram,
		Title:     "Government SME development program",
		Rationale: "Open to registered SMEs across sectors",
		FitScore:  60,
		Requirements: []string{
			"Business registration",
			"TPIN",
		},
	})
	if scores.DigitalMaturity >= 50 {
		out = append(out, dg.SuggestedOpportunity{
			Type:      dg.OpportunityEcommerce,
			Title:     "E-commerce marketplace onboarding",
			Rationale: "Digital capability supports selling through online marketplaces",
			FitScore:  capFit(scores.DigitalMaturity+10, 90),
		})
	}
	if scores.MarketReadiness >= 60 {
		out = append(out, dg.SuggestedOpportunity{
			Type:      dg.OpportunityExportProgram,
			Title:     "Export readiness program",
			Rationale: "Market position is strong enough to explore regional exports",
			FitScore:  capFit(scores.MarketReadiness+5, 90),
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].FitScore > out[j].FitScore })
	if len(out) > maxMatches {
		out = out[:maxMatches]
	}
	for i := range out {
		out[i].ID = fmt.Sprintf("op-%d", i+1)
	}
	return out
}

// capFit clamps a derived fit score to its ceiling.
func capFit(score, ceiling int) int {
	if score > ceiling {
		return ceiling
	}
	if score < 0 {
		return 0
	}
	return score
}

//Personal.AI order the ending
