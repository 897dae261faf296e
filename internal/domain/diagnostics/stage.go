package diagnostics

import (
	dg "github.com/turtacn/SME-Diagnostics/pkg/types/diagnosis"
)

// DetectStage classifies overall business maturity.  The ladder is evaluated
// top to bottom and the first matching rung wins; "early" is the default.
func DetectStage(in *dg.Input, mean float64) dg.Stage {
	tenure := in.Profile.YearsInBusiness
	headcount := in.Profile.TotalHeadcount()

	if tenure >= 5 && headcount >= 20 && mean >= 70 {
		return dg.StageScale
	}
	if tenure >= 2 && (headcount >= 5 || (in.Financial.HasRevenueData() && mean >= 50)) {
		return dg.StageGrowth
	}
	return dg.StageEarly
}

//Personal.AI order the ending
