package diagnostics

import (
	dg "github.com/turtacn/SME-Diagnostics/pkg/types/diagnosis"
)

// Operational efficiency reason codes.
const (
	ReasonOpsStructured        dg.ReasonCode = "operational.structured_team"
	ReasonOpsSmallTeam         dg.ReasonCode = "operational.small_team"
	ReasonOpsOwnerOnly         dg.ReasonCode = "operational.owner_only"
	ReasonOpsToolsAdopted      dg.ReasonCode = "operational.tools_adopted"
	ReasonOpsFewTools          dg.ReasonCode = "operational.few_tools"
	ReasonOpsNoTools           dg.ReasonCode = "operational.no_tools"
	ReasonOpsFinDisciplined    dg.ReasonCode = "operational.financial_discipline"
	ReasonOpsFinInformal       dg.ReasonCode = "operational.financial_informal"
	ReasonOpsCRM               dg.ReasonCode = "operational.crm"
	ReasonOpsNoCRM             dg.ReasonCode = "operational.no_crm"
	ReasonOpsEngaged           dg.ReasonCode = "operational.engaged"
	ReasonOpsLowEngagement     dg.ReasonCode = "operational.low_engagement"
	ReasonOpsAutomated         dg.ReasonCode = "operational.automated"
	ReasonOpsPartialAutomation dg.ReasonCode = "operational.partial_automation"
	ReasonOpsManual            dg.ReasonCode = "operational.manual"
)

// extractOperational computes the six operational-efficiency factors.
// Platform engagement requires behavioral telemetry and is omitted without it.
func extractOperational(in *dg.Input) extraction {
	return runLadders(in, []ladder{
		{
			factor: FactorEmployeeStructure,
			rungs: []rung{
				{
					when:     func(in *dg.Input) bool { return in.Profile.FullTimeEmployees >= 5 },
					value:    1.0,
					reason:   ReasonOpsStructured,
					positive: "Established full-time team",
				},
				{
					when:   func(in *dg.Input) bool { return in.Profile.TotalHeadcount() >= 2 },
					value:  0.5,
					reason: ReasonOpsSmallTeam,
				},
				{
					when:      always,
					value:     0.2,
					reason:    ReasonOpsOwnerOnly,
					negative:  "Business depends entirely on the owner",
					recommend: "Delegate routine tasks so the business runs without you",
				},
			},
		},
		{
			factor: FactorDigitalTools,
			rungs: []rung{
				{
					when:     func(in *dg.Input) bool { return digitalToolCount(&in.Profile) >= 3 },
					value:    1.0,
					reason:   ReasonOpsToolsAdopted,
					positive: "Broad adoption of digital business tools",
				},
				{
					when:   func(in *dg.Input) bool { return digitalToolCount(&in.Profile) >= 1 },
					value:  0.5,
					reason: ReasonOpsFewTools,
				},
				{
					when:      always,
					value:     0.0,
					reason:    ReasonOpsNoTools,
					negative:  "Day-to-day operations run without digital tools",
					recommend: "Start with one tool, accounting or POS, and build from there",
				},
			},
		},
		{
			factor: FactorFinancialManagement,
			rungs: []rung{
				{
					when: func(in *dg.Input) bool {
						return in.Profile.UsesAccountingSoftware &&
							(in.Financial == nil || in.Financial.KeepsFinancialRecords)
					},
					value:    1.0,
					reason:   ReasonOpsFinDisciplined,
					positive: "Disciplined, software-backed financial management",
				},
				{
					when: func(in *dg.Input) bool {
						return in.Profile.UsesAccountingSoftware ||
							(in.Financial != nil && in.Financial.KeepsFinancialRecords)
					},
					value:  0.5,
					reason: ReasonOpsFinDisciplined,
				},
				{
					when:      always,
					value:     0.0,
					reason:    ReasonOpsFinInformal,
					negative:  "Finances managed informally",
					recommend: "Separate business and personal money and record every transaction",
				},
			},
		},
		{
			factor: FactorCustomerManagement,
			rungs: []rung{
				{
					when:     func(in *dg.Input) bool { return in.Profile.UsesCRM },
					value:    1.0,
					reason:   ReasonOpsCRM,
					positive: "Tracks customers through a CRM",
				},
				{
					when: func(in *dg.Input) bool {
						return len(in.Profile.OnlineSalesChannels) > 0
					},
					value:  0.5,
					reason: ReasonOpsCRM,
				},
				{
					when:      always,
					value:     0.0,
					reason:    ReasonOpsNoCRM,
					negative:  "No systematic way of tracking customers",
					recommend: "Keep a customer register, even a spreadsheet, and use it for follow-ups",
				},
			},
		},
		{
			factor:    FactorPlatformEngagement,
			available: func(in *dg.Input) bool { return in.Behavior != nil },
			rungs: []rung{
				{
					when: func(in *dg.Input) bool {
						return in.Behavior.LoginsPerMonth >= 4 && in.Behavior.ProfileCompletionPct >= 80
					},
					value:    1.0,
					reason:   ReasonOpsEngaged,
					positive: "Actively engaged on the platform with a complete profile",
				},
				{
					when: func(in *dg.Input) bool {
						return in.Behavior.LoginsPerMonth >= 1 || in.Behavior.ProfileCompletionPct >= 50
					},
					value:  0.5,
					reason: ReasonOpsEngaged,
				},
				{
					when:      always,
					value:     0.0,
					reason:    ReasonOpsLowEngagement,
					negative:  "Rarely engages with the platform",
					recommend: "Complete your profile and log in regularly to stay visible to partners",
				},
			},
		},
		{
			factor: FactorProcessAutomation,
			rungs: []rung{
				{
					when: func(in *dg.Input) bool {
						return in.Profile.AutomationLevel == dg.AutomationAutomated
					},
					value:    1.0,
					reason:   ReasonOpsAutomated,
					positive: "Core processes are automated",
				},
				{
					when: func(in *dg.Input) bool {
						return in.Profile.AutomationLevel == dg.AutomationPartial
					},
					value:  0.5,
					reason: ReasonOpsPartialAutomation,
				},
				{
					when:      always,
					value:     0.0,
					reason:    ReasonOpsManual,
					negative:  "Core processes are fully manual",
					recommend: "Automate one repetitive process, such as invoicing or stock counts",
				},
			},
		},
	})
}

// digitalToolCount counts the distinct digital business tools in use.
func digitalToolCount(p *dg.BusinessProfile) int {
	n := 0
	for _, used := range []bool{p.UsesERP, p.UsesPOS, p.UsesAccountingSoftware, p.UsesCRM} {
		if used {
			n++
		}
	}
	return n
}

//Personal.AI order the ending
