package diagnostics

import (
	dg "github.com/turtacn/SME-Diagnostics/pkg/types/diagnosis"
)

// Governance maturity reason codes.
const (
	ReasonGovBoard       dg.ReasonCode = "governance.board"
	ReasonGovNoBoard     dg.ReasonCode = "governance.no_board"
	ReasonGovPolicies    dg.ReasonCode = "governance.written_policies"
	ReasonGovNoPolicies  dg.ReasonCode = "governance.no_written_policies"
	ReasonGovSegregation dg.ReasonCode = "governance.role_segregation"
	ReasonGovNoSegReg    dg.ReasonCode = "governance.no_role_segregation"
	ReasonGovRisk        dg.ReasonCode = "governance.risk_register"
	ReasonGovNoRisk      dg.ReasonCode = "governance.no_risk_register"
	ReasonGovAudit       dg.ReasonCode = "governance.internal_audit"
	ReasonGovNoAudit     dg.ReasonCode = "governance.no_internal_audit"
)

// extractGovernance computes the five governance factors, all of which come
// straight from profile flags.
func extractGovernance(in *dg.Input) extraction {
	return runLadders(in, []ladder{
		{
			factor: FactorBoardPresence,
			rungs: []rung{
				{
					when:     func(in *dg.Input) bool { return in.Profile.HasBoard },
					value:    1.0,
					reason:   ReasonGovBoard,
					positive: "Board or advisory committee in place",
				},
				{
					when:      always,
					value:     0.0,
					reason:    ReasonGovNoBoard,
					negative:  "No board or advisory committee",
					recommend: "Appoint an advisory board, even an informal one, for oversight",
				},
			},
		},
		{
			factor: FactorWrittenPolicies,
			rungs: []rung{
				{
					when:     func(in *dg.Input) bool { return in.Profile.HasWrittenPolicies },
					value:    1.0,
					reason:   ReasonGovPolicies,
					positive: "Key policies documented in writing",
				},
				{
					when:      always,
					value:     0.0,
					reason:    ReasonGovNoPolicies,
					negative:  "No written policies",
					recommend: "Write down your core operating and financial policies",
				},
			},
		},
		{
			factor: FactorRoleSegregation,
			rungs: []rung{
				{
					when:     func(in *dg.Input) bool { return in.Profile.HasRoleSegregation },
					value:    1.0,
					reason:   ReasonGovSegregation,
					positive: "Financial duties separated across roles",
				},
				{
					when:      always,
					value:     0.0,
					reason:    ReasonGovNoSegReg,
					negative:  "One person controls all financial duties",
					recommend: "Separate who approves, records, and reconciles payments",
				},
			},
		},
		{
			factor: FactorRiskManagement,
			rungs: []rung{
				{
					when:     func(in *dg.Input) bool { return in.Profile.HasRiskRegister },
					value:    1.0,
					reason:   ReasonGovRisk,
					positive: "Maintains a risk register",
				},
				{
					when:   always,
					value:  0.0,
					reason: ReasonGovNoRisk,
				},
			},
		},
		{
			factor: FactorAuditPractices,
			rungs: []rung{
				{
					when: func(in *dg.Input) bool {
						return in.Profile.HasInternalAudit || hasValidDocument(in, dg.DocAuditedFinancials)
					},
					value:    1.0,
					reason:   ReasonGovAudit,
					positive: "Internal or external audit practices established",
				},
				{
					when:      always,
					value:     0.0,
					reason:    ReasonGovNoAudit,
					negative:  "No audit practice of any kind",
					recommend: "Introduce a periodic internal review of accounts and controls",
				},
			},
		},
	})
}

//Personal.AI order the ending
