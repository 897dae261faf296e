package diagnostics

import (
	dg "github.com/turtacn/SME-Diagnostics/pkg/types/diagnosis"
)

// Funding readiness reason codes.
const (
	ReasonFundingRegistered       dg.ReasonCode = "funding.registered"
	ReasonFundingSoleTrader       dg.ReasonCode = "funding.sole_trader"
	ReasonFundingNotRegistered    dg.ReasonCode = "funding.not_registered"
	ReasonFundingTenure           dg.ReasonCode = "funding.tenure"
	ReasonFundingShortTenure      dg.ReasonCode = "funding.short_tenure"
	ReasonFundingRevenueData      dg.ReasonCode = "funding.revenue_data"
	ReasonFundingNoRevenueData    dg.ReasonCode = "funding.no_revenue_data"
	ReasonFundingRevenueGrowth    dg.ReasonCode = "funding.revenue_growth"
	ReasonFundingRevenueFlat      dg.ReasonCode = "funding.revenue_flat"
	ReasonFundingRevenueDecline   dg.ReasonCode = "funding.revenue_decline"
	ReasonFundingProfitable       dg.ReasonCode = "funding.profitable"
	ReasonFundingBreakEven        dg.ReasonCode = "funding.break_even"
	ReasonFundingLossMaking       dg.ReasonCode = "funding.loss_making"
	ReasonFundingRecordsKept      dg.ReasonCode = "funding.records_kept"
	ReasonFundingNoRecords        dg.ReasonCode = "funding.no_records"
	ReasonFundingAudited          dg.ReasonCode = "funding.audited_statements"
	ReasonFundingNotAudited       dg.ReasonCode = "funding.no_audited_statements"
	ReasonFundingLoansOnTime      dg.ReasonCode = "funding.loans_on_time"
	ReasonFundingNoDebtBurden     dg.ReasonCode = "funding.no_debt_burden"
	ReasonFundingLoanDefault      dg.ReasonCode = "funding.loan_default"
	ReasonFundingLoanHistoryThin  dg.ReasonCode = "funding.loan_history_thin"
	ReasonFundingCompliant        dg.ReasonCode = "funding.compliance_complete"
	ReasonFundingPartialCompliant dg.ReasonCode = "funding.compliance_partial"
	ReasonFundingNonCompliant     dg.ReasonCode = "funding.compliance_incomplete"
)

// extractFunding computes the nine funding-readiness factors.  Factors that
// depend on the financial snapshot are omitted when the snapshot is absent;
// the renormalizing scorer then weighs only what is present.
func extractFunding(in *dg.Input) extraction {
	return runLadders(in, []ladder{
		{
			factor: FactorFormalRegistration,
			rungs: []rung{
				{
					when:     func(in *dg.Input) bool { return in.Profile.RegistrationStatus == dg.RegistrationCompany },
					value:    1.0,
					reason:   ReasonFundingRegistered,
					positive: "Formally registered company",
				},
				{
					when:     func(in *dg.Input) bool { return in.Profile.RegistrationStatus == dg.RegistrationSoleTrader },
					value:    0.5,
					reason:   ReasonFundingSoleTrader,
					positive: "Registered as a sole trader",
				},
				{
					when:      always,
					value:     0.0,
					reason:    ReasonFundingNotRegistered,
					negative:  "Business is not formally registered",
					recommend: "Register your business with PACRA to unlock formal financing",
				},
			},
		},
		{
			factor: FactorYearsInBusiness,
			rungs: []rung{
				{
					when:     func(in *dg.Input) bool { return in.Profile.YearsInBusiness >= 5 },
					value:    1.0,
					reason:   ReasonFundingTenure,
					positive: "Operating for five or more years",
				},
				{
					when:  func(in *dg.Input) bool { return in.Profile.YearsInBusiness >= 2 },
					value: 0.7,
				},
				{
					when:  func(in *dg.Input) bool { return in.Profile.YearsInBusiness >= 1 },
					value: 0.4,
				},
				{
					when:      always,
					value:     0.2,
					reason:    ReasonFundingShortTenure,
					negative:  "Limited operating history",
					recommend: "Keep trading records from day one to build a verifiable history",
				},
			},
		},
		{
			factor:    FactorHasRevenueData,
			available: func(in *dg.Input) bool { return in.Financial != nil },
			rungs: []rung{
				{
					when:     func(in *dg.Input) bool { return in.Financial.HasRevenueData() },
					value:    1.0,
					reason:   ReasonFundingRevenueData,
					positive: "Revenue records are available",
				},
				{
					when:      always,
					value:     0.0,
					reason:    ReasonFundingNoRevenueData,
					negative:  "No revenue figures recorded",
					recommend: "Record monthly revenue so lenders can see real turnover",
				},
			},
		},
		{
			factor: FactorPositiveRevenueTrend,
			available: func(in *dg.Input) bool {
				return in.Financial != nil && len(in.Financial.RevenueHistory) >= 2
			},
			rungs: []rung{
				{
					when:     func(in *dg.Input) bool { return revenueTrend(in.Financial) > 0 },
					value:    1.0,
					reason:   ReasonFundingRevenueGrowth,
					positive: "Revenue is trending upward",
				},
				{
					when:   func(in *dg.Input) bool { return revenueTrend(in.Financial) == 0 },
					value:  0.5,
					reason: ReasonFundingRevenueFlat,
				},
				{
					when:      always,
					value:     0.0,
					reason:    ReasonFundingRevenueDecline,
					negative:  "Revenue is declining year on year",
					recommend: "Investigate the revenue decline and document a turnaround plan",
				},
			},
		},
		{
			factor: FactorProfitability,
			available: func(in *dg.Input) bool {
				return in.Financial != nil && len(in.Financial.RevenueHistory) > 0
			},
			rungs: []rung{
				{
					when:     func(in *dg.Input) bool { return latestProfit(in.Financial) > 0 },
					value:    1.0,
					reason:   ReasonFundingProfitable,
					positive: "Business is profitable",
				},
				{
					when:   func(in *dg.Input) bool { return latestProfit(in.Financial) == 0 },
					value:  0.4,
					reason: ReasonFundingBreakEven,
				},
				{
					when:      always,
					value:     0.0,
					reason:    ReasonFundingLossMaking,
					negative:  "Business is operating at a loss",
					recommend: "Review pricing and costs to return to profitability",
				},
			},
		},
		{
			factor: FactorHasFinancialRecords,
			rungs: []rung{
				{
					when: func(in *dg.Input) bool {
						return in.Profile.UsesAccountingSoftware ||
							(in.Financial != nil && in.Financial.KeepsFinancialRecords)
					},
					value:    1.0,
					reason:   ReasonFundingRecordsKept,
					positive: "Keeps structured financial records",
				},
				{
					when:      always,
					value:     0.0,
					reason:    ReasonFundingNoRecords,
					negative:  "No formal financial record keeping",
					recommend: "Adopt basic bookkeeping or accounting software",
				},
			},
		},
		{
			factor: FactorAuditedStatements,
			rungs: []rung{
				{
					when: func(in *dg.Input) bool {
						return hasValidDocument(in, dg.DocAuditedFinancials)
					},
					value:    1.0,
					reason:   ReasonFundingAudited,
					positive: "Audited financial statements on file",
				},
				{
					when: func(in *dg.Input) bool {
						return hasValidDocument(in, dg.DocFinancialStatements)
					},
					value:  0.5,
					reason: ReasonFundingAudited,
				},
				{
					when:      always,
					value:     0.0,
					reason:    ReasonFundingNotAudited,
					negative:  "No audited financial statements",
					recommend: "Engage an accountant to prepare audited statements",
				},
			},
		},
		{
			factor:    FactorDebtRepayment,
			available: func(in *dg.Input) bool { return in.Financial != nil },
			rungs: []rung{
				{
					when:      func(in *dg.Input) bool { return in.Financial.HasDefaulted },
					value:     0.0,
					reason:    ReasonFundingLoanDefault,
					negative:  "History of loan default",
					recommend: "Negotiate a repayment plan and clear outstanding arrears",
				},
				{
					when: func(in *dg.Input) bool {
						return in.Financial.HasOutstandingLoans && in.Financial.LoansRepaidOnTime
					},
					value:    1.0,
					reason:   ReasonFundingLoansOnTime,
					positive: "Existing loans serviced on time",
				},
				{
					when:     func(in *dg.Input) bool { return !in.Financial.HasOutstandingLoans },
					value:    0.7,
					reason:   ReasonFundingNoDebtBurden,
					positive: "No existing debt burden",
				},
				{
					when:   always,
					value:  0.5,
					reason: ReasonFundingLoanHistoryThin,
				},
			},
		},
		{
			factor: FactorComplianceComplete,
			rungs: []rung{
				{
					when: func(in *dg.Input) bool {
						return in.Profile.TaxRegistered &&
							in.Profile.FilesAnnualReturns &&
							hasValidDocument(in, dg.DocTaxClearance)
					},
					value:    1.0,
					reason:   ReasonFundingCompliant,
					positive: "Core compliance documents in place",
				},
				{
					when: func(in *dg.Input) bool {
						return in.Profile.TaxRegistered ||
							in.Profile.FilesAnnualReturns ||
							hasValidDocument(in, dg.DocTaxClearance)
					},
					value:  0.5,
					reason: ReasonFundingPartialCompliant,
				},
				{
					when:      always,
					value:     0.0,
					reason:    ReasonFundingNonCompliant,
					negative:  "Compliance documentation incomplete",
					recommend: "Bring tax registration, clearance, and annual returns up to date",
				},
			},
		},
	})
}

// revenueTrend compares the newest revenue entry with the oldest: positive
// when growing, zero when flat, negative when declining.
func revenueTrend(f *dg.FinancialSnapshot) int {
	first := f.RevenueHistory[0].Revenue
	last := f.RevenueHistory[len(f.RevenueHistory)-1].Revenue
	switch {
	case last > first:
		return 1
	case last < first:
		return -1
	default:
		return 0
	}
}

// latestProfit returns the profit of the most recent entry.
func latestProfit(f *dg.FinancialSnapshot) float64 {
	return f.RevenueHistory[len(f.RevenueHistory)-1].Profit
}

//Personal.AI order the ending
