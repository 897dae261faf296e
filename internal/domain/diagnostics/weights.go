// Package diagnostics implements the business-health diagnostics engine: a
// deterministic, rules-based pipeline that turns a business profile plus
// optional financial, document, and behavioral signals into six weighted
// readiness scores, qualitative classifications, a SWOT breakdown, ranked
// bottlenecks, a prioritized action plan, partner/opportunity matches, and a
// reproducible narrative summary.
//
// The engine is a pure computation: it performs no I/O, holds no mutable
// state between invocations, and produces byte-identical output for
// byte-identical input.
package diagnostics

import (
	"fmt"

	"github.com/turtacn/SME-Diagnostics/pkg/errors"
	dg "github.com/turtacn/SME-Diagnostics/pkg/types/diagnosis"
)

// ─────────────────────────────────────────────────────────────────────────────
// Factor keys
// ─────────────────────────────────────────────────────────────────────────────

// FactorKey names one normalized factor inside a dimension's weight table.
// Keys are part of the platform taxonomy and must stay stable across versions.
type FactorKey string

// Funding readiness factors.
const (
	FactorFormalRegistration   FactorKey = "formal_registration"
	FactorYearsInBusiness      FactorKey = "years_in_business"
	FactorHasRevenueData       FactorKey = "has_revenue_data"
	FactorPositiveRevenueTrend FactorKey = "positive_revenue_trend"
	FactorProfitability        FactorKey = "profitability"
	FactorHasFinancialRecords  FactorKey = "has_financial_records"
	FactorAuditedStatements    FactorKey = "has_audited_statements"
	FactorDebtRepayment        FactorKey = "debt_repayment_behavior"
	FactorComplianceComplete   FactorKey = "compliance_complete"
)

// Compliance maturity factors.
const (
	FactorTaxRegistration      FactorKey = "tax_registration"
	FactorTaxClearance         FactorKey = "tax_clearance"
	FactorAnnualReturns        FactorKey = "annual_return_filing"
	FactorIndustryLicenses     FactorKey = "industry_licenses"
	FactorHRPolicies           FactorKey = "hr_policies"
	FactorGovernanceStructures FactorKey = "governance_structures"
)

// Digital maturity factors.
const (
	FactorWebsite            FactorKey = "website"
	FactorSocialMedia        FactorKey = "social_media"
	FactorOnlineSales        FactorKey = "online_sales_channels"
	FactorERP                FactorKey = "erp"
	FactorPOS                FactorKey = "pos"
	FactorAccountingSoftware FactorKey = "accounting_software"
	FactorResponsiveness     FactorKey = "responsiveness"
)

// Governance maturity factors.
const (
	FactorBoardPresence   FactorKey = "board_presence"
	FactorWrittenPolicies FactorKey = "written_policies"
	FactorRoleSegregation FactorKey = "role_segregation"
	FactorRiskManagement  FactorKey = "risk_management"
	FactorAuditPractices  FactorKey = "audit_practices"
)

// Market readiness factors.
const (
	FactorBusinessModel       FactorKey = "clear_business_model"
	FactorRevenueModel        FactorKey = "defined_revenue_model"
	FactorCustomerDiversity   FactorKey = "customer_diversification"
	FactorSectorPositioning   FactorKey = "sector_positioning"
	FactorTrackRecord         FactorKey = "track_record"
	FactorGeographicPresence  FactorKey = "geographic_presence"
	FactorOnlinePresence      FactorKey = "online_presence"
)

// Operational efficiency factors.
const (
	FactorEmployeeStructure   FactorKey = "employee_structure"
	FactorDigitalTools        FactorKey = "digital_tools_adoption"
	FactorFinancialManagement FactorKey = "financial_management"
	FactorCustomerManagement  FactorKey = "customer_management"
	FactorPlatformEngagement  FactorKey = "platform_engagement"
	FactorProcessAutomation   FactorKey = "process_automation"
)

// ─────────────────────────────────────────────────────────────────────────────
// Weight tables
// ─────────────────────────────────────────────────────────────────────────────

// FactorWeight pairs a factor key with its integer weight.
type FactorWeight struct {
	Key    FactorKey `json:"key" yaml:"key" mapstructure:"key"`
	Weight int       `json:"weight" yaml:"weight" mapstructure:"weight"`
}

// WeightTable is the versioned weight table for one scoring dimension.  The
// table's own total is the normalization denominator; nothing in the engine
// assumes the weights sum to 100.
type WeightTable struct {
	Dimension dg.Dimension   `json:"dimension" yaml:"dimension" mapstructure:"dimension"`
	Version   string         `json:"version" yaml:"version" mapstructure:"version"`
	Factors   []FactorWeight `json:"factors" yaml:"factors" mapstructure:"factors"`
}

// Total returns the sum of all weights in the table.
func (t WeightTable) Total() int {
	total := 0
	for _, f := range t.Factors {
		total += f.Weight
	}
	return total
}

// Validate checks the table for duplicate keys and non-positive weights.
func (t WeightTable) Validate() error {
	if t.Dimension == "" {
		return errors.New(errors.ErrCodeWeightTableInvalid, "weight table has no dimension")
	}
	if len(t.Factors) == 0 {
		return errors.New(errors.ErrCodeWeightTableInvalid,
			fmt.Sprintf("weight table for %s has no factors", t.Dimension))
	}
	seen := make(map[FactorKey]bool, len(t.Factors))
	for _, f := range t.Factors {
		if f.Key == "" {
			return errors.New(errors.ErrCodeWeightTableInvalid,
				fmt.Sprintf("weight table for %s contains an empty factor key", t.Dimension))
		}
		if f.Weight <= 0 {
			return errors.New(errors.ErrCodeWeightTableInvalid,
				fmt.Sprintf("factor %s in %s has non-positive weight %d", f.Key, t.Dimension, f.Weight))
		}
		if seen[f.Key] {
			return errors.New(errors.ErrCodeWeightTableInvalid,
				fmt.Sprintf("factor %s appears twice in %s", f.Key, t.Dimension))
		}
		seen[f.Key] = true
	}
	return nil
}

// weightTableVersion is the version stamp of the built-in tables.
const weightTableVersion = "2024.2"

// DefaultWeightTables returns the built-in weight tables for all six
// dimensions.  The factor keys and weights are normative platform taxonomy;
// deployments may override them with externally loaded tables but the defaults
// must not drift.
func DefaultWeightTables() map[dg.Dimension]WeightTable {
	return map[dg.Dimension]WeightTable{
		dg.DimensionFundingReadiness: {
			Dimension: dg.DimensionFundingReadiness,
			Version:   weightTableVersion,
			Factors: []FactorWeight{
				{Key: FactorFormalRegistration, Weight: 15},
				{Key: FactorYearsInBusiness, Weight: 10},
				{Key: FactorHasRevenueData, Weight: 15},
				{Key: FactorPositiveRevenueTrend, Weight: 10},
				{Key: FactorProfitability, Weight: 10},
				{Key: FactorHasFinancialRecords, Weight: 15},
				{Key: FactorAuditedStatements, Weight: 10},
				{Key: FactorDebtRepayment, Weight: 10},
				{Key: FactorComplianceComplete, Weight: 5},
			},
		},
		dg.DimensionComplianceMaturity: {
			Dimension: dg.DimensionComplianceMaturity,
			Version:   weightTableVersion,
			Factors: []FactorWeight{
				{Key: FactorTaxRegistration, Weight: 20},
				{Key: FactorTaxClearance, Weight: 20},
				{Key: FactorAnnualReturns, Weight: 15},
				{Key: FactorIndustryLicenses, Weight: 15},
				{Key: FactorHRPolicies, Weight: 15},
				{Key: FactorGovernanceStructures, Weight: 15},
			},
		},
		dg.DimensionDigitalMaturity: {
			Dimension: dg.DimensionDigitalMaturity,
			Version:   weightTableVersion,
			Factors: []FactorWeight{
				{Key: FactorWebsite, Weight: 20},
				{Key: FactorSocialMedia, Weight: 15},
				{Key: FactorOnlineSales, Weight: 20},
				{Key: FactorERP, Weight: 15},
				{Key: FactorPOS, Weight: 10},
				{Key: FactorAccountingSoftware, Weight: 15},
				{Key: FactorResponsiveness, Weight: 5},
			},
		},
		dg.DimensionGovernanceMaturity: {
			Dimension: dg.DimensionGovernanceMaturity,
			Version:   weightTableVersion,
			Factors: []FactorWeight{
				{Key: FactorBoardPresence, Weight: 25},
				{Key: FactorWrittenPolicies, Weight: 25},
				{Key: FactorRoleSegregation, Weight: 20},
				{Key: FactorRiskManagement, Weight: 15},
				{Key: FactorAuditPractices, Weight: 15},
			},
		},
		dg.DimensionMarketReadiness: {
			Dimension: dg.DimensionMarketReadiness,
			Version:   weightTableVersion,
			Factors: []FactorWeight{
				{Key: FactorBusinessModel, Weight: 20},
				{Key: FactorRevenueModel, Weight: 15},
				{Key: FactorCustomerDiversity, Weight: 15},
				{Key: FactorSectorPositioning, Weight: 15},
				{Key: FactorTrackRecord, Weight: 15},
				{Key: FactorGeographicPresence, Weight: 10},
				{Key: FactorOnlinePresence, Weight: 10},
			},
		},
		dg.DimensionOperationalEfficiency: {
			Dimension: dg.DimensionOperationalEfficiency,
			Version:   weightTableVersion,
			Factors: []FactorWeight{
				{Key: FactorEmployeeStructure, Weight: 15},
				{Key: FactorDigitalTools, Weight: 20},
				{Key: FactorFinancialManagement, Weight: 20},
				{Key: FactorCustomerManagement, Weight: 15},
				{Key: FactorPlatformEngagement, Weight: 15},
				{Key: FactorProcessAutomation, Weight: 15},
			},
		},
	}
}

//Personal.AI order the ending
