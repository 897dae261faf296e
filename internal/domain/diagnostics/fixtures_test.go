package diagnostics

import (
	"time"

	dg "github.com/turtacn/SME-Diagnostics/pkg/types/diagnosis"
)

// Fixture reference time shared across the package tests.
var testAsOf = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// minimalInput is a business with nothing but a name: no registration, no
// financial data, no documents, no telemetry.
func minimalInput() *dg.Input {
	return &dg.Input{
		Profile: dg.BusinessProfile{
			ID:                 "biz-minimal",
			Name:               "Kabwata Corner Shop",
			RegistrationStatus: dg.RegistrationInformal,
			YearsInBusiness:    0.5,
			LastModified:       testAsOf.Add(-24 * time.Hour),
		},
		AsOf: testAsOf,
	}
}

// richInput is a mature, well-documented business that should score high on
// every dimension.
func richInput() *dg.Input {
	expiry := testAsOf.Add(180 * 24 * time.Hour)
	cashPositive := true
	return &dg.Input{
		Profile: dg.BusinessProfile{
			ID:                 "biz-rich",
			Name:               "Zambezi Agro Supplies",
			Sector:             "agriculture",
			RegistrationStatus: dg.RegistrationCompany,
			RegistrationNumber: "120100012345",
			TaxRegistered:      true,
			TaxID:              "1001234567",
			YearsInBusiness:    6,
			FullTimeEmployees:  25,
			PartTimeEmployees:  4,

			HasWebsite:             true,
			SocialMediaChannels:    []string{"facebook", "linkedin"},
			OnlineSalesChannels:    []string{"own-store"},
			UsesERP:                true,
			UsesPOS:                true,
			UsesAccountingSoftware: true,
			UsesCRM:                true,

			HasBoard:               true,
			HasWrittenPolicies:     true,
			HasRoleSegregation:     true,
			HasRiskRegister:        true,
			HasInternalAudit:       true,
			HasHRPolicies:          true,
			HasEmploymentContracts: true,

			FilesAnnualReturns: true,
			IndustryLicenses:   []string{"agro-dealer"},

			HasBusinessPlan:    true,
			RevenueModel:       "wholesale distribution",
			OperatingLocations: []string{"Lusaka", "Choma"},
			AutomationLevel:    dg.AutomationAutomated,

			LastModified: testAsOf.Add(-48 * time.Hour),
		},
		Financial: &dg.FinancialSnapshot{
			BusinessID: "biz-rich",
			RevenueHistory: []dg.RevenueEntry{
				{Year: 2021, Revenue: 800000, Profit: 60000},
				{Year: 2022, Revenue: 1100000, Profit: 95000},
				{Year: 2023, Revenue: 1500000, Profit: 140000},
			},
			CashFlowPositive:      &cashPositive,
			Top3ClientsRevenuePct: 30,
			KeepsFinancialRecords: true,
			HasOutstandingLoans:   true,
			LoansRepaidOnTime:     true,
			PaymentTermsDays:      30,
			LastModified:          testAsOf.Add(-72 * time.Hour),
		},
		Documents: []dg.DocumentRecord{
			{ID: "doc-1", BusinessID: "biz-rich", Type: dg.DocTaxClearance, ExpiresAt: &expiry, UploadedAt: testAsOf.Add(-30 * 24 * time.Hour)},
			{ID: "doc-2", BusinessID: "biz-rich", Type: dg.DocAuditedFinancials, UploadedAt: testAsOf.Add(-60 * 24 * time.Hour)},
			{ID: "doc-3", BusinessID: "biz-rich", Type: dg.DocAnnualReturn, UploadedAt: testAsOf.Add(-90 * 24 * time.Hour)},
		},
		Behavior: &dg.PlatformBehavior{
			BusinessID:           "biz-rich",
			LoginsPerMonth:       12,
			AvgResponseHours:     6,
			ProfileCompletionPct: 95,
			LastModified:         testAsOf.Add(-12 * time.Hour),
		},
		Benchmark: &dg.SectorBenchmark{
			Sector:              "agriculture",
			HighGrowthPotential: true,
			CommonChallenges:    []string{"seasonal cash flow", "input price volatility"},
		},
		AsOf: testAsOf,
	}
}

func mustEngine() *Engine {
	e, err := NewEngine(DefaultRuleSet())
	if err != nil {
		panic(err)
	}
	return e
}

//Personal.AI order the ending
