package diagnostics

import (
	dg "github.com/turtacn/SME-Diagnostics/pkg/types/diagnosis"
)

// Compliance maturity reason codes.
const (
	ReasonComplianceTaxRegistered    dg.ReasonCode = "compliance.tax_registered"
	ReasonComplianceNoTaxReg         dg.ReasonCode = "compliance.no_tax_registration"
	ReasonComplianceClearanceValid   dg.ReasonCode = "compliance.tax_clearance_valid"
	ReasonComplianceClearanceExpired dg.ReasonCode = "compliance.tax_clearance_expired"
	ReasonComplianceNoClearance      dg.ReasonCode = "compliance.no_tax_clearance"
	ReasonComplianceReturnsFiled     dg.ReasonCode = "compliance.annual_returns_filed"
	ReasonComplianceReturnsNotFiled  dg.ReasonCode = "compliance.annual_returns_not_filed"
	ReasonComplianceLicensed         dg.ReasonCode = "compliance.licensed"
	ReasonComplianceUnlicensed       dg.ReasonCode = "compliance.unlicensed"
	ReasonComplianceHRComplete       dg.ReasonCode = "compliance.hr_policies_complete"
	ReasonComplianceHRPartial        dg.ReasonCode = "compliance.hr_policies_partial"
	ReasonComplianceHRMissing        dg.ReasonCode = "compliance.hr_policies_missing"
	ReasonComplianceGovInPlace       dg.ReasonCode = "compliance.governance_in_place"
	ReasonComplianceGovMissing       dg.ReasonCode = "compliance.governance_missing"
)

// extractCompliance computes the six compliance-maturity factors.  All six are
// always computable from the profile and document bundle, so compliance never
// omits a factor.
func extractCompliance(in *dg.Input) extraction {
	return runLadders(in, []ladder{
		{
			factor: FactorTaxRegistration,
			rungs: []rung{
				{
					when:     func(in *dg.Input) bool { return in.Profile.TaxRegistered },
					value:    1.0,
					reason:   ReasonComplianceTaxRegistered,
					positive: "Registered for tax with ZRA",
				},
				{
					when:      always,
					value:     0.0,
					reason:    ReasonComplianceNoTaxReg,
					negative:  "Not registered for tax",
					recommend: "Obtain a TPIN and register with ZRA",
				},
			},
		},
		{
			factor: FactorTaxClearance,
			rungs: []rung{
				{
					when: func(in *dg.Input) bool {
						return hasValidDocument(in, dg.DocTaxClearance)
					},
					value:    1.0,
					reason:   ReasonComplianceClearanceValid,
					positive: "Valid tax clearance certificate on file",
				},
				{
					when: func(in *dg.Input) bool {
						return hasExpiredDocument(in, dg.DocTaxClearance)
					},
					value:     0.3,
					reason:    ReasonComplianceClearanceExpired,
					negative:  "Tax clearance certificate has expired",
					recommend: "Renew your tax clearance certificate with ZRA",
				},
				{
					when:      always,
					value:     0.0,
					reason:    ReasonComplianceNoClearance,
					negative:  "No tax clearance certificate on file",
					recommend: "Apply for a tax clearance certificate",
				},
			},
		},
		{
			factor: FactorAnnualReturns,
			rungs: []rung{
				{
					when: func(in *dg.Input) bool {
						return in.Profile.FilesAnnualReturns || hasValidDocument(in, dg.DocAnnualReturn)
					},
					value:    1.0,
					reason:   ReasonComplianceReturnsFiled,
					positive: "Annual returns filed on time",
				},
				{
					when:      always,
					value:     0.0,
					reason:    ReasonComplianceReturnsNotFiled,
					negative:  "Annual returns not being filed",
					recommend: "File outstanding annual returns with PACRA",
				},
			},
		},
		{
			factor: FactorIndustryLicenses,
			rungs: []rung{
				{
					when: func(in *dg.Input) bool {
						return len(in.Profile.IndustryLicenses) > 0 ||
							hasValidDocument(in, dg.DocBusinessLicense)
					},
					value:    1.0,
					reason:   ReasonComplianceLicensed,
					positive: "Holds the required industry licenses",
				},
				{
					when:      always,
					value:     0.0,
					reason:    ReasonComplianceUnlicensed,
					negative:  "No industry licenses recorded",
					recommend: "Confirm and obtain the licenses your sector requires",
				},
			},
		},
		{
			factor: FactorHRPolicies,
			rungs: []rung{
				{
					when: func(in *dg.Input) bool {
						return in.Profile.HasHRPolicies && in.Profile.HasEmploymentContracts
					},
					value:    1.0,
					reason:   ReasonComplianceHRComplete,
					positive: "HR policies and employment contracts in place",
				},
				{
					when: func(in *dg.Input) bool {
						return in.Profile.HasHRPolicies || in.Profile.HasEmploymentContracts
					},
					value:  0.5,
					reason: ReasonComplianceHRPartial,
				},
				{
					when:      always,
					value:     0.0,
					reason:    ReasonComplianceHRMissing,
					negative:  "No HR policies or employment contracts",
					recommend: "Put written employment contracts and basic HR policies in place",
				},
			},
		},
		{
			factor: FactorGovernanceStructures,
			rungs: []rung{
				{
					when: func(in *dg.Input) bool {
						return in.Profile.HasBoard && in.Profile.HasWrittenPolicies
					},
					value:    1.0,
					reason:   ReasonComplianceGovInPlace,
					positive: "Board and written policies established",
				},
				{
					when: func(in *dg.Input) bool {
						return in.Profile.HasBoard || in.Profile.HasWrittenPolicies
					},
					value:  0.5,
					reason: ReasonComplianceGovInPlace,
				},
				{
					when:      always,
					value:     0.0,
					reason:    ReasonComplianceGovMissing,
					negative:  "No formal governance structures",
					recommend: "Establish a board or advisory committee and document key policies",
				},
			},
		},
	})
}

//Personal.AI order the ending
