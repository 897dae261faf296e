// Package diagnosis defines the serializable input and output contracts of the
// business-health diagnostics engine.  Everything in this package is plain
// data: the engine consumes a DiagnosisInput, produces a DiagnosisOutput, and
// neither side carries references to repositories, services, or any other
// external collaborator.
package diagnosis

import (
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Scoring dimensions
// ─────────────────────────────────────────────────────────────────────────────

// Dimension identifies one of the six maturity/readiness scoring dimensions.
type Dimension string

const (
	DimensionFundingReadiness      Dimension = "funding_readiness"
	DimensionComplianceMaturity    Dimension = "compliance_maturity"
	DimensionDigitalMaturity       Dimension = "digital_maturity"
	DimensionGovernanceMaturity    Dimension = "governance_maturity"
	DimensionMarketReadiness       Dimension = "market_readiness"
	DimensionOperationalEfficiency Dimension = "operational_efficiency"
)

// AllDimensions returns the six dimensions in canonical order.  Every ordered
// walk over dimensions in the engine uses this slice so that output is
// reproducible byte-for-byte.
func AllDimensions() []Dimension {
	return []Dimension{
		DimensionFundingReadiness,
		DimensionComplianceMaturity,
		DimensionDigitalMaturity,
		DimensionGovernanceMaturity,
		DimensionMarketReadiness,
		DimensionOperationalEfficiency,
	}
}

// DisplayName returns the human-readable name of a dimension, used in
// narrative text and bottleneck area labels.
func (d Dimension) DisplayName() string {
	switch d {
	case DimensionFundingReadiness:
		return "Funding Readiness"
	case DimensionComplianceMaturity:
		return "Compliance"
	case DimensionDigitalMaturity:
		return "Digital Maturity"
	case DimensionGovernanceMaturity:
		return "Governance"
	case DimensionMarketReadiness:
		return "Market Readiness"
	case DimensionOperationalEfficiency:
		return "Operational Efficiency"
	default:
		return string(d)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Input records
// ─────────────────────────────────────────────────────────────────────────────

// RegistrationStatus enumerates the formal registration state of a business.
type RegistrationStatus string

const (
	RegistrationCompany    RegistrationStatus = "registered_company"
	RegistrationSoleTrader RegistrationStatus = "sole_trader"
	RegistrationInformal   RegistrationStatus = "informal"
)

// AutomationLevel describes how far core processes are automated.
type AutomationLevel string

const (
	AutomationManual    AutomationLevel = "manual"
	AutomationPartial   AutomationLevel = "partial"
	AutomationAutomated AutomationLevel = "automated"
)

// BusinessProfile is the semi-structured record describing a business.  It is
// read-only input to the engine; ownership and mutation belong to the
// profile-management service.
type BusinessProfile struct {
	ID                 string             `json:"id"`
	Name               string             `json:"name"`
	Sector             string             `json:"sector,omitempty"`
	RegistrationStatus RegistrationStatus `json:"registration_status,omitempty"`
	RegistrationNumber string             `json:"registration_number,omitempty"`
	TaxRegistered      bool               `json:"tax_registered"`
	TaxID              string             `json:"tax_id,omitempty"`
	YearsInBusiness    float64            `json:"years_in_business"`

	// Headcount breakdown.
	FullTimeEmployees int `json:"full_time_employees"`
	PartTimeEmployees int `json:"part_time_employees"`
	CasualEmployees   int `json:"casual_employees"`

	// Ownership demographics, in percent of equity.
	WomenOwnershipPct int `json:"women_ownership_pct"`
	YouthOwnershipPct int `json:"youth_ownership_pct"`

	// Digital adoption flags and online presence.
	HasWebsite             bool     `json:"has_website"`
	SocialMediaChannels    []string `json:"social_media_channels,omitempty"`
	OnlineSalesChannels    []string `json:"online_sales_channels,omitempty"`
	UsesERP                bool     `json:"uses_erp"`
	UsesPOS                bool     `json:"uses_pos"`
	UsesAccountingSoftware bool     `json:"uses_accounting_software"`
	UsesCRM                bool     `json:"uses_crm"`

	// Governance and HR flags.
	HasBoard               bool `json:"has_board"`
	HasWrittenPolicies     bool `json:"has_written_policies"`
	HasRoleSegregation     bool `json:"has_role_segregation"`
	HasRiskRegister        bool `json:"has_risk_register"`
	HasInternalAudit       bool `json:"has_internal_audit"`
	HasHRPolicies          bool `json:"has_hr_policies"`
	HasEmploymentContracts bool `json:"has_employment_contracts"`

	// Compliance flags.
	FilesAnnualReturns bool     `json:"files_annual_returns"`
	IndustryLicenses   []string `json:"industry_licenses,omitempty"`

	// Market positioning.
	HasBusinessPlan    bool            `json:"has_business_plan"`
	RevenueModel       string          `json:"revenue_model,omitempty"`
	OperatingLocations []string        `json:"operating_locations,omitempty"`
	AutomationLevel    AutomationLevel `json:"automation_level,omitempty"`

	LastModified time.Time `json:"last_modified"`
}

// TotalHeadcount returns the sum of all employment categories.
func (p *BusinessProfile) TotalHeadcount() int {
	return p.FullTimeEmployees + p.PartTimeEmployees + p.CasualEmployees
}

// RevenueEntry is one period in a revenue/profit history, oldest first.
type RevenueEntry struct {
	Year    int     `json:"year"`
	Revenue float64 `json:"revenue"`
	Profit  float64 `json:"profit"`
}

// FinancialSnapshot is the optional financial record for a business.
type FinancialSnapshot struct {
	BusinessID            string         `json:"business_id"`
	RevenueHistory        []RevenueEntry `json:"revenue_history,omitempty"`
	CashFlowPositive      *bool          `json:"cash_flow_positive,omitempty"`
	Top3ClientsRevenuePct float64        `json:"top_3_clients_revenue_pct,omitempty"`
	KeepsFinancialRecords bool           `json:"keeps_financial_records"`
	HasOutstandingLoans   bool           `json:"has_outstanding_loans"`
	LoansRepaidOnTime     bool           `json:"loans_repaid_on_time"`
	HasDefaulted          bool           `json:"has_defaulted"`
	PaymentTermsDays      int            `json:"payment_terms_days,omitempty"`
	LastModified          time.Time      `json:"last_modified"`
}

// HasRevenueData reports whether at least one revenue figure is recorded.
func (f *FinancialSnapshot) HasRevenueData() bool {
	if f == nil {
		return false
	}
	for _, e := range f.RevenueHistory {
		if e.Revenue > 0 {
			return true
		}
	}
	return false
}

// DocumentType enumerates the evidence document types the engine understands.
// Only the type and validity of a document matter to scoring; contents are
// never inspected.
type DocumentType string

const (
	DocTaxClearance            DocumentType = "tax_clearance"
	DocRegistrationCertificate DocumentType = "registration_certificate"
	DocFinancialStatements     DocumentType = "financial_statements"
	DocAuditedFinancials       DocumentType = "audited_financials"
	DocBusinessLicense         DocumentType = "business_license"
	DocAnnualReturn            DocumentType = "annual_return"
	DocOther                   DocumentType = "other"
)

// DocumentRecord is a typed evidence document with an optional expiry.
type DocumentRecord struct {
	ID         string       `json:"id"`
	BusinessID string       `json:"business_id"`
	Type       DocumentType `json:"type"`
	ExpiresAt  *time.Time   `json:"expires_at,omitempty"`
	UploadedAt time.Time    `json:"uploaded_at"`
}

// ValidAt reports whether the document is unexpired at the reference time.
// Documents with no expiry never expire.
func (d DocumentRecord) ValidAt(at time.Time) bool {
	return d.ExpiresAt == nil || d.ExpiresAt.After(at)
}

// PlatformBehavior is optional engagement telemetry captured by the platform.
type PlatformBehavior struct {
	BusinessID           string    `json:"business_id"`
	LoginsPerMonth       float64   `json:"logins_per_month"`
	AvgResponseHours     float64   `json:"avg_response_hours"`
	ProfileCompletionPct int       `json:"profile_completion_pct"`
	LastModified         time.Time `json:"last_modified"`
}

// SectorBenchmark is an optional reference record for the business's sector,
// consumed only by SWOT opportunity/threat derivation.
type SectorBenchmark struct {
	Sector              string   `json:"sector"`
	HighGrowthPotential bool     `json:"high_growth_potential"`
	CommonChallenges    []string `json:"common_challenges,omitempty"`
}

// Input is the full diagnostics input bundle.  Only the profile is required;
// every other section is optional and treated as absent rather than invalid.
// AsOf is the reference time for document validity and output timestamps, so
// that byte-identical inputs always produce byte-identical outputs.
type Input struct {
	Profile   BusinessProfile    `json:"profile"`
	Financial *FinancialSnapshot `json:"financial_data,omitempty"`
	Documents []DocumentRecord   `json:"documents,omitempty"`
	Behavior  *PlatformBehavior  `json:"platform_behavior,omitempty"`
	Benchmark *SectorBenchmark   `json:"sector_benchmark,omitempty"`
	AsOf      time.Time          `json:"as_of"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Scoring output types
// ─────────────────────────────────────────────────────────────────────────────

// ReasonCode is a stable machine-readable identifier carried alongside each
// evidence string.  Downstream stages (bottlenecks, remediation templates)
// match on the reason code, never on the rendered English text, so wording
// changes in the extractors cannot silently break the pipeline.
type ReasonCode string

// Evidence is a single piece of positive or negative scoring evidence.
type Evidence struct {
	Reason ReasonCode `json:"reason"`
	Text   string     `json:"text"`
}

// DataQuality flags how much of a dimension's factor set was actually
// computable from the supplied input.
type DataQuality string

const (
	DataQualityLow    DataQuality = "low"
	DataQualityMedium DataQuality = "medium"
	DataQualityHigh   DataQuality = "high"
)

// ScoreExplanation is the per-dimension scoring output.
type ScoreExplanation struct {
	Dimension       Dimension   `json:"dimension"`
	Score           int         `json:"score"`
	Band            string      `json:"band"`
	Positives       []Evidence  `json:"positives"`
	Negatives       []Evidence  `json:"negatives"`
	DataQuality     DataQuality `json:"data_quality"`
	Recommendations []string    `json:"recommendations,omitempty"`
}

// Scores holds the six named dimension scores, each an integer in [0,100].
type Scores struct {
	FundingReadiness      int `json:"funding_readiness"`
	ComplianceMaturity    int `json:"compliance_maturity"`
	DigitalMaturity       int `json:"digital_maturity"`
	GovernanceMaturity    int `json:"governance_maturity"`
	MarketReadiness       int `json:"market_readiness"`
	OperationalEfficiency int `json:"operational_efficiency"`
}

// Get returns the score for a dimension.
func (s Scores) Get(d Dimension) int {
	switch d {
	case DimensionFundingReadiness:
		return s.FundingReadiness
	case DimensionComplianceMaturity:
		return s.ComplianceMaturity
	case DimensionDigitalMaturity:
		return s.DigitalMaturity
	case DimensionGovernanceMaturity:
		return s.GovernanceMaturity
	case DimensionMarketReadiness:
		return s.MarketReadiness
	case DimensionOperationalEfficiency:
		return s.OperationalEfficiency
	default:
		return 0
	}
}

// Set assigns the score for a dimension.
func (s *Scores) Set(d Dimension, score int) {
	switch d {
	case DimensionFundingReadiness:
		s.FundingReadiness = score
	case DimensionComplianceMaturity:
		s.ComplianceMaturity = score
	case DimensionDigitalMaturity:
		s.DigitalMaturity = score
	case DimensionGovernanceMaturity:
		s.GovernanceMaturity = score
	case DimensionMarketReadiness:
		s.MarketReadiness = score
	case DimensionOperationalEfficiency:
		s.OperationalEfficiency = score
	}
}

// Mean returns the arithmetic mean of the six dimension scores.
func (s Scores) Mean() float64 {
	total := s.FundingReadiness + s.ComplianceMaturity + s.DigitalMaturity +
		s.GovernanceMaturity + s.MarketReadiness + s.OperationalEfficiency
	return float64(total) / 6.0
}

// ─────────────────────────────────────────────────────────────────────────────
// Derived classification types
// ─────────────────────────────────────────────────────────────────────────────

// HealthBand is the five-tier qualitative label derived from the mean of the
// six dimension scores.  It is distinct from the four-tier per-dimension
// readiness band; the two must never be conflated.
type HealthBand string

const (
	HealthCritical    HealthBand = "critical"
	HealthDeveloping  HealthBand = "developing"
	HealthEmerging    HealthBand = "emerging"
	HealthEstablished HealthBand = "established"
	HealthThriving    HealthBand = "thriving"
)

// Stage classifies overall business maturity.
type Stage string

const (
	StageEarly  Stage = "early"
	StageGrowth Stage = "growth"
	StageScale  Stage = "scale"
)

// ─────────────────────────────────────────────────────────────────────────────
// SWOT
// ─────────────────────────────────────────────────────────────────────────────

// ImportanceTier ranks SWOT items within their list.
type ImportanceTier string

const (
	ImportanceHigh   ImportanceTier = "high"
	ImportanceMedium ImportanceTier = "medium"
	ImportanceLow    ImportanceTier = "low"
)

// SWOTCategory identifies which of the four SWOT lists an item belongs to.
type SWOTCategory string

const (
	SWOTStrength    SWOTCategory = "strength"
	SWOTWeakness    SWOTCategory = "weakness"
	SWOTOpportunity SWOTCategory = "opportunity"
	SWOTThreat      SWOTCategory = "threat"
)

// SWOTItem is one entry in a SWOT list.
type SWOTItem struct {
	ID              string         `json:"id"`
	Text            string         `json:"text"`
	Category        SWOTCategory   `json:"category"`
	Importance      ImportanceTier `json:"importance"`
	SourceDimension Dimension      `json:"source_dimension,omitempty"`
}

// SWOTAnalysis is the structured strengths/weaknesses/opportunities/threats
// breakdown.  Each list is independently ranked by importance and capped.
type SWOTAnalysis struct {
	Strengths     []SWOTItem `json:"strengths"`
	Weaknesses    []SWOTItem `json:"weaknesses"`
	Opportunities []SWOTItem `json:"opportunities"`
	Threats       []SWOTItem `json:"threats"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Bottlenecks and recommendations
// ─────────────────────────────────────────────────────────────────────────────

// Severity ranks bottlenecks.  Critical is reserved for future rules; the
// current rule set never emits it.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// SeverityRank returns a sortable rank for a severity (lower sorts first).
func SeverityRank(s Severity) int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityHigh:
		return 1
	case SeverityMedium:
		return 2
	default:
		return 3
	}
}

// Bottleneck is a specific operational constraint derived from negative
// evidence on a low-scoring dimension.
type Bottleneck struct {
	ID          string     `json:"id"`
	Area        string     `json:"area"`
	Severity    Severity   `json:"severity"`
	Description string     `json:"description"`
	Impact      string     `json:"impact"`
	Dimension   Dimension  `json:"dimension"`
	Reason      ReasonCode `json:"reason"`
}

// Timeline buckets a recommendation by implementation horizon.
type Timeline string

const (
	TimelineNow   Timeline = "NOW"   // 0–3 months
	TimelineNext  Timeline = "NEXT"  // 3–12 months
	TimelineLater Timeline = "LATER" // 12+ months
)

// Difficulty grades the implementation effort of a recommendation.
type Difficulty string

const (
	DifficultyEasy     Difficulty = "easy"
	DifficultyModerate Difficulty = "moderate"
	DifficultyHard     Difficulty = "hard"
)

// Recommendation is one prioritized action item.  Priority values are assigned
// in emission order within a single diagnosis and never reused or re-sorted.
type Recommendation struct {
	ID              string     `json:"id"`
	Priority        int        `json:"priority"`
	Area            string     `json:"area"`
	Action          string     `json:"action"`
	Rationale       string     `json:"rationale"`
	Steps           []string   `json:"steps"`
	EstimatedEffort string     `json:"estimated_effort"`
	Difficulty      Difficulty `json:"difficulty"`
	Timeline        Timeline   `json:"timeline"`
	BottleneckID    string     `json:"bottleneck_id,omitempty"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Partner and opportunity matching
// ─────────────────────────────────────────────────────────────────────────────

// PartnerType enumerates the fixed taxonomy of partner candidates.
type PartnerType string

const (
	PartnerBank                 PartnerType = "bank"
	PartnerInvestor             PartnerType = "investor"
	PartnerComplianceConsultant PartnerType = "compliance_consultant"
	PartnerTrainingProvider     PartnerType = "training_provider"
	PartnerDonorProgram         PartnerType = "donor_program"
	PartnerIncubator            PartnerType = "incubator"
)

// RecommendedPartner is a ranked partner match.  FitScore is a 0–100 ranking
// value used only for sorting candidates; it is not a dimension score.
type RecommendedPartner struct {
	ID        string      `json:"id"`
	Type      PartnerType `json:"type"`
	Name      string      `json:"name"`
	Rationale string      `json:"rationale"`
	FitScore  int         `json:"fit_score"`
}

// OpportunityType enumerates the fixed taxonomy of funding/growth opportunities.
type OpportunityType string

const (
	OpportunityWomenOwnedGrant   OpportunityType = "women_owned_grant"
	OpportunityYouthGrant        OpportunityType = "youth_grant"
	OpportunityBankLoan          OpportunityType = "bank_loan"
	OpportunityGovernmentProgram OpportunityType = "government_sme_program"
	OpportunityEcommerce         OpportunityType = "ecommerce_marketplace"
	OpportunityExportProgram     OpportunityType = "export_program"
)

// SuggestedOpportunity is a ranked funding or growth opportunity match.
type SuggestedOpportunity struct {
	ID           string          `json:"id"`
	Type         OpportunityType `json:"type"`
	Title        string          `json:"title"`
	Rationale    string          `json:"rationale"`
	FitScore     int             `json:"fit_score"`
	AmountRange  string          `json:"amount_range,omitempty"`
	Requirements []string        `json:"requirements,omitempty"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Coverage and metadata
// ─────────────────────────────────────────────────────────────────────────────

// CoverageTier classifies how much optional evidence was supplied.
type CoverageTier string

const (
	CoverageMinimal       CoverageTier = "minimal"
	CoveragePartial       CoverageTier = "partial"
	CoverageComprehensive CoverageTier = "comprehensive"
)

// CoverageReport is the output of the data coverage assessment.
type CoverageReport struct {
	Tier    CoverageTier `json:"tier"`
	Score   int          `json:"score"`
	Sources []string     `json:"sources"`
}

// Meta carries audit metadata attached to every diagnosis output.
type Meta struct {
	ModelVersion  string       `json:"model_version"`
	PromptVersion string       `json:"prompt_version"`
	DataCoverage  CoverageTier `json:"data_coverage"`
	DataSources   []string     `json:"data_sources"`
	GeneratedAt   time.Time    `json:"generated_at"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Output contract
// ─────────────────────────────────────────────────────────────────────────────

// Output is the fully self-contained result of one diagnosis invocation.
// ScoreExplanations is ordered by AllDimensions for reproducibility.
type Output struct {
	OverallSummary         string                 `json:"overall_summary"`
	HealthBand             HealthBand             `json:"health_band"`
	Stage                  Stage                  `json:"business_stage"`
	SWOT                   SWOTAnalysis           `json:"swot_analysis"`
	Scores                 Scores                 `json:"scores"`
	ScoreExplanations      []ScoreExplanation     `json:"score_explanations"`
	Bottlenecks            []Bottleneck           `json:"bottlenecks"`
	Recommendations        []Recommendation       `json:"recommendations"`
	RecommendedPartners    []RecommendedPartner   `json:"recommended_partners"`
	SuggestedOpportunities []SuggestedOpportunity `json:"suggested_opportunities"`
	Meta                   Meta                   `json:"meta"`
}

// Explanation returns the explanation for a dimension, or nil if absent.
func (o *Output) Explanation(d Dimension) *ScoreExplanation {
	for i := range o.ScoreExplanations {
		if o.ScoreExplanations[i].Dimension == d {
			return &o.ScoreExplanations[i]
		}
	}
	return nil
}

//Personal.AI order the ending
