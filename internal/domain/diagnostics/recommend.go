package diagnostics

import (
	"fmt"
	"strings"

	dg "github.com/turtacn/SME-Diagnostics/pkg/types/diagnosis"
)

// maxRecommendations caps the combined action plan.
const maxRecommendations = 15

// RemediationTemplate describes how to fix one known class of bottleneck.
// Templates are matched primarily by the bottleneck's reason code; Keywords
// is a case-insensitive substring fallback over the description text for
// bottlenecks produced by rules that predate reason codes.
type RemediationTemplate struct {
	Reasons    []dg.ReasonCode `json:"reasons" yaml:"reasons" mapstructure:"reasons"`
	Keywords   []string        `json:"keywords" yaml:"keywords" mapstructure:"keywords"`
	Action     string          `json:"action" yaml:"action" mapstructure:"action"`
	Steps      []string        `json:"steps" yaml:"steps" mapstructure:"steps"`
	Effort     string          `json:"effort" yaml:"effort" mapstructure:"effort"`
	Difficulty dg.Difficulty   `json:"difficulty" yaml:"difficulty" mapstructure:"difficulty"`
}

// Matches reports whether the template applies to a bottleneck.
func (t RemediationTemplate) Matches(b dg.Bottleneck) bool {
	for _, r := range t.Reasons {
		if r == b.Reason {
			return true
		}
	}
	desc := strings.ToLower(b.Description)
	for _, kw := range t.Keywords {
		if strings.Contains(desc, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// DefaultRemediationTemplates returns the built-in remediation table.  Order
// matters: the first matching template wins.
func DefaultRemediationTemplates() []RemediationTemplate {
	return []RemediationTemplate{
		{
			Reasons:  []dg.ReasonCode{ReasonFundingNotRegistered},
			Keywords: []string{"not formally registered"},
			Action:   "Formalize the business registration",
			Steps: []string{
				"Reserve a company name with PACRA",
				"Prepare and submit incorporation documents",
				"Collect the certificate of incorporation",
				"Update bank and supplier records with the registered name",
			},
			Effort:     "2-4 weeks",
			Difficulty: dg.DifficultyModerate,
		},
		{
			Reasons:  []dg.ReasonCode{ReasonComplianceNoTaxReg},
			Keywords: []string{"not registered for tax"},
			Action:   "Register for tax",
			Steps: []string{
				"Apply for a TPIN on the ZRA portal",
				"Register for the tax types that apply to your turnover",
				"Set up a monthly filing calendar",
				"File the first return on time",
			},
			Effort:     "1-2 weeks",
			Difficulty: dg.DifficultyEasy,
		},
		{
			Reasons: []dg.ReasonCode{
				ReasonComplianceNoClearance,
				ReasonComplianceClearanceExpired,
			},
			Keywords: []string{"tax clearance"},
			Action:   "Obtain a current tax clearance certificate",
			Steps: []string{
				"Clear any outstanding returns and assessments",
				"Apply for the clearance certificate on the ZRA portal",
				"Download and file the certificate",
				"Diarize the expiry date for renewal",
			},
			Effort:     "1-3 weeks",
			Difficulty: dg.DifficultyEasy,
		},
		{
			Reasons:  []dg.ReasonCode{ReasonComplianceReturnsNotFiled},
			Keywords: []string{"annual returns"},
			Action:   "Bring annual return filings up to date",
			Steps: []string{
				"List the outstanding filing years",
				"Prepare the returns with your accountant",
				"File and pay any late penalties",
				"Set an annual reminder ahead of the deadline",
			},
			Effort:     "2-3 weeks",
			Difficulty: dg.DifficultyEasy,
		},
		{
			Reasons:  []dg.ReasonCode{ReasonFundingNoRecords, ReasonOpsFinInformal},
			Keywords: []string{"financial record", "managed informally"},
			Action:   "Set up structured financial record keeping",
			Steps: []string{
				"Open a dedicated business bank account",
				"Choose a bookkeeping tool suited to your volume",
				"Record every sale and expense weekly",
				"Produce a simple monthly income statement",
			},
			Effort:     "3-4 weeks",
			Difficulty: dg.DifficultyModerate,
		},
		{
			Reasons:  []dg.ReasonCode{ReasonFundingNoRevenueData},
			Keywords: []string{"no revenue figures"},
			Action:   "Start recording revenue systematically",
			Steps: []string{
				"Log every sale at the point it happens",
				"Reconcile sales against bank deposits weekly",
				"Summarize revenue by month",
				"Keep at least two years of history on file",
			},
			Effort:     "2-3 weeks",
			Difficulty: dg.DifficultyEasy,
		},
		{
			Reasons:  []dg.ReasonCode{ReasonFundingNotAudited},
			Keywords: []string{"audited financial"},
			Action:   "Commission audited financial statements",
			Steps: []string{
				"Engage a registered audit firm",
				"Close the books for the financial year",
				"Support the audit fieldwork with documentation",
				"File the signed statements where lenders can verify them",
			},
			Effort:     "4-8 weeks",
			Difficulty: dg.DifficultyHard,
		},
		{
			Reasons:  []dg.ReasonCode{ReasonFundingLoanDefault},
			Keywords: []string{"loan default"},
			Action:   "Repair the credit record",
			Steps: []string{
				"Obtain your credit report and list arrears",
				"Negotiate a written repayment plan with each lender",
				"Service the plan without missing a payment",
				"Request a clearance letter once settled",
			},
			Effort:     "3-6 months",
			Difficulty: dg.DifficultyHard,
		},
		{
			Reasons:  []dg.ReasonCode{ReasonDigitalNoWebsite, ReasonMarketNoOnline},
			Keywords: []string{"website", "online"},
			Action:   "Build a basic online presence",
			Steps: []string{
				"Register a domain and set up a one-page site",
				"Create a business profile on one social channel",
				"Publish contact details, products, and prices",
				"Review enquiries weekly and respond within a day",
			},
			Effort:     "2-4 weeks",
			Difficulty: dg.DifficultyEasy,
		},
		{
			Reasons:  []dg.ReasonCode{ReasonDigitalNoOnlineSales},
			Keywords: []string{"online channel"},
			Action:   "Open an online sales channel",
			Steps: []string{
				"Pick one marketplace or social-commerce channel",
				"List your best-selling products with photos and prices",
				"Arrange delivery or collection logistics",
				"Track online orders separately to measure uptake",
			},
			Effort:     "3-6 weeks",
			Difficulty: dg.DifficultyModerate,
		},
		{
			Reasons:  []dg.ReasonCode{ReasonGovNoBoard, ReasonComplianceGovMissing},
			Keywords: []string{"board", "governance structures"},
			Action:   "Establish basic governance oversight",
			Steps: []string{
				"Recruit two or three advisors with relevant experience",
				"Agree a simple charter and meeting rhythm",
				"Table finances and risks at every meeting",
				"Minute decisions and follow up on actions",
			},
			Effort:     "4-8 weeks",
			Difficulty: dg.DifficultyModerate,
		},
		{
			Reasons:  []dg.ReasonCode{ReasonGovNoSegReg},
			Keywords: []string{"financial duties"},
			Action:   "Separate financial duties",
			Steps: []string{
				"Map who currently approves, records, and reconciles money",
				"Assign each duty to a different person",
				"Require dual sign-off on payments above a threshold",
				"Review the controls quarterly",
			},
			Effort:     "2-4 weeks",
			Difficulty: dg.DifficultyModerate,
		},
		{
			Reasons:  []dg.ReasonCode{ReasonComplianceHRMissing},
			Keywords: []string{"employment contracts"},
			Action:   "Formalize employment arrangements",
			Steps: []string{
				"Draft a standard employment contract template",
				"Sign contracts with every current employee",
				"Document leave, conduct, and payroll policies",
				"Register employees for statutory contributions",
			},
			Effort:     "3-5 weeks",
			Difficulty: dg.DifficultyModerate,
		},
		{
			Reasons:  []dg.ReasonCode{ReasonMarketNoBusinessPlan},
			Keywords: []string{"business plan"},
			Action:   "Produce a working business plan",
			Steps: []string{
				"Describe your customers, offer, and pricing",
				"Set revenue and cost projections for 12 months",
				"Identify the top three growth actions",
				"Review the plan against actuals each quarter",
			},
			Effort:     "3-4 weeks",
			Difficulty: dg.DifficultyModerate,
		},
		{
			Reasons:  []dg.ReasonCode{ReasonMarketConcentrated},
			Keywords: []string{"concentrated in a few"},
			Action:   "Diversify the customer base",
			Steps: []string{
				"Quantify revenue share per client",
				"Identify two adjacent customer segments",
				"Run a targeted outreach campaign",
				"Track new-client revenue monthly until concentration drops",
			},
			Effort:     "2-4 months",
			Difficulty: dg.DifficultyHard,
		},
	}
}

// genericRemediationSteps is the fallback for bottlenecks no template matches.
func genericRemediationSteps(area string) []string {
	return []string{
		fmt.Sprintf("Assess the current state of %s", strings.ToLower(area)),
		"Identify the most pressing gap and its root cause",
		"Implement the highest-impact improvement first",
		"Review progress monthly and adjust",
	}
}

// GenerateRecommendations builds the prioritized action plan in three tiers:
// high-severity bottlenecks become NOW items, medium-severity bottlenecks
// become NEXT items, and every dimension scoring in [50,80) contributes its
// extractor recommendations as LATER items.  A single priority counter runs
// across all three tiers in emission order and the list is never re-sorted.
func GenerateRecommendations(
	bottlenecks []dg.Bottleneck,
	explanations []dg.ScoreExplanation,
	templates []RemediationTemplate,
) []dg.Recommendation {
	var out []dg.Recommendation
	priority := 0

	emit := func(r dg.Recommendation) {
		priority++
		r.Priority = priority
		r.ID = fmt.Sprintf("rec-%d", priority)
		out = append(out, r)
	}

	for _, b := range bottlenecks {
		if b.Severity != dg.SeverityHigh && b.Severity != dg.SeverityCritical {
			continue
		}
		emit(fromBottleneck(b, dg.TimelineNow, templates))
	}
	for _, b := range bottlenecks {
		if b.Severity != dg.SeverityMedium {
			continue
		}
		emit(fromBottleneck(b, dg.TimelineNext, templates))
	}
	for _, ex := range explanations {
		if ex.Score < 50 || ex.Score >= 80 {
			continue
		}
		for _, rec := range ex.Recommendations {
			emit(dg.Recommendation{
				Area:            ex.Dimension.DisplayName(),
				Action:          rec,
				Rationale:       fmt.Sprintf("%s scored %d and has room to improve", ex.Dimension.DisplayName(), ex.Score),
				Steps:           genericRemediationSteps(ex.Dimension.DisplayName()),
				EstimatedEffort: "1-3 months",
				Difficulty:      dg.DifficultyModerate,
				Timeline:        dg.TimelineLater,
			})
		}
	}

	if len(out) > maxRecommendations {
		out = out[:maxRecommendations]
	}
	if out == nil {
		out = []dg.Recommendation{}
	}
	return out
}

// fromBottleneck resolves a bottleneck against the remediation table, falling
// back to the generic template when nothing matches.
func fromBottleneck(b dg.Bottleneck, tl dg.Timeline, templates []RemediationTemplate) dg.Recommendation {
	for _, t := range templates {
		if !t.Matches(b) {
			continue
		}
		return dg.Recommendation{
			Area:            b.Area,
			Action:          t.Action,
			Rationale:       fmt.Sprintf("%s. %s.", b.Description, b.Impact),
			Steps:           t.Steps,
			EstimatedEffort: t.Effort,
			Difficulty:      t.Difficulty,
			Timeline:        tl,
			BottleneckID:    b.ID,
		}
	}
	return dg.Recommendation{
		Area:            b.Area,
		Action:          fmt.Sprintf("Address: %s", b.Description),
		Rationale:       fmt.Sprintf("%s. %s.", b.Description, b.Impact),
		Steps:           genericRemediationSteps(b.Area),
		EstimatedEffort: "1-2 months",
		Difficulty:      dg.DifficultyModerate,
		Timeline:        tl,
		BottleneckID:    b.ID,
	}
}

//Personal.AI order the ending
