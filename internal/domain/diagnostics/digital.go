package diagnostics

import (
	dg "github.com/turtacn/SME-Diagnostics/pkg/types/diagnosis"
)

// Digital maturity reason codes.
const (
	ReasonDigitalWebsite        dg.ReasonCode = "digital.website"
	ReasonDigitalNoWebsite      dg.ReasonCode = "digital.no_website"
	ReasonDigitalSocialActive   dg.ReasonCode = "digital.social_active"
	ReasonDigitalSocialThin     dg.ReasonCode = "digital.social_thin"
	ReasonDigitalNoSocial       dg.ReasonCode = "digital.no_social"
	ReasonDigitalOnlineSales    dg.ReasonCode = "digital.online_sales"
	ReasonDigitalNoOnlineSales  dg.ReasonCode = "digital.no_online_sales"
	ReasonDigitalERP            dg.ReasonCode = "digital.erp"
	ReasonDigitalNoERP          dg.ReasonCode = "digital.no_erp"
	ReasonDigitalPOS            dg.ReasonCode = "digital.pos"
	ReasonDigitalNoPOS          dg.ReasonCode = "digital.no_pos"
	ReasonDigitalAccounting     dg.ReasonCode = "digital.accounting_software"
	ReasonDigitalNoAccounting   dg.ReasonCode = "digital.no_accounting_software"
	ReasonDigitalResponsive     dg.ReasonCode = "digital.responsive"
	ReasonDigitalSlowResponse   dg.ReasonCode = "digital.slow_response"
)

// extractDigital computes the seven digital-maturity factors.  Responsiveness
// needs platform telemetry and is omitted when none was captured.
func extractDigital(in *dg.Input) extraction {
	return runLadders(in, []ladder{
		{
			factor: FactorWebsite,
			rungs: []rung{
				{
					when:     func(in *dg.Input) bool { return in.Profile.HasWebsite },
					value:    1.0,
					reason:   ReasonDigitalWebsite,
					positive: "Business has its own website",
				},
				{
					when:      always,
					value:     0.0,
					reason:    ReasonDigitalNoWebsite,
					negative:  "No business website",
					recommend: "Set up a simple website so customers and lenders can find you",
				},
			},
		},
		{
			factor: FactorSocialMedia,
			rungs: []rung{
				{
					when:     func(in *dg.Input) bool { return len(in.Profile.SocialMediaChannels) >= 2 },
					value:    1.0,
					reason:   ReasonDigitalSocialActive,
					positive: "Active on multiple social media channels",
				},
				{
					when:   func(in *dg.Input) bool { return len(in.Profile.SocialMediaChannels) == 1 },
					value:  0.5,
					reason: ReasonDigitalSocialThin,
				},
				{
					when:      always,
					value:     0.0,
					reason:    ReasonDigitalNoSocial,
					negative:  "No social media presence",
					recommend: "Open a business page on at least one social media channel",
				},
			},
		},
		{
			factor: FactorOnlineSales,
			rungs: []rung{
				{
					when:     func(in *dg.Input) bool { return len(in.Profile.OnlineSalesChannels) > 0 },
					value:    1.0,
					reason:   ReasonDigitalOnlineSales,
					positive: "Selling through online channels",
				},
				{
					when:      always,
					value:     0.0,
					reason:    ReasonDigitalNoOnlineSales,
					negative:  "Not selling through any online channel",
					recommend: "List your products on an online marketplace or social commerce channel",
				},
			},
		},
		{
			factor: FactorERP,
			rungs: []rung{
				{
					when:     func(in *dg.Input) bool { return in.Profile.UsesERP },
					value:    1.0,
					reason:   ReasonDigitalERP,
					positive: "Uses an ERP system",
				},
				{
					when:   always,
					value:  0.0,
					reason: ReasonDigitalNoERP,
				},
			},
		},
		{
			factor: FactorPOS,
			rungs: []rung{
				{
					when:     func(in *dg.Input) bool { return in.Profile.UsesPOS },
					value:    1.0,
					reason:   ReasonDigitalPOS,
					positive: "Uses a point-of-sale system",
				},
				{
					when:   always,
					value:  0.0,
					reason: ReasonDigitalNoPOS,
				},
			},
		},
		{
			factor: FactorAccountingSoftware,
			rungs: []rung{
				{
					when:     func(in *dg.Input) bool { return in.Profile.UsesAccountingSoftware },
					value:    1.0,
					reason:   ReasonDigitalAccounting,
					positive: "Uses accounting software",
				},
				{
					when:      always,
					value:     0.0,
					reason:    ReasonDigitalNoAccounting,
					negative:  "Accounts managed without software",
					recommend: "Move bookkeeping onto accounting software",
				},
			},
		},
		{
			factor:    FactorResponsiveness,
			available: func(in *dg.Input) bool { return in.Behavior != nil },
			rungs: []rung{
				{
					when: func(in *dg.Input) bool {
						return in.Behavior.AvgResponseHours > 0 && in.Behavior.AvgResponseHours <= 24
					},
					value:    1.0,
					reason:   ReasonDigitalResponsive,
					positive: "Responds to platform enquiries within a day",
				},
				{
					when: func(in *dg.Input) bool {
						return in.Behavior.AvgResponseHours > 0 && in.Behavior.AvgResponseHours <= 72
					},
					value:  0.5,
					reason: ReasonDigitalSlowResponse,
				},
				{
					when:      always,
					value:     0.0,
					reason:    ReasonDigitalSlowResponse,
					negative:  "Slow to respond to enquiries",
					recommend: "Assign someone to answer enquiries within 24 hours",
				},
			},
		},
	})
}

//Personal.AI order the ending
