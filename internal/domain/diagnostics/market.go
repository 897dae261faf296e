package diagnostics

import (
	dg "github.com/turtacn/SME-Diagnostics/pkg/types/diagnosis"
)

// Market readiness reason codes.
const (
	ReasonMarketBusinessPlan    dg.ReasonCode = "market.business_plan"
	ReasonMarketNoBusinessPlan  dg.ReasonCode = "market.no_business_plan"
	ReasonMarketRevenueModel    dg.ReasonCode = "market.revenue_model"
	ReasonMarketNoRevenueModel  dg.ReasonCode = "market.no_revenue_model"
	ReasonMarketDiversified     dg.ReasonCode = "market.diversified_customers"
	ReasonMarketConcentrated    dg.ReasonCode = "market.customer_concentration"
	ReasonMarketGrowthSector    dg.ReasonCode = "market.growth_sector"
	ReasonMarketSectorNamed     dg.ReasonCode = "market.sector_named"
	ReasonMarketNoSector        dg.ReasonCode = "market.no_sector"
	ReasonMarketTrackRecord     dg.ReasonCode = "market.track_record"
	ReasonMarketThinTrackRecord dg.ReasonCode = "market.thin_track_record"
	ReasonMarketMultiLocation   dg.ReasonCode = "market.multi_location"
	ReasonMarketSingleLocation  dg.ReasonCode = "market.single_location"
	ReasonMarketOnlinePresence  dg.ReasonCode = "market.online_presence"
	ReasonMarketNoOnline        dg.ReasonCode = "market.no_online_presence"
)

// extractMarket computes the seven market-readiness factors.  Customer
// diversification needs the financial snapshot's client-concentration figure
// and is omitted without it.
func extractMarket(in *dg.Input) extraction {
	return runLadders(in, []ladder{
		{
			factor: FactorBusinessModel,
			rungs: []rung{
				{
					when:     func(in *dg.Input) bool { return in.Profile.HasBusinessPlan },
					value:    1.0,
					reason:   ReasonMarketBusinessPlan,
					positive: "Documented business plan",
				},
				{
					when:      always,
					value:     0.0,
					reason:    ReasonMarketNoBusinessPlan,
					negative:  "No documented business plan",
					recommend: "Write a short business plan covering customers, pricing, and growth",
				},
			},
		},
		{
			factor: FactorRevenueModel,
			rungs: []rung{
				{
					when:     func(in *dg.Input) bool { return in.Profile.RevenueModel != "" },
					value:    1.0,
					reason:   ReasonMarketRevenueModel,
					positive: "Clearly defined revenue model",
				},
				{
					when:      always,
					value:     0.0,
					reason:    ReasonMarketNoRevenueModel,
					negative:  "Revenue model is not defined",
					recommend: "Define how the business earns money and from whom",
				},
			},
		},
		{
			factor: FactorCustomerDiversity,
			available: func(in *dg.Input) bool {
				return in.Financial != nil && in.Financial.Top3ClientsRevenuePct > 0
			},
			rungs: []rung{
				{
					when: func(in *dg.Input) bool {
						return in.Financial.Top3ClientsRevenuePct <= 40
					},
					value:    1.0,
					reason:   ReasonMarketDiversified,
					positive: "Revenue spread across a broad customer base",
				},
				{
					when: func(in *dg.Input) bool {
						return in.Financial.Top3ClientsRevenuePct <= 70
					},
					value:  0.5,
					reason: ReasonMarketConcentrated,
				},
				{
					when:      always,
					value:     0.0,
					reason:    ReasonMarketConcentrated,
					negative:  "Revenue concentrated in a few large clients",
					recommend: "Win smaller accounts to reduce dependence on top clients",
				},
			},
		},
		{
			factor: FactorSectorPositioning,
			rungs: []rung{
				{
					when: func(in *dg.Input) bool {
						return in.Benchmark != nil && in.Benchmark.HighGrowthPotential
					},
					value:    1.0,
					reason:   ReasonMarketGrowthSector,
					positive: "Operating in a high-growth sector",
				},
				{
					when:   func(in *dg.Input) bool { return in.Profile.Sector != "" },
					value:  0.5,
					reason: ReasonMarketSectorNamed,
				},
				{
					when:   always,
					value:  0.0,
					reason: ReasonMarketNoSector,
				},
			},
		},
		{
			factor: FactorTrackRecord,
			rungs: []rung{
				{
					when:     func(in *dg.Input) bool { return in.Profile.YearsInBusiness >= 3 },
					value:    1.0,
					reason:   ReasonMarketTrackRecord,
					positive: "Established trading track record",
				},
				{
					when:  func(in *dg.Input) bool { return in.Profile.YearsInBusiness >= 1 },
					value: 0.5,
				},
				{
					when:   always,
					value:  0.2,
					reason: ReasonMarketThinTrackRecord,
				},
			},
		},
		{
			factor: FactorGeographicPresence,
			rungs: []rung{
				{
					when:     func(in *dg.Input) bool { return len(in.Profile.OperatingLocations) >= 2 },
					value:    1.0,
					reason:   ReasonMarketMultiLocation,
					positive: "Operating in multiple locations",
				},
				{
					when:  func(in *dg.Input) bool { return len(in.Profile.OperatingLocations) == 1 },
					value: 0.5,
				},
				{
					when:   always,
					value:  0.0,
					reason: ReasonMarketSingleLocation,
				},
			},
		},
		{
			factor: FactorOnlinePresence,
			rungs: []rung{
				{
					when: func(in *dg.Input) bool {
						return in.Profile.HasWebsite && len(in.Profile.SocialMediaChannels) > 0
					},
					value:    1.0,
					reason:   ReasonMarketOnlinePresence,
					positive: "Discoverable online through website and social media",
				},
				{
					when: func(in *dg.Input) bool {
						return in.Profile.HasWebsite || len(in.Profile.SocialMediaChannels) > 0
					},
					value:  0.5,
					reason: ReasonMarketOnlinePresence,
				},
				{
					when:      always,
					value:     0.0,
					reason:    ReasonMarketNoOnline,
					negative:  "Customers cannot find the business online",
					recommend: "Establish a basic online presence where your customers search",
				},
			},
		},
	})
}

//Personal.AI order the ending
