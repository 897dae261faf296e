package diagnostics

import (
	"math"

	dg "github.com/turtacn/SME-Diagnostics/pkg/types/diagnosis"
)

// ─────────────────────────────────────────────────────────────────────────────
// Weighted scoring
// ─────────────────────────────────────────────────────────────────────────────

// WeightedScore aggregates a sparse factor map against a weight table into a
// single integer score in [0,100].
//
// Missing factors are omitted from both numerator and denominator, so a
// dimension's score reflects only the evidence actually available rather than
// penalising absent data — the data-quality tier exists precisely to flag
// sparse inputs.  Formula:
//
//	score = round(clamp(100 × Σ(value[k] × weight[k]) / Σ(weight[k]), 0, 100))
//
// summed over the factors present in the map.  If no factor in the table is
// present the denominator would be zero and the function returns 0.
func WeightedScore(factors map[FactorKey]float64, table WeightTable) int {
	var num float64
	var den int
	for _, fw := range table.Factors {
		v, ok := factors[fw.Key]
		if !ok {
			continue
		}
		num += clamp01(v) * float64(fw.Weight)
		den += fw.Weight
	}
	if den == 0 {
		return 0
	}
	score := math.Round(100 * num / float64(den))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return int(score)
}

// clamp01 clamps a factor value to [0,1].  Extractors pre-clamp their own
// output; this is the scoring function's own guard.
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ─────────────────────────────────────────────────────────────────────────────
// Band classification
// ─────────────────────────────────────────────────────────────────────────────

// Per-dimension readiness band labels.
const (
	BandNotReady        = "Not yet ready"
	BandEmerging        = "Emerging / Semi-ready"
	BandBankableSupport = "Bankable with support"
	BandStronglyBank    = "Strongly bankable"
)

// ReadinessBand maps a 0–100 dimension score to its four-tier qualitative
// band.  This is the per-dimension banding; the five-tier overall health band
// is a separate function and the two must not be conflated.
func ReadinessBand(score int) string {
	switch {
	case score <= 30:
		return BandNotReady
	case score <= 60:
		return BandEmerging
	case score <= 80:
		return BandBankableSupport
	default:
		return BandStronglyBank
	}
}

// OverallHealthBand maps the mean of the six dimension scores to the five-tier
// overall health band.
func OverallHealthBand(mean float64) dg.HealthBand {
	switch {
	case mean <= 20:
		return dg.HealthCritical
	case mean <= 40:
		return dg.HealthDeveloping
	case mean <= 60:
		return dg.HealthEmerging
	case mean <= 80:
		return dg.HealthEstablished
	default:
		return dg.HealthThriving
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Data quality
// ─────────────────────────────────────────────────────────────────────────────

// QualityThresholds holds the minimum populated-factor counts for a
// dimension's data-quality tiers.  The cutoffs are per-dimension heuristics
// tuned against the current factor sets; they do not generalise to new
// dimensions without re-derivation.
type QualityThresholds struct {
	High   int `json:"high" yaml:"high" mapstructure:"high"`
	Medium int `json:"medium" yaml:"medium" mapstructure:"medium"`
}

// Tier maps a populated-factor count to a data-quality tier.
func (q QualityThresholds) Tier(populated int) dg.DataQuality {
	switch {
	case populated >= q.High:
		return dg.DataQualityHigh
	case populated >= q.Medium:
		return dg.DataQualityMedium
	default:
		return dg.DataQualityLow
	}
}

// DefaultQualityThresholds returns the built-in per-dimension thresholds.
func DefaultQualityThresholds() map[dg.Dimension]QualityThresholds {
	return map[dg.Dimension]QualityThresholds{
		dg.DimensionFundingReadiness:      {High: 8, Medium: 6},
		dg.DimensionComplianceMaturity:    {High: 6, Medium: 4},
		dg.DimensionDigitalMaturity:       {High: 6, Medium: 5},
		dg.DimensionGovernanceMaturity:    {High: 5, Medium: 3},
		dg.DimensionMarketReadiness:       {High: 6, Medium: 5},
		dg.DimensionOperationalEfficiency: {High: 6, Medium: 4},
	}
}

//Personal.AI order the ending
