package diagnostics

import (
	dg "github.com/turtacn/SME-Diagnostics/pkg/types/diagnosis"
)

// ─────────────────────────────────────────────────────────────────────────────
// Rule ladders
//
// Every factor is computed by a small ordered ladder of (predicate, value,
// evidence) rungs evaluated top to bottom; the first matching rung supplies
// the factor value, its evidence text, and an optional improvement
// recommendation.  Representing the ladders as data rather than nested
// conditionals keeps each rung independently testable.
// ─────────────────────────────────────────────────────────────────────────────

// rung is one rung of a factor ladder.  Exactly one of positive/negative is
// normally set; a rung with neither contributes a value silently.
type rung struct {
	when      func(in *dg.Input) bool
	value     float64
	reason    dg.ReasonCode
	positive  string
	negative  string
	recommend string
}

// ladder is the ordered rule ladder for one factor.  available gates whether
// the factor is computable at all from the supplied input; when it returns
// false the factor is omitted from the sparse map (not scored as zero).  A
// nil available means the factor is always computable.
type ladder struct {
	factor    FactorKey
	available func(in *dg.Input) bool
	rungs     []rung
}

// extraction accumulates one dimension's factor-extraction pass.
type extraction struct {
	factors   map[FactorKey]float64
	positives []dg.Evidence
	negatives []dg.Evidence
	recs      []string
}

// runLadders evaluates a dimension's ladders against the input bundle in
// order, producing the sparse factor map and the ordered evidence lists.
func runLadders(in *dg.Input, ladders []ladder) extraction {
	ex := extraction{factors: make(map[FactorKey]float64, len(ladders))}
	for _, l := range ladders {
		if l.available != nil && !l.available(in) {
			continue
		}
		for _, r := range l.rungs {
			if !r.when(in) {
				continue
			}
			ex.factors[l.factor] = clamp01(r.value)
			if r.positive != "" {
				ex.positives = append(ex.positives, dg.Evidence{Reason: r.reason, Text: r.positive})
			}
			if r.negative != "" {
				ex.negatives = append(ex.negatives, dg.Evidence{Reason: r.reason, Text: r.negative})
			}
			if r.recommend != "" {
				ex.recs = append(ex.recs, r.recommend)
			}
			break
		}
	}
	return ex
}

// always is the catch-all predicate for the final rung of a ladder.
func always(*dg.Input) bool { return true }

// extractor is the signature shared by the six dimension extractors.
type extractor func(in *dg.Input) extraction

// extractors returns the extractor for every dimension, keyed by dimension.
func extractors() map[dg.Dimension]extractor {
	return map[dg.Dimension]extractor{
		dg.DimensionFundingReadiness:      extractFunding,
		dg.DimensionComplianceMaturity:    extractCompliance,
		dg.DimensionDigitalMaturity:       extractDigital,
		dg.DimensionGovernanceMaturity:    extractGovernance,
		dg.DimensionMarketReadiness:       extractMarket,
		dg.DimensionOperationalEfficiency: extractOperational,
	}
}

// hasValidDocument reports whether the bundle contains an unexpired document
// of the given type at the input's reference time.
func hasValidDocument(in *dg.Input, t dg.DocumentType) bool {
	for _, d := range in.Documents {
		if d.Type == t && d.ValidAt(in.AsOf) {
			return true
		}
	}
	return false
}

// hasExpiredDocument reports whether the bundle contains a document of the
// given type whose expiry has passed.
func hasExpiredDocument(in *dg.Input, t dg.DocumentType) bool {
	for _, d := range in.Documents {
		if d.Type == t && !d.ValidAt(in.AsOf) {
			return true
		}
	}
	return false
}

//Personal.AI order the ending
