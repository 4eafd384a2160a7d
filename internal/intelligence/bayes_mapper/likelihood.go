package bayes_mapper

import "math"

// ─────────────────────────────────────────────────────────────────────────────
// Channel constants
// ─────────────────────────────────────────────────────────────────────────────

// MatchConstants are P(equal | match) and P(not equal | match) of a channel.
type MatchConstants struct {
	Equal    float64
	NotEqual float64
}

func matchConstants(pEqual float64) MatchConstants {
	return MatchConstants{Equal: pEqual, NotEqual: 1 - pEqual}
}

var (
	CompoundIDConstants      = matchConstants(0.65)
	CompoundNameConstants    = matchConstants(0.60)
	CompoundChargeConstants  = matchConstants(0.90)
	CompoundFormulaConstants = matchConstants(0.90)
	CompoundKeggConstants    = matchConstants(0.65)

	ReactionIDConstants   = matchConstants(0.52)
	ReactionNameConstants = matchConstants(0.59)
)

const (
	// priorMatchFraction is the assumed share of the smaller model that has a
	// counterpart in the other model.
	priorMatchFraction = 0.95

	geneSharedGivenMatch   = 0.99
	geneDiffGivenMatch     = 0.01
	geneSharedGivenNoMatch = 0.10
	geneDiffGivenNoMatch   = 0.90

	// Per-compound probabilities used by the equation matcher.
	compoundPairedGivenMatch   = 0.9
	compoundPairedGivenNoMatch = 0.1
)

// ─────────────────────────────────────────────────────────────────────────────
// Prior and marginals
// ─────────────────────────────────────────────────────────────────────────────

// EstimatePrior returns the prior probability that a random cross pair of two
// collections of sizes n and m matches: 0.95·min(n,m)/(n·m).  It is 0 when
// either collection is empty.
func EstimatePrior(n, m int) float64 {
	if n <= 0 || m <= 0 {
		return 0
	}
	return priorMatchFraction * float64(min(n, m)) / (float64(n) * float64(m))
}

// Marginal holds the observed fractions of all cross pairs whose channel
// comparison came out equal and not equal.
type Marginal struct {
	Equal    float64
	NotEqual float64
}

// noMatchLikelihood solves marginal = p·prior + q·(1-prior) for q, clamped to
// [0, 1].
func noMatchLikelihood(marginal, pMatch, prior float64) float64 {
	if prior >= 1 {
		return 0
	}
	return clamp01((marginal - pMatch*prior) / (1 - prior))
}

func clamp01(x float64) float64 {
	switch {
	case math.IsNaN(x) || x < 0:
		return 0
	case x > 1:
		return 1
	}
	return x
}

// ChannelLikelihood turns the outcome of a categorical channel into its
// likelihood pair.  Undefined outcomes are Neutral.
func ChannelLikelihood(o Outcome, k MatchConstants, prior float64, m Marginal) Likelihood {
	switch o {
	case OutcomeEqual:
		return Likelihood{Match: k.Equal, NoMatch: noMatchLikelihood(m.Equal, k.Equal, prior)}
	case OutcomeNotEqual:
		return Likelihood{Match: k.NotEqual, NoMatch: noMatchLikelihood(m.NotEqual, k.NotEqual, prior)}
	default:
		return Neutral
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Compound channels
// ─────────────────────────────────────────────────────────────────────────────

// CompoundIDLikelihood scores identifier equality.
func CompoundIDLikelihood(c1, c2 *Compound, prior float64, m Marginal) Likelihood {
	return ChannelLikelihood(compoundIDOutcome(newCompoundView(c1), newCompoundView(c2)), CompoundIDConstants, prior, m)
}

// CompoundNameLikelihood scores name equality; an undefined name is neutral.
func CompoundNameLikelihood(c1, c2 *Compound, prior float64, m Marginal) Likelihood {
	return ChannelLikelihood(compoundNameOutcome(newCompoundView(c1), newCompoundView(c2)), CompoundNameConstants, prior, m)
}

// CompoundChargeLikelihood scores charge equality; an undefined charge is
// neutral.
func CompoundChargeLikelihood(c1, c2 *Compound, prior float64, m Marginal) Likelihood {
	return ChannelLikelihood(compoundChargeOutcome(newCompoundView(c1), newCompoundView(c2)), CompoundChargeConstants, prior, m)
}

// CompoundFormulaLikelihood scores charge-aware formula equality; an
// undefined formula is neutral.
func CompoundFormulaLikelihood(c1, c2 *Compound, prior float64, m Marginal) Likelihood {
	return ChannelLikelihood(compoundFormulaOutcome(newCompoundView(c1), newCompoundView(c2)), CompoundFormulaConstants, prior, m)
}

// CompoundKeggLikelihood scores KEGG id equality; an undefined id is neutral.
func CompoundKeggLikelihood(c1, c2 *Compound, prior float64, m Marginal) Likelihood {
	return ChannelLikelihood(compoundKeggOutcome(newCompoundView(c1), newCompoundView(c2)), CompoundKeggConstants, prior, m)
}

// ─────────────────────────────────────────────────────────────────────────────
// Reaction channels
// ─────────────────────────────────────────────────────────────────────────────

// ReactionIDLikelihood scores identifier equality.
func ReactionIDLikelihood(r1, r2 *Reaction, prior float64, m Marginal) Likelihood {
	return ChannelLikelihood(reactionIDOutcome(newReactionView(r1), newReactionView(r2)), ReactionIDConstants, prior, m)
}

// ReactionNameLikelihood scores name equality.  Its not-equal branch always
// uses the complement 1 - m.Equal as the marginal.
func ReactionNameLikelihood(r1, r2 *Reaction, prior float64, m Marginal) Likelihood {
	return ChannelLikelihood(reactionNameOutcome(newReactionView(r1), newReactionView(r2)), ReactionNameConstants, prior,
		Marginal{Equal: m.Equal, NotEqual: 1 - m.Equal})
}

// ReactionEquationLikelihood scores the equations of two reactions against
// the compound match probabilities in scores.  A missing equation is neutral.
func ReactionEquationLikelihood(r1, r2 *Reaction, scores ScoreLookup) Likelihood {
	return MatchEquations(r1.Equation, r2.Equation, scores).Likelihood
}

// ReactionGeneLikelihood scores the gene association overlap.  A reaction
// without a gene association is neutral.
func ReactionGeneLikelihood(r1, r2 *Reaction) Likelihood {
	return geneLikelihood(newReactionView(r1), newReactionView(r2))
}

func geneLikelihood(a, b *reactionView) Likelihood {
	if a.genes == nil || b.genes == nil {
		return Neutral
	}
	shared, diff := 0, 0
	for g := range a.genes {
		if _, ok := b.genes[g]; ok {
			shared++
		} else {
			diff++
		}
	}
	for g := range b.genes {
		if _, ok := a.genes[g]; !ok {
			diff++
		}
	}
	return Likelihood{
		Match:   math.Pow(geneSharedGivenMatch, float64(shared)) * math.Pow(geneDiffGivenMatch, float64(diff)),
		NoMatch: math.Pow(geneSharedGivenNoMatch, float64(shared)) * math.Pow(geneDiffGivenNoMatch, float64(diff)),
	}
}

//Personal.AI order the ending
