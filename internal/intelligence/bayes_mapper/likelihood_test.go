package bayes_mapper

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/turtacn/metmap/internal/domain/network"
)

const eps = 1e-12

func TestEstimatePrior(t *testing.T) {
	assert.InDelta(t, 0.0475, EstimatePrior(10, 20), eps)
	assert.InDelta(t, 0.0475, EstimatePrior(20, 10), eps)
	assert.Equal(t, 0.0, EstimatePrior(0, 5))
	assert.Equal(t, 0.0, EstimatePrior(5, 0))
}

func TestChannelLikelihood(t *testing.T) {
	m := Marginal{Equal: 0.2, NotEqual: 0.8}

	eq := ChannelLikelihood(OutcomeEqual, CompoundIDConstants, 0.1, m)
	assert.InDelta(t, 0.65, eq.Match, eps)
	assert.InDelta(t, 0.15, eq.NoMatch, eps)

	ne := ChannelLikelihood(OutcomeNotEqual, CompoundIDConstants, 0.1, m)
	assert.InDelta(t, 0.35, ne.Match, eps)
	assert.InDelta(t, 0.85, ne.NoMatch, eps)

	assert.Equal(t, Neutral, ChannelLikelihood(OutcomeUndefined, CompoundIDConstants, 0.1, m))
}

func TestChannelLikelihood_ClampsNoMatch(t *testing.T) {
	l := ChannelLikelihood(OutcomeEqual, CompoundIDConstants, 0.5, Marginal{Equal: 0.01})
	assert.Equal(t, 0.0, l.NoMatch)

	l = ChannelLikelihood(OutcomeNotEqual, CompoundIDConstants, 0.5, Marginal{NotEqual: 1})
	assert.Equal(t, 1.0, l.NoMatch)
}

func TestMatchConstants_Complement(t *testing.T) {
	for _, k := range []MatchConstants{
		CompoundIDConstants, CompoundNameConstants, CompoundChargeConstants,
		CompoundFormulaConstants, CompoundKeggConstants, ReactionIDConstants, ReactionNameConstants,
	} {
		assert.InDelta(t, 1.0, k.Equal+k.NotEqual, eps)
	}
}

func TestCompoundLikelihoods_UndefinedIsNeutral(t *testing.T) {
	bare := &network.Compound{ID: "x"}
	full := &network.Compound{
		ID:      "y",
		Name:    network.StringPtr("ATP"),
		Charge:  network.IntPtr(-4),
		Formula: network.StringPtr("C10H12N5O13P3"),
		Kegg:    network.StringPtr("C00002"),
	}
	m := Marginal{Equal: 0.1, NotEqual: 0.5}
	assert.Equal(t, Neutral, CompoundNameLikelihood(bare, full, 0.01, m))
	assert.Equal(t, Neutral, CompoundChargeLikelihood(bare, full, 0.01, m))
	assert.Equal(t, Neutral, CompoundFormulaLikelihood(full, bare, 0.01, m))
	assert.Equal(t, Neutral, CompoundKeggLikelihood(full, bare, 0.01, m))
	assert.NotEqual(t, Neutral, CompoundIDLikelihood(bare, full, 0.01, m))
}

func TestCompoundFormulaLikelihood_UsesCharge(t *testing.T) {
	c1 := &network.Compound{ID: "atp", Charge: network.IntPtr(0), Formula: network.StringPtr("C10H16N5O13P3")}
	c2 := &network.Compound{ID: "atp4", Charge: network.IntPtr(-4), Formula: network.StringPtr("C10H12N5O13P3")}
	l := CompoundFormulaLikelihood(c1, c2, 0.01, Marginal{Equal: 0.05, NotEqual: 0.9})
	assert.InDelta(t, 0.9, l.Match, eps)
}

func TestReactionNameLikelihood_ComplementMarginal(t *testing.T) {
	r1 := &network.Reaction{ID: "r1", Name: network.StringPtr("hexokinase")}
	r2 := &network.Reaction{ID: "r2", Name: network.StringPtr("pyruvate kinase")}
	l := ReactionNameLikelihood(r1, r2, 0.1, Marginal{Equal: 0.3, NotEqual: 0.1})
	assert.InDelta(t, 0.41, l.Match, eps)
	assert.InDelta(t, (0.7-0.41*0.1)/0.9, l.NoMatch, eps)

	r3 := &network.Reaction{ID: "r3"}
	assert.Equal(t, Neutral, ReactionNameLikelihood(r1, r3, 0.1, Marginal{Equal: 0.3}))
}

func TestReactionGeneLikelihood(t *testing.T) {
	r1 := &network.Reaction{ID: "r1", Genes: []string{"g1", "g2"}}
	r2 := &network.Reaction{ID: "r2", Genes: []string{"g2", "g3"}}

	l := ReactionGeneLikelihood(r1, r2)
	assert.InDelta(t, 0.99*0.01*0.01, l.Match, eps)
	assert.InDelta(t, 0.10*0.90*0.90, l.NoMatch, eps)

	assert.Equal(t, Neutral, ReactionGeneLikelihood(r1, &network.Reaction{ID: "r3"}))
	assert.Equal(t, Neutral, ReactionGeneLikelihood(
		&network.Reaction{ID: "a", Genes: []string{}},
		&network.Reaction{ID: "b", Genes: []string{}}))
}

func TestBayesPosterior(t *testing.T) {
	assert.InDelta(t, 0.9, BayesPosterior(0.5, Likelihood{Match: 0.9, NoMatch: 0.1}), eps)
	assert.InDelta(t, 0.3, BayesPosterior(0.3, Neutral), eps)
	assert.Equal(t, 0.0, BayesPosterior(0.3, Likelihood{}))
	assert.Equal(t, 0.0, BayesPosterior(0, Neutral))

	p := BayesPosterior(0.01, Likelihood{Match: math.SmallestNonzeroFloat64, NoMatch: 1})
	assert.GreaterOrEqual(t, p, 0.0)
	assert.LessOrEqual(t, p, 1.0)
}

func TestBayesPosterior_Monotonic(t *testing.T) {
	levels := []float64{0.001, 0.05, 0.2, 0.5, 0.8, 1}
	for _, prior := range []float64{0.01, 0.19, 0.5, 0.95} {
		for _, fixed := range levels {
			for k := 1; k < len(levels); k++ {
				lo, hi := levels[k-1], levels[k]
				assert.Greater(t,
					BayesPosterior(prior, Likelihood{Match: hi, NoMatch: fixed}),
					BayesPosterior(prior, Likelihood{Match: lo, NoMatch: fixed}),
					"match prior=%v no_match=%v", prior, fixed)
				assert.Less(t,
					BayesPosterior(prior, Likelihood{Match: fixed, NoMatch: hi}),
					BayesPosterior(prior, Likelihood{Match: fixed, NoMatch: lo}),
					"no_match prior=%v match=%v", prior, fixed)
			}
		}
	}
}

//Personal.AI order the ending
