package bayes_mapper

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/turtacn/metmap/internal/domain/network"
)

func equation(left, right []string) *network.Equation {
	eq := &network.Equation{}
	for _, c := range left {
		eq.Terms = append(eq.Terms, network.Term{CompoundID: c, Value: -1})
	}
	for _, c := range right {
		eq.Terms = append(eq.Terms, network.Term{CompoundID: c, Value: 1})
	}
	return eq
}

func TestMatchEquations_SelectsReverse(t *testing.T) {
	scores := SparseScores{
		{A: "A", B: "A2"}: 0.9,
		{A: "B", B: "B2"}: 0.9,
		{A: "C", B: "C2"}: 0.9,
	}
	e1 := equation([]string{"A", "B"}, []string{"C"})
	e2 := equation([]string{"C2"}, []string{"A2", "B2"})

	got := MatchEquations(e1, e2, scores)
	assert.Equal(t, Reverse, got.Direction)
	assert.Equal(t, 3, got.Paired)
	assert.InDelta(t, math.Pow(0.82, 3), got.Likelihood.Match, eps)
	assert.InDelta(t, math.Pow(0.18, 3), got.Likelihood.NoMatch, eps)
}

func TestMatchEquations_TieKeepsForward(t *testing.T) {
	e1 := equation([]string{"A"}, []string{"B", "C"})
	e2 := equation([]string{"X", "Y"}, []string{"Z"})

	got := MatchEquations(e1, e2, SparseScores{})
	assert.Equal(t, Forward, got.Direction)
	assert.Equal(t, 0, got.Paired)
	assert.InDelta(t, math.Pow(0.1, 6), got.Likelihood.Match, eps)
	assert.InDelta(t, math.Pow(0.9, 6), got.Likelihood.NoMatch, eps)
}

func TestMatchEquations_Undefined(t *testing.T) {
	e := equation([]string{"A"}, []string{"B"})
	got := MatchEquations(nil, e, SparseScores{})
	assert.Equal(t, Neutral, got.Likelihood)
	assert.Equal(t, Forward, got.Direction)
}

func TestMatchEquations_DirectionInvariant(t *testing.T) {
	scores := SparseScores{
		{A: "A", B: "A2"}: 0.7,
		{A: "B", B: "B2"}: 0.4,
		{A: "C", B: "B2"}: 0.2,
	}
	e1 := equation([]string{"A", "B"}, []string{"C"})
	e2 := equation([]string{"A2"}, []string{"B2", "C2"})

	a := MatchEquations(e1, e2, scores)
	b := MatchEquations(e1.Reversed(), e2.Reversed(), scores)
	assert.InDelta(t, a.Likelihood.Match, b.Likelihood.Match, eps)
	assert.InDelta(t, a.Likelihood.NoMatch, b.Likelihood.NoMatch, eps)
	assert.Equal(t, a.Direction, b.Direction)
}

func TestMatchSides_Greedy(t *testing.T) {
	scores := SparseScores{
		{A: "A", B: "X"}: 0.9,
		{A: "A", B: "Y"}: 0.8,
		{A: "B", B: "X"}: 0.7,
	}
	got := matchSides([]string{"A", "B"}, []string{"X", "Y"}, scores)
	assert.Equal(t, 1, got.paired)
	assert.InDelta(t, 0.82*0.01, math.Exp(got.match), eps)
	assert.InDelta(t, 0.18*0.81, math.Exp(got.noMatch), eps)
}

func TestMatchSides_OrderIndependentWithoutTies(t *testing.T) {
	scores := SparseScores{
		{A: "A", B: "X"}: 0.9,
		{A: "B", B: "Y"}: 0.6,
		{A: "B", B: "X"}: 0.3,
	}
	a := matchSides([]string{"A", "B"}, []string{"X", "Y"}, scores)
	b := matchSides([]string{"B", "A"}, []string{"Y", "X"}, scores)
	assert.Equal(t, a.paired, b.paired)
	assert.InDelta(t, a.match, b.match, eps)
	assert.InDelta(t, a.noMatch, b.noMatch, eps)
}

func TestMatchSides_Empty(t *testing.T) {
	got := matchSides(nil, nil, SparseScores{})
	assert.Equal(t, 0.0, got.match)
	assert.Equal(t, 0.0, got.noMatch)
}

//Personal.AI order the ending
