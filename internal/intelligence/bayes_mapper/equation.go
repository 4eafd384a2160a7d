package bayes_mapper

import (
	"math"
	"sort"

	"github.com/turtacn/metmap/internal/domain/network"
)

// Direction is the orientation under which two equations were compared.
type Direction uint8

const (
	// Forward pairs left with left and right with right.
	Forward Direction = iota
	// Reverse pairs left with right and right with left.
	Reverse
)

func (d Direction) String() string {
	if d == Reverse {
		return "reverse"
	}
	return "forward"
}

// EquationMatch is the outcome of comparing two equations.
type EquationMatch struct {
	Direction  Direction
	Likelihood Likelihood
	// Paired is the number of compound pairs committed across both sides.
	Paired int
}

// logLikelihood accumulates a likelihood pair in log space.
type logLikelihood struct {
	match   float64
	noMatch float64
	paired  int
}

func (l logLikelihood) add(o logLikelihood) logLikelihood {
	return logLikelihood{match: l.match + o.match, noMatch: l.noMatch + o.noMatch, paired: l.paired + o.paired}
}

// odds is log(match/noMatch).  Both components are finite because every
// factor is at least 0.1.
func (l logLikelihood) odds() float64 { return l.match - l.noMatch }

type candidatePair struct {
	i, j  int
	score float64
}

// matchSides greedily pairs the compounds of two equation sides.  Candidate
// pairs are every (c1, c2) with a score in scores, visited by descending
// score with ties kept in (i, j) order; a pair is committed when neither
// compound is already paired.  Each committed pair of score s contributes
// s·0.9 + (1-s)·0.1 under match and s·0.1 + (1-s)·0.9 under no-match; every
// compound left unpaired contributes 0.1 and 0.9.
func matchSides(side1, side2 []string, scores ScoreLookup) logLikelihood {
	var cands []candidatePair
	for i, c1 := range side1 {
		for j, c2 := range side2 {
			if s, ok := scores.Score(c1, c2); ok {
				cands = append(cands, candidatePair{i: i, j: j, score: clamp01(s)})
			}
		}
	}
	sort.SliceStable(cands, func(a, b int) bool { return cands[a].score > cands[b].score })

	used1 := make([]bool, len(side1))
	used2 := make([]bool, len(side2))
	var out logLikelihood
	for _, c := range cands {
		if used1[c.i] || used2[c.j] {
			continue
		}
		used1[c.i], used2[c.j] = true, true
		out.paired++
		out.match += math.Log(c.score*compoundPairedGivenMatch + (1-c.score)*compoundPairedGivenNoMatch)
		out.noMatch += math.Log(c.score*compoundPairedGivenNoMatch + (1-c.score)*compoundPairedGivenMatch)
	}
	unpaired := float64(len(side1) + len(side2) - 2*out.paired)
	out.match += unpaired * math.Log(compoundPairedGivenNoMatch)
	out.noMatch += unpaired * math.Log(compoundPairedGivenMatch)
	return out
}

// matchEquationSides scores the forward and reverse hypotheses and keeps the
// one with the higher match/no-match ratio, forward on ties.
func matchEquationSides(left1, right1, left2, right2 []string, scores ScoreLookup) EquationMatch {
	fwd := matchSides(left1, left2, scores).add(matchSides(right1, right2, scores))
	rev := matchSides(left1, right2, scores).add(matchSides(right1, left2, scores))
	best, dir := fwd, Forward
	if rev.odds() > fwd.odds() {
		best, dir = rev, Reverse
	}
	return EquationMatch{
		Direction:  dir,
		Likelihood: Likelihood{Match: math.Exp(best.match), NoMatch: math.Exp(best.noMatch)},
		Paired:     best.paired,
	}
}

// MatchEquations compares two equations using the compound match
// probabilities in scores.  When either equation is nil the result is
// Neutral in the forward direction.
func MatchEquations(e1, e2 *network.Equation, scores ScoreLookup) EquationMatch {
	if e1 == nil || e2 == nil {
		return EquationMatch{Direction: Forward, Likelihood: Neutral}
	}
	return matchEquationSides(e1.Left(), e1.Right(), e2.Left(), e2.Right(), scores)
}

func equationLikelihood(a, b *reactionView, scores ScoreLookup) Likelihood {
	if !a.hasEquation || !b.hasEquation {
		return Neutral
	}
	return matchEquationSides(a.left, a.right, b.left, b.right, scores).Likelihood
}

//Personal.AI order the ending
