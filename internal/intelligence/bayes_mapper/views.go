package bayes_mapper

import (
	"strings"

	"github.com/turtacn/metmap/internal/domain/network"
)

// Compound and Reaction are the entities the engine compares.
type (
	Compound = network.Compound
	Reaction = network.Reaction
)

// compoundView caches the normalised comparison keys of a compound so that a
// pairwise pass normalises each entity once instead of once per pair.
type compoundView struct {
	idKey string

	nameKey string
	hasName bool

	charge *int

	formula       Formula
	formulaRaw    string
	formulaParsed bool
	hasFormula    bool

	keggKey string
	hasKegg bool
}

func newCompoundView(c *Compound) *compoundView {
	v := &compoundView{idKey: NormalizeKey(c.ID), charge: c.Charge}
	if c.Name != nil {
		v.nameKey, v.hasName = NormalizeKey(*c.Name), true
	}
	if c.Formula != nil {
		v.hasFormula = true
		v.formulaRaw = *c.Formula
		f, err := ParseFormula(*c.Formula)
		v.formula, v.formulaParsed = f, err == nil
	}
	if c.Kegg != nil {
		v.keggKey, v.hasKegg = strings.ToLower(strings.TrimSpace(*c.Kegg)), true
	}
	return v
}

func newCompoundViews(cs []*Compound) []*compoundView {
	out := make([]*compoundView, len(cs))
	for i, c := range cs {
		out[i] = newCompoundView(c)
	}
	return out
}

func compoundIDOutcome(a, b *compoundView) Outcome {
	return outcomeOf(a.idKey == b.idKey)
}

func compoundNameOutcome(a, b *compoundView) Outcome {
	if !a.hasName || !b.hasName {
		return OutcomeUndefined
	}
	return outcomeOf(a.nameKey == b.nameKey)
}

func compoundChargeOutcome(a, b *compoundView) Outcome {
	return compareOptional(a.charge, b.charge, ChargeEquals)
}

func compoundFormulaOutcome(a, b *compoundView) Outcome {
	if !a.hasFormula || !b.hasFormula {
		return OutcomeUndefined
	}
	return outcomeOf(formulaEquals(a.formula, b.formula, a.formulaParsed && b.formulaParsed,
		a.formulaRaw, b.formulaRaw, a.charge, b.charge))
}

func compoundKeggOutcome(a, b *compoundView) Outcome {
	if !a.hasKegg || !b.hasKegg {
		return OutcomeUndefined
	}
	return outcomeOf(a.keggKey == b.keggKey)
}

// reactionView caches the comparison keys of a reaction.
type reactionView struct {
	idKey string

	nameKey string
	hasName bool

	hasEquation bool
	left        []string
	right       []string

	genes map[string]struct{}
}

func newReactionView(r *Reaction) *reactionView {
	v := &reactionView{idKey: NormalizeKey(r.ID), genes: r.GeneSet()}
	if r.Name != nil {
		v.nameKey, v.hasName = NormalizeKey(*r.Name), true
	}
	if r.Equation != nil {
		v.hasEquation = true
		v.left, v.right = r.Equation.Left(), r.Equation.Right()
	}
	return v
}

func newReactionViews(rs []*Reaction) []*reactionView {
	out := make([]*reactionView, len(rs))
	for i, r := range rs {
		out[i] = newReactionView(r)
	}
	return out
}

func reactionIDOutcome(a, b *reactionView) Outcome {
	return outcomeOf(a.idKey == b.idKey)
}

func reactionNameOutcome(a, b *reactionView) Outcome {
	if !a.hasName || !b.hasName {
		return OutcomeUndefined
	}
	return outcomeOf(a.nameKey == b.nameKey)
}

//Personal.AI order the ending
