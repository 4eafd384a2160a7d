// Package network defines the metabolic network entities that metmap
// reconciles: compounds, reactions with their equations, and the model that
// owns both collections.  Entities are immutable once a Model is built; the
// mapping engine shares them across workers without copying.
package network

import (
	"sort"
	"strings"
)

// ─────────────────────────────────────────────────────────────────────────────
// Compound
// ─────────────────────────────────────────────────────────────────────────────

// Compound is a chemical species of a metabolic model.  Optional annotations
// are pointers; nil means the curator left the attribute undefined, which the
// mapping engine treats as neutral evidence.
type Compound struct {
	// ID is unique within the owning model.
	ID string

	Name    *string
	Charge  *int
	Formula *string

	// Kegg is the external KEGG cross-reference id (e.g. "C00002").
	Kegg *string
}

// ─────────────────────────────────────────────────────────────────────────────
// Equation
// ─────────────────────────────────────────────────────────────────────────────

// Term is one compound reference of an equation with its signed
// stoichiometric coefficient: negative for reactants, positive for products.
// Compartment is empty when the reference carries none.
type Term struct {
	CompoundID  string
	Compartment string
	Value       float64
}

// Ref renders the compound reference as "id" or "id[compartment]".
func (t Term) Ref() string {
	if t.Compartment == "" {
		return t.CompoundID
	}
	return t.CompoundID + "[" + t.Compartment + "]"
}

// Equation is the ordered list of terms of a reaction.
type Equation struct {
	Terms      []Term
	Reversible bool
}

// Left returns the distinct reactant compound ids in order of first
// appearance.  Compartments are dropped: atp[c] and atp[e] are both atp.
func (e *Equation) Left() []string {
	return e.side(func(v float64) bool { return v < 0 })
}

// Right returns the distinct product compound ids in order of first
// appearance.
func (e *Equation) Right() []string {
	return e.side(func(v float64) bool { return v > 0 })
}

func (e *Equation) side(keep func(float64) bool) []string {
	if e == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(e.Terms))
	out := make([]string, 0, len(e.Terms))
	for _, t := range e.Terms {
		if !keep(t.Value) {
			continue
		}
		if _, dup := seen[t.CompoundID]; dup {
			continue
		}
		seen[t.CompoundID] = struct{}{}
		out = append(out, t.CompoundID)
	}
	return out
}

// Reversed returns a copy of e with every coefficient negated, i.e. the same
// reaction written in the opposite direction.
func (e *Equation) Reversed() *Equation {
	if e == nil {
		return nil
	}
	terms := make([]Term, len(e.Terms))
	for i, t := range e.Terms {
		terms[i] = Term{CompoundID: t.CompoundID, Compartment: t.Compartment, Value: -t.Value}
	}
	return &Equation{Terms: terms, Reversible: e.Reversible}
}

// String renders e as "A + 2 B => C" ("<=>" when reversible).
func (e *Equation) String() string {
	if e == nil {
		return ""
	}
	var left, right []string
	for _, t := range e.Terms {
		v := t.Value
		if v < 0 {
			left = append(left, formatTerm(t.Ref(), -v))
		} else if v > 0 {
			right = append(right, formatTerm(t.Ref(), v))
		}
	}
	arrow := " => "
	if e.Reversible {
		arrow = " <=> "
	}
	return strings.TrimSpace(strings.Join(left, " + ") + arrow + strings.Join(right, " + "))
}

func formatTerm(id string, v float64) string {
	if v == 1 {
		return id
	}
	return strings.TrimRight(strings.TrimRight(formatFloat(v), "0"), ".") + " " + id
}

// ─────────────────────────────────────────────────────────────────────────────
// Reaction
// ─────────────────────────────────────────────────────────────────────────────

// Reaction is a metabolic reaction.  Equation nil means undefined.  Genes nil
// means the gene association is undefined; a non-nil empty slice means the
// curator explicitly associated no genes.
type Reaction struct {
	ID       string
	Name     *string
	Equation *Equation
	Genes    []string
}

// HasGenes reports whether the gene association is defined.
func (r *Reaction) HasGenes() bool {
	return r.Genes != nil
}

// GeneSet returns the distinct genes of r as a set.
func (r *Reaction) GeneSet() map[string]struct{} {
	if r.Genes == nil {
		return nil
	}
	set := make(map[string]struct{}, len(r.Genes))
	for _, g := range r.Genes {
		set[g] = struct{}{}
	}
	return set
}

// SortedGenes returns the distinct genes of r in lexical order.
func (r *Reaction) SortedGenes() []string {
	set := r.GeneSet()
	if set == nil {
		return nil
	}
	out := make([]string, 0, len(set))
	for g := range set {
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// Optional value helpers
// ─────────────────────────────────────────────────────────────────────────────

// StringPtr returns a pointer to s.
func StringPtr(s string) *string { return &s }

// IntPtr returns a pointer to i.
func IntPtr(i int) *int { return &i }

// Deref returns *p, or the zero value when p is nil.
func Deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

//Personal.AI order the ending
