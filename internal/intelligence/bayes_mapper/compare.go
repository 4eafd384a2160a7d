// Package bayes_mapper estimates, for every cross-model pair of compounds and
// reactions, the posterior probability that both entries describe the same
// biological entity.  Evidence channels (identifier, name, charge, formula,
// KEGG id, equation, genes) are scored independently against empirically
// estimated marginals, multiplied under a conditional-independence
// assumption, and combined with a size-derived prior through Bayes' rule.
//
// Every pairwise pass runs on a common.ChunkPool; each pair depends only on
// its two entities and on read-only pass parameters, so results do not depend
// on scheduling.
package bayes_mapper

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// ─────────────────────────────────────────────────────────────────────────────
// Outcome — result of comparing one annotation of two entities
// ─────────────────────────────────────────────────────────────────────────────

// Outcome is the observed evidence of one channel for one pair.
type Outcome uint8

const (
	// OutcomeUndefined means at least one side lacks the annotation; the
	// channel contributes the neutral likelihood (1, 1).
	OutcomeUndefined Outcome = iota
	OutcomeEqual
	OutcomeNotEqual
)

// String returns the outcome name used in logs.
func (o Outcome) String() string {
	switch o {
	case OutcomeEqual:
		return "equal"
	case OutcomeNotEqual:
		return "not_equal"
	default:
		return "undefined"
	}
}

func outcomeOf(equal bool) Outcome {
	if equal {
		return OutcomeEqual
	}
	return OutcomeNotEqual
}

// ─────────────────────────────────────────────────────────────────────────────
// Normalisation
// ─────────────────────────────────────────────────────────────────────────────

// NormalizeKey maps an identifier or a name to its comparison key: NFKC
// compatibility normalisation, Unicode case folding, then removal of every
// whitespace and punctuation rune.  Symbols such as '+' are kept, so "NAD+"
// and "NAD" stay distinct while "L-Alanine" and "l alanine" collide.
func NormalizeKey(s string) string {
	s = cases.Fold().String(norm.NFKC.String(s))
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || unicode.IsPunct(r) {
			return -1
		}
		return r
	}, s)
}

// ─────────────────────────────────────────────────────────────────────────────
// Comparators
// ─────────────────────────────────────────────────────────────────────────────

// IDEquals reports whether two identifiers are equal after normalisation.
func IDEquals(id1, id2 string) bool {
	return NormalizeKey(id1) == NormalizeKey(id2)
}

// NameEquals reports whether two names are equal after normalisation.  An
// undefined name never equals anything.
func NameEquals(name1, name2 *string) bool {
	if name1 == nil || name2 == nil {
		return false
	}
	return NormalizeKey(*name1) == NormalizeKey(*name2)
}

// ChargeEquals reports whether two defined charges are equal.
func ChargeEquals(c1, c2 *int) bool {
	return c1 != nil && c2 != nil && *c1 == *c2
}

// KeggEquals reports whether two defined KEGG ids are equal, ignoring
// surrounding whitespace and case.
func KeggEquals(k1, k2 *string) bool {
	if k1 == nil || k2 == nil {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(*k1), strings.TrimSpace(*k2))
}

func compareOptional[T any](a, b *T, equal func(x, y *T) bool) Outcome {
	if a == nil || b == nil {
		return OutcomeUndefined
	}
	return outcomeOf(equal(a, b))
}

//Personal.AI order the ending
