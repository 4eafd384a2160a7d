package bayes_mapper

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// Formula is a parsed chemical formula: element symbol → atom count.
// Elements with a zero count are never stored.
type Formula map[string]int

// ParseFormula parses formulas such as "C6H12O6", "Ca(OH)2", "[Fe(CN)6]3"
// and hydrate notation "CuSO4.5H2O".  Unsupported notation (repeat units such
// as "(C6H10O5)n", charges, isotopes) yields an error.
func ParseFormula(s string) (Formula, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("formula: empty")
	}
	f := make(Formula)
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == '.' || r == '*' || r == '·' }) {
		mult, rest, err := leadingCount(part)
		if err != nil {
			return nil, fmt.Errorf("formula %q: %w", s, err)
		}
		p := &formulaParser{src: rest}
		group, err := p.parseGroup(0)
		if err != nil {
			return nil, fmt.Errorf("formula %q: %w", s, err)
		}
		if p.pos != len(p.src) {
			return nil, fmt.Errorf("formula %q: unexpected %q at %d", s, p.src[p.pos], p.pos)
		}
		for el, n := range group {
			f[el] += n * mult
		}
	}
	return f, nil
}

func leadingCount(s string) (int, string, error) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return 1, s, nil
	}
	n, err := atomCount(s[:i])
	if err != nil {
		return 0, "", err
	}
	return n, s[i:], nil
}

// maxAtomCount bounds every count so that nested multiplication stays far
// from int overflow.
const maxAtomCount = 1_000_000

// atomCount parses a count; zero and oversized counts are rejected.
func atomCount(digits string) (int, error) {
	n, err := strconv.Atoi(digits)
	if err != nil || n > maxAtomCount {
		return 0, fmt.Errorf("count %s out of range", digits)
	}
	if n == 0 {
		return 0, fmt.Errorf("zero count")
	}
	return n, nil
}

type formulaParser struct {
	src string
	pos int
}

func (p *formulaParser) parseGroup(depth int) (Formula, error) {
	out := make(Formula)
	for p.pos < len(p.src) {
		ch := rune(p.src[p.pos])
		switch {
		case ch == '(' || ch == '[':
			closing := byte(')')
			if ch == '[' {
				closing = ']'
			}
			p.pos++
			inner, err := p.parseGroup(depth + 1)
			if err != nil {
				return nil, err
			}
			if p.pos >= len(p.src) || p.src[p.pos] != closing {
				return nil, fmt.Errorf("unbalanced %q", ch)
			}
			p.pos++
			n, err := p.parseCount()
			if err != nil {
				return nil, err
			}
			for el, c := range inner {
				out[el] += c * n
			}
		case ch == ')' || ch == ']':
			if depth == 0 {
				return nil, fmt.Errorf("unbalanced %q", ch)
			}
			return out, nil
		case unicode.IsUpper(ch):
			start := p.pos
			p.pos++
			for p.pos < len(p.src) && unicode.IsLower(rune(p.src[p.pos])) {
				p.pos++
			}
			el := p.src[start:p.pos]
			n, err := p.parseCount()
			if err != nil {
				return nil, err
			}
			out[el] += n
		default:
			return nil, fmt.Errorf("unexpected %q at %d", ch, p.pos)
		}
	}
	if depth > 0 {
		return nil, fmt.Errorf("unterminated group")
	}
	return out, nil
}

func (p *formulaParser) parseCount() (int, error) {
	start := p.pos
	for p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
		p.pos++
	}
	if start == p.pos {
		return 1, nil
	}
	n, err := atomCount(p.src[start:p.pos])
	if err != nil {
		return 0, fmt.Errorf("%w at %d", err, start)
	}
	return n, nil
}

// Equal reports whether f and g contain the same atoms.
func (f Formula) Equal(g Formula) bool {
	return f.equalExcept(g, "") && f["H"] == g["H"]
}

// EqualProtonAdjusted reports whether f and g differ at most in hydrogen,
// by exactly hDelta atoms (f has hDelta more H than g).
func (f Formula) EqualProtonAdjusted(g Formula, hDelta int) bool {
	return f.equalExcept(g, "H") && f["H"]-g["H"] == hDelta
}

func (f Formula) equalExcept(g Formula, skip string) bool {
	for el, n := range f {
		if el != skip && g[el] != n {
			return false
		}
	}
	for el, n := range g {
		if el != skip && f[el] != n {
			return false
		}
	}
	return true
}

// String renders f in Hill order (C, H, then alphabetical; alphabetical when
// there is no carbon).
func (f Formula) String() string {
	els := make([]string, 0, len(f))
	for el := range f {
		els = append(els, el)
	}
	_, hasC := f["C"]
	sort.Slice(els, func(i, j int) bool {
		return hillRank(els[i], hasC) < hillRank(els[j], hasC) ||
			(hillRank(els[i], hasC) == hillRank(els[j], hasC) && els[i] < els[j])
	})
	var sb strings.Builder
	for _, el := range els {
		sb.WriteString(el)
		if n := f[el]; n != 1 {
			sb.WriteString(strconv.Itoa(n))
		}
	}
	return sb.String()
}

func hillRank(el string, hasC bool) int {
	if !hasC {
		return 2
	}
	switch el {
	case "C":
		return 0
	case "H":
		return 1
	}
	return 2
}

// FormulaEquals reports whether two formulas describe the same compound.
// When both charges are known, a hydrogen difference equal to the charge
// difference is tolerated (protonation states of one species).  Formulas
// that cannot be parsed are compared textually after whitespace removal.
func FormulaEquals(f1, f2 *string, charge1, charge2 *int) bool {
	if f1 == nil || f2 == nil {
		return false
	}
	p1, err1 := ParseFormula(*f1)
	p2, err2 := ParseFormula(*f2)
	return formulaEquals(p1, p2, err1 == nil && err2 == nil, *f1, *f2, charge1, charge2)
}

func formulaEquals(p1, p2 Formula, parsed bool, raw1, raw2 string, charge1, charge2 *int) bool {
	if !parsed {
		return compactFormula(raw1) == compactFormula(raw2)
	}
	if charge1 == nil || charge2 == nil {
		return p1.Equal(p2)
	}
	return p1.EqualProtonAdjusted(p2, *charge1-*charge2)
}

func compactFormula(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

//Personal.AI order the ending
