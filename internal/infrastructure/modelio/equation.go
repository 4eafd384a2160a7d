package modelio

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/turtacn/metmap/internal/domain/network"
	"github.com/turtacn/metmap/pkg/errors"
)

var (
	// Longest arrows first so that "<=>" is not read as "<=".
	arrows = []struct {
		token      string
		reversible bool
		leftward   bool
	}{
		{"<=>", true, false},
		{"=>", false, false},
		{"<=", false, true},
	}

	plusSeparator = regexp.MustCompile(`\s+\+\s+`)

	// "atp[c]": compound id followed by a compartment suffix.
	compartmentSuffix = regexp.MustCompile(`^(.+?)\[([^\[\]]+)\]$`)
	// "[c] : atp => adp": a compartment applying to every term.
	compartmentPrefix = regexp.MustCompile(`^\[([^\[\]]+)\]\s*:\s*`)
	termPattern   = regexp.MustCompile(`^(?:\(\s*([0-9.eE+-]+)\s*\)|([0-9]*\.?[0-9]+(?:[eE][+-]?[0-9]+)?))?\s*(.+)$`)
)

// ParseEquation parses the textual form "A + 2 B => C".  Coefficients may be
// bare numbers or parenthesised ("(2) B"); ids containing spaces or '+' may be
// quoted with '|'.  "<=>" marks a reversible reaction and "<=" is rewritten
// left to right.  A compound reference may carry a compartment suffix
// ("atp[c]"), and a leading "[c] :" sets the compartment of every term that
// has none.  Repeated compounds on one side are merged.
func ParseEquation(s string) (*network.Equation, error) {
	text := strings.TrimSpace(s)
	if text == "" {
		return nil, errors.New(errors.ErrCodeModelInvalid, "empty equation")
	}
	var compartment string
	if m := compartmentPrefix.FindStringSubmatch(text); m != nil {
		compartment = strings.TrimSpace(m[1])
		text = strings.TrimSpace(text[len(m[0]):])
	}

	pos, arrow := -1, 0
	for i, a := range arrows {
		if p := indexOutsideQuotes(text, a.token); p >= 0 {
			pos, arrow = p, i
			break
		}
	}
	if pos < 0 {
		return nil, errors.New(errors.ErrCodeModelInvalid, "equation has no direction arrow").WithDetail("equation=" + s)
	}
	a := arrows[arrow]
	leftText := text[:pos]
	rightText := text[pos+len(a.token):]
	if a.leftward {
		leftText, rightText = rightText, leftText
	}

	left, err := parseSide(leftText)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeUnknown, "invalid left side").WithDetail("equation=" + s)
	}
	right, err := parseSide(rightText)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeUnknown, "invalid right side").WithDetail("equation=" + s)
	}
	if len(left) == 0 && len(right) == 0 {
		return nil, errors.New(errors.ErrCodeModelInvalid, "equation has no compounds").WithDetail("equation=" + s)
	}
	for _, side := range [][]term{left, right} {
		for i := range side {
			if side[i].compartment == "" {
				side[i].compartment = compartment
			}
		}
	}
	return buildEquation(left, right, a.reversible), nil
}

type term struct {
	id          string
	compartment string
	value       float64
}

// newTerm splits a trailing compartment off id.
func newTerm(id string, value float64) (term, error) {
	t := term{id: id, value: value}
	if m := compartmentSuffix.FindStringSubmatch(id); m != nil {
		t.id, t.compartment = strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
	}
	if t.id == "" {
		return term{}, errors.New(errors.ErrCodeModelInvalid, "malformed compound id").WithDetail("term=" + id)
	}
	return t, nil
}

func parseSide(side string) ([]term, error) {
	side = strings.TrimSpace(side)
	if side == "" || side == "|" {
		return nil, nil
	}
	var out []term
	for _, part := range splitOutsideQuotes(side) {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, errors.New(errors.ErrCodeModelInvalid, "empty term")
		}
		t, err := parseTerm(part)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func parseTerm(s string) (term, error) {
	// A quoted id with no coefficient.
	if strings.HasPrefix(s, "|") {
		return quotedTerm(s, 1)
	}
	m := termPattern.FindStringSubmatch(s)
	if m == nil {
		return term{}, errors.New(errors.ErrCodeModelInvalid, "malformed term").WithDetail("term=" + s)
	}
	coef, id := m[1], strings.TrimSpace(m[3])
	if coef == "" {
		coef = m[2]
	}
	// "2B" has no separating space; treat the whole token as an id.
	if m[2] != "" && !strings.ContainsAny(s[len(m[2]):len(m[2])+1], " \t") {
		return newTerm(s, 1)
	}
	value := 1.0
	if coef != "" {
		v, err := strconv.ParseFloat(coef, 64)
		if err != nil || v <= 0 {
			return term{}, errors.New(errors.ErrCodeModelInvalid, "invalid coefficient").WithDetail("term=" + s)
		}
		value = v
	}
	if strings.HasPrefix(id, "|") {
		return quotedTerm(id, value)
	}
	if id == "" || strings.ContainsAny(id, " \t") {
		return term{}, errors.New(errors.ErrCodeModelInvalid, "malformed compound id").WithDetail("term=" + s)
	}
	return newTerm(id, value)
}

func quotedTerm(s string, value float64) (term, error) {
	if len(s) < 3 || !strings.HasSuffix(s, "|") {
		return term{}, errors.New(errors.ErrCodeModelInvalid, "unterminated quoted id").WithDetail("term=" + s)
	}
	return newTerm(s[1:len(s)-1], value)
}

func buildEquation(left, right []term, reversible bool) *network.Equation {
	eq := &network.Equation{Reversible: reversible}
	index := make(map[string]int)
	add := func(terms []term, sign float64, side string) {
		for _, t := range terms {
			key := side + "\x00" + t.id + "\x00" + t.compartment
			if i, ok := index[key]; ok {
				eq.Terms[i].Value += sign * t.value
				continue
			}
			index[key] = len(eq.Terms)
			eq.Terms = append(eq.Terms, network.Term{CompoundID: t.id, Compartment: t.compartment, Value: sign * t.value})
		}
	}
	add(left, -1, "l")
	add(right, 1, "r")
	return eq
}

func indexOutsideQuotes(s, token string) int {
	quoted := false
	for i := 0; i < len(s); i++ {
		if s[i] == '|' {
			quoted = !quoted
			continue
		}
		if !quoted && strings.HasPrefix(s[i:], token) {
			return i
		}
	}
	return -1
}

func splitOutsideQuotes(side string) []string {
	var parts []string
	start, quoted := 0, false
	for i := 0; i < len(side); i++ {
		if side[i] == '|' {
			quoted = !quoted
			continue
		}
		if quoted {
			continue
		}
		if loc := plusSeparator.FindStringIndex(side[i:]); loc != nil && loc[0] == 0 && i > start {
			parts = append(parts, side[start:i])
			start = i + loc[1]
			i = start - 1
		}
	}
	return append(parts, side[start:])
}

//Personal.AI order the ending
