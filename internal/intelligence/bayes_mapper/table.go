package bayes_mapper

import (
	"fmt"

	"github.com/turtacn/metmap/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Likelihood
// ─────────────────────────────────────────────────────────────────────────────

// Likelihood is the pair of conditional probabilities of one piece of
// evidence: Match = P(evidence | same entity), NoMatch = P(evidence | different).
type Likelihood struct {
	Match   float64
	NoMatch float64
}

// Neutral is the likelihood of absent evidence.  It leaves products and
// posteriors unchanged.
var Neutral = Likelihood{Match: 1, NoMatch: 1}

// Mul returns the component-wise product of l and o.
func (l Likelihood) Mul(o Likelihood) Likelihood {
	return Likelihood{Match: l.Match * o.Match, NoMatch: l.NoMatch * o.NoMatch}
}

// ─────────────────────────────────────────────────────────────────────────────
// Axis and PairKey
// ─────────────────────────────────────────────────────────────────────────────

// PairKey identifies a cross-model pair: A is the model-1 id, B the model-2 id.
type PairKey struct {
	A string
	B string
}

// Axis is an ordered list of entity ids with an id → position index.
type Axis struct {
	ids   []string
	index map[string]int
}

// NewAxis builds an axis over ids.  Duplicate ids are rejected.
func NewAxis(ids []string) (*Axis, error) {
	a := &Axis{ids: append([]string(nil), ids...), index: make(map[string]int, len(ids))}
	for i, id := range ids {
		if _, dup := a.index[id]; dup {
			return nil, errors.New(errors.ErrCodeModelInvalid, "duplicate axis id").WithDetail("id=" + id)
		}
		a.index[id] = i
	}
	return a, nil
}

// Len returns the number of ids on the axis.
func (a *Axis) Len() int { return len(a.ids) }

// ID returns the id at position i.
func (a *Axis) ID(i int) string { return a.ids[i] }

// IDs returns a copy of the axis ids.
func (a *Axis) IDs() []string { return append([]string(nil), a.ids...) }

// Index returns the position of id.
func (a *Axis) Index(id string) (int, bool) {
	i, ok := a.index[id]
	return i, ok
}

func sameAxis(a, b *Axis) bool {
	if a == b {
		return true
	}
	if a.Len() != b.Len() {
		return false
	}
	for i := range a.ids {
		if a.ids[i] != b.ids[i] {
			return false
		}
	}
	return true
}

// ─────────────────────────────────────────────────────────────────────────────
// LikelihoodTable
// ─────────────────────────────────────────────────────────────────────────────

// LikelihoodTable holds one Likelihood for every (row, col) pair.  Cells are
// stored densely in row-major order.
type LikelihoodTable struct {
	rows  *Axis
	cols  *Axis
	cells []Likelihood
}

func newLikelihoodTable(rows, cols *Axis, cells []Likelihood) *LikelihoodTable {
	return &LikelihoodTable{rows: rows, cols: cols, cells: cells}
}

// NewUniformLikelihoodTable returns a table whose every cell is l.
func NewUniformLikelihoodTable(rows, cols *Axis, l Likelihood) *LikelihoodTable {
	cells := make([]Likelihood, rows.Len()*cols.Len())
	for i := range cells {
		cells[i] = l
	}
	return newLikelihoodTable(rows, cols, cells)
}

// Rows returns the model-1 axis.
func (t *LikelihoodTable) Rows() *Axis { return t.rows }

// Cols returns the model-2 axis.
func (t *LikelihoodTable) Cols() *Axis { return t.cols }

// Len returns the number of cells.
func (t *LikelihoodTable) Len() int { return len(t.cells) }

// At returns the cell at row i, column j.
func (t *LikelihoodTable) At(i, j int) Likelihood { return t.cells[i*t.cols.Len()+j] }

// Get returns the likelihood of the pair (a, b).
func (t *LikelihoodTable) Get(a, b string) (Likelihood, bool) {
	i, ok1 := t.rows.Index(a)
	j, ok2 := t.cols.Index(b)
	if !ok1 || !ok2 {
		return Likelihood{}, false
	}
	return t.At(i, j), true
}

// LikelihoodProducts multiplies tables cell-wise.  All tables must share the
// same axes.  With no tables the result is nil.
func LikelihoodProducts(tables ...*LikelihoodTable) (*LikelihoodTable, error) {
	if len(tables) == 0 {
		return nil, nil
	}
	first := tables[0]
	cells := append([]Likelihood(nil), first.cells...)
	for k, t := range tables[1:] {
		if !sameAxis(first.rows, t.rows) || !sameAxis(first.cols, t.cols) {
			return nil, errors.New(errors.ErrCodeMappingParamsInvalid, "likelihood tables have different axes").
				WithDetail(fmt.Sprintf("table=%d", k+1))
		}
		for i := range cells {
			cells[i] = cells[i].Mul(t.cells[i])
		}
	}
	return newLikelihoodTable(first.rows, first.cols, cells), nil
}

// ─────────────────────────────────────────────────────────────────────────────
// PosteriorTable and ScoreLookup
// ─────────────────────────────────────────────────────────────────────────────

// ScoreLookup resolves the match probability of a compound pair.  ok is
// false when the pair carries no score.
type ScoreLookup interface {
	Score(a, b string) (p float64, ok bool)
}

// PosteriorTable holds one posterior probability per (row, col) pair.
type PosteriorTable struct {
	rows  *Axis
	cols  *Axis
	cells []float64
}

// Rows returns the model-1 axis.
func (t *PosteriorTable) Rows() *Axis { return t.rows }

// Cols returns the model-2 axis.
func (t *PosteriorTable) Cols() *Axis { return t.cols }

// Len returns the number of cells.
func (t *PosteriorTable) Len() int { return len(t.cells) }

// At returns the cell at row i, column j.
func (t *PosteriorTable) At(i, j int) float64 { return t.cells[i*t.cols.Len()+j] }

// Score implements ScoreLookup over every pair of the table.
func (t *PosteriorTable) Score(a, b string) (float64, bool) {
	i, ok1 := t.rows.Index(a)
	j, ok2 := t.cols.Index(b)
	if !ok1 || !ok2 {
		return 0, false
	}
	return t.At(i, j), true
}

// SparseScores is a ScoreLookup over an explicit set of pairs.
type SparseScores map[PairKey]float64

// Score implements ScoreLookup.
func (s SparseScores) Score(a, b string) (float64, bool) {
	p, ok := s[PairKey{A: a, B: b}]
	return p, ok
}

//Personal.AI order the ending
