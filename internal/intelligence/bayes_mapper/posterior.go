package bayes_mapper

// BayesPosterior returns P(match | evidence) from the prior and the
// likelihood pair of the evidence.  A zero denominator yields 0.
func BayesPosterior(prior float64, l Likelihood) float64 {
	p1 := prior * l.Match
	p2 := (1 - prior) * l.NoMatch
	if p1+p2 == 0 {
		return 0
	}
	return clamp01(p1 / (p1 + p2))
}

// PosteriorOf applies BayesPosterior to every cell of t.
func PosteriorOf(prior float64, t *LikelihoodTable) *PosteriorTable {
	cells := make([]float64, len(t.cells))
	for i, l := range t.cells {
		cells[i] = BayesPosterior(prior, l)
	}
	return &PosteriorTable{rows: t.rows, cols: t.cols, cells: cells}
}

//Personal.AI order the ending
