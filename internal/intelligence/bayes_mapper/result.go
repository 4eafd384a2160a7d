package bayes_mapper

import (
	"github.com/turtacn/metmap/pkg/errors"
)

// Channel names used in results, diagnostics and metrics.
const (
	ChannelID       = "id"
	ChannelName     = "name"
	ChannelCharge   = "charge"
	ChannelFormula  = "formula"
	ChannelKegg     = "kegg"
	ChannelEquation = "equation"
	ChannelGenes    = "genes"
)

// ChannelResult is the evidence table of one channel and its standalone
// posterior.
type ChannelResult struct {
	Name        string
	Enabled     bool
	Marginal    Marginal
	Likelihoods *LikelihoodTable
	Posterior   *PosteriorTable
}

// MappingResult holds the complete outcome of one mapping pass: the prior,
// every channel and the joint posterior over all rows×cols pairs.
type MappingResult struct {
	Kind     string
	Prior    float64
	Rows     *Axis
	Cols     *Axis
	Channels []ChannelResult
	Joint    *PosteriorTable
}

// ChannelNames returns the channel names in evaluation order.
func (r *MappingResult) ChannelNames() []string {
	out := make([]string, len(r.Channels))
	for i, c := range r.Channels {
		out[i] = c.Name
	}
	return out
}

// Channel returns the channel called name.
func (r *MappingResult) Channel(name string) (*ChannelResult, bool) {
	for i := range r.Channels {
		if r.Channels[i].Name == name {
			return &r.Channels[i], true
		}
	}
	return nil, false
}

// Map returns the joint posterior of (id1, id2).
func (r *MappingResult) Map(id1, id2 string) (float64, error) {
	p, ok := r.Joint.Score(id1, id2)
	if !ok {
		return 0, errors.New(errors.ErrCodeEntityNotFound, "pair not in mapping").
			WithDetail("kind=" + r.Kind + " pair=" + id1 + "," + id2)
	}
	return p, nil
}

// MatchRecord is one row of the raw or best-match view.
type MatchRecord struct {
	Query  string
	Target string
	P      float64
	// Channels holds the standalone posterior of every channel, keyed by
	// channel name.
	Channels map[string]float64
}

func (r *MappingResult) record(i, j int) MatchRecord {
	rec := MatchRecord{
		Query:    r.Rows.ID(i),
		Target:   r.Cols.ID(j),
		P:        r.Joint.At(i, j),
		Channels: make(map[string]float64, len(r.Channels)),
	}
	for _, c := range r.Channels {
		rec.Channels[c.Name] = c.Posterior.At(i, j)
	}
	return rec
}

// RawMap returns one record per pair, rows in model-1 order and targets in
// model-2 order.
func (r *MappingResult) RawMap() []MatchRecord {
	out := make([]MatchRecord, 0, r.Joint.Len())
	for i := 0; i < r.Rows.Len(); i++ {
		for j := 0; j < r.Cols.Len(); j++ {
			out = append(out, r.record(i, j))
		}
	}
	return out
}

// BestMatches returns, for every query, all targets whose joint posterior
// equals the query's maximum, keeping only those with p >= threshold.
func (r *MappingResult) BestMatches(threshold float64) []MatchRecord {
	var out []MatchRecord
	r.eachBest(threshold, func(i, j int) {
		out = append(out, r.record(i, j))
	})
	return out
}

// BestScores returns the best-match view as a ScoreLookup of joint
// posteriors.
func (r *MappingResult) BestScores(threshold float64) SparseScores {
	out := make(SparseScores)
	r.eachBest(threshold, func(i, j int) {
		out[PairKey{A: r.Rows.ID(i), B: r.Cols.ID(j)}] = r.Joint.At(i, j)
	})
	return out
}

func (r *MappingResult) eachBest(threshold float64, fn func(i, j int)) {
	m := r.Cols.Len()
	if m == 0 {
		return
	}
	for i := 0; i < r.Rows.Len(); i++ {
		best := r.Joint.At(i, 0)
		for j := 1; j < m; j++ {
			if p := r.Joint.At(i, j); p > best {
				best = p
			}
		}
		if best < threshold {
			continue
		}
		for j := 0; j < m; j++ {
			if r.Joint.At(i, j) == best {
				fn(i, j)
			}
		}
	}
}

//Personal.AI order the ending
