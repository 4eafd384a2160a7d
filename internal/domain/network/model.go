package network

import (
	"strconv"

	"github.com/turtacn/metmap/pkg/errors"
)

// Model is one curated metabolic network: an ordered, id-unique collection of
// compounds and reactions.  Iteration order is the insertion order and is what
// the mapping engine uses for deterministic tie-breaking.
type Model struct {
	Name string

	compounds     []*Compound
	reactions     []*Reaction
	compoundIndex map[string]int
	reactionIndex map[string]int
}

// NewModel returns an empty model.
func NewModel(name string) *Model {
	return &Model{
		Name:          name,
		compoundIndex: make(map[string]int),
		reactionIndex: make(map[string]int),
	}
}

// AddCompound appends c.  It fails on an empty or duplicate id.
func (m *Model) AddCompound(c *Compound) error {
	if c == nil || c.ID == "" {
		return errors.New(errors.ErrCodeModelInvalid, "compound id must not be empty").WithDetail("model=" + m.Name)
	}
	if _, dup := m.compoundIndex[c.ID]; dup {
		return errors.New(errors.ErrCodeModelInvalid, "duplicate compound id").WithDetail("model=" + m.Name + " id=" + c.ID)
	}
	m.compoundIndex[c.ID] = len(m.compounds)
	m.compounds = append(m.compounds, c)
	return nil
}

// AddReaction appends r.  It fails on an empty or duplicate id.
func (m *Model) AddReaction(r *Reaction) error {
	if r == nil || r.ID == "" {
		return errors.New(errors.ErrCodeModelInvalid, "reaction id must not be empty").WithDetail("model=" + m.Name)
	}
	if _, dup := m.reactionIndex[r.ID]; dup {
		return errors.New(errors.ErrCodeModelInvalid, "duplicate reaction id").WithDetail("model=" + m.Name + " id=" + r.ID)
	}
	m.reactionIndex[r.ID] = len(m.reactions)
	m.reactions = append(m.reactions, r)
	return nil
}

// Compounds returns the compounds in insertion order.  The slice must not be
// modified.
func (m *Model) Compounds() []*Compound { return m.compounds }

// Reactions returns the reactions in insertion order.  The slice must not be
// modified.
func (m *Model) Reactions() []*Reaction { return m.reactions }

// Compound looks up a compound by id.
func (m *Model) Compound(id string) (*Compound, bool) {
	i, ok := m.compoundIndex[id]
	if !ok {
		return nil, false
	}
	return m.compounds[i], true
}

// Reaction looks up a reaction by id.
func (m *Model) Reaction(id string) (*Reaction, bool) {
	i, ok := m.reactionIndex[id]
	if !ok {
		return nil, false
	}
	return m.reactions[i], true
}

// CompoundIDs returns the compound ids in insertion order.
func (m *Model) CompoundIDs() []string {
	out := make([]string, len(m.compounds))
	for i, c := range m.compounds {
		out[i] = c.ID
	}
	return out
}

// ReactionIDs returns the reaction ids in insertion order.
func (m *Model) ReactionIDs() []string {
	out := make([]string, len(m.reactions))
	for i, r := range m.reactions {
		out[i] = r.ID
	}
	return out
}

// Validate checks that every equation term references a known compound.
// Models assembled from reaction-only sources may legitimately reference
// undeclared compounds, so the loader calls Validate only in strict mode.
func (m *Model) Validate() error {
	for _, r := range m.reactions {
		if r.Equation == nil {
			continue
		}
		for i, t := range r.Equation.Terms {
			if _, ok := m.compoundIndex[t.CompoundID]; !ok {
				return errors.New(errors.ErrCodeModelInvalid, "equation references unknown compound").
					WithDetail("model=" + m.Name + " reaction=" + r.ID + " term=" + strconv.Itoa(i) + " compound=" + t.CompoundID)
			}
		}
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

//Personal.AI order the ending
