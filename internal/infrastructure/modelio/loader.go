// Package modelio reads metabolic models from YAML files into
// network.Model values.
//
// A model file looks like:
//
//	name: e_coli_core
//	compounds:
//	  - id: atp
//	    name: ATP
//	    formula: C10H12N5O13P3
//	    charge: -4
//	    kegg: C00002
//	reactions:
//	  - id: PGK
//	    name: phosphoglycerate kinase
//	    genes: [b2926]
//	    equation: "13dpg + adp <=> 3pg + atp"
//	  - id: ATPM
//	    equation: "|atp[c]| + |h2o[c]| => |adp[c]| + |pi[c]|"
//	  - id: EX_glc
//	    reversible: false
//	    left:
//	      - {id: glc, value: 1}
//
// Compartments ("atp[c]", a leading "[c] :", or a compartment key on
// structured terms) are kept on the terms; compound lookups use the bare id.
//
// Genes may also be given as a boolean association string such as
// "b0001 and (b0002 or b0003)"; the operators are dropped.
package modelio

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/turtacn/metmap/internal/domain/network"
	"github.com/turtacn/metmap/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/metmap/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// File schema
// ─────────────────────────────────────────────────────────────────────────────

type modelFile struct {
	Name      string         `yaml:"name"`
	Compounds []compoundSpec `yaml:"compounds"`
	Reactions []reactionSpec `yaml:"reactions"`
}

type compoundSpec struct {
	ID      string  `yaml:"id"`
	Name    *string `yaml:"name"`
	Formula *string `yaml:"formula"`
	Charge  *int    `yaml:"charge"`
	Kegg    *string `yaml:"kegg"`
}

type reactionSpec struct {
	ID         string        `yaml:"id"`
	Name       *string       `yaml:"name"`
	Genes      *geneList     `yaml:"genes"`
	Equation   *equationSpec `yaml:"equation"`
	Reversible *bool         `yaml:"reversible"`
	Left       []termSpec    `yaml:"left"`
	Right      []termSpec    `yaml:"right"`
}

type termSpec struct {
	ID          string   `yaml:"id"`
	Compartment string   `yaml:"compartment"`
	Value       *float64 `yaml:"value"`
}

// term resolves the compound reference; an explicit compartment key wins
// over an "id[c]" suffix, and fallback applies when neither is given.
func (s termSpec) term(fallback string) (term, error) {
	t, err := newTerm(s.ID, *s.Value)
	if err != nil {
		return term{}, err
	}
	if s.Compartment != "" {
		t.compartment = s.Compartment
	}
	if t.compartment == "" {
		t.compartment = fallback
	}
	return t, nil
}

// equationSpec accepts either the textual form or a mapping with
// reversible and compounds (signed values).
type equationSpec struct {
	eq *network.Equation
}

func (e *equationSpec) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		eq, err := ParseEquation(node.Value)
		if err != nil {
			return err
		}
		e.eq = eq
		return nil
	case yaml.MappingNode:
		var raw struct {
			Reversible  *bool      `yaml:"reversible"`
			Compartment string     `yaml:"compartment"`
			Compounds   []termSpec `yaml:"compounds"`
		}
		if err := node.Decode(&raw); err != nil {
			return err
		}
		if len(raw.Compounds) == 0 {
			return errors.New(errors.ErrCodeModelInvalid, "equation has no compounds")
		}
		eq := &network.Equation{Reversible: raw.Reversible == nil || *raw.Reversible}
		for _, t := range raw.Compounds {
			if t.ID == "" || t.Value == nil {
				return errors.New(errors.ErrCodeModelInvalid, "equation compound requires id and value")
			}
			ct, err := t.term(raw.Compartment)
			if err != nil {
				return err
			}
			eq.Terms = append(eq.Terms, network.Term{CompoundID: ct.id, Compartment: ct.compartment, Value: ct.value})
		}
		e.eq = eq
		return nil
	}
	return errors.Newf(errors.ErrCodeModelInvalid, "unsupported equation node at line %d", node.Line)
}

var geneOperators = regexp.MustCompile(`(?i)^(and|or)$`)

// geneList accepts a sequence of gene ids or an association string.
type geneList []string

func (g *geneList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var ids []string
		if err := node.Decode(&ids); err != nil {
			return err
		}
		*g = append(geneList{}, ids...)
		return nil
	case yaml.ScalarNode:
		fields := strings.FieldsFunc(node.Value, func(r rune) bool {
			return r == '(' || r == ')' || r == ' ' || r == '\t' || r == ','
		})
		out := geneList{}
		for _, f := range fields {
			if !geneOperators.MatchString(f) {
				out = append(out, f)
			}
		}
		*g = out
		return nil
	}
	return errors.Newf(errors.ErrCodeModelInvalid, "unsupported genes node at line %d", node.Line)
}

// ─────────────────────────────────────────────────────────────────────────────
// Loader
// ─────────────────────────────────────────────────────────────────────────────

// Option configures a Loader.
type Option func(*Loader)

// WithStrict makes the loader reject equations that reference undeclared
// compounds.
func WithStrict(strict bool) Option {
	return func(l *Loader) { l.strict = strict }
}

// WithLogger injects a logger.
func WithLogger(log logging.Logger) Option {
	return func(l *Loader) {
		if log != nil {
			l.logger = log
		}
	}
}

// Loader reads YAML model files.
type Loader struct {
	strict bool
	logger logging.Logger
}

// NewLoader creates a Loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{logger: logging.NewNopLogger()}
	for _, o := range opts {
		o(l)
	}
	return l
}

// LoadFile reads the model at path.  A model without a name is named after
// the file.
func (l *Loader) LoadFile(path string) (*network.Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeModelLoadFailed, "failed to read model file").WithDetail("path=" + path)
	}
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	m, err := l.Load(bytes.NewReader(data), base)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeUnknown, "failed to load model").WithDetail("path=" + path)
	}
	return m, nil
}

// Load decodes a model from r.  defaultName is used when the document has no
// name.
func (l *Loader) Load(r io.Reader, defaultName string) (*network.Model, error) {
	var doc modelFile
	// Unknown keys (smiles, notes, ...) are ignored.
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			doc = modelFile{}
		} else if errors.GetCode(err) == errors.ErrCodeModelInvalid {
			return nil, err
		} else {
			return nil, errors.Wrap(err, errors.ErrCodeModelLoadFailed, "failed to parse model YAML")
		}
	}
	name := doc.Name
	if name == "" {
		name = defaultName
	}

	m := network.NewModel(name)
	for _, c := range doc.Compounds {
		if err := m.AddCompound(&network.Compound{
			ID:      c.ID,
			Name:    c.Name,
			Formula: c.Formula,
			Charge:  c.Charge,
			Kegg:    c.Kegg,
		}); err != nil {
			return nil, err
		}
	}
	for _, rs := range doc.Reactions {
		r, err := rs.toReaction()
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeUnknown, "invalid reaction").WithDetail("model=" + name + " reaction=" + rs.ID)
		}
		if err := m.AddReaction(r); err != nil {
			return nil, err
		}
	}
	if l.strict {
		if err := m.Validate(); err != nil {
			return nil, err
		}
	}

	l.logger.Info("model loaded",
		logging.String("model", name),
		logging.Int("compounds", len(m.Compounds())),
		logging.Int("reactions", len(m.Reactions())))
	return m, nil
}

func (rs *reactionSpec) toReaction() (*network.Reaction, error) {
	r := &network.Reaction{ID: rs.ID, Name: rs.Name}
	if rs.Genes != nil {
		r.Genes = []string(*rs.Genes)
	}

	structured := rs.Reversible != nil || len(rs.Left) > 0 || len(rs.Right) > 0
	switch {
	case rs.Equation != nil && structured:
		return nil, errors.New(errors.ErrCodeModelInvalid, "reaction mixes equation with reversible/left/right")
	case rs.Equation != nil:
		r.Equation = rs.Equation.eq
	case structured:
		if len(rs.Left) == 0 && len(rs.Right) == 0 {
			return nil, errors.New(errors.ErrCodeModelInvalid, "reaction values are missing")
		}
		left, err := termsOf(rs.Left)
		if err != nil {
			return nil, err
		}
		right, err := termsOf(rs.Right)
		if err != nil {
			return nil, err
		}
		r.Equation = buildEquation(left, right, rs.Reversible == nil || *rs.Reversible)
	}
	return r, nil
}

func termsOf(specs []termSpec) ([]term, error) {
	out := make([]term, 0, len(specs))
	for _, s := range specs {
		if s.ID == "" {
			return nil, errors.New(errors.ErrCodeModelInvalid, "compound id missing")
		}
		if s.Value == nil {
			return nil, errors.New(errors.ErrCodeModelInvalid, "missing value for compound").WithDetail("compound=" + s.ID)
		}
		t, err := s.term("")
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

//Personal.AI order the ending
