package modelio

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/metmap/internal/domain/network"
	"github.com/turtacn/metmap/pkg/errors"
)

const sampleModel = `
name: sample
compounds:
  - id: atp
    name: ATP
    formula: C10H12N5O13P3
    charge: -4
    kegg: C00002
    smiles: ignored
  - id: adp
    name: ADP
  - id: glc
reactions:
  - id: ATPase
    name: ATP hydrolysis
    genes: [b0001, b0002]
    equation: "atp => adp"
  - id: HEX
    genes: "b0003 and (b0004 or b0005)"
    reversible: false
    left:
      - {id: glc, value: 1}
      - {id: atp, value: 1}
    right:
      - {id: adp, value: 1}
  - id: EX_glc
    genes: []
    equation:
      reversible: true
      compounds:
        - {id: glc, value: -1}
  - id: orphan
`

func TestLoader_Load(t *testing.T) {
	m, err := NewLoader().Load(strings.NewReader(sampleModel), "fallback")
	require.NoError(t, err)

	assert.Equal(t, "sample", m.Name)
	assert.Equal(t, []string{"atp", "adp", "glc"}, m.CompoundIDs())
	assert.Equal(t, []string{"ATPase", "HEX", "EX_glc", "orphan"}, m.ReactionIDs())

	atp, ok := m.Compound("atp")
	require.True(t, ok)
	assert.Equal(t, "ATP", network.Deref(atp.Name))
	assert.Equal(t, -4, network.Deref(atp.Charge))
	assert.Equal(t, "C10H12N5O13P3", network.Deref(atp.Formula))
	assert.Equal(t, "C00002", network.Deref(atp.Kegg))

	glc, _ := m.Compound("glc")
	assert.Nil(t, glc.Name)
	assert.Nil(t, glc.Charge)

	atpase, _ := m.Reaction("ATPase")
	assert.Equal(t, []string{"b0001", "b0002"}, atpase.Genes)
	assert.Equal(t, "atp => adp", atpase.Equation.String())

	hex, _ := m.Reaction("HEX")
	assert.Equal(t, []string{"b0003", "b0004", "b0005"}, hex.Genes)
	assert.False(t, hex.Equation.Reversible)
	assert.Equal(t, []string{"glc", "atp"}, hex.Equation.Left())
	assert.Equal(t, []string{"adp"}, hex.Equation.Right())

	ex, _ := m.Reaction("EX_glc")
	assert.True(t, ex.HasGenes())
	assert.Empty(t, ex.Genes)
	assert.True(t, ex.Equation.Reversible)
	assert.Equal(t, []string{"glc"}, ex.Equation.Left())

	orphan, _ := m.Reaction("orphan")
	assert.Nil(t, orphan.Equation)
	assert.False(t, orphan.HasGenes())
}

func TestLoader_DefaultName(t *testing.T) {
	m, err := NewLoader().Load(strings.NewReader("compounds: [{id: a}]"), "fallback")
	require.NoError(t, err)
	assert.Equal(t, "fallback", m.Name)
}

func TestLoader_EmptyDocument(t *testing.T) {
	m, err := NewLoader().Load(strings.NewReader(""), "empty")
	require.NoError(t, err)
	assert.Empty(t, m.Compounds())
	assert.Empty(t, m.Reactions())
}

func TestLoader_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		code errors.ErrorCode
	}{
		{"duplicate compound", "compounds: [{id: a}, {id: a}]", errors.ErrCodeModelInvalid},
		{"missing compound id", "compounds: [{name: A}]", errors.ErrCodeModelInvalid},
		{"duplicate reaction", "reactions: [{id: r, equation: 'a => b'}, {id: r, equation: 'b => c'}]", errors.ErrCodeModelInvalid},
		{"ambiguous reaction", "reactions: [{id: r, equation: 'a => b', reversible: true}]", errors.ErrCodeModelInvalid},
		{"bad equation", "reactions: [{id: r, equation: 'a b'}]", errors.ErrCodeModelInvalid},
		{"structured missing value", "reactions: [{id: r, left: [{id: a}]}]", errors.ErrCodeModelInvalid},
		{"structured empty", "reactions: [{id: r, reversible: false}]", errors.ErrCodeModelInvalid},
		{"malformed yaml", "compounds: [{id: a", errors.ErrCodeModelLoadFailed},
		{"wrong type", "compounds: {id: a}", errors.ErrCodeModelLoadFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLoader().Load(strings.NewReader(tt.doc), "m")
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetCode(err))
		})
	}
}

func TestLoader_Strict(t *testing.T) {
	doc := "compounds: [{id: a}]\nreactions: [{id: r, equation: 'a => b'}]"

	_, err := NewLoader().Load(strings.NewReader(doc), "m")
	require.NoError(t, err)

	_, err = NewLoader(WithStrict(true)).Load(strings.NewReader(doc), "m")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeModelInvalid))
}

const compartmentModel = `
name: compartments
compounds:
  - id: atp
  - id: adp
  - id: pi
  - id: glc
reactions:
  - id: ATPM
    equation: "|atp[c]| => |adp[c]| + pi[c]"
  - id: GLCt
    equation:
      compartment: e
      compounds:
        - {id: glc, value: -1}
        - {id: glc, compartment: c, value: 1}
  - id: ADPt
    left:
      - {id: "adp[c]", value: 1}
    right:
      - {id: adp, compartment: m, value: 1}
`

func TestLoader_Compartments(t *testing.T) {
	m, err := NewLoader(WithStrict(true)).Load(strings.NewReader(compartmentModel), "m")
	require.NoError(t, err)

	atpm, _ := m.Reaction("ATPM")
	assert.Equal(t, []string{"atp"}, atpm.Equation.Left())
	assert.Equal(t, []string{"adp", "pi"}, atpm.Equation.Right())
	assert.Equal(t, "c", atpm.Equation.Terms[0].Compartment)

	glct, _ := m.Reaction("GLCt")
	assert.Equal(t, []network.Term{
		{CompoundID: "glc", Compartment: "e", Value: -1},
		{CompoundID: "glc", Compartment: "c", Value: 1},
	}, glct.Equation.Terms)

	adpt, _ := m.Reaction("ADPt")
	assert.Equal(t, []network.Term{
		{CompoundID: "adp", Compartment: "c", Value: -1},
		{CompoundID: "adp", Compartment: "m", Value: 1},
	}, adpt.Equation.Terms)
}

func TestLoader_LoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "iJO1366.yaml")
	require.NoError(t, os.WriteFile(path, []byte("compounds: [{id: a}]"), 0o644))

	m, err := NewLoader().LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "iJO1366", m.Name)

	_, err = NewLoader().LoadFile(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeModelLoadFailed, errors.GetCode(err))
}

//Personal.AI order the ending
