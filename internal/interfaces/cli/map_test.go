package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/metmap/internal/application/mapping"
	"github.com/turtacn/metmap/internal/config"
	"github.com/turtacn/metmap/pkg/errors"
)

const model1YAML = `
name: model1
compounds:
  - {id: atp, name: ATP, formula: C10H12N5O13P3, charge: -4}
  - {id: adp, name: ADP, formula: C10H12N5O10P2, charge: -3}
  - {id: h2o, name: Water, formula: H2O, charge: 0}
reactions:
  - id: ATPase
    name: ATP hydrolysis
    genes: [b0001]
    equation: "atp + h2o => adp"
`

const model2YAML = `
name: model2
compounds:
  - {id: ATP, name: atp, formula: C10H12N5O13P3, charge: -4}
  - {id: ADP, name: adp, formula: C10H12N5O10P2, charge: -3}
  - {id: H2O, name: water, formula: H2O, charge: 0}
reactions:
  - id: atpase
    name: ATP hydrolysis
    genes: "b0001"
    equation: "ATP + H2O => ADP"
`

func writeModels(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	p1 := filepath.Join(dir, "model1.yaml")
	p2 := filepath.Join(dir, "model2.yaml")
	require.NoError(t, os.WriteFile(p1, []byte(model1YAML), 0o644))
	require.NoError(t, os.WriteFile(p2, []byte(model2YAML), 0o644))
	return p1, p2
}

func TestMapCmd_JSON(t *testing.T) {
	p1, p2 := writeModels(t)
	outDir := filepath.Join(t.TempDir(), "out")

	out, _, err := executeRoot(t, "map", p1, p2,
		"--log-level", "error",
		"--workers", "2",
		"--output", outDir,
		"--log",
		"--genes",
		"--format", "json")
	require.NoError(t, err)

	var view runView
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.NotEmpty(t, view.RunID)
	assert.GreaterOrEqual(t, view.Passes, 8)
	assert.Len(t, view.Compounds, 3)
	require.Len(t, view.Reactions, 1)
	assert.Equal(t, "atpase", view.Reactions[0].Target)
	assert.Contains(t, view.Reactions[0].Channels, "genes")
	assert.Len(t, view.Artifacts, 4)

	for _, name := range []string{mapping.CompoundBestFile, mapping.ReactionBestFile, mapping.CompoundLogFile, mapping.ReactionLogFile} {
		assert.FileExists(t, filepath.Join(outDir, name))
	}
}

func TestMapCmd_Table(t *testing.T) {
	p1, p2 := writeModels(t)
	out, _, err := executeRoot(t, "map", p1, p2, "--log-level", "error", "--no-color", "--limit", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Compound best matches (3)")
	assert.Contains(t, out, "Reaction best matches (1)")
	assert.Contains(t, out, "... 2 more")
	assert.Contains(t, out, "ATPase")
}

func TestMapCmd_FormatNone(t *testing.T) {
	p1, p2 := writeModels(t)
	out, _, err := executeRoot(t, "map", p1, p2, "--log-level", "error", "--format", "none")
	require.NoError(t, err)
	assert.Empty(t, strings.TrimSpace(out))
}

func TestMapCmd_ConfigFile(t *testing.T) {
	p1, p2 := writeModels(t)
	outDir := filepath.Join(t.TempDir(), "from-config")
	cfgPath := filepath.Join(t.TempDir(), "metmap.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("log:\n  level: error\nmapping:\n  workers: 1\n  output_dir: "+outDir+"\n"), 0o644))

	_, _, err := executeRoot(t, "map", p1, p2, "--config", cfgPath, "--format", "none")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(outDir, mapping.CompoundBestFile))
	assert.NoFileExists(t, filepath.Join(outDir, mapping.CompoundLogFile))
}

func TestMapCmd_Errors(t *testing.T) {
	p1, p2 := writeModels(t)
	tests := []struct {
		name string
		args []string
		code errors.ErrorCode
	}{
		{"threshold out of range", []string{"map", p1, p2, "--compound-threshold", "1.5"}, errors.ErrCodeMappingParamsInvalid},
		{"zero workers", []string{"map", p1, p2, "--workers", "0"}, errors.ErrCodeMappingParamsInvalid},
		{"log without output", []string{"map", p1, p2, "--log"}, errors.ErrCodeMappingParamsInvalid},
		{"unknown format", []string{"map", p1, p2, "--format", "xml"}, errors.CodeInvalidParam},
		{"missing model", []string{"map", p1, filepath.Join(t.TempDir(), "none.yaml")}, errors.ErrCodeModelLoadFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := executeRoot(t, append(tt.args, "--log-level", "error")...)
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetCode(err))
		})
	}
}

func TestMapCmd_WrongArgCount(t *testing.T) {
	_, _, err := executeRoot(t, "map", "only-one.yaml")
	require.Error(t, err)
}

func TestApplyMapFlags_KeepsConfigValues(t *testing.T) {
	cmd := NewMapCmd()
	opts := &mapOptions{format: "table"}
	require.NoError(t, cmd.Flags().Parse([]string{"--reaction-threshold", "0.3"}))
	opts.reactionThreshold = 0.3

	cfg := &config.Config{Mapping: config.MappingConfig{Workers: 3, CompoundThreshold: 0.2}}
	config.ApplyDefaults(cfg)
	require.NoError(t, applyMapFlags(cmd, opts, cfg))
	assert.Equal(t, 3, cfg.Mapping.Workers)
	assert.Equal(t, 0.2, cfg.Mapping.CompoundThreshold)
	assert.Equal(t, 0.3, cfg.Mapping.ReactionThreshold)
}

//Personal.AI order the ending
