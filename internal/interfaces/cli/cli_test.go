package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cliEntryTemplate = `---
id: %s
type: phase_boundary
plot_type: curve
rxn: %s
reactants: %s
products: %s
data:
  P:
    mid: [2.0, 3.0]
    half_range: [0.1, 0.1]
  T:
    mid: [700, 800]
    half_range: [5, 5]
metadata:
  ref:
    short_cite: Smith, 1998
`

// writeDataset builds a two-reaction YAML dataset plus a config file
// pointing at it, returning the config path.
func writeDataset(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	entries := [][4]string{
		{"r1", "ky = and", "ky", "and"},
		{"r2", "and = sil", "and", "sil"},
	}
	for i, e := range entries {
		body := fmt.Sprintf(cliEntryTemplate, e[0], e[1], e[2], e[3])
		path := filepath.Join(dir, fmt.Sprintf("entry-%03d.yml", i))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}

	lexicon := "phases:\n  - abbrev: ky\n    name: Kyanite\n    formula: Al2SiO5\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "phases.yml"), []byte(lexicon), 0o644))

	cfg := fmt.Sprintf("dataset:\n  source: yaml\n  dirs:\n    - %s\n", dir)
	cfgPath := filepath.Join(t.TempDir(), "rxndb.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))
	return cfgPath
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCLI_Phases(t *testing.T) {
	cfgPath := writeDataset(t)

	out, err := runCommand(t, "--config", cfgPath, "phases")
	require.NoError(t, err)
	assert.Contains(t, out, "ky")
	assert.Contains(t, out, "Kyanite")
	assert.Contains(t, out, "sil")
}

func TestCLI_Filter_Table(t *testing.T) {
	cfgPath := writeDataset(t)

	out, err := runCommand(t, "--config", cfgPath, "filter", "-r", "ky", "-p", "and", "-m", "and")
	require.NoError(t, err)
	assert.Contains(t, out, "r1")
	assert.NotContains(t, out, "r2")
}

func TestCLI_Filter_JSON(t *testing.T) {
	cfgPath := writeDataset(t)

	out, err := runCommand(t, "--config", cfgPath, "-o", "json", "filter", "-r", "ky")
	require.NoError(t, err)

	var rows []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "r1", rows[0]["id"])
}

func TestCLI_Filter_Similar(t *testing.T) {
	cfgPath := writeDataset(t)

	out, err := runCommand(t, "--config", cfgPath, "filter", "--id", "r1", "-m", "or", "--similar")
	require.NoError(t, err)
	assert.Contains(t, out, "r1")
	assert.Contains(t, out, "r2")
}

func TestCLI_Filter_UnknownMethod(t *testing.T) {
	cfgPath := writeDataset(t)

	_, err := runCommand(t, "--config", cfgPath, "filter", "-m", "xor")
	require.Error(t, err)
}

func TestCLI_Groups(t *testing.T) {
	cfgPath := writeDataset(t)

	out, err := runCommand(t, "--config", cfgPath, "groups", "-m", "and")
	require.NoError(t, err)
	assert.Contains(t, out, "r1,r2")
}

func TestCLI_Preprocess(t *testing.T) {
	cfgPath := writeDataset(t)
	outDir := t.TempDir()

	csv := "id,rxn,reactant1,product1,b,t1,tmin,tmax,authors,year\n" +
		"1,ky => sill,ky,sill,1.0,0.001,500,900,Smith,1998\n"
	csvPath := filepath.Join(t.TempDir(), "reactions.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(csv), 0o644))

	out, err := runCommand(t, "--config", cfgPath, "preprocess", csvPath, "--dataset-id", "tc", "--out", outDir)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote 1 entries")

	files, err := filepath.Glob(filepath.Join(outDir, "*.yml"))
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestCLI_MissingDatasetDir(t *testing.T) {
	dir := t.TempDir()
	cfg := "dataset:\n  source: yaml\n  dirs:\n    - " + filepath.Join(dir, "absent") + "\n"
	cfgPath := filepath.Join(dir, "rxndb.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))

	_, err := runCommand(t, "--config", cfgPath, "phases")
	require.Error(t, err)
}

func TestCLI_ContextRequired(t *testing.T) {
	cmd := &cobra.Command{}
	_, err := getContext(cmd)
	require.Error(t, err)
}
