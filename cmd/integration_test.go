package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSurveyCSV = `mc_run_id,grouping,mean_watscar,mean_watuse,sd_watscar,sd_watuse,n_participants,sex,diet_group,age_group
1,vegan_female_20-29,100,10,5,1,30,female,vegan,20-29
2,vegan_female_20-29,110,12,5,1,30,female,vegan,20-29
3,vegan_female_20-29,105,11,5,1,30,female,vegan,20-29
4,vegan_female_20-29,120,13,5,1,30,female,vegan,20-29
5,vegan_female_20-29,400,90,5,1,30,female,vegan,20-29
1,meat_male_30-39,900,300,5,1,30,male,meat,30-39
1,veggie_male_30-39,200,20,3,2,25,male,veggie,30-39
`

const testFoodCSV = `Product id,Data S2 Name,id,Product_details,Country,Water Use (L),Scarcity Weighted Water Use (L eq),Weight
1,Rice,10,white,IN,2248,100000,45%
2,Rice,11,brown,CN,0.001,10,50%
3,Tofu,12,firm,CN,149,2000,30%
4,Bovine Meat (beef herd),13,steak,BR,1451,40000,20%
`

// resetFlags puts every flag of c and its subcommands back to its default so
// bound variables and Changed state do not leak between invocations.
func resetFlags(c *cobra.Command) {
	reset := func(fl *pflag.Flag) {
		_ = fl.Value.Set(fl.DefValue)
		fl.Changed = false
	}
	c.PersistentFlags().VisitAll(reset)
	c.Flags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// runCmd executes the root command with args and returns its stdout.
func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	cfg = nil
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// setupWorkspace writes both inputs and a config file into a temp dir used as
// HOME and base_dir, returning the dir and the config path.
func setupWorkspace(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Results.csv"), []byte(testSurveyCSV), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "jp_lca_dat.csv"), []byte(testFoodCSV), 0o644))
	cfgPath := filepath.Join(dir, "config.yaml")
	conf := "base_dir: " + dir + "\n" +
		"log:\n  level: error\n" +
		"survey:\n  input: Results.csv\n  output: out/labeled.csv\n" +
		"food:\n  input: jp_lca_dat.csv\n  output: out/foods.csv\n" +
		"chart:\n  output: out/chart.html\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(conf), 0o644))
	return dir, cfgPath
}

func TestCLI_Label_Foods_Chart_Report(t *testing.T) {
	dir, cfgPath := setupWorkspace(t)

	out, err := runCmd(t, "--config", cfgPath, "label")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Labeled 6 of 7 rows across 2 groupings (1 outliers)")
	assert.FileExists(t, filepath.Join(dir, "out", "labeled.csv"))

	out, err = runCmd(t, "--config", cfgPath, "foods")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Kept 2 rows across 2 foods")
	foods, err := os.ReadFile(filepath.Join(dir, "out", "foods.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(foods), "Tofu,12,firm,CN,149,2000,0.3\n")
	assert.NotContains(t, string(foods), "Bovine")

	out, err = runCmd(t, "--config", cfgPath, "chart", "--plotly-url", "https://example.test/plotly.js")
	require.NoError(t, err)
	assert.Contains(t, out, "chart.html")
	html, err := os.ReadFile(filepath.Join(dir, "out", "chart.html"))
	require.NoError(t, err)
	assert.Contains(t, string(html), "https://example.test/plotly.js")

	out, err = runCmd(t, "--config", cfgPath, "report")
	require.NoError(t, err)
	assert.Contains(t, out, "[RUN SUMMARY]")
	assert.Contains(t, out, "Survey rows: 6")
	assert.Contains(t, out, "[TOP FOODS]")
	assert.Contains(t, out, "1. Rice")
}

func TestCLI_FlagOverrides(t *testing.T) {
	dir, cfgPath := setupWorkspace(t)

	out, err := runCmd(t, "--config", cfgPath, "foods", "--top-foods", "1", "-o", "alt/top1.csv")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Kept 1 rows across 1 foods")
	assert.FileExists(t, filepath.Join(dir, "alt", "top1.csv"))

	// Overrides must not stick to the next invocation.
	out, err = runCmd(t, "--config", cfgPath, "foods")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Kept 2 rows across 2 foods")

	_, err = runCmd(t, "--config", cfgPath, "foods", "--top-foods", "0")
	assert.Error(t, err)
}

func TestCLI_RunWithExport(t *testing.T) {
	dir, cfgPath := setupWorkspace(t)

	out, err := runCmd(t, "--config", cfgPath, "run", "--report")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Run ")
	for _, name := range []string{"labeled.csv", "foods.csv", "chart.html", "manifest.yaml", "report.md"} {
		assert.FileExists(t, filepath.Join(dir, "out", name))
	}

	_, err = runCmd(t, "--config", cfgPath, "export")
	assert.Error(t, err, "no sink configured")

	out, err = runCmd(t, "--config", cfgPath, "export", "--sqlite", "out/diet.sqlite", "--xlsx", "out/diet.xlsx")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Exported 8 rows to ")
	assert.FileExists(t, filepath.Join(dir, "out", "diet.sqlite"))
	assert.FileExists(t, filepath.Join(dir, "out", "diet.xlsx"))
}

func TestCLI_BaseDirFlag(t *testing.T) {
	dir, cfgPath := setupWorkspace(t)
	other := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(other, "Results.csv"), []byte(testSurveyCSV), 0o644))

	out, err := runCmd(t, "--config", cfgPath, "--base-dir", other, "label")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(other, "out", "labeled.csv"))
	assert.FileExists(t, filepath.Join(other, "out", "labeled.csv"))
	assert.NoFileExists(t, filepath.Join(dir, "out", "labeled.csv"))
}

func TestCLI_RunMissingInput(t *testing.T) {
	dir, cfgPath := setupWorkspace(t)
	require.NoError(t, os.Remove(filepath.Join(dir, "jp_lca_dat.csv")))

	_, err := runCmd(t, "--config", cfgPath, "run")
	require.Error(t, err)
	assert.NoFileExists(t, filepath.Join(dir, "out", "labeled.csv"))
}

func TestCLI_ConfigSetShow(t *testing.T) {
	_, cfgPath := setupWorkspace(t)

	_, err := runCmd(t, "--config", cfgPath, "config", "set", "food.top_foods", "10")
	require.NoError(t, err)
	_, err = runCmd(t, "--config", cfgPath, "config", "set", "export.postgres_url", "postgres://app:s3cret@db:5432/diet")
	require.NoError(t, err)

	out, err := runCmd(t, "--config", cfgPath, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "food.top_foods: 10\n")
	assert.Contains(t, out, "export.postgres_url: postgres://app:xxxxx@db:5432/diet\n")
	assert.NotContains(t, out, "s3cret")

	_, err = runCmd(t, "--config", cfgPath, "config", "set", "food.top_foods", "0")
	assert.Error(t, err)
	_, err = runCmd(t, "--config", cfgPath, "config", "set", "no.such.key", "1")
	assert.Error(t, err)
}

func TestRedact(t *testing.T) {
	assert.Equal(t, "postgres://u:xxxxx@h/db", redact("postgres://u:pw@h/db"))
	assert.Equal(t, "out/diet.sqlite", redact("out/diet.sqlite"))
}
