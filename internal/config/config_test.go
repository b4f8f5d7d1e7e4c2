package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(origDir) })
	t.Setenv("HOME", dir)
	return dir
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "", cfg.BaseDir)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "Results_21Mar2022.csv", cfg.Survey.Input)
	assert.Equal(t, "Data_Output/Results_with_outliers_flag.csv", cfg.Survey.Output)
	assert.Equal(t, 4, cfg.Survey.Workers)
	assert.Equal(t, "latin1", cfg.Food.Encoding)
	assert.Equal(t, 20, cfg.Food.TopFoods)
	assert.Equal(t, 5, cfg.Food.TopPerFood)
	assert.InDelta(t, 0.01, cfg.Food.MinWaterUse, 1e-12)
	assert.Equal(t, 3, cfg.Food.WeightDecimals)
	assert.Equal(t, "Data_Output/interactive_bubble_chart_final.html", cfg.Chart.Output)
	assert.Equal(t, DefaultPlotlyURL, cfg.Chart.PlotlyURL)
	assert.InDelta(t, 60.0, cfg.Chart.SizeMax, 1e-12)
	assert.Empty(t, cfg.Export.SQLite)
}

func TestLoadFromYAML(t *testing.T) {
	dir := isolate(t)

	yaml := `
base_dir: /data/diet
log:
  level: debug
  format: json
survey:
  workers: 8
food:
  top_foods: 10
  encoding: utf-8
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "/data/diet", cfg.BaseDir)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8, cfg.Survey.Workers)
	assert.Equal(t, 10, cfg.Food.TopFoods)
	assert.Equal(t, "utf-8", cfg.Food.Encoding)
	// Defaults still apply for unset values
	assert.Equal(t, 5, cfg.Food.TopPerFood)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("food:\n  top_foods: 10\n"), 0o644))
	t.Setenv("DIETWATER_FOOD_TOP_FOODS", "3")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Food.TopFoods)
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	dir := isolate(t)
	_, err := Load(filepath.Join(dir, "nope.yaml"))
	require.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "nested", "config.yaml")

	cfg, err := Load("")
	require.NoError(t, err)
	cfg.Survey.Workers = 2
	cfg.Chart.SizeMax = 40
	require.NoError(t, Save(cfg, path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Survey.Workers)
	assert.InDelta(t, 40.0, got.Chart.SizeMax, 1e-12)
}

func TestSaveDefaultPath(t *testing.T) {
	dir := isolate(t)
	cfg, err := Load("")
	require.NoError(t, err)
	require.NoError(t, Save(cfg, ""))

	_, err = os.Stat(filepath.Join(dir, ".dietwater", "config.yaml"))
	assert.NoError(t, err)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "json"}))
	assert.True(t, zap.L().Core().Enabled(zap.DebugLevel))

	require.NoError(t, InitLogger(LogConfig{Level: "warn", Format: "console"}))
	assert.False(t, zap.L().Core().Enabled(zap.InfoLevel))

	assert.Error(t, InitLogger(LogConfig{Level: "loud"}))
}
