// Package pipeline runs the labeler, the food filterer and the chart
// renderer against configured files.
package pipeline

import (
	"path/filepath"

	"github.com/KaramelBytes/dietwater/internal/config"
	"github.com/KaramelBytes/dietwater/internal/utils"
)

// ManifestName is written next to the survey output.
const ManifestName = "manifest.yaml"

// ReportName is the Markdown summary written by Run when requested.
const ReportName = "report.md"

// Paths holds every file the pipeline touches, made absolute.
type Paths struct {
	Base      string
	SurveyIn  string
	SurveyOut string
	FoodIn    string
	FoodOut   string
	ChartOut  string
	SQLite    string
	XLSX      string
}

// ResolvePaths anchors the configured paths at cfg.BaseDir, or at the
// directory of the running executable when BaseDir is empty.
func ResolvePaths(cfg *config.Config) (Paths, error) {
	base := cfg.BaseDir
	if base == "" {
		dir, err := utils.ExecutableDir()
		if err != nil {
			return Paths{}, err
		}
		base = dir
	}
	base = filepath.Clean(base)
	r := func(p string) string { return utils.ResolvePath(base, p) }
	return Paths{
		Base:      base,
		SurveyIn:  r(cfg.Survey.Input),
		SurveyOut: r(cfg.Survey.Output),
		FoodIn:    r(cfg.Food.Input),
		FoodOut:   r(cfg.Food.Output),
		ChartOut:  r(cfg.Chart.Output),
		SQLite:    r(cfg.Export.SQLite),
		XLSX:      r(cfg.Export.XLSX),
	}, nil
}

// OutputDir is the directory holding the survey output and the manifest.
func (p Paths) OutputDir() string {
	return filepath.Dir(p.SurveyOut)
}
