package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/dietwater/internal/config"
	"github.com/KaramelBytes/dietwater/internal/food"
	"github.com/KaramelBytes/dietwater/internal/report"
	"github.com/KaramelBytes/dietwater/internal/survey"
	"github.com/KaramelBytes/dietwater/internal/utils"
)

// Output is one file produced by a run.
type Output struct {
	Stage string `yaml:"stage"`
	Path  string `yaml:"path"`
	Rows  int    `yaml:"rows,omitempty"`
}

// Manifest records what a run read and wrote.
type Manifest struct {
	RunID      string      `yaml:"run_id"`
	StartedAt  time.Time   `yaml:"started_at"`
	FinishedAt time.Time   `yaml:"finished_at"`
	Inputs     []string    `yaml:"inputs"`
	Outputs    []Output    `yaml:"outputs"`
	SurveyRows int         `yaml:"survey_rows"`
	FoodRows   int         `yaml:"food_rows"`
	Outliers   map[int]int `yaml:"outliers"`
}

// Save writes the manifest as YAML.
func (m *Manifest) Save(path string) error {
	b, err := yaml.Marshal(m)
	if err != nil {
		return eris.Wrap(err, "manifest: marshal")
	}
	return utils.SafeWriteFile(path, b)
}

// LoadManifest reads a manifest written by Save.
func LoadManifest(path string) (*Manifest, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "manifest: read")
	}
	var m Manifest
	if err := yaml.Unmarshal(b, &m); err != nil {
		return nil, eris.Wrap(err, "manifest: parse")
	}
	return &m, nil
}

// Options controls Run.
type Options struct {
	// Report also writes report.md next to the manifest.
	Report bool
	// Export loads the outputs into the configured sinks.
	Export bool
}

// Result carries everything a run produced.
type Result struct {
	Manifest *Manifest
	Paths    Paths
	Label    *LabelResult
	Food     *FoodResult
	Report   *report.Report
}

// Run executes label, foods and chart in order. Both inputs are parsed and
// the chart is built before anything is written.
func Run(ctx context.Context, cfg *config.Config, opts Options) (*Result, error) {
	p, err := ResolvePaths(cfg)
	if err != nil {
		return nil, err
	}
	for _, in := range []string{p.SurveyIn, p.FoodIn} {
		if _, err := os.Stat(in); err != nil {
			return nil, eris.Wrapf(err, "input %s", in)
		}
	}

	m := &Manifest{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Inputs:    []string{p.SurveyIn, p.FoodIn},
	}
	log := zap.L().With(zap.String("run_id", m.RunID))
	log.Info("pipeline started", zap.String("base_dir", p.Base))

	// Every input is parsed and every artifact built before the first write.
	lr, err := labelSurvey(ctx, cfg, p)
	if err != nil {
		return nil, err
	}
	fr, err := filterFoods(ctx, cfg, p)
	if err != nil {
		return nil, err
	}
	page, err := renderChart(cfg, lr.Labeled)
	if err != nil {
		return nil, err
	}

	if err := writeLabeled(p, lr); err != nil {
		return nil, err
	}
	m.Outputs = append(m.Outputs, Output{Stage: "label", Path: p.SurveyOut, Rows: len(lr.Labeled)})
	if err := writeFoods(p, fr); err != nil {
		return nil, err
	}
	m.Outputs = append(m.Outputs, Output{Stage: "foods", Path: p.FoodOut, Rows: len(fr.Foods)})
	if err := writeChart(p, page, len(lr.Labeled)); err != nil {
		return nil, err
	}
	m.Outputs = append(m.Outputs, Output{Stage: "chart", Path: p.ChartOut})

	res := &Result{Manifest: m, Paths: p, Label: lr, Food: fr}
	res.Report = report.New(m.RunID, lr.Labeled, lr.Partitions, fr.Foods, fr.Totals)
	if opts.Report {
		path := filepath.Join(p.OutputDir(), ReportName)
		if err := utils.SafeWriteFile(path, []byte(res.Report.Markdown())); err != nil {
			return nil, eris.Wrap(err, "write report")
		}
		m.Outputs = append(m.Outputs, Output{Stage: "report", Path: path})
	}
	if opts.Export {
		outs, err := Export(ctx, cfg, p, lr.Labeled, fr.Foods)
		if err != nil {
			return nil, err
		}
		m.Outputs = append(m.Outputs, outs...)
	}

	m.SurveyRows = len(lr.Labeled)
	m.FoodRows = len(fr.Foods)
	m.Outliers = survey.CountByCode(lr.Labeled)
	m.FinishedAt = time.Now().UTC()
	if err := m.Save(filepath.Join(p.OutputDir(), ManifestName)); err != nil {
		return nil, err
	}
	log.Info("pipeline finished", zap.Duration("elapsed", m.FinishedAt.Sub(m.StartedAt)))
	return res, nil
}

// Export loads the tables into every configured sink: SQLite, an XLSX
// workbook and PostgreSQL. Unconfigured sinks are skipped.
func Export(ctx context.Context, cfg *config.Config, p Paths, labeled []survey.Labeled, foods []food.Record) ([]Output, error) {
	var outs []Output
	if p.SQLite != "" {
		if err := exportSQLite(ctx, p.SQLite, labeled, foods); err != nil {
			return nil, err
		}
		outs = append(outs, Output{Stage: "export_sqlite", Path: p.SQLite, Rows: len(labeled) + len(foods)})
	}
	if p.XLSX != "" {
		if err := exportXLSX(p.XLSX, labeled, foods); err != nil {
			return nil, err
		}
		outs = append(outs, Output{Stage: "export_xlsx", Path: p.XLSX, Rows: len(labeled) + len(foods)})
	}
	if cfg.Export.PostgresURL != "" {
		if err := exportPostgres(ctx, cfg.Export.PostgresURL, labeled, foods); err != nil {
			return nil, err
		}
		outs = append(outs, Output{Stage: "export_postgres", Path: "postgres", Rows: len(labeled) + len(foods)})
	}
	return outs, nil
}
