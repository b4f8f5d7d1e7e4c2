package pipeline

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/KaramelBytes/dietwater/internal/chart"
	"github.com/KaramelBytes/dietwater/internal/config"
	"github.com/KaramelBytes/dietwater/internal/food"
	"github.com/KaramelBytes/dietwater/internal/survey"
	"github.com/KaramelBytes/dietwater/internal/utils"
)

// LabelResult is the output of the labeling stage.
type LabelResult struct {
	Labeled    []survey.Labeled
	Partitions []survey.Partition
	RawRows    int
}

// LabelStage reads the survey input, labels it and writes the annotated table.
func LabelStage(ctx context.Context, cfg *config.Config, p Paths) (*LabelResult, error) {
	res, err := labelSurvey(ctx, cfg, p)
	if err != nil {
		return nil, err
	}
	if err := writeLabeled(p, res); err != nil {
		return nil, err
	}
	return res, nil
}

func labelSurvey(ctx context.Context, cfg *config.Config, p Paths) (*LabelResult, error) {
	f, err := os.Open(p.SurveyIn)
	if err != nil {
		return nil, eris.Wrap(err, "label: open survey input")
	}
	defer f.Close()

	recs, err := survey.Read(f)
	if err != nil {
		return nil, eris.Wrapf(err, "label: read %s", p.SurveyIn)
	}
	labeled, parts, err := survey.LabelSurvey(ctx, recs, survey.LabelOptions{Workers: cfg.Survey.Workers})
	if err != nil {
		return nil, err
	}
	return &LabelResult{Labeled: labeled, Partitions: parts, RawRows: len(recs)}, nil
}

func writeLabeled(p Paths, res *LabelResult) error {
	var buf bytes.Buffer
	if err := survey.Write(&buf, res.Labeled); err != nil {
		return err
	}
	if err := utils.SafeWriteFile(p.SurveyOut, buf.Bytes()); err != nil {
		return eris.Wrap(err, "label: write output")
	}

	flagged := 0
	for _, l := range res.Labeled {
		if l.IsOutlier() {
			flagged++
		}
	}
	zap.L().Info("labeled survey",
		zap.String("input", p.SurveyIn),
		zap.String("output", p.SurveyOut),
		zap.Int("raw_rows", res.RawRows),
		zap.Int("kept_rows", len(res.Labeled)),
		zap.Int("groupings", len(res.Partitions)),
		zap.Int("outliers", flagged),
	)
	return nil
}

// FoodResult is the output of the food stage.
type FoodResult struct {
	Foods   []food.Record
	Totals  []food.FoodTotal
	RawRows int
}

// FilterOptions maps the food config onto food.FilterOptions.
func FilterOptions(c config.FoodConfig) food.FilterOptions {
	opts := food.DefaultFilterOptions()
	if c.TopFoods > 0 {
		opts.TopFoods = c.TopFoods
	}
	if c.TopPerFood > 0 {
		opts.TopPerFood = c.TopPerFood
	}
	opts.MinWaterUse = c.MinWaterUse
	opts.WeightDecimals = c.WeightDecimals
	return opts
}

// LoadFoodTable reads the raw food table. Files ending in .xlsx are read as
// workbooks, everything else as CSV in the configured charset.
func LoadFoodTable(cfg *config.Config, path string) (dataframe.DataFrame, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return food.LoadXLSX(path, cfg.Food.Sheet)
	}
	f, err := os.Open(path)
	if err != nil {
		return dataframe.New(), eris.Wrap(err, "foods: open input")
	}
	defer f.Close()
	return food.LoadCSV(f, cfg.Food.Encoding)
}

// FoodStage filters the food table and writes the treemap-ready CSV.
func FoodStage(ctx context.Context, cfg *config.Config, p Paths) (*FoodResult, error) {
	res, err := filterFoods(ctx, cfg, p)
	if err != nil {
		return nil, err
	}
	if err := writeFoods(p, res); err != nil {
		return nil, err
	}
	return res, nil
}

func filterFoods(ctx context.Context, cfg *config.Config, p Paths) (*FoodResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	df, err := LoadFoodTable(cfg, p.FoodIn)
	if err != nil {
		return nil, eris.Wrapf(err, "foods: read %s", p.FoodIn)
	}
	out, totals, err := food.Process(df, FilterOptions(cfg.Food))
	if err != nil {
		return nil, err
	}
	return &FoodResult{Foods: out, Totals: totals, RawRows: df.Nrow()}, nil
}

func writeFoods(p Paths, res *FoodResult) error {
	var buf bytes.Buffer
	if err := food.Write(&buf, res.Foods); err != nil {
		return err
	}
	if err := utils.SafeWriteFile(p.FoodOut, buf.Bytes()); err != nil {
		return eris.Wrap(err, "foods: write output")
	}
	zap.L().Info("filtered foods",
		zap.String("input", p.FoodIn),
		zap.String("output", p.FoodOut),
		zap.Int("raw_rows", res.RawRows),
		zap.Int("foods", len(res.Totals)),
		zap.Int("rows", len(res.Foods)),
	)
	return nil
}

// ReadLabeled loads a previously written labeler output.
func ReadLabeled(path string) ([]survey.Labeled, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "open labeled survey")
	}
	defer f.Close()
	recs, err := survey.ReadLabeled(f)
	if err != nil {
		return nil, eris.Wrapf(err, "read %s", path)
	}
	return recs, nil
}

// ReadFoods loads a previously written food output.
func ReadFoods(path string) ([]food.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "open food table")
	}
	defer f.Close()
	recs, err := food.Read(f)
	if err != nil {
		return nil, eris.Wrapf(err, "read %s", path)
	}
	return recs, nil
}

// ChartStage renders labeled rows to the configured HTML file. When
// labeled is nil the labeler output is read from disk.
func ChartStage(ctx context.Context, cfg *config.Config, p Paths, labeled []survey.Labeled) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if labeled == nil {
		recs, err := ReadLabeled(p.SurveyOut)
		if err != nil {
			return eris.Wrap(err, "chart")
		}
		labeled = recs
	}
	page, err := renderChart(cfg, labeled)
	if err != nil {
		return err
	}
	return writeChart(p, page, len(labeled))
}

func renderChart(cfg *config.Config, labeled []survey.Labeled) ([]byte, error) {
	fig, err := chart.Build(labeled, chart.Options{SizeMax: cfg.Chart.SizeMax})
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := fig.WriteHTML(&buf, chart.HTMLOptions{PlotlyURL: cfg.Chart.PlotlyURL}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeChart(p Paths, page []byte, points int) error {
	if err := utils.SafeWriteFile(p.ChartOut, page); err != nil {
		return eris.Wrap(err, "chart: write output")
	}
	zap.L().Info("rendered chart", zap.String("output", p.ChartOut), zap.Int("points", points))
	return nil
}
