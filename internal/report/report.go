// Package report summarises a pipeline run as a compact Markdown document.
package report

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/KaramelBytes/dietwater/internal/food"
	"github.com/KaramelBytes/dietwater/internal/survey"
)

// smallPartition is the size below which quartiles rest on very few points.
const smallPartition = 4

// Report is the summary of one run.
type Report struct {
	Name       string
	SurveyRows int
	Partitions []survey.Partition
	Codes      map[int]int
	FoodRows   int
	Foods      []food.FoodTotal
	Warnings   []string
}

// New assembles a report from the stage results.
func New(name string, labeled []survey.Labeled, parts []survey.Partition, foods []food.Record, totals []food.FoodTotal) *Report {
	r := &Report{
		Name:       name,
		SurveyRows: len(labeled),
		Partitions: parts,
		Codes:      survey.CountByCode(labeled),
		FoodRows:   len(foods),
		Foods:      totals,
	}
	r.Warnings = warnings(parts)
	return r
}

// FromTables rebuilds a report from the two written output tables. Partition
// fences are recomputed from the labeled rows; food totals cover kept rows
// only.
func FromTables(ctx context.Context, name string, labeled []survey.Labeled, foods []food.Record) (*Report, error) {
	_, parts, err := survey.Label(ctx, survey.Strip(labeled), survey.LabelOptions{})
	if err != nil {
		return nil, eris.Wrap(err, "report: recompute partitions")
	}
	// Flag counts come from the stored codes, not the recomputation.
	stored := make(map[string]int, len(parts))
	for _, l := range labeled {
		if l.IsOutlier() {
			stored[l.Grouping]++
		}
	}
	for i := range parts {
		parts[i].Outliers = stored[parts[i].Key]
	}

	byName := map[string]*food.FoodTotal{}
	var totals []*food.FoodTotal
	for _, f := range foods {
		t, ok := byName[f.FoodName]
		if !ok {
			t = &food.FoodTotal{Name: f.FoodName}
			byName[f.FoodName] = t
			totals = append(totals, t)
		}
		t.WaterUseL += f.WaterUseL.Float()
		t.Rows++
		t.Kept++
	}
	sort.SliceStable(totals, func(i, j int) bool { return totals[i].WaterUseL > totals[j].WaterUseL })
	flat := make([]food.FoodTotal, len(totals))
	for i, t := range totals {
		flat[i] = *t
	}
	return New(name, labeled, parts, foods, flat), nil
}

func warnings(parts []survey.Partition) []string {
	var out []string
	for _, p := range parts {
		switch {
		case p.Size < smallPartition:
			out = append(out, fmt.Sprintf("grouping %s has only %d rows; quartiles are interpolated from very few points", p.Key, p.Size))
		case p.Fence.IQR() == 0:
			out = append(out, fmt.Sprintf("grouping %s has IQR 0; every deviation from %.4g is flagged", p.Key, p.Fence.Q1))
		}
	}
	return out
}

// Markdown renders the report with bracketed section headers.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[RUN SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("Run: %s\n", r.Name))
	}
	b.WriteString(fmt.Sprintf("Survey rows: %d\n", r.SurveyRows))
	b.WriteString(fmt.Sprintf("Groupings: %d\n", len(r.Partitions)))
	b.WriteString(fmt.Sprintf("Food rows: %d\n", r.FoodRows))

	if len(r.Partitions) > 0 {
		b.WriteString("\n[SURVEY OUTLIERS]\n")
		for _, p := range r.Partitions {
			b.WriteString(fmt.Sprintf("- %s (n=%d): Q1 %.4g, Q3 %.4g, fence [%.4g, %.4g], flagged %d\n",
				safe(p.Key), p.Size, p.Fence.Q1, p.Fence.Q3, p.Fence.Lower, p.Fence.Upper, p.Outliers))
		}
	}

	if len(r.Codes) > 0 {
		b.WriteString("\n[OUTLIER CODES]\n")
		codes := make([]int, 0, len(r.Codes))
		for c := range r.Codes {
			codes = append(codes, c)
		}
		sort.Ints(codes)
		for _, c := range codes {
			b.WriteString(fmt.Sprintf("- %d: %d\n", c, r.Codes[c]))
		}
	}

	if len(r.Foods) > 0 {
		b.WriteString("\n[TOP FOODS]\n")
		for i, f := range r.Foods {
			b.WriteString(fmt.Sprintf("%d. %s: water use %.4g L (%d of %d rows kept)\n", i+1, safe(f.Name), f.WaterUseL, f.Kept, f.Rows))
		}
	}

	if len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Warnings {
			b.WriteString("- " + w + "\n")
		}
	}
	return b.String()
}

// safe keeps table values on one line.
func safe(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	if r := []rune(s); len(r) > 80 {
		s = string(r[:77]) + "..."
	}
	return s
}
