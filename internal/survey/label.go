package survey

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/KaramelBytes/dietwater/internal/stats"
)

// LabelOptions controls Label. Zero fields fall back to the survey defaults:
// DefaultOutlierCodes, the grouping column, mean_watuse and one worker.
type LabelOptions struct {
	Codes   OutlierCodes
	Key     func(Record) string
	Value   func(Record) float64
	Workers int
}

// Partition summarises one grouping after labeling.
type Partition struct {
	Key      string
	Size     int
	Fence    stats.Fence
	Outliers int
}

// GroupingKey partitions by the grouping column.
func GroupingKey(r Record) string { return r.Grouping }

// MeanWaterUse is the value tested against the fence.
func MeanWaterUse(r Record) float64 { return r.MeanWatUse.Float() }

func (o LabelOptions) withDefaults() LabelOptions {
	if o.Codes.codes == nil {
		o.Codes = DefaultOutlierCodes()
	}
	if o.Key == nil {
		o.Key = GroupingKey
	}
	if o.Value == nil {
		o.Value = MeanWaterUse
	}
	if o.Workers < 1 {
		o.Workers = 1
	}
	return o
}

// RestrictDiets keeps the rows whose diet group is one of diets, in input
// order. With no diets given it keeps vegan and veggie.
func RestrictDiets(recs []Record, diets ...string) []Record {
	if len(diets) == 0 {
		diets = []string{DietVegan, DietVeggie}
	}
	keep := make(map[string]struct{}, len(diets))
	for _, d := range diets {
		keep[d] = struct{}{}
	}
	out := make([]Record, 0, len(recs))
	for _, r := range recs {
		if _, ok := keep[r.DietGroup]; ok {
			out = append(out, r)
		}
	}
	return out
}

// Label assigns each record its diet_sex_group and outlier code. Records are
// partitioned by opts.Key; a record is an outlier when opts.Value lies
// strictly outside its own partition's IQR fence, and then carries the code
// of its own diet_sex_group. The input is not modified and output order
// matches input order. Partitions are returned in first-appearance order.
func Label(ctx context.Context, recs []Record, opts LabelOptions) ([]Labeled, []Partition, error) {
	opts = opts.withDefaults()

	index := make(map[string]int)
	var keys []string
	var members [][]int
	for i, r := range recs {
		k := opts.Key(r)
		p, ok := index[k]
		if !ok {
			p = len(keys)
			index[k] = p
			keys = append(keys, k)
			members = append(members, nil)
		}
		members[p] = append(members[p], i)
	}

	fences := make([]stats.Fence, len(keys))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for p := range keys {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			vals := make([]float64, len(members[p]))
			for j, i := range members[p] {
				vals[j] = opts.Value(recs[i])
			}
			fences[p] = stats.NewFence(vals)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, eris.Wrap(err, "survey: compute fences")
	}

	out := make([]Labeled, len(recs))
	parts := make([]Partition, len(keys))
	for p, k := range keys {
		parts[p] = Partition{Key: k, Size: len(members[p]), Fence: fences[p]}
		for _, i := range members[p] {
			r := recs[i]
			l := Labeled{Record: r, DietSexGroup: r.DietSexGroup()}
			if fences[p].Outside(opts.Value(r)) {
				l.Outliers = opts.Codes.Code(l.DietSexGroup)
			}
			if l.Outliers != 0 {
				parts[p].Outliers++
			}
			out[i] = l
		}
	}

	zap.L().Debug("labeled survey partitions",
		zap.Int("rows", len(recs)),
		zap.Int("partitions", len(parts)),
	)
	return out, parts, nil
}

// LabelSurvey restricts recs to vegan and veggie rows and labels them.
func LabelSurvey(ctx context.Context, recs []Record, opts LabelOptions) ([]Labeled, []Partition, error) {
	return Label(ctx, RestrictDiets(recs), opts)
}

// CountByCode tallies labeled rows per outlier code, including 0.
func CountByCode(recs []Labeled) map[int]int {
	counts := make(map[int]int)
	for _, r := range recs {
		counts[r.Outliers]++
	}
	return counts
}
