package food

import (
	"sort"

	"github.com/go-gota/gota/dataframe"
	"go.uber.org/zap"

	"github.com/KaramelBytes/dietwater/internal/stats"
)

// FilterOptions controls Filter. An empty keyword set and non-positive
// top counts fall back to DefaultFilterOptions; MinWaterUse and
// WeightDecimals are used as given, so start from DefaultFilterOptions.
type FilterOptions struct {
	Keywords       Keywords
	TopFoods       int
	TopPerFood     int
	MinWaterUse    float64
	WeightDecimals int
}

// DefaultFilterOptions returns the treemap settings: top 20 foods, top 5
// rows per food, water use above 0.01 L, weights rounded to 3 decimals.
func DefaultFilterOptions() FilterOptions {
	return FilterOptions{
		Keywords:       DefaultKeywords(),
		TopFoods:       20,
		TopPerFood:     5,
		MinWaterUse:    0.01,
		WeightDecimals: 3,
	}
}

func (o FilterOptions) withDefaults() FilterOptions {
	d := DefaultFilterOptions()
	if o.Keywords.Len() == 0 {
		o.Keywords = d.Keywords
	}
	if o.TopFoods <= 0 {
		o.TopFoods = d.TopFoods
	}
	if o.TopPerFood <= 0 {
		o.TopPerFood = d.TopPerFood
	}
	return o
}

// FoodTotal is the aggregate water use of one selected food name.
type FoodTotal struct {
	Name      string
	WaterUseL float64
	Rows      int
	Kept      int
}

// Filter ranks and prunes recs. The foods with the largest summed water use
// are kept (ties by name), then within each food the rows with the largest
// weight (ties by input order). Rows at or below MinWaterUse are dropped and
// weights are rounded. Output rows keep their input order; totals are in
// rank order.
func Filter(recs []Record, opts FilterOptions) ([]Record, []FoodTotal) {
	opts = opts.withDefaults()

	byName := make(map[string]*FoodTotal)
	var totals []*FoodTotal
	members := make(map[string][]int)
	for i, r := range recs {
		t, ok := byName[r.FoodName]
		if !ok {
			t = &FoodTotal{Name: r.FoodName}
			byName[r.FoodName] = t
			totals = append(totals, t)
		}
		t.WaterUseL += r.WaterUseL.Float()
		t.Rows++
		members[r.FoodName] = append(members[r.FoodName], i)
	}

	sort.SliceStable(totals, func(i, j int) bool {
		if totals[i].WaterUseL != totals[j].WaterUseL {
			return totals[i].WaterUseL > totals[j].WaterUseL
		}
		return totals[i].Name < totals[j].Name
	})
	if len(totals) > opts.TopFoods {
		totals = totals[:opts.TopFoods]
	}

	keep := make([]bool, len(recs))
	for _, t := range totals {
		idx := append([]int(nil), members[t.Name]...)
		sort.SliceStable(idx, func(a, b int) bool {
			return recs[idx[a]].SupplyChainWeight > recs[idx[b]].SupplyChainWeight
		})
		if len(idx) > opts.TopPerFood {
			idx = idx[:opts.TopPerFood]
		}
		for _, i := range idx {
			if recs[i].WaterUseL.Float() > opts.MinWaterUse {
				keep[i] = true
				t.Kept++
			}
		}
	}

	var out []Record
	for i, r := range recs {
		if !keep[i] {
			continue
		}
		r.SupplyChainWeight = stats.Number(stats.Round(r.SupplyChainWeight.Float(), opts.WeightDecimals))
		out = append(out, r)
	}

	ranked := make([]FoodTotal, len(totals))
	for i, t := range totals {
		ranked[i] = *t
	}
	return out, ranked
}

// Process runs the whole food filterer over a raw frame.
func Process(df dataframe.DataFrame, opts FilterOptions) ([]Record, []FoodTotal, error) {
	opts = opts.withDefaults()
	norm, err := Normalize(df)
	if err != nil {
		return nil, nil, err
	}
	matched := MatchKeywords(norm, opts.Keywords)
	recs := Records(matched)
	out, totals := Filter(recs, opts)

	zap.L().Debug("filtered food table",
		zap.Int("raw_rows", df.Nrow()),
		zap.Int("matched_rows", len(recs)),
		zap.Int("foods", len(totals)),
		zap.Int("rows", len(out)),
	)
	return out, totals, nil
}
