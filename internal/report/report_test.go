package report

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/dietwater/internal/food"
	"github.com/KaramelBytes/dietwater/internal/stats"
	"github.com/KaramelBytes/dietwater/internal/survey"
)

func surveyRows() []survey.Record {
	var recs []survey.Record
	for _, v := range []float64{10, 12, 11, 13, 90} {
		recs = append(recs, survey.Record{Grouping: "G1", DietGroup: "vegan", Sex: "female", MeanWatUse: stats.Number(v)})
	}
	recs = append(recs, survey.Record{Grouping: "G2", DietGroup: "veggie", Sex: "male", MeanWatUse: 4})
	return recs
}

func TestNewMarkdownSections(t *testing.T) {
	labeled, parts, err := survey.Label(context.Background(), surveyRows(), survey.LabelOptions{})
	require.NoError(t, err)
	foods := []food.Record{{FoodName: "Rice", WaterUseL: 3}}
	totals := []food.FoodTotal{{Name: "Rice", WaterUseL: 7.5, Rows: 4, Kept: 1}}

	md := New("run-1", labeled, parts, foods, totals).Markdown()

	assert.True(t, strings.HasPrefix(md, "[RUN SUMMARY]\nRun: run-1\n"))
	assert.Contains(t, md, "Survey rows: 6\n")
	assert.Contains(t, md, "[SURVEY OUTLIERS]\n- G1 (n=5): Q1 11, Q3 13, fence [8, 16], flagged 1\n")
	assert.Contains(t, md, "[OUTLIER CODES]\n- 0: 5\n- 1: 1\n")
	assert.Contains(t, md, "[TOP FOODS]\n1. Rice: water use 7.5 L (1 of 4 rows kept)\n")
	assert.Contains(t, md, "[NOTES]\n- grouping G2 has only 1 rows")
}

func TestFromTablesUsesStoredCodes(t *testing.T) {
	labeled, _, err := survey.Label(context.Background(), surveyRows(), survey.LabelOptions{})
	require.NoError(t, err)
	foods := []food.Record{
		{FoodName: "Tofu", WaterUseL: 1},
		{FoodName: "Rice", WaterUseL: 2},
		{FoodName: "Tofu", WaterUseL: 4},
	}

	r, err := FromTables(context.Background(), "", labeled, foods)
	require.NoError(t, err)
	require.Len(t, r.Partitions, 2)
	assert.Equal(t, 1, r.Partitions[0].Outliers)
	require.Len(t, r.Foods, 2)
	assert.Equal(t, "Tofu", r.Foods[0].Name)
	assert.InDelta(t, 5.0, r.Foods[0].WaterUseL, 1e-12)
	assert.Equal(t, 3, r.FoodRows)
	assert.NotContains(t, r.Markdown(), "Run:")
}

func TestWarningsForZeroIQR(t *testing.T) {
	parts := []survey.Partition{{Key: "flat", Size: 6}}
	w := warnings(parts)
	require.Len(t, w, 1)
	assert.Contains(t, w[0], "IQR 0")
}

func TestSafe(t *testing.T) {
	assert.Equal(t, "a b", safe("a\nb"))
	assert.Len(t, safe(strings.Repeat("x", 200)), 80)

	long := safe(strings.Repeat("é", 100))
	assert.True(t, utf8.ValidString(long))
	assert.Equal(t, 80, utf8.RuneCountInString(long))
	assert.Equal(t, "Café", safe("Café"))
}
