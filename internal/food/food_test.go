package food

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const rawHeader = "Product id,Data S2 Name,id,Product_details,Country,Water Use (L),Scarcity Weighted Water Use (L eq),Weight\n"

func TestNormalizeWeight(t *testing.T) {
	cases := map[string]float64{
		"45%":   0.45,
		"45":    0.45,
		" 7.5%": 0.075,
		"":      0,
		"n/a":   0,
		"150%":  1,
		"-3%":   0,
	}
	for in, want := range cases {
		assert.InDelta(t, want, NormalizeWeight(in), 1e-12, "input %q", in)
	}
}

func TestKeywordsMatchLiteralCaseInsensitive(t *testing.T) {
	kw := DefaultKeywords()
	assert.Equal(t, 35, kw.Len())
	assert.True(t, kw.Match("barley (beer)"))
	assert.True(t, kw.Match("Wheat & Rye (Bread)"))
	assert.True(t, kw.Match("BROWN RICE"))
	assert.False(t, kw.Match("Bovine Meat (beef herd)"))
	assert.False(t, kw.Match(""))

	custom := NewKeywords("a.c", " ")
	assert.Equal(t, 1, custom.Len())
	assert.False(t, custom.Match("abc"))
	assert.True(t, custom.Match("xa.cx"))
}

func TestLoadCSVDecodesLatin1(t *testing.T) {
	in := []byte(rawHeader + "1,Coffee,10,Caf\xe9 noir,Brazil,120.5,900,45%\n")
	df, err := LoadCSV(bytes.NewReader(in), "latin1")
	require.NoError(t, err)

	norm, err := Normalize(df)
	require.NoError(t, err)
	assert.Equal(t, Columns, norm.Names())

	recs := Records(norm)
	require.Len(t, recs, 1)
	assert.Equal(t, "Café noir", recs[0].ProductDetails)
	assert.Equal(t, "Coffee", recs[0].FoodName)
	assert.InDelta(t, 120.5, recs[0].WaterUseL.Float(), 1e-9)
	assert.InDelta(t, 0.45, recs[0].SupplyChainWeight.Float(), 1e-12)
}

func TestLoadCSVUnknownCharset(t *testing.T) {
	_, err := LoadCSV(strings.NewReader(rawHeader), "klingon-8")
	require.Error(t, err)
}

func TestLoadCSVStripsByteOrderMark(t *testing.T) {
	in := "\ufeffData S2 Name,id,Product_details,Country,Water Use (L),Scarcity Weighted Water Use (L eq),Weight\n" +
		"Rice,10,white,IN,2248,100000,45%\n"
	df, err := LoadCSV(strings.NewReader(in), "utf-8")
	require.NoError(t, err)
	norm, err := Normalize(df)
	require.NoError(t, err)
	recs := Records(norm)
	require.Len(t, recs, 1)
	assert.Equal(t, "Rice", recs[0].FoodName)
}

func TestNormalizeMissingColumn(t *testing.T) {
	df, err := LoadCSV(strings.NewReader("Data S2 Name,Weight\nRice,5%\n"), "utf-8")
	require.NoError(t, err)
	_, err = Normalize(df)
	require.Error(t, err)
}

func TestRecordsFillsMissingCells(t *testing.T) {
	in := rawHeader + "1,Tofu,,,,,,\n"
	df, err := LoadCSV(strings.NewReader(in), "")
	require.NoError(t, err)
	norm, err := Normalize(df)
	require.NoError(t, err)

	recs := Records(norm)
	require.Len(t, recs, 1)
	assert.Equal(t, "0", recs[0].ID)
	assert.Equal(t, "0", recs[0].ProductDetails)
	assert.Equal(t, "0", recs[0].CountryOrigin)
	assert.Zero(t, recs[0].WaterUseL.Float())
	assert.Zero(t, recs[0].SupplyChainWeight.Float())
}

func TestFilterLimitsFoodsAndRows(t *testing.T) {
	var b strings.Builder
	b.WriteString(rawHeader)
	id := 0
	for f := 0; f < 25; f++ {
		for r := 0; r < 8; r++ {
			id++
			water := float64(100*(f+1) + r)
			if r == 0 {
				water = 0.005
			}
			fmt.Fprintf(&b, "%d,Rice %02d,%d,detail,NZ,%g,1,%d%%\n", id, f, id, water, 10+r)
		}
	}
	// Not on the allow-list, dwarfs everything else.
	b.WriteString("999,Bovine Meat,999,beef,BR,999999,1,50%\n")

	df, err := LoadCSV(strings.NewReader(b.String()), "utf-8")
	require.NoError(t, err)
	out, totals, err := Process(df, DefaultFilterOptions())
	require.NoError(t, err)

	require.Len(t, totals, 20)
	assert.Equal(t, "Rice 24", totals[0].Name)
	assert.Equal(t, "Rice 05", totals[19].Name)

	perFood := map[string]int{}
	for _, r := range out {
		perFood[r.FoodName]++
		assert.Greater(t, r.WaterUseL.Float(), 0.01)
		assert.NotEqual(t, "Bovine Meat", r.FoodName)
	}
	assert.Len(t, perFood, 20)
	for name, n := range perFood {
		assert.LessOrEqual(t, n, 5, name)
	}
	// The lightest rows (r < 3) never make the top 5 by weight.
	for _, r := range out {
		assert.GreaterOrEqual(t, r.SupplyChainWeight.Float(), 0.13)
	}
}

func TestFilterTieBreaks(t *testing.T) {
	recs := []Record{
		{FoodName: "Peas", ID: "a", WaterUseL: 10, SupplyChainWeight: 0.2},
		{FoodName: "Nuts", ID: "b", WaterUseL: 10, SupplyChainWeight: 0.2},
		{FoodName: "Nuts", ID: "c", WaterUseL: 5, SupplyChainWeight: 0.2},
		{FoodName: "Peas", ID: "d", WaterUseL: 5, SupplyChainWeight: 0.2},
		{FoodName: "Rice", ID: "e", WaterUseL: 15, SupplyChainWeight: 0.9},
	}
	opts := DefaultFilterOptions()
	opts.TopFoods = 2
	opts.TopPerFood = 1

	out, totals := Filter(recs, opts)
	require.Len(t, totals, 2)
	// All three foods total 15; names break the tie.
	assert.Equal(t, "Nuts", totals[0].Name)
	assert.Equal(t, "Peas", totals[1].Name)

	ids := make([]string, len(out))
	for i, r := range out {
		ids[i] = r.ID
	}
	// Equal weights keep the first row seen; output keeps input order.
	assert.Equal(t, []string{"a", "b"}, ids)
}

func TestFilterRoundsWeightAfterRanking(t *testing.T) {
	recs := []Record{
		{FoodName: "Tofu", ID: "1", WaterUseL: 3, SupplyChainWeight: 0.12345},
		{FoodName: "Tofu", ID: "2", WaterUseL: 0.01, SupplyChainWeight: 0.9},
	}
	out, totals := Filter(recs, DefaultFilterOptions())
	require.Len(t, out, 1)
	assert.Equal(t, "1", out[0].ID)
	assert.InDelta(t, 0.123, out[0].SupplyChainWeight.Float(), 1e-12)
	require.Len(t, totals, 1)
	assert.Equal(t, 2, totals[0].Rows)
	assert.Equal(t, 1, totals[0].Kept)
}

func TestPercentRoundTripThroughWrite(t *testing.T) {
	in := rawHeader + "1,Soymilk,7,carton,SE,12.5,30,45%\n"
	df, err := LoadCSV(strings.NewReader(in), "latin1")
	require.NoError(t, err)
	out, _, err := Process(df, DefaultFilterOptions())
	require.NoError(t, err)
	require.Len(t, out, 1)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, out))
	assert.Equal(t,
		"food_name,id,Product_details,country_origin,water_use_l,scarcity_weighted_l,supply_chain_weight\n"+
			"Soymilk,7,carton,SE,12.5,30,0.45\n",
		buf.String())

	back, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, out, back)
}

func TestLoadXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lca.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", "lca"))
	rows := [][]interface{}{
		{"Product id", "Data S2 Name", "id", "Product_details", "Country", "Water Use (L)", "Scarcity Weighted Water Use (L eq)", "Weight"},
		{"1", "Olive Oil", "11", "bottle", "ES", "250", "4000", "12%"},
		{"2", "Tomatoes", "12", "vine"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("lca", cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	df, err := LoadXLSX(path, "lca")
	require.NoError(t, err)
	norm, err := Normalize(df)
	require.NoError(t, err)
	recs := Records(norm)
	require.Len(t, recs, 2)
	assert.Equal(t, "Olive Oil", recs[0].FoodName)
	assert.InDelta(t, 0.12, recs[0].SupplyChainWeight.Float(), 1e-12)
	assert.Equal(t, "0", recs[1].CountryOrigin)
	assert.Zero(t, recs[1].WaterUseL.Float())

	_, err = LoadXLSX(path, "missing")
	assert.Error(t, err)
}
