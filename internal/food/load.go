package food

import (
	"io"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/KaramelBytes/dietwater/internal/stats"
)

// DecodeReader wraps r so it yields UTF-8 from the named charset
// ("latin1", "windows-1252", ...). Empty or UTF-8 names only drop a leading
// byte order mark.
func DecodeReader(r io.Reader, charset string) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(charset)) {
	case "", "utf-8", "utf8":
		return transform.NewReader(r, unicode.BOMOverride(transform.Nop)), nil
	}
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return nil, eris.Wrapf(err, "food: unsupported charset %q", charset)
	}
	return enc.NewDecoder().Reader(r), nil
}

// LoadCSV reads the raw food table with every column typed as string.
func LoadCSV(r io.Reader, charset string) (dataframe.DataFrame, error) {
	dr, err := DecodeReader(r, charset)
	if err != nil {
		return dataframe.New(), err
	}
	df := dataframe.ReadCSV(dr,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return dataframe.New(), eris.Wrap(df.Err, "food: parse csv")
	}
	return df, nil
}

// LoadXLSX reads the raw food table from a workbook. The first row of the
// sheet is the header; an empty sheet name selects the first sheet.
func LoadXLSX(path, sheet string) (dataframe.DataFrame, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return dataframe.New(), eris.Wrap(err, "food: open xlsx")
	}
	var sh *xlsx.Sheet
	if sheet != "" {
		var ok bool
		if sh, ok = f.Sheet[sheet]; !ok {
			return dataframe.New(), eris.Errorf("food: sheet %q not found", sheet)
		}
	} else {
		if len(f.Sheets) == 0 {
			return dataframe.New(), eris.New("food: workbook has no sheets")
		}
		sh = f.Sheets[0]
	}
	if len(sh.Rows) == 0 {
		return dataframe.New(), eris.Errorf("food: sheet %q has no header row", sh.Name)
	}

	header := rowToStrings(sh.Rows[0])
	records := [][]string{header}
	for _, row := range sh.Rows[1:] {
		cells := rowToStrings(row)
		// Trailing blank cells are not stored, pad to the header width.
		for len(cells) < len(header) {
			cells = append(cells, "")
		}
		records = append(records, cells[:len(header)])
	}

	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return dataframe.New(), eris.Wrap(df.Err, "food: load xlsx rows")
	}
	return df, nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}

// Normalize renames the raw headers and selects the output columns.
// A missing output column is an error.
func Normalize(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	present := make(map[string]bool, df.Ncol())
	for _, n := range df.Names() {
		present[n] = true
	}
	for from, to := range rawRenames {
		if present[from] && !present[to] {
			df = df.Rename(to, from)
		}
	}
	for _, c := range Columns {
		if !hasColumn(df, c) {
			return dataframe.New(), eris.Errorf("food: missing column %q", c)
		}
	}
	df = df.Select(Columns)
	if df.Err != nil {
		return dataframe.New(), eris.Wrap(df.Err, "food: select columns")
	}
	return df, nil
}

func hasColumn(df dataframe.DataFrame, name string) bool {
	for _, n := range df.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// MatchKeywords keeps the rows whose food name matches a keyword.
func MatchKeywords(df dataframe.DataFrame, kw Keywords) dataframe.DataFrame {
	return df.Filter(dataframe.F{
		Colname:    ColFoodName,
		Comparator: series.CompFunc,
		Comparando: func(el series.Element) bool {
			if el.IsNA() {
				return false
			}
			return kw.Match(el.String())
		},
	})
}

// NormalizeWeight turns a percentage cell such as "45%" into a fraction.
// Unparseable input becomes 0; the result is clamped to [0,1].
func NormalizeWeight(s string) float64 {
	v, ok := stats.ParseFloat(s)
	if !ok {
		return 0
	}
	v /= 100
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

// Records converts a normalized frame into food records. Missing text cells
// become "0" and missing numbers 0.
func Records(df dataframe.DataFrame) []Record {
	n := df.Nrow()
	col := func(name string) []string {
		s := df.Col(name)
		out := make([]string, n)
		for i := 0; i < n; i++ {
			e := s.Elem(i)
			if e.IsNA() {
				continue
			}
			out[i] = strings.TrimSpace(e.String())
		}
		return out
	}
	text := func(v string) string {
		if v == "" {
			return "0"
		}
		return v
	}

	names := col(ColFoodName)
	ids := col(ColID)
	details := col(ColProductDetails)
	countries := col(ColCountryOrigin)
	water := col(ColWaterUseL)
	scarcity := col(ColScarcityWeightedL)
	weight := col(ColSupplyChainWeight)

	recs := make([]Record, n)
	for i := 0; i < n; i++ {
		recs[i] = Record{
			FoodName:          text(names[i]),
			ID:                text(ids[i]),
			ProductDetails:    text(details[i]),
			CountryOrigin:     text(countries[i]),
			WaterUseL:         stats.Number(stats.OrZero(water[i])),
			ScarcityWeightedL: stats.Number(stats.OrZero(scarcity[i])),
			SupplyChainWeight: stats.Number(NormalizeWeight(weight[i])),
		}
	}
	return recs
}
