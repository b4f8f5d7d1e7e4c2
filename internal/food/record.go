// Package food filters the life-cycle-assessment food table down to the
// vegan and vegetarian foods with the largest water footprint.
package food

import (
	"encoding/csv"
	"errors"
	"io"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"

	"github.com/KaramelBytes/dietwater/internal/stats"
)

// Output column names.
const (
	ColFoodName          = "food_name"
	ColID                = "id"
	ColProductDetails    = "Product_details"
	ColCountryOrigin     = "country_origin"
	ColWaterUseL         = "water_use_l"
	ColScarcityWeightedL = "scarcity_weighted_l"
	ColSupplyChainWeight = "supply_chain_weight"
)

// Columns lists the output columns in order.
var Columns = []string{
	ColFoodName,
	ColID,
	ColProductDetails,
	ColCountryOrigin,
	ColWaterUseL,
	ColScarcityWeightedL,
	ColSupplyChainWeight,
}

// rawRenames maps source headers to output column names.
var rawRenames = map[string]string{
	"Product id":                         "Product_id",
	"Data S2 Name":                       ColFoodName,
	"Country":                            ColCountryOrigin,
	"Water Use (L)":                      ColWaterUseL,
	"Scarcity Weighted Water Use (L eq)": ColScarcityWeightedL,
	"Weight":                             ColSupplyChainWeight,
}

// Record is one product/origin/detail row of the food table.
type Record struct {
	FoodName          string       `csv:"food_name"`
	ID                string       `csv:"id"`
	ProductDetails    string       `csv:"Product_details"`
	CountryOrigin     string       `csv:"country_origin"`
	WaterUseL         stats.Number `csv:"water_use_l"`
	ScarcityWeightedL stats.Number `csv:"scarcity_weighted_l"`
	// SupplyChainWeight is a fraction in [0,1].
	SupplyChainWeight stats.Number `csv:"supply_chain_weight"`
}

// Write encodes recs as CSV with a header row.
func Write(w io.Writer, recs []Record) error {
	cw := csv.NewWriter(w)
	enc := csvutil.NewEncoder(cw)
	if err := enc.EncodeHeader(Record{}); err != nil {
		return eris.Wrap(err, "food: write header")
	}
	for i := range recs {
		if err := enc.Encode(recs[i]); err != nil {
			return eris.Wrapf(err, "food: encode row %d", i)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return eris.Wrap(err, "food: flush")
	}
	return nil
}

// Read decodes a table previously produced by Write.
func Read(r io.Reader) ([]Record, error) {
	dec, err := csvutil.NewDecoder(csv.NewReader(r))
	if err != nil {
		return nil, eris.Wrap(err, "food: read header")
	}
	dec.DisallowMissingColumns = true
	var out []Record
	for {
		var rec Record
		if err := dec.Decode(&rec); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, eris.Wrapf(err, "food: decode line %d", len(out)+2)
		}
		out = append(out, rec)
	}
	return out, nil
}
