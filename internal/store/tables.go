// Package store loads the pipeline's output tables into SQL databases.
package store

import (
	"github.com/KaramelBytes/dietwater/internal/food"
	"github.com/KaramelBytes/dietwater/internal/survey"
)

// Table names.
const (
	SurveyTable = "survey_outliers"
	FoodTable   = "food_treemap"
)

// SurveyColumns are the columns of SurveyTable in insert order.
var SurveyColumns = []string{
	"mc_run_id", "grouping", "mean_watscar", "mean_watuse", "sd_watscar", "sd_watuse",
	"n_participants", "sex", "diet_group", "age_group", "diet_sex_group", "outliers",
}

// FoodColumns are the columns of FoodTable in insert order.
var FoodColumns = []string{
	"food_name", "id", "product_details", "country_origin",
	"water_use_l", "scarcity_weighted_l", "supply_chain_weight",
}

func surveyRow(r survey.Labeled) []any {
	return []any{
		r.RunID, r.Grouping,
		r.MeanWatScar.Float(), r.MeanWatUse.Float(),
		r.SDWatScar.Float(), r.SDWatUse.Float(),
		r.NParticipants.Float(),
		r.Sex, r.DietGroup, r.AgeGroup,
		r.DietSexGroup, int64(r.Outliers),
	}
}

func foodRow(r food.Record) []any {
	return []any{
		r.FoodName, r.ID, r.ProductDetails, r.CountryOrigin,
		r.WaterUseL.Float(), r.ScarcityWeightedL.Float(), r.SupplyChainWeight.Float(),
	}
}

// SurveyRows converts labeled records to positional rows.
func SurveyRows(recs []survey.Labeled) [][]any {
	rows := make([][]any, len(recs))
	for i, r := range recs {
		rows[i] = surveyRow(r)
	}
	return rows
}

// FoodRows converts food records to positional rows.
func FoodRows(recs []food.Record) [][]any {
	rows := make([][]any, len(recs))
	for i, r := range recs {
		rows[i] = foodRow(r)
	}
	return rows
}
