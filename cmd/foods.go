package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/dietwater/internal/pipeline"
)

var (
	foodsInput          string
	foodsOutput         string
	foodsEncoding       string
	foodsSheet          string
	foodsTopFoods       int
	foodsTopPerFood     int
	foodsMinWaterUse    float64
	foodsWeightDecimals int
)

var foodsCmd = &cobra.Command{
	Use:   "foods",
	Short: "Filter the food LCA table to the top vegan/veggie foods by water use",
	Long: `Normalizes the supply-chain weight, keeps foods matching the vegan/veggie allow-list,
selects the foods with the largest total water use and the heaviest rows within each,
and writes a treemap-ready CSV. The input may be CSV (any charset) or XLSX.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		f := cmd.Flags()
		if f.Changed("input") {
			cfg.Food.Input = foodsInput
		}
		if f.Changed("output") {
			cfg.Food.Output = foodsOutput
		}
		if f.Changed("encoding") {
			cfg.Food.Encoding = foodsEncoding
		}
		if f.Changed("sheet") {
			cfg.Food.Sheet = foodsSheet
		}
		if f.Changed("top-foods") {
			if foodsTopFoods <= 0 {
				return fmt.Errorf("--top-foods must be positive")
			}
			cfg.Food.TopFoods = foodsTopFoods
		}
		if f.Changed("top-per-food") {
			if foodsTopPerFood <= 0 {
				return fmt.Errorf("--top-per-food must be positive")
			}
			cfg.Food.TopPerFood = foodsTopPerFood
		}
		if f.Changed("min-water-use") {
			cfg.Food.MinWaterUse = foodsMinWaterUse
		}
		if f.Changed("weight-decimals") {
			cfg.Food.WeightDecimals = foodsWeightDecimals
		}
		p, err := resolvePaths()
		if err != nil {
			return err
		}
		res, err := pipeline.FoodStage(cmd.Context(), cfg, p)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Kept %d rows across %d foods\n", len(res.Foods), len(res.Totals))
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s\n", p.FoodOut)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(foodsCmd)
	foodsCmd.Flags().StringVarP(&foodsInput, "input", "i", "", "food LCA table, .csv or .xlsx (overrides food.input)")
	foodsCmd.Flags().StringVarP(&foodsOutput, "output", "o", "", "treemap CSV to write (overrides food.output)")
	foodsCmd.Flags().StringVar(&foodsEncoding, "encoding", "", "CSV charset, e.g. latin1 or utf-8 (overrides food.encoding)")
	foodsCmd.Flags().StringVar(&foodsSheet, "sheet", "", "XLSX sheet name (default: first sheet)")
	foodsCmd.Flags().IntVar(&foodsTopFoods, "top-foods", 0, "number of foods to keep by total water use")
	foodsCmd.Flags().IntVar(&foodsTopPerFood, "top-per-food", 0, "rows to keep per food by weight")
	foodsCmd.Flags().Float64Var(&foodsMinWaterUse, "min-water-use", 0, "drop rows with water use at or below this value")
	foodsCmd.Flags().IntVar(&foodsWeightDecimals, "weight-decimals", 0, "decimals kept in supply_chain_weight")
}
