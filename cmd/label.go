package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/dietwater/internal/pipeline"
)

var (
	labelInput   string
	labelOutput  string
	labelWorkers int
)

var labelCmd = &cobra.Command{
	Use:   "label",
	Short: "Flag per-grouping water-use outliers in the survey results",
	Long: `Keeps vegan and veggie rows, computes an IQR fence of mean_watuse per grouping and
writes the table with diet_sex_group and outliers (0, or 1-4 by diet and sex) added.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		f := cmd.Flags()
		if f.Changed("input") {
			cfg.Survey.Input = labelInput
		}
		if f.Changed("output") {
			cfg.Survey.Output = labelOutput
		}
		if f.Changed("workers") && labelWorkers > 0 {
			cfg.Survey.Workers = labelWorkers
		}
		p, err := resolvePaths()
		if err != nil {
			return err
		}
		res, err := pipeline.LabelStage(cmd.Context(), cfg, p)
		if err != nil {
			return err
		}
		flagged := 0
		for _, l := range res.Labeled {
			if l.IsOutlier() {
				flagged++
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Labeled %d of %d rows across %d groupings (%d outliers)\n",
			len(res.Labeled), res.RawRows, len(res.Partitions), flagged)
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s\n", p.SurveyOut)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(labelCmd)
	labelCmd.Flags().StringVarP(&labelInput, "input", "i", "", "survey results CSV (overrides survey.input)")
	labelCmd.Flags().StringVarP(&labelOutput, "output", "o", "", "annotated CSV to write (overrides survey.output)")
	labelCmd.Flags().IntVar(&labelWorkers, "workers", 0, "partitions processed in parallel (overrides survey.workers)")
}
