package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/dietwater/internal/pipeline"
)

var (
	chartInput     string
	chartOutput    string
	chartPlotlyURL string
	chartSizeMax   float64
)

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Render the labeled survey as an animated bubble chart (HTML)",
	Long: `Reads the labeler's output and writes a standalone HTML page: mean water use against
mean water scarcity, bubble size by stability score, one animation frame per age group,
outliers highlighted in red.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		f := cmd.Flags()
		if f.Changed("input") {
			cfg.Survey.Output = chartInput
		}
		if f.Changed("output") {
			cfg.Chart.Output = chartOutput
		}
		if f.Changed("plotly-url") {
			cfg.Chart.PlotlyURL = chartPlotlyURL
		}
		if f.Changed("size-max") && chartSizeMax > 0 {
			cfg.Chart.SizeMax = chartSizeMax
		}
		p, err := resolvePaths()
		if err != nil {
			return err
		}
		if err := pipeline.ChartStage(cmd.Context(), cfg, p, nil); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s\n", p.ChartOut)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(chartCmd)
	chartCmd.Flags().StringVarP(&chartInput, "input", "i", "", "labeled survey CSV (default: survey.output)")
	chartCmd.Flags().StringVarP(&chartOutput, "output", "o", "", "HTML file to write (overrides chart.output)")
	chartCmd.Flags().StringVar(&chartPlotlyURL, "plotly-url", "", "plotly.js bundle URL (overrides chart.plotly_url)")
	chartCmd.Flags().Float64Var(&chartSizeMax, "size-max", 0, "largest bubble size in pixels (overrides chart.size_max)")
}
