package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/dietwater/internal/pipeline"
)

var (
	runReport bool
	runExport bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run label, foods and chart in sequence",
	Long: `Runs the whole pipeline. Both inputs are checked before anything is written; each
output is replaced whole. A manifest.yaml describing the run is written next to the
labeled survey.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := pipeline.Run(cmd.Context(), cfg, pipeline.Options{Report: runReport, Export: runExport})
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "✓ Run %s\n", res.Manifest.RunID)
		for _, o := range res.Manifest.Outputs {
			if o.Rows > 0 {
				fmt.Fprintf(out, "✓ %-15s %s (%d rows)\n", o.Stage, o.Path, o.Rows)
			} else {
				fmt.Fprintf(out, "✓ %-15s %s\n", o.Stage, o.Path)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolVar(&runReport, "report", false, "also write report.md next to the manifest")
	runCmd.Flags().BoolVar(&runExport, "export", false, "also load the outputs into the configured export sinks")
}
