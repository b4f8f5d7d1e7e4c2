package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/dietwater/internal/pipeline"
	"github.com/KaramelBytes/dietwater/internal/report"
	"github.com/KaramelBytes/dietwater/internal/utils"
)

var reportOutput string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarise the written outputs as Markdown",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := resolvePaths()
		if err != nil {
			return err
		}
		labeled, err := pipeline.ReadLabeled(p.SurveyOut)
		if err != nil {
			return err
		}
		foods, err := pipeline.ReadFoods(p.FoodOut)
		if err != nil {
			return err
		}
		name := ""
		if m, err := pipeline.LoadManifest(filepath.Join(p.OutputDir(), pipeline.ManifestName)); err == nil {
			name = m.RunID
		}
		r, err := report.FromTables(cmd.Context(), name, labeled, foods)
		if err != nil {
			return err
		}
		md := r.Markdown()
		if reportOutput == "" {
			fmt.Fprint(cmd.OutOrStdout(), md)
			return nil
		}
		out := utils.ResolvePath(p.Base, reportOutput)
		if err := utils.SafeWriteFile(out, []byte(md)); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s\n", out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "write the report to a file instead of stdout")
}
