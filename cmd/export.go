package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/dietwater/internal/pipeline"
)

var (
	exportSQLite      string
	exportXLSX        string
	exportPostgresURL string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Load the labeled survey and the food table into SQLite, XLSX or PostgreSQL",
	Long: `Reads the two output tables written by label and foods and loads them into every
configured sink. Existing rows in the target tables are replaced.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		f := cmd.Flags()
		if f.Changed("sqlite") {
			cfg.Export.SQLite = exportSQLite
		}
		if f.Changed("xlsx") {
			cfg.Export.XLSX = exportXLSX
		}
		if f.Changed("postgres-url") {
			cfg.Export.PostgresURL = exportPostgresURL
		}
		if cfg.Export.SQLite == "" && cfg.Export.XLSX == "" && cfg.Export.PostgresURL == "" {
			return fmt.Errorf("no export sink configured (use --sqlite, --xlsx or --postgres-url)")
		}
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
		outs, err := pipeline.Export(cmd.Context(), cfg, p, labeled, foods)
		if err != nil {
			return err
		}
		for _, o := range outs {
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported %d rows to %s\n", o.Rows, redact(o.Path))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&exportSQLite, "sqlite", "", "SQLite database file (overrides export.sqlite)")
	exportCmd.Flags().StringVar(&exportXLSX, "xlsx", "", "XLSX workbook (overrides export.xlsx)")
	exportCmd.Flags().StringVar(&exportPostgresURL, "postgres-url", "", "PostgreSQL connection string (overrides export.postgres_url)")
}
