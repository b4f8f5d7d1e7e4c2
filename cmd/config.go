package cmd

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/dietwater/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set dietwater configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if cfg == nil {
			fmt.Fprintln(out, "No config loaded")
			return nil
		}
		fmt.Fprintf(out, "base_dir: %s\n", cfg.BaseDir)
		fmt.Fprintf(out, "log.level: %s\n", cfg.Log.Level)
		fmt.Fprintf(out, "log.format: %s\n", cfg.Log.Format)
		fmt.Fprintf(out, "survey.input: %s\n", cfg.Survey.Input)
		fmt.Fprintf(out, "survey.output: %s\n", cfg.Survey.Output)
		fmt.Fprintf(out, "survey.workers: %d\n", cfg.Survey.Workers)
		fmt.Fprintf(out, "food.input: %s\n", cfg.Food.Input)
		fmt.Fprintf(out, "food.output: %s\n", cfg.Food.Output)
		fmt.Fprintf(out, "food.encoding: %s\n", cfg.Food.Encoding)
		if cfg.Food.Sheet != "" {
			fmt.Fprintf(out, "food.sheet: %s\n", cfg.Food.Sheet)
		}
		fmt.Fprintf(out, "food.top_foods: %d\n", cfg.Food.TopFoods)
		fmt.Fprintf(out, "food.top_per_food: %d\n", cfg.Food.TopPerFood)
		fmt.Fprintf(out, "food.min_water_use: %g\n", cfg.Food.MinWaterUse)
		fmt.Fprintf(out, "food.weight_decimals: %d\n", cfg.Food.WeightDecimals)
		fmt.Fprintf(out, "chart.output: %s\n", cfg.Chart.Output)
		fmt.Fprintf(out, "chart.plotly_url: %s\n", cfg.Chart.PlotlyURL)
		fmt.Fprintf(out, "chart.size_max: %g\n", cfg.Chart.SizeMax)
		if cfg.Export.SQLite != "" {
			fmt.Fprintf(out, "export.sqlite: %s\n", cfg.Export.SQLite)
		}
		if cfg.Export.XLSX != "" {
			fmt.Fprintf(out, "export.xlsx: %s\n", cfg.Export.XLSX)
		}
		if cfg.Export.PostgresURL != "" {
			fmt.Fprintf(out, "export.postgres_url: %s\n", redact(cfg.Export.PostgresURL))
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		if err := setKey(cfg, key, val); err != nil {
			return err
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

func setKey(c *cfgpkg.Config, key, val string) error {
	switch key {
	case "base_dir":
		c.BaseDir = val
	case "log.level":
		switch strings.ToLower(val) {
		case "debug", "info", "warn", "error":
			c.Log.Level = strings.ToLower(val)
		default:
			return fmt.Errorf("invalid log.level: %s (use debug, info, warn or error)", val)
		}
	case "log.format":
		switch strings.ToLower(val) {
		case "console", "json":
			c.Log.Format = strings.ToLower(val)
		default:
			return fmt.Errorf("invalid log.format: %s (use console or json)", val)
		}
	case "survey.input":
		c.Survey.Input = val
	case "survey.output":
		c.Survey.Output = val
	case "survey.workers":
		i, err := strconv.Atoi(val)
		if err != nil || i <= 0 {
			return fmt.Errorf("invalid int for survey.workers: %v", val)
		}
		c.Survey.Workers = i
	case "food.input":
		c.Food.Input = val
	case "food.output":
		c.Food.Output = val
	case "food.encoding":
		c.Food.Encoding = val
	case "food.sheet":
		c.Food.Sheet = val
	case "food.top_foods":
		i, err := strconv.Atoi(val)
		if err != nil || i <= 0 {
			return fmt.Errorf("invalid int for food.top_foods: %v", val)
		}
		c.Food.TopFoods = i
	case "food.top_per_food":
		i, err := strconv.Atoi(val)
		if err != nil || i <= 0 {
			return fmt.Errorf("invalid int for food.top_per_food: %v", val)
		}
		c.Food.TopPerFood = i
	case "food.min_water_use":
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("invalid float for food.min_water_use: %w", err)
		}
		c.Food.MinWaterUse = f
	case "food.weight_decimals":
		i, err := strconv.Atoi(val)
		if err != nil || i < 0 {
			return fmt.Errorf("invalid int for food.weight_decimals: %v", val)
		}
		c.Food.WeightDecimals = i
	case "chart.output":
		c.Chart.Output = val
	case "chart.plotly_url":
		c.Chart.PlotlyURL = val
	case "chart.size_max":
		f, err := strconv.ParseFloat(val, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("invalid float for chart.size_max: %v", val)
		}
		c.Chart.SizeMax = f
	case "export.sqlite":
		c.Export.SQLite = val
	case "export.xlsx":
		c.Export.XLSX = val
	case "export.postgres_url":
		c.Export.PostgresURL = val
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}

// redact hides the password of a connection URL.
func redact(s string) string {
	u, err := url.Parse(s)
	if err != nil || u.User == nil {
		return s
	}
	return u.Redacted()
}
