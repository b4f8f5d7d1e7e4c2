package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config is the full pipeline configuration.
type Config struct {
	// BaseDir anchors every relative path below. Empty means the directory of
	// the running executable.
	BaseDir string       `mapstructure:"base_dir" yaml:"base_dir"`
	Log     LogConfig    `mapstructure:"log" yaml:"log"`
	Survey  SurveyConfig `mapstructure:"survey" yaml:"survey"`
	Food    FoodConfig   `mapstructure:"food" yaml:"food"`
	Chart   ChartConfig  `mapstructure:"chart" yaml:"chart"`
	Export  ExportConfig `mapstructure:"export" yaml:"export"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// SurveyConfig configures the outlier labeler.
type SurveyConfig struct {
	Input   string `mapstructure:"input" yaml:"input"`
	Output  string `mapstructure:"output" yaml:"output"`
	Workers int    `mapstructure:"workers" yaml:"workers"`
}

// FoodConfig configures the food filterer.
type FoodConfig struct {
	Input          string  `mapstructure:"input" yaml:"input"`
	Output         string  `mapstructure:"output" yaml:"output"`
	Encoding       string  `mapstructure:"encoding" yaml:"encoding"`
	Sheet          string  `mapstructure:"sheet" yaml:"sheet"`
	TopFoods       int     `mapstructure:"top_foods" yaml:"top_foods"`
	TopPerFood     int     `mapstructure:"top_per_food" yaml:"top_per_food"`
	MinWaterUse    float64 `mapstructure:"min_water_use" yaml:"min_water_use"`
	WeightDecimals int     `mapstructure:"weight_decimals" yaml:"weight_decimals"`
}

// ChartConfig configures the bubble chart renderer.
type ChartConfig struct {
	Output    string  `mapstructure:"output" yaml:"output"`
	PlotlyURL string  `mapstructure:"plotly_url" yaml:"plotly_url"`
	SizeMax   float64 `mapstructure:"size_max" yaml:"size_max"`
}

// ExportConfig lists optional sinks for the two output tables.
type ExportConfig struct {
	SQLite      string `mapstructure:"sqlite" yaml:"sqlite"`
	XLSX        string `mapstructure:"xlsx" yaml:"xlsx"`
	PostgresURL string `mapstructure:"postgres_url" yaml:"postgres_url"`
}

// DefaultPlotlyURL is the plotly.js bundle referenced by generated charts.
const DefaultPlotlyURL = "https://cdn.plot.ly/plotly-2.35.2.min.js"

func setDefaults(v *viper.Viper) {
	v.SetDefault("base_dir", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("survey.input", "Results_21Mar2022.csv")
	v.SetDefault("survey.output", "Data_Output/Results_with_outliers_flag.csv")
	v.SetDefault("survey.workers", 4)
	v.SetDefault("food.input", "jp_lca_dat.csv")
	v.SetDefault("food.output", "Data_Output/vegan_veggie_treemap_ready.csv")
	v.SetDefault("food.encoding", "latin1")
	v.SetDefault("food.sheet", "")
	v.SetDefault("food.top_foods", 20)
	v.SetDefault("food.top_per_food", 5)
	v.SetDefault("food.min_water_use", 0.01)
	v.SetDefault("food.weight_decimals", 3)
	v.SetDefault("chart.output", "Data_Output/interactive_bubble_chart_final.html")
	v.SetDefault("chart.plotly_url", DefaultPlotlyURL)
	v.SetDefault("chart.size_max", 60.0)
	v.SetDefault("export.sqlite", "")
	v.SetDefault("export.xlsx", "")
	v.SetDefault("export.postgres_url", "")
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. Without cfgFile the file is looked
// up as ./config.yaml, then ~/.dietwater/config.yaml; a missing file is fine.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("DIETWATER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".dietwater"))
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}
	return &c, nil
}

// DefaultPath is where Save writes when no explicit file is given.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", eris.Wrap(err, "config: resolve home dir")
	}
	return filepath.Join(home, ".dietwater", "config.yaml"), nil
}

// Save writes the given configuration to cfgFile, or to DefaultPath when
// cfgFile is empty, creating the directory if necessary.
func Save(c *Config, cfgFile string) error {
	path := cfgFile
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrap(err, "config: mkdir")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return eris.Wrap(err, "config: marshal yaml")
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return eris.Wrap(err, "config: write")
	}
	return nil
}

// InitLogger builds a zap logger from cfg and installs it as the global logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)
	return nil
}
