package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Input    InputConfig    `yaml:"input" mapstructure:"input"`
	Pipeline PipelineConfig `yaml:"pipeline" mapstructure:"pipeline"`
	Output   OutputConfig   `yaml:"output" mapstructure:"output"`
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// InputConfig locates the source workbook and describes its layout.
type InputConfig struct {
	Path         string        `yaml:"path" mapstructure:"path"`
	HeaderRow    int           `yaml:"header_row" mapstructure:"header_row"`
	ExcludeSheet string        `yaml:"exclude_sheet" mapstructure:"exclude_sheet"`
	RawValues    bool          `yaml:"raw_values" mapstructure:"raw_values"`
	Columns      ColumnsConfig `yaml:"columns" mapstructure:"columns"`
}

// ColumnsConfig names the header cells of the interpreted columns.
type ColumnsConfig struct {
	Identifier  string `yaml:"identifier" mapstructure:"identifier"`
	Assets      string `yaml:"assets" mapstructure:"assets"`
	Memberships string `yaml:"memberships" mapstructure:"memberships"`
}

// PipelineConfig configures classification behavior.
type PipelineConfig struct {
	// FinalYear is the dataset horizon; 0 uses the latest year in the workbook.
	FinalYear int `yaml:"final_year" mapstructure:"final_year"`
}

// OutputConfig configures where the enriched table is written.
type OutputConfig struct {
	Path         string `yaml:"path" mapstructure:"path"`
	Format       string `yaml:"format" mapstructure:"format"`
	Sheet        string `yaml:"sheet" mapstructure:"sheet"`
	SummarySheet string `yaml:"summary_sheet" mapstructure:"summary_sheet"`
	SummaryPath  string `yaml:"summary_path" mapstructure:"summary_path"`
}

// StoreConfig configures the database sinks.
type StoreConfig struct {
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	Schema      string `yaml:"schema" mapstructure:"schema"`
	Table       string `yaml:"table" mapstructure:"table"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// ResolvedFormat returns the configured output format, falling back to the
// output path's extension.
func (o OutputConfig) ResolvedFormat() string {
	if o.Format != "" {
		return strings.ToLower(o.Format)
	}
	switch strings.ToLower(filepath.Ext(o.Path)) {
	case ".csv":
		return "csv"
	case ".db", ".sqlite", ".sqlite3":
		return "sqlite"
	default:
		return "xlsx"
	}
}

// Formats lists the supported output formats.
var Formats = []string{"xlsx", "csv", "sqlite", "postgres"}

// Validate checks the settings a command needs. Mode is the command name.
func (c *Config) Validate(mode string) error {
	var problems []string

	switch mode {
	case "consolidate":
		if c.Input.Path == "" {
			problems = append(problems, "input.path is required")
		}
		if c.Input.HeaderRow < 0 {
			problems = append(problems, "input.header_row must be >= 0")
		}
		if c.Pipeline.FinalYear < 0 {
			problems = append(problems, "pipeline.final_year must be >= 0")
		}
		format := c.Output.ResolvedFormat()
		if !slices.Contains(Formats, format) {
			problems = append(problems, fmt.Sprintf("output.format %q is not one of %s", format, strings.Join(Formats, ", ")))
		}
		if format == "postgres" && c.Store.DatabaseURL == "" {
			problems = append(problems, "store.database_url is required for postgres output")
		}
		if format != "postgres" && c.Output.Path == "" {
			problems = append(problems, "output.path is required")
		}
	case "sheets":
		if c.Input.Path == "" {
			problems = append(problems, "input.path is required")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(problems) > 0 {
		return eris.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Load reads configuration from .env, file, and environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, eris.Wrap(err, "config: load .env")
	}

	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("PENSIONS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("input.path", "")
	v.SetDefault("input.header_row", 0)
	v.SetDefault("input.exclude_sheet", "")
	v.SetDefault("input.raw_values", true)
	v.SetDefault("input.columns.identifier", "PSR")
	v.SetDefault("input.columns.assets", "Assets")
	v.SetDefault("input.columns.memberships", "Memberships")
	v.SetDefault("pipeline.final_year", 0)
	v.SetDefault("output.path", "All_pensions_data.xlsx")
	v.SetDefault("output.format", "")
	v.SetDefault("output.sheet", "Pensions")
	v.SetDefault("output.summary_sheet", "Schemes")
	v.SetDefault("output.summary_path", "")
	v.SetDefault("store.database_url", "")
	v.SetDefault("store.schema", "pensions")
	v.SetDefault("store.table", "scheme_years")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
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
