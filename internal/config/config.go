// Package config loads tablemod settings from a TOML file and TABLEMOD_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
	"github.com/ukaji3/tablemod-go/pkg/tablemod"
	"github.com/ukaji3/tablemod-go/pkg/tablemod/models"
	"github.com/ukaji3/tablemod-go/pkg/tablemod/sigmap"
	"github.com/ukaji3/tablemod-go/pkg/tablemod/xlsx"
)

// EnvPrefix prefixes every environment variable override.
const EnvPrefix = "TABLEMOD"

// Config is the file form of a modify invocation.
type Config struct {
	Subtypes        []string  `mapstructure:"subtypes"`
	Process         string    `mapstructure:"process"`
	Select          []string  `mapstructure:"select"`
	Dimension       string    `mapstructure:"dimension"`
	Level           int       `mapstructure:"level"`
	Hide            bool      `mapstructure:"hide"`
	Regexp          bool      `mapstructure:"regexp"`
	PrintLabels     bool      `mapstructure:"print_labels"`
	Widths          []float64 `mapstructure:"widths"`
	RowLabels       []string  `mapstructure:"row_labels"`
	RowLabelWidths  []float64 `mapstructure:"row_label_widths"`
	TextStyle       string    `mapstructure:"text_style"`
	TextColor       []int     `mapstructure:"text_color"`
	BgColor         []int     `mapstructure:"bg_color"`
	ApplyTo         string    `mapstructure:"apply_to"`
	CustomFunctions []string  `mapstructure:"custom_functions"`
	Sig             []string  `mapstructure:"sig"`
	SigLevels       string    `mapstructure:"sig_levels"`
	PluginDirs      []string  `mapstructure:"plugin_dirs"`

	Workbook WorkbookConfig `mapstructure:"workbook"`

	LogLevel string `mapstructure:"log_level"`
	Report   string `mapstructure:"report"`
}

// WorkbookConfig configures how tables are found in workbooks.
type WorkbookConfig struct {
	HeaderRows   int    `mapstructure:"header_rows"`
	LabelColumns int    `mapstructure:"label_columns"`
	SigMode      string `mapstructure:"sig_mode"`
}

// ParseError reports a malformed configuration file.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse config %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Subtypes:  []string{"*"},
		Process:   string(tablemod.ProcessPreceding),
		Dimension: string(models.Columns),
		Level:     -1,
		ApplyTo:   tablemod.ApplyBoth,
		SigLevels: string(sigmap.Both),
		Workbook: WorkbookConfig{
			HeaderRows:   1,
			LabelColumns: 1,
			SigMode:      string(models.SigAuto),
		},
		LogLevel: "info",
		Report:   "text",
	}
}

// Load reads the configuration file at path, if path is not empty, over the
// defaults and applies environment overrides such as TABLEMOD_LEVEL or
// TABLEMOD_WORKBOOK_HEADER_ROWS.
func Load(path string) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("subtypes", defaults.Subtypes)
	v.SetDefault("process", defaults.Process)
	v.SetDefault("select", defaults.Select)
	v.SetDefault("dimension", defaults.Dimension)
	v.SetDefault("level", defaults.Level)
	v.SetDefault("hide", defaults.Hide)
	v.SetDefault("regexp", defaults.Regexp)
	v.SetDefault("print_labels", defaults.PrintLabels)
	v.SetDefault("widths", defaults.Widths)
	v.SetDefault("row_labels", defaults.RowLabels)
	v.SetDefault("row_label_widths", defaults.RowLabelWidths)
	v.SetDefault("text_style", defaults.TextStyle)
	v.SetDefault("text_color", defaults.TextColor)
	v.SetDefault("bg_color", defaults.BgColor)
	v.SetDefault("apply_to", defaults.ApplyTo)
	v.SetDefault("custom_functions", defaults.CustomFunctions)
	v.SetDefault("sig", defaults.Sig)
	v.SetDefault("sig_levels", defaults.SigLevels)
	v.SetDefault("plugin_dirs", defaults.PluginDirs)
	v.SetDefault("workbook.header_rows", defaults.Workbook.HeaderRows)
	v.SetDefault("workbook.label_columns", defaults.Workbook.LabelColumns)
	v.SetDefault("workbook.sig_mode", defaults.Workbook.SigMode)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("report", defaults.Report)

	if path != "" {
		m, err := loadTOML(path)
		if err != nil {
			return nil, err
		}
		if err := v.MergeConfigMap(m); err != nil {
			return nil, fmt.Errorf("merge config %s: %w", path, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

func loadTOML(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	var m map[string]any
	if err := toml.Unmarshal(data, &m); err != nil {
		var de *toml.DecodeError
		if errors.As(err, &de) {
			row, col := de.Position()
			err = fmt.Errorf("line %d, column %d: %w", row, col, err)
		}
		return nil, &ParseError{Path: path, Err: err}
	}
	return m, nil
}

// ModifyOptions converts the configuration to engine options. The logger
// and plugin registry are left for the caller to set.
func (c *Config) ModifyOptions() (tablemod.Options, error) {
	opts := tablemod.DefaultOptions()

	process, err := tablemod.ParseProcess(c.Process)
	if err != nil {
		return opts, err
	}
	dim, err := models.ParseDimension(c.Dimension)
	if err != nil {
		return opts, &tablemod.ConfigError{Option: "dimension", Err: err}
	}
	style, err := models.ParseTextStyle(c.TextStyle)
	if err != nil {
		return opts, &tablemod.ConfigError{Option: "text_style", Err: err}
	}
	levels := sigmap.Levels(strings.ToLower(strings.TrimSpace(c.SigLevels)))
	switch levels {
	case "":
		levels = sigmap.Both
	case sigmap.Both, sigmap.Upper, sigmap.Lower:
	default:
		return opts, &tablemod.ConfigError{Option: "sig_levels", Err: tablemod.ErrInvalidOption}
	}
	var sig models.SigSpec
	if len(c.Sig) > 0 {
		if sig, err = sigmap.ParseSpec(c.Sig, levels); err != nil {
			return opts, &tablemod.ConfigError{Option: "sig", Err: err}
		}
	}

	opts.Subtypes = c.Subtypes
	opts.Process = process
	opts.Select = c.Select
	opts.Dimension = dim
	opts.Level = c.Level
	opts.Hide = c.Hide
	opts.Regexp = c.Regexp
	opts.PrintLabels = c.PrintLabels
	opts.Widths = c.Widths
	opts.RowLabels = c.RowLabels
	opts.RowLabelWidths = c.RowLabelWidths
	opts.TextStyle = style
	opts.TextColor = nilIfEmpty(c.TextColor)
	opts.BackgroundColor = nilIfEmpty(c.BgColor)
	opts.ApplyTo = c.ApplyTo
	opts.CustomFunctions = c.CustomFunctions
	opts.Sig = sig
	return opts, nil
}

// WorkbookOptions converts the workbook section to host options.
func (c *Config) WorkbookOptions() (xlsx.Options, error) {
	opts := xlsx.DefaultOptions()
	mode, err := models.ParseSigMode(c.Workbook.SigMode)
	if err != nil {
		return opts, &tablemod.ConfigError{Option: "workbook.sig_mode", Err: err}
	}
	if c.Workbook.HeaderRows < 0 || c.Workbook.LabelColumns < 0 {
		return opts, &tablemod.ConfigError{Option: "workbook", Err: errors.New("header_rows and label_columns must not be negative")}
	}
	opts.HeaderRows = c.Workbook.HeaderRows
	opts.LabelColumns = c.Workbook.LabelColumns
	opts.Sig = mode
	return opts, nil
}

func nilIfEmpty(v []int) []int {
	if len(v) == 0 {
		return nil
	}
	return v
}
