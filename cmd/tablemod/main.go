// Package main provides the CLI entry point for tablemod.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/ukaji3/tablemod-go/internal/config"
	"github.com/ukaji3/tablemod-go/pkg/tablemod"
	"github.com/ukaji3/tablemod-go/pkg/tablemod/plugin"
	"github.com/ukaji3/tablemod-go/pkg/tablemod/plugin/luaplugin"
	"github.com/ukaji3/tablemod-go/pkg/tablemod/report"
	"github.com/ukaji3/tablemod-go/pkg/tablemod/xlsx"
)

var (
	configPath   string
	outputPath   string
	reportFormat string
	pretty       bool
	logLevel     string
	pluginDirs   []string

	subtypes        []string
	process         string
	selectItems     []string
	dimension       string
	level           int
	hide            bool
	useRegexp       bool
	printLabels     bool
	widths          []float64
	rowLabels       []string
	rowLabelWidths  []float64
	textStyle       string
	textColor       []int
	bgColor         []int
	applyTo         string
	customFunctions []string
	sig             []string
	sigLevels       string

	headerRows   int
	labelColumns int
	sigMode      string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tablemod [input.xlsx]",
		Short: "Hide, resize and restyle rows or columns of workbook tables",
		Long: `tablemod selects rows or columns of the tables in an Excel workbook by
position or label and hides them, resizes them, or applies text styles,
colors and custom functions to their labels and data cells.`,
		Args:          cobra.ExactArgs(1),
		RunE:          run,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	f := rootCmd.Flags()
	f.StringVarP(&outputPath, "output", "o", "", "Output workbook path (default: modify the input in place)")
	f.StringVar(&reportFormat, "report", "text", "Report format: text, json, none")
	f.BoolVar(&pretty, "pretty", false, "Pretty-print JSON report")

	f.StringSliceVar(&subtypes, "subtype", []string{"*"}, "Table subtypes to modify; * for all")
	f.StringVar(&process, "process", "preceding", "Tables to search: preceding (last sheet) or all")
	f.StringArrayVar(&selectItems, "select", nil, "Row or column to select: number, label text or <<ALL>> (repeatable)")
	f.StringVar(&dimension, "dimension", "columns", "Dimension to select: columns or rows")
	f.IntVar(&level, "level", -1, "Label level matched by text selectors; -1 is innermost")
	f.BoolVar(&hide, "hide", false, "Hide the selection (default when no other action is given)")
	f.BoolVar(&useRegexp, "regexp", false, "Treat text selectors as regular expressions")
	f.BoolVar(&printLabels, "print-labels", false, "List the labels of each table in the report")
	f.Float64SliceVar(&widths, "widths", nil, "Data column widths in points, one per selector or one for all")
	f.StringSliceVar(&rowLabels, "row-labels", nil, "Row label columns to resize, by number")
	f.Float64SliceVar(&rowLabelWidths, "row-label-widths", nil, "Row label column widths in points")
	f.StringVar(&textStyle, "text-style", "", "Text style: regular, bold, italic, bolditalic")
	f.IntSliceVar(&textColor, "text-color", nil, "Text color as r,g,b")
	f.IntSliceVar(&bgColor, "bg-color", nil, "Background color as r,g,b")
	f.StringVar(&applyTo, "apply-to", "both", "Apply styles to both, labels, datacells, or data cells where an expression over x, i and ii holds")
	f.StringArrayVar(&customFunctions, "custom-function", nil, "Custom function as module.function or module.function(key=value, ...) (repeatable)")
	f.StringSliceVar(&sig, "sig", nil, "Significance markers to style, as letter or letter:subtable,... ")
	f.StringVar(&sigLevels, "sig-levels", "both", "Marker case the sig letters apply to: both, upper, lower")

	f.IntVar(&headerRows, "header-rows", 1, "Column label rows of each table")
	f.IntVar(&labelColumns, "label-columns", 1, "Row label columns of each table")
	f.StringVar(&sigMode, "sig-mode", "auto", "Significance marker mode: auto, simple, none")

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "TOML configuration file")
	pf.StringSliceVar(&pluginDirs, "plugin-dir", nil, "Directory of Lua custom function scripts")
	pf.StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(newPluginsCmd())
	return rootCmd
}

func newPluginsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plugins",
		Short: "List the available custom functions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg.LogLevel)
			if err != nil {
				return err
			}
			registry, closeState, err := loadRegistry(cfg.PluginDirs, logger)
			if err != nil {
				return err
			}
			defer closeState()
			return renderPlugins(cmd, registry.Entries())
		},
	}
}

func run(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", inputPath)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}

	registry, closeState, err := loadRegistry(cfg.PluginDirs, logger)
	if err != nil {
		return err
	}
	defer closeState()

	opts, err := cfg.ModifyOptions()
	if err != nil {
		return err
	}
	opts.Logger = logger
	opts.Registry = registry
	m, err := tablemod.New(opts)
	if err != nil {
		return err
	}

	wopts, err := cfg.WorkbookOptions()
	if err != nil {
		return err
	}
	wb, err := xlsx.Open(inputPath, wopts)
	if err != nil {
		return fmt.Errorf("failed to open workbook: %w", err)
	}
	defer wb.Close()

	summary, err := m.Run(wb, report.NewInfo())
	if err != nil {
		return fmt.Errorf("modification failed: %w", err)
	}

	if outputPath != "" {
		err = wb.SaveAs(outputPath)
	} else {
		err = wb.Save()
	}
	if err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	logger.Info("workbook written", "tables", len(summary.Tables))

	switch strings.ToLower(cfg.Report) {
	case "", "text":
		return report.RenderText(cmd.OutOrStdout(), summary)
	case "json":
		jsonData, err := report.ToJSON(summary, pretty)
		if err != nil {
			return fmt.Errorf("serialization failed: %w", err)
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(jsonData))
		return err
	case "none":
		return nil
	}
	return fmt.Errorf("invalid report format: %s (must be text, json, or none)", cfg.Report)
}

// loadConfig reads the configuration file and environment, then applies
// every flag given on the command line over them.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	overrides := map[string]func(){
		"report":           func() { cfg.Report = reportFormat },
		"log-level":        func() { cfg.LogLevel = logLevel },
		"plugin-dir":       func() { cfg.PluginDirs = pluginDirs },
		"subtype":          func() { cfg.Subtypes = subtypes },
		"process":          func() { cfg.Process = process },
		"select":           func() { cfg.Select = selectItems },
		"dimension":        func() { cfg.Dimension = dimension },
		"level":            func() { cfg.Level = level },
		"hide":             func() { cfg.Hide = hide },
		"regexp":           func() { cfg.Regexp = useRegexp },
		"print-labels":     func() { cfg.PrintLabels = printLabels },
		"widths":           func() { cfg.Widths = widths },
		"row-labels":       func() { cfg.RowLabels = rowLabels },
		"row-label-widths": func() { cfg.RowLabelWidths = rowLabelWidths },
		"text-style":       func() { cfg.TextStyle = textStyle },
		"text-color":       func() { cfg.TextColor = textColor },
		"bg-color":         func() { cfg.BgColor = bgColor },
		"apply-to":         func() { cfg.ApplyTo = applyTo },
		"custom-function":  func() { cfg.CustomFunctions = customFunctions },
		"sig":              func() { cfg.Sig = sig },
		"sig-levels":       func() { cfg.SigLevels = sigLevels },
		"header-rows":      func() { cfg.Workbook.HeaderRows = headerRows },
		"label-columns":    func() { cfg.Workbook.LabelColumns = labelColumns },
		"sig-mode":         func() { cfg.Workbook.SigMode = sigMode },
	}
	flags := cmd.Flags()
	for name, set := range overrides {
		if flags.Lookup(name) != nil && flags.Changed(name) {
			set()
		}
	}
	return cfg, nil
}

func newLogger(level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %s", level)
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:  lvl,
		Prefix: "tablemod",
	}), nil
}

// loadRegistry returns the built-in custom functions plus every function
// defined by the Lua scripts in dirs. The returned func closes the Lua state.
func loadRegistry(dirs []string, logger *log.Logger) (*plugin.Registry, func(), error) {
	registry := tablemod.DefaultRegistry()
	if len(dirs) == 0 {
		return registry, func() {}, nil
	}
	state := luaplugin.NewState()
	for _, dir := range dirs {
		names, err := state.LoadDir(dir, registry)
		if err != nil {
			state.Close()
			return nil, nil, fmt.Errorf("failed to load plugins from %s: %w", dir, err)
		}
		logger.Debug("loaded plugins", "dir", dir, "functions", names)
	}
	return registry, state.Close, nil
}

func renderPlugins(cmd *cobra.Command, entries []plugin.Entry) error {
	w := tablewriter.NewWriter(cmd.OutOrStdout())
	w.Header("Function", "Parameters", "Description")
	for _, e := range entries {
		if err := w.Append([]string{e.Name, strconv.Itoa(e.NumParams()), e.Doc}); err != nil {
			return err
		}
	}
	return w.Render()
}
