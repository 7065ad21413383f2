package commands

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/statements/internal/buildinfo"
	"github.com/cleared-dev/statements/internal/categorize"
	"github.com/cleared-dev/statements/internal/config"
	"github.com/cleared-dev/statements/internal/logger"
	"github.com/cleared-dev/statements/internal/pipeline"
)

// app is the state shared by subcommands once flags and config are resolved.
type app struct {
	configPath string
	logLevel   string

	root string // directory holding the config file
	cfg  *config.Config
	log  zerolog.Logger
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:     "statements",
		Short:   "Normalize, categorize and report on bank statements",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", config.FileName, "path to statements.yaml")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newInitCommand(),
		newProcessCommand(a),
		newCategorizeCommand(a),
		newServeCommand(a),
		newRunsCommand(a),
		newReportCommand(a),
	)

	return rootCmd
}

// setup loads config, applies the environment and flag overrides, and
// attaches the logger to the command context.
func (a *app) setup(cmd *cobra.Command) error {
	abs, err := filepath.Abs(a.configPath)
	if err != nil {
		return fmt.Errorf("resolving config path: %w", err)
	}
	root := filepath.Dir(abs)

	cfg, err := config.LoadOrDefault(a.configPath)
	if err != nil {
		return err
	}
	if err := cfg.ApplyEnv(root); err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	log, err := logger.New(logger.Options{
		Level:   cfg.Log.Level,
		Console: cfg.Log.Console,
		Out:     cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}

	a.root = root
	a.cfg = cfg
	a.log = log
	cmd.SetContext(logger.WithContext(cmd.Context(), log))
	return nil
}

// path resolves a configured path against the project root.
func (a *app) path(p string) string {
	return config.Resolve(a.root, p)
}

// engine builds the categorization engine from the configured rule file.
func (a *app) engine() (*categorize.Engine, error) {
	rules, err := categorize.Load(a.path(a.cfg.Rules.Path), a.cfg.Rules.IncludeDefaults)
	if err != nil {
		return nil, fmt.Errorf("loading rules: %w", err)
	}
	return categorize.NewEngine(rules), nil
}

// pipeline builds a pipeline with the default decoders and configured rules.
func (a *app) pipeline() (*pipeline.Pipeline, error) {
	engine, err := a.engine()
	if err != nil {
		return nil, err
	}
	return pipeline.New(nil, engine), nil
}
