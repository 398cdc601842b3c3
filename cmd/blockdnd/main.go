// Package main is the entry point for the blockdnd editor.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dshills/blockdnd/internal/app"
	"github.com/dshills/blockdnd/internal/config"
	"github.com/dshills/blockdnd/internal/logging"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var (
	configPath string
	logFile    string
	logLevel   string
	touch      bool
	noHover    bool
	readOnly   bool
)

var rootCmd = &cobra.Command{
	Use:   "blockdnd [file]",
	Short: "Rearrange markdown blocks by dragging them",
	Long: `blockdnd opens a markdown file in the terminal and lets you move
paragraphs, lists, tables, code fences and other blocks by dragging the
handle in the left gutter.

Examples:
  blockdnd notes.md                 # hover a block to reveal its handle
  blockdnd --no-hover notes.md      # keep every handle visible
  blockdnd --touch notes.md         # tap to select, long-press to drag
  blockdnd                          # scratch buffer`,
	Version:           fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
	Args:              cobra.MaximumNArgs(1),
	SilenceUsage:      true,
	CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
	RunE:              run,
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (toml or yaml)")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "Write logs to this file")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.Flags().BoolVar(&touch, "touch", false, "Treat the mouse as a touch screen")
	rootCmd.Flags().BoolVar(&noHover, "no-hover", false, "Show every drag handle instead of revealing them on hover")
	rootCmd.Flags().BoolVarP(&readOnly, "readonly", "R", false, "Open the file read-only")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if logLevel != "" && !logging.ValidLevel(logLevel) {
		return fmt.Errorf("invalid log level %q (must be debug, info, warn, or error)", logLevel)
	}

	path := configPath
	if path == "" {
		if p, err := config.DefaultPath(); err == nil {
			path = p
		}
	}

	override := flagOverrides(cmd)
	settings, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	override(&settings)

	var out io.Writer = io.Discard
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("log file: %w", err)
		}
		defer f.Close()
		out = f
	}
	logger := logging.New(logging.Config{
		Level:  logging.ParseLogLevel(settings.LogLevel),
		Output: out,
		Prefix: "blockdnd",
	})

	opts := app.Options{
		ReadOnly: readOnly,
		Settings: settings,
		Override: override,
		Logger:   logger,
	}
	if len(args) == 1 {
		opts.Path = args[0]
	}
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			opts.ConfigPath = path
		}
	}

	application, err := app.New(opts)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return application.Run(ctx)
}

// flagOverrides returns a function applying the flags the user set, so they
// win over the file on every reload.
func flagOverrides(cmd *cobra.Command) func(*config.Settings) {
	flags := cmd.Flags()
	return func(s *config.Settings) {
		if flags.Changed("touch") {
			s.TouchMode = touch
		}
		if flags.Changed("no-hover") {
			s.ShowHandleOnHover = !noHover
		}
		if flags.Changed("log-level") {
			s.LogLevel = logLevel
		}
	}
}
