package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/waseemdev/vscode-flutter.xml-layout-sub000/cmd/flutterxml/internal/config"
)

var (
	version = "0.1.0"
	commit  = "dev"
	date    = "unknown"
)

// globalFlags are shared by every command.
type globalFlags struct {
	configPath string
	verbose    bool
}

func (g *globalFlags) logger() *slog.Logger {
	level := slog.LevelInfo
	if g.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func (g *globalFlags) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", g.configPath, err)
	}
	return cfg, nil
}

func main() {
	flags := &globalFlags{}
	var rootCmd = &cobra.Command{
		Use:   "flutterxml",
		Short: "Compile XML layouts to Flutter widget code",
		Long: `flutterxml compiles XML layout files into Dart widget constructor code.
Directive attributes such as :if, :repeat and :padding, and piped values such as
"items | stream", are expanded into the equivalent Flutter widgets.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", config.FileName, "Path to the config file")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Log resolver and handler decisions")

	rootCmd.AddCommand(newCompileCommand(flags))
	rootCmd.AddCommand(newSchemaCommand())
	rootCmd.AddCommand(newHandlersCommand(flags))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
