package main

import (
	"fmt"
	"os"

	"quaero/internal/app"
	"quaero/internal/config"
	"quaero/internal/highlight"
	"quaero/internal/logging"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
	cfgFile string
	baseURL string
	noColor bool
	verbose bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "quaero",
		Short: "Terminal client for a web research backend",
		Long: `Quaero asks a research backend questions and shows cited answers,
structured study documents (FAQ, study guide, briefing, timeline, mind map)
and curated sources for a topic.

Run without arguments to start the interactive client.`,
		SilenceUsage: true,
		RunE:         runApp,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/quaero/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "backend base URL (overrides api.base_url)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable syntax highlighting")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr (one-shot commands only)")

	rootCmd.AddCommand(
		newAskCmd(),
		newDiscoverCmd(),
		newModelsCmd(),
		newRenderCmd(),
		newConfigCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Print the version number",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "quaero version %s\n", version)
			},
		},
	)
	return rootCmd
}

func runApp(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	app.ConfigureLogging(cfg)

	application, err := app.NewBuilder(cfg).Build()
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	return application.Run()
}

// loadConfig reads the config file and applies global flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if baseURL != "" {
		cfg.API.BaseURL = baseURL
	}
	cfg.Version = version
	return cfg, nil
}

// headlessApp builds an App without the TUI for one-shot commands.
// --verbose sends logs to stderr, which only the TUI must keep clean.
func headlessApp(cfg *config.Config) (*app.App, error) {
	app.ConfigureLogging(cfg)
	if verbose {
		logging.Configure(logging.LevelDebug, os.Stderr)
	}
	a, err := app.NewBuilder(cfg).Headless().Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create application: %w", err)
	}
	return a, nil
}

// highlighter colors output only when stdout is a terminal.
func highlighter() *highlight.Highlighter {
	if noColor || !isatty.IsTerminal(os.Stdout.Fd()) {
		return highlight.Plain()
	}
	return highlight.New("")
}
