// Package cmd implements the nestmode CLI: a thin driver that loads a
// language profile, builds the nesting.Mode it describes, and either prints
// a highlighted file once or watches it live in a viewport.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/nestmode/internal/config"
	"github.com/zjrosen/nestmode/internal/log"
	tracing "github.com/zjrosen/nestmode/internal/telemetry"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE any
	// Bubble Tea program starts, so the OSC 11 response can't race with
	// Bubble Tea's input loop and show up as garbage in the view command.
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

var (
	version = "dev"

	profilePath string
	profileName string
	profileDir  string
	debugLog    string
	traceFile   string
)

var rootCmd = &cobra.Command{
	Use:     "nestmode",
	Short:   "A nesting tokenizer combinator for incremental syntax highlighting",
	Long:    `nestmode drives a host mode and its nested sub-modes over a document, one line at a time, the way an editor's own highlighter would.`,
	Version: version,
}

func init() {
	cobra.OnInitialize(initLogging)

	rootCmd.PersistentFlags().StringVar(&profilePath, "profile-file", "",
		"path to a single language profile YAML file")
	rootCmd.PersistentFlags().StringVar(&profileName, "profile", "markdown",
		"name of a built-in or profile-dir language profile to use")
	rootCmd.PersistentFlags().StringVar(&profileDir, "profile-dir", "",
		"directory of language profile YAML files (default: ~/.config/nestmode/profiles)")
	rootCmd.PersistentFlags().StringVar(&debugLog, "debug-log", "",
		"write debug logs to this file")
	rootCmd.PersistentFlags().StringVar(&traceFile, "trace-file", "",
		"write OpenTelemetry spans for each Token call to this file")

	_ = viper.BindPFlag("profile", rootCmd.PersistentFlags().Lookup("profile"))
}

func initLogging() {
	if debugLog == "" {
		return
	}
	if _, err := log.Init(debugLog); err != nil {
		fmt.Fprintf(os.Stderr, "nestmode: could not open debug log %s: %v\n", debugLog, err)
	}
}

// resolveProfile loads the profile named by --profile-file, or failing
// that --profile, checking profileDir (or its default) before the
// built-in set config.DefaultProfiles ships.
func resolveProfile() (*config.Profile, error) {
	if profilePath != "" {
		return config.LoadProfile(profilePath)
	}

	dir := profileDir
	if dir == "" {
		var err error
		dir, err = config.DefaultProfileDir()
		if err != nil {
			return nil, fmt.Errorf("resolving default profile directory: %w", err)
		}
	}

	if profiles, err := config.LoadProfileDir(dir); err == nil {
		if p, ok := profiles[profileName]; ok {
			return p, nil
		}
	}

	if p, ok := config.DefaultProfiles()[profileName]; ok {
		return p, nil
	}

	return nil, fmt.Errorf("no profile named %q (looked in %s and the built-in set)", profileName, dir)
}

// resolveTracer builds the tracer highlight/view commands wrap their mode
// with. With no --trace-file it returns a no-op tracer at zero cost; the
// returned func must be called before the command exits to flush the
// provider's exporter.
func resolveTracer() (trace.Tracer, func(context.Context) error, error) {
	cfg := tracing.DefaultConfig()
	if traceFile != "" {
		cfg.Enabled = true
		cfg.Exporter = "file"
		cfg.FilePath = traceFile
	}

	provider, err := tracing.NewProvider(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("starting tracer: %w", err)
	}
	return provider.Tracer(), provider.Shutdown, nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags).
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
