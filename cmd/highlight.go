package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zjrosen/nestmode/internal/cache"
	"github.com/zjrosen/nestmode/internal/highlight"
	"github.com/zjrosen/nestmode/internal/log"
	"github.com/zjrosen/nestmode/internal/nesting"
	styles "github.com/zjrosen/nestmode/internal/style"
	tracing "github.com/zjrosen/nestmode/internal/telemetry"
)

var highlightCmd = &cobra.Command{
	Use:   "highlight <file>",
	Short: "Tokenize a file once and print it to the terminal with ANSI styling",
	Args:  cobra.ExactArgs(1),
	RunE:  runHighlight,
}

func init() {
	rootCmd.AddCommand(highlightCmd)
}

func runHighlight(cmd *cobra.Command, args []string) error {
	profile, err := resolveProfile()
	if err != nil {
		return err
	}

	tracer, shutdown, err := resolveTracer()
	if err != nil {
		return err
	}
	defer func() { _ = shutdown(cmd.Context()) }()

	ctx := nesting.NewEditorContext(nil)
	mode, err := profile.Build(ctx, cache.NewMaskConfigCache())
	if err != nil {
		return fmt.Errorf("building mode for profile %q: %w", profile.Name, err)
	}
	mode = tracing.Wrap(mode, tracer)

	content, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	lines, err := highlight.Lines(mode, string(content))
	if err != nil {
		return fmt.Errorf("tokenizing %s: %w", args[0], err)
	}
	log.Info(log.CatNesting, "tokenized file", "path", args[0], "lines", len(lines))

	resolver := styles.NewResolver()
	out := cmd.OutOrStdout()
	for _, line := range lines {
		for _, tok := range line {
			fmt.Fprint(out, resolver.Render(tok.Style, tok.Text))
		}
		fmt.Fprintln(out)
	}
	return nil
}
