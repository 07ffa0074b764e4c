package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/zjrosen/nestmode/internal/cache"
	"github.com/zjrosen/nestmode/internal/highlight"
	"github.com/zjrosen/nestmode/internal/log"
	"github.com/zjrosen/nestmode/internal/nesting"
	styles "github.com/zjrosen/nestmode/internal/style"
	tracing "github.com/zjrosen/nestmode/internal/telemetry"
	"github.com/zjrosen/nestmode/internal/watcher"
)

var viewCmd = &cobra.Command{
	Use:   "view <file>",
	Short: "Show a file in a live-tokenizing viewport, refreshed on every save",
	Args:  cobra.ExactArgs(1),
	RunE:  runView,
}

func init() {
	rootCmd.AddCommand(viewCmd)
}

func runView(cmd *cobra.Command, args []string) error {
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

	path := args[0]
	w, err := watcher.New(watcher.DefaultConfig(path))
	if err != nil {
		return fmt.Errorf("starting watcher for %s: %w", path, err)
	}
	changes, err := w.Start()
	if err != nil {
		return fmt.Errorf("watching %s: %w", path, err)
	}
	defer func() { _ = w.Stop() }()

	m := newViewerModel(path, mode, changes)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

// fileChangedMsg signals the watched file was written or replaced.
type fileChangedMsg struct{}

// reloadedMsg carries the result of re-reading and re-tokenizing the file,
// whether triggered at startup or by a fileChangedMsg.
type reloadedMsg struct {
	lines [][]highlight.Token
	err   error
}

type viewerModel struct {
	path     string
	mode     nesting.Mode
	resolver *styles.Resolver
	changes  <-chan struct{}

	viewport viewport.Model
	ready    bool
	err      error
}

func newViewerModel(path string, mode nesting.Mode, changes <-chan struct{}) *viewerModel {
	return &viewerModel{
		path:     path,
		mode:     mode,
		resolver: styles.NewResolver(),
		changes:  changes,
	}
}

func (m *viewerModel) Init() tea.Cmd {
	return tea.Batch(reloadCmd(m.path, m.mode), waitForChange(m.changes))
}

// reloadCmd reads path and tokenizes it against mode. It is re-run after
// every fileChangedMsg, not just at startup, since the file's content (and
// therefore every NestState the driving loop threads through it) may have
// changed completely.
func reloadCmd(path string, mode nesting.Mode) tea.Cmd {
	return func() tea.Msg {
		content, err := os.ReadFile(path)
		if err != nil {
			return reloadedMsg{err: fmt.Errorf("reading %s: %w", path, err)}
		}
		lines, err := highlight.Lines(mode, string(content))
		if err != nil {
			return reloadedMsg{err: fmt.Errorf("tokenizing %s: %w", path, err)}
		}
		return reloadedMsg{lines: lines}
	}
}

// waitForChange blocks on the watcher's channel in its own goroutine the
// way bubbletea expects an external event source to be bridged: one message
// per notification, re-armed after each one fires.
func waitForChange(changes <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		_, ok := <-changes
		if !ok {
			return nil
		}
		return fileChangedMsg{}
	}
}

func (m *viewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		headerHeight := lipgloss.Height(m.headerView())
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-headerHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - headerHeight
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}

	case fileChangedMsg:
		log.Info(log.CatUI, "file changed, re-tokenizing", "path", m.path)
		return m, tea.Batch(reloadCmd(m.path, m.mode), waitForChange(m.changes))

	case reloadedMsg:
		wasAtBottom := m.viewport.AtBottom()
		m.err = msg.err
		if msg.err == nil {
			m.viewport.SetContent(m.renderLines(msg.lines))
			if wasAtBottom {
				m.viewport.GotoBottom()
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *viewerModel) renderLines(lines [][]highlight.Token) string {
	var out string
	for i, line := range lines {
		if i > 0 {
			out += "\n"
		}
		for _, tok := range line {
			out += m.resolver.Render(tok.Style, tok.Text)
		}
	}
	return out
}

func (m *viewerModel) headerView() string {
	title := styles.StatusBarStyle.Render(m.path)
	if m.err != nil {
		return title + "  " + styles.ErrorStyle.Render(m.err.Error())
	}
	return title
}

func (m *viewerModel) View() string {
	if !m.ready {
		return "initializing..."
	}
	return m.headerView() + "\n" + m.viewport.View()
}
