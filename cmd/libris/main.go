package main

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/gravitrone/libris/internal/api"
	"github.com/gravitrone/libris/internal/cmd"
	"github.com/gravitrone/libris/internal/config"
	"github.com/gravitrone/libris/internal/observe"
	"github.com/gravitrone/libris/internal/ui"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "libris",
		Short: "Libris - library management client",
		Long:  "Libris: browse and edit books, authors, publishers, categories and borrow records.",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runTUI()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(cmd.BooksCmd())
	root.AddCommand(cmd.AuthorsCmd())
	root.AddCommand(cmd.PublishersCmd())
	root.AddCommand(cmd.CategoriesCmd())
	root.AddCommand(cmd.BorrowsCmd())
	root.AddCommand(cmd.StatsCmd())
	root.AddCommand(cmd.ConfigCmd())
	root.AddCommand(cmd.DevserverCmd())
	return root
}

func init() {
	// Force truecolor so hex colors render correctly
	// Must be set before any lipgloss style initialization
	os.Setenv("COLORTERM", "truecolor")
}

var errNoTerminal = errors.New("the TUI needs an interactive terminal; use a subcommand such as 'libris books list' in scripts")

func runTUI() error {
	if !isInteractiveTerminal(os.Stdin) || !isInteractiveTerminal(os.Stdout) {
		return errNoTerminal
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	ui.ApplyTheme(cfg.Theme)

	logger, closeLog, err := observe.Setup(cfg)
	if err != nil {
		return fmt.Errorf("set up logging: %w", err)
	}
	defer closeLog()

	client := api.NewClient(cfg.BaseURL())
	client.SetLogger(logger)
	logger.Info("tui start", "api_url", client.BaseURL())

	p := tea.NewProgram(ui.NewApp(client, cfg), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

func isInteractiveTerminal(file *os.File) bool {
	return file != nil && term.IsTerminal(int(file.Fd()))
}
