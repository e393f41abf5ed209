package cli

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rfairley/bundleview/internal/app"
	"github.com/rfairley/bundleview/internal/archive"
	"github.com/rfairley/bundleview/internal/config"
	"github.com/rfairley/bundleview/internal/expand"
	"github.com/rfairley/bundleview/internal/logging"
	"github.com/rfairley/bundleview/internal/state"
	"github.com/rfairley/bundleview/internal/state/sqlite"
)

// NewRootCommand creates the root command.
func NewRootCommand(version string) *cobra.Command {
	var (
		serverURL string
		archiveID string
		theme     string
		debug     bool
	)

	cmd := &cobra.Command{
		Use:   "bundleview [bundle.zip]",
		Short: "Browse archive contents in the terminal",
		Long: "bundleview explores the contents of an archive as a navigable tree\n" +
			"with syntax-highlighted file viewing, name filtering, and shareable\n" +
			"line permalinks. Pass a local zip bundle, or point it at an archive\n" +
			"server with --server and --archive.",
		Version: version,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logging.Setup(debug)

			cfg := config.Load()
			if serverURL != "" {
				cfg.ServerURL = serverURL
			}
			if theme != "" {
				cfg.Theme = theme
			}

			var (
				src        archive.Source
				id         string
				bundlePath string
			)
			switch {
			case len(args) == 1:
				abs, err := filepath.Abs(args[0])
				if err != nil {
					return err
				}
				if _, err := os.Stat(abs); err != nil {
					return fmt.Errorf("open bundle: %w", err)
				}
				src = archive.NewZipSource(abs)
				id = filepath.Base(abs)
				bundlePath = abs
			case cfg.ServerURL != "" && archiveID != "":
				src = archive.NewClient(cfg.ServerURL, archiveID)
				id = archiveID
			default:
				return fmt.Errorf("pass a bundle file, or --server and --archive")
			}

			return runTUI(src, id, bundlePath, cfg)
		},
	}

	cmd.Flags().StringVar(&serverURL, "server", "", "archive server base URL")
	cmd.Flags().StringVar(&archiveID, "archive", "", "archive identifier on the server")
	cmd.Flags().StringVar(&theme, "theme", "", "syntax highlighting theme")
	cmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging")

	return cmd
}

// runTUI starts the TUI application
func runTUI(src archive.Source, archiveID, bundlePath string, cfg config.Config) error {
	sessions := openSessionStore()
	defer sessions.Close()

	model := app.New(src, archiveID, bundlePath, cfg, sessions)
	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		return err
	}
	return nil
}

// openSessionStore opens the persistent expansion store, falling back to an
// in-memory store when the state directory is unusable.
func openSessionStore() state.Store {
	dir, err := logging.StatePath()
	if err != nil {
		logrus.WithError(err).Warn("state dir unavailable, sessions will not persist")
		return state.NewMemoryStore()
	}
	store, err := sqlite.New(filepath.Join(dir, "state.db"))
	if err != nil {
		logrus.WithError(err).Warn("state db unavailable, sessions will not persist")
		return state.NewMemoryStore()
	}
	return store
}

var _ expand.Persister = (state.Store)(nil)
