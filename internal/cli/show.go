package cli

import (
	stderrors "errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/timbrel/relnote/internal/render"
	"github.com/timbrel/relnote/internal/store"
)

var showLastFlag int

var showCmd = &cobra.Command{
	Use:   "show [version]",
	Short: "Show release-note entries",
	Long: `Show release-note entries from the messages directory.

By default, shows the 5 most recent entries across versions. Use a
version argument to see all entries for that version, or --last to
control the entry count.

Examples:
  relnote show              # Show 5 most recent entries
  relnote show v2.19.0      # Show all entries for version 2.19.0
  relnote show 2.19.0       # Same (v prefix optional)
  relnote show unreleased   # Show unreleased changes
  relnote show --last 10    # Show 10 most recent entries
  relnote show --plain      # Plain output (no colors/icons)`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runShow(cmd, args)
	},
}

func init() {
	showCmd.GroupID = GroupBrowse
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().IntVar(&showLastFlag, "last", 5, "Number of entries to show")
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfiguration()
	if err != nil {
		return err
	}

	s, err := openStore(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	opts := render.FormatOptions{Plain: cfg.Plain}

	if len(args) == 1 {
		return showVersion(s, args[0], cmd, opts)
	}
	return showLastEntries(s, showLastFlag, cmd, opts)
}

func showVersion(s *store.Store, version string, cmd *cobra.Command, opts render.FormatOptions) error {
	n, err := s.Get(version)
	if err != nil {
		var notFound *store.VersionNotFoundError
		if stderrors.As(err, &notFound) {
			return reportVersionNotFound(cmd, version, notFound.AvailableVersions)
		}
		return fmt.Errorf("getting version: %w", err)
	}

	return render.TerminalNote(n, cmd.OutOrStdout(), opts)
}

func showLastEntries(s *store.Store, n int, cmd *cobra.Command, opts render.FormatOptions) error {
	entries := s.LastN(n)
	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No release-note entries found.")
		return nil
	}

	if err := render.Terminal(entries, cmd.OutOrStdout(), opts); err != nil {
		return fmt.Errorf("formatting entries: %w", err)
	}

	total := s.EntryCount()
	if total > len(entries) {
		fmt.Fprintf(cmd.OutOrStdout(), "\n(%d of %d entries shown. Use --last %d to see all)\n",
			len(entries), total, total)
	}
	return nil
}
