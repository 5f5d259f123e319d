package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/timbrel/relnote/internal/render"
)

var latestVersionOnlyFlag bool

var latestCmd = &cobra.Command{
	Use:   "latest",
	Short: "Show the most recent released version",
	Long: `Show the most recent released version's notes, skipping any
unreleased section.

Examples:
  relnote latest
  relnote latest --version-only   # Print just the identifier (for scripts)`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLatest(cmd)
	},
}

func init() {
	latestCmd.GroupID = GroupBrowse
	rootCmd.AddCommand(latestCmd)

	latestCmd.Flags().BoolVar(&latestVersionOnlyFlag, "version-only", false, "Print only the version identifier")
}

func runLatest(cmd *cobra.Command) error {
	cfg, err := loadConfiguration()
	if err != nil {
		return err
	}

	s, err := openStore(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	n := s.Latest()
	if n == nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "No released versions found.")
		return NewExitError(ExitMissingPrerequisites)
	}

	if latestVersionOnlyFlag {
		fmt.Fprintln(cmd.OutOrStdout(), n.Version)
		return nil
	}
	return render.TerminalNote(n, cmd.OutOrStdout(), render.FormatOptions{Plain: cfg.Plain})
}
