package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/timbrel/relnote/internal/gitrepo"
	"github.com/timbrel/relnote/internal/output"
	"github.com/timbrel/relnote/internal/render"
)

var unreleasedCmd = &cobra.Command{
	Use:   "unreleased",
	Short: "Show unreleased changes and pending commits",
	Long: `Show the unreleased note, if one exists, and how many commits
have landed since the most recent release tag.

Example:
  relnote unreleased`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runUnreleased(cmd)
	},
}

func init() {
	unreleasedCmd.GroupID = GroupBrowse
	rootCmd.AddCommand(unreleasedCmd)
}

func runUnreleased(cmd *cobra.Command) error {
	cfg, err := loadConfiguration()
	if err != nil {
		return err
	}

	s, err := openStore(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	if n := s.Unreleased(); n != nil {
		if err := render.TerminalNote(n, cmd.OutOrStdout(), render.FormatOptions{Plain: cfg.Plain}); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "No unreleased note found.")
	}

	reportPendingCommits(cmd)
	return nil
}

// reportPendingCommits is best-effort: outside a git repository the
// note content alone is still useful.
func reportPendingCommits(cmd *cobra.Command) {
	latest, err := gitrepo.LatestTag("")
	if err != nil || latest == "" {
		return
	}

	count, err := gitrepo.CommitsSinceTag("", latest)
	if err != nil {
		return
	}
	output.PrintHint(cmd.OutOrStdout(), fmt.Sprintf("\n%d commits since %s", count, latest))
}
