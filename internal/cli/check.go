package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/timbrel/relnote/internal/gitrepo"
	"github.com/timbrel/relnote/internal/output"
	"github.com/timbrel/relnote/internal/semver"
)

var checkTagsFlag bool

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the messages directory is consistent",
	Long: `Verify the messages directory: every version maps to exactly
one document, every identifier is well formed, and content loads
cleanly. With --tags, additionally cross-check the notes against the
repository's release tags.

Exit codes:
  0  everything consistent
  1  inconsistency found

Examples:
  relnote check
  relnote check --tags`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheck(cmd)
	},
}

func init() {
	checkCmd.GroupID = GroupMaintain
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().BoolVar(&checkTagsFlag, "tags", false, "Cross-check notes against git release tags")
}

func runCheck(cmd *cobra.Command) error {
	cfg, err := loadConfiguration()
	if err != nil {
		return err
	}

	// openStore already enforces parseability and version uniqueness.
	s, err := openStore(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	failed := false
	for _, v := range s.Versions() {
		if !semver.IsValid(v) {
			output.PrintFailure(cmd.OutOrStdout(), fmt.Sprintf("malformed version identifier %q", v))
			failed = true
		}
	}
	if !failed {
		output.PrintSuccess(cmd.OutOrStdout(),
			fmt.Sprintf("%d versions load cleanly from %s", s.VersionCount(), cfg.MessagesDir))
	}

	if checkTagsFlag {
		if !checkTagCoverage(cmd, s.Versions()) {
			failed = true
		}
	}

	if failed {
		return NewExitError(ExitFailure)
	}
	return nil
}

// checkTagCoverage reports tags lacking a note and notes lacking a tag.
func checkTagCoverage(cmd *cobra.Command, versions []string) bool {
	cov, err := gitrepo.CheckCoverage("", versions)
	if err != nil {
		output.PrintFailure(cmd.OutOrStdout(), fmt.Sprintf("cannot read git tags: %v", err))
		return false
	}

	if cov.InSync() {
		output.PrintSuccess(cmd.OutOrStdout(), "release tags and notes are in sync")
		return true
	}

	for _, tag := range cov.MissingNotes {
		output.PrintFailure(cmd.OutOrStdout(), fmt.Sprintf("tag %s has no release note", tag))
	}
	for _, v := range cov.MissingTags {
		output.PrintFailure(cmd.OutOrStdout(), fmt.Sprintf("note %s has no release tag", v))
	}
	return false
}
