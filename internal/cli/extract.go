package cli

import (
	stderrors "errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/timbrel/relnote/internal/render"
	"github.com/timbrel/relnote/internal/store"
)

var extractCmd = &cobra.Command{
	Use:   "extract <version>",
	Short: "Extract release notes for a specific version",
	Long: `Extract release notes for a specific version in markdown
format, suitable for GitHub release bodies. The output is written to
stdout.

This is useful for CI/CD pipelines that create GitHub releases with
accurate notes derived from the messages directory.

Examples:
  relnote extract v2.19.0      # Extract notes for version 2.19.0
  relnote extract 2.19.0       # Same (v prefix optional)
  relnote extract unreleased   # Extract unreleased changes`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExtract(cmd, args[0])
	},
}

func init() {
	extractCmd.GroupID = GroupMaintain
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, version string) error {
	cfg, err := loadConfiguration()
	if err != nil {
		return err
	}

	s, err := openStore(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	n, err := s.Get(version)
	if err != nil {
		var notFound *store.VersionNotFoundError
		if stderrors.As(err, &notFound) {
			return reportVersionNotFound(cmd, version, notFound.AvailableVersions)
		}
		return fmt.Errorf("getting version: %w", err)
	}

	return render.VersionMarkdown(n, cmd.OutOrStdout())
}
