package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/timbrel/relnote/internal/config"
	"github.com/timbrel/relnote/internal/errors"
	"github.com/timbrel/relnote/internal/output"
	"github.com/timbrel/relnote/internal/semver"
	"github.com/timbrel/relnote/internal/store"
)

var newCmd = &cobra.Command{
	Use:   "new <version>",
	Short: "Scaffold a release note for a new version",
	Long: `Create a skeleton note file for a new version and record it
in messages.json when the directory uses an index.

Shipped notes are immutable: the command refuses to touch a version
that already has a document.

Examples:
  relnote new 2.24.0
  relnote new unreleased`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runNew(cmd, args[0])
	},
}

func init() {
	newCmd.GroupID = GroupMaintain
	rootCmd.AddCommand(newCmd)
}

func runNew(cmd *cobra.Command, version string) error {
	cfg, err := loadConfiguration()
	if err != nil {
		return err
	}

	normalized := semver.Normalize(version)
	if !semver.IsValid(normalized) {
		return errors.NewArgumentErrorWithUsage(
			fmt.Sprintf("invalid version identifier %q", version),
			"relnote new <version>",
			"Use a dotted numeric version such as 2.24.0",
			"Use \"unreleased\" for unshipped changes",
		)
	}

	s, err := openOrCreateStore(cmd, cfg.MessagesDir)
	if err != nil {
		return err
	}

	content := scaffoldContent(cfg.Project, normalized)
	if err := s.Add(normalized, []byte(content)); err != nil {
		return errors.NewRuntimeError(
			fmt.Sprintf("creating note: %v", err),
			"Pick a version that has not shipped yet",
		)
	}

	file, _ := s.File(normalized)
	output.PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Created %s", filepath.Join(cfg.MessagesDir, file)))
	output.PrintHint(cmd.OutOrStdout(), "Fill in the section bullets before tagging the release.")
	return nil
}

// openOrCreateStore opens the messages directory, creating it first if
// this is the project's first note.
func openOrCreateStore(cmd *cobra.Command, dir string) (*store.Store, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating messages directory: %w", err)
		}
		output.PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Created messages directory %s", dir))
	}
	cfg := config.Default()
	cfg.MessagesDir = dir
	return openStore(cmd.Context(), cfg)
}

func scaffoldContent(project, version string) string {
	title := version
	if project != "" {
		title = project + " " + version
	}
	underline := make([]byte, len(title))
	for i := range underline {
		underline[i] = '='
	}

	return fmt.Sprintf(`%s
%s

Features:
  -

Improvements:
  -

Fix:
  -
`, title, underline)
}
