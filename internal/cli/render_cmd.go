package cli

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/timbrel/relnote/internal/output"
	"github.com/timbrel/relnote/internal/render"
)

var renderStdoutFlag bool

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Generate CHANGELOG.md from the messages directory",
	Long: `Generate an aggregate changelog document from the messages
directory, newest version first.

The generated file is idempotent - running render multiple times
produces identical output as long as the notes haven't changed.

Examples:
  relnote render             # Write CHANGELOG.md
  relnote render --stdout    # Print the markdown instead of writing`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRender(cmd)
	},
}

var renderCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate CHANGELOG.md matches the messages directory",
	Long: `Validate that the rendered changelog is in sync with the
messages directory. Exits 0 if in sync, or with a non-zero code and a
useful message if out of sync.

Example:
  relnote render check`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRenderCheck(cmd)
	},
}

func init() {
	renderCmd.GroupID = GroupMaintain
	rootCmd.AddCommand(renderCmd)
	renderCmd.AddCommand(renderCheckCmd)

	renderCmd.Flags().BoolVar(&renderStdoutFlag, "stdout", false, "Write markdown to stdout instead of the changelog file")
}

func runRender(cmd *cobra.Command) error {
	cfg, err := loadConfiguration()
	if err != nil {
		return err
	}

	s, err := openStore(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	opts := render.MarkdownOptions{Project: cfg.Project, RepoURL: cfg.RepoURL}
	content, err := render.MarkdownString(s.Notes(), opts)
	if err != nil {
		return fmt.Errorf("rendering markdown: %w", err)
	}

	if renderStdoutFlag {
		fmt.Fprint(cmd.OutOrStdout(), content)
		return nil
	}

	if err := os.WriteFile(cfg.ChangelogPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", cfg.ChangelogPath, err)
	}
	output.PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Rendered %s → %s", cfg.MessagesDir, cfg.ChangelogPath))
	return nil
}

func runRenderCheck(cmd *cobra.Command) error {
	cfg, err := loadConfiguration()
	if err != nil {
		return err
	}

	s, err := openStore(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	opts := render.MarkdownOptions{Project: cfg.Project, RepoURL: cfg.RepoURL}
	expected, err := render.MarkdownString(s.Notes(), opts)
	if err != nil {
		return fmt.Errorf("rendering expected markdown: %w", err)
	}

	actual, err := os.ReadFile(cfg.ChangelogPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", cfg.ChangelogPath, err)
	}

	if !bytes.Equal([]byte(expected), actual) {
		output.PrintFailure(cmd.OutOrStdout(), fmt.Sprintf("%s is out of sync with %s", cfg.ChangelogPath, cfg.MessagesDir))
		output.PrintHint(cmd.OutOrStdout(), "To fix, run:\n  relnote render")
		return NewExitError(ExitOutOfSync)
	}

	output.PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("%s is in sync with %s", cfg.ChangelogPath, cfg.MessagesDir))
	return nil
}
