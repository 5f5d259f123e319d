package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/timbrel/relnote/internal/export"
	"github.com/timbrel/relnote/internal/output"
)

var exportOutFlag string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the messages directory as structured YAML",
	Long: `Convert the messages directory into a structured YAML
document: one entry per version, sections named canonically, bullet
markers stripped. Versions are ordered newest first.

Examples:
  relnote export                     # Write to stdout
  relnote export -o changelog.yaml   # Write to a file`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport(cmd)
	},
}

func init() {
	exportCmd.GroupID = GroupMaintain
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportOutFlag, "out", "o", "", "Output file (default stdout)")
}

func runExport(cmd *cobra.Command) error {
	cfg, err := loadConfiguration()
	if err != nil {
		return err
	}

	s, err := openStore(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	doc := export.FromStore(s, cfg.Project)

	if exportOutFlag == "" {
		return export.WriteYAML(doc, cmd.OutOrStdout())
	}

	f, err := os.Create(exportOutFlag)
	if err != nil {
		return fmt.Errorf("creating %s: %w", exportOutFlag, err)
	}
	defer f.Close()

	if err := export.WriteYAML(doc, f); err != nil {
		return err
	}
	output.PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("Exported %d versions → %s", s.VersionCount(), exportOutFlag))
	return nil
}
