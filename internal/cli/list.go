package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var listCountsFlag bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List versions, newest first",
	Long: `List every version in the messages directory, ordered by
semantic version with the newest first. The special "unreleased"
identifier, when present, sorts above all releases.

Examples:
  relnote list
  relnote list --counts   # Include per-version entry counts`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runList(cmd)
	},
}

func init() {
	listCmd.GroupID = GroupBrowse
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().BoolVar(&listCountsFlag, "counts", false, "Show entry counts per version")
}

func runList(cmd *cobra.Command) error {
	cfg, err := loadConfiguration()
	if err != nil {
		return err
	}

	s, err := openStore(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	notes := s.Notes()
	if len(notes) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No release notes found.")
		return nil
	}

	dim := color.New(color.Faint).SprintFunc()
	for _, n := range notes {
		line := n.Version
		if listCountsFlag {
			suffix := fmt.Sprintf("(%d entries)", n.EntryCount())
			if cfg.Plain {
				line = fmt.Sprintf("%-14s %s", line, suffix)
			} else {
				line = fmt.Sprintf("%-14s %s", line, dim(suffix))
			}
		}
		fmt.Fprintln(cmd.OutOrStdout(), line)
	}
	return nil
}
