package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/timbrel/relnote/internal/output"
	"github.com/timbrel/relnote/internal/store"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Reload and list versions as note files change",
	Long: `Watch the messages directory and reload the store whenever a
note file or the index changes, printing the version list after each
reload. Useful while drafting a release note. Stop with Ctrl-C.

Example:
  relnote watch`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWatch(cmd)
	},
}

func init() {
	watchCmd.GroupID = GroupMaintain
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command) error {
	cfg, err := loadConfiguration()
	if err != nil {
		return err
	}

	s, err := openStore(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	w, err := store.NewWatcher(s)
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer w.Close()

	printVersionSummary(cmd, s)
	fmt.Fprintf(cmd.OutOrStdout(), "Watching %s for changes (Ctrl-C to stop)...\n", cfg.MessagesDir)

	for reload := range w.Watch(cmd.Context()) {
		if reload.Err != nil {
			output.PrintFailure(cmd.OutOrStdout(), fmt.Sprintf("reload failed: %v", reload.Err))
			continue
		}
		output.PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("reloaded %d versions", reload.Versions))
		printVersionSummary(cmd, s)
	}
	return nil
}

func printVersionSummary(cmd *cobra.Command, s *store.Store) {
	for _, v := range s.Versions() {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", v)
	}
}
