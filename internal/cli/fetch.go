package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"github.com/timbrel/relnote/internal/output"
	"github.com/timbrel/relnote/internal/remote"
	"github.com/timbrel/relnote/internal/render"
	"github.com/timbrel/relnote/internal/store"
)

var fetchLastFlag int

var fetchCmd = &cobra.Command{
	Use:   "fetch [version]",
	Short: "Fetch release notes from the remote repository",
	Long: `Fetch the published messages directory from the project's
repository and show its entries. Falls back to the snapshot embedded
at build time when the network is unavailable.

Examples:
  relnote fetch             # Show the most recent remote entries
  relnote fetch 0.3.0       # Show one remote version
  relnote fetch --last 10   # Show 10 most recent remote entries`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFetch(cmd, args)
	},
}

func init() {
	fetchCmd.GroupID = GroupBrowse
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().IntVar(&fetchLastFlag, "last", 5, "Number of entries to show")
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfiguration()
	if err != nil {
		return err
	}

	baseURL := cfg.RemoteURL
	if baseURL == "" {
		baseURL = remote.DefaultBaseURL
	}

	ctx, cancel := context.WithTimeout(cmd.Context(),
		time.Duration(cfg.FetchTimeoutSeconds)*time.Second)
	defer cancel()

	s, isRemote, err := fetchWithSpinner(ctx, baseURL)
	if err != nil {
		if stderrors.Is(err, context.DeadlineExceeded) {
			return NewExitError(ExitTimeout)
		}
		return fmt.Errorf("fetching remote notes: %w", err)
	}
	if !isRemote {
		output.PrintHint(cmd.ErrOrStderr(), "Remote unavailable; showing the embedded snapshot.")
	}

	opts := render.FormatOptions{Plain: cfg.Plain}
	if len(args) == 1 {
		return showVersion(s, args[0], cmd, opts)
	}
	return showLastEntries(s, fetchLastFlag, cmd, opts)
}

// fetchWithSpinner runs the remote fetch behind a terminal spinner.
// The spinner only engages on a TTY so piped output stays clean.
func fetchWithSpinner(ctx context.Context, baseURL string) (*store.Store, bool, error) {
	if !output.IsTTY() {
		return remote.FetchWithFallback(ctx, baseURL)
	}

	sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	sp.Suffix = " Fetching release notes..."
	sp.Start()
	defer sp.Stop()

	return remote.FetchWithFallback(ctx, baseURL)
}
