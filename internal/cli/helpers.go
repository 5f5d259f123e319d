package cli

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/timbrel/relnote/internal/config"
	"github.com/timbrel/relnote/internal/errors"
	"github.com/timbrel/relnote/internal/store"
)

// openStore opens and loads the configured messages directory.
func openStore(ctx context.Context, cfg *config.Configuration) (*store.Store, error) {
	s, err := store.Open(cfg.MessagesDir)
	if err != nil {
		return nil, errors.NewPrerequisiteError(
			fmt.Sprintf("cannot open messages directory %q: %v", cfg.MessagesDir, err),
			"Run relnote from the repository root",
			"Use --messages-dir to point at the release-note directory",
			"Run `relnote new <version>` to start a messages directory",
		)
	}

	if err := s.Load(ctx); err != nil {
		var dup *store.DuplicateVersionError
		if stderrors.As(err, &dup) {
			return nil, errors.NewPrerequisiteError(
				dup.Error(),
				"Each version must map to exactly one document",
				"Remove or rename one of the conflicting files",
			)
		}
		return nil, errors.Wrap(err, "loading release notes")
	}
	return s, nil
}

// reportVersionNotFound prints the available versions to stderr and
// returns the invalid-arguments exit code.
func reportVersionNotFound(cmd *cobra.Command, version string, available []string) error {
	fmt.Fprintf(cmd.ErrOrStderr(), "Version %q not found.\n\n", version)
	fmt.Fprintf(cmd.ErrOrStderr(), "Available versions:\n")
	for _, v := range available {
		fmt.Fprintf(cmd.ErrOrStderr(), "  %s\n", v)
	}
	return NewExitError(ExitInvalidArguments)
}
