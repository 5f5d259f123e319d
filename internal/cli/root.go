// Package cli wires the relnote commands. Commands read the store
// through helpers in this package and report failures as structured
// CLIErrors with distinct exit codes for CI use.
package cli

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/timbrel/relnote/internal/config"
	"github.com/timbrel/relnote/internal/errors"
	"github.com/timbrel/relnote/internal/gitrepo"
)

// Command group identifiers for help output.
const (
	GroupBrowse   = "browse"
	GroupMaintain = "maintain"
)

var (
	configFlag      string
	messagesDirFlag string
	plainFlag       bool
	debugFlag       bool
)

var rootCmd = &cobra.Command{
	Use:   "relnote",
	Short: "Manage version-keyed release notes",
	Long: `relnote manages a messages directory of plain-text release notes,
one document per shipped version (messages/2.19.0.txt), optionally
indexed by a messages.json file.

It lists, shows, and renders notes ordered by semantic version,
verifies them against git release tags, and exports them as
structured YAML.`,
	Example: `  # Show the five most recent entries
  relnote show

  # Show the notes for one version
  relnote show 2.19.0

  # Regenerate CHANGELOG.md from the messages directory
  relnote render

  # Verify notes against the repository's release tags
  relnote check --tags`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if debugFlag {
			gitrepo.SetDebugLogger(func(format string, args ...any) {
				fmt.Fprintf(cmd.ErrOrStderr(), format+"\n", args...)
			})
		}
	},
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupBrowse, Title: "Browsing Commands:"},
		&cobra.Group{ID: GroupMaintain, Title: "Maintenance Commands:"},
	)

	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Path to project config file")
	rootCmd.PersistentFlags().StringVar(&messagesDirFlag, "messages-dir", "", "Messages directory (default \"messages\")")
	rootCmd.PersistentFlags().BoolVar(&plainFlag, "plain", false, "Plain text output (no colors/icons)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug logging")
}

// Execute runs the root command. Structured errors are printed with
// remediation guidance; exit codes pass through ExitError.
func Execute() error {
	err := rootCmd.Execute()
	if err == nil {
		return nil
	}

	var exitErr *ExitError
	if stderrors.As(err, &exitErr) {
		os.Exit(exitErr.Code)
	}

	var cliErr *errors.CLIError
	if stderrors.As(err, &cliErr) {
		fmt.Fprint(os.Stderr, errors.FormatError(cliErr))
		os.Exit(ExitFailure)
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return err
}

// loadConfiguration loads the layered config and applies flag overrides.
func loadConfiguration() (*config.Configuration, error) {
	cfg, err := config.Load(configFlag)
	if err != nil {
		return nil, errors.NewConfigError(
			fmt.Sprintf("loading configuration: %v", err),
			"Check the syntax of .relnote.yml",
			"Run with --config to point at a specific config file",
		)
	}

	if messagesDirFlag != "" {
		cfg.MessagesDir = messagesDirFlag
	}
	if plainFlag {
		cfg.Plain = true
	}
	if cfg.Project == "" {
		cfg.Project = deriveProjectName(cfg.MessagesDir)
	}
	return cfg, nil
}

// deriveProjectName falls back to the directory containing the
// messages directory, which for plugin repos is the plugin name.
func deriveProjectName(messagesDir string) string {
	abs, err := filepath.Abs(messagesDir)
	if err != nil {
		return ""
	}
	return filepath.Base(filepath.Dir(abs))
}
