// Package cli provides the Cobra command structure for turbocop.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/turbocop/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the turbocop command.
func NewRootCommand(info BuildInfo) *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:     "turbocop [paths...]",
		Short:   "A fast, cache-aware Ruby static analyzer",
		Long:    rootLongDescription,
		Version: info.Version,
		Args:    cobra.ArbitraryArgs,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if flags.debug {
				logging.SetLevel("debug")
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, args, info, flags)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(versionTemplate(info))
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})
	addRootFlags(rootCmd, flags)

	helpFormatter := NewHelpFormatter(flags.color, os.Stdout)
	helpFormatter.ApplyToCommand(rootCmd)

	return rootCmd
}

const rootLongDescription = `turbocop inspects Ruby source files and reports style and correctness
offenses. It reads .rubocop.yml configuration, including inherit_from
chains and plugin defaults, lints files in parallel, and caches results
per file so unchanged files are answered without parsing.

Examples:
  turbocop                              # Lint the current directory
  turbocop app lib/foo.rb               # Lint specific paths
  turbocop --only Layout,Lint/Debugger  # Run selected cops or departments
  turbocop --format json                # Machine-readable output
  turbocop --stdin app/models/user.rb < user.rb
  turbocop --fail-level warning --fail-fast`
