package cli

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/turbocop/internal/configloader"
	"github.com/yaklabco/turbocop/internal/logging"
	"github.com/yaklabco/turbocop/pkg/config"
)

// runInit writes a .rubocop.yml listing every registered cop.
func runInit(ctx context.Context, cmd *cobra.Command, workDir string) error {
	logger := logging.NewInteractive()
	logger.SetOutput(cmd.OutOrStdout())

	in := cmd.InOrStdin()
	interactive := false
	if f, ok := in.(*os.File); ok {
		interactive = term.IsTerminal(int(f.Fd()))
	}

	path, err := configloader.InitConfig(ctx, configloader.InitOptions{
		Dir:            workDir,
		NonInteractive: !interactive,
		In:             in,
		Out:            cmd.OutOrStdout(),
		Template:       config.TemplateOptions{Full: true},
	})
	if errors.Is(err, configloader.ErrConfigExists) {
		return usageError(err)
	}
	if err != nil {
		return err
	}

	logger.Info("created configuration file", logging.FieldPath, path)
	return nil
}
