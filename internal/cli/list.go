package cli

import (
	"fmt"
	"io"

	"github.com/yaklabco/turbocop/pkg/config"
	"github.com/yaklabco/turbocop/pkg/lint"
)

// listCops prints every registered cop, sorted, one per line.
func listCops(out io.Writer, registry *lint.Registry) error {
	for _, name := range registry.Names() {
		if _, err := fmt.Fprintln(out, name); err != nil {
			return fmt.Errorf("write cop list: %w", err)
		}
	}
	return nil
}

// listUnimplemented prints the cops the configuration enables that are not
// registered, so they can be routed to a companion linter.
func listUnimplemented(out io.Writer, cfg *config.Config, registry *lint.Registry) error {
	for _, name := range cfg.ReferencedCopNames() {
		if registry.Has(name) {
			continue
		}
		if _, err := fmt.Fprintln(out, name); err != nil {
			return fmt.Errorf("write cop list: %w", err)
		}
	}
	return nil
}
