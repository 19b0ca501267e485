package cli

import "fmt"

// versionTemplate renders --version output.
func versionTemplate(info BuildInfo) string {
	return fmt.Sprintf("turbocop {{.Version}} (commit %s, built %s)\n", info.Commit, info.Date)
}
