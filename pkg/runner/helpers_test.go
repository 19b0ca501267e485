package runner_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yaklabco/turbocop/internal/configloader"
	"github.com/yaklabco/turbocop/pkg/config"
	"github.com/yaklabco/turbocop/pkg/lint"
	"github.com/yaklabco/turbocop/pkg/lint/cops"
	"github.com/yaklabco/turbocop/pkg/parser/treesitter"
	"github.com/yaklabco/turbocop/pkg/runner"
)

// newProject creates a temp directory marked as a VCS root so config
// discovery never leaves it.
func newProject(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))
	return dir
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func loadConfig(t *testing.T, dir, explicit string) *config.Config {
	t.Helper()

	result, err := configloader.Load(context.Background(), configloader.LoadOptions{
		WorkingDir:       dir,
		ExplicitPath:     explicit,
		IgnoreUserConfig: true,
	})
	require.NoError(t, err)
	return result.Config
}

func newRunner() *runner.Runner {
	registry := lint.NewRegistry()
	cops.RegisterAll(registry)
	return runner.New(lint.NewPipeline(lint.NewEngine(treesitter.New(), registry)))
}

type found struct {
	Path string
	Line int
	Col  int
	Cop  string
}

func summarize(offenses []lint.Offense) []found {
	out := make([]found, 0, len(offenses))
	for _, o := range offenses {
		out = append(out, found{Path: o.Path, Line: o.Line, Col: o.Column, Cop: o.CopName})
	}
	return out
}
