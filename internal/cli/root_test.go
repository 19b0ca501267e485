package cli_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/turbocop/internal/cli"
	"github.com/yaklabco/turbocop/pkg/lint"
)

const (
	cleanSource    = "# frozen_string_literal: true\n\nx = 1\n"
	trailingSource = "# frozen_string_literal: true\n\nx = 1   \n"
)

func TestNewRootCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo)
	require.NotNil(t, cmd)
	assert.Equal(t, "turbocop", cmd.Name())
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)
	assert.Empty(t, cmd.Commands())

	for _, name := range []string{
		"config", "format", "only", "except", "stdin", "list-cops", "rubocop-only",
		"cache", "no-cache", "cache-clear", "fail-level", "fail-fast",
		"force-exclusion", "init", "jobs", "debug", "color",
	} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "flag %q", name)
	}
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, cli.ExitSuccess, cli.ExitCode(nil))
	assert.Equal(t, cli.ExitOffenses, cli.ExitCode(cli.ErrOffensesFound))
	assert.Equal(t, cli.ExitOffenses, cli.ExitCode(fmt.Errorf("wrapped: %w", cli.ErrOffensesFound)))
	assert.Equal(t, cli.ExitError, cli.ExitCode(cli.ErrUsage))
	assert.Equal(t, cli.ExitError, cli.ExitCode(errors.New("boom")))
}

func TestVersionFlag(t *testing.T) {
	newProject(t)

	out, err := execute(t, "", "--version")
	require.NoError(t, err)
	assert.Equal(t, "turbocop 1.2.3 (commit abc123, built 2026-01-01)\n", out)
}

func TestHelpGroupsFlags(t *testing.T) {
	newProject(t)

	out, err := execute(t, "", "--help")
	require.NoError(t, err)
	for _, heading := range []string{"Usage:", "Cop selection:", "Output:", "Run control:", "Cache:", "Information:"} {
		assert.Contains(t, out, heading)
	}
	assert.Contains(t, out, "--fail-level")
	assert.Less(t, strings.Index(out, "Cop selection:"), strings.Index(out, "Cache:"))
}

func TestCleanProjectExitsZero(t *testing.T) {
	dir := newProject(t)
	writeFile(t, dir, "app/clean.rb", cleanSource)

	out, err := execute(t, "")
	require.NoError(t, err)
	assert.Contains(t, out, "1 file inspected, no offenses detected")
}

func TestOffensesExitOne(t *testing.T) {
	dir := newProject(t)
	writeFile(t, dir, "a.rb", trailingSource)

	out, err := execute(t, "")
	require.ErrorIs(t, err, cli.ErrOffensesFound)
	assert.Equal(t, cli.ExitOffenses, cli.ExitCode(err))
	assert.Contains(t, out, "a.rb:3:6: C: Layout/TrailingWhitespace: Trailing whitespace detected.")
	assert.Contains(t, out, "1 file inspected, 1 offense detected")
}

func TestFailLevelAboveOffensesExitsZero(t *testing.T) {
	dir := newProject(t)
	writeFile(t, dir, "a.rb", trailingSource)

	out, err := execute(t, "", "--fail-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "Layout/TrailingWhitespace")
}

func TestInvalidFlagsExitTwo(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "unknown format", args: []string{"--format", "xml"}},
		{name: "unknown fail level", args: []string{"--fail-level", "loud"}},
		{name: "bad cache value", args: []string{"--cache", "maybe"}},
		{name: "unknown flag", args: []string{"--no-such-flag"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			newProject(t)

			_, err := execute(t, "", tt.args...)
			require.ErrorIs(t, err, cli.ErrUsage)
			assert.Equal(t, cli.ExitError, cli.ExitCode(err))
		})
	}
}

func TestBrokenConfigExitsTwo(t *testing.T) {
	dir := newProject(t)
	writeFile(t, dir, ".rubocop.yml", "AllCops: [unclosed\n")
	writeFile(t, dir, "a.rb", cleanSource)

	_, err := execute(t, "")
	require.Error(t, err)
	assert.NotErrorIs(t, err, cli.ErrOffensesFound)
	assert.Equal(t, cli.ExitError, cli.ExitCode(err))
}

func TestOnlyAndExcept(t *testing.T) {
	dir := newProject(t)
	writeFile(t, dir, "a.rb", "x = 1  \n")

	out, err := execute(t, "", "--only", "Layout")
	require.ErrorIs(t, err, cli.ErrOffensesFound)
	assert.Contains(t, out, "Layout/TrailingWhitespace")
	assert.NotContains(t, out, "Style/FrozenStringLiteralComment")

	out, err = execute(t, "", "--except", "Layout/TrailingWhitespace,Style/FrozenStringLiteralComment")
	require.NoError(t, err)
	assert.NotContains(t, out, "Layout/TrailingWhitespace")
}

func TestConfigFlag(t *testing.T) {
	dir := newProject(t)
	writeFile(t, dir, "a.rb", trailingSource)
	cfg := writeFile(t, dir, "config/custom.yml", "Layout/TrailingWhitespace:\n  Enabled: false\n")

	_, err := execute(t, "", "--config", cfg)
	require.NoError(t, err)
}

func TestJSONFormat(t *testing.T) {
	dir := newProject(t)
	writeFile(t, dir, "a.rb", trailingSource)
	writeFile(t, dir, "b.rb", cleanSource)

	out, err := execute(t, "", "--format", "json")
	require.ErrorIs(t, err, cli.ErrOffensesFound)

	var doc struct {
		Metadata struct {
			Version string `json:"turbocop_version"`
		} `json:"metadata"`
		Files []struct {
			Path     string `json:"path"`
			Offenses []struct {
				CopName  string `json:"cop_name"`
				Severity string `json:"severity"`
				Location struct {
					Line   int `json:"line"`
					Column int `json:"column"`
				} `json:"location"`
			} `json:"offenses"`
		} `json:"files"`
		Summary struct {
			OffenseCount int `json:"offense_count"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))

	assert.Equal(t, "1.2.3", doc.Metadata.Version)
	assert.Equal(t, 1, doc.Summary.OffenseCount)
	require.Len(t, doc.Files, 2)
	assert.Equal(t, "a.rb", doc.Files[0].Path)
	require.Len(t, doc.Files[0].Offenses, 1)
	assert.Equal(t, "Layout/TrailingWhitespace", doc.Files[0].Offenses[0].CopName)
	assert.Equal(t, "convention", doc.Files[0].Offenses[0].Severity)
	assert.Equal(t, 3, doc.Files[0].Offenses[0].Location.Line)
	assert.Equal(t, 6, doc.Files[0].Offenses[0].Location.Column)
	assert.Empty(t, doc.Files[1].Offenses)
}

func TestStdin(t *testing.T) {
	dir := newProject(t)
	writeFile(t, dir, "app/models/user.rb", cleanSource)

	out, err := execute(t, trailingSource, "--stdin", "app/models/user.rb")
	require.ErrorIs(t, err, cli.ErrOffensesFound)
	assert.Contains(t, out, "app/models/user.rb:3:6: C: Layout/TrailingWhitespace")

	_, err = execute(t, cleanSource, "--stdin", "app/models/user.rb", "other.rb")
	require.ErrorIs(t, err, cli.ErrUsage)
}

func TestListCops(t *testing.T) {
	newProject(t)

	out, err := execute(t, "", "--list-cops")
	require.NoError(t, err)
	assert.Equal(t, lint.DefaultRegistry.Names(), strings.Fields(out))
	assert.Contains(t, out, "Layout/TrailingWhitespace\n")
}

func TestRubocopOnly(t *testing.T) {
	dir := newProject(t)
	writeFile(t, dir, ".rubocop.yml", "Custom/Unimplemented:\n  Enabled: true\n")

	out, err := execute(t, "", "--rubocop-only")
	require.NoError(t, err)
	assert.Contains(t, strings.Fields(out), "Custom/Unimplemented")
	assert.NotContains(t, strings.Fields(out), "Layout/TrailingWhitespace")
}

func TestInitWritesConfig(t *testing.T) {
	dir := newProject(t)

	_, err := execute(t, "", "--init")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, ".rubocop.yml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Layout/TrailingWhitespace:")

	_, err = execute(t, "", "--init")
	require.ErrorIs(t, err, cli.ErrUsage)
}

func TestCacheReuseAndClear(t *testing.T) {
	dir := newProject(t)
	writeFile(t, dir, "a.rb", trailingSource)
	cacheDir := os.Getenv("TURBOCOP_CACHE_DIR")

	cold, err := execute(t, "")
	require.ErrorIs(t, err, cli.ErrOffensesFound)
	entries, err := os.ReadDir(cacheDir)
	require.NoError(t, err)
	assert.NotEmpty(t, entries)

	warm, err := execute(t, "")
	require.ErrorIs(t, err, cli.ErrOffensesFound)
	assert.Equal(t, cold, warm)

	_, err = execute(t, "", "--cache-clear")
	require.NoError(t, err)
	entries, err = os.ReadDir(cacheDir)
	if err == nil {
		assert.Empty(t, entries)
	}
}

func TestNoCacheWritesNothing(t *testing.T) {
	dir := newProject(t)
	writeFile(t, dir, "a.rb", cleanSource)

	_, err := execute(t, "", "--no-cache")
	require.NoError(t, err)
	_, err = os.Stat(os.Getenv("TURBOCOP_CACHE_DIR"))
	assert.True(t, os.IsNotExist(err))

	_, err = execute(t, "", "--cache", "false")
	require.NoError(t, err)
	_, err = os.Stat(os.Getenv("TURBOCOP_CACHE_DIR"))
	assert.True(t, os.IsNotExist(err))
}

func TestSummaryFormat(t *testing.T) {
	dir := newProject(t)
	writeFile(t, dir, "a.rb", trailingSource)

	out, err := execute(t, "", "--format", "summary")
	require.ErrorIs(t, err, cli.ErrOffensesFound)
	assert.Contains(t, out, "Layout/TrailingWhitespace")
	assert.Contains(t, out, "1 file inspected, 1 offense detected")
}
