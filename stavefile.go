//go:build stave

package main

import (
	"bytes"
	"cmp"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/yaklabco/stave/pkg/sh"
	"github.com/yaklabco/stave/pkg/st"
	"github.com/yaklabco/stave/pkg/target"
)

const binary = "bin/turbocop"

// Default target runs build.
var Default = Build

// Aliases for common targets.
var Aliases = map[string]any{
	"b":    Build,
	"t":    Test.Default,
	"l":    Lint.Default,
	"c":    Check,
	"s":    Smoke,
	"cmp":  Bench.Compare,
	"cmpf": Bench.Fast,
}

// Namespace types group related targets.
type (
	Test  st.Namespace
	Lint  st.Namespace
	CI    st.Namespace
	Bench st.Namespace
)

// Build compiles bin/turbocop with version info when sources, embedded
// defaults or the module files changed.
func Build() error {
	rebuild, err := target.Dir(binary, "cmd/", "pkg/", "internal/", "go.mod")
	if err != nil {
		return err
	}
	if !rebuild {
		fmt.Println(binary, "is up to date")
		return nil
	}
	fmt.Println("Building turbocop...")
	return sh.RunV("go", "build", "-ldflags", ldflags(), "-o", binary, "./cmd/turbocop")
}

// Install installs turbocop to $GOBIN or $GOPATH/bin.
func Install() error {
	return sh.RunV("go", "install", "-ldflags", ldflags(), "./cmd/turbocop")
}

// Check runs lint, the test suite and the smoke run.
func Check() {
	st.SerialDeps(Lint.Default, Test.Default, Smoke)
}

// Smoke lints a scratch Ruby project with the built binary and checks the
// exit status, the reported cop, and that a warm cache run prints the same
// report as the cold one.
func Smoke() error {
	st.Deps(Build)
	bin, err := filepath.Abs(binary)
	if err != nil {
		return fmt.Errorf("resolve binary: %w", err)
	}

	project, err := os.MkdirTemp("", "turbocop-smoke-")
	if err != nil {
		return fmt.Errorf("create project: %w", err)
	}
	defer os.RemoveAll(project)

	files := map[string]string{
		".git/HEAD":    "ref: refs/heads/main\n",
		"lib/dirty.rb": "# frozen_string_literal: true\n\nx = 1   \n",
		"lib/clean.rb": "# frozen_string_literal: true\n\ny = 2\n",
	}
	for name, content := range files {
		path := filepath.Join(project, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return err
		}
	}

	env := map[string]string{"TURBOCOP_CACHE_DIR": filepath.Join(project, ".cache")}
	cold, code, err := lintIn(project, env, bin)
	if err != nil {
		return err
	}
	if code != 1 || !strings.Contains(cold, "lib/dirty.rb:3:6: C: Layout/TrailingWhitespace") {
		return fmt.Errorf("cold run: exit %d, output:\n%s", code, cold)
	}

	warm, code, err := lintIn(project, env, bin)
	if err != nil {
		return err
	}
	if code != 1 || warm != cold {
		return fmt.Errorf("warm run differs from cold run (exit %d):\n%s", code, warm)
	}
	fmt.Println("✓ smoke run OK")
	return nil
}

// Default runs all tests using gotestsum with race detection and coverage.
func (Test) Default() error {
	fmt.Println("Running tests...")
	nCores := cmp.Or(os.Getenv("STAVE_NUM_PROCESSORS"), "4")
	return sh.RunV("go",
		"tool", "gotestsum",
		"-f", "pkgname-and-test-fails",
		"--",
		"-race",
		"-p", nCores,
		"-parallel", nCores,
		"./...",
		"-coverprofile=coverage.out",
		"-covermode=atomic",
	)
}

// Cops runs the cop and directive suites only, for quick iteration on a
// single cop.
func (Test) Cops() error {
	return sh.RunV("go",
		"tool", "gotestsum",
		"-f", "testname",
		"--",
		"./pkg/lint/cops/...", "./pkg/lint/directive/...",
	)
}

// Default runs golangci-lint with auto-fix after gofmt.
func (Lint) Default() error {
	if err := sh.RunV("gofmt", "-w", "cmd", "internal", "pkg", "stavefile.go"); err != nil {
		return err
	}
	return sh.RunV("golangci-lint", "run", "--fix", "./...")
}

// CI fails on unformatted files and runs golangci-lint without fixes.
func (Lint) CI() error {
	out, err := sh.Output("gofmt", "-l", "cmd", "internal", "pkg")
	if err != nil {
		return fmt.Errorf("gofmt: %w", err)
	}
	if out != "" {
		return fmt.Errorf("unformatted files:\n%s", out)
	}
	return sh.RunV("golangci-lint", "run", "./...")
}

// Gate runs every check CI requires.
func (CI) Gate() {
	st.SerialDeps(Lint.CI, CI.ModTidy, CI.Cgo, Test.Default, Smoke)
	fmt.Println("\n✓ All CI gate checks passed!")
}

// ModTidy fails when go mod tidy would change go.mod or go.sum.
func (CI) ModTidy() error {
	before := readModFiles()
	if err := sh.RunV("go", "mod", "tidy"); err != nil {
		return err
	}
	if !bytes.Equal(before, readModFiles()) {
		return errors.New("go.mod or go.sum changed after 'go mod tidy'")
	}
	return nil
}

// Cgo builds the binary with cgo forced on. The Ruby parser binds a C
// grammar, so a CGO_ENABLED=0 toolchain cannot produce a binary.
func (CI) Cgo() error {
	env := map[string]string{"CGO_ENABLED": "1"}
	if err := sh.RunWith(env, "go", "build", "-o", os.DevNull, "./cmd/turbocop"); err != nil {
		return fmt.Errorf("cgo build failed: %w", err)
	}
	return nil
}

// Compare times turbocop against rubocop on $BENCH_DIR, cold and warm cache.
func (Bench) Compare() error {
	st.Deps(Build)
	dir, err := benchDir()
	if err != nil {
		return err
	}
	if err := exec.Command("rubocop", "--version").Run(); err != nil { //nolint:gosec // args are constant
		return errors.New("rubocop not found; install with: gem install rubocop")
	}

	cacheDir, err := os.MkdirTemp("", "turbocop-bench-")
	if err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	defer os.RemoveAll(cacheDir)

	bin, err := filepath.Abs(binary)
	if err != nil {
		return fmt.Errorf("resolve binary: %w", err)
	}
	env := map[string]string{"TURBOCOP_CACHE_DIR": cacheDir}

	runs := []struct {
		name string
		env  map[string]string
		cmd  string
		args []string
	}{
		{"turbocop (cold)", env, bin, []string{"--format", "summary"}},
		{"turbocop (warm)", env, bin, []string{"--format", "summary"}},
		{"turbocop (no cache)", nil, bin, []string{"--no-cache", "--format", "summary"}},
		{"rubocop", nil, "rubocop", []string{"--format", "progress"}},
	}
	for _, run := range runs {
		elapsed, err := timeIn(dir, run.env, run.cmd, run.args...)
		if err != nil {
			return fmt.Errorf("%s: %w", run.name, err)
		}
		fmt.Printf("%-22s %s\n", run.name, elapsed.Round(time.Millisecond))
	}
	return nil
}

// Fast runs turbocop twice on $BENCH_DIR to show the warm cache speedup.
func (Bench) Fast() error {
	st.Deps(Build)
	dir, err := benchDir()
	if err != nil {
		return err
	}
	bin, err := filepath.Abs(binary)
	if err != nil {
		return fmt.Errorf("resolve binary: %w", err)
	}
	for _, name := range []string{"cold", "warm"} {
		elapsed, err := timeIn(dir, nil, bin, "--format", "summary")
		if err != nil {
			return fmt.Errorf("%s run: %w", name, err)
		}
		fmt.Printf("turbocop (%s) %s\n", name, elapsed.Round(time.Millisecond))
	}
	return nil
}

func gitOutput(args ...string) string {
	out, err := sh.Output("git", args...)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

// ldflags injects the version shown by --version.
func ldflags() string {
	version := cmp.Or(gitOutput("describe", "--tags", "--always", "--dirty"), "dev")
	commit := cmp.Or(gitOutput("rev-parse", "--short", "HEAD"), "none")
	date := time.Now().UTC().Format(time.RFC3339)
	return fmt.Sprintf("-X main.version=%s -X main.commit=%s -X main.date=%s", version, commit, date)
}

// readModFiles concatenates go.mod and go.sum; a missing go.sum reads as
// empty.
func readModFiles() []byte {
	mod, _ := os.ReadFile("go.mod")
	sum, _ := os.ReadFile("go.sum")
	return append(mod, sum...)
}

// lintIn runs turbocop with --format simple in dir and returns its output
// and exit code.
func lintIn(dir string, env map[string]string, bin string) (string, int, error) {
	cmd := exec.Command(bin, "--format", "simple", "--color", "never") //nolint:gosec // built binary
	cmd.Dir = dir
	cmd.Env = os.Environ()
	for k, v := range env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}
	out, err := cmd.Output()

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return string(out), exitErr.ExitCode(), nil
	}
	if err != nil {
		return "", 0, fmt.Errorf("run %s: %w", bin, err)
	}
	return string(out), 0, nil
}

// benchDir returns the Ruby project to benchmark against.
func benchDir() (string, error) {
	dir := os.Getenv("BENCH_DIR")
	if dir == "" {
		return "", errors.New("set BENCH_DIR to a Ruby project checkout")
	}
	info, err := os.Stat(dir)
	if err != nil {
		return "", fmt.Errorf("bench dir: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("bench dir %s is not a directory", dir)
	}
	return dir, nil
}

// timeIn runs a command in dir and returns its wall time. Exit status 1
// means offenses were found and counts as success.
func timeIn(dir string, env map[string]string, name string, args ...string) (time.Duration, error) {
	cmd := exec.Command(name, args...) //nolint:gosec // bench inputs are trusted
	cmd.Dir = dir
	cmd.Env = os.Environ()
	for k, v := range env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}

	started := time.Now()
	err := cmd.Run()
	elapsed := time.Since(started)

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
		return elapsed, nil
	}
	return elapsed, err
}
