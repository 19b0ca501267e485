package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/turbocop/internal/configloader"
	"github.com/yaklabco/turbocop/internal/logging"
	"github.com/yaklabco/turbocop/pkg/cache"
	"github.com/yaklabco/turbocop/pkg/config"
	"github.com/yaklabco/turbocop/pkg/lint"
	_ "github.com/yaklabco/turbocop/pkg/lint/cops" // Register built-in cops
	"github.com/yaklabco/turbocop/pkg/parser/treesitter"
	"github.com/yaklabco/turbocop/pkg/reporter"
	"github.com/yaklabco/turbocop/pkg/runner"
)

type rootFlags struct {
	debug          bool
	color          string
	configPath     string
	format         string
	only           []string
	except         []string
	stdin          string
	listCops       bool
	rubocopOnly    bool
	cache          string
	noCache        bool
	cacheClear     bool
	failLevel      string
	failFast       bool
	forceExclusion bool
	initConfig     bool
	jobs           int
	showContext    bool
	showStats      bool
	compact        bool
	filesFirst     bool
}

func addRootFlags(cmd *cobra.Command, flags *rootFlags) {
	f := cmd.Flags()
	f.BoolVar(&flags.debug, "debug", false, "enable debug logging")
	f.StringVar(&flags.color, "color", "auto", "colorize output: auto, always, never")
	f.StringVarP(&flags.configPath, "config", "c", "", "path to config file")
	f.StringVarP(&flags.format, "format", "f", "text", "output format: text, json, summary, sarif")
	f.StringSliceVar(&flags.only, "only", nil, "run only the given cops or departments (comma separated)")
	f.StringSliceVar(&flags.except, "except", nil, "skip the given cops or departments (comma separated)")
	f.StringVarP(&flags.stdin, "stdin", "s", "", "read source from stdin and lint it as the given path")
	f.BoolVar(&flags.listCops, "list-cops", false, "print every registered cop name and exit")
	f.BoolVar(&flags.rubocopOnly, "rubocop-only", false, "print configured cops this tool does not implement and exit")
	f.StringVar(&flags.cache, "cache", "", "use the result cache: true or false (default true)")
	f.BoolVar(&flags.noCache, "no-cache", false, "disable the result cache")
	f.BoolVar(&flags.cacheClear, "cache-clear", false, "remove all cached results and exit")
	f.StringVar(&flags.failLevel, "fail-level", "convention", "minimum severity that makes the run fail")
	f.BoolVarP(&flags.failFast, "fail-fast", "F", false, "stop scheduling files after the first failing file")
	f.BoolVar(&flags.forceExclusion, "force-exclusion", false, "apply AllCops Exclude to explicitly passed files")
	f.BoolVar(&flags.initConfig, "init", false, "write a .rubocop.yml template into the current directory")
	f.IntVarP(&flags.jobs, "jobs", "j", 0, "number of parallel workers (0 = auto)")
	f.BoolVar(&flags.showContext, "display-context", false, "print the source line under each offense (text format)")
	f.BoolVar(&flags.showStats, "stats", false, "print run statistics after the offenses (text format)")
	f.BoolVar(&flags.compact, "compact", false, "minified JSON and SARIF output")
	f.BoolVar(&flags.filesFirst, "files-first", false, "list the file table before the cop table (summary format)")

	SetFlagGroup(cmd, groupSelection, "config", "only", "except", "force-exclusion")
	SetFlagGroup(cmd, groupOutput, "format", "color", "display-context", "stats", "compact", "files-first")
	SetFlagGroup(cmd, groupRun, "stdin", "jobs", "fail-level", "fail-fast", "debug")
	SetFlagGroup(cmd, groupCache, "cache", "no-cache", "cache-clear")
	SetFlagGroup(cmd, groupInfo, "list-cops", "rubocop-only", "init")
}

func usageError(err error) error {
	return fmt.Errorf("%w: %w", ErrUsage, err)
}

// runSettings is the validated form of the flags.
type runSettings struct {
	format    reporter.Format
	failLevel config.Severity
	filter    config.Filter
	useCache  bool
	jobs      int
	env       configloader.EnvSettings
}

func resolveSettings(cmd *cobra.Command, flags *rootFlags) (*runSettings, error) {
	env, err := configloader.LoadEnv()
	if err != nil {
		return nil, usageError(err)
	}

	format, err := reporter.ParseFormat(flags.format)
	if err != nil {
		return nil, usageError(err)
	}

	failLevel, err := config.ParseSeverity(flags.failLevel)
	if err != nil {
		return nil, usageError(fmt.Errorf("--fail-level: %w", err))
	}

	useCache := true
	if env.Cache != nil {
		useCache = *env.Cache
	}
	if cmd.Flags().Changed("cache") {
		useCache, err = strconv.ParseBool(flags.cache)
		if err != nil {
			return nil, usageError(fmt.Errorf("--cache expects true or false, got %q", flags.cache))
		}
	}
	if flags.noCache {
		useCache = false
	}

	jobs := flags.jobs
	if !cmd.Flags().Changed("jobs") && env.Jobs > 0 {
		jobs = env.Jobs
	}
	if jobs < 0 {
		return nil, usageError(fmt.Errorf("--jobs must not be negative, got %d", jobs))
	}

	return &runSettings{
		format:    format,
		failLevel: failLevel,
		filter:    config.Filter{Only: flags.only, Except: flags.except},
		useCache:  useCache,
		jobs:      jobs,
		env:       env,
	}, nil
}

func runRoot(cmd *cobra.Command, args []string, info BuildInfo, flags *rootFlags) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := logging.FromContext(ctx)
	out := cmd.OutOrStdout()

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	registry := lint.DefaultRegistry

	switch {
	case flags.listCops:
		return listCops(out, registry)
	case flags.initConfig:
		return runInit(ctx, cmd, workDir)
	}

	settings, err := resolveSettings(cmd, flags)
	if err != nil {
		return err
	}

	if flags.cacheClear {
		return clearCache(settings.env, logger)
	}

	if flags.stdin != "" && len(args) > 0 {
		return usageError(errors.New("--stdin does not accept path arguments"))
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: flags.configPath,
	})
	if err != nil {
		return err
	}
	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	logger.Debug("configuration loaded", logging.FieldLayers, loadResult.LoadedFrom)

	cfg := loadResult.Config
	if flags.rubocopOnly {
		return listUnimplemented(out, cfg, registry)
	}
	warnUnknownFilterNames(logger, settings.filter, registry)

	runOpts := runner.Options{
		Paths:          args,
		WorkingDir:     workDir,
		Config:         cfg,
		Lint:           lint.Options{Filter: settings.filter},
		Jobs:           settings.jobs,
		FailLevel:      settings.failLevel,
		FailFast:       flags.failFast,
		ForceExclusion: flags.forceExclusion,
	}

	lintRunner := runner.New(lint.NewPipeline(lint.NewEngine(treesitter.New(), registry)))
	started := time.Now()

	var result *runner.Result
	if flags.stdin != "" {
		result, err = lintStdin(ctx, cmd, lintRunner, flags.stdin, runOpts, logger)
	} else {
		if settings.useCache {
			if session := openSession(ctx, info, cfg, settings, registry, logger); session != nil {
				runOpts.Cache = session
			}
		}
		logger.Debug("starting run",
			logging.FieldPaths, runOpts.Paths,
			logging.FieldWorkingDir, workDir,
			logging.FieldJobs, runOpts.Jobs,
		)
		result, err = lintRunner.Run(ctx, runOpts)
	}
	if err != nil {
		return fmt.Errorf("lint run failed: %w", err)
	}

	logger.Debug("run finished",
		logging.FieldFilesDiscovered, result.Stats.FilesDiscovered,
		logging.FieldFilesInspected, result.Stats.FilesInspected,
		logging.FieldFilesSkipped, result.Stats.FilesSkipped,
		logging.FieldOffensesTotal, result.Stats.OffensesTotal,
		logging.FieldCacheHits, result.CacheHits(),
		logging.FieldCacheMisses, result.Stats.CacheMisses,
		logging.FieldCacheErrors, result.Stats.CacheErrors,
		logging.FieldElapsed, time.Since(started),
	)

	rep, err := reporter.New(reporter.Options{
		Writer:      out,
		Format:      settings.format,
		Color:       flags.color,
		ShowContext: flags.showContext,
		ShowStats:   flags.showStats,
		Compact:     flags.compact,
		FilesFirst:  flags.filesFirst,
		WorkingDir:  workDir,
		ToolVersion: info.Version,
	})
	if err != nil {
		return usageError(err)
	}
	if _, err := rep.Report(ctx, result); err != nil {
		return fmt.Errorf("report results: %w", err)
	}

	if result.Failed(settings.failLevel) {
		return ErrOffensesFound
	}
	return nil
}

// lintStdin lints standard input under displayPath. Results for stdin are
// never cached.
func lintStdin(
	ctx context.Context,
	cmd *cobra.Command,
	lintRunner *runner.Runner,
	displayPath string,
	opts runner.Options,
	logger *log.Logger,
) (*runner.Result, error) {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		logger.Warn("reading source from the terminal; end input with Ctrl-D")
	}

	content, err := io.ReadAll(in)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return lintRunner.RunContent(ctx, displayPath, content, opts)
}

// cacheRoot returns the cache directory from the environment or the
// platform default.
func cacheRoot(env configloader.EnvSettings) (string, error) {
	if env.CacheDir != "" {
		return env.CacheDir, nil
	}
	return cache.DefaultRoot()
}

// openSession opens the result cache for this run. Failures disable the
// cache instead of failing the run.
func openSession(
	ctx context.Context,
	info BuildInfo,
	cfg *config.Config,
	settings *runSettings,
	registry *lint.Registry,
	logger *log.Logger,
) *cache.Session {
	root, err := cacheRoot(settings.env)
	if err != nil {
		logger.Debug("cache disabled", logging.FieldError, err)
		return nil
	}
	c, err := cache.Open(root)
	if err != nil {
		logger.Debug("cache disabled", logging.FieldCacheDir, root, logging.FieldError, err)
		return nil
	}

	hash := cache.SessionHash(info.Version, cfg.Fingerprint(), settings.filter, strings.Join(registry.Names(), ","))
	session, err := c.Session(ctx, hash)
	if err != nil {
		logger.Debug("cache disabled", logging.FieldCacheDir, root, logging.FieldError, err)
		return nil
	}
	logger.Debug("cache enabled", logging.FieldCacheDir, root, logging.FieldSession, hash)
	return session
}

func clearCache(env configloader.EnvSettings, logger *log.Logger) error {
	root, err := cacheRoot(env)
	if err != nil {
		return fmt.Errorf("locate cache: %w", err)
	}
	c, err := cache.Open(root)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	if err := c.Clear(); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	logger.Debug("cache cleared", logging.FieldCacheDir, c.Root())
	return nil
}

// warnUnknownFilterNames logs --only / --except entries that name neither a
// registered cop nor a department.
func warnUnknownFilterNames(logger *log.Logger, filter config.Filter, registry *lint.Registry) {
	for _, name := range append(append([]string(nil), filter.Only...), filter.Except...) {
		if registry.Has(name) || registry.HasDepartment(name) {
			continue
		}
		logger.Warn("unrecognized cop or department", logging.FieldCop, name)
	}
}
