package runner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/yaklabco/turbocop/pkg/config"
	"github.com/yaklabco/turbocop/pkg/langdetect"
)

// Target is one file selected for linting.
type Target struct {
	// Path is the absolute path.
	Path string

	// Display is the path shown in output: relative to the working
	// directory when the file lies below it, absolute otherwise.
	Display string

	// Explicit is true when the file was named on the command line.
	Explicit bool
}

// discoverer holds the per-run state of a discovery.
type discoverer struct {
	opts      Options
	cfg       *config.Config
	workDir   string
	gitignore *ignore.GitIgnore
	prune     []string
}

// Discover finds the Ruby files selected by opts. Directories are walked;
// a file found there is linted when it matches AllCops.Include or is
// detected as Ruby by name or shebang, and does not match
// AllCops.Exclude. Explicitly named files are always linted unless
// ForceExclusion is set and they are excluded.
//
// The result is sorted by path and free of duplicates.
func Discover(ctx context.Context, opts Options) ([]Target, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	cfg := opts.Config
	if cfg == nil {
		cfg = config.New(nil, workDir)
	}

	d := &discoverer{
		opts:    opts,
		cfg:     cfg,
		workDir: workDir,
		prune:   prunePatterns(cfg.AllCops.Exclude),
	}
	if !opts.IgnoreGitignore {
		if gi, giErr := ignore.CompileIgnoreFile(filepath.Join(workDir, ".gitignore")); giErr == nil {
			d.gitignore = gi
		}
	}

	seen := make(map[string]struct{})
	var targets []Target
	add := func(t Target) {
		if _, ok := seen[t.Path]; ok {
			return
		}
		seen[t.Path] = struct{}{}
		targets = append(targets, t)
	}

	for _, inputPath := range opts.effectivePaths() {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("discovery cancelled: %w", ctx.Err())
		default:
		}

		absPath := inputPath
		if !filepath.IsAbs(inputPath) {
			absPath = filepath.Join(workDir, inputPath)
		}
		absPath = filepath.Clean(absPath)

		info, err := os.Stat(absPath)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", inputPath, err)
		}

		if !info.IsDir() {
			if opts.ForceExclusion && cfg.FileExcluded(absPath) {
				continue
			}
			add(Target{Path: absPath, Display: d.display(absPath), Explicit: true})
			continue
		}

		discovered, err := d.walk(ctx, absPath)
		if err != nil {
			return nil, err
		}
		for _, t := range discovered {
			add(t)
		}
	}

	sort.Slice(targets, func(i, j int) bool { return targets[i].Path < targets[j].Path })
	return targets, nil
}

// resolveWorkDir resolves the working directory, defaulting to os.Getwd().
func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	absPath, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return absPath, nil
}

// prunePatterns returns the directory prefixes of Exclude patterns that
// cover a whole tree, such as "vendor/**/*". Matching directories are not
// descended into.
func prunePatterns(exclude []string) []string {
	var out []string
	for _, pattern := range exclude {
		for _, suffix := range []string{"/**/*", "/**"} {
			if prefix, ok := strings.CutSuffix(pattern, suffix); ok && prefix != "" {
				out = append(out, prefix)
				break
			}
		}
	}
	return out
}

func (d *discoverer) display(absPath string) string {
	rel, err := filepath.Rel(d.workDir, absPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return absPath
	}
	return rel
}

// ignored reports whether .gitignore excludes the path.
func (d *discoverer) ignored(absPath string, isDir bool) bool {
	if d.gitignore == nil {
		return false
	}
	rel := d.display(absPath)
	if filepath.IsAbs(rel) {
		return false
	}
	rel = filepath.ToSlash(rel)
	if isDir {
		return d.gitignore.MatchesPath(rel) || d.gitignore.MatchesPath(rel+"/")
	}
	return d.gitignore.MatchesPath(rel)
}

func (d *discoverer) pruned(dir string) bool {
	return d.cfg.Matcher().MatchAny(d.prune, dir)
}

// walk recursively walks a directory and returns the Ruby files below it.
func (d *discoverer) walk(ctx context.Context, root string) ([]Target, error) {
	var targets []Target

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if walkErr != nil {
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}

		if entry.IsDir() {
			if path == root {
				return nil
			}
			if strings.HasPrefix(entry.Name(), ".") || d.pruned(path) || d.ignored(path, true) {
				return filepath.SkipDir
			}
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			realPath, evalErr := filepath.EvalSymlinks(path)
			if evalErr != nil {
				return nil //nolint:nilerr // Intentionally skip broken symlinks
			}
			info, statErr := os.Stat(realPath)
			if statErr != nil {
				return nil //nolint:nilerr // Intentionally skip inaccessible symlink targets
			}
			if info.IsDir() {
				if !d.opts.FollowSymlinks {
					return nil
				}
				// Walk the target, not the link; WalkDir uses Lstat on root.
				sub, err := d.walk(ctx, realPath)
				if err != nil {
					return err
				}
				targets = append(targets, sub...)
				return nil
			}
		}

		if d.selects(path) {
			targets = append(targets, Target{Path: path, Display: d.display(path)})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory %s: %w", root, err)
	}

	return targets, nil
}

// selects decides whether a file found by walking is linted.
func (d *discoverer) selects(path string) bool {
	if d.cfg.FileExcluded(path) || d.ignored(path, false) {
		return false
	}
	return d.cfg.FileIncluded(path) || langdetect.IsRuby(path)
}
