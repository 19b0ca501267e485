package lint

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/yaklabco/turbocop/pkg/config"
	"github.com/yaklabco/turbocop/pkg/fsutil"
)

// Pipeline error types for categorization.
var (
	// ErrFileNotFound indicates the file does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrPermissionDenied indicates a permission error.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNotAFile indicates the path is a directory or special file.
	ErrNotAFile = errors.New("not a regular file")
)

// CacheKey identifies a file state for the result cache.
type CacheKey struct {
	// Path is the absolute path of the file.
	Path string

	// ModTime and Size come from stat.
	ModTime time.Time
	Size    int64

	// Digest is the hex SHA-256 of the content. It is empty for stat
	// lookups.
	Digest string
}

// ResultCache stores the final offenses of a file. Implementations are
// bound to one session and must be safe for concurrent use. Errors are
// never fatal: a failed lookup is treated as a miss.
type ResultCache interface {
	// LookupStat returns the offenses stored for an unchanged stat tuple.
	LookupStat(key CacheKey) ([]Offense, error)

	// LookupContent returns the offenses stored for a content digest at
	// the same path and refreshes the stat entry on a hit.
	LookupContent(key CacheKey) ([]Offense, error)

	// Store records the offenses for key under both layers.
	Store(key CacheKey, offenses []Offense) error
}

// CacheStatus records how a file's offenses were obtained.
type CacheStatus uint8

// Cache statuses.
const (
	CacheMiss CacheStatus = iota
	CacheStatHit
	CacheContentHit
	CacheDisabled
)

// String returns a short name for logging.
func (s CacheStatus) String() string {
	switch s {
	case CacheStatHit:
		return "stat"
	case CacheContentHit:
		return "content"
	case CacheDisabled:
		return "disabled"
	default:
		return "miss"
	}
}

// PipelineResult contains the result of processing a single file.
type PipelineResult struct {
	// FileResult holds the offenses. On cache hits only Path and Offenses
	// are set.
	*FileResult

	// Path is the file path that was processed.
	Path string

	// Info is the file state observed while reading. Nil on stat hits and
	// read failures.
	Info *fsutil.FileInfo

	// Cache records whether the result came from the cache.
	Cache CacheStatus

	// CacheErr is the last cache error, if any. It never affects offenses.
	CacheErr error

	// ReadErr is set when the file could not be read. Offenses then hold a
	// single fatal Lint/Syntax offense.
	ReadErr error
}

// Summary returns a human-readable summary of the pipeline result.
func (pr *PipelineResult) Summary() string {
	switch {
	case pr.ReadErr != nil:
		return "unreadable"
	case pr.Cache == CacheStatHit || pr.Cache == CacheContentHit:
		return "cached"
	case pr.FileResult != nil && pr.HasOffenses():
		return "offenses found"
	default:
		return "ok"
	}
}

// PipelineOptions controls per-file processing.
type PipelineOptions struct {
	// Lint controls the analysis itself.
	Lint Options

	// Cache is the result cache. Nil disables caching.
	Cache ResultCache
}

// Pipeline runs the per-file steps: cache lookups, reading, analysis, and
// cache storage.
type Pipeline struct {
	// Engine is the lint engine used for parsing and cop execution.
	Engine *Engine
}

// NewPipeline creates a new pipeline with the given engine.
func NewPipeline(engine *Engine) *Pipeline {
	return &Pipeline{Engine: engine}
}

// ProcessFile runs the pipeline for a single file on disk.
//
// The pipeline performs the following steps:
//  1. Stat the file and query the cache by stat key.
//  2. On a miss, read and hash the file and query by content key.
//  3. On a miss, analyze the content.
//  4. Store the offenses in the cache.
//
// A file that cannot be read yields one fatal Lint/Syntax offense rather
// than an error. Errors are returned only for cancellation.
func (p *Pipeline) ProcessFile(
	ctx context.Context,
	path string,
	cfg *config.Config,
	opts PipelineOptions,
) (*PipelineResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("processing cancelled: %w", err)
	}

	result := &PipelineResult{Path: path, Cache: CacheDisabled}

	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	stat, err := os.Stat(path)
	if err != nil {
		return p.readFailure(result, categorizeError(err)), nil
	}
	if !stat.Mode().IsRegular() {
		return p.readFailure(result, fmt.Errorf("%w: %s", ErrNotAFile, path)), nil
	}

	key := CacheKey{Path: absPath, ModTime: stat.ModTime(), Size: stat.Size()}

	if opts.Cache != nil {
		result.Cache = CacheMiss
		offenses, lookupErr := opts.Cache.LookupStat(key)
		if lookupErr == nil {
			return p.cached(result, CacheStatHit, offenses), nil
		}
		result.noteCacheErr(lookupErr)
	}

	content, info, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("processing cancelled: %w", ctxErr)
		}
		return p.readFailure(result, categorizeError(err)), nil
	}
	result.Info = info
	if !info.SameStat(stat) {
		key.ModTime = info.ModTime
		key.Size = info.Size
	}
	key.Digest = info.Digest()

	if opts.Cache != nil {
		offenses, lookupErr := opts.Cache.LookupContent(key)
		if lookupErr == nil {
			return p.cached(result, CacheContentHit, offenses), nil
		}
		result.noteCacheErr(lookupErr)
	}

	fileResult, err := p.Engine.LintFile(ctx, path, content, cfg, opts.Lint)
	if err != nil {
		return nil, err
	}
	result.FileResult = fileResult

	if opts.Cache != nil {
		result.noteCacheErr(opts.Cache.Store(key, fileResult.Offenses))
	}
	return result, nil
}

// ProcessContent analyzes in-memory content, as read from stdin. The
// display path scopes Include/Exclude matching. Results are never cached.
func (p *Pipeline) ProcessContent(
	ctx context.Context,
	displayPath string,
	content []byte,
	cfg *config.Config,
	opts PipelineOptions,
) (*PipelineResult, error) {
	fileResult, err := p.Engine.LintFile(ctx, displayPath, content, cfg, opts.Lint)
	if err != nil {
		return nil, err
	}
	return &PipelineResult{
		FileResult: fileResult,
		Path:       displayPath,
		Cache:      CacheDisabled,
	}, nil
}

// cached builds a result from cached offenses, rewriting their path to
// the path given for this run.
func (p *Pipeline) cached(result *PipelineResult, status CacheStatus, offenses []Offense) *PipelineResult {
	for i := range offenses {
		offenses[i].Path = result.Path
	}
	result.Cache = status
	result.FileResult = &FileResult{Path: result.Path, Offenses: offenses}
	return result
}

// readFailure records err as a fatal Lint/Syntax offense.
func (p *Pipeline) readFailure(result *PipelineResult, err error) *PipelineResult {
	result.ReadErr = err
	result.FileResult = &FileResult{
		Path: result.Path,
		Offenses: []Offense{{
			Path:     result.Path,
			Line:     1,
			Column:   0,
			Severity: config.SeverityFatal,
			CopName:  SyntaxCopName,
			Message:  "Could not read file: " + describeReadError(err) + ".",
		}},
	}
	return result
}

func (pr *PipelineResult) noteCacheErr(err error) {
	if err != nil && !errors.Is(err, ErrCacheMiss) {
		pr.CacheErr = err
	}
}

// ErrCacheMiss is returned by ResultCache lookups that find no entry. It
// is not recorded in PipelineResult.CacheErr.
var ErrCacheMiss = errors.New("cache miss")

// categorizeError wraps an error with the appropriate pipeline error type.
func categorizeError(err error) error {
	if errors.Is(err, fsutil.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %w", ErrFileNotFound, err)
	}
	if errors.Is(err, fsutil.ErrPermissionDenied) || errors.Is(err, os.ErrPermission) {
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	}
	if errors.Is(err, fsutil.ErrIsDirectory) {
		return fmt.Errorf("%w: %w", ErrNotAFile, err)
	}
	return err
}

func describeReadError(err error) string {
	switch {
	case errors.Is(err, ErrFileNotFound):
		return "no such file"
	case errors.Is(err, ErrPermissionDenied):
		return "permission denied"
	case errors.Is(err, ErrNotAFile):
		return "not a regular file"
	default:
		return err.Error()
	}
}

// IsPipelineError checks if an error is a known pipeline error type.
func IsPipelineError(err error) bool {
	return errors.Is(err, ErrFileNotFound) ||
		errors.Is(err, ErrPermissionDenied) ||
		errors.Is(err, ErrNotAFile)
}
