// Package cache stores per-file lint results on disk so unchanged files
// are not analyzed again.
//
// Entries live under a session directory derived from everything that can
// change a result: the tool version, the merged configuration, the cop
// filter, and result-affecting flags. Each session has two layers. The
// stat layer is keyed by the file path and answers when mtime and size
// are unchanged. The content layer is keyed by the SHA-256 of the file
// together with its path, and survives touches and checkouts. Offenses
// depend on the path through Include and Exclude, so identical bytes at
// two paths never share an entry.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/yaklabco/turbocop/pkg/config"
	"github.com/yaklabco/turbocop/pkg/fsutil"
	"github.com/yaklabco/turbocop/pkg/lint"
)

// EnvCacheDir overrides the cache root.
const EnvCacheDir = "TURBOCOP_CACHE_DIR"

const (
	statDir    = "stat"
	contentDir = "content"
)

var (
	// ErrMiss is returned by lookups that find no usable entry.
	ErrMiss = fmt.Errorf("result %w", lint.ErrCacheMiss)

	// ErrCorrupt is returned when an entry cannot be decoded. The entry is
	// removed.
	ErrCorrupt = errors.New("corrupt cache entry")

	// ErrInvalidSession is returned for session hashes that cannot name a
	// directory.
	ErrInvalidSession = errors.New("invalid session hash")
)

// Cache is a result cache rooted at a directory.
type Cache struct {
	root string
}

// Open returns the cache rooted at root, creating the directory.
func Open(root string) (*Cache, error) {
	if root == "" {
		return nil, errors.New("cache root is empty")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve cache root: %w", err)
	}
	if err := os.MkdirAll(abs, fsutil.DefaultDirMode); err != nil {
		return nil, fmt.Errorf("create cache root: %w", err)
	}
	return &Cache{root: abs}, nil
}

// DefaultRoot returns $TURBOCOP_CACHE_DIR, else
// $XDG_CACHE_HOME/turbocop/results, else the platform user cache directory.
func DefaultRoot() (string, error) {
	if dir := os.Getenv(EnvCacheDir); dir != "" {
		return dir, nil
	}
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "turbocop", "results"), nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("locate user cache directory: %w", err)
	}
	return filepath.Join(base, "turbocop", "results"), nil
}

// Root returns the absolute cache root.
func (c *Cache) Root() string {
	return c.root
}

// Clear removes every session below the root.
func (c *Cache) Clear() error {
	entries, err := os.ReadDir(c.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read cache root: %w", err)
	}
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(c.root, e.Name())); err != nil {
			return fmt.Errorf("remove %s: %w", e.Name(), err)
		}
	}
	return nil
}

// SessionHash derives the session identity. Any change to the inputs
// starts a fresh session.
func SessionHash(version, fingerprint string, filter config.Filter, extra ...string) string {
	h := sha256.New()
	for _, part := range append([]string{"v" + strconv.Itoa(formatVersion), version, fingerprint, filter.Key()}, extra...) {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Session is the cache view of one run. It implements lint.ResultCache and
// is safe for concurrent use.
type Session struct {
	ctx  context.Context
	hash string
	dir  string
}

var _ lint.ResultCache = (*Session)(nil)

// Session binds the cache to a session hash. Writes stop when ctx is
// cancelled.
func (c *Cache) Session(ctx context.Context, hash string) (*Session, error) {
	if len(hash) < 2 || strings.ContainsAny(hash, `/\.`) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSession, hash)
	}
	return &Session{
		ctx:  ctx,
		hash: hash,
		dir:  filepath.Join(c.root, hash[:2], hash),
	}, nil
}

// Hash returns the session hash.
func (s *Session) Hash() string {
	return s.hash
}

// Dir returns the session directory.
func (s *Session) Dir() string {
	return s.dir
}

func (s *Session) statPath(path string) string {
	return filepath.Join(s.dir, statDir, fsutil.HashBytes([]byte(path)))
}

func (s *Session) contentPath(digest, path string) string {
	return filepath.Join(s.dir, contentDir, digest+"-"+fsutil.HashBytes([]byte(path)))
}

// LookupStat returns the offenses stored for key.Path when mtime and size
// still match.
func (s *Session) LookupStat(key lint.CacheKey) ([]lint.Offense, error) {
	e, err := s.read(s.statPath(key.Path))
	if err != nil {
		return nil, err
	}
	if e.Path != key.Path || e.ModTime != key.ModTime.UnixNano() || e.Size != key.Size {
		return nil, ErrMiss
	}
	return e.Offenses, nil
}

// LookupContent returns the offenses stored for key.Digest at key.Path and
// rewrites the stat entry for key so the next run hits the stat layer.
func (s *Session) LookupContent(key lint.CacheKey) ([]lint.Offense, error) {
	if !validDigest(key.Digest) {
		return nil, ErrMiss
	}
	entryPath := s.contentPath(key.Digest, key.Path)
	e, err := s.read(entryPath)
	if err != nil {
		return nil, err
	}
	if e.ContentHash != key.Digest || e.Path != key.Path {
		_ = os.Remove(entryPath)
		return nil, ErrMiss
	}

	// A failed refresh is ignored.
	_ = s.write(s.statPath(key.Path), s.entry(key, e.Offenses))
	return e.Offenses, nil
}

// Store writes offenses under both layers.
func (s *Session) Store(key lint.CacheKey, offenses []lint.Offense) error {
	if !validDigest(key.Digest) {
		return fmt.Errorf("store %s: content digest %q is not a SHA-256", key.Path, key.Digest)
	}
	e := s.entry(key, offenses)
	if err := s.write(s.contentPath(key.Digest, key.Path), e); err != nil {
		return err
	}
	return s.write(s.statPath(key.Path), e)
}

func (s *Session) entry(key lint.CacheKey, offenses []lint.Offense) *Entry {
	stored := make([]lint.Offense, len(offenses))
	for i, o := range offenses {
		o.Path = ""
		stored[i] = o
	}
	return &Entry{
		Version:     formatVersion,
		SessionHash: s.hash,
		ContentHash: key.Digest,
		Path:        key.Path,
		ModTime:     key.ModTime.UnixNano(),
		Size:        key.Size,
		Offenses:    stored,
	}
}

// read loads an entry. Entries that fail to decode or belong to another
// session or format version are removed.
func (s *Session) read(path string) (*Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrMiss
		}
		return nil, fmt.Errorf("read cache entry: %w", err)
	}

	e := &Entry{}
	if _, err := e.UnmarshalMsg(data); err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("%w %s: %w", ErrCorrupt, path, err)
	}
	if e.Version != formatVersion || e.SessionHash != s.hash {
		_ = os.Remove(path)
		return nil, ErrMiss
	}
	return e, nil
}

func (s *Session) write(path string, e *Entry) error {
	data, err := e.MarshalMsg(nil)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	if err := fsutil.WriteAtomic(s.ctx, path, data, fsutil.DefaultFileMode); err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	return nil
}

func validDigest(digest string) bool {
	if len(digest) != sha256.Size*2 {
		return false
	}
	_, err := hex.DecodeString(digest)
	return err == nil
}
