package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/diag"
	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/project"
)

// Increment when CachedOutput changes shape or emission changes output.
const outputCacheSchema uint16 = 1

// OutputCache stores emitted modules on disk, keyed by the digest of the
// model document, the emit options and the module name.
// Safe for concurrent use.
type OutputCache struct {
	mu  sync.RWMutex
	dir string
}

// CachedOutput is one emitted module with the diagnostics its emission
// produced, so warnings are reported again on a cache hit.
type CachedOutput struct {
	Schema       uint16
	Module       string
	File         string
	Script       string
	Format       uint8
	Dependencies []string
	Diagnostics  []diag.Diagnostic
}

// OpenOutputCache opens the cache under $XDG_CACHE_HOME/<app>, falling back
// to ~/.cache/<app>.
func OpenOutputCache(app string) (*OutputCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenOutputCacheAt(filepath.Join(base, app))
}

// OpenOutputCacheAt opens the cache rooted at dir.
func OpenOutputCacheAt(dir string) (*OutputCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &OutputCache{dir: dir}, nil
}

// Dir is the cache root.
func (c *OutputCache) Dir() string { return c.dir }

func (c *OutputCache) pathFor(key project.Digest) string {
	return filepath.Join(c.dir, "out", key.String()+".mp")
}

// Put writes an entry atomically via a temp file and rename.
func (c *OutputCache) Put(key project.Digest, out *CachedOutput) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	out.Schema = outputCacheSchema
	p := c.pathFor(key)
	if err = os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if rmErr := os.Remove(f.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = rmErr
		}
	}()
	if err = msgpack.NewEncoder(f).Encode(out); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode cache entry: %w", err)
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads an entry. Entries written by another schema are misses.
func (c *OutputCache) Get(key project.Digest) (*CachedOutput, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := os.ReadFile(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var out CachedOutput
	if err := msgpack.Unmarshal(data, &out); err != nil {
		return nil, false, fmt.Errorf("decode cache entry: %w", err)
	}
	if out.Schema != outputCacheSchema {
		return nil, false, nil
	}
	return &out, true, nil
}

// DropAll removes every entry.
func (c *OutputCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}

// cacheKey mixes everything that influences one module's script text.
func cacheKey(doc project.Digest, opts Options, module string) project.Digest {
	return project.CombineStrings(doc,
		fmt.Sprintf("schema=%d", outputCacheSchema),
		fmt.Sprintf("minimize=%t", opts.Minimize),
		"runtime="+opts.runtimeName(),
		"indent="+opts.Indent,
		fmt.Sprintf("compact=%t", opts.Compact),
		"overrides="+overridesKey(opts.Manifest),
		"module="+module,
	)
}
