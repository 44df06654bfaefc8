package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// keyVersion changes whenever the rendering of any extension changes so that
// stale results are never served.
const keyVersion = "mdmodify-result-v1"

// Entry is a cached pipeline result.
type Entry struct {
	Path    string    `json:"path"`
	SavedAt time.Time `json:"saved_at"`
	Content string    `json:"content"`
}

// ResultCache stores modified document content keyed by a digest of the
// document path, its input content, and the active extension names.
type ResultCache struct {
    Dir         string
    // StrictPerms, when true, enforces 0700 on cache directories and 0600 on
    // files.
    StrictPerms bool
}

// Enabled reports whether a cache directory is configured.
func (c *ResultCache) Enabled() bool {
    return c != nil && strings.TrimSpace(c.Dir) != ""
}

func (c *ResultCache) ensureDir() error {
	if !c.Enabled() {
		return errors.New("cache dir not configured")
	}
    perm := os.FileMode(0o755)
    if c.StrictPerms {
        perm = 0o700
    }
    if err := os.MkdirAll(c.Dir, perm); err != nil {
        return err
    }
    // If directory already existed and StrictPerms is on, tighten perms
    if c.StrictPerms {
        if info, err := os.Stat(c.Dir); err == nil {
            if info.Mode()&0o777 != 0o700 {
                _ = os.Chmod(c.Dir, 0o700)
            }
        }
    }
    return nil
}

// KeyFrom builds a cache key from the document path, its content, and the
// names of the extensions that process it, in order.
func KeyFrom(path string, content string, extensions []string) string {
	h := sha256.New()
	h.Write([]byte(keyVersion + "\n\n" + path + "\n\n" + strings.Join(extensions, ",") + "\n\n"))
	h.Write([]byte(content))
	return hex.EncodeToString(h.Sum(nil))
}

func (c *ResultCache) pathFor(key string) string {
	return filepath.Join(c.Dir, key+".json")
}

// Get returns the cached entry if present. Unreadable or malformed entries
// count as misses.
func (c *ResultCache) Get(_ context.Context, key string) (Entry, bool, error) {
	if err := c.ensureDir(); err != nil {
		return Entry{}, false, err
	}
	b, err := os.ReadFile(c.pathFor(key))
	if err != nil {
		return Entry{}, false, nil
	}
	var e Entry
	if err := json.Unmarshal(b, &e); err != nil {
		return Entry{}, false, nil
	}
	return e, true, nil
}

// Save writes the modified content of path under key.
func (c *ResultCache) Save(_ context.Context, key string, path string, content string) error {
	if err := c.ensureDir(); err != nil {
		return err
	}
	b, err := json.Marshal(Entry{Path: path, SavedAt: time.Now().UTC(), Content: content})
	if err != nil {
		return err
	}
    mode := os.FileMode(0o644)
    if c.StrictPerms {
        mode = 0o600
    }
    return os.WriteFile(c.pathFor(key), b, mode)
}
