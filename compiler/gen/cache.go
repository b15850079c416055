package gen

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/google/renameio/v2"
	"github.com/vmihailenco/msgpack/v5"
)

// cacheVersion invalidates cached output written by generators that render
// clients differently.
const cacheVersion = "clientgen/1"

// Cache stores generated clients keyed by the fingerprint of their inputs.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves a value from the cache.
	// Returns nil, nil if the key doesn't exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in the cache.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes a value from the cache.
	Delete(ctx context.Context, key string) error

	// Clear removes all values from the cache.
	Clear(ctx context.Context) error
}

// MemoryCache is an in-memory Cache.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

var _ Cache = (*MemoryCache)(nil)

// NewMemoryCache returns an empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string][]byte)}
}

// Get implements Cache.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[key]
	if !ok {
		return nil, nil
	}
	return bytes.Clone(v), nil
}

// Set implements Cache.
func (c *MemoryCache) Set(_ context.Context, key string, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = bytes.Clone(value)
	return nil
}

// Delete implements Cache.
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

// Clear implements Cache.
func (c *MemoryCache) Clear(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
	return nil
}

// Len returns the number of cached entries.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// DirCache is a Cache storing one msgpack encoded entry per key in a directory.
type DirCache struct {
	dir string
}

var _ Cache = (*DirCache)(nil)

// cacheEntry is the on-disk format of a DirCache entry.
type cacheEntry struct {
	Key     string `msgpack:"key"`
	Version string `msgpack:"version"`
	Output  []byte `msgpack:"output"`
}

const cacheExt = ".msgpack"

// NewDirCache returns a cache storing entries under dir.
func NewDirCache(dir string) (*DirCache, error) {
	if dir == "" {
		return nil, NewConfigError("Cache", nil, "cache directory cannot be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}
	return &DirCache{dir: dir}, nil
}

func (c *DirCache) path(key string) string {
	return filepath.Join(c.dir, key+cacheExt)
}

// Get implements Cache. Entries written by another cache version are misses.
func (c *DirCache) Get(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(c.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var e cacheEntry
	if err := msgpack.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("decode cache entry %s: %w", key, err)
	}
	if e.Key != key || e.Version != cacheVersion {
		return nil, nil
	}
	return e.Output, nil
}

// Set implements Cache. The entry is written to a temporary file first and
// renamed into place.
func (c *DirCache) Set(_ context.Context, key string, value []byte) error {
	data, err := msgpack.Marshal(&cacheEntry{Key: key, Version: cacheVersion, Output: value})
	if err != nil {
		return fmt.Errorf("encode cache entry %s: %w", key, err)
	}
	return renameio.WriteFile(c.path(key), data, 0o644, renameio.WithTempDir(c.dir))
}

// Delete implements Cache.
func (c *DirCache) Delete(_ context.Context, key string) error {
	if err := os.Remove(c.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Clear implements Cache.
func (c *DirCache) Clear(context.Context) error {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), cacheExt) {
			continue
		}
		if err := os.Remove(filepath.Join(c.dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

// fingerprint holds every input that affects a generated client.
type fingerprint struct {
	Version      string              `msgpack:"version"`
	Service      *Service            `msgpack:"service"`
	Protocol     protocolFingerprint `msgpack:"protocol"`
	Extensions   []extensionPrint    `msgpack:"extensions"`
	Header       string              `msgpack:"header"`
	Features     []string            `msgpack:"features"`
	ConfigFields []ConfigField       `msgpack:"config_fields"`
	Runtime      *TypeRef            `msgpack:"runtime"`
	ClientBase   *TypeRef            `msgpack:"client_base"`
	Endpoint     *EndpointConfig     `msgpack:"endpoint"`
}

type protocolFingerprint struct {
	Name          string   `msgpack:"name"`
	Connected     bool     `msgpack:"connected"`
	Options       *TypeRef `msgpack:"options"`
	DefaultInput  *TypeRef `msgpack:"default_input"`
	DefaultOutput *TypeRef `msgpack:"default_output"`
}

type extensionPrint struct {
	Name           string   `msgpack:"name"`
	InputConfig    *TypeRef `msgpack:"input_config"`
	ResolvedConfig *TypeRef `msgpack:"resolved_config"`
	Resolve        *TypeRef `msgpack:"resolve"`
	Params         []Param  `msgpack:"params"`
	Plugin         *TypeRef `msgpack:"plugin"`
	Destroy        *TypeRef `msgpack:"destroy"`
	Endpoint       bool     `msgpack:"endpoint"`
}

// Cacheable reports whether the output of the generator can be cached.
// Section hooks are code and cannot be fingerprinted.
func (g *ClientGenerator) Cacheable() bool {
	return g.cfg.Hooks.Len() == 0
}

// Fingerprint returns a key identifying the inputs of the generator.
// Generators with equal fingerprints produce identical output.
func (g *ClientGenerator) Fingerprint() (string, error) {
	fp := fingerprint{
		Version: cacheVersion,
		Service: g.service,
		Protocol: protocolFingerprint{
			Name:          g.protocol.Name(),
			Connected:     g.protocol.ConnectionOriented(),
			Options:       g.protocol.OptionsType(),
			DefaultInput:  g.protocol.DefaultInput(),
			DefaultOutput: g.protocol.DefaultOutput(),
		},
		Header:       g.cfg.Header,
		ConfigFields: g.cfg.ConfigFields,
		Runtime:      g.cfg.runtimeConfig(),
		ClientBase:   g.cfg.clientBase(),
		Endpoint:     g.cfg.endpoint(),
	}
	for _, f := range g.cfg.Features {
		fp.Features = append(fp.Features, f.Name)
	}
	slices.Sort(fp.Features)
	for _, e := range g.extensions {
		fp.Extensions = append(fp.Extensions, extensionPrint{
			Name:           e.Name,
			InputConfig:    e.InputConfig,
			ResolvedConfig: e.ResolvedConfig,
			Resolve:        e.Resolve,
			Params:         e.params(g.service),
			Plugin:         e.Plugin,
			Destroy:        e.Destroy,
			Endpoint:       e.Endpoint,
		})
	}
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(&fp); err != nil {
		return "", NewGenerationError("fingerprint", g.service.ID, "encode inputs", err)
	}
	sum := sha256.Sum256(buf.Bytes())
	return hex.EncodeToString(sum[:]), nil
}
