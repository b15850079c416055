package gen

import (
	"bytes"
	"cmp"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/google/renameio/v2"
	"golang.org/x/sync/errgroup"

	"github.com/syssam/clientgen/compiler/load"
)

// File is a generated client file.
type File struct {
	// Service is the id of the service the client was generated for.
	Service string
	// Name is the file name relative to the target directory.
	Name string
	// Content is the generated source.
	Content []byte
	// Cached reports whether the content was taken from the cache.
	Cached bool
}

// Generator generates the clients of every service in a model.
// Services are generated in parallel, each with its own writer.
type Generator struct {
	cfg        *Config
	model      *load.Model
	protocol   Protocol
	extensions []*Extension
}

// NewGenerator returns a generator for the services of the model, speaking
// the protocol the model declares. A nil config means DefaultConfig().
func NewGenerator(cfg *Config, m *load.Model) *Generator {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Generator{cfg: cfg, model: m, protocol: ProtocolFromModel(m)}
}

// WithProtocol overrides the protocol declared by the model.
func (g *Generator) WithProtocol(p Protocol) *Generator {
	if p != nil {
		g.protocol = p
	}
	return g
}

// WithExtensions appends extensions to the plugins the model declares for
// each service. Extensions whose Matches rejects a service are skipped.
func (g *Generator) WithExtensions(exts ...*Extension) *Generator {
	g.extensions = append(g.extensions, exts...)
	return g
}

// Render generates the clients in memory, ordered by service id.
// The first failure cancels the remaining services and no files are returned.
func (g *Generator) Render(ctx context.Context) ([]*File, error) {
	services := slices.Clone(g.model.Services)
	slices.SortFunc(services, func(a, b *load.Service) int { return cmp.Compare(a.ID, b.ID) })
	files := make([]*File, len(services))

	errg, ctx := errgroup.WithContext(ctx)
	errg.SetLimit(g.cfg.workers())
	for i, s := range services {
		errg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			f, err := g.render(ctx, s.ID)
			if err != nil {
				return err
			}
			files[i] = f
			return nil
		})
	}
	if err := errg.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}

// render generates the client of one service, consulting the cache when the
// cache feature is enabled.
func (g *Generator) render(ctx context.Context, id string) (*File, error) {
	log := g.cfg.logger().With("service", id)
	svc, err := NewService(g.model, id, g.cfg.symbols())
	if err != nil {
		return nil, NewGenerationError("service", id, "build service", err)
	}
	exts := append(ExtensionsFor(g.model, svc), g.extensions...)
	cg := NewClientGenerator(g.cfg, svc, g.protocol, exts...)
	f := &File{Service: id, Name: svc.ClientName() + ".ts"}

	var key string
	useCache := g.cfg.Cache != nil && g.cfg.HasFeature(FeatureCache.Name) && cg.Cacheable()
	if useCache {
		if key, err = cg.Fingerprint(); err != nil {
			return nil, err
		}
		out, err := g.cfg.Cache.Get(ctx, key)
		switch {
		case err != nil:
			log.Warn("cache lookup failed", "error", err)
		case out != nil:
			log.Debug("client taken from cache", "key", key)
			f.Content, f.Cached = out, true
			return f, nil
		}
	}

	out, err := cg.Generate()
	if err != nil {
		var genErr *GenerationError
		if errors.As(err, &genErr) {
			return nil, err
		}
		return nil, NewGenerationError("service", id, "generate client", err)
	}
	f.Content = out
	if useCache {
		if err := g.cfg.Cache.Set(ctx, key, out); err != nil {
			log.Warn("cache store failed", "error", err)
		}
	}
	return f, nil
}

// Generate renders the clients and writes them under the target directory.
// Either every client is written or the directory is left as it was.
func (g *Generator) Generate(ctx context.Context) ([]*File, error) {
	if g.cfg.Target == "" {
		return nil, NewConfigError("Target", nil, "missing target directory in config")
	}
	files, err := g.Render(ctx)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(g.cfg.Target, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	if err := g.write(files); err != nil {
		return nil, err
	}
	for _, f := range files {
		g.cfg.logger().Info("client written", "service", f.Service, "file", filepath.Join(g.cfg.Target, f.Name), "bytes", len(f.Content), "cached", f.Cached)
	}
	return files, nil
}

// pendingWrite is a client staged in a temporary file next to its target.
type pendingWrite struct {
	file    *File
	path    string
	pending *renameio.PendingFile
	// previous content of path, restored when a later replace fails.
	previous []byte
	existed  bool
	replaced bool
}

// write stages every file before replacing any target. A failed replace
// restores the files already replaced.
func (g *Generator) write(files []*File) error {
	writes := make([]*pendingWrite, 0, len(files))
	defer func() {
		for _, pw := range writes {
			if pw.pending != nil {
				pw.pending.Cleanup()
			}
		}
	}()
	writeErr := func(pw *pendingWrite, err error) error {
		genErr := NewGenerationError("write", pw.file.Service, "", err)
		genErr.File = pw.path
		return genErr
	}
	var err error
	for _, f := range files {
		pw := &pendingWrite{file: f, path: filepath.Join(g.cfg.Target, f.Name)}
		writes = append(writes, pw)
		switch prev, err := os.ReadFile(pw.path); {
		case err == nil:
			pw.previous, pw.existed = prev, true
		case !errors.Is(err, fs.ErrNotExist):
			return writeErr(pw, err)
		}
		pw.pending, err = renameio.NewPendingFile(pw.path, renameio.WithTempDir(g.cfg.Target), renameio.WithPermissions(0o644))
		if err != nil {
			return writeErr(pw, err)
		}
		if _, err := pw.pending.Write(f.Content); err != nil {
			return writeErr(pw, err)
		}
	}
	for _, pw := range writes {
		if err := pw.pending.CloseAtomicallyReplace(); err != nil {
			g.restore(writes)
			return writeErr(pw, err)
		}
		pw.replaced = true
	}
	return nil
}

// restore puts back the previous content of every replaced file.
func (g *Generator) restore(writes []*pendingWrite) {
	for _, pw := range writes {
		if !pw.replaced {
			continue
		}
		var err error
		if pw.existed {
			err = renameio.WriteFile(pw.path, pw.previous, 0o644, renameio.WithTempDir(g.cfg.Target))
		} else {
			err = os.Remove(pw.path)
		}
		if err != nil {
			g.cfg.logger().Error("restore client failed", "file", pw.path, "error", err)
		}
	}
}

// Check renders the clients and returns the names of files under the target
// directory that are missing or differ from the rendered output.
func (g *Generator) Check(ctx context.Context) ([]string, error) {
	if g.cfg.Target == "" {
		return nil, NewConfigError("Target", nil, "missing target directory in config")
	}
	files, err := g.Render(ctx)
	if err != nil {
		return nil, err
	}
	var stale []string
	for _, f := range files {
		disk, err := os.ReadFile(filepath.Join(g.cfg.Target, f.Name))
		switch {
		case errors.Is(err, fs.ErrNotExist):
			stale = append(stale, f.Name)
		case err != nil:
			return nil, err
		case !bytes.Equal(disk, f.Content):
			stale = append(stale, f.Name)
		}
	}
	return stale, nil
}

// Generate writes the clients of every service in the model under cfg.Target.
func Generate(ctx context.Context, cfg *Config, m *load.Model) error {
	_, err := NewGenerator(cfg, m).Generate(ctx)
	return err
}
