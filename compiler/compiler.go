// Package compiler provides an API for generating TypeScript service clients
// from a model file.
//
//	cfg, err := gen.NewConfig(gen.WithTarget("./src"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := compiler.Generate(ctx, "./model/weather.yaml", cfg); err != nil {
//		log.Fatal(err)
//	}
package compiler

import (
	"context"
	"fmt"

	"github.com/syssam/clientgen/compiler/gen"
	"github.com/syssam/clientgen/compiler/load"
)

// Option allows for managing the generation options.
type Option func(*options) error

type options struct {
	protocol   gen.Protocol
	extensions []*gen.Extension
}

// Extensions adds extensions to the plugins declared by the model.
func Extensions(exts ...*gen.Extension) Option {
	return func(o *options) error {
		for _, e := range exts {
			if e == nil {
				return fmt.Errorf("compiler: nil extension")
			}
			if e.Name == "" {
				return fmt.Errorf("compiler: extension without a name")
			}
		}
		o.extensions = append(o.extensions, exts...)
		return nil
	}
}

// Protocol overrides the protocol declared by the model.
func Protocol(p gen.Protocol) Option {
	return func(o *options) error {
		if p == nil {
			return fmt.Errorf("compiler: nil protocol")
		}
		o.protocol = p
		return nil
	}
}

// LoadModel loads and validates the model file at path.
func LoadModel(path string) (*load.Model, error) {
	m, err := load.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("compiler/load: %w", err)
	}
	return m, nil
}

// Generate runs code generation for the model file at path and writes the
// clients under cfg.Target.
func Generate(ctx context.Context, path string, cfg *gen.Config, opts ...Option) error {
	g, err := generator(path, cfg, opts)
	if err != nil {
		return err
	}
	_, err = g.Generate(ctx)
	return err
}

// Check renders the clients of the model file at path and returns the names
// of the files under cfg.Target that are missing or out of date.
func Check(ctx context.Context, path string, cfg *gen.Config, opts ...Option) ([]string, error) {
	g, err := generator(path, cfg, opts)
	if err != nil {
		return nil, err
	}
	return g.Check(ctx)
}

func generator(path string, cfg *gen.Config, opts []Option) (*gen.Generator, error) {
	o := &options{}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	m, err := LoadModel(path)
	if err != nil {
		return nil, err
	}
	return gen.NewGenerator(cfg, m).WithProtocol(o.protocol).WithExtensions(o.extensions...), nil
}
