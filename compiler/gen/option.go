package gen

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
)

// Option configures code generation.
type Option func(*Config) error

// WithHeader sets the file header comment.
// The header is added at the top of each generated file.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithTarget sets the output directory.
// The directory where generated clients will be written.
func WithTarget(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return NewConfigError("Target", nil, "target directory cannot be empty")
		}
		c.Target = dir
		return nil
	}
}

// WithFeatures enables specific features.
// Features control optional code generation capabilities.
func WithFeatures(features ...Feature) Option {
	return func(c *Config) error {
		for _, f := range features {
			if !c.HasFeature(f.Name) {
				c.Features = append(c.Features, f)
			}
		}
		return nil
	}
}

// WithFeatureNames enables features by name.
func WithFeatureNames(names ...string) Option {
	return func(c *Config) error {
		for _, name := range names {
			f, ok := FeatureByName(name)
			if !ok {
				return NewConfigError("Features", name, fmt.Sprintf("unexpected feature name %q", name))
			}
			if !c.HasFeature(name) {
				c.Features = append(c.Features, f)
			}
		}
		return nil
	}
}

// WithoutFeatures disables features by name, including default ones.
func WithoutFeatures(names ...string) Option {
	return func(c *Config) error {
		for _, name := range names {
			if _, ok := FeatureByName(name); !ok {
				return NewConfigError("Features", name, fmt.Sprintf("unexpected feature name %q", name))
			}
		}
		c.Features = slices.DeleteFunc(c.Features, func(f Feature) bool {
			return slices.Contains(names, f.Name)
		})
		return nil
	}
}

// WithWorkers sets the number of services generated in parallel.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n < 0 {
			return NewConfigError("Workers", n, "workers cannot be negative")
		}
		c.Workers = n
		return nil
	}
}

// WithLogger sets the logger receiving generation logs.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) error {
		if l == nil {
			return NewConfigError("Logger", nil, "logger cannot be nil")
		}
		c.Logger = l
		return nil
	}
}

// WithSectionHook registers a hook writing additional source into a section.
// Hooks of the same section run in registration order.
func WithSectionHook(s Section, hook SectionHook) Option {
	return func(c *Config) error {
		if !s.Valid() {
			return NewConfigError("Hooks", s, "unknown section")
		}
		if hook == nil {
			return NewConfigError("Hooks", s, "hook cannot be nil")
		}
		if c.Hooks == nil {
			c.Hooks = make(Hooks)
		}
		c.Hooks.Add(s, hook)
		return nil
	}
}

// WithConfigFields adds optional members to the ClientDefaults interface.
func WithConfigFields(fields ...ConfigField) Option {
	return func(c *Config) error {
		for _, f := range fields {
			if f.Name == "" || f.Type == nil {
				return NewConfigError("ConfigFields", f.Name, "config field requires a name and a type")
			}
			if slices.Contains(builtinDefaultNames, f.Name) || slices.ContainsFunc(c.ConfigFields, func(o ConfigField) bool {
				return o.Name == f.Name
			}) {
				return NewConfigError("ConfigFields", f.Name, "duplicate config field")
			}
			c.ConfigFields = append(c.ConfigFields, f)
		}
		return nil
	}
}

// WithRuntimeConfig sets the function deriving the base runtime configuration.
func WithRuntimeConfig(ref *TypeRef) Option {
	return func(c *Config) error {
		if ref == nil || ref.Name == "" {
			return NewConfigError("RuntimeConfig", nil, "runtime config function cannot be empty")
		}
		c.RuntimeConfig = ref
		return nil
	}
}

// WithClientBase sets the base class of generated clients.
func WithClientBase(ref *TypeRef) Option {
	return func(c *Config) error {
		if ref == nil || ref.Name == "" {
			return NewConfigError("ClientBase", nil, "client base class cannot be empty")
		}
		c.ClientBase = ref
		return nil
	}
}

// WithEndpoint sets the symbols used for services declaring endpoint rules.
// Unset symbols keep their defaults.
func WithEndpoint(e *EndpointConfig) Option {
	return func(c *Config) error {
		if e == nil {
			return NewConfigError("Endpoint", nil, "endpoint config cannot be nil")
		}
		c.Endpoint = e
		return nil
	}
}

// WithSymbolProvider sets the provider mapping model shapes to references.
func WithSymbolProvider(p SymbolProvider) Option {
	return func(c *Config) error {
		if p == nil {
			return NewConfigError("Symbols", nil, "symbol provider cannot be nil")
		}
		c.Symbols = p
		return nil
	}
}

// WithCache sets the cache of generated clients and enables the cache feature.
func WithCache(cache Cache) Option {
	return func(c *Config) error {
		if cache == nil {
			return NewConfigError("Cache", nil, "cache cannot be nil")
		}
		c.Cache = cache
		return WithFeatures(FeatureCache)(c)
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewConfig creates a new Config with the defaults and the given options.
func NewConfig(opts ...Option) (*Config, error) {
	c := DefaultConfig()
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNewConfig creates a new Config with the given options.
// It panics if any option fails.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}
