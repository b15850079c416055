package gen

import (
	"fmt"
	"log/slog"
	"runtime"
	"slices"
)

// defaultHeader is written at the top of every generated file.
const defaultHeader = "Code generated by clientgen. DO NOT EDIT."

// Config holds the configuration for client generation.
type Config struct {
	// Target is the output directory of generated clients.
	Target string

	// Header is the comment written at the top of each generated file.
	Header string

	// Features holds the enabled feature-flags.
	Features []Feature

	// Workers limits the number of services generated in parallel.
	// Zero means GOMAXPROCS.
	Workers int

	// Logger receives generation logs. Nil means slog.Default().
	Logger *slog.Logger

	// Hooks holds the section hooks run by every client generator.
	Hooks Hooks

	// ConfigFields are additional optional members of the ClientDefaults
	// interface, written after the built-in ones in registration order.
	ConfigFields []ConfigField

	// RuntimeConfig is the function deriving the base runtime configuration
	// from the client input configuration.
	RuntimeConfig *TypeRef

	// ClientBase is the base class of generated clients.
	ClientBase *TypeRef

	// Endpoint holds the symbols used by clients of services declaring
	// endpoint rules.
	Endpoint *EndpointConfig

	// Symbols maps model shapes to references. Nil means CommandSymbols.
	Symbols SymbolProvider

	// Cache stores generated clients between runs when the cache feature
	// is enabled.
	Cache Cache
}

// ConfigField is an optional member of the ClientDefaults interface.
type ConfigField struct {
	Name string
	Type *TypeRef
	Doc  string
}

// EndpointConfig holds the symbols wired into clients of services that
// declare endpoint rules.
type EndpointConfig struct {
	// Parameters is the type argument of the endpoint configuration fragments.
	Parameters *TypeRef
	// InputConfig and ResolvedConfig are the endpoint configuration fragments
	// used when no extension carries the endpoint marker.
	InputConfig    *TypeRef
	ResolvedConfig *TypeRef
	// ClientInputParameters and ClientResolvedParameters are appended last
	// to the input and resolved configuration types.
	ClientInputParameters    *TypeRef
	ClientResolvedParameters *TypeRef
	// ResolveParameters derives endpoint parameters in the constructor.
	ResolveParameters *TypeRef
}

// endpointParametersModule exports the generated endpoint parameter symbols.
const endpointParametersModule = "./endpoint/EndpointParameters"

// DefaultEndpointConfig returns the endpoint symbols of the standard runtime.
func DefaultEndpointConfig() *EndpointConfig {
	return &EndpointConfig{
		Parameters:               Ref("EndpointParameters", endpointParametersModule),
		InputConfig:              Ref("EndpointInputConfig", "@aws-sdk/middleware-endpoint"),
		ResolvedConfig:           Ref("EndpointResolvedConfig", "@aws-sdk/middleware-endpoint"),
		ClientInputParameters:    Ref("ClientInputEndpointParameters", endpointParametersModule),
		ClientResolvedParameters: Ref("ClientResolvedEndpointParameters", endpointParametersModule),
		ResolveParameters:        Ref("resolveClientEndpointParameters", endpointParametersModule),
	}
}

// DefaultConfig returns a config with the default header, features and symbols.
func DefaultConfig() *Config {
	return &Config{
		Header:        defaultHeader,
		Features:      defaultFeatures(),
		RuntimeConfig: &TypeRef{Name: "getRuntimeConfig", Module: "./runtimeConfig", Alias: "__getRuntimeConfig"},
		ClientBase:    &TypeRef{Name: "Client", Module: ModuleSmithyClient, Alias: "__Client"},
		Endpoint:      DefaultEndpointConfig(),
		Hooks:         make(Hooks),
	}
}

// FeatureEnabled reports if the given feature name is enabled.
// It returns a ConfigError for unknown feature names.
func (c *Config) FeatureEnabled(name string) (bool, error) {
	if _, ok := FeatureByName(name); !ok {
		return false, NewConfigError("Features", name, fmt.Sprintf("unexpected feature name %q", name))
	}
	return c.HasFeature(name), nil
}

// HasFeature reports if the feature is in the enabled list.
func (c *Config) HasFeature(name string) bool {
	return slices.ContainsFunc(c.Features, func(f Feature) bool { return f.Name == name })
}

func (c *Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

func (c *Config) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.GOMAXPROCS(0)
}

func (c *Config) symbols() SymbolProvider {
	if c.Symbols != nil {
		return c.Symbols
	}
	return CommandSymbols{}
}

func (c *Config) runtimeConfig() *TypeRef {
	if c.RuntimeConfig != nil {
		return c.RuntimeConfig
	}
	return DefaultConfig().RuntimeConfig
}

func (c *Config) clientBase() *TypeRef {
	if c.ClientBase != nil {
		return c.ClientBase
	}
	return DefaultConfig().ClientBase
}

// endpoint returns the endpoint symbols, filling unset ones with defaults.
func (c *Config) endpoint() *EndpointConfig {
	d := DefaultEndpointConfig()
	e := c.Endpoint
	if e == nil {
		return d
	}
	out := *e
	for _, p := range []struct{ dst, def **TypeRef }{
		{&out.Parameters, &d.Parameters},
		{&out.InputConfig, &d.InputConfig},
		{&out.ResolvedConfig, &d.ResolvedConfig},
		{&out.ClientInputParameters, &d.ClientInputParameters},
		{&out.ClientResolvedParameters, &d.ClientResolvedParameters},
		{&out.ResolveParameters, &d.ResolveParameters},
	} {
		if *p.dst == nil {
			*p.dst = *p.def
		}
	}
	return &out
}
