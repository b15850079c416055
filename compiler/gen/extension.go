package gen

import (
	"slices"

	"github.com/syssam/clientgen/compiler/load"
)

// Extension is a runtime client plugin contributing configuration fragments,
// a resolve step, middleware or cleanup to the generated client. All parts
// are optional.
type Extension struct {
	// Name identifies the extension in errors and logs.
	Name string
	// InputConfig is the configuration fragment accepted by the client.
	InputConfig *TypeRef
	// ResolvedConfig is the fragment present after resolution.
	ResolvedConfig *TypeRef
	// Resolve transforms the configuration in the constructor.
	Resolve *TypeRef
	// ResolveParams returns the additional resolve arguments for a service.
	ResolveParams func(*Service) []Param
	// Plugin returns the middleware registered on the client stack.
	Plugin *TypeRef
	// Destroy releases resources held by the resolved configuration.
	Destroy *TypeRef
	// Endpoint marks the extension contributing endpoint configuration.
	// When the service has endpoint rules its fragments are parameterized
	// with the endpoint parameters type and written after the others.
	Endpoint bool
	// Matches reports whether the extension applies to a service.
	// A nil Matches applies to every service.
	Matches func(*Service) bool
}

// AppliesTo reports whether the extension applies to the service.
func (e *Extension) AppliesTo(s *Service) bool {
	return e.Matches == nil || e.Matches(s)
}

// params returns the resolve arguments for the service.
func (e *Extension) params(s *Service) []Param {
	if e.ResolveParams == nil {
		return nil
	}
	return e.ResolveParams(s)
}

// ExtensionFromPlugin converts a model plugin into an extension.
func ExtensionFromPlugin(p *load.Plugin) *Extension {
	e := &Extension{
		Name:           p.Name,
		InputConfig:    refFromSymbol(p.InputConfig),
		ResolvedConfig: refFromSymbol(p.ResolvedConfig),
		Resolve:        refFromSymbol(p.Resolve),
		Plugin:         refFromSymbol(p.Plugin),
		Destroy:        refFromSymbol(p.Destroy),
		Endpoint:       p.Endpoint,
	}
	if len(p.ResolveParams) > 0 {
		params := make([]Param, 0, len(p.ResolveParams))
		for _, prm := range p.ResolveParams {
			params = append(params, Param{Name: prm.Name, Expr: prm.Expr, Ref: refFromSymbol(prm.Symbol)})
		}
		e.ResolveParams = func(*Service) []Param { return params }
	}
	if len(p.Services) > 0 {
		services := slices.Clone(p.Services)
		e.Matches = func(s *Service) bool { return slices.Contains(services, s.ID) }
	}
	return e
}

// ExtensionsFor returns the extensions declared by the model that apply to
// a service, in declaration order.
func ExtensionsFor(m *load.Model, s *Service) []*Extension {
	var exts []*Extension
	for _, p := range m.Plugins {
		if e := ExtensionFromPlugin(p); e.AppliesTo(s) {
			exts = append(exts, e)
		}
	}
	return exts
}
