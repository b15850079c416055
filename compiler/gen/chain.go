package gen

import (
	"fmt"
	"strings"
)

// StepKind describes what produced a configuration binding.
type StepKind int

// Step kinds.
const (
	// StepRuntimeConfig derives the base runtime configuration from the
	// constructor argument.
	StepRuntimeConfig StepKind = iota
	// StepEndpointParameters derives the client endpoint parameters.
	StepEndpointParameters
	// StepResolve applies an extension resolve function.
	StepResolve
)

// String returns the step kind name.
func (k StepKind) String() string {
	switch k {
	case StepRuntimeConfig:
		return "runtime-config"
	case StepEndpointParameters:
		return "endpoint-parameters"
	case StepResolve:
		return "resolve"
	default:
		return fmt.Sprintf("StepKind(%d)", int(k))
	}
}

// Step binds one configuration value. Step i reads the value bound by step
// i-1, or the constructor argument for step 0.
type Step struct {
	Index     int
	Kind      StepKind
	Func      *TypeRef
	Params    []Param
	Extension string
}

// Var returns the name of the binding produced by the step.
func (s Step) Var() string { return ConfigVar(s.Index) }

// ConfigVar returns the binding name of configuration value i.
func ConfigVar(i int) string { return fmt.Sprintf("_config_%d", i) }

// Call is a middleware registration or destroy call receiving the final
// resolved configuration.
type Call struct {
	Func      *TypeRef
	Extension string
}

// Chain is the construction plan of a client: the configuration bindings in
// order, the middleware registrations and the destroy calls. It is built once
// and only read when rendered.
type Chain struct {
	Steps    []Step
	Plugins  []Call
	Destroys []Call
}

// BuildChain plans the constructor of a service client. Step 0 derives the
// runtime configuration; for services with endpoint rules step 1 derives the
// endpoint parameters; every extension with a resolve function then adds one
// step in list order. Plugins and destroy calls follow list order as well.
func BuildChain(s *Service, exts []*Extension, cfg *Config) *Chain {
	c := &Chain{}
	add := func(kind StepKind, fn *TypeRef, params []Param, ext string) {
		c.Steps = append(c.Steps, Step{Index: len(c.Steps), Kind: kind, Func: fn, Params: params, Extension: ext})
	}
	add(StepRuntimeConfig, cfg.runtimeConfig(), nil, "")
	if s.EndpointRules {
		add(StepEndpointParameters, cfg.endpoint().ResolveParameters, nil, "")
	}
	for _, e := range exts {
		if e.Resolve != nil {
			add(StepResolve, e.Resolve, e.params(s), e.Name)
		}
		if e.Plugin != nil {
			c.Plugins = append(c.Plugins, Call{Func: e.Plugin, Extension: e.Name})
		}
		if e.Destroy != nil {
			c.Destroys = append(c.Destroys, Call{Func: e.Destroy, Extension: e.Name})
		}
	}
	return c
}

// Final returns the last configuration step.
func (c *Chain) Final() Step {
	return c.Steps[len(c.Steps)-1]
}

// writeConstructor writes the constructor bindings, the base class call,
// the config assignment and the middleware registrations.
func (c *Chain) writeConstructor(w *Writer) {
	for _, st := range c.Steps {
		arg := "configuration"
		if st.Index > 0 {
			arg = ConfigVar(st.Index - 1)
		}
		if ps := renderParams(w, st.Params); ps != "" {
			arg += ", " + ps
		}
		w.Writef("let %s = %s(%s);", st.Var(), w.Use(st.Func), arg)
	}
	final := c.Final().Var()
	w.Writef("super(%s);", final)
	w.Writef("this.config = %s;", final)
	for _, p := range c.Plugins {
		w.Writef("this.middlewareStack.use(%s(this.config));", w.Use(p.Func))
	}
}

// writeDestroys writes the extension destroy calls.
func (c *Chain) writeDestroys(w *Writer) {
	for _, d := range c.Destroys {
		w.Writef("%s(this.config);", w.Use(d.Func))
	}
}

// renderParams renders resolve parameters as an object literal:
// "{ signingName: \"weather\", region }".
func renderParams(w *Writer, params []Param) string {
	if len(params) == 0 {
		return ""
	}
	parts := make([]string, len(params))
	for i, p := range params {
		expr := p.Expr
		if p.Ref != nil {
			expr = w.Use(p.Ref)
		}
		if expr == "" || expr == p.Name {
			parts[i] = p.Name
			continue
		}
		parts[i] = p.Name + ": " + expr
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}
