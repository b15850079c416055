// Package load reads service model files that drive client generation.
//
// A model file is YAML (or JSON, which the YAML decoder accepts) describing
// services, the resources and operations they contain, the protocol the
// generated client speaks and the runtime plugins contributing configuration
// and middleware.
package load

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Model is a service model loaded from a file.
type Model struct {
	Protocol   *Protocol    `yaml:"protocol,omitempty" json:"protocol,omitempty"`
	Services   []*Service   `yaml:"services,omitempty" json:"services,omitempty"`
	Resources  []*Resource  `yaml:"resources,omitempty" json:"resources,omitempty"`
	Operations []*Operation `yaml:"operations,omitempty" json:"operations,omitempty"`
	Plugins    []*Plugin    `yaml:"plugins,omitempty" json:"plugins,omitempty"`

	services   map[string]*Service
	resources  map[string]*Resource
	operations map[string]*Operation
}

// Symbol references a type or function exported by a module.
type Symbol struct {
	Name   string `yaml:"name" json:"name"`
	Module string `yaml:"module,omitempty" json:"module,omitempty"`
	Alias  string `yaml:"alias,omitempty" json:"alias,omitempty"`
}

// UnmarshalYAML accepts either a bare name or a mapping.
func (s *Symbol) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*s = Symbol{Name: node.Value}
		return nil
	case yaml.MappingNode:
		type plain Symbol
		var p plain
		if err := node.Decode(&p); err != nil {
			return err
		}
		*s = Symbol(p)
		return nil
	default:
		return fmt.Errorf("expected symbol name or mapping, got %v", node.Kind)
	}
}

// Protocol describes the application protocol of the generated client.
type Protocol struct {
	Name               string  `yaml:"name" json:"name"`
	ConnectionOriented *bool   `yaml:"connectionOriented,omitempty" json:"connectionOriented,omitempty"`
	Options            *Symbol `yaml:"options,omitempty" json:"options,omitempty"`
}

// Service is a service shape.
type Service struct {
	ID              string     `yaml:"id" json:"id"`
	Name            string     `yaml:"name,omitempty" json:"name,omitempty"`
	Documentation   string     `yaml:"documentation,omitempty" json:"documentation,omitempty"`
	EndpointRuleSet bool       `yaml:"endpointRuleSet,omitempty" json:"endpointRuleSet,omitempty"`
	Operations      StringList `yaml:"operations,omitempty" json:"operations,omitempty"`
	Resources       StringList `yaml:"resources,omitempty" json:"resources,omitempty"`
}

// Resource groups operations and nested resources under a service.
type Resource struct {
	ID         string     `yaml:"id" json:"id"`
	Operations StringList `yaml:"operations,omitempty" json:"operations,omitempty"`
	Resources  StringList `yaml:"resources,omitempty" json:"resources,omitempty"`
}

// Operation is an operation shape. Input and Output hold structure shape
// ids and are empty when the operation declares none.
type Operation struct {
	ID     string `yaml:"id" json:"id"`
	Name   string `yaml:"name,omitempty" json:"name,omitempty"`
	Input  string `yaml:"input,omitempty" json:"input,omitempty"`
	Output string `yaml:"output,omitempty" json:"output,omitempty"`
}

// Plugin is a runtime client plugin. Every symbol is optional.
type Plugin struct {
	Name           string     `yaml:"name" json:"name"`
	InputConfig    *Symbol    `yaml:"inputConfig,omitempty" json:"inputConfig,omitempty"`
	ResolvedConfig *Symbol    `yaml:"resolvedConfig,omitempty" json:"resolvedConfig,omitempty"`
	Resolve        *Symbol    `yaml:"resolve,omitempty" json:"resolve,omitempty"`
	ResolveParams  []*Param   `yaml:"resolveParams,omitempty" json:"resolveParams,omitempty"`
	Plugin         *Symbol    `yaml:"plugin,omitempty" json:"plugin,omitempty"`
	Destroy        *Symbol    `yaml:"destroy,omitempty" json:"destroy,omitempty"`
	Endpoint       bool       `yaml:"endpoint,omitempty" json:"endpoint,omitempty"`
	Services       StringList `yaml:"services,omitempty" json:"services,omitempty"`
}

// Param is an additional argument passed to a plugin resolve function.
type Param struct {
	Name   string  `yaml:"name" json:"name"`
	Expr   string  `yaml:"expr,omitempty" json:"expr,omitempty"`
	Symbol *Symbol `yaml:"symbol,omitempty" json:"symbol,omitempty"`
}

// StringList is a YAML type that can be either a string or a list of strings.
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler for StringList.
func (s *StringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*s = []string{node.Value}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*s = list
		return nil
	default:
		return fmt.Errorf("expected string or list, got %v", node.Kind)
	}
}

// LoadFile reads and validates the model file at path.
func LoadFile(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	m, err := Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", path, err)
	}
	return m, nil
}

// Unmarshal decodes and validates a model from YAML or JSON.
func Unmarshal(data []byte) (*Model, error) {
	m := &Model{}
	if err := yaml.Unmarshal(data, m); err != nil {
		return nil, NewModelError("", "parse model", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Validate indexes the model shapes and checks that every reference resolves.
func (m *Model) Validate() error {
	m.services = make(map[string]*Service, len(m.Services))
	m.resources = make(map[string]*Resource, len(m.Resources))
	m.operations = make(map[string]*Operation, len(m.Operations))
	for _, s := range m.Services {
		if err := checkID(s.ID, m.services); err != nil {
			return err
		}
		if s.Name == "" {
			s.Name = ShapeName(s.ID)
		}
		m.services[s.ID] = s
	}
	for _, r := range m.Resources {
		if err := checkID(r.ID, m.resources); err != nil {
			return err
		}
		m.resources[r.ID] = r
	}
	for _, o := range m.Operations {
		if err := checkID(o.ID, m.operations); err != nil {
			return err
		}
		if o.Name == "" {
			o.Name = ShapeName(o.ID)
		}
		m.operations[o.ID] = o
	}
	for _, s := range m.Services {
		if err := m.checkRefs(s.ID, s.Operations, s.Resources); err != nil {
			return err
		}
	}
	for _, r := range m.Resources {
		if err := m.checkRefs(r.ID, r.Operations, r.Resources); err != nil {
			return err
		}
	}
	for i, p := range m.Plugins {
		if p.Name == "" {
			return NewModelError(fmt.Sprintf("plugins[%d]", i), "missing plugin name", nil)
		}
		for _, id := range p.Services {
			if _, ok := m.services[id]; !ok {
				return NewModelError(p.Name, fmt.Sprintf("unknown service %q", id), nil)
			}
		}
		for _, prm := range p.ResolveParams {
			if prm.Name == "" {
				return NewModelError(p.Name, "resolve parameter without a name", nil)
			}
		}
	}
	return nil
}

func (m *Model) checkRefs(owner string, ops, res []string) error {
	for _, id := range ops {
		if _, ok := m.operations[id]; !ok {
			return NewModelError(owner, fmt.Sprintf("unknown operation %q", id), nil)
		}
	}
	for _, id := range res {
		if _, ok := m.resources[id]; !ok {
			return NewModelError(owner, fmt.Sprintf("unknown resource %q", id), nil)
		}
	}
	return nil
}

func checkID[T any](id string, seen map[string]T) error {
	if id == "" {
		return NewModelError("", "shape without an id", nil)
	}
	if _, ok := seen[id]; ok {
		return NewModelError(id, "duplicate shape id", nil)
	}
	return nil
}

// Service returns the service shape with the given id.
func (m *Model) Service(id string) (*Service, bool) {
	s, ok := m.services[id]
	return s, ok
}

// ShapeName returns the name part of an absolute shape id ("ns#Name" → "Name").
func ShapeName(id string) string {
	if i := strings.LastIndexByte(id, '#'); i >= 0 {
		return id[i+1:]
	}
	return id
}
