package gen

import (
	"strings"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/syssam/clientgen/compiler/load"
)

// Service is the generator's view of a service shape.
type Service struct {
	// ID is the absolute shape id of the service.
	ID string
	// Name is the shape name of the service.
	Name string
	// Symbol is the generated client class.
	Symbol TypeRef
	// Documentation is the service documentation, written above the class.
	Documentation string
	// Operations are the contained operations ordered by shape id.
	Operations []*Operation
	// EndpointRules reports whether the service declares an endpoint rule set.
	EndpointRules bool
}

// Operation is an operation contained in a service.
type Operation struct {
	ID     string
	Name   string
	Input  *TypeRef
	Output *TypeRef
}

// NewService builds the generator view of the service with the given id.
// A nil symbol provider defaults to CommandSymbols.
func NewService(m *load.Model, id string, symbols SymbolProvider) (*Service, error) {
	if symbols == nil {
		symbols = CommandSymbols{}
	}
	ops, err := m.ContainedOperations(id)
	if err != nil {
		return nil, err
	}
	s, ok := m.Service(id)
	if !ok {
		return nil, load.NewModelError(id, "unknown service", nil)
	}
	svc := &Service{
		ID:            s.ID,
		Name:          s.Name,
		Symbol:        symbols.ServiceSymbol(s),
		Documentation: s.Documentation,
		EndpointRules: s.EndpointRuleSet,
		Operations:    make([]*Operation, 0, len(ops)),
	}
	for _, o := range ops {
		svc.Operations = append(svc.Operations, &Operation{
			ID:     o.ID,
			Name:   o.Name,
			Input:  symbols.OperationInput(o),
			Output: symbols.OperationOutput(o),
		})
	}
	return svc, nil
}

// ClientName returns the rendered name of the client class.
func (s *Service) ClientName() string { return s.Symbol.Rendered() }

// ConfigName returns the name of the client input configuration interface.
func (s *Service) ConfigName() string { return s.ClientName() + "Config" }

// ResolvedConfigName returns the name of the resolved configuration interface.
func (s *Service) ResolvedConfigName() string { return s.ClientName() + "ResolvedConfig" }

// ConfigTypeName returns the name of the input configuration type alias.
func (s *Service) ConfigTypeName() string { return s.ConfigName() + "Type" }

// ResolvedConfigTypeName returns the name of the resolved configuration type alias.
func (s *Service) ResolvedConfigTypeName() string { return s.ResolvedConfigName() + "Type" }

// Title returns a human readable service title ("WeatherService" → "Weather Service").
func (s *Service) Title() string {
	words := strings.ReplaceAll(inflect.Underscore(s.Name), "_", " ")
	return cases.Title(language.English).String(words)
}
