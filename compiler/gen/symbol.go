package gen

import (
	"cmp"
	"strings"

	"github.com/go-openapi/inflect"

	"github.com/syssam/clientgen/compiler/load"
)

// TypeRef references a type or function used by the generated source.
// A reference without a module is local (or a literal such as "{}") and
// needs no import.
type TypeRef struct {
	Name   string
	Module string
	Alias  string
}

// Ref returns a reference to name exported by module.
func Ref(name, module string) *TypeRef {
	return &TypeRef{Name: name, Module: module}
}

// Local reports whether the reference needs no import.
func (r TypeRef) Local() bool { return r.Module == "" }

// Rendered returns the identifier the reference is written as.
func (r TypeRef) Rendered() string {
	if r.Alias != "" {
		return r.Alias
	}
	return r.Name
}

// String implements the fmt.Stringer interface.
func (r TypeRef) String() string {
	if r.Module == "" {
		return r.Rendered()
	}
	return r.Module + "#" + r.Rendered()
}

// key identifies the referenced symbol regardless of its alias.
func (r TypeRef) key() string { return r.Module + "#" + r.Name }

// compareRefs orders references by canonical name, then by module.
func compareRefs(a, b TypeRef) int {
	if c := cmp.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	return cmp.Compare(a.Module, b.Module)
}

// refFromSymbol converts a loaded symbol into a reference.
func refFromSymbol(s *load.Symbol) *TypeRef {
	if s == nil {
		return nil
	}
	return &TypeRef{Name: s.Name, Module: s.Module, Alias: s.Alias}
}

// Param is an additional argument passed to an extension's resolve function.
// Ref, when set, is imported and written in place of Expr.
type Param struct {
	Name string
	Expr string
	Ref  *TypeRef
}

// SymbolProvider maps model shapes to the references used in generated code.
type SymbolProvider interface {
	// ServiceSymbol returns the client class for a service.
	ServiceSymbol(s *load.Service) TypeRef
	// OperationInput returns the input type of an operation, or nil.
	OperationInput(o *load.Operation) *TypeRef
	// OperationOutput returns the output type of an operation, or nil.
	OperationOutput(o *load.Operation) *TypeRef
}

// CommandSymbols is the default SymbolProvider. Operations map to command
// modules ("./commands/GetCityCommand") exporting "<Op>CommandInput" and
// "<Op>CommandOutput"; services map to "<Service>Client".
type CommandSymbols struct{}

var _ SymbolProvider = CommandSymbols{}

// ServiceSymbol implements SymbolProvider.
func (CommandSymbols) ServiceSymbol(s *load.Service) TypeRef {
	name := identifier(s.Name)
	if !strings.HasSuffix(name, "Client") {
		name += "Client"
	}
	return TypeRef{Name: name}
}

// OperationInput implements SymbolProvider.
func (CommandSymbols) OperationInput(o *load.Operation) *TypeRef {
	if o.Input == "" {
		return nil
	}
	return commandRef(o, "Input")
}

// OperationOutput implements SymbolProvider.
func (CommandSymbols) OperationOutput(o *load.Operation) *TypeRef {
	if o.Output == "" {
		return nil
	}
	return commandRef(o, "Output")
}

func commandRef(o *load.Operation, suffix string) *TypeRef {
	command := identifier(o.Name) + "Command"
	return Ref(command+suffix, "./commands/"+command)
}

// identifier converts a shape name into a TypeScript class identifier.
func identifier(name string) string {
	return inflect.Camelize(name)
}
