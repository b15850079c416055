package gen

import (
	"github.com/syssam/clientgen/compiler/load"
)

// Protocol describes the application protocol spoken by a generated client.
type Protocol interface {
	// Name returns the protocol name used in diagnostics.
	Name() string
	// ConnectionOriented reports whether the protocol sends requests over a
	// connection managed by a request handler.
	ConnectionOriented() bool
	// OptionsType returns the handler options type threaded through the base
	// client configuration.
	OptionsType() *TypeRef
	// DefaultInput returns the union member added when an operation has no input.
	DefaultInput() *TypeRef
	// DefaultOutput returns the union member added when an operation has no output.
	DefaultOutput() *TypeRef
}

// Common runtime modules referenced by generated clients.
const (
	ModuleTypes        = "@aws-sdk/types"
	ModuleSmithyClient = "@aws-sdk/smithy-client"
	ModuleProtocolHTTP = "@aws-sdk/protocol-http"
)

// HTTP is the connection-oriented HTTP protocol.
var HTTP Protocol = &protocol{
	name:          "http",
	connected:     true,
	options:       &TypeRef{Name: "HttpHandlerOptions", Module: ModuleTypes, Alias: "__HttpHandlerOptions"},
	defaultInput:  &TypeRef{Name: "{}"},
	defaultOutput: &TypeRef{Name: "MetadataBearer", Module: ModuleTypes, Alias: "__MetadataBearer"},
}

type protocol struct {
	name          string
	connected     bool
	options       *TypeRef
	defaultInput  *TypeRef
	defaultOutput *TypeRef
}

func (p *protocol) Name() string             { return p.name }
func (p *protocol) ConnectionOriented() bool { return p.connected }
func (p *protocol) OptionsType() *TypeRef    { return p.options }
func (p *protocol) DefaultInput() *TypeRef   { return p.defaultInput }
func (p *protocol) DefaultOutput() *TypeRef  { return p.defaultOutput }

// ProtocolOption configures a protocol built by NewProtocol.
type ProtocolOption func(*protocol)

// ConnectionOriented marks the protocol as connection-oriented.
func ConnectionOriented(v bool) ProtocolOption {
	return func(p *protocol) { p.connected = v }
}

// OptionsType sets the handler options type of the protocol.
func OptionsType(ref *TypeRef) ProtocolOption {
	return func(p *protocol) { p.options = ref }
}

// DefaultMembers sets the default input and output union members.
func DefaultMembers(input, output *TypeRef) ProtocolOption {
	return func(p *protocol) {
		p.defaultInput = input
		p.defaultOutput = output
	}
}

// NewProtocol returns a protocol with the given name. Unless configured
// otherwise it shares the option type and default members of HTTP and is
// not connection-oriented.
func NewProtocol(name string, opts ...ProtocolOption) Protocol {
	base := HTTP.(*protocol)
	p := &protocol{
		name:          name,
		options:       base.options,
		defaultInput:  base.defaultInput,
		defaultOutput: base.defaultOutput,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ProtocolFromModel returns the protocol declared by the model, or HTTP when
// the model declares none. A declared protocol named "http" is
// connection-oriented unless the model says otherwise.
func ProtocolFromModel(m *load.Model) Protocol {
	mp := m.Protocol
	if mp == nil || (mp.Name == "" && mp.ConnectionOriented == nil && mp.Options == nil) {
		return HTTP
	}
	name := mp.Name
	if name == "" {
		name = HTTP.Name()
	}
	var opts []ProtocolOption
	switch {
	case mp.ConnectionOriented != nil:
		opts = append(opts, ConnectionOriented(*mp.ConnectionOriented))
	case name == HTTP.Name():
		opts = append(opts, ConnectionOriented(true))
	}
	if mp.Options != nil {
		opts = append(opts, OptionsType(refFromSymbol(mp.Options)))
	}
	return NewProtocol(name, opts...)
}
