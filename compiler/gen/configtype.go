package gen

import (
	"fmt"
	"slices"
)

// Fragment is a member of a configuration type intersection.
type Fragment struct {
	Ref *TypeRef
	// TypeArg, when set, parameterizes the fragment ("EndpointInputConfig<EndpointParameters>").
	TypeArg *TypeRef
	// Extension names the contributing extension; empty for fragments added
	// by the generator itself.
	Extension string
}

// ConfigComposition is the fragment list of the two configuration tiers,
// after the protocol base configuration and ClientDefaults.
type ConfigComposition struct {
	Options  *TypeRef
	Input    []Fragment
	Resolved []Fragment
}

// reservedEndpointAliases are the identifiers owned by endpoint configuration.
var reservedEndpointAliases = []string{
	"EndpointInputConfig",
	"EndpointResolvedConfig",
	"EndpointParameters",
	"ClientInputEndpointParameters",
	"ClientResolvedEndpointParameters",
}

// ComposeConfig composes the input and resolved configuration tiers of a
// service. Each tier lists, in extension order, the fragments offered for it.
// For services with endpoint rules the endpoint fragments, parameterized by
// the endpoint parameters type, follow all other fragments and the client
// endpoint parameter types come last.
func ComposeConfig(s *Service, p Protocol, exts []*Extension, cfg *Config) (*ConfigComposition, error) {
	if !p.ConnectionOriented() {
		return nil, NewUnsupportedProtocolError(s.ID, p.Name())
	}
	var marked *Extension
	var markedNames []string
	for _, e := range exts {
		if e.Endpoint {
			markedNames = append(markedNames, e.Name)
			marked = e
		}
	}
	if len(markedNames) > 1 {
		return nil, NewFragmentAliasError(s.ID, "", "more than one extension carries the endpoint marker", markedNames...)
	}
	c := &ConfigComposition{Options: p.OptionsType()}
	ep := cfg.endpoint()
	reserved := slices.Clone(reservedEndpointAliases)
	for _, ref := range []*TypeRef{ep.Parameters, ep.InputConfig, ep.ResolvedConfig, ep.ClientInputParameters, ep.ClientResolvedParameters} {
		reserved = append(reserved, ref.Rendered())
	}
	tiers := []struct {
		frags   *[]Fragment
		offered func(*Extension) *TypeRef
		def     *TypeRef
		marker  *TypeRef
	}{
		{&c.Input, func(e *Extension) *TypeRef { return e.InputConfig }, ep.InputConfig, ep.ClientInputParameters},
		{&c.Resolved, func(e *Extension) *TypeRef { return e.ResolvedConfig }, ep.ResolvedConfig, ep.ClientResolvedParameters},
	}
	for _, t := range tiers {
		for _, e := range exts {
			ref := t.offered(e)
			if ref == nil || (e.Endpoint && s.EndpointRules) {
				continue
			}
			if s.EndpointRules && slices.Contains(reserved, ref.Rendered()) {
				return nil, NewFragmentAliasError(s.ID, ref.Rendered(), "fragment shadows a reserved endpoint alias", e.Name)
			}
			*t.frags = append(*t.frags, Fragment{Ref: ref, Extension: e.Name})
		}
		if !s.EndpointRules {
			continue
		}
		frag := Fragment{Ref: t.def, TypeArg: ep.Parameters}
		if marked != nil {
			frag.Extension = marked.Name
			if ref := t.offered(marked); ref != nil {
				frag.Ref = ref
			}
		}
		*t.frags = append(*t.frags, frag, Fragment{Ref: t.marker})
	}
	if err := checkAliases(s, c); err != nil {
		return nil, err
	}
	return c, nil
}

// checkAliases fails when one identifier names different symbols across
// the fragments of both tiers.
func checkAliases(s *Service, c *ConfigComposition) error {
	type binding struct {
		key       string
		extension string
	}
	bound := make(map[string]binding)
	for _, f := range slices.Concat(c.Input, c.Resolved) {
		for _, ref := range []*TypeRef{f.Ref, f.TypeArg} {
			if ref == nil {
				continue
			}
			alias := ref.Rendered()
			prev, ok := bound[alias]
			if !ok {
				bound[alias] = binding{key: ref.key(), extension: f.Extension}
				continue
			}
			if prev.key != ref.key() {
				var names []string
				for _, n := range []string{prev.extension, f.Extension} {
					if n != "" && !slices.Contains(names, n) {
						names = append(names, n)
					}
				}
				return NewFragmentAliasError(s.ID, alias,
					fmt.Sprintf("alias refers to both %s and %s", prev.key, ref.key()), names...)
			}
		}
	}
	return nil
}

// clientDefault is a built-in member of the ClientDefaults interface.
type clientDefault struct {
	name  string
	types []*TypeRef
	doc   string
	// links are referenced by {@link} tags of doc.
	links []*TypeRef
}

var clientDefaults = []clientDefault{
	{
		name:  "requestHandler",
		types: []*TypeRef{{Name: "HttpHandler", Module: ModuleProtocolHTTP, Alias: "__HttpHandler"}},
		doc:   "The HTTP handler to use. Fetch in browser and Https in Nodejs.",
	},
	{
		name: "sha256",
		types: []*TypeRef{
			{Name: "ChecksumConstructor", Module: ModuleTypes, Alias: "__ChecksumConstructor"},
			{Name: "HashConstructor", Module: ModuleTypes, Alias: "__HashConstructor"},
		},
		doc:   "A constructor for a class implementing the {@link __Checksum} interface\nthat computes the SHA-256 HMAC or checksum of a string or binary buffer.\n@internal",
		links: []*TypeRef{{Name: "Checksum", Module: ModuleTypes, Alias: "__Checksum"}},
	},
	{
		name:  "urlParser",
		types: []*TypeRef{{Name: "UrlParser", Module: ModuleTypes, Alias: "__UrlParser"}},
		doc:   "The function that will be used to convert strings into HTTP endpoints.\n@internal",
	},
	{
		name:  "bodyLengthChecker",
		types: []*TypeRef{{Name: "BodyLengthCalculator", Module: ModuleTypes, Alias: "__BodyLengthCalculator"}},
		doc:   "A function that can calculate the length of a request body.\n@internal",
	},
	{
		name:  "streamCollector",
		types: []*TypeRef{{Name: "StreamCollector", Module: ModuleTypes, Alias: "__StreamCollector"}},
		doc:   "A function that converts a stream into an array of bytes.\n@internal",
	},
	{
		name:  "base64Decoder",
		types: []*TypeRef{{Name: "Decoder", Module: ModuleTypes, Alias: "__Decoder"}},
		doc:   "The function that will be used to convert a base64-encoded string to a byte array.\n@internal",
	},
	{
		name:  "base64Encoder",
		types: []*TypeRef{{Name: "Encoder", Module: ModuleTypes, Alias: "__Encoder"}},
		doc:   "The function that will be used to convert binary data to a base64-encoded string.\n@internal",
	},
	{
		name:  "utf8Decoder",
		types: []*TypeRef{{Name: "Decoder", Module: ModuleTypes, Alias: "__Decoder"}},
		doc:   "The function that will be used to convert a UTF8-encoded string to a byte array.\n@internal",
	},
	{
		name:  "utf8Encoder",
		types: []*TypeRef{{Name: "Encoder", Module: ModuleTypes, Alias: "__Encoder"}},
		doc:   "The function that will be used to convert binary data to a UTF-8 encoded string.\n@internal",
	},
	{
		name:  "runtime",
		types: []*TypeRef{{Name: "string"}},
		doc:   "The runtime environment.\n@internal",
	},
	{
		name:  "disableHostPrefix",
		types: []*TypeRef{{Name: "boolean"}},
		doc:   "Disable dynamically changing the endpoint of the client based on the hostPrefix trait of an operation.",
	},
}

// builtinDefaultNames are the member names of ClientDefaults that caller
// fields may not redeclare.
var builtinDefaultNames = func() []string {
	names := make([]string, len(clientDefaults))
	for i, d := range clientDefaults {
		names[i] = d.name
	}
	return names
}()

var (
	smithyConfiguration         = &TypeRef{Name: "SmithyConfiguration", Module: ModuleSmithyClient, Alias: "__SmithyConfiguration"}
	smithyResolvedConfiguration = &TypeRef{Name: "SmithyResolvedConfiguration", Module: ModuleSmithyClient, Alias: "__SmithyResolvedConfiguration"}
)

// configWriter writes the ClientDefaults interface and both configuration tiers.
type configWriter struct {
	w    *Writer
	s    *Service
	c    *ConfigComposition
	cfg  *Config
	docs bool
}

func (g *configWriter) write() {
	g.writeClientDefaults()
	g.w.Write("")
	g.writeTier(
		g.s.ConfigTypeName(),
		fmt.Sprintf("Partial<%s<%s>>", g.w.Use(smithyConfiguration), g.w.Use(g.c.Options)),
		"ClientDefaults",
		g.c.Input,
	)
	g.w.Write("")
	if g.docs {
		g.w.WriteDocs(fmt.Sprintf("The configuration interface of %s class constructor that set the region, credentials and other options.", g.s.ClientName()))
	}
	g.w.Writef("export interface %s extends %s {}", g.s.ConfigName(), g.s.ConfigTypeName())
	g.w.Write("")
	g.writeTier(
		g.s.ResolvedConfigTypeName(),
		fmt.Sprintf("%s<%s>", g.w.Use(smithyResolvedConfiguration), g.w.Use(g.c.Options)),
		"Required<ClientDefaults>",
		g.c.Resolved,
	)
	g.w.Write("")
	if g.docs {
		g.w.WriteDocs(fmt.Sprintf("The resolved configuration interface of %s class. This is resolved and normalized from the {@link %s | constructor configuration interface}.", g.s.ClientName(), g.s.ConfigName()))
	}
	g.w.Writef("export interface %s extends %s {}", g.s.ResolvedConfigName(), g.s.ResolvedConfigTypeName())
}

func (g *configWriter) writeClientDefaults() {
	w := g.w
	w.Write("export interface ClientDefaults")
	w.Indent()
	w.Writef("extends Partial<%s<%s>> {", w.Use(smithyResolvedConfiguration), w.Use(g.c.Options))
	first := true
	member := func(name, typ, doc string, links ...*TypeRef) {
		if g.docs {
			if !first {
				w.Write("")
			}
			for _, l := range links {
				w.Use(l)
			}
			w.WriteDocs(doc)
		}
		first = false
		w.Writef("%s?: %s;", name, typ)
	}
	for _, d := range clientDefaults {
		var typ string
		for i, ref := range d.types {
			if i > 0 {
				typ += " | "
			}
			typ += w.Use(ref)
		}
		member(d.name, typ, d.doc, d.links...)
	}
	for _, f := range g.cfg.ConfigFields {
		member(f.Name, w.Use(f.Type), f.Doc)
	}
	w.Dedent()
	w.Write("}")
}

// writeTier writes an intersection type alias, one member per line.
func (g *configWriter) writeTier(name, base, defaults string, frags []Fragment) {
	w := g.w
	parts := []string{defaults}
	for _, f := range frags {
		part := w.Use(f.Ref)
		if f.TypeArg != nil {
			part += "<" + w.Use(f.TypeArg) + ">"
		}
		parts = append(parts, part)
	}
	w.Writef("type %s = %s", name, base)
	w.Indent()
	for i, part := range parts {
		line := "& " + part
		if i == len(parts)-1 {
			line += ";"
		}
		w.Write(line)
	}
	w.Dedent()
}
