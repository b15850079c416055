package gen

import (
	"errors"
	"fmt"
)

// ClientGenerator writes the client of one service: the operation input and
// output unions, the configuration types and the client class.
type ClientGenerator struct {
	cfg        *Config
	service    *Service
	protocol   Protocol
	extensions []*Extension
}

// NewClientGenerator returns a generator for the service. Extensions that do
// not apply to the service are dropped; the order of the others is kept.
// A nil config means DefaultConfig().
func NewClientGenerator(cfg *Config, s *Service, p Protocol, exts ...*Extension) *ClientGenerator {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if s.EndpointRules && !cfg.HasFeature(FeatureEndpoints.Name) {
		c := *s
		c.EndpointRules = false
		s = &c
	}
	g := &ClientGenerator{cfg: cfg, service: s, protocol: p}
	for _, e := range exts {
		if e != nil && e.AppliesTo(s) {
			g.extensions = append(g.extensions, e)
		}
	}
	return g
}

// Service returns the service the generator writes.
func (g *ClientGenerator) Service() *Service { return g.service }

// Extensions returns the extensions applied to the service, in order.
func (g *ClientGenerator) Extensions() []*Extension { return g.extensions }

// Chain returns the construction plan of the client.
func (g *ClientGenerator) Chain() *Chain {
	return BuildChain(g.service, g.extensions, g.cfg)
}

// Generate returns the source of the client. Any failure returns no output.
func (g *ClientGenerator) Generate() ([]byte, error) {
	comp, err := ComposeConfig(g.service, g.protocol, g.extensions, g.cfg)
	if err != nil {
		return nil, err
	}
	chain := g.Chain()
	w := NewWriter(g.cfg.Hooks)
	w.SetHeader(g.cfg.Header)
	g.write(w, comp, chain)
	out, err := w.Bytes()
	if err != nil {
		var genErr *GenerationError
		if errors.As(err, &genErr) && genErr.Service == "" {
			genErr.Service = g.service.ID
		}
		return nil, err
	}
	g.cfg.logger().Debug("client generated",
		"service", g.service.ID,
		"extensions", len(g.extensions),
		"steps", len(chain.Steps),
		"input_fragments", len(comp.Input),
		"resolved_fragments", len(comp.Resolved),
	)
	return out, nil
}

func (g *ClientGenerator) docs() bool {
	return g.cfg.HasFeature(FeatureDocs.Name)
}

func (g *ClientGenerator) write(w *Writer, comp *ConfigComposition, chain *Chain) {
	s := g.service
	writeTypeUnion(w, "ServiceInputTypes", s, InputType, g.protocol.DefaultInput())
	w.Write("")
	writeTypeUnion(w, "ServiceOutputTypes", s, OutputType, g.protocol.DefaultOutput())
	w.Write("")

	w.OpenSection(SectionConfig)
	(&configWriter{w: w, s: s, c: comp, cfg: g.cfg, docs: g.docs()}).write()
	w.CloseSection(SectionConfig)
	w.Write("")

	if g.docs() {
		doc := s.Documentation
		if doc == "" {
			doc = fmt.Sprintf("%s is the client of the %s service.", s.ClientName(), s.Title())
		}
		w.WriteDocs(doc)
	}
	w.Writef("export class %s extends %s<", s.ClientName(), w.Use(g.cfg.clientBase()))
	w.Indent()
	w.Writef("%s,", w.Use(comp.Options))
	w.Write("ServiceInputTypes,")
	w.Write("ServiceOutputTypes,")
	w.Write(s.ResolvedConfigName())
	w.Dedent()
	w.Write("> {")
	w.Indent()

	w.OpenSection(SectionProperties)
	if g.docs() {
		w.WriteDocs(fmt.Sprintf("The resolved configuration of %s class. This is resolved and normalized from the {@link %s | constructor configuration interface}.", s.ClientName(), s.ConfigName()))
	}
	w.Writef("readonly config: %s;", s.ResolvedConfigName())
	w.CloseSection(SectionProperties)
	w.Write("")

	w.Block(fmt.Sprintf("constructor(configuration: %s) {", s.ConfigName()), "}", func() {
		w.OpenSection(SectionConstructor)
		chain.writeConstructor(w)
		w.CloseSection(SectionConstructor)
	})
	w.Write("")

	if g.docs() {
		w.WriteDocs("Destroy underlying resources, like sockets. It's usually not necessary to do this.\n" +
			"However in Node.js, it's best to explicitly shut down the client's agent when it is no longer needed.\n" +
			"Otherwise, sockets might stay open for quite a long time before the server terminates them.")
	}
	w.Block("destroy(): void {", "}", func() {
		w.OpenSection(SectionDestroy)
		chain.writeDestroys(w)
		w.CloseSection(SectionDestroy)
		w.Write("super.destroy();")
	})

	w.OpenSection(SectionBodyExtra)
	w.CloseSection(SectionBodyExtra)
	w.Dedent()
	w.Write("}")
}
