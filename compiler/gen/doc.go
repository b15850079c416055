// Package gen synthesizes TypeScript service clients from a service model.
//
// For every service the generator writes one file holding the operation
// input and output unions, the client configuration types and the client
// class whose constructor threads the configuration through each runtime
// extension.
//
// # Architecture
//
// The generation pipeline follows this flow:
//
//	Model file (YAML/JSON)
//	        ↓
//	   load.Model (services, resources, operations, plugins)
//	        ↓
//	   Service + []*Extension + Protocol
//	        ↓
//	   ClientGenerator (unions, config types, construction chain)
//	        ↓
//	   Generated client ({Service}Client.ts)
//
// # Key Types
//
//   - Service: A service with its contained operations and endpoint capability
//   - Extension: A runtime plugin; each of its five capabilities is optional
//   - Protocol: The application protocol and its handler options type
//   - Chain: The immutable construction plan of a client
//   - Writer: Source writer with import bookkeeping and sections
//   - Config: Global configuration for code generation
//
// # Error Handling
//
//   - UnsupportedProtocolError: The protocol is not connection-oriented
//   - FragmentAliasError: Configuration fragments collide or shadow endpoint aliases
//   - ConfigError: Configuration errors
//   - GenerationError: Writer misuse, model and I/O errors
//
// Every failure returns no output:
//
//	out, err := gen.NewClientGenerator(cfg, svc, gen.HTTP, exts...).Generate()
//	if err != nil {
//	    if gen.IsUnsupportedProtocol(err) {
//	        // Handle protocol error
//	    }
//	    return err
//	}
//
// # Configuration
//
// Configuration is done via the functional options pattern:
//
//	config, err := gen.NewConfig(
//	    gen.WithTarget("./src"),
//	    gen.WithoutFeatures(gen.FeatureDocs.Name),
//	    gen.WithSectionHook(gen.SectionBodyExtra, func(w *gen.Writer, _ gen.Section) {
//	        w.Write("// extra")
//	    }),
//	)
//
// # Sections
//
// The client is written inside five named sections: client_config,
// client_properties, client_constructor, client_destroy and
// client_body_extra. Hooks registered for a section run when it closes,
// after the generator's own content and inside the enclosing block.
//
// # Features
//
//   - docs: TSDoc comments (enabled by default)
//   - endpoints: Endpoint rule set support (enabled by default)
//   - cache: Reuse of unchanged clients between runs
package gen
