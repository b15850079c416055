package gen

// Section names a checkpoint in the generated client where hooks may write
// additional source. The core content of a section is written between its
// open and close; hooks run on close, after the core content and inside the
// enclosing block.
type Section string

// Client sections, in the order they are opened.
const (
	// SectionConfig wraps the configuration type declarations.
	SectionConfig Section = "client_config"
	// SectionProperties wraps the class property declarations.
	SectionProperties Section = "client_properties"
	// SectionConstructor wraps the constructor body.
	SectionConstructor Section = "client_constructor"
	// SectionDestroy wraps the destroy method body, before the base call.
	SectionDestroy Section = "client_destroy"
	// SectionBodyExtra wraps the end of the class body.
	SectionBodyExtra Section = "client_body_extra"
)

// AllSections lists the client sections in the order they are opened.
var AllSections = []Section{
	SectionConfig,
	SectionProperties,
	SectionConstructor,
	SectionDestroy,
	SectionBodyExtra,
}

// Valid reports whether s is a known client section.
func (s Section) Valid() bool {
	for _, v := range AllSections {
		if v == s {
			return true
		}
	}
	return false
}

// SectionHook writes additional source into a section. It receives the
// writer positioned inside the section and the section name.
type SectionHook func(w *Writer, s Section)

// Hooks holds section hooks keyed by section name.
// Hooks of one section run in registration order.
type Hooks map[Section][]SectionHook

// Add registers a hook for a section.
func (h Hooks) Add(s Section, hook SectionHook) {
	h[s] = append(h[s], hook)
}

// Len returns the number of registered hooks.
func (h Hooks) Len() int {
	n := 0
	for _, hs := range h {
		n += len(hs)
	}
	return n
}
