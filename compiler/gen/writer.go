package gen

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// indentUnit is the indentation written per nesting level.
const indentUnit = "  "

// Writer accumulates TypeScript source. It tracks imports for the type
// references it writes, keeps a stack of open sections and runs the
// registered section hooks when a section closes.
//
// A Writer is not safe for concurrent use.
type Writer struct {
	header string
	body   strings.Builder
	depth  int
	// imports maps a module to the set of "name as alias" import specifiers.
	imports map[string]map[importSpec]struct{}
	// bound maps a rendered identifier to the symbol it was imported for.
	bound    map[string]string
	sections []Section
	running  map[Section]bool
	hooks    Hooks
	err      error
}

type importSpec struct {
	name  string
	alias string
}

func (s importSpec) String() string {
	if s.alias == "" || s.alias == s.name {
		return s.name
	}
	return s.name + " as " + s.alias
}

// NewWriter returns an empty writer running the given section hooks.
func NewWriter(hooks Hooks) *Writer {
	return &Writer{
		imports: make(map[string]map[importSpec]struct{}),
		bound:   make(map[string]string),
		running: make(map[Section]bool),
		hooks:   hooks,
	}
}

// SetHeader sets the comment written at the top of the file.
func (w *Writer) SetHeader(header string) {
	w.header = header
}

// Write writes a single line at the current indentation.
// An empty line is written without indentation.
func (w *Writer) Write(line string) *Writer {
	if line != "" {
		w.body.WriteString(strings.Repeat(indentUnit, w.depth))
		w.body.WriteString(line)
	}
	w.body.WriteByte('\n')
	return w
}

// Writef formats and writes a single line.
func (w *Writer) Writef(format string, args ...any) *Writer {
	return w.Write(fmt.Sprintf(format, args...))
}

// Indent increases the indentation of subsequent lines.
func (w *Writer) Indent() *Writer {
	w.depth++
	return w
}

// Dedent decreases the indentation of subsequent lines.
func (w *Writer) Dedent() *Writer {
	if w.depth == 0 {
		w.fail(fmt.Errorf("dedent below column zero"))
		return w
	}
	w.depth--
	return w
}

// Block writes the opening line, runs fn indented and writes the closing line.
func (w *Writer) Block(open, end string, fn func()) *Writer {
	w.Write(open)
	w.Indent()
	fn()
	w.Dedent()
	return w.Write(end)
}

// WriteDocs writes a TSDoc comment. Nothing is written for empty docs.
func (w *Writer) WriteDocs(docs string) *Writer {
	docs = strings.TrimSpace(docs)
	if docs == "" {
		return w
	}
	w.Write("/**")
	for _, line := range strings.Split(docs, "\n") {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			w.Write(" *")
			continue
		}
		w.Write(" * " + strings.ReplaceAll(line, "*/", "*\\/"))
	}
	return w.Write(" */")
}

// Use records the import needed by a reference and returns the identifier
// it is written as. Two different symbols bound to the same identifier
// fail the writer.
func (w *Writer) Use(ref *TypeRef) string {
	if ref == nil {
		w.fail(fmt.Errorf("nil type reference"))
		return ""
	}
	name := ref.Rendered()
	if ref.Local() {
		return name
	}
	if prev, ok := w.bound[name]; ok && prev != ref.key() {
		w.fail(fmt.Errorf("identifier %q is imported for both %s and %s", name, prev, ref.key()))
		return name
	}
	w.bound[name] = ref.key()
	specs, ok := w.imports[ref.Module]
	if !ok {
		specs = make(map[importSpec]struct{})
		w.imports[ref.Module] = specs
	}
	specs[importSpec{name: ref.Name, alias: ref.Alias}] = struct{}{}
	return name
}

// OpenSection opens a named section.
func (w *Writer) OpenSection(s Section) *Writer {
	w.sections = append(w.sections, s)
	return w
}

// CloseSection runs the hooks registered for s and closes it. The section
// must be the most recently opened one. Hooks of a section do not run again
// for the same section opened by one of them.
func (w *Writer) CloseSection(s Section) *Writer {
	n := len(w.sections)
	if n == 0 || w.sections[n-1] != s {
		w.fail(fmt.Errorf("close of section %q that is not open on top of the stack %v", s, w.sections))
		return w
	}
	if !w.running[s] {
		w.running[s] = true
		for _, hook := range w.hooks[s] {
			hook(w, s)
		}
		delete(w.running, s)
	}
	if len(w.sections) != n || w.sections[n-1] != s {
		w.fail(fmt.Errorf("hooks of section %q left sections open: %v", s, w.sections))
		return w
	}
	w.sections = w.sections[:n-1]
	return w
}

// Section returns the innermost open section, or "" when none is open.
func (w *Writer) Section() Section {
	if len(w.sections) == 0 {
		return ""
	}
	return w.sections[len(w.sections)-1]
}

// Err returns the first error recorded by the writer.
func (w *Writer) Err() error {
	return w.err
}

func (w *Writer) fail(err error) {
	if w.err == nil {
		w.err = NewGenerationError("writer", "", "", err)
	}
}

// Bytes returns the complete source: header, imports and body. It fails if
// the writer recorded an error or a section was left open.
func (w *Writer) Bytes() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	if len(w.sections) > 0 {
		return nil, NewGenerationError("writer", "", fmt.Sprintf("unclosed sections %v", w.sections), nil)
	}
	var b strings.Builder
	if w.header != "" {
		for _, line := range strings.Split(strings.TrimSpace(w.header), "\n") {
			b.WriteString("// ")
			b.WriteString(strings.TrimPrefix(strings.TrimPrefix(line, "//"), " "))
			b.WriteByte('\n')
		}
	}
	if imports := w.renderImports(); imports != "" {
		b.WriteString(imports)
		b.WriteByte('\n')
	}
	b.WriteString(w.body.String())
	return []byte(b.String()), nil
}

// String returns the body written so far, without header and imports.
func (w *Writer) String() string {
	return w.body.String()
}

func (w *Writer) renderImports() string {
	modules := make([]string, 0, len(w.imports))
	for m := range w.imports {
		modules = append(modules, m)
	}
	slices.Sort(modules)
	var b strings.Builder
	for _, m := range modules {
		specs := make([]importSpec, 0, len(w.imports[m]))
		for s := range w.imports[m] {
			specs = append(specs, s)
		}
		slices.SortFunc(specs, func(a, b importSpec) int {
			if c := cmp.Compare(a.name, b.name); c != 0 {
				return c
			}
			return cmp.Compare(a.alias, b.alias)
		})
		names := make([]string, len(specs))
		for i, s := range specs {
			names[i] = s.String()
		}
		fmt.Fprintf(&b, "import { %s } from %q;\n", strings.Join(names, ", "), m)
	}
	return b.String()
}
