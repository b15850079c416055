package gen

import (
	"slices"
)

// Selector picks a type reference from an operation, or nil when the
// operation has none.
type Selector func(*Operation) *TypeRef

// InputType selects the operation input.
func InputType(o *Operation) *TypeRef { return o.Input }

// OutputType selects the operation output.
func OutputType(o *Operation) *TypeRef { return o.Output }

// UnionMembers returns the members of the union of the selected types.
// Distinct references are sorted by name, then module. When an operation
// has no selected type, def is the first member.
func UnionMembers(s *Service, sel Selector, def *TypeRef) []TypeRef {
	seen := make(map[string]bool, len(s.Operations))
	var members []TypeRef
	selected := 0
	for _, o := range s.Operations {
		ref := sel(o)
		if ref == nil {
			continue
		}
		selected++
		if seen[ref.key()] {
			continue
		}
		seen[ref.key()] = true
		members = append(members, *ref)
	}
	slices.SortStableFunc(members, compareRefs)
	if selected < len(s.Operations) || len(s.Operations) == 0 {
		members = slices.Insert(members, 0, *def)
	}
	return members
}

// writeTypeUnion writes an exported union type alias:
//
//	export type ServiceInputTypes =
//	  | {}
//	  | GetCityCommandInput;
func writeTypeUnion(w *Writer, name string, s *Service, sel Selector, def *TypeRef) {
	members := UnionMembers(s, sel, def)
	w.Writef("export type %s =", name)
	w.Indent()
	for i := range members {
		line := "| " + w.Use(&members[i])
		if i == len(members)-1 {
			line += ";"
		}
		w.Write(line)
	}
	w.Dedent()
}
