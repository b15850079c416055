package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnionMembers(t *testing.T) {
	def := HTTP.DefaultOutput()

	t.Run("default member first then sorted by name", func(t *testing.T) {
		svc := testService(
			&Operation{Name: "One", Output: Ref("B", "./b")},
			&Operation{Name: "Two", Output: Ref("A", "./a")},
			&Operation{Name: "Three"},
		)

		members := UnionMembers(svc, OutputType, def)

		assert.Equal(t, []string{"__MetadataBearer", "A", "B"}, renderedNames(members))
	})

	t.Run("no default when every operation has the type", func(t *testing.T) {
		svc := testService(
			&Operation{Name: "One", Output: Ref("B", "./b")},
			&Operation{Name: "Two", Output: Ref("A", "./a")},
		)

		assert.Equal(t, []string{"A", "B"}, renderedNames(UnionMembers(svc, OutputType, def)))
	})

	t.Run("distinct members", func(t *testing.T) {
		shared := Ref("Shared", "./shared")
		svc := testService(
			&Operation{Name: "One", Input: shared},
			&Operation{Name: "Two", Input: Ref("Shared", "./shared")},
		)

		assert.Equal(t, []string{"Shared"}, renderedNames(UnionMembers(svc, InputType, HTTP.DefaultInput())))
	})

	t.Run("same name in different modules sorted by module", func(t *testing.T) {
		svc := testService(
			&Operation{Name: "One", Input: Ref("Input", "./z")},
			&Operation{Name: "Two", Input: Ref("Input", "./a")},
		)

		members := UnionMembers(svc, InputType, HTTP.DefaultInput())

		assert.Len(t, members, 2)
		assert.Equal(t, "./a", members[0].Module)
		assert.Equal(t, "./z", members[1].Module)
	})

	t.Run("operation-less service has only the default", func(t *testing.T) {
		svc := testService()

		assert.Equal(t, []string{"{}"}, renderedNames(UnionMembers(svc, InputType, HTTP.DefaultInput())))
	})

	t.Run("stable across operation order", func(t *testing.T) {
		a := testService(
			&Operation{Name: "One", Input: Ref("B", "./b")},
			&Operation{Name: "Two", Input: Ref("A", "./a")},
		)
		b := testService(
			&Operation{Name: "Two", Input: Ref("A", "./a")},
			&Operation{Name: "One", Input: Ref("B", "./b")},
		)

		assert.Equal(t, UnionMembers(a, InputType, HTTP.DefaultInput()), UnionMembers(b, InputType, HTTP.DefaultInput()))
	})
}

func TestWriteTypeUnion(t *testing.T) {
	svc := testService(
		&Operation{Name: "One", Output: Ref("B", "./b")},
		&Operation{Name: "Two", Output: Ref("A", "./a")},
		&Operation{Name: "Three"},
	)
	w := NewWriter(nil)

	writeTypeUnion(w, "ServiceOutputTypes", svc, OutputType, HTTP.DefaultOutput())

	out, err := w.Bytes()
	assert.NoError(t, err)
	assert.Equal(t, `import { A } from "./a";
import { B } from "./b";
import { MetadataBearer as __MetadataBearer } from "@aws-sdk/types";

export type ServiceOutputTypes =
  | __MetadataBearer
  | A
  | B;
`, string(out))
}

func renderedNames(refs []TypeRef) []string {
	names := make([]string, len(refs))
	for i, r := range refs {
		names[i] = r.Rendered()
	}
	return names
}
