package value_test

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/vektah/gqlparser/v2/ast"
	"go.uber.org/goleak"

	"github.com/nexusgraph/federation-core/pkg/value"
)

// TestMain guards this package's tests with goleak, matching every
// other test package in the module.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// shape is a cmp-friendly projection of *value.Value: Kind/Raw/Children
// only, the same fields value.Equal itself compares. ast.Value also
// carries Position/Definition/ExpectedType/VariableDefinition, pointer
// fields whose identity is irrelevant to structural equality, so the
// projection — not ast.Value directly — is what go-cmp diffs.
type shape struct {
	Kind     ast.ValueKind
	Raw      string
	Children []childShape
}

type childShape struct {
	Name  string
	Value shape
}

func shapeOf(v *value.Value) shape {
	if v == nil {
		return shape{}
	}
	out := shape{Kind: v.Kind, Raw: v.Raw}
	for _, c := range v.Children {
		out.Children = append(out.Children, childShape{Name: c.Name, Value: shapeOf(c.Value)})
	}
	return out
}

func intVal(raw string) *value.Value {
	return &value.Value{Kind: ast.IntValue, Raw: raw}
}

func objVal(fields map[string]*value.Value) *value.Value {
	v := &value.Value{Kind: ast.ObjectValue}
	for name, fv := range fields {
		v.Children = append(v.Children, ast.ChildValue{Name: name, Value: fv})
	}
	return v
}

func TestEqualObjectFieldOrderIndependent(t *testing.T) {
	a := objVal(map[string]*value.Value{"a": intVal("1"), "b": intVal("2")})
	b := objVal(map[string]*value.Value{"b": intVal("2"), "a": intVal("1")})

	assert.True(t, value.Equal(a, b), "@f(a:1,b:2) and @f(b:2,a:1) must compare equal regardless of argument order")
}

func TestEqualDetectsDifference(t *testing.T) {
	a := objVal(map[string]*value.Value{"a": intVal("1")})
	b := objVal(map[string]*value.Value{"a": intVal("2")})
	assert.False(t, value.Equal(a, b))
}

func TestCloneIsIndependent(t *testing.T) {
	original := objVal(map[string]*value.Value{"a": intVal("1")})
	clone := value.Clone(original)

	clone.Children[0].Value.Raw = "999"
	assert.Equal(t, "1", original.Children[0].Value.Raw)
}

func TestArgumentMapEqual(t *testing.T) {
	m1 := value.ArgumentMap{"x": intVal("1"), "y": intVal("2")}
	m2 := value.ArgumentMap{"y": intVal("2"), "x": intVal("1")}
	assert.True(t, m1.Equal(m2))

	m3 := value.ArgumentMap{"x": intVal("1")}
	assert.False(t, m1.Equal(m3))
}

func TestArgumentMapSortedNames(t *testing.T) {
	m := value.ArgumentMap{"z": intVal("1"), "a": intVal("2")}
	assert.Equal(t, []string{"a", "z"}, m.SortedNames())
}

// TestCloneMatchesOriginalStructurally diffs the clone against the
// original by shape rather than by field-by-field assertions, so a
// regression that drops or mis-copies a nested child shows up as a
// readable structural diff instead of a bare inequality.
func TestCloneMatchesOriginalStructurally(t *testing.T) {
	original := objVal(map[string]*value.Value{
		"a": intVal("1"),
		"b": objVal(map[string]*value.Value{"c": intVal("2")}),
	})
	clone := value.Clone(original)

	if diff := cmp.Diff(shapeOf(original), shapeOf(clone)); diff != "" {
		t.Fatalf("clone differs from original (-want +got):\n%s\nfull dump of clone:\n%s", diff, spew.Sdump(clone))
	}
}

// TestCloneMutationDivergesFromOriginal is the mirror case: once the
// clone is mutated, the shapes must no longer match.
func TestCloneMutationDivergesFromOriginal(t *testing.T) {
	original := objVal(map[string]*value.Value{"a": intVal("1")})
	clone := value.Clone(original)
	clone.Children[0].Value.Raw = "999"

	if diff := cmp.Diff(shapeOf(original), shapeOf(clone)); diff == "" {
		t.Fatalf("expected mutated clone to diverge from original, but shapes matched:\n%s", spew.Sdump(clone))
	}
}
