package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/ast"
	"go.uber.org/goleak"

	"github.com/nexusgraph/federation-core/pkg/value"
)

// TestMain covers every _test.go file in package schema (this one,
// roundtrip_test.go, remove_test.go) — only one TestMain is allowed
// per package.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestNewMutableSchemaSeedsBuiltins(t *testing.T) {
	s := NewMutableSchema()
	for _, name := range []string{"Int", "Float", "String", "Boolean", "ID"} {
		typ, ok := s.LookupType(name)
		require.True(t, ok, "builtin %s should resolve", name)
		assert.True(t, typ.IsBuiltin())
	}
	for _, name := range []string{"include", "skip", "deprecated"} {
		_, ok := s.DirectiveDefinition(name)
		require.True(t, ok, "builtin directive %s should be defined", name)
		assert.True(t, s.IsBuiltinDirective(name))
	}
}

func TestAddObjectTypeIdempotentSameKind(t *testing.T) {
	s := NewMutableSchema()
	a, err := s.AddObjectType("User")
	require.NoError(t, err)
	b, err := s.AddObjectType("User")
	require.NoError(t, err)
	assert.Same(t, a, b)
}

func TestAddObjectTypeConflictingKind(t *testing.T) {
	s := NewMutableSchema()
	_, err := s.AddScalarType("User")
	require.NoError(t, err)
	_, err = s.AddObjectType("User")
	require.Error(t, err)
}

func TestAddScalarTypeCollidesWithBuiltin(t *testing.T) {
	s := NewMutableSchema()
	_, err := s.AddScalarType("String")
	require.Error(t, err)
}

func TestAddFieldRejectsCrossSchemaType(t *testing.T) {
	s1 := NewMutableSchema()
	s2 := NewMutableSchema()
	obj, err := s1.AddObjectType("Query")
	require.NoError(t, err)
	foreign, err := s2.AddObjectType("Foreign")
	require.NoError(t, err)
	_, err = obj.AddField("bad", foreign)
	assert.Error(t, err)
}

func TestAddFieldRejectsDuplicateName(t *testing.T) {
	s := NewMutableSchema()
	obj, _ := s.AddObjectType("Query")
	strType, _ := s.LookupType("String")
	_, err := obj.AddField("name", strType)
	require.NoError(t, err)
	_, err = obj.AddField("name", strType)
	assert.Error(t, err)
}

func TestImmutableSchemaRejectsMutation(t *testing.T) {
	s := NewMutableSchema()
	immutable := s.ToImmutable()
	_, err := immutable.AddObjectType("Query")
	assert.Error(t, err)
}

func TestSetQueryWiresReferencerEdge(t *testing.T) {
	s := NewMutableSchema()
	query, _ := s.AddObjectType("Query")
	s.schemaDefinition.SetQuery(query)
	refs := query.Referencers()
	require.Len(t, refs, 1)
	assert.Same(t, s.schemaDefinition, refs[0])
}

func TestDirectiveApplicationArgOrderIndependentEquality(t *testing.T) {
	s := NewMutableSchema()
	obj, _ := s.AddObjectType("Product")
	strType, _ := s.LookupType("String")
	field, _ := obj.AddField("sku", strType)
	args := value.ArgumentMap{
		"graph":    {Kind: ast.EnumValue, Raw: "A"},
		"external": {Kind: ast.BooleanValue, Raw: "true"},
	}
	app := field.ApplyDirective("join__field", args)
	assert.True(t, field.Directives().Has("join__field"))

	reordered := &DirectiveApplication{Name: "join__field", Args: value.ArgumentMap{
		"external": {Kind: ast.BooleanValue, Raw: "true"},
		"graph":    {Kind: ast.EnumValue, Raw: "A"},
	}}
	assert.True(t, app.Equal(reordered))
}
