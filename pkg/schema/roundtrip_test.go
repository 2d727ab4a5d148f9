package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/nexusgraph/federation-core/pkg/value"
)

func buildSampleSchema(t *testing.T) *Schema {
	t.Helper()
	s := NewMutableSchema()
	strType, _ := s.LookupType("String")
	idType, _ := s.LookupType("ID")

	product, err := s.AddObjectType("Product")
	require.NoError(t, err)
	skuField, err := product.AddField("sku", strType)
	require.NoError(t, err)
	skuField.ApplyDirective("join__field", value.ArgumentMap{
		"graph": {Kind: ast.EnumValue, Raw: "INVENTORY"},
	})
	idField, err := product.AddField("id", idType)
	require.NoError(t, err)
	product.ApplyKey(idField)

	review, err := s.AddObjectType("Review")
	require.NoError(t, err)
	_, err = review.AddField("body", strType)
	require.NoError(t, err)
	authorField, err := review.AddField("author", product)
	require.NoError(t, err)
	_, err = authorField.AddArgument("locale", strType)
	require.NoError(t, err)

	result, err := s.AddUnionType("SearchResult")
	require.NoError(t, err)
	require.NoError(t, result.AddMember(product))
	require.NoError(t, result.AddMember(review))

	filter, err := s.AddInputObjectType("ProductFilter")
	require.NoError(t, err)
	skuFilterField, err := filter.AddField("sku", strType)
	require.NoError(t, err)
	require.NoError(t, skuFilterField.SetDefaultValue(&value.Value{Kind: ast.StringValue, Raw: "default-sku"}))

	query, err := s.AddObjectType("Query")
	require.NoError(t, err)
	_, err = query.AddField("products", List(product))
	require.NoError(t, err)
	s.SchemaDefinition().SetQuery(query)

	return s
}

// ApplyKey is a tiny test-only convenience wiring a @join__type
// directive whose key argument is a single-field selection set (no
// graph argument), used only so buildSampleSchema reads
// naturally; it is not part of the package's public surface.
func (o *ObjectType) ApplyKey(field *FieldDefinition) {
	o.Directives().Apply("join__type", value.ArgumentMap{
		"key": {Kind: ast.StringValue, Raw: field.Name()},
	})
}

func TestRoundTripImmutableThenMutable(t *testing.T) {
	mutable := buildSampleSchema(t)
	immutable := mutable.ToImmutable()
	require.False(t, immutable.Mutable)

	back := immutable.ToMutable()
	require.True(t, back.Mutable)

	assertSchemasStructurallyEqual(t, mutable, back)
}

func TestRoundTripMutableThenImmutableThenMutable(t *testing.T) {
	original := buildSampleSchema(t)
	immutable := original.ToImmutable()
	mutableAgain := immutable.ToMutable()
	immutableAgain := mutableAgain.ToImmutable()

	assertSchemasStructurallyEqual(t, immutable, immutableAgain)
}

func TestCopyIsIndependentOfSource(t *testing.T) {
	original := buildSampleSchema(t)
	cloned := original.ToMutable()

	_, err := cloned.RemoveType("Review")
	require.NoError(t, err)

	_, stillThere := original.LookupType("Review")
	assert.True(t, stillThere, "removing from the copy must not affect the source")
}

func TestPrintIsDeterministicAcrossCopies(t *testing.T) {
	original := buildSampleSchema(t)
	snapshot := original.ToImmutable()
	assert.Equal(t, original.Print(), snapshot.Print())
}

func assertSchemasStructurallyEqual(t *testing.T, a, b *Schema) {
	t.Helper()
	aTypes, bTypes := a.Types(), b.Types()
	require.Len(t, bTypes, len(aTypes))
	for i, at := range aTypes {
		bt := bTypes[i]
		require.Equal(t, at.Name(), bt.Name())
		require.Equal(t, at.TypeKind(), bt.TypeKind())
		assert.True(t, at.Directives().Equal(*bt.Directives()), "directives for %s", at.Name())

		switch av := at.(type) {
		case *ObjectType:
			bv := bt.(*ObjectType)
			assertFieldsEqual(t, av.Fields(), bv.Fields())
		case *InputObjectType:
			bv := bt.(*InputObjectType)
			require.Len(t, bv.Fields(), len(av.Fields()))
			for j, af := range av.Fields() {
				bf := bv.Fields()[j]
				assert.Equal(t, af.Name(), bf.Name())
				assert.Equal(t, af.Type().String(), bf.Type().String())
				assert.True(t, value.Equal(af.defaultValue, bf.defaultValue))
			}
		case *UnionType:
			bv := bt.(*UnionType)
			aMembers, bMembers := av.Members(), bv.Members()
			require.Len(t, bMembers, len(aMembers))
			for j, am := range aMembers {
				assert.Equal(t, am.Name(), bMembers[j].Name())
			}
		}
	}

	sd, sdCopy := a.SchemaDefinition(), b.SchemaDefinition()
	if sd.Query != nil {
		require.NotNil(t, sdCopy.Query)
		assert.Equal(t, sd.Query.Name(), sdCopy.Query.Name())
	} else {
		assert.Nil(t, sdCopy.Query)
	}
}

func assertFieldsEqual(t *testing.T, a, b []*FieldDefinition) {
	t.Helper()
	require.Len(t, b, len(a))
	for i, af := range a {
		bf := b[i]
		assert.Equal(t, af.Name(), bf.Name())
		assert.Equal(t, af.Type().String(), bf.Type().String())
		assert.True(t, af.Directives().Equal(*bf.Directives()), "directives for %s", af.Coordinate())
		require.Len(t, bf.Arguments(), len(af.Arguments()))
		for j, aa := range af.Arguments() {
			ba := bf.Arguments()[j]
			assert.Equal(t, aa.Name(), ba.Name())
			assert.Equal(t, aa.Type().String(), ba.Type().String())
		}
	}
}
