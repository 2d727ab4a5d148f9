package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoveObjectTypeNotifiesFieldReferencer(t *testing.T) {
	s := NewMutableSchema()
	review, _ := s.AddObjectType("Review")
	product, _ := s.AddObjectType("Product")
	field, err := review.AddField("product", product)
	require.NoError(t, err)

	refs, err := s.RemoveType("Product")
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Same(t, field, refs[0])
	assert.Nil(t, field.Type())

	_, ok := s.LookupType("Product")
	assert.False(t, ok)
}

func TestRemoveObjectTypeRemovesOwnedFieldsAndArgs(t *testing.T) {
	s := NewMutableSchema()
	obj, _ := s.AddObjectType("Query")
	strType, _ := s.LookupType("String")
	field, err := obj.AddField("search", strType)
	require.NoError(t, err)
	_, err = field.AddArgument("term", strType)
	require.NoError(t, err)

	refs := obj.Remove()
	assert.Empty(t, refs)
	assert.Empty(t, obj.Fields())
	assert.True(t, field.IsDetached())

	strRefs := strType.Referencers()
	for _, r := range strRefs {
		assert.NotSame(t, field, r)
	}
}

func TestRemoveUnionMemberUpdatesMemberList(t *testing.T) {
	s := NewMutableSchema()
	union, _ := s.AddUnionType("SearchResult")
	product, _ := s.AddObjectType("Product")
	review, _ := s.AddObjectType("Review")
	require.NoError(t, union.AddMember(product))
	require.NoError(t, union.AddMember(review))

	refs, err := s.RemoveType("Product")
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Same(t, union, refs[0])

	assert.False(t, union.HasMember("Product"))
	assert.True(t, union.HasMember("Review"))
	assert.Len(t, union.Members(), 1)
}

func TestRemoveSchemaRootClearsBinding(t *testing.T) {
	s := NewMutableSchema()
	query, _ := s.AddObjectType("Query")
	s.schemaDefinition.SetQuery(query)

	_, err := s.RemoveType("Query")
	require.NoError(t, err)
	assert.Nil(t, s.SchemaDefinition().Query)
}

func TestScalarRemoveTypeReferencePanics(t *testing.T) {
	s := NewMutableSchema()
	sc, _ := s.AddScalarType("DateTime")
	other, _ := s.AddScalarType("Other")
	assert.Panics(t, func() {
		sc.removeTypeReference(other)
	})
}

func TestRemoveTwiceIsNoop(t *testing.T) {
	s := NewMutableSchema()
	obj, _ := s.AddObjectType("Query")
	first := obj.Remove()
	second := obj.Remove()
	assert.Empty(t, first)
	assert.Nil(t, second)
}
