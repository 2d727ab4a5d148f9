package federation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/ast"
	"go.uber.org/goleak"

	"github.com/nexusgraph/federation-core/pkg/federation"
	"github.com/nexusgraph/federation-core/pkg/schema"
	"github.com/nexusgraph/federation-core/pkg/value"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func buildProductSchema(t *testing.T) (*schema.Schema, *schema.ObjectType) {
	t.Helper()
	s := schema.NewMutableSchema()
	strType, _ := s.LookupType("String")
	idType, _ := s.LookupType("ID")

	product, err := s.AddObjectType("Product")
	require.NoError(t, err)
	idField, err := product.AddField("id", idType)
	require.NoError(t, err)
	_ = idField
	_, err = product.AddField("sku", strType)
	require.NoError(t, err)
	weightField, err := product.AddField("weight", strType)
	require.NoError(t, err)
	weightField.ApplyDirective(federation.External, nil)

	product.Directives().Apply(federation.Key, value.ArgumentMap{
		"fields": {Kind: ast.StringValue, Raw: "id"},
	})

	query, err := s.AddObjectType("Query")
	require.NoError(t, err)
	topProducts, err := query.AddField("topProductsWithShipping", product)
	require.NoError(t, err)
	topProducts.ApplyDirective(federation.Provides, value.ArgumentMap{
		"fields": {Kind: ast.StringValue, Raw: "weight"},
	})

	return s, product
}

func TestKeyPredicate(t *testing.T) {
	_, product := buildProductSchema(t)
	idField, _ := product.Field("id")
	skuField, _ := product.Field("sku")

	assert.True(t, federation.KeyPredicate(idField))
	assert.False(t, federation.KeyPredicate(skuField))
}

func TestShareablePredicateKeyFieldsAreShareable(t *testing.T) {
	_, product := buildProductSchema(t)
	idField, _ := product.Field("id")
	assert.True(t, federation.ShareablePredicate(idField))
}

func TestShareablePredicateProvidedExternalField(t *testing.T) {
	_, product := buildProductSchema(t)
	weightField, _ := product.Field("weight")
	assert.True(t, federation.ShareablePredicate(weightField))
}

func TestShareablePredicateOrdinaryFieldIsNotShareable(t *testing.T) {
	_, product := buildProductSchema(t)
	skuField, _ := product.Field("sku")
	assert.False(t, federation.ShareablePredicate(skuField))
}

func TestShareablePredicateExplicitDirective(t *testing.T) {
	s := schema.NewMutableSchema()
	strType, _ := s.LookupType("String")
	obj, _ := s.AddObjectType("Review")
	body, _ := obj.AddField("body", strType)
	body.ApplyDirective(federation.Shareable, nil)
	assert.True(t, federation.ShareablePredicate(body))
}

func TestParseFieldSetFlattensNestedSelection(t *testing.T) {
	names := federation.ParseFieldSet("id organization { id }")
	assert.ElementsMatch(t, []string{"id", "organization"}, names)
}
