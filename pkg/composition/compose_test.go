package composition_test

import (
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
	"go.uber.org/goleak"

	"github.com/nexusgraph/federation-core/pkg/composition"
	"github.com/nexusgraph/federation-core/pkg/schema"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func mustParse(t *testing.T, name, raw string) *ast.SchemaDocument {
	t.Helper()
	doc, gqlErr := parser.ParseSchema(&ast.Source{Name: name, Input: raw})
	if gqlErr != nil {
		t.Fatalf("parsing %s: %v", name, gqlErr)
	}
	return doc
}

func subgraph(t *testing.T, name, url, raw string) composition.Subgraph {
	return composition.Subgraph{Name: name, URL: url, TypeDefs: mustParse(t, name+".graphql", raw)}
}

func codesOf(errs []composition.Error) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Code
	}
	return out
}

// joinFieldGraphs maps the "graph" enum value of every @join__field
// application on field to whether that application also set
// external: true.
func joinFieldGraphs(t *testing.T, field *schema.FieldDefinition) map[string]bool {
	t.Helper()
	out := map[string]bool{}
	for _, app := range field.Directives().AllNamed("join__field") {
		graph, ok := app.Args["graph"]
		require.True(t, ok)
		external := false
		if ext, ok := app.Args["external"]; ok && ext != nil {
			external = ext.Raw == "true"
		}
		out[graph.Raw] = external
	}
	return out
}

func mustObjectField(t *testing.T, s *schema.Schema, typeName, fieldName string) *schema.FieldDefinition {
	t.Helper()
	typ, ok := s.LookupType(typeName)
	require.True(t, ok, "type %s should exist in supergraph", typeName)
	obj, ok := typ.(*schema.ObjectType)
	require.True(t, ok, "%s should be an object type", typeName)
	field, ok := obj.Field(fieldName)
	require.True(t, ok, "field %s.%s should exist", typeName, fieldName)
	return field
}

// Scenario 1: a plain, valid override. S1 overrides T.a from S2; S2
// still solely owns T.b.
func TestComposeValidOverrideRemovesSourceContribution(t *testing.T) {
	s1 := subgraph(t, "S1", "http://s1", `
		type T @key(fields: "k") {
			k: ID
			a: String @override(from: "S2")
		}
		type Query { t: T }
	`)
	s2 := subgraph(t, "S2", "http://s2", `
		type T @key(fields: "k") {
			k: ID
			a: String
			b: String
		}
	`)

	result, errs := composition.Compose([]composition.Subgraph{s1, s2})
	require.Empty(t, errs)
	require.NotNil(t, result)

	graphs := joinFieldGraphs(t, mustObjectField(t, result.Schema, "T", "a"))
	assert.Equal(t, map[string]bool{"S1": false}, graphs)

	bGraphs := joinFieldGraphs(t, mustObjectField(t, result.Schema, "T", "b"))
	assert.Equal(t, map[string]bool{"S2": false}, bGraphs)
}

// Scenario 2: a field overrides itself.
func TestComposeOverrideFromSelfIsAnError(t *testing.T) {
	s1 := subgraph(t, "S1", "http://s1", `
		type T { k: ID a: String @override(from: "S1") }
		type Query { t: T }
	`)

	_, errs := composition.Compose([]composition.Subgraph{s1})
	require.NotEmpty(t, errs)
	assert.Contains(t, codesOf(errs), composition.CodeOverrideFromSelf)
}

// Scenario 3: two subgraphs each override the same field from the
// other. Expect two OVERRIDE_SOURCE_HAS_OVERRIDE errors (one per side)
// plus an INVALID_FIELD_SHARING error, since the override never takes
// effect and both non-shareable declarations are left standing.
func TestComposeTwoWayOverrideConflict(t *testing.T) {
	s1 := subgraph(t, "S1", "http://s1", `
		type T { k: ID a: String @override(from: "S2") }
		type Query { t: T }
	`)
	s2 := subgraph(t, "S2", "http://s2", `
		type T { k: ID a: String @override(from: "S1") }
	`)

	_, errs := composition.Compose([]composition.Subgraph{s1, s2})
	require.NotEmpty(t, errs)
	codes := codesOf(errs)
	count := 0
	for _, c := range codes {
		if c == composition.CodeOverrideSourceHasOverride {
			count++
		}
	}
	assert.Equal(t, 2, count)
	assert.Contains(t, codes, composition.CodeInvalidFieldSharing)
}

// Scenario 4: overriding a @key field keeps the overridden subgraph's
// declaration, annotated external: true, instead of removing it.
func TestComposeOverridingKeyFieldKeepsSourceAsExternal(t *testing.T) {
	s1 := subgraph(t, "S1", "http://s1", `
		type T @key(fields: "k") {
			k: ID @override(from: "S2")
			a: String
		}
		type Query { t: T }
	`)
	s2 := subgraph(t, "S2", "http://s2", `
		type T @key(fields: "k") {
			k: ID
			b: String
		}
	`)

	result, errs := composition.Compose([]composition.Subgraph{s1, s2})
	require.Empty(t, errs)
	require.NotNil(t, result)

	graphs := joinFieldGraphs(t, mustObjectField(t, result.Schema, "T", "k"))
	assert.Equal(t, map[string]bool{"S1": false, "S2": true}, graphs)
}

// Scenario 5: overriding an @external declaration is a collision.
func TestComposeOverridingExternalFieldIsCollision(t *testing.T) {
	s1 := subgraph(t, "S1", "http://s1", `
		type T { k: ID a: String @override(from: "S2") }
		type Query { t: T }
	`)
	s2 := subgraph(t, "S2", "http://s2", `
		type T { k: ID a: String @external }
	`)

	_, errs := composition.Compose([]composition.Subgraph{s1, s2})
	require.NotEmpty(t, errs)
	assert.Contains(t, codesOf(errs), composition.CodeOverrideCollision)
}

// Scenario 6: the overriding declaration itself carries @external,
// which conflicts with @override on the same declaration.
func TestComposeOverrideAndExternalOnSameDeclarationIsCollision(t *testing.T) {
	s1 := subgraph(t, "S1", "http://s1", `
		type T { k: ID a: String @override(from: "S2") @external }
		type Query { t: T }
	`)
	s2 := subgraph(t, "S2", "http://s2", `
		type T { k: ID a: String }
	`)

	_, errs := composition.Compose([]composition.Subgraph{s1, s2})
	require.NotEmpty(t, errs)
	assert.Contains(t, codesOf(errs), composition.CodeOverrideCollision)
}

// Scenario 7: conflicting types across an override silently favor the
// overriding subgraph's declaration rather than erroring.
func TestComposeOverrideTypeMismatchFavorsOverridingSubgraph(t *testing.T) {
	s1 := subgraph(t, "S1", "http://s1", `
		type T @key(fields: "k") { k: ID a: Int @override(from: "S2") }
		type Query { t: T }
	`)
	s2 := subgraph(t, "S2", "http://s2", `
		type T @key(fields: "k") { k: ID a: String }
	`)

	result, errs := composition.Compose([]composition.Subgraph{s1, s2})
	require.Empty(t, errs)
	require.NotNil(t, result)

	field := mustObjectField(t, result.Schema, "T", "a")
	assert.Equal(t, "Int", field.Type().BaseType().Name())
}

// Fields resolved identically by multiple subgraphs without @shareable
// are rejected even with no override involved.
func TestComposeUnshareableDuplicateFieldIsRejected(t *testing.T) {
	s1 := subgraph(t, "S1", "http://s1", `
		type T { k: ID a: String }
		type Query { t: T }
	`)
	s2 := subgraph(t, "S2", "http://s2", `
		type T { k: ID a: String }
	`)

	_, errs := composition.Compose([]composition.Subgraph{s1, s2})
	require.NotEmpty(t, errs)
	assert.Contains(t, codesOf(errs), composition.CodeInvalidFieldSharing)
}

// @shareable lets two subgraphs resolve the same field without error,
// and both subgraphs show up as @join__field sources.
func TestComposeShareableDuplicateFieldIsAccepted(t *testing.T) {
	s1 := subgraph(t, "S1", "http://s1", `
		type T @key(fields: "k") { k: ID a: String @shareable }
		type Query { t: T }
	`)
	s2 := subgraph(t, "S2", "http://s2", `
		type T @key(fields: "k") { k: ID a: String @shareable }
	`)

	result, errs := composition.Compose([]composition.Subgraph{s1, s2})
	require.Empty(t, errs)
	require.NotNil(t, result)

	graphs := joinFieldGraphs(t, mustObjectField(t, result.Schema, "T", "a"))
	assert.Equal(t, map[string]bool{"S1": false, "S2": false}, graphs)
}

func TestComposeUnionMembersAreMergedAcrossSubgraphs(t *testing.T) {
	s1 := subgraph(t, "S1", "http://s1", `
		type A { id: ID }
		union Result = A
		type Query { search: Result }
	`)
	s2 := subgraph(t, "S2", "http://s2", `
		type B { id: ID }
		union Result = B
	`)

	result, errs := composition.Compose([]composition.Subgraph{s1, s2})
	require.Empty(t, errs)
	require.NotNil(t, result)

	typ, ok := result.Schema.LookupType("Result")
	require.True(t, ok)
	union, ok := typ.(*schema.UnionType)
	require.True(t, ok)

	var names []string
	for _, m := range union.Members() {
		names = append(names, m.Name())
	}
	assert.ElementsMatch(t, []string{"A", "B"}, names)
}

func TestComposeSchemaConstructionErrorsAreSurfaced(t *testing.T) {
	s1 := composition.Subgraph{
		Name: "S1",
		URL:  "http://s1",
		TypeDefs: &ast.SchemaDocument{
			Definitions: ast.DefinitionList{{
				Kind: ast.Interface,
				Name: "Node",
			}},
		},
	}

	_, errs := composition.Compose([]composition.Subgraph{s1})
	require.NotEmpty(t, errs)
	assert.Contains(t, codesOf(errs), composition.CodeSchemaConstructionFailed)
}

func TestComposeSupergraphSDLCarriesJoinGraphEnum(t *testing.T) {
	s1 := subgraph(t, "Products", "http://products", `
		type Query { ping: String }
	`)

	result, errs := composition.Compose([]composition.Subgraph{s1})
	require.Empty(t, errs)
	require.NotNil(t, result)
	assert.Contains(t, result.SupergraphSDL, "enum join__Graph")
	assert.Contains(t, result.SupergraphSDL, "PRODUCTS")
}

// sdlOutline reduces a printed supergraph SDL to a sorted, deterministic
// outline of its type/directive/enum shape: kind, name, and (sorted)
// field or enum-value names. The golden fixture below snapshots this
// outline rather than the raw printed text, so the test tracks
// Compose's own type/field/directive assembly — the thing this package
// owns — without also pinning down vektah/gqlparser/v2/formatter's
// exact whitespace, a dependency this package has no control over.
func sdlOutline(t *testing.T, sdl string) string {
	t.Helper()
	doc, gqlErr := parser.ParseSchema(&ast.Source{Name: "supergraph.graphql", Input: sdl})
	require.Nil(t, gqlErr, "printed supergraph SDL must itself parse as valid GraphQL schema syntax")

	var lines []string
	for _, def := range doc.Definitions {
		switch def.Kind {
		case ast.Enum:
			var values []string
			for _, v := range def.EnumValues {
				values = append(values, v.Name)
			}
			sort.Strings(values)
			lines = append(lines, fmt.Sprintf("enum %s %v", def.Name, values))
		default:
			var fields []string
			for _, f := range def.Fields {
				fields = append(fields, f.Name)
			}
			sort.Strings(fields)
			lines = append(lines, fmt.Sprintf("%s %s %v", strings.ToLower(string(def.Kind)), def.Name, fields))
		}
	}
	for _, d := range doc.Directives {
		lines = append(lines, "directive @"+d.Name)
	}
	sort.Strings(lines)
	return strings.Join(lines, "\n") + "\n"
}

// TestComposeSupergraphSDLGolden snapshots the shape of a composed
// supergraph against a golden fixture, the composition-layer analogue
// of the teacher's printed/normalized-output snapshot tests.
func TestComposeSupergraphSDLGolden(t *testing.T) {
	s1 := subgraph(t, "Accounts", "http://accounts", `
		type User @key(fields: "id") {
			id: ID
			name: String
		}
		type Query { me: User }
	`)

	result, errs := composition.Compose([]composition.Subgraph{s1})
	require.Empty(t, errs)
	require.NotNil(t, result)

	g := goldie.New(t)
	g.Assert(t, "supergraph-sdl-outline", []byte(sdlOutline(t, result.SupergraphSDL)))
}
