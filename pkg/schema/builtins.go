package schema

import (
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

// baseSchema seeds every new Schema with the five built-in scalars and
// the three built-in directives. The introspection types (__Schema,
// __Type, __Field, ...) are dropped since interface/enum/introspection
// are out of scope, leaving only the scalar and directive definitions
// every federated schema needs regardless of scope.
const baseSchema = `
"The 'Int' scalar type represents non-fractional signed whole numeric values."
scalar Int
"The 'Float' scalar type represents signed double-precision fractional values."
scalar Float
"The 'String' scalar type represents textual data as UTF-8 character sequences."
scalar String
"The 'Boolean' scalar type represents 'true' or 'false'."
scalar Boolean
"The 'ID' scalar type represents a unique identifier."
scalar ID

"Directs the executor to include this field or fragment only when the argument is true."
directive @include(if: Boolean!) on FIELD | FRAGMENT_SPREAD | INLINE_FRAGMENT
"Directs the executor to skip this field or fragment when the argument is true."
directive @skip(if: Boolean!) on FIELD | FRAGMENT_SPREAD | INLINE_FRAGMENT
"Marks an element of a GraphQL schema as no longer supported."
directive @deprecated(reason: String = "No longer supported") on FIELD_DEFINITION | ARGUMENT_DEFINITION | INPUT_FIELD_DEFINITION | ENUM_VALUE
`

func init() {
	// Validated once at package init via the external parser, before
	// any of the embedded base schema bytes are trusted.
	if _, err := gqlparser.LoadSchema(&ast.Source{Name: "builtin.graphql", Input: baseSchema, BuiltIn: true}); err != nil {
		panic("schema: builtin SDL failed to parse: " + err.Error())
	}
}

// seedBuiltins populates s.builtins and s.directives with the scalars
// and directives baseSchema declares, constructed directly rather than
// read back from the parsed SDL; the "No longer supported" default of
// @deprecated(reason:) is not set. It is called once by
// NewMutableSchema.
func seedBuiltins(s *Schema) {
	for _, name := range builtinScalarNames {
		s.builtins[name] = &ScalarType{typeBase: typeBase{schema: s, name: name, builtin: true}}
	}

	include, _ := s.AddDirectiveDefinition("include")
	addIfArgument(s, include)

	skip, _ := s.AddDirectiveDefinition("skip")
	addIfArgument(s, skip)

	deprecated, _ := s.AddDirectiveDefinition("deprecated")
	strType := s.builtins["String"]
	_, _ = deprecated.AddArgument("reason", strType)

	markBuiltinDirective(s, "include")
	markBuiltinDirective(s, "skip")
	markBuiltinDirective(s, "deprecated")
}

func addIfArgument(s *Schema, d *DirectiveDefinition) {
	boolType := s.builtins["Boolean"]
	_, _ = d.AddArgument("if", boolType)
}

// markBuiltinDirective records in s.builtinDirectiveNames which
// directive-definition names are
// seeded, not user-declared, letting composition and the printer skip
// re-emitting them into the supergraph SDL's explicit directive list.
func markBuiltinDirective(s *Schema, name string) {
	s.builtinDirectiveNames = append(s.builtinDirectiveNames, name)
}
