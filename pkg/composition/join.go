package composition

import (
	"fmt"
	"strings"

	"github.com/nexusgraph/federation-core/pkg/schema"
)

// declareJoinDirectives seeds the supergraph schema with the directive
// definitions every emitted supergraph carries: join__field, join__type,
// join__graph, join__implements, and core. join__Graph and core__Purpose
// are GraphQL enums; the Schema Object Model doesn't implement the enum
// kind, so their declarations are templated as raw SDL text in
// joinGraphEnumSDL instead of modeled as SOM types — only join__FieldSet
// (a scalar) and the five join/core directive definitions themselves
// live in the SOM. "graph: join__Graph!" arguments are typed as the
// String builtin here, the same non-null-unwrapping simplification
// already made for subgraph SDL.
func declareJoinDirectives(s *schema.Schema) {
	fieldSet, _ := s.AddScalarType("join__FieldSet")
	strType, _ := s.LookupType("String")
	boolType, _ := s.LookupType("Boolean")

	core, _ := s.AddDirectiveDefinition("core")
	_, _ = core.AddArgument("feature", strType)
	_, _ = core.AddArgument("as", strType)
	_, _ = core.AddArgument("for", strType)

	joinField, _ := s.AddDirectiveDefinition("join__field")
	_, _ = joinField.AddArgument("graph", strType)
	_, _ = joinField.AddArgument("requires", fieldSet)
	_, _ = joinField.AddArgument("provides", fieldSet)
	_, _ = joinField.AddArgument("type", strType)
	_, _ = joinField.AddArgument("external", boolType)

	joinGraph, _ := s.AddDirectiveDefinition("join__graph")
	_, _ = joinGraph.AddArgument("name", strType)
	_, _ = joinGraph.AddArgument("url", strType)

	joinImplements, _ := s.AddDirectiveDefinition("join__implements")
	_, _ = joinImplements.AddArgument("graph", strType)
	_, _ = joinImplements.AddArgument("interface", strType)

	joinType, _ := s.AddDirectiveDefinition("join__type")
	_, _ = joinType.AddArgument("graph", strType)
	_, _ = joinType.AddArgument("key", fieldSet)
	_, _ = joinType.AddArgument("extension", boolType)
}

// joinGraphEnumSDL renders the fixed "enum join__Graph { ... }" and
// "enum core__Purpose { SECURITY EXECUTION }" declarations that
// schema.Print cannot produce on its own.
func joinGraphEnumSDL(graphs []graphInfo) string {
	var b strings.Builder
	b.WriteString("enum core__Purpose {\n  SECURITY\n  EXECUTION\n}\n\n")
	b.WriteString("enum join__Graph {\n")
	for _, g := range graphs {
		b.WriteString(fmt.Sprintf("  %s @join__graph(name: %q, url: %q)\n", g.EnumValue, g.Name, g.URL))
	}
	b.WriteString("}\n\n")
	return b.String()
}

type graphInfo struct {
	Name      string
	URL       string
	EnumValue string
}

// enumValueName upper-cases a subgraph name into a valid GraphQL enum
// value name, replacing anything that isn't a letter/digit/underscore.
func enumValueName(subgraphName string) string {
	upper := strings.ToUpper(subgraphName)
	var b strings.Builder
	for _, r := range upper {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
