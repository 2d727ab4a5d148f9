package federation

import "github.com/nexusgraph/federation-core/pkg/schema"

// Directive names the supergraph's join spec attaches once subgraphs
// have been composed. They live here, not in composition, because the
// planner reads them back off an already-composed schema and has no
// reason to depend on the composition package to do so.
const (
	JoinType  = "join__type"
	JoinField = "join__field"
)

// JoinTypeGraphs returns the subgraphs (by join__Graph enum value) that
// declared t, in declaration order.
func JoinTypeGraphs(t *schema.ObjectType) []string {
	var out []string
	for _, app := range t.Directives().AllNamed(JoinType) {
		if g, ok := app.Args["graph"]; ok && g != nil {
			out = append(out, g.Raw)
		}
	}
	return out
}

// BaseService returns the subgraph that owns t's identity: the first
// @join__type application recorded, which by construction is the
// subgraph that declared the type first during composition.
func BaseService(t *schema.ObjectType) (string, bool) {
	graphs := JoinTypeGraphs(t)
	if len(graphs) == 0 {
		return "", false
	}
	return graphs[0], true
}

// JoinTypeKeys returns the @key(fields: ...) selections, already split
// into flat field-name lists, that graph declared on t via @join__type.
// A type can carry more than one @key per graph; each is returned in
// declaration order.
func JoinTypeKeys(t *schema.ObjectType, graph string) [][]string {
	var out [][]string
	for _, app := range t.Directives().AllNamed(JoinType) {
		g, ok := app.Args["graph"]
		if !ok || g == nil || g.Raw != graph {
			continue
		}
		k, ok := app.Args["key"]
		if !ok || k == nil || k.Raw == "" {
			continue
		}
		out = append(out, ParseFieldSet(k.Raw))
	}
	return out
}

// OwningService returns the subgraph that resolves field f on type t:
// the graph named by f's first non-external @join__field application if
// one exists; otherwise the graph of f's first external @join__field
// application, if any; otherwise t's base service.
func OwningService(t *schema.ObjectType, f *schema.FieldDefinition) (string, bool) {
	var fallback string
	haveFallback := false
	for _, app := range f.Directives().AllNamed(JoinField) {
		g, ok := app.Args["graph"]
		if !ok || g == nil {
			continue
		}
		external := false
		if ext, ok := app.Args["external"]; ok && ext != nil {
			external = ext.Raw == "true"
		}
		if !external {
			return g.Raw, true
		}
		if !haveFallback {
			fallback = g.Raw
			haveFallback = true
		}
	}
	if haveFallback {
		return fallback, true
	}
	return BaseService(t)
}

// JoinFieldRequires returns the raw @requires(fields: ...) selection
// service expands before resolving f, if it declared one.
func JoinFieldRequires(f *schema.FieldDefinition, service string) (string, bool) {
	return joinFieldStringArg(f, service, "requires")
}

// JoinFieldProvides returns the raw @provides(fields: ...) selection
// service declared alongside f, if any.
func JoinFieldProvides(f *schema.FieldDefinition, service string) (string, bool) {
	return joinFieldStringArg(f, service, "provides")
}

func joinFieldStringArg(f *schema.FieldDefinition, service, argName string) (string, bool) {
	for _, app := range f.Directives().AllNamed(JoinField) {
		g, ok := app.Args["graph"]
		if !ok || g == nil || g.Raw != service {
			continue
		}
		v, ok := app.Args[argName]
		if !ok || v == nil || v.Raw == "" {
			continue
		}
		return v.Raw, true
	}
	return "", false
}
