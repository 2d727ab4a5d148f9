package composition

import (
	"strings"

	"github.com/vektah/gqlparser/v2/ast"

	"github.com/nexusgraph/federation-core/pkg/federation"
	"github.com/nexusgraph/federation-core/pkg/schema"
	"github.com/nexusgraph/federation-core/pkg/value"
)

// coordinate identifies a field across subgraphs: a type name plus a
// field name, the same "Type.field" shape FieldDefinition.Coordinate
// prints.
type coordinate struct {
	typeName  string
	fieldName string
}

// occurrence is one subgraph's declaration of a field at a coordinate.
type occurrence struct {
	subgraph string
	field    *schema.FieldDefinition
}

// joinFieldEntry is one @join__field(graph: ..., external: ...)
// application to emit on the merged supergraph field.
type joinFieldEntry struct {
	graph    string
	external bool
}

// fieldPlan is the outcome of resolveField: which occurrence's
// declaration (type, in the type-mismatch-favors-overrider sense)
// becomes the supergraph field, and which @join__field applications it
// carries.
type fieldPlan struct {
	primary    occurrence
	joinFields []joinFieldEntry
}

// overrideOf reads @override(from: ...) off a field, if present.
func overrideOf(field *schema.FieldDefinition) (from string, ok bool) {
	app, ok := field.Directives().ForName(federation.Override)
	if !ok {
		return "", false
	}
	v, ok := app.Args["from"]
	if !ok || v == nil {
		return "", false
	}
	return v.Raw, true
}

// resolveField resolves every occurrence of one field coordinate across
// subgraphs against the override-rewriting table, plus the generalized
// "fields resolved by multiple non-shareable subgraphs are an error"
// check (the two-way conflict case below exercises both at once).
func resolveField(c coordinate, occs []occurrence, keyFields map[string]struct{}) (fieldPlan, []Error, []Hint) {
	var errs []Error
	var hints []Hint

	byGraph := make(map[string]occurrence, len(occs))
	for _, o := range occs {
		byGraph[o.subgraph] = o
	}

	// overriddenBy[g] = true if subgraph g's contribution is removed
	// because a valid override claims it.
	overriddenBy := make(map[string]bool, len(occs))
	// keyKeptExternal[g] = true if g's contribution is kept (key field)
	// but annotated external by a valid override.
	keyKeptExternal := make(map[string]bool, len(occs))
	var primary occurrence
	havePrimary := false

	for _, o := range occs {
		from, hasOverride := overrideOf(o.field)
		if !hasOverride {
			continue
		}
		if from == o.subgraph {
			errs = append(errs, errOverrideFromSelf(coordName(c), o.subgraph))
			continue
		}
		target, targetExists := byGraph[from]

		// self-conflict: the overriding declaration is itself @external.
		if o.field.Directives().Has(federation.External) {
			errs = append(errs, errOverrideCollision(coordName(c), o.subgraph, "declares both @override and @external"))
			continue
		}

		// two-way: the overridden subgraph also overrides back. Each
		// occurrence in the pair reports its own side exactly once, so
		// the pair contributes two errors total, not four.
		if targetExists {
			if backFrom, backHasOverride := overrideOf(target.field); backHasOverride && backFrom == o.subgraph {
				errs = append(errs, errOverrideSourceHasOverride(coordName(c), o.subgraph, from))
				continue
			}
		}

		// overriding an @external declaration.
		if targetExists && target.field.Directives().Has(federation.External) {
			errs = append(errs, errOverrideCollision(coordName(c), o.subgraph, "overrides an @external field"))
			continue
		}

		// valid override.
		primary = o
		havePrimary = true
		if targetExists {
			if _, isKey := keyFields[c.fieldName]; isKey {
				keyKeptExternal[from] = true
			} else {
				overriddenBy[from] = true
			}
		}
	}

	if !havePrimary {
		primary = occs[0]
	}

	var joinFields []joinFieldEntry
	var resolving []occurrence
	for _, o := range occs {
		if overriddenBy[o.subgraph] {
			continue
		}
		if keyKeptExternal[o.subgraph] {
			joinFields = append(joinFields, joinFieldEntry{graph: o.subgraph, external: true})
			continue
		}
		joinFields = append(joinFields, joinFieldEntry{graph: o.subgraph})
		if !o.field.Directives().Has(federation.External) {
			resolving = append(resolving, o)
		}
	}

	if len(resolving) > 1 {
		allShareable := true
		var names []string
		for _, o := range resolving {
			names = append(names, o.subgraph)
			if !federation.ShareablePredicate(o.field) {
				allShareable = false
			}
		}
		if !allShareable {
			errs = append(errs, errInvalidFieldSharing(coordName(c), names))
		} else if !hasExplicitShareable(resolving) {
			hints = append(hints, newHint(HintShareableWithoutDirective,
				coordName(c)+" is resolved identically by multiple subgraphs without an explicit @shareable"))
		}
	}

	if overriddenByAny(overriddenBy) && !isOverriddenFieldProvidedOrRequired(c, occs) {
		hints = append(hints, newHint(HintOverriddenFieldMaybeUnused,
			coordName(c)+": overridden by "+primary.subgraph+"; the overridden declaration may be safe to delete"))
	}

	return fieldPlan{primary: primary, joinFields: joinFields}, errs, hints
}

func overriddenByAny(m map[string]bool) bool {
	for _, v := range m {
		if v {
			return true
		}
	}
	return false
}

// isOverriddenFieldProvidedOrRequired suppresses the "safe to delete"
// hint when the field participates in any @provides/@requires
// selection, where deleting it would actually break something: a
// @requires on a field of the same type, or a @provides on any field
// whose return type is that type.
func isOverriddenFieldProvidedOrRequired(c coordinate, occs []occurrence) bool {
	for _, o := range occs {
		parent := o.field.Parent()
		if parent == nil {
			continue
		}
		dirsFor := map[*schema.FieldDefinition][]string{}
		for _, sibling := range parent.Fields() {
			dirsFor[sibling] = append(dirsFor[sibling], federation.Requires)
		}
		for _, r := range parent.Referencers() {
			if f, ok := r.(*schema.FieldDefinition); ok {
				dirsFor[f] = append(dirsFor[f], federation.Provides)
			}
		}
		for sibling, dirs := range dirsFor {
			for _, dir := range dirs {
				for _, app := range sibling.Directives().AllNamed(dir) {
					v, ok := app.Args["fields"]
					if !ok || v == nil {
						continue
					}
					for _, name := range federation.ParseFieldSet(v.Raw) {
						if name == c.fieldName {
							return true
						}
					}
				}
			}
		}
	}
	return false
}

func hasExplicitShareable(occs []occurrence) bool {
	for _, o := range occs {
		if o.field.Directives().Has(federation.Shareable) {
			return true
		}
	}
	return false
}

func coordName(c coordinate) string { return c.typeName + "." + c.fieldName }

// rebindType resolves a TypeRef that lives in a subgraph schema against
// the supergraph schema by name, recursing through list wrappers. The
// supergraph must already contain a same-named, same-kind shell for
// every named type reachable this way.
func rebindType(supergraph *schema.Schema, ref schema.TypeRef) (schema.TypeRef, bool) {
	if lt, ok := ref.(*schema.ListType); ok {
		inner, ok := rebindType(supergraph, lt.Of)
		if !ok {
			return nil, false
		}
		return schema.List(inner), true
	}
	named, ok := supergraph.LookupType(ref.BaseType().Name())
	return named, ok
}

// mergeDescriptions implements the movio-bramble mergeDescriptions
// rule: concatenate non-empty per-subgraph descriptions, joined by a
// blank line.
func mergeDescriptions(descriptions []string) string {
	var nonEmpty []string
	for _, d := range descriptions {
		d = strings.TrimSpace(d)
		if d != "" {
			nonEmpty = append(nonEmpty, d)
		}
	}
	return strings.Join(nonEmpty, "\n\n")
}

// joinTypeArgs and joinFieldArgs take a subgraph name and render it as
// an enum value reference; enumValueName is the one place that maps a
// subgraph name onto its join__Graph enum value, so every @join__type
// and @join__field application goes through it too, keeping the
// argument in sync with the enum declaration joinGraphEnumSDL emits.
func joinTypeArgs(graph, key string) value.ArgumentMap {
	args := value.ArgumentMap{"graph": {Kind: ast.EnumValue, Raw: enumValueName(graph)}}
	if key != "" {
		args["key"] = &value.Value{Kind: ast.StringValue, Raw: key}
	}
	return args
}

func joinFieldArgs(e joinFieldEntry) value.ArgumentMap {
	args := value.ArgumentMap{"graph": {Kind: ast.EnumValue, Raw: enumValueName(e.graph)}}
	if e.external {
		args["external"] = &value.Value{Kind: ast.BooleanValue, Raw: "true"}
	}
	return args
}
