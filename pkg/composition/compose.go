// Package composition implements the override-aware schema merge this
// module builds a supergraph with: one schema per subgraph goes in,
// one merged schema plus a join__-annotated supergraph SDL comes out,
// or a list of composition errors if any subgraph's contribution
// conflicts with another's.
package composition

import (
	"sort"

	"github.com/vektah/gqlparser/v2/ast"

	"github.com/nexusgraph/federation-core/pkg/federation"
	"github.com/nexusgraph/federation-core/pkg/schema"
)

// Subgraph is one service's contribution to the supergraph: a name
// used in join__Graph enum values and join__field(graph:) arguments, a
// routing URL, and its parsed type system document.
type Subgraph struct {
	Name     string
	URL      string
	TypeDefs *ast.SchemaDocument
}

// Result is a successful composition: the annotated supergraph SDL
// text, the Schema it was printed from (handed back immutable, so
// callers can inspect it without risking a further mutation racing
// against the printed SDL), and any non-fatal hints raised along the
// way.
type Result struct {
	SupergraphSDL string
	Schema        *schema.Schema
	Hints         []Hint
}

type parsedSubgraph struct {
	Subgraph
	schema *schema.Schema
}

// Compose merges subgraphs into a supergraph. It accumulates as many
// errors as it can find across all subgraphs and fields rather than
// stopping at the first one; a non-empty error list means composition
// failed and Result is nil.
func Compose(subgraphs []Subgraph) (*Result, []Error) {
	var errs []Error
	parsed := make([]parsedSubgraph, 0, len(subgraphs))
	for _, sg := range subgraphs {
		sch, report := schema.FromDocument(sg.TypeDefs)
		for _, ee := range report.ExternalErrors {
			errs = append(errs, errSchemaConstruction(sg.Name, ee.Message))
		}
		parsed = append(parsed, parsedSubgraph{Subgraph: sg, schema: sch})
	}
	if len(errs) > 0 {
		return nil, errs
	}

	supergraph := schema.NewMutableSchema()
	declareJoinDirectives(supergraph)

	typeOrder, typeKind := declareTypeShells(supergraph, parsed)

	var hints []Hint
	fieldOrder, fieldOccurrences := collectObjectFields(parsed, typeOrder, typeKind)

	plans := make(map[coordinate]fieldPlan, len(fieldOccurrences))
	for _, typeName := range typeOrder {
		if typeKind[typeName] != schema.KindObject {
			continue
		}
		keys := keyFieldNamesAcross(typeName, parsed)
		for _, fieldName := range fieldOrder[typeName] {
			c := coordinate{typeName, fieldName}
			plan, fieldErrs, fieldHints := resolveField(c, fieldOccurrences[c], keys)
			errs = append(errs, fieldErrs...)
			hints = append(hints, fieldHints...)
			plans[c] = plan
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}

	for _, typeName := range typeOrder {
		switch typeKind[typeName] {
		case schema.KindObject:
			buildObjectType(supergraph, typeName, fieldOrder[typeName], plans, parsed)
		case schema.KindUnion:
			buildUnionType(supergraph, typeName, parsed)
		case schema.KindInputObject:
			buildInputObjectType(supergraph, typeName, parsed)
		case schema.KindScalar:
			mergeScalarDescription(supergraph, typeName, parsed)
		}
	}

	wireRootOperations(supergraph, parsed)

	graphs := graphInfos(parsed)
	sdl := joinGraphEnumSDL(graphs) + supergraph.Print()

	return &Result{
		SupergraphSDL: sdl,
		Schema:        supergraph.ToImmutable(),
		Hints:         hints,
	}, nil
}

// declareTypeShells runs composition's pass-1 rule: one supergraph type
// per name across all subgraphs, created in first-sighted order, kind
// taken from whichever subgraph declares it first.
func declareTypeShells(supergraph *schema.Schema, parsed []parsedSubgraph) (order []string, kind map[string]schema.Kind) {
	seen := map[string]bool{}
	kind = map[string]schema.Kind{}
	for _, p := range parsed {
		for _, t := range p.schema.Types() {
			name := t.Name()
			if seen[name] {
				continue
			}
			seen[name] = true
			order = append(order, name)
			kind[name] = t.TypeKind()
			switch t.TypeKind() {
			case schema.KindObject:
				_, _ = supergraph.AddObjectType(name)
			case schema.KindScalar:
				_, _ = supergraph.AddScalarType(name)
			case schema.KindUnion:
				_, _ = supergraph.AddUnionType(name)
			case schema.KindInputObject:
				_, _ = supergraph.AddInputObjectType(name)
			}
		}
	}
	return order, kind
}

// collectObjectFields walks every subgraph's object types (this
// includes the root operation types, which are plain object types that
// happen to be bound by a schema definition) and groups each field's
// declarations by coordinate, preserving first-sighted field order per
// type.
func collectObjectFields(parsed []parsedSubgraph, typeOrder []string, typeKind map[string]schema.Kind) (map[string][]string, map[coordinate][]occurrence) {
	fieldOrder := make(map[string][]string, len(typeOrder))
	occurrences := make(map[coordinate][]occurrence)
	fieldSeen := map[coordinate]bool{}

	for _, p := range parsed {
		for _, t := range p.schema.Types() {
			obj, ok := t.(*schema.ObjectType)
			if !ok {
				continue
			}
			for _, f := range obj.Fields() {
				c := coordinate{obj.Name(), f.Name()}
				if !fieldSeen[c] {
					fieldSeen[c] = true
					fieldOrder[obj.Name()] = append(fieldOrder[obj.Name()], f.Name())
				}
				occurrences[c] = append(occurrences[c], occurrence{subgraph: p.Name, field: f})
			}
		}
	}
	return fieldOrder, occurrences
}

// keyFieldNamesAcross unions the @key field-set names declared on a
// type across every subgraph that defines it, used to decide whether
// an overridden field is kept (external: true) instead of dropped.
func keyFieldNamesAcross(typeName string, parsed []parsedSubgraph) map[string]struct{} {
	out := map[string]struct{}{}
	for _, p := range parsed {
		t, ok := p.schema.LookupType(typeName)
		if !ok {
			continue
		}
		obj, ok := t.(*schema.ObjectType)
		if !ok {
			continue
		}
		for name := range federation.KeyFieldNames(obj) {
			out[name] = struct{}{}
		}
	}
	return out
}

func buildObjectType(supergraph *schema.Schema, typeName string, fieldNames []string, plans map[coordinate]fieldPlan, parsed []parsedSubgraph) {
	obj, ok := supergraph.LookupType(typeName)
	if !ok {
		return
	}
	objType := obj.(*schema.ObjectType)

	var descriptions []string
	for _, graph := range graphsDefiningObject(typeName, parsed) {
		p := subgraphByName(parsed, graph)
		t, _ := p.schema.LookupType(typeName)
		src := t.(*schema.ObjectType)
		descriptions = append(descriptions, src.Description())

		key := ""
		for _, app := range src.Directives().AllNamed(federation.Key) {
			if v, ok := app.Args["fields"]; ok && v != nil {
				key = v.Raw
				break
			}
		}
		objType.Directives().Apply("join__type", joinTypeArgs(graph, key))
	}
	objType.SetDescription(mergeDescriptions(descriptions))

	for _, fieldName := range fieldNames {
		c := coordinate{typeName, fieldName}
		plan := plans[c]
		newType, ok := rebindType(supergraph, plan.primary.field.Type())
		if !ok {
			continue
		}
		field, err := objType.AddField(fieldName, newType)
		if err != nil {
			continue
		}
		var fieldDescriptions []string
		for _, o := range fieldOccurrencesFor(c, parsed) {
			fieldDescriptions = append(fieldDescriptions, o)
		}
		field.SetDescription(mergeDescriptions(fieldDescriptions))
		for _, jf := range plan.joinFields {
			field.Directives().Apply("join__field", joinFieldArgs(jf))
		}
		for _, arg := range plan.primary.field.Arguments() {
			argType, ok := rebindType(supergraph, arg.Type())
			if !ok {
				continue
			}
			newArg, err := field.AddArgument(arg.Name(), argType)
			if err != nil {
				continue
			}
			if dv := arg.DefaultValue(); dv != nil {
				_ = newArg.SetDefaultValue(dv)
			}
		}
	}
}

// fieldOccurrencesFor re-derives descriptions directly from the parsed
// subgraphs (rather than threading them through fieldPlan) since only
// description merging, not override resolution, needs them.
func fieldOccurrencesFor(c coordinate, parsed []parsedSubgraph) []string {
	var out []string
	for _, p := range parsed {
		t, ok := p.schema.LookupType(c.typeName)
		if !ok {
			continue
		}
		obj, ok := t.(*schema.ObjectType)
		if !ok {
			continue
		}
		f, ok := obj.Field(c.fieldName)
		if !ok {
			continue
		}
		out = append(out, f.Description())
	}
	return out
}

func buildUnionType(supergraph *schema.Schema, typeName string, parsed []parsedSubgraph) {
	u, ok := supergraph.LookupType(typeName)
	if !ok {
		return
	}
	union := u.(*schema.UnionType)
	var descriptions []string
	for _, p := range parsed {
		t, ok := p.schema.LookupType(typeName)
		if !ok {
			continue
		}
		src, ok := t.(*schema.UnionType)
		if !ok {
			continue
		}
		descriptions = append(descriptions, src.Description())
		for _, member := range src.Members() {
			if dst, ok := supergraph.LookupType(member.Name()); ok {
				if dstObj, ok := dst.(*schema.ObjectType); ok {
					_ = union.AddMember(dstObj)
				}
			}
		}
	}
	union.SetDescription(mergeDescriptions(descriptions))
}

func buildInputObjectType(supergraph *schema.Schema, typeName string, parsed []parsedSubgraph) {
	io, ok := supergraph.LookupType(typeName)
	if !ok {
		return
	}
	input := io.(*schema.InputObjectType)
	var descriptions []string
	seen := map[string]bool{}
	for _, p := range parsed {
		t, ok := p.schema.LookupType(typeName)
		if !ok {
			continue
		}
		src, ok := t.(*schema.InputObjectType)
		if !ok {
			continue
		}
		descriptions = append(descriptions, src.Description())
		for _, f := range src.Fields() {
			if seen[f.Name()] {
				continue
			}
			seen[f.Name()] = true
			newType, ok := rebindType(supergraph, f.Type())
			if !ok {
				continue
			}
			field, err := input.AddField(f.Name(), newType)
			if err != nil {
				continue
			}
			if dv := f.DefaultValue(); dv != nil {
				_ = field.SetDefaultValue(dv)
			}
		}
	}
	input.SetDescription(mergeDescriptions(descriptions))
}

func mergeScalarDescription(supergraph *schema.Schema, typeName string, parsed []parsedSubgraph) {
	t, ok := supergraph.LookupType(typeName)
	if !ok {
		return
	}
	sc := t.(*schema.ScalarType)
	var descriptions []string
	for _, p := range parsed {
		if src, ok := p.schema.LookupType(typeName); ok {
			descriptions = append(descriptions, src.Description())
		}
	}
	sc.SetDescription(mergeDescriptions(descriptions))
}

// wireRootOperations binds Query/Mutation/Subscription on the
// supergraph the same way parse.go's fillRootOperations does for a
// single subgraph: by well-known type name, since schema-definition
// extensions aren't modeled.
func wireRootOperations(supergraph *schema.Schema, parsed []parsedSubgraph) {
	bind := func(name string, set func(*schema.ObjectType)) {
		if t, ok := supergraph.LookupType(name); ok {
			if obj, ok := t.(*schema.ObjectType); ok {
				set(obj)
			}
		}
	}
	bind("Query", supergraph.SchemaDefinition().SetQuery)
	bind("Mutation", supergraph.SchemaDefinition().SetMutation)
	bind("Subscription", supergraph.SchemaDefinition().SetSubscription)
}

func graphsDefiningObject(typeName string, parsed []parsedSubgraph) []string {
	var out []string
	for _, p := range parsed {
		if _, ok := p.schema.LookupType(typeName); ok {
			out = append(out, p.Name)
		}
	}
	return out
}

func subgraphByName(parsed []parsedSubgraph, name string) parsedSubgraph {
	for _, p := range parsed {
		if p.Name == name {
			return p
		}
	}
	return parsedSubgraph{}
}

func graphInfos(parsed []parsedSubgraph) []graphInfo {
	out := make([]graphInfo, 0, len(parsed))
	for _, p := range parsed {
		out = append(out, graphInfo{Name: p.Name, URL: p.URL, EnumValue: enumValueName(p.Name)})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
