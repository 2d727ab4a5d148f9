package plan

import (
	"github.com/jensneuse/abstractlogger"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"

	"github.com/nexusgraph/federation-core/pkg/federation"
	"github.com/nexusgraph/federation-core/pkg/schema"
)

// FieldTriple is one entry of a field set: the scope the field was
// collected at (already refined to whatever fragment narrowed it), the
// operation's AST node for it, and its resolved definition.
type FieldTriple struct {
	Scope *Scope
	Field *ast.Field
	Def   FieldDef
}

// KeyField names a single field needed to satisfy an entity key, a
// @requires, or a @provides selection. Unlike FieldTriple it has no
// backing *ast.Field — these selections are synthesized from federation
// directive metadata, not parsed from the operation.
type KeyField struct {
	Scope     *Scope
	TypeName  string
	FieldName string
}

// FieldCollector walks a selection set against a scope, producing the
// flat field set collect_fields defines, plus the key/required/provided
// field sets fetch planning derives from it.
type FieldCollector struct {
	ctx *PlanningContext
}

func NewFieldCollector(ctx *PlanningContext) *FieldCollector {
	return &FieldCollector{ctx: ctx}
}

// Collect produces the ordered (scope, field, field_def) triples set
// selects, recursing into inline fragments and fragment spreads and
// skipping any whose type condition is disjoint from the scope it
// would apply at.
func (c *FieldCollector) Collect(scope *Scope, set ast.SelectionSet) ([]FieldTriple, error) {
	var out []FieldTriple
	for _, sel := range set {
		switch v := sel.(type) {
		case *ast.Field:
			parent, _ := scope.ParentType().(*schema.ObjectType)
			fd, err := c.ctx.FieldDef(parent, v)
			if err != nil {
				return nil, err
			}
			out = append(out, FieldTriple{Scope: scope, Field: v, Def: fd})

		case *ast.InlineFragment:
			refined, ok, err := c.refineFragment(scope, v.TypeCondition, v.Directives)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			sub, err := c.Collect(refined, v.SelectionSet)
			if err != nil {
				return nil, err
			}
			out = append(out, sub...)

		case *ast.FragmentSpread:
			frag, ok := c.ctx.Fragments[v.Name]
			if !ok {
				continue
			}
			refined, ok, err := c.refineFragment(scope, frag.TypeCondition, v.Directives)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			sub, err := c.Collect(refined, frag.SelectionSet)
			if err != nil {
				return nil, err
			}
			out = append(out, sub...)
		}
	}
	return out, nil
}

// refineFragment resolves a fragment's type condition (defaulting to
// the current scope's parent type when absent) and refines scope by it.
// ok is false when the refined scope admits no runtime type at all, in
// which case the fragment contributes nothing and should be skipped.
func (c *FieldCollector) refineFragment(scope *Scope, typeCondition string, dirs ast.DirectiveList) (*Scope, bool, error) {
	cond := scope.ParentType()
	if typeCondition != "" {
		t, ok := c.ctx.Schema.LookupType(typeCondition)
		if !ok {
			return nil, false, nil
		}
		cond = t
	}
	refined := scope.Refine(cond, dirs)
	if len(refined.PossibleRuntimeTypes()) == 0 {
		c.ctx.Config.Logger.Debug("plan: skipping disjoint fragment",
			abstractlogger.String("typeCondition", typeCondition),
			abstractlogger.String("parentType", scope.ParentType().Name()),
		)
		return nil, false, nil
	}
	return refined, true, nil
}

// KeyFields always starts with __typename, then for each of scope's
// possible runtime types adds the fields of that type's @key(service).
// With fetchAll, every @key service declares is included; otherwise
// only the first.
func (c *FieldCollector) KeyFields(scope *Scope, service string, fetchAll bool) []KeyField {
	out := []KeyField{{Scope: scope, FieldName: "__typename"}}
	for _, t := range scope.PossibleRuntimeTypes() {
		keySets := federation.JoinTypeKeys(t, service)
		if len(keySets) == 0 {
			continue
		}
		if !fetchAll {
			keySets = keySets[:1]
		}
		for _, ks := range keySets {
			for _, name := range ks {
				out = append(out, KeyField{Scope: scope, TypeName: t.Name(), FieldName: name})
			}
		}
	}
	return out
}

// RequiredFields returns the fields service must already have resolved
// before it can resolve fieldDef: scope's key fields (the minimal key,
// not every declared key, since satisfying the entity reference is
// enough) followed by whatever fieldDef's own @requires(fields: ...)
// selection expands to.
func (c *FieldCollector) RequiredFields(scope *Scope, fieldDef *schema.FieldDefinition, service string) ([]KeyField, error) {
	out := c.KeyFields(scope, service, false)

	raw, ok := federation.JoinFieldRequires(fieldDef, service)
	if !ok {
		return out, nil
	}
	sel, err := parseFieldSetSelection(raw)
	if err != nil {
		return nil, err
	}
	triples, err := c.Collect(scope, sel)
	if err != nil {
		return nil, err
	}
	return append(out, triplesToKeyFields(triples)...), nil
}

// ProvidedFields returns the fields a resolver for fieldDef can resolve
// without a further fetch, for a fieldDef whose type is composite: every
// key of the return type (all of them, since the caller may route the
// entity to any of several services next) plus whatever @provides
// selection service declared alongside fieldDef.
func (c *FieldCollector) ProvidedFields(fieldDef *schema.FieldDefinition, service string) ([]KeyField, error) {
	obj, ok := fieldDef.Type().BaseType().(*schema.ObjectType)
	if !ok {
		return nil, nil
	}
	scope := NewScope(c.ctx, obj)
	out := c.KeyFields(scope, service, true)

	raw, ok := federation.JoinFieldProvides(fieldDef, service)
	if !ok {
		return out, nil
	}
	sel, err := parseFieldSetSelection(raw)
	if err != nil {
		return nil, err
	}
	triples, err := c.Collect(scope, sel)
	if err != nil {
		return nil, err
	}
	return append(out, triplesToKeyFields(triples)...), nil
}

func triplesToKeyFields(triples []FieldTriple) []KeyField {
	out := make([]KeyField, 0, len(triples))
	for _, t := range triples {
		typeName := ""
		if named, ok := t.Scope.ParentType().(*schema.ObjectType); ok {
			typeName = named.Name()
		}
		out = append(out, KeyField{Scope: t.Scope, TypeName: typeName, FieldName: t.Field.Name})
	}
	return out
}

// parseFieldSetSelection parses a join__FieldSet's raw text as a
// selection set by wrapping it in braces and running it through the
// same GraphQL parser schema documents use — @requires/@provides field
// sets are valid selection-set syntax, so this supports the nested
// "id organization { id }" shape ParseFieldSet only flattens.
func parseFieldSetSelection(raw string) (ast.SelectionSet, error) {
	doc, gqlErr := parser.ParseQuery(&ast.Source{Name: "fieldset", Input: "{" + raw + "}"})
	if gqlErr != nil {
		return nil, gqlErr
	}
	if len(doc.Operations) == 0 {
		return nil, nil
	}
	return doc.Operations[0].SelectionSet, nil
}
