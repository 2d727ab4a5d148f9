package plan

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/nexusgraph/federation-core/pkg/federation"
	"github.com/nexusgraph/federation-core/pkg/operationreport"
	"github.com/nexusgraph/federation-core/pkg/schema"
)

// FieldDef is the result of resolving one selection-set field against a
// parent type: either a real schema field, or one of the meta-fields
// every selection set implicitly carries (__typename, __schema,
// __type), which have no backing schema.FieldDefinition.
type FieldDef struct {
	Name       string
	Meta       bool
	Definition *schema.FieldDefinition
}

// Type returns the field's return type, or nil for a meta-field (whose
// type is introspection-only and out of scope here).
func (f FieldDef) Type() schema.TypeRef {
	if f.Definition == nil {
		return nil
	}
	return f.Definition.Type()
}

// PlanningContext is built once per operation: a composed schema, the
// operation being planned, and its fragment map. Constructing it indexes
// the operation's variable definitions by name so VariableDefinition can
// answer lookups without re-walking the operation.
type PlanningContext struct {
	Schema    *schema.Schema
	Operation *ast.OperationDefinition
	Fragments map[string]*ast.FragmentDefinition
	Config    Configuration

	variableDefs map[string]*ast.VariableDefinition
	scopeCache   *lru.Cache[string, []*schema.ObjectType]
}

// NewPlanningContext indexes doc's fragments and the named operation's
// (or, if name is empty, the document's sole operation's) variable
// definitions, then returns a context ready for scope creation and
// field collection.
func NewPlanningContext(sch *schema.Schema, doc *ast.QueryDocument, operationName string, config Configuration) (*PlanningContext, error) {
	op, err := selectOperation(doc, operationName)
	if err != nil {
		return nil, err
	}
	config = config.withDefaults()

	fragments := make(map[string]*ast.FragmentDefinition, len(doc.Fragments))
	for _, f := range doc.Fragments {
		fragments[f.Name] = f
	}

	variableDefs := make(map[string]*ast.VariableDefinition, len(op.VariableDefinitions))
	for _, v := range op.VariableDefinitions {
		variableDefs[v.Variable] = v
	}

	cache, err := lru.New[string, []*schema.ObjectType](config.ScopeCacheSize)
	if err != nil {
		return nil, err
	}

	return &PlanningContext{
		Schema:       sch,
		Operation:    op,
		Fragments:    fragments,
		Config:       config,
		variableDefs: variableDefs,
		scopeCache:   cache,
	}, nil
}

func selectOperation(doc *ast.QueryDocument, name string) (*ast.OperationDefinition, error) {
	if name == "" {
		if len(doc.Operations) != 1 {
			return nil, operationreport.ExternalError{
				Message:   "operationName is required when a document defines more than one operation",
				ErrorCode: "AMBIGUOUS_OPERATION",
			}
		}
		return doc.Operations[0], nil
	}
	for _, op := range doc.Operations {
		if op.Name == name {
			return op, nil
		}
	}
	return nil, operationreport.ExternalError{
		Message:   fmt.Sprintf("no operation named %q in document", name),
		ErrorCode: "UNKNOWN_OPERATION",
	}
}

// RootType returns the supergraph's root object type for the context's
// operation (Query/Mutation/Subscription).
func (c *PlanningContext) RootType() (*schema.ObjectType, error) {
	def := c.Schema.SchemaDefinition()
	var t *schema.ObjectType
	switch c.Operation.Operation {
	case ast.Query:
		t = def.Query
	case ast.Mutation:
		t = def.Mutation
	case ast.Subscription:
		t = def.Subscription
	}
	if t == nil {
		return nil, operationreport.ExternalError{
			Message:   fmt.Sprintf("schema has no root type for %s operations", c.Operation.Operation),
			ErrorCode: "NO_ROOT_TYPE",
		}
	}
	return t, nil
}

// FieldDef looks up fieldNode against parent, folding in the
// introspection meta-fields every object type implicitly carries.
// Querying a field the parent doesn't have is a planner error, not a
// skip — unlike schema composition, an operation is expected to have
// already passed validation against the schema it's planned against.
func (c *PlanningContext) FieldDef(parent *schema.ObjectType, fieldNode *ast.Field) (FieldDef, error) {
	switch fieldNode.Name {
	case "__typename":
		return FieldDef{Name: "__typename", Meta: true}, nil
	case "__schema", "__type":
		return FieldDef{Name: fieldNode.Name, Meta: true}, nil
	}
	if parent == nil {
		return FieldDef{}, operationreport.ErrCannotQueryField(fieldNode.Name, "")
	}
	fd, ok := parent.Field(fieldNode.Name)
	if !ok {
		return FieldDef{}, operationreport.ErrCannotQueryField(fieldNode.Name, parent.Name())
	}
	return FieldDef{Name: fd.Name(), Definition: fd}, nil
}

// VariableUsages collects the distinct variable names referenced by
// set, including variables used in field/directive arguments nested
// inside inline fragments and fragment spreads.
func (c *PlanningContext) VariableUsages(set ast.SelectionSet) []string {
	seen := make(map[string]struct{})
	c.collectVariableUsages(set, seen)
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	return out
}

func (c *PlanningContext) collectVariableUsages(set ast.SelectionSet, seen map[string]struct{}) {
	for _, sel := range set {
		switch v := sel.(type) {
		case *ast.Field:
			collectArgVariables(v.Arguments, seen)
			collectDirectiveVariables(v.Directives, seen)
			c.collectVariableUsages(v.SelectionSet, seen)
		case *ast.InlineFragment:
			collectDirectiveVariables(v.Directives, seen)
			c.collectVariableUsages(v.SelectionSet, seen)
		case *ast.FragmentSpread:
			collectDirectiveVariables(v.Directives, seen)
			if frag, ok := c.Fragments[v.Name]; ok {
				c.collectVariableUsages(frag.SelectionSet, seen)
			}
		}
	}
}

func collectArgVariables(args ast.ArgumentList, seen map[string]struct{}) {
	for _, a := range args {
		collectValueVariables(a.Value, seen)
	}
}

func collectDirectiveVariables(dirs ast.DirectiveList, seen map[string]struct{}) {
	for _, d := range dirs {
		collectArgVariables(d.Arguments, seen)
	}
}

func collectValueVariables(v *ast.Value, seen map[string]struct{}) {
	if v == nil {
		return
	}
	switch v.Kind {
	case ast.Variable:
		seen[v.Raw] = struct{}{}
	case ast.ListValue:
		for _, c := range v.Children {
			collectValueVariables(c.Value, seen)
		}
	case ast.ObjectValue:
		for _, c := range v.Children {
			collectValueVariables(c.Value, seen)
		}
	}
}

// VariableDefinition looks up a variable declared on the context's
// operation by name.
func (c *PlanningContext) VariableDefinition(name string) (*ast.VariableDefinition, bool) {
	v, ok := c.variableDefs[name]
	return v, ok
}

// BaseService reports the subgraph that owns t's identity.
func (c *PlanningContext) BaseService(t *schema.ObjectType) (string, bool) {
	return federation.BaseService(t)
}

// OwningService reports the subgraph that resolves field f of type t,
// falling back to t's base service when f carries no @join__field of
// its own (the common case for a field only ever declared once).
func (c *PlanningContext) OwningService(t *schema.ObjectType, f *schema.FieldDefinition) (string, bool) {
	return federation.OwningService(t, f)
}
