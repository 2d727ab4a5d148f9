package schema

import "github.com/nexusgraph/federation-core/pkg/operationreport"

// builtinScalarNames are the five scalars every schema seeds into a map
// disjoint from the user type map.
var builtinScalarNames = [...]string{"Int", "Float", "String", "Boolean", "ID"}

// Schema holds a mapping from name to named type, a mapping from name to
// directive definition, the disjoint built-in scalar map, and a single
// schema definition. The Mutable tag distinguishes two views over one
// shared representation (immutable: readers only; mutable:
// constructors, setters, ApplyDirective, Remove) — see DESIGN.md "Open
// Question — mutable/immutable split" for why this repo picks that over
// two parallel struct families. Only the Schema's own methods
// (Add*Type, AddDirectiveDefinition, RemoveType) check the tag;
// mutators reached through a type, field or argument (AddField,
// AddArgument, SetType, AddMember, ApplyDirective, Remove, ...) do not
// check it and succeed on an immutable schema too.
type Schema struct {
	Mutable bool

	types      map[string]NamedType
	typeOrder  []string
	builtins   map[string]*ScalarType
	directives map[string]*DirectiveDefinition
	dirOrder   []string

	builtinDirectiveNames []string

	schemaDefinition *SchemaDefinition
}

// IsBuiltinDirective reports whether name was seeded by NewMutableSchema
// rather than declared by a subgraph document.
func (s *Schema) IsBuiltinDirective(name string) bool {
	for _, n := range s.builtinDirectiveNames {
		if n == name {
			return true
		}
	}
	return false
}

// SchemaDefinition carries the root-operation assignments. It is itself
// a Referencer: removing a type bound as a root operation type drops
// that binding rather than leaving a dangling pointer.
type SchemaDefinition struct {
	schema       *Schema
	Query        *ObjectType
	Mutation     *ObjectType
	Subscription *ObjectType
}

func (s *SchemaDefinition) describe() string { return "schema definition" }

func (s *SchemaDefinition) removeTypeReference(removed NamedType) {
	if s.Query != nil && s.Query == removed {
		s.Query = nil
	}
	if s.Mutation != nil && s.Mutation == removed {
		s.Mutation = nil
	}
	if s.Subscription != nil && s.Subscription == removed {
		s.Subscription = nil
	}
}

func (s *SchemaDefinition) SetQuery(t *ObjectType) {
	if s.Query != nil {
		s.Query.dropReferencer(s)
	}
	s.Query = t
	if t != nil {
		t.addReferencer(s)
	}
}

func (s *SchemaDefinition) SetMutation(t *ObjectType) {
	if s.Mutation != nil {
		s.Mutation.dropReferencer(s)
	}
	s.Mutation = t
	if t != nil {
		t.addReferencer(s)
	}
}

func (s *SchemaDefinition) SetSubscription(t *ObjectType) {
	if s.Subscription != nil {
		s.Subscription.dropReferencer(s)
	}
	s.Subscription = t
	if t != nil {
		t.addReferencer(s)
	}
}

// NewMutableSchema creates an empty, mutable schema seeded with the
// built-in scalars and directives (see pkg/schema/builtins.go).
func NewMutableSchema() *Schema {
	s := &Schema{
		Mutable:    true,
		types:      make(map[string]NamedType),
		builtins:   make(map[string]*ScalarType),
		directives: make(map[string]*DirectiveDefinition),
	}
	seedBuiltins(s)
	s.schemaDefinition = &SchemaDefinition{schema: s}
	return s
}

func (s *Schema) SchemaDefinition() *SchemaDefinition { return s.schemaDefinition }

// LookupType resolves a name against the user type map first, then the
// built-in scalar map, matching the invariant that every reachable type
// reference is present in one of the two type maps.
func (s *Schema) LookupType(name string) (NamedType, bool) {
	if t, ok := s.types[name]; ok {
		return t, true
	}
	if t, ok := s.builtins[name]; ok {
		return t, true
	}
	return nil, false
}

func (s *Schema) Types() []NamedType {
	out := make([]NamedType, 0, len(s.typeOrder))
	for _, n := range s.typeOrder {
		out = append(out, s.types[n])
	}
	return out
}

func (s *Schema) Builtins() []*ScalarType {
	out := make([]*ScalarType, 0, len(builtinScalarNames))
	for _, n := range builtinScalarNames {
		out = append(out, s.builtins[n])
	}
	return out
}

func (s *Schema) Directives() []*DirectiveDefinition {
	out := make([]*DirectiveDefinition, 0, len(s.dirOrder))
	for _, n := range s.dirOrder {
		out = append(out, s.directives[n])
	}
	return out
}

func (s *Schema) DirectiveDefinition(name string) (*DirectiveDefinition, bool) {
	d, ok := s.directives[name]
	return d, ok
}

func (s *Schema) requireMutable(op string) error {
	if !s.Mutable {
		return operationreport.ExternalError{
			Message:   op + " requires a mutable schema; call ToMutable() first",
			ErrorCode: "SCHEMA_NOT_MUTABLE",
		}
	}
	return nil
}

// AddObjectType fails if name exists with a conflicting kind; returns
// the existing type if kinds already match (idempotent re-declaration,
// a "return existing if already present" convention root operation
// types rely on across subgraphs).
func (s *Schema) AddObjectType(name string) (*ObjectType, error) {
	if err := s.requireMutable("AddObjectType"); err != nil {
		return nil, err
	}
	if existing, ok := s.types[name]; ok {
		if obj, ok := existing.(*ObjectType); ok {
			return obj, nil
		}
		return nil, operationreport.ExternalError{
			Message:   "type " + name + " already exists as " + existing.TypeKind().String(),
			ErrorCode: "TYPE_KIND_CONFLICT",
		}
	}
	obj := &ObjectType{typeBase: typeBase{schema: s, name: name}}
	s.registerType(name, obj)
	return obj, nil
}

// AddScalarType fails if name collides with a built-in.
func (s *Schema) AddScalarType(name string) (*ScalarType, error) {
	if err := s.requireMutable("AddScalarType"); err != nil {
		return nil, err
	}
	if _, ok := s.builtins[name]; ok {
		return nil, operationreport.ExternalError{
			Message:   "scalar " + name + " collides with a built-in scalar",
			ErrorCode: "BUILTIN_COLLISION",
		}
	}
	if existing, ok := s.types[name]; ok {
		if sc, ok := existing.(*ScalarType); ok {
			return sc, nil
		}
		return nil, operationreport.ExternalError{
			Message:   "type " + name + " already exists as " + existing.TypeKind().String(),
			ErrorCode: "TYPE_KIND_CONFLICT",
		}
	}
	sc := &ScalarType{typeBase: typeBase{schema: s, name: name}}
	s.registerType(name, sc)
	return sc, nil
}

func (s *Schema) AddUnionType(name string) (*UnionType, error) {
	if err := s.requireMutable("AddUnionType"); err != nil {
		return nil, err
	}
	if existing, ok := s.types[name]; ok {
		if u, ok := existing.(*UnionType); ok {
			return u, nil
		}
		return nil, operationreport.ExternalError{
			Message:   "type " + name + " already exists as " + existing.TypeKind().String(),
			ErrorCode: "TYPE_KIND_CONFLICT",
		}
	}
	u := &UnionType{typeBase: typeBase{schema: s, name: name}}
	s.registerType(name, u)
	return u, nil
}

func (s *Schema) AddInputObjectType(name string) (*InputObjectType, error) {
	if err := s.requireMutable("AddInputObjectType"); err != nil {
		return nil, err
	}
	if existing, ok := s.types[name]; ok {
		if io, ok := existing.(*InputObjectType); ok {
			return io, nil
		}
		return nil, operationreport.ExternalError{
			Message:   "type " + name + " already exists as " + existing.TypeKind().String(),
			ErrorCode: "TYPE_KIND_CONFLICT",
		}
	}
	io := &InputObjectType{typeBase: typeBase{schema: s, name: name}}
	s.registerType(name, io)
	return io, nil
}

// AddDirectiveDefinition defines a new directive on the schema.
func (s *Schema) AddDirectiveDefinition(name string) (*DirectiveDefinition, error) {
	if err := s.requireMutable("AddDirectiveDefinition"); err != nil {
		return nil, err
	}
	if existing, ok := s.directives[name]; ok {
		return existing, nil
	}
	d := &DirectiveDefinition{schema: s, name: name}
	s.directives[name] = d
	s.dirOrder = append(s.dirOrder, name)
	return d, nil
}

func (s *Schema) registerType(name string, t NamedType) {
	s.types[name] = t
	s.typeOrder = append(s.typeOrder, name)
}

// RemoveType removes a named type by name, returning the referencers it
// had at the moment of removal (per the §3 lifecycle contract) so
// callers can repair or report dangling edges the removal surfaced.
func (s *Schema) RemoveType(name string) ([]Referencer, error) {
	if err := s.requireMutable("RemoveType"); err != nil {
		return nil, err
	}
	t, ok := s.types[name]
	if !ok {
		return nil, nil
	}
	switch v := t.(type) {
	case *ObjectType:
		return v.Remove(), nil
	case *ScalarType:
		return v.Remove(), nil
	case *UnionType:
		return v.Remove(), nil
	case *InputObjectType:
		return v.Remove(), nil
	default:
		return nil, operationreport.ExternalError{Message: "unknown named type kind", ErrorCode: "INTERNAL"}
	}
}
