package schema

import "github.com/nexusgraph/federation-core/pkg/value"

// ObjectType owns an ordered set of fields, each unique by name.
type ObjectType struct {
	typeBase
	fields     map[string]*FieldDefinition
	fieldOrder []string
}

func (o *ObjectType) TypeKind() Kind      { return KindObject }
func (o *ObjectType) BaseType() NamedType { return o }
func (o *ObjectType) String() string      { return o.name }
func (o *ObjectType) describe() string    { return "type " + o.name }

func (o *ObjectType) Fields() []*FieldDefinition {
	out := make([]*FieldDefinition, 0, len(o.fieldOrder))
	for _, n := range o.fieldOrder {
		out = append(out, o.fields[n])
	}
	return out
}

func (o *ObjectType) Field(name string) (*FieldDefinition, bool) {
	f, ok := o.fields[name]
	return f, ok
}

func (o *ObjectType) HasField(name string) bool {
	_, ok := o.fields[name]
	return ok
}

// AddField fails if name already exists, and fails if typ belongs to a
// different schema; detached types are rejected too since attachment is
// required to wire referencers correctly.
func (o *ObjectType) AddField(name string, typ TypeRef) (*FieldDefinition, error) {
	if o.dead {
		return nil, errDetached(o.describe())
	}
	if _, exists := o.fields[name]; exists {
		return nil, errFieldExists(o.name, name)
	}
	base := typ.BaseType()
	if base.isDetached() {
		return nil, errDetached("field type for " + o.name + "." + name)
	}
	if base.Schema() != o.schema {
		return nil, errCrossSchema(o.name + "." + name)
	}

	field := &FieldDefinition{schema: o.schema, parent: o, name: name, typ: typ}
	base.addReferencer(field)

	if o.fields == nil {
		o.fields = make(map[string]*FieldDefinition)
	}
	o.fields[name] = field
	o.fieldOrder = append(o.fieldOrder, name)
	return field, nil
}

// removeTypeReference: ObjectType never holds a direct type reference;
// union membership, field types, and root bindings are what reference
// an object type, never the object type referencing something else
// through this hook.
func (o *ObjectType) removeTypeReference(removed NamedType) {
	panic(assertionViolation("ObjectType " + o.name + " received removeTypeReference"))
}

// Remove implements the §4.C2 removal algorithm: unregister from the
// schema, recursively remove every owned field, notify referencers,
// clear the referencer set, detach.
func (o *ObjectType) Remove() []Referencer {
	if o.dead {
		return nil
	}
	if o.schema != nil {
		delete(o.schema.types, o.name)
	}
	for _, f := range o.Fields() {
		f.remove()
	}
	o.fields = nil
	o.fieldOrder = nil
	o.directives.removeAll()

	refs := o.Referencers()
	for _, r := range refs {
		r.removeTypeReference(o)
	}
	o.refs = nil
	o.schema = nil
	o.dead = true
	return refs
}

func (o *ObjectType) removeFieldInternal(name string) {
	if _, ok := o.fields[name]; !ok {
		return
	}
	delete(o.fields, name)
	for i, n := range o.fieldOrder {
		if n == name {
			o.fieldOrder = append(o.fieldOrder[:i], o.fieldOrder[i+1:]...)
			break
		}
	}
}

// FieldDefinition is owned by exactly one object type.
type FieldDefinition struct {
	schema      *Schema
	parent      *ObjectType
	name        string
	description string
	typ         TypeRef
	directives  DirectiveList
	args        map[string]*ArgumentDefinition
	argOrder    []string
	dead        bool
}

func (f *FieldDefinition) Name() string              { return f.name }
func (f *FieldDefinition) Schema() *Schema            { return f.schema }
func (f *FieldDefinition) Parent() *ObjectType        { return f.parent }
func (f *FieldDefinition) Type() TypeRef              { return f.typ }
func (f *FieldDefinition) Directives() *DirectiveList { return &f.directives }
func (f *FieldDefinition) Coordinate() string         { return f.parent.Name() + "." + f.name }
func (f *FieldDefinition) describe() string           { return "field " + f.Coordinate() }
func (f *FieldDefinition) IsDetached() bool           { return f.dead }
func (f *FieldDefinition) Description() string        { return f.description }
func (f *FieldDefinition) SetDescription(d string)     { f.description = d }

func (f *FieldDefinition) Arguments() []*ArgumentDefinition {
	out := make([]*ArgumentDefinition, 0, len(f.argOrder))
	for _, n := range f.argOrder {
		out = append(out, f.args[n])
	}
	return out
}

func (f *FieldDefinition) Argument(name string) (*ArgumentDefinition, bool) {
	a, ok := f.args[name]
	return a, ok
}

func (f *FieldDefinition) AddArgument(name string, typ TypeRef) (*ArgumentDefinition, error) {
	if f.dead {
		return nil, errDetached(f.describe())
	}
	if _, exists := f.args[name]; exists {
		return nil, errFieldExists(f.Coordinate(), name)
	}
	if typ.BaseType().Schema() != f.schema {
		return nil, errCrossSchema(f.Coordinate() + "(" + name + ":)")
	}
	arg := &ArgumentDefinition{schema: f.schema, name: name, typ: typ, ownerDescription: f.Coordinate()}
	typ.BaseType().addReferencer(arg)
	if f.args == nil {
		f.args = make(map[string]*ArgumentDefinition)
	}
	f.args[name] = arg
	f.argOrder = append(f.argOrder, name)
	return arg, nil
}

// SetType fails if the field is detached or if new_type belongs to a
// different schema; the old type's referencer set is updated.
func (f *FieldDefinition) SetType(newType TypeRef) error {
	if f.dead {
		return errDetached(f.describe())
	}
	base := newType.BaseType()
	if base.Schema() != f.schema {
		return errCrossSchema(f.Coordinate())
	}
	if f.typ != nil {
		f.typ.BaseType().dropReferencer(f)
	}
	f.typ = newType
	base.addReferencer(f)
	return nil
}

// ApplyDirective attaches a new directive application. Duplicates are
// never deduplicated.
func (f *FieldDefinition) ApplyDirective(name string, args value.ArgumentMap) *DirectiveApplication {
	return f.directives.Apply(name, args)
}

// removeTypeReference implements Referencer for fields: if this field's
// type is the removed type, the reference becomes detached.
func (f *FieldDefinition) removeTypeReference(removed NamedType) {
	if f.typ != nil && f.typ.BaseType() == removed {
		f.typ = nil
	}
}

// remove detaches the field from its parent object, recursively removes
// owned arguments and directives, drops its own type reference edge,
// and marks the field dead.
func (f *FieldDefinition) remove() []Referencer {
	if f.dead {
		return nil
	}
	if f.parent != nil {
		f.parent.removeFieldInternal(f.name)
	}
	for _, name := range f.argOrder {
		f.args[name].remove()
	}
	f.args = nil
	f.argOrder = nil
	f.directives.removeAll()

	if f.typ != nil {
		f.typ.BaseType().dropReferencer(f)
	}
	f.typ = nil
	f.parent = nil
	f.dead = true
	return nil
}

// Remove exposes the field removal as a public mutation, matching the
// uniform Remove() contract every owned element supports; fields have
// no referencers of their own (nothing references a field, only the
// types a field's type/arguments point at), so the returned list is
// always empty.
func (f *FieldDefinition) Remove() []Referencer {
	return f.remove()
}
