package schema

import "github.com/nexusgraph/federation-core/pkg/value"

// InputObjectType owns an ordered set of input fields, same shape as
// ObjectType's output fields but with input-typed values.
type InputObjectType struct {
	typeBase
	fields     map[string]*InputFieldDefinition
	fieldOrder []string
}

func (i *InputObjectType) TypeKind() Kind      { return KindInputObject }
func (i *InputObjectType) BaseType() NamedType { return i }
func (i *InputObjectType) String() string      { return i.name }
func (i *InputObjectType) describe() string    { return "input " + i.name }

func (i *InputObjectType) Fields() []*InputFieldDefinition {
	out := make([]*InputFieldDefinition, 0, len(i.fieldOrder))
	for _, n := range i.fieldOrder {
		out = append(out, i.fields[n])
	}
	return out
}

func (i *InputObjectType) Field(name string) (*InputFieldDefinition, bool) {
	f, ok := i.fields[name]
	return f, ok
}

func (i *InputObjectType) AddField(name string, typ TypeRef) (*InputFieldDefinition, error) {
	if i.dead {
		return nil, errDetached(i.describe())
	}
	if _, exists := i.fields[name]; exists {
		return nil, errFieldExists(i.name, name)
	}
	base := typ.BaseType()
	if base.Schema() != i.schema {
		return nil, errCrossSchema(i.name + "." + name)
	}
	field := &InputFieldDefinition{schema: i.schema, parent: i, name: name, typ: typ}
	base.addReferencer(field)
	if i.fields == nil {
		i.fields = make(map[string]*InputFieldDefinition)
	}
	i.fields[name] = field
	i.fieldOrder = append(i.fieldOrder, name)
	return field, nil
}

func (i *InputObjectType) removeFieldInternal(name string) {
	if _, ok := i.fields[name]; !ok {
		return
	}
	delete(i.fields, name)
	for idx, n := range i.fieldOrder {
		if n == name {
			i.fieldOrder = append(i.fieldOrder[:idx], i.fieldOrder[idx+1:]...)
			break
		}
	}
}

func (i *InputObjectType) removeTypeReference(removed NamedType) {
	panic(assertionViolation("InputObjectType " + i.name + " received removeTypeReference"))
}

func (i *InputObjectType) Remove() []Referencer {
	if i.dead {
		return nil
	}
	if i.schema != nil {
		delete(i.schema.types, i.name)
	}
	for _, f := range i.Fields() {
		f.remove()
	}
	i.fields = nil
	i.fieldOrder = nil
	i.directives.removeAll()

	refs := i.Referencers()
	for _, r := range refs {
		r.removeTypeReference(i)
	}
	i.refs = nil
	i.schema = nil
	i.dead = true
	return refs
}

// InputFieldDefinition is owned by exactly one input object type.
type InputFieldDefinition struct {
	schema       *Schema
	parent       *InputObjectType
	name         string
	typ          TypeRef
	defaultValue *value.Value
	directives   DirectiveList
	dead         bool
}

func (f *InputFieldDefinition) Name() string              { return f.name }
func (f *InputFieldDefinition) Schema() *Schema            { return f.schema }
func (f *InputFieldDefinition) Parent() *InputObjectType   { return f.parent }
func (f *InputFieldDefinition) Type() TypeRef              { return f.typ }
func (f *InputFieldDefinition) Directives() *DirectiveList { return &f.directives }
func (f *InputFieldDefinition) Coordinate() string         { return f.parent.Name() + "." + f.name }
func (f *InputFieldDefinition) describe() string           { return "input field " + f.Coordinate() }

func (f *InputFieldDefinition) SetDefaultValue(v *value.Value) error {
	if f.dead {
		return errDetached(f.describe())
	}
	f.defaultValue = v
	return nil
}

func (f *InputFieldDefinition) SetType(newType TypeRef) error {
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

func (f *InputFieldDefinition) removeTypeReference(removed NamedType) {
	if f.typ != nil && f.typ.BaseType() == removed {
		f.typ = nil
	}
}

func (f *InputFieldDefinition) remove() {
	if f.dead {
		return
	}
	if f.parent != nil {
		f.parent.removeFieldInternal(f.name)
	}
	f.directives.removeAll()
	if f.typ != nil {
		f.typ.BaseType().dropReferencer(f)
	}
	f.typ = nil
	f.defaultValue = nil
	f.parent = nil
	f.dead = true
}

func (f *InputFieldDefinition) Remove() []Referencer {
	f.remove()
	return nil
}
