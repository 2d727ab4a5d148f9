package schema

import "github.com/nexusgraph/federation-core/pkg/value"

// ArgumentDefinition is owned by a field or directive definition. It has
// a name, input type, optional default value, and applied directives.
type ArgumentDefinition struct {
	schema           *Schema
	name             string
	typ              TypeRef
	defaultValue     *value.Value
	directives       DirectiveList
	ownerDescription string
	dead             bool
}

func (a *ArgumentDefinition) Name() string             { return a.name }
func (a *ArgumentDefinition) Schema() *Schema           { return a.schema }
func (a *ArgumentDefinition) Type() TypeRef             { return a.typ }
func (a *ArgumentDefinition) DefaultValue() *value.Value { return a.defaultValue }
func (a *ArgumentDefinition) Directives() *DirectiveList { return &a.directives }
func (a *ArgumentDefinition) describe() string           { return a.ownerDescription + "(" + a.name + ":)" }

// SetDefaultValue assigns the argument's default; fails if the argument
// is detached.
func (a *ArgumentDefinition) SetDefaultValue(v *value.Value) error {
	if a.dead {
		return errDetached(a.describe())
	}
	a.defaultValue = v
	return nil
}

// SetType fails if the argument is detached or new type belongs to a
// different schema; the old type's referencer set is updated.
func (a *ArgumentDefinition) SetType(newType TypeRef) error {
	if a.dead {
		return errDetached(a.describe())
	}
	if newType.BaseType().Schema() != a.schema {
		return errCrossSchema(a.describe())
	}
	if a.typ != nil {
		a.typ.BaseType().dropReferencer(a)
	}
	a.typ = newType
	newType.BaseType().addReferencer(a)
	return nil
}

// removeTypeReference implements Referencer: if this argument's type is
// the removed type, the type reference becomes detached (nil), per the
// §4.C2 removal algorithm's FieldDefinition/InputFieldDefinition/
// ArgumentDefinition case.
func (a *ArgumentDefinition) removeTypeReference(removed NamedType) {
	if a.typ != nil && a.typ.BaseType() == removed {
		a.typ = nil
	}
}

// remove detaches the argument: clears its directives, drops its type
// reference's edge back to it, and marks it dead.
func (a *ArgumentDefinition) remove() {
	if a.dead {
		return
	}
	a.directives.removeAll()
	if a.typ != nil {
		a.typ.BaseType().dropReferencer(a)
	}
	a.typ = nil
	a.defaultValue = nil
	a.dead = true
}
