package schema

import "github.com/nexusgraph/federation-core/pkg/value"

// ToImmutable produces an independent immutable snapshot of s via deep
// copy: directive applications, argument values, list wrappers, and all
// referencer edges are preserved, but nothing is shared with s —
// conversion is always by deep copy, never aliasing.
func (s *Schema) ToImmutable() *Schema {
	return copySchema(s, false)
}

// ToMutable produces an independent mutable copy of s.
func (s *Schema) ToMutable() *Schema {
	return copySchema(s, true)
}

func copySchema(src *Schema, mutable bool) *Schema {
	dst := &Schema{
		Mutable:    true, // temporarily mutable while rebuilding via the constructor API
		types:      make(map[string]NamedType),
		builtins:   make(map[string]*ScalarType),
		directives: make(map[string]*DirectiveDefinition),
	}
	for _, name := range builtinScalarNames {
		dst.builtins[name] = &ScalarType{typeBase: typeBase{schema: dst, name: name, builtin: true}}
	}
	dst.schemaDefinition = &SchemaDefinition{schema: dst}
	dst.builtinDirectiveNames = append([]string(nil), src.builtinDirectiveNames...)

	// pass 1: shells, in the source's insertion order (preserves
	// deterministic printing).
	shellOf := make(map[string]NamedType, len(src.typeOrder))
	for _, name := range src.typeOrder {
		old := src.types[name]
		switch old.(type) {
		case *ObjectType:
			t, _ := dst.AddObjectType(name)
			shellOf[name] = t
		case *ScalarType:
			t, _ := dst.AddScalarType(name)
			shellOf[name] = t
		case *UnionType:
			t, _ := dst.AddUnionType(name)
			shellOf[name] = t
		case *InputObjectType:
			t, _ := dst.AddInputObjectType(name)
			shellOf[name] = t
		}
	}

	lookup := func(name string) TypeRef {
		if t, ok := shellOf[name]; ok {
			return t
		}
		if t, ok := dst.builtins[name]; ok {
			return t
		}
		return nil
	}
	resolveRef := func(ref TypeRef) TypeRef {
		return remapTypeRef(ref, lookup)
	}

	// directive definitions (arguments resolved against the already-
	// shelled type map).
	for _, name := range src.dirOrder {
		oldDD := src.directives[name]
		newDD, _ := dst.AddDirectiveDefinition(name)
		for _, oldArg := range oldDD.Arguments() {
			newType := resolveRef(oldArg.Type())
			if newType == nil {
				continue
			}
			newArg, _ := newDD.AddArgument(oldArg.Name(), newType)
			if oldArg.DefaultValue() != nil {
				_ = newArg.SetDefaultValue(value.Clone(oldArg.DefaultValue()))
			}
		}
	}

	// pass 2: fields/args/directives for object and input-object types.
	for _, name := range src.typeOrder {
		switch old := src.types[name].(type) {
		case *ObjectType:
			newObj := shellOf[name].(*ObjectType)
			newObj.SetDescription(old.Description())
			*newObj.Directives() = old.Directives().Clone()
			for _, oldField := range old.Fields() {
				newType := resolveRef(oldField.Type())
				if newType == nil {
					continue
				}
				newField, err := newObj.AddField(oldField.Name(), newType)
				if err != nil {
					continue
				}
				newField.SetDescription(oldField.Description())
				*newField.Directives() = oldField.Directives().Clone()
				for _, oldArg := range oldField.Arguments() {
					argType := resolveRef(oldArg.Type())
					if argType == nil {
						continue
					}
					newArg, err := newField.AddArgument(oldArg.Name(), argType)
					if err != nil {
						continue
					}
					if oldArg.DefaultValue() != nil {
						_ = newArg.SetDefaultValue(value.Clone(oldArg.DefaultValue()))
					}
					*newArg.Directives() = oldArg.Directives().Clone()
				}
			}
		case *InputObjectType:
			newIO := shellOf[name].(*InputObjectType)
			newIO.SetDescription(old.Description())
			*newIO.Directives() = old.Directives().Clone()
			for _, oldField := range old.Fields() {
				newType := resolveRef(oldField.Type())
				if newType == nil {
					continue
				}
				newField, err := newIO.AddField(oldField.Name(), newType)
				if err != nil {
					continue
				}
				if oldField.defaultValue != nil {
					_ = newField.SetDefaultValue(value.Clone(oldField.defaultValue))
				}
				*newField.Directives() = oldField.Directives().Clone()
			}
		case *ScalarType:
			newSc := shellOf[name].(*ScalarType)
			newSc.SetDescription(old.Description())
			*newSc.Directives() = old.Directives().Clone()
		case *UnionType:
			newU := shellOf[name].(*UnionType)
			newU.SetDescription(old.Description())
			*newU.Directives() = old.Directives().Clone()
		}
	}

	// pass 3: union membership, now that every object type exists.
	for _, name := range src.typeOrder {
		oldU, ok := src.types[name].(*UnionType)
		if !ok {
			continue
		}
		newU := shellOf[name].(*UnionType)
		for _, m := range oldU.Members() {
			if newObj, ok := shellOf[m.Name()].(*ObjectType); ok {
				_ = newU.AddMember(newObj)
			}
		}
	}

	// pass 4: root operation bindings.
	if sd := src.schemaDefinition; sd != nil {
		if sd.Query != nil {
			if newObj, ok := shellOf[sd.Query.Name()].(*ObjectType); ok {
				dst.schemaDefinition.SetQuery(newObj)
			}
		}
		if sd.Mutation != nil {
			if newObj, ok := shellOf[sd.Mutation.Name()].(*ObjectType); ok {
				dst.schemaDefinition.SetMutation(newObj)
			}
		}
		if sd.Subscription != nil {
			if newObj, ok := shellOf[sd.Subscription.Name()].(*ObjectType); ok {
				dst.schemaDefinition.SetSubscription(newObj)
			}
		}
	}

	dst.Mutable = mutable
	return dst
}

func remapTypeRef(ref TypeRef, lookup func(string) TypeRef) TypeRef {
	if ref == nil {
		return nil
	}
	if lt, ok := ref.(*ListType); ok {
		inner := remapTypeRef(lt.Of, lookup)
		if inner == nil {
			return nil
		}
		return List(inner)
	}
	return lookup(ref.BaseType().Name())
}
