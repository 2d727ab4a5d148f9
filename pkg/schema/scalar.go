package schema

// ScalarType is a named type with no internal structure beyond its
// directives. Built-in scalars (Int, Float, String, Boolean, ID) live
// in a separate map from user-defined scalars (see Schema.builtins),
// disjoint from the user type map.
type ScalarType struct {
	typeBase
}

func (s *ScalarType) TypeKind() Kind      { return KindScalar }
func (s *ScalarType) BaseType() NamedType { return s }
func (s *ScalarType) String() string      { return s.name }
func (s *ScalarType) describe() string    { return "scalar " + s.name }

// removeTypeReference: ScalarType never holds a direct type reference to
// another named type, so this is an assertion failure — it must never
// be invoked by a live schema.
func (s *ScalarType) removeTypeReference(removed NamedType) {
	panic(assertionViolation("ScalarType " + s.name + " received removeTypeReference; scalars hold no type references"))
}

// Remove implements the shared removal algorithm for a scalar type: it
// has no owned children beyond its directives, so removal is unregister
// + notify referencers + clear.
func (s *ScalarType) Remove() []Referencer {
	if s.dead {
		return nil
	}
	if s.schema != nil {
		delete(s.schema.types, s.name)
	}
	s.directives.removeAll()
	refs := s.Referencers()
	for _, r := range refs {
		r.removeTypeReference(s)
	}
	s.refs = nil
	s.schema = nil
	s.dead = true
	return refs
}
