package schema

// Kind tags the variant of a NamedType. Interface and enum are
// deliberately absent: this module raises
// operationreport.ErrNotImplemented for them during parsing rather
// than guessing at their semantics.
type Kind int

const (
	KindScalar Kind = iota
	KindObject
	KindUnion
	KindInputObject
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "SCALAR"
	case KindObject:
		return "OBJECT"
	case KindUnion:
		return "UNION"
	case KindInputObject:
		return "INPUT_OBJECT"
	default:
		return "UNKNOWN"
	}
}

// Referencer is any schema element whose definition textually depends
// on a NamedType: a field/input-field/argument through its type, a
// UnionType through its member list, a SchemaDefinition through its
// root-operation bindings. removeTypeReference is invoked by
// NamedType.Remove on every live referencer so the graph never holds a
// silently dangling edge that Remove's return value didn't surface.
type Referencer interface {
	removeTypeReference(removed NamedType)
	describe() string
}

// TypeRef is anything a field, argument, or input field can point to:
// a NamedType directly, or a ListType wrapping one recursively.
type TypeRef interface {
	BaseType() NamedType
	String() string
}

// NamedType is the tagged variant over {Scalar, Object, Union,
// InputObject}. Every named type owns its name, its applied directives,
// and its referencer set.
type NamedType interface {
	TypeRef
	Name() string
	TypeKind() Kind
	Schema() *Schema
	Directives() *DirectiveList
	Description() string
	IsBuiltin() bool
	Referencers() []Referencer

	addReferencer(Referencer)
	dropReferencer(Referencer)
	isDetached() bool
}
