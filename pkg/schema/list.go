package schema

// ListType is a lightweight, recursive wrapper over any TypeRef. Its
// Schema is that of its eventual base type — wrapping never changes
// schema ownership.
type ListType struct {
	Of TypeRef
}

func List(of TypeRef) *ListType { return &ListType{Of: of} }

func (l *ListType) BaseType() NamedType { return l.Of.BaseType() }

func (l *ListType) String() string { return "[" + l.Of.String() + "]" }

// Depth returns how many ListType wrappers deep this reference is (0
// for a bare NamedType).
func Depth(t TypeRef) int {
	d := 0
	for {
		lt, ok := t.(*ListType)
		if !ok {
			return d
		}
		d++
		t = lt.Of
	}
}
