package schema

// typeBase is embedded by every NamedType implementation. It carries the
// bookkeeping common to all four variants: the owning schema, the name,
// applied directives, the referencer set, and whether this type has
// been removed. Go's garbage collector means referencer edges can be
// ordinary map keys over interface values rather than an integer-id
// arena, which a non-GC'd target language would need instead (see
// DESIGN.md, "Open Question — referencer tracking").
type typeBase struct {
	schema      *Schema
	name        string
	description string
	directives  DirectiveList
	refs        map[Referencer]struct{}
	builtin     bool
	dead        bool
}

func (b *typeBase) Name() string { return b.name }

func (b *typeBase) Schema() *Schema { return b.schema }

func (b *typeBase) Directives() *DirectiveList { return &b.directives }

// Description returns the type's doc comment, if any. Composition's
// description-merging supplement reads and rewrites this across
// subgraphs before the supergraph is printed.
func (b *typeBase) Description() string { return b.description }

func (b *typeBase) SetDescription(d string) { b.description = d }

func (b *typeBase) IsBuiltin() bool { return b.builtin }

func (b *typeBase) isDetached() bool { return b.dead }

func (b *typeBase) addReferencer(r Referencer) {
	if b.refs == nil {
		b.refs = make(map[Referencer]struct{})
	}
	b.refs[r] = struct{}{}
}

func (b *typeBase) dropReferencer(r Referencer) {
	delete(b.refs, r)
}

func (b *typeBase) Referencers() []Referencer {
	out := make([]Referencer, 0, len(b.refs))
	for r := range b.refs {
		out = append(out, r)
	}
	return out
}
