package schema

import "github.com/nexusgraph/federation-core/pkg/value"

// DirectiveDefinition is owned by the schema; its arguments share the
// same shape as field arguments.
type DirectiveDefinition struct {
	schema    *Schema
	name      string
	arguments map[string]*ArgumentDefinition
	argOrder  []string
	dead      bool
}

func (d *DirectiveDefinition) Name() string   { return d.name }
func (d *DirectiveDefinition) Schema() *Schema { return d.schema }

func (d *DirectiveDefinition) Arguments() []*ArgumentDefinition {
	out := make([]*ArgumentDefinition, 0, len(d.argOrder))
	for _, n := range d.argOrder {
		out = append(out, d.arguments[n])
	}
	return out
}

func (d *DirectiveDefinition) Argument(name string) (*ArgumentDefinition, bool) {
	a, ok := d.arguments[name]
	return a, ok
}

// AddArgument defines a new argument on this directive definition.
func (d *DirectiveDefinition) AddArgument(name string, typ TypeRef) (*ArgumentDefinition, error) {
	if d.dead {
		return nil, errDetached("directive definition @" + d.name)
	}
	if _, exists := d.arguments[name]; exists {
		return nil, errFieldExists("@"+d.name, name)
	}
	if typ.BaseType().Schema() != d.schema {
		return nil, errCrossSchema("argument " + name)
	}
	arg := &ArgumentDefinition{schema: d.schema, name: name, typ: typ, ownerDescription: "@" + d.name}
	typ.BaseType().addReferencer(arg)
	if d.arguments == nil {
		d.arguments = make(map[string]*ArgumentDefinition)
	}
	d.arguments[name] = arg
	d.argOrder = append(d.argOrder, name)
	return arg, nil
}

// DirectiveApplication is owned by the element it annotates. Two
// applications are equal iff their names and argument maps are deeply
// equal (value.ArgumentMap.Equal normalizes field/argument order).
type DirectiveApplication struct {
	Name string
	Args value.ArgumentMap
}

func (a *DirectiveApplication) Equal(other *DirectiveApplication) bool {
	if a == nil || other == nil {
		return a == other
	}
	return a.Name == other.Name && a.Args.Equal(other.Args)
}

func (a *DirectiveApplication) Clone() *DirectiveApplication {
	if a == nil {
		return nil
	}
	return &DirectiveApplication{Name: a.Name, Args: a.Args.Clone()}
}

// DirectiveList is the ordered list of directive applications an
// element carries. Duplicate applications are not deduplicated — a
// deliberate choice, since "@foo @foo" on one element is a legal (if
// unusual) document and callers may care about the repetition.
type DirectiveList []*DirectiveApplication

// Apply appends a new application; it never checks for duplicates.
func (l *DirectiveList) Apply(name string, args value.ArgumentMap) *DirectiveApplication {
	app := &DirectiveApplication{Name: name, Args: args}
	*l = append(*l, app)
	return app
}

// ForName returns the first application with the given name, if any.
func (l DirectiveList) ForName(name string) (*DirectiveApplication, bool) {
	for _, a := range l {
		if a.Name == name {
			return a, true
		}
	}
	return nil, false
}

// AllNamed returns every application with the given name, in order.
func (l DirectiveList) AllNamed(name string) []*DirectiveApplication {
	var out []*DirectiveApplication
	for _, a := range l {
		if a.Name == name {
			out = append(out, a)
		}
	}
	return out
}

// Has reports whether any application with the given name exists.
func (l DirectiveList) Has(name string) bool {
	_, ok := l.ForName(name)
	return ok
}

// Equal compares two directive lists element-wise, in order.
func (l DirectiveList) Equal(other DirectiveList) bool {
	if len(l) != len(other) {
		return false
	}
	for i := range l {
		if !l[i].Equal(other[i]) {
			return false
		}
	}
	return true
}

func (l DirectiveList) Clone() DirectiveList {
	if l == nil {
		return nil
	}
	cp := make(DirectiveList, len(l))
	for i, a := range l {
		cp[i] = a.Clone()
	}
	return cp
}

// removeAll detaches every owned directive application; directive
// applications have no children and no referencers of their own, so
// removal is simply clearing the list (step 3 of the §4.C2 removal
// algorithm, applied to an element's owned directives).
func (l *DirectiveList) removeAll() {
	*l = nil
}
