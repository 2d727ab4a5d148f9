// Package value wraps the structured GraphQL value representation from
// vektah/gqlparser/v2's ast package with the equality semantics this
// module's Schema Object Model needs: deep structural equality over
// null/bool/int/float/string/enum/list/object/variable values, with
// object-field order normalized (sorted by name) so that
// @f(a: 1, b: 2) and @f(b: 2, a: 1) compare equal. Stringifying
// arguments for comparison instead — a tempting shortcut — makes those
// two directive applications compare unequal; normalizing by sorting
// avoids that false inequality.
package value

import (
	"sort"

	"github.com/vektah/gqlparser/v2/ast"
)

// Value is a thin alias: every SOM element that owns a structured value
// (a field's default value, a directive argument) stores a *ast.Value
// directly. The functions below are the semantic operations the SOM
// needs that ast.Value itself doesn't provide.
type Value = ast.Value

// Equal reports whether a and b are the same GraphQL value, ignoring
// object-field order and any position/definition metadata carried only
// for error messages.
func Equal(a, b *Value) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case ast.ListValue:
		if len(a.Children) != len(b.Children) {
			return false
		}
		for i := range a.Children {
			if !Equal(a.Children[i].Value, b.Children[i].Value) {
				return false
			}
		}
		return true
	case ast.ObjectValue:
		return equalObjectFields(a.Children, b.Children)
	case ast.Variable:
		return a.Raw == b.Raw
	default:
		return a.Raw == b.Raw
	}
}

func equalObjectFields(a, b ast.ChildValueList) bool {
	if len(a) != len(b) {
		return false
	}
	as := sortedByName(a)
	bs := sortedByName(b)
	for i := range as {
		if as[i].Name != bs[i].Name {
			return false
		}
		if !Equal(as[i].Value, bs[i].Value) {
			return false
		}
	}
	return true
}

func sortedByName(children ast.ChildValueList) ast.ChildValueList {
	cp := make(ast.ChildValueList, len(children))
	copy(cp, children)
	sort.Slice(cp, func(i, j int) bool { return cp[i].Name < cp[j].Name })
	return cp
}

// Clone deep-copies a value; used by the SOM's to_mutable/to_immutable
// copy so that the two views never alias the same underlying value.
func Clone(v *Value) *Value {
	if v == nil {
		return nil
	}
	cp := *v
	if v.Children != nil {
		cp.Children = make(ast.ChildValueList, len(v.Children))
		for i, c := range v.Children {
			cp.Children[i] = ast.ChildValue{
				Name:  c.Name,
				Value: Clone(c.Value),
			}
		}
	}
	return &cp
}

// ArgumentMap is the map from argument name to structured value that a
// DirectiveApplication and an ArgumentDefinition's default carry.
type ArgumentMap map[string]*Value

// Equal compares two argument maps for semantic equality (order-
// independent over the map itself; each value is compared with Equal).
func (m ArgumentMap) Equal(other ArgumentMap) bool {
	if len(m) != len(other) {
		return false
	}
	for name, v := range m {
		ov, ok := other[name]
		if !ok || !Equal(v, ov) {
			return false
		}
	}
	return true
}

// Clone deep-copies the map.
func (m ArgumentMap) Clone() ArgumentMap {
	if m == nil {
		return nil
	}
	cp := make(ArgumentMap, len(m))
	for k, v := range m {
		cp[k] = Clone(v)
	}
	return cp
}

// SortedNames returns the argument names in sorted order, used anywhere
// a canonical/deterministic textual representation of an argument map is
// needed (e.g. the schema printer's directive-argument order).
func (m ArgumentMap) SortedNames() []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
