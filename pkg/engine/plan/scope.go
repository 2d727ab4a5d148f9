package plan

import (
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/nexusgraph/federation-core/pkg/schema"
)

// link is one entry in a Scope's refinement chain: a parent composite
// type plus the directives (from @skip/@include or any other directive
// attached to the fragment) that produced this refinement. next points
// toward the root of the chain.
type link struct {
	parent schema.NamedType
	dirs   ast.DirectiveList
	next   *link
}

// Scope tracks, at one point in a selection set, the chain of fragment
// type-condition refinements applied so far and the set of possible
// runtime object types they narrow down to. Scopes are immutable:
// Refine always returns a new Scope, leaving the receiver usable by
// sibling selections.
type Scope struct {
	ctx   *PlanningContext
	chain *link

	runtimeTypes    []*schema.ObjectType
	runtimeComputed bool
}

// NewScope creates the root scope for a selection set rooted at t (an
// operation's root type, or a field's return type for a nested plan).
func NewScope(ctx *PlanningContext, t schema.NamedType) *Scope {
	return &Scope{ctx: ctx, chain: &link{parent: t}}
}

// ParentType returns the innermost refinement's parent type — the type
// a bare field selection at this scope is looked up against.
func (s *Scope) ParentType() schema.NamedType {
	return s.chain.parent
}

// Refine pushes a new refinement for type t with directives dirs (the
// directives that were attached to the fragment naming t), applying the
// two simplifications the algebra allows:
//   - an empty (non-nil) dirs is treated as absent.
//   - if dirs is absent and some link already in the chain is at least
//     as narrow as t, refining by t can't narrow the scope any further,
//     so the receiver is returned unchanged.
//
// Otherwise a new link is pushed and any older dir-less link that t
// already subsumes is dropped, keeping the chain from growing without
// bound across deeply nested fragments.
func (s *Scope) Refine(t schema.NamedType, dirs ast.DirectiveList) *Scope {
	if len(dirs) == 0 {
		dirs = nil
	}
	if dirs == nil && !s.strictlyRefinedBy(t) {
		return s
	}
	return &Scope{ctx: s.ctx, chain: &link{parent: t, dirs: dirs, next: pruneSubsumed(s.chain, t)}}
}

func (s *Scope) strictlyRefinedBy(t schema.NamedType) bool {
	for l := s.chain; l != nil; l = l.next {
		if isSubtypeOf(l.parent, t) {
			return false
		}
	}
	return true
}

// pruneSubsumed drops any dir-less link in chain whose possible types
// are already a superset of t's — a refinement by t makes that older
// link redundant, since every runtime type it admitted that t doesn't
// is excluded from the intersection regardless.
func pruneSubsumed(chain *link, t schema.NamedType) *link {
	if chain == nil {
		return nil
	}
	rest := pruneSubsumed(chain.next, t)
	if len(chain.dirs) == 0 && isSubtypeOf(t, chain.parent) {
		return rest
	}
	if rest == chain.next {
		return chain
	}
	return &link{parent: chain.parent, dirs: chain.dirs, next: rest}
}

// PossibleRuntimeTypes returns the intersection of possible_types(link)
// across the whole chain, memoized per-Scope and shared across Scopes
// with the same identity key via the PlanningContext's cache (the same
// refinement shape recurs constantly across sibling selections).
func (s *Scope) PossibleRuntimeTypes() []*schema.ObjectType {
	if s.runtimeComputed {
		return s.runtimeTypes
	}
	key := s.IdentityKey()
	if cached, ok := s.ctx.scopeCache.Get(key); ok {
		s.runtimeTypes, s.runtimeComputed = cached, true
		return cached
	}

	var result []*schema.ObjectType
	first := true
	for l := s.chain; l != nil; l = l.next {
		pts := possibleTypes(l.parent)
		if first {
			result = pts
			first = false
			continue
		}
		result = intersectObjectTypes(result, pts)
	}

	s.ctx.scopeCache.Add(key, result)
	s.runtimeTypes, s.runtimeComputed = result, true
	return result
}

// IdentityKey builds a canonical string from the chain's parent names
// and canonicalized directive representations, root-first, plus the
// resulting possible-runtime-type names — suitable as a map key where
// the chain's pointer identity can't express semantic equality.
func (s *Scope) IdentityKey() string {
	var b strings.Builder
	for i, l := range s.rootFirstLinks() {
		if i > 0 {
			b.WriteByte('>')
		}
		b.WriteString(l.parent.Name())
		b.WriteByte('(')
		b.WriteString(canonicalDirectives(l.dirs))
		b.WriteByte(')')
	}
	b.WriteByte('|')
	for i, t := range s.possibleTypesUncached() {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(t.Name())
	}
	return b.String()
}

// possibleTypesUncached recomputes the intersection directly, used by
// IdentityKey so it never recurses back into the cache it's building
// the key for.
func (s *Scope) possibleTypesUncached() []*schema.ObjectType {
	var result []*schema.ObjectType
	first := true
	for l := s.chain; l != nil; l = l.next {
		pts := possibleTypes(l.parent)
		if first {
			result = pts
			first = false
			continue
		}
		result = intersectObjectTypes(result, pts)
	}
	return result
}

// Equals walks both chains in lockstep, comparing parent type names and
// canonicalized directives link by link.
func (s *Scope) Equals(other *Scope) bool {
	a, b := s.rootFirstLinks(), other.rootFirstLinks()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].parent.Name() != b[i].parent.Name() {
			return false
		}
		if canonicalDirectives(a[i].dirs) != canonicalDirectives(b[i].dirs) {
			return false
		}
	}
	return true
}

// Hash combines each link's parent-type name with a symmetric (order-
// independent) hash over its directives, truncated to 32 bits.
func (s *Scope) Hash() uint32 {
	var h uint64
	for _, l := range s.rootFirstLinks() {
		h ^= xxhash.Sum64String(l.parent.Name())
		for _, d := range l.dirs {
			h ^= xxhash.Sum64String(d.Name + ":" + canonicalDirective(d))
		}
	}
	return uint32(h)
}

func (s *Scope) rootFirstLinks() []*link {
	var out []*link
	for l := s.chain; l != nil; l = l.next {
		out = append(out, l)
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// canonicalDirectives renders a directive list as a sorted-by-name,
// order-independent string: two lists with the same directives in
// different orders render identically.
func canonicalDirectives(dirs ast.DirectiveList) string {
	if len(dirs) == 0 {
		return ""
	}
	byName := make(map[string]*ast.Directive, len(dirs))
	names := make([]string, 0, len(dirs))
	for _, d := range dirs {
		names = append(names, d.Name)
		byName[d.Name] = d
	}
	sort.Strings(names)
	var parts []string
	for _, name := range names {
		parts = append(parts, name+":"+canonicalDirective(byName[name]))
	}
	return strings.Join(parts, ";")
}

// canonicalDirective renders one directive's arguments sorted by name,
// normalizing the false inequality @f(a:1,b:2) != @f(b:2,a:1) that
// comparing raw argument order would produce.
func canonicalDirective(d *ast.Directive) string {
	if len(d.Arguments) == 0 {
		return ""
	}
	names := make([]string, len(d.Arguments))
	for i, a := range d.Arguments {
		names[i] = a.Name
	}
	sort.Strings(names)
	var parts []string
	for _, name := range names {
		arg := d.Arguments.ForName(name)
		parts = append(parts, name+"="+valueString(arg.Value))
	}
	return strings.Join(parts, ",")
}

func valueString(v *ast.Value) string {
	if v == nil {
		return ""
	}
	switch v.Kind {
	case ast.ListValue:
		parts := make([]string, len(v.Children))
		for i, c := range v.Children {
			parts[i] = valueString(c.Value)
		}
		return "[" + strings.Join(parts, ",") + "]"
	case ast.ObjectValue:
		names := make([]string, len(v.Children))
		byName := make(map[string]*ast.Value, len(v.Children))
		for i, c := range v.Children {
			names[i] = c.Name
			byName[c.Name] = c.Value
		}
		sort.Strings(names)
		parts := make([]string, len(names))
		for i, n := range names {
			parts[i] = n + ":" + valueString(byName[n])
		}
		return "{" + strings.Join(parts, ",") + "}"
	default:
		return v.Raw
	}
}

// possibleTypes returns the runtime object types t admits: a single
// type for an ObjectType, its member list for a UnionType. Interface
// and enum conditions never reach here since the Schema Object Model
// doesn't construct them.
func possibleTypes(t schema.NamedType) []*schema.ObjectType {
	switch v := t.(type) {
	case *schema.ObjectType:
		return []*schema.ObjectType{v}
	case *schema.UnionType:
		return v.Members()
	default:
		return nil
	}
}

// isSubtypeOf reports whether every runtime type a admits is also
// admitted by b — i.e. a is at least as narrow as b.
func isSubtypeOf(a, b schema.NamedType) bool {
	bSet := make(map[string]struct{})
	for _, t := range possibleTypes(b) {
		bSet[t.Name()] = struct{}{}
	}
	for _, t := range possibleTypes(a) {
		if _, ok := bSet[t.Name()]; !ok {
			return false
		}
	}
	return true
}

func intersectObjectTypes(a, b []*schema.ObjectType) []*schema.ObjectType {
	bSet := make(map[string]struct{}, len(b))
	for _, t := range b {
		bSet[t.Name()] = struct{}{}
	}
	var out []*schema.ObjectType
	for _, t := range a {
		if _, ok := bSet[t.Name()]; ok {
			out = append(out, t)
		}
	}
	return out
}
