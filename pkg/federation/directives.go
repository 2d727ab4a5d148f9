// Package federation recognizes the federation directive set on a
// subgraph's Schema Object Model and precomputes the shareable-fields
// and key-fields predicates composition needs. Subgraph SDL here names
// the directives directly (no @link URL-versioned import table to
// resolve against), so recognition is by literal directive name — see
// SPEC_FULL.md §4.C3 for why that resolution was chosen over parsing a
// @link table.
package federation

// Directive names recognized on a subgraph schema.
const (
	Key          = "key"
	Shareable    = "shareable"
	Override     = "override"
	External     = "external"
	Provides     = "provides"
	Requires     = "requires"
	Extends      = "extends"
	Inaccessible = "inaccessible"
)

// Names returns every directive name this package recognizes.
func Names() []string {
	return []string{Key, Shareable, Override, External, Provides, Requires, Extends, Inaccessible}
}
