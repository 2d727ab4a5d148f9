package federation

import "github.com/nexusgraph/federation-core/pkg/schema"

// KeyFieldNames returns the flat set of field names declared across
// every @key(fields: ...) application on t, deduplicated. Interface
// @key propagation onto implementations is not implemented here since
// interface types are out of scope for the Schema Object Model.
func KeyFieldNames(t *schema.ObjectType) map[string]struct{} {
	out := make(map[string]struct{})
	for _, app := range t.Directives().AllNamed(Key) {
		v, ok := app.Args["fields"]
		if !ok || v == nil {
			continue
		}
		for _, name := range ParseFieldSet(v.Raw) {
			out[name] = struct{}{}
		}
	}
	return out
}

// KeyPredicate reports whether field is a key field of its parent type:
// it appears in some @key(fields: ...) selection on the parent.
func KeyPredicate(field *schema.FieldDefinition) bool {
	parent := field.Parent()
	if parent == nil {
		return false
	}
	_, ok := KeyFieldNames(parent)[field.Name()]
	return ok
}

// ShareablePredicate implements the four-way shareable rule:
//
//	(a) @shareable applied directly to the field
//	(b) @shareable applied to the parent type
//	(c) the field is a @key field (key fields are implicitly shareable)
//	(d) the field is reachable from a @provides selection on any field
//	    whose return type is its parent type, and the target field is
//	    @external
//
// (b)'s "same extension as the directive application" qualifier is not
// distinguished here since this module does not model type extensions
// as a separate construct (type extensions raise ErrNotImplemented
// during parsing) — every @shareable on the type applies to the whole
// type, which is the common case.
func ShareablePredicate(field *schema.FieldDefinition) bool {
	if field.Directives().Has(Shareable) {
		return true
	}
	if parent := field.Parent(); parent != nil && parent.Directives().Has(Shareable) {
		return true
	}
	if KeyPredicate(field) {
		return true
	}
	return isProvidedAndExternal(field)
}

// isProvidedAndExternal reports whether field is declared @external and
// is named in a @provides(fields: ...) selection on some other field
// anywhere in the schema whose return type is field's parent — the
// shape "Type.a: Parent @provides(fields: \"field\")" that promises
// Parent.field will be resolved alongside Type.a.
func isProvidedAndExternal(field *schema.FieldDefinition) bool {
	if !field.Directives().Has(External) {
		return false
	}
	parent := field.Parent()
	if parent == nil || field.Schema() == nil {
		return false
	}
	for _, t := range field.Schema().Types() {
		obj, ok := t.(*schema.ObjectType)
		if !ok {
			continue
		}
		for _, candidate := range obj.Fields() {
			if candidate.Type() == nil || candidate.Type().BaseType() != parent {
				continue
			}
			for _, app := range candidate.Directives().AllNamed(Provides) {
				v, ok := app.Args["fields"]
				if !ok || v == nil {
					continue
				}
				for _, name := range ParseFieldSet(v.Raw) {
					if name == field.Name() {
						return true
					}
				}
			}
		}
	}
	return false
}
