package federation

import "strings"

// ParseFieldSet splits a join__FieldSet/federation FieldSet scalar's raw
// text into the flat list of field names it selects. Only flat key
// selections ("id", "id sku") are resolved; a nested selection
// ("id organization { id }") is reduced to its top-level field names,
// since this module does not implement a full GraphQL parser/validator
// over FieldSet values.
func ParseFieldSet(raw string) []string {
	raw = strings.NewReplacer("{", " ", "}", " ").Replace(raw)
	fields := strings.Fields(raw)
	out := make([]string, 0, len(fields))
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}
