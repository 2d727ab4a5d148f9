package plan

import (
	"fmt"

	"github.com/nexusgraph/federation-core/pkg/operationreport"
)

// errFieldUnresolved reports that some field's only candidate services
// were all excluded from a subset under consideration — that subset
// can't resolve the operation.
type errFieldUnresolved struct {
	field int
}

func (e *errFieldUnresolved) Error() string {
	return fmt.Sprintf("field %d has no resolving service in this subset", e.field)
}

// MinimalServiceSet picks the smallest set of subgraphs able to resolve
// every field, given each field's list of candidate owning services (a
// @shareable field may list more than one; a non-shareable field lists
// exactly the one owning_service reports). It searches by excluding one
// candidate service at a time and recursing: starting from the full set
// of candidate services, it tries dropping each one in turn and keeps
// recursing into the smaller subset whenever every field can still be
// resolved from what remains.
func MinimalServiceSet(fieldServices [][]string) ([]string, error) {
	universe := uniqueServices(fieldServices)
	best, err := findBestServiceSet(fieldServices, universe)
	if err != nil {
		return nil, toPlannerError(err)
	}
	return best, nil
}

func findBestServiceSet(fieldServices [][]string, services []string) ([]string, error) {
	if err := checkCoverage(fieldServices, services); err != nil {
		return nil, err
	}
	if len(services) <= 1 {
		return services, nil
	}

	best := services
	for excluded := range services {
		subset := serviceSubset(services, excluded)
		result, err := findBestServiceSet(fieldServices, subset)
		if err != nil {
			if _, ok := err.(*errFieldUnresolved); ok {
				continue
			}
			return nil, err
		}
		if len(result) < len(best) {
			best = result
		}
	}
	return best, nil
}

// checkCoverage reports an errFieldUnresolved if some field's candidate
// list has no member left in services.
func checkCoverage(fieldServices [][]string, services []string) error {
	present := make(map[string]struct{}, len(services))
	for _, s := range services {
		present[s] = struct{}{}
	}
	for i, candidates := range fieldServices {
		if len(candidates) == 0 {
			continue
		}
		covered := false
		for _, c := range candidates {
			if _, ok := present[c]; ok {
				covered = true
				break
			}
		}
		if !covered {
			return &errFieldUnresolved{field: i}
		}
	}
	return nil
}

func serviceSubset(services []string, exclude int) []string {
	subset := make([]string, 0, len(services)-1)
	subset = append(subset, services[:exclude]...)
	subset = append(subset, services[exclude+1:]...)
	return subset
}

func uniqueServices(fieldServices [][]string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, candidates := range fieldServices {
		for _, c := range candidates {
			if _, ok := seen[c]; !ok {
				seen[c] = struct{}{}
				out = append(out, c)
			}
		}
	}
	return out
}

func toPlannerError(err error) error {
	if unresolved, ok := err.(*errFieldUnresolved); ok {
		return operationreport.ExternalError{
			Message:   fmt.Sprintf("no subgraph can resolve field %d of the operation", unresolved.field),
			ErrorCode: "NO_RESOLVING_SERVICE",
		}
	}
	return err
}
