package plan

import (
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/nexusgraph/federation-core/pkg/operationreport"
)

// FetchEdge records that a fetch to RequiredBy can't run until a fetch
// to Service has returned — the shape @requires expansion produces once
// a field's required fields are attributed to the services that own
// them.
type FetchEdge struct {
	Service    string
	RequiredBy string
}

// OrderFetchGroups topologically sorts a set of service names by the
// dependency edges between them, returning the services in an order
// where every edge's Service precedes its RequiredBy. A cycle among
// the edges — two services each requiring fields only the other
// resolves — is a planner error, not a panic.
func OrderFetchGroups(services []string, edges []FetchEdge) ([]string, error) {
	index := make(map[string]int64, len(services))
	names := make([]string, len(services))
	copy(names, services)
	for i, s := range names {
		index[s] = int64(i)
	}

	g := simple.NewDirectedGraph()
	for i := range names {
		g.AddNode(simple.Node(int64(i)))
	}
	for _, e := range edges {
		from, ok := index[e.Service]
		if !ok {
			continue
		}
		to, ok := index[e.RequiredBy]
		if !ok {
			continue
		}
		if from == to {
			continue
		}
		g.SetEdge(simple.Edge{F: simple.Node(from), T: simple.Node(to)})
	}

	sorted, err := topo.Sort(g)
	if err != nil {
		if unorderable, ok := err.(topo.Unorderable); ok {
			return nil, cycleError(names, unorderable)
		}
		return nil, err
	}

	out := make([]string, 0, len(sorted))
	for _, n := range sorted {
		out = append(out, names[n.ID()])
	}
	return out, nil
}

func cycleError(names []string, cycles topo.Unorderable) error {
	var groups []string
	for _, cycle := range cycles {
		members := make([]string, len(cycle))
		for i, n := range cycle {
			members[i] = names[n.ID()]
		}
		sort.Strings(members)
		groups = append(groups, "["+strings.Join(members, ", ")+"]")
	}
	return operationreport.ExternalError{
		Message:   fmt.Sprintf("fetch dependency cycle among services: %s", strings.Join(groups, ", ")),
		ErrorCode: "FETCH_DEPENDENCY_CYCLE",
	}
}
