// Package plan turns a parsed operation against a composed supergraph
// into the per-scope field sets downstream fetch planning consumes: a
// PlanningContext indexes the operation, a Scope tracks the possible
// runtime types at a selection point as nested fragments refine it, and
// a FieldCollector walks a selection set against a scope to produce the
// flat field set plus the derived key/required/provided field sets
// federation entity resolution needs.
package plan

import "github.com/jensneuse/abstractlogger"

// Configuration holds the planner-wide settings a PlanningContext is
// built from.
type Configuration struct {
	Logger abstractlogger.Logger

	// ScopeCacheSize bounds the possible-runtime-types memoization cache
	// shared across every Scope created from one PlanningContext. Zero
	// selects a sane default.
	ScopeCacheSize int
}

func (c Configuration) withDefaults() Configuration {
	if c.Logger == nil {
		c.Logger = abstractlogger.Noop{}
	}
	if c.ScopeCacheSize <= 0 {
		c.ScopeCacheSize = 256
	}
	return c
}
