// Package flags holds feature flags read from the flags section of the
// config. Unknown flags are off.
package flags

import (
	"maps"
	"slices"

	"recworklist/internal/log"
)

const (
	// FlagResultHistory records every backend result in the local database.
	FlagResultHistory = "result-history"

	// FlagSeriesMouse enables series sync by double clicking a series cell.
	// The s key works either way.
	FlagSeriesMouse = "series-mouse"
)

// Known lists the flags this build understands, with a short description.
var Known = map[string]string{
	FlagResultHistory: "record backend results in the local database",
	FlagSeriesMouse:   "double click a series cell to sync the series",
}

// Registry is a read-only set of flags.
type Registry struct {
	flags map[string]bool
}

// New creates a Registry from a config map. The map is copied.
func New(flags map[string]bool) *Registry {
	r := &Registry{flags: make(map[string]bool, len(flags))}
	maps.Copy(r.flags, flags)

	for name := range r.flags {
		if _, ok := Known[name]; !ok {
			log.Warn(log.CatConfig, "Unknown feature flag in config", "flag", name)
		}
	}
	log.Debug(log.CatConfig, "Feature flags initialized", "count", len(r.flags), "flags", r.All())
	return r
}

// Enabled reports whether name is on. Nil registries and unknown flags are
// off.
func (r *Registry) Enabled(name string) bool {
	if r == nil {
		return false
	}
	return r.flags[name]
}

// All returns a copy of every configured flag.
func (r *Registry) All() map[string]bool {
	if r == nil {
		return map[string]bool{}
	}
	return maps.Clone(r.flags)
}

// Names returns the configured flag names, sorted.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(r.flags))
}
