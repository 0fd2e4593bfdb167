package eventify

import "slices"

// Marker carries per-operation instrumentation metadata.
type Marker struct {
	Marked bool `json:"marked" yaml:"marked"`
}

// Markers is the marker side table consulted when Policy.MarkedOnly is set.
type Markers map[string]Marker

// Mark returns Markers with every named operation marked.
func Mark(names ...string) Markers {
	m := make(Markers, len(names))
	for _, name := range names {
		m[name] = Marker{Marked: true}
	}
	return m
}

// Policy selects which operations are instrumented. The zero value selects
// every operation.
type Policy struct {
	// AllowList restricts instrumentation to the named operations.
	// Empty means unrestricted.
	AllowList []string `json:"allow_list,omitempty" yaml:"allow_list,omitempty" env:"EVENTIFY_ALLOW_LIST" envSeparator:","`
	// MarkedOnly restricts instrumentation to operations marked in Markers.
	MarkedOnly bool `json:"marked_only,omitempty" yaml:"marked_only,omitempty" env:"EVENTIFY_MARKED_ONLY"`
}

// Eligible reports whether the operation should be instrumented. The
// operation must be non-nil, in the allow list when one is set, and marked
// when MarkedOnly is set.
func (p Policy) Eligible(name string, op Operation, markers Markers) bool {
	if op == nil {
		return false
	}
	if len(p.AllowList) > 0 && !slices.Contains(p.AllowList, name) {
		return false
	}
	if p.MarkedOnly && !markers[name].Marked {
		return false
	}
	return true
}
