// Package backend defines the pluggable output-container strategies of
// materialize and the registry that resolves them. A backend converts raw
// array variants into its native per-field containers (finalize) and combines
// finalized fields into an aggregate shape (group). Backends are stateless
// process-wide singletons; their optional runtime dependency is acquired
// lazily, at most once, with both success and failure memoized.
package backend

import (
	"sync"

	"github.com/datashard/materialize/pkg/arrays"
	"github.com/datashard/materialize/pkg/dense"
)

// Container is a backend-native per-field container: a dense array for the
// flat backend, an Arrow array for the ragged backend, a series or frame for
// the tabular backend, a device-resident dense array for the device backend.
type Container interface{}

// Tuple is an ordered aggregate preserving field-context order
type Tuple []Container

// List is an ordered aggregate preserving field-context order
type List []Container

// Dict is a name-keyed aggregate
type Dict map[string]Container

// FieldContext carries per-field metadata into grouping. Order is
// caller-defined and preserved in tuple and list outputs. The name doubles as
// the mapping key and, for the zip heuristic, as a separator-delimited path.
type FieldContext struct {
	Name     string
	IsJagged bool
}

// How selects the aggregate output shape of a group call
type How string

const (
	// HowDefault requests the backend's default aggregate shape
	HowDefault How = ""
	// HowTuple requests an ordered tuple
	HowTuple How = "tuple"
	// HowList requests an ordered list
	HowList How = "list"
	// HowDict requests a name-keyed mapping
	HowDict How = "dict"
	// HowZip requests the ragged backend's heuristic nesting of jagged
	// fields under inferred common names
	HowZip How = "zip"
	// HowOuter requests an outer index merge on the tabular backend
	HowOuter How = "outer"
	// HowInner requests an inner index merge on the tabular backend
	HowInner How = "inner"
	// HowLeft requests a left index merge on the tabular backend
	HowLeft How = "left"
	// HowRight requests a right index merge on the tabular backend
	HowRight How = "right"
)

// Backend is an output-container strategy. Implementations are stateless
// singletons registered under a canonical short name; two backend references
// are equal iff they resolve to the same registered singleton.
type Backend interface {
	// Name returns the canonical backend identifier
	Name() string

	// Available acquires the backend's optional runtime dependency. The
	// first call performs the acquisition; all later calls observe the
	// memoized outcome. A failure carries a remediation hint.
	Available() error

	// Empty allocates a zeroed write buffer of the given dtype and shape,
	// used as a temporary multi-chunk target before finalize
	Empty(dtype dense.DType, shape ...int) (*dense.Array, error)

	// Finalize converts a raw array variant into the backend's native
	// per-field container
	Finalize(array arrays.Array, field string) (Container, error)

	// Group combines finalized per-field containers into the requested
	// aggregate shape, preserving field-context order where the shape is
	// ordered
	Group(containers map[string]Container, fields []FieldContext, how How) (Container, error)
}

// availability memoizes a backend's dependency acquisition, caching failure
// as well as success so concurrent first use runs the probe exactly once
type availability struct {
	once sync.Once
	err  error
}

func (a *availability) resolve(probe func() error) error {
	a.once.Do(func() {
		a.err = probe()
	})
	return a.err
}

// projectCommon handles the pure re-projection modes shared by every
// backend. The bool result reports whether the mode was handled.
func projectCommon(containers map[string]Container, fields []FieldContext, how How) (Container, bool) {
	switch how {
	case HowTuple:
		out := make(Tuple, len(fields))
		for i, fc := range fields {
			out[i] = containers[fc.Name]
		}
		return out, true
	case HowList:
		out := make(List, len(fields))
		for i, fc := range fields {
			out[i] = containers[fc.Name]
		}
		return out, true
	case HowDict:
		out := make(Dict, len(fields))
		for _, fc := range fields {
			out[fc.Name] = containers[fc.Name]
		}
		return out, true
	}
	return nil, false
}
