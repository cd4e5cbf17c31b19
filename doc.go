// Package materialize converts named, heterogeneously shaped columnar arrays
// (flat numeric buffers, jagged arrays, string arrays, and arrays of opaque
// objects) into the native per-field containers of a selected output backend,
// then combines the fields into a requested aggregate shape: an ordered tuple
// or list, a name-keyed mapping, a structurally zipped record, or an
// index-aligned table.
//
// The layer performs no decoding, no decompression, and no numeric
// transformation. It only reshapes and re-labels data that an upstream
// deserialization stage has already produced.
//
// # Backends
//
// Four backends are registered, each identified by a canonical short name and
// a set of case-insensitive aliases:
//
//   - "np" (alias "numpy"): flat numeric buffers; ragged inputs fall back to
//     object-dtype columns with one boxed row value per entry.
//   - "ak" (aliases "awkward", "awkward1"): Apache Arrow list/struct arrays
//     with offsets-width preservation and a heuristic "zip" grouping mode
//     that nests structurally related jagged fields under an inferred common
//     name.
//   - "pd" (alias "pandas"): tabular series and frames with two-level
//     (entry, subentry) indexes and outer/inner/left/right index merges.
//   - "cp" (alias "cupy"): device-resident buffers; ragged and object inputs
//     are rejected.
//
// # Usage
//
//	b, err := backend.Resolve("ak")
//	if err != nil { ... }
//	col, err := b.Finalize(arrays.Jagged{Offsets: offs, Content: content}, "muon_pt")
//	if err != nil { ... }
//	out, err := b.Group(map[string]backend.Container{"muon_pt": col},
//		[]backend.FieldContext{{Name: "muon_pt", IsJagged: true}}, backend.HowZip)
//
// # Package layout
//
//   - pkg/dense: dense n-dimensional typed buffers (also the "np" container)
//   - pkg/arrays: the four input array variants and row-offset handling
//   - pkg/frame: tabular series/frame containers for the "pd" backend
//   - pkg/device: device runtime discovery for the "cp" backend
//   - pkg/backend: the backend contract, registry, finalizers and grouping
//   - pkg/errors, pkg/logger, pkg/strings: shared infrastructure
package materialize
