// Package arrays defines the four shapes a field's raw array may take after
// deserialization: flat numeric buffers, jagged (per-row variable length)
// arrays, string arrays, and arrays of opaque objects. Backends consume these
// variants through the accessors here; the internal storage of each variant
// is owned by the upstream stage and treated as read-only.
package arrays

import (
	"github.com/datashard/materialize/pkg/dense"
	stringpool "github.com/datashard/materialize/pkg/strings"
)

// Array is the tagged union over the four raw array variants
type Array interface {
	// Len returns the number of entries (top-level logical rows)
	Len() int

	isVariant()
}

// Flat is a dense n-dimensional numeric buffer, optionally with a structured
// (named-subfield) element type
type Flat struct {
	Data *dense.Array
}

// Len returns the number of entries
func (f Flat) Len() int { return f.Data.Len() }

func (Flat) isVariant() {}

// Jagged is a per-row variable-length array: a shared dense content buffer
// plus row-boundary offsets. Row i owns content elements
// offsets[i]:offsets[i+1].
type Jagged struct {
	Offsets Offsets
	Content *dense.Array
}

// Len returns the number of entries
func (j Jagged) Len() int { return j.Offsets.Entries() }

func (Jagged) isVariant() {}

// Bounds returns the content range [lo, hi) owned by row i
func (j Jagged) Bounds(i int) (lo, hi int) {
	return int(j.Offsets.At(i)), int(j.Offsets.At(i + 1))
}

// Row returns the boxed typed subslice of content owned by row i.
// The subslice shares memory with the content buffer.
func (j Jagged) Row(i int) interface{} {
	lo, hi := j.Bounds(i)
	return j.Content.Segment(lo, hi)
}

// EntrySubentry derives, for each content element, its owning row index
// (entry) and its local index within that row (subentry)
func (j Jagged) EntrySubentry() (entries, subentries []int64) {
	n := int(j.Offsets.Last())
	entries = make([]int64, 0, n)
	subentries = make([]int64, 0, n)
	for row := 0; row < j.Len(); row++ {
		lo, hi := j.Bounds(row)
		for k := lo; k < hi; k++ {
			entries = append(entries, int64(row))
			subentries = append(subentries, int64(k-lo))
		}
	}
	return entries, subentries
}

// String is shaped like Jagged but its content is raw bytes and each row
// decodes to a text value
type String struct {
	Offsets Offsets
	Content []byte
}

// Len returns the number of entries
func (s String) Len() int { return s.Offsets.Entries() }

func (String) isVariant() {}

// Row decodes row i to a string without copying the underlying bytes.
// The result aliases the content buffer and must not outlive it.
func (s String) Row(i int) string {
	lo, hi := int(s.Offsets.At(i)), int(s.Offsets.At(i+1))
	return stringpool.BytesToString(s.Content[lo:hi])
}

// Object is a per-row sequence of arbitrary already-constructed values,
// opaque to this layer
type Object struct {
	Values []interface{}
}

// Len returns the number of entries
func (o Object) Len() int { return len(o.Values) }

func (Object) isVariant() {}
