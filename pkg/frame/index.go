// Package frame provides the tabular native containers for materialize:
// one-dimensional series and ordered-column frames addressed by a row index.
// A trivial RangeIndex marks entry-level (one value per row) columns; a
// MultiIndex carries named integer levels, two of which (entry, subentry)
// describe ragged one-to-many columns. Reindexing and index merges implement
// the alignment semantics of the tabular grouping engine.
package frame

// Index addresses the rows of a Series or Frame
type Index interface {
	// Len returns the number of rows
	Len() int
	// NLevels returns the number of index levels
	NLevels() int
	// Row returns the level values addressing row i
	Row(i int) []int64
	// Equal reports elementwise equality with another index
	Equal(other Index) bool
}

// RangeIndex is the trivial 0..n row index
type RangeIndex struct {
	n int
}

// NewRangeIndex creates a trivial index of n rows
func NewRangeIndex(n int) RangeIndex {
	return RangeIndex{n: n}
}

// Len returns the number of rows
func (r RangeIndex) Len() int { return r.n }

// NLevels returns 1
func (r RangeIndex) NLevels() int { return 1 }

// Row returns the single-level row key
func (r RangeIndex) Row(i int) []int64 { return []int64{int64(i)} }

// Equal reports whether other is a RangeIndex of the same length
func (r RangeIndex) Equal(other Index) bool {
	o, ok := other.(RangeIndex)
	return ok && o.n == r.n
}

// MultiIndex is a row index with one or more named int64 levels
type MultiIndex struct {
	names  []string
	levels [][]int64
}

// NewMultiIndex creates a multi-level index from parallel level arrays.
// All levels must share a length.
func NewMultiIndex(names []string, levels [][]int64) *MultiIndex {
	if len(levels) == 0 {
		return &MultiIndex{names: names}
	}
	n := len(levels[0])
	for _, lv := range levels[1:] {
		if len(lv) != n {
			panic("frame: multi-index levels must share a length")
		}
	}
	return &MultiIndex{
		names:  append([]string(nil), names...),
		levels: levels,
	}
}

// Len returns the number of rows
func (m *MultiIndex) Len() int {
	if len(m.levels) == 0 {
		return 0
	}
	return len(m.levels[0])
}

// NLevels returns the number of levels
func (m *MultiIndex) NLevels() int { return len(m.levels) }

// Names returns the level names
func (m *MultiIndex) Names() []string {
	return append([]string(nil), m.names...)
}

// Level returns the values of level l
func (m *MultiIndex) Level(l int) []int64 {
	return m.levels[l]
}

// Row returns the level values addressing row i
func (m *MultiIndex) Row(i int) []int64 {
	row := make([]int64, len(m.levels))
	for l, lv := range m.levels {
		row[l] = lv[i]
	}
	return row
}

// Equal reports elementwise equality with another index
func (m *MultiIndex) Equal(other Index) bool {
	o, ok := other.(*MultiIndex)
	if !ok {
		return false
	}
	if o.NLevels() != m.NLevels() || o.Len() != m.Len() {
		return false
	}
	for l := range m.levels {
		for i := range m.levels[l] {
			if m.levels[l][i] != o.levels[l][i] {
				return false
			}
		}
	}
	return true
}
