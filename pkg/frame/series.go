package frame

import (
	"strconv"

	"github.com/datashard/materialize/pkg/errors"
)

// Series is a one-dimensional labelled column. Missing values are nil.
type Series struct {
	values []interface{}
	index  Index
}

// NewSeries creates a series over boxed values. A nil index defaults to the
// trivial RangeIndex.
func NewSeries(values []interface{}, index Index) (*Series, error) {
	if index == nil {
		index = NewRangeIndex(len(values))
	}
	if index.Len() != len(values) {
		return nil, errors.Newf(errors.ErrorTypeValidation,
			"series length %d does not match index length %d", len(values), index.Len())
	}
	return &Series{values: values, index: index}, nil
}

// Len returns the number of rows
func (s *Series) Len() int { return len(s.values) }

// Index returns the row index
func (s *Series) Index() Index { return s.index }

// Values returns the backing value slice; callers must treat it as read-only
func (s *Series) Values() []interface{} { return s.values }

// At returns the value at row i
func (s *Series) At(i int) interface{} { return s.values[i] }

// rowKey encodes index level values as a map key
func rowKey(row []int64) string {
	var scratch [128]byte
	b := scratch[:0]
	for _, v := range row {
		b = strconv.AppendInt(b, v, 10)
		b = append(b, 0)
	}
	return string(b)
}

// prefixKey encodes the first n level values of a row as a map key
func prefixKey(row []int64, n int) string {
	return rowKey(row[:n])
}

// Reindex aligns the series onto a target index. Rows whose key is absent
// from the source become nil. When the source index has fewer levels than
// the target, matching uses the target's leading levels, which broadcasts an
// entry-level series across a (entry, subentry) index.
func (s *Series) Reindex(target Index) *Series {
	if s.index.Equal(target) {
		return &Series{values: s.values, index: target}
	}

	srcLevels := s.index.NLevels()
	match := srcLevels
	if target.NLevels() < match {
		match = target.NLevels()
	}

	lookup := make(map[string]interface{}, s.Len())
	for i := 0; i < s.Len(); i++ {
		key := prefixKey(s.index.Row(i), match)
		if _, seen := lookup[key]; !seen {
			lookup[key] = s.values[i]
		}
	}

	out := make([]interface{}, target.Len())
	for i := 0; i < target.Len(); i++ {
		if v, ok := lookup[prefixKey(target.Row(i), match)]; ok {
			out[i] = v
		}
	}
	return &Series{values: out, index: target}
}
