package frame

import (
	"sort"

	"github.com/datashard/materialize/pkg/errors"
)

// Join modes supported by Merge
const (
	JoinOuter = "outer"
	JoinInner = "inner"
	JoinLeft  = "left"
	JoinRight = "right"
)

// IsJoinMode reports whether how names a supported join mode
func IsJoinMode(how string) bool {
	switch how {
	case JoinOuter, JoinInner, JoinLeft, JoinRight:
		return true
	}
	return false
}

func lexLess(a, b []int64) bool {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

func indexRows(idx Index) ([][]int64, map[string]int) {
	rows := make([][]int64, idx.Len())
	pos := make(map[string]int, idx.Len())
	for i := range rows {
		rows[i] = idx.Row(i)
		key := rowKey(rows[i])
		if _, seen := pos[key]; !seen {
			pos[key] = i
		}
	}
	return rows, pos
}

func indexFromRows(rows [][]int64, names []string, nlevels int) Index {
	levels := make([][]int64, nlevels)
	for l := range levels {
		levels[l] = make([]int64, len(rows))
		for i, row := range rows {
			levels[l][i] = row[l]
		}
	}
	return NewMultiIndex(names, levels)
}

func levelNames(idx Index) []string {
	if m, ok := idx.(*MultiIndex); ok {
		return m.Names()
	}
	return nil
}

// Merge combines two frames on their row indexes. Outer and inner joins
// return rows in lexicographic key order; left and right joins preserve that
// side's row order. Values absent from one side are nil. Both indexes must
// have the same number of levels and column names must not collide.
func Merge(left, right *Frame, how string) (*Frame, error) {
	if !IsJoinMode(how) {
		return nil, errors.Newf(errors.ErrorTypeValidation,
			"join mode must be %q, %q, %q, or %q, not %q",
			JoinOuter, JoinInner, JoinLeft, JoinRight, how)
	}
	if left.index.NLevels() != right.index.NLevels() {
		return nil, errors.Newf(errors.ErrorTypeValidation,
			"cannot merge indexes with %d and %d levels",
			left.index.NLevels(), right.index.NLevels())
	}

	columns := make([]string, 0, len(left.columns)+len(right.columns))
	columns = append(columns, left.columns...)
	for _, name := range right.columns {
		if _, dup := left.series[name]; dup {
			return nil, errors.Newf(errors.ErrorTypeValidation, "duplicate column %q in merge", name)
		}
		columns = append(columns, name)
	}

	leftRows, leftPos := indexRows(left.index)
	rightRows, rightPos := indexRows(right.index)

	var rows [][]int64
	switch how {
	case JoinLeft:
		rows = leftRows
	case JoinRight:
		rows = rightRows
	case JoinInner:
		for _, row := range leftRows {
			if _, ok := rightPos[rowKey(row)]; ok {
				rows = append(rows, row)
			}
		}
		sort.Slice(rows, func(i, j int) bool { return lexLess(rows[i], rows[j]) })
	case JoinOuter:
		rows = append(rows, leftRows...)
		for _, row := range rightRows {
			if _, ok := leftPos[rowKey(row)]; !ok {
				rows = append(rows, row)
			}
		}
		sort.Slice(rows, func(i, j int) bool { return lexLess(rows[i], rows[j]) })
	}

	var index Index
	if lr, ok := left.index.(RangeIndex); ok && left.index.Equal(right.index) && how != JoinInner {
		index = lr
		rows = leftRows
	} else {
		names := levelNames(left.index)
		if names == nil {
			names = levelNames(right.index)
		}
		index = indexFromRows(rows, names, left.index.NLevels())
	}

	series := make(map[string]*Series, len(columns))
	pick := func(f *Frame, pos map[string]int, name string) *Series {
		src := f.series[name]
		values := make([]interface{}, len(rows))
		for i, row := range rows {
			if at, ok := pos[rowKey(row)]; ok {
				values[i] = src.values[at]
			}
		}
		return &Series{values: values, index: index}
	}
	for _, name := range left.columns {
		series[name] = pick(left, leftPos, name)
	}
	for _, name := range right.columns {
		series[name] = pick(right, rightPos, name)
	}

	return &Frame{columns: columns, series: series, index: index}, nil
}
