package frame

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func box(values ...interface{}) []interface{} {
	return values
}

func mustSeries(t *testing.T, values []interface{}, index Index) *Series {
	t.Helper()
	s, err := NewSeries(values, index)
	require.NoError(t, err)
	return s
}

func entryIndex(entries, subentries []int64) *MultiIndex {
	return NewMultiIndex([]string{"entry", "subentry"}, [][]int64{entries, subentries})
}

func TestRangeIndex(t *testing.T) {
	r := NewRangeIndex(3)
	assert.Equal(t, 3, r.Len())
	assert.Equal(t, 1, r.NLevels())
	assert.Equal(t, []int64{2}, r.Row(2))
	assert.True(t, r.Equal(NewRangeIndex(3)))
	assert.False(t, r.Equal(NewRangeIndex(4)))
	assert.False(t, r.Equal(entryIndex([]int64{0, 1, 2}, []int64{0, 0, 0})))
}

func TestMultiIndexEqual(t *testing.T) {
	a := entryIndex([]int64{0, 0, 1}, []int64{0, 1, 0})
	b := entryIndex([]int64{0, 0, 1}, []int64{0, 1, 0})
	c := entryIndex([]int64{0, 0, 2}, []int64{0, 1, 0})

	assert.Equal(t, 3, a.Len())
	assert.Equal(t, 2, a.NLevels())
	assert.Equal(t, []int64{0, 1}, a.Row(1))
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(NewRangeIndex(3)))
}

func TestSeriesDefaultsToRangeIndex(t *testing.T) {
	s := mustSeries(t, box(1.0, 2.0), nil)
	_, ok := s.Index().(RangeIndex)
	assert.True(t, ok)
}

func TestSeriesLengthMismatch(t *testing.T) {
	_, err := NewSeries(box(1, 2, 3), NewRangeIndex(2))
	require.Error(t, err)
}

func TestReindexIdentity(t *testing.T) {
	idx := entryIndex([]int64{0, 1}, []int64{0, 0})
	s := mustSeries(t, box("a", "b"), idx)
	out := s.Reindex(entryIndex([]int64{0, 1}, []int64{0, 0}))
	assert.Equal(t, box("a", "b"), out.Values())
}

func TestReindexBroadcast(t *testing.T) {
	// entry-level values lifted to a one-level index, broadcast across a
	// two-level ragged index
	oneLevel := NewMultiIndex([]string{"entry"}, [][]int64{{0, 1, 2}})
	s := mustSeries(t, box(10.0, 20.0, 30.0), oneLevel)

	target := entryIndex([]int64{0, 0, 2, 2, 2}, []int64{0, 1, 0, 1, 2})
	out := s.Reindex(target)
	assert.Equal(t, box(10.0, 10.0, 30.0, 30.0, 30.0), out.Values())
	assert.True(t, out.Index().Equal(target))
}

func TestReindexMissingRowsAreNil(t *testing.T) {
	idx := entryIndex([]int64{0, 1}, []int64{0, 0})
	s := mustSeries(t, box("a", "b"), idx)
	out := s.Reindex(entryIndex([]int64{1, 5}, []int64{0, 0}))
	assert.Equal(t, box("b", nil), out.Values())
}

func TestFrameValidation(t *testing.T) {
	_, err := New(nil, nil, nil)
	require.Error(t, err)

	_, err = New([]string{"a"}, map[string]*Series{}, nil)
	require.Error(t, err)

	_, err = New([]string{"a"},
		map[string]*Series{"a": mustSeries(t, box(1, 2), nil)},
		NewRangeIndex(3))
	require.Error(t, err)
}

func TestFrameColumns(t *testing.T) {
	f, err := New([]string{"b", "a"}, map[string]*Series{
		"a": mustSeries(t, box(1, 2), nil),
		"b": mustSeries(t, box(3, 4), nil),
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"b", "a"}, f.Columns())
	assert.Equal(t, 2, f.Len())
	assert.Equal(t, 2, f.NumCols())

	s, ok := f.Column("a")
	require.True(t, ok)
	assert.Equal(t, box(1, 2), s.Values())

	_, ok = f.Column("missing")
	assert.False(t, ok)
}

func twoFrames(t *testing.T) (*Frame, *Frame) {
	t.Helper()
	left, err := New([]string{"x"}, map[string]*Series{
		"x": mustSeries(t, box(1.0, 2.0, 3.0),
			entryIndex([]int64{0, 0, 1}, []int64{0, 1, 0})),
	}, nil)
	require.NoError(t, err)

	right, err := New([]string{"y"}, map[string]*Series{
		"y": mustSeries(t, box(9.0, 8.0),
			entryIndex([]int64{0, 2}, []int64{0, 0})),
	}, nil)
	require.NoError(t, err)
	return left, right
}

func TestMergeOuter(t *testing.T) {
	left, right := twoFrames(t)
	out, err := Merge(left, right, JoinOuter)
	require.NoError(t, err)

	assert.Equal(t, []string{"x", "y"}, out.Columns())
	assert.Equal(t, 4, out.Len())

	x, _ := out.Column("x")
	y, _ := out.Column("y")
	assert.Equal(t, box(1.0, 2.0, 3.0, nil), x.Values())
	assert.Equal(t, box(9.0, nil, nil, 8.0), y.Values())
}

func TestMergeInner(t *testing.T) {
	left, right := twoFrames(t)
	out, err := Merge(left, right, JoinInner)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Len())

	x, _ := out.Column("x")
	y, _ := out.Column("y")
	assert.Equal(t, box(1.0), x.Values())
	assert.Equal(t, box(9.0), y.Values())
}

func TestMergeLeft(t *testing.T) {
	left, right := twoFrames(t)
	out, err := Merge(left, right, JoinLeft)
	require.NoError(t, err)
	assert.Equal(t, 3, out.Len())

	y, _ := out.Column("y")
	assert.Equal(t, box(9.0, nil, nil), y.Values())
}

func TestMergeRight(t *testing.T) {
	left, right := twoFrames(t)
	out, err := Merge(left, right, JoinRight)
	require.NoError(t, err)
	assert.Equal(t, 2, out.Len())

	x, _ := out.Column("x")
	assert.Equal(t, box(1.0, nil), x.Values())
}

func TestMergeRejectsBadMode(t *testing.T) {
	left, right := twoFrames(t)
	_, err := Merge(left, right, "median")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outer")
}

func TestMergeRejectsDuplicateColumns(t *testing.T) {
	left, _ := twoFrames(t)
	_, err := Merge(left, left, JoinOuter)
	require.Error(t, err)
}

func TestMergeRejectsLevelMismatch(t *testing.T) {
	left, right := twoFrames(t)
	flat, err := New([]string{"z"}, map[string]*Series{
		"z": mustSeries(t, box(1.0, 2.0, 3.0),
			NewMultiIndex([]string{"entry"}, [][]int64{{0, 1, 2}})),
	}, nil)
	require.NoError(t, err)
	_ = right

	_, err = Merge(left, flat, JoinOuter)
	require.Error(t, err)
}

func TestIsJoinMode(t *testing.T) {
	assert.True(t, IsJoinMode("outer"))
	assert.True(t, IsJoinMode("right"))
	assert.False(t, IsJoinMode("zip"))
	assert.False(t, IsJoinMode(""))
}

func TestSeriesJSON(t *testing.T) {
	s := mustSeries(t, box(1.0, 2.0), nil)
	raw, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{"index":2,"values":[1,2]}`, string(raw))
}

func TestFrameJSON(t *testing.T) {
	f, err := New([]string{"a"}, map[string]*Series{
		"a": mustSeries(t, box(1.0), entryIndex([]int64{0}, []int64{0})),
	}, nil)
	require.NoError(t, err)

	raw, err := json.Marshal(f)
	require.NoError(t, err)
	assert.JSONEq(t, `{"columns":["a"],"index":[[0,0]],"data":{"a":[1]}}`, string(raw))
}
