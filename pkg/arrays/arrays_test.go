package arrays

import (
	"testing"

	"github.com/datashard/materialize/pkg/dense"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDense(t *testing.T, dtype dense.DType, shape []int, data interface{}) *dense.Array {
	t.Helper()
	a, err := dense.New(dtype, shape, data)
	require.NoError(t, err)
	return a
}

func TestOffsetsWidths(t *testing.T) {
	o32 := NewOffsets32([]int32{0, 2, 3})
	oU32 := NewOffsetsU32([]uint32{0, 2, 3})
	o64 := NewOffsets64([]int64{0, 2, 3})

	for _, o := range []Offsets{o32, oU32, o64} {
		assert.Equal(t, 3, o.Len())
		assert.Equal(t, 2, o.Entries())
		assert.Equal(t, int64(2), o.At(1))
		assert.Equal(t, int64(3), o.Last())
		assert.Equal(t, []int64{0, 2, 3}, o.Widen())
	}

	assert.Equal(t, Offsets32, o32.Width())
	assert.Equal(t, OffsetsU32, oU32.Width())
	assert.Equal(t, Offsets64, o64.Width())

	_, ok := o32.Int32()
	assert.True(t, ok)
	_, ok = o32.Int64()
	assert.False(t, ok)
}

func TestOffsetsEqualAcrossWidths(t *testing.T) {
	a := NewOffsets32([]int32{0, 2, 2, 5})
	b := NewOffsets64([]int64{0, 2, 2, 5})
	c := NewOffsets32([]int32{0, 1, 2, 5})

	assert.True(t, a.Equal(b))
	assert.True(t, b.Equal(a))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(NewOffsets32([]int32{0, 2, 2})))
}

func TestJagged(t *testing.T) {
	j := Jagged{
		Offsets: NewOffsets32([]int32{0, 2, 2, 5}),
		Content: mustDense(t, dense.Float64, []int{5}, []float64{1, 2, 3, 4, 5}),
	}

	assert.Equal(t, 3, j.Len())

	lo, hi := j.Bounds(0)
	assert.Equal(t, 0, lo)
	assert.Equal(t, 2, hi)

	assert.Equal(t, []float64{1, 2}, j.Row(0))
	assert.Equal(t, []float64{}, j.Row(1))
	assert.Equal(t, []float64{3, 4, 5}, j.Row(2))
}

func TestJaggedEntrySubentry(t *testing.T) {
	j := Jagged{
		Offsets: NewOffsets32([]int32{0, 2, 2, 5}),
		Content: mustDense(t, dense.Float64, []int{5}, []float64{1, 2, 3, 4, 5}),
	}

	entries, subentries := j.EntrySubentry()
	assert.Equal(t, []int64{0, 0, 2, 2, 2}, entries)
	assert.Equal(t, []int64{0, 1, 0, 1, 2}, subentries)
}

func TestString(t *testing.T) {
	s := String{
		Offsets: NewOffsets32([]int32{0, 3, 3, 8}),
		Content: []byte("onethree"),
	}

	assert.Equal(t, 3, s.Len())
	assert.Equal(t, "one", s.Row(0))
	assert.Equal(t, "", s.Row(1))
	assert.Equal(t, "three", s.Row(2))
}

func TestObject(t *testing.T) {
	o := Object{Values: []interface{}{1, "two", nil}}
	assert.Equal(t, 3, o.Len())
}

func TestFlat(t *testing.T) {
	f := Flat{Data: mustDense(t, dense.Int32, []int{4}, []int32{1, 2, 3, 4})}
	assert.Equal(t, 4, f.Len())
}
