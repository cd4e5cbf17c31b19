// Package dense provides dense n-dimensional typed buffers for materialize.
//
// A dense Array is both the input form of flat columnar data and the native
// per-field container of the flat-numeric backend. Buffers are row-major with
// shape (length, extra dims...). An Array may carry a structured element type,
// stored column-wise with one sub-array per named subfield, and may be flagged
// as device-resident when allocated by the device backend.
package dense

import (
	"github.com/datashard/materialize/pkg/errors"
)

// DType identifies the element type of a dense buffer
type DType int

const (
	// Bool is a 1-byte boolean element
	Bool DType = iota
	// Int8 is a signed 8-bit integer element
	Int8
	// Int16 is a signed 16-bit integer element
	Int16
	// Int32 is a signed 32-bit integer element
	Int32
	// Int64 is a signed 64-bit integer element
	Int64
	// Uint8 is an unsigned 8-bit integer element
	Uint8
	// Uint16 is an unsigned 16-bit integer element
	Uint16
	// Uint32 is an unsigned 32-bit integer element
	Uint32
	// Uint64 is an unsigned 64-bit integer element
	Uint64
	// Float32 is a 32-bit floating point element
	Float32
	// Float64 is a 64-bit floating point element
	Float64
	// Object is a boxed element of arbitrary type, one value per slot
	Object
	// Struct is a structured element type with named subfields stored
	// column-wise; the Array carries no flat data of its own
	Struct
)

// String returns the dtype name
func (d DType) String() string {
	switch d {
	case Bool:
		return "bool"
	case Int8:
		return "int8"
	case Int16:
		return "int16"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Uint8:
		return "uint8"
	case Uint16:
		return "uint16"
	case Uint32:
		return "uint32"
	case Uint64:
		return "uint64"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Object:
		return "object"
	case Struct:
		return "struct"
	default:
		return "unknown"
	}
}

// Array is a dense, row-major n-dimensional buffer
type Array struct {
	dtype  DType
	shape  []int
	data   interface{}
	names  []string
	cols   []*Array
	device bool
}

func volume(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}

func dataLen(dtype DType, data interface{}) (int, bool) {
	switch v := data.(type) {
	case []bool:
		return len(v), dtype == Bool
	case []int8:
		return len(v), dtype == Int8
	case []int16:
		return len(v), dtype == Int16
	case []int32:
		return len(v), dtype == Int32
	case []int64:
		return len(v), dtype == Int64
	case []uint8:
		return len(v), dtype == Uint8
	case []uint16:
		return len(v), dtype == Uint16
	case []uint32:
		return len(v), dtype == Uint32
	case []uint64:
		return len(v), dtype == Uint64
	case []float32:
		return len(v), dtype == Float32
	case []float64:
		return len(v), dtype == Float64
	case []interface{}:
		return len(v), dtype == Object
	default:
		return 0, false
	}
}

// New creates a dense array over an existing typed slice. The slice length
// must equal the product of the shape dimensions and its element type must
// match the dtype.
func New(dtype DType, shape []int, data interface{}) (*Array, error) {
	if len(shape) == 0 {
		return nil, errors.New(errors.ErrorTypeValidation, "dense array requires at least one dimension")
	}
	n, ok := dataLen(dtype, data)
	if !ok {
		return nil, errors.Newf(errors.ErrorTypeValidation, "data slice does not match dtype %s", dtype)
	}
	if n != volume(shape) {
		return nil, errors.Newf(errors.ErrorTypeValidation,
			"data length %d does not match shape volume %d", n, volume(shape))
	}
	return &Array{dtype: dtype, shape: append([]int(nil), shape...), data: data}, nil
}

// Empty allocates a zeroed host buffer of the given dtype and shape
func Empty(dtype DType, shape ...int) *Array {
	n := volume(shape)
	var data interface{}
	switch dtype {
	case Bool:
		data = make([]bool, n)
	case Int8:
		data = make([]int8, n)
	case Int16:
		data = make([]int16, n)
	case Int32:
		data = make([]int32, n)
	case Int64:
		data = make([]int64, n)
	case Uint8:
		data = make([]uint8, n)
	case Uint16:
		data = make([]uint16, n)
	case Uint32:
		data = make([]uint32, n)
	case Uint64:
		data = make([]uint64, n)
	case Float32:
		data = make([]float32, n)
	case Float64:
		data = make([]float64, n)
	case Object:
		data = make([]interface{}, n)
	default:
		data = make([]interface{}, n)
	}
	return &Array{dtype: dtype, shape: append([]int(nil), shape...), data: data}
}

// EmptyDevice allocates a zeroed device-resident buffer of the given dtype
// and shape. Residency is a property of the allocation, not of the values.
func EmptyDevice(dtype DType, shape ...int) *Array {
	a := Empty(dtype, shape...)
	a.device = true
	return a
}

// NewStruct creates a structured array from named subfield columns. All
// columns must share the same shape, which becomes the array's shape.
func NewStruct(names []string, cols []*Array) (*Array, error) {
	if len(names) == 0 || len(names) != len(cols) {
		return nil, errors.New(errors.ErrorTypeValidation, "structured array requires matching names and columns")
	}
	shape := cols[0].shape
	for _, c := range cols[1:] {
		if len(c.shape) != len(shape) {
			return nil, errors.New(errors.ErrorTypeValidation, "structured array columns must share a shape")
		}
		for i, d := range c.shape {
			if d != shape[i] {
				return nil, errors.New(errors.ErrorTypeValidation, "structured array columns must share a shape")
			}
		}
	}
	return &Array{
		dtype: Struct,
		shape: append([]int(nil), shape...),
		names: append([]string(nil), names...),
		cols:  cols,
	}, nil
}

// DType returns the element type
func (a *Array) DType() DType {
	return a.dtype
}

// Shape returns the buffer shape; the first dimension is the entry count
func (a *Array) Shape() []int {
	return append([]int(nil), a.shape...)
}

// Len returns the number of entries (the leading dimension)
func (a *Array) Len() int {
	return a.shape[0]
}

// Size returns the total number of elements across all dimensions
func (a *Array) Size() int {
	return volume(a.shape)
}

// NumDims returns the number of dimensions
func (a *Array) NumDims() int {
	return len(a.shape)
}

// Stride returns the number of elements per entry (product of trailing dims)
func (a *Array) Stride() int {
	return volume(a.shape[1:])
}

// Structured reports whether the element type has named subfields
func (a *Array) Structured() bool {
	return a.dtype == Struct
}

// NumFields returns the number of structured subfields
func (a *Array) NumFields() int {
	return len(a.names)
}

// FieldName returns the name of subfield i
func (a *Array) FieldName(i int) string {
	return a.names[i]
}

// Column returns the dense column backing subfield i
func (a *Array) Column(i int) *Array {
	return a.cols[i]
}

// Resident reports whether the buffer is device-resident
func (a *Array) Resident() bool {
	return a.device
}

// Data returns the underlying typed slice (nil for structured arrays).
// The slice must be treated as read-only by callers.
func (a *Array) Data() interface{} {
	return a.data
}

// ValueAt returns the boxed element at flat index i
func (a *Array) ValueAt(i int) interface{} {
	switch v := a.data.(type) {
	case []bool:
		return v[i]
	case []int8:
		return v[i]
	case []int16:
		return v[i]
	case []int32:
		return v[i]
	case []int64:
		return v[i]
	case []uint8:
		return v[i]
	case []uint16:
		return v[i]
	case []uint32:
		return v[i]
	case []uint64:
		return v[i]
	case []float32:
		return v[i]
	case []float64:
		return v[i]
	case []interface{}:
		return v[i]
	default:
		return nil
	}
}

// Segment returns the typed subslice covering flat indexes [lo, hi).
// The segment shares memory with the array.
func (a *Array) Segment(lo, hi int) interface{} {
	switch v := a.data.(type) {
	case []bool:
		return v[lo:hi]
	case []int8:
		return v[lo:hi]
	case []int16:
		return v[lo:hi]
	case []int32:
		return v[lo:hi]
	case []int64:
		return v[lo:hi]
	case []uint8:
		return v[lo:hi]
	case []uint16:
		return v[lo:hi]
	case []uint32:
		return v[lo:hi]
	case []uint64:
		return v[lo:hi]
	case []float32:
		return v[lo:hi]
	case []float64:
		return v[lo:hi]
	case []interface{}:
		return v[lo:hi]
	default:
		return nil
	}
}
