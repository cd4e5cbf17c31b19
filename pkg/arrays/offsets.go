package arrays

// OffsetWidth identifies the integer width of a row-boundary offsets buffer.
// The width of the source data is preserved through finalization into the
// matching native index-width variant of each backend.
type OffsetWidth int

const (
	// Offsets32 is a 32-bit signed offsets buffer
	Offsets32 OffsetWidth = iota
	// OffsetsU32 is a 32-bit unsigned offsets buffer
	OffsetsU32
	// Offsets64 is a 64-bit signed offsets buffer
	Offsets64
)

// String returns the width name
func (w OffsetWidth) String() string {
	switch w {
	case Offsets32:
		return "int32"
	case OffsetsU32:
		return "uint32"
	case Offsets64:
		return "int64"
	default:
		return "unknown"
	}
}

// Offsets is a monotonic non-decreasing row-boundary sequence of length
// entries+1. Exactly one of the backing slices is populated, matching the
// declared width.
type Offsets struct {
	width OffsetWidth
	i32   []int32
	u32   []uint32
	i64   []int64
}

// NewOffsets32 wraps a 32-bit signed offsets buffer
func NewOffsets32(v []int32) Offsets {
	return Offsets{width: Offsets32, i32: v}
}

// NewOffsetsU32 wraps a 32-bit unsigned offsets buffer
func NewOffsetsU32(v []uint32) Offsets {
	return Offsets{width: OffsetsU32, u32: v}
}

// NewOffsets64 wraps a 64-bit signed offsets buffer
func NewOffsets64(v []int64) Offsets {
	return Offsets{width: Offsets64, i64: v}
}

// Width returns the declared integer width
func (o Offsets) Width() OffsetWidth {
	return o.width
}

// Len returns the number of boundaries (entries + 1)
func (o Offsets) Len() int {
	switch o.width {
	case Offsets32:
		return len(o.i32)
	case OffsetsU32:
		return len(o.u32)
	default:
		return len(o.i64)
	}
}

// Entries returns the number of rows described by the offsets
func (o Offsets) Entries() int {
	if o.Len() == 0 {
		return 0
	}
	return o.Len() - 1
}

// At returns boundary i widened to int64
func (o Offsets) At(i int) int64 {
	switch o.width {
	case Offsets32:
		return int64(o.i32[i])
	case OffsetsU32:
		return int64(o.u32[i])
	default:
		return o.i64[i]
	}
}

// Last returns the final boundary, the total content element count
func (o Offsets) Last() int64 {
	return o.At(o.Len() - 1)
}

// Int32 returns the backing slice when the width is 32-bit signed
func (o Offsets) Int32() ([]int32, bool) {
	return o.i32, o.width == Offsets32
}

// Uint32 returns the backing slice when the width is 32-bit unsigned
func (o Offsets) Uint32() ([]uint32, bool) {
	return o.u32, o.width == OffsetsU32
}

// Int64 returns the backing slice when the width is 64-bit signed
func (o Offsets) Int64() ([]int64, bool) {
	return o.i64, o.width == Offsets64
}

// Widen returns a copy of the offsets as int64 regardless of width
func (o Offsets) Widen() []int64 {
	out := make([]int64, o.Len())
	for i := range out {
		out[i] = o.At(i)
	}
	return out
}

// Equal reports elementwise value equality regardless of width
func (o Offsets) Equal(other Offsets) bool {
	if o.Len() != other.Len() {
		return false
	}
	for i := 0; i < o.Len(); i++ {
		if o.At(i) != other.At(i) {
			return false
		}
	}
	return true
}
