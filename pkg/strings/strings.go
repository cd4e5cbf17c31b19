// Package strings provides zero-copy string utilities with pooling for materialize
package strings

import (
	"fmt"
	"sync"
	"unsafe"
)

// BytesToString converts a byte slice to a string without allocation.
// WARNING: The returned string shares memory with the byte slice.
// Do not modify the byte slice after calling this function.
func BytesToString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(&b[0], len(b))
}

// StringToBytes converts a string to a byte slice without allocation.
// WARNING: The returned byte slice shares memory with the string.
// Do not modify the returned slice.
func StringToBytes(s string) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

// Builder provides efficient string building with zero-copy reads
type Builder struct {
	buf []byte
}

// NewBuilder creates a new string builder
func NewBuilder(capacity int) *Builder {
	return &Builder{
		buf: make([]byte, 0, capacity),
	}
}

// WriteString appends a string to the builder
func (b *Builder) WriteString(s string) {
	b.buf = append(b.buf, s...)
}

// WriteBytes appends bytes to the builder
func (b *Builder) WriteBytes(data []byte) {
	b.buf = append(b.buf, data...)
}

// WriteByte appends a single byte
func (b *Builder) WriteByte(c byte) error {
	b.buf = append(b.buf, c)
	return nil
}

// Write implements the io.Writer interface
func (b *Builder) Write(p []byte) (n int, err error) {
	b.buf = append(b.buf, p...)
	return len(p), nil
}

// String returns the built string using zero-copy conversion
func (b *Builder) String() string {
	return BytesToString(b.buf)
}

// Len returns the length of the built string
func (b *Builder) Len() int {
	return len(b.buf)
}

// Reset resets the builder for reuse
func (b *Builder) Reset() {
	b.buf = b.buf[:0]
}

var builderPool = sync.Pool{
	New: func() interface{} {
		return NewBuilder(64)
	},
}

// GetBuilder fetches a builder from the pool
func GetBuilder() *Builder {
	return builderPool.Get().(*Builder)
}

// PutBuilder returns a builder to the pool
func PutBuilder(b *Builder) {
	b.Reset()
	builderPool.Put(b)
}

// Sprintf formats using a pooled builder to reduce allocations.
// The result is copied out, so it is safe to retain.
func Sprintf(format string, args ...interface{}) string {
	b := GetBuilder()
	fmt.Fprintf(b, format, args...)
	out := string(b.buf)
	PutBuilder(b)
	return out
}
