package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBytesToString(t *testing.T) {
	assert.Equal(t, "", BytesToString(nil))
	assert.Equal(t, "", BytesToString([]byte{}))
	assert.Equal(t, "hello", BytesToString([]byte("hello")))
}

func TestStringToBytes(t *testing.T) {
	assert.Nil(t, StringToBytes(""))
	assert.Equal(t, []byte("hello"), StringToBytes("hello"))
}

func TestRoundTrip(t *testing.T) {
	original := "muon_pt"
	assert.Equal(t, original, BytesToString(StringToBytes(original)))
}

func TestBuilder(t *testing.T) {
	b := NewBuilder(8)
	b.WriteString("ab")
	b.WriteByte('c')
	b.WriteBytes([]byte("de"))
	require.Equal(t, 5, b.Len())
	assert.Equal(t, "abcde", b.String())

	b.Reset()
	assert.Equal(t, 0, b.Len())
	assert.Equal(t, "", b.String())
}

func TestSprintf(t *testing.T) {
	out := Sprintf("field %q has %d rows", "pt", 3)
	assert.Equal(t, `field "pt" has 3 rows`, out)

	// pooled builders must not leak previous content
	assert.Equal(t, "x", Sprintf("%s", "x"))
	assert.Equal(t, "y", Sprintf("%s", "y"))
}
