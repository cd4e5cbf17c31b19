package backend

import (
	"testing"

	"github.com/datashard/materialize/pkg/arrays"
	"github.com/datashard/materialize/pkg/dense"
	"github.com/datashard/materialize/pkg/device"
	"github.com/datashard/materialize/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withDevice(t *testing.T) {
	t.Helper()
	device.SetProbe(func() error { return nil })
	t.Cleanup(func() { device.SetProbe(nil) })
}

func withoutDevice(t *testing.T) {
	t.Helper()
	device.SetProbe(func() error {
		return errors.New(errors.ErrorTypeUnavailable, "no cuda driver")
	})
	t.Cleanup(func() { device.SetProbe(nil) })
}

func TestCupyEmptyAllocatesOnDevice(t *testing.T) {
	withDevice(t)
	b := MustResolve("cp")

	buf, err := b.Empty(dense.Float32, 4)
	require.NoError(t, err)
	assert.True(t, buf.Resident())
	assert.Equal(t, []int{4}, buf.Shape())
}

func TestCupyUnavailable(t *testing.T) {
	withoutDevice(t)
	b := MustResolve("cp")

	_, err := b.Empty(dense.Float32, 4)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeUnavailable))

	_, err = b.Finalize(arrays.Flat{Data: dense.EmptyDevice(dense.Float32, 4)}, "pt")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeUnavailable))
}

func TestCupyFinalizeResidentPassthrough(t *testing.T) {
	withDevice(t)
	b := MustResolve("cp")

	d := dense.EmptyDevice(dense.Float64, 3)
	out, err := b.Finalize(arrays.Flat{Data: d}, "pt")
	require.NoError(t, err)
	assert.Same(t, d, out)
}

// a host buffer reaching the device backend is a write-path bug, not a user
// error
func TestCupyFinalizeRejectsHostBuffer(t *testing.T) {
	withDevice(t)
	b := MustResolve("cp")

	d := mustDense(t, dense.Float64, []int{3}, []float64{1, 2, 3})
	_, err := b.Finalize(arrays.Flat{Data: d}, "pt")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeInternal))
	assert.Contains(t, err.Error(), "device-resident")
}

func TestCupyFinalizeRejectsRagged(t *testing.T) {
	withDevice(t)
	b := MustResolve("cp")

	j := arrays.Jagged{
		Offsets: arrays.NewOffsets32([]int32{0, 2, 3}),
		Content: mustDense(t, dense.Float64, []int{3}, []float64{1, 2, 3}),
	}
	_, err := b.Finalize(j, "pt")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeCapability))
	assert.Contains(t, err.Error(), `"cp"`)
	assert.Contains(t, err.Error(), `"pt"`)

	_, err = b.Finalize(arrays.String{
		Offsets: arrays.NewOffsets32([]int32{0, 1}),
		Content: []byte("x"),
	}, "name")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeCapability))

	_, err = b.Finalize(arrays.Object{Values: []interface{}{1}}, "obj")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeCapability))
}

func TestCupyGroupDefaultsToDict(t *testing.T) {
	b := MustResolve("cp")
	containers := map[string]Container{"a": 1, "b": 2}
	fields := []FieldContext{{Name: "a"}, {Name: "b"}}

	out, err := b.Group(containers, fields, HowDefault)
	require.NoError(t, err)
	assert.Equal(t, Dict{"a": 1, "b": 2}, out)

	tup, err := b.Group(containers, []FieldContext{{Name: "b"}, {Name: "a"}}, HowTuple)
	require.NoError(t, err)
	assert.Equal(t, Tuple{2, 1}, tup)
}

func TestCupyGroupBadHow(t *testing.T) {
	b := MustResolve("cp")
	_, err := b.Group(nil, nil, "zip")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
	assert.Contains(t, err.Error(), `"cp"`)
	assert.Contains(t, err.Error(), `"zip"`)
}
