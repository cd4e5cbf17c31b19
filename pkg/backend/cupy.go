package backend

import (
	"github.com/datashard/materialize/pkg/arrays"
	"github.com/datashard/materialize/pkg/dense"
	"github.com/datashard/materialize/pkg/device"
	"github.com/datashard/materialize/pkg/errors"
)

// cupyBackend is the device-resident backend. Buffers it allocates live in
// device memory; ragged and object shapes have no device representation and
// are rejected outright.
type cupyBackend struct{}

func (b *cupyBackend) Name() string { return "cp" }

func (b *cupyBackend) Available() error {
	return device.Available()
}

func (b *cupyBackend) Empty(dtype dense.DType, shape ...int) (*dense.Array, error) {
	if err := b.Available(); err != nil {
		return nil, err
	}
	return dense.EmptyDevice(dtype, shape...), nil
}

func (b *cupyBackend) Finalize(array arrays.Array, field string) (Container, error) {
	if err := b.Available(); err != nil {
		return nil, err
	}

	switch a := array.(type) {
	case arrays.Flat:
		// a host buffer reaching the device backend is a programming
		// error in the write path, not a user mistake
		if !a.Data.Resident() {
			return nil, errors.Newf(errors.ErrorTypeInternal,
				"flat array for field %q is not device-resident", field)
		}
		return a.Data, nil
	case arrays.Jagged, arrays.String, arrays.Object:
		return nil, errors.Newf(errors.ErrorTypeCapability,
			`jagged arrays and objects are not supported by backend "cp"; field %q cannot be represented on-device`,
			field)
	default:
		return nil, errors.Newf(errors.ErrorTypeInternal,
			"unknown array variant %T for field %q", array, field)
	}
}

func (b *cupyBackend) Group(containers map[string]Container, fields []FieldContext, how How) (Container, error) {
	if how == HowDefault {
		how = HowDict
	}
	if out, ok := projectCommon(containers, fields, how); ok {
		return out, nil
	}
	return nil, errors.Newf(errors.ErrorTypeValidation,
		`for backend "cp", how must be "tuple", "list", "dict", or unset (for "dict"), not %q`,
		string(how))
}
