package backend

import (
	"github.com/datashard/materialize/pkg/arrays"
	"github.com/datashard/materialize/pkg/dense"
	"github.com/datashard/materialize/pkg/errors"
)

// numpyBackend is the flat-numeric backend: dense host buffers pass through
// unchanged, and array shapes it cannot represent natively fall back to an
// object-dtype column holding one boxed row value per entry.
type numpyBackend struct {
	avail availability
}

func (b *numpyBackend) Name() string { return "np" }

func (b *numpyBackend) Available() error {
	// dense buffers are built in; the check only memoizes the handle
	return b.avail.resolve(func() error { return nil })
}

func (b *numpyBackend) Empty(dtype dense.DType, shape ...int) (*dense.Array, error) {
	return dense.Empty(dtype, shape...), nil
}

func (b *numpyBackend) Finalize(array arrays.Array, field string) (Container, error) {
	if err := b.Available(); err != nil {
		return nil, err
	}

	switch a := array.(type) {
	case arrays.Flat:
		return a.Data, nil
	case arrays.Jagged:
		out := dense.Empty(dense.Object, a.Len())
		values := out.Data().([]interface{})
		for i := range values {
			values[i] = a.Row(i)
		}
		return out, nil
	case arrays.String:
		out := dense.Empty(dense.Object, a.Len())
		values := out.Data().([]interface{})
		for i := range values {
			values[i] = a.Row(i)
		}
		return out, nil
	case arrays.Object:
		out := dense.Empty(dense.Object, a.Len())
		values := out.Data().([]interface{})
		copy(values, a.Values)
		return out, nil
	default:
		return nil, errors.Newf(errors.ErrorTypeInternal,
			"unknown array variant %T for field %q", array, field)
	}
}

func (b *numpyBackend) Group(containers map[string]Container, fields []FieldContext, how How) (Container, error) {
	if how == HowDefault {
		how = HowDict
	}
	if out, ok := projectCommon(containers, fields, how); ok {
		return out, nil
	}
	return nil, errors.Newf(errors.ErrorTypeValidation,
		`for backend "np", how must be "tuple", "list", "dict", or unset (for "dict"), not %q`,
		string(how))
}
