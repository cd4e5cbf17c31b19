package frame

import (
	"github.com/datashard/materialize/pkg/errors"
)

// Frame is an ordered collection of equally indexed columns
type Frame struct {
	columns []string
	series  map[string]*Series
	index   Index
}

// New creates a frame from named series sharing a row index. Column order is
// caller-defined and preserved. A nil index is taken from the first column.
func New(columns []string, series map[string]*Series, index Index) (*Frame, error) {
	if len(columns) == 0 {
		return nil, errors.New(errors.ErrorTypeValidation, "frame requires at least one column")
	}
	if index == nil {
		first, ok := series[columns[0]]
		if !ok {
			return nil, errors.Newf(errors.ErrorTypeValidation, "missing series for column %q", columns[0])
		}
		index = first.Index()
	}
	out := make(map[string]*Series, len(columns))
	for _, name := range columns {
		s, ok := series[name]
		if !ok {
			return nil, errors.Newf(errors.ErrorTypeValidation, "missing series for column %q", name)
		}
		if s.Len() != index.Len() {
			return nil, errors.Newf(errors.ErrorTypeValidation,
				"column %q length %d does not match index length %d", name, s.Len(), index.Len())
		}
		out[name] = s
	}
	return &Frame{
		columns: append([]string(nil), columns...),
		series:  out,
		index:   index,
	}, nil
}

// Columns returns the ordered column names
func (f *Frame) Columns() []string {
	return append([]string(nil), f.columns...)
}

// NumCols returns the number of columns
func (f *Frame) NumCols() int { return len(f.columns) }

// Len returns the number of rows
func (f *Frame) Len() int { return f.index.Len() }

// Index returns the shared row index
func (f *Frame) Index() Index { return f.index }

// Column returns the series for a column name
func (f *Frame) Column(name string) (*Series, bool) {
	s, ok := f.series[name]
	return s, ok
}
