package backend

import (
	"strconv"

	"github.com/datashard/materialize/pkg/arrays"
	"github.com/datashard/materialize/pkg/dense"
	"github.com/datashard/materialize/pkg/errors"
	"github.com/datashard/materialize/pkg/frame"
)

// pandasBackend is the tabular backend. Jagged arrays become series on a
// two-level (entry, subentry) index; structured and multi-dimensional flat
// arrays fan out into one column per subfield and trailing-dimension index;
// grouping aligns entry-level columns with ragged columns by broadcasting or
// by outer/inner/left/right index merges.
type pandasBackend struct {
	avail availability
}

func (b *pandasBackend) Name() string { return "pd" }

func (b *pandasBackend) Available() error {
	return b.avail.resolve(func() error { return nil })
}

func (b *pandasBackend) Empty(dtype dense.DType, shape ...int) (*dense.Array, error) {
	return dense.Empty(dtype, shape...), nil
}

// entryIndexNames are the level names of the ragged two-level index
var entryIndexNames = []string{"entry", "subentry"}

func boxValues(d *dense.Array, pick func(i int) interface{}, n int) []interface{} {
	values := make([]interface{}, n)
	for i := range values {
		values[i] = pick(i)
	}
	return values
}

// bracketSuffix renders a trailing-dimension index tuple as "[i][j]..."
func bracketSuffix(tup []int) string {
	var scratch [32]byte
	b := scratch[:0]
	for _, x := range tup {
		b = append(b, '[')
		b = strconv.AppendInt(b, int64(x), 10)
		b = append(b, ']')
	}
	return string(b)
}

// dimTuples enumerates index tuples over the trailing dimensions with the
// last dimension varying fastest
func dimTuples(dims []int) [][]int {
	if len(dims) == 0 {
		return [][]int{{}}
	}
	n := 1
	for _, d := range dims {
		n *= d
	}
	out := make([][]int, 0, n)
	tup := make([]int, len(dims))
	for i := 0; i < n; i++ {
		out = append(out, append([]int(nil), tup...))
		for k := len(dims) - 1; k >= 0; k-- {
			tup[k]++
			if tup[k] < dims[k] {
				break
			}
			tup[k] = 0
		}
	}
	return out
}

// flatOffset maps a trailing-dimension tuple to its element offset within an
// entry's row-major block
func flatOffset(tup, dims []int) int {
	off := 0
	for k := range dims {
		off = off*dims[k] + tup[k]
	}
	return off
}

// fanOut builds one entry-level column per trailing-dimension tuple of a
// dense buffer, named by prefix plus a bracketed index suffix
func fanOut(d *dense.Array, prefix string) ([]string, map[string]*frame.Series, error) {
	dims := d.Shape()[1:]
	stride := d.Stride()
	length := d.Len()

	var names []string
	data := make(map[string]*frame.Series)
	for _, tup := range dimTuples(dims) {
		name := prefix + bracketSuffix(tup)
		off := flatOffset(tup, dims)
		values := make([]interface{}, length)
		for r := 0; r < length; r++ {
			values[r] = d.ValueAt(r*stride + off)
		}
		s, err := frame.NewSeries(values, nil)
		if err != nil {
			return nil, nil, err
		}
		names = append(names, name)
		data[name] = s
	}
	return names, data, nil
}

func (b *pandasBackend) Finalize(arr arrays.Array, field string) (Container, error) {
	if err := b.Available(); err != nil {
		return nil, err
	}

	switch a := arr.(type) {
	case arrays.Jagged:
		entries, subentries := a.EntrySubentry()
		index := frame.NewMultiIndex(entryIndexNames, [][]int64{entries, subentries})
		values := boxValues(a.Content, a.Content.ValueAt, a.Content.Size())
		return frame.NewSeries(values, index)

	case arrays.String:
		values := make([]interface{}, a.Len())
		for i := range values {
			values[i] = a.Row(i)
		}
		return frame.NewSeries(values, nil)

	case arrays.Object:
		values := make([]interface{}, a.Len())
		copy(values, a.Values)
		return frame.NewSeries(values, nil)

	case arrays.Flat:
		return b.finalizeFlat(a.Data)

	default:
		return nil, errors.Newf(errors.ErrorTypeInternal,
			"unknown array variant %T for field %q", arr, field)
	}
}

func (b *pandasBackend) finalizeFlat(d *dense.Array) (Container, error) {
	switch {
	case d.Structured() && d.NumDims() != 1:
		// one column per (subfield, trailing-dimension index) pair
		var columns []string
		data := make(map[string]*frame.Series)
		for fi := 0; fi < d.NumFields(); fi++ {
			names, cols, err := fanOut(d.Column(fi), ":"+d.FieldName(fi))
			if err != nil {
				return nil, err
			}
			columns = append(columns, names...)
			for name, s := range cols {
				data[name] = s
			}
		}
		return frame.New(columns, data, nil)

	case d.Structured():
		columns := make([]string, d.NumFields())
		data := make(map[string]*frame.Series)
		for fi := 0; fi < d.NumFields(); fi++ {
			name := ":" + d.FieldName(fi)
			col := d.Column(fi)
			s, err := frame.NewSeries(boxValues(col, col.ValueAt, col.Len()), nil)
			if err != nil {
				return nil, err
			}
			columns[fi] = name
			data[name] = s
		}
		return frame.New(columns, data, nil)

	case d.NumDims() != 1:
		columns, data, err := fanOut(d, "")
		if err != nil {
			return nil, err
		}
		return frame.New(columns, data, nil)

	default:
		return frame.NewSeries(boxValues(d, d.ValueAt, d.Len()), nil)
	}
}

func (b *pandasBackend) Group(containers map[string]Container, fields []FieldContext, how How) (Container, error) {
	if err := b.Available(); err != nil {
		return nil, err
	}
	if out, ok := projectCommon(containers, fields, how); ok {
		return out, nil
	}
	if how == HowDefault || frame.IsJoinMode(string(how)) {
		return b.groupTabular(containers, fields, how)
	}
	return nil, errors.Newf(errors.ErrorTypeValidation,
		`for backend "pd", how must be "tuple", "list", "dict", a join mode ("outer", "inner", "left", "right"), or unset (for one or more aligned frames without merging), not %q`,
		string(how))
}

// onlySeries reduces containers to named series columns, flattening frames
// one level by path-prefixing column names
func onlySeries(containers map[string]Container, fields []FieldContext) ([]string, map[string]*frame.Series, error) {
	var names []string
	series := make(map[string]*frame.Series)
	for _, fc := range fields {
		switch v := containers[fc.Name].(type) {
		case *frame.Series:
			names = append(names, fc.Name)
			series[fc.Name] = v
		case *frame.Frame:
			for _, sub := range v.Columns() {
				path := fc.Name + sub
				s, _ := v.Column(sub)
				names = append(names, path)
				series[path] = s
			}
		default:
			return nil, nil, errors.Newf(errors.ErrorTypeInternal,
				"container for field %q is %T, not a series or frame", fc.Name, v)
		}
	}
	return names, series, nil
}

// entryLevelIndex lifts a trivial index into a one-level multi-index over
// entry numbers, so entry-level columns can align against ragged indexes
func entryLevelIndex(n int) *frame.MultiIndex {
	level := make([]int64, n)
	for i := range level {
		level[i] = int64(i)
	}
	return frame.NewMultiIndex(entryIndexNames[:1], [][]int64{level})
}

type indexCluster struct {
	index *frame.MultiIndex
	group []string
}

func (b *pandasBackend) groupTabular(containers map[string]Container, fields []FieldContext, how How) (Container, error) {
	names, series, err := onlySeries(containers, fields)
	if err != nil {
		return nil, err
	}

	allTrivial := true
	for _, name := range names {
		if _, ok := series[name].Index().(frame.RangeIndex); !ok {
			allTrivial = false
			break
		}
	}
	if allTrivial {
		// every column is entry-level, 1:1 with rows; no alignment needed
		return frame.New(names, series, nil)
	}

	var clusters []*indexCluster
	for _, name := range names {
		mi, ok := series[name].Index().(*frame.MultiIndex)
		if !ok {
			continue
		}
		matched := false
		for _, c := range clusters {
			if c.index.Equal(mi) {
				c.group = append(c.group, name)
				matched = true
				break
			}
		}
		if !matched {
			clusters = append(clusters, &indexCluster{index: mi, group: []string{name}})
		}
	}

	if how == HowDefault {
		return b.broadcastClusters(names, series, clusters)
	}
	return b.mergeClusters(names, series, clusters, string(how))
}

// broadcastClusters assembles one frame per ragged cluster containing the
// cluster's own columns plus every entry-level column broadcast up to the
// cluster's index; a single cluster returns its frame directly
func (b *pandasBackend) broadcastClusters(names []string, series map[string]*frame.Series, clusters []*indexCluster) (Container, error) {
	var flatIndex *frame.MultiIndex
	out := make([]*frame.Frame, 0, len(clusters))

	for _, c := range clusters {
		inCluster := make(map[string]bool, len(c.group))
		for _, name := range c.group {
			inCluster[name] = true
		}

		var columns []string
		data := make(map[string]*frame.Series)
		for _, name := range names {
			s := series[name]
			if ri, ok := s.Index().(frame.RangeIndex); ok {
				if flatIndex == nil || flatIndex.Len() != ri.Len() {
					flatIndex = entryLevelIndex(ri.Len())
				}
				lifted, err := frame.NewSeries(s.Values(), flatIndex)
				if err != nil {
					return nil, err
				}
				columns = append(columns, name)
				data[name] = lifted.Reindex(c.index)
			} else if inCluster[name] {
				columns = append(columns, name)
				data[name] = s
			}
		}

		f, err := frame.New(columns, data, c.index)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}

	if len(out) == 1 {
		return out[0], nil
	}
	tuple := make(Tuple, len(out))
	for i, f := range out {
		tuple[i] = f
	}
	return tuple, nil
}

// mergeClusters successively merges per-cluster frames on their row indexes,
// then merges in the entry-level columns reindexed onto the accumulated
// index, all with the given join mode
func (b *pandasBackend) mergeClusters(names []string, series map[string]*frame.Series, clusters []*indexCluster, how string) (Container, error) {
	var out *frame.Frame
	for _, c := range clusters {
		data := make(map[string]*frame.Series, len(c.group))
		for _, name := range c.group {
			data[name] = series[name]
		}
		f, err := frame.New(c.group, data, c.index)
		if err != nil {
			return nil, err
		}
		if out == nil {
			out = f
			continue
		}
		out, err = frame.Merge(out, f, how)
		if err != nil {
			return nil, err
		}
	}

	var flatNames []string
	for _, name := range names {
		if _, ok := series[name].Index().(frame.RangeIndex); ok {
			flatNames = append(flatNames, name)
		}
	}
	if len(flatNames) > 0 {
		flatIndex := entryLevelIndex(series[flatNames[0]].Len())
		data := make(map[string]*frame.Series, len(flatNames))
		for _, name := range flatNames {
			lifted, err := frame.NewSeries(series[name].Values(), flatIndex)
			if err != nil {
				return nil, err
			}
			data[name] = lifted.Reindex(out.Index())
		}
		flat, err := frame.New(flatNames, data, out.Index())
		if err != nil {
			return nil, err
		}
		out, err = frame.Merge(flat, out, how)
		if err != nil {
			return nil, err
		}
	}

	return out, nil
}
