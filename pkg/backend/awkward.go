package backend

import (
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/datashard/materialize/pkg/arrays"
	"github.com/datashard/materialize/pkg/dense"
	"github.com/datashard/materialize/pkg/errors"
	stringpool "github.com/datashard/materialize/pkg/strings"
)

// separators trimmed from inferred common names and member suffixes
const nameSeparators = "_./"

// awkwardBackend is the ragged-capable backend. Jagged and string arrays
// become Arrow list arrays built directly over the source offsets and content
// buffers, preserving the source offsets width in the list's index-width
// variant; structured flat arrays become struct arrays wrapped in fixed-size
// lists per trailing dimension. Grouping supports a depth-1 record zip and
// the heuristic "zip" mode that nests jagged fields sharing offsets under an
// inferred common name.
type awkwardBackend struct {
	avail availability
	alloc memory.Allocator
}

func (b *awkwardBackend) Name() string { return "ak" }

func (b *awkwardBackend) Available() error {
	return b.avail.resolve(func() error {
		b.alloc = memory.NewGoAllocator()
		return nil
	})
}

func (b *awkwardBackend) Empty(dtype dense.DType, shape ...int) (*dense.Array, error) {
	return dense.Empty(dtype, shape...), nil
}

func (b *awkwardBackend) Finalize(arr arrays.Array, field string) (Container, error) {
	if err := b.Available(); err != nil {
		return nil, err
	}

	switch a := arr.(type) {
	case arrays.Jagged:
		return b.finalizeJagged(a, field)
	case arrays.String:
		return b.finalizeString(a, field)
	case arrays.Object:
		return nil, errors.Newf(errors.ErrorTypeCapability,
			`object arrays are not implemented for backend "ak"; field %q`, field)
	case arrays.Flat:
		return b.finalizeFlat(a.Data)
	default:
		return nil, errors.Newf(errors.ErrorTypeInternal,
			"unknown array variant %T for field %q", arr, field)
	}
}

// numericBuffer views a typed slice as an Arrow buffer without copying
func numericBuffer(data interface{}) (*memory.Buffer, arrow.DataType, bool) {
	switch v := data.(type) {
	case []int8:
		return memory.NewBufferBytes(arrow.Int8Traits.CastToBytes(v)), arrow.PrimitiveTypes.Int8, true
	case []int16:
		return memory.NewBufferBytes(arrow.Int16Traits.CastToBytes(v)), arrow.PrimitiveTypes.Int16, true
	case []int32:
		return memory.NewBufferBytes(arrow.Int32Traits.CastToBytes(v)), arrow.PrimitiveTypes.Int32, true
	case []int64:
		return memory.NewBufferBytes(arrow.Int64Traits.CastToBytes(v)), arrow.PrimitiveTypes.Int64, true
	case []uint8:
		return memory.NewBufferBytes(v), arrow.PrimitiveTypes.Uint8, true
	case []uint16:
		return memory.NewBufferBytes(arrow.Uint16Traits.CastToBytes(v)), arrow.PrimitiveTypes.Uint16, true
	case []uint32:
		return memory.NewBufferBytes(arrow.Uint32Traits.CastToBytes(v)), arrow.PrimitiveTypes.Uint32, true
	case []uint64:
		return memory.NewBufferBytes(arrow.Uint64Traits.CastToBytes(v)), arrow.PrimitiveTypes.Uint64, true
	case []float32:
		return memory.NewBufferBytes(arrow.Float32Traits.CastToBytes(v)), arrow.PrimitiveTypes.Float32, true
	case []float64:
		return memory.NewBufferBytes(arrow.Float64Traits.CastToBytes(v)), arrow.PrimitiveTypes.Float64, true
	default:
		return nil, nil, false
	}
}

// denseToArrow converts a plain dense buffer to a flattened 1-d Arrow array.
// Numeric dtypes adopt the backing slice without an element copy; booleans go
// through a builder because Arrow packs them into bitmaps.
func (b *awkwardBackend) denseToArrow(d *dense.Array) (arrow.Array, error) {
	if d.DType() == dense.Bool {
		bld := array.NewBooleanBuilder(b.alloc)
		defer bld.Release()
		bld.AppendValues(d.Data().([]bool), nil)
		return bld.NewBooleanArray(), nil
	}
	buf, dt, ok := numericBuffer(d.Data())
	if !ok {
		return nil, errors.Newf(errors.ErrorTypeInternal,
			"dtype %s has no arrow representation", d.DType())
	}
	data := array.NewData(dt, d.Size(), []*memory.Buffer{nil, buf}, nil, 0, 0)
	defer data.Release()
	return array.MakeFromData(data), nil
}

func (b *awkwardBackend) finalizeJagged(a arrays.Jagged, field string) (Container, error) {
	content, err := b.denseToArrow(a.Content)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData,
			stringpool.Sprintf("cannot convert jagged content for field %q", field))
	}

	switch a.Offsets.Width() {
	case arrays.Offsets32:
		offs, _ := a.Offsets.Int32()
		buf := memory.NewBufferBytes(arrow.Int32Traits.CastToBytes(offs))
		data := array.NewData(arrow.ListOf(content.DataType()), a.Len(),
			[]*memory.Buffer{nil, buf}, []arrow.ArrayData{content.Data()}, 0, 0)
		defer data.Release()
		return array.NewListData(data), nil
	case arrays.OffsetsU32, arrays.Offsets64:
		// Arrow has no unsigned-offset list layout, so 32-bit unsigned
		// offsets widen losslessly into the 64-bit variant
		wide := a.Offsets.Widen()
		buf := memory.NewBufferBytes(arrow.Int64Traits.CastToBytes(wide))
		data := array.NewData(arrow.LargeListOf(content.DataType()), a.Len(),
			[]*memory.Buffer{nil, buf}, []arrow.ArrayData{content.Data()}, 0, 0)
		defer data.Release()
		return array.NewLargeListData(data), nil
	default:
		return nil, errors.Newf(errors.ErrorTypeInternal,
			"unsupported offsets width %v for field %q", a.Offsets.Width(), field)
	}
}

func (b *awkwardBackend) finalizeString(a arrays.String, field string) (Container, error) {
	valBuf := memory.NewBufferBytes(a.Content)

	switch a.Offsets.Width() {
	case arrays.Offsets32:
		offs, _ := a.Offsets.Int32()
		offBuf := memory.NewBufferBytes(arrow.Int32Traits.CastToBytes(offs))
		data := array.NewData(arrow.BinaryTypes.String, a.Len(),
			[]*memory.Buffer{nil, offBuf, valBuf}, nil, 0, 0)
		defer data.Release()
		return array.NewStringData(data), nil
	case arrays.OffsetsU32, arrays.Offsets64:
		wide := a.Offsets.Widen()
		offBuf := memory.NewBufferBytes(arrow.Int64Traits.CastToBytes(wide))
		data := array.NewData(arrow.BinaryTypes.LargeString, a.Len(),
			[]*memory.Buffer{nil, offBuf, valBuf}, nil, 0, 0)
		defer data.Release()
		return array.NewLargeStringData(data), nil
	default:
		return nil, errors.Newf(errors.ErrorTypeInternal,
			"unsupported offsets width %v for field %q", a.Offsets.Width(), field)
	}
}

// wrapRegular nests an array into fixed-size sublists of the given size
func wrapRegular(child arrow.Array, size int) arrow.Array {
	n := child.Len() / size
	data := array.NewData(arrow.FixedSizeListOf(int32(size), child.DataType()), n,
		[]*memory.Buffer{nil}, []arrow.ArrayData{child.Data()}, 0, 0)
	defer data.Release()
	return array.NewFixedSizeListData(data)
}

func (b *awkwardBackend) finalizeFlat(d *dense.Array) (Container, error) {
	shape := d.Shape()

	var out arrow.Array
	if d.Structured() {
		// unpack one column per subfield, re-assemble as a record, then
		// replicate across trailing dimensions innermost-first
		cols := make([]arrow.Array, d.NumFields())
		names := make([]string, d.NumFields())
		for i := range cols {
			col, err := b.denseToArrow(d.Column(i))
			if err != nil {
				return nil, err
			}
			cols[i] = col
			names[i] = d.FieldName(i)
		}
		st, err := array.NewStructArray(cols, names)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeInternal, "cannot assemble record array")
		}
		out = st
	} else {
		flat, err := b.denseToArrow(d)
		if err != nil {
			return nil, err
		}
		out = flat
	}

	for i := len(shape) - 1; i >= 1; i-- {
		out = wrapRegular(out, shape[i])
	}
	return out, nil
}

func (b *awkwardBackend) Group(containers map[string]Container, fields []FieldContext, how How) (Container, error) {
	if err := b.Available(); err != nil {
		return nil, err
	}
	if out, ok := projectCommon(containers, fields, how); ok {
		return out, nil
	}

	switch how {
	case HowDefault:
		return b.zipDepth1(containers, fields)
	case HowZip:
		return b.zipClusters(containers, fields)
	}
	return nil, errors.Newf(errors.ErrorTypeValidation,
		`for backend "ak", how must be "tuple", "list", "dict", "zip" (for a record array with jagged fields zipped, if possible), or unset (for an unzipped record array), not %q`,
		string(how))
}

func asArrow(c Container, field string) (arrow.Array, error) {
	arr, ok := c.(arrow.Array)
	if !ok {
		return nil, errors.Newf(errors.ErrorTypeInternal,
			"container for field %q is %T, not an arrow array", field, c)
	}
	return arr, nil
}

// zipDepth1 combines all fields into one record array at depth 1, one entry
// per row
func (b *awkwardBackend) zipDepth1(containers map[string]Container, fields []FieldContext) (Container, error) {
	cols := make([]arrow.Array, len(fields))
	names := make([]string, len(fields))
	for i, fc := range fields {
		arr, err := asArrow(containers[fc.Name], fc.Name)
		if err != nil {
			return nil, err
		}
		cols[i] = arr
		names[i] = fc.Name
	}
	st, err := array.NewStructArray(cols, names)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "cannot zip fields into a record array")
	}
	return st, nil
}

// listOffsets64 extracts a list array's offsets widened to int64
func listOffsets64(arr arrow.Array) ([]int64, bool) {
	switch lst := arr.(type) {
	case *array.List:
		offs := lst.Offsets()
		out := make([]int64, len(offs))
		for i, v := range offs {
			out[i] = int64(v)
		}
		return out, true
	case *array.LargeList:
		return lst.Offsets(), true
	}
	return nil, false
}

func equalInt64(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// commonPrefixLen computes the longest common leading-character prefix
// length across the member names
func commonPrefixLen(names []string) int {
	cut := len(names[0])
	for _, name := range names {
		if len(name) < cut {
			cut = len(name)
		}
		for cut > 0 && name[:cut] != names[0][:cut] {
			cut--
		}
		if cut == 0 {
			break
		}
	}
	return cut
}

// structWithField returns a record array with the named field replaced or
// appended
func structWithField(st *array.Struct, name string, val arrow.Array) (*array.Struct, error) {
	typ := st.DataType().(*arrow.StructType)
	n := st.NumField()
	names := make([]string, 0, n+1)
	cols := make([]arrow.Array, 0, n+1)
	replaced := false
	for i := 0; i < n; i++ {
		fieldName := typ.Field(i).Name
		names = append(names, fieldName)
		if fieldName == name {
			cols = append(cols, val)
			replaced = true
		} else {
			cols = append(cols, st.Field(i))
		}
	}
	if !replaced {
		names = append(names, name)
		cols = append(cols, val)
	}
	return array.NewStructArray(cols, names)
}

type jaggedCluster struct {
	offsets []int64
	members []string
}

// zipCluster zips the cluster's members into a list-of-records sharing the
// cluster's offsets, with the offsets width taken from the first member
func (b *awkwardBackend) zipCluster(c *jaggedCluster, subNames []string, containers map[string]Container) (arrow.Array, error) {
	cols := make([]arrow.Array, len(c.members))
	for i, member := range c.members {
		arr, err := asArrow(containers[member], member)
		if err != nil {
			return nil, err
		}
		switch lst := arr.(type) {
		case *array.List:
			cols[i] = lst.ListValues()
		case *array.LargeList:
			cols[i] = lst.ListValues()
		default:
			return nil, errors.Newf(errors.ErrorTypeInternal,
				"jagged field %q finalized to %T, not a list array", member, arr)
		}
	}
	st, err := array.NewStructArray(cols, subNames)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "cannot zip jagged cluster")
	}

	switch first := containers[c.members[0]].(type) {
	case *array.List:
		buf := memory.NewBufferBytes(arrow.Int32Traits.CastToBytes(first.Offsets()))
		data := array.NewData(arrow.ListOf(st.DataType()), first.Len(),
			[]*memory.Buffer{nil, buf}, []arrow.ArrayData{st.Data()}, 0, 0)
		defer data.Release()
		return array.NewListData(data), nil
	case *array.LargeList:
		buf := memory.NewBufferBytes(arrow.Int64Traits.CastToBytes(first.Offsets()))
		data := array.NewData(arrow.LargeListOf(st.DataType()), first.Len(),
			[]*memory.Buffer{nil, buf}, []arrow.ArrayData{st.Data()}, 0, 0)
		defer data.Release()
		return array.NewLargeListData(data), nil
	default:
		return nil, errors.Newf(errors.ErrorTypeInternal,
			"jagged field %q finalized to %T, not a list array", c.members[0], first)
	}
}

// zipClusters partitions fields into non-jagged and jagged, clusters jagged
// fields by elementwise-identical offsets in first-seen order, and nests each
// cluster under the longest common prefix of its member names (or a synthetic
// "jagged<N>" name when no usable prefix exists)
func (b *awkwardBackend) zipClusters(containers map[string]Container, fields []FieldContext) (Container, error) {
	if len(fields) == 0 {
		return nil, errors.New(errors.ErrorTypeValidation, "cannot zip an empty field set")
	}

	var nonjagged []string
	var clusters []*jaggedCluster
	for _, fc := range fields {
		arr, err := asArrow(containers[fc.Name], fc.Name)
		if err != nil {
			return nil, err
		}
		offs, isList := listOffsets64(arr)
		if !fc.IsJagged || !isList {
			nonjagged = append(nonjagged, fc.Name)
			continue
		}
		matched := false
		for _, c := range clusters {
			if equalInt64(c.offsets, offs) {
				c.members = append(c.members, fc.Name)
				matched = true
				break
			}
		}
		if !matched {
			clusters = append(clusters, &jaggedCluster{offsets: offs, members: []string{fc.Name}})
		}
	}

	var out *array.Struct
	if len(nonjagged) > 0 {
		cols := make([]arrow.Array, len(nonjagged))
		for i, name := range nonjagged {
			arr, err := asArrow(containers[name], name)
			if err != nil {
				return nil, err
			}
			cols[i] = arr
		}
		st, err := array.NewStructArray(cols, nonjagged)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeData, "cannot zip non-jagged fields")
		}
		out = st
	}

	for number, c := range clusters {
		cut := commonPrefixLen(c.members)
		common := strings.Trim(c.members[0][:cut], nameSeparators)

		var subNames []string
		if common == "" {
			// no usable shared prefix: keep the original member names
			// under a synthetic positional cluster name
			common = stringpool.Sprintf("jagged%d", number)
			subNames = c.members
		} else {
			subNames = make([]string, len(c.members))
			for i, member := range c.members {
				subNames[i] = strings.Trim(member[cut:], nameSeparators)
			}
		}

		sub, err := b.zipCluster(c, subNames, containers)
		if err != nil {
			return nil, err
		}
		if out == nil {
			st, err := array.NewStructArray([]arrow.Array{sub}, []string{common})
			if err != nil {
				return nil, errors.Wrap(err, errors.ErrorTypeData, "cannot zip jagged cluster")
			}
			out = st
		} else {
			st, err := structWithField(out, common, sub)
			if err != nil {
				return nil, errors.Wrap(err, errors.ErrorTypeData, "cannot attach jagged cluster")
			}
			out = st
		}
	}

	return out, nil
}
