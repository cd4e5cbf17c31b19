package frame

import (
	json "github.com/goccy/go-json"
)

func indexJSON(idx Index) interface{} {
	if _, ok := idx.(RangeIndex); ok {
		return idx.Len()
	}
	rows := make([][]int64, idx.Len())
	for i := range rows {
		rows[i] = idx.Row(i)
	}
	return rows
}

// MarshalJSON renders the series as its index and values, with a trivial
// index collapsed to its row count
func (s *Series) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Index  interface{}   `json:"index"`
		Values []interface{} `json:"values"`
	}{
		Index:  indexJSON(s.index),
		Values: s.values,
	})
}

// MarshalJSON renders the frame column-wise in column order
func (f *Frame) MarshalJSON() ([]byte, error) {
	data := make(map[string][]interface{}, len(f.columns))
	for _, name := range f.columns {
		data[name] = f.series[name].values
	}
	return json.Marshal(struct {
		Columns []string                 `json:"columns"`
		Index   interface{}              `json:"index"`
		Data    map[string][]interface{} `json:"data"`
	}{
		Columns: f.columns,
		Index:   indexJSON(f.index),
		Data:    data,
	})
}
