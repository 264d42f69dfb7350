package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/tidwall/gjson"
)

// Column maps a table header to a gjson path inside the rendered item.
type Column struct {
	Header string
	Path   string
}

// WriteTable renders items as an aligned table. Items are marshaled once
// and the column paths are extracted from the JSON form, so the same specs
// work for every generated API type.
func WriteTable(w io.Writer, columns []Column, items any) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode table rows: %w", err)
	}
	rows := gjson.ParseBytes(data)
	if !rows.IsArray() {
		return fmt.Errorf("table rows must be a list, got %s", rows.Type)
	}

	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	headers := make([]string, len(columns))
	for i, c := range columns {
		headers[i] = c.Header
	}
	_, _ = fmt.Fprintln(tw, strings.Join(headers, "\t"))

	rows.ForEach(func(_, row gjson.Result) bool {
		cells := make([]string, len(columns))
		for i, c := range columns {
			cells[i] = cellValue(row.Get(c.Path))
		}
		_, _ = fmt.Fprintln(tw, strings.Join(cells, "\t"))
		return true
	})
	return tw.Flush()
}

// cellValue flattens a gjson result for display. Missing or empty values
// render as a dash, arrays as comma-joined values.
func cellValue(v gjson.Result) string {
	switch {
	case !v.Exists(), v.Type == gjson.Null:
		return "-"
	case v.IsArray():
		items := v.Array()
		if len(items) == 0 {
			return "-"
		}
		parts := make([]string, 0, len(items))
		for _, item := range items {
			parts = append(parts, item.String())
		}
		return strings.Join(parts, ",")
	default:
		s := v.String()
		if s == "" {
			return "-"
		}
		return s
	}
}
