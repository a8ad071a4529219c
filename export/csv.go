package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
)

// writeCSV flattens records to CSV. The header is the union of all keys
// sorted alphabetically; nested values are serialized as JSON.
func writeCSV(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if len(records) == 0 {
		return cw.Error()
	}

	seen := make(map[string]bool)
	var header []string
	for _, rec := range records {
		for k := range rec {
			if !seen[k] {
				seen[k] = true
				header = append(header, k)
			}
		}
	}
	sort.Strings(header)

	if err := cw.Write(header); err != nil {
		return err
	}

	row := make([]string, len(header))
	for _, rec := range records {
		for i, k := range header {
			row[i] = cellValue(rec[k])
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func cellValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64, bool:
		return fmt.Sprintf("%v", val)
	default:
		// Nested objects and arrays keep their JSON form.
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(data)
	}
}
