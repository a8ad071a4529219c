// Package export writes fetched job payloads to local files.
package export

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"

	"github.com/fwojciec/harvest"
)

// Record is one decoded result row. Dataset snapshots and crawls deliver
// arbitrary JSON objects, so rows stay schemaless.
type Record map[string]any

// DecodeRecords decodes a payload into records. Snapshots arrive either
// as a JSON array or as NDJSON, depending on the requested format.
func DecodeRecords(payload []byte) ([]Record, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return nil, nil
	}

	if trimmed[0] == '[' {
		var records []Record
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, harvest.Errorf(harvest.EINVALID, "payload is not a JSON array: %v", err)
		}
		return records, nil
	}

	var records []Record
	scanner := bufio.NewScanner(bytes.NewReader(trimmed))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, harvest.Errorf(harvest.EINVALID, "payload line is not a JSON object: %v", err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// EncodeRecords writes records in the named format: "json" (pretty JSON
// array), "ndjson" (one object per line), or "csv".
func EncodeRecords(w io.Writer, records []Record, format string) error {
	switch format {
	case "", "json":
		return writeJSON(w, records)
	case "ndjson", "jsonl":
		return writeNDJSON(w, records)
	case "csv":
		return writeCSV(w, records)
	default:
		return harvest.Errorf(harvest.EINVALID, "unsupported export format %q", format)
	}
}

func writeJSON(w io.Writer, records []Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if records == nil {
		records = []Record{}
	}
	return enc.Encode(records)
}

func writeNDJSON(w io.Writer, records []Record) error {
	enc := json.NewEncoder(w)
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}
	return nil
}
