package export

import (
	"os"
	"path/filepath"
	"strings"
)

// Writer exports decoded payloads to files under a base directory.
type Writer struct {
	baseDir string

	// Dedupe, when set, drops records already exported through this
	// Writer. Useful when several overlapping snapshots land in the
	// same directory.
	Dedupe *Deduper
}

// NewWriter creates a Writer rooted at baseDir.
func NewWriter(baseDir string) *Writer {
	return &Writer{baseDir: baseDir}
}

// WritePayload decodes a job payload and writes it under the base
// directory as <name>.<format>. Returns the written path and the number
// of exported records.
func (w *Writer) WritePayload(name string, payload []byte, format string) (string, int, error) {
	records, err := DecodeRecords(payload)
	if err != nil {
		return "", 0, err
	}
	if w.Dedupe != nil {
		records = w.Dedupe.Filter(records)
	}

	path := filepath.Join(w.baseDir, sanitizeName(name)+"."+extension(format))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", 0, err
	}

	f, err := os.Create(path)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()

	if err := EncodeRecords(f, records, format); err != nil {
		return "", 0, err
	}
	if err := f.Close(); err != nil {
		return "", 0, err
	}

	return path, len(records), nil
}

// WriteRaw writes an unprocessed payload, e.g. unlocked HTML, under the
// base directory.
func (w *Writer) WriteRaw(name string, payload []byte) (string, error) {
	path := filepath.Join(w.baseDir, sanitizeName(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func extension(format string) string {
	switch format {
	case "ndjson", "jsonl":
		return "ndjson"
	case "csv":
		return "csv"
	default:
		return "json"
	}
}

// sanitizeName keeps exported file names filesystem-safe.
func sanitizeName(name string) string {
	replacer := strings.NewReplacer("/", "_", "\\", "_", ":", "_", "..", "_")
	cleaned := replacer.Replace(name)
	if cleaned == "" {
		return "export"
	}
	return cleaned
}
