package export_test

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fwojciec/harvest"
	"github.com/fwojciec/harvest/export"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRecords(t *testing.T) {
	t.Parallel()

	t.Run("JSONArray", func(t *testing.T) {
		t.Parallel()

		records, err := export.DecodeRecords([]byte(`[{"name":"a"},{"name":"b"}]`))
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "a", records[0]["name"])
	})

	t.Run("NDJSON", func(t *testing.T) {
		t.Parallel()

		payload := "{\"name\":\"a\"}\n\n{\"name\":\"b\"}\n"
		records, err := export.DecodeRecords([]byte(payload))
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "b", records[1]["name"])
	})

	t.Run("Empty", func(t *testing.T) {
		t.Parallel()

		records, err := export.DecodeRecords([]byte("  \n"))
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("Garbage", func(t *testing.T) {
		t.Parallel()

		_, err := export.DecodeRecords([]byte("<html>not json</html>"))
		assert.Equal(t, harvest.EINVALID, harvest.ErrorCode(err))
	})
}

func TestEncodeRecords(t *testing.T) {
	t.Parallel()

	records := []export.Record{
		{"name": "a", "rank": float64(1)},
		{"name": "b", "tags": []any{"x", "y"}},
	}

	t.Run("JSON", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		require.NoError(t, export.EncodeRecords(&buf, records, "json"))
		assert.Contains(t, buf.String(), `"name": "a"`)
	})

	t.Run("NDJSON", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		require.NoError(t, export.EncodeRecords(&buf, records, "ndjson"))
		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		assert.Len(t, lines, 2)
	})

	t.Run("CSV", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		require.NoError(t, export.EncodeRecords(&buf, records, "csv"))

		rows, err := csv.NewReader(&buf).ReadAll()
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, []string{"name", "rank", "tags"}, rows[0])
		assert.Equal(t, []string{"a", "1", ""}, rows[1])
		assert.Equal(t, []string{"b", "", `["x","y"]`}, rows[2])
	})

	t.Run("UnsupportedFormat", func(t *testing.T) {
		t.Parallel()

		err := export.EncodeRecords(&bytes.Buffer{}, records, "parquet")
		assert.Equal(t, harvest.EINVALID, harvest.ErrorCode(err))
	})
}

func TestDeduper(t *testing.T) {
	t.Parallel()

	t.Run("DropsRepeats", func(t *testing.T) {
		t.Parallel()

		d := export.NewDeduper(1000, 0.01)

		assert.False(t, d.Seen(export.Record{"url": "https://a.com", "rank": float64(1)}))
		assert.True(t, d.Seen(export.Record{"url": "https://a.com", "rank": float64(1)}))
		assert.False(t, d.Seen(export.Record{"url": "https://a.com", "rank": float64(2)}))
	})

	t.Run("KeyOrderDoesNotMatter", func(t *testing.T) {
		t.Parallel()

		d := export.NewDeduper(1000, 0.01)
		assert.False(t, d.Seen(export.Record{"a": "1", "b": "2"}))
		assert.True(t, d.Seen(export.Record{"b": "2", "a": "1"}))
	})

	t.Run("FilterPreservesOrder", func(t *testing.T) {
		t.Parallel()

		d := export.NewDeduper(1000, 0.01)
		records := []export.Record{
			{"name": "a"},
			{"name": "b"},
			{"name": "a"},
			{"name": "c"},
		}

		out := d.Filter(records)
		require.Len(t, out, 3)
		assert.Equal(t, "a", out[0]["name"])
		assert.Equal(t, "b", out[1]["name"])
		assert.Equal(t, "c", out[2]["name"])
	})
}

func TestWriter_WritePayload(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w := export.NewWriter(dir)

	path, n, err := w.WritePayload("s_123", []byte(`[{"name":"a"},{"name":"b"}]`), "ndjson")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, filepath.Join(dir, "s_123.ndjson"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(string(data)), "\n"), 2)
}

func TestWriter_WritePayloadDedupes(t *testing.T) {
	t.Parallel()

	w := export.NewWriter(t.TempDir())
	w.Dedupe = export.NewDeduper(1000, 0.01)

	_, n, err := w.WritePayload("first", []byte(`[{"name":"a"},{"name":"b"}]`), "json")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, n, err = w.WritePayload("second", []byte(`[{"name":"b"},{"name":"c"}]`), "json")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestWriter_WriteRaw(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w := export.NewWriter(dir)

	path, err := w.WriteRaw("page.html", []byte("<html>"))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<html>", string(data))
}

func TestWriter_SanitizesNames(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w := export.NewWriter(dir)

	path, err := w.WriteRaw("../escape/attempt", []byte("x"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, dir), "path %q must stay under %q", path, dir)
}
