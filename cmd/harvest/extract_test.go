package main_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/harvest"
	main "github.com/fwojciec/harvest/cmd/harvest"
	"github.com/fwojciec/harvest/mock"
	"github.com/fwojciec/harvest/scrape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("asks over the given pages with a schema", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		page := filepath.Join(dir, "product.txt")
		require.NoError(t, os.WriteFile(page, []byte("Acme Widget, $9.99"), 0o644))

		asker := &mock.Asker{
			AskFn: func(_ context.Context, query string, pages []*harvest.PageContent, schema map[string]string) (string, error) {
				assert.Equal(t, "product name and price", query)
				require.Len(t, pages, 1)
				assert.Equal(t, page, pages[0].URL)
				assert.Equal(t, "Acme Widget, $9.99", pages[0].Text)
				assert.Equal(t, map[string]string{"name": "string", "price": "number"}, schema)
				return `{"name":"Acme Widget","price":9.99}`, nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Asker:  asker,
		}

		cmd := &main.ExtractCmd{
			Query:  "product name and price",
			Files:  []string{page},
			Schema: []string{"name=string", "price=number"},
		}
		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Acme Widget")
	})

	t.Run("scrapes URL targets before asking", func(t *testing.T) {
		t.Parallel()

		unlocker := &mock.Unlocker{
			UnlockFn: func(_ context.Context, req harvest.UnlockRequest) ([]byte, error) {
				assert.Equal(t, "https://shop.example.com", req.URL)
				return []byte("<html>Widget $9.99</html>"), nil
			},
		}
		extractor := &mock.Extractor{
			ExtractFn: func(_ string) (*harvest.ExtractResult, error) {
				return &harvest.ExtractResult{ContentText: "Widget $9.99"}, nil
			},
		}
		asker := &mock.Asker{
			AskFn: func(_ context.Context, _ string, pages []*harvest.PageContent, _ map[string]string) (string, error) {
				require.Len(t, pages, 1)
				assert.Equal(t, "https://shop.example.com", pages[0].URL)
				return "$9.99", nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Client: &scrape.Client{Unlocker: unlocker, Extractor: extractor, Asker: asker, UnlockerZone: "z"},
		}

		cmd := &main.ExtractCmd{Query: "price", URLs: []string{"https://shop.example.com"}}
		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "$9.99")
	})

	t.Run("requires files or URLs", func(t *testing.T) {
		t.Parallel()

		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: &bytes.Buffer{},
		}

		cmd := &main.ExtractCmd{Query: "anything"}
		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Equal(t, harvest.EINVALID, harvest.ErrorCode(err))
	})

	t.Run("rejects malformed schema fields", func(t *testing.T) {
		t.Parallel()

		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: &bytes.Buffer{},
		}

		cmd := &main.ExtractCmd{Query: "anything", Schema: []string{"no-equals-sign"}}
		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Equal(t, harvest.EINVALID, harvest.ErrorCode(err))
	})
}

func TestRenderCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints rendered HTML", func(t *testing.T) {
		t.Parallel()

		renderer := &mock.Renderer{
			RenderFn: func(_ context.Context, url string) (string, error) {
				assert.Equal(t, "https://spa.example.com", url)
				return "<html>rendered</html>", nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:      context.Background(),
			Stdout:   stdout,
			Stderr:   &bytes.Buffer{},
			Renderer: renderer,
		}

		cmd := &main.RenderCmd{URL: "https://spa.example.com"}
		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "<html>rendered</html>")
	})

	t.Run("saves rendered HTML to a file", func(t *testing.T) {
		t.Parallel()

		renderer := &mock.Renderer{
			RenderFn: func(_ context.Context, _ string) (string, error) {
				return "<html>saved</html>", nil
			},
		}

		out := filepath.Join(t.TempDir(), "page.html")
		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:      context.Background(),
			Stdout:   stdout,
			Stderr:   &bytes.Buffer{},
			Renderer: renderer,
		}

		cmd := &main.RenderCmd{URL: "https://spa.example.com", Out: out}
		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Saved "+out)

		data, err := os.ReadFile(out)
		require.NoError(t, err)
		assert.Equal(t, "<html>saved</html>", string(data))
	})

	t.Run("reports render failures", func(t *testing.T) {
		t.Parallel()

		renderer := &mock.Renderer{
			RenderFn: func(_ context.Context, _ string) (string, error) {
				return "", harvest.Errorf(harvest.EUNAVAILABLE, "browser disconnected")
			},
		}

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:      context.Background(),
			Stdout:   &bytes.Buffer{},
			Stderr:   stderr,
			Renderer: renderer,
		}

		cmd := &main.RenderCmd{URL: "https://spa.example.com"}
		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "browser disconnected")
	})
}
