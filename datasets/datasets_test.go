package datasets_test

import (
	"testing"

	"github.com/fwojciec/harvest"
	"github.com/fwojciec/harvest/datasets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	t.Parallel()

	t.Run("GetUnknownKey", func(t *testing.T) {
		t.Parallel()

		r := datasets.NewRegistry()
		_, ok := r.Get("myspace", "profiles")
		assert.False(t, ok)
	})

	t.Run("RegisterReplaces", func(t *testing.T) {
		t.Parallel()

		r := datasets.NewRegistry()
		r.Register("linkedin", "profiles", datasets.Builder("gd_old", "url"))
		r.Register("linkedin", "profiles", datasets.Builder("gd_new", "url"))

		b, ok := r.Get("linkedin", "profiles")
		require.True(t, ok)

		spec, err := b.Build([]harvest.Input{{"url": "https://linkedin.com/in/a"}})
		require.NoError(t, err)
		assert.Equal(t, "gd_new", spec.DatasetID)
		assert.Len(t, r.List(), 1)
	})

	t.Run("ListSorted", func(t *testing.T) {
		t.Parallel()

		r := datasets.NewRegistry()
		r.Register("linkedin", "profiles", datasets.Builder("gd_1", "url"))
		r.Register("amazon", "reviews", datasets.Builder("gd_2", "url"))
		r.Register("amazon", "products", datasets.Builder("gd_3", "url"))

		assert.Equal(t, []harvest.RegistryKey{
			{Platform: "amazon", Method: "products"},
			{Platform: "amazon", Method: "reviews"},
			{Platform: "linkedin", Method: "profiles"},
		}, r.List())
	})
}

func TestDefaultRegistry(t *testing.T) {
	t.Parallel()

	r := datasets.DefaultRegistry()

	for _, key := range []harvest.RegistryKey{
		{Platform: "linkedin", Method: "profiles"},
		{Platform: "linkedin", Method: "companies"},
		{Platform: "linkedin", Method: "jobs"},
		{Platform: "linkedin", Method: "posts"},
		{Platform: "amazon", Method: "products"},
		{Platform: "amazon", Method: "reviews"},
		{Platform: "instagram", Method: "profiles"},
		{Platform: "instagram", Method: "posts"},
		{Platform: "chatgpt", Method: "prompts"},
	} {
		_, ok := r.Get(key.Platform, key.Method)
		assert.True(t, ok, "%s/%s should be registered", key.Platform, key.Method)
	}
}

func TestBuilder(t *testing.T) {
	t.Parallel()

	t.Run("OK", func(t *testing.T) {
		t.Parallel()

		b := datasets.Builder("gd_x", "url")
		spec, err := b.Build([]harvest.Input{
			{"url": "https://example.com/a"},
			{"url": "https://example.com/b"},
		})
		require.NoError(t, err)

		assert.Equal(t, harvest.KindDataset, spec.Kind)
		assert.Equal(t, "gd_x", spec.DatasetID)
		assert.Equal(t, "true", spec.Params.Get("include_errors"))

		inputs, ok := spec.Payload.([]harvest.Input)
		require.True(t, ok)
		assert.Len(t, inputs, 2)
	})

	t.Run("EmptyInputs", func(t *testing.T) {
		t.Parallel()

		_, err := datasets.Builder("gd_x", "url").Build(nil)
		assert.Equal(t, harvest.EINVALID, harvest.ErrorCode(err))
	})

	t.Run("MissingRequiredField", func(t *testing.T) {
		t.Parallel()

		_, err := datasets.Builder("gd_x", "url").Build([]harvest.Input{
			{"url": "https://example.com/a"},
			{"link": "https://example.com/b"},
		})
		assert.Equal(t, harvest.EINVALID, harvest.ErrorCode(err))
	})

	t.Run("EmptyRequiredField", func(t *testing.T) {
		t.Parallel()

		_, err := datasets.Builder("gd_x", "prompt").Build([]harvest.Input{{"prompt": ""}})
		assert.Equal(t, harvest.EINVALID, harvest.ErrorCode(err))
	})
}
