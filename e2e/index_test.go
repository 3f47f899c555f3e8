package e2e

import (
	"testing"

	esindex "github.com/egorbwork/Elastica"
	"github.com/olivere/elastic/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E test in short mode")
	}

	t.Run("create_exists_delete", func(t *testing.T) {
		idx, err := registry.Index("tier-gold", "test_lifecycle")
		require.NoError(t, err)

		exists, err := idx.Exists(ctx)
		require.NoError(t, err)
		assert.False(t, exists)

		_, err = idx.Create(ctx, map[string]any{}, &esindex.CreateOptions{Recreate: true})
		require.NoError(t, err)

		exists, err = idx.Exists(ctx)
		require.NoError(t, err)
		assert.True(t, exists)

		_, err = idx.Delete(ctx)
		require.NoError(t, err)

		_, err = idx.Delete(ctx)
		require.Error(t, err)
		assert.True(t, esindex.IsIndexNotFound(err))
	})

	t.Run("invalid_option_issues_no_request", func(t *testing.T) {
		idx, err := registry.Index("tier-gold", "test_invalid_option")
		require.NoError(t, err)

		_, err = idx.CreateWithConfig(ctx, nil, map[string]any{"bogus": 1})
		require.ErrorIs(t, err, esindex.ErrInvalidOption)

		exists, err := idx.Exists(ctx)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("mapping_through_alias", func(t *testing.T) {
		idx := newTestIndex(t, "tier-gold", "test_mapping_v1")
		_, err := idx.AddAlias(ctx, "test_mapping", false)
		require.NoError(t, err)

		alias, err := registry.Index("tier-gold", "test_mapping")
		require.NoError(t, err)

		mappings, err := alias.GetMapping(ctx)
		require.NoError(t, err)
		properties, ok := mappings["properties"].(map[string]any)
		require.True(t, ok)
		assert.Contains(t, properties, "title")
	})

	t.Run("settings_and_stats", func(t *testing.T) {
		idx := newTestIndex(t, "tier-gold", "test_settings")

		replicas, err := idx.Settings().NumberOfReplicas(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, replicas)

		_, err = idx.Settings().SetRefreshInterval(ctx, "2s")
		require.NoError(t, err)

		stats, err := idx.Stats().Get(ctx)
		require.NoError(t, err)
		assert.NotEmpty(t, stats)
	})

}

func TestAliasSwap(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E test in short mode")
	}

	v1 := newTestIndex(t, "tier-gold", "test_swap_v1")
	v2 := newTestIndex(t, "tier-gold", "test_swap_v2")
	v3 := newTestIndex(t, "tier-gold", "test_swap_v3")

	_, err := v1.AddAlias(ctx, "test_swap", false)
	require.NoError(t, err)
	_, err = v2.AddAlias(ctx, "test_swap", false)
	require.NoError(t, err)

	_, err = v3.AddAlias(ctx, "test_swap", true)
	require.NoError(t, err)

	for _, idx := range []*esindex.Index{v1, v2} {
		has, err := idx.HasAlias(ctx, "test_swap")
		require.NoError(t, err)
		assert.False(t, has, idx.Name())
	}

	has, err := v3.HasAlias(ctx, "test_swap")
	require.NoError(t, err)
	assert.True(t, has)

	_, err = v3.RemoveAlias(ctx, "test_swap")
	require.NoError(t, err)

	aliases, err := v3.GetAliases(ctx)
	require.NoError(t, err)
	assert.Empty(t, aliases)
}

func TestDocumentsAndSearch(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E test in short mode")
	}

	for _, cluster := range []string{"tier-gold", "tier-silver"} {
		t.Run(cluster, func(t *testing.T) {
			idx := newTestIndex(t, cluster, "test_search")

			_, err := idx.AddDocuments(ctx, []*esindex.Document{
				esindex.NewDocument("1", map[string]any{"title": "red shoes", "price": 10}),
				esindex.NewDocument("2", map[string]any{"title": "blue shoes", "price": 20}),
				esindex.NewDocument("3", map[string]any{"title": "red hat", "price": 5}),
			})
			require.NoError(t, err)

			_, err = idx.UpdateDocuments(ctx, []*esindex.Document{
				esindex.NewDocument("3", map[string]any{"price": 7}),
			})
			require.NoError(t, err)

			_, err = idx.Refresh(ctx)
			require.NoError(t, err)

			rs, err := idx.Search(ctx, esindex.QueryString("title:red"), esindex.Limit(10))
			require.NoError(t, err)
			assert.Equal(t, 2, rs.TotalHits)

			n, err := idx.Count(ctx, esindex.FromBuilder(elastic.NewMatchQuery("title", "shoes")))
			require.NoError(t, err)
			assert.Equal(t, 2, n)

			n, err = idx.Count(ctx, esindex.Structured{"range": map[string]any{"price": map[string]any{"gte": 7}}})
			require.NoError(t, err)
			assert.Equal(t, 3, n)

			_, err = idx.DeleteByIDs(ctx, "1")
			require.NoError(t, err)
			_, err = idx.Refresh(ctx)
			require.NoError(t, err)

			n, err = idx.Count(ctx, nil)
			require.NoError(t, err)
			assert.Equal(t, 2, n)
		})
	}
}
