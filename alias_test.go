package esindex

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticAliasStatus struct {
	holders []*Index
	calls   int
}

func (s *staticAliasStatus) IndicesWithAlias(_ context.Context, _ string) ([]*Index, error) {
	s.calls++
	return s.holders, nil
}

func mustIndex(t *testing.T, h Handle, name string) *Index {
	t.Helper()
	idx, err := NewIndex(h, name)
	require.NoError(t, err)
	return idx
}

func actionsOf(t *testing.T, req recordedRequest) []AliasAction {
	t.Helper()
	body, ok := req.Body.(map[string]any)
	require.True(t, ok)
	actions, ok := body["actions"].([]AliasAction)
	require.True(t, ok)
	return actions
}

func TestIndex_AddAliasReplaceMovesAlias(t *testing.T) {
	h := newFakeHandle()
	status := &staticAliasStatus{holders: []*Index{
		mustIndex(t, h, "products_v1"),
		mustIndex(t, h, "products_v2"),
	}}
	idx := mustIndex(t, h, "products_v3").WithAliasStatus(status)

	_, err := idx.AddAlias(context.Background(), "a", true)
	require.NoError(t, err)

	assert.Equal(t, 1, status.calls)
	require.Len(t, h.requests, 1)
	assert.Equal(t, "_aliases", h.requests[0].Path)
	assert.Equal(t, http.MethodPost, h.requests[0].Method)

	assert.Equal(t, []AliasAction{
		removeAliasAction("products_v1", "a"),
		removeAliasAction("products_v2", "a"),
		addAliasAction("products_v3", "a"),
	}, actionsOf(t, h.requests[0]))
}

func TestIndex_AddAliasWithoutReplace(t *testing.T) {
	h := newFakeHandle()
	status := &staticAliasStatus{holders: []*Index{mustIndex(t, h, "other")}}
	idx := mustIndex(t, h, "products").WithAliasStatus(status)

	_, err := idx.AddAlias(context.Background(), "live", false)
	require.NoError(t, err)

	assert.Zero(t, status.calls)
	assert.Equal(t, []AliasAction{addAliasAction("products", "live")}, actionsOf(t, h.requests[0]))
}

func TestIndex_AddAliasUsesStatusLookup(t *testing.T) {
	h := newFakeHandle()
	h.reply(http.MethodGet, "_alias/live", http.StatusOK, map[string]any{
		"products_v1": map[string]any{"aliases": map[string]any{"live": map[string]any{}}},
	})
	idx := mustIndex(t, h, "products_v2")

	_, err := idx.AddAlias(context.Background(), "live", true)
	require.NoError(t, err)

	require.Len(t, h.requests, 2)
	assert.Equal(t, http.MethodGet, h.requests[0].Method)
	assert.Equal(t, []AliasAction{
		removeAliasAction("products_v1", "live"),
		addAliasAction("products_v2", "live"),
	}, actionsOf(t, h.requests[1]))
}

func TestStatus_IndicesWithAliasMissing(t *testing.T) {
	h := newFakeHandle()
	h.fail(http.MethodGet, "_alias/none", newResponseError(http.MethodGet, "_alias/none",
		newTestResponse(http.StatusNotFound, map[string]any{"error": "alias [none] missing", "status": 404})))

	indices, err := NewStatus(h).IndicesWithAlias(context.Background(), "none")
	require.NoError(t, err)
	assert.Empty(t, indices)
}

func TestIndex_RemoveAlias(t *testing.T) {
	h := newFakeHandle()
	idx := mustIndex(t, h, "products")

	_, err := idx.RemoveAlias(context.Background(), "live")
	require.NoError(t, err)

	assert.Equal(t, "_aliases", h.requests[0].Path)
	assert.Equal(t, []AliasAction{removeAliasAction("products", "live")}, actionsOf(t, h.requests[0]))
}

func TestIndex_GetAliases(t *testing.T) {
	h := newFakeHandle()
	h.reply(http.MethodGet, "_alias/*", http.StatusOK, map[string]any{
		"products": map[string]any{"aliases": map[string]any{
			"live":   map[string]any{},
			"search": map[string]any{},
		}},
		"orders": map[string]any{"aliases": map[string]any{"orders_live": map[string]any{}}},
		"bare":   map[string]any{"aliases": map[string]any{}},
	})

	aliases, err := mustIndex(t, h, "products").GetAliases(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"live", "search"}, aliases)

	has, err := mustIndex(t, h, "products").HasAlias(context.Background(), "search")
	require.NoError(t, err)
	assert.True(t, has)

	has, err = mustIndex(t, h, "products").HasAlias(context.Background(), "orders_live")
	require.NoError(t, err)
	assert.False(t, has)

	aliases, err = mustIndex(t, h, "bare").GetAliases(context.Background())
	require.NoError(t, err)
	assert.Empty(t, aliases)

	aliases, err = mustIndex(t, h, "absent").GetAliases(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, aliases)
	assert.Empty(t, aliases)
}
