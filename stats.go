package esindex

import (
	"context"
	"net/http"
)

// IndexStats reads statistics of one index.
type IndexStats struct {
	index *Index
}

// Get returns the stats entry of the index, or the whole reply when the
// index is absent from the "indices" section.
func (s *IndexStats) Get(ctx context.Context) (map[string]any, error) {
	res, err := s.index.Request(ctx, "_stats", http.MethodGet, nil, nil)
	if err != nil {
		return nil, err
	}

	indices, ok := res.Data["indices"].(map[string]any)
	if !ok {
		return res.Data, nil
	}
	if entry, ok := indices[s.index.name].(map[string]any); ok {
		return entry, nil
	}
	if entry, ok := firstEntry(indices); ok {
		return entry, nil
	}
	return res.Data, nil
}

// DocCount returns primaries.docs.count.
func (s *IndexStats) DocCount(ctx context.Context) (int, error) {
	stats, err := s.Get(ctx)
	if err != nil {
		return 0, err
	}
	primaries, _ := stats["primaries"].(map[string]any)
	docs, _ := primaries["docs"].(map[string]any)
	count, _ := docs["count"].(float64)
	return int(count), nil
}
