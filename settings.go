package esindex

import (
	"context"
	"net/http"
	"strconv"

	"github.com/pkg/errors"
)

// IndexSettings reads and writes the settings of one index.
// It issues no request until one of its methods is called.
type IndexSettings struct {
	index *Index
}

// Get returns the "settings" section of the index, unwrapped from the per-index envelope.
func (s *IndexSettings) Get(ctx context.Context) (map[string]any, error) {
	res, err := s.index.Request(ctx, "_settings", http.MethodGet, nil, nil)
	if err != nil {
		return nil, err
	}

	entry, ok := firstEntry(res.Data)
	if !ok {
		return map[string]any{}, nil
	}
	settings, ok := entry["settings"].(map[string]any)
	if !ok {
		return map[string]any{}, nil
	}
	return settings, nil
}

// Set updates dynamic settings.
func (s *IndexSettings) Set(ctx context.Context, settings map[string]any) (*Response, error) {
	return s.index.Request(ctx, "_settings", http.MethodPut, settings, nil)
}

// Setting returns a single index-level setting, e.g. "number_of_replicas".
func (s *IndexSettings) Setting(ctx context.Context, name string) (string, bool, error) {
	settings, err := s.Get(ctx)
	if err != nil {
		return "", false, err
	}
	index, ok := settings["index"].(map[string]any)
	if !ok {
		return "", false, nil
	}
	v, ok := index[name].(string)
	return v, ok, nil
}

// NumberOfReplicas returns the configured replica count.
func (s *IndexSettings) NumberOfReplicas(ctx context.Context) (int, error) {
	v, ok, err := s.Setting(ctx, "number_of_replicas")
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, errors.Wrap(ErrUnexpectedResponse, "number_of_replicas missing")
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid number_of_replicas %q", v)
	}
	return n, nil
}

// SetNumberOfReplicas sets the replica count.
func (s *IndexSettings) SetNumberOfReplicas(ctx context.Context, n int) (*Response, error) {
	return s.setIndex(ctx, "number_of_replicas", n)
}

// SetRefreshInterval sets the refresh interval, e.g. "1s" or "-1".
func (s *IndexSettings) SetRefreshInterval(ctx context.Context, interval string) (*Response, error) {
	return s.setIndex(ctx, "refresh_interval", interval)
}

// SetReadOnly blocks or unblocks writes.
func (s *IndexSettings) SetReadOnly(ctx context.Context, readOnly bool) (*Response, error) {
	return s.setIndex(ctx, "blocks.write", readOnly)
}

func (s *IndexSettings) setIndex(ctx context.Context, key string, value any) (*Response, error) {
	return s.Set(ctx, map[string]any{
		"index": map[string]any{key: value},
	})
}
