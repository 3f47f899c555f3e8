package esindex

import (
	"context"
	"math"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pkg/errors"
)

// Index is an index-scoped view over a shared client handle.
// It holds no mutable state and is safe for concurrent use when the handle is.
type Index struct {
	handle Handle
	name   string
	status AliasStatus
}

// NewIndex binds name to handle. name must be a string or a number.
func NewIndex(handle Handle, name any) (*Index, error) {
	if handle == nil {
		return nil, errors.New("client handle is required")
	}

	s, err := indexName(name)
	if err != nil {
		return nil, err
	}

	idx := &Index{handle: handle, name: s}
	idx.status = NewStatus(handle)
	return idx, nil
}

// WithAliasStatus returns a copy of the index that looks up alias holders through status.
func (i *Index) WithAliasStatus(status AliasStatus) *Index {
	cp := *i
	cp.status = status
	return &cp
}

func indexName(name any) (string, error) {
	switch v := name.(type) {
	case string:
		return v, nil
	case int:
		return strconv.Itoa(v), nil
	case int8, int16, int32, int64:
		return strconv.FormatInt(toInt64(v), 10), nil
	case uint, uint8, uint16, uint32, uint64:
		return strconv.FormatUint(toUint64(v), 10), nil
	case float32:
		if !isFinite(float64(v)) {
			return "", errors.Wrapf(ErrInvalidIndexName, "got %v", v)
		}
		return strconv.FormatFloat(float64(v), 'f', -1, 32), nil
	case float64:
		if !isFinite(v) {
			return "", errors.Wrapf(ErrInvalidIndexName, "got %v", v)
		}
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	default:
		return "", errors.Wrapf(ErrInvalidIndexName, "got %T", name)
	}
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func toInt64(v any) int64 {
	switch n := v.(type) {
	case int8:
		return int64(n)
	case int16:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return n
	}
	return 0
}

func toUint64(v any) uint64 {
	switch n := v.(type) {
	case uint:
		return uint64(n)
	case uint8:
		return uint64(n)
	case uint16:
		return uint64(n)
	case uint32:
		return uint64(n)
	case uint64:
		return n
	}
	return 0
}

// Name returns the index name.
func (i *Index) Name() string {
	return i.name
}

// Handle returns the client handle the index talks through.
func (i *Index) Handle() Handle {
	return i.handle
}

// Request sends a request to <index>/<path>.
func (i *Index) Request(ctx context.Context, path, method string, body any, query url.Values) (*Response, error) {
	return i.handle.Request(ctx, i.name+"/"+path, method, body, query)
}

// CreateOptions controls index creation.
type CreateOptions struct {
	Recreate bool   // Delete the index first, ignoring a missing index
	Routing  string // Sent as the routing query parameter when set
}

// ParseCreateOptions converts a loosely typed option map into CreateOptions.
// Only "recreate" (bool) and "routing" (string) are accepted.
func ParseCreateOptions(opts map[string]any) (*CreateOptions, error) {
	out := &CreateOptions{}
	for key, value := range opts {
		switch key {
		case "recreate":
			b, ok := value.(bool)
			if !ok {
				return nil, errors.Wrapf(ErrInvalidOption, "recreate must be a bool, got %T", value)
			}
			out.Recreate = b
		case "routing":
			s, ok := value.(string)
			if !ok {
				return nil, errors.Wrapf(ErrInvalidOption, "routing must be a string, got %T", value)
			}
			out.Routing = s
		default:
			return nil, invalidOption(key)
		}
	}
	return out, nil
}

// Create creates the index with args as the request body (settings, mappings, aliases).
// With opts.Recreate the index is deleted first; a missing index is not an error.
func (i *Index) Create(ctx context.Context, args map[string]any, opts *CreateOptions) (*Response, error) {
	if opts == nil {
		opts = &CreateOptions{}
	}

	if opts.Recreate {
		if _, err := i.Delete(ctx); err != nil && !IsIndexNotFound(err) {
			return nil, errors.Wrapf(err, "failed to delete index %q before create", i.name)
		}
	}

	query := url.Values{}
	if opts.Routing != "" {
		query.Set("routing", opts.Routing)
	}

	var body any
	if args != nil {
		body = args
	}

	return i.Request(ctx, "", http.MethodPut, body, query)
}

// CreateWithConfig validates config fully and then behaves like Create.
// No request is issued when config holds an unknown key.
func (i *Index) CreateWithConfig(ctx context.Context, args map[string]any, config map[string]any) (*Response, error) {
	opts, err := ParseCreateOptions(config)
	if err != nil {
		return nil, err
	}
	return i.Create(ctx, args, opts)
}

// Recreate deletes the index if present and creates it again.
func (i *Index) Recreate(ctx context.Context, args map[string]any) (*Response, error) {
	return i.Create(ctx, args, &CreateOptions{Recreate: true})
}

// Delete deletes the index. A missing index is reported as an error for which
// IsIndexNotFound returns true.
func (i *Index) Delete(ctx context.Context) (*Response, error) {
	return i.Request(ctx, "", http.MethodDelete, nil, nil)
}

// Exists reports whether a HEAD on the index answers exactly 200.
func (i *Index) Exists(ctx context.Context) (bool, error) {
	res, err := i.handle.Request(ctx, i.name, http.MethodHead, nil, nil)
	if err != nil {
		return false, err
	}
	return res.StatusCode == http.StatusOK, nil
}

// Refresh makes recent operations visible to search.
func (i *Index) Refresh(ctx context.Context) (*Response, error) {
	return i.Request(ctx, "_refresh", http.MethodPost, nil, nil)
}

// Optimize merges segments. args are sent as query parameters (e.g. max_num_segments).
func (i *Index) Optimize(ctx context.Context, args url.Values) (*Response, error) {
	return i.Request(ctx, "_optimize", http.MethodPost, nil, args)
}

// Open opens a closed index.
func (i *Index) Open(ctx context.Context) (*Response, error) {
	return i.Request(ctx, "_open", http.MethodPost, nil, nil)
}

// Close closes the index.
func (i *Index) Close(ctx context.Context) (*Response, error) {
	return i.Request(ctx, "_close", http.MethodPost, nil, nil)
}

// Flush flushes the index, refreshing it first when refresh is set.
func (i *Index) Flush(ctx context.Context, refresh bool) (*Response, error) {
	query := url.Values{}
	if refresh {
		query.Set("refresh", "true")
	}
	return i.Request(ctx, "_flush", http.MethodPost, nil, query)
}

// ClearCache clears all caches of the index.
func (i *Index) ClearCache(ctx context.Context) (*Response, error) {
	return i.Request(ctx, "_cache/clear", http.MethodPost, nil, nil)
}

// Settings returns an accessor for the index settings.
func (i *Index) Settings() *IndexSettings {
	return &IndexSettings{index: i}
}

// Stats returns an accessor for the index statistics.
func (i *Index) Stats() *IndexStats {
	return &IndexStats{index: i}
}
