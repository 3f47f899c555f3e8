package esindex

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pkg/errors"
)

// SearchOptions tunes a search. The zero value uses engine defaults.
type SearchOptions struct {
	Limit          int    // Maximum number of hits (size), 0 for the engine default
	From           int    // Offset of the first hit
	Routing        string // Routing value
	SearchType     string // e.g. "dfs_query_then_fetch"
	Sort           []any  // Sort clauses added to the body
	Source         any    // _source filter added to the body
	TrackTotalHits bool
}

// Limit returns options that only cap the number of hits.
func Limit(n int) *SearchOptions {
	return &SearchOptions{Limit: n}
}

// ResultSetBuilder turns a search reply into a ResultSet.
type ResultSetBuilder interface {
	BuildResultSet(res *Response, s *Search) (*ResultSet, error)
}

// Search is a single search request bound to an index.
type Search struct {
	index   *Index
	query   Query
	options SearchOptions
	builder ResultSetBuilder
}

// CreateSearch prepares a search on this index. A nil builder uses DefaultResultSetBuilder.
func (i *Index) CreateSearch(q Query, opts *SearchOptions, builder ResultSetBuilder) *Search {
	s := &Search{index: i, builder: builder}
	if s.builder == nil {
		s.builder = DefaultResultSetBuilder{}
	}
	return s.SetOptionsAndQuery(opts, q)
}

// SetOptionsAndQuery replaces the options and the query of the search.
func (s *Search) SetOptionsAndQuery(opts *SearchOptions, q Query) *Search {
	s.options = SearchOptions{}
	if opts != nil {
		s.options = *opts
	}
	s.query = q
	return s
}

// Index returns the index the search runs against.
func (s *Search) Index() *Index {
	return s.index
}

// Options returns the current options.
func (s *Search) Options() SearchOptions {
	return s.options
}

// Body builds the request body: the normalized query plus body-level options.
func (s *Search) Body() (map[string]any, error) {
	clause, err := NormalizeQuery(s.query)
	if err != nil {
		return nil, err
	}

	body := map[string]any{"query": clause}
	if len(s.options.Sort) > 0 {
		body["sort"] = s.options.Sort
	}
	if s.options.Source != nil {
		body["_source"] = s.options.Source
	}
	return body, nil
}

func (s *Search) params() url.Values {
	query := url.Values{}
	if s.options.Limit > 0 {
		query.Set("size", strconv.Itoa(s.options.Limit))
	}
	if s.options.From > 0 {
		query.Set("from", strconv.Itoa(s.options.From))
	}
	if s.options.Routing != "" {
		query.Set("routing", s.options.Routing)
	}
	if s.options.SearchType != "" {
		query.Set("search_type", s.options.SearchType)
	}
	if s.options.TrackTotalHits {
		query.Set("track_total_hits", "true")
	}
	return query
}

// Search executes the search.
func (s *Search) Search(ctx context.Context) (*ResultSet, error) {
	body, err := s.Body()
	if err != nil {
		return nil, err
	}

	res, err := s.index.Request(ctx, "_search", http.MethodPost, body, s.params())
	if err != nil {
		return nil, err
	}

	return s.builder.BuildResultSet(res, s)
}

// Count returns the number of documents matching the query.
func (s *Search) Count(ctx context.Context) (int, error) {
	clause, err := NormalizeQuery(s.query)
	if err != nil {
		return 0, err
	}

	query := url.Values{}
	if s.options.Routing != "" {
		query.Set("routing", s.options.Routing)
	}

	res, err := s.index.Request(ctx, "_count", http.MethodPost, map[string]any{"query": clause}, query)
	if err != nil {
		return 0, err
	}

	var out struct {
		Count *int `json:"count"`
	}
	if err := res.Decode(&out); err != nil {
		return 0, err
	}
	if out.Count == nil {
		return 0, errors.Wrap(ErrUnexpectedResponse, "count missing")
	}
	return *out.Count, nil
}

// Search runs q against the index.
func (i *Index) Search(ctx context.Context, q Query, opts *SearchOptions) (*ResultSet, error) {
	return i.CreateSearch(q, opts, nil).Search(ctx)
}

// Count counts documents matching q.
func (i *Index) Count(ctx context.Context, q Query) (int, error) {
	return i.CreateSearch(q, nil, nil).Count(ctx)
}

// DeleteByQueryOptions tunes a delete-by-query request.
type DeleteByQueryOptions struct {
	Routing string
	Refresh bool
}

func (o *DeleteByQueryOptions) params() url.Values {
	query := url.Values{}
	if o == nil {
		return query
	}
	if o.Routing != "" {
		query.Set("routing", o.Routing)
	}
	if o.Refresh {
		query.Set("refresh", "true")
	}
	return query
}

// DeleteByQuery removes every document matching q.
//
// A QueryString is sent as the q parameter with no body, since the endpoint
// rejects query_string clauses. Every other query is sent as {"query": ...}.
func (i *Index) DeleteByQuery(ctx context.Context, q Query, opts *DeleteByQueryOptions) (*Response, error) {
	query := opts.params()

	if s, ok := q.(QueryString); ok {
		query.Set("q", string(s))
		return i.Request(ctx, "_query", http.MethodDelete, nil, query)
	}

	clause, err := NormalizeQuery(q)
	if err != nil {
		return nil, err
	}
	return i.Request(ctx, "_query", http.MethodDelete, map[string]any{"query": clause}, query)
}
