package esindex

import (
	"context"
	"net/http"
	"net/url"

	elasticV8 "github.com/elastic/go-elasticsearch/v8"
	elasticV9 "github.com/elastic/go-elasticsearch/v9"
	"github.com/pkg/errors"
)

// ESClient is the raw HTTP transport used by Client.
// It abstracts both v8 and v9 clients using HTTP transport layer.
type ESClient interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Requester issues a single request against the engine's REST surface.
// Paths are relative to the cluster root and carry no leading slash.
type Requester interface {
	Request(ctx context.Context, path, method string, body any, query url.Values) (*Response, error)
}

// BulkExecutor runs batched document operations.
type BulkExecutor interface {
	AddDocuments(ctx context.Context, docs []*Document) (*BulkResponse, error)
	UpdateDocuments(ctx context.Context, docs []*Document) (*BulkResponse, error)
	DeleteDocuments(ctx context.Context, docs []*Document) (*BulkResponse, error)
}

// Handle is the client handle shared by every Index built on it.
type Handle interface {
	Requester
	BulkExecutor
}

var _ Handle = (*Client)(nil)

// esAdapter adapts ES v8/v9 clients to unified ESClient interface.
type esAdapter struct {
	perform func(req *http.Request) (*http.Response, error)
	baseURL *url.URL
}

// Do executes HTTP request with context, resolving relative URLs to absolute.
func (ea *esAdapter) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if req.URL == nil {
		return nil, errors.New("request url is nil")
	}

	r := req.Clone(ctx)
	if !r.URL.IsAbs() {
		if ea.baseURL == nil {
			return nil, errors.New("base url is nil")
		}
		u := *ea.baseURL
		u.Path = r.URL.Path
		u.RawQuery = r.URL.RawQuery
		r.URL = &u
	}

	return ea.perform(r)
}

// NewESClientV8 creates ESClient from Elasticsearch v8 client.
func NewESClientV8(c *elasticV8.Client, baseURL *url.URL) ESClient {
	return &esAdapter{
		perform: c.Transport.Perform,
		baseURL: baseURL,
	}
}

// NewESClientV9 creates ESClient from Elasticsearch v9 client.
func NewESClientV9(c *elasticV9.Client, baseURL *url.URL) ESClient {
	return &esAdapter{
		perform: c.Transport.Perform,
		baseURL: baseURL,
	}
}

// Client is the generic REST client an Index talks through.
// It never retries and never caches: every call is one HTTP round trip.
type Client struct {
	es      ESClient
	baseURL *url.URL
	log     Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithLogger sets the debug logger. A nil logger disables logging.
func WithLogger(log Logger) ClientOption {
	return func(c *Client) {
		c.log = safeLogger(log)
	}
}

// NewClient creates a client around ESClient.
func NewClient(es ESClient, baseURL string, opts ...ClientOption) (*Client, error) {
	if es == nil {
		return nil, errors.New("es client is required")
	}

	u, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}

	c := &Client{
		es:      es,
		baseURL: u,
		log:     noopLogger{},
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Index returns a handle for the named index on this client.
func (c *Client) Index(name any) (*Index, error) {
	return NewIndex(c, name)
}

// Request sends method to path and decodes the JSON reply.
//
// A nil body sends no payload, string and []byte bodies are sent verbatim,
// anything else is JSON encoded. Replies with a status of 300 or above are
// returned as *ResponseError, except for HEAD where only the status matters.
func (c *Client) Request(ctx context.Context, path, method string, body any, query url.Values) (*Response, error) {
	reader, contentType, err := encodeBody(body)
	if err != nil {
		return nil, err
	}

	u := newURL(c.baseURL, "/"+path, query)
	httpReq, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create %s request", method)
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	c.log.DebugWithCtx(ctx, "elasticsearch request", "method", method, "path", u.Path, "query", u.RawQuery)

	res, err := doJSON(ctx, c.es, httpReq)
	if err != nil {
		return nil, err
	}

	c.log.DebugWithCtx(ctx, "elasticsearch response", "method", method, "path", u.Path, "status", res.StatusCode)

	if method != http.MethodHead && res.IsError() {
		return nil, newResponseError(method, path, res)
	}

	return res, nil
}
