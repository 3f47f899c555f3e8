package esindex

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

// doJSON executes HTTP request and decodes JSON response.
// An empty body leaves Response.Data nil.
func doJSON(ctx context.Context, c ESClient, req *http.Request) (*Response, error) {
	res, err := c.Do(ctx, req)
	if err != nil {
		return nil, errors.Wrap(err, "http request failed")
	}
	defer res.Body.Close() //nolint:errcheck

	out := &Response{StatusCode: res.StatusCode}

	bodyBytes, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response body")
	}
	out.Body = bodyBytes

	if len(bytes.TrimSpace(bodyBytes)) == 0 {
		return out, nil
	}

	if err := json.Unmarshal(bodyBytes, &out.Data); err != nil {
		// Error replies from proxies are not always JSON.
		if out.IsError() {
			return out, nil
		}
		return nil, errors.Wrapf(err, "failed to decode JSON response (status %d)", out.StatusCode)
	}

	return out, nil
}

// newURL creates absolute URL from base URL, path and query parameters.
func newURL(base *url.URL, path string, q url.Values) *url.URL {
	u := *base
	u.Path = strings.TrimSuffix(base.Path, "/") + path
	u.RawQuery = ""
	if len(q) > 0 {
		u.RawQuery = q.Encode()
	}
	return &u
}

// encodeBody turns a request body into a reader and its content type.
func encodeBody(body any) (io.Reader, string, error) {
	switch b := body.(type) {
	case nil:
		return nil, "", nil
	case string:
		return strings.NewReader(b), "text/plain", nil
	case []byte:
		return bytes.NewReader(b), "application/json", nil
	default:
		r, err := jsonBody(b)
		if err != nil {
			return nil, "", err
		}
		return r, "application/json", nil
	}
}

// jsonBody marshals value to JSON and returns io.Reader.
func jsonBody(v interface{}) (io.Reader, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal JSON")
	}
	return bytes.NewReader(b), nil
}

// parseBaseURL parses and validates base URL.
func parseBaseURL(address string) (*url.URL, error) {
	if address == "" {
		return nil, errors.New("empty base URL")
	}

	u, err := url.Parse(address)
	if err != nil {
		return nil, errors.Wrap(err, "invalid base URL")
	}

	if u.Scheme == "" || u.Host == "" {
		return nil, errors.New("base URL must be absolute (include scheme and host)")
	}

	return u, nil
}

// firstEntry returns the value of the first key of m in iteration order.
// Responses keyed by index name carry a single entry when queried through an alias.
func firstEntry(m map[string]any) (map[string]any, bool) {
	for _, v := range m {
		entry, ok := v.(map[string]any)
		return entry, ok
	}
	return nil, false
}
