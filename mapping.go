package esindex

import (
	"context"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
)

// GetMapping returns the mappings of the index.
//
// The reply is keyed by the concrete index name, which differs from the
// queried name when the index is reached through an alias, so the first entry
// is used whatever its key. A pattern matching several indices would make the
// choice arbitrary.
func (i *Index) GetMapping(ctx context.Context) (map[string]any, error) {
	res, err := i.Request(ctx, "_mapping", http.MethodGet, nil, nil)
	if err != nil {
		return nil, err
	}

	entry, ok := firstEntry(res.Data)
	if !ok {
		return map[string]any{}, nil
	}
	mappings, ok := entry["mappings"].(map[string]any)
	if !ok {
		return map[string]any{}, nil
	}
	return mappings, nil
}

// SetMapping updates the index mapping with body, e.g. {"properties": {...}}.
func (i *Index) SetMapping(ctx context.Context, body map[string]any) (*Response, error) {
	return i.Request(ctx, "_mapping", http.MethodPut, body, nil)
}

// Analyze runs text through the analysis chain selected by args (analyzer, tokenizer, ...).
//
// text is sent verbatim as a text/plain body. Elasticsearch 8 and 9 only accept
// JSON-family content types and answer 406, which surfaces as *ResponseError;
// against those clusters Analyze works only behind a proxy or engine that
// accepts raw text bodies.
func (i *Index) Analyze(ctx context.Context, text string, args url.Values) ([]Token, error) {
	res, err := i.Request(ctx, "_analyze", http.MethodPost, text, args)
	if err != nil {
		return nil, err
	}

	var out struct {
		Tokens *[]Token `json:"tokens"`
	}
	if err := res.Decode(&out); err != nil {
		return nil, err
	}
	if out.Tokens == nil {
		return nil, errors.Wrap(ErrUnexpectedResponse, "tokens missing from analyze reply")
	}
	return *out.Tokens, nil
}
