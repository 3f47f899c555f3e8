package esindex

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
)

const (
	bulkIndex  = "index"
	bulkUpdate = "update"
	bulkDelete = "delete"
)

// AddDocuments indexes docs in one bulk request.
func (c *Client) AddDocuments(ctx context.Context, docs []*Document) (*BulkResponse, error) {
	return c.bulk(ctx, bulkIndex, docs)
}

// UpdateDocuments applies partial updates from docs in one bulk request.
func (c *Client) UpdateDocuments(ctx context.Context, docs []*Document) (*BulkResponse, error) {
	return c.bulk(ctx, bulkUpdate, docs)
}

// DeleteDocuments deletes docs by ID in one bulk request.
func (c *Client) DeleteDocuments(ctx context.Context, docs []*Document) (*BulkResponse, error) {
	return c.bulk(ctx, bulkDelete, docs)
}

// bulk sends docs as NDJSON to _bulk. Item failures come back as *BulkError
// together with the decoded response.
func (c *Client) bulk(ctx context.Context, action string, docs []*Document) (*BulkResponse, error) {
	if len(docs) == 0 {
		return &BulkResponse{}, nil
	}

	body, err := bulkBody(action, docs)
	if err != nil {
		return nil, err
	}

	u := newURL(c.baseURL, "/_bulk", nil)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create bulk request")
	}
	httpReq.Header.Set("Content-Type", "application/x-ndjson")

	c.log.DebugWithCtx(ctx, "elasticsearch bulk request", "action", action, "documents", len(docs))

	res, err := doJSON(ctx, c.es, httpReq)
	if err != nil {
		return nil, err
	}
	if res.IsError() {
		return nil, newResponseError(http.MethodPost, "_bulk", res)
	}

	var out BulkResponse
	if err := res.Decode(&out); err != nil {
		return nil, err
	}

	if !out.Errors {
		return &out, nil
	}

	bulkErr := &BulkError{}
	for _, item := range out.Items {
		for act, result := range item {
			if result.Error == nil {
				continue
			}
			result.Action = act
			bulkErr.Failed = append(bulkErr.Failed, result)
		}
	}
	return &out, bulkErr
}

func bulkBody(action string, docs []*Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)

	for _, doc := range docs {
		if doc == nil {
			return nil, ErrNilDocument
		}
		if action != bulkIndex && doc.ID == "" {
			return nil, errors.Errorf("document ID is required for %s", action)
		}

		meta := map[string]any{}
		if doc.Index != "" {
			meta["_index"] = doc.Index
		}
		if doc.ID != "" {
			meta["_id"] = doc.ID
		}
		if doc.Routing != "" {
			meta["routing"] = doc.Routing
		}
		if err := enc.Encode(map[string]any{action: meta}); err != nil {
			return nil, errors.Wrap(err, "failed to encode bulk action")
		}

		var source any
		switch action {
		case bulkIndex:
			source = doc.Data
			if source == nil {
				source = map[string]any{}
			}
		case bulkUpdate:
			update := map[string]any{"doc": doc.Data}
			if doc.Upsert {
				update["doc_as_upsert"] = true
			}
			source = update
		default:
			continue
		}
		if err := enc.Encode(source); err != nil {
			return nil, errors.Wrapf(err, "failed to encode document %q", doc.ID)
		}
	}

	return buf.Bytes(), nil
}

// AddDocuments stamps docs with this index and indexes them.
func (i *Index) AddDocuments(ctx context.Context, docs []*Document) (*BulkResponse, error) {
	if err := i.stamp(docs); err != nil {
		return nil, err
	}
	return i.handle.AddDocuments(ctx, docs)
}

// UpdateDocuments stamps docs with this index and applies them as partial updates.
func (i *Index) UpdateDocuments(ctx context.Context, docs []*Document) (*BulkResponse, error) {
	if err := i.stamp(docs); err != nil {
		return nil, err
	}
	return i.handle.UpdateDocuments(ctx, docs)
}

// DeleteDocuments stamps docs with this index and deletes them.
func (i *Index) DeleteDocuments(ctx context.Context, docs []*Document) (*BulkResponse, error) {
	if err := i.stamp(docs); err != nil {
		return nil, err
	}
	return i.handle.DeleteDocuments(ctx, docs)
}

// DeleteByIDs deletes the documents with the given IDs.
func (i *Index) DeleteByIDs(ctx context.Context, ids ...string) (*BulkResponse, error) {
	docs := make([]*Document, 0, len(ids))
	for _, id := range ids {
		docs = append(docs, &Document{ID: id})
	}
	return i.DeleteDocuments(ctx, docs)
}

func (i *Index) stamp(docs []*Document) error {
	for _, doc := range docs {
		if doc == nil {
			return ErrNilDocument
		}
		doc.Index = i.name
	}
	return nil
}
