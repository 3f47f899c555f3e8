package esindex

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// Response is a decoded reply from the engine.
type Response struct {
	StatusCode int
	Data       map[string]any // nil when the reply had no body
	Body       []byte
}

// Decode unmarshals the raw reply body into v.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return errors.Wrapf(err, "failed to decode JSON response (status %d)", r.StatusCode)
	}
	return nil
}

// IsError reports whether the status code is outside 2xx.
func (r *Response) IsError() bool {
	return r.StatusCode < 200 || r.StatusCode > 299
}

// Document is a single document sent through the bulk API.
type Document struct {
	ID      string         // Document ID, generated by the engine when empty on add
	Index   string         // Destination index, stamped by Index
	Routing string         // Optional routing value
	Data    map[string]any // Source for add, partial doc for update
	Upsert  bool           // Update only: create the document when missing
}

// NewDocument creates a document with the given ID and source.
func NewDocument(id string, data map[string]any) *Document {
	return &Document{ID: id, Data: data}
}

// BulkResponse represents Elasticsearch bulk response.
type BulkResponse struct {
	Took   int                   `json:"took"`
	Errors bool                  `json:"errors"`
	Items  []map[string]BulkItem `json:"items"`
}

// BulkItem is the per-document outcome of a bulk request.
type BulkItem struct {
	Action string         `json:"-"`
	Index  string         `json:"_index"`
	ID     string         `json:"_id"`
	Status int            `json:"status"`
	Result string         `json:"result"`
	Error  map[string]any `json:"error,omitempty"`
}

// ErrorReason returns the engine's reason for a failed item.
func (i BulkItem) ErrorReason() string {
	if i.Error == nil {
		return ""
	}
	reason, _ := i.Error["reason"].(string)
	return reason
}

// Token is one token produced by the analyze API.
type Token struct {
	Token       string `json:"token"`
	StartOffset int    `json:"start_offset"`
	EndOffset   int    `json:"end_offset"`
	Type        string `json:"type"`
	Position    int    `json:"position"`
}
