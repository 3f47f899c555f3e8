package esindex

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

type recordedRequest struct {
	Path   string
	Method string
	Body   any
	Query  url.Values
}

type cannedReply struct {
	res *Response
	err error
}

// fakeHandle records every call and replies from canned answers keyed by "METHOD path".
type fakeHandle struct {
	requests []recordedRequest
	replies  map[string]cannedReply
	bulk     map[string][]*Document
}

func newFakeHandle() *fakeHandle {
	return &fakeHandle{
		replies: map[string]cannedReply{},
		bulk:    map[string][]*Document{},
	}
}

func (f *fakeHandle) reply(method, path string, status int, data map[string]any) {
	f.replies[method+" "+path] = cannedReply{res: newTestResponse(status, data)}
}

func (f *fakeHandle) fail(method, path string, err error) {
	f.replies[method+" "+path] = cannedReply{err: err}
}

func (f *fakeHandle) Request(_ context.Context, path, method string, body any, query url.Values) (*Response, error) {
	f.requests = append(f.requests, recordedRequest{Path: path, Method: method, Body: body, Query: query})

	if r, ok := f.replies[method+" "+path]; ok {
		return r.res, r.err
	}
	return newTestResponse(http.StatusOK, map[string]any{"acknowledged": true}), nil
}

func (f *fakeHandle) AddDocuments(_ context.Context, docs []*Document) (*BulkResponse, error) {
	f.bulk[bulkIndex] = docs
	return &BulkResponse{}, nil
}

func (f *fakeHandle) UpdateDocuments(_ context.Context, docs []*Document) (*BulkResponse, error) {
	f.bulk[bulkUpdate] = docs
	return &BulkResponse{}, nil
}

func (f *fakeHandle) DeleteDocuments(_ context.Context, docs []*Document) (*BulkResponse, error) {
	f.bulk[bulkDelete] = docs
	return &BulkResponse{}, nil
}

// newTestResponse round-trips data through JSON so numbers decode as float64,
// exactly as they do off the wire.
func newTestResponse(status int, data map[string]any) *Response {
	res := &Response{StatusCode: status}
	if data != nil {
		res.Body, _ = json.Marshal(data)
		_ = json.Unmarshal(res.Body, &res.Data)
	}
	return res
}

func indexNotFound(path string) error {
	return newResponseError(http.MethodDelete, path, newTestResponse(http.StatusNotFound, map[string]any{
		"error": map[string]any{
			"type":   "index_not_found_exception",
			"reason": "no such index",
		},
		"status": 404,
	}))
}
