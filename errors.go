package esindex

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// Configuration errors
var (
	ErrEmptyClusters          = fmt.Errorf("clusters map is empty")
	ErrNoDefaultCluster       = fmt.Errorf("default cluster name not specified")
	ErrDefaultClusterNotFound = fmt.Errorf("default cluster not found in clusters map")
	ErrEmptyClusterName       = fmt.Errorf("cluster name is empty")
)

// Caller errors. These are never swallowed or retried.
var (
	ErrInvalidIndexName = errors.New("index name must be a string or a number")
	ErrInvalidOption    = errors.New("invalid option")
	ErrNilDocument      = errors.New("document is nil")
)

// ErrUnexpectedResponse is returned when a reply lacks a field the engine always sends.
var ErrUnexpectedResponse = errors.New("unexpected elasticsearch response")

// ErrEmptyClusterAddresses returns error for cluster with no addresses.
func ErrEmptyClusterAddresses(clusterName string) error {
	return fmt.Errorf("cluster %q has no addresses", clusterName)
}

// ErrInvalidESVersion returns error for unsupported ES version.
func ErrInvalidESVersion(clusterName string, version int) error {
	return fmt.Errorf("cluster %q has invalid ES version %d (must be 8 or 9)", clusterName, version)
}

// ErrClusterNotFound returns error when cluster is not found in registry.
func ErrClusterNotFound(clusterName string) error {
	return fmt.Errorf("cluster %q not found in registry", clusterName)
}

// ErrInvalidBaseURL returns error for invalid cluster base URL.
func ErrInvalidBaseURL(clusterName, address string) error {
	return fmt.Errorf("cluster %q has invalid base URL %q (must be absolute URL)", clusterName, address)
}

func invalidOption(key string) error {
	return errors.Wrapf(ErrInvalidOption, "%q", key)
}

const indexNotFoundType = "index_not_found_exception"

// ResponseError is an error reply from the engine.
type ResponseError struct {
	Method     string
	Path       string
	StatusCode int
	Type       string // e.g. "index_not_found_exception"
	Reason     string
	Response   *Response
}

func newResponseError(method, path string, res *Response) *ResponseError {
	e := &ResponseError{
		Method:     method,
		Path:       path,
		StatusCode: res.StatusCode,
		Response:   res,
	}

	switch v := res.Data["error"].(type) {
	case string:
		e.Reason = v
	case map[string]any:
		e.Type, _ = v["type"].(string)
		e.Reason, _ = v["reason"].(string)
	}

	return e
}

func (e *ResponseError) Error() string {
	if e.Type == "" && e.Reason == "" {
		return fmt.Sprintf("%s %s returned status code %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: [%d] %s: %s", e.Method, e.Path, e.StatusCode, e.Type, e.Reason)
}

// IsIndexNotFound reports whether err says the target index does not exist.
func IsIndexNotFound(err error) bool {
	var re *ResponseError
	if !errors.As(err, &re) {
		return false
	}
	if re.Type != "" {
		return re.Type == indexNotFoundType
	}
	return re.StatusCode == http.StatusNotFound
}

// BulkError lists the items of a bulk request the engine rejected.
type BulkError struct {
	Failed []BulkItem
}

func (e *BulkError) Error() string {
	if len(e.Failed) == 0 {
		return "bulk request failed"
	}
	first := e.Failed[0]
	return fmt.Sprintf("bulk request: %d item(s) failed, first %s %q: [%d] %s",
		len(e.Failed), first.Action, first.ID, first.Status, first.ErrorReason())
}
