package esindex

import (
	"bytes"
	"context"
	"net/http"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogrusLogger_LogsRequests(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	l.SetLevel(logrus.DebugLevel)
	l.SetFormatter(&logrus.JSONFormatter{})

	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"acknowledged": true})
	})
	WithLogger(NewLogrusLogger(l))(client)

	idx, err := client.Index("products")
	require.NoError(t, err)
	_, err = idx.Refresh(context.Background())
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `"msg":"elasticsearch request"`)
	assert.Contains(t, out, `"path":"/products/_refresh"`)
	assert.Contains(t, out, `"status":200`)
	assert.Contains(t, out, `"component":"esindex"`)
}

func TestToFields(t *testing.T) {
	fields := toFields([]any{"a", 1, "b"})
	assert.Equal(t, logrus.Fields{"a": 1, "extra": "b"}, fields)
}

func TestSafeLogger(t *testing.T) {
	assert.IsType(t, noopLogger{}, safeLogger(nil))
}
