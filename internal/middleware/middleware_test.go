package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todolist/pkg/logger"
)

func newEngine(t *testing.T) (*gin.Engine, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer
	logger.SetOutput(&buf)
	t.Cleanup(func() { logger.SetOutput(os.Stdout) })

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestLogger())
	r.GET("/ping", func(c *gin.Context) {
		logger.Info(c.Request.Context(), "handled")
		c.String(http.StatusOK, "pong")
	})
	return r, &buf
}

// loggedIDs returns the request_id of every log line in buf.
func loggedIDs(t *testing.T, buf *bytes.Buffer) []string {
	t.Helper()

	var ids []string
	dec := json.NewDecoder(buf)
	for dec.More() {
		var line map[string]any
		require.NoError(t, dec.Decode(&line))
		id, _ := line["request_id"].(string)
		ids = append(ids, id)
	}
	return ids
}

func TestRequestLogger_KeepsIncomingID(t *testing.T) {
	r, buf := newEngine(t)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "req-42", w.Header().Get(RequestIDHeader))
	assert.Equal(t, []string{"req-42", "req-42"}, loggedIDs(t, buf))
}

func TestRequestLogger_GeneratesID(t *testing.T) {
	r, buf := newEngine(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	id := w.Header().Get(RequestIDHeader)
	require.NotEmpty(t, id)
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
	assert.Equal(t, []string{id, id}, loggedIDs(t, buf))

	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.NotEqual(t, id, w2.Header().Get(RequestIDHeader))
}
