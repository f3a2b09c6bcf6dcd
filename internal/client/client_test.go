package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todolist/internal/models"
)

func TestClientRoundTrips(t *testing.T) {
	var gotPut string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/todos":
			_, _ = io.WriteString(w, `[{"id":1,"title":"a","description":null,"completed":false,"priority":null,"due_date":"2030-05-01"}]`)
		case r.Method == http.MethodPost && r.URL.Path == "/todos":
			var in models.TodoCreate
			require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(models.Todo{ID: 7, Title: in.Title, Priority: in.Priority})
		case r.Method == http.MethodPut && r.URL.Path == "/todos/7":
			b, _ := io.ReadAll(r.Body)
			gotPut = string(b)
			_ = json.NewEncoder(w).Encode(models.Todo{ID: 7, Title: "b", Completed: true})
		case r.Method == http.MethodDelete && r.URL.Path == "/todos/7":
			w.WriteHeader(http.StatusNoContent)
		case r.Method == http.MethodPost && r.URL.Path == "/translate":
			_, _ = io.WriteString(w, `{"translated_text":"hola"}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := New(srv.URL+"/", nil)
	ctx := context.Background()

	todos, err := c.List(ctx)
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.Equal(t, "2030-05-01", todos[0].DueDate.String())

	created, err := c.Create(ctx, models.TodoCreate{Title: "b", Priority: models.StringPtr("High")})
	require.NoError(t, err)
	assert.Equal(t, int64(7), created.ID)
	assert.Equal(t, "High", *created.Priority)

	done, err := c.Complete(ctx, 7)
	require.NoError(t, err)
	assert.True(t, done.Completed)
	assert.JSONEq(t, `{"completed":true}`, gotPut)

	require.NoError(t, c.Delete(ctx, 7))

	text, err := c.Translate(ctx, "hello", "Spanish")
	require.NoError(t, err)
	assert.Equal(t, "hola", text)
}

func TestClientAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = io.WriteString(w, `{"error":"Translation service not available. API key might be missing or invalid."}`)
	}))
	defer srv.Close()

	_, err := New(srv.URL, nil).Translate(context.Background(), "hi", "French")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
	assert.Equal(t, "Translation service not available. API key might be missing or invalid.", apiErr.Message)
}

func TestClientConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url, nil).List(context.Background())
	var connErr *ConnectionError
	assert.True(t, errors.As(err, &connErr), err)
}

func TestSourceText(t *testing.T) {
	due, err := models.ParseDate("2030-01-02")
	require.NoError(t, err)

	assert.Equal(t, "Buy milk", SourceText(models.Todo{Title: "Buy milk", Description: models.StringPtr("")}))
	assert.Equal(t,
		"Buy milk (Description: 2%) (Priority: High) (Due Date: 2030-01-02)",
		SourceText(models.Todo{
			Title:       "Buy milk",
			Description: models.StringPtr("2%"),
			Priority:    models.StringPtr("High"),
			DueDate:     &due,
		}))
}

func TestTranslationCacheSync(t *testing.T) {
	a := models.Todo{ID: 1, Title: "a"}
	b := models.Todo{ID: 2, Title: "b"}

	c := NewTranslationCache()
	c.Put(a.ID, "French", SourceText(a), "a-fr")
	c.Put(a.ID, "German", SourceText(a), "a-de")
	c.Put(b.ID, "French", SourceText(b), "b-fr")
	require.Equal(t, 3, c.Len())

	c.Sync([]models.Todo{a, b})
	assert.Equal(t, 3, c.Len())

	// b edited, a unchanged
	b.Priority = models.StringPtr("Low")
	c.Sync([]models.Todo{a, b})
	_, ok := c.Get(b.ID, "French")
	assert.False(t, ok)
	got, ok := c.Get(a.ID, "German")
	assert.True(t, ok)
	assert.Equal(t, "a-de", got)

	// a deleted
	c.Sync([]models.Todo{b})
	assert.Equal(t, 0, c.Len())

	c.Put(b.ID, "French", SourceText(b), "b-fr2")
	c.Forget(b.ID)
	_, ok = c.Get(b.ID, "French")
	assert.False(t, ok)
}
