package jsonplaceholder

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careerdash/internal/service"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, opts...)
}

func TestList(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/todos", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("_limit"))
		_, _ = w.Write([]byte(`[
			{"userId": 1, "id": 1, "title": "delectus aut autem", "completed": false},
			{"userId": 1, "id": 2, "title": "quis ut nam", "completed": true},
			{"userId": 1, "id": 3, "title": "ignored", "completed": false}
		]`))
	})

	recs, err := c.List(context.Background(), 2)

	require.NoError(t, err)
	assert.Equal(t, []service.Record{
		{ID: "1", Title: "delectus aut autem"},
		{ID: "2", Title: "quis ut nam", Completed: true},
	}, recs)
}

func TestList_RecordWithoutID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"title": "no id"}]`))
	})

	_, err := c.List(context.Background(), 5)

	var svcErr *service.Error
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "list", svcErr.Op)
	assert.ErrorIs(t, err, service.ErrInvalidResponse)
}

func TestList_MalformedBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not": "a list"}`))
	})

	_, err := c.List(context.Background(), 5)

	assert.ErrorIs(t, err, service.ErrInvalidResponse)
}

func TestCreate(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/todos", r.URL.Path)
		assert.Contains(t, r.Header.Get("Content-Type"), "application/json")

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Prepare portfolio", body["title"])
		assert.Equal(t, false, body["completed"])
		assert.EqualValues(t, 1, body["userId"])

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": 201, "title": "Prepare portfolio", "completed": false, "userId": 1}`))
	})

	rec, err := c.Create(context.Background(), service.Record{Title: "Prepare portfolio"})

	require.NoError(t, err)
	assert.Equal(t, service.Record{ID: "201", Title: "Prepare portfolio"}, rec)
}

func TestCreate_ResponseWithoutID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"title": "x"}`))
	})

	_, err := c.Create(context.Background(), service.Record{Title: "x"})

	assert.ErrorIs(t, err, service.ErrInvalidResponse)
}

func TestUpdate(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{"id": 7, "completed": true}`))
	})

	err := c.Update(context.Background(), "7", service.CompletedPatch(true))

	require.NoError(t, err)
	assert.Equal(t, "/todos/7", gotPath)
	assert.Equal(t, map[string]any{"completed": true}, gotBody)
}

func TestUpdate_UncheckSendsFalse(t *testing.T) {
	var gotBody map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{}`))
	})

	require.NoError(t, c.Update(context.Background(), "7", service.CompletedPatch(false)))
	assert.Equal(t, map[string]any{"completed": false}, gotBody)
}

func TestDelete(t *testing.T) {
	var gotMethod, gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		_, _ = w.Write([]byte(`{}`))
	})

	require.NoError(t, c.Delete(context.Background(), "3"))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/todos/3", gotPath)
}

func TestStatusErrors(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, service.ErrUnauthorized},
		{http.StatusNotFound, service.ErrNotFound},
		{http.StatusInternalServerError, service.ErrUnavailable},
		{http.StatusGatewayTimeout, service.ErrTimeout},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})

			err := c.Delete(context.Background(), "9")

			var svcErr *service.Error
			require.ErrorAs(t, err, &svcErr)
			assert.Equal(t, "delete", svcErr.Op)
			assert.Equal(t, "9", svcErr.ID)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestTimeout(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, WithTimeout(20*time.Millisecond))
	defer close(release)

	_, err := c.List(context.Background(), 5)

	assert.ErrorIs(t, err, service.ErrTimeout)
}

func TestNew_Defaults(t *testing.T) {
	c := New("")

	assert.Equal(t, DefaultBaseURL, c.baseURL)
	assert.Equal(t, DefaultTimeout, c.timeout)

	c = New("http://example.test/", WithTimeout(0))
	assert.Equal(t, "http://example.test", c.baseURL)
	assert.Equal(t, DefaultTimeout, c.timeout)
}
