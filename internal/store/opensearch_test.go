package store

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentID(t *testing.T) {
	tests := []struct {
		name    string
		id      any
		want    string
		wantErr bool
	}{
		{"string id", "gid-123", "gid-123", false},
		{"json number", json.Number("42"), "42", false},
		{"float64 integer", float64(42), "42", false},
		{"float64 fraction", float64(42.5), "42.5", false},
		{"int", 7, "7", false},
		{"int64", int64(9000000000), "9000000000", false},
		{"nil id", nil, "", true},
		{"empty string", "", "", true},
		{"unsupported type", true, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := documentID(tt.id)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIndexName(t *testing.T) {
	withPrefix := &OpenSearchStore{config: Config{IndexPrefix: "shopsync"}}
	assert.Equal(t, "shopsync-orders", withPrefix.indexName("orders"))

	noPrefix := &OpenSearchStore{config: Config{}}
	assert.Equal(t, "orders", noPrefix.indexName("orders"))
}

// recordedRequest captures what the store sent to OpenSearch.
type recordedRequest struct {
	method string
	path   string
	body   []byte
}

func newTestStore(t *testing.T, status int, response string) (*OpenSearchStore, *[]recordedRequest) {
	t.Helper()

	var requests []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		requests = append(requests, recordedRequest{
			method: r.Method,
			path:   r.URL.Path,
			body:   body,
		})
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)

	s, err := NewOpenSearchStore(Config{
		URL:         srv.URL,
		IndexPrefix: "shopsync",
	})
	require.NoError(t, err)

	return s, &requests
}

func TestUpsert_IndexesByDocumentID(t *testing.T) {
	s, requests := newTestStore(t, http.StatusOK, `{"result":"updated"}`)

	doc := map[string]any{"id": json.Number("42"), "name": "X"}
	err := s.Upsert(context.Background(), "orders", json.Number("42"), doc)
	require.NoError(t, err)

	require.Len(t, *requests, 1)
	req := (*requests)[0]
	assert.Equal(t, http.MethodPut, req.method)
	assert.Equal(t, "/shopsync-orders/_doc/42", req.path)

	var sent map[string]any
	require.NoError(t, json.Unmarshal(req.body, &sent))
	assert.Equal(t, "X", sent["name"])
}

func TestUpsert_MissingIDFailsWithoutRequest(t *testing.T) {
	s, requests := newTestStore(t, http.StatusOK, `{}`)

	err := s.Upsert(context.Background(), "orders", nil, map[string]any{"name": "X"})
	assert.Error(t, err)
	assert.Empty(t, *requests, "no request should reach the store without an id")
}

func TestUpsert_ServerErrorSurfaces(t *testing.T) {
	s, _ := newTestStore(t, http.StatusInternalServerError, `{"error":"boom"}`)

	err := s.Upsert(context.Background(), "orders", "42", map[string]any{"id": "42"})
	assert.Error(t, err)
}

func TestDelete_RemovesByDocumentID(t *testing.T) {
	s, requests := newTestStore(t, http.StatusOK, `{"result":"deleted"}`)

	err := s.Delete(context.Background(), "orders", json.Number("42"))
	require.NoError(t, err)

	require.Len(t, *requests, 1)
	req := (*requests)[0]
	assert.Equal(t, http.MethodDelete, req.method)
	assert.Equal(t, "/shopsync-orders/_doc/42", req.path)
}

func TestDelete_MissingDocumentIsNoOp(t *testing.T) {
	s, _ := newTestStore(t, http.StatusNotFound, `{"result":"not_found"}`)

	err := s.Delete(context.Background(), "orders", json.Number("42"))
	assert.NoError(t, err, "deleting a non-existent document is idempotent")
}

func TestPing(t *testing.T) {
	s, _ := newTestStore(t, http.StatusOK, ``)
	assert.NoError(t, s.Ping(context.Background()))
}
