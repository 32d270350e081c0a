package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"scheduler-cli/internal/model"
	"scheduler-cli/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, token string) *httptest.Server {
	t.Helper()
	st, err := store.OpenTaskStore(context.Background(), store.DriverSQLite, filepath.Join(t.TempDir(), "tasks.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	ts := httptest.NewServer(New(ServerConfig{Token: token}, st, nil).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func call(t *testing.T, ts *httptest.Server, method, path, body, token string) (int, map[string]json.RawMessage) {
	t.Helper()
	req, err := http.NewRequest(method, ts.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]json.RawMessage{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func TestServer_CreateListUpdateDelete(t *testing.T) {
	ts := newTestServer(t, "")

	code, out := call(t, ts, http.MethodPost, BasePath, `{"message":"  Buy milk "}`, "")
	require.Equal(t, http.StatusOK, code)
	var created model.Task
	require.NoError(t, json.Unmarshal(out["data"], &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Buy milk", created.Message)
	assert.False(t, created.Created.IsZero())

	code, out = call(t, ts, http.MethodGet, BasePath, "", "")
	require.Equal(t, http.StatusOK, code)
	var all []model.Task
	require.NoError(t, json.Unmarshal(out["data"], &all))
	require.Len(t, all, 1)

	created.Completed = true
	body, _ := json.Marshal([]model.Task{created})
	code, out = call(t, ts, http.MethodPut, BasePath, string(body), "")
	require.Equal(t, http.StatusOK, code)
	var updated []model.Task
	require.NoError(t, json.Unmarshal(out["data"], &updated))
	require.Len(t, updated, 1)
	assert.True(t, updated[0].Completed)

	code, _ = call(t, ts, http.MethodDelete, BasePath+"/"+created.ID, "", "")
	assert.Equal(t, http.StatusNoContent, code)

	code, _ = call(t, ts, http.MethodDelete, BasePath+"/"+created.ID, "", "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestServer_ValidatesMessages(t *testing.T) {
	ts := newTestServer(t, "")

	code, out := call(t, ts, http.MethodPost, BasePath, `{"message":"   "}`, "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, string(out["message"]), "empty")

	long := strings.Repeat("x", model.MaxMessageLen+1)
	code, _ = call(t, ts, http.MethodPost, BasePath, `{"message":"`+long+`"}`, "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = call(t, ts, http.MethodPut, BasePath, `[]`, "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = call(t, ts, http.MethodPost, BasePath, `{nope`, "")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestServer_UpdateUnknownIDIs404(t *testing.T) {
	ts := newTestServer(t, "")
	code, _ := call(t, ts, http.MethodPut, BasePath, `[{"id":"ghost","message":"x"}]`, "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestServer_UpdateBatchIsAllOrNothing(t *testing.T) {
	ts := newTestServer(t, "")

	code, out := call(t, ts, http.MethodPost, BasePath, `{"message":"Buy milk"}`, "")
	require.Equal(t, http.StatusOK, code)
	var created model.Task
	require.NoError(t, json.Unmarshal(out["data"], &created))

	body := `[{"id":"` + created.ID + `","message":"Buy milk","completed":true},{"id":"ghost","message":"x"}]`
	code, _ = call(t, ts, http.MethodPut, BasePath, body, "")
	require.Equal(t, http.StatusNotFound, code)

	code, out = call(t, ts, http.MethodGet, BasePath, "", "")
	require.Equal(t, http.StatusOK, code)
	var all []model.Task
	require.NoError(t, json.Unmarshal(out["data"], &all))
	require.Len(t, all, 1)
	assert.False(t, all[0].Completed, "earlier rows of a failed batch are rolled back")
}

func TestServer_TokenRequiredWhenConfigured(t *testing.T) {
	ts := newTestServer(t, "s3cret")

	code, _ := call(t, ts, http.MethodGet, BasePath, "", "")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = call(t, ts, http.MethodGet, BasePath, "", "s3cret")
	assert.Equal(t, http.StatusOK, code)

	code, _ = call(t, ts, http.MethodGet, BasePath, "", "Bearer s3cret")
	assert.Equal(t, http.StatusOK, code)

	// Health check stays open.
	code, _ = call(t, ts, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, code)
}
