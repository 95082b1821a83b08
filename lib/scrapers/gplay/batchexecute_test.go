package gplay

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeBatchPayload(t *testing.T) {
	body := ")]}'\n\n[[[\"wrb.fr\",\"lGYRle\",\"[[\\\"inner\\\",42]]\",null,null,null,\"generic\"]]]"
	decoded, err := decodeBatchPayload([]byte(body))
	require.NoError(t, err)
	require.Equal(t, []any{[]any{"inner", float64(42)}}, decoded)
}

func TestDecodeBatchPayloadEmptyFrame(t *testing.T) {
	body := ")]}'\n[[[\"wrb.fr\",\"lGYRle\",\"\",null,null,null,\"generic\"]]]"
	decoded, err := decodeBatchPayload([]byte(body))
	require.NoError(t, err)
	require.Nil(t, decoded)
}

func TestDecodeBatchPayloadGarbage(t *testing.T) {
	_, err := decodeBatchPayload([]byte("not an envelope"))
	require.ErrorIs(t, err, ErrParse)
}

func TestStatusError(t *testing.T) {
	require.NoError(t, statusError(200))
	require.ErrorIs(t, statusError(404), ErrNotFound)
	require.ErrorIs(t, statusError(429), ErrRateLimited)
	require.Error(t, statusError(500))
}

// batchEnvelope wraps an inner payload the way the RPC surface does.
func batchEnvelope(t *testing.T, rpcid string, inner any) string {
	innerJSON, err := json.Marshal(inner)
	require.NoError(t, err)
	frame := [][]any{{"wrb.fr", rpcid, string(innerJSON), nil, nil, nil, "generic"}}
	frameJSON, err := json.Marshal(frame)
	require.NoError(t, err)
	return ")]}'\n\n" + string(frameJSON)
}

func testClient(t *testing.T, handler http.Handler) *Client {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(ClientOptions{BaseUrl: server.URL})
	require.NoError(t, err)
	return client
}

func TestBatchExecuteRoundTrip(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, batchExecutePath, r.URL.Path)
		require.Equal(t, "lGYRle", r.URL.Query().Get("rpcids"))
		require.Equal(t, "en", r.URL.Query().Get("hl"))
		require.NoError(t, r.ParseForm())
		require.NotEmpty(t, r.PostForm.Get("f.req"))
		fmt.Fprint(w, batchEnvelope(t, "lGYRle", []any{"pong"}))
	}))

	decoded, err := client.batchExecute(context.Background(), rpcSearch, "[]", "", "")
	require.NoError(t, err)
	require.Equal(t, []any{"pong"}, decoded)
}

func TestBatchExecuteNotFound(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := client.batchExecute(context.Background(), rpcSearch, "[]", "", "")
	require.ErrorIs(t, err, ErrNotFound)
}
