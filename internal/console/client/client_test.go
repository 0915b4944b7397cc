package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epes-hq/epes/internal/console/client"
	_ "github.com/epes-hq/epes/testing"
)

func TestMissingTokenFailsBeforeNetwork(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	c := client.New(srv.URL)
	_, err := c.GET(context.Background(), "/anything", "", nil)
	require.ErrorIs(t, err, client.ErrNoToken)
	assert.Zero(t, hits.Load())
}

func TestBearerAndAcceptHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "v", r.URL.Query().Get("k"))
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := client.New(srv.URL)
	data, err := c.GET(context.Background(), "/x", "tok", url.Values{"k": {"v"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(data))
}

func TestNonSuccessStatusIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := client.New(srv.URL)
	_, err := c.GET(context.Background(), "/x", "tok", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestApplicationErrorFieldIsExtracted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"role not found"}`))
	}))
	defer srv.Close()

	c := client.New(srv.URL)
	_, err := c.PUT(context.Background(), "/x", "tok", map[string]string{"a": "b"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "role not found")
}

func TestNetworkFailureIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := client.New(srv.URL)
	_, err := c.DELETE(context.Background(), "/x", "tok", nil)
	require.Error(t, err)
}
