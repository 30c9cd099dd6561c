package irail

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLiveboardRequestShape(t *testing.T) {
	var gotQuery string
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte(`{"station": "Brussels-South"}`))
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, 0)
	board, err := client.Liveboard(context.Background(), "Brussels-South")
	require.NoError(t, err)

	assert.Equal(t, "Brussels-South", board.Station.Value())
	assert.Contains(t, gotQuery, "station=Brussels-South")
	assert.Contains(t, gotQuery, "format=json")
	assert.Contains(t, gotQuery, "lang=en")
	assert.Equal(t, "BeCodeAzureProject/1.0 (learning@becode.org)", gotUA)
}

func TestLiveboardHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("no such station"))
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, 0)
	_, err := client.Liveboard(context.Background(), "Nowhere")
	require.Error(t, err)

	var irailErr *Error
	require.ErrorAs(t, err, &irailErr)
	assert.Equal(t, KindHTTPStatus, irailErr.Kind)
	assert.Equal(t, http.StatusNotFound, irailErr.Status)
	assert.Contains(t, irailErr.Body, "no such station")
}

func TestLiveboardTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, 20*time.Millisecond)
	_, err := client.Liveboard(context.Background(), "Brussels-South")
	require.Error(t, err)

	var irailErr *Error
	require.ErrorAs(t, err, &irailErr)
	assert.Equal(t, KindTimeout, irailErr.Kind)
}

func TestLiveboardContextDeadline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	client := NewHTTPClient(server.URL, 0)
	_, err := client.Liveboard(ctx, "Brussels-South")
	require.Error(t, err)

	var irailErr *Error
	require.ErrorAs(t, err, &irailErr)
	assert.Equal(t, KindTimeout, irailErr.Kind)
}

func TestLiveboardUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewHTTPClient(server.URL, 0)
	_, err := client.Liveboard(context.Background(), "Brussels-South")
	require.Error(t, err)

	var irailErr *Error
	require.ErrorAs(t, err, &irailErr)
	assert.Equal(t, KindUnavailable, irailErr.Kind)
}

func TestLiveboardMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>definitely not json</html>"))
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, 0)
	_, err := client.Liveboard(context.Background(), "Brussels-South")
	require.Error(t, err)

	var irailErr *Error
	require.ErrorAs(t, err, &irailErr)
	assert.Equal(t, KindMalformed, irailErr.Kind)
}

func TestNewHTTPClientDefaults(t *testing.T) {
	client := NewHTTPClient("", 0)
	assert.Equal(t, DefaultBaseURL, client.BaseURL)
}
