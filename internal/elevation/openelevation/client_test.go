package openelevation_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terrasense/terrasense/internal/elevation/openelevation"
)

func TestClient_Elevation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/lookup", r.URL.Path)
		assert.Equal(t, "1.015700,35.006200", r.URL.Query().Get("locations"))

		response := map[string]interface{}{
			"results": []map[string]interface{}{
				{"latitude": 1.0157, "longitude": 35.0062, "elevation": 1894.0},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	client := openelevation.NewClient(openelevation.ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: server.Client(),
	})

	meters, err := client.Elevation(context.Background(), 1.0157, 35.0062)
	require.NoError(t, err)
	assert.Equal(t, 1894.0, meters)
}

func TestClient_Elevation_NoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"results": []map[string]interface{}{}})
	}))
	defer server.Close()

	client := openelevation.NewClient(openelevation.ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: server.Client(),
	})

	_, err := client.Elevation(context.Background(), 0, 0)
	require.ErrorIs(t, err, openelevation.ErrNoResults)
}

func TestClient_Elevation_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := openelevation.NewClient(openelevation.ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: server.Client(),
	})

	_, err := client.Elevation(context.Background(), 1.0, 35.0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestClient_Elevation_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"results": []map[string]interface{}{}})
	}))
	defer server.Close()

	client := openelevation.NewClient(openelevation.ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: server.Client(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Elevation(ctx, 1.0, 35.0)
	require.Error(t, err)
}
