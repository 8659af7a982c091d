package edamam

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caltrack/backend/internal/domain"
)

func newTestClient(baseURL string) *Client {
	return NewClient(ClientConfig{
		AppID:   "test-app-id",
		AppKey:  "test-app-key",
		BaseURL: baseURL,
		Timeout: 2 * time.Second,
	}, nil)
}

func TestNewClient(t *testing.T) {
	client := newTestClient("https://api.example.com")

	assert.NotNil(t, client)
	assert.Equal(t, "test-app-id", client.appID)
	assert.Equal(t, "test-app-key", client.appKey)
	assert.Equal(t, "https://api.example.com", client.baseURL)
	assert.Equal(t, 2*time.Second, client.httpClient.Timeout)
	assert.NotNil(t, client.rateLimiter)
	assert.False(t, client.debug)
	assert.True(t, client.Configured())
}

func TestNewClient_Defaults(t *testing.T) {
	client := NewClient(ClientConfig{}, nil)

	assert.Equal(t, DefaultBaseURL, client.baseURL)
	assert.Equal(t, 30*time.Second, client.httpClient.Timeout)
	assert.Equal(t, 10, client.rateLimiter.Burst())
	assert.False(t, client.Configured())
}

func TestSetDebug(t *testing.T) {
	client := newTestClient("https://api.example.com")

	client.SetDebug(true)
	assert.True(t, client.debug)

	client.SetDebug(false)
	assert.False(t, client.debug)
}

func TestSearchRecipes_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/recipes/v2", r.URL.Path)
		assert.Equal(t, "public", r.URL.Query().Get("type"))
		assert.Equal(t, "banana bread", r.URL.Query().Get("q"))
		assert.Equal(t, "test-app-id", r.URL.Query().Get("app_id"))
		assert.Equal(t, "test-app-key", r.URL.Query().Get("app_key"))

		response := domain.EdamamSearchResponse{
			Count: 1,
			Hits: []domain.EdamamHit{
				{Recipe: domain.EdamamRecipe{Label: "Banana Bread", Calories: 2000, TotalWeight: 800}},
			},
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	result, err := client.SearchRecipes(context.Background(), "banana bread")

	require.NoError(t, err)
	require.Len(t, result.Hits, 1)
	assert.Equal(t, "Banana Bread", result.Hits[0].Recipe.Label)
	assert.Equal(t, 800.0, result.Hits[0].Recipe.TotalWeight)
}

func TestSearchRecipes_EmptyHits(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"from":0,"to":0,"count":0,"hits":[]}`))
	}))
	defer server.Close()

	result, err := newTestClient(server.URL).SearchRecipes(context.Background(), "unknown_food_xyz")

	require.NoError(t, err)
	assert.Empty(t, result.Hits)
}

func TestSearchRecipes_MissingCredentials(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL}, nil)

	result, err := client.SearchRecipes(context.Background(), "apple")

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrNutritionAPIUnavailable)
	assert.False(t, called, "no request should be made without credentials")
}

func TestSearchRecipes_ServerError_NoRetry(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	result, err := newTestClient(server.URL).SearchRecipes(context.Background(), "apple")

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrNutritionAPIFailure)
	assert.Contains(t, err.Error(), "status 500")
	assert.Equal(t, 1, attempts)
}

func TestSearchRecipes_Unauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Unauthorized app_id = test-app-id"}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).SearchRecipes(context.Background(), "apple")

	assert.ErrorIs(t, err, domain.ErrNutritionAPIFailure)
}

func TestSearchRecipes_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("invalid json"))
	}))
	defer server.Close()

	result, err := newTestClient(server.URL).SearchRecipes(context.Background(), "apple")

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrMalformedResponse)
}

func TestSearchRecipes_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := newTestClient(url).SearchRecipes(context.Background(), "apple")

	assert.ErrorIs(t, err, domain.ErrNutritionAPIFailure)
}

func TestSearchRecipes_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := newTestClient(server.URL).SearchRecipes(ctx, "apple")

	assert.ErrorIs(t, err, domain.ErrNutritionAPIFailure)
}
