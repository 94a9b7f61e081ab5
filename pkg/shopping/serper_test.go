package shopping

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchSendsQueryAndDecodesOffers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "secret", r.Header.Get("X-API-KEY"))

		var body searchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "michelin primacy 205/55R16", body.Q)
		assert.Equal(t, "mx", body.GL)
		assert.Equal(t, "es", body.HL)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"shopping":[
			{"title":"Llanta Michelin Primacy 4","source":"Llantas Express","price":"$2,099.00","position":1},
			{"title":"Michelin Primacy 4 205/55R16","source":"Grupo Avante","price":"$2,200.00","rating":4.5,"ratingCount":12,"position":2}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "secret", URL: srv.URL, Country: "mx", Language: "es", RequestsPerSecond: 10})
	offers, err := c.Search(context.Background(), "michelin primacy 205/55R16")
	require.NoError(t, err)
	require.Len(t, offers, 2)
	assert.Equal(t, "Llantas Express", offers[0].Source)
	assert.Equal(t, "$2,200.00", offers[1].Price)
	assert.Equal(t, 12, offers[1].Reviews)
}

func TestSearchNoShoppingKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"searchParameters":{"q":"x"}}`))
	}))
	defer srv.Close()

	offers, err := NewClient(Config{URL: srv.URL}).Search(context.Background(), "x")
	require.NoError(t, err)
	assert.NotNil(t, offers)
	assert.Empty(t, offers)
}

func TestSearchUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"Unauthorized."}`))
	}))
	defer srv.Close()

	_, err := NewClient(Config{URL: srv.URL}).Search(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=403")
}

func TestSearchHonoursCancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"shopping":[]}`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewClient(Config{URL: srv.URL, RequestsPerSecond: 1}).Search(ctx, "x")
	assert.Error(t, err)
}
