package crm

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

	"integrationhub/internal/shared/logger"
)

func TestClientConfig_Configured(t *testing.T) {
	assert.False(t, ClientConfig{}.Configured())
	assert.False(t, ClientConfig{ClientID: "id"}.Configured())
	assert.True(t, ClientConfig{PrivateToken: "pit"}.Configured())
	assert.True(t, ClientConfig{ClientID: "id", ClientSecret: "secret"}.Configured())
}

func TestClient_SearchContactsWithPrivateToken(t *testing.T) {
	var got SearchContactsRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/contacts/search", r.URL.Path)
		assert.Equal(t, "Bearer pit-1", r.Header.Get("Authorization"))
		assert.Equal(t, "2021-07-28", r.Header.Get("Version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = io.WriteString(w, `{"contacts":[{"id":"c1"}],"total":1}`)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{APIBaseURL: server.URL + "/", PrivateToken: "pit-1"}, server.Client(), nil, logger.NewNopLogger())
	data, err := client.SearchContacts(context.Background(), SearchContactsRequest{LocationID: "loc1", PageLimit: 5, Query: "ann"})
	require.NoError(t, err)

	assert.Equal(t, SearchContactsRequest{LocationID: "loc1", PageLimit: 5, Query: "ann"}, got)
	body := data.(map[string]interface{})
	assert.Equal(t, json.Number("1"), body["total"])
}

func TestClient_SearchContactsWithStoredSession(t *testing.T) {
	ctx := context.Background()
	storage, _, _ := newStorage()
	require.NoError(t, storage.SetSession(ctx, "loc1", Session{"accessToken": "session-at"}, 0))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer session-at", r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{"contacts":[]}`)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{APIBaseURL: server.URL, ClientID: "id", ClientSecret: "secret"}, server.Client(), storage, logger.NewNopLogger())
	_, err := client.SearchContacts(ctx, SearchContactsRequest{LocationID: "loc1", PageLimit: 10})
	require.NoError(t, err)

	_, err = client.SearchContacts(ctx, SearchContactsRequest{LocationID: "other", PageLimit: 10})
	assert.True(t, errors.Is(err, ErrNoSession))
}

func TestClient_SearchContactsUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"message":"Invalid JWT"}`)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{APIBaseURL: server.URL, PrivateToken: "pit"}, server.Client(), nil, logger.NewNopLogger())
	_, err := client.SearchContacts(context.Background(), SearchContactsRequest{LocationID: "loc1", PageLimit: 10})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
	assert.Contains(t, err.Error(), "Invalid JWT")
}
