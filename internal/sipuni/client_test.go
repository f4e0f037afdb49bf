package sipuni

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_NotConfigured(t *testing.T) {
	client := NewClient("https://example.invalid", "", "", time.Second)

	_, err := client.ListCampaigns(context.Background(), 50, 0)
	assert.ErrorIs(t, err, ErrNotConfigured)

	err = client.StartCampaign(context.Background(), "1")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestClient_SendsBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "main-token", "", time.Second)
	_, err := client.Lines(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer main-token", gotAuth)
}

func TestClient_AutocallEndpointsUseAutocallToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "main-token", "autocall-token", time.Second)
	_, err := client.ListCampaigns(context.Background(), 50, 0)
	require.NoError(t, err)
	assert.Equal(t, "Bearer autocall-token", gotAuth)
}

func TestClient_ErrorMessageExtraction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"autocall not found"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "token", "", time.Second)
	_, err := client.GetCampaign(context.Background(), "1")
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "autocall not found", apiErr.Message)
}

func TestClient_ErrorWithUnparseableBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`<html>upstream exploded</html>`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "token", "", time.Second)
	_, err := client.Lines(context.Background())
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.NotEmpty(t, apiErr.Message)
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "token", "", 20*time.Millisecond)
	_, err := client.ListCampaigns(context.Background(), 50, 0)
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestClient_GetCampaignPicksMatchingEntry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[{"id":1,"name":"first"},{"id":2,"name":"second"}]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "token", "", time.Second)
	campaign, err := client.GetCampaign(context.Background(), "2")
	require.NoError(t, err)
	assert.Equal(t, "second", campaign.Name)
}

func TestClient_CreateCampaignUnwrapsEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.Write([]byte(`{"data":{"autocall":{"id":41,"name":"new campaign","state":0}}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "token", "", time.Second)
	campaign, err := client.CreateCampaign(context.Background(), &CreateCampaignPayload{Name: "new campaign"})
	require.NoError(t, err)
	assert.Equal(t, "41", campaign.ID.String())
	assert.Equal(t, "new campaign", campaign.Name)
}
