package imagehost

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auctionhub/api/internal/apperrors"
	"auctionhub/api/internal/config"
)

func newTestClient(endpoint string) *Client {
	return New(config.ImageHostConfig{Endpoint: endpoint, APIKey: "test-key"}, zerolog.Nop())
}

func TestUpload_Success(t *testing.T) {
	payload := []byte{0xFF, 0xD8, 0xFF, 0xE0}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "test-key", r.PostForm.Get("key"))
		assert.Equal(t, "lamp.jpg", r.PostForm.Get("name"))
		assert.Equal(t, base64.StdEncoding.EncodeToString(payload), r.PostForm.Get("image"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"status":200,"data":{"url":"https://host/lamp.jpg","delete_url":"https://host/delete/abc"}}`))
	}))
	defer srv.Close()

	result, err := newTestClient(srv.URL).Upload(context.Background(), "lamp.jpg", payload)
	require.NoError(t, err)
	assert.Equal(t, "https://host/lamp.jpg", result.URL)
	assert.Equal(t, "https://host/delete/abc", result.DeleteURL)
}

func TestUpload_HostRejects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":false,"status":400}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Upload(context.Background(), "lamp.jpg", []byte{0x01})
	assert.ErrorIs(t, err, apperrors.ErrImageNotUploaded)
}

func TestUpload_NonJSONResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream error"))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Upload(context.Background(), "lamp.jpg", []byte{0x01})
	assert.ErrorIs(t, err, apperrors.ErrImageNotUploaded)
}

func TestUpload_HostUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	_, err := newTestClient(srv.URL).Upload(context.Background(), "lamp.jpg", []byte{0x01})
	assert.ErrorIs(t, err, apperrors.ErrImageNotUploaded)
}

func TestDelete_CallsDeleteURL(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Equal(t, http.MethodDelete, r.Method)
	}))
	defer srv.Close()

	newTestClient(srv.URL).Delete(context.Background(), srv.URL+"/delete/abc")
	assert.True(t, called)
}
