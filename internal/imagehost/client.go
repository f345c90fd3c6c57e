// Package imagehost uploads image binaries to an imgbb-style hosting API
// and records the URLs needed to serve and later delete them.
package imagehost

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"auctionhub/api/internal/apperrors"
	"auctionhub/api/internal/config"
)

// Uploader is the surface services depend on.
type Uploader interface {
	Upload(ctx context.Context, name string, data []byte) (UploadResult, error)
	Delete(ctx context.Context, deleteURL string)
}

type UploadResult struct {
	URL       string
	DeleteURL string
}

type uploadResponse struct {
	Success bool `json:"success"`
	Status  int  `json:"status"`
	Data    struct {
		URL       string `json:"url"`
		DeleteURL string `json:"delete_url"`
	} `json:"data"`
}

type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client
	log      zerolog.Logger
}

func New(cfg config.ImageHostConfig, log zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		http:     &http.Client{Timeout: timeout},
		log:      log,
	}
}

// Upload posts the image as a base64 form field, matching the host's API.
func (c *Client) Upload(ctx context.Context, name string, data []byte) (UploadResult, error) {
	form := url.Values{}
	form.Set("key", c.apiKey)
	form.Set("name", name)
	form.Set("image", base64.StdEncoding.EncodeToString(data))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return UploadResult{}, fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return UploadResult{}, fmt.Errorf("%w: %v", apperrors.ErrImageNotUploaded, err)
	}
	defer resp.Body.Close()

	var body uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return UploadResult{}, fmt.Errorf("%w: decode response: %v", apperrors.ErrImageNotUploaded, err)
	}
	if !body.Success || body.Data.URL == "" {
		c.log.Error().Int("status", body.Status).Str("name", name).Msg("image host rejected upload")
		return UploadResult{}, apperrors.ErrImageNotUploaded
	}

	return UploadResult{URL: body.Data.URL, DeleteURL: body.Data.DeleteURL}, nil
}

// Delete is best effort; the host reclaims orphans on its own schedule.
func (c *Client) Delete(ctx context.Context, deleteURL string) {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, deleteURL, nil)
	if err != nil {
		c.log.Error().Err(err).Msg("build image delete request failed")
		return
	}
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error().Err(err).Str("url", deleteURL).Msg("image delete failed")
		return
	}
	resp.Body.Close()
	if resp.StatusCode >= 300 {
		c.log.Warn().Int("status", resp.StatusCode).Str("url", deleteURL).Msg("image host refused delete")
	}
}
