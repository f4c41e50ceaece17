package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kstack-dev/content-service/internal/config"
)

// HTTPProvider implements Provider against an HTTP object-storage endpoint
// (PUT to store, DELETE to remove). The provider responds to uploads with a
// JSON document describing the stored object.
type HTTPProvider struct {
	baseURL string
	bucket  string
	client  *http.Client
	logger  *zap.Logger
}

// NewHTTPProvider builds a provider client from storage configuration.
func NewHTTPProvider(cfg config.StorageConfig, logger *zap.Logger) *HTTPProvider {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HTTPProvider{
		baseURL: cfg.BaseURL,
		bucket:  cfg.Bucket,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

type uploadResponse struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Upload stores the object under a fresh key and returns its metadata.
func (p *HTTPProvider) Upload(ctx context.Context, obj Object) (*Stored, error) {
	externalID := uuid.NewString()
	url := p.objectURL(externalID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(obj.Data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", obj.ContentType)
	req.Header.Set("X-File-Name", obj.FileName)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("storage upload failed: %s: %s", resp.Status, body)
	}

	stored := &Stored{
		ExternalID: externalID,
		URL:        url,
		SizeBytes:  int64(len(obj.Data)),
	}
	var meta uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&meta); err == nil {
		if meta.URL != "" {
			stored.URL = meta.URL
		}
		stored.Width = meta.Width
		stored.Height = meta.Height
	}

	p.logger.Debug("uploaded object",
		zap.String("external_id", externalID),
		zap.Int64("size_bytes", stored.SizeBytes))
	return stored, nil
}

// Delete removes the object. A 404 maps to ErrNotFound so callers can treat
// an already-gone object as settled.
func (p *HTTPProvider) Delete(ctx context.Context, externalID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, p.objectURL(externalID), nil)
	if err != nil {
		return err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close() //nolint:errcheck

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("storage delete failed: %s", resp.Status)
	}
	return nil
}

func (p *HTTPProvider) objectURL(externalID string) string {
	return fmt.Sprintf("%s/%s/%s", p.baseURL, p.bucket, externalID)
}
