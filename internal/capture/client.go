// Package capture converts fully-rendered receipt HTML into raster images
// through an external Chromium-based capture service. The service is treated
// as opaque; this client only owns the HTTP contract.
package capture

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"
)

// Client wraps interactions with the capture API.
type Client struct {
	baseURL    string
	scale      float64
	httpClient *http.Client
}

// NewClient constructs a new client. scale is the device pixel-ratio
// multiplier applied to every screenshot; values below 1 fall back to 2.
func NewClient(baseURL string, scale float64) *Client {
	if scale < 1 {
		scale = 2
	}
	return &Client{
		baseURL: baseURL,
		scale:   scale,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Ping checks if the remote capture service is available.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/health", c.baseURL), nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("capture service returned status %d", resp.StatusCode)
	}
	return nil
}

// CapturePNG renders raw HTML to a PNG screenshot.
func (c *Client) CapturePNG(ctx context.Context, html string) ([]byte, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("files", "index.html")
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, bytes.NewBufferString(html)); err != nil {
		return nil, err
	}
	if err := writer.WriteField("format", "png"); err != nil {
		return nil, err
	}
	if err := writer.WriteField("scale", strconv.FormatFloat(c.scale, 'f', -1, 64)); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/forms/chromium/screenshot/html", c.baseURL), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("capture failed with status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
