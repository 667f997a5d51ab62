package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/receiptly/receiptly/internal/capture"
	"github.com/receiptly/receiptly/internal/render"
)

// RenderCLI turns a receipt draft file into a standalone HTML document or,
// with a capture service configured, the exported PNG.
type RenderCLI struct {
	renderer   *render.Renderer
	screenshot *capture.Client
}

// NewRenderCLI parses the embedded receipt templates. captureURL is only
// needed for PNG output.
func NewRenderCLI(captureURL string, captureScale float64) (*RenderCLI, error) {
	renderer, err := render.NewRenderer()
	if err != nil {
		return nil, err
	}
	return &RenderCLI{
		renderer:   renderer,
		screenshot: capture.NewClient(captureURL, captureScale),
	}, nil
}

// RenderFile reads a draft payload from path and writes the rendered output
// to outPath. Preview mode adds the draft watermark; png routes the HTML
// through the capture service.
func (c *RenderCLI) RenderFile(ctx context.Context, path, outPath string, preview, png bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("render cli: read draft: %w", err)
	}

	var req render.DraftPreviewRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return fmt.Errorf("render cli: parse draft: %w", err)
	}

	rec := render.DraftReceipt(req.Receipt)
	st := render.Settings{
		BusinessName:  req.Business.Name,
		Tagline:       req.Business.Tagline,
		Phone:         req.Business.Phone,
		FooterMessage: req.Business.FooterMessage,
		Currency:      req.Business.Currency,
		AccentColor:   req.Business.AccentColor,
		ShowLogo:      req.Business.ShowLogo,
		LogoURL:       req.Business.LogoURL,
	}

	html, err := c.renderer.Render(render.BuildDocument(&rec, st, preview))
	if err != nil {
		return fmt.Errorf("render cli: render: %w", err)
	}

	out := []byte(html)
	if png {
		out, err = c.screenshot.CapturePNG(ctx, html)
		if err != nil {
			return fmt.Errorf("render cli: capture: %w", err)
		}
	}
	if err := os.WriteFile(outPath, out, 0o644); err != nil {
		return fmt.Errorf("render cli: write output: %w", err)
	}
	return nil
}
