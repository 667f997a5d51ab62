package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderProducesHTML(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	doc := BuildDocument(sampleReceipt(), sampleSettings(), false)
	html, err := r.Render(doc)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))
	assert.Contains(t, html, "Ada Bakes")
	assert.Contains(t, html, "₦3,300.00")
	assert.Contains(t, html, "TOTAL PAID")
	assert.NotContains(t, html, `<div class="watermark-pending"`)
	assert.NotContains(t, html, `<div class="watermark-preview"`)
}

func TestRenderDeterministic(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	doc := BuildDocument(sampleReceipt(), sampleSettings(), true)
	first, err := r.Render(doc)
	require.NoError(t, err)
	second, err := r.Render(doc)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRenderPendingWatermark(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	rec := sampleReceipt()
	rec.Status = "pending"
	html, err := r.Render(BuildDocument(rec, sampleSettings(), false))
	require.NoError(t, err)

	assert.Contains(t, html, `<div class="watermark-pending"`)
	assert.Contains(t, html, "PENDING")
	assert.Contains(t, html, "TOTAL DUE")
}

func TestRenderPreviewWatermarkOnlyInPreview(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	rec := sampleReceipt()
	preview, err := r.Render(BuildDocument(rec, sampleSettings(), true))
	require.NoError(t, err)
	assert.Contains(t, preview, `<div class="watermark-preview"`)

	export, err := r.Render(BuildDocument(rec, sampleSettings(), false))
	require.NoError(t, err)
	assert.NotContains(t, export, `<div class="watermark-preview"`)
}

func TestRenderMonogramWhenNoLogo(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	st := sampleSettings()
	st.LogoURL = ""
	html, err := r.Render(BuildDocument(sampleReceipt(), st, false))
	require.NoError(t, err)
	assert.Contains(t, html, `class="monogram"`)

	st.ShowLogo = false
	html, err = r.Render(BuildDocument(sampleReceipt(), st, false))
	require.NoError(t, err)
	assert.NotContains(t, html, `class="monogram"`)
}
