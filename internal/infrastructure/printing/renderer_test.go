package printing

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildHTML(t *testing.T) {
	t.Run("wraps fragment", func(t *testing.T) {
		got := buildHTML(Document{HTML: "<p>Rent</p>", Title: "rent invoice RINV-202506-001"})
		assert.Contains(t, got, "<!DOCTYPE html>")
		assert.Contains(t, got, `<meta charset="UTF-8">`)
		assert.Contains(t, got, "<title>Rent Invoice RINV-202506-001</title>")
		assert.Contains(t, got, "<body><p>Rent</p></body>")
	})

	t.Run("complete document unchanged", func(t *testing.T) {
		doc := "<!doctype html><html><body>x</body></html>"
		assert.Equal(t, doc, buildHTML(Document{HTML: doc, Title: "ignored"}))
	})
}

func TestCountPages(t *testing.T) {
	pdf := []byte("<< /Type /Pages /Count 2 >> << /Type /Page >> << /Type /Page >>")
	assert.Equal(t, 2, countPages(pdf))
	assert.Equal(t, 1, countPages([]byte("%PDF-1.4")))
}

func TestRenderError(t *testing.T) {
	cause := errors.New("target closed")
	err := NewRenderError(ErrCodeRenderFailed, "chromedp execution failed", cause)
	assert.Equal(t, "chromedp execution failed: target closed", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestChromedpRenderer_EmptyHTML(t *testing.T) {
	r := NewChromedpRenderer(ChromedpConfig{})
	defer r.Close()

	_, err := r.RenderPDF(context.Background(), "   ")
	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, ErrCodeInvalidHTML, renderErr.Code)
}

func TestChromedpRenderer_Integration(t *testing.T) {
	if os.Getenv("CHROME_TEST") != "1" {
		t.Skip("set CHROME_TEST=1 with Chrome installed to run")
	}
	r := NewChromedpRenderer(ChromedpConfig{NoSandbox: true, Timeout: time.Minute})
	defer r.Close()

	res, err := r.Render(context.Background(), Document{HTML: "<h1>Invoice</h1>", Title: "rent invoice"})
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(res.PDF[:4]))
	assert.Equal(t, 1, res.Pages)
}
