package printing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	billingapp "github.com/rentquote/backend/internal/application/billing"
	"go.uber.org/zap"
)

var _ billingapp.PDFRenderer = (*ChromedpRenderer)(nil)

const defaultTimeout = 30 * time.Second

// ChromedpConfig configures the renderer
type ChromedpConfig struct {
	// RemoteURL points at a running Chrome (ws://chrome:9222); empty
	// launches a local headless browser
	RemoteURL string
	Timeout   time.Duration
	// NoSandbox is needed when Chrome runs as root inside a container
	NoSandbox bool
	Logger    *zap.Logger
}

// ChromedpRenderer prints HTML to A4 PDF through the DevTools protocol
type ChromedpRenderer struct {
	timeout     time.Duration
	logger      *zap.Logger
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

// NewChromedpRenderer creates a renderer. The browser starts lazily on the
// first render.
func NewChromedpRenderer(cfg ChromedpConfig) *ChromedpRenderer {
	r := &ChromedpRenderer{timeout: cfg.Timeout, logger: cfg.Logger}
	if r.timeout <= 0 {
		r.timeout = defaultTimeout
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}

	if cfg.RemoteURL != "" {
		r.allocCtx, r.allocCancel = chromedp.NewRemoteAllocator(context.Background(), cfg.RemoteURL)
		return r
	}
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.DisableGPU,
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("font-render-hinting", "none"),
	)
	if cfg.NoSandbox {
		opts = append(opts, chromedp.NoSandbox)
	}
	r.allocCtx, r.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
	return r
}

// RenderPDF prints an HTML invoice with the default margins
func (r *ChromedpRenderer) RenderPDF(ctx context.Context, html string) ([]byte, error) {
	res, err := r.Render(ctx, Document{HTML: html})
	if err != nil {
		return nil, err
	}
	return res.PDF, nil
}

// Render prints a document
func (r *ChromedpRenderer) Render(ctx context.Context, doc Document) (*Result, error) {
	if strings.TrimSpace(doc.HTML) == "" {
		return nil, NewRenderError(ErrCodeInvalidHTML, "HTML content is empty", nil)
	}
	margins := doc.Margins
	if margins == (Margins{}) {
		margins = DefaultMargins
	}

	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	tabCtx, tabCancel := chromedp.NewContext(r.allocCtx, chromedp.WithLogf(func(format string, args ...any) {
		r.logger.Debug(fmt.Sprintf(format, args...))
	}))
	defer tabCancel()
	// the tab must also stop when the caller's context ends
	stop := context.AfterFunc(ctx, tabCancel)
	defer stop()

	html := buildHTML(doc)
	var pdf []byte
	err := chromedp.Run(tabCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(mmToInches(a4Width)).
				WithPaperHeight(mmToInches(a4Height)).
				WithMarginTop(mmToInches(margins.Top)).
				WithMarginRight(mmToInches(margins.Right)).
				WithMarginBottom(mmToInches(margins.Bottom)).
				WithMarginLeft(mmToInches(margins.Left)).
				WithPreferCSSPageSize(true).
				Do(ctx)
			pdf = data
			return err
		}),
	)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, NewRenderError(ErrCodeRenderTimeout, fmt.Sprintf("PDF rendering timed out after %v", r.timeout), err)
		}
		r.logger.Error("chromedp rendering failed", zap.Error(err))
		return nil, NewRenderError(ErrCodeRenderFailed, "chromedp execution failed", err)
	}
	if len(pdf) == 0 {
		return nil, NewRenderError(ErrCodeRenderFailed, "generated PDF is empty", nil)
	}

	res := &Result{PDF: pdf, Pages: countPages(pdf), Duration: time.Since(start)}
	r.logger.Info("PDF rendered",
		zap.Int("bytes", len(pdf)),
		zap.Int("pages", res.Pages),
		zap.Duration("duration", res.Duration))
	return res, nil
}

// Close shuts the browser down
func (r *ChromedpRenderer) Close() error {
	if r.allocCancel != nil {
		r.allocCancel()
	}
	return nil
}
