// Package raster captures the rendered HTML report as raster images using
// headless Chrome. The continuous region comes back as one tall image for
// the paginator; explicitly page-broken blocks are captured whole.
package raster

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/png"
	"os"
	"strconv"
	"time"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

const (
	// DefaultCaptureTimeout bounds one full capture session.
	DefaultCaptureTimeout = 120 * time.Second

	// DefaultImageSettleTimeout is the per-image load/error race timeout.
	DefaultImageSettleTimeout = 5 * time.Second

	// viewportWidth is the CSS width the report is laid out at.
	viewportWidth = 900

	// deviceScale renders at 2x for crisp page rasters.
	deviceScale = 2
)

// BlockImage is one explicitly page-broken element captured whole.
type BlockImage struct {
	ID    string
	Image image.Image
}

// Capture is the raster output of one report document.
type Capture struct {
	// Continuous is the tall raster of the flowable region, to be sliced.
	Continuous image.Image
	// Blocks are the one-per-page elements, in document order.
	Blocks []BlockImage
	// Scale is the device pixels per CSS pixel the capture used.
	Scale float64
}

// Rasterizer turns a rendered HTML document into raster images. It is an
// interface so the report service can be exercised without a browser.
type Rasterizer interface {
	CaptureReport(ctx context.Context, html string) (*Capture, error)
}

// ChromeRasterizer rasterizes via a headless Chrome session owned by one
// capture call at a time.
type ChromeRasterizer struct {
	timeout       time.Duration
	settleTimeout time.Duration
	logger        *zap.Logger
}

// NewChromeRasterizer creates a rasterizer with the given timeouts.
func NewChromeRasterizer(timeout, settleTimeout time.Duration, logger *zap.Logger) *ChromeRasterizer {
	if timeout <= 0 {
		timeout = DefaultCaptureTimeout
	}
	if settleTimeout <= 0 {
		settleTimeout = DefaultImageSettleTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChromeRasterizer{timeout: timeout, settleTimeout: settleTimeout, logger: logger}
}

// CaptureReport loads the document, waits for every image to settle
// (load, error or timeout), strips containers whose images failed, then
// captures the continuous region and each .page block. The temporary file
// and the browser context are released on every path.
func (r *ChromeRasterizer) CaptureReport(ctx context.Context, html string) (*Capture, error) {
	tmpPath, cleanup, err := writeTempHTML(html)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.WindowSize(viewportWidth, 1280),
		chromedp.Flag("force-device-scale-factor", strconv.Itoa(deviceScale)),
		chromedp.Flag("hide-scrollbars", true),
	)...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, r.timeout)
	defer cancelTimeout()

	var settled bool
	var blockIDs []string
	var continuousBuf []byte

	err = chromedp.Run(browserCtx,
		chromedp.Navigate("file://"+tmpPath),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Evaluate(settleScript(r.settleTimeout), &settled, awaitPromise),
		chromedp.Evaluate(`[...document.querySelectorAll('.page')].map(e => e.id).filter(id => id !== '')`, &blockIDs),
		chromedp.Screenshot("#report-body", &continuousBuf, chromedp.NodeVisible, chromedp.ByID),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to capture report body: %w", err)
	}

	continuous, _, err := image.Decode(bytes.NewReader(continuousBuf))
	if err != nil {
		return nil, fmt.Errorf("failed to decode report body raster: %w", err)
	}

	capture := &Capture{
		Continuous: continuous,
		Scale:      deviceScale,
	}

	for _, id := range blockIDs {
		var buf []byte
		if err := chromedp.Run(browserCtx,
			chromedp.Screenshot("#"+id, &buf, chromedp.NodeVisible, chromedp.ByID),
		); err != nil {
			// A block page degrades to omitted, matching image failures.
			r.logger.Warn("failed to capture page block, skipping",
				zap.String("block", id),
				zap.Error(err),
			)
			continue
		}
		img, _, err := image.Decode(bytes.NewReader(buf))
		if err != nil {
			r.logger.Warn("failed to decode page block raster, skipping",
				zap.String("block", id),
				zap.Error(err),
			)
			continue
		}
		capture.Blocks = append(capture.Blocks, BlockImage{ID: id, Image: img})
	}

	r.logger.Info("report captured",
		zap.Int("continuousHeight", continuous.Bounds().Dy()),
		zap.Int("blocks", len(capture.Blocks)),
	)
	return capture, nil
}

func awaitPromise(p *runtime.EvaluateParams) *runtime.EvaluateParams {
	return p.WithAwaitPromise(true)
}

// settleScript resolves once every image has loaded, errored or timed
// out. Failed images have their nearest [data-image-container] ancestor
// removed so the raster never shows a broken-image placeholder.
func settleScript(timeout time.Duration) string {
	ms := int(timeout / time.Millisecond)
	return `(() => new Promise((resolve) => {
	const imgs = Array.from(document.images);
	if (imgs.length === 0) { resolve(true); return; }
	let pending = imgs.length;
	const drop = (img) => {
		const holder = img.closest('[data-image-container]');
		if (holder) { holder.remove(); } else { img.remove(); }
	};
	const settle = (img, ok) => {
		if (!ok) drop(img);
		if (--pending === 0) resolve(true);
	};
	imgs.forEach((img) => {
		if (img.complete) { settle(img, img.naturalWidth > 0); return; }
		const timer = setTimeout(() => settle(img, false), ` + strconv.Itoa(ms) + `);
		img.addEventListener('load', () => { clearTimeout(timer); settle(img, img.naturalWidth > 0); });
		img.addEventListener('error', () => { clearTimeout(timer); settle(img, false); });
	});
}))()`
}

// writeTempHTML stages the document on disk so Chrome can load it over
// file://. The cleanup func removes it on success and failure paths alike.
func writeTempHTML(html string) (path string, cleanup func(), err error) {
	f, err := os.CreateTemp("", "valuation-report-*.html")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temp html: %w", err)
	}
	path = f.Name()
	cleanup = func() { _ = os.Remove(path) }

	if _, err := f.WriteString(html); err != nil {
		_ = f.Close()
		cleanup()
		return "", nil, fmt.Errorf("failed to write temp html: %w", err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("failed to close temp html: %w", err)
	}
	return path, cleanup, nil
}
