// Package images resolves the heterogeneous image references a valuation
// record carries and converts remote images into embeddable JPEG data.
package images

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"
)

const (
	// MaxPreviewWidth caps images downscaled for quick preview use.
	MaxPreviewWidth = 400
	// MaxExportWidth caps images downscaled for export-quality use.
	MaxExportWidth = 1200

	// DefaultFetchTimeout bounds a single image fetch, matching the
	// per-image load settlement timeout on the rasterizer side.
	DefaultFetchTimeout = 5 * time.Second

	// maxConcurrentFetches bounds parallel image materialization.
	maxConcurrentFetches = 4
)

// urlKeys are the object fields tried, in order, when an image reference
// is an object instead of a plain string.
var urlKeys = []string{"url", "preview", "data", "src", "secure_url"}

// acceptedPrefixes are the only URI schemes an image reference may carry.
var acceptedPrefixes = []string{"data:", "blob:", "http://", "https://"}

// ExtractURL normalizes an image reference to a single source string. A
// reference is either a plain string or an object carrying one of the
// known URL fields. Anything without a recognized scheme resolves to "".
func ExtractURL(ref any) string {
	switch v := ref.(type) {
	case string:
		return acceptURL(v)
	case map[string]any:
		for _, key := range urlKeys {
			if s, ok := v[key].(string); ok {
				if u := acceptURL(s); u != "" {
					return u
				}
			}
		}
		return ""
	default:
		return ""
	}
}

func acceptURL(s string) string {
	s = strings.TrimSpace(s)
	for _, prefix := range acceptedPrefixes {
		if strings.HasPrefix(s, prefix) {
			return s
		}
	}
	return ""
}

// Materialized is one image reference converted for embedding.
type Materialized struct {
	Source string // the extracted source string
	JPEG   []byte // re-encoded image bytes, nil when the image failed
	Width  int
	Height int
}

// Materializer fetches image references and re-encodes them as bounded
// size JPEGs. Every failure degrades to an omitted image; a single bad
// reference never aborts a report.
type Materializer struct {
	client *http.Client
	logger *zap.Logger
}

// NewMaterializer creates a materializer with the given fetch timeout.
func NewMaterializer(timeout time.Duration, logger *zap.Logger) *Materializer {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Materializer{
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// ToBase64 fetches a resource, downsizes it to maxWidth if wider,
// re-encodes it as JPEG at the given quality (1-100) and returns a data
// URI. It returns "" on any fetch or decode failure rather than an error,
// so one broken image never aborts the whole report.
func (m *Materializer) ToBase64(ctx context.Context, url string, maxWidth, quality int) string {
	data, _, err := m.FetchJPEG(ctx, url, maxWidth, quality)
	if err != nil {
		m.logger.Warn("image materialization failed",
			zap.String("url", truncateURL(url)),
			zap.Error(err),
		)
		return ""
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(data)
}

// FetchJPEG fetches and re-encodes one image, returning the JPEG bytes
// and the decoded bounds after downscaling.
func (m *Materializer) FetchJPEG(ctx context.Context, url string, maxWidth, quality int) ([]byte, image.Rectangle, error) {
	raw, err := m.fetch(ctx, url)
	if err != nil {
		return nil, image.Rectangle{}, err
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, image.Rectangle{}, fmt.Errorf("failed to decode image: %w", err)
	}

	if maxWidth > 0 && img.Bounds().Dx() > maxWidth {
		img = imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, image.Rectangle{}, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), img.Bounds(), nil
}

// MaterializeAll converts a batch of references concurrently, preserving
// input order. Failed references produce entries with nil JPEG bytes. The
// call returns only after every reference has settled.
func (m *Materializer) MaterializeAll(ctx context.Context, refs []any, maxWidth, quality int) []Materialized {
	out := make([]Materialized, len(refs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)

	for i, ref := range refs {
		out[i].Source = ExtractURL(ref)
		if out[i].Source == "" {
			continue
		}
		g.Go(func() error {
			data, bounds, err := m.FetchJPEG(ctx, out[i].Source, maxWidth, quality)
			if err != nil {
				m.logger.Warn("image omitted from report",
					zap.String("url", truncateURL(out[i].Source)),
					zap.Error(err),
				)
				return nil
			}
			out[i].JPEG = data
			out[i].Width = bounds.Dx()
			out[i].Height = bounds.Dy()
			return nil
		})
	}

	// Workers only ever return nil; Wait is the settlement barrier.
	_ = g.Wait()
	return out
}

func (m *Materializer) fetch(ctx context.Context, url string) ([]byte, error) {
	switch {
	case strings.HasPrefix(url, "data:"):
		return decodeDataURI(url)
	case strings.HasPrefix(url, "http://"), strings.HasPrefix(url, "https://"):
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("invalid image URL: %w", err)
		}
		resp, err := m.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("image fetch failed: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("image fetch returned status %d", resp.StatusCode)
		}
		return io.ReadAll(resp.Body)
	default:
		// blob: references only exist inside a browser session.
		return nil, fmt.Errorf("unsupported image scheme in %q", truncateURL(url))
	}
}

func decodeDataURI(uri string) ([]byte, error) {
	idx := strings.Index(uri, ",")
	if idx < 0 {
		return nil, fmt.Errorf("malformed data URI")
	}
	meta, payload := uri[:idx], uri[idx+1:]
	if !strings.Contains(meta, "base64") {
		return nil, fmt.Errorf("unsupported data URI encoding")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 payload: %w", err)
	}
	return data, nil
}

func truncateURL(url string) string {
	if len(url) > 96 {
		return url[:96] + "..."
	}
	return url
}
