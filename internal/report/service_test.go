package report

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propdesk/valuation-report/internal/images"
	"github.com/propdesk/valuation-report/internal/paginate"
	"github.com/propdesk/valuation-report/internal/raster"
	"github.com/propdesk/valuation-report/internal/record"
	"github.com/propdesk/valuation-report/internal/render"
)

// stubRasterizer returns a canned capture and remembers the HTML it was
// asked to rasterize, so pipeline tests run without a browser.
type stubRasterizer struct {
	capture *raster.Capture
	err     error
	gotHTML string
}

func (s *stubRasterizer) CaptureReport(_ context.Context, html string) (*raster.Capture, error) {
	s.gotHTML = html
	if s.err != nil {
		return nil, s.err
	}
	return s.capture, nil
}

func newTestService(t *testing.T, r raster.Rasterizer) *Service {
	t.Helper()
	resolver := record.NewResolver(record.DefaultAliases(), nil)
	renderer, err := render.NewRenderer(resolver, render.DefaultPhotosPerGridPage, nil)
	require.NoError(t, err)

	svc, err := NewService(
		resolver,
		renderer,
		images.NewMaterializer(2*time.Second, nil),
		r,
		paginate.Options{},
		NewAssembler(DefaultAssemblerOptions(), nil),
		ServiceOptions{},
		nil,
	)
	require.NoError(t, err)
	return svc
}

func sampleRecord() record.Record {
	return record.Record{
		"clientName":         "Ravi Kumar",
		"presentMarketValue": map[string]any{"amount": "5000000"},
	}
}

func TestGenerateEndToEnd(t *testing.T) {
	// Tall enough that the paginator needs more than one page.
	stub := &stubRasterizer{capture: &raster.Capture{
		Continuous: whiteCanvas(900, 3600),
		Blocks: []raster.BlockImage{
			{ID: "page-terms", Image: whiteCanvas(900, 1100)},
		},
		Scale: 2,
	}}
	svc := newTestService(t, stub)

	dir := t.TempDir()
	res, err := svc.Generate(context.Background(), GenerateRequest{
		Record:    sampleRecord(),
		OutputDir: dir,
	})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "valuation_Ravi_Kumar.pdf"), res.Path)
	assert.GreaterOrEqual(t, res.Pages, 2)

	data, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	assert.Equal(t, res.Size, int64(len(data)))

	rd, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	assert.Equal(t, res.Pages, rd.NumPage())

	assert.Contains(t, stub.gotHTML, "Ravi Kumar")
}

func TestGenerateExplicitOutputPath(t *testing.T) {
	stub := &stubRasterizer{capture: &raster.Capture{
		Continuous: whiteCanvas(900, 1200),
	}}
	svc := newTestService(t, stub)

	path := filepath.Join(t.TempDir(), "custom.pdf")
	res, err := svc.Generate(context.Background(), GenerateRequest{
		Record:     sampleRecord(),
		OutputPath: path,
	})
	require.NoError(t, err)
	assert.Equal(t, path, res.Path)

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestGenerateFilenameFallsBackToTimestamp(t *testing.T) {
	stub := &stubRasterizer{capture: &raster.Capture{
		Continuous: whiteCanvas(900, 1200),
	}}
	svc := newTestService(t, stub)

	res, err := svc.Generate(context.Background(), GenerateRequest{
		Record:    record.Record{},
		OutputDir: t.TempDir(),
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(res.Path), "valuation_"))
	assert.True(t, strings.HasSuffix(res.Path, ".pdf"))
}

func TestGenerateRasterizerFailureWritesNothing(t *testing.T) {
	stub := &stubRasterizer{err: fmt.Errorf("chrome exploded")}
	svc := newTestService(t, stub)

	dir := t.TempDir()
	_, err := svc.Generate(context.Background(), GenerateRequest{
		Record:    sampleRecord(),
		OutputDir: dir,
	})
	require.Error(t, err)

	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	assert.Empty(t, entries, "failed generation must not leave files behind")
}

func TestGenerateNilRecord(t *testing.T) {
	svc := newTestService(t, &stubRasterizer{})
	_, err := svc.Generate(context.Background(), GenerateRequest{})
	assert.Error(t, err)
}

func TestRenderHTMLNormalizesFirst(t *testing.T) {
	svc := newTestService(t, nil)

	res, err := svc.RenderHTML(RenderHTMLRequest{Record: record.Record{
		"pdfDetails": map[string]any{
			"basicInfo": map[string]any{"clientName": "Meena Joshi"},
		},
	}})
	require.NoError(t, err)
	assert.Contains(t, res.HTML, "Meena Joshi")
}

func TestInspectResolvesRequestedFields(t *testing.T) {
	svc := newTestService(t, nil)

	res, err := svc.Inspect(InspectRequest{
		Record: sampleRecord(),
		Fields: []string{"mobile", "clientName"},
	})
	require.NoError(t, err)
	require.Len(t, res.Fields, 2)

	// Sorted by field name.
	assert.Equal(t, "clientName", res.Fields[0].Name)
	assert.Equal(t, "Ravi Kumar", res.Fields[0].Value)
	assert.Equal(t, "mobile", res.Fields[1].Name)
	assert.Equal(t, record.DefaultFallback, res.Fields[1].Value)
}

func TestGenerateUsesConfiguredImageTunables(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		canvas := whiteCanvas(900, 600)
		require.NoError(t, png.Encode(w, canvas))
	}))
	defer srv.Close()

	resolver := record.NewResolver(record.DefaultAliases(), nil)
	renderer, err := render.NewRenderer(resolver, render.DefaultPhotosPerGridPage, nil)
	require.NoError(t, err)

	svc, err := NewService(
		resolver,
		renderer,
		images.NewMaterializer(2*time.Second, nil),
		&stubRasterizer{capture: &raster.Capture{Continuous: whiteCanvas(900, 1200)}},
		paginate.Options{},
		NewAssembler(DefaultAssemblerOptions(), nil),
		ServiceOptions{ExportWidth: 300, ImageQuality: 40},
		nil,
	)
	require.NoError(t, err)

	rec := record.Normalize(record.Record{
		"locationImages": []any{map[string]any{"url": srv.URL + "/site.png"}},
	})
	pages := svc.materializeImagePages(context.Background(), rec)

	require.Len(t, pages, 1)
	require.NotNil(t, pages[0].JPEG)
	assert.Equal(t, 300, pages[0].Width, "export width cap must come from service options")
	assert.Equal(t, 200, pages[0].Height)
}

func TestInspectDefaultsToAllAliases(t *testing.T) {
	svc := newTestService(t, nil)

	res, err := svc.Inspect(InspectRequest{Record: sampleRecord()})
	require.NoError(t, err)
	assert.Equal(t, len(record.DefaultAliases()), len(res.Fields))
}
