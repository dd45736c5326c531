// Package report drives the whole pipeline: normalize the record, render
// the HTML document, rasterize it, re-paginate the raster on table
// borders and assemble the final PDF.
package report

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/propdesk/valuation-report/internal/images"
	"github.com/propdesk/valuation-report/internal/paginate"
	"github.com/propdesk/valuation-report/internal/raster"
	"github.com/propdesk/valuation-report/internal/record"
	"github.com/propdesk/valuation-report/internal/render"
)

// ServiceOptions are the image tunables of the pipeline. Zero values use
// defaults.
type ServiceOptions struct {
	// ExportWidth caps the pixel width of full-page images.
	ExportWidth int
	// ImageQuality is the JPEG re-encode quality for full-page images.
	ImageQuality int
}

// DefaultServiceOptions returns the export-image tunables.
func DefaultServiceOptions() ServiceOptions {
	return ServiceOptions{
		ExportWidth:  images.MaxExportWidth,
		ImageQuality: 70,
	}
}

// Service owns one report-generation pipeline. A Generate call runs to
// completion or returns a single error; no partial file is ever left on
// disk.
type Service struct {
	resolver     *record.Resolver
	renderer     *render.Renderer
	materializer *images.Materializer
	rasterizer   raster.Rasterizer
	slicerOpts   paginate.Options
	assembler    *Assembler
	opts         ServiceOptions
	logger       *zap.Logger
}

// NewService wires the pipeline. The rasterizer is injected so callers
// without a browser (tests, HTML-only consumers) can substitute one.
func NewService(
	resolver *record.Resolver,
	renderer *render.Renderer,
	materializer *images.Materializer,
	rasterizer raster.Rasterizer,
	slicerOpts paginate.Options,
	assembler *Assembler,
	opts ServiceOptions,
	logger *zap.Logger,
) (*Service, error) {
	if resolver == nil || renderer == nil || materializer == nil || assembler == nil {
		return nil, fmt.Errorf("resolver, renderer, materializer and assembler are required")
	}
	def := DefaultServiceOptions()
	if opts.ExportWidth <= 0 {
		opts.ExportWidth = def.ExportWidth
	}
	if opts.ImageQuality <= 0 {
		opts.ImageQuality = def.ImageQuality
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		resolver:     resolver,
		renderer:     renderer,
		materializer: materializer,
		rasterizer:   rasterizer,
		slicerOpts:   slicerOpts,
		assembler:    assembler,
		opts:         opts,
		logger:       logger,
	}, nil
}

// RenderHTML normalizes the record and returns the report markup.
func (s *Service) RenderHTML(req RenderHTMLRequest) (*RenderHTMLResult, error) {
	if req.Record == nil {
		return nil, fmt.Errorf("record cannot be nil")
	}
	html, err := s.renderer.Render(record.Normalize(req.Record))
	if err != nil {
		return nil, err
	}
	return &RenderHTMLResult{HTML: html}, nil
}

// Generate runs the full pipeline and writes the PDF. The output is
// validated before the file is persisted; on any failure nothing is
// written.
func (s *Service) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	if req.Record == nil {
		return nil, fmt.Errorf("record cannot be nil")
	}
	if s.rasterizer == nil {
		return nil, fmt.Errorf("no rasterizer configured")
	}

	started := time.Now()
	normalized := record.Normalize(req.Record)

	html, err := s.renderer.Render(normalized)
	if err != nil {
		return nil, fmt.Errorf("report generation failed: %w", err)
	}

	capture, err := s.rasterizer.CaptureReport(ctx, html)
	if err != nil {
		return nil, fmt.Errorf("report generation failed: %w", err)
	}

	master := toRGBA(capture.Continuous)

	opts := s.slicerOpts
	if opts.PageHeight <= 0 {
		opts.PageHeight = s.assembler.UsableHeightPx(master.Bounds().Dx())
	}
	slicer := paginate.NewSlicer(opts, s.logger)
	slices := slicer.Slice(master)

	imagePages := s.materializeImagePages(ctx, normalized)

	data, err := s.assembler.Build(master, slices, capture.Blocks, imagePages)
	if err != nil {
		return nil, fmt.Errorf("report generation failed: %w", err)
	}

	pages, err := verifyPDF(data)
	if err != nil {
		return nil, fmt.Errorf("report generation failed: %w", err)
	}

	path, err := s.outputPath(req, normalized)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to save report: %w", err)
	}

	s.logger.Info("report generated",
		zap.String("path", path),
		zap.Int("pages", pages),
		zap.Duration("took", time.Since(started)),
	)
	return &GenerateResult{Path: path, Pages: pages, Size: int64(len(data))}, nil
}

// Inspect reports how logical fields resolve for a record, for alias
// table debugging.
func (s *Service) Inspect(req InspectRequest) (*InspectResult, error) {
	if req.Record == nil {
		return nil, fmt.Errorf("record cannot be nil")
	}

	normalized := record.Normalize(req.Record)
	names := req.Fields
	if len(names) == 0 {
		for name := range record.DefaultAliases() {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	result := &InspectResult{Fields: make([]ResolvedField, 0, len(names))}
	for _, name := range names {
		result.Fields = append(result.Fields, ResolvedField{
			Name:  name,
			Value: s.resolver.Resolve(normalized, name),
		})
	}
	return result, nil
}

// materializeImagePages fetches the one-per-page images (location photos
// and supporting documents) at export quality. Failures settle as omitted
// entries; the call returns only once every reference has settled.
func (s *Service) materializeImagePages(ctx context.Context, normalized record.Record) []images.Materialized {
	var refs []any
	for _, key := range []string{"locationImages", "documentPreviews"} {
		if list, ok := normalized[key].([]any); ok {
			refs = append(refs, list...)
		}
	}
	if len(refs) == 0 {
		return nil
	}
	return s.materializer.MaterializeAll(ctx, refs, s.opts.ExportWidth, s.opts.ImageQuality)
}

var unsafeFilename = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// outputPath derives valuation_<clientName-or-id-or-timestamp>.pdf unless
// the request names an explicit path.
func (s *Service) outputPath(req GenerateRequest, normalized record.Record) (string, error) {
	if req.OutputPath != "" {
		return req.OutputPath, nil
	}

	stem := s.resolver.ResolveDefault(normalized, "clientName", "")
	if stem == "" {
		stem = s.resolver.ResolveDefault(normalized, "caseID", "")
	}
	if stem == "" {
		stem = time.Now().Format("20060102-150405")
	}
	stem = unsafeFilename.ReplaceAllString(strings.TrimSpace(stem), "_")

	dir := req.OutputDir
	if dir == "" {
		var err error
		dir, err = os.Getwd()
		if err != nil {
			return "", fmt.Errorf("cannot determine output directory: %w", err)
		}
	}
	return filepath.Join(dir, "valuation_"+stem+".pdf"), nil
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	rgba := image.NewRGBA(img.Bounds())
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	return rgba
}
