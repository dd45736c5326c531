package report

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"

	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"

	"github.com/propdesk/valuation-report/internal/images"
	"github.com/propdesk/valuation-report/internal/paginate"
	"github.com/propdesk/valuation-report/internal/raster"
)

// A4 page geometry in points.
const (
	pageWidthPt  = 595.28
	pageHeightPt = 841.89
)

// AssemblerOptions are the page-geometry and encoding tunables.
type AssemblerOptions struct {
	HeaderMarginPt float64
	FooterMarginPt float64
	SideMarginPt   float64
	// SliceJPEGQuality is the re-encode quality for page slices (1-100).
	SliceJPEGQuality int
}

// DefaultAssemblerOptions returns the report page geometry.
func DefaultAssemblerOptions() AssemblerOptions {
	return AssemblerOptions{
		HeaderMarginPt:   40,
		FooterMarginPt:   40,
		SideMarginPt:     36,
		SliceJPEGQuality: 85,
	}
}

// minPrintHeightPt is the page-image height below which a slice is
// skipped instead of emitted as a blank page.
const minPrintHeightPt = 2

// Assembler sequences paginator output, block pages and image pages into
// the final PDF.
type Assembler struct {
	opts   AssemblerOptions
	logger *zap.Logger
}

// NewAssembler creates an assembler. Zero-valued options use defaults.
func NewAssembler(opts AssemblerOptions, logger *zap.Logger) *Assembler {
	def := DefaultAssemblerOptions()
	if opts.HeaderMarginPt <= 0 {
		opts.HeaderMarginPt = def.HeaderMarginPt
	}
	if opts.FooterMarginPt <= 0 {
		opts.FooterMarginPt = def.FooterMarginPt
	}
	if opts.SideMarginPt <= 0 {
		opts.SideMarginPt = def.SideMarginPt
	}
	if opts.SliceJPEGQuality <= 0 {
		opts.SliceJPEGQuality = def.SliceJPEGQuality
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assembler{opts: opts, logger: logger}
}

// UsableHeightPx converts the per-page usable content height into master
// canvas pixels for a canvas of the given pixel width.
func (a *Assembler) UsableHeightPx(masterWidthPx int) int {
	usableW := pageWidthPt - 2*a.opts.SideMarginPt
	usableH := pageHeightPt - a.opts.HeaderMarginPt - a.opts.FooterMarginPt
	scale := float64(masterWidthPx) / usableW
	return int(usableH * scale)
}

// Build assembles the final PDF: one page per slice of the continuous
// region, one page per captured block, one page per valid image. A single
// error aborts the whole build; no partial document leaves this function.
func (a *Assembler) Build(master *image.RGBA, slices []paginate.Slice, blocks []raster.BlockImage, imagePages []images.Materialized) ([]byte, error) {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetFont("Helvetica", "", 9)

	usableW := pageWidthPt - 2*a.opts.SideMarginPt
	usableH := pageHeightPt - a.opts.HeaderMarginPt - a.opts.FooterMarginPt
	pageDirty := false

	if master != nil {
		scale := float64(master.Bounds().Dx()) / usableW
		for i, sl := range slices {
			heightPt := float64(sl.Height) / scale
			if heightPt < minPrintHeightPt {
				continue
			}

			crop := master.SubImage(image.Rect(
				master.Bounds().Min.X,
				sl.Y,
				master.Bounds().Max.X,
				sl.Y+sl.Height,
			))

			var buf bytes.Buffer
			if err := jpeg.Encode(&buf, crop, &jpeg.Options{Quality: a.opts.SliceJPEGQuality}); err != nil {
				return nil, fmt.Errorf("failed to encode page slice %d: %w", i+1, err)
			}

			name := fmt.Sprintf("slice-%d", i+1)
			pdf.AddPage()
			pdf.RegisterImageOptionsReader(name, gofpdf.ImageOptions{ImageType: "JPG"}, &buf)
			pdf.ImageOptions(name, a.opts.SideMarginPt, a.opts.HeaderMarginPt, usableW, heightPt, false, gofpdf.ImageOptions{ImageType: "JPG"}, 0, "")
			a.footer(pdf)
			pageDirty = true
		}
	}

	for _, block := range blocks {
		// A block landing right after a flush section end must not leave
		// a blank page behind it.
		if pageDirty || pdf.PageCount() == 0 {
			pdf.AddPage()
		}
		if err := a.placeImage(pdf, block.ID, block.Image, usableW, usableH); err != nil {
			return nil, fmt.Errorf("failed to place block %s: %w", block.ID, err)
		}
		a.footer(pdf)
		pageDirty = true
	}

	for i, img := range imagePages {
		if img.JPEG == nil || img.Source == "" {
			continue
		}
		decoded, err := jpeg.Decode(bytes.NewReader(img.JPEG))
		if err != nil {
			a.logger.Warn("skipping undecodable image page", zap.Error(err))
			continue
		}
		pdf.AddPage()
		if err := a.placeImage(pdf, fmt.Sprintf("photo-%d", i+1), decoded, usableW, usableH); err != nil {
			return nil, fmt.Errorf("failed to place image page %d: %w", i+1, err)
		}
		a.footer(pdf)
		pageDirty = true
	}

	if pdf.PageCount() == 0 {
		return nil, fmt.Errorf("nothing to assemble: no slices, blocks or images")
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, fmt.Errorf("pdf assembly failed: %w", err)
	}

	a.logger.Info("pdf assembled",
		zap.Int("pages", pdf.PageCount()),
		zap.Int("bytes", out.Len()),
	)
	return out.Bytes(), nil
}

// placeImage registers an image and draws it scaled to fit the usable
// page box, centered horizontally, anchored at the header margin.
func (a *Assembler) placeImage(pdf *gofpdf.Fpdf, name string, img image.Image, usableW, usableH float64) error {
	rgba, ok := img.(*image.RGBA)
	if !ok {
		rgba = image.NewRGBA(img.Bounds())
		draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, rgba, &jpeg.Options{Quality: a.opts.SliceJPEGQuality}); err != nil {
		return fmt.Errorf("failed to encode image %s: %w", name, err)
	}

	w := float64(img.Bounds().Dx())
	h := float64(img.Bounds().Dy())
	if w <= 0 || h <= 0 {
		return fmt.Errorf("image %s has empty bounds", name)
	}

	fit := usableW / w
	if h*fit > usableH {
		fit = usableH / h
	}
	drawW := w * fit
	drawH := h * fit
	x := a.opts.SideMarginPt + (usableW-drawW)/2

	pdf.RegisterImageOptionsReader(name, gofpdf.ImageOptions{ImageType: "JPG"}, &buf)
	pdf.ImageOptions(name, x, a.opts.HeaderMarginPt, drawW, drawH, false, gofpdf.ImageOptions{ImageType: "JPG"}, 0, "")
	return nil
}

// footer draws the page number inside the footer margin.
func (a *Assembler) footer(pdf *gofpdf.Fpdf) {
	pdf.SetY(pageHeightPt - a.opts.FooterMarginPt/2 - 6)
	pdf.CellFormat(0, 12, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
}
