// Package paginate re-paginates one tall raster of the report's continuous
// region into page-sized slices, using pixel inspection to place every page
// break on a table border instead of mid-row.
package paginate

import (
	"image"
	"image/color"
	"image/draw"

	"go.uber.org/zap"
)

// Options holds the border-detection and slicing tunables. All distances
// are in master-canvas pixels.
type Options struct {
	// PageHeight is the usable content height of one PDF page.
	PageHeight int
	// DarkFraction is the share of dark pixels a row must reach, within
	// the detected table bounds, to count as a border row.
	DarkFraction float64
	// DarkLuma is the luma below which a pixel counts as dark.
	DarkLuma uint8
	// BoundBand is the height of the band scanned for table bounds.
	BoundBand int
	// BoundMinRun is the minimum dark-pixel count a column needs inside
	// the band to qualify as a table edge.
	BoundMinRun int
	// BorderSearch is how far below a cut the top border is searched for
	// thickening.
	BorderSearch int
	// ThickenRows is the height of the darkened band laid over a detected
	// border.
	ThickenRows int
	// MinSliceHeight rejects border rows too close to the slice top, and
	// is the trailing-content threshold below which no further page is
	// emitted.
	MinSliceHeight int
}

// DefaultOptions returns the slicing tunables used for report output,
// assuming roughly 2x rendering scale over CSS pixels.
func DefaultOptions() Options {
	return Options{
		PageHeight:     1540,
		DarkFraction:   0.6,
		DarkLuma:       120,
		BoundBand:      40,
		BoundMinRun:    10,
		BorderSearch:   50,
		ThickenRows:    5,
		MinSliceHeight: 40,
	}
}

// Slice is one rectangular region of the master canvas destined for one
// PDF page.
type Slice struct {
	Y          int
	Height     int
	PageNumber int
	// OnBorder reports whether the bottom of the slice landed on a
	// detected border row rather than the full candidate height.
	OnBorder bool
}

// Slicer walks the master canvas in page-sized steps. The master image is
// mutated in place where borders are thickened for a crisp cut.
type Slicer struct {
	opts   Options
	logger *zap.Logger
}

// NewSlicer creates a slicer. Zero-valued options fall back to defaults.
func NewSlicer(opts Options, logger *zap.Logger) *Slicer {
	def := DefaultOptions()
	if opts.PageHeight <= 0 {
		opts.PageHeight = def.PageHeight
	}
	if opts.DarkFraction <= 0 {
		opts.DarkFraction = def.DarkFraction
	}
	if opts.DarkLuma == 0 {
		opts.DarkLuma = def.DarkLuma
	}
	if opts.BoundBand <= 0 {
		opts.BoundBand = def.BoundBand
	}
	if opts.BoundMinRun <= 0 {
		opts.BoundMinRun = def.BoundMinRun
	}
	if opts.BorderSearch <= 0 {
		opts.BorderSearch = def.BorderSearch
	}
	if opts.ThickenRows <= 0 {
		opts.ThickenRows = def.ThickenRows
	}
	if opts.MinSliceHeight <= 0 {
		opts.MinSliceHeight = def.MinSliceHeight
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Slicer{opts: opts, logger: logger}
}

// Slice computes the page slices for the master canvas. Each slice ends on
// the last detected border row within its candidate height; when no border
// is found the full candidate height is used, which may visually cut a row
// but never fails. A trailing region shorter than MinSliceHeight is
// dropped rather than emitted as a near-empty page.
func (s *Slicer) Slice(master *image.RGBA) []Slice {
	bounds := master.Bounds()
	heightLeft := bounds.Dy()
	sourceY := bounds.Min.Y
	page := 1

	var slices []Slice
	for heightLeft > s.opts.MinSliceHeight {
		candidate := s.opts.PageHeight
		if heightLeft < candidate {
			candidate = heightLeft
		}

		left, right, bounded := s.tableBounds(master, sourceY)
		if !bounded {
			left, right = bounds.Min.X, bounds.Max.X-1
		}

		if page > 1 {
			s.thickenTopBorder(master, sourceY, left, right)
		}

		chosen := candidate
		onBorder := false
		if heightLeft > candidate {
			if borderY, found := s.lastBorderRow(master, sourceY, sourceY+candidate, left, right); found {
				chosen = borderY - sourceY + 1
				onBorder = true
				s.thicken(master, borderY, left, right)
			} else {
				s.logger.Debug("no border row found, using full slice height",
					zap.Int("page", page),
					zap.Int("sourceY", sourceY),
				)
			}
		}

		slices = append(slices, Slice{
			Y:          sourceY,
			Height:     chosen,
			PageNumber: page,
			OnBorder:   onBorder,
		})

		sourceY += chosen
		heightLeft -= chosen
		page++
	}

	return slices
}

// tableBounds scans a fixed band below y for the first and last columns
// holding a vertical run of dark pixels. The bounds keep page margins and
// whitespace outside the table from diluting border-row detection.
func (s *Slicer) tableBounds(img *image.RGBA, y int) (left, right int, ok bool) {
	b := img.Bounds()
	yEnd := y + s.opts.BoundBand
	if yEnd > b.Max.Y {
		yEnd = b.Max.Y
	}

	left, right = -1, -1
	for x := b.Min.X; x < b.Max.X; x++ {
		run := 0
		for yy := y; yy < yEnd; yy++ {
			if s.isDark(img.RGBAAt(x, yy)) {
				run++
			}
		}
		if run >= s.opts.BoundMinRun {
			if left < 0 {
				left = x
			}
			right = x
		}
	}

	if left < 0 || right-left < s.opts.BoundMinRun {
		return 0, 0, false
	}
	return left, right, true
}

// lastBorderRow returns the lowest row in [yStart+MinSliceHeight, yEnd)
// whose dark-pixel fraction within the table bounds exceeds the threshold.
// Rows too close to the slice top are ignored so a freshly thickened top
// border is never chosen as the next cut.
func (s *Slicer) lastBorderRow(img *image.RGBA, yStart, yEnd, left, right int) (int, bool) {
	for y := yEnd - 1; y >= yStart+s.opts.MinSliceHeight; y-- {
		if s.isBorderRow(img, y, left, right) {
			return y, true
		}
	}
	return 0, false
}

func (s *Slicer) isBorderRow(img *image.RGBA, y, left, right int) bool {
	width := right - left + 1
	if width <= 0 {
		return false
	}
	dark := 0
	for x := left; x <= right; x++ {
		if s.isDark(img.RGBAAt(x, y)) {
			dark++
		}
	}
	return float64(dark)/float64(width) > s.opts.DarkFraction
}

// thickenTopBorder finds the topmost border row just below a cut and lays
// a darkened band over it, compensating for the anti-aliased half-border
// the cut leaves behind.
func (s *Slicer) thickenTopBorder(img *image.RGBA, y, left, right int) {
	yEnd := y + s.opts.BorderSearch
	if yEnd > img.Bounds().Max.Y {
		yEnd = img.Bounds().Max.Y
	}
	for yy := y; yy < yEnd; yy++ {
		if s.isBorderRow(img, yy, left, right) {
			s.thicken(img, yy, left, right)
			return
		}
	}
}

// thicken darkens a band of rows centered on the border row.
func (s *Slicer) thicken(img *image.RGBA, y, left, right int) {
	half := s.opts.ThickenRows / 2
	band := image.Rect(left, y-half, right+1, y-half+s.opts.ThickenRows)
	band = band.Intersect(img.Bounds())
	draw.Draw(img, band, image.NewUniform(color.Black), image.Point{}, draw.Src)
}

func (s *Slicer) isDark(c color.RGBA) bool {
	// Rec. 601 luma, integer arithmetic.
	luma := (299*int(c.R) + 587*int(c.G) + 114*int(c.B)) / 1000
	return luma < int(s.opts.DarkLuma)
}
