// Package render assembles the report HTML document from a normalized
// valuation record. Every displayed value goes through the field resolver;
// the template never touches the record directly.
package render

import (
	"fmt"
	"html/template"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/propdesk/valuation-report/internal/images"
	"github.com/propdesk/valuation-report/internal/record"
)

// DefaultPhotosPerGridPage is how many area photographs share one grid
// page.
const DefaultPhotosPerGridPage = 6

// dash is the placeholder shown in the unanswered column of a Yes/No
// indicator pair.
const dash = "—"

// Renderer renders a normalized record into the report document.
type Renderer struct {
	resolver      *record.Resolver
	photosPerPage int
	tmpl          *template.Template
	logger        *zap.Logger
}

// NewRenderer creates a renderer over the given resolver.
func NewRenderer(resolver *record.Resolver, photosPerPage int, logger *zap.Logger) (*Renderer, error) {
	if resolver == nil {
		return nil, fmt.Errorf("resolver cannot be nil")
	}
	if photosPerPage <= 0 {
		photosPerPage = DefaultPhotosPerGridPage
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	tmpl, err := template.New("report").Parse(reportTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse report template: %w", err)
	}

	return &Renderer{
		resolver:      resolver,
		photosPerPage: photosPerPage,
		tmpl:          tmpl,
		logger:        logger,
	}, nil
}

// Render produces the full HTML document for the record.
func (r *Renderer) Render(rec record.Record) (string, error) {
	view := &reportView{rec: rec, res: r.resolver, photosPerPage: r.photosPerPage}

	var sb strings.Builder
	if err := r.tmpl.Execute(&sb, view); err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}

	r.logger.Debug("report rendered", zap.Int("htmlSize", sb.Len()))
	return sb.String(), nil
}

// reportView is the template's window onto the record. Its methods are
// the only way field values reach the document.
type reportView struct {
	rec           record.Record
	res           *record.Resolver
	photosPerPage int
}

// Field resolves a logical field for display.
func (v *reportView) Field(name string) string {
	return v.res.Resolve(v.rec, name)
}

// Date resolves a date field and formats it as D/M/YYYY.
func (v *reportView) Date(name string) string {
	s := v.res.ResolveDefault(v.rec, name, "")
	if s == "" {
		return record.DefaultFallback
	}
	return record.FormatDate(s)
}

// Currency resolves an amount/words field pair and renders the canonical
// monetary phrase, generating the word form when the record lacks one.
func (v *reportView) Currency(name string) string {
	amountStr := v.res.ResolveDefault(v.rec, name+"Amount", "")
	amount, ok := record.ParseAmount(amountStr)
	if !ok {
		return record.DefaultFallback
	}
	words := v.res.ResolveDefault(v.rec, name+"Words", "")
	return record.FormatCurrency(amount, words)
}

// YesNoRow is one two-column checklist indicator: exactly one column shows
// the answer, the other a placeholder dash; both dashed when unresolved.
type YesNoRow struct {
	Label string
	Yes   string
	No    string
}

func (v *reportView) yesNoRow(label, name string) YesNoRow {
	row := YesNoRow{Label: label, Yes: dash, No: dash}
	switch v.res.ResolveDefault(v.rec, name, "") {
	case "Yes":
		row.Yes = "Yes"
	case "No":
		row.No = "No"
	}
	return row
}

func (v *reportView) yesNoRows(items [][2]string) []YesNoRow {
	rows := make([]YesNoRow, 0, len(items))
	for _, item := range items {
		rows = append(rows, v.yesNoRow(item[0], item[1]))
	}
	return rows
}

// Amenities returns the amenity checklist rows.
func (v *reportView) Amenities() []YesNoRow {
	return v.yesNoRows([][2]string{
		{"Lift", "hasLift"},
		{"Water Supply", "hasWaterSupply"},
		{"Sewerage", "hasSewerage"},
		{"Car Parking", "hasCarParking"},
		{"Compound Wall", "hasCompoundWall"},
		{"Pavement", "hasPavement"},
		{"Borewell", "hasBorewell"},
	})
}

// Services returns the service-connection checklist rows.
func (v *reportView) Services() []YesNoRow {
	return v.yesNoRows([][2]string{
		{"Water Connection", "waterConnection"},
		{"Electricity Connection", "electricityConnection"},
		{"Drainage Connection", "drainageConnection"},
	})
}

// Documents returns the checklist-of-documents rows.
func (v *reportView) Documents() []YesNoRow {
	return v.yesNoRows([][2]string{
		{"Sale Deed", "hasSaleDeed"},
		{"Title Deed", "hasTitleDeed"},
		{"Approved Plan", "hasApprovedPlan"},
		{"Tax Receipt", "hasTaxReceipt"},
		{"Encumbrance Certificate", "hasEncumbranceCertificate"},
		{"Patta / Chitta", "hasPattaChitta"},
	})
}

// BoundaryRow is one direction of the boundaries table.
type BoundaryRow struct {
	Label string
	Deed  string
	Site  string
}

// Boundaries returns the four-direction boundary table rows.
func (v *reportView) Boundaries() []BoundaryRow {
	dirs := []struct{ label, name string }{
		{"North", "boundaryNorth"},
		{"South", "boundarySouth"},
		{"East", "boundaryEast"},
		{"West", "boundaryWest"},
	}
	rows := make([]BoundaryRow, 0, len(dirs))
	for _, d := range dirs {
		rows = append(rows, BoundaryRow{
			Label: d.label,
			Deed:  v.res.Resolve(v.rec, d.name+"Deed"),
			Site:  v.res.Resolve(v.rec, d.name+"Site"),
		})
	}
	return rows
}

// CostItem is one construction-cost-analysis line.
type CostItem struct {
	Label  string
	Amount string
}

// CostItems returns the construction cost line items.
func (v *reportView) CostItems() []CostItem {
	items := []struct{ label, name string }{
		{"Foundation", "foundationCost"},
		{"Super Structure", "superStructureCost"},
		{"Roofing", "roofingCost"},
		{"Flooring", "flooringCost"},
		{"Doors and Windows", "doorsWindowsCost"},
		{"Electrical Installations", "electricalCost"},
		{"Sanitary Installations", "sanitaryCost"},
		{"Finishing", "finishingCost"},
	}
	rows := make([]CostItem, 0, len(items))
	for _, item := range items {
		rows = append(rows, CostItem{Label: item.label, Amount: v.res.Resolve(v.rec, item.name)})
	}
	return rows
}

// PropertyImages returns the inline property photo sources.
func (v *reportView) PropertyImages() []string {
	return extractList(v.rec["propertyImages"])
}

// LocationImages returns the one-per-page location photo sources.
func (v *reportView) LocationImages() []string {
	return extractList(v.rec["locationImages"])
}

// DocumentImages returns the one-per-page supporting document sources.
func (v *reportView) DocumentImages() []string {
	return extractList(v.rec["documentPreviews"])
}

// AreaPhoto is one captioned thumbnail on an area-photo grid page.
type AreaPhoto struct {
	Label string
	URL   string
}

// AreaGrid is one grid page of area photographs.
type AreaGrid struct {
	Index  int
	Photos []AreaPhoto
}

// AreaGrids batches the selected area photographs into fixed-size grid
// pages. Only areas holding at least one valid image are selected; area
// order is alphabetical so output is stable across runs.
func (v *reportView) AreaGrids() []AreaGrid {
	areaMap, ok := v.rec["areaImages"].(map[string]any)
	if !ok {
		return nil
	}

	labels := make([]string, 0, len(areaMap))
	for label := range areaMap {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	var photos []AreaPhoto
	for _, label := range labels {
		refs, ok := areaMap[label].([]any)
		if !ok {
			continue
		}
		for _, ref := range refs {
			if url := images.ExtractURL(ref); url != "" {
				photos = append(photos, AreaPhoto{Label: label, URL: url})
			}
		}
	}

	var grids []AreaGrid
	for start := 0; start < len(photos); start += v.photosPerPage {
		end := start + v.photosPerPage
		if end > len(photos) {
			end = len(photos)
		}
		grids = append(grids, AreaGrid{Index: len(grids) + 1, Photos: photos[start:end]})
	}
	return grids
}

func extractList(refs any) []string {
	list, ok := refs.([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, ref := range list {
		if url := images.ExtractURL(ref); url != "" {
			out = append(out, url)
		}
	}
	return out
}
