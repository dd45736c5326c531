package report

import "github.com/propdesk/valuation-report/internal/record"

// GenerateRequest asks for one end-to-end report generation.
type GenerateRequest struct {
	Record record.Record `json:"record"`
	// OutputPath overrides the derived valuation_<name>.pdf filename.
	OutputPath string `json:"output_path,omitempty"`
	// OutputDir is where the derived filename lands when OutputPath is
	// empty.
	OutputDir string `json:"output_dir,omitempty"`
}

// GenerateResult describes the produced PDF.
type GenerateResult struct {
	Path  string `json:"path"`
	Pages int    `json:"pages"`
	Size  int64  `json:"size"`
}

// RenderHTMLRequest asks for the report markup only.
type RenderHTMLRequest struct {
	Record record.Record `json:"record"`
}

// RenderHTMLResult carries the rendered document.
type RenderHTMLResult struct {
	HTML string `json:"html"`
}

// InspectRequest asks how a set of logical fields resolve for a record.
// An empty field list inspects every registered alias.
type InspectRequest struct {
	Record record.Record `json:"record"`
	Fields []string      `json:"fields,omitempty"`
}

// ResolvedField is one inspected field value.
type ResolvedField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// InspectResult lists resolved field values in field-name order.
type InspectResult struct {
	Fields []ResolvedField `json:"fields"`
}
