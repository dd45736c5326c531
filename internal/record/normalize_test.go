package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord() Record {
	return Record{
		"clientName": "Acme Corp",
		"bankName":   "HDFC",
		"city":       "Chennai",
		"pdfDetails": map[string]any{
			"basicInfo": map[string]any{
				"mobile":     "9876543210",
				"clientName": "Acme Corporation Pvt Ltd",
			},
			"location": map[string]any{
				"address": "12, Mount Road",
				"village": "Guindy",
			},
			"boundaries": map[string]any{
				"north": map[string]any{"deed": "Road", "site": "Road"},
				"south": "Plot 14",
			},
			"constructionCostAnalysis": map[string]any{
				"foundation":     200000.0,
				"superStructure": 500000.0,
				"roofing":        150000.0,
			},
			"valuationSummary": map[string]any{
				"presentMarketValue": map[string]any{"amount": 5000000.0},
				"distressValue":      4000000.0,
			},
		},
		"clientDetails": map[string]any{
			"name": "Legacy Client Name",
			"city": "Madras",
		},
		"locationImages":   []any{"https://img.example/1.jpg"},
		"propertyImages":   []any{map[string]any{"url": "https://img.example/2.jpg"}},
		"areaImages":       map[string]any{"Master Bedroom": []any{"https://img.example/3.jpg"}},
		"documentPreviews": []any{},
	}
}

func TestNormalizePrecedence(t *testing.T) {
	n := Normalize(sampleRecord())

	// pdfDetails beats the legacy nested shape and the root alias.
	assert.Equal(t, "Acme Corporation Pvt Ltd", n["clientName"])
	// Root value survives when pdfDetails has no opinion.
	assert.Equal(t, "HDFC", n["bankName"])
	assert.Equal(t, "Chennai", n["city"])
	// Legacy nested only fills genuinely unset fields.
	assert.Equal(t, "9876543210", n["mobile"])
	assert.Equal(t, "12, Mount Road", n["propertyAddress"])
}

func TestNormalizeBoundaries(t *testing.T) {
	n := Normalize(sampleRecord())

	assert.Equal(t, "Road", n["boundaryNorthDeed"])
	assert.Equal(t, "Road", n["boundaryNorthSite"])
	// String-only legacy side lands on the deed column.
	assert.Equal(t, "Plot 14", n["boundarySouthDeed"])
	_, ok := n["boundarySouthSite"]
	assert.False(t, ok)
}

func TestNormalizePreservesArraysVerbatim(t *testing.T) {
	src := sampleRecord()
	n := Normalize(src)

	for _, key := range ArrayFields {
		assert.Equal(t, src[key], n[key], "array field %s", key)
	}
}

func TestNormalizeComputesDerivedValues(t *testing.T) {
	n := Normalize(sampleRecord())

	// Word form generated from the bare amount.
	assert.Equal(t, 5000000.0, n["presentMarketValueAmount"])
	assert.Equal(t, "Fifty Lac Rupees Only", n["presentMarketValueWords"])

	// Scalar summary value lands on the Amount key and gets a word form.
	assert.Equal(t, 4000000.0, n["distressValueAmount"])
	assert.Equal(t, "Forty Lac Rupees Only", n["distressValueWords"])

	// Total summed from the line items when no explicit total was given.
	assert.Equal(t, 850000.0, n["constructionCostTotal"])
}

func TestNormalizeExplicitTotalWins(t *testing.T) {
	src := sampleRecord()
	pdfDetails := src["pdfDetails"].(map[string]any)
	cca := pdfDetails["constructionCostAnalysis"].(map[string]any)
	cca["total"] = 900000.0

	n := Normalize(src)
	assert.Equal(t, 900000.0, n["constructionCostTotal"])
}

func TestNormalizeSuppliedWordFormWins(t *testing.T) {
	src := sampleRecord()
	pdfDetails := src["pdfDetails"].(map[string]any)
	vs := pdfDetails["valuationSummary"].(map[string]any)
	vs["presentMarketValue"] = map[string]any{
		"amount": 5000000.0,
		"words":  "Rupees Fifty Lakhs Only",
	}

	n := Normalize(src)
	assert.Equal(t, "Rupees Fifty Lakhs Only", n["presentMarketValueWords"])
}

func TestNormalizeIdempotent(t *testing.T) {
	once := Normalize(sampleRecord())
	twice := Normalize(once)

	require.Equal(t, len(once), len(twice))
	for k, v := range once {
		assert.Equal(t, v, twice[k], "field %s changed on renormalization", k)
	}
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	src := sampleRecord()
	_, hadBefore := src["presentMarketValueWords"]
	_ = Normalize(src)
	_, hasAfter := src["presentMarketValueWords"]

	assert.Equal(t, hadBefore, hasAfter)
	assert.Nil(t, src["propertyAddress"])
}

func TestNormalizeHostileShapes(t *testing.T) {
	hostile := []Record{
		{},
		{"pdfDetails": "not a map"},
		{"pdfDetails": map[string]any{"boundaries": "mangled"}},
		{"pdfDetails": map[string]any{"valuationSummary": map[string]any{"presentMarketValue": []any{1.0}}}},
		{"clientDetails": 42.0},
	}

	for _, rec := range hostile {
		assert.NotPanics(t, func() { _ = Normalize(rec) })
	}
}

func TestNormalizeResolverEndToEnd(t *testing.T) {
	n := Normalize(sampleRecord())
	r := NewResolver(nil, nil)

	assert.Equal(t, "Acme Corporation Pvt Ltd", r.Resolve(n, "clientName"))
	assert.Equal(t, "HDFC", r.Resolve(n, "bankName"))
	assert.Equal(t, "NA", r.Resolve(n, "valuerName"))
	assert.Equal(t, "5000000", r.Resolve(n, "presentMarketValueAmount"))
}
