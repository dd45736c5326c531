package mcp

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

// TestServerIntegration drives the generate and inspect tools through the
// registered handlers against one realistic record.
func TestServerIntegration(t *testing.T) {
	cfg := testConfig(t)
	server, err := NewServer(cfg, testReportService(t))
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}

	rec := map[string]any{
		"pdfDetails": map[string]any{
			"basicInfo": map[string]any{
				"clientName": "Suresh Patil",
				"mobile":     "9876543210",
			},
			"valuationSummary": map[string]any{
				"presentMarketValue": map[string]any{"amount": "7500000"},
			},
		},
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("failed to marshal record: %v", err)
	}

	// Generate the PDF.
	genReq := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: map[string]interface{}{"record": string(raw)},
		},
	}
	genResult, err := server.handleReportGenerate(context.Background(), genReq)
	if err != nil {
		t.Fatalf("generate handler failed: %v", err)
	}
	genText := extractTextFromResult(genResult)
	if !strings.Contains(genText, "Successfully generated report") {
		t.Fatalf("generate did not succeed: %s", genText)
	}

	entries, err := os.ReadDir(cfg.OutputDir)
	if err != nil {
		t.Fatalf("failed to read output dir: %v", err)
	}
	if len(entries) != 1 || !strings.HasSuffix(entries[0].Name(), ".pdf") {
		t.Fatalf("expected one PDF in output dir, found %v", entries)
	}

	// Inspect the same record.
	inspectReq := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: map[string]interface{}{
				"record": string(raw),
				"fields": "clientName,mobile,presentMarketValueAmount",
			},
		},
	}
	inspectResult, err := server.handleRecordInspect(context.Background(), inspectReq)
	if err != nil {
		t.Fatalf("inspect handler failed: %v", err)
	}
	inspectText := extractTextFromResult(inspectResult)
	if !strings.Contains(inspectText, "clientName: Suresh Patil") {
		t.Errorf("expected nested client name to resolve, got: %s", inspectText)
	}
	if !strings.Contains(inspectText, "mobile: 9876543210") {
		t.Errorf("expected mobile to resolve, got: %s", inspectText)
	}
}
