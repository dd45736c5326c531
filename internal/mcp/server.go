package mcp

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/propdesk/valuation-report/internal/config"
	"github.com/propdesk/valuation-report/internal/record"
	"github.com/propdesk/valuation-report/internal/report"
)

// Server represents the MCP server instance
type Server struct {
	config        *config.Config
	reportService *report.Service
	mcpServer     *server.MCPServer
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, reportService *report.Service) (*Server, error) {
	if reportService == nil {
		return nil, fmt.Errorf("reportService cannot be nil")
	}

	// Create MCP server
	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false), // We don't support dynamic tool capabilities
	)

	s := &Server{
		config:        cfg,
		reportService: reportService,
		mcpServer:     mcpServer,
	}

	// Register tools
	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	// Register report generate tool
	reportGenerateTool := mcp.NewTool(
		"report_generate",
		mcp.WithDescription("Render a property valuation record into a paginated PDF report"),
		mcp.WithString("record",
			mcp.Required(),
			mcp.Description("Valuation record as a JSON object string"),
		),
		mcp.WithString("output_path",
			mcp.Description("Explicit output PDF path (derives valuation_<client>.pdf if empty)"),
		),
		mcp.WithString("output_dir",
			mcp.Description("Directory for the derived filename (uses default if empty)"),
		),
	)
	s.mcpServer.AddTool(reportGenerateTool, s.handleReportGenerate)

	// Register report render HTML tool
	reportRenderHTMLTool := mcp.NewTool(
		"report_render_html",
		mcp.WithDescription("Render a valuation record into the report HTML without producing a PDF"),
		mcp.WithString("record",
			mcp.Required(),
			mcp.Description("Valuation record as a JSON object string"),
		),
	)
	s.mcpServer.AddTool(reportRenderHTMLTool, s.handleReportRenderHTML)

	// Register record inspect tool
	recordInspectTool := mcp.NewTool(
		"record_inspect",
		mcp.WithDescription("Show how logical report fields resolve for a valuation record"),
		mcp.WithString("record",
			mcp.Required(),
			mcp.Description("Valuation record as a JSON object string"),
		),
		mcp.WithString("fields",
			mcp.Description("Comma-separated field names to inspect (all registered fields if empty)"),
		),
	)
	s.mcpServer.AddTool(recordInspectTool, s.handleRecordInspect)
}

// parseRecordArg decodes the required record argument of a tool call.
func parseRecordArg(request mcp.CallToolRequest) (record.Record, error) {
	raw, err := request.RequireString("record")
	if err != nil {
		return nil, err
	}
	rec, err := record.FromJSON([]byte(raw))
	if err != nil {
		return nil, fmt.Errorf("invalid record: %w", err)
	}
	return rec, nil
}

// Handler functions
func (s *Server) handleReportGenerate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rec, err := parseRecordArg(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	args := request.GetArguments()

	outputDir := s.config.OutputDir // default
	if dir, ok := args["output_dir"].(string); ok && dir != "" {
		outputDir = dir
	}

	outputPath := ""
	if p, ok := args["output_path"].(string); ok {
		outputPath = p
	}

	req := report.GenerateRequest{
		Record:     rec,
		OutputPath: outputPath,
		OutputDir:  outputDir,
	}
	result, err := s.reportService.Generate(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	responseText := fmt.Sprintf("Successfully generated report: %s\n", result.Path)
	responseText += fmt.Sprintf("Pages: %d\n", result.Pages)
	responseText += fmt.Sprintf("Size: %d bytes\n", result.Size)

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleReportRenderHTML(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rec, err := parseRecordArg(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.reportService.RenderHTML(report.RenderHTMLRequest{Record: rec})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(result.HTML), nil
}

func (s *Server) handleRecordInspect(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rec, err := parseRecordArg(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	args := request.GetArguments()
	var fields []string
	if raw, ok := args["fields"].(string); ok && raw != "" {
		for _, f := range strings.Split(raw, ",") {
			if f = strings.TrimSpace(f); f != "" {
				fields = append(fields, f)
			}
		}
	}

	result, err := s.reportService.Inspect(report.InspectRequest{
		Record: rec,
		Fields: fields,
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatInspectResult(result)), nil
}

// Formatting methods
func (s *Server) formatInspectResult(result *report.InspectResult) string {
	text := fmt.Sprintf("Resolved %d field(s):\n", len(result.Fields))
	for _, f := range result.Fields {
		text += fmt.Sprintf("  %s: %s\n", f.Name, f.Value)
	}
	return text
}

// Run starts the MCP server in stdio mode
func (s *Server) Run(_ context.Context) error {
	if s.config.IsDebug() {
		log.Printf("Starting valuation report MCP server in stdio mode")
		log.Printf("Output directory: %s", s.config.OutputDir)
	}

	// Use the mark3labs/mcp-go server.ServeStdio function
	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}
