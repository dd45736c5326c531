package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"go.uber.org/zap"

	"github.com/propdesk/valuation-report/internal/config"
	"github.com/propdesk/valuation-report/internal/images"
	"github.com/propdesk/valuation-report/internal/logging"
	"github.com/propdesk/valuation-report/internal/mcp"
	"github.com/propdesk/valuation-report/internal/paginate"
	"github.com/propdesk/valuation-report/internal/raster"
	"github.com/propdesk/valuation-report/internal/record"
	"github.com/propdesk/valuation-report/internal/render"
	"github.com/propdesk/valuation-report/internal/report"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// buildService assembles the report pipeline from configuration.
func buildService(cfg *config.Config, logger *zap.Logger) (*report.Service, error) {
	aliases := record.DefaultAliases()
	if cfg.AliasPath != "" {
		loaded, err := record.LoadAliases(cfg.AliasPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load alias table: %w", err)
		}
		aliases = loaded
	}

	resolver := record.NewResolver(aliases, logger)
	renderer, err := render.NewRenderer(resolver, cfg.PhotosPerGrid, logger)
	if err != nil {
		return nil, err
	}

	assembler := report.NewAssembler(report.AssemblerOptions{
		HeaderMarginPt:   cfg.HeaderMarginPt,
		FooterMarginPt:   cfg.FooterMarginPt,
		SideMarginPt:     cfg.SideMarginPt,
		SliceJPEGQuality: cfg.SliceQuality,
	}, logger)

	slicerOpts := paginate.DefaultOptions()
	slicerOpts.DarkFraction = cfg.BorderDarkRatio
	slicerOpts.PageHeight = 0 // derived from the captured canvas width

	return report.NewService(
		resolver,
		renderer,
		images.NewMaterializer(cfg.FetchTimeout, logger),
		raster.NewChromeRasterizer(cfg.ChromeTimeout, cfg.SettleTimeout, logger),
		slicerOpts,
		assembler,
		report.ServiceOptions{
			ExportWidth:  cfg.ExportWidth,
			ImageQuality: cfg.ImageQuality,
		},
		logger,
	)
}

// runGenerate renders one record from disk and writes the PDF.
func runGenerate(ctx context.Context, cfg *config.Config, svc *report.Service, logger *zap.Logger) error {
	data, err := os.ReadFile(cfg.InputPath)
	if err != nil {
		return fmt.Errorf("failed to read input record: %w", err)
	}
	rec, err := record.FromJSON(data)
	if err != nil {
		return err
	}

	result, err := svc.Generate(ctx, report.GenerateRequest{
		Record:     rec,
		OutputPath: cfg.OutputPath,
		OutputDir:  cfg.OutputDir,
	})
	if err != nil {
		return err
	}

	logger.Info("report written",
		zap.String("path", result.Path),
		zap.Int("pages", result.Pages),
		zap.Int64("bytes", result.Size),
	)
	fmt.Println(result.Path)
	return nil
}

// runStdioMode handles MCP stdio mode execution
func runStdioMode(ctx context.Context, server *mcp.Server) {
	// In stdio mode, the parent process controls our lifecycle
	// We should exit cleanly when stdin is closed or we get an error
	if err := server.Run(ctx); err != nil {
		// Only log to stderr in debug mode to avoid protocol interference
		if os.Getenv("DEBUG") != "" {
			log.Printf("Server error: %v", err)
		}
		os.Exit(1)
	}
}

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			printVersion()
			return
		}
	}

	// Load configuration from flags first
	cfg, err := config.LoadFromFlags()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set version if it was provided during build
	if version != "dev" {
		cfg.Version = version
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	svc, err := buildService(cfg, logger)
	if err != nil {
		logger.Fatal("failed to build report pipeline", zap.Error(err))
	}

	// Cancel in-flight browser work on shutdown signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	if cfg.IsStdioMode() {
		server, err := mcp.NewServer(cfg, svc)
		if err != nil {
			logger.Fatal("failed to create MCP server", zap.Error(err))
		}
		runStdioMode(ctx, server)
		return
	}

	if err := runGenerate(ctx, cfg, svc, logger); err != nil {
		logger.Fatal("report generation failed", zap.Error(err))
	}
}

// printVersion prints version information
func printVersion() {
	fmt.Printf("Valuation Report\n")
	fmt.Printf("Version: %s\n", version)
	fmt.Printf("Build Time: %s\n", buildTime)
	fmt.Printf("Git Commit: %s\n", gitCommit)
	fmt.Printf("Built with: %s\n", runtime.Version())
}
