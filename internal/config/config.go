package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Mode constants
	ModeGenerate = "generate"
	ModeStdio    = "stdio"

	// Default values
	DefaultLogLevel        = "info"
	DefaultPhotosPerGrid   = 6
	DefaultExportWidth     = 1200
	DefaultSliceQuality    = 85
	DefaultImageQuality    = 70
	DefaultHeaderMarginPt  = 40.0
	DefaultFooterMarginPt  = 40.0
	DefaultSideMarginPt    = 36.0
	DefaultChromeTimeout   = 90 * time.Second
	DefaultSettleTimeout   = 30 * time.Second
	DefaultFetchTimeout    = 5 * time.Second
	DefaultBorderDarkRatio = 0.6

	// Directory permissions
	DefaultDirPerm = 0o750
)

// Config holds all configuration for the valuation report generator
type Config struct {
	// Run configuration
	Mode       string // "generate" for one-shot CLI, "stdio" for MCP standard I/O
	InputPath  string // JSON record file (generate mode)
	OutputPath string // explicit PDF path; empty derives valuation_<client>.pdf
	OutputDir  string
	AliasPath  string // optional JSON alias table merged over the built-in one

	// Pipeline tunables
	PhotosPerGrid   int
	ExportWidth     int
	SliceQuality    int
	ImageQuality    int
	HeaderMarginPt  float64
	FooterMarginPt  float64
	SideMarginPt    float64
	BorderDarkRatio float64
	ChromeTimeout   time.Duration
	SettleTimeout   time.Duration
	FetchTimeout    time.Duration

	// Application configuration
	Version    string
	ServerName string
	LogLevel   string
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		// Fallback to current directory if working directory cannot be determined
		currentDir = "."
	}

	return &Config{
		Mode:            ModeGenerate,
		OutputDir:       currentDir,
		PhotosPerGrid:   DefaultPhotosPerGrid,
		ExportWidth:     DefaultExportWidth,
		SliceQuality:    DefaultSliceQuality,
		ImageQuality:    DefaultImageQuality,
		HeaderMarginPt:  DefaultHeaderMarginPt,
		FooterMarginPt:  DefaultFooterMarginPt,
		SideMarginPt:    DefaultSideMarginPt,
		BorderDarkRatio: DefaultBorderDarkRatio,
		ChromeTimeout:   DefaultChromeTimeout,
		SettleTimeout:   DefaultSettleTimeout,
		FetchTimeout:    DefaultFetchTimeout,
		Version:         "1.0.0",
		ServerName:      "valuation-report",
		LogLevel:        DefaultLogLevel,
	}
}

// LoadFromFlags parses command line flags and returns a configuration
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	// Check for version flag before parsing
	if err := checkVersionFlag(); err != nil {
		return nil, err
	}

	pflag.Parse()

	populateConfigFromViper(cfg)

	// Expand paths if needed
	if cfg.OutputDir != "" {
		if expandedPath, err := filepath.Abs(cfg.OutputDir); err == nil {
			cfg.OutputDir = expandedPath
		}
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	// Set environment variable prefix
	viper.SetEnvPrefix("VALUATION")
	viper.AutomaticEnv()

	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("input", cfg.InputPath)
	viper.SetDefault("output", cfg.OutputPath)
	viper.SetDefault("outdir", cfg.OutputDir)
	viper.SetDefault("aliases", cfg.AliasPath)
	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("photospergrid", cfg.PhotosPerGrid)
	viper.SetDefault("exportwidth", cfg.ExportWidth)
	viper.SetDefault("imagequality", cfg.ImageQuality)
	viper.SetDefault("chrometimeout", cfg.ChromeTimeout)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String("mode", cfg.Mode, "Run mode: 'generate' for one-shot PDF generation, 'stdio' for MCP standard I/O")
	pflag.String("input", cfg.InputPath, "JSON valuation record to render (generate mode)")
	pflag.String("output", cfg.OutputPath, "Output PDF path (default derives valuation_<client>.pdf)")
	pflag.String("outdir", cfg.OutputDir, "Directory for derived output filenames")
	pflag.String("aliases", cfg.AliasPath, "JSON alias table merged over the built-in field aliases")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.Int("photospergrid", cfg.PhotosPerGrid, "Area photographs per grid page")
	pflag.Int("exportwidth", cfg.ExportWidth, "Maximum pixel width for full-page images")
	pflag.Int("imagequality", cfg.ImageQuality, "JPEG quality for full-page images (1-100)")
	pflag.Duration("chrometimeout", cfg.ChromeTimeout, "Headless browser capture timeout")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	_ = viper.BindPFlag("mode", pflag.Lookup("mode"))
	_ = viper.BindPFlag("input", pflag.Lookup("input"))
	_ = viper.BindPFlag("output", pflag.Lookup("output"))
	_ = viper.BindPFlag("outdir", pflag.Lookup("outdir"))
	_ = viper.BindPFlag("aliases", pflag.Lookup("aliases"))
	_ = viper.BindPFlag("loglevel", pflag.Lookup("loglevel"))
	_ = viper.BindPFlag("photospergrid", pflag.Lookup("photospergrid"))
	_ = viper.BindPFlag("exportwidth", pflag.Lookup("exportwidth"))
	_ = viper.BindPFlag("imagequality", pflag.Lookup("imagequality"))
	_ = viper.BindPFlag("chrometimeout", pflag.Lookup("chrometimeout"))
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nValuation Report - renders property valuation records into paginated PDF reports\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s --input=record.json                      # generate valuation_<client>.pdf\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --input=record.json --output=report.pdf  # explicit output path\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=stdio                             # MCP stdio mode\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  VALUATION_MODE           Run mode\n")
		fmt.Fprintf(os.Stderr, "  VALUATION_INPUT          Input record path\n")
		fmt.Fprintf(os.Stderr, "  VALUATION_OUTPUT         Output PDF path\n")
		fmt.Fprintf(os.Stderr, "  VALUATION_OUTDIR         Output directory\n")
		fmt.Fprintf(os.Stderr, "  VALUATION_ALIASES        Alias table path\n")
		fmt.Fprintf(os.Stderr, "  VALUATION_LOGLEVEL       Log level\n")
		fmt.Fprintf(os.Stderr, "  VALUATION_PHOTOSPERGRID  Photos per grid page\n")
		fmt.Fprintf(os.Stderr, "  VALUATION_EXPORTWIDTH    Max full-page image width\n")
		fmt.Fprintf(os.Stderr, "  VALUATION_IMAGEQUALITY   Full-page image JPEG quality\n")
		fmt.Fprintf(os.Stderr, "  VALUATION_CHROMETIMEOUT  Browser capture timeout\n")
	}
}

// checkVersionFlag checks if version flag was requested
func checkVersionFlag() error {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return fmt.Errorf("version requested")
		}
	}
	return nil
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.Mode = viper.GetString("mode")
	cfg.InputPath = viper.GetString("input")
	cfg.OutputPath = viper.GetString("output")
	cfg.OutputDir = viper.GetString("outdir")
	cfg.AliasPath = viper.GetString("aliases")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.PhotosPerGrid = viper.GetInt("photospergrid")
	cfg.ExportWidth = viper.GetInt("exportwidth")
	cfg.ImageQuality = viper.GetInt("imagequality")
	cfg.ChromeTimeout = viper.GetDuration("chrometimeout")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Validate mode
	if c.Mode != ModeGenerate && c.Mode != ModeStdio {
		return errors.New("mode must be either 'generate' or 'stdio'")
	}

	// Generate mode needs a record to render
	if c.Mode == ModeGenerate && c.InputPath == "" {
		return errors.New("input record path cannot be empty in generate mode")
	}

	// Validate output directory, create if it doesn't exist
	if c.OutputDir == "" {
		return errors.New("output directory cannot be empty")
	}
	if _, err := os.Stat(c.OutputDir); os.IsNotExist(err) {
		if err := os.MkdirAll(c.OutputDir, DefaultDirPerm); err != nil {
			return fmt.Errorf("cannot create output directory %s: %w", c.OutputDir, err)
		}
	} else if err != nil {
		return fmt.Errorf("cannot access output directory %s: %w", c.OutputDir, err)
	}

	if c.PhotosPerGrid <= 0 {
		return errors.New("photos per grid page must be positive")
	}
	if c.ExportWidth <= 0 {
		return errors.New("export image width must be positive")
	}
	if c.ImageQuality < 1 || c.ImageQuality > 100 {
		return errors.New("image quality must be between 1 and 100")
	}
	if c.ChromeTimeout <= 0 {
		return errors.New("browser capture timeout must be positive")
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, InputPath: %s, OutputDir: %s, LogLevel: %s, PhotosPerGrid: %d}",
		c.Mode, c.InputPath, c.OutputDir, c.LogLevel, c.PhotosPerGrid)
}

// IsGenerateMode returns true if running as a one-shot generator
func (c *Config) IsGenerateMode() bool {
	return c.Mode == ModeGenerate
}

// IsStdioMode returns true if running as an MCP stdio server
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}
