package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Helper function to reset pflag.CommandLine for testing
func resetFlags() {
	pflag.CommandLine = pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	viper.Reset()
}

// Helper function to set os.Args for testing
func setArgs(args []string) {
	os.Args = args
}

// Helper function to clear environment variables
func clearEnvVars() {
	os.Unsetenv("VALUATION_MODE")
	os.Unsetenv("VALUATION_INPUT")
	os.Unsetenv("VALUATION_OUTPUT")
	os.Unsetenv("VALUATION_OUTDIR")
	os.Unsetenv("VALUATION_ALIASES")
	os.Unsetenv("VALUATION_LOGLEVEL")
	os.Unsetenv("VALUATION_PHOTOSPERGRID")
	os.Unsetenv("VALUATION_EXPORTWIDTH")
	os.Unsetenv("VALUATION_IMAGEQUALITY")
	os.Unsetenv("VALUATION_CHROMETIMEOUT")
}

func TestLoadFromFlags_DefaultStdio(t *testing.T) {
	// Save original args and environment
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
		resetFlags()
		clearEnvVars()
	}()

	// stdio mode needs no input record
	setArgs([]string{"valuation-report", "--mode=stdio"})
	resetFlags()
	clearEnvVars()

	cfg, err := LoadFromFlags()
	if err != nil {
		t.Fatalf("LoadFromFlags() unexpected error: %v", err)
	}

	if cfg.Mode != ModeStdio {
		t.Errorf("LoadFromFlags() Mode = %v, want %v", cfg.Mode, ModeStdio)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LoadFromFlags() LogLevel = %v, want %v", cfg.LogLevel, "info")
	}
	if cfg.PhotosPerGrid != DefaultPhotosPerGrid {
		t.Errorf("LoadFromFlags() PhotosPerGrid = %v, want %v", cfg.PhotosPerGrid, DefaultPhotosPerGrid)
	}
	if cfg.OutputDir == "" {
		t.Error("LoadFromFlags() OutputDir should not be empty")
	}
}

func TestLoadFromFlags_GenerateFlags(t *testing.T) {
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
		resetFlags()
		clearEnvVars()
	}()

	outDir := t.TempDir()
	setArgs([]string{
		"valuation-report",
		"--input=record.json",
		"--outdir=" + outDir,
		"--loglevel=debug",
		"--photospergrid=4",
		"--exportwidth=800",
		"--imagequality=55",
		"--chrometimeout=30s",
	})
	resetFlags()
	clearEnvVars()

	cfg, err := LoadFromFlags()
	if err != nil {
		t.Fatalf("LoadFromFlags() unexpected error: %v", err)
	}

	if cfg.Mode != ModeGenerate {
		t.Errorf("LoadFromFlags() Mode = %v, want %v", cfg.Mode, ModeGenerate)
	}
	if cfg.InputPath != "record.json" {
		t.Errorf("LoadFromFlags() InputPath = %v, want record.json", cfg.InputPath)
	}
	if cfg.OutputDir != outDir {
		t.Errorf("LoadFromFlags() OutputDir = %v, want %v", cfg.OutputDir, outDir)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LoadFromFlags() LogLevel = %v, want debug", cfg.LogLevel)
	}
	if cfg.PhotosPerGrid != 4 {
		t.Errorf("LoadFromFlags() PhotosPerGrid = %v, want 4", cfg.PhotosPerGrid)
	}
	if cfg.ExportWidth != 800 {
		t.Errorf("LoadFromFlags() ExportWidth = %v, want 800", cfg.ExportWidth)
	}
	if cfg.ImageQuality != 55 {
		t.Errorf("LoadFromFlags() ImageQuality = %v, want 55", cfg.ImageQuality)
	}
	if cfg.ChromeTimeout != 30*time.Second {
		t.Errorf("LoadFromFlags() ChromeTimeout = %v, want 30s", cfg.ChromeTimeout)
	}
}

func TestLoadFromFlags_EnvironmentVariables(t *testing.T) {
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
		resetFlags()
		clearEnvVars()
	}()

	setArgs([]string{"valuation-report"})
	resetFlags()
	clearEnvVars()

	outDir := t.TempDir()
	os.Setenv("VALUATION_MODE", "generate")
	os.Setenv("VALUATION_INPUT", "env-record.json")
	os.Setenv("VALUATION_OUTDIR", outDir)
	os.Setenv("VALUATION_LOGLEVEL", "warn")

	cfg, err := LoadFromFlags()
	if err != nil {
		t.Fatalf("LoadFromFlags() unexpected error: %v", err)
	}

	if cfg.InputPath != "env-record.json" {
		t.Errorf("LoadFromFlags() InputPath = %v, want env-record.json", cfg.InputPath)
	}
	if cfg.OutputDir != outDir {
		t.Errorf("LoadFromFlags() OutputDir = %v, want %v", cfg.OutputDir, outDir)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LoadFromFlags() LogLevel = %v, want warn", cfg.LogLevel)
	}
}

func TestLoadFromFlags_FlagsBeatEnvironment(t *testing.T) {
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
		resetFlags()
		clearEnvVars()
	}()

	setArgs([]string{"valuation-report", "--input=flag-record.json"})
	resetFlags()
	clearEnvVars()

	os.Setenv("VALUATION_INPUT", "env-record.json")

	cfg, err := LoadFromFlags()
	if err != nil {
		t.Fatalf("LoadFromFlags() unexpected error: %v", err)
	}

	if cfg.InputPath != "flag-record.json" {
		t.Errorf("LoadFromFlags() InputPath = %v, want flag-record.json", cfg.InputPath)
	}
}

func TestLoadFromFlags_InvalidMode(t *testing.T) {
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
		resetFlags()
		clearEnvVars()
	}()

	setArgs([]string{"valuation-report", "--mode=bogus"})
	resetFlags()
	clearEnvVars()

	if _, err := LoadFromFlags(); err == nil {
		t.Error("LoadFromFlags() expected error for invalid mode")
	}
}

func TestLoadFromFlags_VersionFlag(t *testing.T) {
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
		resetFlags()
		clearEnvVars()
	}()

	setArgs([]string{"valuation-report", "--version"})
	resetFlags()
	clearEnvVars()

	if _, err := LoadFromFlags(); err == nil {
		t.Error("LoadFromFlags() expected version-requested error")
	}
}

func TestLoadFromFlags_ExpandsOutputDir(t *testing.T) {
	originalArgs := os.Args
	originalWd, _ := os.Getwd()
	defer func() {
		os.Args = originalArgs
		_ = os.Chdir(originalWd)
		resetFlags()
		clearEnvVars()
	}()

	base := t.TempDir()
	if err := os.Chdir(base); err != nil {
		t.Fatalf("Chdir: %v", err)
	}

	setArgs([]string{"valuation-report", "--input=record.json", "--outdir=reports"})
	resetFlags()
	clearEnvVars()

	cfg, err := LoadFromFlags()
	if err != nil {
		t.Fatalf("LoadFromFlags() unexpected error: %v", err)
	}

	if !filepath.IsAbs(cfg.OutputDir) {
		t.Errorf("LoadFromFlags() OutputDir = %v, want absolute path", cfg.OutputDir)
	}
}
