package main

import (
	"testing"

	"go.uber.org/zap"

	"github.com/propdesk/valuation-report/internal/config"
)

func TestBuildService(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.InputPath = "record.json"
	cfg.OutputDir = t.TempDir()

	svc, err := buildService(cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("buildService() error = %v", err)
	}
	if svc == nil {
		t.Fatal("buildService() returned nil service")
	}
}

func TestBuildServiceRejectsMissingAliasFile(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.AliasPath = "/nonexistent/aliases.json"

	if _, err := buildService(cfg, zap.NewNop()); err == nil {
		t.Error("expected error for missing alias table")
	}
}

func TestVersionDefaults(t *testing.T) {
	if version == "" {
		t.Error("version should never be empty")
	}
	if buildTime == "" || gitCommit == "" {
		t.Error("build metadata should never be empty")
	}
}
