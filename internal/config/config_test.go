package config

import (
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("BARCODE_API_URL", "http://localhost:8090")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.APIPort != 8080 {
		t.Errorf("APIPort = %d, want 8080", cfg.APIPort)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %s, want info", cfg.LogLevel)
	}
	if cfg.OutputDir != "barcodes" {
		t.Errorf("OutputDir = %s, want barcodes", cfg.OutputDir)
	}
	if cfg.BatchInterval() != 300*time.Millisecond {
		t.Errorf("BatchInterval() = %v, want 300ms", cfg.BatchInterval())
	}
	if cfg.DownloadInterval() != 500*time.Millisecond {
		t.Errorf("DownloadInterval() = %v, want 500ms", cfg.DownloadInterval())
	}
	if cfg.RequestTimeout() != 10*time.Second {
		t.Errorf("RequestTimeout() = %v, want 10s", cfg.RequestTimeout())
	}
}

func TestLoad_CustomValues(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("API_PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("BATCH_INTERVAL_MS", "0")
	t.Setenv("DOWNLOAD_INTERVAL_MS", "1000")
	t.Setenv("OUTPUT_DIR", "/tmp/out")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.APIPort != 9090 {
		t.Errorf("APIPort = %d, want 9090", cfg.APIPort)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %s, want debug", cfg.LogLevel)
	}
	if cfg.BatchInterval() != 0 {
		t.Errorf("BatchInterval() = %v, want 0", cfg.BatchInterval())
	}
	if cfg.DownloadInterval() != time.Second {
		t.Errorf("DownloadInterval() = %v, want 1s", cfg.DownloadInterval())
	}
	if cfg.OutputDir != "/tmp/out" {
		t.Errorf("OutputDir = %s, want /tmp/out", cfg.OutputDir)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("BARCODE_API_URL", "")
	t.Setenv("API_PORT", "9090")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing required env vars, got nil")
	}
}

func TestLoad_RejectsNegativeInterval(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DOWNLOAD_INTERVAL_MS", "-1")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for negative interval, got nil")
	}
}

func TestLoad_RejectsZeroTimeout(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("REQUEST_TIMEOUT_MS", "0")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for zero timeout, got nil")
	}
}
