package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return cfgPath
}

const validConfig = `
port: "8080"
logLevel: "info"
databaseDSN: "host=localhost user=netflix password=netflix dbname=netflix port=5432 sslmode=disable"
redisAddr: "localhost:6379"
identityJwksURL: "http://localhost:9000/.well-known/jwks.json"
minioEndpoint: "localhost:9001"
minioAccessKey: "minio"
minioSecretKey: "minio123"
minioBucket: "images"
writeRateLimitPerMinute: 60
uploadRateLimitPerMinute: 10
maxUploadBytes: 5242880
`

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_DSN", "host=db user=u dbname=d")
	t.Setenv("WRITE_RATE_LIMIT_PER_MINUTE", "120")
	t.Setenv("MAX_UPLOAD_BYTES", "1048576")
	t.Setenv("MINIO_USE_SSL", "true")

	cfg, err := Load(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Port != "9090" {
		t.Fatalf("port = %q, want 9090", cfg.Port)
	}
	if cfg.DatabaseDSN != "host=db user=u dbname=d" {
		t.Fatalf("databaseDSN = %q", cfg.DatabaseDSN)
	}
	if cfg.WriteRateLimitPerMinute != 120 {
		t.Fatalf("writeRateLimitPerMinute = %d, want 120", cfg.WriteRateLimitPerMinute)
	}
	if cfg.MaxUploadBytes != 1048576 {
		t.Fatalf("maxUploadBytes = %d, want 1048576", cfg.MaxUploadBytes)
	}
	if !cfg.MinioUseSSL {
		t.Fatalf("minioUseSSL = false, want true")
	}
}

func TestLoadRejectsMissingDatabaseDSN(t *testing.T) {
	content := `
port: "8080"
redisAddr: "localhost:6379"
identityJwksURL: "http://localhost:9000/.well-known/jwks.json"
`
	if _, err := Load(writeConfig(t, content)); err == nil {
		t.Fatalf("expected missing databaseDSN to fail validation")
	}
}

func TestLoadRejectsNegativeRateLimit(t *testing.T) {
	content := validConfig + "\n"
	t.Setenv("WRITE_RATE_LIMIT_PER_MINUTE", "-1")
	if _, err := Load(writeConfig(t, content)); err == nil {
		t.Fatalf("expected negative rate limit to fail validation")
	}
}

func TestParseRailCacheTTL(t *testing.T) {
	ttl, err := ParseRailCacheTTL("")
	if err != nil || ttl != time.Minute {
		t.Fatalf("default ttl = %v err = %v, want 1m", ttl, err)
	}
	ttl, err = ParseRailCacheTTL("30s")
	if err != nil || ttl != 30*time.Second {
		t.Fatalf("ttl = %v err = %v, want 30s", ttl, err)
	}
	if _, err := ParseRailCacheTTL("bogus"); err == nil {
		t.Fatalf("expected parse error for invalid duration")
	}
	if _, err := ParseRailCacheTTL("-5s"); err == nil {
		t.Fatalf("expected error for non-positive duration")
	}
}
