package config

import "testing"

func TestLoadReadsCriticalEnvKeys(t *testing.T) {
	t.Setenv("STORYHUB_DB_BACKEND", "postgres")
	t.Setenv("STORYHUB_DB_DSN", "host=localhost user=test dbname=test sslmode=disable")
	t.Setenv("STORYHUB_JWT_SIGNING_KEY", "supersecret")
	t.Setenv("STORYHUB_ENV", "development")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.DBBackend != DatabasePostgres {
		t.Fatalf("unexpected backend: %q", cfg.DBBackend)
	}
	if cfg.JWTSigningKey != "supersecret" {
		t.Fatalf("unexpected jwt signing key: %q", cfg.JWTSigningKey)
	}
}

func TestLoadDefaultsSQLiteDSN(t *testing.T) {
	t.Setenv("STORYHUB_DB_BACKEND", "sqlite")
	t.Setenv("STORYHUB_DB_DSN", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.DBDSN == "" {
		t.Fatal("expected a default sqlite DSN")
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("STORYHUB_DB_BACKEND", "oracle")

	if _, err := Load(); err == nil {
		t.Fatal("expected unknown backend to fail")
	}
}

func TestLoadProductionRequiresSigningKey(t *testing.T) {
	t.Setenv("STORYHUB_ENV", "production")
	t.Setenv("STORYHUB_DB_BACKEND", "sqlite")
	t.Setenv("STORYHUB_JWT_SIGNING_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected production config load to fail without a signing key")
	}

	t.Setenv("STORYHUB_JWT_SIGNING_KEY", "prod-secret")
	if _, err := Load(); err != nil {
		t.Fatalf("expected production config load with signing key to succeed: %v", err)
	}
}

func TestLoadReportsLegacyEnvWarnings(t *testing.T) {
	t.Setenv("STORYHUB_DB_BACKEND", "sqlite")
	t.Setenv("JWT_SIGNING_KEY", "legacy")
	t.Setenv("DATABASE_URL", "sqlite:///old.db")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if len(cfg.LegacyEnvWarnings) < 2 {
		t.Fatalf("expected legacy env warnings, got %v", cfg.LegacyEnvWarnings)
	}
}
