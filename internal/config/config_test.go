package config

import (
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ServiceName != "oddsight-ingest" {
		t.Fatalf("unexpected service name: %q", cfg.ServiceName)
	}
	if cfg.IngestInterval != 5*time.Minute {
		t.Fatalf("unexpected default ingest interval: %s", cfg.IngestInterval)
	}
	if cfg.LivePollInterval != 60*time.Second {
		t.Fatalf("unexpected default live poll interval: %s", cfg.LivePollInterval)
	}
	if cfg.CacheTTL != 6*time.Hour {
		t.Fatalf("unexpected default cache ttl: %s", cfg.CacheTTL)
	}
	if cfg.CacheNegativeTTL != 30*time.Minute {
		t.Fatalf("unexpected default negative cache ttl: %s", cfg.CacheNegativeTTL)
	}
	if cfg.DBEnabled {
		t.Fatalf("expected DBEnabled=false by default")
	}
}

func TestLoad_SourcesParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("SOURCES", "soccer|generic|https://sheets.example.com/a; soccer|mainlist|https://sheets.example.com/b|Soccer|soccer.png")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if len(cfg.Sources) != 2 {
		t.Fatalf("unexpected sources length: %d", len(cfg.Sources))
	}
	if cfg.Sources[0].SportID != "soccer" || cfg.Sources[0].Format != "generic" {
		t.Fatalf("unexpected first source: %+v", cfg.Sources[0])
	}
	if cfg.Sources[0].SportName != "Soccer" {
		t.Fatalf("expected sport name derived from id, got %q", cfg.Sources[0].SportName)
	}
	if cfg.Sources[1].SportIcon != "soccer.png" {
		t.Fatalf("unexpected icon: %q", cfg.Sources[1].SportIcon)
	}
}

func TestParseSources_RejectsBadEntries(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"missing url":    "soccer|generic",
		"unknown format": "soccer|csv|https://sheets.example.com/a",
		"missing sport":  "|generic|https://sheets.example.com/a",
		"bad url":        "soccer|generic|not a url",
	}
	for name, raw := range cases {
		if _, err := ParseSources(raw); err == nil {
			t.Fatalf("%s: expected error for %q", name, raw)
		}
	}
}

func TestParseSources_Empty(t *testing.T) {
	t.Parallel()

	sources, err := ParseSources("  ;  ")
	if err != nil {
		t.Fatalf("parse sources: %v", err)
	}
	if len(sources) != 0 {
		t.Fatalf("expected no sources, got %d", len(sources))
	}
}

func TestLoad_ThresholdOverrides(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("valid override", func(t *testing.T) {
		t.Setenv("FUZZY_MIN_SCORE", "0.42")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.Thresholds.MinScore != 0.42 {
			t.Fatalf("unexpected min score: %v", cfg.Thresholds.MinScore)
		}
	})

	t.Run("out of range", func(t *testing.T) {
		t.Setenv("FUZZY_MIN_SCORE", "1.5")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for out-of-range FUZZY_MIN_SCORE")
		}
	})
}

func TestLoad_DBRequiresURLWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("DB_ENABLED", "true")
	t.Setenv("DB_URL", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when DB_ENABLED=true without DB_URL")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_PyroscopeRequiresServerAddressWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_PprofDefaultsAddrWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PPROF_ENABLED", "true")
	t.Setenv("PPROF_ADDR", "  ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PprofAddr != ":6060" {
		t.Fatalf("expected default pprof addr :6060, got %q", cfg.PprofAddr)
	}
}
