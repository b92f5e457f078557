package config

import "testing"

func TestLoadRequiresToken(t *testing.T) {
	t.Setenv("CONFIG_PATH", "/nonexistent/config.yaml")
	t.Setenv("DISCORD_TOKEN", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error without token")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CONFIG_PATH", "/nonexistent/config.yaml")
	t.Setenv("DISCORD_TOKEN", "token-123")
	t.Setenv("DEFAULT_PREFIX", "?")
	t.Setenv("DEFAULT_LANGUAGE", "fr")
	t.Setenv("HEALTH_ENABLED", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DiscordToken != "token-123" {
		t.Errorf("token not applied: %q", cfg.DiscordToken)
	}
	if cfg.DefaultPrefix != "?" || cfg.DefaultLanguage != "fr" {
		t.Errorf("overrides not applied: %q %q", cfg.DefaultPrefix, cfg.DefaultLanguage)
	}
	if !cfg.Health.Enabled {
		t.Error("health override not applied")
	}
	if cfg.DatabasePath != "/data/ultrabot.db" {
		t.Errorf("default database path lost: %q", cfg.DatabasePath)
	}
}

func TestLoadUnknownLanguageFallsBack(t *testing.T) {
	t.Setenv("CONFIG_PATH", "/nonexistent/config.yaml")
	t.Setenv("DISCORD_TOKEN", "token-123")
	t.Setenv("DEFAULT_LANGUAGE", "de")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DefaultLanguage != "en" {
		t.Errorf("expected fallback to en, got %q", cfg.DefaultLanguage)
	}
}
