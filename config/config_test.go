package config

import (
	"os"
	"testing"
	"time"
)

// isolate runs the test from an empty directory so no stray config.yaml or .env is picked up
func isolate(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
}

func unsetAfter(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		os.Unsetenv(k)
	}
	t.Cleanup(func() {
		for _, k := range keys {
			os.Unsetenv(k)
		}
	})
}

func TestLoad(t *testing.T) {
	t.Run("loads with defaults when only base URL is set", func(t *testing.T) {
		isolate(t)
		t.Setenv("ECHO_RECOMMENDER_BASE_URL", "http://localhost:5000")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "8080" {
			t.Errorf("Server.Port = %s, want 8080", cfg.Server.Port)
		}
		if cfg.Server.Environment != "development" {
			t.Errorf("Server.Environment = %s, want development", cfg.Server.Environment)
		}
		if !cfg.Server.IsDevelopment() {
			t.Error("Server.IsDevelopment() = false, want true")
		}
		if len(cfg.Server.AllowedOrigins) != 1 || cfg.Server.AllowedOrigins[0] != "http://localhost:8501" {
			t.Errorf("Server.AllowedOrigins = %v, want [http://localhost:8501]", cfg.Server.AllowedOrigins)
		}
		if cfg.Recommender.BaseURL != "http://localhost:5000" {
			t.Errorf("Recommender.BaseURL = %s, want http://localhost:5000", cfg.Recommender.BaseURL)
		}
		if cfg.Recommender.Timeout != 10*time.Second {
			t.Errorf("Recommender.Timeout = %v, want 10s", cfg.Recommender.Timeout)
		}
		if cfg.Recommender.RatePerSecond != 5 {
			t.Errorf("Recommender.RatePerSecond = %v, want 5", cfg.Recommender.RatePerSecond)
		}
		if cfg.Recommender.Burst != 10 {
			t.Errorf("Recommender.Burst = %d, want 10", cfg.Recommender.Burst)
		}
		if cfg.Recommender.MaxRetries != 3 {
			t.Errorf("Recommender.MaxRetries = %d, want 3", cfg.Recommender.MaxRetries)
		}
		if cfg.Cache.TTL != 15*time.Minute {
			t.Errorf("Cache.TTL = %v, want 15m", cfg.Cache.TTL)
		}
		if cfg.Cache.MaxSize != 10000 {
			t.Errorf("Cache.MaxSize = %d, want 10000", cfg.Cache.MaxSize)
		}
		if cfg.RateLimit.PerIP != 100 {
			t.Errorf("RateLimit.PerIP = %d, want 100", cfg.RateLimit.PerIP)
		}
		if cfg.Matching.FeaturedCount != 3 {
			t.Errorf("Matching.FeaturedCount = %d, want 3", cfg.Matching.FeaturedCount)
		}
		if cfg.Log.Level != "info" {
			t.Errorf("Log.Level = %s, want info", cfg.Log.Level)
		}
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		isolate(t)
		t.Setenv("ECHO_SERVER_PORT", "9090")
		t.Setenv("ECHO_SERVER_ENVIRONMENT", "production")
		t.Setenv("ECHO_RECOMMENDER_BASE_URL", "https://recs.example.com")
		t.Setenv("ECHO_RECOMMENDER_TIMEOUT", "3s")
		t.Setenv("ECHO_RECOMMENDER_MAX_RETRIES", "5")
		t.Setenv("ECHO_CACHE_TTL", "1h")
		t.Setenv("ECHO_CACHE_MAX_SIZE", "50")
		t.Setenv("ECHO_RATELIMIT_PER_IP", "200")
		t.Setenv("ECHO_MATCHING_FEATURED_COUNT", "5")
		t.Setenv("ECHO_MATCHING_DEBUG_LOGGING", "true")
		t.Setenv("ECHO_LOG_LEVEL", "debug")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "9090" {
			t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
		}
		if cfg.Server.IsDevelopment() {
			t.Error("Server.IsDevelopment() = true, want false")
		}
		if cfg.Recommender.BaseURL != "https://recs.example.com" {
			t.Errorf("Recommender.BaseURL = %s, want https://recs.example.com", cfg.Recommender.BaseURL)
		}
		if cfg.Recommender.Timeout != 3*time.Second {
			t.Errorf("Recommender.Timeout = %v, want 3s", cfg.Recommender.Timeout)
		}
		if cfg.Recommender.MaxRetries != 5 {
			t.Errorf("Recommender.MaxRetries = %d, want 5", cfg.Recommender.MaxRetries)
		}
		if cfg.Cache.TTL != time.Hour {
			t.Errorf("Cache.TTL = %v, want 1h", cfg.Cache.TTL)
		}
		if cfg.Cache.MaxSize != 50 {
			t.Errorf("Cache.MaxSize = %d, want 50", cfg.Cache.MaxSize)
		}
		if cfg.RateLimit.PerIP != 200 {
			t.Errorf("RateLimit.PerIP = %d, want 200", cfg.RateLimit.PerIP)
		}
		if cfg.Matching.FeaturedCount != 5 {
			t.Errorf("Matching.FeaturedCount = %d, want 5", cfg.Matching.FeaturedCount)
		}
		if !cfg.Matching.DebugLogging {
			t.Error("Matching.DebugLogging = false, want true")
		}
		if cfg.Log.Level != "debug" {
			t.Errorf("Log.Level = %s, want debug", cfg.Log.Level)
		}
	})

	t.Run("reads config.yaml", func(t *testing.T) {
		isolate(t)
		yaml := "recommender:\n  base_url: http://from-file:5000\nserver:\n  port: \"7070\"\n"
		if err := os.WriteFile("config.yaml", []byte(yaml), 0644); err != nil {
			t.Fatalf("Failed to create config.yaml: %v", err)
		}

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}
		if cfg.Recommender.BaseURL != "http://from-file:5000" {
			t.Errorf("Recommender.BaseURL = %s, want http://from-file:5000", cfg.Recommender.BaseURL)
		}
		if cfg.Server.Port != "7070" {
			t.Errorf("Server.Port = %s, want 7070", cfg.Server.Port)
		}
	})

	t.Run("environment overrides config.yaml", func(t *testing.T) {
		isolate(t)
		if err := os.WriteFile("config.yaml", []byte("recommender:\n  base_url: http://from-file\n"), 0644); err != nil {
			t.Fatalf("Failed to create config.yaml: %v", err)
		}
		t.Setenv("ECHO_RECOMMENDER_BASE_URL", "http://from-env")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}
		if cfg.Recommender.BaseURL != "http://from-env" {
			t.Errorf("Recommender.BaseURL = %s, want http://from-env", cfg.Recommender.BaseURL)
		}
	})

	t.Run("reads base URL from .env", func(t *testing.T) {
		isolate(t)
		unsetAfter(t, "ECHO_RECOMMENDER_BASE_URL")
		if err := os.WriteFile(".env", []byte("ECHO_RECOMMENDER_BASE_URL=http://from-dotenv\n"), 0644); err != nil {
			t.Fatalf("Failed to create .env: %v", err)
		}

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}
		if cfg.Recommender.BaseURL != "http://from-dotenv" {
			t.Errorf("Recommender.BaseURL = %s, want http://from-dotenv", cfg.Recommender.BaseURL)
		}
	})

	t.Run("fails validation when base URL is missing", func(t *testing.T) {
		isolate(t)
		unsetAfter(t, "ECHO_RECOMMENDER_BASE_URL")

		_, err := Load()
		if err == nil {
			t.Fatal("Load() error = nil, want error for missing base URL")
		}
		want := "invalid configuration: recommender base URL is required (set ECHO_RECOMMENDER_BASE_URL)"
		if err.Error() != want {
			t.Errorf("Load() error = %v, want %q", err, want)
		}
	})

	t.Run("fails on malformed config.yaml", func(t *testing.T) {
		isolate(t)
		t.Setenv("ECHO_RECOMMENDER_BASE_URL", "http://localhost:5000")
		if err := os.WriteFile("config.yaml", []byte("server: [unterminated"), 0644); err != nil {
			t.Fatalf("Failed to create config.yaml: %v", err)
		}

		if _, err := Load(); err == nil {
			t.Error("Load() error = nil, want error for malformed config file")
		}
	})
}

func TestLoadEnvFile(t *testing.T) {
	t.Run("returns nil when .env file doesn't exist", func(t *testing.T) {
		isolate(t)

		if err := loadEnvFile(); err != nil {
			t.Errorf("loadEnvFile() error = %v, want nil when file doesn't exist", err)
		}
	})

	t.Run("loads variables and skips comments", func(t *testing.T) {
		isolate(t)
		unsetAfter(t, "TEST_VAR_1", "TEST_VAR_2", "TEST_COMMENTED")

		envContent := `
# Comment line
TEST_VAR_1=value1

   # Indented comment
TEST_VAR_2=value2
# TEST_COMMENTED=should_not_load
`
		if err := os.WriteFile(".env", []byte(envContent), 0644); err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}

		if err := loadEnvFile(); err != nil {
			t.Fatalf("loadEnvFile() error = %v, want nil", err)
		}

		if os.Getenv("TEST_VAR_1") != "value1" {
			t.Errorf("TEST_VAR_1 = %s, want value1", os.Getenv("TEST_VAR_1"))
		}
		if os.Getenv("TEST_VAR_2") != "value2" {
			t.Errorf("TEST_VAR_2 = %s, want value2", os.Getenv("TEST_VAR_2"))
		}
		if os.Getenv("TEST_COMMENTED") != "" {
			t.Errorf("TEST_COMMENTED should not be loaded from comment")
		}
	})

	t.Run("doesn't override existing environment variables", func(t *testing.T) {
		isolate(t)
		t.Setenv("TEST_OVERRIDE", "existing-value")

		if err := os.WriteFile(".env", []byte("TEST_OVERRIDE=new-value"), 0644); err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}

		if err := loadEnvFile(); err != nil {
			t.Fatalf("loadEnvFile() error = %v, want nil", err)
		}

		if os.Getenv("TEST_OVERRIDE") != "existing-value" {
			t.Errorf("TEST_OVERRIDE = %s, want existing-value (should not override)", os.Getenv("TEST_OVERRIDE"))
		}
	})
}

func validConfig() *Config {
	return &Config{
		Recommender: RecommenderConfig{
			BaseURL:    "http://localhost:5000",
			Timeout:    10 * time.Second,
			MaxRetries: 3,
		},
		Matching: MatchingConfig{FeaturedCount: 3},
		Log:      LogConfig{Level: "info"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid config", mutate: func(*Config) {}},
		{name: "empty log level is allowed", mutate: func(c *Config) { c.Log.Level = "" }},
		{name: "zero featured count is allowed", mutate: func(c *Config) { c.Matching.FeaturedCount = 0 }},
		{name: "missing base URL", mutate: func(c *Config) { c.Recommender.BaseURL = "" }, wantErr: true},
		{name: "zero timeout", mutate: func(c *Config) { c.Recommender.Timeout = 0 }, wantErr: true},
		{name: "negative timeout", mutate: func(c *Config) { c.Recommender.Timeout = -time.Second }, wantErr: true},
		{name: "zero retries", mutate: func(c *Config) { c.Recommender.MaxRetries = 0 }, wantErr: true},
		{name: "negative featured count", mutate: func(c *Config) { c.Matching.FeaturedCount = -1 }, wantErr: true},
		{name: "unknown log level", mutate: func(c *Config) { c.Log.Level = "verbose" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLookupBudget(t *testing.T) {
	tests := []struct {
		name string
		cfg  RecommenderConfig
		want time.Duration
	}{
		{"single attempt", RecommenderConfig{Timeout: 10 * time.Second, MaxRetries: 1}, 10 * time.Second},
		{"defaults", RecommenderConfig{Timeout: 10 * time.Second, MaxRetries: 3}, 31500 * time.Millisecond},
		{"four attempts", RecommenderConfig{Timeout: time.Second, MaxRetries: 4}, 7500 * time.Millisecond},
		{"zero retries counts as one attempt", RecommenderConfig{Timeout: time.Second}, time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.LookupBudget(); got != tt.want {
				t.Errorf("LookupBudget() = %v, want %v", got, tt.want)
			}
		})
	}
}
