package app

import (
	"testing"
	"time"

	"github.com/electionwatch/fecrecon/pkg/constants"
	"github.com/electionwatch/fecrecon/pkg/errors"
)

// TestLoadConfig verifies basic config loading.
func TestLoadConfig(t *testing.T) {
	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if config == nil {
		t.Fatal("LoadConfig() returned nil config")
	}

	// Verify defaults are set
	// Note: LogLevel may be empty (triggers precedence logic in logger.go)
	if config.LogFormat == "" {
		t.Error("LogFormat not set to default")
	}
	if config.Tolerance != constants.DefaultTolerance {
		t.Errorf("Tolerance = %v, want %v", config.Tolerance, constants.DefaultTolerance)
	}
	if config.HTTPTimeout != constants.DefaultHTTPTimeout {
		t.Errorf("HTTPTimeout = %v, want %v", config.HTTPTimeout, constants.DefaultHTTPTimeout)
	}
}

// TestConfig_EnvironmentVariables verifies environment variable loading.
func TestConfig_EnvironmentVariables(t *testing.T) {
	t.Setenv("FEC_API_KEY", "DEMO_KEY")
	t.Setenv("SUPABASE_URL", "https://example.supabase.co")
	t.Setenv("SUPABASE_SERVICE_KEY", "service-key")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if config.FECAPIKey != "DEMO_KEY" {
		t.Errorf("FECAPIKey = %s, want DEMO_KEY", config.FECAPIKey)
	}
	if config.StoreURL != "https://example.supabase.co" {
		t.Errorf("StoreURL = %s, want https://example.supabase.co", config.StoreURL)
	}
	if config.StoreAPIKey != "service-key" {
		t.Errorf("StoreAPIKey = %s, want service-key", config.StoreAPIKey)
	}
}

// TestConfig_HTTPTimeout verifies time duration parsing.
func TestConfig_HTTPTimeout(t *testing.T) {
	t.Setenv("HTTP_TIMEOUT", "90s")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if config.HTTPTimeout != 90*time.Second {
		t.Errorf("HTTPTimeout = %v, want 90s", config.HTTPTimeout)
	}
}

// TestConfig_ValidateFEC verifies the FEC credential check.
func TestConfig_ValidateFEC(t *testing.T) {
	config := &Config{}
	err := config.ValidateFEC()
	if err == nil {
		t.Fatal("ValidateFEC() with no key should fail")
	}

	var configErr *errors.ConfigError
	if !errors.As(err, &configErr) {
		t.Fatalf("ValidateFEC() error type = %T, want *errors.ConfigError", err)
	}
	if len(configErr.Missing) != 1 || configErr.Missing[0] != "FEC_API_KEY" {
		t.Errorf("Missing = %v, want [FEC_API_KEY]", configErr.Missing)
	}

	config.FECAPIKey = "DEMO_KEY"
	if err := config.ValidateFEC(); err != nil {
		t.Errorf("ValidateFEC() with key failed: %v", err)
	}
}

// TestConfig_ValidateStore verifies all missing store keys are reported together.
func TestConfig_ValidateStore(t *testing.T) {
	config := &Config{}
	err := config.ValidateStore()
	if err == nil {
		t.Fatal("ValidateStore() with no credentials should fail")
	}

	var configErr *errors.ConfigError
	if !errors.As(err, &configErr) {
		t.Fatalf("ValidateStore() error type = %T, want *errors.ConfigError", err)
	}
	if len(configErr.Missing) != 2 {
		t.Errorf("Missing = %v, want both SUPABASE_URL and SUPABASE_SERVICE_KEY", configErr.Missing)
	}

	config.StoreURL = "https://example.supabase.co"
	config.StoreAPIKey = "service-key"
	if err := config.ValidateStore(); err != nil {
		t.Errorf("ValidateStore() with credentials failed: %v", err)
	}
}

// TestConfig_UpdateFromFlags verifies flag precedence over env values.
func TestConfig_UpdateFromFlags(t *testing.T) {
	config := &Config{LogLevel: "info"}

	config.UpdateFromFlags(true, false, true, "")
	if !config.Verbose || config.Quiet || !config.NoColor {
		t.Errorf("UpdateFromFlags() bools = %v/%v/%v, want true/false/true",
			config.Verbose, config.Quiet, config.NoColor)
	}
	if config.LogLevel != "info" {
		t.Errorf("empty log-level flag should keep existing level, got %s", config.LogLevel)
	}

	config.UpdateFromFlags(false, false, false, "error")
	if config.LogLevel != "error" {
		t.Errorf("LogLevel = %s, want error", config.LogLevel)
	}
}
