package app

import (
	"testing"

	"github.com/electionwatch/fecrecon/pkg/constants"
	"github.com/electionwatch/fecrecon/pkg/errors"
)

func testConfig() *Config {
	return &Config{
		FECAPIKey:   "DEMO_KEY",
		StoreURL:    "https://example.supabase.co",
		StoreAPIKey: "service-key",
		Tolerance:   constants.DefaultTolerance,
		HTTPTimeout: constants.DefaultHTTPTimeout,
	}
}

// TestApp_New verifies app initialization.
func TestApp_New(t *testing.T) {
	app, err := New("1.0.0", "abc123", "2026-01-01")
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if app.Version() != "1.0.0" {
		t.Errorf("Version() = %s, want 1.0.0", app.Version())
	}
	if app.Logger() == nil {
		t.Error("Logger() returned nil")
	}
	if app.Config() == nil {
		t.Error("Config() returned nil")
	}
}

// TestApp_FEC_MissingKey verifies construction fails fast without credentials.
func TestApp_FEC_MissingKey(t *testing.T) {
	app, err := New("test", "test", "test", WithConfig(&Config{}))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if _, err := app.FEC(); err == nil {
		t.Error("FEC() without an API key should fail")
	}
	if _, err := app.Store(); err == nil {
		t.Error("Store() without credentials should fail")
	}

	_, err = app.Store()
	var configErr *errors.ConfigError
	if !errors.As(err, &configErr) {
		t.Errorf("Store() error type = %T, want *errors.ConfigError", err)
	}
}

// TestApp_Singletons verifies lazily constructed clients are reused.
func TestApp_Singletons(t *testing.T) {
	app, err := New("test", "test", "test", WithConfig(testConfig()))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	fec1, err := app.FEC()
	if err != nil {
		t.Fatalf("FEC() failed: %v", err)
	}
	fec2, err := app.FEC()
	if err != nil {
		t.Fatalf("FEC() second call failed: %v", err)
	}
	if fec1 != fec2 {
		t.Error("FEC() should return the same instance")
	}

	store1, err := app.Store()
	if err != nil {
		t.Fatalf("Store() failed: %v", err)
	}
	store2, err := app.Store()
	if err != nil {
		t.Fatalf("Store() second call failed: %v", err)
	}
	if store1 != store2 {
		t.Error("Store() should return the same instance")
	}

	rec1, err := app.Reconciler()
	if err != nil {
		t.Fatalf("Reconciler() failed: %v", err)
	}
	rec2, err := app.Reconciler()
	if err != nil {
		t.Fatalf("Reconciler() second call failed: %v", err)
	}
	if rec1 != rec2 {
		t.Error("Reconciler() should return the same instance")
	}
}

// TestApp_Classifier verifies the embedded roster backs the classifier.
func TestApp_Classifier(t *testing.T) {
	app, err := New("test", "test", "test", WithConfig(testConfig()))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	classifier, err := app.Classifier()
	if err != nil {
		t.Fatalf("Classifier() failed: %v", err)
	}
	if classifier.Version() == "" {
		t.Error("Classifier().Version() should not be empty")
	}

	sitting, class := classifier.Classify("SULLIVAN, DAN", "AK")
	if !sitting {
		t.Error("Classify(SULLIVAN, AK) should report a sitting senator")
	}
	if class == "" {
		t.Error("Classify(SULLIVAN, AK) should report a class")
	}
}
