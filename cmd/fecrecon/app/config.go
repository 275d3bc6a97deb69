package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/electionwatch/fecrecon/internal/transport"
	"github.com/electionwatch/fecrecon/pkg/constants"
	"github.com/electionwatch/fecrecon/pkg/errors"
)

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool

	// Config file
	ConfigFile string

	// FEC API configuration
	FECAPIKey string

	// Hosted store configuration
	StoreURL    string
	StoreAPIKey string
	StoreToken  string

	// Reconciliation configuration
	Tolerance   float64
	HTTPTimeout time.Duration
	Retries     int

	// Senate roster override (empty means the embedded roster)
	RosterPath string

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables
// 3. .env files
// 4. Config file (~/.fecrecon.yaml)
// 5. Defaults
func LoadConfig() (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	// Set up Viper for environment variables
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	// Bind credentials explicitly so .env values reach Viper
	bindCredentials()

	// Try to read config file if it exists
	configFile := viper.GetString("config")
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		// Search for config in standard locations
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.AddConfigPath(".")
			viper.SetConfigType("yaml")
			viper.SetConfigName(".fecrecon")
		}
	}

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()

	// Build config from viper
	config := &Config{
		// Global flags (may be overridden by cobra flags later)
		Verbose: viper.GetBool("verbose"),
		Quiet:   viper.GetBool("quiet"),
		NoColor: viper.GetBool("no-color"),

		// Config file
		ConfigFile: viper.ConfigFileUsed(),

		// FEC API configuration
		FECAPIKey: viper.GetString("fec_api_key"),

		// Hosted store configuration
		StoreURL:    viper.GetString("supabase_url"),
		StoreAPIKey: viper.GetString("supabase_service_key"),
		StoreToken:  viper.GetString("supabase_access_token"),

		// Reconciliation configuration
		Tolerance:   viper.GetFloat64("tolerance"),
		HTTPTimeout: viper.GetDuration("http_timeout"),
		Retries:     viper.GetInt("http_retries"),

		// Senate roster override
		RosterPath: viper.GetString("senate_roster"),

		// Logging configuration. LogLevel stays empty when unset so the
		// -v/-q shortcuts can take effect.
		LogLevel:  os.Getenv("LOG_LEVEL"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}

	// Set defaults
	if config.Tolerance == 0 {
		config.Tolerance = constants.DefaultTolerance
	}
	if config.HTTPTimeout == 0 {
		config.HTTPTimeout = constants.DefaultHTTPTimeout
	}

	return config, nil
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// ValidateFEC checks that the FEC API credentials are present.
func (c *Config) ValidateFEC() error {
	if c.FECAPIKey == "" {
		return errors.NewMissingConfigError("fec", []string{"FEC_API_KEY"})
	}
	return nil
}

// ValidateStore checks that the hosted store credentials are present. All
// missing keys are reported together so a bare environment fails with one
// actionable error rather than one key at a time.
func (c *Config) ValidateStore() error {
	var missing []string
	if c.StoreURL == "" {
		missing = append(missing, "SUPABASE_URL")
	}
	if c.StoreAPIKey == "" {
		missing = append(missing, "SUPABASE_SERVICE_KEY")
	}
	if len(missing) > 0 {
		return errors.NewMissingConfigError("store", missing)
	}
	return nil
}

// Validate checks all upstream credentials at once.
func (c *Config) Validate() error {
	var missing []string
	if c.FECAPIKey == "" {
		missing = append(missing, "FEC_API_KEY")
	}
	if c.StoreURL == "" {
		missing = append(missing, "SUPABASE_URL")
	}
	if c.StoreAPIKey == "" {
		missing = append(missing, "SUPABASE_SERVICE_KEY")
	}
	if len(missing) > 0 {
		return errors.NewMissingConfigError("app", missing)
	}
	return nil
}

// httpOptions returns the transport options shared by both upstream clients.
func (c *Config) httpOptions() []transport.Option {
	opts := []transport.Option{transport.WithTimeout(c.HTTPTimeout)}
	if c.Retries > 0 {
		opts = append(opts, transport.WithRetries(c.Retries))
	}
	return opts
}

// loadEnvFiles loads environment variables from .env files.
func loadEnvFiles() {
	// Try to load .env files in order of precedence
	// .env.local overrides .env
	envFiles := []string{
		".env",
		".env.local",
	}

	for _, envFile := range envFiles {
		_ = godotenv.Load(envFile)
	}
}

// bindCredentials explicitly binds credential environment variables to Viper.
func bindCredentials() {
	keys := []string{
		"FEC_API_KEY",
		"SUPABASE_URL",
		"SUPABASE_SERVICE_KEY",
		"SUPABASE_ACCESS_TOKEN",
	}

	for _, key := range keys {
		if err := viper.BindEnv(key); err != nil {
			// Log warning but continue - this isn't critical
			fmt.Fprintf(os.Stderr, "Warning: failed to bind environment variable %s: %v\n", key, err)
		}
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
