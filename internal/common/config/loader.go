// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DefaultModelID     = "gemini-3-flash-preview"
	DefaultProxyPath   = "/gemini-proxy"
	defaultServerAddr  = ":8080"
	defaultProxyAddr   = ":8888"
	defaultLogSize     = 100
	defaultTimeoutMS   = 30000
	defaultModelTimeMS = 60000
)

// Load reads config.yaml (and config.<APP_ENVIRONMENT>.yaml) from the usual locations,
// applies environment overrides and defaults, then validates the result.
func Load() (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // optional

	return finish(v)
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finish(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only resolves keys viper already knows about.
	for _, key := range []string{
		"app.name", "app.version", "app.environment",
		"server.address", "server.action_log_size", "server.modules_file",
		"proxy.address", "proxy.path", "proxy.api_key", "proxy.model_timeout",
		"gateway.remote_url", "gateway.model_id", "gateway.timeout",
		"logging.level", "logging.format", "logging.output",
	} {
		_ = v.BindEnv(key)
	}
	v.SetDefault("metrics.enabled", true)
	return v
}

func finish(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadEnvFile loads the first .env found in the working directory, its parents or the
// module root. A missing file is not an error.
func loadEnvFile() string {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return path
			}
		}
	}
	return ""
}

// Find project root by looking for go.mod
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			expanded := os.ExpandEnv(strVal)
			if expanded != strVal {
				v.Set(key, expanded)
			}
		}
	}
}

// overrideEmptyConfig fills values that the deployment conventionally provides through
// plain environment variables rather than the prefixed viper keys.
func overrideEmptyConfig(cfg *Config) {
	if cfg.Proxy.APIKey == "" {
		if val := os.Getenv("API_KEY"); val != "" {
			cfg.Proxy.APIKey = val
		}
	}
	if cfg.Gateway.RemoteURL == "" {
		if val := os.Getenv("AI_PROXY_URL"); val != "" {
			cfg.Gateway.RemoteURL = val
		}
	}
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "opsflow"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}

	if cfg.Server.Address == "" {
		cfg.Server.Address = defaultServerAddr
	}
	if cfg.Server.ActionLogSize == 0 {
		cfg.Server.ActionLogSize = defaultLogSize
	}

	if cfg.Proxy.Address == "" {
		cfg.Proxy.Address = defaultProxyAddr
	}
	if cfg.Proxy.Path == "" {
		cfg.Proxy.Path = DefaultProxyPath
	}
	if cfg.Proxy.ModelTimeout == 0 {
		cfg.Proxy.ModelTimeout = defaultModelTimeMS
	}

	if cfg.Gateway.ModelID == "" {
		cfg.Gateway.ModelID = DefaultModelID
	}
	if cfg.Gateway.Timeout == 0 {
		cfg.Gateway.Timeout = defaultTimeoutMS
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
}

// validateConfig validates critical configuration fields. An empty gateway.remote_url
// is valid: the dashboard then runs in standard local mode.
func validateConfig(cfg *Config) error {
	if cfg.Gateway.Timeout < 0 {
		return fmt.Errorf("gateway.timeout must be positive")
	}
	if cfg.Proxy.ModelTimeout < 0 {
		return fmt.Errorf("proxy.model_timeout must be positive")
	}
	if cfg.Server.ActionLogSize < 0 {
		return fmt.Errorf("server.action_log_size must be positive")
	}
	if !strings.HasPrefix(cfg.Proxy.Path, "/") {
		return fmt.Errorf("proxy.path must start with '/'")
	}
	if cfg.Gateway.RemoteURL != "" &&
		!strings.HasPrefix(cfg.Gateway.RemoteURL, "http://") &&
		!strings.HasPrefix(cfg.Gateway.RemoteURL, "https://") {
		return fmt.Errorf("gateway.remote_url must be an http(s) URL")
	}
	return nil
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
