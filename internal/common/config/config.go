// internal/common/config/config.go
package config

import "strings"

// Config is the main application configuration struct.
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Server  ServerConfig  `mapstructure:"server"`
	Proxy   ProxyConfig   `mapstructure:"proxy"`
	Gateway GatewayConfig `mapstructure:"gateway"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// ServerConfig holds settings for the dashboard API consumed by the browser UI.
type ServerConfig struct {
	Address       string `mapstructure:"address"`
	ActionLogSize int    `mapstructure:"action_log_size"`
	ModulesFile   string `mapstructure:"modules_file"` // optional JSON module catalog
}

// ProxyConfig holds settings for the remote execution environment that owns the
// model credential.
type ProxyConfig struct {
	Address      string `mapstructure:"address"`
	Path         string `mapstructure:"path"`
	APIKey       string `mapstructure:"api_key"`
	ModelTimeout int    `mapstructure:"model_timeout"` // milliseconds
}

// GatewayConfig holds settings for the dispatcher and its proxy client.
type GatewayConfig struct {
	RemoteURL string `mapstructure:"remote_url"`
	ModelID   string `mapstructure:"model_id"`
	Timeout   int    `mapstructure:"timeout"` // milliseconds
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// CredentialLooksValid applies the browser shell's old shape check (non-empty, not the
// literal "undefined", longer than 20 characters). It is a startup diagnostic only.
func (p ProxyConfig) CredentialLooksValid() bool {
	key := strings.TrimSpace(p.APIKey)
	return key != "" && key != "undefined" && len(key) > 20
}
