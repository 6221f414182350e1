// Package config provides configuration loading and validation for locmeta.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/Sumatoshi-tech/locmeta/internal/commits"
	"github.com/Sumatoshi-tech/locmeta/internal/observability"
	"github.com/Sumatoshi-tech/locmeta/internal/plotpage"
	"github.com/Sumatoshi-tech/locmeta/internal/scatter"
)

// Sentinel validation errors.
var (
	ErrInvalidPort        = errors.New("invalid server port")
	ErrInvalidTimeout     = errors.New("timeout must be positive")
	ErrInvalidDimensions  = errors.New("plot margins leave no drawing area")
	ErrInvalidTheme       = errors.New("unknown theme")
	ErrInvalidLogFormat   = errors.New("unknown log format")
	ErrInvalidSampleRatio = errors.New("sample ratio must be within [0, 1]")
)

const (
	configName      = "locmeta"
	configType      = "yaml"
	envPrefix       = "LOCMETA"
	envFile         = ".env"
	envKeySeparator = "_"

	defaultPort = 8080
	defaultHost = "127.0.0.1"
	maxPort     = 65535

	// LogFormatText and LogFormatJSON are the accepted logging.format values.
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config holds all configuration for locmeta.
type Config struct {
	Source    SourceConfig    `mapstructure:"source"`
	Plot      PlotConfig      `mapstructure:"plot"`
	Server    ServerConfig    `mapstructure:"server"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// SourceConfig controls log loading.
type SourceConfig struct {
	Timeout   time.Duration `mapstructure:"timeout"`
	URLPrefix string        `mapstructure:"url_prefix"`
}

// PlotConfig controls the scatter plot.
type PlotConfig struct {
	Width  float64        `mapstructure:"width"`
	Height float64        `mapstructure:"height"`
	Margin scatter.Margin `mapstructure:"margin"`
	Jitter bool           `mapstructure:"jitter"`
	Theme  string         `mapstructure:"theme"`
}

// Dimensions returns the plot frame.
func (p PlotConfig) Dimensions() scatter.Dimensions {
	return scatter.Dimensions{Width: p.Width, Height: p.Height, Margin: p.Margin}
}

// ServerConfig holds server-specific configuration.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TelemetryConfig holds OpenTelemetry export settings.
type TelemetryConfig struct {
	Endpoint    string  `mapstructure:"endpoint"`
	Headers     string  `mapstructure:"headers"`
	Insecure    bool    `mapstructure:"insecure"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
	Environment string  `mapstructure:"environment"`
}

// LoadConfig loads configuration from file, env vars, and defaults.
// If configPath is non-empty it is read and must exist. Otherwise
// locmeta.yaml is searched in ., ./config and $HOME/.config/locmeta, and a
// missing file is not an error. A .env file in the working directory is
// loaded into the environment first when present.
func LoadConfig(configPath string) (*Config, error) {
	_ = godotenv.Load(envFile)

	viperCfg := viper.New()

	setDefaults(viperCfg)

	viperCfg.SetConfigType(configType)
	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", envKeySeparator))
	viperCfg.AutomaticEnv()

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("./config")

		home, err := os.UserHomeDir()
		if err == nil {
			viperCfg.AddConfigPath(filepath.Join(home, ".config", configName))
		}
	}

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var config Config

	unmarshalErr := viperCfg.Unmarshal(&config)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	validateErr := validateConfig(&config)
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &config, nil
}

// setDefaults sets default configuration values.
func setDefaults(viperCfg *viper.Viper) {
	dims := scatter.DefaultDimensions()

	viperCfg.SetDefault("source.timeout", "30s")
	viperCfg.SetDefault("source.url_prefix", commits.DefaultURLPrefix)

	viperCfg.SetDefault("plot.width", dims.Width)
	viperCfg.SetDefault("plot.height", dims.Height)
	viperCfg.SetDefault("plot.margin.top", dims.Margin.Top)
	viperCfg.SetDefault("plot.margin.right", dims.Margin.Right)
	viperCfg.SetDefault("plot.margin.bottom", dims.Margin.Bottom)
	viperCfg.SetDefault("plot.margin.left", dims.Margin.Left)
	viperCfg.SetDefault("plot.jitter", true)
	viperCfg.SetDefault("plot.theme", string(plotpage.ThemeDark))

	viperCfg.SetDefault("server.host", defaultHost)
	viperCfg.SetDefault("server.port", defaultPort)
	viperCfg.SetDefault("server.read_timeout", "15s")
	viperCfg.SetDefault("server.write_timeout", "30s")
	viperCfg.SetDefault("server.idle_timeout", "60s")
	viperCfg.SetDefault("server.shutdown_timeout", "10s")

	viperCfg.SetDefault("logging.level", "info")
	viperCfg.SetDefault("logging.format", LogFormatText)

	viperCfg.SetDefault("telemetry.endpoint", "")
	viperCfg.SetDefault("telemetry.headers", "")
	viperCfg.SetDefault("telemetry.insecure", false)
	viperCfg.SetDefault("telemetry.sample_ratio", 0.0)
	viperCfg.SetDefault("telemetry.environment", "")
}

// validateConfig validates the configuration.
func validateConfig(config *Config) error {
	if config.Server.Port <= 0 || config.Server.Port > maxPort {
		return fmt.Errorf("%w: %d", ErrInvalidPort, config.Server.Port)
	}

	if config.Source.Timeout <= 0 {
		return fmt.Errorf("%w: source.timeout=%s", ErrInvalidTimeout, config.Source.Timeout)
	}

	left, right, top, bottom := config.Plot.Dimensions().Usable()
	if right <= left || bottom <= top {
		return fmt.Errorf("%w: %gx%g", ErrInvalidDimensions, config.Plot.Width, config.Plot.Height)
	}

	switch plotpage.Theme(config.Plot.Theme) {
	case plotpage.ThemeDark, plotpage.ThemeLight:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidTheme, config.Plot.Theme)
	}

	switch config.Logging.Format {
	case LogFormatText, LogFormatJSON:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, config.Logging.Format)
	}

	if config.Telemetry.SampleRatio < 0 || config.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("%w: %g", ErrInvalidSampleRatio, config.Telemetry.SampleRatio)
	}

	return nil
}

// Observability maps the logging and telemetry sections onto an
// observability config for the given mode.
func (c *Config) Observability(mode observability.AppMode, serviceVersion string) observability.Config {
	obs := observability.DefaultConfig()
	obs.Mode = mode
	obs.ServiceVersion = serviceVersion
	obs.Environment = c.Telemetry.Environment
	obs.OTLPEndpoint = c.Telemetry.Endpoint
	obs.OTLPHeaders = observability.ParseOTLPHeaders(c.Telemetry.Headers)
	obs.OTLPInsecure = c.Telemetry.Insecure
	obs.SampleRatio = c.Telemetry.SampleRatio
	obs.LogLevel = observability.ParseLevel(c.Logging.Level)
	obs.LogJSON = c.Logging.Format == LogFormatJSON
	obs.Prometheus = mode == observability.ModeServe

	return obs
}
