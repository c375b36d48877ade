package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// configKey is the context key for storing the loaded configuration.
type configKey struct{}

// WithContext returns a new context with the config stored.
func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext retrieves the config from context.
// Returns an error if config is not found.
func FromContext(ctx context.Context) (*Config, error) {
	cfg, ok := ctx.Value(configKey{}).(*Config)
	if !ok || cfg == nil {
		return nil, errors.New("config not found in context")
	}
	return cfg, nil
}

// Config is the root configuration struct for shopgate.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Assets      AssetsConfig      `mapstructure:"assets"`
	Cache       CacheConfig       `mapstructure:"cache"`
	Compression CompressionConfig `mapstructure:"compression"`
	Version     VersionConfig     `mapstructure:"version"`
	SPA         SPAConfig         `mapstructure:"spa"`
	CORS        CORSConfig        `mapstructure:"cors"`
	Log         LogConfig         `mapstructure:"log"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port           int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	APIPrefix      string `mapstructure:"api_prefix" validate:"required,startswith=/"`
	APIUpstream    string `mapstructure:"api_upstream" validate:"omitempty,url"`
	Env            string `mapstructure:"env" validate:"required,oneof=dev staging prod"`
	Debug          bool   `mapstructure:"debug"`
	RequestLogging bool   `mapstructure:"request_logging"`
}

// AssetsConfig holds path-validation configuration.
type AssetsConfig struct {
	Roots       []string `mapstructure:"roots" validate:"required,min=1"`
	Dirs        []string `mapstructure:"dirs"`
	MaxFileSize int64    `mapstructure:"max_file_size" validate:"min=0"`
}

// CacheConfig holds cache-header configuration.
type CacheConfig struct {
	DefaultMaxAge int  `mapstructure:"default_max_age" validate:"min=0"`
	ETag          bool `mapstructure:"etag"`
	LastModified  bool `mapstructure:"last_modified"`
}

// CompressionConfig holds gzip negotiation configuration.
type CompressionConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Level   int  `mapstructure:"level" validate:"min=-2,max=9"`
}

// VersionConfig holds cache-busting version configuration.
type VersionConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	TTLSeconds int    `mapstructure:"ttl_seconds" validate:"min=1"`
	Param      string `mapstructure:"param" validate:"required"`
}

// SPAConfig holds shell-serving configuration.
type SPAConfig struct {
	Shell           string   `mapstructure:"shell" validate:"required"`
	CanonicalBase   string   `mapstructure:"canonical_base"`
	InjectRouteData bool     `mapstructure:"inject_route_data"`
	InjectMeta      bool     `mapstructure:"inject_meta"`
	Preload         []string `mapstructure:"preload"`
}

// CORSConfig holds CORS middleware configuration.
type CORSConfig struct {
	Enabled          bool     `mapstructure:"enabled"`
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
}

// flagToViperKey maps CLI flag names to viper configuration keys.
var flagToViperKey = map[string]string{
	"port":       "server.port",
	"env":        "server.env",
	"api-prefix": "server.api_prefix",
	"roots":      "assets.roots",
	"shell":      "spa.shell",
}

// bindFlags binds CLI flags to viper keys with custom name mapping.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		viperKey := f.Name
		if mapped, ok := flagToViperKey[viperKey]; ok {
			viperKey = mapped
		}

		// Only bind if the flag was explicitly set
		if f.Changed {
			_ = v.BindPFlag(viperKey, f)
		}
	})
}

// setDefaults configures default values on the viper instance.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.api_prefix", "/api")
	v.SetDefault("server.env", "dev")
	v.SetDefault("server.debug", false)
	v.SetDefault("server.request_logging", false)

	v.SetDefault("assets.roots", []string{"./public"})
	v.SetDefault("assets.dirs", []string{"assets", "static", "media", "fonts", "images"})
	v.SetDefault("assets.max_file_size", 50*1024*1024)

	v.SetDefault("cache.default_max_age", 3600)
	v.SetDefault("cache.etag", true)
	v.SetDefault("cache.last_modified", true)

	v.SetDefault("compression.enabled", true)
	v.SetDefault("compression.level", 6)

	v.SetDefault("version.enabled", true)
	v.SetDefault("version.ttl_seconds", 300)
	v.SetDefault("version.param", "v")

	v.SetDefault("spa.shell", "./public/index.html")
	v.SetDefault("spa.inject_route_data", true)
	v.SetDefault("spa.inject_meta", true)

	v.SetDefault("log.level", "info")
}

// Load reads configuration and returns a validated Config struct.
// Order of precedence (highest to lowest): flags > env > config files > defaults
//
// Parameters:
//   - configFiles: list of config file paths (later files override earlier ones)
//   - flags: cobra flag set for flag binding (can be nil)
func Load(configFiles []string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Read config files
	if len(configFiles) > 0 {
		v.SetConfigFile(configFiles[0])
		if err := v.ReadInConfig(); err != nil {
			slog.Warn("error reading config file", "file", configFiles[0], "err", err)
		}

		for _, cf := range configFiles[1:] {
			v.SetConfigFile(cf)
			if err := v.MergeInConfig(); err != nil {
				slog.Warn("error merging config file", "file", cf, "err", err)
			}
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		if err := v.ReadInConfig(); err != nil {
			var configNotFound viper.ConfigFileNotFoundError
			if !errors.As(err, &configNotFound) {
				slog.Warn("error reading config file", "err", err)
			}
		}
	}

	// 3. Bind environment variables
	v.SetEnvPrefix("SHOPGATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 4. Bind flags (if provided)
	if flags != nil {
		bindFlags(v, flags)
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// 6. Validate using go-playground/validator
	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}
