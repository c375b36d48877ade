package main

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	setDefaults()
}

func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.api_prefix", "/api")
	viper.SetDefault("server.env", "dev")
	viper.SetDefault("server.debug", false)
	viper.SetDefault("server.request_logging", false)

	viper.SetDefault("assets.roots", []string{"./public"})
	viper.SetDefault("assets.dirs", []string{"assets", "static", "media", "fonts", "images"})
	viper.SetDefault("assets.max_file_size", 50*1024*1024)

	viper.SetDefault("cache.default_max_age", 3600)
	viper.SetDefault("cache.etag", true)
	viper.SetDefault("cache.last_modified", true)

	viper.SetDefault("compression.enabled", true)
	viper.SetDefault("compression.level", 6)

	viper.SetDefault("version.enabled", true)
	viper.SetDefault("version.ttl_seconds", 300)
	viper.SetDefault("version.param", "v")

	viper.SetDefault("spa.shell", "./public/index.html")
	viper.SetDefault("spa.inject_route_data", true)
	viper.SetDefault("spa.inject_meta", true)

	viper.SetDefault("log.level", "info")
}

func readConfig(cmd *cobra.Command) {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		slog.Warn("failed to bind flags", "err", err)
	}

	configFile, _ := cmd.Flags().GetString("config")
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}

	viper.SetEnvPrefix("SHOPGATE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			slog.Warn("error reading config file", "err", err)
		}
	}
}
