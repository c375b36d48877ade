package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mossriver/shopgate"
	"github.com/mossriver/shopgate/config"
	shopgatehttp "github.com/mossriver/shopgate/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the gateway HTTP server",
	Long:  `Start the shopgate HTTP server.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().Int("port", 8080, "HTTP server port")
	serveCmd.Flags().String("api-prefix", "/api", "path prefix for API requests")
	serveCmd.Flags().String("api-upstream", "", "base URL of the API dispatcher")

	_ = viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	_ = viper.BindPFlag("server.api_prefix", serveCmd.Flags().Lookup("api-prefix"))
	_ = viper.BindPFlag("server.api_upstream", serveCmd.Flags().Lookup("api-upstream"))

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	configFile, _ := cmd.Flags().GetString("config")
	var files []string
	if configFile != "" {
		files = []string{configFile}
	}

	cfg, err := config.Load(files, cmd.Flags())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	ctx = config.WithContext(ctx, cfg)

	for _, root := range cfg.Assets.Roots {
		if _, err := os.Stat(root); err != nil {
			return fmt.Errorf("asset root %s: %w", root, err)
		}
	}
	if _, err := os.Stat(cfg.SPA.Shell); err != nil {
		return fmt.Errorf("shell document %s: %w", cfg.SPA.Shell, err)
	}

	classifier := shopgate.NewClassifier(cfg.Server.APIPrefix, cfg.Assets.Dirs)
	validator := shopgate.NewValidator(cfg.Assets.Roots, cfg.Assets.MaxFileSize)
	versions := shopgate.NewVersionEngine(
		cfg.Version.Enabled,
		time.Duration(cfg.Version.TTLSeconds)*time.Second,
		cfg.Version.Param,
	)
	routes := shopgate.NewRouteTable()

	responder := shopgatehttp.NewResponder(cfg.Server.Debug)
	negotiator := shopgatehttp.NewNegotiator(cfg.Compression.Enabled, cfg.Compression.Level)

	assets := shopgatehttp.NewAssetHandler(shopgatehttp.AssetConfig{
		ETagEnabled:         cfg.Cache.ETag,
		LastModifiedEnabled: cfg.Cache.LastModified,
		DefaultMaxAge:       cfg.Cache.DefaultMaxAge,
	}, validator, versions, negotiator, responder)

	spa := shopgatehttp.NewSPAHandler(shopgatehttp.SPAConfig{
		ShellPath:       cfg.SPA.Shell,
		Env:             cfg.Server.Env,
		CanonicalBase:   cfg.SPA.CanonicalBase,
		InjectRouteData: cfg.SPA.InjectRouteData,
		InjectMeta:      cfg.SPA.InjectMeta,
		Preload:         cfg.SPA.Preload,
	}, classifier, routes, responder)

	api, err := apiDispatcher(cfg.Server.APIUpstream)
	if err != nil {
		return err
	}

	handler := shopgatehttp.NewHandler(shopgatehttp.HandlerConfig{
		CORS: shopgatehttp.CORSConfig{
			Enabled:          cfg.CORS.Enabled,
			AllowedOrigins:   cfg.CORS.AllowedOrigins,
			AllowedMethods:   cfg.CORS.AllowedMethods,
			AllowedHeaders:   cfg.CORS.AllowedHeaders,
			ExposedHeaders:   cfg.CORS.ExposedHeaders,
			AllowCredentials: cfg.CORS.AllowCredentials,
			MaxAge:           cfg.CORS.MaxAge,
		},
		RequestLogging: cfg.Server.RequestLogging,
	}, classifier, assets, spa, api, responder)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)

	server := &http.Server{
		Addr:         addr,
		Handler:      handler.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "err", err)
		}
		cancel()
	}()

	slog.Info("starting server",
		"addr", addr,
		"env", cfg.Server.Env,
		"roots", cfg.Assets.Roots,
		"api_upstream", cfg.Server.APIUpstream,
	)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// apiDispatcher builds the collaborator that receives requests classified
// as API calls, handed off unmodified. Returns nil when no upstream is
// configured.
func apiDispatcher(upstream string) (http.Handler, error) {
	if upstream == "" {
		return nil, nil
	}

	target, err := url.Parse(upstream)
	if err != nil {
		return nil, fmt.Errorf("parse api upstream: %w", err)
	}

	return httputil.NewSingleHostReverseProxy(target), nil
}
