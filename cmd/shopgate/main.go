package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Version: version,
	Use:     "shopgate",
	Short:   "Request-dispatch and static-content gateway for the storefront",
	Long: `Shopgate classifies every inbound request as an API call, a static
asset, or a frontend navigation, serves assets with cache, compression,
and versioning policy applied, and serves the SPA shell for browser
routes.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		readConfig(cmd)
		setupLogging()
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config.yaml)")
	rootCmd.PersistentFlags().StringSlice("roots", nil, "allowed asset root directories (env: SHOPGATE_ASSETS_ROOTS)")
	rootCmd.PersistentFlags().String("shell", "", "SPA shell document path (env: SHOPGATE_SPA_SHELL)")
	rootCmd.PersistentFlags().String("env", "", "environment tag: dev, staging, prod (env: SHOPGATE_SERVER_ENV)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
