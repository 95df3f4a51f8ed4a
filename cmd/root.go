// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/go-core-stack/deepinfra-proxy/pkg/config"
)

const defaultEnvFile = ".env"

var (
	configPath string
	envFile    string
)

var rootCmd = &cobra.Command{
	Use:   "deepinfra-proxy",
	Short: "OpenAI-compatible proxy in front of DeepInfra",
	Long: `deepinfra-proxy forwards OpenAI-style chat-completion requests to
DeepInfra, presenting them the way the DeepInfra web console does.

Configuration comes from flags, then the environment (TOKEN,
ENFORCE_ALLOWLIST, DEFAULT_MODEL, PROXY_*), then an optional TOML file.
A dotenv file is read into the environment first when present.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a TOML config file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", defaultEnvFile, "Path to a dotenv file loaded before reading the environment")
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// loadConfig reads the dotenv file (mandatory only when --env-file was given
// explicitly) and then the configuration.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	required := cmd.Flags().Changed("env-file")
	if err := config.LoadEnvFile(envFile, required); err != nil {
		return config.Config{}, err
	}
	return config.Load(configPath)
}
