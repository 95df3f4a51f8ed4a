// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

package cmd

import (
	"encoding/json"
	"time"

	"github.com/spf13/cobra"

	"github.com/go-core-stack/deepinfra-proxy/pkg/models"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Print the allowlisted models as served on /v1/models",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(models.NewList(models.Default(), time.Now()))
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}
