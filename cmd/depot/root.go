// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Depot Contributors

package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the Depot CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "depot",
		Short: "Depot - an online bookstore",
		Long: `Depot is a small online bookstore with a product catalog,
password-based sessions, and self-service password resets.`,
	}

	// Global flag for config file path
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	// Add subcommands
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewStatusCmd())
	cmd.AddCommand(NewSeedCmd())

	return cmd
}
