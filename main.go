package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	var configPath string

	root := &cobra.Command{
		Use:   "valeai",
		Short: "ValeAI: assistente acadêmica com modo offline",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(configPath)
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (json); env vars override it")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(configPath)
		},
	}

	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "load the embedded knowledge package without starting the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return seed(cmd, configPath)
		},
	}

	root.AddCommand(serveCmd, seedCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
