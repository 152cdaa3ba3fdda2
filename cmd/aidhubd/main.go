package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aidhubhq/aidhub/internal/cli"
	"github.com/aidhubhq/aidhub/internal/cli/admin"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "aidhubd",
		Short: "Aidhub daemon and CLI",
		Long:  "Aidhub daemon for running the support desk API server and managing tenants and API keys",
	}

	cli.AddHelpJSONFlag(rootCmd)
	rootCmd.AddCommand(admin.ServeCmd())
	rootCmd.AddCommand(admin.TenantCmd())
	rootCmd.AddCommand(admin.APIKeyCmd())
	rootCmd.AddCommand(admin.SeedCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
