// Package cli implements the convsearchctl command line interface, a thin
// local front end over the same retrieval wiring the HTTP server uses.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/convsearch/internal/config"
)

var (
	envName string
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:   "convsearchctl",
	Short: "Conversational document retrieval from the command line",
	Long: `convsearchctl runs retrieval against the configured back end without
going through the HTTP API.

Example usage:
  convsearchctl ask "who invented the telescope"
  convsearchctl ask --results 3 --json "indri query language"
  convsearchctl history --user alice --limit 10`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if envName == "" {
			envName = config.GetEnv()
		}
		var err error
		cfg, err = config.Load(envName)
		return err
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envName, "env", "", "config environment (default from ENV)")
}
