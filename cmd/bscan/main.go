package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/baseline-tools/bscan/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "bscan",
		Short: "bscan - web baseline compatibility auditor",
		Long: `bscan audits a web codebase for modern CSS/JS/HTML feature usage and
scores compatibility against a browser-support baseline using the
WebStatus feature database.`,
		Version: version.Version,
	}

	rootCmd.AddCommand(auditCmd())
	rootCmd.AddCommand(fileCmd())
	rootCmd.AddCommand(featureCmd())
	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			verbose, _ := cmd.Flags().GetBool("verbose")
			if verbose {
				fmt.Println(version.GetFullVersion())
			} else {
				fmt.Printf("bscan version %s\n", version.GetVersion())
			}
		},
	}

	cmd.Flags().BoolP("verbose", "v", false, "Show detailed version information")
	return cmd
}
