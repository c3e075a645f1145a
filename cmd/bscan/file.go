package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/baseline-tools/bscan/app"
	"github.com/baseline-tools/bscan/internal/constants"
	"github.com/baseline-tools/bscan/service"
)

func fileCmd() *cobra.Command {
	var (
		configPath string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "file <path>",
		Short: "Audit a single file for web features",
		Long: `Audit one CSS/SCSS/JS/TS/HTML file and score its detected features.

Examples:
  bscan file styles/main.css
  bscan file --json src/app.ts`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfigLenient(configPath)
			client := newStatusClient(cfg)

			uc := app.NewFileAuditUseCase(newRuleSet(cfg), client)
			audit, err := uc.Execute(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if jsonOutput || cfg.Output.Format == constants.OutputFormatJSON {
				return service.WriteJSON(os.Stdout, audit)
			}

			fmt.Printf("File: %s\n", audit.File)
			fmt.Printf("Score: %.1f%%\n", audit.FileScore)
			if audit.Message != "" {
				fmt.Println(audit.Message)
				return nil
			}
			fmt.Printf("Features detected: %d\n", audit.TotalFeatures)
			for _, line := range audit.Statuses {
				fmt.Printf("  %-28s %-8s hits: %d\n", line.Feature, line.BaselineStatus, line.Hits)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output results as JSON")

	return cmd
}
