package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/baseline-tools/bscan/app"
	"github.com/baseline-tools/bscan/internal/constants"
	"github.com/baseline-tools/bscan/service"
)

func featureCmd() *cobra.Command {
	var (
		configPath string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "feature <id>",
		Short: "Look up the baseline status of one web feature",
		Long: `Fetch the baseline support status for a specific feature id.

Examples:
  bscan feature css-has-selector
  bscan feature --json js-optional-chaining`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfigLenient(configPath)
			client := newStatusClient(cfg)
			defer client.Close()

			uc := app.NewFeatureLookupUseCase(client)
			lookup, err := uc.Execute(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if jsonOutput || cfg.Output.Format == constants.OutputFormatJSON {
				return service.WriteJSON(os.Stdout, lookup)
			}

			fmt.Printf("Feature: %s\n", lookup.ID)
			if lookup.Name != "" && lookup.Name != lookup.ID {
				fmt.Printf("Name:    %s\n", lookup.Name)
			}
			fmt.Printf("Status:  %s\n", lookup.BaselineStatus)
			fmt.Printf("         %s\n", lookup.Interpretation)
			if len(lookup.Browsers) > 0 {
				fmt.Println("Browser support:")
				browsers := make([]string, 0, len(lookup.Browsers))
				for browser := range lookup.Browsers {
					browsers = append(browsers, browser)
				}
				sort.Strings(browsers)
				for _, browser := range browsers {
					fmt.Printf("  %-8s %s\n", browser, lookup.Browsers[browser])
				}
			}
			if lookup.Error != "" {
				fmt.Fprintf(os.Stderr, "Warning: %s\n", lookup.Error)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output results as JSON")

	return cmd
}
