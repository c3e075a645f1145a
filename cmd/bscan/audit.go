package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/baseline-tools/bscan/app"
	"github.com/baseline-tools/bscan/internal/constants"
	"github.com/baseline-tools/bscan/service"
)

func auditCmd() *cobra.Command {
	var (
		target       string
		maxFiles     int
		configPath   string
		outputFormat string
		jsonOutput   bool
		exportPath   string
		useGitignore bool
	)

	cmd := &cobra.Command{
		Use:   "audit [path]",
		Short: "Audit a project for baseline compatibility",
		Long: `Audit an entire project directory for modern web feature usage.

Scans CSS/JS/HTML files, resolves each detected feature's baseline support
status, and produces a compatibility score, per-browser coverage, and a
ranked risk list.

Examples:
  bscan audit .
  bscan audit --target baseline-2023 src/
  bscan audit --json --export report.json .`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}

			cfg := loadConfigLenient(configPath)
			if target != "" {
				cfg.Target = target
			}
			if maxFiles > 0 {
				cfg.MaxFiles = maxFiles
			}
			if useGitignore {
				cfg.Walker.UseGitignore = true
			}

			format := cfg.Output.Format
			if jsonOutput || outputFormat == constants.OutputFormatJSON {
				format = constants.OutputFormatJSON
			} else if outputFormat != "" {
				format = outputFormat
			}

			client := newStatusClient(cfg)
			progress := service.NewProgressManager(format != constants.OutputFormatJSON)
			defer progress.Close()

			uc := app.NewAuditUseCase(
				newRuleSet(cfg),
				client,
				targetTable(cfg),
				app.NewReportStore(),
				service.NewReportWriter(),
				progress,
			)

			result, err := uc.Execute(cmd.Context(), app.AuditConfig{
				Root:         root,
				Target:       cfg.Target,
				MaxFiles:     cfg.MaxFiles,
				UseGitignore: cfg.Walker.UseGitignore,
				ExportPath:   exportPath,
			})
			if err != nil {
				return err
			}

			for _, warning := range result.Warnings {
				fmt.Fprintf(os.Stderr, "Warning: %s\n", warning)
			}

			if format == constants.OutputFormatJSON {
				return service.WriteJSON(os.Stdout, struct {
					Report interface{} `json:"report"`
					Charts interface{} `json:"charts"`
				}{result.Report, result.Charts})
			}

			fmt.Print(result.Summary)
			fmt.Printf("Scanned %d files in %s\n", result.Report.Summary.FilesScanned, result.Duration.Round(1e6))
			if exportPath != "" {
				fmt.Printf("Report exported to %s\n", exportPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&target, "target", "t", "",
		"Target baseline: baseline-2024, baseline-2023, baseline-2022, widely, conservative")
	cmd.Flags().IntVar(&maxFiles, "max-files", 0,
		"Maximum number of files to scan")
	cmd.Flags().StringVarP(&configPath, "config", "c", "",
		"Path to config file")
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "",
		"Output format: text, json")
	cmd.Flags().BoolVar(&jsonOutput, "json", false,
		"Output results as JSON (shorthand for --format json)")
	cmd.Flags().StringVarP(&exportPath, "export", "e", "",
		"Export the report as JSON to this path")
	cmd.Flags().BoolVar(&useGitignore, "gitignore", false,
		"Also honor the project root .gitignore")

	return cmd
}
