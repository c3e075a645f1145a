package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/baseline-tools/bscan/internal/config"
	"github.com/baseline-tools/bscan/internal/constants"
	"github.com/baseline-tools/bscan/internal/validate"
)

func initCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a bscan configuration file",
		Long: `Generate a documented bscan configuration file with sensible defaults.

By default, creates bscan.yaml in the current directory with full
documentation. Use --interactive for a guided setup wizard.

Examples:
  # Create bscan.yaml in current directory
  bscan init

  # Custom output path
  bscan init --config custom.yaml

  # Overwrite existing file
  bscan init --force

  # Generate smaller config with essential options only
  bscan init --minimal

  # Interactive setup wizard
  bscan init --interactive
  bscan init -i`,
		RunE: runInit,
	}

	cmd.Flags().StringP("config", "c", constants.ConfigFileName,
		"Output path for the config file")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing config file")
	cmd.Flags().Bool("minimal", false,
		"Generate minimal config with essential options only")
	cmd.Flags().BoolP("interactive", "i", false,
		"Interactive setup wizard")

	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	force, _ := cmd.Flags().GetBool("force")
	minimal, _ := cmd.Flags().GetBool("minimal")
	interactive, _ := cmd.Flags().GetBool("interactive")

	target := constants.DefaultTarget
	maxFiles := constants.DefaultMaxFiles

	if interactive {
		var err error
		target, maxFiles, configPath, err = runInteractiveSetup(configPath)
		if err != nil {
			return err
		}
	}

	if !force {
		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("%s already exists. Use --force to overwrite", configPath)
		}
	}

	dir := filepath.Dir(configPath)
	if dir != "." && dir != "" {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			return fmt.Errorf("directory does not exist: %s", dir)
		}
	}

	var content string
	if minimal {
		content = config.GetMinimalConfigTemplate()
	} else {
		content = config.GetFullConfigTemplate(target, maxFiles)
	}

	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	displayPath := configPath
	if absPath, err := filepath.Abs(configPath); err == nil {
		displayPath = absPath
	}
	fmt.Printf("Created %s\n", displayPath)
	fmt.Println("\nRun 'bscan audit .' to audit your project.")

	return nil
}

func runInteractiveSetup(defaultConfigPath string) (string, int, string, error) {
	fmt.Println()
	fmt.Println("bscan Configuration Setup")
	fmt.Println("=========================")
	fmt.Println()

	targets := []struct {
		Label       string
		Description string
		Value       string
	}{
		{"Baseline 2024 (recommended)", "Features broadly available since 2024", "baseline-2024"},
		{"Baseline 2023", "Features broadly available since 2023", "baseline-2023"},
		{"Baseline 2022", "Features broadly available since 2022", "baseline-2022"},
		{"Widely supported", "Long-established features only", "widely"},
		{"Conservative", "Oldest browser versions, strictest scoring", "conservative"},
	}

	targetTemplates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "> {{ .Label | cyan }} - {{ .Description | faint }}",
		Inactive: "  {{ .Label | white }} - {{ .Description | faint }}",
		Selected: "{{ .Label | green }}",
	}

	targetPrompt := promptui.Select{
		Label:     "Which baseline should audits be scored against?",
		Items:     targets,
		Templates: targetTemplates,
	}

	targetIdx, _, err := targetPrompt.Run()
	if err != nil {
		return "", 0, "", fmt.Errorf("target selection cancelled: %w", err)
	}
	target := targets[targetIdx].Value

	fmt.Println()

	maxFilesPrompt := promptui.Prompt{
		Label:   "Maximum files per scan",
		Default: strconv.Itoa(constants.DefaultMaxFiles),
		Validate: func(input string) error {
			n, err := strconv.Atoi(input)
			if err != nil {
				return fmt.Errorf("must be a number")
			}
			_, err = validate.MaxFiles(n)
			return err
		},
	}

	maxFilesStr, err := maxFilesPrompt.Run()
	if err != nil {
		return "", 0, "", fmt.Errorf("max files input cancelled: %w", err)
	}
	maxFiles, _ := strconv.Atoi(maxFilesStr)

	fmt.Println()

	outputPrompt := promptui.Prompt{
		Label:   "Output file path",
		Default: defaultConfigPath,
	}

	outputPath, err := outputPrompt.Run()
	if err != nil {
		return "", 0, "", fmt.Errorf("output path input cancelled: %w", err)
	}
	if outputPath == "" {
		outputPath = defaultConfigPath
	}

	fmt.Println()
	return target, maxFiles, outputPath, nil
}
