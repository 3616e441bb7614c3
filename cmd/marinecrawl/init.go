package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nao1215/marinecrawl/internal/config"
)

//go:embed templates/marinecrawl.yaml templates/portos_interesse.csv
var templates embed.FS

const (
	configTemplate   = "templates/marinecrawl.yaml"
	interestTemplate = "templates/portos_interesse.csv"
)

// configFileName is the default configuration file name.
const configFileName = config.DefaultConfigFile

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a configuration file and a ports-of-interest file",
		Long: `Init creates a .marinecrawl configuration file and a ports-of-interest file.

The configuration file documents every option with its default value,
including the CSS selectors used when the site markup changes.
The ports-of-interest file lists the ports whose ships are crawled, one name
per line under the Nome column. An existing interest file is never replaced
unless --force is given.

Examples:
  # Create .marinecrawl and input/portos_interesse.csv
  marinecrawl init

  # Create config file at a specific path
  marinecrawl init -o myconfig.yaml

  # Force overwrite existing files
  marinecrawl init -f`,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", configFileName,
		"Output file path for the configuration")
	cmd.Flags().StringP("interest-file", "i", config.DefaultInterestFile,
		"Output file path for the ports-of-interest list")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing files")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	interestPath, err := cmd.Flags().GetString("interest-file")
	if err != nil {
		return err
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if !force && exists(outputPath) {
		return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", outputPath)
	}
	if err := writeTemplate(configTemplate, outputPath); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created configuration file: %s\n", outputPath)

	if !force && exists(interestPath) {
		fmt.Fprintf(out, "Kept existing ports-of-interest file: %s\n", interestPath)
	} else {
		if err := writeTemplate(interestTemplate, interestPath); err != nil {
			return err
		}
		fmt.Fprintf(out, "Created ports-of-interest file: %s\n", interestPath)
	}

	fmt.Fprintln(out, "\nEdit these files to configure:")
	fmt.Fprintln(out, "  - The proxy route and request rate")
	fmt.Fprintln(out, "  - The vessel type to collect")
	fmt.Fprintln(out, "  - The ports whose ships are crawled")

	return nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// writeTemplate copies an embedded template to path, creating parent
// directories when needed.
func writeTemplate(name, path string) error {
	content, err := templates.ReadFile(name)
	if err != nil {
		return fmt.Errorf("failed to read template %s: %w", name, err)
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, content, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
