package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"impltrack/internal/importer"
	"impltrack/internal/output"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a design-phase snapshot",
	Long: `Import a Phase2_Design snapshot as a new project.

The snapshot's checksum is verified before anything is created; a tampered
or truncated file is rejected. The source file is archived in the imports
directory and the provenance is recorded on the project.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return importRun(args[0])
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func importRun(path string) error {
	s, err := getStore()
	if err != nil {
		return err
	}

	if dryRun {
		ui.DryRunMsg("Would import snapshot: %s", path)
		return nil
	}

	im := importer.New(cfg.ImportsDir)
	p, err := im.ImportSnapshot(path)
	if err != nil {
		return fmt.Errorf("import snapshot: %w", err)
	}

	if err := s.Add(p); err != nil {
		return fmt.Errorf("add project: %w", err)
	}

	ui.Success("Imported project: %s (%s)", output.Cyan(p.ProjectName), p.ProjectID)
	ui.VerboseLog("Source archived to %s", cfg.ImportsDir)
	return nil
}
