package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"impltrack/internal/exporter"
	"impltrack/internal/output"
)

var exportCmd = &cobra.Command{
	Use:   "export <project>",
	Short: "Export a checksummed Phase3 snapshot",
	Long: `Export a project snapshot for the next phase.

Export is refused while the project has unresolved bugs, unresolved issues,
or pending code requests. The snapshot embeds a SHA-256 checksum over its
canonical JSON form so the receiving side can verify integrity.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return exportRun(args[0])
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
}

func exportRun(ref string) error {
	s, err := getStore()
	if err != nil {
		return err
	}

	p, err := resolveProject(s, ref)
	if err != nil {
		return err
	}

	if dryRun {
		ready, reasons := p.IsReadyForExport()
		if !ready {
			ui.DryRunMsg("Export would be refused:")
			for _, r := range reasons {
				ui.Warning("  - %s", r)
			}
			return nil
		}
		ui.DryRunMsg("Would export %s to %s", p.ProjectName, cfg.ExportsDir)
		return nil
	}

	e := exporter.New(cfg.ExportsDir)
	path, err := e.Export(p)
	if err != nil {
		var notReady *exporter.NotReadyError
		if errors.As(err, &notReady) {
			ui.Error("Project is not ready for export:")
			for _, r := range notReady.Reasons {
				ui.Error("  - %s", r)
			}
			return fmt.Errorf("export blocked")
		}
		return fmt.Errorf("export: %w", err)
	}

	if err := s.Update(p); err != nil {
		return fmt.Errorf("exported but failed to save history: %w", err)
	}

	record := p.ExportHistory[len(p.ExportHistory)-1]
	ui.Success("Exported %s", output.Cyan(path))
	ui.Info("Checksum: %s", record.Checksum)
	return nil
}
