package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"impltrack/internal/output"
)

var statusCmd = &cobra.Command{
	Use:   "status [project]",
	Short: "Show export readiness",
	Long: `Show whether a project is ready to export: no unresolved bugs, no
unresolved issues, no pending code requests. Without an argument, shows
readiness for every project.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			return statusOneRun(args[0])
		}
		return statusAllRun()
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func statusOneRun(ref string) error {
	s, err := getStore()
	if err != nil {
		return err
	}

	p, err := resolveProject(s, ref)
	if err != nil {
		return err
	}

	ready, reasons := p.IsReadyForExport()
	fmt.Fprintf(ui.Out, "%s: %s\n", output.Cyan(p.ProjectName), output.ReadyColor(ready))
	for _, r := range reasons {
		fmt.Fprintf(ui.Out, "  - %s\n", r)
	}
	return nil
}

func statusAllRun() error {
	s, err := getStore()
	if err != nil {
		return err
	}

	projects := s.Projects()
	if len(projects) == 0 {
		ui.Info("No projects tracked.")
		return nil
	}

	for _, p := range projects {
		ready, reasons := p.IsReadyForExport()
		fmt.Fprintf(ui.Out, "%s: %s\n", output.Cyan(p.ProjectName), output.ReadyColor(ready))
		for _, r := range reasons {
			fmt.Fprintf(ui.Out, "  - %s\n", r)
		}
	}
	return nil
}
