package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"impltrack/internal/models"
	"impltrack/internal/output"
)

var projectID string

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage tracked projects",
	Long:  "Create, list, show, and delete implementation-phase projects.",
}

var projectCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create an empty project",
	Long:  "Create a project without design provenance. Use 'impltrack import' for projects handed over from the design phase.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return projectCreateRun(args[0])
	},
}

var projectListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List projects",
	RunE: func(cmd *cobra.Command, args []string) error {
		return projectListRun()
	},
}

var projectShowCmd = &cobra.Command{
	Use:   "show <name-or-id>",
	Short: "Show detailed project information",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return projectShowRun(args[0])
	},
}

var projectDeleteCmd = &cobra.Command{
	Use:     "delete <name-or-id>",
	Aliases: []string{"rm"},
	Short:   "Delete a project and all its records",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return projectDeleteRun(args[0])
	},
}

func init() {
	projectCreateCmd.Flags().StringVar(&projectID, "id", "", "Override project id (default: generated)")

	projectCmd.AddCommand(projectCreateCmd)
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectShowCmd)
	projectCmd.AddCommand(projectDeleteCmd)
	rootCmd.AddCommand(projectCmd)
}

func projectCreateRun(name string) error {
	s, err := getStore()
	if err != nil {
		return err
	}

	if dryRun {
		ui.DryRunMsg("Would create project: %s", name)
		return nil
	}

	p := models.NewProject(projectID, name)
	if err := s.Add(p); err != nil {
		return fmt.Errorf("create project: %w", err)
	}

	ui.Success("Created project: %s (%s)", output.Cyan(p.ProjectName), p.ProjectID)
	return nil
}

func projectListRun() error {
	s, err := getStore()
	if err != nil {
		return err
	}

	projects := s.Projects()
	if len(projects) == 0 {
		ui.Info("No projects tracked. Use 'impltrack import <file>' or 'impltrack project create <name>'.")
		return nil
	}

	table := ui.Table([]string{"Name", "ID", "Issues", "Open", "Bugs", "Pending Req", "Export"})
	for _, p := range projects {
		ready, _ := p.IsReadyForExport()
		table.Append([]string{
			output.Cyan(p.ProjectName),
			p.ProjectID,
			fmt.Sprintf("%d", len(p.Issues)),
			fmt.Sprintf("%d", p.UnresolvedIssuesCount()),
			fmt.Sprintf("%d", p.UnresolvedBugsCount()),
			fmt.Sprintf("%d", p.PendingRequestsCount()),
			output.ReadyColor(ready),
		})
	}
	table.Render()
	return nil
}

func projectShowRun(ref string) error {
	s, err := getStore()
	if err != nil {
		return err
	}

	p, err := resolveProject(s, ref)
	if err != nil {
		return err
	}

	fmt.Fprintf(ui.Out, "%s\n", output.Cyan(p.ProjectName))
	fmt.Fprintf(ui.Out, "  ID:         %s\n", p.ProjectID)
	fmt.Fprintf(ui.Out, "  Created:    %s\n", p.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(ui.Out, "  Updated:    %s\n", p.UpdatedAt.Format(time.RFC3339))

	if p.ImportInfo.SourceFile != "" {
		fmt.Fprintf(ui.Out, "  Imported:   %s (from %s)\n",
			p.ImportInfo.ImportDate.Format(time.RFC3339), p.ImportInfo.SourceFile)
	}
	fmt.Fprintln(ui.Out)

	fmt.Fprintf(ui.Out, "  Issues:          %d (%d unresolved)\n", len(p.Issues), p.UnresolvedIssuesCount())
	fmt.Fprintf(ui.Out, "  Code requests:   %d (%d pending)\n", len(p.CodeRequests), p.PendingRequestsCount())
	fmt.Fprintf(ui.Out, "  Deployed files:  %d\n", len(p.DeployedFiles))
	fmt.Fprintf(ui.Out, "  Test results:    %d\n", len(p.TestResults))
	fmt.Fprintf(ui.Out, "  Bugs:            %d (%d unresolved)\n", len(p.Bugs), p.UnresolvedBugsCount())
	if len(p.UIUXNotes) > 0 {
		fmt.Fprintf(ui.Out, "  UI/UX notes:     %d\n", len(p.UIUXNotes))
	}
	fmt.Fprintln(ui.Out)

	ready, reasons := p.IsReadyForExport()
	fmt.Fprintf(ui.Out, "  Export:     %s\n", output.ReadyColor(ready))
	for _, r := range reasons {
		fmt.Fprintf(ui.Out, "              - %s\n", r)
	}

	if recurrent := p.RecurrentIssues(); len(recurrent) > 0 {
		fmt.Fprintln(ui.Out)
		fmt.Fprintf(ui.Out, "  Recurrent issues:\n")
		for _, issue := range recurrent {
			fmt.Fprintf(ui.Out, "              %s %s (recurred %dx)\n",
				issue.IssueID, issue.Title, issue.RecurrenceCount)
		}
	}

	if verbose && len(p.ExportHistory) > 0 {
		fmt.Fprintln(ui.Out)
		fmt.Fprintf(ui.Out, "  Exports:\n")
		for _, e := range p.ExportHistory {
			fmt.Fprintf(ui.Out, "              %s  %s\n", e.ExportDate.Format(time.RFC3339), e.Filename)
		}
	}

	return nil
}

func projectDeleteRun(ref string) error {
	s, err := getStore()
	if err != nil {
		return err
	}

	p, err := resolveProject(s, ref)
	if err != nil {
		return err
	}

	if dryRun {
		ui.DryRunMsg("Would delete project: %s", p.ProjectName)
		return nil
	}

	if err := s.Delete(p.ProjectID); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}

	ui.Success("Deleted project: %s", output.Cyan(p.ProjectName))
	return nil
}
