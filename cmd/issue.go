package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"impltrack/internal/models"
	"impltrack/internal/output"
)

var (
	issueDescription string
	issueImpact      string
	issueNotes       string
	issueResolution  string
	issueUnresolved  bool
)

var issueCmd = &cobra.Command{
	Use:   "issue",
	Short: "Manage the issue ledger",
	Long: `Manage issues and their append-only history.

Issues start at status discovered. Every update appends a history entry;
nothing is ever rewritten. Transitioning to recurred bumps the recurrence
count, so flapping issues are visible at a glance.`,
}

var issueAddCmd = &cobra.Command{
	Use:   "add <project> <title>",
	Short: "Record a new issue",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return issueAddRun(args[0], args[1])
	},
}

var issueListCmd = &cobra.Command{
	Use:     "list <project>",
	Aliases: []string{"ls"},
	Short:   "List issues",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return issueListRun(args[0])
	},
}

var issueShowCmd = &cobra.Command{
	Use:   "show <project> <issue-id>",
	Short: "Show an issue with its full history",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return issueShowRun(args[0], args[1])
	},
}

var issueUpdateCmd = &cobra.Command{
	Use:   "update <project> <issue-id> <status>",
	Short: "Append a status transition to an issue",
	Long:  "Statuses: discovered, in_progress, resolved, recurred. Any status may follow any status.",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return issueUpdateRun(args[0], args[1], args[2])
	},
}

func init() {
	issueAddCmd.Flags().StringVarP(&issueDescription, "description", "d", "", "Issue description")
	issueAddCmd.Flags().StringVar(&issueImpact, "impact", "", "Impact: low, medium, high (default: medium)")

	issueListCmd.Flags().BoolVar(&issueUnresolved, "unresolved", false, "Only show unresolved issues")

	issueUpdateCmd.Flags().StringVar(&issueNotes, "notes", "", "What happened")
	issueUpdateCmd.Flags().StringVar(&issueResolution, "resolution", "", "Fix description (for resolved)")

	issueCmd.AddCommand(issueAddCmd)
	issueCmd.AddCommand(issueListCmd)
	issueCmd.AddCommand(issueShowCmd)
	issueCmd.AddCommand(issueUpdateCmd)
	rootCmd.AddCommand(issueCmd)
}

func issueAddRun(ref, title string) error {
	s, err := getStore()
	if err != nil {
		return err
	}

	p, err := resolveProject(s, ref)
	if err != nil {
		return err
	}

	impact, err := models.ParseImpact(issueImpact, models.ImpactMedium)
	if err != nil {
		return err
	}

	if dryRun {
		ui.DryRunMsg("Would add issue to %s: %s", p.ProjectName, title)
		return nil
	}

	issue := p.AddIssue(title, issueDescription, impact)
	if err := s.Update(p); err != nil {
		return fmt.Errorf("save: %w", err)
	}

	ui.Success("Added issue %s: %s", output.Cyan(issue.IssueID), issue.Title)
	return nil
}

func issueListRun(ref string) error {
	s, err := getStore()
	if err != nil {
		return err
	}

	p, err := resolveProject(s, ref)
	if err != nil {
		return err
	}

	issues := p.Issues
	if issueUnresolved {
		issues = p.UnresolvedIssues()
	}

	if len(issues) == 0 {
		ui.Info("No issues.")
		return nil
	}

	table := ui.Table([]string{"ID", "Title", "Impact", "Status", "Recurred", "Updated"})
	for _, issue := range issues {
		recurred := "-"
		if issue.RecurrenceCount > 0 {
			recurred = fmt.Sprintf("%dx", issue.RecurrenceCount)
		}
		table.Append([]string{
			issue.IssueID,
			issue.Title,
			output.ImpactColor(string(issue.Impact)),
			output.StatusColor(string(issue.CurrentStatus)),
			recurred,
			issue.LastUpdated.Format("2006-01-02 15:04"),
		})
	}
	table.Render()
	return nil
}

func issueShowRun(ref, issueID string) error {
	s, err := getStore()
	if err != nil {
		return err
	}

	p, err := resolveProject(s, ref)
	if err != nil {
		return err
	}

	issue := p.IssueByID(issueID)
	if issue == nil {
		return fmt.Errorf("issue not found: %s", issueID)
	}

	fmt.Fprintf(ui.Out, "%s %s\n", output.Cyan(issue.IssueID), issue.Title)
	if issue.Description != "" {
		fmt.Fprintf(ui.Out, "  %s\n", issue.Description)
	}
	fmt.Fprintf(ui.Out, "  Impact:     %s\n", output.ImpactColor(string(issue.Impact)))
	fmt.Fprintf(ui.Out, "  Status:     %s\n", output.StatusColor(string(issue.CurrentStatus)))
	if issue.RecurrenceCount > 0 {
		fmt.Fprintf(ui.Out, "  Recurred:   %dx\n", issue.RecurrenceCount)
	}
	fmt.Fprintln(ui.Out)

	fmt.Fprintf(ui.Out, "  History (%d entries):\n", len(issue.History))
	for _, h := range issue.History {
		fmt.Fprintf(ui.Out, "    %s  %s  [%s]\n",
			h.Timestamp.Format(time.RFC3339), output.StatusColor(string(h.Status)), h.User)
		if h.Notes != "" {
			fmt.Fprintf(ui.Out, "      %s\n", h.Notes)
		}
		if h.Resolution != "" {
			fmt.Fprintf(ui.Out, "      fix: %s\n", h.Resolution)
		}
	}
	return nil
}

func issueUpdateRun(ref, issueID, statusStr string) error {
	s, err := getStore()
	if err != nil {
		return err
	}

	p, err := resolveProject(s, ref)
	if err != nil {
		return err
	}

	status, err := models.ParseIssueStatus(statusStr)
	if err != nil {
		return err
	}

	issue := p.IssueByID(issueID)
	if issue == nil {
		return fmt.Errorf("issue not found: %s", issueID)
	}

	if dryRun {
		ui.DryRunMsg("Would transition %s: %s -> %s", issueID, issue.CurrentStatus, status)
		return nil
	}

	p.UpdateIssueStatus(issueID, status, issueNotes, issueResolution, "manual")
	if err := s.Update(p); err != nil {
		return fmt.Errorf("save: %w", err)
	}

	ui.Success("Updated %s -> %s", output.Cyan(issueID), output.StatusColor(string(status)))
	if status == models.IssueStatusRecurred {
		ui.Warning("Issue has recurred %d time(s)", issue.RecurrenceCount)
	}
	return nil
}
