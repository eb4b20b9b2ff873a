package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"impltrack/internal/models"
	"impltrack/internal/output"
)

var (
	bugDescription string
	bugSeverity    string
	bugOpen        bool
)

var bugCmd = &cobra.Command{
	Use:   "bug",
	Short: "Track bugs",
	Long:  "Record defects found during implementation. Open bugs block export.",
}

var bugAddCmd = &cobra.Command{
	Use:   "add <project> <title>",
	Short: "Record a bug",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return bugAddRun(args[0], args[1])
	},
}

var bugListCmd = &cobra.Command{
	Use:     "list <project>",
	Aliases: []string{"ls"},
	Short:   "List bugs",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return bugListRun(args[0])
	},
}

var bugUpdateCmd = &cobra.Command{
	Use:   "update <project> <id> <open|resolved>",
	Short: "Update a bug's status",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return bugUpdateRun(args[0], args[1], args[2])
	},
}

var bugRemoveCmd = &cobra.Command{
	Use:     "remove <project> <id>",
	Aliases: []string{"rm"},
	Short:   "Remove a bug",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return bugRemoveRun(args[0], args[1])
	},
}

func init() {
	bugAddCmd.Flags().StringVarP(&bugDescription, "description", "d", "", "Bug description")
	bugAddCmd.Flags().StringVar(&bugSeverity, "severity", "", "Severity: low, medium, high (default: medium)")

	bugListCmd.Flags().BoolVar(&bugOpen, "open", false, "Only show open bugs")

	bugCmd.AddCommand(bugAddCmd)
	bugCmd.AddCommand(bugListCmd)
	bugCmd.AddCommand(bugUpdateCmd)
	bugCmd.AddCommand(bugRemoveCmd)
	rootCmd.AddCommand(bugCmd)
}

func bugAddRun(ref, title string) error {
	s, err := getStore()
	if err != nil {
		return err
	}

	p, err := resolveProject(s, ref)
	if err != nil {
		return err
	}

	severity, err := models.ParseSeverity(bugSeverity, models.SeverityMedium)
	if err != nil {
		return err
	}

	if dryRun {
		ui.DryRunMsg("Would record bug: %s", title)
		return nil
	}

	bug := p.AddBug(title, bugDescription, severity)
	if err := s.Update(p); err != nil {
		return fmt.Errorf("save: %w", err)
	}

	ui.Success("Recorded bug #%d: %s", bug.ID, output.Cyan(bug.Title))
	return nil
}

func bugListRun(ref string) error {
	s, err := getStore()
	if err != nil {
		return err
	}

	p, err := resolveProject(s, ref)
	if err != nil {
		return err
	}

	if len(p.Bugs) == 0 {
		ui.Info("No bugs.")
		return nil
	}

	table := ui.Table([]string{"ID", "Title", "Severity", "Status", "Found", "Resolved"})
	for _, b := range p.Bugs {
		if bugOpen && b.Status != models.BugStatusOpen {
			continue
		}
		resolved := "-"
		if b.ResolvedDate != nil {
			resolved = b.ResolvedDate.Format("2006-01-02")
		}
		table.Append([]string{
			fmt.Sprintf("%d", b.ID),
			b.Title,
			output.ImpactColor(string(b.Severity)),
			output.StatusColor(string(b.Status)),
			b.FoundDate.Format("2006-01-02"),
			resolved,
		})
	}
	table.Render()
	return nil
}

func bugUpdateRun(ref, idStr, statusStr string) error {
	s, err := getStore()
	if err != nil {
		return err
	}

	p, err := resolveProject(s, ref)
	if err != nil {
		return err
	}

	id, err := strconv.Atoi(idStr)
	if err != nil {
		return fmt.Errorf("invalid bug id: %s", idStr)
	}

	status, err := models.ParseBugStatus(statusStr)
	if err != nil {
		return err
	}

	if dryRun {
		ui.DryRunMsg("Would update bug #%d -> %s", id, status)
		return nil
	}

	var resolvedDate *time.Time
	if status == models.BugStatusResolved {
		now := time.Now().UTC()
		resolvedDate = &now
	}

	if !p.UpdateBugStatus(id, status, resolvedDate) {
		return fmt.Errorf("bug not found: %d", id)
	}
	if err := s.Update(p); err != nil {
		return fmt.Errorf("save: %w", err)
	}

	ui.Success("Updated bug #%d -> %s", id, output.StatusColor(string(status)))
	return nil
}

func bugRemoveRun(ref, idStr string) error {
	s, err := getStore()
	if err != nil {
		return err
	}

	p, err := resolveProject(s, ref)
	if err != nil {
		return err
	}

	id, err := strconv.Atoi(idStr)
	if err != nil {
		return fmt.Errorf("invalid bug id: %s", idStr)
	}

	if dryRun {
		ui.DryRunMsg("Would remove bug #%d", id)
		return nil
	}

	if !p.RemoveBug(id) {
		return fmt.Errorf("bug not found: %d", id)
	}
	if err := s.Update(p); err != nil {
		return fmt.Errorf("save: %w", err)
	}

	ui.Success("Removed bug #%d", id)
	return nil
}
