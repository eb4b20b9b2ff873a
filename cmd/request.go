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
	requestDetails string
	requestIssues  []string
	requestPending bool
)

var requestCmd = &cobra.Command{
	Use:   "request",
	Short: "Manage code requests",
	Long:  "Track functions requested from the code-producing side: pending, received, or on hold.",
}

var requestAddCmd = &cobra.Command{
	Use:   "add <project> <function-name>",
	Short: "Record a code request",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return requestAddRun(args[0], args[1])
	},
}

var requestListCmd = &cobra.Command{
	Use:     "list <project>",
	Aliases: []string{"ls"},
	Short:   "List code requests",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return requestListRun(args[0])
	},
}

var requestUpdateCmd = &cobra.Command{
	Use:   "update <project> <id> <status>",
	Short: "Update a code request's status",
	Long:  "Statuses: pending, received, on_hold. Marking received records the date.",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return requestUpdateRun(args[0], args[1], args[2])
	},
}

var requestRemoveCmd = &cobra.Command{
	Use:     "remove <project> <id>",
	Aliases: []string{"rm"},
	Short:   "Remove a code request",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return requestRemoveRun(args[0], args[1])
	},
}

func init() {
	requestAddCmd.Flags().StringVarP(&requestDetails, "details", "d", "", "Request details")
	requestAddCmd.Flags().StringSliceVar(&requestIssues, "issue", nil, "Related issue id (repeatable)")

	requestListCmd.Flags().BoolVar(&requestPending, "pending", false, "Only show pending requests")

	requestCmd.AddCommand(requestAddCmd)
	requestCmd.AddCommand(requestListCmd)
	requestCmd.AddCommand(requestUpdateCmd)
	requestCmd.AddCommand(requestRemoveCmd)
	rootCmd.AddCommand(requestCmd)
}

func requestAddRun(ref, functionName string) error {
	s, err := getStore()
	if err != nil {
		return err
	}

	p, err := resolveProject(s, ref)
	if err != nil {
		return err
	}

	if dryRun {
		ui.DryRunMsg("Would add code request: %s", functionName)
		return nil
	}

	req := p.AddCodeRequest(functionName, requestDetails, requestIssues, models.RequestStatusPending)
	if err := s.Update(p); err != nil {
		return fmt.Errorf("save: %w", err)
	}

	ui.Success("Added code request #%d: %s", req.ID, output.Cyan(req.FunctionName))
	return nil
}

func requestListRun(ref string) error {
	s, err := getStore()
	if err != nil {
		return err
	}

	p, err := resolveProject(s, ref)
	if err != nil {
		return err
	}

	if len(p.CodeRequests) == 0 {
		ui.Info("No code requests.")
		return nil
	}

	table := ui.Table([]string{"ID", "Function", "Status", "Requested", "Received", "Issues"})
	for _, r := range p.CodeRequests {
		if requestPending && r.Status != models.RequestStatusPending {
			continue
		}
		received := "-"
		if r.ReceivedDate != nil {
			received = r.ReceivedDate.Format("2006-01-02")
		}
		issues := "-"
		if len(r.RelatedIssues) > 0 {
			issues = fmt.Sprintf("%v", r.RelatedIssues)
		}
		table.Append([]string{
			fmt.Sprintf("%d", r.ID),
			r.FunctionName,
			output.StatusColor(string(r.Status)),
			r.RequestDate.Format("2006-01-02"),
			received,
			issues,
		})
	}
	table.Render()
	return nil
}

func requestUpdateRun(ref, idStr, statusStr string) error {
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
		return fmt.Errorf("invalid request id: %s", idStr)
	}

	status, err := models.ParseRequestStatus(statusStr, "")
	if err != nil {
		return err
	}

	if dryRun {
		ui.DryRunMsg("Would update request #%d -> %s", id, status)
		return nil
	}

	var receivedDate *time.Time
	if status == models.RequestStatusReceived {
		now := time.Now().UTC()
		receivedDate = &now
	}

	if !p.UpdateRequestStatus(id, status, receivedDate) {
		return fmt.Errorf("code request not found: %d", id)
	}
	if err := s.Update(p); err != nil {
		return fmt.Errorf("save: %w", err)
	}

	ui.Success("Updated request #%d -> %s", id, output.StatusColor(string(status)))
	return nil
}

func requestRemoveRun(ref, idStr string) error {
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
		return fmt.Errorf("invalid request id: %s", idStr)
	}

	if dryRun {
		ui.DryRunMsg("Would remove request #%d", id)
		return nil
	}

	if !p.RemoveCodeRequest(id) {
		return fmt.Errorf("code request not found: %d", id)
	}
	if err := s.Update(p); err != nil {
		return fmt.Errorf("save: %w", err)
	}

	ui.Success("Removed request #%d", id)
	return nil
}
