package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"impltrack/internal/bulkimport"
	"impltrack/internal/output"
	"impltrack/internal/prompt"
)

var (
	promptSend  bool
	promptApply bool
)

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Generate prompts for the AI assistant",
	Long: `Generate status and implementation prompts.

The status prompt carries the complete issue history and request status and
ends with the bulk-update JSON schema the assistant should answer with. With
--send the prompt goes to the Anthropic API; with --apply the response is
validated and applied as a bulk update.`,
}

var promptStatusCmd = &cobra.Command{
	Use:   "status <project>",
	Short: "Generate the project status prompt",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return promptStatusRun(cmd.Context(), args[0])
	},
}

var promptImplementationCmd = &cobra.Command{
	Use:   "implementation <project> <request-id>",
	Short: "Generate an implementation prompt for one code request",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return promptImplementationRun(args[0], args[1])
	},
}

func init() {
	promptStatusCmd.Flags().BoolVar(&promptSend, "send", false, "Send the prompt to the Anthropic API")
	promptStatusCmd.Flags().BoolVar(&promptApply, "apply", false, "Apply the response as a bulk update (implies --send)")

	promptCmd.AddCommand(promptStatusCmd)
	promptCmd.AddCommand(promptImplementationCmd)
	rootCmd.AddCommand(promptCmd)
}

func promptStatusRun(ctx context.Context, ref string) error {
	s, err := getStore()
	if err != nil {
		return err
	}

	p, err := resolveProject(s, ref)
	if err != nil {
		return err
	}

	statusPrompt := prompt.Status(p)

	if !promptSend && !promptApply {
		fmt.Fprint(ui.Out, statusPrompt)
		return nil
	}

	client := newLLMClient()
	if client == nil {
		return fmt.Errorf("no API key configured: set anthropic.api_key or ANTHROPIC_API_KEY")
	}

	if dryRun {
		ui.DryRunMsg("Would send status prompt for %s to the Anthropic API", p.ProjectName)
		return nil
	}

	ui.VerboseLog("Sending status prompt (%d chars)", len(statusPrompt))
	raw, err := client.ProposeUpdates(ctx, statusPrompt)
	if err != nil {
		return fmt.Errorf("propose updates: %w", err)
	}

	payload, err := bulkimport.Validate(raw)
	if err != nil {
		// Show the raw response so the user can fix it by hand.
		fmt.Fprintln(ui.Out, string(raw))
		return fmt.Errorf("response is not a valid payload: %w", err)
	}

	if !promptApply {
		fmt.Fprint(ui.Out, bulkimport.Preview(payload))
		return nil
	}

	stats := bulkimport.Apply(p, payload)
	if err := s.Update(p); err != nil {
		return fmt.Errorf("save: %w", err)
	}

	ui.Success("Applied to %s: %s", output.Cyan(p.ProjectName), stats.Summary())
	for _, e := range stats.Errors {
		ui.Warning("Skipped: %s", e)
	}
	return nil
}

func promptImplementationRun(ref, idStr string) error {
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

	for _, req := range p.CodeRequests {
		if req.ID == id {
			fmt.Fprint(ui.Out, prompt.Implementation(p, req))
			return nil
		}
	}
	return fmt.Errorf("code request not found: %d", id)
}
