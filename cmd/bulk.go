package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"impltrack/internal/bulkimport"
	"impltrack/internal/output"
)

var bulkCmd = &cobra.Command{
	Use:   "bulk",
	Short: "Apply bulk-update JSON payloads",
	Long: `Validate and apply bulk-update payloads, typically produced by an AI
assistant from the status prompt.

Sections: issue_updates, code_requests, deployed_files, test_results, bugs.
Items are applied independently; a bad item is reported and skipped, the
rest still apply.`,
}

var bulkValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a payload and show what it would do",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return bulkValidateRun(args[0])
	},
}

var bulkApplyCmd = &cobra.Command{
	Use:   "apply <project> <file>",
	Short: "Apply a payload to a project",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return bulkApplyRun(args[0], args[1])
	},
}

func init() {
	bulkCmd.AddCommand(bulkValidateCmd)
	bulkCmd.AddCommand(bulkApplyCmd)
	rootCmd.AddCommand(bulkCmd)
}

func bulkValidateRun(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read payload: %w", err)
	}

	payload, err := bulkimport.Validate(data)
	if err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}

	ui.Success("Payload is valid")
	fmt.Fprint(ui.Out, bulkimport.Preview(payload))
	return nil
}

func bulkApplyRun(ref, path string) error {
	s, err := getStore()
	if err != nil {
		return err
	}

	p, err := resolveProject(s, ref)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read payload: %w", err)
	}

	payload, err := bulkimport.Validate(data)
	if err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}

	if dryRun {
		ui.DryRunMsg("Would apply payload to %s:", p.ProjectName)
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
