package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"impltrack/internal/models"
	"impltrack/internal/output"
)

var testNotes string

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Track test results",
	Long:  "Record pass/fail outcomes for tested functions.",
}

var testAddCmd = &cobra.Command{
	Use:   "add <project> <function-name> <pass|fail>",
	Short: "Record a test result",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return testAddRun(args[0], args[1], args[2])
	},
}

var testListCmd = &cobra.Command{
	Use:     "list <project>",
	Aliases: []string{"ls"},
	Short:   "List test results",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return testListRun(args[0])
	},
}

var testRemoveCmd = &cobra.Command{
	Use:     "remove <project> <id>",
	Aliases: []string{"rm"},
	Short:   "Remove a test result",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return testRemoveRun(args[0], args[1])
	},
}

func init() {
	testAddCmd.Flags().StringVar(&testNotes, "notes", "", "Notes")

	testCmd.AddCommand(testAddCmd)
	testCmd.AddCommand(testListCmd)
	testCmd.AddCommand(testRemoveCmd)
	rootCmd.AddCommand(testCmd)
}

func testAddRun(ref, functionName, resultStr string) error {
	s, err := getStore()
	if err != nil {
		return err
	}

	p, err := resolveProject(s, ref)
	if err != nil {
		return err
	}

	result, err := models.ParseTestOutcome(resultStr, "")
	if err != nil {
		return err
	}

	if dryRun {
		ui.DryRunMsg("Would record test result: %s %s", functionName, result)
		return nil
	}

	test := p.AddTestResult(functionName, result, testNotes)
	if err := s.Update(p); err != nil {
		return fmt.Errorf("save: %w", err)
	}

	ui.Success("Recorded test #%d: %s %s", test.ID, output.Cyan(test.FunctionName), output.StatusColor(string(test.Result)))
	return nil
}

func testListRun(ref string) error {
	s, err := getStore()
	if err != nil {
		return err
	}

	p, err := resolveProject(s, ref)
	if err != nil {
		return err
	}

	if len(p.TestResults) == 0 {
		ui.Info("No test results.")
		return nil
	}

	table := ui.Table([]string{"ID", "Function", "Result", "Tested", "Notes"})
	for _, t := range p.TestResults {
		table.Append([]string{
			fmt.Sprintf("%d", t.ID),
			t.FunctionName,
			output.StatusColor(string(t.Result)),
			t.TestDate.Format("2006-01-02 15:04"),
			t.Notes,
		})
	}
	table.Render()
	return nil
}

func testRemoveRun(ref, idStr string) error {
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
		return fmt.Errorf("invalid test id: %s", idStr)
	}

	if dryRun {
		ui.DryRunMsg("Would remove test result #%d", id)
		return nil
	}

	if !p.RemoveTestResult(id) {
		return fmt.Errorf("test result not found: %d", id)
	}
	if err := s.Update(p); err != nil {
		return fmt.Errorf("save: %w", err)
	}

	ui.Success("Removed test result #%d", id)
	return nil
}
