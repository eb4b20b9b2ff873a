package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"impltrack/internal/models"
	"impltrack/internal/output"
	"impltrack/internal/prompt"
)

var (
	deployStatus string
	deployNotes  string
	deployRecord bool
)

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Track deployed files",
	Long:  "Record files placed into the work directory, and generate drop scripts from code responses.",
}

var deployAddCmd = &cobra.Command{
	Use:   "add <project> <filename> <filepath>",
	Short: "Record a deployed file",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return deployAddRun(args[0], args[1], args[2])
	},
}

var deployListCmd = &cobra.Command{
	Use:     "list <project>",
	Aliases: []string{"ls"},
	Short:   "List deployed files",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return deployListRun(args[0])
	},
}

var deployRemoveCmd = &cobra.Command{
	Use:     "remove <project> <id>",
	Aliases: []string{"rm"},
	Short:   "Remove a deployed-file record",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return deployRemoveRun(args[0], args[1])
	},
}

var deployScriptCmd = &cobra.Command{
	Use:   "script <project> <response.json>",
	Short: "Generate a file-drop script from a code response",
	Long: `Parse a code-response JSON file and print a shell script that writes
each file into the configured work directory. The shell dialect comes from
the shell_type config key. With --record, each file is also recorded as
deployed.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return deployScriptRun(args[0], args[1])
	},
}

func init() {
	deployAddCmd.Flags().StringVar(&deployStatus, "status", "", "File status: ok, error (default: ok)")
	deployAddCmd.Flags().StringVar(&deployNotes, "notes", "", "Notes")

	deployScriptCmd.Flags().BoolVar(&deployRecord, "record", false, "Record each file as deployed")

	deployCmd.AddCommand(deployAddCmd)
	deployCmd.AddCommand(deployListCmd)
	deployCmd.AddCommand(deployRemoveCmd)
	deployCmd.AddCommand(deployScriptCmd)
	rootCmd.AddCommand(deployCmd)
}

func deployAddRun(ref, filename, filePath string) error {
	s, err := getStore()
	if err != nil {
		return err
	}

	p, err := resolveProject(s, ref)
	if err != nil {
		return err
	}

	status, err := models.ParseFileStatus(deployStatus, models.FileStatusOK)
	if err != nil {
		return err
	}

	if dryRun {
		ui.DryRunMsg("Would record deployed file: %s", filename)
		return nil
	}

	file := p.AddDeployedFile(filename, filePath, status, deployNotes)
	if err := s.Update(p); err != nil {
		return fmt.Errorf("save: %w", err)
	}

	ui.Success("Recorded deployed file #%d: %s", file.ID, output.Cyan(file.Filename))
	return nil
}

func deployListRun(ref string) error {
	s, err := getStore()
	if err != nil {
		return err
	}

	p, err := resolveProject(s, ref)
	if err != nil {
		return err
	}

	if len(p.DeployedFiles) == 0 {
		ui.Info("No deployed files.")
		return nil
	}

	table := ui.Table([]string{"ID", "Filename", "Path", "Status", "Deployed"})
	for _, f := range p.DeployedFiles {
		table.Append([]string{
			fmt.Sprintf("%d", f.ID),
			f.Filename,
			f.Filepath,
			output.StatusColor(string(f.Status)),
			f.DeployedDate.Format("2006-01-02 15:04"),
		})
	}
	table.Render()
	return nil
}

func deployRemoveRun(ref, idStr string) error {
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
		return fmt.Errorf("invalid file id: %s", idStr)
	}

	if dryRun {
		ui.DryRunMsg("Would remove deployed file #%d", id)
		return nil
	}

	if !p.RemoveDeployedFile(id) {
		return fmt.Errorf("deployed file not found: %d", id)
	}
	if err := s.Update(p); err != nil {
		return fmt.Errorf("save: %w", err)
	}

	ui.Success("Removed deployed file #%d", id)
	return nil
}

func deployScriptRun(ref, responsePath string) error {
	s, err := getStore()
	if err != nil {
		return err
	}

	p, err := resolveProject(s, ref)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(responsePath)
	if err != nil {
		return fmt.Errorf("read response file: %w", err)
	}

	resp, err := prompt.ParseCodeResponse(data)
	if err != nil {
		return fmt.Errorf("parse code response: %w", err)
	}

	script := prompt.ShellScript(cfg.WorkDirectory, cfg.Shell, resp.Files)
	fmt.Fprint(ui.Out, script)

	if !deployRecord {
		return nil
	}
	if dryRun {
		ui.DryRunMsg("Would record %d deployed file(s)", len(resp.Files))
		return nil
	}

	for _, f := range resp.Files {
		p.AddDeployedFile(f.Filename, f.Filepath, models.FileStatusOK, f.Description)
	}
	if err := s.Update(p); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	ui.Success("Recorded %d deployed file(s)", len(resp.Files))
	return nil
}
