package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"impltrack/internal/output"
)

var noteCategory string

var noteCmd = &cobra.Command{
	Use:   "note",
	Short: "Track UI/UX notes",
	Long:  "Record UI/UX observations. Notes are carried through export to the next phase.",
}

var noteAddCmd = &cobra.Command{
	Use:   "add <project> <note>",
	Short: "Record a UI/UX note",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return noteAddRun(args[0], args[1])
	},
}

var noteListCmd = &cobra.Command{
	Use:     "list <project>",
	Aliases: []string{"ls"},
	Short:   "List UI/UX notes",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return noteListRun(args[0])
	},
}

func init() {
	noteAddCmd.Flags().StringVar(&noteCategory, "category", "general", "Note category (e.g. layout, wording, flow)")

	noteCmd.AddCommand(noteAddCmd)
	noteCmd.AddCommand(noteListCmd)
	rootCmd.AddCommand(noteCmd)
}

func noteAddRun(ref, note string) error {
	s, err := getStore()
	if err != nil {
		return err
	}

	p, err := resolveProject(s, ref)
	if err != nil {
		return err
	}

	if dryRun {
		ui.DryRunMsg("Would record note: %s", note)
		return nil
	}

	entry := p.AddUIUXNote(noteCategory, note)
	if err := s.Update(p); err != nil {
		return fmt.Errorf("save: %w", err)
	}

	ui.Success("Recorded note #%d (%s)", entry.ID, output.Cyan(entry.Category))
	return nil
}

func noteListRun(ref string) error {
	s, err := getStore()
	if err != nil {
		return err
	}

	p, err := resolveProject(s, ref)
	if err != nil {
		return err
	}

	if len(p.UIUXNotes) == 0 {
		ui.Info("No UI/UX notes.")
		return nil
	}

	table := ui.Table([]string{"ID", "Category", "Note", "Created"})
	for _, n := range p.UIUXNotes {
		table.Append([]string{
			fmt.Sprintf("%d", n.ID),
			n.Category,
			n.Note,
			n.CreatedAt.Format("2006-01-02 15:04"),
		})
	}
	table.Render()
	return nil
}
