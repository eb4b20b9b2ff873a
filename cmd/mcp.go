package cmd

import (
	"github.com/spf13/cobra"

	"impltrack/internal/exporter"
	"impltrack/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP stdio server for AI assistant integration",
	Long: `Start an MCP (Model Context Protocol) server on stdio.

This lets an AI coding assistant query and update the tracker natively.
Configure with:

  {
    "mcpServers": {
      "impltrack": { "command": "impltrack", "args": ["mcp"] }
    }
  }

Available tools: track_list_projects, track_project_status, track_add_issue,
track_update_issue, track_bulk_import, track_export_project,
track_status_prompt`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := getStore()
		if err != nil {
			return err
		}

		srv := mcp.NewServer(s, exporter.New(cfg.ExportsDir))
		return srv.ServeStdio(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
