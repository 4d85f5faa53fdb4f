// ABOUTME: MCP command exposing the feed to AI agents
// ABOUTME: Runs a Model Context Protocol server on stdio backed by a client session

package main

import (
	"github.com/spf13/cobra"

	"github.com/harper/thoughts/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server for AI agent integration",
	Long: `Start a Model Context Protocol server on stdio.

Tools:    list_thoughts, post_thought
Resource: thoughts://feed
Prompt:   reflect`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := newSession(nil)
		if err != nil {
			return err
		}
		return mcp.NewServer(sess, Version).ServeStdio()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
