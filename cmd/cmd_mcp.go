package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"postergen/internal/api/mcpapi"
	"postergen/internal/container"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve compliance and palette tools over MCP stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		c, err := container.Build(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer func() {
			if err := c.Close(); err != nil {
				logger.Warn("close container", zap.Error(err))
			}
		}()

		return mcpapi.ServeStdio(ctx, mcpapi.NewServer(c, version))
	},
}
