package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"postergen/internal/api/httpapi"
	"postergen/internal/container"
)

var listenAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if listenAddr != "" {
			cfg.ListenAddr = listenAddr
		}

		c, err := container.Build(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer func() {
			if err := c.Close(); err != nil {
				logger.Warn("close container", zap.Error(err))
			}
		}()

		return httpapi.New(c, logger.Named("http")).ListenAndServe(ctx, cfg.ListenAddr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&listenAddr, "addr", "", "Listen address (overrides LISTEN_ADDR)")
}
