package main

import (
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"postergen/internal/api/telegram"
	"postergen/internal/container"
)

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Run the Telegram bot",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.TelegramToken == "" {
			return errors.New("TELEGRAM_TOKEN is required")
		}
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

		bot, err := telegram.NewBot(cfg.TelegramToken, c, logger.Named("telegram"))
		if err != nil {
			return err
		}

		logger.Info("bot is running")
		return bot.Run(ctx)
	},
}
