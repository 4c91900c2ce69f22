package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"postergen/internal/container"
	"postergen/internal/domain/entity"
)

var (
	checkWidth   int
	checkHeight  int
	checkObjects []string
	checkInputs  map[string]string
)

var checkCmd = &cobra.Command{
	Use:   "check <file.html>",
	Short: "Check poster HTML for compliance, exit status 1 on FAIL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		markup, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read poster: %w", err)
		}

		// палитры при проверке не нужны
		cfg.PaletteDSN = ""

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

		verdict := c.Checker.Check(ctx, string(markup), labelsToObjects(checkObjects), entity.ComplianceContext{
			UserInputs: checkInputs,
			Format:     entity.Format{Width: checkWidth, Height: checkHeight},
		})

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(verdict); err != nil {
			return err
		}
		if !verdict.Passed {
			return errCheckFailed
		}
		return nil
	},
}

func labelsToObjects(labels []string) []entity.DetectedObject {
	objects := make([]entity.DetectedObject, 0, len(labels))
	for _, l := range labels {
		if l = strings.TrimSpace(l); l != "" {
			objects = append(objects, entity.DetectedObject{Label: l})
		}
	}
	return objects
}

func init() {
	checkCmd.Flags().IntVar(&checkWidth, "width", entity.CanvasSquare.Width, "Canvas width")
	checkCmd.Flags().IntVar(&checkHeight, "height", entity.CanvasSquare.Height, "Canvas height")
	checkCmd.Flags().StringSliceVar(&checkObjects, "objects", nil, "Detected object labels, comma separated")
	checkCmd.Flags().StringToStringVar(&checkInputs, "input", nil, "User input fields, key=value")
}
