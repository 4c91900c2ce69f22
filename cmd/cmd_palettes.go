package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	app "postergen/internal/application"
	"postergen/internal/domain/entity"
	"postergen/internal/infrastructure/storage"
)

var paletteLimit int

var palettesCmd = &cobra.Command{
	Use:   "palettes",
	Short: "List the most used colour palettes",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, closeFn, err := openPalettes(cmd)
		if err != nil {
			return err
		}
		defer closeFn()

		palettes, err := svc.Frequent(cmd.Context(), paletteLimit)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "PRIMARY\tSECONDARY\tACCENT\tBACKGROUND\tUSES")
		for _, p := range palettes {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n", p.Primary, p.Secondary, p.Accent, p.Background, p.UsageCount)
		}
		return w.Flush()
	},
}

var paletteSaveCmd = &cobra.Command{
	Use:   "save <primary> <secondary> <accent> <background>",
	Short: "Record one use of a palette",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, closeFn, err := openPalettes(cmd)
		if err != nil {
			return err
		}
		defer closeFn()

		return svc.Record(cmd.Context(), entity.Palette{
			Primary:    args[0],
			Secondary:  args[1],
			Accent:     args[2],
			Background: args[3],
		})
	},
}

func openPalettes(cmd *cobra.Command) (*app.PaletteService, func(), error) {
	store, err := storage.OpenPaletteStore(cmd.Context(), cfg.PaletteDSN)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := store.Close(); err != nil {
			logger.Warn("close palette store", zap.Error(err))
		}
	}
	return app.NewPaletteService(store), closeFn, nil
}

func init() {
	palettesCmd.Flags().IntVarP(&paletteLimit, "limit", "n", app.DefaultFrequentLimit, "Number of palettes to show")
	palettesCmd.AddCommand(paletteSaveCmd)
}
