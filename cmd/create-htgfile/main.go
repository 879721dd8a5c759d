// Command create-htgfile builds a store from a textual descriptor and
// writes its exporter-ready snapshot to disk.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/oktal-sim/octree-go/export"
	"github.com/oktal-sim/octree-go/octree"
)

var log = zerolog.New(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) { w.Out = os.Stderr })).With().Timestamp().Logger()

var rootCmd = &cobra.Command{
	Use:           "create-htgfile <output-path> <descriptor>",
	Short:         "Build an octree from a descriptor string and snapshot it to disk",
	Args:          cobra.ExactArgs(2),
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		outputPath, descriptor := args[0], args[1]

		store, err := octree.FromDescriptor(descriptor)
		if err != nil {
			return fmt.Errorf("building octree: %w", err)
		}

		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("creating %s: %w", outputPath, err)
		}
		defer f.Close()

		snap := export.NewSnapshot(store, nil)
		if err := export.WriteSnapshot(f, snap); err != nil {
			return fmt.Errorf("writing snapshot: %w", err)
		}

		log.Info().
			Str("run_id", snap.RunID).
			Str("output", outputPath).
			Int("nodes", store.NumNodes()).
			Int("levels", store.NumLevels()).
			Msg("wrote snapshot")
		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("create-htgfile failed")
		os.Exit(1)
	}
}
