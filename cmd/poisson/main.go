// Command poisson runs a bounded Jacobi relaxation over a uniform grid's
// 6-face adjacency tables and snapshots the result. It exists to exercise
// cellgrid end to end; the relaxation itself is not a validated numerical
// solver.
package main

import (
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/oktal-sim/octree-go/cellgrid"
	"github.com/oktal-sim/octree-go/export"
	"github.com/oktal-sim/octree-go/octree"
)

var log = zerolog.New(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) { w.Out = os.Stderr })).With().Timestamp().Logger()

var faceNeighborhood = []cellgrid.Offset{
	{DX: -1}, {DX: 1},
	{DY: -1}, {DY: 1},
	{DZ: -1}, {DZ: 1},
}

var rootCmd = &cobra.Command{
	Use:           "poisson <refinement-level> <max-iterations> <epsilon> <output-file>",
	Short:         "Relax a uniform grid with a bounded Jacobi sweep and snapshot it",
	Args:          cobra.ExactArgs(4),
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := strconv.Atoi(args[0])
		if err != nil || level < 0 {
			return fmt.Errorf("refinement-level must be a non-negative integer, got %q", args[0])
		}
		maxIterations, err := strconv.Atoi(args[1])
		if err != nil || maxIterations < 0 {
			return fmt.Errorf("max-iterations must be a non-negative integer, got %q", args[1])
		}
		epsilon, err := strconv.ParseFloat(args[2], 64)
		if err != nil || epsilon <= 0 {
			return fmt.Errorf("epsilon must be a positive number, got %q", args[2])
		}
		outputPath := args[3]
		if outputPath == "" {
			return fmt.Errorf("output file cannot be empty")
		}

		store := octree.NewUniformGrid(octree.DefaultGeometry(), level)
		grid := cellgrid.New(store).Neighborhood(faceNeighborhood...).Build()

		field, iterations, residual := relax(grid, maxIterations, epsilon)

		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("creating %s: %w", outputPath, err)
		}
		defer f.Close()

		payloads := map[string][]float64{
			"potential": export.AlignPayload(field, store.NumNodes()),
		}
		snap := export.NewSnapshot(store, payloads)
		if err := export.WriteSnapshot(f, snap); err != nil {
			return fmt.Errorf("writing snapshot: %w", err)
		}

		log.Info().
			Str("run_id", snap.RunID).
			Int("iterations", iterations).
			Float64("residual", residual).
			Int("cells", grid.Len()).
			Msg("relaxation finished")
		return nil
	},
}

// relax runs a bounded Jacobi sweep seeded at zero with a unit source at the
// grid's first cell, using the grid's precomputed 6-face adjacency tables in
// place of an explicit stencil assembly. It stops after maxIterations or
// once the max per-cell update falls below epsilon.
func relax(grid *cellgrid.Grid, maxIterations int, epsilon float64) (field []float64, iterations int, residual float64) {
	n := grid.Len()
	field = make([]float64, n)
	next := make([]float64, n)

	neighbors := make([][]uint64, len(faceNeighborhood))
	for i, offset := range faceNeighborhood {
		neighbors[i], _ = grid.NeighborIndices(offset)
	}

	const source = 1.0

	for iterations = 0; iterations < maxIterations; iterations++ {
		residual = 0
		for i := 0; i < n; i++ {
			sum, count := 0.0, 0
			for _, table := range neighbors {
				if nb := table[i]; nb != cellgrid.NoNeighbor {
					sum += field[nb]
					count++
				}
			}
			if count == 0 {
				next[i] = field[i]
				continue
			}

			forcing := 0.0
			if i == 0 {
				forcing = source
			}
			next[i] = (sum + forcing) / float64(count)
			residual = math.Max(residual, math.Abs(next[i]-field[i]))
		}
		field, next = next, field

		if residual < epsilon {
			iterations++
			break
		}
	}

	return field, iterations, residual
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("poisson failed")
		os.Exit(1)
	}
}
