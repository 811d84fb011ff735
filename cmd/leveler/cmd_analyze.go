package main

import (
	"context"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/verum/evidence"
	"github.com/JaimeStill/verum/internal/analyses"
	"github.com/JaimeStill/verum/leveler"
)

type analysisReport struct {
	File         string         `json:"file"`
	SnapshotHash string         `json:"snapshot_hash"`
	Result       leveler.Result `json:"result"`
}

func analyzeFiles(ctx context.Context, lv *leveler.Leveler, paths []string, parallel int) ([]analysisReport, error) {
	reports := make([]analysisReport, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			in, err := readSnapshot(path)
			if err != nil {
				return err
			}

			statements, err := analyses.PrepareStatements(in.Statements)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			in.Statements = statements

			reports[i] = analysisReport{
				File:         path,
				SnapshotHash: evidence.SnapshotHash(in.Case),
				Result:       lv.Run(in),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

func newAnalyzeCmd(root *rootFlags) *cobra.Command {
	var (
		output   string
		parallel int
	)

	cmd := &cobra.Command{
		Use:   "analyze <snapshot>...",
		Short: "Run the B1-B9 pipeline over one or more snapshots",
		Long: `analyze runs the leveler over each snapshot and prints one report per file,
in argument order. Statements without an id are numbered S1, S2, ...`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if parallel < 1 {
				return fmt.Errorf("--parallel must be at least 1")
			}

			lv, err := root.leveler()
			if err != nil {
				return err
			}

			reports, err := analyzeFiles(cmd.Context(), lv, args, parallel)
			if err != nil {
				return err
			}
			return writeOutput(output, cmd.OutOrStdout(), reports)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write reports to a file instead of stdout")
	cmd.Flags().IntVarP(&parallel, "parallel", "p", runtime.NumCPU(), "Snapshots analyzed concurrently")
	return cmd
}
