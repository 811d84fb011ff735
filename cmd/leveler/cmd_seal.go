package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newSealCmd(root *rootFlags) *cobra.Command {
	var (
		output string
		at     string
	)

	cmd := &cobra.Command{
		Use:   "seal <snapshot>",
		Short: "Seal every evidence item of an open case and record its integrity hash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now().UTC()
			if at != "" {
				t, err := time.Parse(time.RFC3339Nano, at)
				if err != nil {
					return fmt.Errorf("--at: %w", err)
				}
				now = t
			}

			sealer, err := root.sealer()
			if err != nil {
				return err
			}

			in, err := readSnapshot(args[0])
			if err != nil {
				return err
			}

			sealed, err := sealer.SealCase(in.Case, now)
			if err != nil {
				return fmt.Errorf("seal %s: case is %s: %w", args[0], in.Case.Status, err)
			}
			in.Case = sealed

			return writeOutput(output, cmd.OutOrStdout(), in)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the sealed snapshot to a file instead of stdout")
	cmd.Flags().StringVar(&at, "at", "", "Seal time in RFC 3339 (default: now)")
	return cmd
}
