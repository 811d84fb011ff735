package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/verum/pkg/digest"
)

func newHashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash <file>...",
		Short: "Print the content digest of each file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", digest.Sum(data), path)
			}
			return nil
		},
	}
}
