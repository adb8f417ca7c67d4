package main

import (
	"github.com/spf13/cobra"

	"github.com/cygnusbill/spelunkpath/stablepath"
)

func newStablePathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stablepath <path>",
		Short: "Parse a stable path string into its segments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			segs, err := stablepath.Parse(args[0])
			if err != nil {
				return err
			}
			for _, s := range segs {
				cmd.Println(s.String())
			}
			return nil
		},
	}
}
