package main

import (
	"strings"

	"github.com/spf13/cobra"
)

var checkTab int

var checkCmd = &cobra.Command{
	Use:   "check TEXT",
	Short: "Score a piece of selected text",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApplication(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		view := a.CheckText(cmd.Context(), checkTab, strings.Join(args, " "))
		return printView(cmd, view)
	},
}

func init() {
	checkCmd.Flags().IntVar(&checkTab, "tab", 1, "tab id to attribute the selection to")
	rootCmd.AddCommand(checkCmd)
}
