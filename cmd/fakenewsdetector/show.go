package main

import (
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the last stored verdict",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApplication(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		return printView(cmd, a.Presenter.Open(cmd.Context()))
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
