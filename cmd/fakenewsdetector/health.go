package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the classifier service is up",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApplication(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Health(cmd.Context()); err != nil {
			return fmt.Errorf("classifier unhealthy: %w", err)
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), "classifier: ok")
		return err
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
