package main

import (
	"fmt"

	"github.com/milk9111/valentine/config"
	"github.com/spf13/cobra"
)

var initConfigCmd = &cobra.Command{
	Use:   "init-config",
	Short: "Write the example settings file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.CreateFile(opts.config); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", opts.config)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initConfigCmd)
}
