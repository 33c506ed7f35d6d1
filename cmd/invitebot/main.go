package main

import (
	"fmt"
	"invitebot/internal/di"
	"invitebot/internal/structures"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	flags := &structures.CliFlags{}

	rootCmd := &cobra.Command{
		Use:           "invitebot",
		Short:         "Discord bot that attributes joins to invites and assigns tier roles",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := di.InitApp(flags)
			return err
		},
	}
	rootCmd.Flags().StringVarP(&flags.ConfigPath, "config", "c", "config.yaml", "path to the config file")
	rootCmd.Flags().BoolVarP(&flags.DebugMode, "debug", "d", false, "also log to stdout")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
