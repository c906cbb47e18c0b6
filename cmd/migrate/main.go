package main

import (
	"os"

	"homeserve/config"
	"homeserve/helper"
	"homeserve/shared/logger"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var descriptions = map[string]string{
	"up":      "Apply every pending migration",
	"down":    "Roll back the latest migration",
	"step-up": "Apply the next pending migration",
	"drop":    "Roll back every migration",
}

func actionCmd(name string) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: descriptions[name],
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return helper.Runner(config.Get(), name)
		},
	}
}

func main() {
	rootCmd := &cobra.Command{
		Use:           "migrate",
		Short:         "Manage the homeserve database schema",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			logger.Setup(config.Get())
		},
	}

	for _, name := range helper.Actions() {
		rootCmd.AddCommand(actionCmd(name))
	}

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("Migration failed")
		os.Exit(1)
	}
}
