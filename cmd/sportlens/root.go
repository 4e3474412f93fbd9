package main

import (
	"fmt"
	"os"

	"github.com/NeuralTrust/SportLens/pkg/version"
	"github.com/spf13/cobra"
)

// NewRootCmd runs serve when no subcommand is given.
func NewRootCmd() *cobra.Command {
	serve := NewServeCmd()

	cmd := &cobra.Command{
		Use:           "sportlens",
		Short:         "Sports image analysis and video forwarding service",
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}
	cmd.Flags().AddFlagSet(serve.Flags())

	cmd.AddCommand(serve)
	cmd.AddCommand(NewAnalyzeCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
