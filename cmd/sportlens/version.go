package main

import (
	"fmt"

	"github.com/NeuralTrust/SportLens/pkg/version"
	"github.com/spf13/cobra"
)

func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			info := version.GetInfo()
			fmt.Fprintln(cmd.OutOrStdout(), info.String())
			fmt.Fprintf(cmd.OutOrStdout(), "  commit:   %s\n", info.GitCommit)
			fmt.Fprintf(cmd.OutOrStdout(), "  built:    %s\n", info.BuildDate)
			fmt.Fprintf(cmd.OutOrStdout(), "  go:       %s\n", info.GoVersion)
			fmt.Fprintf(cmd.OutOrStdout(), "  platform: %s\n", info.Platform)
		},
	}
}
