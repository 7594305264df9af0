package cmd

import (
	"os"

	"github.com/dreamerjackson/confextract/cmd/extract"
	"github.com/dreamerjackson/confextract/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "print version.",
	Long:  "print version.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		version.Printer(cmd.OutOrStdout())
	},
}

func Execute() {
	var rootCmd = &cobra.Command{
		Use:          "confextract",
		Short:        "extract structured records from conference programs.",
		SilenceUsage: true,
	}
	rootCmd.AddCommand(extract.ExtractCmd, extract.FamiliesCmd, versionCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
