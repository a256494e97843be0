package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"github.com/wenzapen/vacancies/cmd/crawl"
	"github.com/wenzapen/vacancies/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "print version",
	Long:  "print version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		version.Printer(cmd.OutOrStdout())
	},
}

func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "vacancies",
		Short:        "djinni.co vacancy crawler",
		SilenceUsage: true,
	}
	rootCmd.AddCommand(crawl.CrawlCmd, versionCmd)
	return rootCmd
}

func Execute() {
	if err := NewRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
