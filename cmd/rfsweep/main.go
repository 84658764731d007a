package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "rfsweep",
	Short:         "Random forest hyperparameter sweep",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		red.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
