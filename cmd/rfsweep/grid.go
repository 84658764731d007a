package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/neurlang/rfsweep/config"
	"github.com/neurlang/rfsweep/grid"
)

var gridCmd = &cobra.Command{
	Use:   "grid <attributes>...",
	Short: "Print the feature candidates for the given attribute counts",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, a := range args {
			n, err := strconv.Atoi(a)
			if err != nil || n < 1 {
				return fmt.Errorf("attribute count %q must be a positive integer", a)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d\t%v\n", n, grid.Candidates(n))
		}
		return nil
	},
}

var datasetsConfig string

var datasetsCmd = &cobra.Command{
	Use:   "datasets",
	Short: "List the configured datasets with their grids",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(datasetsConfig)
		if err != nil {
			return err
		}
		for _, d := range cfg.Datasets {
			g := grid.New(cfg.TreeCounts, d.Attributes)
			fmt.Fprintf(cmd.OutOrStdout(), "%-24s %3d  trees %v  features %v\n", d.Name, d.Attributes, g.TreeCounts, g.FeatureCounts)
		}
		return nil
	},
}

func init() {
	datasetsCmd.Flags().StringVarP(&datasetsConfig, "config", "c", "", "config file (yaml, toml or json)")
	rootCmd.AddCommand(gridCmd, datasetsCmd)
}
