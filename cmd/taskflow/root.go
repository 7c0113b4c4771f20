package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "taskflow",
	Short: "Handle-indexed task-graph construction and execution engine",
	Long: `taskflow builds directed acyclic graphs of named work units, executes
them on a worker pool in dependency order, and converts between graphs and
the level-sequence tree encoding.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().Int("workers", 0, "Worker pool size (0 = one per CPU)")
}
