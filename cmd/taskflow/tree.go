package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/echotree/taskflow/graph"
)

var treeCmd = &cobra.Command{
	Use:   "tree [depth...]",
	Short: "Decode a level sequence and print the reconstructed tree",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTree,
}

func init() {
	rootCmd.AddCommand(treeCmd)
}

func runTree(cmd *cobra.Command, args []string) error {
	sequence := make([]int, len(args))
	for i, arg := range args {
		depth, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
		sequence[i] = depth
	}

	g, err := graph.FromLevelSequence(sequence)
	if err != nil {
		return err
	}

	for _, id := range g.NodeIDs() {
		n, _ := g.Node(id)
		if len(n.Parents) == 0 {
			fmt.Printf("%d (root)\n", id)
		} else {
			fmt.Printf("%d <- %d\n", id, n.Parents[0])
		}
	}

	back, err := g.LevelSequence()
	if err != nil {
		return err
	}
	fmt.Printf("level sequence: %v\n", back)
	return nil
}
