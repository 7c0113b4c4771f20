package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/echotree/taskflow"
	"github.com/echotree/taskflow/pkg/log"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run a sample graph, atom space, tensor and tree conversion",
	RunE:  runDemo,
}

func init() {
	demoCmd.Flags().String("metrics-addr", "", "Serve prometheus metrics on this address and wait for SIGINT after the demo")
	rootCmd.AddCommand(demoCmd)
}

func runDemo(cmd *cobra.Command, args []string) error {
	logger := log.New()
	workers, _ := cmd.Flags().GetInt("workers")
	metricsAddr, _ := cmd.Flags().GetString("metrics-addr")

	opts := []taskflow.Option{
		taskflow.WithWorkersCount(workers),
		taskflow.WithLog(logger),
	}
	reg := prometheus.NewRegistry()
	if metricsAddr != "" {
		opts = append(opts, taskflow.WithMetrics(reg))
	}

	bridge := taskflow.New(opts...)
	defer bridge.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// The diamond: B and C depend on A, D depends on both.
	g := bridge.CreateGraph()
	work := func(name string) taskflow.Work {
		return func(ctx context.Context) error {
			logger.Info("executing", "task", name)
			return nil
		}
	}
	for id, name := range map[int]string{1: "Task A", 2: "Task B", 3: "Task C", 4: "Task D"} {
		if err := bridge.AddNode(g, id, name, work(name)); err != nil {
			return err
		}
	}
	for _, edge := range [][2]int{{1, 2}, {1, 3}, {2, 4}, {3, 4}} {
		if err := bridge.AddDependency(g, edge[0], edge[1]); err != nil {
			return err
		}
	}

	logger.Info("executing graph", "graph", g)
	run, err := bridge.Run(ctx, g)
	if err != nil {
		return err
	}
	if err := run.Wait(); err != nil {
		return err
	}
	logger.Info("graph completed", "dispatch_order", run.DispatchOrder())

	// Atom space with one attended concept.
	space := bridge.CreateAtomSpace()
	atom, err := bridge.AddAtom(space, 1, "Concept1")
	if err != nil {
		return err
	}
	if err := bridge.SetAttention(atom, 0.75); err != nil {
		return err
	}
	attention, err := bridge.GetAttention(atom)
	if err != nil {
		return err
	}
	fmt.Printf("atom attention: %v\n", attention)

	// 3x3 tensor round-trip.
	tensor, err := bridge.CreateTensor([]int{3, 3})
	if err != nil {
		return err
	}
	if err := bridge.SetTensorData(tensor, []float32{1, 2, 3, 4, 5, 6, 7, 8, 9}); err != nil {
		return err
	}
	data, err := bridge.GetTensorData(tensor)
	if err != nil {
		return err
	}
	fmt.Printf("tensor data: %v\n", data)

	// Tree decode: {1,2,2,3} is a root with two children, one of which has
	// a child of its own.
	tree, err := bridge.LevelSequenceToGraph([]int{1, 2, 2, 3})
	if err != nil {
		return err
	}
	fmt.Printf("created graph %d from tree\n", tree)

	fmt.Printf("graphs: %d\natom spaces: %d\ntensors: %d\n",
		bridge.NumGraphs(), bridge.NumAtomSpaces(), bridge.NumTensors())

	if metricsAddr != "" {
		http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		go func() {
			if err := http.ListenAndServe(metricsAddr, nil); err != nil {
				logger.Error("metrics server failed", "error", err)
			}
		}()
		logger.Info("serving metrics until interrupted", "addr", metricsAddr)
		<-ctx.Done()
	}
	return nil
}
