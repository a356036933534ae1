package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/flowmesh/netsim/render"
	"github.com/flowmesh/netsim/simcontrol"
	"github.com/flowmesh/netsim/sink"
	"github.com/flowmesh/netsim/topology"
)

var runCmd = &cobra.Command{
	Use:     "run <topology.yaml>",
	Aliases: []string{"r"},
	Short:   "Load a topology, run it to quiescence, and report the result",
	Args:    cobra.ExactArgs(1),
	Run:     runTopology,
	GroupID: "run",
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringSliceP("log", "l", nil, "log categories to print (default: the topology's own list, or all if unset)")
	runCmd.Flags().String("log-file", "", "also mirror log events to this file")
	runCmd.Flags().BoolP("verbose", "v", false, "enable debug-level logging")
	runCmd.Flags().String("dot", "", "override the topology's dot_graph_file path")
	runCmd.Flags().Duration("timeout", 30*time.Second, "abort the run if it has not reached quiescence by this deadline")
}

func runTopology(cmd *cobra.Command, args []string) {
	topo, err := topology.Load(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	categories, _ := cmd.Flags().GetStringSlice("log")
	logPath, _ := cmd.Flags().GetString("log-file")
	evt, err := sink.New(sink.Options{
		Categories: resolveCategories(categories, topo.LogCategories),
		LogPath:    logPath,
		Level:      level,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctrl, err := simcontrol.New(topo, evt)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	timeout, _ := cmd.Flags().GetDuration("timeout")
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	runErr := ctrl.Run(ctx)
	ctrl.Shutdown()
	if runErr != nil {
		fmt.Fprintln(os.Stderr, "run did not reach quiescence:", runErr)
		os.Exit(1)
	}

	render.Tables(os.Stdout, ctrl.Snapshots(), topo.PrintRoutingTables, topo.PrintBGPTables)
	for _, result := range ctrl.PingResults() {
		fmt.Fprintln(os.Stdout, formatPingResult(result))
	}

	dotPath, _ := cmd.Flags().GetString("dot")
	if dotPath == "" {
		dotPath = topo.DotGraphFile
	}
	if dotPath != "" {
		f, err := os.Create(dotPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer f.Close()
		render.Dot(f, topo)
	}
}

func resolveCategories(flagCats []string, topoCats []sink.Category) []sink.Category {
	if len(flagCats) > 0 {
		out := make([]sink.Category, len(flagCats))
		for i, c := range flagCats {
			out[i] = sink.Category(c)
		}
		return out
	}
	return topoCats
}

func formatPingResult(r simcontrol.PingResult) string {
	switch {
	case !r.Attempted:
		return fmt.Sprintf("ping %s -> %s: unreachable (no route)", r.From, r.Target)
	case r.Succeeded:
		return fmt.Sprintf("ping %s -> %s: success", r.From, r.Target)
	default:
		return fmt.Sprintf("ping %s -> %s: timeout", r.From, r.Target)
	}
}
