// Package cmd is the netsim command-line entry point: a thin spf13/cobra
// wrapper that wires topology.Load, simcontrol.Controller and render
// together. None of the core packages import this one.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "netsim",
	Short: "Discrete-event IP network simulator",
	Long: `netsim replays a declarative topology of routers and switches to a
steady state — BGP converged under Gao-Rexford policy, spanning tree
loop-free — then reports the resulting routing state and any configured
ping outcomes.`,
}

// Execute runs the root command. Called once from main.main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddGroup(&cobra.Group{ID: "run", Title: "Simulation"})
}
