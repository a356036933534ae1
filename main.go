package main

import "github.com/flowmesh/netsim/cmd"

func main() {
	cmd.Execute()
}
