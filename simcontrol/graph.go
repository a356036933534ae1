package simcontrol

import (
	"fmt"

	"github.com/flowmesh/netsim/device"
	"github.com/flowmesh/netsim/transport"
)

// wireLinks creates the transport.Link (and its two ports) for every
// configured link, attaches each port to its owning device, and records
// the undirected adjacency graph used later to compute L2 broadcast
// domains.
func (c *Controller) wireLinks() error {
	portSeq := make(map[string]transport.PortID)
	nextPort := func(name string) transport.PortID {
		id := portSeq[name]
		portSeq[name] = id + 1
		return id
	}

	for _, link := range c.topo.Links {
		idA := nextPort(link.A)
		idB := nextPort(link.B)
		pa, pb := transport.NewLink(link.A, idA, link.Cost, link.B, idB, link.Cost)

		if err := c.addPort(link.A, pa); err != nil {
			return err
		}
		if err := c.addPort(link.B, pb); err != nil {
			return err
		}

		c.adjacency[link.A] = append(c.adjacency[link.A], edge{peer: link.B, port: idA})
		c.adjacency[link.B] = append(c.adjacency[link.B], edge{peer: link.A, port: idB})
	}
	return nil
}

func (c *Controller) addPort(deviceName string, port *transport.Port) error {
	if r, ok := c.routers[deviceName]; ok {
		r.AddPort(port)
		return nil
	}
	if s, ok := c.switches[deviceName]; ok {
		s.AddPort(port)
		return nil
	}
	return fmt.Errorf("simcontrol: link references unknown device %q", deviceName)
}

// computeL2Neighbors installs, on every router port that leads into a
// layer-2 segment, a connected route to every other router reachable in
// that same broadcast domain without crossing a further router (spec.md
// §4.3). The walk follows the physical topology graph, not runtime STP
// state: a switch fabric's blocked ports stop loops from forming, they do
// not partition the broadcast domain a router sees through its one
// attachment port.
func (c *Controller) computeL2Neighbors() {
	for name, r := range c.routers {
		for _, e := range c.adjacency[name] {
			for _, n := range c.reachableRouters(name, e.peer) {
				r.AddNeighbor(e.port, n)
			}
		}
	}
}

// reachableRouters walks the graph starting at start, crossing switches
// only, and returns every router discovered other than origin.
func (c *Controller) reachableRouters(origin, start string) []device.L2Neighbor {
	var out []device.L2Neighbor
	visited := map[string]bool{origin: true}
	queue := []string{start}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if visited[cur] {
			continue
		}
		visited[cur] = true

		if r, ok := c.routers[cur]; ok {
			out = append(out, device.L2Neighbor{RouterName: cur, Loopback: r.Loopback()})
			continue // a router terminates the broadcast domain
		}
		for _, e := range c.adjacency[cur] {
			if !visited[e.peer] {
				queue = append(queue, e.peer)
			}
		}
	}
	return out
}
