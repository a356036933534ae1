package transport

import "github.com/flowmesh/netsim/wire"

// PortID identifies a port within one device. Port numbering is local to
// each device; a Link joins two (device, PortID) pairs.
type PortID int

// Port is one interface of one device. A Port is bound to exactly one Link
// for its whole lifetime (links are never torn down, per spec.md §3).
type Port struct {
	ID     PortID
	Device string
	Cost   int // STP path cost, default 1
	link   *Link
	// recv is read by the owning device's pump goroutine and fed into the
	// device's actor.Core mailbox. It is buffered to give the bounded
	// backpressure spec.md §5 permits.
	recv chan wire.Frame
}

func newPort(id PortID, device string, cost int, bufSize int) *Port {
	if cost <= 0 {
		cost = 1
	}
	return &Port{ID: id, Device: device, Cost: cost, recv: make(chan wire.Frame, bufSize)}
}

// Recv returns the channel a device's pump goroutine should range over.
func (p *Port) Recv() <-chan wire.Frame { return p.recv }

// Link returns the Link this port is bound to, or nil if unbound.
func (p *Port) Link() *Link { return p.link }

// Ref returns a lightweight, wire-safe reference to this port.
func (p *Port) Ref() wire.PortRef { return wire.PortRef{Device: p.Device, Port: int(p.ID)} }

// Send transmits frame from this port to the port at the other end of its
// Link. It is a no-op (aside from a log-worthy drop) if the port is
// unbound.
func (p *Port) Send(activity *Activity, frame wire.Frame) bool {
	if p.link == nil {
		return false
	}
	other := p.link.other(p)
	activity.IncInFlight()
	select {
	case other.recv <- frame:
		return true
	default:
		// bounded buffer full: block until there is room, still counted
		// in-flight the whole time so quiescence never fires early.
		other.recv <- frame
		return true
	}
}
