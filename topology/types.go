// Package topology is the external, YAML-shaped contract for a run: the
// declarative description of routers, switches, links, BGP sessions and
// the action list a Controller replays. Nothing in device, bgp, stp or
// simcontrol imports the YAML decoder directly — they consume an already
// validated Topology value, keeping the parser genuinely external per
// spec.md §1.
package topology

import (
	"net/netip"

	"github.com/flowmesh/netsim/sink"
)

// RouterCfg declares one router: its unique name, numeric id (used as its
// loopback host number and STP-irrelevant identity) and AS number.
type RouterCfg struct {
	Name string `yaml:"name"`
	ID   int    `yaml:"id"`
	AS   uint32 `yaml:"as"`
}

// SwitchCfg declares one layer-2 bridge: unique name and numeric id, used
// as its STP bridge id.
type SwitchCfg struct {
	Name string `yaml:"name"`
	ID   int    `yaml:"id"`
}

// LinkCfg declares a physical link between two devices. Cost applies to
// both endpoints' ports and defaults to 1 (spec.md §3).
type LinkCfg struct {
	A    string `yaml:"a"`
	B    string `yaml:"b"`
	Cost int    `yaml:"cost,omitempty"`
}

// SessionKind is a BGP session's relationship, from the perspective of the
// pair as declared — provider-customer is asymmetric, peer and ibgp are
// symmetric (spec.md §3).
type SessionKind int

const (
	ProviderCustomer SessionKind = iota
	Peer
	IBGP
)

func (k SessionKind) String() string {
	switch k {
	case ProviderCustomer:
		return "provider-customer"
	case Peer:
		return "peer"
	case IBGP:
		return "ibgp"
	default:
		return "unknown"
	}
}

// SessionCfg declares one BGP session. For ProviderCustomer, Provider is
// the provider and Customer is the customer; for Peer and IBGP, A and B are
// interchangeable and are stored in Provider/Customer regardless of name.
type SessionCfg struct {
	Kind     SessionKind `yaml:"kind"`
	Provider string      `yaml:"a"`
	Customer string      `yaml:"b"`
}

// AnnounceEntry originates a prefix from either one named router, or from
// every router in an AS. Exactly one of Router or AS is set.
type AnnounceEntry struct {
	Router string `yaml:"router,omitempty"`
	AS     uint32 `yaml:"as,omitempty"`
}

// PingEntry is one ping action: from a named router to a target loopback.
type PingEntry struct {
	From   string     `yaml:"from"`
	Target netip.Addr `yaml:"target"`
}

// Actions is the ordered list of actions the Controller replays, each
// followed by a quiescence wait (spec.md §4.6).
type Actions struct {
	AnnouncePrefix []AnnounceEntry `yaml:"announce_prefix,omitempty"`
	Ping           []PingEntry     `yaml:"ping,omitempty"`
}

// Topology is the fully parsed, defaulted and validated description of one
// run. It is immutable once returned by Load or Validate.
type Topology struct {
	Routers []RouterCfg     `yaml:"routers,omitempty"`
	Switches []SwitchCfg    `yaml:"switches,omitempty"`
	Links   []LinkCfg       `yaml:"links,omitempty"`
	Sessions []SessionCfg   `yaml:"sessions,omitempty"`
	Actions Actions         `yaml:"actions,omitempty"`

	LogCategories       []sink.Category `yaml:"log_categories,omitempty"`
	PrintBGPTables      bool            `yaml:"print_bgp_tables,omitempty"`
	PrintRoutingTables  bool            `yaml:"print_routing_tables,omitempty"`
	DotGraphFile        string          `yaml:"dot_graph_file,omitempty"`
}

// RouterPrefix returns the /24 a router's AS owns, per the
// `10.0.<AS>.0/24` addressing convention (spec.md §6).
func RouterPrefix(as uint32) netip.Prefix {
	return netip.PrefixFrom(netip.AddrFrom4([4]byte{10, 0, byte(as), 0}), 24)
}

// Loopback returns a router's own interface address, `10.0.<AS>.<id>`.
func Loopback(as uint32, id int) netip.Addr {
	return netip.AddrFrom4([4]byte{10, 0, byte(as), byte(id)})
}
