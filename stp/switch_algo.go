package stp

// Compute assigns a role to every port of the switch identified by
// switchID, per spec.md §4.2:
//
//   - the port carrying the best inbound BPDU (after adding that port's
//     cost) becomes root, unless no port has heard a better root than the
//     switch's own id, in which case the switch is itself the root and no
//     port is root;
//   - every other port is designated if the switch's own BPDU (rootID,
//     rootCost, switchID, that port's id) beats what was received on it,
//     and blocking otherwise.
func Compute(switchID uint32, ports []PortInput) []PortDecision {
	best := BPDU{RootID: switchID, RootCost: 0, SenderID: switchID, SenderPort: -1}
	rootPort := -1

	for _, p := range ports {
		if p.Received == nil {
			continue
		}
		candidate := BPDU{
			RootID:     p.Received.RootID,
			RootCost:   p.Received.RootCost + uint32(p.Cost),
			SenderID:   p.Received.SenderID,
			SenderPort: p.Received.SenderPort,
		}
		if Less(candidate, best) {
			best = candidate
			rootPort = p.ID
		}
	}

	decisions := make([]PortDecision, 0, len(ports))
	for _, p := range ports {
		advertise := BPDU{RootID: best.RootID, RootCost: best.RootCost, SenderID: switchID, SenderPort: p.ID}

		var role Role
		switch {
		case p.ID == rootPort:
			role = RoleRoot
		case p.Received == nil:
			role = RoleDesignated
		case Less(advertise, *p.Received):
			role = RoleDesignated
		default:
			role = RoleBlocking
		}

		decisions = append(decisions, PortDecision{ID: p.ID, Role: role, Advertise: advertise})
	}
	return decisions
}
