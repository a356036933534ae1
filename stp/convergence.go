package stp

// Convergence tracks whether a switch's port decisions have changed across
// successive emission rounds, per spec.md §4.2: STP has converged once no
// port's role or best BPDU changes across two consecutive rounds. A
// switch's periodic BPDU task consults this to decide whether it still
// needs to reschedule itself.
type Convergence struct {
	last         []PortDecision
	stableRounds int
}

// Observe records one round's decisions and reports whether the switch has
// now been stable for two consecutive rounds.
func (c *Convergence) Observe(decisions []PortDecision) (stable bool) {
	if sameDecisions(c.last, decisions) {
		c.stableRounds++
	} else {
		c.stableRounds = 0
	}
	c.last = decisions
	return c.stableRounds >= 2
}

func sameDecisions(a, b []PortDecision) bool {
	if len(a) != len(b) {
		return false
	}
	byID := make(map[int]PortDecision, len(a))
	for _, d := range a {
		byID[d.ID] = d
	}
	for _, d := range b {
		prev, ok := byID[d.ID]
		if !ok || prev.Role != d.Role || prev.Advertise != d.Advertise {
			return false
		}
	}
	return true
}
