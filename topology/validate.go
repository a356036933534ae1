package topology

import (
	"fmt"
	"strings"
)

// ValidationError aggregates every problem Validate found, so a caller can
// report all of them at once instead of stopping at the first (spec.md §7:
// fatal topology errors abort before any actor starts).
type ValidationError []error

func (e ValidationError) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("topology: %d validation error(s):\n  %s", len(e), strings.Join(msgs, "\n  "))
}

// Validate checks a decoded Topology for the fatal errors spec.md §6-§7
// name: unknown device names, duplicate ids or names, dangling link
// endpoints, an empty topology, and provider-customer cycles that would
// make a customer its own (in)direct provider.
func Validate(t *Topology) error {
	var errs ValidationError

	if len(t.Routers) == 0 && len(t.Switches) == 0 {
		errs = append(errs, fmt.Errorf("topology has no routers and no switches"))
		return errs
	}

	names := make(map[string]bool)
	routerAS := make(map[string]uint32)
	ids := make(map[int]string) // id -> device name, per device kind is not distinguished per spec.md (ids are unique across the topology)

	addName := func(kind, name string) {
		if name == "" {
			errs = append(errs, fmt.Errorf("%s has an empty name", kind))
			return
		}
		if names[name] {
			errs = append(errs, fmt.Errorf("duplicate device name %q", name))
			return
		}
		names[name] = true
	}
	addID := func(kind, name string, id int) {
		if prev, ok := ids[id]; ok {
			errs = append(errs, fmt.Errorf("%s %q and %q share id %d", kind, prev, name, id))
			return
		}
		ids[id] = name
	}

	for _, r := range t.Routers {
		addName("router", r.Name)
		addID("router", r.Name, r.ID)
		if r.AS == 0 {
			errs = append(errs, fmt.Errorf("router %q has AS 0, which is not a valid AS number", r.Name))
		}
		routerAS[r.Name] = r.AS
	}
	for _, s := range t.Switches {
		addName("switch", s.Name)
		addID("switch", s.Name, s.ID)
	}

	checkEndpoint := func(context, name string) {
		if !names[name] {
			errs = append(errs, fmt.Errorf("%s references unknown device %q", context, name))
		}
	}

	for i, l := range t.Links {
		checkEndpoint(fmt.Sprintf("link[%d]", i), l.A)
		checkEndpoint(fmt.Sprintf("link[%d]", i), l.B)
		if l.A == l.B && l.A != "" {
			errs = append(errs, fmt.Errorf("link[%d] connects %q to itself", i, l.A))
		}
	}

	providerOf := make(map[string][]string) // customer -> providers
	for i, s := range t.Sessions {
		context := fmt.Sprintf("session[%d]", i)
		checkEndpoint(context, s.Provider)
		checkEndpoint(context, s.Customer)
		if s.Provider == s.Customer && s.Provider != "" {
			errs = append(errs, fmt.Errorf("%s relates %q to itself", context, s.Provider))
		}
		if s.Kind == ProviderCustomer {
			providerOf[s.Customer] = append(providerOf[s.Customer], s.Provider)
		}
	}

	if cyc := findProviderCycle(providerOf); cyc != "" {
		errs = append(errs, fmt.Errorf("provider-customer relationship forms a cycle through %q", cyc))
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// findProviderCycle walks the customer->providers graph looking for a
// device that is, transitively, its own provider.
func findProviderCycle(providerOf map[string][]string) string {
	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := make(map[string]int)
	var visit func(node string) bool
	visit = func(node string) bool {
		switch state[node] {
		case visiting:
			return true
		case done:
			return false
		}
		state[node] = visiting
		for _, provider := range providerOf[node] {
			if visit(provider) {
				return true
			}
		}
		state[node] = done
		return false
	}
	for node := range providerOf {
		if visit(node) {
			return node
		}
	}
	return ""
}
