package topology

import (
	"fmt"
	"strings"
)

// UnmarshalYAML lets a SessionKind be written in YAML as one of the three
// relationship names spec.md §6 uses, rather than a raw integer.
func (k *SessionKind) UnmarshalYAML(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"'`)
	switch s {
	case "provider-customer":
		*k = ProviderCustomer
	case "peer":
		*k = Peer
	case "ibgp":
		*k = IBGP
	default:
		return fmt.Errorf("topology: unknown session kind %q", s)
	}
	return nil
}

// MarshalYAML renders a SessionKind back as its relationship name.
func (k SessionKind) MarshalYAML() ([]byte, error) {
	return []byte(`"` + k.String() + `"`), nil
}
