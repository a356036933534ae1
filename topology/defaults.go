package topology

import "dario.cat/mergo"

// defaultLink is merged into every parsed LinkCfg to fill in fields the
// author left at their zero value.
var defaultLink = LinkCfg{Cost: 1}

// applyDefaults fills omitted-but-defaultable fields across a freshly
// decoded Topology. mergo only ever fills a destination field that is
// still at its zero value, so an explicit `cost: 0` in YAML is
// indistinguishable from an absent one — acceptable here since a real
// zero-cost link has no meaning in STP's cost model.
func applyDefaults(t *Topology) error {
	for i := range t.Links {
		if err := mergo.Merge(&t.Links[i], defaultLink); err != nil {
			return err
		}
	}
	return nil
}
