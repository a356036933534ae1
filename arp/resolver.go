// Package arp resolves IP targets to link-layer addresses within one
// router's broadcast domains, per spec.md §4.3. A Resolver is owned by a
// single router actor and is only ever touched from that actor's dispatch
// loop, so it needs no locking of its own.
package arp

import (
	"net/netip"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/flowmesh/netsim/transport"
	"github.com/flowmesh/netsim/wire"
)

// cacheTTL is long enough that no entry ever expires within one run; the
// cache is reused here for the ready-made eviction hook it gives a future
// flush-on-link-down feature, not because expiry is an observable behavior
// spec.md asks for.
const cacheTTL = time.Hour

type cacheKey struct {
	Port   transport.PortID
	Target netip.Addr
}

// Resolver caches per-port IP-to-MAC resolutions and parks pending sends
// for targets that are still being resolved.
type Resolver struct {
	cache    *ttlcache.Cache[cacheKey, wire.MAC]
	pending  map[cacheKey][]func(wire.MAC)
	activity *transport.Activity
}

// NewResolver creates a Resolver whose in-flight/parked-send bookkeeping is
// reflected into activity for quiescence detection.
func NewResolver(activity *transport.Activity) *Resolver {
	cache := ttlcache.New[cacheKey, wire.MAC](
		ttlcache.WithTTL[cacheKey, wire.MAC](cacheTTL),
	)
	go cache.Start()
	return &Resolver{
		cache:    cache,
		pending:  make(map[cacheKey][]func(wire.MAC)),
		activity: activity,
	}
}

// Close stops the cache's background janitor goroutine.
func (r *Resolver) Close() {
	r.cache.Stop()
}

// Lookup returns the cached MAC for (port, target), if any.
func (r *Resolver) Lookup(port transport.PortID, target netip.Addr) (wire.MAC, bool) {
	item := r.cache.Get(cacheKey{Port: port, Target: target})
	if item == nil {
		return 0, false
	}
	return item.Value(), true
}

// Resolve looks up (port, target). On a hit it invokes onResolved
// immediately and returns false. On a miss it parks onResolved until Learn
// is called for the same key, marks one unit of pending work on activity,
// and returns true iff this is the first waiter for the key — the caller
// should broadcast an ARP request only when true, since a request is
// already outstanding otherwise.
func (r *Resolver) Resolve(port transport.PortID, target netip.Addr, onResolved func(wire.MAC)) (needRequest bool) {
	if mac, ok := r.Lookup(port, target); ok {
		onResolved(mac)
		return false
	}
	key := cacheKey{Port: port, Target: target}
	_, alreadyWaiting := r.pending[key]
	r.activity.IncPending()
	r.pending[key] = append(r.pending[key], onResolved)
	return !alreadyWaiting
}

// Learn records mac as the resolution for (port, target) and releases every
// send parked on it.
func (r *Resolver) Learn(port transport.PortID, target netip.Addr, mac wire.MAC) {
	key := cacheKey{Port: port, Target: target}
	r.cache.Set(key, mac, ttlcache.DefaultTTL)

	waiters := r.pending[key]
	delete(r.pending, key)
	for _, waiter := range waiters {
		r.activity.DecPending()
		waiter(mac)
	}
}
