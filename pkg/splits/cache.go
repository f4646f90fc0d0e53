package splits

import (
	"sync"

	cascade_splits "github.com/cascade-protocol/splits-go/pkg/solana/cascade"
)

// IdentityCache memoizes positive "address X is a split config" facts.
// Negative and error outcomes are never cached because the account may be
// created later. Entries are independent, so invalidating one address never
// contends with lookups of another.
type IdentityCache struct {
	entries sync.Map
}

func NewIdentityCache() *IdentityCache {
	return &IdentityCache{}
}

// Get reports whether the address has a confirmed positive identity.
func (c *IdentityCache) Get(address string) bool {
	_, ok := c.entries.Load(address)
	return ok
}

// MarkValid records a confirmed positive identity.
func (c *IdentityCache) MarkValid(address string) {
	c.entries.Store(address, struct{}{})
}

// Invalidate forgets a single address.
func (c *IdentityCache) Invalidate(address string) {
	c.entries.Delete(address)
}

// Clear forgets everything.
func (c *IdentityCache) Clear() {
	c.entries.Range(func(key, _ interface{}) bool {
		c.entries.Delete(key)
		return true
	})
}

// ProtocolConfigCache is a single-entry cache of the protocol's singleton
// config, valid until explicitly invalidated. The engine invalidates it when
// the program rejects a submission for a stale fee recipient.
type ProtocolConfigCache struct {
	mu    sync.RWMutex
	value *cascade_splits.ProtocolConfigAccount
}

func NewProtocolConfigCache() *ProtocolConfigCache {
	return &ProtocolConfigCache{}
}

func (c *ProtocolConfigCache) Get() (*cascade_splits.ProtocolConfigAccount, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.value == nil {
		return nil, false
	}
	return c.value, true
}

func (c *ProtocolConfigCache) Set(value *cascade_splits.ProtocolConfigAccount) {
	c.mu.Lock()
	c.value = value
	c.mu.Unlock()
}

// Invalidate forces the next read to refetch.
func (c *ProtocolConfigCache) Invalidate() {
	c.mu.Lock()
	c.value = nil
	c.mu.Unlock()
}
