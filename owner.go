package gr

import (
	"fmt"
	"sync/atomic"
)

var ownerTokens atomic.Uint64

// OwnerToken identifies the single logical owner allowed to drive a
// drawing manager at a time. Render contexts carry the token they were
// created with.
type OwnerToken uint64

// NewOwnerToken returns a token distinct from every other token issued by
// the process.
func NewOwnerToken() OwnerToken {
	return OwnerToken(ownerTokens.Add(1))
}

// ownerGuard detects two owners using a manager concurrently. A token may
// re-enter while it is already active.
type ownerGuard struct {
	active atomic.Uint64
	depth  atomic.Int32
}

func (g *ownerGuard) enter(tok OwnerToken) {
	if g.active.CompareAndSwap(0, uint64(tok)) {
		g.depth.Store(1)
		return
	}
	if cur := g.active.Load(); cur != uint64(tok) {
		panic(fmt.Sprintf("gr: drawing manager entered by owner %d while owner %d is active", tok, cur))
	}
	g.depth.Add(1)
}

func (g *ownerGuard) exit() {
	if g.depth.Add(-1) == 0 {
		g.active.Store(0)
	}
}
