package mchan

import (
	"sync"
	"sync/atomic"
)

// ctxSerial issues creation-ordered ids for wait contexts. claimPair
// acquires wait-context mutexes in id order, so two parties claiming the
// same pair of contexts from opposite ends cannot deadlock.
var ctxSerial atomic.Uint64

// A waitCtx is the arbitration record of one select invocation. Whichever
// party flips avail from true to false under μ owns the select, and is the
// only party entitled to fulfill the token promise. Once avail is false it
// never becomes true again.
type waitCtx struct {
	μ     sync.Mutex
	avail bool
	done  chan int // one-shot; delivers the winning token
	id    uint64

	fulfilled bool // set by the first fulfill, under μ
}

func newWaitCtx() *waitCtx {
	return &waitCtx{avail: true, done: make(chan int, 1), id: ctxSerial.Add(1)}
}

// fulfill delivers the winning token to the suspended select. The caller
// must have claimed w; fulfilling a context twice is a protocol violation.
func (w *waitCtx) fulfill(token int) {
	w.μ.Lock()
	defer w.μ.Unlock()
	if w.fulfilled {
		panic("mchan: wait context fulfilled twice")
	}
	w.fulfilled = true
	select {
	case w.done <- token:
	default:
		panic("mchan: wait context fulfilled twice")
	}
}

// claim attempts to reserve w and reports whether it succeeded. A failed
// claim means the select owning w has already been resolved elsewhere.
func (w *waitCtx) claim() bool {
	w.μ.Lock()
	defer w.μ.Unlock()
	if !w.avail {
		return false
	}
	w.avail = false
	return true
}

// The outcomes of claimPair.
type claimResult int

const (
	claimOK       claimResult = iota // both contexts reserved
	claimPeerDead                    // the peer's select was already resolved
	claimSelfDead                    // the caller's own select was already resolved
)

// claimPair atomically reserves both peer and self, or neither. When both
// are unavailable the caller's own loss takes precedence: there is no point
// scanning further candidates for a select that is already resolved.
func claimPair(peer, self *waitCtx) claimResult {
	first, second := peer, self
	if self.id < peer.id {
		first, second = self, peer
	}
	first.μ.Lock()
	defer first.μ.Unlock()
	second.μ.Lock()
	defer second.μ.Unlock()

	if !self.avail {
		return claimSelfDead
	}
	if !peer.avail {
		return claimPeerDead
	}
	peer.avail = false
	self.avail = false
	return claimOK
}
