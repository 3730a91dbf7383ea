package mchan

import "sync"

// A submitStatus describes the outcome of submitting one alternative of a
// select against a channel.
type submitStatus int

const (
	notReady          submitStatus = iota // a waiter was installed
	readyHere                             // this alternative completed and owns the select
	resolvedElsewhere                     // the select was already won by another alternative
)

// A state is the shared state of a channel: its buffer and waiter queues
// behind a single mutex. Every handle on a channel aliases one state.
//
// Invariants, maintained under μ: the reader queue is non-empty only when
// the buffer is empty and the writer queue is empty; the writer queue is
// non-empty only when the buffer is full and the reader queue is empty.
type state[T any] struct {
	μ        sync.Mutex
	capacity int
	buf      buffer[T]
	readers  waitq[T]
	writers  waitq[T] // stays empty when capacity == Unbounded: sends never wait
}

func newState[T any](capacity int) *state[T] {
	return &state[T]{capacity: capacity, buf: newBuffer[T](capacity)}
}

// tryRecv attempts to complete a receive immediately, moving a value into
// dst, and reports whether it did.
func (st *state[T]) tryRecv(dst *slot[T]) bool {
	st.μ.Lock()
	defer st.μ.Unlock()

	if !st.buf.empty() {
		st.buf.dequeue(dst)
		st.refillLocked()
		return true
	}
	if w, status := st.writers.popAvailable(nil); status == popFound {
		// Rendezvous: take the value directly from a waiting sender.
		transfer(w.slot, dst)
		w.wctx.fulfill(w.token)
		return true
	}
	return false
}

// trySend attempts to complete a send immediately, moving the value out of
// src, and reports whether it did.
func (st *state[T]) trySend(src *slot[T]) bool {
	st.μ.Lock()
	defer st.μ.Unlock()

	if r, status := st.readers.popAvailable(nil); status == popFound {
		transfer(src, r.slot)
		r.wctx.fulfill(r.token)
		return true
	}
	if !st.buf.full() {
		st.buf.enqueue(src)
		return true
	}
	return false
}

// refillLocked backfills the buffer from a waiting sender after a dequeue
// made room. Senders queue only while the buffer is full, so the oldest
// available one moves its value in and is released.
func (st *state[T]) refillLocked() {
	if w, status := st.writers.popAvailable(nil); status == popFound {
		st.buf.enqueue(w.slot)
		w.wctx.fulfill(w.token)
	}
}

// submitRecv submits one receive alternative of a select. The node carries
// the select's wait context, the operation's slot, and the alternative's
// token. On readyHere the value is in the slot and the select's context has
// been claimed; on notReady the node has been linked into the reader queue.
func (st *state[T]) submitRecv(n *waiter[T]) submitStatus {
	st.μ.Lock()
	defer st.μ.Unlock()

	if !st.buf.empty() {
		if !n.wctx.claim() {
			return resolvedElsewhere
		}
		st.buf.dequeue(n.slot)
		st.refillLocked()
		return readyHere
	}
	w, status := st.writers.popAvailable(n.wctx)
	switch status {
	case popFound:
		transfer(w.slot, n.slot)
		w.wctx.fulfill(w.token)
		return readyHere
	case popResolved:
		return resolvedElsewhere
	}
	st.readers.push(n)
	return notReady
}

// submitSend submits one send alternative of a select. Symmetric to
// submitRecv, with the buffer and queue directions swapped. On a channel
// with an unbounded buffer this never returns notReady.
func (st *state[T]) submitSend(n *waiter[T]) submitStatus {
	st.μ.Lock()
	defer st.μ.Unlock()

	r, status := st.readers.popAvailable(n.wctx)
	switch status {
	case popFound:
		transfer(n.slot, r.slot)
		r.wctx.fulfill(r.token)
		return readyHere
	case popResolved:
		return resolvedElsewhere
	}
	if !st.buf.full() {
		if !n.wctx.claim() {
			return resolvedElsewhere
		}
		st.buf.enqueue(n.slot)
		return readyHere
	}
	st.writers.push(n)
	return notReady
}

// detachReader withdraws a losing receive alternative. The node may already
// have been unlinked by a waker; remove is idempotent.
func (st *state[T]) detachReader(n *waiter[T]) {
	st.μ.Lock()
	defer st.μ.Unlock()
	st.readers.remove(n)
}

// detachWriter withdraws a losing send alternative.
func (st *state[T]) detachWriter(n *waiter[T]) {
	st.μ.Lock()
	defer st.μ.Unlock()
	st.writers.remove(n)
}

// buffered reports the number of values currently held in the buffer.
func (st *state[T]) buffered() int {
	st.μ.Lock()
	defer st.μ.Unlock()
	return st.buf.len()
}
