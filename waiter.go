package mchan

// A waiter records one suspended alternative of a select on a channel's
// reader or writer queue. The node is owned by the operation object that
// submitted it; the queue only borrows it, and the node's storage outlives
// its residency in the queue. A node is detached either by a matching peer
// that claims its wait context, or by its owner withdrawing a losing
// alternative.
type waiter[T any] struct {
	wctx  *waitCtx
	slot  *slot[T]
	token int

	prev, next *waiter[T]
	linked     bool
}

// A waitq is a FIFO of suspended readers or writers. All operations are
// performed with the owning state's mutex held.
type waitq[T any] struct {
	head, tail *waiter[T]
}

func (q *waitq[T]) push(n *waiter[T]) {
	n.prev, n.next = q.tail, nil
	if q.tail == nil {
		q.head = n
	} else {
		q.tail.next = n
	}
	q.tail = n
	n.linked = true
}

// remove unlinks n if it is still linked. It is safe to call repeatedly:
// a waker and the owner's clear pass may both try to unlink the same node.
func (q *waitq[T]) remove(n *waiter[T]) {
	if !n.linked {
		return
	}
	if n.prev == nil {
		q.head = n.next
	} else {
		n.prev.next = n.next
	}
	if n.next == nil {
		q.tail = n.prev
	} else {
		n.next.prev = n.prev
	}
	n.prev, n.next = nil, nil
	n.linked = false
}

// The outcomes of popAvailable.
type popStatus int

const (
	popNone     popStatus = iota // no claimable waiter
	popFound                     // a waiter was claimed and unlinked
	popResolved                  // the caller's own select was resolved concurrently
)

// popAvailable scans for the oldest waiter whose wait context can still be
// claimed, unlinks it, and returns it. Waiters whose contexts were already
// reserved by another select are discarded in passing; their owners detach
// them again harmlessly. If self is non-nil it is claimed atomically
// together with the candidate's context, and a candidate belonging to self
// is skipped: a select does not rendezvous with itself.
func (q *waitq[T]) popAvailable(self *waitCtx) (*waiter[T], popStatus) {
	for n := q.head; n != nil; {
		next := n.next
		if self == nil {
			if n.wctx.claim() {
				q.remove(n)
				return n, popFound
			}
			q.remove(n)
		} else if n.wctx != self {
			switch claimPair(n.wctx, self) {
			case claimOK:
				q.remove(n)
				return n, popFound
			case claimSelfDead:
				return nil, popResolved
			case claimPeerDead:
				q.remove(n)
			}
		}
		n = next
	}
	return nil, popNone
}
