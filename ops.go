package mchan

// An Op is one pending channel operation for [Select] or [TrySelect].
// Implementations are provided by [Recv], [Send], and [Nothing]. An op
// value describes a single invocation: it carries the value being moved and
// the wait records for its channels, so it must not be reused or retained
// after the select that consumed it returns.
type Op interface {
	// alternatives reports how many channels this operation covers.
	alternatives() int

	// waitFree reports whether the operation always completes without
	// suspending.
	waitFree() bool

	// submitReady attempts each alternative without blocking and returns
	// the index of the first that completed.
	submitReady() (int, bool)

	// submitWait attempts each alternative, installing a waiter carrying w
	// on each channel that is not ready. Alternative i uses token base+i.
	// On readyHere the returned index identifies the completed alternative
	// and w has been claimed; on resolvedElsewhere another party claimed w
	// and submission must stop.
	submitWait(w *waitCtx, base int) (int, submitStatus)

	// clearWait detaches the waiters of every alternative except winner.
	// Pass winner < 0 when no alternative of this operation won.
	clearWait(winner int)

	// result builds the result of the winning alternative.
	result(sub int) Result
}

// A RecvOp is a pending receive from the first available of one or more
// channels sharing a payload type. Create one with [Recv].
type RecvOp[T any] struct {
	chans []RecvChan[T]
	slot  slot[T]
	nodes []waiter[T]
}

// Recv returns an operation that receives a value from whichever of chs
// first has one available. Within one select, ready channels earlier in chs
// are preferred. Narrow a bidirectional channel with [Chan.RecvOnly].
func Recv[T any](chs ...RecvChan[T]) *RecvOp[T] {
	if len(chs) == 0 {
		panic("mchan: Recv with no channels")
	}
	return &RecvOp[T]{chans: chs, nodes: make([]waiter[T], len(chs))}
}

func (op *RecvOp[T]) alternatives() int { return len(op.chans) }

func (op *RecvOp[T]) waitFree() bool { return false }

func (op *RecvOp[T]) submitReady() (int, bool) {
	for i, c := range op.chans {
		if c.st.tryRecv(&op.slot) {
			return i, true
		}
	}
	return 0, false
}

func (op *RecvOp[T]) submitWait(w *waitCtx, base int) (int, submitStatus) {
	for i, c := range op.chans {
		n := &op.nodes[i]
		n.wctx, n.slot, n.token = w, &op.slot, base+i
		switch c.st.submitRecv(n) {
		case readyHere:
			return i, readyHere
		case resolvedElsewhere:
			return 0, resolvedElsewhere
		}
	}
	return 0, notReady
}

func (op *RecvOp[T]) clearWait(winner int) {
	for i := range op.nodes {
		// Nodes with no context were never submitted.
		if n := &op.nodes[i]; i != winner && n.wctx != nil {
			op.chans[i].st.detachReader(n)
		}
	}
}

func (op *RecvOp[T]) result(sub int) Result {
	v := op.slot.take()
	return Result{kind: kindRecv, origin: op.chans[sub].stateKey(), val: &v}
}

// A SendOp is a pending send to the first available of one or more channels
// sharing a payload type. Create one with [Send].
type SendOp[T any] struct {
	chans []SendChan[T]
	slot  slot[T]
	nodes []waiter[T]
	wfree bool
}

// Send returns an operation that delivers v to whichever of chs first has a
// waiting receiver or buffer space. Within one select, ready channels
// earlier in chs are preferred. Narrow a bidirectional channel with
// [Chan.SendOnly].
//
// At most one of chs may be unbounded, and it must be last: a send to an
// unbounded channel always completes, so alternatives after it could never
// be reached. Send panics if the constraint is violated.
func Send[T any](v T, chs ...SendChan[T]) *SendOp[T] {
	if len(chs) == 0 {
		panic("mchan: Send with no channels")
	}
	for i, c := range chs {
		if c.st.capacity == Unbounded && i != len(chs)-1 {
			panic("mchan: only the last target of a Send may be unbounded")
		}
	}
	op := &SendOp[T]{
		chans: chs,
		nodes: make([]waiter[T], len(chs)),
		wfree: chs[len(chs)-1].st.capacity == Unbounded,
	}
	op.slot.put(v)
	return op
}

func (op *SendOp[T]) alternatives() int { return len(op.chans) }

func (op *SendOp[T]) waitFree() bool { return op.wfree }

func (op *SendOp[T]) submitReady() (int, bool) {
	for i, c := range op.chans {
		if c.st.trySend(&op.slot) {
			return i, true
		}
	}
	return 0, false
}

func (op *SendOp[T]) submitWait(w *waitCtx, base int) (int, submitStatus) {
	for i, c := range op.chans {
		n := &op.nodes[i]
		n.wctx, n.slot, n.token = w, &op.slot, base+i
		switch c.st.submitSend(n) {
		case readyHere:
			return i, readyHere
		case resolvedElsewhere:
			return 0, resolvedElsewhere
		}
	}
	return 0, notReady
}

func (op *SendOp[T]) clearWait(winner int) {
	for i := range op.nodes {
		if n := &op.nodes[i]; i != winner && n.wctx != nil {
			op.chans[i].st.detachWriter(n)
		}
	}
}

func (op *SendOp[T]) result(sub int) Result {
	return Result{kind: kindSend, origin: op.chans[sub].stateKey()}
}

// Nothing is an always-ready alternative. Listing it last turns an
// otherwise blocking select into a try-select: it completes with an empty
// result exactly when no operation before it could complete immediately.
var Nothing Op = nothingOp{}

type nothingOp struct{}

func (nothingOp) alternatives() int { return 1 }

func (nothingOp) waitFree() bool { return true }

func (nothingOp) submitReady() (int, bool) { return 0, true }

func (nothingOp) submitWait(w *waitCtx, base int) (int, submitStatus) {
	if !w.claim() {
		return 0, resolvedElsewhere
	}
	return 0, readyHere
}

func (nothingOp) clearWait(int) {}

func (nothingOp) result(int) Result { return Result{kind: kindNothing} }
