package mchan

import "context"

// TrySelect completes exactly one of ops without blocking and returns its
// result. Operations are attempted in declaration order, and the first that
// can complete immediately wins, so the order of ops is the priority among
// simultaneously ready alternatives.
//
// The final op must be wait-free — [Nothing], or a [Send] whose last target
// is unbounded — so that completion is guaranteed; TrySelect panics
// otherwise.
func TrySelect(ops ...Op) Result {
	if len(ops) == 0 {
		panic("mchan: select with no operations")
	}
	if !ops[len(ops)-1].waitFree() {
		panic("mchan: the final operation of a non-blocking select must be wait-free")
	}
	return selectReady(ops)
}

func selectReady(ops []Op) Result {
	base := 0
	for _, op := range ops {
		if sub, ok := op.submitReady(); ok {
			r := op.result(sub)
			r.token = base + sub
			return r
		}
		base += op.alternatives()
	}
	panic("mchan: no operation became ready")
}

// Select blocks until exactly one of ops completes, and returns its result.
// Alternatives that are ready at submission time are preferred in
// declaration order; otherwise whichever alternative a peer completes first
// wins. Pending peers on a channel are matched oldest first.
//
// If ctx ends before any alternative completes, Select withdraws every
// pending alternative and returns ctx's error. When a completion races the
// cancellation, the completion wins and is returned.
//
// If the final op is wait-free, Select cannot block and completes
// immediately, like [TrySelect].
func Select(ctx context.Context, ops ...Op) (Result, error) {
	if len(ops) == 0 {
		panic("mchan: select with no operations")
	}
	if ops[len(ops)-1].waitFree() {
		return selectReady(ops), nil
	}

	w := newWaitCtx()

	// Submission pass: try each alternative in order, installing a waiter
	// on each channel that is not ready. The pass stops as soon as some
	// alternative claims w — ours (readyHere) or a concurrent peer's
	// (resolvedElsewhere).
	token := -1
	bases := make([]int, len(ops))
	base := 0
	submitted := len(ops)
	for i, op := range ops {
		bases[i] = base
		sub, status := op.submitWait(w, base)
		if status == readyHere {
			token = base + sub
		}
		if status != notReady {
			submitted = i + 1
			break
		}
		base += op.alternatives()
	}

	if token < 0 {
		// Await the token. A peer claims w and transfers the value before
		// fulfilling, and the receive on w.done orders that transfer
		// before the result is read.
		select {
		case token = <-w.done:
		case <-ctx.Done():
			if w.claim() {
				// Cancelled before any alternative completed.
				for _, op := range ops[:submitted] {
					op.clearWait(-1)
				}
				return Result{}, ctx.Err()
			}
			// A completion won the race against cancellation.
			token = <-w.done
		}
	}

	// Identify the winner and withdraw every losing waiter. Waiters a peer
	// already discarded while scanning are detached again harmlessly.
	var res Result
	for i, op := range ops[:submitted] {
		winner := -1
		if token >= bases[i] && token < bases[i]+op.alternatives() {
			winner = token - bases[i]
			res = op.result(winner)
			res.token = token
		}
		op.clearWait(winner)
	}
	return res, nil
}
