// Package mchan implements typed first-in first-out channels with a
// configurable buffer policy, and a select primitive that completes exactly
// one of several pending channel operations.
//
// A channel is created with [New] and a capacity: 0 for a rendezvous
// channel, a positive count for a bounded buffer, or [Unbounded] for a
// buffer that grows without limit. Handles share the channel's state, so
// copies of a handle refer to the same channel, and a bidirectional [Chan]
// can be narrowed to a [RecvChan] or [SendChan] that exposes only one
// direction. Narrowing is one-way; a narrowed handle cannot be widened
// back.
//
// The blocking methods take a [context.Context], which is the only
// cancellation mechanism the package recognizes. There is no open/closed
// channel lifecycle: a producer that wants to signal end-of-stream sends a
// sentinel value in band.
//
// [Select] and [TrySelect] multiplex operations built with [Recv], [Send],
// and [Nothing] over any mix of channels, completing exactly one.
package mchan

import "context"

// A Chan is a bidirectional handle on a channel of T. Handles are
// comparable; two handles are equal exactly when they refer to the same
// channel. The zero Chan is not a valid channel.
type Chan[T any] struct{ st *state[T] }

// New creates a channel with the given capacity. Capacity 0 makes a
// rendezvous channel, on which each send synchronizes with one receive.
// A positive capacity bounds the buffer; [Unbounded] removes the bound
// entirely, making every send immediate. Any other negative capacity
// panics.
func New[T any](capacity int) Chan[T] { return Chan[T]{st: newState[T](capacity)} }

// RecvOnly returns a receive-only handle on c.
func (c Chan[T]) RecvOnly() RecvChan[T] { return RecvChan[T]{st: c.st} }

// SendOnly returns a send-only handle on c.
func (c Chan[T]) SendOnly() SendChan[T] { return SendChan[T]{st: c.st} }

// Cap returns the channel's capacity: 0, a positive bound, or [Unbounded].
func (c Chan[T]) Cap() int { return c.st.capacity }

// Len returns the number of values currently buffered in the channel.
func (c Chan[T]) Len() int { return c.st.buffered() }

// TryRecv receives a value if one is immediately available, without
// blocking.
func (c Chan[T]) TryRecv() (T, bool) { return c.RecvOnly().TryRecv() }

// TrySend delivers v if a receiver or buffer space is immediately
// available, without blocking, and reports whether it did. On an unbounded
// channel TrySend always succeeds.
func (c Chan[T]) TrySend(v T) bool { return c.SendOnly().TrySend(v) }

// Recv receives the next value from c, blocking until a value is available
// or ctx ends.
func (c Chan[T]) Recv(ctx context.Context) (T, error) { return c.RecvOnly().Recv(ctx) }

// Send delivers v to c, blocking until a receiver or buffer space is
// available or ctx ends. On an unbounded channel Send completes without
// blocking.
func (c Chan[T]) Send(ctx context.Context, v T) error { return c.SendOnly().Send(ctx, v) }

func (c Chan[T]) stateKey() any { return c.st }

// A RecvChan is a receive-only handle on a channel of T. It is obtained by
// narrowing a [Chan] and shares that channel's state.
type RecvChan[T any] struct{ st *state[T] }

// Cap returns the channel's capacity: 0, a positive bound, or [Unbounded].
func (c RecvChan[T]) Cap() int { return c.st.capacity }

// Len returns the number of values currently buffered in the channel.
func (c RecvChan[T]) Len() int { return c.st.buffered() }

// TryRecv receives a value if one is immediately available, without
// blocking.
func (c RecvChan[T]) TryRecv() (T, bool) {
	return Received[T](TrySelect(Recv(c), Nothing))
}

// Recv receives the next value from c, blocking until a value is available
// or ctx ends.
func (c RecvChan[T]) Recv(ctx context.Context) (T, error) {
	r, err := Select(ctx, Recv(c))
	if err != nil {
		var zero T
		return zero, err
	}
	return MustReceived[T](r), nil
}

func (c RecvChan[T]) stateKey() any { return c.st }

// A SendChan is a send-only handle on a channel of T. It is obtained by
// narrowing a [Chan] and shares that channel's state.
type SendChan[T any] struct{ st *state[T] }

// Cap returns the channel's capacity: 0, a positive bound, or [Unbounded].
func (c SendChan[T]) Cap() int { return c.st.capacity }

// Len returns the number of values currently buffered in the channel.
func (c SendChan[T]) Len() int { return c.st.buffered() }

// TrySend delivers v if a receiver or buffer space is immediately
// available, without blocking, and reports whether it did.
func (c SendChan[T]) TrySend(v T) bool {
	return TrySelect(Send(v, c), Nothing).HasValue()
}

// Send delivers v to c, blocking until a receiver or buffer space is
// available or ctx ends.
func (c SendChan[T]) Send(ctx context.Context, v T) error {
	_, err := Select(ctx, Send(v, c))
	return err
}

func (c SendChan[T]) stateKey() any { return c.st }

// An AnyChan is a channel handle of any payload type and direction. It is
// satisfied only by [Chan], [RecvChan], and [SendChan].
type AnyChan interface{ stateKey() any }
