package mchan

import "errors"

// ErrBadAccess is the error carried by the panic raised when a result
// accessor is applied to a result that does not hold the requested
// alternative.
var ErrBadAccess = errors.New("mchan: bad select result access")

type resultKind int

const (
	kindInvalid resultKind = iota
	kindRecv
	kindSend
	kindNothing
)

// A Result reports which alternative of a select completed, which channel
// it operated on, and the value received, if any. The zero Result is
// invalid and reports false from every predicate.
type Result struct {
	kind   resultKind
	token  int
	origin any
	val    any
}

// Alternative returns the index of the winning alternative in the
// flattened, declaration-ordered list of alternatives of the select:
// each operation contributes one index per channel, and Nothing
// contributes one.
func (r Result) Alternative() int { return r.token }

// IsRecv reports whether the select completed a receive.
func (r Result) IsRecv() bool { return r.kind == kindRecv }

// IsSend reports whether the select completed a send.
func (r Result) IsSend() bool { return r.kind == kindSend }

// IsNothing reports whether the select fell through to a Nothing
// alternative.
func (r Result) IsNothing() bool { return r.kind == kindNothing }

// HasValue reports whether some channel operation completed, that is, the
// select did not fall through to a Nothing alternative.
func (r Result) HasValue() bool { return r.kind == kindRecv || r.kind == kindSend }

// Matches reports whether the winning alternative operated on c.
func (r Result) Matches(c AnyChan) bool { return r.origin != nil && r.origin == c.stateKey() }

// ReceivedFrom reports whether the winning alternative received from c.
func (r Result) ReceivedFrom(c AnyChan) bool { return r.IsRecv() && r.Matches(c) }

// SentTo reports whether the winning alternative sent to c.
func (r Result) SentTo(c AnyChan) bool { return r.IsSend() && r.Matches(c) }

// Received returns the value the select received, if it completed a
// receive of type T.
func Received[T any](r Result) (T, bool) {
	if p, ok := r.val.(*T); ok && r.IsRecv() {
		return *p, true
	}
	var zero T
	return zero, false
}

// MustReceived returns the value the select received. It panics with
// [ErrBadAccess] if the select did not complete a receive of type T.
func MustReceived[T any](r Result) T {
	v, ok := Received[T](r)
	if !ok {
		panic(ErrBadAccess)
	}
	return v
}

// ReceivedFrom returns the value the select received from c, if the
// winning alternative was a receive of type T on that channel.
func ReceivedFrom[T any](r Result, c AnyChan) (T, bool) {
	if !r.Matches(c) {
		var zero T
		return zero, false
	}
	return Received[T](r)
}
