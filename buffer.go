package mchan

import "github.com/creachadair/mds/mlink"

// Unbounded is the capacity of a channel whose buffer grows without limit.
// Sends on an unbounded channel never block.
const Unbounded = -1

// A buffer is the FIFO storage of a channel, specialized by capacity class.
// All methods are called with the owning state's mutex held.
type buffer[T any] interface {
	empty() bool
	full() bool
	enqueue(from *slot[T])
	dequeue(to *slot[T])
	len() int
}

func newBuffer[T any](capacity int) buffer[T] {
	switch {
	case capacity == Unbounded:
		return &listBuffer[T]{q: mlink.NewQueue[T]()}
	case capacity == 0:
		return zeroBuffer[T]{}
	case capacity > 0:
		return &ringBuffer[T]{buf: make([]slot[T], capacity)}
	default:
		panic("mchan: invalid channel capacity")
	}
}

// A zeroBuffer is the buffer of a rendezvous channel. It reports both empty
// and full, so values can move only by direct transfer between a sender and
// a receiver, and it can never be asked to store one.
type zeroBuffer[T any] struct{}

func (zeroBuffer[T]) empty() bool      { return true }
func (zeroBuffer[T]) full() bool       { return true }
func (zeroBuffer[T]) len() int         { return 0 }
func (zeroBuffer[T]) enqueue(*slot[T]) { panic("mchan: enqueue on a rendezvous channel") }
func (zeroBuffer[T]) dequeue(*slot[T]) { panic("mchan: dequeue on a rendezvous channel") }

// A ringBuffer is the fixed-capacity buffer of a bounded channel.
type ringBuffer[T any] struct {
	buf   []slot[T]
	head  int
	count int
}

func (b *ringBuffer[T]) empty() bool { return b.count == 0 }
func (b *ringBuffer[T]) full() bool  { return b.count == len(b.buf) }
func (b *ringBuffer[T]) len() int    { return b.count }

func (b *ringBuffer[T]) enqueue(from *slot[T]) {
	transfer(from, &b.buf[(b.head+b.count)%len(b.buf)])
	b.count++
}

func (b *ringBuffer[T]) dequeue(to *slot[T]) {
	transfer(&b.buf[b.head], to)
	b.head = (b.head + 1) % len(b.buf)
	b.count--
}

// A listBuffer is the buffer of an unbounded channel. It is never full.
type listBuffer[T any] struct{ q *mlink.Queue[T] }

func (b *listBuffer[T]) empty() bool { return b.q.Len() == 0 }
func (b *listBuffer[T]) full() bool  { return false }
func (b *listBuffer[T]) len() int    { return b.q.Len() }

func (b *listBuffer[T]) enqueue(from *slot[T]) { b.q.Add(from.take()) }

func (b *listBuffer[T]) dequeue(to *slot[T]) {
	v, ok := b.q.Pop()
	if !ok {
		panic("mchan: dequeue from an empty buffer")
	}
	to.put(v)
}
