package mchan_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/creachadair/mchan"
	"github.com/fortytw2/leaktest"
	"golang.org/x/sync/errgroup"
)

func TestTryOps(t *testing.T) {
	t.Run("Rendezvous", func(t *testing.T) {
		ch := mchan.New[int](0)

		if v, ok := ch.TryRecv(); ok {
			t.Errorf("TryRecv: got %v, want no value", v)
		}
		if ch.TrySend(1) {
			t.Error("TrySend: delivered with no receiver present")
		}
	})

	t.Run("Capacity1", func(t *testing.T) {
		ch := mchan.New[int](1)

		if !ch.TrySend(1) {
			t.Error("TrySend(1): not delivered")
		}
		if ch.TrySend(2) {
			t.Error("TrySend(2): delivered into a full buffer")
		}
		if v, ok := ch.TryRecv(); !ok || v != 1 {
			t.Errorf("TryRecv: got %v, %v; want 1, true", v, ok)
		}
		if !ch.TrySend(3) {
			t.Error("TrySend(3): not delivered after drain")
		}
	})

	t.Run("FillDrain", func(t *testing.T) {
		const size = 3
		ch := mchan.New[int](size)
		wc := ch.SendOnly()
		rc := ch.RecvOnly()

		for i := range size {
			if !wc.TrySend(i) {
				t.Errorf("TrySend(%d): not delivered", i)
			}
		}
		if wc.TrySend(size) {
			t.Error("TrySend into a full buffer succeeded")
		}
		if got := ch.Len(); got != size {
			t.Errorf("Len: got %d, want %d", got, size)
		}
		for i := range size {
			if v, ok := rc.TryRecv(); !ok || v != i {
				t.Errorf("TryRecv: got %v, %v; want %d, true", v, ok, i)
			}
		}
		if v, ok := rc.TryRecv(); ok {
			t.Errorf("TryRecv from an empty buffer: got %v", v)
		}
	})

	t.Run("Unit", func(t *testing.T) {
		const size = 3
		ch := mchan.New[struct{}](size)

		for range size {
			if !ch.TrySend(struct{}{}) {
				t.Error("TrySend: not delivered")
			}
		}
		if ch.TrySend(struct{}{}) {
			t.Error("TrySend into a full buffer succeeded")
		}
		for range size {
			if _, ok := ch.TryRecv(); !ok {
				t.Error("TryRecv: no value")
			}
		}
		if _, ok := ch.TryRecv(); ok {
			t.Error("TryRecv from an empty buffer succeeded")
		}
	})
}

func TestUnbounded(t *testing.T) {
	defer leaktest.Check(t)()

	const numTokens = 10
	ch := mchan.New[int](mchan.Unbounded)

	// A canceled context proves the sends are synchronous: an unbounded
	// send never reaches a suspension point.
	dead, cancel := context.WithCancel(context.Background())
	cancel()

	for i := range numTokens {
		if err := ch.Send(dead, i); err != nil {
			t.Errorf("Send(%d): unexpected error: %v", i, err)
		}
	}
	if got := ch.Len(); got != numTokens {
		t.Errorf("Len: got %d, want %d", got, numTokens)
	}
	for i := range numTokens {
		if v, ok := ch.TryRecv(); !ok || v != i {
			t.Errorf("TryRecv: got %v, %v; want %d, true", v, ok, i)
		}
	}
	if v, ok := ch.TryRecv(); ok {
		t.Errorf("TryRecv after drain: got %v", v)
	}
}

func TestPingPong(t *testing.T) {
	defer leaktest.Check(t)()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	ch := mchan.New[string](0)

	done := make(chan struct{})
	go func() {
		defer close(done)
		v, err := ch.Recv(ctx)
		if err != nil || v != "ping" {
			t.Errorf("Recv: got %q, %v; want ping, nil", v, err)
		}
		if err := ch.Send(ctx, "pong"); err != nil {
			t.Errorf("Send(pong): unexpected error: %v", err)
		}
	}()

	if err := ch.Send(ctx, "ping"); err != nil {
		t.Errorf("Send(ping): unexpected error: %v", err)
	}
	if v, err := ch.Recv(ctx); err != nil || v != "pong" {
		t.Errorf("Recv: got %q, %v; want pong, nil", v, err)
	}
	<-done
}

func TestFIFO(t *testing.T) {
	defer leaktest.Check(t)()

	const numValues = 100
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	ch := mchan.New[int](4)

	var g errgroup.Group
	g.Go(func() error {
		for i := range numValues {
			if err := ch.Send(ctx, i); err != nil {
				return err
			}
		}
		return nil
	})

	for i := range numValues {
		v, err := ch.Recv(ctx)
		if err != nil {
			t.Fatalf("Recv: unexpected error: %v", err)
		}
		if v != i {
			t.Errorf("Recv: got %d, want %d", v, i)
		}
	}
	if err := g.Wait(); err != nil {
		t.Errorf("Producer failed: %v", err)
	}
}

func TestFanIn(t *testing.T) {
	defer leaktest.Check(t)()

	const numTasks = 3
	const tokensPerTask = 5
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	ch := mchan.New[int](0)
	wc := ch.SendOnly()
	rc := ch.RecvOnly()

	var g errgroup.Group
	for tid := range numTasks {
		g.Go(func() error {
			for i := tid * tokensPerTask; i < (tid+1)*tokensPerTask; i++ {
				if err := wc.Send(ctx, i); err != nil {
					return err
				}
			}
			return nil
		})
	}

	var μ sync.Mutex
	seen := make(map[int]int)
	for range numTasks {
		g.Go(func() error {
			for range tokensPerTask {
				v, err := rc.Recv(ctx)
				if err != nil {
					return err
				}
				μ.Lock()
				seen[v]++
				μ.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		t.Fatalf("Tasks failed: %v", err)
	}
	for i := range numTasks * tokensPerTask {
		if seen[i] != 1 {
			t.Errorf("Value %d was consumed %d times, want 1", i, seen[i])
		}
	}
}

func TestCancel(t *testing.T) {
	defer leaktest.Check(t)()

	t.Run("Recv", func(t *testing.T) {
		ch := mchan.New[int](0)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		if v, err := ch.Recv(ctx); err != context.DeadlineExceeded {
			t.Errorf("Recv: got %v, %v; want deadline exceeded", v, err)
		}

		// The withdrawn receive leaves no live waiter behind.
		if ch.TrySend(1) {
			t.Error("TrySend after a canceled Recv was delivered")
		}
	})

	t.Run("Send", func(t *testing.T) {
		ch := mchan.New[int](1)
		ch.TrySend(1) // fill the buffer
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		if err := ch.Send(ctx, 2); err != context.DeadlineExceeded {
			t.Errorf("Send: got %v, want deadline exceeded", err)
		}

		// Only the buffered value remains.
		if v, ok := ch.TryRecv(); !ok || v != 1 {
			t.Errorf("TryRecv: got %v, %v; want 1, true", v, ok)
		}
		if v, ok := ch.TryRecv(); ok {
			t.Errorf("TryRecv: unexpected value %v from a canceled send", v)
		}
	})
}

func TestHandles(t *testing.T) {
	a := mchan.New[int](1)
	b := mchan.New[int](1)
	a2 := a

	if a != a2 {
		t.Error("Copies of a handle are not equal")
	}
	if a == b {
		t.Error("Handles of distinct channels compare equal")
	}
	if a.RecvOnly() != a2.RecvOnly() {
		t.Error("Narrowed handles of one channel are not equal")
	}

	// Directional handles share the channel's state.
	if !a.SendOnly().TrySend(42) {
		t.Error("TrySend on a narrowed handle failed")
	}
	if v, ok := a.RecvOnly().TryRecv(); !ok || v != 42 {
		t.Errorf("TryRecv: got %v, %v; want 42, true", v, ok)
	}

	if got := a.Cap(); got != 1 {
		t.Errorf("Cap: got %d, want 1", got)
	}
	if got := mchan.New[int](mchan.Unbounded).Cap(); got != mchan.Unbounded {
		t.Errorf("Cap: got %d, want Unbounded", got)
	}
}
