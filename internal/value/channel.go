package value

import (
	"context"
	"errors"
	"sync"
)

// ErrChannelClosed is returned by Send/Recv on a closed channel, per
// spec §4.5: "closed channels wake all waiters" / "subsequent sends
// raise; subsequent recvs drain then raise".
var ErrChannelClosed = errors.New("channel closed")

// Channel is the bounded-FIFO channel variant (spec §3.1, §4.5).
// Capacity 0 means unbuffered (rendezvous). The underlying Go channel
// already provides exactly the bounded-FIFO-with-blocking semantics
// the spec calls for; package task layers cooperative
// suspend/cancel/GIL-yield behavior on top of Send/Recv.
type Channel struct {
	refCounted
	Capacity int

	mu     sync.Mutex
	ch     chan Value
	closed bool
}

// NewChannel creates a channel with the given capacity (0 = rendezvous).
func NewChannel(capacity int) *Channel {
	return &Channel{Capacity: capacity, ch: make(chan Value, capacity)}
}

func (*Channel) Type() string   { return "channel" }
func (*Channel) String() string { return "<channel>" }

// Send blocks until the value is accepted, the channel is closed, or
// ctx is cancelled. Sending on a closed channel raises immediately.
func (c *Channel) Send(ctx context.Context, v Value) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrChannelClosed
	}
	c.mu.Unlock()

	select {
	case c.ch <- v:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Recv blocks until a value is available, the channel is closed and
// drained, or ctx is cancelled.
func (c *Channel) Recv(ctx context.Context) (Value, error) {
	select {
	case v, ok := <-c.ch:
		if !ok {
			return nil, ErrChannelClosed
		}
		return v, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// RecvTimeout is the `recv(timeout_ms)` variant: returns (nil, false,
// nil) when ctx is done (the timeout) rather than an error, per spec §5 "Cancellation and timeouts".
func (c *Channel) RecvTimeout(ctx context.Context) (Value, bool, error) {
	select {
	case v, ok := <-c.ch:
		if !ok {
			return nil, false, ErrChannelClosed
		}
		return v, true, nil
	case <-ctx.Done():
		return nil, false, nil
	}
}

// Close marks the channel closed; pending and future sends raise,
// pending values still drain via Recv before it raises.
func (c *Channel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	close(c.ch)
	return nil
}

func (c *Channel) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
