// File: pool/wait.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Blocking variants layered on the non-blocking core. Waiters park on a
// sync.Cond that the core broadcasts on only while someone is waiting, so
// pure polling callers pay nothing for it.

package pool

import (
	"context"

	"github.com/momentics/framepipe/api"
)

// AcquireWait blocks until a free slot is available, ctx is done or the
// pipe is closed.
func (p *Pipe) AcquireWait(ctx context.Context) (Handle, []byte, error) {
	stop := context.AfterFunc(ctx, p.interrupt)
	defer stop()

	p.mu.Lock()
	defer p.mu.Unlock()

	p.waiters++
	defer func() { p.waiters-- }()

	for {
		if p.closed {
			return Handle{}, nil, api.ErrPipeClosed
		}
		if h, payload, ok := p.acquireLocked(); ok {
			return h, payload, nil
		}
		if err := ctx.Err(); err != nil {
			return Handle{}, nil, err
		}
		p.cond.Wait()
	}
}

// ReceiveWait blocks until a delivery is queued for consumer id, ctx is done
// or the pipe is closed.
func (p *Pipe) ReceiveWait(ctx context.Context, id int) (Delivery, error) {
	stop := context.AfterFunc(ctx, p.interrupt)
	defer stop()

	p.mu.Lock()
	defer p.mu.Unlock()

	p.waiters++
	defer func() { p.waiters-- }()

	for {
		if err := p.checkConsumer(id); err != nil {
			return Delivery{}, err
		}
		if d, ok := p.receiveLocked(id); ok {
			return d, nil
		}
		if err := ctx.Err(); err != nil {
			return Delivery{}, err
		}
		p.cond.Wait()
	}
}

func (p *Pipe) interrupt() {
	p.mu.Lock()
	p.cond.Broadcast()
	p.mu.Unlock()
}
