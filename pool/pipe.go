// File: pool/pipe.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Pipe is a bounded broadcast pool: one producer fills fixed-size slots and
// publishes each to every consumer queue with room; a slot returns to the
// free list once every consumer that got it has released it.

package pool

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/momentics/framepipe/api"
)

const (
	// MaxSlots bounds consumers*depth and the per-slot holder bitsets.
	MaxSlots = 1 << 24
	// MaxConsumers bounds the number of delivery queues.
	MaxConsumers = 1024
)

var pipeIDs atomic.Uint32

// Pipe distributes payload slots from one producer to a fixed set of consumers.
//
// All bookkeeping is serialized by a single mutex held only for index and
// counter updates; payload bytes are read and written outside the lock. None
// of the core operations block: an empty free list or delivery queue is
// reported through ok=false and the caller decides how to back off.
type Pipe struct {
	mu sync.Mutex

	id          uint32
	consumers   int
	depth       int
	payloadSize int

	slots    []slot
	free     Ring[uint32]
	delivery []Ring[uint32]
	arena    *arena

	// counters mirrored from slot state so Inspect stays O(consumers)
	acquired int
	inFlight int
	pending  int
	held     []int

	cond    *sync.Cond
	waiters int
	closed  bool
}

// New creates a pipe with consumers*depth slots of payloadSize bytes each.
// The free list starts out holding every slot.
func New(consumers, depth, payloadSize int, opts ...Option) (*Pipe, error) {
	if consumers < 1 {
		return nil, api.ErrInvalidArgument.WithContext("consumers", consumers)
	}
	if depth < 1 {
		return nil, api.ErrInvalidArgument.WithContext("depth", depth)
	}
	if payloadSize < 1 {
		return nil, api.ErrInvalidArgument.WithContext("payload_size", payloadSize)
	}
	if consumers > MaxConsumers {
		return nil, api.ErrInvalidArgument.WithContext("consumers", consumers)
	}
	if consumers > MaxSlots/depth {
		return nil, api.ErrInvalidArgument.WithContext("slots", "overflow")
	}
	total := consumers * depth
	words := (consumers + 63) / 64
	if total > MaxSlots/words {
		return nil, api.ErrInvalidArgument.WithContext("bitsets", "overflow")
	}
	if payloadSize > math.MaxInt/total {
		return nil, api.ErrInvalidArgument.WithContext("arena", "overflow")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	ar, err := newArena(cfg.alloc, total, payloadSize)
	if err != nil {
		return nil, err
	}

	p := &Pipe{
		id:          pipeIDs.Add(1),
		consumers:   consumers,
		depth:       depth,
		payloadSize: payloadSize,
		slots:       make([]slot, total),
		delivery:    make([]Ring[uint32], consumers),
		arena:       ar,
		held:        make([]int, consumers),
	}
	p.cond = sync.NewCond(&p.mu)

	if err := p.initQueues(); err != nil {
		_ = ar.release()
		return nil, err
	}

	bitsets := make([]uint64, 2*total*words)
	for i := range p.slots {
		s := &p.slots[i]
		s.payload = ar.payload(i)
		s.holders = bitsets[2*i*words : (2*i+1)*words : (2*i+1)*words]
		s.taken = bitsets[(2*i+1)*words : (2*i+2)*words : (2*i+2)*words]
		if !p.free.Push(uint32(i)) {
			panic("pool: free list smaller than slot count")
		}
	}
	return p, nil
}

func (p *Pipe) initQueues() error {
	if err := p.free.init(len(p.slots)); err != nil {
		return err
	}
	for i := range p.delivery {
		if err := p.delivery[i].init(p.depth); err != nil {
			return err
		}
	}
	return nil
}

// Consumers returns the number of delivery queues.
func (p *Pipe) Consumers() int { return p.consumers }

// Depth returns the capacity of each delivery queue.
func (p *Pipe) Depth() int { return p.depth }

// PayloadSize returns the fixed size of every slot payload.
func (p *Pipe) PayloadSize() int { return p.payloadSize }

// Acquire takes a free slot for the producer to fill. ok is false when the
// free list is empty or the pipe is closed; callers retry after a delay.
func (p *Pipe) Acquire() (h Handle, payload []byte, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return Handle{}, nil, false
	}
	return p.acquireLocked()
}

func (p *Pipe) acquireLocked() (Handle, []byte, bool) {
	idx, ok := p.free.Pop()
	if !ok {
		return Handle{}, nil, false
	}
	s := &p.slots[idx]
	s.state = stateAcquired
	p.acquired++
	return Handle{pipe: p.id, index: idx, gen: s.gen}, s.payload, true
}

// Publish stamps the slot with seq and enqueues it on every delivery queue
// that has room. It returns the number of consumers reached; when that is
// zero the slot goes straight back to the free list.
func (p *Pipe) Publish(h Handle, seq uint64) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	s, err := p.lookup(h)
	if err != nil {
		return 0, err
	}
	if s.state != stateAcquired {
		return 0, violation(api.ErrNotAcquired.WithContext("slot", h.index))
	}

	s.seq = seq
	s.pending = 0
	for i := range p.delivery {
		if p.delivery[i].Push(h.index) {
			s.hold(i)
		}
	}
	p.acquired--
	delivered := s.pending
	if delivered == 0 {
		p.recycle(h.index)
		return 0, nil
	}
	s.state = stateInFlight
	p.inFlight++
	p.pending += delivered
	p.wake()
	return delivered, nil
}

// Abandon returns an acquired slot that will not be published.
func (p *Pipe) Abandon(h Handle) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	s, err := p.lookup(h)
	if err != nil {
		return err
	}
	if s.state != stateAcquired {
		return violation(api.ErrNotAcquired.WithContext("slot", h.index))
	}
	p.acquired--
	p.recycle(h.index)
	return nil
}

// Receive pops the oldest delivery queued for consumer id. ok is false when
// the queue is empty.
func (p *Pipe) Receive(id int) (d Delivery, ok bool, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.checkConsumer(id); err != nil {
		return Delivery{}, false, err
	}
	d, ok = p.receiveLocked(id)
	return d, ok, nil
}

func (p *Pipe) receiveLocked(id int) (Delivery, bool) {
	idx, ok := p.delivery[id].Pop()
	if !ok {
		return Delivery{}, false
	}
	s := &p.slots[idx]
	s.take(id)
	p.held[id]++
	return Delivery{
		Handle:   Handle{pipe: p.id, index: idx, gen: s.gen},
		Consumer: id,
		Seq:      s.seq,
		Payload:  s.payload,
	}, true
}

// Release drops the consumer's reference obtained from Receive. The slot is
// recycled when its last reference goes.
func (p *Pipe) Release(d Delivery) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.checkConsumer(d.Consumer); err != nil {
		return err
	}
	s, err := p.lookup(d.Handle)
	if err != nil {
		return err
	}
	if s.state != stateInFlight || !s.took(d.Consumer) {
		return violation(api.ErrDoubleRelease.
			WithContext("slot", d.Handle.index).
			WithContext("consumer", d.Consumer))
	}

	s.untake(d.Consumer)
	s.drop(d.Consumer)
	p.held[d.Consumer]--
	p.pending--
	if s.pending == 0 {
		p.inFlight--
		p.recycle(d.Handle.index)
	}
	return nil
}

// Drain discards everything queued for consumer id, releasing each entry as
// if it had been received and released. Deliveries the consumer already
// holds are untouched. Returns the number of entries discarded.
func (p *Pipe) Drain(id int) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.checkConsumer(id); err != nil {
		return 0, err
	}
	n := 0
	for {
		idx, ok := p.delivery[id].Pop()
		if !ok {
			return n, nil
		}
		s := &p.slots[idx]
		s.drop(id)
		p.pending--
		if s.pending == 0 {
			p.inFlight--
			p.recycle(idx)
		}
		n++
	}
}

// Close frees the payload arena. It must only be called once producer and
// consumers have stopped; later calls return nil and every other operation
// reports the pipe as closed.
func (p *Pipe) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	p.cond.Broadcast()
	for i := range p.slots {
		p.slots[i].payload = nil
	}
	return p.arena.release()
}

// recycle puts slot idx back on the free list and invalidates old handles.
func (p *Pipe) recycle(idx uint32) {
	s := &p.slots[idx]
	s.state = stateFree
	s.gen++
	if !p.free.Push(idx) {
		panic("pool: free list overflow")
	}
	p.wake()
}

func (p *Pipe) wake() {
	if p.waiters > 0 {
		p.cond.Broadcast()
	}
}

func (p *Pipe) checkConsumer(id int) error {
	if p.closed {
		return api.ErrPipeClosed
	}
	if id < 0 || id >= p.consumers {
		return violation(api.ErrInvalidConsumer.WithContext("consumer", id))
	}
	return nil
}

func (p *Pipe) lookup(h Handle) (*slot, error) {
	if p.closed {
		return nil, api.ErrPipeClosed
	}
	if h.pipe != p.id || int(h.index) >= len(p.slots) {
		return nil, violation(api.ErrForeignHandle.WithContext("handle", h.String()))
	}
	s := &p.slots[h.index]
	if s.gen != h.gen {
		return nil, violation(api.ErrStaleHandle.WithContext("handle", h.String()))
	}
	return s, nil
}
