package runtime

import (
	"errors"
	"fmt"

	"github.com/ufork-go/ufork/internal/ufork/actor"
	"github.com/ufork-go/ufork/internal/ufork/cell"
	"github.com/ufork-go/ufork/internal/ufork/device"
	"github.com/ufork-go/ufork/internal/ufork/vm"
	"github.com/ufork-go/ufork/internal/ufork/word"
)

// ErrHalted is returned by Tick when an iteration finds no work: no event
// was dispatched and no continuation was run. Run treats it as normal
// completion and returns nil.
var ErrHalted = errors.New("ufork: machine halted")

// Machine bundles the heap and both queues: the complete mutable state of
// a running image (spec.md section 4.7's "process-wide state").
type Machine struct {
	Heap *cell.Heap

	events        actor.Queue
	continuations actor.Queue

	console     vm.Console
	dbg         vm.Debugger
	clock       *device.Clock
	clockTarget word.Word // actor to notify on each tick; WordUndef if none

	txns map[int]*actor.Transaction // busy actors awaiting their transaction
}

// NewMachine builds an empty machine over a freshly allocated heap.
func NewMachine(cfg *Config, console vm.Console, dbg vm.Debugger) (*Machine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	word.Width = uint(cfg.WordWidth)

	h, err := cell.New(cfg.HeapCapacity)
	if err != nil {
		return nil, err
	}
	m := &Machine{
		Heap:          h,
		events:        actor.NewQueue(),
		continuations: actor.NewQueue(),
		console:       console,
		dbg:           dbg,
		clockTarget:   word.WordUndef,
		txns:          make(map[int]*actor.Transaction),
	}
	if cfg.ClockInterval > 0 {
		m.clock = device.NewClock(cfg.ClockInterval)
	}
	return m, nil
}

// SetClockHandler installs the actor that receives one Event per clock
// tick. The message is Fixnum(tick count): 1 for the first tick, 2 for the
// second, and so on. It is not a wall-clock reading.
func (m *Machine) SetClockHandler(actorIdx word.Word) {
	m.clockTarget = actorIdx
}

// PostEvent injects an Event directly onto the global queue — the seed
// events of spec.md section 8's scenarios, and the image loader's initial
// boot event.
func (m *Machine) PostEvent(event word.Word) {
	m.events.PushTail(m.Heap, event)
}

// EventQueueLen reports the number of events currently queued, for tests
// asserting on queue-length invariants (spec.md section 8).
func (m *Machine) EventQueueLen() int {
	n := 0
	cur := m.events.Head()
	for cur.Kind() == word.KindHeap && cur.Index() != word.NIL {
		n++
		cur = m.Heap.GetZ(cur.Index())
	}
	return n
}

// Tick runs exactly one iteration of the runtime loop: interrupt poll,
// dispatch, execute (spec.md section 4.7). It returns ErrHalted once there
// is no more work of any kind.
func (m *Machine) Tick() error {
	m.pollClock()

	progressed := m.dispatch()
	ran, err := m.execute()
	if err != nil {
		return err
	}
	if !progressed && !ran {
		return ErrHalted
	}
	return nil
}

// Run ticks until the machine halts or budget ticks have run (budget <= 0
// means unbounded). Each tick executes at most one instruction.
func (m *Machine) Run(budget int) error {
	for i := 0; budget <= 0 || i < budget; i++ {
		if err := m.Tick(); err != nil {
			if errors.Is(err, ErrHalted) {
				return nil
			}
			return err
		}
	}
	return nil
}

func (m *Machine) pollClock() {
	if m.clock == nil || m.clockTarget.Equal(word.WordUndef) {
		return
	}
	seconds, due := m.clock.Due()
	if !due {
		return
	}
	ev, err := m.Heap.Alloc(cell.EventCell(m.clockTarget, word.Fixnum(seconds)))
	if err != nil {
		return // heap exhaustion surfaces on the next ordinary allocation
	}
	m.PostEvent(ev)
}

// dispatch pops the head event. A busy target is re-enqueued at the tail
// and dispatch stops for this tick (spec.md section 4.7, step 2: "proceed"
// to execute, not an inline retry, unless the event is Immediate — this
// implementation has no Immediate event class, so every re-enqueue yields
// the executor a turn before the event is retried).
func (m *Machine) dispatch() bool {
	ev, ok := m.events.PopHead(m.Heap)
	if !ok {
		return false
	}
	evc := m.Heap.Get(ev.Index())
	target := evc.X

	if target.Kind() != word.KindHeap || !cell.IsActor(m.Heap.Get(target.Index())) {
		m.undeliverable(ev, evc)
		return true
	}

	idx := target.Index()
	if !actor.IsReady(m.Heap, idx) {
		m.events.PushTail(m.Heap, ev)
		return true
	}

	txn, err := actor.Begin(m.Heap, idx)
	if err != nil {
		m.events.PushTail(m.Heap, ev)
		return true
	}
	m.txns[idx] = txn

	cont, err := vm.NewThread(m.Heap, actor.Behavior(m.Heap, idx), actor.State(m.Heap, idx), ev)
	if err != nil {
		txn.Abort(m.Heap)
		delete(m.txns, idx)
		return true
	}
	m.continuations.PushTail(m.Heap, cont)
	return true
}

// undeliverable implements the default Undef handler of spec.md section 7:
// an event targeting a non-actor is routed by treating the first item of
// the message as a customer and replying UNIT to it, rather than
// propagating a VM-level error. Nothing is posted when that item is not a
// heap reference or its cell has a transaction in flight.
func (m *Machine) undeliverable(ev word.Word, evc cell.Cell) {
	customer := nthItem(m.Heap, evc.Y, 1)
	if customer.Kind() != word.KindHeap || !actor.IsReady(m.Heap, customer.Index()) {
		return
	}
	reply, err := m.Heap.Alloc(cell.EventCell(customer, word.WordUnit))
	if err != nil {
		return
	}
	m.PostEvent(reply)
}

func nthItem(h *cell.Heap, list word.Word, i int) word.Word {
	cur := list
	for k := 1; k < i; k++ {
		if cur.Kind() != word.KindHeap || cur.Index() == word.NIL {
			return word.WordUndef
		}
		c := h.Get(cur.Index())
		if !cell.IsPair(c) {
			return word.WordUndef
		}
		cur = c.Y
	}
	if cur.Kind() != word.KindHeap || cur.Index() == word.NIL {
		return word.WordUndef
	}
	c := h.Get(cur.Index())
	if !cell.IsPair(c) {
		return word.WordUndef
	}
	return c.X
}

// execute runs one instruction of the head continuation (spec.md section
// 4.7, step 3). On thread death it frees the continuation, drops the
// transaction bookkeeping, and triggers a GC cycle.
func (m *Machine) execute() (bool, error) {
	contW, ok := m.continuations.PopHead(m.Heap)
	if !ok {
		return false, nil
	}
	idx := contW.Index()
	ip := vm.ContIP(m.Heap, idx)
	sp := vm.ContSP(m.Heap, idx)
	ep := vm.ContEP(m.Heap, idx)

	evc := m.Heap.Get(ep.Index())
	actorIdx := evc.X.Index()
	txn := m.txns[actorIdx]

	nextIP, nextSP, err := vm.Step(m.Heap, txn, &m.events, m.console, m.dbg, ip, sp, ep)
	if err != nil {
		wrapped := fmt.Errorf("ufork: step failed: %w", err)
		if errors.Is(err, cell.ErrOutOfMemory) || errors.Is(err, cell.ErrDoubleFree) {
			if fatal, ok := m.dbg.(interface{ Fatal(error) }); ok {
				fatal.Fatal(wrapped)
			}
		}
		return true, wrapped
	}

	if vm.IsTerminal(nextIP) {
		m.Heap.Free(ep.Index())
		m.Heap.Free(idx)
		delete(m.txns, actorIdx)

		var pinned []word.Word
		if !m.clockTarget.Equal(word.WordUndef) {
			pinned = append(pinned, m.clockTarget)
		}
		m.Heap.Collect(cell.Roots{
			EventQueueHead:        m.events.Head(),
			ContinuationQueueHead: m.continuations.Head(),
			Pinned:                pinned,
		})
		return true, nil
	}

	vm.SetContIP(m.Heap, idx, nextIP)
	vm.SetContSP(m.Heap, idx, nextSP)
	m.continuations.PushTail(m.Heap, contW)
	return true, nil
}
