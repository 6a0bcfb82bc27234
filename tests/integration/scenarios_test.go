package integration_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ufork-go/ufork/internal/ufork/actor"
	"github.com/ufork-go/ufork/internal/ufork/runtime"
	"github.com/ufork-go/ufork/internal/ufork/vm"
	"github.com/ufork-go/ufork/internal/ufork/word"
)

var _ = Describe("Echo", func() {
	It("delivers a message to its target and the behavior can record it", func() {
		m := newScenarioMachine()
		recorder := buildRecorder(m.Heap, word.WordUndef, 1)

		postEvent(m.Heap, m, recorder, singletonList(m.Heap, word.Fixnum(42)))
		Expect(m.Run(0)).To(Succeed())

		top, _ := m.Heap.Pop(actor.State(m.Heap, recorder.Index()))
		Expect(top.Fix()).To(Equal(int64(42)))
	})
})

var _ = Describe("Busy deferral", func() {
	It("re-enqueues an event whose target already has a transaction in flight", func() {
		m := newScenarioMachine()
		a, err := actor.New(m.Heap, word.Fixnum(0), word.WordUndef)
		Expect(err).NotTo(HaveOccurred())

		_, err = actor.Begin(m.Heap, a.Index())
		Expect(err).NotTo(HaveOccurred())

		postEvent(m.Heap, m, a, word.WordNil)
		Expect(m.Tick()).To(Succeed())

		Expect(m.EventQueueLen()).To(Equal(1))
		Expect(actor.IsReady(m.Heap, a.Index())).To(BeFalse())
	})
})

var _ = Describe("Undef handler", func() {
	It("replies UNIT to the customer of an event targeting a non-actor", func() {
		m := newScenarioMachine()
		customer := buildRecorder(m.Heap, word.WordUndef, 0)

		postEvent(m.Heap, m, word.Fixnum(99), singletonList(m.Heap, customer))
		Expect(m.Run(0)).To(Succeed())

		top, _ := m.Heap.Pop(actor.State(m.Heap, customer.Index()))
		Expect(top).To(Equal(word.WordUnit))
	})
})

var _ = Describe("Abort", func() {
	It("discards a staged send so it never reaches the global queue", func() {
		m := newScenarioMachine()
		h := m.Heap

		endAbort, err := vm.Instr(h, vm.OpEnd, word.Fixnum(int64(vm.EndAbort)), word.WordUndef)
		Expect(err).NotTo(HaveOccurred())
		sendIP, err := vm.InstrBranch(h, vm.OpSend, word.Fixnum(0), endAbort, word.WordUndef)
		Expect(err).NotTo(HaveOccurred())
		someTarget, err := actor.New(h, word.Fixnum(0), word.WordUndef)
		Expect(err).NotTo(HaveOccurred())
		pushTarget, err := vm.Instr(h, vm.OpPush, someTarget, sendIP)
		Expect(err).NotTo(HaveOccurred())
		pushMsg, err := vm.Instr(h, vm.OpPush, word.WordNil, pushTarget)
		Expect(err).NotTo(HaveOccurred())

		abortingActor, err := actor.New(h, pushMsg, word.WordUndef)
		Expect(err).NotTo(HaveOccurred())

		postEvent(h, m, abortingActor, word.WordNil)
		Expect(m.Run(0)).To(Succeed())

		Expect(m.EventQueueLen()).To(Equal(0))
		Expect(actor.IsReady(h, abortingActor.Index())).To(BeTrue())
	})
})

var _ = Describe("Become", func() {
	It("only takes effect starting with the message after the one that triggered it", func() {
		m := newScenarioMachine()
		recorder := buildRecorder(m.Heap, word.WordUndef, 1)

		endCommit, err := vm.Instr(m.Heap, vm.OpEnd, word.Fixnum(int64(vm.EndCommit)), word.WordUndef)
		Expect(err).NotTo(HaveOccurred())
		becomeRecorder, err := vm.Instr(m.Heap, vm.OpBeh, word.Fixnum(0), endCommit)
		Expect(err).NotTo(HaveOccurred())
		recorderBehavior := actor.Behavior(m.Heap, recorder.Index())
		pushRecorderBehavior, err := vm.Instr(m.Heap, vm.OpPush, recorderBehavior, becomeRecorder)
		Expect(err).NotTo(HaveOccurred())

		switcher, err := actor.New(m.Heap, pushRecorderBehavior, word.WordUndef)
		Expect(err).NotTo(HaveOccurred())

		postEvent(m.Heap, m, switcher, singletonList(m.Heap, word.Fixnum(1)))
		Expect(m.Run(0)).To(Succeed())

		postEvent(m.Heap, m, switcher, singletonList(m.Heap, word.Fixnum(99)))
		Expect(m.Run(0)).To(Succeed())

		top, _ := m.Heap.Pop(actor.State(m.Heap, switcher.Index()))
		Expect(top.Fix()).To(Equal(int64(99)))
	})
})

var _ = Describe("Clock tick", func() {
	It("posts one event to the registered handler per elapsed interval", func() {
		cfg := runtime.DefaultConfig().WithClockInterval(time.Millisecond)
		m, err := runtime.NewMachine(cfg, nil, nil)
		Expect(err).NotTo(HaveOccurred())

		recorder := buildRecorder(m.Heap, word.WordUndef, 0)
		m.SetClockHandler(recorder)

		Eventually(func() bool {
			_ = m.Tick()
			top, _ := m.Heap.Pop(actor.State(m.Heap, recorder.Index()))
			return top.IsFixnum() && top.Fix() >= 1
		}, "2s", "1ms").Should(BeTrue())
	})
})

var _ = Describe("GC", func() {
	It("reclaims a dead continuation's leftover stack cells", func() {
		m := newScenarioMachine()

		endCommit, err := vm.Instr(m.Heap, vm.OpEnd, word.Fixnum(int64(vm.EndCommit)), word.WordUndef)
		Expect(err).NotTo(HaveOccurred())
		pushB, err := vm.Instr(m.Heap, vm.OpPush, word.Fixnum(2), endCommit)
		Expect(err).NotTo(HaveOccurred())
		pushA, err := vm.Instr(m.Heap, vm.OpPush, word.Fixnum(1), pushB)
		Expect(err).NotTo(HaveOccurred())

		a, err := actor.New(m.Heap, pushA, word.WordUndef)
		Expect(err).NotTo(HaveOccurred())

		postEvent(m.Heap, m, a, word.WordNil)
		Expect(m.Run(0)).To(Succeed())

		Expect(m.Heap.FreeCount()).To(BeNumerically(">", 0))
	})
})
