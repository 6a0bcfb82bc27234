package integration_test

import (
	. "github.com/onsi/gomega"

	"github.com/ufork-go/ufork/internal/ufork/actor"
	"github.com/ufork-go/ufork/internal/ufork/cell"
	"github.com/ufork-go/ufork/internal/ufork/runtime"
	"github.com/ufork-go/ufork/internal/ufork/vm"
	"github.com/ufork-go/ufork/internal/ufork/word"
)

func newScenarioMachine() *runtime.Machine {
	cfg := runtime.DefaultConfig().WithClockInterval(0)
	m, err := runtime.NewMachine(cfg, nil, nil)
	Expect(err).NotTo(HaveOccurred())
	return m
}

// buildRecorder assembles a self-referential actor: on every message it
// becomes itself again with state set to msgSelector's reading of the
// message (1 = the message's first list element, 0 = the whole message
// unchanged), so a test can observe exactly what a dispatched event
// delivered to it.
func buildRecorder(h *cell.Heap, initialState word.Word, msgSelector int64) word.Word {
	endIP, err := vm.Instr(h, vm.OpEnd, word.Fixnum(int64(vm.EndCommit)), word.WordUndef)
	Expect(err).NotTo(HaveOccurred())
	behIP, err := vm.Instr(h, vm.OpBeh, word.Fixnum(1), endIP)
	Expect(err).NotTo(HaveOccurred())
	pushSelfIP, err := vm.Instr(h, vm.OpPush, word.WordUndef, behIP)
	Expect(err).NotTo(HaveOccurred())
	msgIP, err := vm.Instr(h, vm.OpMsg, word.Fixnum(msgSelector), pushSelfIP)
	Expect(err).NotTo(HaveOccurred())
	h.SetX(pushSelfIP.Index(), msgIP)

	a, err := actor.New(h, msgIP, initialState)
	Expect(err).NotTo(HaveOccurred())
	return a
}

func singletonList(h *cell.Heap, v word.Word) word.Word {
	list, err := h.Push(word.WordNil, v)
	Expect(err).NotTo(HaveOccurred())
	return list
}

func postEvent(h *cell.Heap, m *runtime.Machine, target, message word.Word) {
	ev, err := h.Alloc(cell.EventCell(target, message))
	Expect(err).NotTo(HaveOccurred())
	m.PostEvent(ev)
}
