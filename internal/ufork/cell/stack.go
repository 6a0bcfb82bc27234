package cell

import "github.com/ufork-go/ufork/internal/ufork/word"

// The operand stack is a Pair-linked list whose head is the top of stack
// (spec.md section 4.4). These helpers operate on a plain word.Word
// "sp" value and return the updated sp; callers (the vm package) store it
// back into the owning continuation.

// Push allocates (v . sp) and returns its index as the new sp.
func (h *Heap) Push(sp, v word.Word) (word.Word, error) {
	return h.Alloc(PairCell(v, sp))
}

// Pop returns (top, rest). Underflow yields (UNDEF, sp) — not an error, per
// spec.md section 4.4 and section 7 ("Stack underflow is not an error").
// The popped Pair cell is freed, as dictated by continuation ownership
// rules (spec.md section 5): the stack segment is exclusively owned by its
// thread and is reclaimed immediately, not left for GC.
func (h *Heap) Pop(sp word.Word) (word.Word, word.Word) {
	if sp.Kind() != word.KindHeap || sp.Index() == word.NIL {
		return word.WordUndef, sp
	}
	c := h.Get(sp.Index())
	if !IsPair(c) {
		return word.WordUndef, sp
	}
	rest := c.Y
	h.Free(sp.Index())
	return c.X, rest
}

// Depth counts the elements of the sp chain.
func (h *Heap) Depth(sp word.Word) int {
	n := 0
	cur := sp
	for cur.Kind() == word.KindHeap && cur.Index() != word.NIL {
		c := h.Get(cur.Index())
		if !IsPair(c) {
			break
		}
		n++
		cur = c.Y
	}
	return n
}

// Peek returns the 1-indexed n-th item from the top without popping, or
// UNDEF if the stack is shorter than n.
func (h *Heap) Peek(sp word.Word, n int) word.Word {
	cur := sp
	for i := 1; i < n; i++ {
		if cur.Kind() != word.KindHeap || cur.Index() == word.NIL {
			return word.WordUndef
		}
		c := h.Get(cur.Index())
		if !IsPair(c) {
			return word.WordUndef
		}
		cur = c.Y
	}
	if cur.Kind() != word.KindHeap || cur.Index() == word.NIL {
		return word.WordUndef
	}
	c := h.Get(cur.Index())
	if !IsPair(c) {
		return word.WordUndef
	}
	return c.X
}

// Pick copies the n-th item (1-indexed) to the top of sp.
func (h *Heap) Pick(sp word.Word, n int) (word.Word, error) {
	v := h.Peek(sp, n)
	return h.Push(sp, v)
}

// Dup duplicates the top n items, preserving their order, onto sp.
func (h *Heap) Dup(sp word.Word, n int) (word.Word, error) {
	items := make([]word.Word, n)
	cur := sp
	for i := 0; i < n; i++ {
		if cur.Kind() != word.KindHeap || cur.Index() == word.NIL {
			items[i] = word.WordUndef
			continue
		}
		c := h.Get(cur.Index())
		if !IsPair(c) {
			items[i] = word.WordUndef
			continue
		}
		items[i] = c.X
		cur = c.Y
	}
	newSP := sp
	for i := n - 1; i >= 0; i-- {
		var err error
		newSP, err = h.Push(newSP, items[i])
		if err != nil {
			return sp, err
		}
	}
	return newSP, nil
}

// Drop removes and frees the top n items.
func (h *Heap) Drop(sp word.Word, n int) word.Word {
	cur := sp
	for i := 0; i < n; i++ {
		_, cur = h.Pop(cur)
	}
	return cur
}

// Roll rotates the top |n| items. Positive n moves the n-th item (1-indexed)
// to the top; negative n moves the top item down to the n-th position.
// roll(-n) and roll(n) compose to the identity (spec.md section 8).
func (h *Heap) Roll(sp word.Word, n int) (word.Word, error) {
	if n == 0 {
		return sp, nil
	}
	count := n
	if count < 0 {
		count = -count
	}
	items := make([]word.Word, 0, count)
	cur := sp
	for i := 0; i < count; i++ {
		if cur.Kind() != word.KindHeap || cur.Index() == word.NIL {
			break
		}
		c := h.Get(cur.Index())
		if !IsPair(c) {
			break
		}
		items = append(items, c.X)
		cur = c.Y
	}
	if len(items) < count {
		return sp, nil
	}
	if n > 0 {
		// Move the n-th item to the top.
		last := items[len(items)-1]
		copy(items[1:], items[:len(items)-1])
		items[0] = last
	} else {
		// Move the top item to the n-th position.
		first := items[0]
		copy(items[:len(items)-1], items[1:])
		items[len(items)-1] = first
	}
	newSP := cur
	for i := len(items) - 1; i >= 0; i-- {
		var err error
		newSP, err = h.Push(newSP, items[i])
		if err != nil {
			return sp, err
		}
	}
	return newSP, nil
}

// Part pops one list and pushes its first n items plus the (n+1)-th tail,
// i.e. the inverse of Pair.
func (h *Heap) Part(sp word.Word, n int) (word.Word, error) {
	top, rest := h.Pop(sp)
	items := make([]word.Word, 0, n)
	cur := top
	for i := 0; i < n; i++ {
		if cur.Kind() != word.KindHeap || cur.Index() == word.NIL {
			break
		}
		c := h.Get(cur.Index())
		if !IsPair(c) {
			break
		}
		items = append(items, c.X)
		cur = c.Y
	}
	newSP, err := h.Push(rest, cur)
	if err != nil {
		return sp, err
	}
	for i := len(items) - 1; i >= 0; i-- {
		newSP, err = h.Push(newSP, items[i])
		if err != nil {
			return sp, err
		}
	}
	return newSP, nil
}

// Pair pops n+1 items and pushes the proper cons sequence built from them,
// the tail being the last popped item. Pair(n) undoes Part(n) (spec.md
// section 8: "pair(n) followed by part(n) restores the original stack").
func (h *Heap) Pair(sp word.Word, n int) (word.Word, error) {
	items := make([]word.Word, n+1)
	cur := sp
	for i := 0; i <= n; i++ {
		items[i], cur = h.Pop(cur)
	}
	list := items[n]
	for i := n - 1; i >= 0; i-- {
		w, err := h.Alloc(PairCell(items[i], list))
		if err != nil {
			return sp, err
		}
		list = w
	}
	return h.Push(cur, list)
}

// Nth pops a list and pushes its i-th element (1-indexed), the list itself
// for i=0, or the i-th tail for negative i.
func (h *Heap) Nth(sp word.Word, i int) (word.Word, error) {
	top, rest := h.Pop(sp)
	if i == 0 {
		return h.Push(rest, top)
	}
	cur := top
	if i > 0 {
		for k := 1; k < i; k++ {
			if cur.Kind() != word.KindHeap || cur.Index() == word.NIL {
				return h.Push(rest, word.WordUndef)
			}
			c := h.Get(cur.Index())
			if !IsPair(c) {
				return h.Push(rest, word.WordUndef)
			}
			cur = c.Y
		}
		if cur.Kind() != word.KindHeap || cur.Index() == word.NIL {
			return h.Push(rest, word.WordUndef)
		}
		c := h.Get(cur.Index())
		if !IsPair(c) {
			return h.Push(rest, word.WordUndef)
		}
		return h.Push(rest, c.X)
	}
	for k := 0; k < -i; k++ {
		if cur.Kind() != word.KindHeap || cur.Index() == word.NIL {
			break
		}
		c := h.Get(cur.Index())
		if !IsPair(c) {
			break
		}
		cur = c.Y
	}
	return h.Push(rest, cur)
}
