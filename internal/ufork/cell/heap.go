package cell

import (
	"fmt"
	"unsafe"

	mmap "github.com/edsrzf/mmap-go"

	"github.com/ufork-go/ufork/internal/ufork/word"
)

// DefaultCapacity is a workable default for CELL_MAX; callers size the heap
// to their image via runtime.Config.
const DefaultCapacity = 1 << 16

// ErrOutOfMemory is the fatal condition of spec.md section 3 ("Lifecycle"):
// both the free-list and the frontier are exhausted.
var ErrOutOfMemory = fmt.Errorf("ufork: cell heap exhausted")

// ErrDoubleFree is the fatal condition of spec.md section 4.1: freeing a
// cell index that is already on the free list.
var ErrDoubleFree = fmt.Errorf("ufork: double free")

// Heap is the fixed-capacity cell array, backed by an anonymous memory
// mapping rather than a bare Go slice: a real embedded VM sizes its heap to
// a page-aligned region once at startup and never grows it. cells is that
// mapping reinterpreted as a []Cell (see New), not a separate allocation, so
// every Get/Set goes through the mapped pages.
type Heap struct {
	region   mmap.MMap
	cells    []Cell
	frontier int
	freeHead word.Word // word.WordNil-terminated free list, chained via Cell.Z
	freeLen  int

	intern *internTable
}

// cellSize is the real, measured size of a Cell record; the mapping is
// sized against this rather than a guessed constant.
var cellSize = int(unsafe.Sizeof(Cell{}))

// New allocates a Heap of the given capacity and pre-populates the five
// reserved constants (FALSE, TRUE, NIL, UNDEF, UNIT).
func New(capacity int) (*Heap, error) {
	if capacity < word.FirstFreeIndex {
		return nil, fmt.Errorf("ufork: heap capacity %d too small", capacity)
	}

	// mmap-go requires a backing *os.File for file-mapped regions; for an
	// anonymous region we map /dev/zero-equivalent by asking for a
	// zero-initialized private mapping the same size as the cell array.
	region, err := mmap.MapRegion(nil, capacity*cellSize, mmap.RDWR, mmap.ANON, 0)
	if err != nil {
		return nil, fmt.Errorf("ufork: mmap cell heap: %w", err)
	}

	h := &Heap{
		region: region,
		// Reinterpret the mapped bytes as the Cell array directly: there is
		// no separate Go-heap-allocated backing store.
		cells:    unsafe.Slice((*Cell)(unsafe.Pointer(&region[0])), capacity),
		frontier: word.FirstFreeIndex,
		freeHead: word.WordNil,
	}
	h.cells[word.FALSE] = BooleanCell()
	h.cells[word.TRUE] = BooleanCell()
	h.cells[word.NIL] = NullCell()
	h.cells[word.UNDEF] = UndefCell()
	h.cells[word.UNIT] = UnitCell()
	h.intern = newInternTable(h)
	return h, nil
}

func (h *Heap) Capacity() int { return len(h.cells) }
func (h *Heap) Frontier() int { return h.frontier }
func (h *Heap) FreeCount() int { return h.freeLen }

// Alloc stores c at a fresh index: the free-list head if non-empty,
// otherwise the bumped frontier. Returns ErrOutOfMemory when both are
// exhausted.
func (h *Heap) Alloc(c Cell) (word.Word, error) {
	if h.freeLen > 0 {
		idx := h.freeHead.Index()
		reclaimed := h.cells[idx]
		h.freeHead = reclaimed.Z
		h.freeLen--
		h.cells[idx] = c
		return word.Heap(idx), nil
	}
	if h.frontier >= len(h.cells) {
		return word.Word{}, ErrOutOfMemory
	}
	idx := h.frontier
	h.frontier++
	h.cells[idx] = c
	return word.Heap(idx), nil
}

// Free reclaims index idx, which must be >= word.FirstFreeIndex and not
// already Free. Double-free is a fatal assertion (spec.md section 4.1).
func (h *Heap) Free(idx int) error {
	if idx < word.FirstFreeIndex || idx >= h.frontier {
		return fmt.Errorf("ufork: free of non-heap index %d", idx)
	}
	if IsFree(h.cells[idx]) {
		return fmt.Errorf("ufork: double free of cell %d: %w", idx, ErrDoubleFree)
	}
	h.cells[idx] = FreeCell(h.freeHead)
	h.freeHead = word.Heap(idx)
	h.freeLen++
	return nil
}

// Get returns the cell at idx without bounds relaxation: the caller is
// responsible for idx having come from a prior Alloc or a reserved
// constant, exactly as spec.md section 4.1 stipulates.
func (h *Heap) Get(idx int) Cell { return h.cells[idx] }

func (h *Heap) Set(idx int, c Cell) { h.cells[idx] = c }

func (h *Heap) GetT(idx int) word.Word { return h.cells[idx].T }
func (h *Heap) GetX(idx int) word.Word { return h.cells[idx].X }
func (h *Heap) GetY(idx int) word.Word { return h.cells[idx].Y }
func (h *Heap) GetZ(idx int) word.Word { return h.cells[idx].Z }

func (h *Heap) SetT(idx int, v word.Word) { c := h.cells[idx]; c.T = v; h.cells[idx] = c }
func (h *Heap) SetX(idx int, v word.Word) { c := h.cells[idx]; c.X = v; h.cells[idx] = c }
func (h *Heap) SetY(idx int, v word.Word) { c := h.cells[idx]; c.Y = v; h.cells[idx] = c }
func (h *Heap) SetZ(idx int, v word.Word) { c := h.cells[idx]; c.Z = v; h.cells[idx] = c }

// Close unmaps the backing region. Not required for process exit but kept
// symmetrical with New for long-running embedders and for tests. cells is
// cleared first since it aliases the region's memory and must not be
// dereferenced once that memory is unmapped.
func (h *Heap) Close() error {
	if h.region == nil {
		return nil
	}
	h.cells = nil
	err := h.region.Unmap()
	h.region = nil
	return err
}

// Intern returns the interned symbol cell for the given character-list
// payload, allocating and hash-chaining a new one if this is the first
// occurrence (spec.md section 3: "Interned symbols are unique").
func (h *Heap) Intern(charList word.Word, chars []byte) (word.Word, error) {
	return h.intern.intern(charList, chars)
}

// InternRoots returns the hash-chain bucket heads, part of the GC root set
// (spec.md section 4.2).
func (h *Heap) InternRoots() []word.Word {
	return h.intern.roots()
}
