package cell

import (
	"crypto/sha256"
	"encoding/binary"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/crypto/sha3"

	vcfield "github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	vchash "github.com/vybium/vybium-crypto/pkg/vybium-crypto/hash"

	"github.com/ufork-go/ufork/internal/ufork/word"
)

// bucketCount sizes the symbol-intern hash table. It does not need to grow:
// each bucket is a heap-resident Pair chain of arbitrary length.
const bucketCount = 256

// internTable is the symbol-intern hash chain of spec.md sections 3 and
// 4.2: interned symbols are unique, and the bucket heads are GC roots.
// Each bucket is a Pair-linked list of Symbol cells built from ordinary
// heap Pair cells, so GC traces it exactly like any other list — no
// separate marking logic is needed for it.
type internTable struct {
	heap    *Heap
	buckets [bucketCount]word.Word // each a Pair-chain head, or WordNil
	cache   *lru.Cache[string, word.Word]
}

func newInternTable(h *Heap) *internTable {
	t := &internTable{heap: h}
	for i := range t.buckets {
		t.buckets[i] = word.WordNil
	}
	// The cache is a pure performance layer (spec.md's hash chain remains
	// authoritative); a bounded size keeps it from growing unbounded under
	// a long-running image with many distinct symbols.
	c, _ := lru.New[string, word.Word](1024)
	t.cache = c
	return t
}

func (t *internTable) roots() []word.Word {
	out := make([]word.Word, 0, bucketCount)
	for _, b := range t.buckets {
		if b.Index() != word.NIL || b.Kind() != word.KindHeap {
			out = append(out, b)
		}
	}
	return out
}

// symbolHash hashes the raw byte payload of a symbol's characters. It
// prefers the Poseidon hash from vybium-crypto (the same hash the teacher
// uses for program attestation in vm_state.go's computeProgramDigest),
// falling back to SHA3-256 if the field-friendly hash ever panics on
// unusual byte lengths (Poseidon operates over field elements, not raw
// bytes, so very short payloads are padded to one field element first).
func symbolHash(chars []byte) (h word.Word) {
	defer func() {
		if recover() != nil {
			sum := sha3.Sum256(chars)
			h = word.Fixnum(int64(binary.BigEndian.Uint32(sum[:4])))
		}
	}()
	elems := make([]vcfield.Element, 0, (len(chars)+7)/8+1)
	for i := 0; i < len(chars); i += 8 {
		end := i + 8
		if end > len(chars) {
			end = len(chars)
		}
		var buf [8]byte
		copy(buf[:], chars[i:end])
		elems = append(elems, vcfield.New(binary.LittleEndian.Uint64(buf[:])))
	}
	if len(elems) == 0 {
		elems = append(elems, vcfield.Zero)
	}
	digest := vchash.PoseidonHash(elems)
	return word.Fixnum(int64(uint32(digest.Value())))
}

// charListBytes renders a Pair-chain of Fixnum characters back into bytes,
// for hashing and cache-key purposes only (the heap list remains the
// canonical representation).
func (t *internTable) charListBytes(charList word.Word) []byte {
	var out []byte
	cur := charList
	for cur.Kind() == word.KindHeap && cur.Index() != word.NIL {
		c := t.heap.Get(cur.Index())
		if !IsPair(c) {
			break
		}
		out = append(out, byte(c.X.Fix()))
		cur = c.Y
	}
	return out
}

func (t *internTable) sameCharList(a, b word.Word) bool {
	for {
		aNil := a.Kind() == word.KindHeap && a.Index() == word.NIL
		bNil := b.Kind() == word.KindHeap && b.Index() == word.NIL
		if aNil && bNil {
			return true
		}
		if aNil != bNil {
			return false
		}
		ca, cb := t.heap.Get(a.Index()), t.heap.Get(b.Index())
		if !IsPair(ca) || !IsPair(cb) || !ca.X.Equal(cb.X) {
			return false
		}
		a, b = ca.Y, cb.Y
	}
}

// intern finds or creates the Symbol cell for charList (which must already
// be resident in the heap as a Pair chain of Fixnum characters) and returns
// its index.
func (t *internTable) intern(charList word.Word, chars []byte) (word.Word, error) {
	if chars == nil {
		chars = t.charListBytes(charList)
	}
	key := cacheKey(chars)
	if idx, ok := t.cache.Get(key); ok {
		return idx, nil
	}

	h := symbolHash(chars)
	bucket := uint32(sha256.Sum256(chars)[0]) % bucketCount

	cur := t.buckets[bucket]
	for cur.Kind() == word.KindHeap && cur.Index() != word.NIL {
		link := t.heap.Get(cur.Index())
		symIdx := link.X
		sym := t.heap.Get(symIdx.Index())
		if t.sameCharList(sym.Y, charList) {
			t.cache.Add(key, symIdx)
			return symIdx, nil
		}
		cur = link.Y
	}

	symWord, err := t.heap.Alloc(SymbolCell(h, charList))
	if err != nil {
		return word.Word{}, err
	}
	linkWord, err := t.heap.Alloc(PairCell(symWord, t.buckets[bucket]))
	if err != nil {
		return word.Word{}, err
	}
	t.buckets[bucket] = linkWord
	t.cache.Add(key, symWord)
	return symWord, nil
}

func cacheKey(b []byte) string { return string(b) }
