package image

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/klauspost/compress/zstd"

	"github.com/ufork-go/ufork/internal/ufork/cell"
	"github.com/ufork-go/ufork/internal/ufork/word"
)

// encodeWord and encodeCell mirror decodeWord/decodeCell's wire format, for
// building test fixtures without a production encoder (the spec leaves the
// wire format's producer out of scope; only a decoder ships here).
func encodeWord(w word.Word) []byte {
	buf := make([]byte, 9)
	var val int64
	switch w.Kind() {
	case word.KindFixnum:
		buf[0] = byte(word.KindFixnum)
		val = w.Fix()
	case word.KindHeap:
		buf[0] = byte(word.KindHeap)
		val = int64(w.Index())
	case word.KindProc:
		buf[0] = byte(word.KindProc)
		val = int64(w.ProcVal())
	}
	binary.LittleEndian.PutUint64(buf[1:9], uint64(val))
	return buf
}

func encodeCell(c cell.Cell) []byte {
	var out []byte
	out = append(out, encodeWord(c.T)...)
	out = append(out, encodeWord(c.X)...)
	out = append(out, encodeWord(c.Y)...)
	out = append(out, encodeWord(c.Z)...)
	return out
}

func buildImage(t *testing.T, cells []cell.Cell) []byte {
	t.Helper()
	var raw bytes.Buffer
	for _, c := range cells {
		raw.Write(encodeCell(c))
	}

	sum, err := Checksum(bytes.NewReader(raw.Bytes()))
	if err != nil {
		t.Fatalf("Checksum failed: %v", err)
	}

	var compressed bytes.Buffer
	zw, err := zstd.NewWriter(&compressed)
	if err != nil {
		t.Fatalf("zstd.NewWriter failed: %v", err)
	}
	if _, err := zw.Write([]byte(sum)); err != nil {
		t.Fatalf("zstd write checksum header failed: %v", err)
	}
	if _, err := zw.Write(raw.Bytes()); err != nil {
		t.Fatalf("zstd write failed: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zstd close failed: %v", err)
	}
	return compressed.Bytes()
}

func TestLoadSeedEventAndFollowingCells(t *testing.T) {
	h, err := cell.New(64)
	if err != nil {
		t.Fatalf("cell.New failed: %v", err)
	}
	defer h.Close()

	seedEvent := cell.EventCell(word.Heap(word.FirstFreeIndex+1), word.WordNil)
	recipientActor := cell.ActorCell(word.WordUndef, word.Fixnum(7))

	data := buildImage(t, []cell.Cell{seedEvent, recipientActor})

	seed, err := Load(h, bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if seed.Index() != word.FirstFreeIndex {
		t.Errorf("seed event index = %d, want %d", seed.Index(), word.FirstFreeIndex)
	}
	if !cell.IsEvent(h.Get(seed.Index())) {
		t.Error("loaded seed should be an Event cell")
	}
	if !cell.IsActor(h.Get(word.FirstFreeIndex + 1)) {
		t.Error("second record should be loaded as the Actor cell that follows the seed event")
	}
}

func TestLoadRejectsImageWithoutSeedEvent(t *testing.T) {
	h, err := cell.New(64)
	if err != nil {
		t.Fatalf("cell.New failed: %v", err)
	}
	defer h.Close()

	notAnEvent := cell.ActorCell(word.WordUndef, word.WordUndef)
	data := buildImage(t, []cell.Cell{notAnEvent})

	if _, err := Load(h, bytes.NewReader(data)); err == nil {
		t.Error("Load should reject an image whose first record is not a seed Event")
	}
}

func TestLoadRejectsCorruptedRecordStream(t *testing.T) {
	h, err := cell.New(64)
	if err != nil {
		t.Fatalf("cell.New failed: %v", err)
	}
	defer h.Close()

	seedEvent := cell.EventCell(word.WordUndef, word.WordNil)
	data := buildImage(t, []cell.Cell{seedEvent})

	// Flip the last byte of the compressed stream. It belongs to zstd's own
	// frame checksum, so the corrupted image is rejected while it is being
	// decompressed.
	corrupted := append([]byte(nil), data...)
	corrupted[len(corrupted)-1] ^= 0xff

	if _, err := Load(h, bytes.NewReader(corrupted)); err == nil {
		t.Error("Load should reject a record stream whose checksum does not match")
	}
}

func TestLoadRejectsNonFreshHeap(t *testing.T) {
	h, err := cell.New(64)
	if err != nil {
		t.Fatalf("cell.New failed: %v", err)
	}
	defer h.Close()

	// Occupy the image's first slot before loading, so the record lands
	// at a later index than expected.
	if _, err := h.Alloc(cell.PairCell(word.WordNil, word.WordNil)); err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}

	data := buildImage(t, []cell.Cell{cell.EventCell(word.WordUndef, word.WordNil)})
	if _, err := Load(h, bytes.NewReader(data)); err == nil {
		t.Error("Load should reject a heap that isn't fresh")
	}
}
