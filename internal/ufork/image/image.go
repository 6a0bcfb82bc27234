// Package image implements the bootstrap-image loader of spec.md
// section 6: a sequence of {t,x,y,z} records, index 0..4 the canonical
// singletons, index 5 an Event seeding the event queue. The wire format
// itself is out of the core specification's scope ("An implementation
// must run such an image but is free in how it is produced"); this
// package defines a zstd-compressed, checksummed record stream: a
// 64-byte hex SHA3-256 digest of the record bytes, followed by the
// records themselves, all inside the zstd stream. Load rejects an image
// whose digest does not match before decoding a single record.
package image

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/ufork-go/ufork/internal/ufork/cell"
	"github.com/ufork-go/ufork/internal/ufork/word"
)

// recordSize is the encoded width of one {t,x,y,z} cell: four int64
// fields, one per word, each prefixed by a one-byte kind tag.
const recordSize = 4 * (1 + 8)

// checksumHeaderSize is the width of the hex-encoded SHA3-256 digest that
// precedes the record stream (see Checksum/VerifyChecksum): 32 bytes of
// digest, hex-encoded to 64 ASCII bytes.
const checksumHeaderSize = 64

// Load decompresses r, verifies the record stream against its leading
// checksum header, and populates h starting at word.FirstFreeIndex,
// returning the seed event (the image's index 5, per spec.md section 6)
// to post onto the machine's event queue.
func Load(h *cell.Heap, r io.Reader) (word.Word, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return word.WordUndef, fmt.Errorf("ufork: image: open zstd stream: %w", err)
	}
	defer zr.Close()

	var sumHeader [checksumHeaderSize]byte
	if _, err := io.ReadFull(zr, sumHeader[:]); err != nil {
		return word.WordUndef, fmt.Errorf("ufork: image: read checksum header: %w", err)
	}

	records, err := io.ReadAll(zr)
	if err != nil {
		return word.WordUndef, fmt.Errorf("ufork: image: read record stream: %w", err)
	}
	if err := VerifyChecksum(records, string(sumHeader[:])); err != nil {
		return word.WordUndef, err
	}

	br := bufio.NewReader(bytes.NewReader(records))

	var seedIdx int64 = -1
	buf := make([]byte, recordSize)
	for idx := word.FirstFreeIndex; ; idx++ {
		_, err := io.ReadFull(br, buf)
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			break
		}
		if err != nil {
			return word.WordUndef, fmt.Errorf("ufork: image: read record %d: %w", idx, err)
		}
		c, err := decodeCell(buf)
		if err != nil {
			return word.WordUndef, fmt.Errorf("ufork: image: decode record %d: %w", idx, err)
		}
		alloced, err := h.Alloc(c)
		if err != nil {
			return word.WordUndef, fmt.Errorf("ufork: image: populate record %d: %w", idx, err)
		}
		if alloced.Index() != idx {
			return word.WordUndef, fmt.Errorf("ufork: image: record %d landed at heap index %d (image must be loaded into a fresh heap)", idx, alloced.Index())
		}
		if idx == word.FirstFreeIndex && cell.IsEvent(c) {
			seedIdx = int64(idx)
		}
	}
	if seedIdx < 0 {
		return word.WordUndef, fmt.Errorf("ufork: image: no seed event at index %d", word.FirstFreeIndex)
	}
	return word.Heap(int(seedIdx)), nil
}

func decodeCell(buf []byte) (cell.Cell, error) {
	words := make([]word.Word, 4)
	for i := 0; i < 4; i++ {
		w, err := decodeWord(buf[i*9 : i*9+9])
		if err != nil {
			return cell.Cell{}, err
		}
		words[i] = w
	}
	return cell.Cell{T: words[0], X: words[1], Y: words[2], Z: words[3]}, nil
}

func decodeWord(buf []byte) (word.Word, error) {
	kind := word.Kind(buf[0])
	val := int64(binary.LittleEndian.Uint64(buf[1:9]))
	switch kind {
	case word.KindFixnum:
		return word.Fixnum(val), nil
	case word.KindHeap:
		return word.Heap(int(val)), nil
	case word.KindProc:
		return word.ProcConst(word.Proc(val)), nil
	default:
		return word.Word{}, fmt.Errorf("ufork: image: unknown word kind %d", kind)
	}
}
