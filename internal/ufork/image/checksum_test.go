package image

import (
	"bytes"
	"testing"
)

func TestChecksumIsDeterministic(t *testing.T) {
	data := []byte("hello uFork image")

	a, err := Checksum(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Checksum failed: %v", err)
	}
	b, err := Checksum(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Checksum failed: %v", err)
	}
	if a != b {
		t.Errorf("Checksum is not deterministic: %q vs %q", a, b)
	}
}

func TestChecksumDiffersForDifferentContent(t *testing.T) {
	a, err := Checksum(bytes.NewReader([]byte("one")))
	if err != nil {
		t.Fatalf("Checksum failed: %v", err)
	}
	b, err := Checksum(bytes.NewReader([]byte("two")))
	if err != nil {
		t.Fatalf("Checksum failed: %v", err)
	}
	if a == b {
		t.Error("different content should produce different checksums")
	}
}

func TestVerifyChecksumAcceptsMatch(t *testing.T) {
	data := []byte("image bytes")
	sum, err := Checksum(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Checksum failed: %v", err)
	}
	if err := VerifyChecksum(data, sum); err != nil {
		t.Errorf("VerifyChecksum should accept a matching checksum: %v", err)
	}
}

func TestVerifyChecksumRejectsMismatch(t *testing.T) {
	data := []byte("image bytes")
	if err := VerifyChecksum(data, "not-a-real-checksum"); err == nil {
		t.Error("VerifyChecksum should reject a mismatched checksum")
	}
}
