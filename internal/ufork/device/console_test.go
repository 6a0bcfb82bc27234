package device

import (
	"bytes"
	"strings"
	"testing"
)

func TestPutCWritesCharacter(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, strings.NewReader(""))

	if err := c.PutC('A'); err != nil {
		t.Fatalf("PutC failed: %v", err)
	}
	if !strings.Contains(buf.String(), "A") {
		t.Errorf("output %q should contain 'A'", buf.String())
	}
}

func TestGetCReadsInOrder(t *testing.T) {
	c := NewConsole(&bytes.Buffer{}, strings.NewReader("hi"))

	ch, err := c.GetC()
	if err != nil {
		t.Fatalf("GetC failed: %v", err)
	}
	if ch != 'h' {
		t.Errorf("first GetC = %c, want 'h'", ch)
	}
	ch, err = c.GetC()
	if err != nil {
		t.Fatalf("GetC failed: %v", err)
	}
	if ch != 'i' {
		t.Errorf("second GetC = %c, want 'i'", ch)
	}
}

func TestGetCAtEOFReturnsNegativeOneNotError(t *testing.T) {
	c := NewConsole(&bytes.Buffer{}, strings.NewReader(""))

	ch, err := c.GetC()
	if err != nil {
		t.Fatalf("GetC at EOF should not return an error: %v", err)
	}
	if ch != -1 {
		t.Errorf("GetC at EOF = %d, want -1", ch)
	}
}
