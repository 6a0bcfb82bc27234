package ufork

import "testing"

func TestDefaultConfigIsUsable(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig() should validate, got %v", err)
	}
}

func TestConfigIsRuntimeConfigAlias(t *testing.T) {
	cfg := DefaultConfig().WithHeapCapacity(1 << 12).WithWordWidth(16)
	if cfg.HeapCapacity != 1<<12 {
		t.Errorf("HeapCapacity = %d, want %d", cfg.HeapCapacity, 1<<12)
	}
	if cfg.WordWidth != 16 {
		t.Errorf("WordWidth = %d, want 16", cfg.WordWidth)
	}
}
