package hwio

import "testing"

func TestReg8(t *testing.T) {
	r := Reg8{Value: 0x11, RoMask: 0xF0}

	if got := r.Read8(0); got != 0x11 {
		t.Errorf("invalid read: %x", got)
	}
	if got := r.Read8(9999); got != 0x11 {
		t.Errorf("invalid read with offset: %x", got)
	}

	r.Write8(0, 0x77)
	if r.Value != 0x17 {
		t.Errorf("writemask not respected: %x", r.Value)
	}

	r.SetBit(7)
	if !r.GetBit(7) || r.Value != 0x97 {
		t.Errorf("SetBit(7): value = %x", r.Value)
	}
	r.SetBitTo(7, false)
	if r.GetBiti(7) != 0 {
		t.Errorf("SetBitTo(7, false): value = %x", r.Value)
	}
}

func TestReg8WriteOnlyReadCallback(t *testing.T) {
	latch := uint8(0x42)
	r := Reg8{Flags: WriteOnlyFlag}
	if got := r.Read8(0); got != 0 {
		t.Errorf("Read8 on writeonly = %x, want 0", got)
	}

	r.ReadCb = func(uint8) uint8 { return latch }
	if got := r.Read8(0); got != latch {
		t.Errorf("Read8 on writeonly with callback = %x, want %x", got, latch)
	}
}
