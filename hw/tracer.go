package hw

import (
	"fmt"
	"io"
)

// cpuState stores the CPU state for the execution trace.
type cpuState struct {
	A, X, Y uint8
	P       uint8
	SP      uint8
	PC      uint16

	Clock int64 // cycles since power up
	Count int64 // cycles in the frame
}

type disasmer interface {
	Disasm(pc uint16) DisasmOp
}

type tracer struct {
	d   disasmer
	w   io.Writer
	buf []byte
}

// write the execution trace for the instruction about to be executed.
func (t *tracer) write(state cpuState) {
	dis := t.d.Disasm(state.PC)

	dots := state.Count * 3
	t.buf = fmt.Appendf(t.buf[:0], "%-47s A:%02X X:%02X Y:%02X P:%02X SP:%02X PPU:%3d,%3d CYC:%d\n",
		dis.String(), state.A, state.X, state.Y, state.P, state.SP,
		dots/341, dots%341, state.Clock)
	t.w.Write(t.buf)
}
