package emu

import "image"

// Headless is an Output that shows nothing. It keeps the last frame and
// stops the emulation loop after MaxFrames frames, if non-zero.
type Headless struct {
	MaxFrames int

	frames int
	last   *image.RGBA
}

func (h *Headless) Poll() bool {
	return h.MaxFrames == 0 || h.frames < h.MaxFrames
}

func (h *Headless) Present(frame *image.RGBA) {
	h.frames++
	h.last = frame
}

func (h *Headless) Close() {}

// Frames returns the number of frames presented.
func (h *Headless) Frames() int { return h.frames }

// Last returns the last presented frame, nil if none.
func (h *Headless) Last() *image.RGBA { return h.last }
