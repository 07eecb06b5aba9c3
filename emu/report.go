package emu

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/go-faster/jx"
)

// Outcome of a headless run.
const (
	StatusPassed  = "passed"  // test ROM reported success
	StatusFailed  = "failed"  // test ROM reported a failure code
	StatusTimeout = "timeout" // frame limit reached without final status
	StatusHalted  = "halted"  // emulation fault
	StatusError   = "error"   // the ROM couldn't be loaded
)

// Report summarizes the headless run of a ROM.
type Report struct {
	ROM      string
	Mapper   int
	Status   string
	Code     int    // test ROM result code
	Text     string // test ROM text output
	Error    string
	Frames   int64
	Cycles   int64
	Duration time.Duration
}

// NewReport builds the report of a test ROM run.
func NewReport(rom string, nes *NES, res TestResult, err error, elapsed time.Duration) Report {
	r := Report{
		ROM:      rom,
		Code:     int(res.Code),
		Text:     res.Text,
		Frames:   res.Frames,
		Duration: elapsed,
	}
	if nes != nil {
		r.Mapper = int(nes.Cart.MapperID)
		r.Cycles = nes.CPU.Cycles
		r.Frames = nes.Frames
	}

	switch {
	case errors.Is(err, ErrTestTimeout):
		r.Status = StatusTimeout
	case err != nil && nes == nil:
		r.Status = StatusError
		r.Error = err.Error()
	case err != nil:
		r.Status = StatusHalted
		r.Error = err.Error()
	case res.Passed():
		r.Status = StatusPassed
	default:
		r.Status = StatusFailed
	}
	return r
}

func (r *Report) Encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("rom")
	e.Str(r.ROM)
	e.FieldStart("mapper")
	e.Int(r.Mapper)
	e.FieldStart("status")
	e.Str(r.Status)
	if r.Status == StatusPassed || r.Status == StatusFailed {
		e.FieldStart("code")
		e.Int(r.Code)
	}
	if r.Text != "" {
		e.FieldStart("text")
		e.Str(r.Text)
	}
	if r.Error != "" {
		e.FieldStart("error")
		e.Str(r.Error)
	}
	e.FieldStart("frames")
	e.Int64(r.Frames)
	e.FieldStart("cycles")
	e.Int64(r.Cycles)
	e.FieldStart("duration_ms")
	e.Int64(r.Duration.Milliseconds())
	e.ObjEnd()
}

func (r *Report) Decode(d *jx.Decoder) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "rom":
			r.ROM, err = d.Str()
		case "mapper":
			r.Mapper, err = d.Int()
		case "status":
			r.Status, err = d.Str()
		case "code":
			r.Code, err = d.Int()
		case "text":
			r.Text, err = d.Str()
		case "error":
			r.Error, err = d.Str()
		case "frames":
			r.Frames, err = d.Int64()
		case "cycles":
			r.Cycles, err = d.Int64()
		case "duration_ms":
			var ms int64
			ms, err = d.Int64()
			r.Duration = time.Duration(ms) * time.Millisecond
		default:
			err = d.Skip()
		}
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		return nil
	})
}

// WriteReports writes reports as an indented JSON array.
func WriteReports(w io.Writer, reports []Report) error {
	var e jx.Encoder
	e.SetIdent(2)
	e.ArrStart()
	for i := range reports {
		reports[i].Encode(&e)
	}
	e.ArrEnd()
	_, err := w.Write(append(e.Bytes(), '\n'))
	return err
}

// ReadReports reads reports written by WriteReports.
func ReadReports(r io.Reader) ([]Report, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var reports []Report
	err = jx.DecodeBytes(buf).Arr(func(d *jx.Decoder) error {
		var rep Report
		if err := rep.Decode(d); err != nil {
			return err
		}
		reports = append(reports, rep)
		return nil
	})
	return reports, err
}
