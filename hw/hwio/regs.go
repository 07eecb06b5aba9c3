package hwio

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// regTag holds the parsed content of a "hwio" struct tag.
//
//	offset=0x12     Byte offset within the bank. Fields without offset are
//	                not part of any bank but are still initialized.
//	bank=N          Bank number (default 0).
//	size=0x800      Mem/Device: physical size. Mem data is allocated if nil.
//	vsize=0x2000    Mem: virtual size, the rest of the range is a mirror.
//	reset=0x12      Reg8: initial value.
//	rwmask=0xF0     Reg8: writable bits (default all).
//	readonly        Reject bus writes.
//	writeonly       Reject bus reads.
//	rcb[=Name]      Bind ReadCb to method Name (default Read<FIELD>).
//	wcb[=Name]      Bind WriteCb to method Name (default Write<FIELD>).
//	pcb[=Name]      Bind PeekCb to method Name (default Peek<FIELD>).
type regTag struct {
	offset    uint16
	hasOffset bool
	bank      int
	size      int
	vsize     int
	reset     uint8
	rwmask    uint8
	readonly  bool
	writeonly bool
	rcb       string
	wcb       string
	pcb       string
}

func parseTag(field, tag string) (regTag, error) {
	rt := regTag{rwmask: 0xFF}
	upper := strings.ToUpper(field)

	parseNum := func(key, s string, bits int) (uint64, error) {
		n, err := strconv.ParseUint(s, 0, bits)
		if err != nil {
			return 0, fmt.Errorf("field %s: invalid %s value %q: %w", field, key, s, err)
		}
		return n, nil
	}

	for opt := range strings.SplitSeq(tag, ",") {
		if opt == "" {
			continue
		}
		key, val, hasVal := strings.Cut(opt, "=")
		var (
			n   uint64
			err error
		)
		switch key {
		case "offset":
			n, err = parseNum(key, val, 16)
			rt.offset, rt.hasOffset = uint16(n), true
		case "bank":
			n, err = parseNum(key, val, 8)
			rt.bank = int(n)
		case "size":
			n, err = parseNum(key, val, 32)
			rt.size = int(n)
		case "vsize":
			n, err = parseNum(key, val, 32)
			rt.vsize = int(n)
		case "reset":
			n, err = parseNum(key, val, 8)
			rt.reset = uint8(n)
		case "rwmask":
			n, err = parseNum(key, val, 8)
			rt.rwmask = uint8(n)
		case "readonly":
			rt.readonly = true
		case "writeonly":
			rt.writeonly = true
		case "rcb":
			rt.rcb = "Read" + upper
			if hasVal {
				rt.rcb = val
			}
		case "wcb":
			rt.wcb = "Write" + upper
			if hasVal {
				rt.wcb = val
			}
		case "pcb":
			rt.pcb = "Peek" + upper
			if hasVal {
				rt.pcb = val
			}
		default:
			return rt, fmt.Errorf("field %s: unknown hwio option %q", field, key)
		}
		if err != nil {
			return rt, err
		}
	}
	if rt.readonly && rt.writeonly {
		return rt, fmt.Errorf("field %s: readonly and writeonly are exclusive", field)
	}
	return rt, nil
}

func (rt regTag) flags() RWFlags {
	switch {
	case rt.readonly:
		return ReadOnlyFlag
	case rt.writeonly:
		return WriteOnlyFlag
	}
	return ReadWriteFlag
}

type taggedField struct {
	name   string
	tag    regTag
	regPtr any
}

func taggedFields(data any) (reflect.Value, []taggedField, error) {
	v := reflect.ValueOf(data)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return v, nil, errors.New("hwio: expecting a pointer to struct")
	}
	sv := v.Elem()
	st := sv.Type()

	var fields []taggedField
	for i := range st.NumField() {
		f := st.Field(i)
		tag, ok := f.Tag.Lookup("hwio")
		if !ok {
			continue
		}
		if !f.IsExported() {
			return v, nil, fmt.Errorf("hwio: field %s must be exported", f.Name)
		}
		rt, err := parseTag(f.Name, tag)
		if err != nil {
			return v, nil, fmt.Errorf("hwio: %w", err)
		}
		fields = append(fields, taggedField{
			name:   f.Name,
			tag:    rt,
			regPtr: sv.Field(i).Addr().Interface(),
		})
	}
	return v, fields, nil
}

func bindMethod[F any](v reflect.Value, name string, dst *F) error {
	if name == "" {
		return nil
	}
	m := v.MethodByName(name)
	if !m.IsValid() {
		return fmt.Errorf("hwio: method %s not found on %s", name, v.Type())
	}
	fn, ok := m.Interface().(F)
	if !ok {
		return fmt.Errorf("hwio: method %s has signature %s, want %T", name, m.Type(), *dst)
	}
	*dst = fn
	return nil
}

// InitRegs initializes all the fields of data (a pointer to struct) carrying
// a "hwio" tag: names, reset values, flags, memory buffers and callbacks.
func InitRegs(data any) error {
	v, fields, err := taggedFields(data)
	if err != nil {
		return err
	}

	for _, f := range fields {
		rt := f.tag
		switch r := f.regPtr.(type) {
		case *Reg8:
			r.Name = f.name
			r.Value = rt.reset
			r.RoMask = ^rt.rwmask
			r.Flags = rt.flags()
			err = errors.Join(
				bindMethod(v, rt.rcb, &r.ReadCb),
				bindMethod(v, rt.wcb, &r.WriteCb),
				bindMethod(v, rt.pcb, &r.PeekCb),
			)
		case *Mem:
			r.Name = f.name
			if r.Data == nil && rt.size > 0 {
				r.Data = make([]byte, rt.size)
			}
			r.VSize = max(rt.vsize, rt.size, len(r.Data))
			if rt.readonly {
				r.Flags |= MemFlag8ReadOnly
			}
			err = bindMethod(v, rt.wcb, &r.WriteCb)
		case *Device:
			r.Name = f.name
			r.Size = rt.size
			r.Flags = rt.flags()
			err = errors.Join(
				bindMethod(v, rt.rcb, &r.ReadCb),
				bindMethod(v, rt.wcb, &r.WriteCb),
				bindMethod(v, rt.pcb, &r.PeekCb),
			)
		default:
			err = fmt.Errorf("hwio: field %s: unsupported type %T", f.name, r)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func MustInitRegs(data any) {
	if err := InitRegs(data); err != nil {
		panic(err)
	}
}

type bankReg struct {
	offset uint16
	regPtr any
}

func bankGetRegs(bank any, bankNum int) ([]bankReg, error) {
	_, fields, err := taggedFields(bank)
	if err != nil {
		return nil, err
	}

	var regs []bankReg
	for _, f := range fields {
		if !f.tag.hasOffset || f.tag.bank != bankNum {
			continue
		}
		regs = append(regs, bankReg{offset: f.tag.offset, regPtr: f.regPtr})
	}
	return regs, nil
}
