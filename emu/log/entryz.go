package log

import (
	"fmt"
	"sync"
	"time"

	"gopkg.in/Sirupsen/logrus.v0"
)

// EntryZ is a log entry builder that doesn't allocate for disabled levels.
// Module methods (DebugZ, InfoZ, ...) return a nil *EntryZ when the level is
// disabled, all methods are no-ops on a nil receiver.
//
//	log.ModCPU.DebugZ("opcode").Hex16("pc", pc).Hex8("op", op).End()
type EntryZ struct {
	lvl Level
	msg string
	mod Module

	zfbuf [16]ZField
	zfidx int
}

var entryPool = sync.Pool{
	New: func() any { return new(EntryZ) },
}

func NewEntryZ() *EntryZ {
	e := entryPool.Get().(*EntryZ)
	e.zfidx = 0
	return e
}

func (z *EntryZ) add(f ZField) *EntryZ {
	if z == nil {
		return nil
	}
	if z.zfidx < len(z.zfbuf) {
		z.zfbuf[z.zfidx] = f
		z.zfidx++
	}
	return z
}

func (z *EntryZ) Bool(key string, b bool) *EntryZ {
	return z.add(ZField{Type: FieldTypeBool, Key: key, Boolean: b})
}

func (z *EntryZ) String(key, s string) *EntryZ {
	return z.add(ZField{Type: FieldTypeString, Key: key, String: s})
}

func (z *EntryZ) Stringer(key string, s fmt.Stringer) *EntryZ {
	return z.add(ZField{Type: FieldTypeStringer, Key: key, Interface: s})
}

func (z *EntryZ) Hex8(key string, v uint8) *EntryZ {
	return z.add(ZField{Type: FieldTypeHex8, Key: key, Integer: uint64(v)})
}

func (z *EntryZ) Hex16(key string, v uint16) *EntryZ {
	return z.add(ZField{Type: FieldTypeHex16, Key: key, Integer: uint64(v)})
}

func (z *EntryZ) Hex32(key string, v uint32) *EntryZ {
	return z.add(ZField{Type: FieldTypeHex32, Key: key, Integer: uint64(v)})
}

func (z *EntryZ) Int(key string, v int) *EntryZ {
	return z.add(ZField{Type: FieldTypeInt, Key: key, Integer: uint64(v)})
}

func (z *EntryZ) Int64(key string, v int64) *EntryZ {
	return z.add(ZField{Type: FieldTypeInt, Key: key, Integer: uint64(v)})
}

func (z *EntryZ) Uint8(key string, v uint8) *EntryZ {
	return z.add(ZField{Type: FieldTypeUint, Key: key, Integer: uint64(v)})
}

func (z *EntryZ) Uint16(key string, v uint16) *EntryZ {
	return z.add(ZField{Type: FieldTypeUint, Key: key, Integer: uint64(v)})
}

func (z *EntryZ) Uint32(key string, v uint32) *EntryZ {
	return z.add(ZField{Type: FieldTypeUint, Key: key, Integer: uint64(v)})
}

func (z *EntryZ) Error(key string, err error) *EntryZ {
	return z.add(ZField{Type: FieldTypeError, Key: key, Error: err})
}

func (z *EntryZ) Duration(key string, d time.Duration) *EntryZ {
	return z.add(ZField{Type: FieldTypeDuration, Key: key, Duration: d})
}

func (z *EntryZ) Blob(key string, b []byte) *EntryZ {
	return z.add(ZField{Type: FieldTypeBlob, Key: key, Blob: b})
}

// End emits the entry and recycles it. The entry must not be used afterwards.
func (z *EntryZ) End() {
	if z == nil {
		return
	}

	for _, c := range contexts {
		c.AddLogContext(z)
	}

	fields := make(logrus.Fields, z.zfidx+1)
	fields["_mod"] = z.mod.String()
	for i := range z.zfbuf[:z.zfidx] {
		fields[z.zfbuf[i].Key] = z.zfbuf[i].Value()
	}
	lvl, msg := z.lvl, z.msg
	clear(z.zfbuf[:z.zfidx])
	entryPool.Put(z)

	entry := logrus.StandardLogger().WithFields(fields)
	switch lvl {
	case DebugLevel:
		entry.Debug(msg)
	case InfoLevel:
		entry.Info(msg)
	case WarnLevel:
		entry.Warn(msg)
	case ErrorLevel:
		entry.Error(msg)
	case FatalLevel:
		entry.Fatal(msg)
	case PanicLevel:
		entry.Panic(msg)
	}
}

// A Context adds fields to every emitted log entry. It's typically used to
// stamp log lines with the emulated machine position (frame, PC).
type Context interface {
	AddLogContext(*EntryZ)
}

var contexts []Context

func AddContext(c Context) {
	contexts = append(contexts, c)
}

func RemoveContext(c Context) {
	for i := range contexts {
		if contexts[i] == c {
			contexts = append(contexts[:i], contexts[i+1:]...)
			return
		}
	}
}
