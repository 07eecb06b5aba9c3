package log

import (
	"gopkg.in/Sirupsen/logrus.v0"
)

type Fields logrus.Fields

// Entry is a printf-style log entry bound to a module. Fields are only
// materialized if the entry is actually emitted.
type Entry struct {
	mod    Module
	fields Fields
}

func (entry Entry) WithField(key string, value any) Entry {
	fields := make(Fields, len(entry.fields)+1)
	for k, v := range entry.fields {
		fields[k] = v
	}
	fields[key] = value
	entry.fields = fields
	return entry
}

func (entry Entry) log() *logrus.Entry {
	final := logrus.StandardLogger().WithField("_mod", entry.mod.String())
	if len(entry.fields) != 0 {
		final = final.WithFields(logrus.Fields(entry.fields))
	}

	var z EntryZ
	for _, c := range contexts {
		c.AddLogContext(&z)
	}
	if z.zfidx == 0 {
		return final
	}
	fields := make(logrus.Fields, z.zfidx)
	for i := range z.zfbuf[:z.zfidx] {
		fields[z.zfbuf[i].Key] = z.zfbuf[i].Value()
	}
	return final.WithFields(fields)
}

func (entry Entry) Debugf(format string, args ...any) {
	if entry.mod.Enabled(DebugLevel) {
		entry.log().Debugf(format, args...)
	}
}

func (entry Entry) Infof(format string, args ...any) {
	if entry.mod.Enabled(InfoLevel) {
		entry.log().Infof(format, args...)
	}
}

func (entry Entry) Warnf(format string, args ...any) {
	if entry.mod.Enabled(WarnLevel) {
		entry.log().Warnf(format, args...)
	}
}

func (entry Entry) Errorf(format string, args ...any) {
	if entry.mod.Enabled(ErrorLevel) {
		entry.log().Errorf(format, args...)
	}
}

func (entry Entry) Fatalf(format string, args ...any) {
	if entry.mod.Enabled(FatalLevel) {
		entry.log().Fatalf(format, args...)
	}
}
