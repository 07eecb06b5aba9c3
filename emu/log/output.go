package log

import (
	"io"

	"gopkg.in/Sirupsen/logrus.v0"
)

type Level uint8

// Same ordering as logrus levels.
const (
	PanicLevel Level = iota
	FatalLevel
	ErrorLevel
	WarnLevel
	InfoLevel
	DebugLevel
)

func init() {
	// Filtering is done per module, logrus must let everything through.
	logrus.SetLevel(logrus.DebugLevel)
	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
}

func SetOutput(w io.Writer) {
	logrus.SetOutput(w)
}

// Disable turns off all logging, including warnings and errors.
func Disable() {
	disabled = true
	modDebugMask = 0
}

// Enable reverts the effect of Disable.
func Enable() {
	disabled = false
}
