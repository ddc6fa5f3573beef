package log

import (
	"fmt"
	"io"
	"sync"
	"time"

	"gopkg.in/Sirupsen/logrus.v0"
)

type Level uint32

// Levels, ordered by decreasing severity. The numeric values match logrus.
const (
	PanicLevel Level = iota
	FatalLevel
	ErrorLevel
	WarnLevel
	InfoLevel
	DebugLevel
)

func init() {
	// Level filtering is decided per module in Enabled; logrus itself must
	// let everything through.
	logrus.SetLevel(logrus.DebugLevel)
}

// SetOutput redirects all log output to w.
func SetOutput(w io.Writer) {
	logrus.SetOutput(w)
}

// Disable turns off log output entirely.
func Disable() {
	logrus.SetOutput(io.Discard)
}

// EntryZ is the fast counterpart of Entry: fields are typed and kept in a
// fixed buffer, and are only rendered to strings if the entry is emitted. A
// nil *EntryZ (disabled module) turns the whole call chain into a no-op.
type EntryZ struct {
	mod   Module
	lvl   Level
	msg   string
	zfbuf [16]ZField
	zfidx int
}

var zpool = sync.Pool{
	New: func() any { return &EntryZ{} },
}

func NewEntryZ() *EntryZ {
	e := zpool.Get().(*EntryZ)
	e.zfidx = 0
	return e
}

func (e *EntryZ) add(f ZField) *EntryZ {
	if e == nil {
		return nil
	}
	if e.zfidx < len(e.zfbuf) {
		e.zfbuf[e.zfidx] = f
		e.zfidx++
	}
	return e
}

func (e *EntryZ) Bool(key string, val bool) *EntryZ {
	return e.add(ZField{Type: FieldTypeBool, Key: key, Boolean: val})
}

func (e *EntryZ) String(key, val string) *EntryZ {
	return e.add(ZField{Type: FieldTypeString, Key: key, String: val})
}

func (e *EntryZ) Int(key string, val int) *EntryZ {
	return e.add(ZField{Type: FieldTypeInt, Key: key, Integer: uint64(val)})
}

func (e *EntryZ) Uint(key string, val uint64) *EntryZ {
	return e.add(ZField{Type: FieldTypeUint, Key: key, Integer: val})
}

func (e *EntryZ) Hex8(key string, val uint8) *EntryZ {
	return e.add(ZField{Type: FieldTypeHex8, Key: key, Integer: uint64(val)})
}

func (e *EntryZ) Hex16(key string, val uint16) *EntryZ {
	return e.add(ZField{Type: FieldTypeHex16, Key: key, Integer: uint64(val)})
}

func (e *EntryZ) Error(key string, err error) *EntryZ {
	return e.add(ZField{Type: FieldTypeError, Key: key, Error: err})
}

func (e *EntryZ) Stringer(key string, val fmt.Stringer) *EntryZ {
	return e.add(ZField{Type: FieldTypeStringer, Key: key, Interface: val})
}

func (e *EntryZ) Duration(key string, val time.Duration) *EntryZ {
	return e.add(ZField{Type: FieldTypeDuration, Key: key, Duration: val})
}

func (e *EntryZ) Blob(key string, val []byte) *EntryZ {
	return e.add(ZField{Type: FieldTypeBlob, Key: key, Blob: val})
}

// End emits the entry and recycles it. The entry must not be used afterwards.
func (e *EntryZ) End() {
	if e == nil {
		return
	}
	fields := make(logrus.Fields, e.zfidx+1)
	fields["_mod"] = modNames[e.mod]
	for i := range e.zfbuf[:e.zfidx] {
		fields[e.zfbuf[i].Key] = e.zfbuf[i].Value()
	}
	entry := logrus.StandardLogger().WithFields(fields)
	switch e.lvl {
	case DebugLevel:
		entry.Debug(e.msg)
	case InfoLevel:
		entry.Info(e.msg)
	case WarnLevel:
		entry.Warn(e.msg)
	case ErrorLevel:
		entry.Error(e.msg)
	case FatalLevel:
		entry.Fatal(e.msg)
	case PanicLevel:
		entry.Panic(e.msg)
	}
	zpool.Put(e)
}
