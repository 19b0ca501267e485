package cache

import (
	"fmt"

	"github.com/tinylib/msgp/msgp"

	"github.com/yaklabco/turbocop/pkg/config"
	"github.com/yaklabco/turbocop/pkg/lint"
)

// formatVersion is bumped whenever the entry encoding changes. Entries of
// another version are treated as foreign.
const formatVersion = 1

// Entry is one cached result, stored under either layer.
type Entry struct {
	Version     int
	SessionHash string
	ContentHash string
	Path        string
	ModTime     int64
	Size        int64
	Offenses    []lint.Offense
}

const (
	fieldVersion  = "version"
	fieldSession  = "session_hash"
	fieldContent  = "content_hash"
	fieldPath     = "path"
	fieldModTime  = "mtime"
	fieldSize     = "size"
	fieldOffenses = "offenses"

	fieldLine      = "line"
	fieldColumn    = "column"
	fieldSeverity  = "severity"
	fieldCop       = "cop_name"
	fieldMessage   = "message"
	fieldCorrected = "corrected"
)

// MarshalMsg implements msgp.Marshaler.
func (e *Entry) MarshalMsg(b []byte) ([]byte, error) {
	o := msgp.Require(b, e.Msgsize())
	o = msgp.AppendMapHeader(o, 7)
	o = msgp.AppendString(o, fieldVersion)
	o = msgp.AppendInt(o, e.Version)
	o = msgp.AppendString(o, fieldSession)
	o = msgp.AppendString(o, e.SessionHash)
	o = msgp.AppendString(o, fieldContent)
	o = msgp.AppendString(o, e.ContentHash)
	o = msgp.AppendString(o, fieldPath)
	o = msgp.AppendString(o, e.Path)
	o = msgp.AppendString(o, fieldModTime)
	o = msgp.AppendInt64(o, e.ModTime)
	o = msgp.AppendString(o, fieldSize)
	o = msgp.AppendInt64(o, e.Size)
	o = msgp.AppendString(o, fieldOffenses)
	o = msgp.AppendArrayHeader(o, uint32(len(e.Offenses))) //nolint:gosec // offense counts fit in uint32
	for i := range e.Offenses {
		o = appendOffense(o, &e.Offenses[i])
	}
	return o, nil
}

func appendOffense(o []byte, off *lint.Offense) []byte {
	o = msgp.AppendMapHeader(o, 6)
	o = msgp.AppendString(o, fieldLine)
	o = msgp.AppendInt(o, off.Line)
	o = msgp.AppendString(o, fieldColumn)
	o = msgp.AppendInt(o, off.Column)
	o = msgp.AppendString(o, fieldSeverity)
	o = msgp.AppendString(o, off.Severity.String())
	o = msgp.AppendString(o, fieldCop)
	o = msgp.AppendString(o, off.CopName)
	o = msgp.AppendString(o, fieldMessage)
	o = msgp.AppendString(o, off.Message)
	o = msgp.AppendString(o, fieldCorrected)
	o = msgp.AppendBool(o, off.Corrected)
	return o
}

// UnmarshalMsg implements msgp.Unmarshaler. Unknown keys are skipped.
func (e *Entry) UnmarshalMsg(bts []byte) ([]byte, error) {
	fields, bts, err := msgp.ReadMapHeaderBytes(bts)
	if err != nil {
		return bts, msgp.WrapError(err)
	}

	for range fields {
		var key []byte
		key, bts, err = msgp.ReadMapKeyZC(bts)
		if err != nil {
			return bts, msgp.WrapError(err)
		}
		switch string(key) {
		case fieldVersion:
			e.Version, bts, err = msgp.ReadIntBytes(bts)
		case fieldSession:
			e.SessionHash, bts, err = msgp.ReadStringBytes(bts)
		case fieldContent:
			e.ContentHash, bts, err = msgp.ReadStringBytes(bts)
		case fieldPath:
			e.Path, bts, err = msgp.ReadStringBytes(bts)
		case fieldModTime:
			e.ModTime, bts, err = msgp.ReadInt64Bytes(bts)
		case fieldSize:
			e.Size, bts, err = msgp.ReadInt64Bytes(bts)
		case fieldOffenses:
			bts, err = e.readOffenses(bts)
		default:
			bts, err = msgp.Skip(bts)
		}
		if err != nil {
			return bts, msgp.WrapError(err, string(key))
		}
	}
	return bts, nil
}

func (e *Entry) readOffenses(bts []byte) ([]byte, error) {
	count, bts, err := msgp.ReadArrayHeaderBytes(bts)
	if err != nil {
		return bts, err
	}
	e.Offenses = make([]lint.Offense, count)
	for i := range e.Offenses {
		bts, err = readOffense(bts, &e.Offenses[i])
		if err != nil {
			return bts, msgp.WrapError(err, i)
		}
	}
	return bts, nil
}

func readOffense(bts []byte, off *lint.Offense) ([]byte, error) {
	fields, bts, err := msgp.ReadMapHeaderBytes(bts)
	if err != nil {
		return bts, err
	}
	for range fields {
		var key []byte
		key, bts, err = msgp.ReadMapKeyZC(bts)
		if err != nil {
			return bts, err
		}
		switch string(key) {
		case fieldLine:
			off.Line, bts, err = msgp.ReadIntBytes(bts)
		case fieldColumn:
			off.Column, bts, err = msgp.ReadIntBytes(bts)
		case fieldSeverity:
			var name string
			name, bts, err = msgp.ReadStringBytes(bts)
			if err == nil {
				off.Severity, err = config.ParseSeverity(name)
			}
		case fieldCop:
			off.CopName, bts, err = msgp.ReadStringBytes(bts)
		case fieldMessage:
			off.Message, bts, err = msgp.ReadStringBytes(bts)
		case fieldCorrected:
			off.Corrected, bts, err = msgp.ReadBoolBytes(bts)
		default:
			bts, err = msgp.Skip(bts)
		}
		if err != nil {
			return bts, fmt.Errorf("%s: %w", key, err)
		}
	}
	return bts, nil
}

// Msgsize returns an upper bound of the encoded size.
func (e *Entry) Msgsize() int {
	s := msgp.MapHeaderSize +
		len(fieldVersion) + msgp.StringPrefixSize + msgp.IntSize +
		len(fieldSession) + msgp.StringPrefixSize*2 + len(e.SessionHash) +
		len(fieldContent) + msgp.StringPrefixSize*2 + len(e.ContentHash) +
		len(fieldPath) + msgp.StringPrefixSize*2 + len(e.Path) +
		len(fieldModTime) + msgp.StringPrefixSize + msgp.Int64Size +
		len(fieldSize) + msgp.StringPrefixSize + msgp.Int64Size +
		len(fieldOffenses) + msgp.StringPrefixSize + msgp.ArrayHeaderSize
	for i := range e.Offenses {
		off := &e.Offenses[i]
		s += msgp.MapHeaderSize + 6*msgp.StringPrefixSize + 64 +
			2*msgp.IntSize + msgp.BoolSize +
			3*msgp.StringPrefixSize + len(off.CopName) + len(off.Message) + len("convention")
	}
	return s
}
