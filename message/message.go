/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package message

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/nabbar/telebridge/internal/namedlist"
)

// Message is a NamedList plus the extra metadata the bus and the bridge
// need: a capture timestamp, a broadcast flag, opaque user data, whether a
// handler accepted it, and a trace id for log correlation.
type Message struct {
	*namedlist.NamedList

	Name      string
	TimeUS    int64 // microseconds since epoch
	RetValue  string
	Broadcast bool
	Accepted  bool
	TraceID   string
	UserData  any

	// OriginID is the id of the bridge that originated this message, set
	// on every peer-originated message a bridge decodes. A relay checks
	// it against its own bridge id to implement the `reenter` setlocal
	// key: unless reentrance is allowed, a bridge must not be handed back
	// a message it generated itself.
	OriginID string
}

// New returns a Message named name, timestamped now.
func New(name string) *Message {
	return &Message{
		NamedList: namedlist.New(name),
		Name:      name,
		TimeUS:    time.Now().UnixMicro(),
	}
}

// Encode renders the message as a single `message` wire line:
//
//	%%<message:<msg-id>:<time-us>:<name>:<retValue>[:<paramName>=<paramValue>]*
//
// There is only one wire tag for `message` in either direction -- the
// engine dispatching to a peer, a peer answering that dispatch, and a
// peer originating a brand-new message all write `%%<message:`. settime
// controls whether the real timestamp is emitted or a zero one -- the
// reference's `setlocal settime false` escape hatch for scripts that
// want reproducible traces.
func (m *Message) Encode(id string, settime bool) string {
	ts := m.TimeUS
	if !settime {
		ts = 0
	}

	var sb strings.Builder
	sb.WriteString("%%<message:")
	sb.WriteString(Escape(id))
	sb.WriteByte(':')
	sb.WriteString(strconv.FormatInt(ts, 10))
	sb.WriteByte(':')
	sb.WriteString(Escape(m.Name))
	sb.WriteByte(':')
	sb.WriteString(Escape(m.RetValue))

	m.Each(func(name, value string) bool {
		sb.WriteByte(':')
		sb.WriteString(Escape(name))
		sb.WriteByte('=')
		sb.WriteString(Escape(value))
		return true
	})

	return sb.String()
}

// Decode parses the remainder of a `message` wire line (the tag already
// stripped by the caller) into id, the raw second field and a populated
// Message. field1's meaning is ambiguous in isolation: it is a time-us
// when this line is a fresh dispatch (ours or the peer's), or a processed
// flag when it is an answer to one we sent -- the caller decides which by
// checking its own pending-request table for id, not by inspecting this
// field or the line's wire direction marker. It returns the offset of the
// first malformed escape, or -1 on success.
func Decode(line string) (id string, field1 string, m *Message, badOffset int) {
	fields := splitUnescapedColon(line)
	if len(fields) < 3 {
		return "", "", nil, 0
	}

	var err int
	id, err = decodeField(fields[0])
	if err >= 0 {
		return id, "", nil, err
	}
	field1 = fields[1]

	name, err := decodeField(fields[2])
	if err >= 0 {
		return id, field1, nil, err
	}

	m = New(name)
	if len(fields) > 3 {
		ret, err := decodeField(fields[3])
		if err >= 0 {
			return id, field1, nil, err
		}
		m.RetValue = ret
	}

	var params []string
	if len(fields) > 4 {
		params = fields[4:]
	}
	for _, f := range params {
		eq := strings.IndexByte(f, '=')
		if eq < 0 {
			continue
		}
		pname, err := decodeField(f[:eq])
		if err >= 0 {
			return id, field1, nil, err
		}
		pval, err := decodeField(f[eq+1:])
		if err >= 0 {
			return id, field1, nil, err
		}
		m.Append(pname, pval)
	}

	return id, field1, m, -1
}

func decodeField(s string) (string, int) {
	v, off := Unescape(s)
	return v, off
}

// splitUnescapedColon splits on ':' that are not part of a '%X' escape
// sequence -- an escaped ':' is encoded as %:+0x40's ASCII value (0x7a,
// 'z'), never a literal ':', so a plain strings.Split on ':' is safe here
// because Escape never emits a bare ':'.
func splitUnescapedColon(s string) []string {
	return strings.Split(s, ":")
}

// TraceLine renders a short diagnostic form, used in debug logging.
func (m *Message) TraceLine() string {
	return fmt.Sprintf("%s[%s] trace=%s", m.Name, m.RetValue, m.TraceID)
}
