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

package extmodule

import (
	"strconv"
	"strings"
	"time"

	"github.com/nabbar/telebridge/message"
)

// Command tags: the keyword that follows the `%%>` or `%%<` marker at the
// start of a wire line.
const (
	tagConnect   = "connect"
	tagInstall   = "install"
	tagUninstall = "uninstall"
	tagWatch     = "watch"
	tagUnwatch   = "unwatch"
	tagMessage   = "message"
	tagOutput    = "output"
	tagDebug     = "debug"
	tagSetlocal  = "setlocal"
	tagQuit      = "quit"
)

// line is one parsed protocol line: direction '>' (peer -> us) or '<'
// (request/reply correlation, used only for message), the command tag,
// and the raw, still-escaped remainder.
type line struct {
	reply bool // true for "%%<..." lines
	tag   string
	rest  string
}

// parseLine splits a raw wire line ("%%>tag:rest" or "%%<tag:rest") into
// its parts, per spec.md §4.7. It returns ok=false for anything not
// beginning with the "%%" marker.
func parseLine(raw string) (l line, ok bool) {
	if len(raw) < 3 || raw[0] != '%' || raw[1] != '%' {
		return line{}, false
	}
	switch raw[2] {
	case '>':
		l.reply = false
	case '<':
		l.reply = true
	default:
		return line{}, false
	}
	body := raw[3:]
	colon := strings.IndexByte(body, ':')
	if colon < 0 {
		l.tag = body
		return l, true
	}
	l.tag = body[:colon]
	l.rest = body[colon+1:]
	return l, true
}

// processInbound dispatches one parsed peer line to the bridge's protocol
// handling, per the state machine in spec.md §4.7.
func (b *Bridge) processInbound(raw string) {
	l, ok := parseLine(raw)
	if !ok {
		b.log.Warnf("malformed line ignored: %q", raw)
		return
	}

	switch l.tag {
	case tagConnect:
		b.handleConnect(l.rest)
	case tagInstall:
		b.handleInstall(l.rest)
	case tagUninstall:
		b.handleUninstall(l.rest)
	case tagWatch:
		b.handleWatch(l.rest, true)
	case tagUnwatch:
		b.handleWatch(l.rest, false)
	case tagMessage:
		b.handleMessage(l.rest)
	case tagOutput:
		b.log.Infof("peer output: %s", message.UnescapeOrEmpty(l.rest))
	case tagDebug:
		b.handleDebug(l.rest)
	case tagSetlocal:
		b.handleSetlocal(l.rest)
	case tagQuit:
		b.log.Infof("peer requested quit")
		_ = b.writeLine("%%<quit")
		b.Die("peer quit")
	default:
		b.log.Warnf("unknown protocol tag %q ignored", l.tag)
	}
}

func splitN(s string, n int) []string {
	return strings.SplitN(s, ":", n)
}

func atoiDefault(s string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return v
}

// msToDuration converts a `setlocal timeout` value (milliseconds, per the
// reference's wire convention) into a time.Duration. A non-positive value
// disables the timeout (SendMessage then waits forever).
func msToDuration(ms int) time.Duration {
	if ms <= 0 {
		return 0
	}
	return time.Duration(ms) * time.Millisecond
}
