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

	"github.com/nabbar/telebridge/message"
)

// handleConnect processes the peer's opening `%%>connect:role[:version]`
// line (spec.md §4.7 state S0 -> S1). An unrecognised role leaves the
// bridge in RoleUnknown but does not close the connection -- the
// reference tolerates a peer that never negotiates and simply treats it
// as having no special privileges.
func (b *Bridge) handleConnect(rest string) {
	parts := splitN(rest, 2)
	roleStr := parts[0]
	role, ok := roleFromString(roleStr)
	if !ok {
		b.log.Warnf("connect with unknown role %q", roleStr)
		role = RoleUnknown
	}

	b.mu.Lock()
	b.role = role
	b.mu.Unlock()

	b.log.Infof("peer connected as %s", role)

	if b.cfg.SelfWatch {
		b.installWatchAll()
	}
}

// handleInstall processes `%%>install:priority:name[:filter-name:filter-
// value]`, registering a Relay on the bus so future dispatches of name
// are forwarded to the peer, then replies `%%<install:<prio>:<name>:<ok>`
// per spec.md §4.7.
func (b *Bridge) handleInstall(rest string) {
	fields := splitN(rest, 4)
	if len(fields) < 2 {
		b.log.Warnf("malformed install line: %q", rest)
		return
	}
	priority := atoiDefault(fields[0], 100)
	name := fields[1]

	b.mu.Lock()
	if _, exists := b.relays[name]; exists {
		b.mu.Unlock()
		b.log.Warnf("duplicate install for %q ignored", name)
		b.writeInstallReply(priority, name, false)
		return
	}
	b.mu.Unlock()

	r := message.NewRelay(name, priority, b.nextRelayID(), b)
	if len(fields) >= 4 {
		r.FilterName = fields[2]
		r.FilterVal = fields[3]
	}

	b.mu.Lock()
	b.relays[name] = r
	b.mu.Unlock()

	b.eng.Install(r.Handler)
	b.log.Debugf("installed handler for %q at priority %d", name, priority)
	b.writeInstallReply(priority, name, true)
}

func (b *Bridge) writeInstallReply(priority int, name string, ok bool) {
	_ = b.writeLine("%%<install:" + strconv.Itoa(priority) + ":" + message.Escape(name) + ":" + boolStr(ok))
}

// handleUninstall processes `%%>uninstall:name`, replying
// `%%<uninstall:<prio>:<name>:<ok>` with the relay's actual priority.
func (b *Bridge) handleUninstall(rest string) {
	name := strings.TrimSpace(rest)
	b.mu.Lock()
	r, ok := b.relays[name]
	if ok {
		delete(b.relays, name)
	}
	b.mu.Unlock()

	if !ok {
		_ = b.writeLine("%%<uninstall:0:" + message.Escape(name) + ":false")
		return
	}

	r.Detach()
	b.eng.Uninstall(r.Handler)
	b.log.Debugf("uninstalled handler for %q", name)
	_ = b.writeLine("%%<uninstall:" + strconv.Itoa(r.Priority) + ":" + message.Escape(name) + ":true")
}

// handleWatch processes `%%>watch:name` / `%%>unwatch:name`: a watch is a
// non-intercepting observer, installed at the lowest possible priority so
// it never steals a message another handler would have accepted. The
// implementation reuses Relay/Handler but the Receive callback always
// returns false. Replies `%%<watch:<name>:<ok>` / `%%<unwatch:<name>:<ok>`
// per spec.md §4.7.
func (b *Bridge) handleWatch(rest string, add bool) {
	name := strings.TrimSpace(rest)
	ok := b.setWatch(name, add)

	tag := "watch"
	if !add {
		tag = "unwatch"
	}
	_ = b.writeLine("%%<" + tag + ":" + message.Escape(name) + ":" + boolStr(ok))
}

// setWatch installs or removes the watch relay for name, without writing
// any wire reply -- the config-driven selfwatch escape hatch uses this
// directly since it is not answering a peer command.
func (b *Bridge) setWatch(name string, add bool) bool {
	key := "watch:" + name

	if !add {
		b.mu.Lock()
		r, ok := b.relays[key]
		if ok {
			delete(b.relays, key)
		}
		delete(b.watching, name)
		b.mu.Unlock()
		if ok {
			r.Detach()
			b.eng.Uninstall(r.Handler)
		}
		return ok
	}

	b.mu.Lock()
	if _, exists := b.relays[key]; exists {
		b.mu.Unlock()
		return false
	}
	b.watching[name] = struct{}{}
	b.mu.Unlock()

	h := message.NewHandler(name, 1<<30)
	h.Receive = func(m *message.Message) bool {
		if b.Dying() {
			return false
		}
		_ = b.writeLine(m.Encode("", b.cfg.SetTime))
		return false
	}
	r := &message.Relay{Handler: h}

	b.mu.Lock()
	b.relays[key] = r
	b.mu.Unlock()

	b.eng.Install(h)
	b.log.Debugf("watching %q", name)
	return true
}

// installWatchAll is the general.selfwatch escape hatch: install a
// catch-all watch handler so a script can see every message flowing
// through the bus without listing each name.
func (b *Bridge) installWatchAll() {
	b.setWatch("", true)
}

// handleDebug processes `%%>debug:<level>:<text>`, routing it through the
// bridge's own logger at a level clamped to the reference's four buckets
// (error/warn/info/debug), grounded on extmodule.cpp's debugmsg handling.
// There is no reply for this tag (spec.md §4.7 table).
func (b *Bridge) handleDebug(rest string) {
	fields := splitN(rest, 2)
	level := atoiDefault(fields[0], 0)
	text := ""
	if len(fields) > 1 {
		text = message.UnescapeOrEmpty(fields[1])
	}

	switch {
	case level <= 1:
		b.log.Errorf("peer debug: %s", text)
	case level == 2:
		b.log.Warnf("peer debug: %s", text)
	case level == 3:
		b.log.Infof("peer debug: %s", text)
	default:
		b.log.Debugf("peer debug: %s", text)
	}
}

// handleMessage processes every `%%<message:` line, per spec.md §4.7 and
// §9 Open Question #1: there is a single wire tag for both directions,
// disambiguated only by whether id is still present in the pending-
// request table, never by the line's wire direction marker. A match
// resolves the waiting SendMessage call; anything else -- including an
// id that does not (or no longer) match -- is treated as a peer-
// originated new message, retained and dispatched rather than dropped.
func (b *Bridge) handleMessage(rest string) {
	id, field1, m, badOffset := message.Decode(rest)
	if badOffset >= 0 {
		b.log.Warnf("malformed message line at offset %d: %q", badOffset, rest)
		return
	}
	if m == nil {
		return
	}

	if id != "" {
		m.Accepted = parseBool(field1, false)
		if b.pending.Resolve(id, m) {
			return
		}
	}

	b.log.Infof("peer-originated message %q (id %q) with no matching request", m.Name, id)

	if ts, err := strconv.ParseInt(field1, 10, 64); err == nil {
		m.TimeUS = ts
	}
	m.OriginID = b.id
	if b.cfg.TrackParam && b.cfg.TrackName != "" {
		m.SetParam(b.cfg.TrackName, b.id, false)
	}
	m.Broadcast = id == ""

	if b.deferIfWaiting(id, m) {
		return
	}
	b.dispatchNew(id, m)
}

// dispatchNew enqueues or synchronously dispatches a peer-originated
// message and, if it carried an id, acks the outcome back to the peer.
func (b *Bridge) dispatchNew(id string, m *message.Message) {
	var ok bool
	if m.Broadcast {
		b.eng.Enqueue(m)
		ok = true
	} else {
		ok = b.eng.Dispatch(m)
	}
	if id != "" {
		b.ackMessage(id, ok, m)
	}
}

// ackMessage writes the `%%<message` reply line answering a peer request
// keyed by id.
func (b *Bridge) ackMessage(id string, processed bool, m *message.Message) {
	var sb strings.Builder
	sb.WriteString("%%<message:")
	sb.WriteString(message.Escape(id))
	sb.WriteByte(':')
	sb.WriteString(boolStr(processed))
	sb.WriteByte(':')
	sb.WriteString(message.Escape(m.Name))
	sb.WriteByte(':')
	sb.WriteString(message.Escape(m.RetValue))
	m.Each(func(name, value string) bool {
		sb.WriteByte(':')
		sb.WriteString(message.Escape(name))
		sb.WriteByte('=')
		sb.WriteString(message.Escape(value))
		return true
	})
	_ = b.writeLine(sb.String())
}

// handleSetlocal processes `%%>setlocal:name:value`, the per-connection
// tunables spec.md §4.7 names. An empty value queries the current setting
// instead of writing it. Every recognised key -- including the read-only
// ones this bridge can only partially introspect (engine.*, config.*,
// loaded.*) -- gets a `%%<setlocal:<key>:<value>:<ok>` reply; an unknown
// key replies with ok=false.
func (b *Bridge) handleSetlocal(rest string) {
	fields := splitN(rest, 2)
	name := fields[0]
	value := ""
	if len(fields) > 1 {
		value = fields[1]
	}
	query := value == ""

	b.mu.Lock()
	ok := true
	var current string

	switch {
	case name == "reenter":
		if !query {
			b.cfg.Reenter = parseBool(value, b.cfg.Reenter)
		}
		current = boolStr(b.cfg.Reenter)
	case name == "selfwatch":
		if !query {
			b.cfg.SelfWatch = parseBool(value, b.cfg.SelfWatch)
		}
		current = boolStr(b.cfg.SelfWatch)
	case name == "restart":
		if !query {
			b.cfg.Restart = parseBool(value, b.cfg.Restart)
		}
		current = boolStr(b.cfg.Restart)
	case name == "settime":
		if !query {
			b.cfg.SetTime = parseBool(value, b.cfg.SetTime)
		}
		current = boolStr(b.cfg.SetTime)
	case name == "trackparam":
		if !query {
			b.cfg.TrackName = value
			b.cfg.TrackParam = value != ""
		}
		current = b.cfg.TrackName
	case name == "timeout":
		if !query {
			if ms, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
				b.cfg.Timeout = msToDuration(ms)
			} else {
				ok = false
			}
		}
		current = strconv.FormatInt(b.cfg.Timeout.Milliseconds(), 10)
	case name == "maxqueue":
		if !query {
			if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
				b.cfg.MaxQueue = clampInt(n, 0, 10000)
			} else {
				ok = false
			}
		}
		current = strconv.Itoa(b.cfg.MaxQueue)
	case name == "bufsize":
		if !query {
			if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
				b.cfg.BufSize = clampInt(n, 2048, 65536)
			} else {
				ok = false
			}
		}
		current = strconv.Itoa(b.cfg.BufSize)
	case name == "timebomb":
		if !query {
			b.cfg.Timebomb = parseBool(value, b.cfg.Timebomb)
		}
		current = boolStr(b.cfg.Timebomb)
	case name == "reason":
		if !query {
			b.cfg.Reason = value
		}
		current = b.cfg.Reason
	case name == "debuglevel":
		if !query {
			if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
				b.cfg.DebugLevel = n
			} else {
				ok = false
			}
		}
		current = strconv.Itoa(b.cfg.DebugLevel)
	case name == "debugname":
		if !query {
			b.cfg.DebugName = value
		}
		current = b.cfg.DebugName
	case name == "setdata":
		// The reference stores this as an opaque blob on the channel; this
		// bridge has no channel-data slot, so it round-trips as a no-op.
		current = value
	case name == "id":
		ok = query
		current = b.id
	case name == "disconnected":
		ok = query
		current = boolStr(b.dying.Load())
	case name == "runid":
		ok = query
		current = b.id
	case strings.HasPrefix(name, "engine."):
		ok = query
		current = ""
	case strings.HasPrefix(name, "config."):
		ok = query
		current = ""
	case strings.HasPrefix(name, "loaded."):
		ok = query
		current = "false"
	default:
		ok = false
		current = value
	}
	b.mu.Unlock()

	_ = b.writeLine("%%<setlocal:" + message.Escape(name) + ":" + message.Escape(current) + ":" + boolStr(ok))
}

func parseBool(s string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "on", "1":
		return true
	case "false", "no", "off", "0":
		return false
	default:
		return def
	}
}

func boolStr(ok bool) string {
	if ok {
		return "true"
	}
	return "false"
}
