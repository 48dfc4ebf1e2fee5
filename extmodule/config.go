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

// Package extmodule implements the external-module IPC bridge: process
// spawn, stream framing, the protocol state machine, per-connection
// message reception, watching, relay install, channel binding and
// graceful shutdown.
package extmodule

import "time"

// Role is the bridge's peer role, a tagged-variant in spirit even though
// the wire still encodes it as a string literal.
type Role int

const (
	RoleUnknown Role = iota
	RoleGlobal
	RoleChannel
)

func (r Role) String() string {
	switch r {
	case RoleGlobal:
		return "global"
	case RoleChannel:
		return "channel"
	default:
		return "unknown"
	}
}

func roleFromString(s string) (Role, bool) {
	switch s {
	case "global":
		return RoleGlobal, true
	case "channel":
		return RoleChannel, true
	default:
		return RoleUnknown, false
	}
}

// ChanMethod is the per-connection audio channel mode, restored from
// original_source/modules/extmodule.cpp (nochan/nodata/play/record/
// playrec) -- spec.md's distillation named only the fd 3/4 plumbing, not
// this enumeration.
type ChanMethod int

const (
	ChanMethodNone ChanMethod = iota
	ChanMethodNoData
	ChanMethodPlay
	ChanMethodRecord
	ChanMethodPlayRec
)

// Config holds every per-bridge tunable the wire protocol's `setlocal`
// command and the `[scripts]`/listener configuration can set.
type Config struct {
	Timeout      time.Duration // default 10s, general.timeout
	Reenter      bool
	SelfWatch    bool
	Restart      bool
	MaxQueue     int // clamp [0,10000], default 1000
	SetTime      bool
	Timebomb     bool
	TrackName    string // empty disables trackparam
	TrackParam   bool
	DebugName    string
	DebugLevel   int
	Reason       string
	BufSize      int           // clamp [2048,65536], default 8192
	WaitFlush    time.Duration // clamp [1ms,100ms], default 5ms
	RecvDieWait  time.Duration // clamp [0,200ms], default 60ms
	RecvCleanWait time.Duration // clamp [0,100ms], default 30ms
}

// DefaultConfig returns the spec-mandated defaults (§6).
func DefaultConfig() Config {
	return Config{
		Timeout:       10 * time.Second,
		MaxQueue:      1000,
		BufSize:       8192,
		WaitFlush:     5 * time.Millisecond,
		RecvDieWait:   60 * time.Millisecond,
		RecvCleanWait: 30 * time.Millisecond,
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampDuration(v, lo, hi time.Duration) time.Duration {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Normalize clamps every bounded field to the ranges spec.md §6 mandates.
func (c *Config) Normalize() {
	c.MaxQueue = clampInt(c.MaxQueue, 0, 10000)
	c.BufSize = clampInt(c.BufSize, 2048, 65536)
	c.WaitFlush = clampDuration(c.WaitFlush, time.Millisecond, 100*time.Millisecond)
	c.RecvDieWait = clampDuration(c.RecvDieWait, 0, 200*time.Millisecond)
	c.RecvCleanWait = clampDuration(c.RecvCleanWait, 0, 100*time.Millisecond)
	if c.RecvDieWait <= c.RecvCleanWait {
		c.RecvDieWait = c.RecvCleanWait + 10*time.Millisecond
	}
}
