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

import "sync/atomic"

var trackingSeq atomic.Uint64

// Handler matches messages by name and optional parameter filter, with a
// priority defining dispatch order (smaller runs first).
type Handler struct {
	MsgName    string
	FilterName string
	FilterVal  string
	Priority   int
	trackingID uint64

	Receive func(m *Message) bool
}

// NewHandler returns a Handler with a fresh tracking id, ready to have its
// Receive func set (or to be embedded by Relay).
func NewHandler(name string, priority int) *Handler {
	return &Handler{
		MsgName:    name,
		Priority:   priority,
		trackingID: trackingSeq.Add(1),
	}
}

// TrackingID returns the installation-order id used for diagnostics and
// as the stable handle uninstall() looks handlers up by.
func (h *Handler) TrackingID() uint64 { return h.trackingID }

// Matches reports whether m should be offered to this handler.
func (h *Handler) Matches(m *Message) bool {
	if h.MsgName != "" && h.MsgName != m.Name {
		return false
	}
	if h.FilterName == "" {
		return true
	}
	v, ok := m.GetParam(h.FilterName)
	return ok && v == h.FilterVal
}

// Received invokes the handler's Receive callback, defaulting to false
// when none was set.
func (h *Handler) Received(m *Message) bool {
	if h.Receive == nil {
		return false
	}
	return h.Receive(m)
}
