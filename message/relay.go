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

// Receiver is implemented by anything a Relay can trampoline a dispatched
// message to, keyed by an integer id so one receiver can multiplex many
// installed names.
type Receiver interface {
	ReceivedRelay(id int, m *Message) bool
}

// Relay is a Handler whose Received call trampolines to an owning
// Receiver instead of a plain func, identified by RelayID. The bridge
// uses one Relay per peer-installed handler name.
type Relay struct {
	*Handler
	RelayID  int
	receiver Receiver
}

// NewRelay returns a Relay wired to call receiver.ReceivedRelay(id, ...)
// whenever a matching message is dispatched.
func NewRelay(name string, priority, id int, receiver Receiver) *Relay {
	r := &Relay{
		Handler:  NewHandler(name, priority),
		RelayID:  id,
		receiver: receiver,
	}
	r.Handler.Receive = func(m *Message) bool {
		if r.receiver == nil {
			return false
		}
		return r.receiver.ReceivedRelay(r.RelayID, m)
	}
	return r
}

// Detach clears the owning receiver so a dying bridge's relay stops
// trampolining even if a reference to the Relay outlives the bridge.
func (r *Relay) Detach() {
	r.receiver = nil
}
