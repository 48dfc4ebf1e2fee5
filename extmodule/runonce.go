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
	"github.com/google/uuid"
	"github.com/nabbar/telebridge/bus"
	"github.com/nabbar/telebridge/message"
)

// RunOnce implements the `[execute]` / msgexec-style one-shot mode
// restored from original_source/modules/extmodule.cpp: spawn program,
// hand it exactly one message over the protocol stream, wait for the
// reply (or the process exiting on its own) and tear the bridge down --
// no watches, no installs, the child is expected to run once and quit.
func RunOnce(program string, args []string, msg *message.Message, eng bus.Engine, cfg Config) (*message.Message, error) {
	b, err := Spawn("run:"+uuid.NewString(), SpawnOptions{Program: program, Args: args, Chan: ChanMethodNone}, eng, cfg)
	if err != nil {
		return nil, err
	}

	go b.Run()
	defer b.Die("run-once complete")

	return b.SendMessage(msg)
}
