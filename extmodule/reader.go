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
	"bufio"
	"errors"
	"io"
)

// readLoop pulls newline-delimited protocol lines from the peer and hands
// each to processInbound, per spec.md §4.8. A line longer than cfg.BufSize
// is treated as a peer protocol violation and closes the bridge, matching
// the reference's fixed-size line buffer rather than growing unbounded.
func (b *Bridge) readLoop() {
	for {
		raw, err := b.reader.ReadSlice('\n')
		if errors.Is(err, bufio.ErrBufferFull) {
			b.log.Warnf("line exceeded buffer size %d, closing", b.cfg.BufSize)
			return
		}
		if len(raw) > 0 {
			b.processInbound(trimEOL(string(raw)))
		}
		if err != nil {
			if err != io.EOF {
				b.log.Warnf("read error: %v", err)
			}
			return
		}
	}
}

func trimEOL(s string) string {
	n := len(s)
	for n > 0 && (s[n-1] == '\n' || s[n-1] == '\r') {
		n--
	}
	return s[:n]
}
