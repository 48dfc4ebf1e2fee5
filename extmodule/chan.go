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
	"io"
	"sync"
	"time"

	"github.com/nabbar/telebridge/internal/datablock"
)

// audioBytesPerSecond is the nominal raw rate spec.md §4.11 fixes for the
// fd 3/4 pipes: 8 kHz, 16-bit, mono slin.
const audioBytesPerSecond = 16000

// pacer enforces a wall-clock byte rate with a lazily replenished token
// bucket, capped at one second of burst, so a caller pushing or pulling
// audio in bursts is held to the real-time rate the child expects instead
// of flooding or racing ahead of it.
type pacer struct {
	mu     sync.Mutex
	rate   int
	tokens float64
	last   time.Time
}

func newPacer(rate int) *pacer {
	return &pacer{rate: rate, last: time.Now()}
}

// wait blocks until n bytes' worth of budget is available, then spends it.
func (p *pacer) wait(n int) {
	if n <= 0 || p.rate <= 0 {
		return
	}
	p.mu.Lock()
	now := time.Now()
	p.tokens += now.Sub(p.last).Seconds() * float64(p.rate)
	p.last = now
	if p.tokens > float64(p.rate) {
		p.tokens = float64(p.rate)
	}

	need := float64(n) - p.tokens
	if need <= 0 {
		p.tokens -= float64(n)
		p.mu.Unlock()
		return
	}
	p.tokens = 0
	p.mu.Unlock()

	time.Sleep(time.Duration(need / float64(p.rate) * float64(time.Second)))
}

// ChanMethod string forms, as accepted in a `[scripts]`/`[execute]`
// program argument list restored from original_source (nochan/nodata/
// play/record/playrec) -- spec.md's distillation only named the fd 3/4
// plumbing, not this enumeration.
func ParseChanMethod(s string) ChanMethod {
	switch s {
	case "nodata":
		return ChanMethodNoData
	case "play":
		return ChanMethodPlay
	case "record":
		return ChanMethodRecord
	case "playrec":
		return ChanMethodPlayRec
	default:
		return ChanMethodNone
	}
}

func (c ChanMethod) String() string {
	switch c {
	case ChanMethodNoData:
		return "nodata"
	case ChanMethodPlay:
		return "play"
	case ChanMethodRecord:
		return "record"
	case ChanMethodPlayRec:
		return "playrec"
	default:
		return "nochan"
	}
}

// WantsPlay reports whether the child produces audio on fd4 for the
// parent to read and play toward the far end.
func (c ChanMethod) WantsPlay() bool { return c == ChanMethodPlay || c == ChanMethodPlayRec }

// WantsRecord reports whether the channel accepts audio from the far end
// toward the child (fd3 is writable by the parent).
func (c ChanMethod) WantsRecord() bool { return c == ChanMethodRecord || c == ChanMethodPlayRec }

// PushAudio writes one block of linear, A-law or mu-law samples toward
// the child's fd3, converting to the format the channel was bound with
// and pacing the write to the nominal 16000 B/s wall-clock rate (spec.md
// §4.11) so a caller flushing several buffers at once does not outrun
// what a live call could actually produce. It is a no-op when the
// channel was spawned with ChanMethodNone or ChanMethodPlay (fd3 absent
// or not expected to carry data).
func (b *Bridge) PushAudio(block *datablock.DataBlock, format datablock.Format, dstFormat datablock.Format) error {
	if b.audio == nil || !b.chanMethod.WantsRecord() {
		return nil
	}
	data := block.Bytes()
	if format != dstFormat {
		data = datablock.Convert(data, format, dstFormat)
	}
	b.audio.inPacer.wait(len(data))
	_, err := b.audio.in.Write(data)
	return err
}

// PullAudio reads up to len(buf) converted samples produced by the
// child on fd4, pacing delivery to the same nominal rate PushAudio
// writes at so a caller polling faster than real time does not observe
// samples before their nominal playout time. It returns io.EOF once the
// channel (and its audio pipe) has been torn down.
func (b *Bridge) PullAudio(buf []byte, srcFormat, dstFormat datablock.Format) (int, error) {
	if b.audio == nil || !b.chanMethod.WantsPlay() {
		return 0, io.EOF
	}
	n, err := b.audio.out.Read(buf)
	if n > 0 {
		b.audio.outPacer.wait(n)
		if srcFormat != dstFormat {
			converted := datablock.Convert(buf[:n], srcFormat, dstFormat)
			n = copy(buf, converted)
		}
	}
	return n, err
}
