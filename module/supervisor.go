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

package module

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/nabbar/telebridge/bus"
	"github.com/nabbar/telebridge/config"
	"github.com/nabbar/telebridge/extmodule"
	"github.com/nabbar/telebridge/internal/logger"
)

// scriptSupervisor keeps one `[scripts]` entry's child process running,
// respawning it after a backoff when Restart is set, matching the
// reference's general.restart behaviour for long-lived external scripts.
type scriptSupervisor struct {
	entry config.ScriptEntry
	eng   bus.Engine
	reg   *extmodule.Registry
	cfg   extmodule.Config
	log   *logger.Entry

	stop    chan struct{}
	stopped atomic.Bool
	wg      sync.WaitGroup
}

func newScriptSupervisor(entry config.ScriptEntry, eng bus.Engine, reg *extmodule.Registry, cfg extmodule.Config) *scriptSupervisor {
	return &scriptSupervisor{
		entry: entry,
		eng:   eng,
		reg:   reg,
		cfg:   cfg,
		log:   logger.New("script").With(logger.Fields{"name": entry.Name}),
		stop:  make(chan struct{}),
	}
}

func (s *scriptSupervisor) Start() {
	s.wg.Add(1)
	go s.run()
}

func (s *scriptSupervisor) Stop() {
	if s.stopped.CompareAndSwap(false, true) {
		close(s.stop)
	}
	s.wg.Wait()
}

func (s *scriptSupervisor) run() {
	defer s.wg.Done()
	backoff := 500 * time.Millisecond
	const maxBackoff = 30 * time.Second

	for {
		b, err := extmodule.Spawn(s.entry.Name, extmodule.SpawnOptions{
			Program: s.entry.Program,
			Args:    s.entry.Args,
			Chan:    s.entry.Chan,
		}, s.eng, s.cfg)
		if err != nil {
			s.log.Warnf("spawn failed: %v", err)
		} else {
			s.reg.Add(b)
			go b.Run()

			select {
			case <-b.Done():
			case <-s.stop:
				b.Die("supervisor stopping")
				return
			}
			backoff = 500 * time.Millisecond
		}

		if !s.entry.Restart {
			return
		}

		select {
		case <-s.stop:
			return
		case <-time.After(backoff):
		}
		if backoff < maxBackoff {
			backoff *= 2
		}
	}
}
