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

// Package listener accepts external-module peers over TCP or a Unix
// domain socket and hands each accepted connection to package extmodule
// as a new Bridge in RoleUnknown; the peer sets the role with a connect
// line, and Config has no per-listener role. Grounded on the accept-loop shape of the
// reference socket server (_examples/nabbar-golib socket package tests).
package listener

import (
	"fmt"
	"net"
	"sync"
	"sync/atomic"

	"github.com/nabbar/telebridge/bus"
	"github.com/nabbar/telebridge/extmodule"
	"github.com/nabbar/telebridge/internal/errors"
	"github.com/nabbar/telebridge/internal/logger"
)

// Config names one `[listener <name>]` section: network is "tcp" or
// "unix", address is a host:port or a socket path.
type Config struct {
	Name    string
	Network string
	Address string
}

// Listener accepts connections for one configured endpoint and registers
// each as a Bridge in reg.
type Listener struct {
	cfg Config
	eng bus.Engine
	reg *extmodule.Registry
	ecf extmodule.Config
	log *logger.Entry

	ln     net.Listener
	seq    atomic.Uint64
	wg     sync.WaitGroup
	closed atomic.Bool
}

// New binds cfg.Network/cfg.Address. The caller starts accepting with
// Serve in its own goroutine.
func New(cfg Config, eng bus.Engine, reg *extmodule.Registry, ecf extmodule.Config) (*Listener, error) {
	ln, err := net.Listen(cfg.Network, cfg.Address)
	if err != nil {
		return nil, errors.New(errors.CodeListenFailed, fmt.Sprintf("listen %s %s", cfg.Network, cfg.Address), err)
	}
	return &Listener{
		cfg: cfg,
		eng: eng,
		reg: reg,
		ecf: ecf,
		ln:  ln,
		log: logger.New("listener").With(logger.Fields{"name": cfg.Name}),
	}, nil
}

// Serve accepts connections until Close is called. Each accepted
// connection becomes a Bridge whose Run loop is driven on its own
// goroutine.
func (l *Listener) Serve() error {
	l.wg.Add(1)
	defer l.wg.Done()
	l.log.Infof("listening on %s %s", l.cfg.Network, l.cfg.Address)
	for {
		conn, err := l.ln.Accept()
		if err != nil {
			if l.closed.Load() {
				return nil
			}
			l.log.Warnf("accept error: %v", err)
			return errors.New(errors.CodeListenFailed, "accept", err)
		}

		id := fmt.Sprintf("%s-%d", l.cfg.Name, l.seq.Add(1))
		b := extmodule.New(id, extmodule.RoleUnknown, conn, l.eng, l.ecf)
		l.reg.Add(b)
		go b.Run()
	}
}

// Close stops accepting new connections and waits for the accept loop to
// return; already-accepted bridges are left running (the registry's
// HaltAll is the caller's tool for those).
func (l *Listener) Close() error {
	l.closed.Store(true)
	err := l.ln.Close()
	l.wg.Wait()
	return err
}

// Addr returns the bound network address, useful when Address was "::0"
// style auto-assignment.
func (l *Listener) Addr() net.Addr {
	return l.ln.Addr()
}
