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

// Package module wires every other package into one running process:
// the bus, the bridge registry, the configured listeners and scripts,
// and the Prometheus gauges exported for operators.
package module

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/viper"

	"github.com/nabbar/telebridge/bus"
	"github.com/nabbar/telebridge/config"
	"github.com/nabbar/telebridge/extmodule"
	"github.com/nabbar/telebridge/internal/logger"
	"github.com/nabbar/telebridge/listener"
)

// Metrics are the gauges this module's SPEC_FULL.md DOMAIN STACK entry
// commits to exporting.
type Metrics struct {
	Bridges prometheus.Gauge
	Pending prometheus.Gauge
}

// NewMetrics registers the module's gauges on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Bridges: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "external_bridges_total",
			Help: "Number of currently connected or spawned external-module bridges.",
		}),
		Pending: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "external_pending_requests",
			Help: "Number of dispatched messages awaiting a peer reply across all bridges.",
		}),
	}
	reg.MustRegister(m.Bridges, m.Pending)
	return m
}

// Module is the assembled runtime: bus, registry, listeners and script
// supervisors.
type Module struct {
	log *logger.Entry

	eng bus.Engine
	reg *extmodule.Registry
	met *Metrics

	general   *config.General
	listeners *config.Listeners
	scripts   *config.Scripts

	running []*listener.Listener
	sup     []*scriptSupervisor

	mu sync.Mutex
}

// New assembles a Module from a loaded component Set plus a prometheus
// registerer; the caller is expected to have already called
// (*config.Set).LoadAll.
func New(general *config.General, listeners *config.Listeners, scripts *config.Scripts, reg prometheus.Registerer) *Module {
	eng := bus.New(general.Workers, general.QueueDepth)
	return &Module{
		log:       logger.New("module"),
		eng:       eng,
		reg:       extmodule.NewRegistry(),
		met:       NewMetrics(reg),
		general:   general,
		listeners: listeners,
		scripts:   scripts,
	}
}

// Bus exposes the engine so callers outside this package (e.g. the
// `external execute` CLI path) can enqueue or dispatch directly.
func (m *Module) Bus() bus.Engine { return m.eng }

// Start binds every configured listener and launches every configured
// long-running script under supervision.
func (m *Module) Start() error {
	for _, lc := range m.listeners.Entries() {
		ln, err := listener.New(lc, m.eng, m.reg, m.general.BridgeConfig())
		if err != nil {
			return fmt.Errorf("listener %s: %w", lc.Name, err)
		}
		m.running = append(m.running, ln)
		go func(ln *listener.Listener) {
			if err := ln.Serve(); err != nil {
				m.log.Warnf("listener stopped: %v", err)
			}
		}(ln)
	}

	for _, se := range m.scripts.ScriptEntries() {
		sup := newScriptSupervisor(se, m.eng, m.reg, m.general.BridgeConfig())
		m.sup = append(m.sup, sup)
		sup.Start()
	}

	return nil
}

// Stop halts every listener, every script supervisor, every live bridge
// and the bus itself, in that order. Live bridges are always halted; the
// general.halt_cleanup key is not read.
func (m *Module) Stop() {
	for _, ln := range m.running {
		_ = ln.Close()
	}
	for _, sup := range m.sup {
		sup.Stop()
	}
	m.reg.HaltAll("module shutdown")
	m.eng.Close()
}

// Status renders a one-shot human-readable snapshot for `external info`
// and updates the exported gauges as a side effect.
func (m *Module) Status() string {
	bridges := m.reg.Count()
	pending := m.reg.PendingTotal()
	m.met.Bridges.Set(float64(bridges))
	m.met.Pending.Set(float64(pending))
	return fmt.Sprintf("bridges=%d pending=%d listeners=%d scripts=%d",
		bridges, pending, len(m.running), len(m.sup))
}

// NewViper is a small convenience constructor kept here (rather than in
// package config) so cmd/external only needs to import this package and
// config to wire a process together.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("TELEBRIDGE")
	v.AutomaticEnv()
	return v
}
