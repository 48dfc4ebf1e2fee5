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

package config_test

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/telebridge/config"
	"github.com/nabbar/telebridge/extmodule"
)

var _ = Describe("General", func() {
	var (
		v   *viper.Viper
		g   *config.General
		cmd *cobra.Command
	)

	BeforeEach(func() {
		v = viper.New()
		g = config.NewGeneral()
		g.Init("general", v)
		cmd = &cobra.Command{Use: "test"}
	})

	It("registers defaults matching extmodule.DefaultConfig", func() {
		Expect(g.RegisterFlags(cmd)).To(Succeed())
		Expect(g.Load()).To(Succeed())

		cfg := g.BridgeConfig()
		Expect(cfg.MaxQueue).To(Equal(1000))
		Expect(cfg.Timeout).To(Equal(10 * time.Second))
		Expect(cfg.TrackParam).To(BeFalse())
	})

	It("loads operator overrides set directly on viper", func() {
		v.Set("general.timeout", 500)
		v.Set("general.trackparam", "callid")

		Expect(g.RegisterFlags(cmd)).To(Succeed())
		Expect(g.Load()).To(Succeed())

		cfg := g.BridgeConfig()
		Expect(cfg.Timeout).To(Equal(500 * time.Millisecond))
		Expect(cfg.TrackName).To(Equal("callid"))
		Expect(cfg.TrackParam).To(BeTrue())
	})

	It("clamps out-of-range values via Normalize on Load", func() {
		v.Set("general.maxqueue", 999999)
		Expect(g.RegisterFlags(cmd)).To(Succeed())
		Expect(g.Load()).To(Succeed())

		Expect(g.BridgeConfig().MaxQueue).To(Equal(10000))
	})

	It("Start and Stop are no-ops that never error", func() {
		Expect(g.Start()).To(Succeed())
		g.Stop()
	})
})

var _ = Describe("Listeners", func() {
	It("parses a listener array-of-tables, defaulting network to unix", func() {
		v := viper.New()
		l := config.NewListeners()
		l.Init("listener", v)

		v.Set("listener", []map[string]interface{}{
			{"name": "sock1", "address": "/run/telebridge/sock1"},
			{"name": "tcp1", "network": "tcp", "address": "127.0.0.1:4000"},
		})

		Expect(l.Load()).To(Succeed())
		entries := l.Entries()
		Expect(entries).To(HaveLen(2))
		Expect(entries[0].Network).To(Equal("unix"))
		Expect(entries[1].Network).To(Equal("tcp"))
		Expect(entries[1].Address).To(Equal("127.0.0.1:4000"))
	})

	It("Start and Stop are no-ops", func() {
		l := config.NewListeners()
		Expect(l.Start()).To(Succeed())
		l.Stop()
	})
})

var _ = Describe("Scripts", func() {
	It("parses scripts and execute entries, mapping chan strings to ChanMethod", func() {
		v := viper.New()
		s := config.NewScripts()
		s.Init("general", v)

		v.Set("general.scripts", []map[string]interface{}{
			{"name": "ivr", "program": "/bin/ivr", "chan": "playrec", "restart": true},
		})
		v.Set("general.execute", []map[string]interface{}{
			{"name": "once", "program": "/bin/once", "args": []string{"-x"}},
		})

		Expect(s.Load()).To(Succeed())

		scripts := s.ScriptEntries()
		Expect(scripts).To(HaveLen(1))
		Expect(scripts[0].Chan).To(Equal(extmodule.ChanMethodPlayRec))
		Expect(scripts[0].Restart).To(BeTrue())

		exec := s.ExecuteEntries()
		Expect(exec).To(HaveLen(1))
		Expect(exec[0].Args).To(Equal([]string{"-x"}))
	})
})

var _ = Describe("Set", func() {
	It("initialises, loads and starts every registered component in order", func() {
		v := viper.New()
		set := config.NewSet(v)

		g := config.NewGeneral()
		set.Add(g)

		l := config.NewListeners()
		set.Add(l)

		cmd := &cobra.Command{Use: "test"}
		Expect(set.RegisterFlags(cmd)).To(Succeed())
		Expect(set.LoadAll()).To(Succeed())
		Expect(set.StartAll()).To(Succeed())
		set.StopAll()
	})
})
