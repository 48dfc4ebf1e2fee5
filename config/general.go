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

package config

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/nabbar/telebridge/extmodule"
)

// General maps the `[general]` section (spec.md §6) onto an
// extmodule.Config plus the bus sizing knobs.
type General struct {
	key string
	v   *viper.Viper

	cfg        extmodule.Config
	QueueDepth int
	Workers    int
	HaltWait   time.Duration
}

func NewGeneral() *General {
	return &General{key: "general", cfg: extmodule.DefaultConfig(), QueueDepth: 1000, Workers: 4, HaltWait: 2 * time.Second}
}

func (g *General) Key() string { return g.key }

func (g *General) Init(key string, v *viper.Viper) {
	g.key = key
	g.v = v
	v.SetDefault(key+".maxqueue", g.cfg.MaxQueue)
	v.SetDefault(key+".timeout", int(g.cfg.Timeout/time.Millisecond))
	v.SetDefault(key+".timebomb", g.cfg.Timebomb)
	v.SetDefault(key+".settime", g.cfg.SetTime)
	v.SetDefault(key+".waitflush", int(g.cfg.WaitFlush/time.Millisecond))
	v.SetDefault(key+".trackparam", g.cfg.TrackName)
	v.SetDefault(key+".exec_use_printf", false)
	v.SetDefault(key+".recv_cleanup_waitpid", int(g.cfg.RecvCleanWait/time.Millisecond))
	v.SetDefault(key+".recv_die_waitpid", int(g.cfg.RecvDieWait/time.Millisecond))
	v.SetDefault(key+".halt_cleanup", true)
	v.SetDefault(key+".halt_priority", 0)
	v.SetDefault(key+".bus_workers", g.Workers)
	v.SetDefault(key+".bus_queue_depth", g.QueueDepth)
}

func (g *General) RegisterFlags(cmd *cobra.Command) error {
	cmd.Flags().Int(g.key+".maxqueue", g.cfg.MaxQueue, "maximum requests per bridge awaiting a peer reply; further sends fail")
	cmd.Flags().Int(g.key+".timeout", int(g.cfg.Timeout/time.Millisecond), "default synchronous dispatch timeout, in milliseconds")
	cmd.Flags().Bool(g.key+".settime", g.cfg.SetTime, "emit real timestamps on outgoing message lines")
	cmd.Flags().Bool(g.key+".timebomb", g.cfg.Timebomb, "kill a bridge that stops answering within its timeout")
	cmd.Flags().String(g.key+".trackparam", g.cfg.TrackName, "parameter name used to tag messages for tracing, empty disables")
	return viperBindAll(g.v, cmd, g.key)
}

func (g *General) Load() error {
	g.cfg.MaxQueue = g.v.GetInt(g.key + ".maxqueue")
	g.cfg.Timeout = time.Duration(g.v.GetInt(g.key+".timeout")) * time.Millisecond
	g.cfg.Timebomb = g.v.GetBool(g.key + ".timebomb")
	g.cfg.SetTime = g.v.GetBool(g.key + ".settime")
	g.cfg.WaitFlush = time.Duration(g.v.GetInt(g.key+".waitflush")) * time.Millisecond
	g.cfg.TrackName = g.v.GetString(g.key + ".trackparam")
	g.cfg.TrackParam = g.cfg.TrackName != ""
	g.cfg.RecvCleanWait = time.Duration(g.v.GetInt(g.key+".recv_cleanup_waitpid")) * time.Millisecond
	g.cfg.RecvDieWait = time.Duration(g.v.GetInt(g.key+".recv_die_waitpid")) * time.Millisecond
	g.cfg.Normalize()

	g.Workers = g.v.GetInt(g.key + ".bus_workers")
	g.QueueDepth = g.v.GetInt(g.key + ".bus_queue_depth")
	return nil
}

func (g *General) Start() error { return nil }
func (g *General) Stop()        {}

// BridgeConfig returns the extmodule.Config every bridge this process
// creates should start from.
func (g *General) BridgeConfig() extmodule.Config { return g.cfg }

// viperBindAll binds every flag under prefix to the matching viper key,
// the same wiring pattern as the reference's ComponentViper.RegisterFlag.
func viperBindAll(v *viper.Viper, cmd *cobra.Command, prefix string) error {
	var err error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if err != nil || len(f.Name) <= len(prefix) || f.Name[:len(prefix)] != prefix {
			return
		}
		if e := v.BindPFlag(f.Name, f); e != nil {
			err = e
		}
	})
	return err
}
