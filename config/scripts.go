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
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nabbar/telebridge/extmodule"
)

// ScriptEntry is one entry of the `scripts` list: a program this process
// runs under supervision, restarted after it exits only when Restart is
// set; ExecuteEntry (below) is its run-once cousin from the `execute` list.
type ScriptEntry struct {
	Name    string
	Program string
	Args    []string
	Chan    extmodule.ChanMethod
	Restart bool
}

// ExecuteEntry is one `execute` list entry, spawned on demand via
// RunOnce and never restarted.
type ExecuteEntry struct {
	Name    string
	Program string
	Args    []string
}

// Scripts reads the `scripts` and `execute` lists of tables under its key
// (`general` by default, so `general.scripts` and `general.execute`). Each
// entry has name, program and args fields; `scripts` entries also take
// chan and restart. Separate `[scripts]` or `[execute]` sections of
// name=args pairs are not read.
type Scripts struct {
	key string
	v   *viper.Viper

	scripts []ScriptEntry
	execute []ExecuteEntry
}

func NewScripts() *Scripts { return &Scripts{key: "general"} }

func (s *Scripts) Key() string { return s.key }

func (s *Scripts) Init(key string, v *viper.Viper) {
	s.key = key
	s.v = v
}

func (s *Scripts) RegisterFlags(cmd *cobra.Command) error { return nil }

func (s *Scripts) Load() error {
	var rawScripts []struct {
		Name    string   `mapstructure:"name"`
		Program string   `mapstructure:"program"`
		Args    []string `mapstructure:"args"`
		Chan    string   `mapstructure:"chan"`
		Restart bool     `mapstructure:"restart"`
	}
	if err := s.v.UnmarshalKey(s.key+".scripts", &rawScripts); err != nil {
		return fmt.Errorf("scripts config: %w", err)
	}
	s.scripts = s.scripts[:0]
	for _, r := range rawScripts {
		s.scripts = append(s.scripts, ScriptEntry{
			Name:    r.Name,
			Program: r.Program,
			Args:    r.Args,
			Chan:    extmodule.ParseChanMethod(r.Chan),
			Restart: r.Restart,
		})
	}

	var rawExec []struct {
		Name    string   `mapstructure:"name"`
		Program string   `mapstructure:"program"`
		Args    []string `mapstructure:"args"`
	}
	if err := s.v.UnmarshalKey(s.key+".execute", &rawExec); err != nil {
		return fmt.Errorf("execute config: %w", err)
	}
	s.execute = s.execute[:0]
	for _, r := range rawExec {
		s.execute = append(s.execute, ExecuteEntry{Name: r.Name, Program: r.Program, Args: r.Args})
	}

	return nil
}

func (s *Scripts) Start() error { return nil }
func (s *Scripts) Stop()        {}

func (s *Scripts) ScriptEntries() []ScriptEntry   { return s.scripts }
func (s *Scripts) ExecuteEntries() []ExecuteEntry { return s.execute }
