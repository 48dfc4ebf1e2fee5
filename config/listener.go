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

	"github.com/nabbar/telebridge/listener"
)

// Listeners maps every `[listener <name>]` section onto a
// listener.Config, read from a "listener" array-of-tables key:
//
//	listener:
//	  - name: sock1
//	    network: unix
//	    address: /run/telebridge/sock1
//	  - name: tcp1
//	    network: tcp
//	    address: 127.0.0.1:4000
type Listeners struct {
	key string
	v   *viper.Viper

	entries []listener.Config
}

func NewListeners() *Listeners {
	return &Listeners{key: "listener"}
}

func (l *Listeners) Key() string { return l.key }

func (l *Listeners) Init(key string, v *viper.Viper) {
	l.key = key
	l.v = v
	v.SetDefault(key, []map[string]string{})
}

func (l *Listeners) RegisterFlags(cmd *cobra.Command) error {
	return nil
}

func (l *Listeners) Load() error {
	var raw []struct {
		Name    string `mapstructure:"name"`
		Network string `mapstructure:"network"`
		Address string `mapstructure:"address"`
	}
	if err := l.v.UnmarshalKey(l.key, &raw); err != nil {
		return fmt.Errorf("listener config: %w", err)
	}

	l.entries = l.entries[:0]
	for _, r := range raw {
		if r.Network == "" {
			r.Network = "unix"
		}
		l.entries = append(l.entries, listener.Config{
			Name:    r.Name,
			Network: r.Network,
			Address: r.Address,
		})
	}
	return nil
}

func (l *Listeners) Start() error { return nil }
func (l *Listeners) Stop()        {}

// Entries returns the parsed listener configurations.
func (l *Listeners) Entries() []listener.Config { return l.entries }
