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

// Command external is the CLI surface for the bridge runtime: running it
// bare starts every configured listener and script and blocks until
// signalled; subcommands manage individual scripts and one-shot program
// execution.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nabbar/telebridge/config"
	"github.com/nabbar/telebridge/internal/logger"
	"github.com/nabbar/telebridge/module"
)

var cfgFile string

func newViper() *viper.Viper {
	v := module.NewViper()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("telebridge")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/telebridge")
	}
	return v
}

func buildModule(v *viper.Viper) (*module.Module, *config.Set, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, nil, fmt.Errorf("reading config: %w", err)
		}
	}

	general := config.NewGeneral()
	listeners := config.NewListeners()
	scripts := config.NewScripts()

	set := config.NewSet(v)
	set.Add(general)
	set.Add(listeners)
	set.Add(scripts)

	if err := set.LoadAll(); err != nil {
		return nil, nil, err
	}

	return module.New(general, listeners, scripts, defaultRegisterer), set, nil
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "external",
		Short: "Run the external-module bridge runtime",
		RunE: func(cmd *cobra.Command, args []string) error {
			v := newViper()
			m, set, err := buildModule(v)
			if err != nil {
				return err
			}
			_ = set

			if err := m.Start(); err != nil {
				return err
			}
			defer m.Stop()

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
			<-sig
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to the configuration file")
	cmd.AddCommand(infoCmd(), startCmd(), restartCmd(), stopCmd(), executeCmd())
	return cmd
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error: %v", err))
		logger.New("cli").Errorf("%v", err)
		os.Exit(1)
	}
}
