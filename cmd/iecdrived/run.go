/*
 * iecdrive - "run" subcommand: the process's main event loop.
 *
 * Wire config, start serving, wait on an OS signal channel for shutdown.
 * The drive core itself is a single cooperative loop: wait for a
 * command-channel byte sequence, dispatch it, hand the bus to an armed
 * fast loader, repeat. The operator console and the monitor server run
 * as the concurrent ambient pieces.
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */
package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ikorb/iecdrive/bus"
	"github.com/ikorb/iecdrive/command"
	"github.com/ikorb/iecdrive/config"
	"github.com/ikorb/iecdrive/console"
	"github.com/ikorb/iecdrive/drive"
	"github.com/ikorb/iecdrive/fastloader"
	"github.com/ikorb/iecdrive/internal/logger"
	"github.com/ikorb/iecdrive/internal/monitor"
)

func newRunCommand() *cobra.Command {
	var (
		configPath  string
		logPath     string
		monitorAddr string
		partitions  int
		bufCount    int
		deviceAddr  int
		noConsole   bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the drive core's command-channel and fast-loader event loop",
		RunE: func(*cobra.Command, []string) error {
			if logPath != "" {
				f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return err
				}
				defer f.Close()
				logger.Install(f)
			} else {
				logger.InstallStderr()
			}

			state := drive.NewState(partitions, bufCount, deviceAddr)
			if configPath != "" {
				if err := config.Load(configPath, state); err != nil {
					return err
				}
			}

			mon, err := monitor.Start(monitorAddr, state)
			if err != nil {
				return err
			}
			defer mon.Stop()

			if !noConsole {
				go console.New(state, os.Stdout).Run()
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			done := make(chan struct{})
			go func() {
				runEventLoop(bus.NewSim(), state)
				close(done)
			}()

			select {
			case <-sigCh:
				slog.Info("iecdrived: shutdown signal received")
			case <-done:
				slog.Info("iecdrived: event loop exited")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "startup directive file")
	cmd.Flags().StringVarP(&logPath, "log", "l", "", "log file (default: stderr)")
	cmd.Flags().StringVar(&monitorAddr, "monitor", "127.0.0.1:6400", "plaintext status monitor listen address")
	cmd.Flags().IntVar(&partitions, "partitions", 1, "number of partitions")
	cmd.Flags().IntVar(&bufCount, "buffers", 4, "sector buffer pool size")
	cmd.Flags().IntVar(&deviceAddr, "address", 8, "initial IEC device address")
	cmd.Flags().BoolVar(&noConsole, "no-console", false, "disable the interactive operator console")
	return cmd
}

// runEventLoop is the cooperative core: wait for ATN, assemble a
// command-channel byte sequence, dispatch it, and hand the bus to a fast
// loader once an M-E has armed one.
func runEventLoop(b bus.Bus, state *drive.State) {
	parser := command.New(state)
	if sim, ok := b.(*bus.Sim); ok {
		parser.Delay = sim.Clock
	}
	state.RestartHook = func() {
		state.Pool.FreeAll(true)
		state.DetectedLoader = drive.LoaderNone
		state.ArmedLoader = drive.LoaderNone
	}
	// Stands in for the both-LEDs flash a hardware build wires here.
	state.LoaderCue = func() {
		slog.Info("fast loader released the bus")
	}

	for {
		l := b.Read()
		if l.Has(bus.BitATN) {
			continue
		}

		cmd, truncated, ok := bus.ReceiveCommand(b, command.MaxCommandLength)
		if !ok {
			continue
		}
		parser.Execute(cmd, truncated)

		if protocol := fastloader.ForID(state.ArmedLoader); protocol != fastloader.ProtocolNone {
			fsys := currentFileSystem(state)
			if fsys != nil {
				fastloader.Run(protocol, b, state, fsys)
			}
			state.ArmedLoader = drive.LoaderNone
		}
	}
}

func currentFileSystem(state *drive.State) drive.FileSystem {
	if state.CurrentPartition < 0 || state.CurrentPartition >= len(state.Partitions) {
		return nil
	}
	return state.Partitions[state.CurrentPartition].FS
}
