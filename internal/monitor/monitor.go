/*
 * iecdrive - read-only status monitor.
 *
 * A listen/accept-loop/per-connection-goroutine server writing one plain
 * text status block per connection, with nothing read back from the
 * client.
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
package monitor

import (
	"bufio"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/ikorb/iecdrive/drive"
)

// Server is a single listening socket reporting drive.State snapshots to
// whoever connects, one status block per connection and then close.
type Server struct {
	wg       sync.WaitGroup
	listener net.Listener
	shutdown chan struct{}
	state    *drive.State
}

// Start opens a monitor listener on addr (host:port or :port).
func Start(addr string, state *drive.State) (*Server, error) {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("monitor: listen %s: %w", addr, err)
	}
	s := &Server{listener: l, shutdown: make(chan struct{}), state: state}
	s.wg.Add(1)
	go s.acceptLoop()
	slog.Info("monitor listening", "addr", l.Addr().String())
	return s, nil
}

// Stop closes the listener and waits (briefly) for in-flight connections.
func (s *Server) Stop() {
	close(s.shutdown)
	s.listener.Close()
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		slog.Warn("monitor: timed out waiting for connections to close")
	}
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.shutdown:
				return
			default:
				continue
			}
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handle(conn)
		}()
	}
}

func (s *Server) handle(conn net.Conn) {
	defer conn.Close()
	w := bufio.NewWriter(conn)
	defer w.Flush()
	fmt.Fprintf(w, "device %d\r\n", s.state.DeviceAddress)
	fmt.Fprintf(w, "partition %d/%d\r\n", s.state.CurrentPartition, s.state.MaxPartition())
	fmt.Fprintf(w, "loader %s\r\n", loaderName(s.state.DetectedLoader))
	fmt.Fprintf(w, "disk %s\r\n", diskStateName(s.state.DiskState))
	code := s.state.Pool.Error().Code()
	fmt.Fprintf(w, "error %d %s\r\n", int(code), code.Message())
	fmt.Fprintf(w, "swaplist %d entries\r\n", s.state.SwapList.Len())
}

func loaderName(id drive.LoaderID) string {
	switch id {
	case drive.LoaderAnotherWorld:
		return "another-world"
	case drive.LoaderN0sIFFL:
		return "n0s-iffl"
	case drive.LoaderWingsOfFury:
		return "wings-of-fury"
	case drive.LoaderTurbodisk:
		return "turbodisk"
	default:
		return "none"
	}
}

func diskStateName(d drive.DiskState) string {
	switch d {
	case drive.DiskOK:
		return "ok"
	case drive.DiskNoSync:
		return "no-sync"
	case drive.DiskRemoved:
		return "removed"
	default:
		return "unknown"
	}
}
