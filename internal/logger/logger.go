/*
 * iecdrive - Wrapper for slog.
 *
 * The rest of the codebase logs with plain slog calls and gets a single
 * consistent line format (timestamp + level prefix, mutex-guarded
 * writer) instead of slog's default.
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

package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Handler formats log records as "2006/01/02 15:04:05 LEVEL: message k=v ...".
// It replaces slog's default handler so command-channel and fast-loader
// traces read as plain log lines.
type Handler struct {
	out   io.Writer
	attrs []slog.Attr
	mu    *sync.Mutex
}

// New returns a Handler writing to w.
func New(w io.Writer) *Handler {
	return &Handler{out: w, mu: &sync.Mutex{}}
}

// Install replaces the default slog logger with a Handler writing to w.
func Install(w io.Writer) {
	slog.SetDefault(slog.New(New(w)))
}

func (h *Handler) Enabled(context.Context, slog.Level) bool { return true }

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := append([]slog.Attr{}, h.attrs...)
	next = append(next, attrs...)
	return &Handler{out: h.out, attrs: next, mu: h.mu}
}

func (h *Handler) WithGroup(string) slog.Handler { return h }

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	level := r.Level.String() + ":"
	formattedTime := r.Time.Format("2006/01/02 15:04:05")

	parts := []string{formattedTime, level, r.Message}

	for _, a := range h.attrs {
		parts = append(parts, a.Key+"="+a.Value.String())
	}
	r.Attrs(func(a slog.Attr) bool {
		parts = append(parts, a.Key+"="+a.Value.String())
		return true
	})

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, strings.Join(parts, " ")+"\n")
	return err
}

// InstallStderr is the common case: log to stderr at process startup.
func InstallStderr() {
	Install(os.Stderr)
}
