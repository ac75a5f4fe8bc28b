/*
 * iecdrive - Sector buffer pool.
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

package drive

// NoChannel marks a buffer allocated without a user-visible channel number,
// i.e. a system buffer held by a fast loader or the command parser itself.
const NoChannel = -1

// ErrorChannel is the channel number the host uses to read status; it is
// never a valid user channel and maps to the pinned error buffer, not a
// slot in the pool.
const ErrorChannel = 15

// SectorSize is the size of a disk sector and of every data buffer.
const SectorSize = 256

// Buffer is one 256-byte sector-sized work area plus the bookkeeping the
// command parser and fast loaders need to track it.
type Buffer struct {
	Data []byte // SectorSize bytes.

	Channel  int  // 0..14 user channel, or NoChannel for a system buffer.
	InUse    bool
	Sticky   bool // Held across command cycles (fast loaders).
	Position int  // Next byte to read/write, 0..255.
	LastUsed int  // Index of the final valid byte, 0..255.

	// Secondary address attributes as sent on OPEN, and the (partition,
	// track, sector) a dirty buffer writes back to on flush.
	Secondary int
	Partition int
	Track     int
	Sector    int
	Dirty     bool

	// Cleanup is invoked by Pool.Free before the slot is released, letting
	// a dirty buffer flush itself. Refill exists for parity with the
	// firmware's buffer callback hooks but is unused by the command
	// channel today; fast loaders manage their own refill inline.
	Cleanup func(*Buffer)
	Refill  func(*Buffer) error
}

func newBuffer() *Buffer {
	return &Buffer{Data: make([]byte, SectorSize)}
}

// Pool is the fixed array of sector buffers plus the one pinned error
// buffer slot: n user/system buffers, n+1 slots total.
type Pool struct {
	buffers []*Buffer
	errBuf  *ErrorBuffer
}

// NewPool allocates a fixed-size buffer pool with n data buffers plus the
// pinned error buffer.
func NewPool(n int) *Pool {
	p := &Pool{
		buffers: make([]*Buffer, n),
		errBuf:  NewErrorBuffer(),
	}
	for i := range p.buffers {
		p.buffers[i] = newBuffer()
	}
	return p
}

// Error returns the pool's pinned error buffer (channel 15).
func (p *Pool) Error() *ErrorBuffer {
	return p.errBuf
}

// First returns the pool's first data buffer slot, regardless of
// allocation state. M-R aliases this buffer's raw bytes through channel
// 15 instead of exposing real memory.
func (p *Pool) First() *Buffer {
	return p.buffers[0]
}

// AllocateUser allocates the first free slot for a user channel (0..14).
// Returns nil if the pool is full, which the command parser turns into
// ERROR_NO_CHANNEL.
func (p *Pool) AllocateUser(channel int) *Buffer {
	for _, b := range p.buffers {
		if !b.InUse {
			resetBuffer(b)
			b.InUse = true
			b.Channel = channel
			return b
		}
	}
	return nil
}

// AllocateSystem allocates a buffer with no user channel, for fast loaders.
func (p *Pool) AllocateSystem() *Buffer {
	for _, b := range p.buffers {
		if !b.InUse {
			resetBuffer(b)
			b.InUse = true
			b.Channel = NoChannel
			b.Sticky = true
			return b
		}
	}
	return nil
}

func resetBuffer(b *Buffer) {
	for i := range b.Data {
		b.Data[i] = 0
	}
	b.Position = 0
	b.LastUsed = 0
	b.Secondary = 0
	b.Dirty = false
	b.Cleanup = nil
	b.Refill = nil
}

// FindByChannel returns the live buffer for a user channel, or nil.
// Invariant: a user channel maps to at most one live buffer at a time,
// so the first match is the only match.
func (p *Pool) FindByChannel(channel int) *Buffer {
	if channel == ErrorChannel {
		return nil
	}
	for _, b := range p.buffers {
		if b.InUse && b.Channel == channel {
			return b
		}
	}
	return nil
}

// Free invokes the buffer's cleanup callback, if any, then returns the
// slot to the pool.
func (p *Pool) Free(b *Buffer) {
	if b == nil || !b.InUse {
		return
	}
	if b.Cleanup != nil {
		b.Cleanup(b)
	}
	b.InUse = false
	b.Sticky = false
	b.Channel = NoChannel
}

// FreeAll frees every buffer, optionally preserving sticky (system)
// buffers: a fast loader's buffers survive an "I" initialize command
// issued from another context.
func (p *Pool) FreeAll(keepSystem bool) {
	for _, b := range p.buffers {
		if !b.InUse {
			continue
		}
		if keepSystem && b.Sticky {
			continue
		}
		p.Free(b)
	}
}
