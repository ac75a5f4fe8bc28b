/*
 * iecdrive - raw D64/D81 image backing store.
 *
 * Image implements drive.FileSystem directly against a flat sector image
 * held in memory, with dirty sectors flushed back to the backing file on
 * demand.
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
package diskimage

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/ikorb/iecdrive/drive"
)

// Image is a drive.FileSystem backed by a D64 or D81 sector image file.
type Image struct {
	mu   sync.Mutex
	geo  geometry
	data []byte
	path string
	file *os.File
	dirty bool
}

var _ drive.FileSystem = (*Image)(nil)

// Open loads path into memory, auto-detecting D64 vs D81 geometry from
// its size.
func Open(path string) (*Image, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	kind, err := detectKind(info.Size())
	if err != nil {
		f.Close()
		return nil, err
	}
	data := make([]byte, info.Size())
	if _, err := io.ReadFull(f, data); err != nil {
		f.Close()
		return nil, err
	}
	return &Image{geo: geometryFor(kind), data: data, path: path, file: f}, nil
}

// Create writes a fresh, zeroed image of the given kind to path and
// opens it, for the MKIMAGE CLI subcommand.
func Create(path string, kind Kind) (*Image, error) {
	geo := geometryFor(kind)
	size := int64(sectorCount(geo)) * bytesPerSector
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, err
	}
	data := make([]byte, size)
	for i := range data {
		data[i] = 0
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return nil, err
	}
	img := &Image{geo: geo, data: data, path: path, file: f}
	img.formatBAM()
	if err := img.Flush(); err != nil {
		f.Close()
		return nil, err
	}
	return img, nil
}

func (img *Image) formatBAM() {
	switch img.geo.kind {
	case KindD64:
		off, _ := img.geo.offset(d64BAMTrack, d64BAMSector)
		img.data[off] = d64DirTrack
		img.data[off+1] = d64DirSector
		img.data[off+2] = 0x41 // DOS version 'A'
	case KindD81:
		off, _ := img.geo.offset(d81DirTrack, 0)
		img.data[off] = d81DirTrack
		img.data[off+1] = d81DirSector
		img.data[off+2] = 'D'
	}
}

// Close flushes and releases the backing file.
func (img *Image) Close() error {
	img.mu.Lock()
	defer img.mu.Unlock()
	if err := img.flushLocked(); err != nil {
		img.file.Close()
		return err
	}
	return img.file.Close()
}

// Flush writes any dirty sectors back to disk.
func (img *Image) Flush() error {
	img.mu.Lock()
	defer img.mu.Unlock()
	return img.flushLocked()
}

func (img *Image) flushLocked() error {
	if !img.dirty {
		return nil
	}
	if _, err := img.file.WriteAt(img.data, 0); err != nil {
		return err
	}
	if err := img.file.Sync(); err != nil {
		return err
	}
	img.dirty = false
	return nil
}

// ReadSector implements drive.FileSystem. An Image backs exactly one
// partition slot, so partition is accepted but unused; config is
// responsible for mounting one Image per drive.Partition.
func (img *Image) ReadSector(buf []byte, partition int, track, sector int) error {
	img.mu.Lock()
	defer img.mu.Unlock()
	off, err := img.geo.offset(track, sector)
	if err != nil {
		return err
	}
	n := copy(buf, img.data[off:off+bytesPerSector])
	if n < len(buf) {
		return fmt.Errorf("diskimage: short read at %d/%d", track, sector)
	}
	return nil
}

// WriteSector implements drive.FileSystem.
func (img *Image) WriteSector(buf []byte, partition int, track, sector int) error {
	img.mu.Lock()
	defer img.mu.Unlock()
	off, err := img.geo.offset(track, sector)
	if err != nil {
		return err
	}
	if len(buf) != bytesPerSector {
		return fmt.Errorf("diskimage: write buffer must be %d bytes", bytesPerSector)
	}
	copy(img.data[off:off+bytesPerSector], buf)
	img.dirty = true
	return nil
}

// Path returns the backing filename, for the console's SHOW command.
func (img *Image) Path() string { return img.path }

// Kind reports the detected geometry.
func (img *Image) Kind() Kind { return img.geo.kind }
