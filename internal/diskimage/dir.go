/*
 * iecdrive - CBM directory-sector format.
 *
 * The 2-byte chain link plus eight 32-byte entries per sector is the
 * same shape every CBM DOS directory sector has used since the 1541.
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

	"github.com/ikorb/iecdrive/drive"
	"github.com/ikorb/iecdrive/internal/petscii"
)

const (
	entrySize     = 32
	entriesPerSec = bytesPerSector / entrySize

	entOffNextTrack = 0
	entOffNextSec   = 1
	entOffType      = 2
	entOffTrack     = 3
	entOffSector    = 4
	entOffName      = 5
	nameLen         = 16
	entOffSizeLo    = 30
	entOffSizeHi    = 31
)

// fileType is the low nibble of a directory entry's type byte.
type fileType int

const (
	ftDEL fileType = 0
	ftSEQ fileType = 1
	ftPRG fileType = 2
	ftUSR fileType = 3
	ftREL fileType = 4
	ftDIR fileType = 6 // subdirectory, CMD-partition style
)

const entryClosedBit = 0x80

// dirLoc packs a track/sector pair into the uint32 the drive.FileSystem
// interface uses as an opaque directory handle.
func dirLoc(track, sector int) uint32 { return uint32(track)<<8 | uint32(sector&0xff) }
func unpackLoc(loc uint32) (track, sector int) {
	return int(loc >> 8), int(loc & 0xff)
}

// dirCursor is the Dir value OpenDir hands back.
type dirCursor struct {
	track, sector int // current directory sector
	index         int // next entry index within it, 0..entriesPerSec
}

// RootDir returns the directory location of the image's root, for the
// config package's initial Partition.CurrentDir.
func (img *Image) RootDir() uint32 {
	return dirLoc(img.geo.dirTrack, img.geo.dirSector)
}

// OpenDir implements drive.FileSystem.
func (img *Image) OpenDir(partition int, dir uint32) (drive.Dir, error) {
	track, sector := unpackLoc(dir)
	if track == 0 {
		track, sector = img.geo.dirTrack, img.geo.dirSector
	}
	return &dirCursor{track: track, sector: sector}, nil
}

func (img *Image) readEntry(track, sector, index int) ([]byte, error) {
	var buf [bytesPerSector]byte
	if err := img.ReadSector(buf[:], 0, track, sector); err != nil {
		return nil, err
	}
	off := index * entrySize
	return buf[off : off+entrySize], nil
}

func entryName(ent []byte) string {
	raw := ent[entOffName : entOffName+nameLen]
	n := nameLen
	for n > 0 && raw[n-1] == 0xa0 {
		n--
	}
	return petscii.ToHost(raw[:n])
}

func entryInUse(ent []byte) bool {
	return ent[entOffType]&0x1f != 0 || ent[entOffTrack] != 0
}

// NextMatch implements drive.FileSystem. pattern supports "*" (suffix
// wildcard) and "?" (single-char wildcard), the two CBM DOS uses.
func (img *Image) NextMatch(d drive.Dir, pattern string, flags drive.MatchFlags) (drive.Entry, bool, error) {
	cur, ok := d.(*dirCursor)
	if !ok {
		return drive.Entry{}, false, fmt.Errorf("diskimage: invalid directory cursor")
	}
	for {
		if cur.track == 0 {
			return drive.Entry{}, false, nil
		}
		var sectorBuf [bytesPerSector]byte
		if err := img.ReadSector(sectorBuf[:], 0, cur.track, cur.sector); err != nil {
			return drive.Entry{}, false, err
		}
		for cur.index < entriesPerSec {
			idx := cur.index
			cur.index++
			off := idx * entrySize
			ent := sectorBuf[off : off+entrySize]
			if !entryInUse(ent) {
				continue
			}
			name := entryName(ent)
			if !globMatch(pattern, name) {
				continue
			}
			return entryFromRaw(ent, name), true, nil
		}
		nextTrack := int(sectorBuf[entOffNextTrack])
		nextSector := int(sectorBuf[entOffNextSec])
		cur.track, cur.sector, cur.index = nextTrack, nextSector, 0
	}
}

func entryFromRaw(ent []byte, name string) drive.Entry {
	typ := drive.TypeFile
	if fileType(ent[entOffType]&0x0f) == ftDIR {
		typ = drive.TypeDir
	}
	size := int64(ent[entOffSizeLo]) | int64(ent[entOffSizeHi])<<8
	loc := dirLoc(int(ent[entOffTrack]), int(ent[entOffSector]))
	return drive.Entry{Name: name, Type: typ, Size: size * bytesPerSector, Cluster: loc}
}

// globMatch implements CBM DOS's "*" (match rest) and "?" (match one)
// wildcards; an empty pattern matches everything.
func globMatch(pattern, name string) bool {
	if pattern == "" {
		return true
	}
	pi, ni := 0, 0
	for pi < len(pattern) {
		switch pattern[pi] {
		case '*':
			return true
		case '?':
			if ni >= len(name) {
				return false
			}
			pi++
			ni++
		default:
			if ni >= len(name) || pattern[pi] != name[ni] {
				return false
			}
			pi++
			ni++
		}
	}
	return ni == len(name)
}

// FirstMatch implements drive.FileSystem.
func (img *Image) FirstMatch(partition int, dir uint32, name string, flags drive.MatchFlags) (drive.Entry, error) {
	d, err := img.OpenDir(partition, dir)
	if err != nil {
		return drive.Entry{}, err
	}
	for {
		ent, ok, err := img.NextMatch(d, name, flags)
		if err != nil {
			return drive.Entry{}, err
		}
		if !ok {
			return drive.Entry{}, drive.ErrFileNotFound
		}
		if ent.Name == name || globMatch(name, ent.Name) {
			return ent, nil
		}
	}
}

// FileDelete implements drive.FileSystem; it marks matching entries as
// unused and frees their sector chains (chain-freeing is modeled here by
// simply zeroing the entry, since this emulation keeps no separate BAM
// free list to reconcile).
func (img *Image) FileDelete(partition int, dir uint32, pattern string) (int, error) {
	track, sector := unpackLoc(dir)
	if track == 0 {
		track, sector = img.geo.dirTrack, img.geo.dirSector
	}
	count := 0
	for track != 0 {
		var buf [bytesPerSector]byte
		if err := img.ReadSector(buf[:], 0, track, sector); err != nil {
			return count, err
		}
		changed := false
		for i := 0; i < entriesPerSec; i++ {
			off := i * entrySize
			ent := buf[off : off+entrySize]
			if !entryInUse(ent) {
				continue
			}
			name := entryName(ent)
			if !globMatch(pattern, name) {
				continue
			}
			ent[entOffType] = 0
			ent[entOffTrack] = 0
			ent[entOffSector] = 0
			changed = true
			count++
		}
		if changed {
			if err := img.WriteSector(buf[:], 0, track, sector); err != nil {
				return count, err
			}
		}
		track, sector = int(buf[entOffNextTrack]), int(buf[entOffNextSec])
	}
	if count == 0 {
		return 0, drive.ErrFileNotFound
	}
	return count, nil
}

// Rename implements drive.FileSystem.
func (img *Image) Rename(partition int, dir uint32, oldName, newName string) error {
	track, sector := unpackLoc(dir)
	if track == 0 {
		track, sector = img.geo.dirTrack, img.geo.dirSector
	}
	for track != 0 {
		var buf [bytesPerSector]byte
		if err := img.ReadSector(buf[:], 0, track, sector); err != nil {
			return err
		}
		for i := 0; i < entriesPerSec; i++ {
			off := i * entrySize
			ent := buf[off : off+entrySize]
			if !entryInUse(ent) || entryName(ent) != oldName {
				continue
			}
			raw := petscii.ToDrive(newName)
			for j := 0; j < nameLen; j++ {
				if j < len(raw) {
					ent[entOffName+j] = raw[j]
				} else {
					ent[entOffName+j] = 0xa0
				}
			}
			return img.WriteSector(buf[:], 0, track, sector)
		}
		track, sector = int(buf[entOffNextTrack]), int(buf[entOffNextSec])
	}
	return drive.ErrFileNotFound
}

// Mkdir implements drive.FileSystem by allocating a one-sector
// subdirectory chain and an entry of type ftDIR pointing at it, the CMD
// hard-drive native-partition convention.
func (img *Image) Mkdir(partition int, dir uint32, name string) error {
	newTrack, newSector, err := img.allocateSector()
	if err != nil {
		return err
	}
	var empty [bytesPerSector]byte
	empty[entOffNextSec] = 0xff // end-of-chain link; also keeps allocateSector from reusing it
	if err := img.WriteSector(empty[:], 0, newTrack, newSector); err != nil {
		return err
	}
	return img.addEntry(dir, name, ftDIR, newTrack, newSector, 1)
}

// Chdir implements drive.FileSystem.
func (img *Image) Chdir(partition int, dir uint32, name string) (uint32, error) {
	if name == "" || name == drive.ParentMarker {
		return dirLoc(img.geo.dirTrack, img.geo.dirSector), nil
	}
	ent, err := img.FirstMatch(partition, dir, name, drive.FlagNone)
	if err != nil {
		return 0, err
	}
	if ent.Type != drive.TypeDir {
		return 0, fmt.Errorf("diskimage: %q is not a directory", name)
	}
	return ent.Cluster, nil
}

// addEntry writes a new directory entry into dir's chain, extending the
// chain with a freshly allocated sector if every sector is full.
func (img *Image) addEntry(dir uint32, name string, typ fileType, dataTrack, dataSector, sizeSectors int) error {
	track, sector := unpackLoc(dir)
	if track == 0 {
		track, sector = img.geo.dirTrack, img.geo.dirSector
	}
	for {
		var buf [bytesPerSector]byte
		if err := img.ReadSector(buf[:], 0, track, sector); err != nil {
			return err
		}
		for i := 0; i < entriesPerSec; i++ {
			off := i * entrySize
			ent := buf[off : off+entrySize]
			if entryInUse(ent) {
				continue
			}
			ent[entOffType] = byte(typ) | entryClosedBit
			ent[entOffTrack] = byte(dataTrack)
			ent[entOffSector] = byte(dataSector)
			raw := petscii.ToDrive(name)
			for j := 0; j < nameLen; j++ {
				if j < len(raw) {
					ent[entOffName+j] = raw[j]
				} else {
					ent[entOffName+j] = 0xa0
				}
			}
			ent[entOffSizeLo] = byte(sizeSectors)
			ent[entOffSizeHi] = byte(sizeSectors >> 8)
			return img.WriteSector(buf[:], 0, track, sector)
		}
		nextTrack, nextSector := int(buf[entOffNextTrack]), int(buf[entOffNextSec])
		if nextTrack != 0 {
			track, sector = nextTrack, nextSector
			continue
		}
		newTrack, newSector, err := img.allocateSector()
		if err != nil {
			return err
		}
		var fresh [bytesPerSector]byte
		if err := img.WriteSector(fresh[:], 0, newTrack, newSector); err != nil {
			return err
		}
		buf[entOffNextTrack] = byte(newTrack)
		buf[entOffNextSec] = byte(newSector)
		if err := img.WriteSector(buf[:], 0, track, sector); err != nil {
			return err
		}
		track, sector = newTrack, newSector
	}
}

// allocateSector does a linear first-fit scan for a sector this image has
// never handed out, a deliberately simple stand-in for a real BAM
// free-sector bitmap.
func (img *Image) allocateSector() (track, sector int, err error) {
	img.mu.Lock()
	defer img.mu.Unlock()
	for t := 1; t <= img.geo.tracks; t++ {
		if t == img.geo.dirTrack {
			continue
		}
		n := img.geo.sectorsInTrack(t)
		for s := 0; s < n; s++ {
			off, _ := img.geo.offset(t, s)
			allZero := true
			for _, b := range img.data[off : off+bytesPerSector] {
				if b != 0 {
					allZero = false
					break
				}
			}
			if allZero {
				return t, s, nil
			}
		}
	}
	return 0, 0, fmt.Errorf("diskimage: disk full")
}
