/*
 * iecdrive - D64/D81 sector geometry.
 *
 * Standard 1541 (D64) and 1581 (D81) layouts: per-track sector counts,
 * directory location, and flat-file offset arithmetic.
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

import "fmt"

// Kind names a supported image geometry.
type Kind int

const (
	KindD64 Kind = iota
	KindD81
)

const bytesPerSector = 256

// d64SectorsPerTrack is the classic 1541 layout: 35 tracks, sectors per
// track stepping down three times.
var d64SectorsPerTrack = func() [36]int {
	var t [36]int
	for track := 1; track <= 17; track++ {
		t[track] = 21
	}
	for track := 18; track <= 24; track++ {
		t[track] = 19
	}
	for track := 25; track <= 30; track++ {
		t[track] = 18
	}
	for track := 31; track <= 35; track++ {
		t[track] = 17
	}
	return t
}()

const (
	d64DirTrack  = 18
	d64DirSector = 1
	d64BAMTrack  = 18
	d64BAMSector = 0

	d81Tracks          = 80
	d81SectorsPerTrack = 40
	d81DirTrack        = 40
	d81DirSector       = 3
)

type geometry struct {
	kind      Kind
	tracks    int
	dirTrack  int
	dirSector int
}

func geometryFor(kind Kind) geometry {
	switch kind {
	case KindD64:
		return geometry{kind: KindD64, tracks: 35, dirTrack: d64DirTrack, dirSector: d64DirSector}
	case KindD81:
		return geometry{kind: KindD81, tracks: d81Tracks, dirTrack: d81DirTrack, dirSector: d81DirSector}
	default:
		return geometry{}
	}
}

func (g geometry) sectorsInTrack(track int) int {
	if g.kind == KindD81 {
		if track < 1 || track > d81Tracks {
			return 0
		}
		return d81SectorsPerTrack
	}
	if track < 1 || track > 35 {
		return 0
	}
	return d64SectorsPerTrack[track]
}

// offset returns the byte offset of (track, sector) within the image file.
func (g geometry) offset(track, sector int) (int64, error) {
	spt := g.sectorsInTrack(track)
	if spt == 0 || sector < 0 || sector >= spt {
		return 0, fmt.Errorf("diskimage: track/sector %d/%d out of range", track, sector)
	}
	var lba int64
	for t := 1; t < track; t++ {
		lba += int64(g.sectorsInTrack(t))
	}
	lba += int64(sector)
	return lba * bytesPerSector, nil
}

// detectKind guesses the geometry from a raw image's file size,
// tolerating an optional trailing one-byte-per-sector error-info blob.
func detectKind(size int64) (Kind, error) {
	d64Size := int64(0)
	g64 := geometryFor(KindD64)
	for t := 1; t <= g64.tracks; t++ {
		d64Size += int64(g64.sectorsInTrack(t)) * bytesPerSector
	}
	d64WithErrors := d64Size + int64(sectorCount(g64))

	d81Size := int64(d81Tracks*d81SectorsPerTrack) * bytesPerSector
	d81WithErrors := d81Size + int64(d81Tracks*d81SectorsPerTrack)

	switch size {
	case d64Size, d64WithErrors:
		return KindD64, nil
	case d81Size, d81WithErrors:
		return KindD81, nil
	default:
		return 0, fmt.Errorf("diskimage: unsupported image size %d", size)
	}
}

func sectorCount(g geometry) int {
	n := 0
	for t := 1; t <= g.tracks; t++ {
		n += g.sectorsInTrack(t)
	}
	return n
}
