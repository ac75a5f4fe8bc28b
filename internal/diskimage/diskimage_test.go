/*
 * Disk image test cases.
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
	"os"
	"path/filepath"
	"testing"

	"github.com/ikorb/iecdrive/drive"
	"github.com/stretchr/testify/require"
)

func newTestImage(t *testing.T, kind Kind) *Image {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.img")
	img, err := Create(path, kind)
	require.NoError(t, err)
	t.Cleanup(func() { img.Close() })
	return img
}

func TestCreateDetectsOwnGeometry(t *testing.T) {
	img := newTestImage(t, KindD64)
	require.Equal(t, KindD64, img.Kind())

	require.NoError(t, img.Close())
	reopened, err := Open(img.Path())
	require.NoError(t, err)
	defer reopened.Close()
	require.Equal(t, KindD64, reopened.Kind())
}

func TestMkdirAndChdirRoundtrip(t *testing.T) {
	img := newTestImage(t, KindD81)
	root := img.RootDir()

	require.NoError(t, img.Mkdir(0, root, "GAMES"))
	sub, err := img.Chdir(0, root, "GAMES")
	require.NoError(t, err)
	require.NotEqual(t, root, sub)

	back, err := img.Chdir(0, sub, drive.ParentMarker)
	require.NoError(t, err)
	require.Equal(t, root, back)
}

func TestFileDeleteAndFirstMatch(t *testing.T) {
	img := newTestImage(t, KindD64)
	root := img.RootDir()
	require.NoError(t, img.addEntry(root, "GAME ONE", ftPRG, 1, 0, 4))
	require.NoError(t, img.addEntry(root, "GAME TWO", ftPRG, 1, 1, 4))

	ent, err := img.FirstMatch(0, root, "GAME ONE", drive.FlagNone)
	require.NoError(t, err)
	require.Equal(t, "GAME ONE", ent.Name)

	n, err := img.FileDelete(0, root, "GAME*")
	require.NoError(t, err)
	require.Equal(t, 2, n)

	_, err = img.FirstMatch(0, root, "GAME ONE", drive.FlagNone)
	require.ErrorIs(t, err, drive.ErrFileNotFound)
}

func TestRenameUpdatesEntry(t *testing.T) {
	img := newTestImage(t, KindD64)
	root := img.RootDir()
	require.NoError(t, img.addEntry(root, "OLD NAME", ftPRG, 1, 2, 1))

	require.NoError(t, img.Rename(0, root, "OLD NAME", "NEW NAME"))

	_, err := img.FirstMatch(0, root, "OLD NAME", drive.FlagNone)
	require.ErrorIs(t, err, drive.ErrFileNotFound)
	ent, err := img.FirstMatch(0, root, "NEW NAME", drive.FlagNone)
	require.NoError(t, err)
	require.Equal(t, "NEW NAME", ent.Name)
}

func TestReadWriteSectorRoundtrip(t *testing.T) {
	img := newTestImage(t, KindD64)
	var in [bytesPerSector]byte
	for i := range in {
		in[i] = byte(i)
	}
	require.NoError(t, img.WriteSector(in[:], 0, 1, 0))

	var out [bytesPerSector]byte
	require.NoError(t, img.ReadSector(out[:], 0, 1, 0))
	require.Equal(t, in[:], out[:])
}

func TestDetectKindRejectsUnknownSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bogus.img")
	require.NoError(t, os.WriteFile(path, make([]byte, 12345), 0o644))
	_, err := Open(path)
	require.Error(t, err)
}
