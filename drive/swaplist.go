/*
 * iecdrive - Disk swap list.
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

// SwapList is the round-robin list of disk images a host can cycle
// through by pressing a physical swap button, populated by the XS
// command.
type SwapList struct {
	entries []string
	cursor  int
}

// NewSwapList returns an empty swap list.
func NewSwapList() *SwapList {
	return &SwapList{}
}

// Set replaces the list with the image paths found at the given path's
// directory (one name per directory entry) and resets the cursor.
func (sl *SwapList) Set(entries []string) {
	sl.entries = entries
	sl.cursor = 0
}

// Clear empties the swap list, as CP/C⇧P and an active-autoswap CD do.
func (sl *SwapList) Clear() {
	sl.entries = nil
	sl.cursor = 0
}

// Next advances the cursor and returns the next image name, wrapping
// around, or false if the list is empty.
func (sl *SwapList) Next() (string, bool) {
	if len(sl.entries) == 0 {
		return "", false
	}
	name := sl.entries[sl.cursor]
	sl.cursor = (sl.cursor + 1) % len(sl.entries)
	return name, true
}

// Len reports how many images are in the list.
func (sl *SwapList) Len() int {
	return len(sl.entries)
}
