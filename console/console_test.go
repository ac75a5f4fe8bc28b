/*
 * Operator console test cases.
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

package console

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ikorb/iecdrive/drive"
)

func newTestConsole() (*Console, *bytes.Buffer) {
	state := drive.NewState(2, 4, 8)
	var buf bytes.Buffer
	return New(state, &buf), &buf
}

func TestProcessCommandUnknown(t *testing.T) {
	c, _ := newTestConsole()
	_, err := ProcessCommand("bogus", c)
	require.Error(t, err)
}

func TestProcessCommandQuit(t *testing.T) {
	c, _ := newTestConsole()
	quit, err := ProcessCommand("quit", c)
	require.NoError(t, err)
	require.True(t, quit)
}

func TestSetDeviceAddress(t *testing.T) {
	c, _ := newTestConsole()
	quit, err := ProcessCommand("set address 10", c)
	require.NoError(t, err)
	require.False(t, quit)
	require.Equal(t, 10, c.State.DeviceAddress)
}

func TestSetDeviceAddressOutOfRange(t *testing.T) {
	c, _ := newTestConsole()
	_, err := ProcessCommand("set address 99", c)
	require.Error(t, err)
}

func TestSetPartitionSwitchesCurrent(t *testing.T) {
	c, _ := newTestConsole()
	_, err := ProcessCommand("set partition 2", c)
	require.NoError(t, err)
	require.Equal(t, 1, c.State.CurrentPartition)
}

func TestSetJiffyToggle(t *testing.T) {
	c, _ := newTestConsole()
	_, err := ProcessCommand("set jiffy", c)
	require.NoError(t, err)
	require.True(t, c.State.Flags&drive.FlagJiffyEnabled != 0)

	_, err = ProcessCommand("set nojiffy", c)
	require.NoError(t, err)
	require.False(t, c.State.Flags&drive.FlagJiffyEnabled != 0)
}

func TestSwapListSetAndClear(t *testing.T) {
	c, _ := newTestConsole()
	_, err := ProcessCommand("swap a.d64 b.d64", c)
	require.NoError(t, err)
	require.Equal(t, 2, c.State.SwapList.Len())

	_, err = ProcessCommand("swap", c)
	require.NoError(t, err)
	require.Equal(t, 0, c.State.SwapList.Len())
}

func TestShowWithNoPartitionsMounted(t *testing.T) {
	c, buf := newTestConsole()
	quit, err := ProcessCommand("show", c)
	require.NoError(t, err)
	require.False(t, quit)
	require.Contains(t, buf.String(), "partition 1")
}

func TestCompleteCmdReturnsPrefixMatches(t *testing.T) {
	c, _ := newTestConsole()
	matches := CompleteCmd("s", c)
	require.Contains(t, matches, "set")
	require.Contains(t, matches, "show")
	require.Contains(t, matches, "swap")
}

func TestMatchCommandRequiresMinimumLength(t *testing.T) {
	c, _ := newTestConsole()
	_, err := ProcessCommand("q", c)
	require.Error(t, err)
	_, err = ProcessCommand("qu", c)
	require.NoError(t, err)
}
