/*
 * Simulated bus test cases.
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

package bus

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSimLinesReleasedByDefault(t *testing.T) {
	s := NewSim()
	l := s.Read()
	require.True(t, l.Has(BitData))
	require.True(t, l.Has(BitClock))
	require.True(t, l.Has(BitATN))
}

func TestSimDriveAssertsData(t *testing.T) {
	s := NewSim()
	s.SetData(true)
	require.False(t, s.Read().Has(BitData))
	require.True(t, Asserted(s.Read(), BitData))
}

func TestSimOpenCollectorEitherSideWins(t *testing.T) {
	s := NewSim()
	s.HostSetClock(true)
	require.False(t, s.Read().Has(BitClock), "host asserting clock should pull the shared line low")

	s.HostSetClock(false)
	s.SetClock(true)
	require.False(t, s.Read().Has(BitClock), "drive asserting clock should also pull the shared line low")

	s.SetClock(false)
	require.True(t, s.Read().Has(BitClock))
}

func TestSimHostATNIsReadOnlyFromDrive(t *testing.T) {
	s := NewSim()
	require.True(t, s.Read().Has(BitATN))
	s.HostSetATN(true)
	require.False(t, s.Read().Has(BitATN))
}
