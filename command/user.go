/*
 * iecdrive - U-series utility commands.
 *
 * The U0 subform gate is the literal "low 5 bits of the second byte
 * equal $1e" test, not a looser "U0 followed by '>'" check.
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
package command

import "github.com/ikorb/iecdrive/drive"

func (p *Parser) parseUser(buf []byte) {
	eb := p.State.Pool.Error()
	switch at(buf, 1) {
	case 'A', '1':
		// U1/UA alias B-R: rewrite in place and fall into the block parser.
		buf[0], buf[1] = '-', 'R'
		p.parseBlock(buf)

	case 'B', '2':
		buf[0], buf[1] = '-', 'W'
		p.parseBlock(buf)

	case 'I', '9':
		switch at(buf, 2) {
		case 0:
			eb.Set(drive.CodeDOSVersion, 0, 0)
		case '+':
			p.State.Flags &^= drive.FlagVIC20Mode
			eb.SetOK()
		case '-':
			p.State.Flags |= drive.FlagVIC20Mode
			eb.SetOK()
		default:
			eb.Set(drive.CodeSyntaxUnknown, 0, 0)
		}

	case 'J', ':':
		if p.State.RestartHook != nil {
			p.State.RestartHook()
		}

	case '0':
		if at(buf, 2)&0x1f == 0x1e && at(buf, 3) >= drive.MinDeviceAddress && at(buf, 3) <= drive.MaxDeviceAddress {
			p.State.DeviceAddress = int(at(buf, 3))
			eb.SetOK()
			return
		}
		eb.Set(drive.CodeSyntaxUnknown, 0, 0)

	default:
		eb.Set(drive.CodeSyntaxUnknown, 0, 0)
	}
}
