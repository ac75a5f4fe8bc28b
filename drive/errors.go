/*
 * iecdrive - DOS error codes and the channel-15 error buffer.
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

// Code is one of the drive's legacy DOS status codes.
type Code int

// Status codes. Numbers follow the legacy dialect and are not sequential.
const (
	CodeOK               Code = 0
	CodeScratched        Code = 1
	CodeReadNoSync       Code = 21
	CodeSyntaxUnknown    Code = 30
	CodeSyntaxUnable     Code = 31
	CodeSyntaxNoName     Code = 33
	CodeSyntaxTooLong    Code = 34
	CodeFileNotFound     Code = 62
	CodeFileExists       Code = 63
	CodeNoChannel        Code = 70
	CodeDOSVersion       Code = 73
	CodePartitionIllegal Code = 77
	CodeImageInvalid     Code = 78
	CodeUnknownDriveCode Code = 79
	CodeClockUnstable    Code = 80

	// CodeStatus is the out-of-band status report the X commands answer
	// with; it lives above the legacy DOS code range.
	CodeStatus Code = 99
)

var messages = map[Code]string{
	CodeOK:               "OK",
	CodeScratched:        "FILES SCRATCHED",
	CodeReadNoSync:       "READ ERROR",
	CodePartitionIllegal: "PARTITION ILLEGAL",
	CodeUnknownDriveCode: "UNKNOWN DRIVE CODE",
	CodeSyntaxUnknown:    "SYNTAX ERROR",
	CodeSyntaxUnable:     "SYNTAX ERROR",
	CodeSyntaxNoName:     "SYNTAX ERROR NO NAME",
	CodeSyntaxTooLong:    "SYNTAX ERROR TOO LONG",
	CodeFileNotFound:     "FILE NOT FOUND",
	CodeFileExists:       "FILE EXISTS",
	CodeNoChannel:        "NO CHANNEL",
	CodeImageInvalid:     "IMAGE INVALID",
	CodeClockUnstable:    "CLOCK UNSTABLE",
	CodeDOSVersion:       "IECDRIVE V1.0",
	CodeStatus:           "STATUS",
}

// Message returns the short ASCII phrase for a code, falling back to a
// generic label for codes not in the table (mirrors the firmware's
// behavior of printing whatever error table entry exists).
func (c Code) Message() string {
	if m, ok := messages[c]; ok {
		return m
	}
	return "UNKNOWN"
}
