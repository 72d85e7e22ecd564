/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package writequeue

import "github.com/sabouaram/reactord/file/progress"

// DefaultChunkSize is the recommended read size for file-backed packets
// (§4.3: "recommended 64 KiB").
const DefaultChunkSize = 64 * 1024

// WriteHook is the transport write function a Drain call invokes for
// each head packet. Contract (§4.4): n>0 bytes moved, n=0 transient
// (stop draining, retry on the next readiness edge), n<0 fatal (caller
// must close the connection).
type WriteHook func(p []byte) (n int, err error)

type packet struct {
	buf  []byte
	file progress.Progress
	chunk int

	fileDone bool
}

func (p *packet) isFile() bool { return p.file != nil }

// fill tops up buf from the file for a file-backed packet whose buffer
// has drained. Returns true once the file has reached EOF and nothing
// is left to send.
func (p *packet) fill() (exhausted bool, err error) {
	if !p.isFile() || len(p.buf) > 0 || p.fileDone {
		return p.isFile() && p.fileDone && len(p.buf) == 0, nil
	}

	chunk := p.chunk
	if chunk <= 0 {
		chunk = DefaultChunkSize
	}
	buf := make([]byte, chunk)

	n, rerr := p.file.Read(buf)
	if n > 0 {
		p.buf = buf[:n]
	}
	if rerr != nil {
		p.fileDone = true
		_ = p.file.Close()
		if n == 0 {
			return true, nil
		}
	}
	return false, nil
}
