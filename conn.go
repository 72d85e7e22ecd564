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

package reactord

import (
	"github.com/sabouaram/reactord/conntable"
	"github.com/sabouaram/reactord/file/progress"
)

// conn is the protocol.Conn a callback receives. It wraps a live
// Borrow rather than re-looking up the fd, so calls made from inside
// a protected callback (which already holds the slot lock) never
// re-enter conntable's non-reentrant mutex.
type conn struct {
	srv *Server
	b   *conntable.Borrow
}

func (c *conn) Fd() int { return c.b.Fd() }

// Read performs one direct, non-blocking read (§6 read(fd,buf,max)):
// n>0 is bytes read, n==0 means nothing is available right now, n<0
// with err set means the connection is fatally broken or at EOF.
func (c *conn) Read(buf []byte) (int, error) {
	return c.srv.readRaw(c.b, buf)
}

func (c *conn) Write(p []byte) (int, error) {
	if err := c.b.Queue().Write(p); err != nil {
		return 0, err
	}
	c.srv.armWritable(c.Fd())
	return len(p), nil
}

func (c *conn) WriteMove(p []byte) (int, error) {
	if err := c.b.Queue().WriteMove(p); err != nil {
		return 0, err
	}
	c.srv.armWritable(c.Fd())
	return len(p), nil
}

func (c *conn) WriteUrgent(p []byte) (int, error) {
	if err := c.b.Queue().WriteUrgent(p); err != nil {
		return 0, err
	}
	c.srv.armWritable(c.Fd())
	return len(p), nil
}

func (c *conn) WriteMoveUrgent(p []byte) (int, error) {
	if err := c.b.Queue().WriteMoveUrgent(p); err != nil {
		return 0, err
	}
	c.srv.armWritable(c.Fd())
	return len(p), nil
}

// SendFile enqueues f (read in chunkSize pieces, or DefaultChunkSize if
// <= 0) as a tail packet (§4.3 sendfile); f is closed on completion or
// on Reset.
func (c *conn) SendFile(f progress.Progress, chunkSize int) error {
	if err := c.b.Queue().SendFile(f, chunkSize); err != nil {
		return err
	}
	c.srv.armWritable(c.Fd())
	return nil
}

// Close implements the deferred-close semantics of §3/§4.3: if the
// write queue is empty it closes now, otherwise it marks fd closing and
// lets the pending writes drain on subsequent writable events before
// the fd actually closes. Operates on the Borrow this callback already
// holds rather than re-locking fd.
func (c *conn) Close() error {
	return c.srv.closeConn(c.b)
}

func (c *conn) Touch() { c.b.Touch() }
