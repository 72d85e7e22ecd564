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

package tlshook

import (
	"crypto/tls"
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"github.com/sabouaram/reactord/certificates"
	"github.com/sabouaram/reactord/conntable"
	"github.com/sabouaram/reactord/socket"
)

func wrap(fd int, cfg certificates.TLSConfig, serverName string, server bool) (conntable.Hooks, error) {
	f := os.NewFile(uintptr(fd), fmt.Sprintf("tlshook-fd-%d", fd))
	if f == nil {
		return conntable.Hooks{}, ErrCodeNotAFile.Error(nil)
	}

	raw, err := net.FileConn(f)
	_ = f.Close()
	if err != nil {
		return conntable.Hooks{}, ErrCodeNotAFile.Error(err)
	}

	var conn *tls.Conn
	if server {
		conn = tls.Server(raw, cfg.TLS(serverName))
	} else {
		conn = tls.Client(raw, cfg.TLS(serverName))
	}

	h := &hook{conn: conn}
	return conntable.Hooks{Read: h.read, Write: h.write}, nil
}

// hook adapts a *tls.Conn's blocking io.Reader/io.Writer semantics to
// the n>0/n=0/n<0 transport hook contract (§4.4): each call arms an
// immediate deadline so the underlying netpoller attempts the syscall
// once and returns rather than parking the calling (reactor worker)
// goroutine.
type hook struct {
	mu   sync.Mutex
	conn *tls.Conn
}

func (h *hook) read(p []byte) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.conn.SetReadDeadline(time.Now()); err != nil {
		return -1, err
	}

	n, err := h.conn.Read(p)
	if n > 0 {
		return n, nil
	}

	return h.classify(err)
}

func (h *hook) write(p []byte) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.conn.SetWriteDeadline(time.Now()); err != nil {
		return -1, err
	}

	n, err := h.conn.Write(p)
	if n > 0 {
		return n, nil
	}

	return h.classify(err)
}

// classify turns a zero-byte I/O error into the hook contract's n=0
// (transient, retry on the next readiness edge) or n=-1 (fatal) per
// whether it is a deadline timeout.
func (h *hook) classify(err error) (int, error) {
	if err == nil {
		return 0, nil
	}

	if ne, ok := err.(net.Error); ok && ne.Timeout() {
		return 0, nil
	}

	if filtered := socket.ErrorFilter(err); filtered == nil {
		return -1, nil
	}

	return -1, err
}
