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
	"github.com/sabouaram/reactord/certificates"
	"github.com/sabouaram/reactord/conntable"
)

// Wrap takes ownership of fd, performs (or schedules, for the server
// side) a TLS handshake over it using cfg, and returns the
// conntable.Hooks pair to install via rw_hooks. serverName selects the
// client-side SNI/verification name; it is ignored when server is
// true. The handshake itself is lazy: tls.Conn defers it to the first
// Read/Write, so Wrap never blocks the calling goroutine.
func Wrap(fd int, cfg certificates.TLSConfig, serverName string, server bool) (conntable.Hooks, error) {
	return wrap(fd, cfg, serverName, server)
}
