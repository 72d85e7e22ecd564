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

package socket_test

import (
	"fmt"

	libsck "github.com/sabouaram/reactord/socket"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ConnState", func() {
	It("orders the lifecycle states as documented", func() {
		Expect(libsck.ConnectionDial).To(Equal(libsck.ConnState(0)))
		Expect(libsck.ConnectionNew).To(Equal(libsck.ConnState(1)))
		Expect(libsck.ConnectionRead).To(Equal(libsck.ConnState(2)))
		Expect(libsck.ConnectionCloseRead).To(Equal(libsck.ConnState(3)))
		Expect(libsck.ConnectionHandler).To(Equal(libsck.ConnState(4)))
		Expect(libsck.ConnectionWrite).To(Equal(libsck.ConnState(5)))
		Expect(libsck.ConnectionCloseWrite).To(Equal(libsck.ConnState(6)))
		Expect(libsck.ConnectionClose).To(Equal(libsck.ConnState(7)))
	})

	It("renders an unknown label for out-of-range values", func() {
		Expect(libsck.ConnState(255).String()).To(Equal("unknown connection state"))
	})
})

var _ = Describe("ErrorFilter", func() {
	It("drops the closed-connection error", func() {
		Expect(libsck.ErrorFilter(fmt.Errorf("use of closed network connection"))).To(BeNil())
	})

	It("passes through nil", func() {
		Expect(libsck.ErrorFilter(nil)).To(BeNil())
	})

	It("passes through any other error unchanged", func() {
		err := fmt.Errorf("connection reset by peer")
		Expect(libsck.ErrorFilter(err)).To(Equal(err))
	})
})

var _ = Describe("Package constants", func() {
	It("defines the default read-buffer size", func() {
		Expect(libsck.DefaultBufferSize).To(Equal(32 * 1024))
	})

	It("defines EOL as a newline byte", func() {
		Expect(libsck.EOL).To(Equal(byte('\n')))
	})
})
