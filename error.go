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

import "github.com/sabouaram/reactord/errors"

const (
	ErrCodeSettings errors.CodeError = iota + errors.MinPkgReactord
	ErrCodeBind
	ErrCodeVacant
	ErrCodeAlreadyListening
	ErrCodeNotListening
)

func init() {
	errors.RegisterIdFctMessage(ErrCodeSettings, getMessage)
}

func getMessage(code errors.CodeError) (message string) {
	switch code {
	case ErrCodeSettings:
		return "reactord: invalid settings"
	case ErrCodeBind:
		return "reactord: bind/listen failed"
	case ErrCodeVacant:
		return "reactord: fd is not an active connection"
	case ErrCodeAlreadyListening:
		return "reactord: server is already listening"
	case ErrCodeNotListening:
		return "reactord: server is not listening"
	}

	return ""
}
