// Copyright 2025 the Quel authors
//
//  Licensed under the Apache License, Version 2.0 (the "License");
//  you may not use this file except in compliance with the License.
//  You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
//  Unless required by applicable law or agreed to in writing, software
//  distributed under the License is distributed on an "AS IS" BASIS,
//  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//  See the License for the specific language governing permissions and
//  limitations under the License.

package ast

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/quelang/quel/keywords"
)

// identText writes name as an identifier, backtick
// quoting any spelling that would not lex back to the
// same name.
func identText(dst *strings.Builder, name string) {
	if !identNeedsQuote(name) {
		dst.WriteString(name)
		return
	}
	dst.WriteByte('`')
	dst.WriteString(name)
	dst.WriteByte('`')
}

func identNeedsQuote(name string) bool {
	if name == "" {
		return true
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c != '_' && !(c >= 'a' && c <= 'z') && !(c >= 'A' && c <= 'Z') &&
			!(c >= '0' && c <= '9') {
			return true
		}
	}
	if name[0] >= '0' && name[0] <= '9' {
		return true
	}
	lower := strings.ToLower(name)
	switch keywords.Classify(lower) {
	case keywords.Reserved, keywords.PartialReserved:
		return true
	case keywords.Unreserved:
		// a mixed-case spelling would lex to the
		// lower-cased keyword
		return name != lower
	}
	return len(name) > 4 &&
		strings.HasPrefix(name, "__") && strings.HasSuffix(name, "__")
}

// Quote produces a single-quoted string literal;
// escape sequences are encoded using either the
// traditional ascii escapes (\n, \t, etc.)
// or unicode escapes where appropriate.
func Quote(s string) string {
	var buf strings.Builder
	quote(&buf, s)
	return buf.String()
}

func quote(out *strings.Builder, s string) {
	out.WriteByte('\'')
	for _, r := range s {
		switch {
		case r == '\'' || r == '\\':
			out.WriteByte('\\')
			out.WriteRune(r)
		case strconv.IsPrint(r):
			out.WriteRune(r)
		case r == '\t':
			out.WriteString(`\t`)
		case r == '\n':
			out.WriteString(`\n`)
		case r == '\r':
			out.WriteString(`\r`)
		case r == '\b':
			out.WriteString(`\b`)
		case r == '\f':
			out.WriteString(`\f`)
		case r <= 0xffff:
			fmt.Fprintf(out, `\u%04x`, r)
		default:
			fmt.Fprintf(out, `\U%08x`, r)
		}
	}
	out.WriteByte('\'')
}

func quoteBytes(out *strings.Builder, b []byte) {
	out.WriteByte('\'')
	for _, c := range b {
		switch {
		case c == '\'' || c == '\\':
			out.WriteByte('\\')
			out.WriteByte(c)
		case c >= 0x20 && c < 0x7f:
			out.WriteByte(c)
		default:
			fmt.Fprintf(out, "\\x%02x", c)
		}
	}
	out.WriteByte('\'')
}

// Unescape resolves backslash escape sequences
// (\t, \n, \uXXXX, ...) in the body of a string literal.
func Unescape(buf []byte) (string, error) {
	out, err := unescape(buf, false)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// UnescapeBytes resolves escape sequences in the body
// of a bytes literal; \xHH escapes are permitted and
// unicode escapes are not.
func UnescapeBytes(buf []byte) ([]byte, error) {
	return unescape(buf, true)
}

func unescape(buf []byte, binary bool) ([]byte, error) {
	var tmp []byte
	for i := 0; i < len(buf); i++ {
		c := buf[i]
		if c >= utf8.RuneSelf {
			r, size := utf8.DecodeRune(buf[i:])
			if r == utf8.RuneError {
				return nil, fmt.Errorf("ast.Unescape: invalid rune 0x%x", buf[i:i+size])
			}
			tmp = append(tmp, buf[i:i+size]...)
			i += size - 1
			continue
		} else if c != '\\' {
			tmp = append(tmp, c)
			continue
		}
		i++
		if i >= len(buf) {
			return nil, fmt.Errorf("ast.Unescape: cannot unescape trailing \\")
		}
		c = buf[i]
		switch c {
		case '\\':
			tmp = append(tmp, '\\')
		case 't':
			tmp = append(tmp, '\t')
		case 'n':
			tmp = append(tmp, '\n')
		case 'r':
			tmp = append(tmp, '\r')
		case 'b':
			tmp = append(tmp, '\b')
		case 'f':
			tmp = append(tmp, '\f')
		case '\'':
			tmp = append(tmp, '\'')
		case '"':
			tmp = append(tmp, '"')
		case 'x':
			if !binary {
				return nil, fmt.Errorf("ast.Unescape: \\x escape outside bytes literal")
			}
			if i+2 >= len(buf) {
				return nil, fmt.Errorf("ast.Unescape: invalid \\x escape sequence")
			}
			hi, ok1 := hexdigit(buf[i+1])
			lo, ok2 := hexdigit(buf[i+2])
			if !ok1 || !ok2 {
				return nil, fmt.Errorf("ast.Unescape: invalid \\x escape sequence")
			}
			tmp = append(tmp, hi<<4|lo)
			i += 2
		case 'u', 'U':
			if binary {
				return nil, fmt.Errorf("ast.Unescape: \\%c escape inside bytes literal", c)
			}
			n := 4
			if c == 'U' {
				n = 8
			}
			r := rune(0)
			i++
			for j := i; j < i+n; j++ {
				if j >= len(buf) {
					return nil, fmt.Errorf("ast.Unescape: invalid \\%c escape sequence", c)
				}
				d, ok := hexdigit(buf[j])
				if !ok {
					return nil, fmt.Errorf("ast.Unescape: invalid hex digit %q", string(rune(buf[j])))
				}
				r = r*16 + rune(d)
			}
			i += n - 1
			if !utf8.ValidRune(r) {
				return nil, fmt.Errorf("ast.Unescape: rune U%x is invalid", r)
			}
			tmp = utf8.AppendRune(tmp, r)
		default:
			return nil, fmt.Errorf("ast.Unescape: unexpected backslash escape of %q (0x%[1]x)", c)
		}
	}
	return tmp, nil
}

func hexdigit(b byte) (byte, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, true
	}
	return 0, false
}
