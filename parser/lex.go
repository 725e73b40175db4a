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

package parser

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/quelang/quel/ast"
	"github.com/quelang/quel/keywords"
)

// LexerError describes a lexing error.
type LexerError struct {
	Position int    // offset in the input string
	Message  string // textual description of the error
}

func (e *LexerError) Error() string {
	return fmt.Sprintf("at position %d: %s", e.Position, e.Message)
}

type scanner struct {
	from string
	pos  int
	// last is the kind of the previous token; a number
	// immediately following '.' is lexed as a tuple
	// index rather than an ordinary literal
	last int
}

func isdigit(x byte) bool {
	return x >= '0' && x <= '9'
}

func isalpha(x byte) bool {
	return (x >= 'a' && x <= 'z') || (x >= 'A' && x <= 'Z')
}

func isident(x byte) bool {
	return isalpha(x) || isdigit(x) || x == '_'
}

func isspace(x byte) bool {
	return x == ' ' || x == '\n' || x == '\t' || x == '\r' || x == '\f' || x == '\v'
}

// chomp whitespace and # comments from input
func (s *scanner) chompws() {
	for s.pos < len(s.from) {
		if isspace(s.from[s.pos]) {
			s.pos++
		} else if s.from[s.pos] == '#' {
			for s.pos < len(s.from) && s.from[s.pos] != '\n' {
				s.pos++
			}
		} else {
			break
		}
	}
}

func (s *scanner) peekat(i int) byte {
	if s.pos+i < len(s.from) {
		return s.from[s.pos+i]
	}
	return 0
}

func (s *scanner) errorf(pos int, format string, args ...any) error {
	return &LexerError{Position: pos, Message: fmt.Sprintf(format, args...)}
}

// tokenize lexes the entire input. The resulting slice
// contains neither entry markers nor an EOF token; the
// token stream wrapper adds those.
func tokenize(src string) ([]*Token, error) {
	s := &scanner{from: src, last: -1}
	var out []*Token
	for {
		tok, err := s.next()
		if err != nil {
			return nil, err
		}
		if tok == nil {
			return out, nil
		}
		s.last = tok.kind
		out = append(out, tok)
	}
}

func (s *scanner) next() (*Token, error) {
	s.chompws()
	if s.pos >= len(s.from) {
		return nil, nil
	}
	start := s.pos
	b := s.from[s.pos]
	if isdigit(b) {
		return s.lexNumber()
	}
	if b == 'b' && (s.peekat(1) == '\'' || s.peekat(1) == '"') {
		s.pos++
		body, err := s.lexQuoted()
		if err != nil {
			return nil, err
		}
		val, err := ast.UnescapeBytes([]byte(body))
		if err != nil {
			return nil, s.errorf(start, "%s", err)
		}
		return s.emit(BCONST, start, val), nil
	}
	if b == 'r' && (s.peekat(1) == '\'' || s.peekat(1) == '"') {
		s.pos++
		body, err := s.lexRawQuoted()
		if err != nil {
			return nil, err
		}
		return s.emit(SCONST, start, body), nil
	}
	if isalpha(b) || b == '_' {
		return s.lexIdent()
	}
	switch b {
	case '\'', '"':
		body, err := s.lexQuoted()
		if err != nil {
			return nil, err
		}
		val, err := ast.Unescape([]byte(body))
		if err != nil {
			return nil, s.errorf(start, "%s", err)
		}
		return s.emit(SCONST, start, val), nil
	case '`':
		return s.lexQuotedIdent()
	case '$':
		return s.lexParameter()
	case '(':
		s.pos++
		return s.emit(LPAREN, start, nil), nil
	case ')':
		s.pos++
		return s.emit(RPAREN, start, nil), nil
	case '{':
		s.pos++
		return s.emit(LBRACE, start, nil), nil
	case '}':
		s.pos++
		return s.emit(RBRACE, start, nil), nil
	case ',':
		s.pos++
		return s.emit(COMMA, start, nil), nil
	case ';':
		s.pos++
		return s.emit(SEMICOLON, start, nil), nil
	case '@':
		s.pos++
		return s.emit(AT, start, nil), nil
	case '|':
		s.pos++
		return s.emit(PIPE, start, nil), nil
	case '&':
		s.pos++
		return s.emit(AMPER, start, nil), nil
	case '<':
		s.pos++
		return s.emit(LANG, start, nil), nil
	case '>':
		s.pos++
		return s.emit(RANG, start, nil), nil
	case '.':
		if s.peekat(1) == '<' {
			s.pos += 2
			return s.emit(DOTBW, start, nil), nil
		}
		s.pos++
		return s.emit(DOT, start, nil), nil
	case ':':
		if s.peekat(1) == ':' {
			s.pos += 2
			return s.emit(COLONCOLON, start, nil), nil
		}
		if s.peekat(1) == '=' {
			s.pos += 2
			return s.emit(ASSIGN, start, nil), nil
		}
		s.pos++
		return s.emit(COLON, start, nil), nil
	default:
		return nil, s.errorf(start, "unexpected character %q", b)
	}
}

func (s *scanner) emit(kind, start int, val any) *Token {
	return &Token{
		kind:  kind,
		text:  s.from[start:s.pos],
		val:   val,
		start: uint32(start),
		end:   uint32(s.pos),
	}
}

// lex an identifier and either return it as an
// identifier or a keyword (if it matches one);
// keywords are case-insensitive
func (s *scanner) lexIdent() (*Token, error) {
	start := s.pos
	s.pos++
	for s.pos < len(s.from) && isident(s.from[s.pos]) {
		s.pos++
	}
	text := s.from[start:s.pos]
	lower := strings.ToLower(text)
	if keywords.Classify(lower) != keywords.NotKeyword {
		return s.emit(kwKind(lower), start, lower), nil
	}
	return s.emit(IDENT, start, text), nil
}

// lexQuotedIdent lexes a `quoted` identifier; the
// cleaned value has the backticks stripped and the
// spelling is never interpreted as a keyword
func (s *scanner) lexQuotedIdent() (*Token, error) {
	start := s.pos
	s.pos++
	for s.pos < len(s.from) && s.from[s.pos] != '`' {
		s.pos++
	}
	if s.pos >= len(s.from) {
		return nil, s.errorf(start, "unterminated quoted identifier")
	}
	body := s.from[start+1 : s.pos]
	s.pos++
	if body == "" {
		return nil, s.errorf(start, "empty quoted identifier")
	}
	return s.emit(IDENT, start, body), nil
}

func (s *scanner) lexParameter() (*Token, error) {
	start := s.pos
	s.pos++
	for s.pos < len(s.from) && isident(s.from[s.pos]) {
		s.pos++
	}
	if s.pos == start+1 {
		return nil, s.errorf(start, "missing parameter name after '$'")
	}
	return s.emit(PARAMETER, start, s.from[start+1:s.pos]), nil
}

// lexQuoted consumes a quoted literal (the opening quote
// is at s.pos) and returns its body with the quotes
// stripped but escapes unresolved.
func (s *scanner) lexQuoted() (string, error) {
	quote := s.from[s.pos]
	start := s.pos
	s.pos++
	bodyStart := s.pos
	for s.pos < len(s.from) {
		if s.from[s.pos] == '\\' {
			s.pos += 2
			continue
		}
		if s.from[s.pos] == quote {
			body := s.from[bodyStart:s.pos]
			s.pos++
			return body, nil
		}
		s.pos++
	}
	return "", s.errorf(start, "unterminated string literal")
}

// lexRawQuoted is like lexQuoted but backslashes carry
// no meaning.
func (s *scanner) lexRawQuoted() (string, error) {
	quote := s.from[s.pos]
	start := s.pos
	s.pos++
	bodyStart := s.pos
	for s.pos < len(s.from) {
		if s.from[s.pos] == quote {
			body := s.from[bodyStart:s.pos]
			s.pos++
			if !utf8.ValidString(body) {
				return "", s.errorf(start, "string literal is not valid utf-8")
			}
			return body, nil
		}
		s.pos++
	}
	return "", s.errorf(start, "unterminated string literal")
}

// lexNumber lexes an integer, float, bigint or decimal
// literal. Directly after a '.', a float-shaped spelling
// is consumed as one token even when malformed
// ("1.a") so that the tuple-index rule can reject it
// with a targeted message.
func (s *scanner) lexNumber() (*Token, error) {
	start := s.pos
	afterDot := s.last == DOT
	float := false
	malformed := false
	for s.pos < len(s.from) && isdigit(s.from[s.pos]) {
		s.pos++
	}
	if s.peekat(0) == '.' {
		switch {
		case isdigit(s.peekat(1)):
			float = true
			s.pos++
			for s.pos < len(s.from) && isdigit(s.from[s.pos]) {
				s.pos++
			}
		case afterDot && (isalpha(s.peekat(1)) || s.peekat(1) == '_'):
			// malformed tuple index such as x.1.a
			float = true
			malformed = true
			s.pos++
			for s.pos < len(s.from) && isident(s.from[s.pos]) {
				s.pos++
			}
		}
	}
	if !malformed && (s.peekat(0) == 'e' || s.peekat(0) == 'E') {
		i := 1
		if s.peekat(i) == '+' || s.peekat(i) == '-' {
			i++
		}
		if isdigit(s.peekat(i)) {
			float = true
			s.pos += i + 1
			for s.pos < len(s.from) && isdigit(s.from[s.pos]) {
				s.pos++
			}
		}
	}
	if !malformed && s.peekat(0) == 'n' {
		s.pos++
		text := s.from[start : s.pos-1]
		if float {
			return s.emit(NFCONST, start, text), nil
		}
		return s.emit(NICONST, start, text), nil
	}
	text := s.from[start:s.pos]
	if float {
		val := 0.0
		if !malformed {
			var err error
			val, err = strconv.ParseFloat(text, 64)
			if err != nil {
				return nil, s.errorf(start, "invalid float literal %q", text)
			}
		}
		return s.emit(FCONST, start, val), nil
	}
	val, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return nil, s.errorf(start, "integer literal %q out of range", text)
	}
	return s.emit(ICONST, start, val), nil
}
