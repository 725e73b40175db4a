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
	"strings"

	"github.com/quelang/quel/keywords"
)

// Token kinds. Keyword kinds are allocated after kwBase,
// one per entry of keywords.All, in order.
const (
	EOF = iota
	// entry-mode markers, injected before the first
	// real token to select a start production
	STARTBLOCK
	STARTFRAGMENT

	IDENT
	PARAMETER // $name
	ICONST    // 123
	FCONST    // 1.5, 1e3
	NICONST   // 123n
	NFCONST   // 1.5n
	SCONST    // 'abc'
	BCONST    // b'abc'

	LPAREN
	RPAREN
	LBRACE
	RBRACE
	COMMA
	DOT
	DOTBW // .<
	SEMICOLON
	COLON
	COLONCOLON
	ASSIGN // :=
	LANG   // <
	RANG   // >
	PIPE
	AMPER
	AT

	kwBase
)

var fixedNames = map[int]string{
	EOF:           "end of input",
	STARTBLOCK:    "<block>",
	STARTFRAGMENT: "<fragment>",
	IDENT:         "identifier",
	PARAMETER:     "parameter",
	ICONST:        "integer literal",
	FCONST:        "float literal",
	NICONST:       "bigint literal",
	NFCONST:       "decimal literal",
	SCONST:        "string literal",
	BCONST:        "bytes literal",
	LPAREN:        "'('",
	RPAREN:        "')'",
	LBRACE:        "'{'",
	RBRACE:        "'}'",
	COMMA:         "','",
	DOT:           "'.'",
	DOTBW:         "'.<'",
	SEMICOLON:     "';'",
	COLON:         "':'",
	COLONCOLON:    "'::'",
	ASSIGN:        "':='",
	LANG:          "'<'",
	RANG:          "'>'",
	PIPE:          "'|'",
	AMPER:         "'&'",
	AT:            "'@'",
}

// kwKind returns the token kind of a (lower-cased)
// keyword spelling, or -1.
func kwKind(spelling string) int {
	i := keywords.Index(spelling)
	if i < 0 {
		return -1
	}
	return kwBase + i
}

// tokenName renders a token kind for diagnostics.
func tokenName(kind int) string {
	if name, ok := fixedNames[kind]; ok {
		return name
	}
	all := keywords.All()
	if i := kind - kwBase; i >= 0 && i < len(all) {
		return strings.ToUpper(all[i])
	}
	return "<invalid>"
}

// Token is one lexed token: its terminal kind, the raw
// source text, the cleaned literal value (quotes and
// escapes resolved, sigils and suffixes stripped), and
// the source span. Tokens are immutable once lexed.
type Token struct {
	kind  int
	text  string
	val   any
	start uint32
	end   uint32
}

// Kind returns the terminal kind.
func (t *Token) Kind() int { return t.kind }

// Pos returns the source span.
func (t *Token) Pos() (start, end uint32) { return t.start, t.end }

// Text returns the raw source text.
func (t *Token) Text() string { return t.text }

// Value returns the cleaned literal value.
func (t *Token) Value() any { return t.val }

// str returns the cleaned value as a string.
func (t *Token) str() string { return t.val.(string) }
