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
	"testing"
)

func kinds(t *testing.T, src string) []int {
	t.Helper()
	toks, err := tokenize(src)
	if err != nil {
		t.Fatalf("tokenize %q: %s", src, err)
	}
	out := make([]int, len(toks))
	for i := range toks {
		out[i] = toks[i].Kind()
	}
	return out
}

func TestTokenKinds(t *testing.T) {
	tests := []struct {
		src  string
		want []int
	}{
		{"a.b", []int{IDENT, DOT, IDENT}},
		{"a.<b", []int{IDENT, DOTBW, IDENT}},
		{"a@b", []int{IDENT, AT, IDENT}},
		{"a::b", []int{IDENT, COLONCOLON, IDENT}},
		{"a := b", []int{IDENT, ASSIGN, IDENT}},
		{"a : b", []int{IDENT, COLON, IDENT}},
		{"<T>x", []int{LANG, IDENT, RANG, IDENT}},
		{"{1, 2}", []int{LBRACE, ICONST, COMMA, ICONST, RBRACE}},
		{"f($x);", []int{IDENT, LPAREN, PARAMETER, RPAREN, SEMICOLON}},
		{"1.5 123n 1.5n", []int{FCONST, NICONST, NFCONST}},
		{"'s' b'b' r's'", []int{SCONST, BCONST, SCONST}},
		{"select Ident", []int{kwKind("select"), IDENT}},
		{"a | b & c", []int{IDENT, PIPE, IDENT, AMPER, IDENT}},
		{"# note\na", []int{IDENT}},
		{"", nil},
	}
	for _, tc := range tests {
		got := kinds(t, tc.src)
		if len(got) != len(tc.want) {
			t.Errorf("tokenize %q: got %v, want %v", tc.src, got, tc.want)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("tokenize %q: token %d is %s, want %s",
					tc.src, i, tokenName(got[i]), tokenName(tc.want[i]))
			}
		}
	}
}

// a float-shaped token directly after '.' is a tuple
// index, not a literal
func TestTupleIndexLexing(t *testing.T) {
	toks, err := tokenize("x.1.2")
	if err != nil {
		t.Fatal(err)
	}
	want := []int{IDENT, DOT, FCONST}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(want))
	}
	for i := range want {
		if toks[i].Kind() != want[i] {
			t.Fatalf("token %d is %s, want %s",
				i, tokenName(toks[i].Kind()), tokenName(want[i]))
		}
	}
	if toks[2].Text() != "1.2" {
		t.Errorf("index text %q, want %q", toks[2].Text(), "1.2")
	}

	// the malformed shape still lexes as one token so the
	// grammar can reject it with a specific message
	toks, err = tokenize("x.1.a")
	if err != nil {
		t.Fatal(err)
	}
	if len(toks) != 3 || toks[2].Kind() != FCONST || toks[2].Text() != "1.a" {
		t.Fatalf("malformed index lexed as %v", toks)
	}
}

func TestTokenValues(t *testing.T) {
	tests := []struct {
		src  string
		want any
	}{
		{"123", int64(123)},
		{"1.5", 1.5},
		{"123n", "123"},
		{"1.5n", "1.5"},
		{"'a\\nb'", "a\nb"},
		{"r'a\\nb'", `a\nb`},
		{"'\\u0041'", "A"},
		{"SELECT", "select"},
		{"$par", "par"},
		{"`Weird Name`", "Weird Name"},
	}
	for _, tc := range tests {
		toks, err := tokenize(tc.src)
		if err != nil {
			t.Errorf("tokenize %q: %s", tc.src, err)
			continue
		}
		if len(toks) != 1 {
			t.Errorf("tokenize %q: %d tokens", tc.src, len(toks))
			continue
		}
		if toks[0].Value() != tc.want {
			t.Errorf("tokenize %q: value %#v, want %#v", tc.src, toks[0].Value(), tc.want)
		}
	}
}

func TestTokenPositions(t *testing.T) {
	src := "ab .cd"
	toks, err := tokenize(src)
	if err != nil {
		t.Fatal(err)
	}
	spans := [][2]uint32{{0, 2}, {3, 4}, {4, 6}}
	if len(toks) != len(spans) {
		t.Fatalf("got %d tokens", len(toks))
	}
	for i := range toks {
		start, end := toks[i].Pos()
		if start != spans[i][0] || end != spans[i][1] {
			t.Errorf("token %d spans %d..%d, want %d..%d",
				i, start, end, spans[i][0], spans[i][1])
		}
	}
}
