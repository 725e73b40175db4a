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

package lr

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

// Token is one element of the input stream.
type Token interface {
	// Kind returns the terminal kind of the token.
	Kind() int
	// Pos returns the source span of the token.
	Pos() (start, end uint32)
}

// TokenStream supplies tokens strictly left to right.
// The first token must be an entry-mode marker and the
// stream must end with the grammar's eof kind.
type TokenStream interface {
	Next() (Token, error)
}

// SyntaxError is an unexpected token at parse time.
type SyntaxError struct {
	Start uint32
	End   uint32
	// Token is the display name of the offending token.
	Token string
	// Expected lists the terminals the automaton could
	// have consumed instead, sorted.
	Expected []string
}

func (e *SyntaxError) Error() string {
	if len(e.Expected) == 0 {
		return fmt.Sprintf("at offset %d: unexpected %s", e.Start, e.Token)
	}
	return fmt.Sprintf("at offset %d: unexpected %s (expected %s)",
		e.Start, e.Token, strings.Join(e.Expected, ", "))
}

type frame struct {
	state int
	val   Value
}

// Run drives the automaton over src and returns the
// value of the root production. Each call uses a fresh
// stack; a Table may serve any number of concurrent Run
// calls.
func (t *Table) Run(src TokenStream) (any, error) {
	stack := make([]frame, 1, 64)
	tok, err := src.Next()
	if err != nil {
		return nil, err
	}
	for {
		r := &t.rows[stack[len(stack)-1].state]
		kind := tok.Kind()
		if to, ok := r.shift[kind]; ok {
			start, end := tok.Pos()
			stack = append(stack, frame{state: to, val: Value{Val: tok, Start: start, End: end}})
			tok, err = src.Next()
			if err != nil {
				return nil, err
			}
			continue
		}
		pi, ok := r.reduce[kind]
		if !ok {
			return nil, t.unexpected(r, tok)
		}
		p := t.g.prods[pi]
		if p.lhs == t.accept {
			return stack[len(stack)-1].val.Val, nil
		}
		n := len(p.rhs)
		base := len(stack) - n
		children := stack[base:]
		var start, end uint32
		if n > 0 {
			start, end = children[0].val.Start, children[n-1].val.End
		} else {
			start, _ = tok.Pos()
			end = start
		}
		var out any
		if p.act != nil {
			vals := make([]Value, n)
			for i := range vals {
				vals[i] = children[i].val
			}
			out, err = p.act(vals)
			if err != nil {
				return nil, err
			}
		} else if n > 0 {
			out = children[0].val.Val
		}
		stack = stack[:base]
		to, ok := t.rows[stack[len(stack)-1].state].gotos[p.lhs.ntIndex()]
		if !ok {
			// cannot happen on a table produced by Compile
			return nil, fmt.Errorf("lr: no goto for %s", t.g.symName(p.lhs))
		}
		stack = append(stack, frame{state: to, val: Value{Val: out, Start: start, End: end}})
	}
}

func (t *Table) unexpected(r *row, tok Token) error {
	start, end := tok.Pos()
	expected := make([]string, 0, len(r.shift)+len(r.reduce))
	for kind := range r.shift {
		expected = append(expected, t.g.termName(kind))
	}
	for kind := range r.reduce {
		if _, ok := r.shift[kind]; !ok {
			expected = append(expected, t.g.termName(kind))
		}
	}
	slices.Sort(expected)
	expected = slices.Compact(expected)
	return &SyntaxError{
		Start:    start,
		End:      end,
		Token:    t.g.termName(tok.Kind()),
		Expected: expected,
	}
}
