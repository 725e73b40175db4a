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
	"math"
	"strings"
)

// Symbol is a grammar symbol: a terminal (a non-negative
// token kind supplied by the caller) or a nonterminal
// allocated by Grammar.NonTerm.
type Symbol int32

// None is the absent-symbol sentinel accepted by List
// for the separator.
const None Symbol = math.MinInt32

// T converts a token kind into a terminal symbol.
func T(kind int) Symbol {
	if kind < 0 {
		panic("lr: negative token kind")
	}
	return Symbol(kind)
}

func (s Symbol) terminal() bool { return s >= 0 }

// ntIndex returns the nonterminal index of s.
func (s Symbol) ntIndex() int { return int(-1 - s) }

// Value is one semantic value on the parse stack:
// the value produced by a shift (the Token itself) or by
// a reduction (the action result), plus its source span.
type Value struct {
	Val   any
	Start uint32
	End   uint32
}

// Action maps the matched child values of a production
// to the production's own value. Returning an error
// aborts the parse with that error.
type Action func(vals []Value) (any, error)

// Inline returns an action that forwards child i's value
// unchanged.
func Inline(i int) Action {
	return func(vals []Value) (any, error) {
		return vals[i].Val, nil
	}
}

type production struct {
	lhs  Symbol
	rhs  []Symbol
	prec *Prec
	act  Action
}

type start struct {
	marker int
	root   Symbol
}

// Grammar accumulates nonterminals, productions and
// precedence declarations, and compiles them into an
// immutable parse Table. A Grammar is single-threaded
// and is not used again after Compile.
type Grammar struct {
	termName func(int) string
	eof      int

	ntNames []string
	prods   []*production
	byLHS   [][]int

	nlevels  int
	termPrec map[int]*Prec

	starts []start
}

// New returns an empty grammar. eof is the token kind
// that terminates every input; termName renders token
// kinds in diagnostics.
func New(eof int, termName func(int) string) *Grammar {
	return &Grammar{
		termName: termName,
		eof:      eof,
		termPrec: make(map[int]*Prec),
	}
}

// NonTerm allocates a new named nonterminal.
func (g *Grammar) NonTerm(name string) Symbol {
	g.ntNames = append(g.ntNames, name)
	g.byLHS = append(g.byLHS, nil)
	return Symbol(-len(g.ntNames))
}

// Rule registers one production for lhs.
func (g *Grammar) Rule(lhs Symbol, rhs []Symbol, act Action) {
	g.RulePrec(lhs, rhs, nil, act)
}

// RulePrec registers one production for lhs with an
// explicit precedence tag.
func (g *Grammar) RulePrec(lhs Symbol, rhs []Symbol, prec *Prec, act Action) {
	if lhs.terminal() {
		panic("lr: production head must be a nonterminal")
	}
	g.prods = append(g.prods, &production{lhs: lhs, rhs: rhs, prec: prec, act: act})
	i := lhs.ntIndex()
	g.byLHS[i] = append(g.byLHS[i], len(g.prods)-1)
}

// List registers the two standard list productions for a
// separated sequence and returns the list nonterminal:
//
//	name: elem
//	name: name sep elem
//
// (or "name: name elem" when sep is None). The produced
// value is the []Value of the elements, in input order.
// This is the single mechanism for every separated
// sequence in a grammar; trailing separators are legal
// only where the caller adds an explicit wrapper
// production.
func (g *Grammar) List(name string, elem, sep Symbol) Symbol {
	nt := g.NonTerm(name)
	g.Rule(nt, []Symbol{elem}, func(vals []Value) (any, error) {
		return []Value{vals[0]}, nil
	})
	rhs := []Symbol{nt, sep, elem}
	last := 2
	if sep == None {
		rhs = []Symbol{nt, elem}
		last = 1
	}
	g.Rule(nt, rhs, func(vals []Value) (any, error) {
		return append(vals[0].Val.([]Value), vals[last]), nil
	})
	return nt
}

// Start declares an entry mode: when the first token of
// a parse is the marker kind, the parse recognizes one
// root and then end-of-input. At least one entry mode is
// required; each marker may be declared once.
func (g *Grammar) Start(marker int, root Symbol) {
	g.starts = append(g.starts, start{marker: marker, root: root})
}

// symName renders a symbol for diagnostics.
func (g *Grammar) symName(s Symbol) string {
	if s.terminal() {
		return g.termName(int(s))
	}
	return g.ntNames[s.ntIndex()]
}

// describe renders a production for diagnostics.
func (g *Grammar) describe(p *production) string {
	var b strings.Builder
	b.WriteString(g.symName(p.lhs))
	b.WriteString(" →")
	if len(p.rhs) == 0 {
		b.WriteString(" <empty>")
	}
	for _, s := range p.rhs {
		b.WriteByte(' ')
		b.WriteString(g.symName(s))
	}
	return b.String()
}

// ConflictError is a grammar-build failure: the grammar
// admits two actions for the same state and lookahead
// and no precedence declaration decides between them.
type ConflictError struct {
	// Token is the lookahead terminal.
	Token string
	// Reduce is the production whose reduction conflicts.
	Reduce string
	// With is the competing action: another production,
	// or "" for a shift of Token.
	With string
}

func (e *ConflictError) Error() string {
	if e.With == "" {
		return fmt.Sprintf("lr: unresolved shift/reduce conflict on %s: reduce %q or shift",
			e.Token, e.Reduce)
	}
	return fmt.Sprintf("lr: reduce/reduce conflict on %s: %q vs %q",
		e.Token, e.Reduce, e.With)
}
