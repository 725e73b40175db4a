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
	"sync"

	"github.com/quelang/quel/ast"
	"github.com/quelang/quel/lr"
)

var (
	tableOnce sync.Once
	table     *lr.Table
	tableErr  error
)

// sharedTable compiles the grammar once per process.
// Compilation failure indicates a defect in the grammar
// itself, so every parse reports it.
func sharedTable() (*lr.Table, error) {
	tableOnce.Do(func() {
		table, tableErr = newGrammar().g.Compile()
	})
	return table, tableErr
}

// tokenStream feeds pre-lexed tokens to the automaton,
// prefixed with an entry-mode marker and terminated by
// end-of-input.
type tokenStream struct {
	toks []*Token
	pos  int
}

func newTokenStream(marker int, toks []*Token, end uint32) *tokenStream {
	all := make([]*Token, 0, len(toks)+2)
	all = append(all, &Token{kind: marker})
	all = append(all, toks...)
	all = append(all, &Token{kind: EOF, start: end, end: end})
	return &tokenStream{toks: all}
}

func (s *tokenStream) Next() (lr.Token, error) {
	t := s.toks[s.pos]
	if s.pos < len(s.toks)-1 {
		s.pos++
	}
	return t, nil
}

func parse(marker int, src string) (any, error) {
	t, err := sharedTable()
	if err != nil {
		return nil, err
	}
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	out, err := t.Run(newTokenStream(marker, toks, uint32(len(src))))
	if err != nil {
		return nil, convert(err)
	}
	return out, nil
}

// ParseBlock parses a semicolon-separated sequence of
// statements.
func ParseBlock(src string) (*ast.Block, error) {
	out, err := parse(STARTBLOCK, src)
	if err != nil {
		return nil, err
	}
	return out.(*ast.Block), nil
}

// ParseFragment parses a single expression statement.
func ParseFragment(src string) (ast.Node, error) {
	out, err := parse(STARTFRAGMENT, src)
	if err != nil {
		return nil, err
	}
	return out.(ast.Node), nil
}
