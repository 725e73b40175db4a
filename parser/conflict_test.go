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
	"errors"
	"testing"

	"github.com/quelang/quel/lr"
)

func TestGrammarCompiles(t *testing.T) {
	if _, err := newGrammar().g.Compile(); err != nil {
		t.Fatalf("grammar does not compile: %s", err)
	}
}

// A parenthesized FOR body (FOR x IN expr (expr)) would
// put '(' in the follow set of the iterator expression,
// which collides with the function-call production that
// requires a name and '(' to be adjacent. The table
// compiler must refuse such a grammar rather than pick a
// resolution silently.
func TestForParenthesizedBodyConflict(t *testing.T) {
	spec := newGrammar()
	spec.g.Rule(spec.simpleFor,
		[]lr.Symbol{
			kw("for"), spec.identifier, kw("in"), spec.expr,
			lr.T(LPAREN), spec.expr, lr.T(RPAREN),
		},
		nil)
	_, err := spec.g.Compile()
	if err == nil {
		t.Fatal("expected a conflict")
	}
	var ce *lr.ConflictError
	if !errors.As(err, &ce) {
		t.Fatalf("got %T (%s), want *lr.ConflictError", err, err)
	}
	if ce.Token != tokenName(LPAREN) {
		t.Errorf("conflict reported on %s, want %s", ce.Token, tokenName(LPAREN))
	}
}
