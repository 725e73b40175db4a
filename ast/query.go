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
	"strings"

	"golang.org/x/exp/slices"
)

// SelectQuery is SELECT expr.
type SelectQuery struct {
	Span Span

	Result Node
}

func (s *SelectQuery) text(dst *strings.Builder) {
	dst.WriteString("SELECT ")
	s.Result.text(dst)
}

func (s *SelectQuery) Equals(x Node) bool {
	xs, ok := x.(*SelectQuery)
	return ok && s.Result.Equals(xs.Result)
}

func (s *SelectQuery) Where() Span { return s.Span }

func (s *SelectQuery) walk(v Visitor) { Walk(v, s.Result) }

// ForQuery is FOR alias IN iterator UNION result.
type ForQuery struct {
	Span Span

	// Alias is the iterator binding name.
	Alias string
	// Iterator is the expression iterated over.
	Iterator Node
	// Result is the per-element result expression.
	Result Node
}

func (f *ForQuery) text(dst *strings.Builder) {
	dst.WriteString("FOR ")
	identText(dst, f.Alias)
	dst.WriteString(" IN ")
	f.Iterator.text(dst)
	dst.WriteString(" UNION ")
	f.Result.text(dst)
}

func (f *ForQuery) Equals(x Node) bool {
	xf, ok := x.(*ForQuery)
	return ok && f.Alias == xf.Alias &&
		f.Iterator.Equals(xf.Iterator) && f.Result.Equals(xf.Result)
}

func (f *ForQuery) Where() Span { return f.Span }

func (f *ForQuery) walk(v Visitor) {
	Walk(v, f.Iterator)
	Walk(v, f.Result)
}

// Block is a sequence of statements separated by
// semicolons.
type Block struct {
	Span Span

	Statements []Node
}

// Text returns the regenerated source of the whole block.
func (b *Block) Text() string {
	var dst strings.Builder
	b.text(&dst)
	return dst.String()
}

func (b *Block) text(dst *strings.Builder) {
	for i := range b.Statements {
		if i > 0 {
			dst.WriteString("; ")
		}
		b.Statements[i].text(dst)
	}
}

func (b *Block) Equals(x Node) bool {
	xb, ok := x.(*Block)
	return ok && slices.EqualFunc(b.Statements, xb.Statements, Equal)
}

func (b *Block) Where() Span { return b.Span }

func (b *Block) walk(v Visitor) {
	for i := range b.Statements {
		Walk(v, b.Statements[i])
	}
}
