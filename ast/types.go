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

// TypeName is a (possibly parametrized) named type
// expression: name or name<subtype, ...>.
type TypeName struct {
	Span Span

	// Maintype is the type name proper.
	Maintype *ObjectRef
	// Subtypes are the parametrization arguments, if any.
	// Elements are type expressions for named/typed
	// parametrizations, or constant nodes for literal
	// parametrizations (e.g. enum<'a', 'b'>); the two
	// kinds never mix.
	Subtypes []Node
	// Label is set when this type expression appears
	// as a named subtype (tuple<x: int64>).
	Label string
}

func (t *TypeName) text(dst *strings.Builder) {
	if t.Label != "" {
		identText(dst, t.Label)
		dst.WriteString(": ")
	}
	t.Maintype.text(dst)
	if len(t.Subtypes) > 0 {
		dst.WriteByte('<')
		for i := range t.Subtypes {
			if i > 0 {
				dst.WriteString(", ")
			}
			t.Subtypes[i].text(dst)
		}
		dst.WriteByte('>')
	}
}

func (t *TypeName) Equals(x Node) bool {
	xt, ok := x.(*TypeName)
	if !ok || t.Label != xt.Label || !t.Maintype.Equals(xt.Maintype) {
		return false
	}
	return slices.EqualFunc(t.Subtypes, xt.Subtypes, Equal)
}

func (t *TypeName) Where() Span { return t.Span }

func (t *TypeName) walk(v Visitor) {
	Walk(v, t.Maintype)
	for i := range t.Subtypes {
		Walk(v, t.Subtypes[i])
	}
}

// TypeOp combines two type expressions with | or &.
type TypeOp struct {
	Span Span

	Op    string // "|" or "&"
	Left  Node
	Right Node
	// Label is set when this type expression appears
	// as a named subtype.
	Label string
}

func (t *TypeOp) text(dst *strings.Builder) {
	if t.Label != "" {
		identText(dst, t.Label)
		dst.WriteString(": ")
	}
	typeOperand(dst, t.Left)
	dst.WriteByte(' ')
	dst.WriteString(t.Op)
	dst.WriteByte(' ')
	typeOperand(dst, t.Right)
}

// typeOperand parenthesizes nested type operators so
// the printed form reads back with the same shape.
func typeOperand(dst *strings.Builder, x Node) {
	if _, ok := x.(*TypeOp); ok {
		dst.WriteByte('(')
		x.text(dst)
		dst.WriteByte(')')
		return
	}
	x.text(dst)
}

func (t *TypeOp) Equals(x Node) bool {
	xt, ok := x.(*TypeOp)
	return ok && t.Op == xt.Op && t.Label == xt.Label &&
		t.Left.Equals(xt.Left) && t.Right.Equals(xt.Right)
}

func (t *TypeOp) Where() Span { return t.Span }

func (t *TypeOp) walk(v Visitor) {
	Walk(v, t.Left)
	Walk(v, t.Right)
}

// TypeOf is the type of an expression: TYPEOF expr.
type TypeOf struct {
	Span Span

	Expr Node
	// Label is set when this type expression appears
	// as a named subtype.
	Label string
}

func (t *TypeOf) text(dst *strings.Builder) {
	if t.Label != "" {
		identText(dst, t.Label)
		dst.WriteString(": ")
	}
	dst.WriteString("TYPEOF ")
	t.Expr.text(dst)
}

func (t *TypeOf) Equals(x Node) bool {
	xt, ok := x.(*TypeOf)
	return ok && t.Label == xt.Label && t.Expr.Equals(xt.Expr)
}

func (t *TypeOf) Where() Span { return t.Span }

func (t *TypeOf) walk(v Visitor) { Walk(v, t.Expr) }

// TypeCast applies a type to an expression: <type>expr.
type TypeCast struct {
	Span Span

	Type Node
	Expr Node
}

func (t *TypeCast) text(dst *strings.Builder) {
	dst.WriteByte('<')
	t.Type.text(dst)
	dst.WriteByte('>')
	// a dotted path after the cast would bind the
	// cast to its first step only
	if p, ok := t.Expr.(*Path); ok && len(p.Steps) > 1 {
		dst.WriteByte('(')
		t.Expr.text(dst)
		dst.WriteByte(')')
		return
	}
	t.Expr.text(dst)
}

func (t *TypeCast) Equals(x Node) bool {
	xt, ok := x.(*TypeCast)
	return ok && t.Type.Equals(xt.Type) && t.Expr.Equals(xt.Expr)
}

func (t *TypeCast) Where() Span { return t.Span }

func (t *TypeCast) walk(v Visitor) {
	Walk(v, t.Type)
	Walk(v, t.Expr)
}

// Introspect is a type introspection expression:
// INTROSPECT type.
type Introspect struct {
	Span Span

	Type Node
}

func (n *Introspect) text(dst *strings.Builder) {
	dst.WriteString("INTROSPECT ")
	n.Type.text(dst)
}

func (n *Introspect) Equals(x Node) bool {
	xn, ok := x.(*Introspect)
	return ok && n.Type.Equals(xn.Type)
}

func (n *Introspect) Where() Span { return n.Span }

func (n *Introspect) walk(v Visitor) { Walk(v, n.Type) }
