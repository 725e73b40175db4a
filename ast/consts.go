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
	"bytes"
	"strconv"
	"strings"
)

// IntegerConstant is an integer literal.
type IntegerConstant struct {
	Span Span

	Value int64
}

func (c *IntegerConstant) text(dst *strings.Builder) {
	dst.WriteString(strconv.FormatInt(c.Value, 10))
}

func (c *IntegerConstant) Equals(x Node) bool {
	xc, ok := x.(*IntegerConstant)
	return ok && c.Value == xc.Value
}

func (c *IntegerConstant) Where() Span { return c.Span }

func (c *IntegerConstant) walk(v Visitor) {}

// FloatConstant is a float literal.
// Text preserves the source spelling so that
// regeneration round-trips exponents.
type FloatConstant struct {
	Span Span

	Value float64
	Text  string
}

func (c *FloatConstant) text(dst *strings.Builder) {
	if c.Text != "" {
		dst.WriteString(c.Text)
		return
	}
	dst.WriteString(strconv.FormatFloat(c.Value, 'g', -1, 64))
}

func (c *FloatConstant) Equals(x Node) bool {
	xc, ok := x.(*FloatConstant)
	return ok && c.Value == xc.Value
}

func (c *FloatConstant) Where() Span { return c.Span }

func (c *FloatConstant) walk(v Visitor) {}

// BigintConstant is an arbitrary-precision integer
// literal (spelled with an n suffix). Value holds the
// digit string without the suffix.
type BigintConstant struct {
	Span Span

	Value string
}

func (c *BigintConstant) text(dst *strings.Builder) {
	dst.WriteString(c.Value)
	dst.WriteByte('n')
}

func (c *BigintConstant) Equals(x Node) bool {
	xc, ok := x.(*BigintConstant)
	return ok && c.Value == xc.Value
}

func (c *BigintConstant) Where() Span { return c.Span }

func (c *BigintConstant) walk(v Visitor) {}

// DecimalConstant is an arbitrary-precision decimal
// literal (spelled with an n suffix). Value holds the
// spelling without the suffix.
type DecimalConstant struct {
	Span Span

	Value string
}

func (c *DecimalConstant) text(dst *strings.Builder) {
	dst.WriteString(c.Value)
	dst.WriteByte('n')
}

func (c *DecimalConstant) Equals(x Node) bool {
	xc, ok := x.(*DecimalConstant)
	return ok && c.Value == xc.Value
}

func (c *DecimalConstant) Where() Span { return c.Span }

func (c *DecimalConstant) walk(v Visitor) {}

// StringConstant is a string literal with escape
// sequences already resolved.
type StringConstant struct {
	Span Span

	Value string
}

func (c *StringConstant) text(dst *strings.Builder) {
	quote(dst, c.Value)
}

func (c *StringConstant) Equals(x Node) bool {
	xc, ok := x.(*StringConstant)
	return ok && c.Value == xc.Value
}

func (c *StringConstant) Where() Span { return c.Span }

func (c *StringConstant) walk(v Visitor) {}

// BytesConstant is a bytes literal b'...'.
type BytesConstant struct {
	Span Span

	Value []byte
}

func (c *BytesConstant) text(dst *strings.Builder) {
	dst.WriteByte('b')
	quoteBytes(dst, c.Value)
}

func (c *BytesConstant) Equals(x Node) bool {
	xc, ok := x.(*BytesConstant)
	return ok && bytes.Equal(c.Value, xc.Value)
}

func (c *BytesConstant) Where() Span { return c.Span }

func (c *BytesConstant) walk(v Visitor) {}

// BooleanConstant is true or false.
type BooleanConstant struct {
	Span Span

	Value bool
}

func (c *BooleanConstant) text(dst *strings.Builder) {
	if c.Value {
		dst.WriteString("true")
	} else {
		dst.WriteString("false")
	}
}

func (c *BooleanConstant) Equals(x Node) bool {
	xc, ok := x.(*BooleanConstant)
	return ok && c.Value == xc.Value
}

func (c *BooleanConstant) Where() Span { return c.Span }

func (c *BooleanConstant) walk(v Visitor) {}

// Parameter is a query parameter reference $name.
// Name holds the spelling without the sigil.
type Parameter struct {
	Span Span

	Name string
}

func (p *Parameter) text(dst *strings.Builder) {
	dst.WriteByte('$')
	dst.WriteString(p.Name)
}

func (p *Parameter) Equals(x Node) bool {
	xp, ok := x.(*Parameter)
	return ok && p.Name == xp.Name
}

func (p *Parameter) Where() Span { return p.Span }

func (p *Parameter) walk(v Visitor) {}
