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

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Span is a half-open byte range [Start, End)
// into the source text from which a node was parsed.
// Spans exist for diagnostics only; Equals ignores them.
type Span struct {
	Start uint32
	End   uint32
}

// Node is a query AST node.
type Node interface {
	// text writes the surface syntax of the node to dst.
	text(dst *strings.Builder)

	// Equals returns whether this node is structurally
	// equivalent to another node. Source spans are ignored.
	Equals(Node) bool

	// Where returns the source span of the node.
	Where() Span

	walk(Visitor)
}

// Visitor is the interface accepted by Walk.
//
// A Visitor's Visit method is invoked for each node
// encountered by Walk. If the returned visitor w is not
// nil, Walk visits each child of the node with w,
// followed by a call of w.Visit(nil).
type Visitor interface {
	Visit(Node) Visitor
}

// Walk traverses an AST in depth-first order.
func Walk(v Visitor, n Node) {
	w := v.Visit(n)
	if w != nil {
		n.walk(w)
		w.Visit(nil)
	}
}

// ToString returns the regenerated surface syntax of a node.
func ToString(n Node) string {
	if n == nil {
		return "<nil>"
	}
	var dst strings.Builder
	n.text(&dst)
	return dst.String()
}

// Equal returns whether a and b are structurally equivalent.
// a or b may be nil.
func Equal(a, b Node) bool {
	if a == nil {
		return b == nil
	}
	return b != nil && a.Equals(b)
}

// PtrDir is the traversal direction of a pointer step.
type PtrDir uint8

const (
	// Outbound follows a link or property forward.
	Outbound PtrDir = iota
	// Inbound follows a link backward.
	Inbound
)

func (d PtrDir) String() string {
	if d == Inbound {
		return "inbound"
	}
	return "outbound"
}

// Ptr is one pointer traversal step in a path.
type Ptr struct {
	Span Span

	// Name is the link or property name.
	Name string
	// Direction is the traversal direction.
	Direction PtrDir
	// Property marks a link-property step (spelled @name).
	Property bool
}

func (p *Ptr) text(dst *strings.Builder) {
	switch {
	case p.Property:
		dst.WriteByte('@')
	case p.Direction == Inbound:
		dst.WriteString(".<")
	default:
		dst.WriteByte('.')
	}
	// tuple index steps and the __type__ step are
	// legal bare even though neither is an identifier
	if tupleIndex(p.Name) || p.Name == "__type__" {
		dst.WriteString(p.Name)
		return
	}
	identText(dst, p.Name)
}

func tupleIndex(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func (p *Ptr) Equals(x Node) bool {
	xp, ok := x.(*Ptr)
	return ok && p.Name == xp.Name &&
		p.Direction == xp.Direction && p.Property == xp.Property
}

func (p *Ptr) Where() Span { return p.Span }

func (p *Ptr) walk(v Visitor) {}

// ObjectRef is a reference to a schema object,
// optionally qualified with a module path.
type ObjectRef struct {
	Span Span

	// Module is the :: -joined module path,
	// or "" when the reference is unqualified.
	Module string
	// Name is the final name.
	Name string
}

func (o *ObjectRef) text(dst *strings.Builder) {
	if o.Module != "" {
		for _, part := range strings.Split(o.Module, "::") {
			identText(dst, part)
			dst.WriteString("::")
		}
	}
	identText(dst, o.Name)
}

func (o *ObjectRef) Equals(x Node) bool {
	xo, ok := x.(*ObjectRef)
	return ok && o.Module == xo.Module && o.Name == xo.Name
}

func (o *ObjectRef) Where() Span { return o.Span }

func (o *ObjectRef) walk(v Visitor) {}

// Path is a path expression: an anchor expression
// followed by zero or more traversal steps.
//
// Steps[0] is the anchor and may be any expression
// (an *ObjectRef for ordinary names); the remaining
// steps are *Ptr pointer steps or *FunctionCall
// call steps.
type Path struct {
	Span Span

	Steps []Node
	// Partial marks an anchorless path (one that
	// begins with a bare pointer step).
	Partial bool
}

func (p *Path) text(dst *strings.Builder) {
	for i := range p.Steps {
		if i == 0 {
			// the special anchors are legal bare only
			// in anchor position
			if o, ok := p.Steps[0].(*ObjectRef); ok && o.Module == "" && anchorName(o.Name) {
				dst.WriteString(o.Name)
				continue
			}
			// an anchor that ends in a bare integer would
			// fuse with a following tuple-index step into
			// a float literal, and a TYPEOF operand would
			// absorb the following steps
			if len(p.Steps) > 1 && (endsInInteger(p.Steps[0]) || openAnchor(p.Steps[0])) {
				dst.WriteByte('(')
				p.Steps[0].text(dst)
				dst.WriteByte(')')
				continue
			}
		} else if _, ok := p.Steps[i].(*FunctionCall); ok {
			dst.WriteByte('.')
		}
		p.Steps[i].text(dst)
	}
}

func endsInInteger(n Node) bool {
	switch t := n.(type) {
	case *IntegerConstant:
		return true
	case *TypeCast:
		// a multi-step path operand prints parenthesized
		if p, ok := t.Expr.(*Path); ok && len(p.Steps) > 1 {
			return false
		}
		return endsInInteger(t.Expr)
	case *Introspect:
		return endsInInteger(t.Type)
	case *TypeOf:
		return endsInInteger(t.Expr)
	case *Path:
		if len(t.Steps) == 0 {
			return false
		}
		last := t.Steps[len(t.Steps)-1]
		if p, ok := last.(*Ptr); ok {
			return tupleIndex(p.Name)
		}
		if len(t.Steps) == 1 {
			return endsInInteger(last)
		}
	}
	return false
}

// openAnchor reports whether the printed form of an
// anchor ends in a TYPEOF operand, which would claim any
// path steps written after it.
func openAnchor(n Node) bool {
	switch t := n.(type) {
	case *TypeOf:
		return true
	case *Introspect:
		return openAnchor(t.Type)
	case *TypeCast:
		if p, ok := t.Expr.(*Path); ok && len(p.Steps) > 1 {
			return false
		}
		return openAnchor(t.Expr)
	}
	return false
}

func anchorName(s string) bool {
	return s == "__source__" || s == "__subject__" || s == "__type__"
}

func (p *Path) Equals(x Node) bool {
	xp, ok := x.(*Path)
	if !ok || p.Partial != xp.Partial {
		return false
	}
	return slices.EqualFunc(p.Steps, xp.Steps, Equal)
}

func (p *Path) Where() Span { return p.Span }

func (p *Path) walk(v Visitor) {
	for i := range p.Steps {
		Walk(v, p.Steps[i])
	}
}

// FunctionCall is a call expression with ordered
// positional arguments and named keyword arguments.
type FunctionCall struct {
	Span Span

	// Func is the callee name.
	Func *ObjectRef
	// Args are the positional arguments, in order.
	Args []Node
	// KwArgs maps argument names to values.
	KwArgs map[string]Node
}

func (f *FunctionCall) text(dst *strings.Builder) {
	f.Func.text(dst)
	dst.WriteByte('(')
	for i := range f.Args {
		if i > 0 {
			dst.WriteString(", ")
		}
		f.Args[i].text(dst)
	}
	names := maps.Keys(f.KwArgs)
	slices.Sort(names)
	for i, name := range names {
		if i > 0 || len(f.Args) > 0 {
			dst.WriteString(", ")
		}
		identText(dst, name)
		dst.WriteString(" := ")
		f.KwArgs[name].text(dst)
	}
	dst.WriteByte(')')
}

func (f *FunctionCall) Equals(x Node) bool {
	xf, ok := x.(*FunctionCall)
	if !ok || !f.Func.Equals(xf.Func) {
		return false
	}
	if !slices.EqualFunc(f.Args, xf.Args, Equal) {
		return false
	}
	if len(f.KwArgs) != len(xf.KwArgs) {
		return false
	}
	for name, val := range f.KwArgs {
		other, ok := xf.KwArgs[name]
		if !ok || !val.Equals(other) {
			return false
		}
	}
	return true
}

func (f *FunctionCall) Where() Span { return f.Span }

func (f *FunctionCall) walk(v Visitor) {
	for i := range f.Args {
		Walk(v, f.Args[i])
	}
	names := maps.Keys(f.KwArgs)
	slices.Sort(names)
	for _, name := range names {
		Walk(v, f.KwArgs[name])
	}
}

// Set is a set literal {a, b, ...}.
type Set struct {
	Span Span

	Elements []Node
}

func (s *Set) text(dst *strings.Builder) {
	dst.WriteByte('{')
	for i := range s.Elements {
		if i > 0 {
			dst.WriteString(", ")
		}
		s.Elements[i].text(dst)
	}
	dst.WriteByte('}')
}

func (s *Set) Equals(x Node) bool {
	xs, ok := x.(*Set)
	return ok && slices.EqualFunc(s.Elements, xs.Elements, Equal)
}

func (s *Set) Where() Span { return s.Span }

func (s *Set) walk(v Visitor) {
	for i := range s.Elements {
		Walk(v, s.Elements[i])
	}
}
