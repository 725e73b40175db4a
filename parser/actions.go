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

	"github.com/quelang/quel/ast"
	"github.com/quelang/quel/lr"
)

func spanOf(vals []lr.Value) ast.Span {
	if len(vals) == 0 {
		return ast.Span{}
	}
	return ast.Span{Start: vals[0].Start, End: vals[len(vals)-1].End}
}

func tk(v lr.Value) *Token {
	return v.Val.(*Token)
}

func node(v lr.Value) ast.Node {
	return v.Val.(ast.Node)
}

// nodes unpacks the value of a list nonterminal.
func nodes(v lr.Value) []ast.Node {
	elems := v.Val.([]lr.Value)
	out := make([]ast.Node, len(elems))
	for i := range elems {
		out[i] = node(elems[i])
	}
	return out
}

// isDunder reports whether name is shaped __name__.
func isDunder(name string) bool {
	return len(name) > 4 &&
		strings.HasPrefix(name, "__") && strings.HasSuffix(name, "__")
}

// actIdent produces an identifier's spelling, rejecting
// dunder-shaped spellings. Backtick-quoted identifiers
// are exempt: the quoting is the explicit way to spell
// such a name.
func actIdent(vals []lr.Value) (any, error) {
	t := tk(vals[0])
	name := t.str()
	if t.Text()[0] != '`' && isDunder(name) {
		return nil, errAt(vals, "identifiers surrounded by double underscores are forbidden")
	}
	return name, nil
}

// actQualifiedName splits mod1::mod2::name into the
// module path and the final name.
func actQualifiedName(vals []lr.Value) (any, error) {
	tail := vals[2].Val.([]lr.Value)
	parts := make([]string, 0, len(tail)+1)
	parts = append(parts, vals[0].Val.(string))
	for i := range tail {
		parts = append(parts, tail[i].Val.(string))
	}
	last := len(parts) - 1
	return &ast.ObjectRef{
		Span:   spanOf(vals),
		Module: strings.Join(parts[:last], "::"),
		Name:   parts[last],
	}, nil
}

// actPathExtend appends pointer or call steps to an
// expression. A path on the left grows in place; any
// other expression becomes the anchor of a new path.
func actPathExtend(vals []lr.Value) (any, error) {
	left := node(vals[0])
	steps := vals[1].Val.([]ast.Node)
	if p, ok := left.(*ast.Path); ok {
		p.Steps = append(p.Steps, steps...)
		p.Span = spanOf(vals)
		return p, nil
	}
	return &ast.Path{
		Span:  spanOf(vals),
		Steps: append([]ast.Node{left}, steps...),
	}, nil
}

// actTupleIndexFloat splits a float-shaped token after a
// '.' into two outbound pointer steps, so that x.1.2
// addresses element 2 of tuple element 1. Only the plain
// digits.digits spelling is a tuple index.
func actTupleIndexFloat(vals []lr.Value) (any, error) {
	text := tk(vals[1]).Text()
	before, after, ok := strings.Cut(text, ".")
	if !ok || !alldigits(before) || !alldigits(after) {
		return nil, errAt(vals, "invalid tuple index %q", text)
	}
	mid := vals[1].Start + uint32(len(before))
	return []ast.Node{
		&ast.Ptr{Span: ast.Span{Start: vals[0].Start, End: mid}, Name: before},
		&ast.Ptr{Span: ast.Span{Start: mid, End: vals[1].End}, Name: after},
	}, nil
}

func alldigits(s string) bool {
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

// argName is the value of a FuncArgName.
type argName struct {
	name    string
	isParam bool // spelled with a $ sigil
}

// funcArg is one parsed call argument, positional or
// named.
type funcArg struct {
	name  argName
	named bool
	expr  ast.Node
}

// actNamedArg builds a named argument, rejecting
// $-prefixed names.
func actNamedArg(vals []lr.Value) (any, error) {
	name := vals[0].Val.(argName)
	if name.isParam {
		if alldigits(name.name) {
			return nil, errAt(vals[:1], "numeric named arguments are not supported")
		}
		return nil, errAt(vals[:1],
			"named arguments do not need a '$' prefix, rewrite as '%s := ...'", name.name)
	}
	return funcArg{name: name, named: true, expr: node(vals[2])}, nil
}

// actFuncCall classifies the argument list of a call:
// positional arguments precede named ones, and each name
// appears at most once.
func actFuncCall(vals []lr.Value) (any, error) {
	args := vals[2].Val.([]lr.Value)
	call := &ast.FunctionCall{
		Span: spanOf(vals),
		Func: vals[0].Val.(*ast.ObjectRef),
	}
	lastNamed := ""
	for i := range args {
		arg := args[i].Val.(funcArg)
		if arg.named {
			if call.KwArgs == nil {
				call.KwArgs = make(map[string]ast.Node)
			}
			if _, dup := call.KwArgs[arg.name.name]; dup {
				return nil, errAt(args[i:i+1], "duplicate named argument `%s`", arg.name.name)
			}
			call.KwArgs[arg.name.name] = arg.expr
			lastNamed = arg.name.name
			continue
		}
		if lastNamed != "" {
			return nil, errAt(args[i:i+1],
				"positional argument after named argument `%s`", lastNamed)
		}
		call.Args = append(call.Args, arg.expr)
	}
	return call, nil
}

// actSubtypes attaches a parametrization list to a type
// name. A list is either all literal arguments or all
// type arguments, and type arguments are either all
// named or all unnamed.
func actSubtypes(vals []lr.Value) (any, error) {
	name := vals[0].Val.(*ast.TypeName)
	elems := vals[2].Val.([]lr.Value)
	literals, named, unnamed := 0, 0, 0
	for i := range elems {
		switch t := elems[i].Val.(ast.Node).(type) {
		case *ast.TypeName:
			typeArg(t.Label, &named, &unnamed)
		case *ast.TypeOp:
			typeArg(t.Label, &named, &unnamed)
		case *ast.TypeOf:
			typeArg(t.Label, &named, &unnamed)
		default:
			literals++
		}
	}
	if literals > 0 && named+unnamed > 0 {
		return nil, errAt(vals, "subtype declarations cannot be mixed with literal type arguments")
	}
	if named > 0 && unnamed > 0 {
		return nil, errAt(vals, "mixing named and unnamed subtype declarations is not supported")
	}
	name.Subtypes = nodes(vals[2])
	name.Span = spanOf(vals)
	return name, nil
}

func typeArg(label string, named, unnamed *int) {
	if label != "" {
		*named++
	} else {
		*unnamed++
	}
}

// actLabeledSubtype attaches a label to a type
// expression appearing as a named subtype.
func actLabeledSubtype(vals []lr.Value) (any, error) {
	label := vals[0].Val.(string)
	switch t := node(vals[2]).(type) {
	case *ast.TypeName:
		t.Label = label
		t.Span = spanOf(vals)
		return t, nil
	case *ast.TypeOp:
		t.Label = label
		t.Span = spanOf(vals)
		return t, nil
	case *ast.TypeOf:
		t.Label = label
		t.Span = spanOf(vals)
		return t, nil
	}
	return nil, errAt(vals, "unexpected named subtype")
}
