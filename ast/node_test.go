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
	"testing"
)

func TestToString(t *testing.T) {
	tests := []struct {
		node Node
		want string
	}{
		{&ObjectRef{Name: "a"}, "a"},
		{&ObjectRef{Module: "mod1::mod2", Name: "a"}, "mod1::mod2::a"},
		{&ObjectRef{Name: "select"}, "`select`"},
		{&ObjectRef{Name: "Select"}, "`Select`"},
		{&ObjectRef{Name: "__foo__"}, "`__foo__`"},
		{&ObjectRef{Module: "select", Name: "x"}, "`select`::x"},
		{&Ptr{Name: "b"}, ".b"},
		{&Ptr{Name: "b", Direction: Inbound}, ".<b"},
		{&Ptr{Name: "b", Property: true}, "@b"},
		{&Ptr{Name: "1"}, ".1"},
		{&Ptr{Name: "__type__"}, ".__type__"},
		{&Ptr{Name: "order"}, ".`order`"},
		{
			&Path{Steps: []Node{&ObjectRef{Name: "a"}, &Ptr{Name: "b"}}},
			"a.b",
		},
		{
			&Path{Steps: []Node{&ObjectRef{Name: "__source__"}, &Ptr{Name: "b"}}},
			"__source__.b",
		},
		{
			&Path{Steps: []Node{
				&ObjectRef{Name: "a"},
				&FunctionCall{Func: &ObjectRef{Name: "b"}},
			}},
			"a.b()",
		},
		{&Path{Steps: []Node{&Ptr{Name: "b"}}, Partial: true}, ".b"},
		{
			&FunctionCall{
				Func: &ObjectRef{Name: "f"},
				Args: []Node{&IntegerConstant{Value: 1}},
				KwArgs: map[string]Node{
					"b": &IntegerConstant{Value: 3},
					"a": &IntegerConstant{Value: 2},
				},
			},
			"f(1, a := 2, b := 3)", // named arguments print sorted
		},
		{&Set{}, "{}"},
		{
			&Set{Elements: []Node{&IntegerConstant{Value: 1}, &StringConstant{Value: "x"}}},
			"{1, 'x'}",
		},
		{&IntegerConstant{Value: 42}, "42"},
		{&FloatConstant{Value: 1000, Text: "1e3"}, "1e3"},
		{&BigintConstant{Value: "123"}, "123n"},
		{&DecimalConstant{Value: "1.5"}, "1.5n"},
		{&StringConstant{Value: "a\nb"}, `'a\nb'`},
		{&StringConstant{Value: `a\b`}, `'a\\b'`},
		{&StringConstant{Value: "a\x01b"}, `'a\u0001b'`},
		{&BytesConstant{Value: []byte{'a', 0xff}}, `b'a\xff'`},
		{&BooleanConstant{Value: true}, "true"},
		{&BooleanConstant{}, "false"},
		{&Parameter{Name: "p"}, "$p"},
		{&SelectQuery{Result: &ObjectRef{Name: "a"}}, "SELECT a"},
		{
			&ForQuery{
				Alias:    "x",
				Iterator: &Set{Elements: []Node{&IntegerConstant{Value: 1}}},
				Result:   &ObjectRef{Name: "x"},
			},
			"FOR x IN {1} UNION x",
		},
		{
			&TypeName{
				Maintype: &ObjectRef{Name: "tuple"},
				Subtypes: []Node{
					&TypeName{Maintype: &ObjectRef{Name: "int64"}, Label: "a"},
					&TypeName{Maintype: &ObjectRef{Name: "str"}, Label: "b"},
				},
			},
			"tuple<a: int64, b: str>",
		},
		{
			&TypeOp{
				Op:    "&",
				Left:  &TypeOp{Op: "|", Left: typeRef("a"), Right: typeRef("b")},
				Right: typeRef("c"),
			},
			"(a | b) & c",
		},
		{&TypeOf{Expr: &ObjectRef{Name: "x"}}, "TYPEOF x"},
		{
			&TypeCast{Type: typeRef("int64"), Expr: &ObjectRef{Name: "x"}},
			"<int64>x",
		},
		{
			&TypeCast{
				Type: typeRef("T"),
				Expr: &Path{Steps: []Node{&ObjectRef{Name: "a"}, &Ptr{Name: "b"}}},
			},
			"<T>(a.b)",
		},
		{&Introspect{Type: typeRef("int64")}, "INTROSPECT int64"},
	}
	for _, tc := range tests {
		if got := ToString(tc.node); got != tc.want {
			t.Errorf("got %q, want %q", got, tc.want)
		}
	}
}

func typeRef(name string) *TypeName {
	return &TypeName{Maintype: &ObjectRef{Name: name}}
}

func TestEquals(t *testing.T) {
	a := &Path{Steps: []Node{&ObjectRef{Name: "a"}, &Ptr{Name: "b"}}}
	b := &Path{
		Span:  Span{Start: 10, End: 13}, // spans are ignored
		Steps: []Node{&ObjectRef{Name: "a"}, &Ptr{Name: "b"}},
	}
	if !Equal(a, b) {
		t.Error("equal paths do not compare equal")
	}
	diff := []Node{
		&Path{Steps: []Node{&ObjectRef{Name: "a"}}},
		&Path{Steps: []Node{&ObjectRef{Name: "a"}, &Ptr{Name: "c"}}},
		&Path{Steps: []Node{&ObjectRef{Name: "a"}, &Ptr{Name: "b", Direction: Inbound}}},
		&Path{Steps: []Node{&ObjectRef{Name: "a"}, &Ptr{Name: "b", Property: true}}},
		&Path{Steps: []Node{&ObjectRef{Name: "a"}, &Ptr{Name: "b"}}, Partial: true},
		&ObjectRef{Name: "a"},
	}
	for _, x := range diff {
		if Equal(a, x) {
			t.Errorf("%s compares equal to %s", ToString(a), ToString(x))
		}
	}

	if !Equal(nil, nil) {
		t.Error("nil != nil")
	}
	if Equal(a, nil) || Equal(nil, a) {
		t.Error("node compares equal to nil")
	}

	f := &FunctionCall{
		Func:   &ObjectRef{Name: "f"},
		KwArgs: map[string]Node{"a": &IntegerConstant{Value: 1}},
	}
	g := &FunctionCall{
		Func:   &ObjectRef{Name: "f"},
		KwArgs: map[string]Node{"a": &IntegerConstant{Value: 2}},
	}
	if Equal(f, g) {
		t.Error("calls with different named arguments compare equal")
	}
}

func TestWalk(t *testing.T) {
	node := &SelectQuery{
		Result: &Path{Steps: []Node{
			&ObjectRef{Name: "a"},
			&FunctionCall{
				Func: &ObjectRef{Name: "b"},
				Args: []Node{&IntegerConstant{Value: 1}},
			},
		}},
	}
	count := 0
	Walk(visitFunc(func(Node) bool {
		count++
		return true
	}), node)
	// SelectQuery, Path, ObjectRef a, FunctionCall,
	// ObjectRef b, IntegerConstant
	if count != 6 {
		t.Errorf("visited %d nodes, want 6", count)
	}

	count = 0
	Walk(visitFunc(func(Node) bool {
		count++
		return false
	}), node)
	if count != 1 {
		t.Errorf("non-descending visitor saw %d nodes, want 1", count)
	}
}

// visitFunc counts non-nil nodes; Visit(nil) marks the
// end of a subtree and is ignored.
type visitFunc func(Node) bool

func (f visitFunc) Visit(n Node) Visitor {
	if n == nil {
		return nil
	}
	if f(n) {
		return f
	}
	return nil
}

func TestQuoteUnescape(t *testing.T) {
	inputs := []string{
		"",
		"plain",
		"with 'quotes' and \\slashes\\",
		"tabs\tand\nnewlines",
		"nul \x01 ctl",
		"unicode é \U0001f600",
	}
	for _, in := range inputs {
		q := Quote(in)
		got, err := Unescape([]byte(q[1 : len(q)-1]))
		if err != nil {
			t.Errorf("Unescape(Quote(%q)): %s", in, err)
			continue
		}
		if got != in {
			t.Errorf("Quote/Unescape of %q produced %q", in, got)
		}
	}
	if _, err := Unescape([]byte(`bad \q escape`)); err == nil {
		t.Error("unknown escape did not error")
	}
	if _, err := Unescape([]byte(`no \x41 in strings`)); err == nil {
		t.Error(`\x escape in a string literal did not error`)
	}
	if _, err := UnescapeBytes([]byte(`no \u0041 in bytes`)); err == nil {
		t.Error(`\u escape in a bytes literal did not error`)
	}

	b, err := UnescapeBytes([]byte(`a\xffb`))
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "a\xffb" {
		t.Errorf("bytes unescape produced %q", b)
	}
}

func TestWhere(t *testing.T) {
	n := &ObjectRef{Span: Span{Start: 3, End: 7}, Name: "a"}
	if n.Where() != (Span{Start: 3, End: 7}) {
		t.Errorf("Where() = %v", n.Where())
	}
}
